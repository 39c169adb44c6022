package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/studyloop/studyloop-backend/internal/model"
	"github.com/studyloop/studyloop-backend/internal/response"
	"github.com/studyloop/studyloop-backend/internal/service"
	"github.com/studyloop/studyloop-backend/internal/validator"
)

// AdminRoleHandler handles role and permission management endpoints.
type AdminRoleHandler struct {
	roleService *service.AdminRoleService
	log         zerolog.Logger
}

// NewAdminRoleHandler creates a new AdminRoleHandler.
func NewAdminRoleHandler(roleService *service.AdminRoleService, log zerolog.Logger) *AdminRoleHandler {
	return &AdminRoleHandler{
		roleService: roleService,
		log:         log.With().Str("component", "admin_role_handler").Logger(),
	}
}

// List handles GET /api/v1/admin/roles.
func (h *AdminRoleHandler) List(c *gin.Context) {
	roles, err := h.roleService.ListRoles(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("List roles failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, roles)
}

// Get handles GET /api/v1/admin/roles/:role_id.
func (h *AdminRoleHandler) Get(c *gin.Context) {
	roleID, ok := parseIntParam(c, "role_id")
	if !ok {
		return
	}

	role, err := h.roleService.GetRole(c.Request.Context(), roleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		h.log.Error().Err(err).Msg("Get role failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, role)
}

// ListPermissions handles GET /api/v1/admin/permissions.
func (h *AdminRoleHandler) ListPermissions(c *gin.Context) {
	response.Success(c, http.StatusOK, h.roleService.ListPermissions(c.Request.Context()))
}

// Create handles POST /api/v1/admin/roles.
func (h *AdminRoleHandler) Create(c *gin.Context) {
	var req model.CreateRoleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	role, err := h.roleService.CreateRole(c.Request.Context(), &req)
	if err != nil {
		h.log.Error().Err(err).Msg("Create role failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, role)
}

// Update handles PUT /api/v1/admin/roles/:role_id.
func (h *AdminRoleHandler) Update(c *gin.Context) {
	roleID, ok := parseIntParam(c, "role_id")
	if !ok {
		return
	}

	var req model.CreateRoleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	role, err := h.roleService.UpdateRole(c.Request.Context(), roleID, &req)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		h.log.Error().Err(err).Msg("Update role failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, role)
}

// Delete handles DELETE /api/v1/admin/roles/:role_id.
func (h *AdminRoleHandler) Delete(c *gin.Context) {
	roleID, ok := parseIntParam(c, "role_id")
	if !ok {
		return
	}

	if err := h.roleService.DeleteRole(c.Request.Context(), roleID); err != nil {
		h.log.Error().Err(err).Msg("Delete role failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
