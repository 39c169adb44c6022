package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/studyloop/studyloop-backend/internal/model"
	"github.com/studyloop/studyloop-backend/internal/response"
	"github.com/studyloop/studyloop-backend/internal/service"
	"github.com/studyloop/studyloop-backend/internal/validator"
)

// AdminUserHandler handles admin account management endpoints.
type AdminUserHandler struct {
	adminService *service.AdminUserService
	log          zerolog.Logger
}

// NewAdminUserHandler creates a new AdminUserHandler.
func NewAdminUserHandler(adminService *service.AdminUserService, log zerolog.Logger) *AdminUserHandler {
	return &AdminUserHandler{
		adminService: adminService,
		log:          log.With().Str("component", "admin_user_handler").Logger(),
	}
}

func parseIntParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

// List handles GET /api/v1/admin/admins with ?page=&per_page=&role_id=.
func (h *AdminUserHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "25"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 25
	}

	var roleID *int
	if raw := c.Query("role_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		roleID = &id
	}

	admins, total, err := h.adminService.ListAdmins(c.Request.Context(), page, perPage, roleID)
	if err != nil {
		h.log.Error().Err(err).Msg("List admins failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	totalPages := (total + perPage - 1) / perPage
	response.SuccessWithPagination(c, http.StatusOK, admins, &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

// Get handles GET /api/v1/admin/admins/:admin_id.
func (h *AdminUserHandler) Get(c *gin.Context) {
	adminID, ok := parseIntParam(c, "admin_id")
	if !ok {
		return
	}

	admin, err := h.adminService.GetAdmin(c.Request.Context(), adminID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		h.log.Error().Err(err).Msg("Get admin failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, admin)
}

// Create handles POST /api/v1/admin/admins.
func (h *AdminUserHandler) Create(c *gin.Context) {
	var req model.CreateAdminRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	admin, err := h.adminService.CreateAdmin(c.Request.Context(), &req)
	if err != nil {
		h.log.Error().Err(err).Msg("Create admin failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, admin)
}

// Update handles PUT /api/v1/admin/admins/:admin_id.
func (h *AdminUserHandler) Update(c *gin.Context) {
	adminID, ok := parseIntParam(c, "admin_id")
	if !ok {
		return
	}

	var req model.UpdateAdminRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.adminService.UpdateAdmin(c.Request.Context(), adminID, &req); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		h.log.Error().Err(err).Msg("Update admin failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

// Delete handles DELETE /api/v1/admin/admins/:admin_id.
func (h *AdminUserHandler) Delete(c *gin.Context) {
	adminID, ok := parseIntParam(c, "admin_id")
	if !ok {
		return
	}

	if err := h.adminService.DeleteAdmin(c.Request.Context(), adminID); err != nil {
		h.log.Error().Err(err).Msg("Delete admin failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
