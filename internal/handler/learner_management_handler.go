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

// LearnerManagementHandler handles the admin surface for learner accounts.
type LearnerManagementHandler struct {
	learnerService *service.LearnerService
	log            zerolog.Logger
}

// NewLearnerManagementHandler creates a new LearnerManagementHandler.
func NewLearnerManagementHandler(learnerService *service.LearnerService, log zerolog.Logger) *LearnerManagementHandler {
	return &LearnerManagementHandler{
		learnerService: learnerService,
		log:            log.With().Str("component", "learner_management_handler").Logger(),
	}
}

// List handles GET /api/v1/admin/learners with ?page=&per_page=&search=.
func (h *LearnerManagementHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "25"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 25
	}

	learners, total, err := h.learnerService.ListLearners(c.Request.Context(), page, perPage, c.Query("search"))
	if err != nil {
		h.log.Error().Err(err).Msg("List learners failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	totalPages := (total + perPage - 1) / perPage
	response.SuccessWithPagination(c, http.StatusOK, learners, &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

// Get handles GET /api/v1/admin/learners/:learner_id.
func (h *LearnerManagementHandler) Get(c *gin.Context) {
	learnerID, ok := parseUUIDParam(c, "learner_id")
	if !ok {
		return
	}

	learner, err := h.learnerService.GetLearner(c.Request.Context(), learnerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		h.log.Error().Err(err).Msg("Get learner failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, learner)
}

// Create handles POST /api/v1/admin/learners.
func (h *LearnerManagementHandler) Create(c *gin.Context) {
	var req model.CreateLearnerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	learner, err := h.learnerService.CreateLearner(c.Request.Context(), &req)
	if err != nil {
		h.log.Error().Err(err).Msg("Create learner failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, learner)
}

// Update handles PUT /api/v1/admin/learners/:learner_id.
func (h *LearnerManagementHandler) Update(c *gin.Context) {
	learnerID, ok := parseUUIDParam(c, "learner_id")
	if !ok {
		return
	}

	var req model.UpdateLearnerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.learnerService.UpdateLearner(c.Request.Context(), learnerID, &req); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		h.log.Error().Err(err).Msg("Update learner failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

// Delete handles DELETE /api/v1/admin/learners/:learner_id.
func (h *LearnerManagementHandler) Delete(c *gin.Context) {
	learnerID, ok := parseUUIDParam(c, "learner_id")
	if !ok {
		return
	}

	if err := h.learnerService.DeleteLearner(c.Request.Context(), learnerID); err != nil {
		h.log.Error().Err(err).Msg("Delete learner failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ResetSession handles POST /api/v1/admin/learners/:learner_id/reset-session.
// Clears the learner's single-device session so they can log in again.
func (h *LearnerManagementHandler) ResetSession(c *gin.Context) {
	learnerID, ok := parseUUIDParam(c, "learner_id")
	if !ok {
		return
	}

	if err := h.learnerService.ResetSession(c.Request.Context(), learnerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		h.log.Error().Err(err).Msg("Reset session failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reset": true})
}
