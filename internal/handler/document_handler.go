package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/studyloop/studyloop-backend/internal/response"
	"github.com/studyloop/studyloop-backend/internal/service"
)

// DocumentHandler handles course document endpoints.
type DocumentHandler struct {
	documentService *service.DocumentService
	log             zerolog.Logger
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService *service.DocumentService, log zerolog.Logger) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		log:             log.With().Str("component", "document_handler").Logger(),
	}
}

// List handles GET /api/v1/admin/documents and the learner catalog variant.
// An optional ?course_id= query scopes the list.
func (h *DocumentHandler) List(c *gin.Context) {
	var courseID *uuid.UUID
	if raw := c.Query("course_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		courseID = &id
	}

	docs, err := h.documentService.ListDocuments(c.Request.Context(), courseID)
	if err != nil {
		h.log.Error().Err(err).Msg("List documents failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, docs)
}

// Upload handles POST /api/v1/admin/documents (multipart form).
// Fields: file, title, optional course_id.
func (h *DocumentHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	title := c.PostForm("title")
	if title == "" {
		title = header.Filename
	}

	var courseID *uuid.UUID
	if raw := c.PostForm("course_id"); raw != "" {
		id, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		courseID = &id
	}

	doc, err := h.documentService.Upload(c.Request.Context(), file, header, title, courseID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedFileType):
			response.Fail(c, http.StatusUnsupportedMediaType, response.ErrUnsupportedFile)
		case errors.Is(err, service.ErrFileTooLarge):
			response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		default:
			h.log.Error().Err(err).Msg("Upload document failed")
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, doc)
}

// Delete handles DELETE /api/v1/admin/documents/:document_id.
func (h *DocumentHandler) Delete(c *gin.Context) {
	documentID, ok := parseUUIDParam(c, "document_id")
	if !ok {
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), documentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		h.log.Error().Err(err).Msg("Delete document failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
