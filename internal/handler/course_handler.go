package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/studyloop/studyloop-backend/internal/model"
	"github.com/studyloop/studyloop-backend/internal/response"
	"github.com/studyloop/studyloop-backend/internal/service"
	"github.com/studyloop/studyloop-backend/internal/validator"
)

// CourseHandler handles admin course, chapter and lesson endpoints.
type CourseHandler struct {
	courseService *service.CourseService
	log           zerolog.Logger
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courseService *service.CourseService, log zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
		log:           log.With().Str("component", "course_handler").Logger(),
	}
}

// parseUUIDParam parses a UUID path parameter, responding with INVALID_ID on
// failure. The bool result reports success.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

// ─── Courses ───

// ListCourses handles GET /api/v1/admin/courses.
func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.courseService.ListCourses(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("List courses failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, courses)
}

// GetCourse handles GET /api/v1/admin/courses/:course_id.
func (h *CourseHandler) GetCourse(c *gin.Context) {
	courseID, ok := parseUUIDParam(c, "course_id")
	if !ok {
		return
	}

	outline, err := h.courseService.GetCourseOutline(c.Request.Context(), courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		h.log.Error().Err(err).Msg("Get course failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, outline)
}

// CreateCourse handles POST /api/v1/admin/courses.
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req model.CreateCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	course, err := h.courseService.CreateCourse(c.Request.Context(), &req)
	if err != nil {
		h.log.Error().Err(err).Msg("Create course failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, course)
}

// UpdateCourse handles PUT /api/v1/admin/courses/:course_id.
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	courseID, ok := parseUUIDParam(c, "course_id")
	if !ok {
		return
	}

	var req model.CreateCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.courseService.UpdateCourse(c.Request.Context(), courseID, req.Title, req.Description); err != nil {
		h.log.Error().Err(err).Msg("Update course failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

// DeleteCourse handles DELETE /api/v1/admin/courses/:course_id.
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	courseID, ok := parseUUIDParam(c, "course_id")
	if !ok {
		return
	}

	if err := h.courseService.DeleteCourse(c.Request.Context(), courseID); err != nil {
		h.log.Error().Err(err).Msg("Delete course failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ─── Chapters ───

// CreateChapter handles POST /api/v1/admin/courses/:course_id/chapters.
func (h *CourseHandler) CreateChapter(c *gin.Context) {
	courseID, ok := parseUUIDParam(c, "course_id")
	if !ok {
		return
	}

	var req model.CreateChapterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	chapter, err := h.courseService.CreateChapter(c.Request.Context(), courseID, &req)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		h.log.Error().Err(err).Msg("Create chapter failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, chapter)
}

// UpdateChapter handles PUT /api/v1/admin/chapters/:chapter_id.
func (h *CourseHandler) UpdateChapter(c *gin.Context) {
	chapterID, ok := parseUUIDParam(c, "chapter_id")
	if !ok {
		return
	}

	var req model.CreateChapterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.courseService.UpdateChapter(c.Request.Context(), chapterID, req.Title, req.Position); err != nil {
		h.log.Error().Err(err).Msg("Update chapter failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

// DeleteChapter handles DELETE /api/v1/admin/chapters/:chapter_id.
func (h *CourseHandler) DeleteChapter(c *gin.Context) {
	chapterID, ok := parseUUIDParam(c, "chapter_id")
	if !ok {
		return
	}

	if err := h.courseService.DeleteChapter(c.Request.Context(), chapterID); err != nil {
		h.log.Error().Err(err).Msg("Delete chapter failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ─── Lessons ───

// ListLessons handles GET /api/v1/admin/chapters/:chapter_id/lessons.
func (h *CourseHandler) ListLessons(c *gin.Context) {
	chapterID, ok := parseUUIDParam(c, "chapter_id")
	if !ok {
		return
	}

	lessons, err := h.courseService.ListLessons(c.Request.Context(), chapterID)
	if err != nil {
		h.log.Error().Err(err).Msg("List lessons failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, lessons)
}

// CreateLesson handles POST /api/v1/admin/chapters/:chapter_id/lessons.
func (h *CourseHandler) CreateLesson(c *gin.Context) {
	chapterID, ok := parseUUIDParam(c, "chapter_id")
	if !ok {
		return
	}

	var req model.CreateLessonRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	lesson, err := h.courseService.CreateLesson(c.Request.Context(), chapterID, &req)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		h.log.Error().Err(err).Msg("Create lesson failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, lesson)
}

// UpdateLesson handles PUT /api/v1/admin/lessons/:lesson_id.
func (h *CourseHandler) UpdateLesson(c *gin.Context) {
	lessonID, ok := parseUUIDParam(c, "lesson_id")
	if !ok {
		return
	}

	var req model.CreateLessonRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.courseService.UpdateLesson(c.Request.Context(), lessonID, req.Title, req.Body, req.Position); err != nil {
		h.log.Error().Err(err).Msg("Update lesson failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

// DeleteLesson handles DELETE /api/v1/admin/lessons/:lesson_id.
func (h *CourseHandler) DeleteLesson(c *gin.Context) {
	lessonID, ok := parseUUIDParam(c, "lesson_id")
	if !ok {
		return
	}

	if err := h.courseService.DeleteLesson(c.Request.Context(), lessonID); err != nil {
		h.log.Error().Err(err).Msg("Delete lesson failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
