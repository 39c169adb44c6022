package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/studyloop/studyloop-backend/internal/middleware"
	"github.com/studyloop/studyloop-backend/internal/model"
	"github.com/studyloop/studyloop-backend/internal/response"
	"github.com/studyloop/studyloop-backend/internal/service"
	"github.com/studyloop/studyloop-backend/internal/validator"
)

// LearnerPortalHandler handles the learner-facing surface: the course
// catalog, lesson reading and the exam session lifecycle.
type LearnerPortalHandler struct {
	courseService  *service.CourseService
	examService    *service.ExamService
	sessionService *service.SessionService
	log            zerolog.Logger
}

// NewLearnerPortalHandler creates a new LearnerPortalHandler.
func NewLearnerPortalHandler(
	courseService *service.CourseService,
	examService *service.ExamService,
	sessionService *service.SessionService,
	log zerolog.Logger,
) *LearnerPortalHandler {
	return &LearnerPortalHandler{
		courseService:  courseService,
		examService:    examService,
		sessionService: sessionService,
		log:            log.With().Str("component", "learner_portal_handler").Logger(),
	}
}

// ─── Catalog ───

// ListCourses handles GET /api/v1/learner/courses.
func (h *LearnerPortalHandler) ListCourses(c *gin.Context) {
	courses, err := h.courseService.ListCourses(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("List courses failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, courses)
}

// GetCourse handles GET /api/v1/learner/courses/:course_id.
func (h *LearnerPortalHandler) GetCourse(c *gin.Context) {
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

// ListChapters handles GET /api/v1/learner/courses/:course_id/chapters.
func (h *LearnerPortalHandler) ListChapters(c *gin.Context) {
	courseID, ok := parseUUIDParam(c, "course_id")
	if !ok {
		return
	}

	chapters, err := h.courseService.ListChapters(c.Request.Context(), courseID)
	if err != nil {
		h.log.Error().Err(err).Msg("List chapters failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, chapters)
}

// ListLessons handles GET /api/v1/learner/chapters/:chapter_id/lessons.
func (h *LearnerPortalHandler) ListLessons(c *gin.Context) {
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

// ListExams handles GET /api/v1/learner/courses/:course_id/exams.
// With ?chapter_id= it lists that chapter's exams; without it, the course's
// final exams. An empty scope reads as not found rather than an empty page.
func (h *LearnerPortalHandler) ListExams(c *gin.Context) {
	courseID, ok := parseUUIDParam(c, "course_id")
	if !ok {
		return
	}

	var chapterID *uuid.UUID
	if raw := c.Query("chapter_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		chapterID = &id
	}

	exams, err := h.examService.ListForScope(c.Request.Context(), courseID, chapterID)
	if err != nil {
		h.log.Error().Err(err).Msg("List exams failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if len(exams) == 0 {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, exams)
}

// ─── Exam sessions ───

// StartAttempt handles POST /api/v1/learner/exams/:exam_id/attempts.
// Any prior attempt on the exam is discarded and replaced.
func (h *LearnerPortalHandler) StartAttempt(c *gin.Context) {
	examID, ok := parseUUIDParam(c, "exam_id")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)

	attempt, err := h.sessionService.StartAttempt(c.Request.Context(), examID, claims.LearnerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExamNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrNoQuestionsAvailable):
			response.Fail(c, http.StatusConflict, response.ErrNoQuestionsAvailable)
		default:
			h.log.Error().Err(err).Msg("Start attempt failed")
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, attempt)
}

// AttemptQuestions handles GET /api/v1/learner/attempts/:attempt_id/questions.
func (h *LearnerPortalHandler) AttemptQuestions(c *gin.Context) {
	attemptID, ok := parseUUIDParam(c, "attempt_id")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)

	questions, err := h.sessionService.AttemptQuestions(c.Request.Context(), attemptID, claims.LearnerID)
	if err != nil {
		if errors.Is(err, service.ErrAttemptNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		h.log.Error().Err(err).Msg("Attempt questions failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, questions)
}

// AttemptState handles GET /api/v1/learner/attempts/:attempt_id/state.
func (h *LearnerPortalHandler) AttemptState(c *gin.Context) {
	attemptID, ok := parseUUIDParam(c, "attempt_id")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)

	state, err := h.sessionService.State(c.Request.Context(), attemptID, claims.LearnerID)
	if err != nil {
		if errors.Is(err, service.ErrAttemptNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		h.log.Error().Err(err).Msg("Attempt state failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, state)
}

// SubmitAttempt handles POST /api/v1/learner/attempts/:attempt_id/submit.
func (h *LearnerPortalHandler) SubmitAttempt(c *gin.Context) {
	attemptID, ok := parseUUIDParam(c, "attempt_id")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)

	var req model.SubmitAttemptRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	state, err := h.sessionService.Submit(c.Request.Context(), attemptID, claims.LearnerID, req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAttemptNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrAttemptAlreadySubmitted):
			response.Fail(c, http.StatusConflict, response.ErrAttemptAlreadySubmitted)
		default:
			h.log.Error().Err(err).Msg("Submit attempt failed")
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, state)
}

// Results handles GET /api/v1/learner/results.
// An optional ?course_id= query filters the history to one course.
func (h *LearnerPortalHandler) Results(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var courseID *uuid.UUID
	if raw := c.Query("course_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		courseID = &id
	}

	results, err := h.sessionService.Results(c.Request.Context(), claims.LearnerID, courseID)
	if err != nil {
		h.log.Error().Err(err).Msg("List results failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, results)
}
