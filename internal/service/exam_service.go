package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/studyloop/studyloop-backend/internal/model"
	"github.com/studyloop/studyloop-backend/internal/repository"
)

// ErrExamLocked is returned when an exam with existing attempts is modified.
// An attempted exam is frozen so recorded scores keep meaning something.
var ErrExamLocked = errors.New("exam has attempts and can no longer be changed")

// ExamService handles exam configuration management.
type ExamService struct {
	examRepo    *repository.ExamRepository
	chapterRepo *repository.ChapterRepository
	courseRepo  *repository.CourseRepository
}

// NewExamService creates a new ExamService.
func NewExamService(
	examRepo *repository.ExamRepository,
	chapterRepo *repository.ChapterRepository,
	courseRepo *repository.CourseRepository,
) *ExamService {
	return &ExamService{
		examRepo:    examRepo,
		chapterRepo: chapterRepo,
		courseRepo:  courseRepo,
	}
}

// GetExam returns a single exam.
func (s *ExamService) GetExam(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	return s.examRepo.GetByID(ctx, id)
}

// ListForScope lists the exams of a chapter, or a course's final exams when
// chapterID is nil.
func (s *ExamService) ListForScope(ctx context.Context, courseID uuid.UUID, chapterID *uuid.UUID) ([]model.Exam, error) {
	return s.examRepo.ListForScope(ctx, courseID, chapterID)
}

// ListByCourse lists every exam in a course for admin views.
func (s *ExamService) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]model.Exam, error) {
	return s.examRepo.ListByCourse(ctx, courseID)
}

// CreateExam creates an exam attached to a chapter, or a final exam when the
// request carries no chapter. A chapter exam must belong to the course it
// names.
func (s *ExamService) CreateExam(ctx context.Context, req *model.CreateExamRequest) (*model.Exam, error) {
	if _, err := s.courseRepo.GetByID(ctx, req.CourseID); err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}

	if req.ChapterID != nil {
		chapter, err := s.chapterRepo.GetByID(ctx, *req.ChapterID)
		if err != nil {
			return nil, fmt.Errorf("get chapter: %w", err)
		}
		if chapter.CourseID != req.CourseID {
			return nil, errors.New("chapter does not belong to the given course")
		}
	}

	exam := &model.Exam{
		CourseID:         req.CourseID,
		ChapterID:        req.ChapterID,
		Title:            req.Title,
		TimeLimitMinutes: req.TimeLimitMinutes,
		QuestionCount:    req.QuestionCount,
	}
	if err := s.examRepo.Create(ctx, exam); err != nil {
		return nil, fmt.Errorf("create exam: %w", err)
	}
	return exam, nil
}

// UpdateExam modifies an exam's configuration. Rejected once any learner has
// attempted the exam.
func (s *ExamService) UpdateExam(ctx context.Context, id uuid.UUID, req *model.UpdateExamRequest) (*model.Exam, error) {
	exam, err := s.examRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get exam: %w", err)
	}

	if err := s.ensureUnlocked(ctx, id); err != nil {
		return nil, err
	}

	if req.Title != "" {
		exam.Title = req.Title
	}
	if req.TimeLimitMinutes != 0 {
		exam.TimeLimitMinutes = req.TimeLimitMinutes
	}
	if req.QuestionCount != 0 {
		exam.QuestionCount = req.QuestionCount
	}

	if err := s.examRepo.Update(ctx, id, exam.Title, exam.TimeLimitMinutes, exam.QuestionCount); err != nil {
		return nil, fmt.Errorf("update exam: %w", err)
	}
	return exam, nil
}

// DeleteExam removes an exam. Rejected once any learner has attempted it.
func (s *ExamService) DeleteExam(ctx context.Context, id uuid.UUID) error {
	if err := s.ensureUnlocked(ctx, id); err != nil {
		return err
	}
	return s.examRepo.Delete(ctx, id)
}

func (s *ExamService) ensureUnlocked(ctx context.Context, examID uuid.UUID) error {
	locked, err := s.examRepo.HasAttempts(ctx, examID)
	if err != nil {
		return fmt.Errorf("check attempts: %w", err)
	}
	if locked {
		return ErrExamLocked
	}
	return nil
}
