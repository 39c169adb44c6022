package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/studyloop/studyloop-backend/internal/model"
	"github.com/studyloop/studyloop-backend/internal/repository"
)

// CourseService handles course, chapter and lesson management.
type CourseService struct {
	courseRepo  *repository.CourseRepository
	chapterRepo *repository.ChapterRepository
	lessonRepo  *repository.LessonRepository
}

// NewCourseService creates a new CourseService.
func NewCourseService(
	courseRepo *repository.CourseRepository,
	chapterRepo *repository.ChapterRepository,
	lessonRepo *repository.LessonRepository,
) *CourseService {
	return &CourseService{
		courseRepo:  courseRepo,
		chapterRepo: chapterRepo,
		lessonRepo:  lessonRepo,
	}
}

// CourseOutline is a course with its ordered chapters, as shown in the
// learner catalog.
type CourseOutline struct {
	model.Course
	Chapters []model.Chapter `json:"chapters"`
}

// ListCourses returns all courses.
func (s *CourseService) ListCourses(ctx context.Context) ([]model.Course, error) {
	return s.courseRepo.List(ctx)
}

// GetCourseOutline returns a course and its chapters in order.
func (s *CourseService) GetCourseOutline(ctx context.Context, courseID uuid.UUID) (*CourseOutline, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}

	chapters, err := s.chapterRepo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}

	return &CourseOutline{Course: *course, Chapters: chapters}, nil
}

// CreateCourse creates a new course.
func (s *CourseService) CreateCourse(ctx context.Context, req *model.CreateCourseRequest) (*model.Course, error) {
	course := &model.Course{
		Title:       req.Title,
		Description: req.Description,
	}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	return course, nil
}

// UpdateCourse updates a course's title and description.
func (s *CourseService) UpdateCourse(ctx context.Context, id uuid.UUID, title, description string) error {
	return s.courseRepo.Update(ctx, id, title, description)
}

// DeleteCourse removes a course and everything under it.
func (s *CourseService) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	return s.courseRepo.Delete(ctx, id)
}

// ListChapters returns a course's chapters in order.
func (s *CourseService) ListChapters(ctx context.Context, courseID uuid.UUID) ([]model.Chapter, error) {
	return s.chapterRepo.ListByCourse(ctx, courseID)
}

// GetChapter returns a single chapter.
func (s *CourseService) GetChapter(ctx context.Context, id uuid.UUID) (*model.Chapter, error) {
	return s.chapterRepo.GetByID(ctx, id)
}

// CreateChapter appends a chapter to a course.
func (s *CourseService) CreateChapter(ctx context.Context, courseID uuid.UUID, req *model.CreateChapterRequest) (*model.Chapter, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}

	chapter := &model.Chapter{
		CourseID: courseID,
		Title:    req.Title,
	}
	if err := s.chapterRepo.Create(ctx, chapter); err != nil {
		return nil, fmt.Errorf("create chapter: %w", err)
	}
	return chapter, nil
}

// UpdateChapter updates a chapter's title and position.
func (s *CourseService) UpdateChapter(ctx context.Context, id uuid.UUID, title string, position int) error {
	return s.chapterRepo.Update(ctx, id, title, position)
}

// DeleteChapter removes a chapter and its lessons and questions.
func (s *CourseService) DeleteChapter(ctx context.Context, id uuid.UUID) error {
	return s.chapterRepo.Delete(ctx, id)
}

// ListLessons returns a chapter's lessons in reading order.
func (s *CourseService) ListLessons(ctx context.Context, chapterID uuid.UUID) ([]model.Lesson, error) {
	return s.lessonRepo.ListByChapter(ctx, chapterID)
}

// GetLesson returns a single lesson with its body.
func (s *CourseService) GetLesson(ctx context.Context, id uuid.UUID) (*model.Lesson, error) {
	return s.lessonRepo.GetByID(ctx, id)
}

// CreateLesson appends a lesson to a chapter.
func (s *CourseService) CreateLesson(ctx context.Context, chapterID uuid.UUID, req *model.CreateLessonRequest) (*model.Lesson, error) {
	if _, err := s.chapterRepo.GetByID(ctx, chapterID); err != nil {
		return nil, fmt.Errorf("get chapter: %w", err)
	}

	lesson := &model.Lesson{
		ChapterID: chapterID,
		Title:     req.Title,
		Body:      req.Body,
	}
	if err := s.lessonRepo.Create(ctx, lesson); err != nil {
		return nil, fmt.Errorf("create lesson: %w", err)
	}
	return lesson, nil
}

// UpdateLesson updates a lesson's title, body and position.
func (s *CourseService) UpdateLesson(ctx context.Context, id uuid.UUID, title, body string, position int) error {
	return s.lessonRepo.Update(ctx, id, title, body, position)
}

// DeleteLesson removes a lesson.
func (s *CourseService) DeleteLesson(ctx context.Context, id uuid.UUID) error {
	return s.lessonRepo.Delete(ctx, id)
}
