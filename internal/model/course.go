package model

import (
	"time"

	"github.com/google/uuid"
)

// Course represents a published course made of ordered chapters.
type Course struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Chapter represents one ordered section of a course. A chapter owns the
// lessons shown to learners and the question pool used by chapter exams.
type Chapter struct {
	ID       uuid.UUID `json:"id"`
	CourseID uuid.UUID `json:"course_id"`
	Title    string    `json:"title"`
	Position int       `json:"position"`
}

// Lesson represents one content page within a chapter.
type Lesson struct {
	ID        uuid.UUID `json:"id"`
	ChapterID uuid.UUID `json:"chapter_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Position  int       `json:"position"`
}

// CreateCourseRequest is the payload for creating or updating a course.
type CreateCourseRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=255"`
	Description string `json:"description" binding:"max=5000"`
}

// CreateChapterRequest is the payload for creating or updating a chapter.
type CreateChapterRequest struct {
	Title    string `json:"title" binding:"required,min=3,max=255"`
	Position int    `json:"position" binding:"min=0"`
}

// CreateLessonRequest is the payload for creating or updating a lesson.
type CreateLessonRequest struct {
	Title    string `json:"title" binding:"required,min=3,max=255"`
	Body     string `json:"body" binding:"required"`
	Position int    `json:"position" binding:"min=0"`
}
