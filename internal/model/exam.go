package model

import (
	"time"

	"github.com/google/uuid"
)

// Exam represents an exam configuration. ChapterID nil means a final exam
// whose question pool spans every chapter of the course.
type Exam struct {
	ID               uuid.UUID  `json:"id"`
	CourseID         uuid.UUID  `json:"course_id"`
	ChapterID        *uuid.UUID `json:"chapter_id,omitempty"`
	Title            string     `json:"title"`
	TimeLimitMinutes int        `json:"time_limit_minutes"`
	QuestionCount    int        `json:"question_count"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Final reports whether the exam spans the whole course.
func (e *Exam) Final() bool {
	return e.ChapterID == nil
}

// TimeLimit returns the exam's time limit as a duration.
func (e *Exam) TimeLimit() time.Duration {
	return time.Duration(e.TimeLimitMinutes) * time.Minute
}

// CreateExamRequest is the payload for creating a new exam.
// ChapterID omitted means the exam is a final exam over the whole course.
type CreateExamRequest struct {
	CourseID         uuid.UUID  `json:"course_id" binding:"required"`
	ChapterID        *uuid.UUID `json:"chapter_id" binding:"omitempty"`
	Title            string     `json:"title" binding:"required,min=3,max=255"`
	TimeLimitMinutes int        `json:"time_limit_minutes" binding:"required,min=1,max=480"`
	QuestionCount    int        `json:"question_count" binding:"required,min=1,max=200"`
}

// UpdateExamRequest is the payload for updating an exam that has no attempts.
type UpdateExamRequest struct {
	Title            string `json:"title" binding:"omitempty,min=3,max=255"`
	TimeLimitMinutes int    `json:"time_limit_minutes" binding:"omitempty,min=1,max=480"`
	QuestionCount    int    `json:"question_count" binding:"omitempty,min=1,max=200"`
}
