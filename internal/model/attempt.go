package model

import (
	"time"

	"github.com/google/uuid"
)

// AttemptStatus enumerates attempt states. An attempt moves from IN_PROGRESS
// to SUBMITTED exactly once; there are no other transitions.
type AttemptStatus string

const (
	AttemptStatusInProgress AttemptStatus = "IN_PROGRESS"
	AttemptStatusSubmitted  AttemptStatus = "SUBMITTED"
)

// Attempt represents one learner's run of an exam. Starting a new attempt for
// the same (exam, learner) pair replaces any prior attempt, so at most one
// attempt per pair exists at any time.
type Attempt struct {
	ID          uuid.UUID     `json:"id"`
	ExamID      uuid.UUID     `json:"exam_id"`
	LearnerID   uuid.UUID     `json:"learner_id"`
	Status      AttemptStatus `json:"status"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	Score       *float64      `json:"score,omitempty"` // 0–100, nil until submitted
}

// SnapshotQuestion is one entry of an attempt's frozen question snapshot,
// joined with the question it references. Position is the presentation order
// fixed at session start.
type SnapshotQuestion struct {
	Question
	AttemptID      uuid.UUID `json:"attempt_id"`
	Position       int       `json:"position"`
	SelectedOption *string   `json:"selected_option,omitempty"`
}

// AttemptResult is an attempt joined with exam and course metadata for
// history and reporting views.
type AttemptResult struct {
	AttemptID   uuid.UUID     `json:"attempt_id"`
	ExamID      uuid.UUID     `json:"exam_id"`
	ExamTitle   string        `json:"exam_title"`
	CourseID    uuid.UUID     `json:"course_id"`
	CourseTitle string        `json:"course_title"`
	ChapterID   *uuid.UUID    `json:"chapter_id,omitempty"`
	Status      AttemptStatus `json:"status"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	Score       *float64      `json:"score,omitempty"`        // 0–100
	ScoreScaled *float64      `json:"score_scaled,omitempty"` // 0–10
}

// SubmitAttemptRequest carries the learner's answers, keyed by question ID.
// Questions absent from the map are scored as incorrect, so an empty or
// omitted map is a valid fully-blank submission.
type SubmitAttemptRequest struct {
	Answers map[uuid.UUID]string `json:"answers" binding:"omitempty,dive,oneof=A B C D"`
}
