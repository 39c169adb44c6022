package model

import (
	"time"

	"github.com/google/uuid"
)

// Question represents a single-choice, four-option question owned by a
// chapter. A course's final-exam pool is the union of its chapters' questions.
type Question struct {
	ID            uuid.UUID `json:"id"`
	ChapterID     uuid.UUID `json:"chapter_id"`
	QuestionText  string    `json:"question_text"`
	OptionA       string    `json:"option_a"`
	OptionB       string    `json:"option_b"`
	OptionC       string    `json:"option_c"`
	OptionD       string    `json:"option_d"`
	CorrectOption string    `json:"correct_option"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// QuestionForLearner is a question without the correct answer, as shown to a
// learner during an attempt.
type QuestionForLearner struct {
	ID           uuid.UUID `json:"id"`
	QuestionText string    `json:"question_text"`
	OptionA      string    `json:"option_a"`
	OptionB      string    `json:"option_b"`
	OptionC      string    `json:"option_c"`
	OptionD      string    `json:"option_d"`
	Position     int       `json:"position"`
}

// ForLearner strips the correct answer from a question.
func (q *Question) ForLearner(position int) QuestionForLearner {
	return QuestionForLearner{
		ID:           q.ID,
		QuestionText: q.QuestionText,
		OptionA:      q.OptionA,
		OptionB:      q.OptionB,
		OptionC:      q.OptionC,
		OptionD:      q.OptionD,
		Position:     position,
	}
}

// AddQuestionRequest is the payload for adding a question to a chapter's pool.
type AddQuestionRequest struct {
	QuestionText  string `json:"question_text" binding:"required,min=1,max=2000"`
	OptionA       string `json:"option_a" binding:"required,max=1000"`
	OptionB       string `json:"option_b" binding:"required,max=1000"`
	OptionC       string `json:"option_c" binding:"required,max=1000"`
	OptionD       string `json:"option_d" binding:"required,max=1000"`
	CorrectOption string `json:"correct_option" binding:"required,oneof=A B C D"`
}
