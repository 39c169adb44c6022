package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/studyloop/studyloop-backend/internal/model"
	"github.com/studyloop/studyloop-backend/internal/repository"
)

// QuestionService handles question bank management. Pool edits never touch
// attempt snapshots: a running attempt keeps the questions it started with.
type QuestionService struct {
	questionRepo *repository.QuestionRepository
	chapterRepo  *repository.ChapterRepository
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(
	questionRepo *repository.QuestionRepository,
	chapterRepo *repository.ChapterRepository,
) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		chapterRepo:  chapterRepo,
	}
}

// ListByChapter returns a chapter's question pool.
func (s *QuestionService) ListByChapter(ctx context.Context, chapterID uuid.UUID) ([]model.Question, error) {
	return s.questionRepo.ListByChapter(ctx, chapterID)
}

// AddQuestion adds a question to a chapter's pool.
func (s *QuestionService) AddQuestion(ctx context.Context, chapterID uuid.UUID, req *model.AddQuestionRequest) (*model.Question, error) {
	if _, err := s.chapterRepo.GetByID(ctx, chapterID); err != nil {
		return nil, fmt.Errorf("get chapter: %w", err)
	}

	question := &model.Question{
		ChapterID:     chapterID,
		QuestionText:  req.QuestionText,
		OptionA:       req.OptionA,
		OptionB:       req.OptionB,
		OptionC:       req.OptionC,
		OptionD:       req.OptionD,
		CorrectOption: req.CorrectOption,
	}
	if err := s.questionRepo.Create(ctx, question); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	return question, nil
}

// UpdateQuestion modifies a question in the pool.
func (s *QuestionService) UpdateQuestion(ctx context.Context, id uuid.UUID, req *model.AddQuestionRequest) (*model.Question, error) {
	question, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}

	question.QuestionText = req.QuestionText
	question.OptionA = req.OptionA
	question.OptionB = req.OptionB
	question.OptionC = req.OptionC
	question.OptionD = req.OptionD
	question.CorrectOption = req.CorrectOption

	if err := s.questionRepo.Update(ctx, question); err != nil {
		return nil, fmt.Errorf("update question: %w", err)
	}
	return question, nil
}

// DeleteQuestion removes a question from the pool.
func (s *QuestionService) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	return s.questionRepo.Delete(ctx, id)
}
