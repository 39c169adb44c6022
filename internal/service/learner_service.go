package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/studyloop/studyloop-backend/internal/model"
	"github.com/studyloop/studyloop-backend/internal/repository"
)

// LearnerService handles learner accounts: self-service login and the admin
// management surface.
type LearnerService struct {
	learnerRepo *repository.LearnerRepository
	authService *AuthService
}

// NewLearnerService creates a new LearnerService.
func NewLearnerService(learnerRepo *repository.LearnerRepository, authService *AuthService) *LearnerService {
	return &LearnerService{learnerRepo: learnerRepo, authService: authService}
}

// Login authenticates a learner and issues a session token.
func (s *LearnerService) Login(ctx context.Context, req *model.LearnerLoginRequest) (*model.LearnerLoginResponse, error) {
	learner, err := s.learnerRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get learner: %w", err)
	}

	if err := s.authService.CheckPassword(learner.PasswordHash, req.Password); err != nil {
		return nil, err
	}

	token, err := s.authService.GenerateLearnerToken(ctx, learner.ID)
	if err != nil {
		return nil, err
	}

	return &model.LearnerLoginResponse{Token: token, Learner: *learner}, nil
}

// GetLearner returns a single learner.
func (s *LearnerService) GetLearner(ctx context.Context, id uuid.UUID) (*model.Learner, error) {
	return s.learnerRepo.GetByID(ctx, id)
}

// ListLearners returns learners with pagination and optional search.
func (s *LearnerService) ListLearners(ctx context.Context, page, perPage int, search string) ([]model.Learner, int, error) {
	offset := (page - 1) * perPage
	return s.learnerRepo.ListPaginated(ctx, perPage, offset, search)
}

// CreateLearner registers a learner account.
func (s *LearnerService) CreateLearner(ctx context.Context, req *model.CreateLearnerRequest) (*model.Learner, error) {
	hash, err := s.authService.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	learner := &model.Learner{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
	}
	if err := s.learnerRepo.Create(ctx, learner); err != nil {
		return nil, fmt.Errorf("create learner: %w", err)
	}
	return learner, nil
}

// UpdateLearner modifies a learner account. An empty password keeps the
// current one.
func (s *LearnerService) UpdateLearner(ctx context.Context, id uuid.UUID, req *model.UpdateLearnerRequest) error {
	learner, err := s.learnerRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get learner: %w", err)
	}

	email := learner.Email
	if req.Email != "" {
		email = req.Email
	}
	name := learner.Name
	if req.Name != "" {
		name = req.Name
	}

	hash := ""
	if req.Password != "" {
		hash, err = s.authService.HashPassword(req.Password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
	}

	return s.learnerRepo.Update(ctx, id, email, name, hash)
}

// DeleteLearner removes a learner and their attempt history.
func (s *LearnerService) DeleteLearner(ctx context.Context, id uuid.UUID) error {
	if err := s.authService.ResetLearnerSession(ctx, id); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	return s.learnerRepo.Delete(ctx, id)
}

// ResetSession clears a learner's active session so they can log in again.
func (s *LearnerService) ResetSession(ctx context.Context, id uuid.UUID) error {
	if _, err := s.learnerRepo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("get learner: %w", err)
	}
	return s.authService.ResetLearnerSession(ctx, id)
}
