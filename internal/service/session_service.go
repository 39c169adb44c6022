package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/studyloop/studyloop-backend/internal/config"
	"github.com/studyloop/studyloop-backend/internal/countdown"
	"github.com/studyloop/studyloop-backend/internal/model"
)

// Exam session errors.
var (
	ErrAttemptNotFound         = errors.New("attempt not found")
	ErrExamNotFound            = errors.New("exam not found")
	ErrNoQuestionsAvailable    = errors.New("no questions available for this exam")
	ErrAttemptAlreadySubmitted = errors.New("attempt has already been submitted")
)

// SessionExamStore is the slice of exam access the session engine needs.
type SessionExamStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error)
}

// SessionQuestionStore resolves question pools for exam scopes.
type SessionQuestionStore interface {
	ListByChapter(ctx context.Context, chapterID uuid.UUID) ([]model.Question, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]model.Question, error)
}

// SessionAttemptStore persists attempts and their question snapshots.
type SessionAttemptStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Attempt, error)
	Replace(ctx context.Context, attempt *model.Attempt, questions []model.SnapshotQuestion) error
	SnapshotQuestions(ctx context.Context, attemptID uuid.UUID) ([]model.SnapshotQuestion, error)
	MarkSubmitted(ctx context.Context, attemptID uuid.UUID, score float64, completedAt time.Time, answers map[uuid.UUID]string) (bool, error)
	ListResults(ctx context.Context, learnerID uuid.UUID, courseID *uuid.UUID) ([]model.AttemptResult, error)
}

// SessionService runs the exam session engine: starting attempts, serving
// their frozen question sets, tracking deadlines and scoring submissions.
type SessionService struct {
	examStore     SessionExamStore
	questionStore SessionQuestionStore
	attemptStore  SessionAttemptStore
	rdb           *redis.Client
	now           func() time.Time
}

// NewSessionService creates a new SessionService.
func NewSessionService(
	examStore SessionExamStore,
	questionStore SessionQuestionStore,
	attemptStore SessionAttemptStore,
	rdb *redis.Client,
) *SessionService {
	return &SessionService{
		examStore:     examStore,
		questionStore: questionStore,
		attemptStore:  attemptStore,
		rdb:           rdb,
		now:           time.Now,
	}
}

// AttemptState is the live view of a running or finished attempt.
type AttemptState struct {
	AttemptID        uuid.UUID           `json:"attempt_id"`
	ExamID           uuid.UUID           `json:"exam_id"`
	Status           model.AttemptStatus `json:"status"`
	StartedAt        time.Time           `json:"started_at"`
	RemainingSeconds int                 `json:"remaining_seconds"`
	Score            *float64            `json:"score,omitempty"`
	ScoreScaled      *float64            `json:"score_scaled,omitempty"`
}

// StartedAttempt is a freshly created attempt plus how many questions its
// snapshot holds. The count can fall short of the exam's target when the
// pool is small.
type StartedAttempt struct {
	model.Attempt
	QuestionCount int `json:"question_count"`
}

// StartAttempt begins a fresh attempt on an exam for a learner. Any prior
// attempt on the same exam, finished or not, is discarded together with its
// snapshot and replaced by the new one. The question set is drawn from the
// exam's scope at this moment and frozen for the attempt's lifetime.
func (s *SessionService) StartAttempt(ctx context.Context, examID, learnerID uuid.UUID) (*StartedAttempt, error) {
	exam, err := s.examStore.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}

	pool, err := s.resolvePool(ctx, exam)
	if err != nil {
		return nil, fmt.Errorf("resolve question pool: %w", err)
	}
	if len(pool) == 0 {
		return nil, ErrNoQuestionsAvailable
	}

	sampled := SampleQuestions(pool, exam.QuestionCount)

	attempt := &model.Attempt{
		ID:        uuid.New(),
		ExamID:    exam.ID,
		LearnerID: learnerID,
		Status:    model.AttemptStatusInProgress,
		StartedAt: s.now(),
	}

	snapshot := make([]model.SnapshotQuestion, len(sampled))
	for i, q := range sampled {
		snapshot[i] = model.SnapshotQuestion{
			Question:  q,
			AttemptID: attempt.ID,
			Position:  i + 1,
		}
	}

	if err := s.attemptStore.Replace(ctx, attempt, snapshot); err != nil {
		return nil, fmt.Errorf("replace attempt: %w", err)
	}

	s.cacheDeadline(ctx, attempt.ID, attempt.StartedAt.Add(exam.TimeLimit()), exam.TimeLimit())

	return &StartedAttempt{Attempt: *attempt, QuestionCount: len(snapshot)}, nil
}

// resolvePool loads the question pool an exam draws from: its chapter's
// questions, or every question in the course for a final exam.
func (s *SessionService) resolvePool(ctx context.Context, exam *model.Exam) ([]model.Question, error) {
	if exam.Final() {
		return s.questionStore.ListByCourse(ctx, exam.CourseID)
	}
	return s.questionStore.ListByChapter(ctx, *exam.ChapterID)
}

// Attempt loads a learner's attempt, hiding attempts owned by others.
func (s *SessionService) Attempt(ctx context.Context, attemptID, learnerID uuid.UUID) (*model.Attempt, error) {
	return s.getOwnedAttempt(ctx, attemptID, learnerID)
}

// AttemptQuestions returns the frozen question set of a learner's attempt in
// presentation order, with the correct options stripped.
func (s *SessionService) AttemptQuestions(ctx context.Context, attemptID, learnerID uuid.UUID) ([]model.QuestionForLearner, error) {
	attempt, err := s.getOwnedAttempt(ctx, attemptID, learnerID)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.attemptStore.SnapshotQuestions(ctx, attempt.ID)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	questions := make([]model.QuestionForLearner, len(snapshot))
	for i, sq := range snapshot {
		questions[i] = sq.ForLearner(sq.Position)
	}
	return questions, nil
}

// State returns the live state of a learner's attempt, including the
// remaining seconds on its countdown.
func (s *SessionService) State(ctx context.Context, attemptID, learnerID uuid.UUID) (*AttemptState, error) {
	attempt, err := s.getOwnedAttempt(ctx, attemptID, learnerID)
	if err != nil {
		return nil, err
	}

	state := &AttemptState{
		AttemptID: attempt.ID,
		ExamID:    attempt.ExamID,
		Status:    attempt.Status,
		StartedAt: attempt.StartedAt,
		Score:     attempt.Score,
	}
	if attempt.Score != nil {
		scaled := *attempt.Score / 10
		state.ScoreScaled = &scaled
	}

	if attempt.Status == model.AttemptStatusInProgress {
		deadline, err := s.Deadline(ctx, attempt)
		if err != nil {
			return nil, err
		}
		state.RemainingSeconds = deadline.Remaining(s.now())
	}

	return state, nil
}

// Deadline resolves the fixed expiry of an attempt, preferring the Redis
// cache and falling back to recomputing from the database. A cache miss is
// healed so the next lookup is fast.
func (s *SessionService) Deadline(ctx context.Context, attempt *model.Attempt) (countdown.Deadline, error) {
	key := config.CacheKey.AttemptDeadlineKey(attempt.ID.String())

	val, err := s.rdb.Get(ctx, key).Result()
	if err == nil {
		unix, parseErr := strconv.ParseInt(val, 10, 64)
		if parseErr == nil {
			return countdown.Deadline{AttemptID: attempt.ID, ExpiresAt: time.Unix(unix, 0)}, nil
		}
		// Unparseable cache entry falls through to the database path.
	} else if !errors.Is(err, redis.Nil) {
		return countdown.Deadline{}, fmt.Errorf("get deadline: %w", err)
	}

	exam, err := s.examStore.GetByID(ctx, attempt.ExamID)
	if err != nil {
		return countdown.Deadline{}, fmt.Errorf("get exam for deadline: %w", err)
	}

	deadline := countdown.NewDeadline(attempt.ID, attempt.StartedAt, exam.TimeLimit())
	s.cacheDeadline(ctx, attempt.ID, deadline.ExpiresAt, exam.TimeLimit())
	return deadline, nil
}

// Submit grades a learner's answers against the attempt's snapshot and
// finalizes the attempt. Unanswered questions count as incorrect. A second
// submission is rejected.
func (s *SessionService) Submit(ctx context.Context, attemptID, learnerID uuid.UUID, answers map[uuid.UUID]string) (*AttemptState, error) {
	attempt, err := s.getOwnedAttempt(ctx, attemptID, learnerID)
	if err != nil {
		return nil, err
	}
	return s.finalize(ctx, attempt, answers)
}

// ForceSubmit finalizes an attempt with whatever answers have been recorded,
// scoring unanswered questions as incorrect. The countdown and the expiry
// sweeper call this when time runs out; an attempt that was already submitted
// is left untouched.
func (s *SessionService) ForceSubmit(ctx context.Context, attemptID uuid.UUID) error {
	attempt, err := s.attemptStore.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAttemptNotFound
		}
		return fmt.Errorf("get attempt: %w", err)
	}
	if attempt.Status != model.AttemptStatusInProgress {
		return nil
	}

	_, err = s.finalize(ctx, attempt, nil)
	if errors.Is(err, ErrAttemptAlreadySubmitted) {
		return nil
	}
	return err
}

// ForcedResult reads an attempt after a forced submission, without an
// ownership check. Callers verify ownership before the countdown starts.
func (s *SessionService) ForcedResult(ctx context.Context, attemptID uuid.UUID) (*model.Attempt, error) {
	attempt, err := s.attemptStore.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	return attempt, nil
}

// finalize scores and submits an in-progress attempt exactly once.
func (s *SessionService) finalize(ctx context.Context, attempt *model.Attempt, answers map[uuid.UUID]string) (*AttemptState, error) {
	if attempt.Status != model.AttemptStatusInProgress {
		return nil, ErrAttemptAlreadySubmitted
	}

	snapshot, err := s.attemptStore.SnapshotQuestions(ctx, attempt.ID)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	correct := 0
	for _, sq := range snapshot {
		if answers[sq.Question.ID] == sq.CorrectOption {
			correct++
		}
	}

	score := 0.0
	if len(snapshot) > 0 {
		score = float64(correct) / float64(len(snapshot)) * 100
	}

	completedAt := s.now()
	ok, err := s.attemptStore.MarkSubmitted(ctx, attempt.ID, score, completedAt, answers)
	if err != nil {
		return nil, fmt.Errorf("mark submitted: %w", err)
	}
	if !ok {
		// Lost the race to another submission path.
		return nil, ErrAttemptAlreadySubmitted
	}

	_ = s.rdb.Del(ctx, config.CacheKey.AttemptDeadlineKey(attempt.ID.String())).Err()

	scaled := score / 10
	return &AttemptState{
		AttemptID:   attempt.ID,
		ExamID:      attempt.ExamID,
		Status:      model.AttemptStatusSubmitted,
		StartedAt:   attempt.StartedAt,
		Score:       &score,
		ScoreScaled: &scaled,
	}, nil
}

// Results returns a learner's attempt history newest first, optionally
// filtered by course.
func (s *SessionService) Results(ctx context.Context, learnerID uuid.UUID, courseID *uuid.UUID) ([]model.AttemptResult, error) {
	results, err := s.attemptStore.ListResults(ctx, learnerID, courseID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return results, nil
}

// getOwnedAttempt loads an attempt and verifies the learner owns it. A
// foreign attempt is indistinguishable from a missing one.
func (s *SessionService) getOwnedAttempt(ctx context.Context, attemptID, learnerID uuid.UUID) (*model.Attempt, error) {
	attempt, err := s.attemptStore.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	if attempt.LearnerID != learnerID {
		return nil, ErrAttemptNotFound
	}
	return attempt, nil
}

// cacheDeadline stores an attempt's expiry in Redis. The key outlives the
// deadline by an hour so late state reads still hit the cache.
func (s *SessionService) cacheDeadline(ctx context.Context, attemptID uuid.UUID, expiresAt time.Time, limit time.Duration) {
	key := config.CacheKey.AttemptDeadlineKey(attemptID.String())
	_ = s.rdb.Set(ctx, key, expiresAt.Unix(), limit+time.Hour).Err()
}
