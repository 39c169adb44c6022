package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/studyloop/studyloop-backend/internal/model"
)

// AttemptRepository handles exam attempt data access.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

// GetByID retrieves an attempt by ID.
func (r *AttemptRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Attempt, error) {
	attempt := &model.Attempt{ID: id}
	err := r.pool.QueryRow(ctx,
		`SELECT exam_id, learner_id, status, started_at, completed_at, score
		 FROM attempts WHERE id = $1`, id,
	).Scan(&attempt.ExamID, &attempt.LearnerID, &attempt.Status, &attempt.StartedAt, &attempt.CompletedAt, &attempt.Score)
	if err != nil {
		return nil, err
	}
	return attempt, nil
}

// Replace atomically discards any prior attempt the learner holds on the exam
// and creates a fresh one with its question snapshot. The advisory lock
// serializes concurrent starts for the same (exam, learner) pair so exactly
// one attempt survives.
func (r *AttemptRepository) Replace(ctx context.Context, attempt *model.Attempt, questions []model.SnapshotQuestion) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace attempt: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1 || ':' || $2, 0))`,
		attempt.ExamID.String(), attempt.LearnerID.String(),
	)
	if err != nil {
		return fmt.Errorf("acquire attempt lock: %w", err)
	}

	_, err = tx.Exec(ctx,
		`DELETE FROM attempts WHERE exam_id = $1 AND learner_id = $2`,
		attempt.ExamID, attempt.LearnerID,
	)
	if err != nil {
		return fmt.Errorf("discard prior attempt: %w", err)
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO attempts (id, exam_id, learner_id, status, started_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING started_at`,
		attempt.ID, attempt.ExamID, attempt.LearnerID, attempt.Status, attempt.StartedAt,
	).Scan(&attempt.StartedAt)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}

	batch := &pgx.Batch{}
	for _, q := range questions {
		batch.Queue(
			`INSERT INTO attempt_questions
			 (attempt_id, question_id, position, question_text, option_a, option_b, option_c, option_d, correct_option)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			attempt.ID, q.ID, q.Position, q.QuestionText, q.OptionA, q.OptionB, q.OptionC, q.OptionD, q.CorrectOption,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert attempt snapshot: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace attempt: %w", err)
	}
	return nil
}

// SnapshotQuestions retrieves the frozen question set of an attempt ordered by
// position. Correct options are included; callers strip them before handing
// questions to learners.
func (r *AttemptRepository) SnapshotQuestions(ctx context.Context, attemptID uuid.UUID) ([]model.SnapshotQuestion, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT question_id, position, question_text, option_a, option_b, option_c, option_d, correct_option, selected_option
		 FROM attempt_questions WHERE attempt_id = $1 ORDER BY position`, attemptID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.SnapshotQuestion
	for rows.Next() {
		q := model.SnapshotQuestion{AttemptID: attemptID}
		if err := rows.Scan(&q.ID, &q.Position, &q.QuestionText, &q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD, &q.CorrectOption, &q.SelectedOption); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	return questions, rows.Err()
}

// MarkSubmitted finalizes an attempt with its score and recorded answers.
// It returns false without writing anything when the attempt is no longer in
// progress, which makes submission idempotent under races.
func (r *AttemptRepository) MarkSubmitted(ctx context.Context, attemptID uuid.UUID, score float64, completedAt time.Time, answers map[uuid.UUID]string) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin submit attempt: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE attempts
		 SET status = $1, score = $2, completed_at = $3
		 WHERE id = $4 AND status = $5`,
		model.AttemptStatusSubmitted, score, completedAt, attemptID, model.AttemptStatusInProgress,
	)
	if err != nil {
		return false, fmt.Errorf("finalize attempt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	batch := &pgx.Batch{}
	for questionID, option := range answers {
		batch.Queue(
			`UPDATE attempt_questions SET selected_option = $1 WHERE attempt_id = $2 AND question_id = $3`,
			option, attemptID, questionID,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return false, fmt.Errorf("record answers: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit submit attempt: %w", err)
	}
	return true, nil
}

// ListResults retrieves a learner's attempt results newest first, optionally
// filtered by course.
func (r *AttemptRepository) ListResults(ctx context.Context, learnerID uuid.UUID, courseID *uuid.UUID) ([]model.AttemptResult, error) {
	query := `SELECT a.id, a.exam_id, e.title, e.course_id, c.title, e.chapter_id, a.status, a.started_at, a.completed_at, a.score
	          FROM attempts a
	          JOIN exams e ON a.exam_id = e.id
	          JOIN courses c ON e.course_id = c.id
	          WHERE a.learner_id = $1`
	args := []interface{}{learnerID}

	if courseID != nil {
		query += ` AND e.course_id = $2`
		args = append(args, *courseID)
	}
	query += ` ORDER BY a.started_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.AttemptResult
	for rows.Next() {
		var res model.AttemptResult
		if err := rows.Scan(&res.AttemptID, &res.ExamID, &res.ExamTitle, &res.CourseID, &res.CourseTitle, &res.ChapterID, &res.Status, &res.StartedAt, &res.CompletedAt, &res.Score); err != nil {
			return nil, err
		}
		if res.Score != nil {
			scaled := *res.Score / 10
			res.ScoreScaled = &scaled
		}
		results = append(results, res)
	}

	return results, rows.Err()
}

// ListOverdue retrieves in-progress attempts whose deadline passed more than
// grace ago. The expiry sweeper force-submits these.
func (r *AttemptRepository) ListOverdue(ctx context.Context, grace time.Duration) ([]model.Attempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.exam_id, a.learner_id, a.status, a.started_at
		 FROM attempts a
		 JOIN exams e ON a.exam_id = e.id
		 WHERE a.status = $1
		   AND a.started_at + make_interval(mins => e.time_limit_minutes) + make_interval(secs => $2) < NOW()`,
		model.AttemptStatusInProgress, grace.Seconds(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.Attempt
	for rows.Next() {
		var a model.Attempt
		if err := rows.Scan(&a.ID, &a.ExamID, &a.LearnerID, &a.Status, &a.StartedAt); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}

	return attempts, rows.Err()
}
