package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/studyloop/studyloop-backend/internal/model"
)

// ExamRepository handles exam data access.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

// GetByID retrieves an exam by ID.
func (r *ExamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	exam := &model.Exam{ID: id}
	err := r.pool.QueryRow(ctx,
		`SELECT course_id, chapter_id, title, time_limit_minutes, question_count, created_at, updated_at
		 FROM exams WHERE id = $1`, id,
	).Scan(&exam.CourseID, &exam.ChapterID, &exam.Title, &exam.TimeLimitMinutes, &exam.QuestionCount, &exam.CreatedAt, &exam.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return exam, nil
}

// ListForScope retrieves exams for a chapter, or the final exams of a course
// when chapterID is nil.
func (r *ExamRepository) ListForScope(ctx context.Context, courseID uuid.UUID, chapterID *uuid.UUID) ([]model.Exam, error) {
	query := `SELECT id, course_id, chapter_id, title, time_limit_minutes, question_count, created_at, updated_at
	          FROM exams WHERE course_id = $1`
	args := []interface{}{courseID}

	if chapterID != nil {
		query += ` AND chapter_id = $2`
		args = append(args, *chapterID)
	} else {
		query += ` AND chapter_id IS NULL`
	}
	query += ` ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []model.Exam
	for rows.Next() {
		var e model.Exam
		if err := rows.Scan(&e.ID, &e.CourseID, &e.ChapterID, &e.Title, &e.TimeLimitMinutes, &e.QuestionCount, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}

	return exams, rows.Err()
}

// ListByCourse retrieves every exam belonging to a course, chapter exams first.
func (r *ExamRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]model.Exam, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, course_id, chapter_id, title, time_limit_minutes, question_count, created_at, updated_at
		 FROM exams WHERE course_id = $1
		 ORDER BY chapter_id NULLS LAST, created_at`, courseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []model.Exam
	for rows.Next() {
		var e model.Exam
		if err := rows.Scan(&e.ID, &e.CourseID, &e.ChapterID, &e.Title, &e.TimeLimitMinutes, &e.QuestionCount, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}

	return exams, rows.Err()
}

// Create inserts a new exam record.
func (r *ExamRepository) Create(ctx context.Context, exam *model.Exam) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO exams (course_id, chapter_id, title, time_limit_minutes, question_count)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		exam.CourseID, exam.ChapterID, exam.Title, exam.TimeLimitMinutes, exam.QuestionCount,
	).Scan(&exam.ID, &exam.CreatedAt, &exam.UpdatedAt)
}

// Update modifies an exam's title, time limit and question count.
func (r *ExamRepository) Update(ctx context.Context, id uuid.UUID, title string, timeLimitMinutes, questionCount int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE exams
		 SET title = $1, time_limit_minutes = $2, question_count = $3, updated_at = NOW()
		 WHERE id = $4`,
		title, timeLimitMinutes, questionCount, id,
	)
	return err
}

// Delete removes an exam from the database.
func (r *ExamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM exams WHERE id = $1`, id)
	return err
}

// HasAttempts reports whether any attempt exists for the exam.
func (r *ExamRepository) HasAttempts(ctx context.Context, examID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM attempts WHERE exam_id = $1)`, examID,
	).Scan(&exists)
	return exists, err
}
