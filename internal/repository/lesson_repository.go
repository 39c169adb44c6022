package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/studyloop/studyloop-backend/internal/model"
)

// LessonRepository handles lesson data access.
type LessonRepository struct {
	pool *pgxpool.Pool
}

// NewLessonRepository creates a new LessonRepository.
func NewLessonRepository(pool *pgxpool.Pool) *LessonRepository {
	return &LessonRepository{pool: pool}
}

// GetByID retrieves a lesson by ID.
func (r *LessonRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Lesson, error) {
	lesson := &model.Lesson{ID: id}
	err := r.pool.QueryRow(ctx,
		`SELECT chapter_id, title, body, position FROM lessons WHERE id = $1`, id,
	).Scan(&lesson.ChapterID, &lesson.Title, &lesson.Body, &lesson.Position)
	if err != nil {
		return nil, err
	}
	return lesson, nil
}

// ListByChapter retrieves all lessons in a chapter ordered by position.
// Bodies are included; lessons are read whole on the learner side.
func (r *LessonRepository) ListByChapter(ctx context.Context, chapterID uuid.UUID) ([]model.Lesson, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, chapter_id, title, body, position
		 FROM lessons WHERE chapter_id = $1 ORDER BY position`, chapterID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lessons []model.Lesson
	for rows.Next() {
		var l model.Lesson
		if err := rows.Scan(&l.ID, &l.ChapterID, &l.Title, &l.Body, &l.Position); err != nil {
			return nil, err
		}
		lessons = append(lessons, l)
	}

	return lessons, rows.Err()
}

// Create inserts a new lesson. Position defaults to the end of the chapter.
func (r *LessonRepository) Create(ctx context.Context, lesson *model.Lesson) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO lessons (chapter_id, title, body, position)
		 VALUES ($1, $2, $3, COALESCE((SELECT MAX(position) + 1 FROM lessons WHERE chapter_id = $1), 1))
		 RETURNING id, position`,
		lesson.ChapterID, lesson.Title, lesson.Body,
	).Scan(&lesson.ID, &lesson.Position)
}

// Update modifies a lesson's title, body and position.
func (r *LessonRepository) Update(ctx context.Context, id uuid.UUID, title, body string, position int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE lessons SET title = $1, body = $2, position = $3 WHERE id = $4`,
		title, body, position, id,
	)
	return err
}

// Delete removes a lesson from the database.
func (r *LessonRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM lessons WHERE id = $1`, id)
	return err
}
