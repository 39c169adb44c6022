package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/studyloop/studyloop-backend/internal/model"
)

// ChapterRepository handles chapter data access.
type ChapterRepository struct {
	pool *pgxpool.Pool
}

// NewChapterRepository creates a new ChapterRepository.
func NewChapterRepository(pool *pgxpool.Pool) *ChapterRepository {
	return &ChapterRepository{pool: pool}
}

// GetByID retrieves a chapter by ID.
func (r *ChapterRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Chapter, error) {
	chapter := &model.Chapter{ID: id}
	err := r.pool.QueryRow(ctx,
		`SELECT course_id, title, position FROM chapters WHERE id = $1`, id,
	).Scan(&chapter.CourseID, &chapter.Title, &chapter.Position)
	if err != nil {
		return nil, err
	}
	return chapter, nil
}

// ListByCourse retrieves all chapters in a course ordered by position.
func (r *ChapterRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]model.Chapter, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, course_id, title, position
		 FROM chapters WHERE course_id = $1 ORDER BY position`, courseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chapters []model.Chapter
	for rows.Next() {
		var c model.Chapter
		if err := rows.Scan(&c.ID, &c.CourseID, &c.Title, &c.Position); err != nil {
			return nil, err
		}
		chapters = append(chapters, c)
	}

	return chapters, rows.Err()
}

// Create inserts a new chapter. Position defaults to the end of the course.
func (r *ChapterRepository) Create(ctx context.Context, chapter *model.Chapter) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO chapters (course_id, title, position)
		 VALUES ($1, $2, COALESCE((SELECT MAX(position) + 1 FROM chapters WHERE course_id = $1), 1))
		 RETURNING id, position`,
		chapter.CourseID, chapter.Title,
	).Scan(&chapter.ID, &chapter.Position)
}

// Update modifies a chapter's title and position.
func (r *ChapterRepository) Update(ctx context.Context, id uuid.UUID, title string, position int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE chapters SET title = $1, position = $2 WHERE id = $3`,
		title, position, id,
	)
	return err
}

// Delete removes a chapter from the database.
func (r *ChapterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM chapters WHERE id = $1`, id)
	return err
}
