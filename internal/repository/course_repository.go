package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/studyloop/studyloop-backend/internal/model"
)

// CourseRepository handles course data access.
type CourseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

// GetByID retrieves a course by ID.
func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	course := &model.Course{ID: id}
	err := r.pool.QueryRow(ctx,
		`SELECT title, description, created_at, updated_at
		 FROM courses WHERE id = $1`, id,
	).Scan(&course.Title, &course.Description, &course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return course, nil
}

// List retrieves all courses ordered by title.
func (r *CourseRepository) List(ctx context.Context) ([]model.Course, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, description, created_at, updated_at
		 FROM courses ORDER BY title`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}

	return courses, rows.Err()
}

// Create inserts a new course record.
func (r *CourseRepository) Create(ctx context.Context, course *model.Course) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO courses (title, description)
		 VALUES ($1, $2)
		 RETURNING id, created_at, updated_at`,
		course.Title, course.Description,
	).Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)
}

// Update modifies a course's title and description.
func (r *CourseRepository) Update(ctx context.Context, id uuid.UUID, title, description string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE courses SET title = $1, description = $2, updated_at = NOW() WHERE id = $3`,
		title, description, id,
	)
	return err
}

// Delete removes a course from the database.
func (r *CourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	return err
}
