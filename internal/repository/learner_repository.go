package repository

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/studyloop/studyloop-backend/internal/model"
)

// LearnerRepository handles learner data access.
type LearnerRepository struct {
	pool *pgxpool.Pool
}

// NewLearnerRepository creates a new LearnerRepository.
func NewLearnerRepository(pool *pgxpool.Pool) *LearnerRepository {
	return &LearnerRepository{pool: pool}
}

// GetByID retrieves a learner by ID.
func (r *LearnerRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Learner, error) {
	learner := &model.Learner{ID: id}
	err := r.pool.QueryRow(ctx,
		`SELECT email, name, password_hash, created_at, updated_at
		 FROM learners WHERE id = $1`, id,
	).Scan(&learner.Email, &learner.Name, &learner.PasswordHash, &learner.CreatedAt, &learner.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return learner, nil
}

// GetByEmail retrieves a learner by email for authentication.
func (r *LearnerRepository) GetByEmail(ctx context.Context, email string) (*model.Learner, error) {
	learner := &model.Learner{Email: email}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, password_hash, created_at, updated_at
		 FROM learners WHERE email = $1`, email,
	).Scan(&learner.ID, &learner.Name, &learner.PasswordHash, &learner.CreatedAt, &learner.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return learner, nil
}

// ListPaginated retrieves learners with pagination and an optional search term
// matched against email and full name.
func (r *LearnerRepository) ListPaginated(ctx context.Context, limit, offset int, search string) ([]model.Learner, int, error) {
	countQuery := `SELECT COUNT(*) FROM learners`
	listQuery := `SELECT id, email, name, created_at, updated_at FROM learners`

	args := []interface{}{}
	argIdx := 1

	if search != "" {
		filter := ` WHERE email ILIKE $` + strconv.Itoa(argIdx) + ` OR name ILIKE $` + strconv.Itoa(argIdx)
		countQuery += filter
		listQuery += filter
		args = append(args, "%"+search+"%")
		argIdx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery += ` ORDER BY name LIMIT $` + strconv.Itoa(argIdx) + ` OFFSET $` + strconv.Itoa(argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var learners []model.Learner
	for rows.Next() {
		var l model.Learner
		if err := rows.Scan(&l.ID, &l.Email, &l.Name, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, 0, err
		}
		learners = append(learners, l)
	}

	return learners, total, rows.Err()
}

// Create inserts a new learner record.
func (r *LearnerRepository) Create(ctx context.Context, learner *model.Learner) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO learners (email, name, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		learner.Email, learner.Name, learner.PasswordHash,
	).Scan(&learner.ID, &learner.CreatedAt, &learner.UpdatedAt)
}

// Update modifies a learner. An empty passwordHash keeps the current one.
func (r *LearnerRepository) Update(ctx context.Context, id uuid.UUID, email, fullName, passwordHash string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE learners
		 SET email = $1,
		     name = $2,
		     password_hash = CASE WHEN $3 = '' THEN password_hash ELSE $3 END,
		     updated_at = NOW()
		 WHERE id = $4`,
		email, fullName, passwordHash, id,
	)
	return err
}

// Delete removes a learner from the database.
func (r *LearnerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM learners WHERE id = $1`, id)
	return err
}
