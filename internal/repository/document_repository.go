package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/studyloop/studyloop-backend/internal/model"
)

// DocumentRepository handles course document metadata access.
type DocumentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{pool: pool}
}

// GetByID retrieves a document by ID.
func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	doc := &model.Document{ID: id}
	err := r.pool.QueryRow(ctx,
		`SELECT course_id, title, file_path, content_type, size_bytes, uploaded_at
		 FROM documents WHERE id = $1`, id,
	).Scan(&doc.CourseID, &doc.Title, &doc.FilePath, &doc.ContentType, &doc.SizeBytes, &doc.UploadedAt)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// List retrieves documents, optionally filtered by course.
func (r *DocumentRepository) List(ctx context.Context, courseID *uuid.UUID) ([]model.Document, error) {
	query := `SELECT id, course_id, title, file_path, content_type, size_bytes, uploaded_at
	          FROM documents`
	args := []interface{}{}

	if courseID != nil {
		query += ` WHERE course_id = $1`
		args = append(args, *courseID)
	}
	query += ` ORDER BY uploaded_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		var d model.Document
		if err := rows.Scan(&d.ID, &d.CourseID, &d.Title, &d.FilePath, &d.ContentType, &d.SizeBytes, &d.UploadedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}

	return docs, rows.Err()
}

// Create inserts a new document record.
func (r *DocumentRepository) Create(ctx context.Context, doc *model.Document) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO documents (course_id, title, file_path, content_type, size_bytes)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, uploaded_at`,
		doc.CourseID, doc.Title, doc.FilePath, doc.ContentType, doc.SizeBytes,
	).Scan(&doc.ID, &doc.UploadedAt)
}

// Delete removes a document record.
func (r *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	return err
}
