package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/studyloop/studyloop-backend/internal/config"
	"github.com/studyloop/studyloop-backend/internal/model"
	"github.com/studyloop/studyloop-backend/internal/repository"
)

// Sentinel errors for document uploads.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
)

// Allowed document MIME types.
var allowedMIMETypes = map[string]string{
	"application/pdf":    ".pdf",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
	"text/plain": ".txt",
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// DocumentService handles course document uploads and their catalog.
type DocumentService struct {
	cfg     *config.Config
	docRepo *repository.DocumentRepository
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(cfg *config.Config, docRepo *repository.DocumentRepository) *DocumentService {
	return &DocumentService{cfg: cfg, docRepo: docRepo}
}

// ListDocuments returns the document catalog, optionally scoped to a course.
func (s *DocumentService) ListDocuments(ctx context.Context, courseID *uuid.UUID) ([]model.Document, error) {
	return s.docRepo.List(ctx, courseID)
}

// GetDocument returns a single catalog entry.
func (s *DocumentService) GetDocument(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	return s.docRepo.GetByID(ctx, id)
}

// Upload saves an uploaded file to local storage with a UUID filename and
// records it in the catalog.
func (s *DocumentService) Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader, title string, courseID *uuid.UUID) (*model.Document, error) {
	contentType := header.Header.Get("Content-Type")
	ext, ok := allowedMIMETypes[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %s (allowed: %s)",
			ErrUnsupportedFileType, contentType, strings.Join(allowedTypes(), ", "))
	}

	if header.Size > s.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, header.Size, s.cfg.MaxUploadBytes)
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	filename := uuid.New().String() + ext
	destPath := filepath.Join(s.cfg.UploadDir, filename)

	dst, err := os.Create(destPath)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, file)
	if err != nil {
		os.Remove(destPath)
		return nil, fmt.Errorf("write file: %w", err)
	}

	doc := &model.Document{
		CourseID:    courseID,
		Title:       title,
		FilePath:    "/uploads/" + filename,
		ContentType: contentType,
		SizeBytes:   written,
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		os.Remove(destPath)
		return nil, fmt.Errorf("create document: %w", err)
	}

	return doc, nil
}

// Delete removes a document's catalog entry and its file. A missing file is
// not an error; the catalog entry is authoritative.
func (s *DocumentService) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get document: %w", err)
	}

	if err := s.docRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	filename := strings.TrimPrefix(doc.FilePath, "/uploads/")
	if filename != "" && filename != doc.FilePath {
		_ = os.Remove(filepath.Join(s.cfg.UploadDir, filename))
	}
	return nil
}

func allowedTypes() []string {
	types := make([]string, 0, len(allowedMIMETypes))
	for t := range allowedMIMETypes {
		types = append(types, t)
	}
	return types
}
