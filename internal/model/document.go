package model

import (
	"time"

	"github.com/google/uuid"
)

// Document represents a downloadable file attached to a course (syllabus,
// reading material, past papers). Files live in the upload directory and are
// served statically; this row is the catalog entry.
type Document struct {
	ID          uuid.UUID  `json:"id"`
	CourseID    *uuid.UUID `json:"course_id,omitempty"`
	Title       string     `json:"title"`
	FilePath    string     `json:"file_path"`
	ContentType string     `json:"content_type"`
	SizeBytes   int64      `json:"size_bytes"`
	UploadedAt  time.Time  `json:"uploaded_at"`
}
