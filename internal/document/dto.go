package document

import (
	"strings"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

type UploadDocumentDTO struct {
	Title          string
	FileName       string
	ContentType    string
	SizeBytes      int64
	IsConfidential bool
}

func (d *UploadDocumentDTO) Validate() error {
	d.Title = strings.TrimSpace(d.Title)
	d.FileName = strings.TrimSpace(d.FileName)

	if d.Title == "" {
		return NewValidationError("title is required")
	}
	if d.FileName == "" {
		return NewValidationError("file is required")
	}
	if d.SizeBytes <= 0 {
		return NewValidationError("file must not be empty")
	}
	return nil
}

type UpdateDocumentDTO struct {
	Title *string `json:"title,omitempty"`
}

func (d *UpdateDocumentDTO) Validate() error {
	if d.Title == nil {
		return NewValidationError("at least one field must be provided")
	}
	if strings.TrimSpace(*d.Title) == "" {
		return NewValidationError("title cannot be empty")
	}
	return nil
}

type SetConfidentialDTO struct {
	IsConfidential bool `json:"is_confidential"`
}

type ListQuery struct {
	Limit  int
	Offset int
}

func (q *ListQuery) Normalize() {
	if q.Limit <= 0 {
		q.Limit = DefaultListLimit
	}
	if q.Limit > MaxListLimit {
		q.Limit = MaxListLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
}

type ValidationError struct {
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}
