package document

import (
	"time"

	documentDatamodel "github.com/wicaksana/internal-portal/internal/core/datamodel/document"
)

type Document struct {
	ID             int64     `json:"id"`
	TenantID       int64     `json:"tenant_id"`
	Title          string    `json:"title"`
	FileName       string    `json:"file_name"`
	ContentType    string    `json:"content_type"`
	SizeBytes      int64     `json:"size_bytes"`
	StorageKey     string    `json:"-"`
	IsConfidential bool      `json:"is_confidential"`
	UploadedBy     int64     `json:"uploaded_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func ToDataModel(d *Document) *documentDatamodel.Document {
	return &documentDatamodel.Document{
		ID:             d.ID,
		TenantID:       d.TenantID,
		Title:          d.Title,
		FileName:       d.FileName,
		ContentType:    d.ContentType,
		SizeBytes:      d.SizeBytes,
		StorageKey:     d.StorageKey,
		IsConfidential: d.IsConfidential,
		UploadedBy:     d.UploadedBy,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func FromDataModel(dm *documentDatamodel.Document) *Document {
	return &Document{
		ID:             dm.ID,
		TenantID:       dm.TenantID,
		Title:          dm.Title,
		FileName:       dm.FileName,
		ContentType:    dm.ContentType,
		SizeBytes:      dm.SizeBytes,
		StorageKey:     dm.StorageKey,
		IsConfidential: dm.IsConfidential,
		UploadedBy:     dm.UploadedBy,
		CreatedAt:      dm.CreatedAt,
		UpdatedAt:      dm.UpdatedAt,
	}
}
