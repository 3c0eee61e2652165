package document

import "time"

type Document struct {
	ID             int64     `gorm:"primaryKey"`
	TenantID       int64     `gorm:"column:tenant_id;not null;index"`
	Title          string    `gorm:"column:title;not null"`
	FileName       string    `gorm:"column:file_name;not null"`
	ContentType    string    `gorm:"column:content_type"`
	SizeBytes      int64     `gorm:"column:size_bytes"`
	StorageKey     string    `gorm:"column:storage_key;uniqueIndex;not null"`
	IsConfidential bool      `gorm:"column:is_confidential;default:false"`
	Deleted        bool      `gorm:"column:deleted;default:false"`
	UploadedBy     int64     `gorm:"column:uploaded_by"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (Document) TableName() string {
	return "documents"
}
