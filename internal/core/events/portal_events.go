package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeUserCreated               = "user.created"
	EventTypeDocumentUploaded          = "document.uploaded"
	EventTypeConfidentialAccessGranted = "permission.confidential_access_granted"
	EventTypeEmployeeSyncCompleted     = "directory.sync_completed"
)

func NewUserCreated(userID int64, email, name string) Event {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventTypeUserCreated,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"user_id": userID,
			"email":   email,
			"name":    name,
		},
	}
}

func NewDocumentUploaded(documentID, tenantID, uploadedBy int64, title string) Event {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventTypeDocumentUploaded,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"document_id": documentID,
			"tenant_id":   tenantID,
			"uploaded_by": uploadedBy,
			"title":       title,
		},
	}
}

func NewConfidentialAccessGranted(userID, documentID, grantedBy int64) Event {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventTypeConfidentialAccessGranted,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"user_id":     userID,
			"document_id": documentID,
			"granted_by":  grantedBy,
		},
	}
}

func NewEmployeeSyncCompleted(tenantID int64, created, updated, deactivated int) Event {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventTypeEmployeeSyncCompleted,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"tenant_id":   tenantID,
			"created":     created,
			"updated":     updated,
			"deactivated": deactivated,
		},
	}
}
