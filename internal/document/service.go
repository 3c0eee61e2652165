package document

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/google/uuid"

	"github.com/wicaksana/internal-portal/internal"
	"github.com/wicaksana/internal-portal/internal/core/events"
	"github.com/wicaksana/internal-portal/internal/permission"
	"github.com/wicaksana/internal-portal/pkg/storage"
)

type RepositoryAPI interface {
	Create(ctx context.Context, d *Document) error
	GetByID(ctx context.Context, tenantID, id int64) (*Document, error)
	List(ctx context.Context, tenantID int64, limit, offset int) ([]*Document, error)
	Update(ctx context.Context, d *Document) error
	SoftDelete(ctx context.Context, tenantID, id int64) error
}

// AccessChecker is the slice of the permission service the document module
// needs. Every read and mutation goes through it; the repository layer never
// makes authorization decisions.
type AccessChecker interface {
	CheckPermission(ctx context.Context, userID int64, area permission.Area, action permission.Action) (bool, error)
	CheckDocumentAccess(ctx context.Context, userID int64, action permission.Action, documentID, tenantID int64, isConfidential bool) (bool, error)
	ConfidentialAllowList(ctx context.Context, userID int64) ([]int64, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo           RepositoryAPI
	store          storage.ObjectStorage
	access         AccessChecker
	bus            EventPublisher
	maxUploadBytes int64
	logger         *slog.Logger
}

func NewService(repo RepositoryAPI, store storage.ObjectStorage, access AccessChecker, bus EventPublisher, maxUploadBytes int64, logger *slog.Logger) *Service {
	return &Service{
		repo:           repo,
		store:          store,
		access:         access,
		bus:            bus,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Upload stores the file body and records the document row. The storage key
// is namespaced by tenant so blobs can never collide across tenants.
func (s *Service) Upload(ctx context.Context, dto UploadDocumentDTO, body io.Reader) (*Document, error) {
	actor, ok := internal.ActorFromContext(ctx)
	if !ok {
		return nil, internal.ErrUnauthenticated
	}

	allowed, err := s.access.CheckPermission(ctx, actor.UserID, permission.AreaDocuments, permission.ActionEdit)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, internal.ErrPermissionDenied
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if dto.SizeBytes > s.maxUploadBytes {
		return nil, NewValidationError(fmt.Sprintf("file exceeds the maximum upload size of %d bytes", s.maxUploadBytes))
	}

	key := fmt.Sprintf("tenants/%d/documents/%s%s", actor.TenantID, uuid.NewString(), path.Ext(dto.FileName))
	if err := s.store.Put(ctx, key, body, dto.ContentType); err != nil {
		return nil, fmt.Errorf("store document body: %w", err)
	}

	doc := &Document{
		TenantID:       actor.TenantID,
		Title:          dto.Title,
		FileName:       dto.FileName,
		ContentType:    dto.ContentType,
		SizeBytes:      dto.SizeBytes,
		StorageKey:     key,
		IsConfidential: dto.IsConfidential,
		UploadedBy:     actor.UserID,
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		// best effort cleanup of the orphaned blob
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.Warn("orphaned blob cleanup failed", "storage_key", key, "error", delErr)
		}
		return nil, fmt.Errorf("create document: %w", err)
	}

	s.logger.Info("document uploaded",
		"document_id", doc.ID,
		"tenant_id", doc.TenantID,
		"uploaded_by", actor.UserID,
		"confidential", doc.IsConfidential,
		"size_bytes", doc.SizeBytes)
	if s.bus != nil {
		_ = s.bus.Publish(ctx, events.NewDocumentUploaded(doc.ID, doc.TenantID, actor.UserID, doc.Title))
	}

	return doc, nil
}

// List returns the tenant's documents visible to the caller. Confidential
// documents are filtered out unless the caller holds an elevated role or is
// on the document's allow-list; filtered documents leave no trace in the
// response.
func (s *Service) List(ctx context.Context, query ListQuery) ([]*Document, error) {
	actor, ok := internal.ActorFromContext(ctx)
	if !ok {
		return nil, internal.ErrUnauthenticated
	}

	allowed, err := s.access.CheckPermission(ctx, actor.UserID, permission.AreaDocuments, permission.ActionView)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, internal.ErrPermissionDenied
	}

	query.Normalize()
	docs, err := s.repo.List(ctx, actor.TenantID, query.Limit, query.Offset)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	if actor.Role >= internal.RoleAdmin {
		return docs, nil
	}

	allowList, err := s.access.ConfidentialAllowList(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	allowListed := make(map[int64]struct{}, len(allowList))
	for _, id := range allowList {
		allowListed[id] = struct{}{}
	}

	visible := make([]*Document, 0, len(docs))
	for _, doc := range docs {
		if doc.IsConfidential {
			if _, ok := allowListed[doc.ID]; !ok {
				continue
			}
		}
		visible = append(visible, doc)
	}
	return visible, nil
}

// Get returns a single document. A denied confidential document reads as not
// found so its existence is never revealed.
func (s *Service) Get(ctx context.Context, id int64) (*Document, error) {
	return s.authorize(ctx, id, permission.ActionView)
}

// Download returns the document metadata and its body stream. The caller
// must close the reader.
func (s *Service) Download(ctx context.Context, id int64) (*Document, io.ReadCloser, error) {
	doc, err := s.authorize(ctx, id, permission.ActionView)
	if err != nil {
		return nil, nil, err
	}

	body, err := s.store.Get(ctx, doc.StorageKey)
	if err != nil {
		s.logger.Error("document blob missing", "document_id", doc.ID, "storage_key", doc.StorageKey, "error", err)
		return nil, nil, internal.NewInternalError("document body unavailable", err)
	}
	return doc, body, nil
}

// Update changes document metadata.
func (s *Service) Update(ctx context.Context, id int64, dto UpdateDocumentDTO) (*Document, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	doc, err := s.authorize(ctx, id, permission.ActionEdit)
	if err != nil {
		return nil, err
	}

	if dto.Title != nil {
		doc.Title = *dto.Title
	}
	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, fmt.Errorf("update document: %w", err)
	}
	return doc, nil
}

// Delete removes the document from listings. The row and blob are kept so
// the action can be audited and reversed by an operator.
func (s *Service) Delete(ctx context.Context, id int64) error {
	doc, err := s.authorize(ctx, id, permission.ActionDelete)
	if err != nil {
		return err
	}

	actor, _ := internal.ActorFromContext(ctx)
	if err := s.repo.SoftDelete(ctx, doc.TenantID, doc.ID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	s.logger.Info("document deleted", "document_id", doc.ID, "tenant_id", doc.TenantID, "deleted_by", actor.UserID)
	return nil
}

// SetConfidential flips the confidentiality flag. Restricted to admins and
// superadmins on top of the usual edit check, since marking a document
// confidential changes who can see it.
func (s *Service) SetConfidential(ctx context.Context, id int64, confidential bool) (*Document, error) {
	actor, ok := internal.ActorFromContext(ctx)
	if !ok {
		return nil, internal.ErrUnauthenticated
	}
	if actor.Role < internal.RoleAdmin {
		return nil, internal.ErrPermissionDenied
	}

	doc, err := s.authorize(ctx, id, permission.ActionEdit)
	if err != nil {
		return nil, err
	}

	doc.IsConfidential = confidential
	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, fmt.Errorf("update document confidentiality: %w", err)
	}
	s.logger.Info("document confidentiality changed",
		"document_id", doc.ID,
		"confidential", confidential,
		"changed_by", actor.UserID)
	return doc, nil
}

// authorize loads the document within the caller's tenant and runs the
// permission check for the given action.
func (s *Service) authorize(ctx context.Context, id int64, action permission.Action) (*Document, error) {
	actor, ok := internal.ActorFromContext(ctx)
	if !ok {
		return nil, internal.ErrUnauthenticated
	}

	doc, err := s.repo.GetByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	if doc == nil {
		return nil, internal.ErrDocumentNotFound
	}

	allowed, err := s.access.CheckDocumentAccess(ctx, actor.UserID, action, doc.ID, doc.TenantID, doc.IsConfidential)
	if err != nil {
		return nil, err
	}
	if !allowed {
		if doc.IsConfidential {
			return nil, internal.ErrDocumentNotFound
		}
		return nil, internal.ErrPermissionDenied
	}
	return doc, nil
}
