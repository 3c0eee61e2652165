package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/wicaksana/internal-portal/internal/transport"
)

type ServiceAPI interface {
	Upload(ctx context.Context, dto UploadDocumentDTO, body io.Reader) (*Document, error)
	List(ctx context.Context, query ListQuery) ([]*Document, error)
	Get(ctx context.Context, id int64) (*Document, error)
	Download(ctx context.Context, id int64) (*Document, io.ReadCloser, error)
	Update(ctx context.Context, id int64, dto UpdateDocumentDTO) (*Document, error)
	Delete(ctx context.Context, id int64) error
	SetConfidential(ctx context.Context, id int64, confidential bool) (*Document, error)
}

type Handler struct {
	*transport.BaseHandler
	Service        ServiceAPI
	maxUploadBytes int64
}

func NewHandler(svc ServiceAPI, maxUploadBytes int64, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler:    transport.NewBaseHandler(logger),
		Service:        svc,
		maxUploadBytes: maxUploadBytes,
	}
}

// UploadDocument handles POST /documents (multipart/form-data with a "file"
// part plus "title" and "is_confidential" fields).
func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.WriteError(w, http.StatusRequestEntityTooLarge, "upload too large or malformed")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "file part is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	dto := UploadDocumentDTO{
		Title:          r.FormValue("title"),
		FileName:       header.Filename,
		ContentType:    contentType,
		SizeBytes:      header.Size,
		IsConfidential: r.FormValue("is_confidential") == "true",
	}

	doc, err := h.Service.Upload(r.Context(), dto, file)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, doc)
}

// ListDocuments handles GET /documents
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	query := ListQuery{}
	if v := r.URL.Query().Get("limit"); v != "" {
		query.Limit, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		query.Offset, _ = strconv.Atoi(v)
	}

	docs, err := h.Service.List(r.Context(), query)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"documents": docs,
		"limit":     query.Limit,
		"offset":    query.Offset,
	})
}

// GetDocument handles GET /documents/{id}
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := h.documentID(w, r)
	if !ok {
		return
	}

	doc, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, doc)
}

// DownloadDocument handles GET /documents/{id}/download
func (h *Handler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := h.documentID(w, r)
	if !ok {
		return
	}

	doc, body, err := h.Service.Download(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	w.Header().Set("Content-Length", strconv.FormatInt(doc.SizeBytes, 10))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, body); err != nil {
		h.Logger.Error("document download aborted", "document_id", doc.ID, "error", err)
	}
}

// UpdateDocument handles PATCH /documents/{id}
func (h *Handler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := h.documentID(w, r)
	if !ok {
		return
	}

	var dto UpdateDocumentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, doc)
}

// DeleteDocument handles DELETE /documents/{id}
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := h.documentID(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetConfidential handles PUT /documents/{id}/confidential
func (h *Handler) SetConfidential(w http.ResponseWriter, r *http.Request) {
	id, ok := h.documentID(w, r)
	if !ok {
		return
	}

	var dto SetConfidentialDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := h.Service.SetConfidential(r.Context(), id, dto.IsConfidential)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, doc)
}

func (h *Handler) documentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.WriteError(w, http.StatusBadRequest, "invalid document id")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		h.WriteError(w, http.StatusBadRequest, validationErr.Message)
		return
	}
	h.WriteAppError(w, err, "internal server error")
}
