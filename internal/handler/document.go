package handler

import (
	"log/slog"
	"net/http"

	"folio/internal/domain/services"
	"folio/internal/httputil"
)

// DocumentHandler serves the document tree, path-addressed documents and
// the revision surfaces of one project.
type DocumentHandler struct {
	documentService services.DocumentService
	logger          *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentService services.DocumentService, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		logger:          logger,
	}
}

// GetTree handles GET /api/projects/{slug}/tree
func (h *DocumentHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	userID := httputil.GetUserID(r)

	tree, err := h.documentService.GetDocumentTree(r.Context(), slug, userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"tree": tree})
}

// GetDocument handles GET /api/projects/{slug}/documents/{path...}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	path := r.PathValue("path")
	userID := httputil.GetUserID(r)

	doc, err := h.documentService.GetDocument(r.Context(), slug, path, userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// PutDocument handles PUT /api/projects/{slug}/documents/{path...}
func (h *DocumentHandler) PutDocument(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	path := r.PathValue("path")
	userID := httputil.GetUserID(r)

	var req services.PutDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.documentService.PutDocument(r.Context(), slug, path, &req, userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// DeleteDocument handles DELETE /api/projects/{slug}/documents/{path...}
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	path := r.PathValue("path")
	userID := httputil.GetUserID(r)

	var message *string
	if r.ContentLength > 0 {
		var req services.DeleteDocumentRequest
		if err := httputil.ParseJSON(w, r, &req); err != nil {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		message = req.Message
	}

	if err := h.documentService.DeleteDocument(r.Context(), slug, path, userID, message); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetActivity handles GET /api/projects/{slug}/activity
func (h *DocumentHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	userID := httputil.GetUserID(r)
	skip, limit := httputil.ParsePagination(r, 50)

	activity, err := h.documentService.GetProjectActivity(r.Context(), slug, userID, skip, limit)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"batches": activity})
}

// GetHistory handles GET /api/projects/{slug}/history/{path...}
func (h *DocumentHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	path := r.PathValue("path")
	userID := httputil.GetUserID(r)
	skip, limit := httputil.ParsePagination(r, 50)

	history, err := h.documentService.GetDocumentHistory(r.Context(), slug, path, userID, skip, limit)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"entries": history})
}

// HealthCheck handles GET /health
func (h *DocumentHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
