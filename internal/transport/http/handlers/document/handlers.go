package documenthandler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"intranet/internal/domain/audit"
	"intranet/internal/domain/auth"
	"intranet/internal/domain/directory"
	"intranet/internal/domain/document"
	"intranet/internal/domain/notify"
	"intranet/internal/transport/http/api"
	"intranet/internal/transport/http/middleware"
	"intranet/internal/transport/http/shared"
)

const maxDocumentBytes = 20 * 1024 * 1024

type Handler struct {
	Service   *document.Service
	Directory *directory.Service
	Notify    *notify.Service
	Audit     *audit.Service
}

func NewHandler(service *document.Service, dir *directory.Service, notifySvc *notify.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Directory: dir, Notify: notifySvc, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	upload := middleware.RequireCapability(directory.CapUploadDocuments, h.Directory)

	r.Route("/documents", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.With(upload).Post("/", h.handleUpload)
		r.Get("/{documentID}", h.handleGet)
		r.Get("/{documentID}/download", h.handleDownload)
		r.With(upload).Delete("/{documentID}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	documents, err := h.Service.List(r.Context(), user)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, documents, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	doc, err := h.Service.GetFor(r.Context(), chi.URLParam(r, "documentID"), user)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Service.RecordView(r.Context(), doc.ID); err != nil {
		slog.Warn("document view count failed", "err", err)
	}
	api.Success(w, doc, middleware.GetRequestID(r.Context()))
}

// handleUpload accepts a multipart form with the file plus metadata fields.
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	if err := r.ParseMultipartForm(maxDocumentBytes); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid multipart form", middleware.GetRequestID(r.Context()))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "file field is required", middleware.GetRequestID(r.Context()))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxDocumentBytes))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "failed to read file", middleware.GetRequestID(r.Context()))
		return
	}

	validFrom, err := shared.ParseDate(r.FormValue("validFrom"))
	if err != nil {
		api.Fail(w, http.StatusUnprocessableEntity, "validation_failed", "invalid validFrom date", middleware.GetRequestID(r.Context()))
		return
	}
	validUntil, err := shared.ParseDate(r.FormValue("validUntil"))
	if err != nil {
		api.Fail(w, http.StatusUnprocessableEntity, "validation_failed", "invalid validUntil date", middleware.GetRequestID(r.Context()))
		return
	}

	input := document.UploadInput{
		Title:       r.FormValue("title"),
		Type:        r.FormValue("type"),
		Category:    r.FormValue("category"),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
		Public:      r.FormValue("public") == "true",
	}
	if !validFrom.IsZero() {
		input.ValidFrom = &validFrom
	}
	if !validUntil.IsZero() {
		input.ValidUntil = &validUntil
	}
	if areas := strings.TrimSpace(r.FormValue("areaIds")); areas != "" {
		input.AreaIDs = strings.Split(areas, ",")
	}

	doc, err := h.Service.Upload(r.Context(), user.UserID, input)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "document.upload", "document", doc.ID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r)); err != nil {
		slog.Warn("audit document.upload failed", "err", err)
	}
	h.fanout(r, doc)
	api.Created(w, doc, middleware.GetRequestID(r.Context()))
}

// fanout follows document access: public documents reach everyone, restricted
// ones the direction levels plus the targeted areas.
func (h *Handler) fanout(r *http.Request, doc document.Document) {
	title := "New document: " + doc.Title
	message := fmt.Sprintf("Document %s (%s) is available.", doc.Code, doc.Title)

	if doc.Public {
		if err := h.Notify.Fanout(r.Context(), notify.TypeDocumentPublished, title, message, nil, nil); err != nil {
			slog.Warn("notify document fanout failed", "err", err)
		}
		return
	}

	if err := h.Notify.Fanout(r.Context(), notify.TypeDocumentPublished, title, message,
		[]int{auth.LevelSubDirection, auth.LevelDirection}, nil); err != nil {
		slog.Warn("notify document fanout failed", "err", err)
	}
	if len(doc.AreaIDs) > 0 {
		if err := h.Notify.Fanout(r.Context(), notify.TypeDocumentPublished, title, message,
			[]int{auth.LevelFunctionary, auth.LevelSupervisor}, doc.AreaIDs); err != nil {
			slog.Warn("notify document fanout failed", "err", err)
		}
	}
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	doc, content, err := h.Service.Download(r.Context(), chi.URLParam(r, "documentID"), user)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	if _, err := w.Write(content); err != nil {
		slog.Warn("document write failed", "err", err)
	}
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	documentID := chi.URLParam(r, "documentID")

	if err := h.Service.Delete(r.Context(), documentID); err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "document.delete", "document", documentID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r)); err != nil {
		slog.Warn("audit document.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}
