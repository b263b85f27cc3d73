package announcehandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"intranet/internal/domain/announce"
	"intranet/internal/domain/audit"
	"intranet/internal/domain/auth"
	"intranet/internal/domain/directory"
	"intranet/internal/domain/notify"
	"intranet/internal/transport/http/api"
	"intranet/internal/transport/http/middleware"
	"intranet/internal/transport/http/shared"
)

type Handler struct {
	Service   *announce.Service
	Directory *directory.Service
	Notify    *notify.Service
	Audit     *audit.Service
}

func NewHandler(service *announce.Service, dir *directory.Service, notifySvc *notify.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Directory: dir, Notify: notifySvc, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	publish := middleware.RequireCapability(directory.CapPublishAnnouncements, h.Directory)

	r.Route("/announcements", func(r chi.Router) {
		r.Get("/", h.handleListCurrent)
		r.With(publish).Post("/", h.handleCreate)
		r.With(publish).Put("/{announcementID}", h.handleUpdate)
		r.With(publish).Delete("/{announcementID}", h.handleDeactivate)
	})
}

func (h *Handler) handleListCurrent(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	announcements, err := h.Service.ListCurrent(r.Context(), user)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, announcements, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload announce.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	a, err := h.Service.Create(r.Context(), user.UserID, payload)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "announcement.create", "announcement", a.ID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r)); err != nil {
		slog.Warn("audit announcement.create failed", "err", err)
	}
	h.fanout(r, a)
	api.Created(w, a, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	announcementID := chi.URLParam(r, "announcementID")

	var payload announce.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	a, err := h.Service.Update(r.Context(), announcementID, payload)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "announcement.update", "announcement", a.ID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r)); err != nil {
		slog.Warn("audit announcement.update failed", "err", err)
	}
	api.Success(w, a, middleware.GetRequestID(r.Context()))
}

// fanout mirrors the visibility matrix: direction levels always get the
// notification, targeted levels only within the targeted areas.
func (h *Handler) fanout(r *http.Request, a announce.Announcement) {
	title := "New announcement: " + a.Title

	if err := h.Notify.Fanout(r.Context(), notify.TypeAnnouncement, title, a.Title,
		[]int{auth.LevelSubDirection, auth.LevelDirection}, nil); err != nil {
		slog.Warn("notify announcement fanout failed", "err", err)
	}

	var levels []int
	switch a.Visibility {
	case announce.VisibilityFunctionaries:
		levels = []int{auth.LevelFunctionary}
	case announce.VisibilitySupervisors:
		levels = []int{auth.LevelSupervisor}
	case announce.VisibilityBoth:
		levels = []int{auth.LevelFunctionary, auth.LevelSupervisor}
	default:
		return
	}
	areas := a.AreaIDs
	if a.AllAreas {
		areas = nil
	}
	if err := h.Notify.Fanout(r.Context(), notify.TypeAnnouncement, title, a.Title, levels, areas); err != nil {
		slog.Warn("notify announcement fanout failed", "err", err)
	}
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	announcementID := chi.URLParam(r, "announcementID")

	if err := h.Service.Deactivate(r.Context(), announcementID); err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "announcement.deactivate", "announcement", announcementID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r)); err != nil {
		slog.Warn("audit announcement.deactivate failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "deactivated"}, middleware.GetRequestID(r.Context()))
}
