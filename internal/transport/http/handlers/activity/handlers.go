package activityhandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"intranet/internal/domain/activity"
	"intranet/internal/domain/audit"
	"intranet/internal/domain/directory"
	"intranet/internal/transport/http/api"
	"intranet/internal/transport/http/middleware"
	"intranet/internal/transport/http/shared"
)

type Handler struct {
	Service   *activity.Service
	Directory *directory.Service
	Audit     *audit.Service
}

func NewHandler(service *activity.Service, dir *directory.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Directory: dir, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	create := middleware.RequireCapability(directory.CapCreateActivities, h.Directory)

	r.Route("/activities", func(r chi.Router) {
		r.Get("/", h.handleListUpcoming)
		r.With(create).Post("/", h.handleCreate)
		r.Get("/{activityID}", h.handleGet)
		r.With(create).Delete("/{activityID}", h.handleDeactivate)
		r.Post("/{activityID}/enroll", h.handleEnroll)
		r.Post("/{activityID}/withdraw", h.handleWithdraw)
		r.Get("/{activityID}/enrollments", h.handleEnrollments)
	})
}

func (h *Handler) handleListUpcoming(w http.ResponseWriter, r *http.Request) {
	activities, err := h.Service.ListUpcoming(r.Context())
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, activities, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	a, err := h.Service.Get(r.Context(), chi.URLParam(r, "activityID"))
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, a, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload activity.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	a, err := h.Service.Create(r.Context(), user.UserID, payload)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "activity.create", "activity", a.ID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r)); err != nil {
		slog.Warn("audit activity.create failed", "err", err)
	}
	api.Created(w, a, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	activityID := chi.URLParam(r, "activityID")

	if err := h.Service.Deactivate(r.Context(), activityID); err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "activity.deactivate", "activity", activityID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r)); err != nil {
		slog.Warn("audit activity.deactivate failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "deactivated"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleEnroll(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	activityID := chi.URLParam(r, "activityID")

	if err := h.Service.Enroll(r.Context(), activityID, user.UserID); err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "enrolled"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	activityID := chi.URLParam(r, "activityID")

	if err := h.Service.Withdraw(r.Context(), activityID, user.UserID); err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "withdrawn"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleEnrollments(w http.ResponseWriter, r *http.Request) {
	enrollments, err := h.Service.Enrollments(r.Context(), chi.URLParam(r, "activityID"))
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, enrollments, middleware.GetRequestID(r.Context()))
}
