package medleavehandler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"intranet/internal/domain/audit"
	"intranet/internal/domain/auth"
	"intranet/internal/domain/directory"
	"intranet/internal/domain/medleave"
	"intranet/internal/domain/notify"
	"intranet/internal/platform/metrics"
	"intranet/internal/transport/http/api"
	"intranet/internal/transport/http/middleware"
	"intranet/internal/transport/http/shared"
)

type Handler struct {
	Service   *medleave.Service
	Directory *directory.Service
	Notify    *notify.Service
	Audit     *audit.Service
	Metrics   *metrics.Collector
}

func NewHandler(service *medleave.Service, dir *directory.Service, notifySvc *notify.Service, auditSvc *audit.Service, collector *metrics.Collector) *Handler {
	return &Handler{Service: service, Directory: dir, Notify: notifySvc, Audit: auditSvc, Metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	review := middleware.RequireCapability(directory.CapManageMedicalLeaves, h.Directory)

	r.Route("/medical-leaves", func(r chi.Router) {
		r.Post("/", h.handleSubmit)
		r.Get("/mine", h.handleListMine)
		r.With(middleware.RequireLevel(auth.LevelSubDirection)).Get("/inbox", h.handleInbox)
		r.Get("/reviews", h.handleMyReviews)
		r.With(middleware.RequireLevel(auth.LevelSubDirection)).Get("/history", h.handleHistory)
		r.With(middleware.RequireLevel(auth.LevelSubDirection)).Get("/current", h.handleCurrent)
		r.Get("/{leaveID}", h.handleGet)
		r.With(review).Post("/{leaveID}/approve", h.handleApprove)
		r.With(review).Post("/{leaveID}/reject", h.handleReject)
	})
}

type submitPayload struct {
	Folio       string `json:"folio"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	DocumentURL string `json:"documentUrl"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload submitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	start, err := shared.ParseDate(payload.StartDate)
	if err != nil {
		api.Fail(w, http.StatusUnprocessableEntity, "validation_failed", "invalid start date", middleware.GetRequestID(r.Context()))
		return
	}
	end, err := shared.ParseDate(payload.EndDate)
	if err != nil {
		api.Fail(w, http.StatusUnprocessableEntity, "validation_failed", "invalid end date", middleware.GetRequestID(r.Context()))
		return
	}

	leave, err := h.Service.Submit(r.Context(), user.UserID, medleave.SubmitInput{
		Folio:       payload.Folio,
		StartDate:   start,
		EndDate:     end,
		DocumentURL: payload.DocumentURL,
	})
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "medleave.submit", "medical_leave", leave.ID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r)); err != nil {
		slog.Warn("audit medleave.submit failed", "err", err)
	}
	api.Created(w, leave, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	leave, err := h.Service.Get(r.Context(), chi.URLParam(r, "leaveID"))
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if user.RoleLevel < auth.LevelSubDirection && leave.EmployeeID != user.UserID {
		api.Fail(w, http.StatusForbidden, "forbidden", "outside visibility scope", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, leave, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListMine(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	leaves, err := h.Service.ListMine(r.Context(), user.UserID)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, leaves, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleInbox(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	leaves, err := h.Service.PendingInbox(r.Context(), user)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, leaves, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMyReviews(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	leaves, err := h.Service.MyReviews(r.Context(), user.UserID)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, leaves, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	leaves, err := h.Service.History(r.Context())
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, leaves, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	leaves, err := h.Service.Current(r.Context())
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, leaves, middleware.GetRequestID(r.Context()))
}

type reviewPayload struct {
	Comments string `json:"comments"`
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	leaveID := chi.URLParam(r, "leaveID")

	var payload reviewPayload
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
			return
		}
	}

	reviewer, err := h.Directory.GetEmployee(r.Context(), user.UserID)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	leave, flagged, err := h.Service.Approve(r.Context(), leaveID, reviewer, payload.Comments)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	h.Metrics.LeaveReviewed()
	if err := h.Audit.Record(r.Context(), user.UserID, "medleave.approve", "medical_leave", leave.ID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r)); err != nil {
		slog.Warn("audit medleave.approve failed", "err", err)
	}
	if err := h.Notify.Notify(r.Context(), leave.EmployeeID, notify.TypeMedicalLeaveReview,
		"Medical leave approved", fmt.Sprintf("Your medical leave %s was approved.", leave.Folio)); err != nil {
		slog.Warn("notify medleave.approve failed", "err", err)
	}
	if len(flagged) > 0 {
		if err := h.Notify.Notify(r.Context(), leave.EmployeeID, notify.TypeCancellationRequest,
			"Overlapping requests flagged",
			fmt.Sprintf("%d approved leave request(s) overlapping your medical leave were flagged for cancellation.", len(flagged))); err != nil {
			slog.Warn("notify medleave overlap failed", "err", err)
		}
	}
	api.Success(w, map[string]any{"leave": leave, "flaggedRequests": flagged}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	leaveID := chi.URLParam(r, "leaveID")

	var payload reviewPayload
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
			return
		}
	}

	reviewer, err := h.Directory.GetEmployee(r.Context(), user.UserID)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	leave, err := h.Service.Reject(r.Context(), leaveID, reviewer, payload.Comments)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	h.Metrics.LeaveReviewed()
	if err := h.Audit.Record(r.Context(), user.UserID, "medleave.reject", "medical_leave", leave.ID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r)); err != nil {
		slog.Warn("audit medleave.reject failed", "err", err)
	}
	if err := h.Notify.Notify(r.Context(), leave.EmployeeID, notify.TypeMedicalLeaveReview,
		"Medical leave rejected", fmt.Sprintf("Your medical leave %s was rejected: %s", leave.Folio, leave.Comments)); err != nil {
		slog.Warn("notify medleave.reject failed", "err", err)
	}
	api.Success(w, leave, middleware.GetRequestID(r.Context()))
}
