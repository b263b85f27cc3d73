package requesthandler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"intranet/internal/domain/audit"
	"intranet/internal/domain/auth"
	"intranet/internal/domain/directory"
	"intranet/internal/domain/ledger"
	"intranet/internal/domain/notify"
	"intranet/internal/domain/request"
	"intranet/internal/platform/metrics"
	"intranet/internal/transport/http/api"
	"intranet/internal/transport/http/middleware"
	"intranet/internal/transport/http/shared"
)

type Handler struct {
	Service    *request.Service
	Directory  *directory.Service
	Notify     *notify.Service
	Audit      *audit.Service
	Metrics    *metrics.Collector
	StorageDir string
}

func NewHandler(service *request.Service, dir *directory.Service, notifySvc *notify.Service, auditSvc *audit.Service, collector *metrics.Collector, storageDir string) *Handler {
	return &Handler{Service: service, Directory: dir, Notify: notifySvc, Audit: auditSvc, Metrics: collector, StorageDir: storageDir}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	approve := middleware.RequireCapability(directory.CapApproveRequests, h.Directory)

	r.Route("/requests", func(r chi.Router) {
		r.Post("/", h.handleSubmit)
		r.Get("/mine", h.handleListMine)
		r.With(middleware.RequireLevel(auth.LevelSupervisor)).Get("/inbox", h.handleInbox)
		r.Get("/decisions", h.handleMyDecisions)
		r.With(middleware.RequireLevel(auth.LevelSubDirection)).Get("/history", h.handleHistory)
		r.Get("/{requestID}", h.handleGet)
		r.With(approve).Post("/{requestID}/approve", h.handleApprove)
		r.With(approve).Post("/{requestID}/reject", h.handleReject)
		r.Post("/{requestID}/cancel", h.handleCancel)
		r.With(middleware.RequireLevel(auth.LevelSubDirection)).Post("/{requestID}/request-medical-cancellation", h.handleRequestMedicalCancellation)
		r.With(middleware.RequireLevel(auth.LevelSubDirection)).Post("/{requestID}/finalize-medical-cancellation", h.handleFinalizeMedicalCancellation)
		r.Get("/{requestID}/pdf", h.handleDownloadPDF)
	})
}

type submitPayload struct {
	Type         string `json:"type"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	Quantity     string `json:"quantity"`
	Reason       string `json:"reason"`
	ContactPhone string `json:"contactPhone"`
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
	quantity, err := decimal.NewFromString(payload.Quantity)
	if err != nil {
		api.Fail(w, http.StatusUnprocessableEntity, "validation_failed", "invalid quantity", middleware.GetRequestID(r.Context()))
		return
	}

	req, err := h.Service.Submit(r.Context(), user.UserID, request.SubmitInput{
		Type:         ledger.LeaveType(payload.Type),
		StartDate:    start,
		EndDate:      end,
		Quantity:     quantity,
		Reason:       payload.Reason,
		ContactPhone: payload.ContactPhone,
	})
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "request.submit", "leave_request", req.ID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r)); err != nil {
		slog.Warn("audit request.submit failed", "err", err)
	}
	if err := h.Notify.Notify(r.Context(), user.UserID, notify.TypeRequestSubmitted,
		"Request submitted", fmt.Sprintf("Your leave request %s was submitted.", req.Number)); err != nil {
		slog.Warn("notify request.submit failed", "err", err)
	}
	api.Created(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	req, err := h.Service.Get(r.Context(), chi.URLParam(r, "requestID"))
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if !canSee(user, req) {
		api.Fail(w, http.StatusForbidden, "forbidden", "outside visibility scope", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

func canSee(actor auth.UserContext, req request.LeaveRequest) bool {
	switch {
	case actor.RoleLevel >= auth.LevelSubDirection:
		return true
	case actor.RoleLevel == auth.LevelSupervisor:
		return req.AreaID == actor.AreaID || req.EmployeeID == actor.UserID
	default:
		return req.EmployeeID == actor.UserID
	}
}

func (h *Handler) handleListMine(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requests, err := h.Service.ListMine(r.Context(), user.UserID)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, requests, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleInbox(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requests, err := h.Service.PendingInbox(r.Context(), user)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, requests, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMyDecisions(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requests, err := h.Service.MyDecisions(r.Context(), user.UserID)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, requests, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	requests, err := h.Service.History(r.Context())
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, requests, middleware.GetRequestID(r.Context()))
}

type decisionPayload struct {
	Comments string `json:"comments"`
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := chi.URLParam(r, "requestID")

	var payload decisionPayload
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
			return
		}
	}

	approver, err := h.Directory.GetEmployee(r.Context(), user.UserID)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	req, err := h.Service.Approve(r.Context(), requestID, approver, payload.Comments)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "request.approve", "leave_request", req.ID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r)); err != nil {
		slog.Warn("audit request.approve failed", "err", err)
	}
	if req.State == request.StateApproved {
		h.Metrics.RequestApproved()
		if err := h.Notify.Notify(r.Context(), req.EmployeeID, notify.TypeRequestApproved,
			"Request approved", fmt.Sprintf("Your leave request %s was approved.", req.Number)); err != nil {
			slog.Warn("notify request.approve failed", "err", err)
		}
	}
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := chi.URLParam(r, "requestID")

	var payload decisionPayload
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
			return
		}
	}

	approver, err := h.Directory.GetEmployee(r.Context(), user.UserID)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	req, err := h.Service.Reject(r.Context(), requestID, approver, payload.Comments)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	h.Metrics.RequestRejected()
	if err := h.Audit.Record(r.Context(), user.UserID, "request.reject", "leave_request", req.ID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r)); err != nil {
		slog.Warn("audit request.reject failed", "err", err)
	}
	if err := h.Notify.Notify(r.Context(), req.EmployeeID, notify.TypeRequestRejected,
		"Request rejected", fmt.Sprintf("Your leave request %s was rejected.", req.Number)); err != nil {
		slog.Warn("notify request.reject failed", "err", err)
	}
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := chi.URLParam(r, "requestID")

	req, err := h.Service.CancelByEmployee(r.Context(), requestID, user.UserID)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "request.cancel", "leave_request", req.ID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r)); err != nil {
		slog.Warn("audit request.cancel failed", "err", err)
	}
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRequestMedicalCancellation(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := chi.URLParam(r, "requestID")

	req, err := h.Service.RequestMedicalCancellation(r.Context(), requestID)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "request.medical_cancellation.request", "leave_request", req.ID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r)); err != nil {
		slog.Warn("audit request.medical_cancellation.request failed", "err", err)
	}
	if err := h.Notify.Notify(r.Context(), req.EmployeeID, notify.TypeCancellationRequest,
		"Cancellation requested", fmt.Sprintf("Cancellation of request %s was requested due to a medical leave.", req.Number)); err != nil {
		slog.Warn("notify cancellation request failed", "err", err)
	}
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleFinalizeMedicalCancellation(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := chi.URLParam(r, "requestID")

	approver, err := h.Directory.GetEmployee(r.Context(), user.UserID)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	req, err := h.Service.FinalizeMedicalCancellation(r.Context(), requestID, approver)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "request.medical_cancellation.finalize", "leave_request", req.ID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r)); err != nil {
		slog.Warn("audit request.medical_cancellation.finalize failed", "err", err)
	}
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDownloadPDF(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := chi.URLParam(r, "requestID")

	req, err := h.Service.Get(r.Context(), requestID)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if !canSee(user, req) {
		api.Fail(w, http.StatusForbidden, "forbidden", "outside visibility scope", middleware.GetRequestID(r.Context()))
		return
	}

	filePath, err := h.Service.GeneratePDF(r.Context(), requestID, h.StorageDir)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", req.Number+".pdf"))
	if _, err := w.Write(data); err != nil {
		slog.Warn("pdf write failed", "err", err)
	}
}
