package ledgerhandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"intranet/internal/domain/audit"
	"intranet/internal/domain/auth"
	"intranet/internal/domain/ledger"
	"intranet/internal/platform/db"
	"intranet/internal/transport/http/api"
	"intranet/internal/transport/http/middleware"
	"intranet/internal/transport/http/shared"
)

type Handler struct {
	DB     db.Querier
	Ledger *ledger.Ledger
	Audit  *audit.Service
}

func NewHandler(q db.Querier, led *ledger.Ledger, auditSvc *audit.Service) *Handler {
	return &Handler{DB: q, Ledger: led, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/balances", func(r chi.Router) {
		r.With(middleware.RequireLevel(auth.LevelSubDirection)).Post("/adjust", h.handleAdjust)
	})
}

type adjustPayload struct {
	EmployeeID string `json:"employeeId"`
	Type       string `json:"type"`
	Quantity   string `json:"quantity"`
	Direction  string `json:"direction"`
	Reason     string `json:"reason"`
}

// handleAdjust is the manual correction path, used among other things to
// restore balance after a medical-leave anulment.
func (h *Handler) handleAdjust(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload adjustPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	quantity, err := decimal.NewFromString(payload.Quantity)
	if err != nil || quantity.LessThanOrEqual(decimal.Zero) {
		api.Fail(w, http.StatusUnprocessableEntity, "validation_failed", "quantity must be a positive number", middleware.GetRequestID(r.Context()))
		return
	}
	direction := ledger.Direction(payload.Direction)
	if direction != ledger.Consume && direction != ledger.Restore {
		api.Fail(w, http.StatusUnprocessableEntity, "validation_failed", "direction must be consume or restore", middleware.GetRequestID(r.Context()))
		return
	}

	err = h.Ledger.ManualAdjust(r.Context(), h.DB, payload.EmployeeID,
		ledger.LeaveType(payload.Type), quantity, direction, user.UserID, payload.Reason)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "balance.adjust", "employee", payload.EmployeeID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r)); err != nil {
		slog.Warn("audit balance.adjust failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "adjusted"}, middleware.GetRequestID(r.Context()))
}
