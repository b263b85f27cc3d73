package reporthandler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"intranet/internal/domain/directory"
	"intranet/internal/domain/report"
	"intranet/internal/transport/http/api"
	"intranet/internal/transport/http/middleware"
)

type Handler struct {
	Service   *report.Service
	Directory *directory.Service
}

func NewHandler(service *report.Service, dir *directory.Service) *Handler {
	return &Handler{Service: service, Directory: dir}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	view := middleware.RequireCapability(directory.CapViewReports, h.Directory)

	r.Route("/reports", func(r chi.Router) {
		r.With(view).Get("/balances", h.handleBalances)
		r.With(view).Get("/balances/export", h.handleBalancesExport)
		r.With(view).Get("/usage", h.handleUsage)
		r.With(view).Get("/usage/export", h.handleUsageExport)
		r.With(view).Get("/dashboard", h.handleDashboard)
	})
}

func (h *Handler) handleBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.Service.AreaBalances(r.Context())
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, balances, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleBalancesExport(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.ExportBalancesXLSX(r.Context())
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	writeWorkbook(w, "balances.xlsx", data)
}

func yearParam(r *http.Request) int {
	if raw := r.URL.Query().Get("year"); raw != "" {
		if year, err := strconv.Atoi(raw); err == nil && year > 2000 {
			return year
		}
	}
	return time.Now().Year()
}

func (h *Handler) handleUsage(w http.ResponseWriter, r *http.Request) {
	usage, err := h.Service.LeaveUsage(r.Context(), yearParam(r))
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, usage, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUsageExport(w http.ResponseWriter, r *http.Request) {
	year := yearParam(r)
	data, err := h.Service.ExportUsageXLSX(r.Context(), year)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	writeWorkbook(w, fmt.Sprintf("usage-%d.xlsx", year), data)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.Service.Dashboard(r.Context())
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, dashboard, middleware.GetRequestID(r.Context()))
}

func writeWorkbook(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write(data); err != nil {
		slog.Warn("workbook write failed", "err", err)
	}
}
