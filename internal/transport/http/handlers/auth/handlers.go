package authhandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"intranet/internal/domain/audit"
	"intranet/internal/domain/auth"
	"intranet/internal/domain/directory"
	"intranet/internal/transport/http/api"
	"intranet/internal/transport/http/middleware"
	"intranet/internal/transport/http/shared"
)

const tokenTTL = 12 * time.Hour

type Handler struct {
	Directory *directory.Service
	Audit     *audit.Service
	JWTSecret string
}

func NewHandler(dir *directory.Service, auditSvc *audit.Service, jwtSecret string) *Handler {
	return &Handler{Directory: dir, Audit: auditSvc, JWTSecret: jwtSecret}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.handleLogin)
		r.With(middleware.RequireAuth).Get("/me", h.handleMe)
		r.With(middleware.RequireAuth).Post("/change-password", h.handleChangePassword)
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		RUT      string `json:"rut"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	id, hash, err := h.Directory.PasswordHash(r.Context(), payload.RUT)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", middleware.GetRequestID(r.Context()))
		return
	}
	if err := auth.CheckPassword(hash, payload.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", middleware.GetRequestID(r.Context()))
		return
	}

	emp, err := h.Directory.GetEmployee(r.Context(), id)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, auth.Claims{
		UserID:    emp.ID,
		RUT:       emp.RUT,
		RoleLevel: emp.RoleLevel,
		AreaID:    emp.AreaID,
	}, tokenTTL)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), emp.ID, "auth.login", "employee", emp.ID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r)); err != nil {
		slog.Warn("audit auth.login failed", "err", err)
	}
	api.Success(w, map[string]any{"token": token, "employee": emp}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	emp, err := h.Directory.GetEmployee(r.Context(), user.UserID)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"employee": emp, "balances": emp.Balances()}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if len(strings.TrimSpace(payload.NewPassword)) < 8 {
		api.Fail(w, http.StatusUnprocessableEntity, "validation_failed", "new password must be at least 8 characters", middleware.GetRequestID(r.Context()))
		return
	}

	hash, err := h.Directory.PasswordHashByID(r.Context(), user.UserID)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if err := auth.CheckPassword(hash, payload.CurrentPassword); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "current password does not match", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Directory.SetPassword(r.Context(), user.UserID, payload.NewPassword); err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "password changed"}, middleware.GetRequestID(r.Context()))
}
