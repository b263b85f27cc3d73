package directoryhandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"intranet/internal/domain/audit"
	"intranet/internal/domain/auth"
	"intranet/internal/domain/directory"
	"intranet/internal/transport/http/api"
	"intranet/internal/transport/http/middleware"
	"intranet/internal/transport/http/shared"
)

type Handler struct {
	Service *directory.Service
	Audit   *audit.Service
}

func NewHandler(service *directory.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	manageUsers := middleware.RequireCapability(directory.CapManageUsers, h.Service)

	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.With(manageUsers).Post("/", h.handleCreate)
		r.Get("/{employeeID}", h.handleGet)
		r.Get("/{employeeID}/balances", h.handleBalances)
		r.With(manageUsers).Put("/{employeeID}", h.handleUpdate)
		r.With(manageUsers).Delete("/{employeeID}", h.handleDeactivate)
	})
	r.Get("/roles", h.handleListRoles)
	r.Route("/areas", func(r chi.Router) {
		r.Get("/", h.handleListAreas)
		r.With(manageUsers).Post("/", h.handleCreateArea)
		r.Get("/{areaID}/members", h.handleAreaMembers)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 50, 200)
	employees, err := h.Service.ListEmployees(r.Context(), user, page.Limit, page.Offset)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, employees, middleware.GetRequestID(r.Context()))
}

// handleGet enforces the same visibility scoping as listing: a Functionary
// may only fetch themselves, a Supervisor their own area.
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	emp, err := h.Service.GetEmployee(r.Context(), employeeID)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if !visibleTo(user, emp) {
		api.Fail(w, http.StatusForbidden, "forbidden", "outside visibility scope", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleBalances(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	emp, err := h.Service.GetEmployee(r.Context(), employeeID)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if !visibleTo(user, emp) {
		api.Fail(w, http.StatusForbidden, "forbidden", "outside visibility scope", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, emp.Balances(), middleware.GetRequestID(r.Context()))
}

func visibleTo(actor auth.UserContext, emp directory.Employee) bool {
	switch {
	case actor.RoleLevel >= auth.LevelSubDirection:
		return true
	case actor.RoleLevel == auth.LevelSupervisor:
		return emp.AreaID == actor.AreaID
	default:
		return emp.ID == actor.UserID
	}
}

type createEmployeePayload struct {
	RUT              string `json:"rut"`
	FirstName        string `json:"firstName"`
	LastNamePaternal string `json:"lastNamePaternal"`
	LastNameMaternal string `json:"lastNameMaternal"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Position         string `json:"position"`
	AreaID           string `json:"areaId"`
	RoleID           string `json:"roleId"`
	HireDate         string `json:"hireDate"`
	Password         string `json:"password"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload createEmployeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	hireDate, err := shared.ParseDate(payload.HireDate)
	if err != nil {
		api.Fail(w, http.StatusUnprocessableEntity, "validation_failed", "invalid hire date", middleware.GetRequestID(r.Context()))
		return
	}
	if hireDate.IsZero() {
		hireDate = time.Now()
	}

	id, err := h.Service.CreateEmployee(r.Context(), directory.CreateEmployeeInput{
		RUT:              payload.RUT,
		FirstName:        payload.FirstName,
		LastNamePaternal: payload.LastNamePaternal,
		LastNameMaternal: payload.LastNameMaternal,
		Email:            payload.Email,
		Phone:            payload.Phone,
		Position:         payload.Position,
		AreaID:           payload.AreaID,
		RoleID:           payload.RoleID,
		HireDate:         hireDate,
		Password:         payload.Password,
	})
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "employee.create", "employee", id,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r)); err != nil {
		slog.Warn("audit employee.create failed", "err", err)
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	var payload struct {
		Phone    string `json:"phone"`
		Position string `json:"position"`
		AreaID   string `json:"areaId"`
		RoleID   string `json:"roleId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	err := h.Service.UpdateEmployee(r.Context(), employeeID, directory.UpdateEmployeeInput{
		Phone:    payload.Phone,
		Position: payload.Position,
		AreaID:   payload.AreaID,
		RoleID:   payload.RoleID,
	})
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "employee.update", "employee", employeeID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r)); err != nil {
		slog.Warn("audit employee.update failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "updated"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	if err := h.Service.DeactivateEmployee(r.Context(), employeeID); err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "employee.deactivate", "employee", employeeID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r)); err != nil {
		slog.Warn("audit employee.deactivate failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "deactivated"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Service.ListRoles(r.Context())
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, roles, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListAreas(w http.ResponseWriter, r *http.Request) {
	areas, err := h.Service.ListAreas(r.Context())
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, areas, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateArea(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Code        string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	id, err := h.Service.CreateArea(r.Context(), payload.Name, payload.Description, payload.Code)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "area.create", "area", id,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r)); err != nil {
		slog.Warn("audit area.create failed", "err", err)
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAreaMembers(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	areaID := chi.URLParam(r, "areaID")

	if user.RoleLevel < auth.LevelSubDirection && user.AreaID != areaID {
		api.Fail(w, http.StatusForbidden, "forbidden", "outside visibility scope", middleware.GetRequestID(r.Context()))
		return
	}

	members, err := h.Service.AreaMembers(r.Context(), areaID)
	if err != nil {
		api.FromError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, members, middleware.GetRequestID(r.Context()))
}
