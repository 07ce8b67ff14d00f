package permission

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/minhvt/corporate-portal/internal"
	"github.com/minhvt/corporate-portal/internal/transport"
	"github.com/minhvt/corporate-portal/pkg/logger"
)

type ServiceAPI interface {
	Resolve(employeeID int64, module, action string) (*Grant, error)
	ListForEmployee(employeeID int64) ([]ModuleGrant, error)
	ListForUser(userID int64) ([]ModuleGrant, error)
	ListAll() ([]EmployeeGrant, error)
	SetForUser(userID int64, updates []GrantUpdate) error
	SetupDefaults() error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// ListPermissions handles GET /permissions: the admin-wide grant listing.
func (h *Handler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	grants, err := h.Service.ListAll()
	if err != nil {
		h.Logger.Error("ListPermissions: failed to list grants", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"permissions": grants})
}

// GetUserPermissions handles GET /permissions/users/{userID}.
func (h *Handler) GetUserPermissions(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	grants, err := h.Service.ListForUser(userID)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			h.WriteAppError(w, appErr)
			return
		}
		h.Logger.Error("GetUserPermissions: lookup failed", "user_id", userID, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user_id":     userID,
		"permissions": grants,
	})
}

type updatePermissionsDTO struct {
	Permissions []GrantUpdate `json:"permissions"`
}

// UpdateUserPermissions handles PUT /permissions/users/{userID}.
func (h *Handler) UpdateUserPermissions(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var dto updatePermissionsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(dto.Permissions) == 0 {
		h.WriteError(w, http.StatusBadRequest, "permissions are required")
		return
	}

	if err := h.Service.SetForUser(userID, dto.Permissions); err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			h.WriteAppError(w, appErr)
			return
		}
		h.Logger.Error("UpdateUserPermissions: update failed", "user_id", userID, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	grants, err := h.Service.ListForUser(userID)
	if err != nil {
		h.Logger.Error("UpdateUserPermissions: reload failed", "user_id", userID, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user_id":     userID,
		"permissions": grants,
	})
}

// SetupDefaultPermissions handles POST /permissions/setup-defaults.
func (h *Handler) SetupDefaultPermissions(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.SetupDefaults(); err != nil {
		h.Logger.Error("SetupDefaultPermissions failed", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
