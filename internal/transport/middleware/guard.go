package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/minhvt/corporate-portal/internal/auth"
	"github.com/minhvt/corporate-portal/internal/permission"
)

// PermissionResolver delegates fine-grained (module, action) checks.
type PermissionResolver interface {
	Resolve(employeeID int64, module, action string) (*permission.Grant, error)
}

// Guard enforces per-request authorization. It is stateless: every request
// re-evaluates the identity placed in the context by the session middleware.
type Guard struct {
	resolver PermissionResolver
	logger   *slog.Logger
}

func NewGuard(resolver PermissionResolver, logger *slog.Logger) *Guard {
	return &Guard{
		resolver: resolver,
		logger:   logger,
	}
}

// RequireAdmin admits identities with the admin role or the admin_access
// flag; both legacy patterns grant the same outcome.
func (g *Guard) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := auth.IdentityFromContext(r.Context())
			if !ok || identity == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !identity.IsAdmin() {
				g.logger.Warn("access denied: admin required",
					"user_id", identity.ID, "role", identity.Role)
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequirePortal admits identities carrying the portal_access flag.
func (g *Guard) RequirePortal() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := auth.IdentityFromContext(r.Context())
			if !ok || identity == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !identity.HasPortalAccess() {
				g.logger.Warn("access denied: portal access required",
					"user_id", identity.ID, "role", identity.Role)
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// permissionDenied is the machine-readable 403 payload for fine-grained
// checks, so the UI can present "required permission" diagnostics.
type permissionDenied struct {
	Error              string `json:"error"`
	RequiredPermission string `json:"required_permission"`
	UserRole           string `json:"user_role"`
}

// RequireModulePermission delegates to the permission resolver using the
// identity's employee id. Resolver errors deny: a database failure must
// never grant access.
func (g *Guard) RequireModulePermission(module, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := auth.IdentityFromContext(r.Context())
			if !ok || identity == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if identity.EmployeeID == nil {
				g.writeDenied(w, identity.Role, module, action)
				return
			}

			grant, err := g.resolver.Resolve(*identity.EmployeeID, module, action)
			if err != nil {
				g.logger.Error("permission check failed", "error", err,
					"user_id", identity.ID, "module", module, "action", action)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			if !grant.Granted {
				g.logger.Warn("access denied: insufficient permissions",
					"user_id", identity.ID,
					"required_permission", fmt.Sprintf("%s.%s", module, action),
					"user_role", grant.Role)
				g.writeDenied(w, grant.Role, module, action)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (g *Guard) writeDenied(w http.ResponseWriter, role, module, action string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(permissionDenied{
		Error:              "insufficient permissions",
		RequiredPermission: fmt.Sprintf("%s.%s", module, action),
		UserRole:           role,
	})
}
