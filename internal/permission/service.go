package permission

import (
	"fmt"
	"log/slog"

	userDatamodel "github.com/minhvt/corporate-portal/internal/core/datamodel/user"
	permissionDatamodel "github.com/minhvt/corporate-portal/internal/core/datamodel/permission"
)

// defaultModules is the catalog seeded by SetupDefaults; every module gets
// the four standard actions.
var defaultModules = []string{"employees", "documents", "projects", "news"}

var defaultActions = []string{
	permissionDatamodel.TypeView,
	permissionDatamodel.TypeCreate,
	permissionDatamodel.TypeEdit,
	permissionDatamodel.TypeDelete,
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Resolve aggregates role defaults and per-employee overrides to a single
// grant/deny. Admins short-circuit to grant without a per-module lookup;
// everyone else is denied unless an explicit granted row exists. Errors deny.
func (s *Service) Resolve(employeeID int64, module, action string) (*Grant, error) {
	grant := &Grant{
		ModuleName:     module,
		PermissionType: action,
	}

	role, err := s.repo.RoleNameForEmployee(employeeID)
	if err != nil {
		s.logger.Error("failed to resolve employee role", "employee_id", employeeID, "error", err)
		return grant, err
	}
	grant.Role = role

	if role == userDatamodel.RoleAdmin {
		grant.Granted = true
		return grant, nil
	}

	granted, found, err := s.repo.GetOverride(employeeID, module, action)
	if err != nil {
		s.logger.Error("permission lookup failed", "employee_id", employeeID,
			"module", module, "action", action, "error", err)
		return grant, err
	}
	if !found {
		return grant, nil
	}

	grant.Granted = granted
	return grant, nil
}

// ListForEmployee returns the full catalog joined against the employee's
// overrides, one row per active (module, action) pair.
func (s *Service) ListForEmployee(employeeID int64) ([]ModuleGrant, error) {
	return s.repo.ListForEmployee(employeeID)
}

func (s *Service) ListForUser(userID int64) ([]ModuleGrant, error) {
	employeeID, err := s.repo.EmployeeIDForUser(userID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListForEmployee(employeeID)
}

func (s *Service) ListAll() ([]EmployeeGrant, error) {
	return s.repo.ListAll()
}

// SetForUser upserts per-employee overrides for the employee linked to the
// given user.
func (s *Service) SetForUser(userID int64, updates []GrantUpdate) error {
	employeeID, err := s.repo.EmployeeIDForUser(userID)
	if err != nil {
		return err
	}

	for _, u := range updates {
		if u.ModuleName == "" || u.PermissionType == "" {
			return fmt.Errorf("module_name and permission_type are required")
		}
		if err := s.repo.UpsertOverride(employeeID, u.ModuleName, u.PermissionType, u.Granted); err != nil {
			return err
		}
	}

	s.logger.Info("updated permissions", "user_id", userID, "employee_id", employeeID, "count", len(updates))
	return nil
}

// SetupDefaults seeds the permission-module catalog and grants every pair to
// admin employees. Admins are already covered by the Resolve short-circuit;
// the explicit rows are kept as well because some callers query
// employee_permissions directly.
func (s *Service) SetupDefaults() error {
	for _, module := range defaultModules {
		for _, action := range defaultActions {
			desc := fmt.Sprintf("Can %s %s", action, module)
			if err := s.repo.EnsureModule(module, action, desc); err != nil {
				return err
			}
		}
	}

	adminIDs, err := s.repo.AdminEmployeeIDs()
	if err != nil {
		return err
	}

	for _, employeeID := range adminIDs {
		for _, module := range defaultModules {
			for _, action := range defaultActions {
				if err := s.repo.UpsertOverride(employeeID, module, action, true); err != nil {
					return err
				}
			}
		}
	}

	s.logger.Info("setup default permissions", "modules", len(defaultModules), "admins", len(adminIDs))
	return nil
}
