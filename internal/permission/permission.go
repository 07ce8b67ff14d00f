package permission

import (
	permissionDatamodel "github.com/minhvt/corporate-portal/internal/core/datamodel/permission"
)

// Grant is the outcome of resolving one (employee, module, action) check.
type Grant struct {
	Granted        bool   `json:"granted"`
	Role           string `json:"role"`
	ModuleName     string `json:"module_name"`
	PermissionType string `json:"permission_type"`
}

// ModuleGrant is one row of the bulk listing: every active catalog entry for
// an employee, granted or not, so the UI can render a full toggle matrix.
type ModuleGrant struct {
	ModuleName     string `json:"module_name"`
	PermissionType string `json:"permission_type"`
	Description    string `json:"description"`
	Granted        bool   `json:"granted"`
}

// EmployeeGrant is one row of the admin-wide permission listing.
type EmployeeGrant struct {
	EmployeeID     int64  `json:"employee_id"`
	EmployeeName   string `json:"employee_name"`
	ModuleName     string `json:"module_name"`
	PermissionType string `json:"permission_type"`
	Granted        bool   `json:"granted"`
}

// GrantUpdate is the transport shape for setting one override.
type GrantUpdate struct {
	ModuleName     string `json:"module_name"`
	PermissionType string `json:"permission_type"`
	Granted        bool   `json:"granted"`
}

type RepositoryAPI interface {
	RoleNameForEmployee(employeeID int64) (string, error)
	GetOverride(employeeID int64, module, action string) (granted bool, found bool, err error)
	ListForEmployee(employeeID int64) ([]ModuleGrant, error)
	ListAll() ([]EmployeeGrant, error)
	ListModules() ([]permissionDatamodel.Module, error)
	EnsureModule(moduleName, permissionType, description string) error
	UpsertOverride(employeeID int64, module, action string, granted bool) error
	EmployeeIDForUser(userID int64) (int64, error)
	AdminEmployeeIDs() ([]int64, error)
}
