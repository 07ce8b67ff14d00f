package permission

import "time"

// Permission types applied within a module.
const (
	TypeView   = "view"
	TypeCreate = "create"
	TypeEdit   = "edit"
	TypeDelete = "delete"
)

// Module defines one checkable (module, action) pair in the catalog.
type Module struct {
	ID             int64  `gorm:"primaryKey"`
	ModuleName     string `gorm:"column:module_name;not null;uniqueIndex:idx_module_perm"`
	PermissionType string `gorm:"column:permission_type;not null;uniqueIndex:idx_module_perm"`
	Description    string `gorm:"column:description"`
	IsActive       bool   `gorm:"column:is_active;default:true"`
}

func (Module) TableName() string {
	return "permission_modules"
}

// EmployeePermission is a per-employee override, unique per
// (employee_id, module_name, permission_type).
type EmployeePermission struct {
	ID             int64     `gorm:"primaryKey"`
	EmployeeID     int64     `gorm:"column:employee_id;not null;uniqueIndex:idx_emp_module_perm"`
	ModuleName     string    `gorm:"column:module_name;not null;uniqueIndex:idx_emp_module_perm"`
	PermissionType string    `gorm:"column:permission_type;not null;uniqueIndex:idx_emp_module_perm"`
	Granted        bool      `gorm:"column:granted;default:false"`
	CreatedAt      time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt      time.Time `gorm:"column:updated_at;default:now()"`
}

func (EmployeePermission) TableName() string {
	return "employee_permissions"
}
