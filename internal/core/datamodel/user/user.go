package user

import "time"

// Role names recognized across the portal.
const (
	RoleAdmin    = "admin"
	RoleEditor   = "editor"
	RoleEmployee = "employee"
	RoleUser     = "user"
)

type User struct {
	ID           int64      `gorm:"primaryKey"`
	Username     string     `gorm:"column:username;uniqueIndex;not null"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	Email        string     `gorm:"column:email"`
	Role         string     `gorm:"column:role;not null;default:user"`
	RoleID       *int64     `gorm:"column:role_id"`
	EmployeeID   *int64     `gorm:"column:employee_id"`
	IsActive     bool       `gorm:"column:is_active;default:true"`
	LastLogin    *time.Time `gorm:"column:last_login"`
	CreatedAt    time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;default:now()"`
}

func (User) TableName() string {
	return "users"
}

type Role struct {
	ID          int64  `gorm:"primaryKey"`
	Name        string `gorm:"column:name;uniqueIndex;not null"`
	DisplayName string `gorm:"column:display_name"`
	Description string `gorm:"column:description"`
	IsActive    bool   `gorm:"column:is_active;default:true"`
}

func (Role) TableName() string {
	return "roles"
}

// RolePermission holds the role-level permission defaults.
type RolePermission struct {
	ID             int64  `gorm:"primaryKey"`
	RoleID         int64  `gorm:"column:role_id;not null;uniqueIndex:idx_role_module_perm"`
	ModuleName     string `gorm:"column:module_name;not null;uniqueIndex:idx_role_module_perm"`
	PermissionType string `gorm:"column:permission_type;not null;uniqueIndex:idx_role_module_perm"`
	Granted        bool   `gorm:"column:granted;default:false"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}
