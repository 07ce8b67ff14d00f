package postgres

import (
	"errors"
	"time"

	"github.com/minhvt/corporate-portal/internal"
	permissionDatamodel "github.com/minhvt/corporate-portal/internal/core/datamodel/permission"
	"github.com/minhvt/corporate-portal/internal/permission"
	"gorm.io/gorm"
)

// Repository implements permission.RepositoryAPI using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) permission.RepositoryAPI {
	return &Repository{db: db}
}

// RoleNameForEmployee resolves the role of the user linked to an employee,
// preferring roles.name over the denormalized users.role string.
func (r *Repository) RoleNameForEmployee(employeeID int64) (string, error) {
	var result struct {
		Role     string
		RoleName *string
	}

	err := r.db.Raw(`
		SELECT u.role AS role, ro.name AS role_name
		FROM users u
		LEFT JOIN roles ro ON ro.id = u.role_id AND ro.is_active = ?
		WHERE u.employee_id = ? AND u.is_active = ?`,
		true, employeeID, true).Scan(&result).Error
	if err != nil {
		return "", err
	}
	if result.Role == "" && result.RoleName == nil {
		return "", internal.ErrEmployeeNotFound
	}
	if result.RoleName != nil && *result.RoleName != "" {
		return *result.RoleName, nil
	}
	return result.Role, nil
}

func (r *Repository) GetOverride(employeeID int64, module, action string) (bool, bool, error) {
	var row permissionDatamodel.EmployeePermission
	err := r.db.Where("employee_id = ? AND module_name = ? AND permission_type = ?",
		employeeID, module, action).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, false, nil
		}
		return false, false, err
	}
	return row.Granted, true, nil
}

// ListForEmployee left-joins the active catalog against the employee's
// override rows so every checkable pair appears, granted or not.
func (r *Repository) ListForEmployee(employeeID int64) ([]permission.ModuleGrant, error) {
	var grants []permission.ModuleGrant
	err := r.db.Raw(`
		SELECT pm.module_name,
		       pm.permission_type,
		       pm.description,
		       COALESCE(ep.granted, ?) AS granted
		FROM permission_modules pm
		LEFT JOIN employee_permissions ep
		       ON ep.module_name = pm.module_name
		      AND ep.permission_type = pm.permission_type
		      AND ep.employee_id = ?
		WHERE pm.is_active = ?
		ORDER BY pm.module_name, pm.permission_type`,
		false, employeeID, true).Scan(&grants).Error
	return grants, err
}

func (r *Repository) ListAll() ([]permission.EmployeeGrant, error) {
	var grants []permission.EmployeeGrant
	err := r.db.Raw(`
		SELECT e.id AS employee_id,
		       e.name AS employee_name,
		       ep.module_name,
		       ep.permission_type,
		       ep.granted
		FROM employee_permissions ep
		JOIN employees e ON e.id = ep.employee_id
		ORDER BY e.name, ep.module_name, ep.permission_type`).Scan(&grants).Error
	return grants, err
}

func (r *Repository) ListModules() ([]permissionDatamodel.Module, error) {
	var modules []permissionDatamodel.Module
	err := r.db.Where("is_active = ?", true).
		Order("module_name, permission_type").
		Find(&modules).Error
	return modules, err
}

func (r *Repository) EnsureModule(moduleName, permissionType, description string) error {
	var existing permissionDatamodel.Module
	err := r.db.Where("module_name = ? AND permission_type = ?", moduleName, permissionType).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.Create(&permissionDatamodel.Module{
		ModuleName:     moduleName,
		PermissionType: permissionType,
		Description:    description,
		IsActive:       true,
	}).Error
}

func (r *Repository) UpsertOverride(employeeID int64, module, action string, granted bool) error {
	now := time.Now()
	var existing permissionDatamodel.EmployeePermission
	err := r.db.Where("employee_id = ? AND module_name = ? AND permission_type = ?",
		employeeID, module, action).First(&existing).Error
	if err == nil {
		return r.db.Model(&existing).Updates(map[string]interface{}{
			"granted":    granted,
			"updated_at": now,
		}).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.Create(&permissionDatamodel.EmployeePermission{
		EmployeeID:     employeeID,
		ModuleName:     module,
		PermissionType: action,
		Granted:        granted,
		CreatedAt:      now,
		UpdatedAt:      now,
	}).Error
}

func (r *Repository) EmployeeIDForUser(userID int64) (int64, error) {
	var employeeID *int64
	err := r.db.Raw(`SELECT employee_id FROM users WHERE id = ?`, userID).Scan(&employeeID).Error
	if err != nil {
		return 0, err
	}
	if employeeID == nil {
		return 0, internal.ErrEmployeeNotFound
	}
	return *employeeID, nil
}

func (r *Repository) AdminEmployeeIDs() ([]int64, error) {
	var ids []int64
	err := r.db.Raw(`
		SELECT u.employee_id
		FROM users u
		LEFT JOIN roles ro ON ro.id = u.role_id
		WHERE u.employee_id IS NOT NULL
		  AND u.is_active = ?
		  AND (u.role = ? OR ro.name = ?)`,
		true, "admin", "admin").Scan(&ids).Error
	return ids, err
}
