package postgres

import (
	"errors"

	"github.com/minhvt/corporate-portal/internal"
	employeeDatamodel "github.com/minhvt/corporate-portal/internal/core/datamodel/employee"
	"github.com/minhvt/corporate-portal/internal/employee"
	"gorm.io/gorm"
)

// Repository implements the employee.Repository interface using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) employee.Repository {
	return &Repository{db: db}
}

func (r *Repository) GetAll(limit, offset int) ([]*employeeDatamodel.Employee, error) {
	var employees []*employeeDatamodel.Employee
	err := r.db.Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&employees).Error
	return employees, err
}

func (r *Repository) GetByID(id int64) (*employeeDatamodel.Employee, error) {
	var emp employeeDatamodel.Employee
	err := r.db.Where("id = ?", id).First(&emp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &emp, nil
}
