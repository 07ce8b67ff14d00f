package employee

import (
	"time"

	employeeDatamodel "github.com/minhvt/corporate-portal/internal/core/datamodel/employee"
)

type Employee struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	CompanyID    *int64    `json:"company_id,omitempty"`
	DepartmentID *int64    `json:"department_id,omitempty"`
	Position     string    `json:"position"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (e *Employee) IsActive() bool {
	return e.Status == "active"
}

func FromDataModel(e *employeeDatamodel.Employee) *Employee {
	return &Employee{
		ID:           e.ID,
		Name:         e.Name,
		Email:        e.Email,
		CompanyID:    e.CompanyID,
		DepartmentID: e.DepartmentID,
		Position:     e.Position,
		Status:       e.Status,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
