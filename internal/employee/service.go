package employee

import (
	"fmt"

	employeeDatamodel "github.com/minhvt/corporate-portal/internal/core/datamodel/employee"
)

type Repository interface {
	GetAll(limit, offset int) ([]*employeeDatamodel.Employee, error)
	GetByID(id int64) (*employeeDatamodel.Employee, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) GetAll(limit, offset int) ([]*Employee, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.repo.GetAll(limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	employees := make([]*Employee, 0, len(rows))
	for _, row := range rows {
		employees = append(employees, FromDataModel(row))
	}
	return employees, nil
}

func (s *Service) GetByID(id int64) (*Employee, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}
