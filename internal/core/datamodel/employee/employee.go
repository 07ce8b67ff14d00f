package employee

import "time"

type Employee struct {
	ID           int64     `gorm:"primaryKey"`
	Name         string    `gorm:"column:name;not null"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	CompanyID    *int64    `gorm:"column:company_id"`
	DepartmentID *int64    `gorm:"column:department_id"`
	Position     string    `gorm:"column:position"`
	Status       string    `gorm:"column:status;default:active"`
	CreatedAt    time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time `gorm:"column:updated_at;default:now()"`
}

func (Employee) TableName() string {
	return "employees"
}

type Company struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;uniqueIndex;not null"`
	Address   string    `gorm:"column:address"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
}

func (Company) TableName() string {
	return "companies"
}

type Department struct {
	ID        int64     `gorm:"primaryKey"`
	CompanyID int64     `gorm:"column:company_id;not null"`
	Name      string    `gorm:"column:name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
}

func (Department) TableName() string {
	return "departments"
}
