package model

import (
	"time"

	"gorm.io/gorm"
)

// Employee employee directory, table employees
type Employee struct {
	EmployeeID      string     `gorm:"primaryKey;size:36"                json:"employee_id"`
	Name            string     `gorm:"size:100;not null;uniqueIndex"     json:"name"`
	PersonnelNumber string     `gorm:"size:50;not null;default:''"       json:"-"`
	BirthDate       *time.Time `gorm:"type:date"                         json:"birth_date,omitempty"`
	EmploymentType  string     `gorm:"size:50;not null;default:''"       json:"employment_type"` // e.g. Vollzeit | Teilzeit | Minijob
	Position        string     `gorm:"size:100;not null;default:''"      json:"position"`
	ContractEnd     *time.Time `gorm:"type:date"                         json:"contract_end,omitempty"`
	Address         string     `gorm:"size:255;not null;default:''"      json:"address"`
	Phone           string     `gorm:"size:50;not null;default:''"       json:"phone"`
	IDValidUntil    *time.Time `gorm:"column:id_valid_until;type:date"   json:"id_valid_until,omitempty"`
	IsActive        bool       `gorm:"not null;default:true"             json:"is_active"`
	BaseModel
}

// TableName table name
func (Employee) TableName() string { return "employees" }

// BeforeCreate assigns the surrogate id.
func (e *Employee) BeforeCreate(_ *gorm.DB) error {
	ensureID(&e.EmployeeID)
	return nil
}
