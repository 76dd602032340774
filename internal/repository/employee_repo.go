package repository

import (
	"context"

	"gorm.io/gorm"

	"einsatzplan/internal/model"
)

// EmployeeRepository employee directory access
type EmployeeRepository interface {
	Create(ctx context.Context, emp *model.Employee) error
	GetByID(ctx context.Context, id string) (*model.Employee, error)
	GetByName(ctx context.Context, name string) (*model.Employee, error)
	List(ctx context.Context, includeInactive bool, keyword string) ([]model.Employee, error)
	Update(ctx context.Context, emp *model.Employee) error
	Delete(ctx context.Context, id string) error
}

type employeeRepo struct {
	db *gorm.DB
}

// NewEmployeeRepo creates an EmployeeRepository
func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

func (r *employeeRepo) Create(ctx context.Context, emp *model.Employee) error {
	return r.db.WithContext(ctx).Create(emp).Error
}

func (r *employeeRepo) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	if !isID(id) {
		return nil, gorm.ErrRecordNotFound
	}
	var emp model.Employee
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", id).
		First(&emp).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepo) GetByName(ctx context.Context, name string) (*model.Employee, error) {
	var emp model.Employee
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&emp).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepo) List(ctx context.Context, includeInactive bool, keyword string) ([]model.Employee, error) {
	var employees []model.Employee
	db := r.db.WithContext(ctx)

	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}
	if keyword != "" {
		db = db.Where("name LIKE ?", "%"+keyword+"%")
	}

	err := db.Order("name ASC").Find(&employees).Error
	return employees, err
}

func (r *employeeRepo) Update(ctx context.Context, emp *model.Employee) error {
	return r.db.WithContext(ctx).Save(emp).Error
}

// Delete removes the directory entry only; assignments and leave entries
// keep the now dangling id.
func (r *employeeRepo) Delete(ctx context.Context, id string) error {
	if !isID(id) {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("employee_id = ?", id).
		Delete(&model.Employee{}).Error
}
