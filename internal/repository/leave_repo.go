package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"einsatzplan/internal/model"
)

// LeaveRepository leave register access
type LeaveRepository interface {
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*model.LeaveEntry, error)
	ListByRange(ctx context.Context, from, to time.Time) ([]model.LeaveEntry, error)
	// UpsertRange inserts entries; an existing (date, employee) row gets the new status.
	UpsertRange(ctx context.Context, entries []model.LeaveEntry) error
	DeleteRange(ctx context.Context, employeeID string, from, to time.Time) (int64, error)
}

type leaveRepo struct {
	db *gorm.DB
}

// NewLeaveRepo creates a LeaveRepository
func NewLeaveRepo(db *gorm.DB) LeaveRepository {
	return &leaveRepo{db: db}
}

func (r *leaveRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*model.LeaveEntry, error) {
	if !isID(employeeID) {
		return nil, gorm.ErrRecordNotFound
	}
	var entry model.LeaveEntry
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND leave_date = ?", employeeID, dateArg(date)).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *leaveRepo) ListByRange(ctx context.Context, from, to time.Time) ([]model.LeaveEntry, error) {
	var entries []model.LeaveEntry
	err := r.db.WithContext(ctx).
		Where("leave_date BETWEEN ? AND ?", dateArg(from), dateArg(to)).
		Order("leave_date ASC").
		Find(&entries).Error
	return entries, err
}

func (r *leaveRepo) UpsertRange(ctx context.Context, entries []model.LeaveEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Omit("Employee").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "leave_date"}, {Name: "employee_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
		}).
		Create(&entries).Error
}

func (r *leaveRepo) DeleteRange(ctx context.Context, employeeID string, from, to time.Time) (int64, error) {
	if !isID(employeeID) {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Where("employee_id = ? AND leave_date BETWEEN ? AND ?", employeeID, dateArg(from), dateArg(to)).
		Delete(&model.LeaveEntry{})
	return res.RowsAffected, res.Error
}
