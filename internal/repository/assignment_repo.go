package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"einsatzplan/internal/model"
)

// AssignmentRepository saved plan cells. Date bounds are inclusive calendar days.
type AssignmentRepository interface {
	ListBySiteAndRange(ctx context.Context, siteID string, from, to time.Time) ([]model.Assignment, error)
	ListByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, excludeSiteID string) ([]model.Assignment, error)
	ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]model.Assignment, error)
	ListByRange(ctx context.Context, from, to time.Time) ([]model.Assignment, error)
	// ReplaceSiteRange deletes every assignment of the site between from and
	// to and inserts rows in one transaction.
	ReplaceSiteRange(ctx context.Context, siteID string, from, to time.Time, rows []model.Assignment) error
}

// insertBatchSize bounds the multi-row INSERT of a plan commit
const insertBatchSize = 200

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo creates an AssignmentRepository
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) ListBySiteAndRange(ctx context.Context, siteID string, from, to time.Time) ([]model.Assignment, error) {
	if !isID(siteID) {
		return nil, nil
	}
	var rows []model.Assignment
	err := r.db.WithContext(ctx).
		Where("site_id = ? AND work_date BETWEEN ? AND ?", siteID, dateArg(from), dateArg(to)).
		Order("work_date ASC").
		Find(&rows).Error
	return rows, err
}

// ListByEmployeeAndDate skips the site filter when excludeSiteID is not a
// key, since no row can belong to it.
func (r *assignmentRepo) ListByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, excludeSiteID string) ([]model.Assignment, error) {
	if !isID(employeeID) {
		return nil, nil
	}
	var rows []model.Assignment
	db := r.db.WithContext(ctx).
		Preload("Site").
		Preload("Slot").
		Where("employee_id = ? AND work_date = ?", employeeID, dateArg(date))
	if isID(excludeSiteID) {
		db = db.Where("site_id <> ?", excludeSiteID)
	}
	err := db.Order("start_time ASC").Find(&rows).Error
	return rows, err
}

func (r *assignmentRepo) ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]model.Assignment, error) {
	if !isID(employeeID) {
		return nil, nil
	}
	var rows []model.Assignment
	err := r.db.WithContext(ctx).
		Preload("Site").
		Preload("Slot").
		Where("employee_id = ? AND work_date BETWEEN ? AND ?", employeeID, dateArg(from), dateArg(to)).
		Order("work_date ASC, start_time ASC").
		Find(&rows).Error
	return rows, err
}

// ListByRange returns the assignments with an employee in the range, across
// all sites.
func (r *assignmentRepo) ListByRange(ctx context.Context, from, to time.Time) ([]model.Assignment, error) {
	var rows []model.Assignment
	err := r.db.WithContext(ctx).
		Preload("Site").
		Preload("Slot").
		Where("employee_id IS NOT NULL AND work_date BETWEEN ? AND ?", dateArg(from), dateArg(to)).
		Order("work_date ASC, start_time ASC").
		Find(&rows).Error
	return rows, err
}

func (r *assignmentRepo) ReplaceSiteRange(ctx context.Context, siteID string, from, to time.Time, rows []model.Assignment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("site_id = ? AND work_date BETWEEN ? AND ?", siteID, dateArg(from), dateArg(to)).
			Delete(&model.Assignment{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Omit("Site", "Slot", "Employee").CreateInBatches(rows, insertBatchSize).Error
	})
}
