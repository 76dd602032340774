package repository

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"einsatzplan/internal/model"
)

// Repository aggregates every repository interface
type Repository struct {
	Employee   EmployeeRepository
	Site       SiteRepository
	Assignment AssignmentRepository
	Leave      LeaveRepository
}

// NewRepository builds the GORM-backed repositories
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Employee:   NewEmployeeRepo(db),
		Site:       NewSiteRepo(db),
		Assignment: NewAssignmentRepo(db),
		Leave:      NewLeaveRepo(db),
	}
}

// WithCache wraps the assignment and leave repositories with a
// read-through cache. A nil cache returns r unchanged.
func (r *Repository) WithCache(cache Cache, ttl time.Duration, logger *zap.Logger) *Repository {
	if cache == nil || ttl <= 0 {
		return r
	}
	return &Repository{
		Employee:   r.Employee,
		Site:       r.Site,
		Assignment: newCachedAssignmentRepo(r.Assignment, cache, ttl, logger),
		Leave:      newCachedLeaveRepo(r.Leave, cache, ttl, logger),
	}
}

// isID reports whether id can be a primary key. Anything else matches no
// row; postgres would reject it in a UUID comparison instead.
func isID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// dateArg formats a calendar day for a DATE column comparison.
func dateArg(t time.Time) string {
	return t.Format(model.DateLayout)
}
