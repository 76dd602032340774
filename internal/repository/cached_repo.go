package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"einsatzplan/internal/model"
)

// Cache is the key/value store behind the read-through decorators.
// *redis.Client implements it.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

const (
	assignmentKeyPrefix = "assign:"
	leaveKeyPrefix      = "leave:"
)

// readThrough serves key from cache or loads and stores it. Cache failures
// are logged and fall back to load.
func readThrough[T any](ctx context.Context, c Cache, ttl time.Duration, logger *zap.Logger, key string, load func() (T, error)) (T, error) {
	var cached T
	hit, err := c.GetJSON(ctx, key, &cached)
	if err != nil {
		logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	} else if hit {
		return cached, nil
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	if err := c.SetJSON(ctx, key, v, ttl); err != nil {
		logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return v, nil
}

func invalidate(ctx context.Context, c Cache, logger *zap.Logger, prefix string) {
	if err := c.DeleteByPrefix(ctx, prefix); err != nil {
		logger.Error("cache invalidation failed", zap.String("prefix", prefix), zap.Error(err))
	}
}

// ── assignments ──

type cachedAssignmentRepo struct {
	AssignmentRepository
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

func newCachedAssignmentRepo(inner AssignmentRepository, cache Cache, ttl time.Duration, logger *zap.Logger) AssignmentRepository {
	return &cachedAssignmentRepo{AssignmentRepository: inner, cache: cache, ttl: ttl, logger: logger}
}

func (r *cachedAssignmentRepo) ListBySiteAndRange(ctx context.Context, siteID string, from, to time.Time) ([]model.Assignment, error) {
	key := fmt.Sprintf("%ssite:%s:%s:%s", assignmentKeyPrefix, siteID, dateArg(from), dateArg(to))
	return readThrough(ctx, r.cache, r.ttl, r.logger, key, func() ([]model.Assignment, error) {
		return r.AssignmentRepository.ListBySiteAndRange(ctx, siteID, from, to)
	})
}

func (r *cachedAssignmentRepo) ListByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, excludeSiteID string) ([]model.Assignment, error) {
	key := fmt.Sprintf("%semp:%s:%s:%s", assignmentKeyPrefix, employeeID, dateArg(date), excludeSiteID)
	return readThrough(ctx, r.cache, r.ttl, r.logger, key, func() ([]model.Assignment, error) {
		return r.AssignmentRepository.ListByEmployeeAndDate(ctx, employeeID, date, excludeSiteID)
	})
}

func (r *cachedAssignmentRepo) ReplaceSiteRange(ctx context.Context, siteID string, from, to time.Time, rows []model.Assignment) error {
	if err := r.AssignmentRepository.ReplaceSiteRange(ctx, siteID, from, to, rows); err != nil {
		return err
	}
	invalidate(ctx, r.cache, r.logger, assignmentKeyPrefix)
	return nil
}

// ── leave ──

type cachedLeaveRepo struct {
	LeaveRepository
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

func newCachedLeaveRepo(inner LeaveRepository, cache Cache, ttl time.Duration, logger *zap.Logger) LeaveRepository {
	return &cachedLeaveRepo{LeaveRepository: inner, cache: cache, ttl: ttl, logger: logger}
}

// GetByEmployeeAndDate caches misses too, as an empty slice.
func (r *cachedLeaveRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*model.LeaveEntry, error) {
	key := fmt.Sprintf("%s%s:%s", leaveKeyPrefix, employeeID, dateArg(date))
	found, err := readThrough(ctx, r.cache, r.ttl, r.logger, key, func() ([]model.LeaveEntry, error) {
		entry, err := r.LeaveRepository.GetByEmployeeAndDate(ctx, employeeID, date)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []model.LeaveEntry{}, nil
		}
		if err != nil {
			return nil, err
		}
		return []model.LeaveEntry{*entry}, nil
	})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &found[0], nil
}

func (r *cachedLeaveRepo) UpsertRange(ctx context.Context, entries []model.LeaveEntry) error {
	if err := r.LeaveRepository.UpsertRange(ctx, entries); err != nil {
		return err
	}
	invalidate(ctx, r.cache, r.logger, leaveKeyPrefix)
	return nil
}

func (r *cachedLeaveRepo) DeleteRange(ctx context.Context, employeeID string, from, to time.Time) (int64, error) {
	n, err := r.LeaveRepository.DeleteRange(ctx, employeeID, from, to)
	if err != nil {
		return n, err
	}
	invalidate(ctx, r.cache, r.logger, leaveKeyPrefix)
	return n, nil
}
