package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"einsatzplan/internal/model"
)

type memCache struct {
	data    map[string][]byte
	failGet bool
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) GetJSON(_ context.Context, key string, dest interface{}) (bool, error) {
	if c.failGet {
		return false, errors.New("connection refused")
	}
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *memCache) DeleteByPrefix(_ context.Context, prefix string) error {
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

type countingAssignmentRepo struct {
	AssignmentRepository
	calls    int
	replaced int
	rows     []model.Assignment
}

func (r *countingAssignmentRepo) ListByEmployeeAndDate(_ context.Context, _ string, _ time.Time, _ string) ([]model.Assignment, error) {
	r.calls++
	return r.rows, nil
}

func (r *countingAssignmentRepo) ReplaceSiteRange(_ context.Context, _ string, _, _ time.Time, _ []model.Assignment) error {
	r.replaced++
	return nil
}

type countingLeaveRepo struct {
	LeaveRepository
	calls int
	entry *model.LeaveEntry
}

func (r *countingLeaveRepo) GetByEmployeeAndDate(_ context.Context, _ string, _ time.Time) (*model.LeaveEntry, error) {
	r.calls++
	if r.entry == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return r.entry, nil
}

func (r *countingLeaveRepo) UpsertRange(_ context.Context, _ []model.LeaveEntry) error { return nil }

var march5 = time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)

func TestCachedAssignmentRepo_ReadThroughAndInvalidate(t *testing.T) {
	emp := "emp-max"
	inner := &countingAssignmentRepo{rows: []model.Assignment{{AssignmentID: "a1", WorkDate: march5, EmployeeID: &emp, StartTime: 0.9, EndTime: 0.25}}}
	cache := newMemCache()
	repo := newCachedAssignmentRepo(inner, cache, time.Minute, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		rows, err := repo.ListByEmployeeAndDate(ctx, emp, march5, "site-1")
		if err != nil {
			t.Fatalf("ListByEmployeeAndDate: %v", err)
		}
		if len(rows) != 1 || rows[0].AssignmentID != "a1" {
			t.Fatalf("unexpected rows %+v", rows)
		}
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 backend call, got %d", inner.calls)
	}

	if err := repo.ReplaceSiteRange(ctx, "site-1", march5, march5, nil); err != nil {
		t.Fatalf("ReplaceSiteRange: %v", err)
	}
	if len(cache.data) != 0 {
		t.Errorf("cache should be empty after a write, has %d keys", len(cache.data))
	}

	_, _ = repo.ListByEmployeeAndDate(ctx, emp, march5, "site-1")
	if inner.calls != 2 {
		t.Errorf("expected reload after invalidation, got %d calls", inner.calls)
	}
}

func TestCachedAssignmentRepo_CacheFailureFallsBack(t *testing.T) {
	inner := &countingAssignmentRepo{}
	cache := newMemCache()
	cache.failGet = true
	repo := newCachedAssignmentRepo(inner, cache, time.Minute, zap.NewNop())

	if _, err := repo.ListByEmployeeAndDate(context.Background(), "e", march5, ""); err != nil {
		t.Fatalf("cache failure must not surface: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected backend call, got %d", inner.calls)
	}
}

func TestCachedLeaveRepo_CachesMisses(t *testing.T) {
	inner := &countingLeaveRepo{}
	repo := newCachedLeaveRepo(inner, newMemCache(), time.Minute, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := repo.GetByEmployeeAndDate(ctx, "ali", march5); !errors.Is(err, gorm.ErrRecordNotFound) {
			t.Fatalf("expected ErrRecordNotFound, got %v", err)
		}
	}
	if inner.calls != 1 {
		t.Errorf("miss should be cached, got %d backend calls", inner.calls)
	}

	inner.entry = &model.LeaveEntry{EmployeeID: "ali", LeaveDate: march5, Status: model.LeaveStatusSick}
	if err := repo.UpsertRange(ctx, []model.LeaveEntry{*inner.entry}); err != nil {
		t.Fatalf("UpsertRange: %v", err)
	}

	got, err := repo.GetByEmployeeAndDate(ctx, "ali", march5)
	if err != nil {
		t.Fatalf("GetByEmployeeAndDate: %v", err)
	}
	if got.Status != model.LeaveStatusSick {
		t.Errorf("expected Krank after invalidation, got %q", got.Status)
	}
}

func TestWithCache_NilCacheIsNoop(t *testing.T) {
	r := &Repository{}
	if r.WithCache(nil, time.Minute, zap.NewNop()) != r {
		t.Error("nil cache must return the same repository")
	}
}
