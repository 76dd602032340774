package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"go.uber.org/zap"

	"einsatzplan/internal/dto"
	"einsatzplan/internal/model"
	"einsatzplan/internal/repository"
)

// ── leave module errors ──

var ErrLeaveStatusMissing = errors.New("Abwesenheitsstatus fehlt")

// LeaveService leave and sickness register
type LeaveService interface {
	// SetRange writes status for every day from..to; existing days are overwritten.
	SetRange(ctx context.Context, req *dto.LeaveRangeRequest) (*dto.LeaveRangeResponse, error)
	DeleteRange(ctx context.Context, req *dto.LeaveDeleteRequest) (*dto.LeaveRangeResponse, error)
	ListMonth(ctx context.Context, year, month int) ([]dto.LeaveEntryResponse, error)
}

type leaveService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewLeaveService creates a LeaveService
func NewLeaveService(repo *repository.Repository, logger *zap.Logger) LeaveService {
	return &leaveService{repo: repo, logger: logger}
}

func (s *leaveService) SetRange(ctx context.Context, req *dto.LeaveRangeRequest) (*dto.LeaveRangeResponse, error) {
	status := strings.TrimSpace(req.Status)
	if status == "" {
		return nil, ErrLeaveStatusMissing
	}

	from, to, err := parseDayRange(req.From, req.To)
	if err != nil {
		return nil, err
	}
	if _, err := loadEmployee(ctx, s.repo, s.logger, req.EmployeeID); err != nil {
		return nil, err
	}

	days := eachDay(from, to)
	entries := make([]model.LeaveEntry, 0, len(days))
	for _, d := range days {
		entries = append(entries, model.LeaveEntry{LeaveDate: d, EmployeeID: req.EmployeeID, Status: status})
	}

	if err := s.repo.Leave.UpsertRange(ctx, entries); err != nil {
		s.logger.Error("upsert leave range failed",
			zap.String("employee_id", req.EmployeeID), zap.String("from", req.From), zap.String("to", req.To), zap.Error(err))
		return nil, err
	}

	s.logger.Info("leave range saved",
		zap.String("employee_id", req.EmployeeID), zap.String("status", status), zap.Int("days", len(entries)))
	return &dto.LeaveRangeResponse{Days: len(entries)}, nil
}

func (s *leaveService) DeleteRange(ctx context.Context, req *dto.LeaveDeleteRequest) (*dto.LeaveRangeResponse, error) {
	from, to, err := parseDayRange(req.From, req.To)
	if err != nil {
		return nil, err
	}

	n, err := s.repo.Leave.DeleteRange(ctx, req.EmployeeID, from, to)
	if err != nil {
		s.logger.Error("delete leave range failed", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return nil, err
	}
	return &dto.LeaveRangeResponse{Days: int(n)}, nil
}

func (s *leaveService) ListMonth(ctx context.Context, year, month int) ([]dto.LeaveEntryResponse, error) {
	first, last, err := monthRange(year, month)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.Leave.ListByRange(ctx, first, last)
	if err != nil {
		s.logger.Error("list leave failed", zap.Error(err))
		return nil, err
	}
	employees, err := s.repo.Employee.List(ctx, true, "")
	if err != nil {
		s.logger.Error("list employees failed", zap.Error(err))
		return nil, err
	}
	names := employeeIndex(employees)

	result := make([]dto.LeaveEntryResponse, 0, len(entries))
	for _, e := range entries {
		name := ""
		if emp, ok := names[e.EmployeeID]; ok {
			name = emp.Name
		}
		result = append(result, dto.LeaveEntryResponse{
			Date:         dayKey(e.LeaveDate),
			EmployeeID:   e.EmployeeID,
			EmployeeName: name,
			Status:       e.Status,
		})
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].EmployeeName != result[j].EmployeeName {
			return result[i].EmployeeName < result[j].EmployeeName
		}
		return result[i].Date < result[j].Date
	})
	return result, nil
}
