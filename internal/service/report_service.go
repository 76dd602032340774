package service

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"einsatzplan/internal/dto"
	"einsatzplan/internal/model"
	"einsatzplan/internal/repository"
	"einsatzplan/pkg/shifttime"
)

// ReportService monthly attendance report
type ReportService interface {
	// MonthlyReport classifies every employee/day of the month as work,
	// absence or free and rolls the result up per employee.
	MonthlyReport(ctx context.Context, year, month int) (*dto.MonthlyReportResponse, error)
}

type reportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReportService creates a ReportService
func NewReportService(repo *repository.Repository, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, logger: logger}
}

func (s *reportService) MonthlyReport(ctx context.Context, year, month int) (*dto.MonthlyReportResponse, error) {
	first, last, err := monthRange(year, month)
	if err != nil {
		return nil, err
	}

	employees, err := s.repo.Employee.List(ctx, true, "")
	if err != nil {
		s.logger.Error("load employees failed", zap.Error(err))
		return nil, err
	}
	assignments, err := s.repo.Assignment.ListByRange(ctx, first, last)
	if err != nil {
		s.logger.Error("load assignments failed", zap.Error(err))
		return nil, err
	}
	leave, err := s.repo.Leave.ListByRange(ctx, first, last)
	if err != nil {
		s.logger.Error("load leave failed", zap.Error(err))
		return nil, err
	}

	return aggregateMonth(first, last, employees, assignments, leave), nil
}

// aggregateMonth cross-joins the roster with every day of the month.
// A day with an assignment counts as work even if leave is recorded too.
func aggregateMonth(first, last time.Time, employees []model.Employee, assignments []model.Assignment, leave []model.LeaveEntry) *dto.MonthlyReportResponse {
	roster := append([]model.Employee(nil), employees...)
	sort.SliceStable(roster, func(i, j int) bool {
		if roster[i].Name != roster[j].Name {
			return roster[i].Name < roster[j].Name
		}
		return roster[i].EmployeeID < roster[j].EmployeeID
	})

	work := make(map[string][]model.Assignment)
	for _, a := range assignments {
		if !a.HasEmployee() {
			continue
		}
		key := dayKey(a.WorkDate) + "|" + *a.EmployeeID
		work[key] = append(work[key], a)
	}
	for _, rows := range work {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].StartTime < rows[j].StartTime })
	}

	absence := make(map[string]string)
	statusSeen := make(map[string]bool)
	for _, l := range leave {
		status := strings.TrimSpace(l.Status)
		if status == "" {
			continue
		}
		absence[dayKey(l.LeaveDate)+"|"+l.EmployeeID] = status
		statusSeen[status] = true
	}

	days := eachDay(first, last)
	report := &dto.MonthlyReportResponse{
		Year:            first.Year(),
		Month:           int(first.Month()),
		Days:            len(days),
		AbsenceStatuses: make([]string, 0, len(statusSeen)),
		Detail:          make([]dto.ReportDayRow, 0, len(roster)*len(days)),
		Summary:         make([]dto.ReportSummaryRow, 0, len(roster)),
	}
	for status := range statusSeen {
		report.AbsenceStatuses = append(report.AbsenceStatuses, status)
	}
	sort.Strings(report.AbsenceStatuses)

	for _, emp := range roster {
		sum := dto.ReportSummaryRow{
			EmployeeID:    emp.EmployeeID,
			EmployeeName:  emp.Name,
			AbsenceCounts: make(map[string]int),
		}

		for _, d := range days {
			date := dayKey(d)
			key := date + "|" + emp.EmployeeID
			base := dto.ReportDayRow{Date: date, EmployeeID: emp.EmployeeID, EmployeeName: emp.Name}

			if rows := work[key]; len(rows) > 0 {
				sum.WorkDays++
				for _, a := range rows {
					r := base
					r.Kind = dto.DayKindWork
					r.Start = shifttime.FormatTime(a.StartTime)
					r.End = shifttime.FormatTime(a.EndTime)
					r.Hours = a.Hours
					if a.Site != nil {
						r.SiteName = a.Site.Name
					}
					if a.Slot != nil {
						r.SlotLabel = a.Slot.Label
					}
					sum.WorkHours += a.Hours
					report.Detail = append(report.Detail, r)
				}
				continue
			}

			if status, ok := absence[key]; ok {
				r := base
				r.Kind = dto.DayKindAbsence
				r.Status = status
				sum.AbsenceCounts[status]++
				report.Detail = append(report.Detail, r)
				continue
			}

			r := base
			r.Kind = dto.DayKindFree
			report.Detail = append(report.Detail, r)
		}

		sum.WorkHours = math.Round(sum.WorkHours*100) / 100
		report.Summary = append(report.Summary, sum)
	}

	return report
}
