package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"einsatzplan/config"
	"einsatzplan/internal/dto"
	"einsatzplan/internal/model"
	"einsatzplan/internal/repository"
	"einsatzplan/pkg/shifttime"
)

// ── plan module errors ──

var (
	ErrDateOutsideMonth   = errors.New("Datum liegt außerhalb des Monats")
	ErrSlotNotInSite      = errors.New("Position gehört nicht zu diesem Objekt")
	ErrDuplicateCell      = errors.New("Zelle mehrfach übermittelt")
	ErrInvalidBreak       = errors.New("ungültige Pause")
	ErrPlanConflicts      = errors.New("Plan enthält Konflikte")
	ErrPlanCommitFailed   = errors.New("Plan konnte nicht gespeichert werden")
	ErrNoEmployeeIdentity = errors.New("Sitzung ist keinem Mitarbeiter zugeordnet")
)

// PlanConflictError lists every conflict found in a submitted grid.
type PlanConflictError struct {
	Conflicts []Conflict
}

func (e *PlanConflictError) Error() string {
	return fmt.Sprintf("%s (%d)", ErrPlanConflicts.Error(), len(e.Conflicts))
}

func (e *PlanConflictError) Unwrap() error { return ErrPlanConflicts }

// Responses renders the conflicts for the API.
func (e *PlanConflictError) Responses() []dto.ConflictResponse {
	return toConflictResponses(e.Conflicts)
}

// PlanService monthly plan grid of one site
type PlanService interface {
	// GetPlan assembles the editable grid: one row per day, one cell per slot.
	GetPlan(ctx context.Context, siteID string, year, month int) (*dto.PlanResponse, error)
	// CommitPlan validates the grid, checks every populated cell for
	// conflicts and replaces the site's month. Nothing is written when any
	// check fails.
	CommitPlan(ctx context.Context, siteID string, req *dto.CommitPlanRequest) (*dto.CommitPlanResponse, error)
	// MyAssignments lists the session employee's assignments of the current
	// and the next calendar month.
	MyAssignments(ctx context.Context, sess Session, now time.Time) ([]dto.AssignmentResponse, error)
}

type planService struct {
	repo      *repository.Repository
	conflicts ConflictService
	cfg       *config.PlanningConfig
	logger    *zap.Logger
}

// NewPlanService creates a PlanService
func NewPlanService(repo *repository.Repository, conflicts ConflictService, cfg *config.PlanningConfig, logger *zap.Logger) PlanService {
	return &planService{repo: repo, conflicts: conflicts, cfg: cfg, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// GetPlan
// ═══════════════════════════════════════════════════════════

func (s *planService) GetPlan(ctx context.Context, siteID string, year, month int) (*dto.PlanResponse, error) {
	first, last, err := monthRange(year, month)
	if err != nil {
		return nil, err
	}
	site, err := loadSite(ctx, s.repo, s.logger, siteID)
	if err != nil {
		return nil, err
	}

	assignments, err := s.repo.Assignment.ListBySiteAndRange(ctx, siteID, first, last)
	if err != nil {
		s.logger.Error("load assignments failed", zap.String("site_id", siteID), zap.Error(err))
		return nil, err
	}
	employees, err := s.repo.Employee.List(ctx, true, "")
	if err != nil {
		s.logger.Error("load employees failed", zap.Error(err))
		return nil, err
	}

	return assemblePlan(site, first, last, assignments, employees), nil
}

// assemblePlan builds the grid from loaded data. site.Slots must already
// be in display order.
func assemblePlan(site *model.Site, first, last time.Time, assignments []model.Assignment, employees []model.Employee) *dto.PlanResponse {
	names := employeeIndex(employees)

	byCell := make(map[string]*model.Assignment, len(assignments))
	for i := range assignments {
		a := &assignments[i]
		byCell[dayKey(a.WorkDate)+"|"+a.SlotID] = a
	}

	plan := &dto.PlanResponse{
		SiteID:   site.SiteID,
		SiteName: site.Name,
		Year:     first.Year(),
		Month:    int(first.Month()),
		Slots:    toSlotResponses(site.Slots),
		Roster:   make([]dto.EmployeeBrief, 0, len(employees)),
	}

	for _, d := range eachDay(first, last) {
		row := dto.PlanRow{
			Date:      dayKey(d),
			Weekday:   weekdayNames[d.Weekday()],
			IsWeekend: isWeekend(d),
			Cells:     make([]dto.PlanCell, 0, len(site.Slots)),
		}
		for _, sl := range site.Slots {
			cell := dto.PlanCell{SlotID: sl.SlotID, SlotLabel: sl.Label}
			if a, ok := byCell[row.Date+"|"+sl.SlotID]; ok {
				brk, hours := a.BreakHours, a.Hours
				cell.EmployeeID = a.EmployeeID
				cell.Start = shifttime.FormatTime(a.StartTime)
				cell.End = shifttime.FormatTime(a.EndTime)
				cell.BreakHours = &brk
				cell.Hours = &hours
				if a.HasEmployee() {
					if emp, ok := names[*a.EmployeeID]; ok {
						cell.EmployeeName = emp.Name
					}
				}
			}
			row.Cells = append(row.Cells, cell)
		}
		plan.Rows = append(plan.Rows, row)
	}

	for _, e := range employees {
		if e.IsActive {
			plan.Roster = append(plan.Roster, dto.EmployeeBrief{ID: e.EmployeeID, Name: e.Name})
		}
	}
	sort.SliceStable(plan.Roster, func(i, j int) bool { return plan.Roster[i].Name < plan.Roster[j].Name })

	return plan
}

// ═══════════════════════════════════════════════════════════
// CommitPlan
// ═══════════════════════════════════════════════════════════

// plannedCell a validated, populated cell of a submitted grid
type plannedCell struct {
	date         time.Time
	slotID       string
	slotLabel    string
	employeeID   string
	employeeName string
	// orphan marks a saved reference to a deleted employee, kept as is
	orphan       bool
	start        float64
	end          float64
	breakHours   float64
}

func (c plannedCell) window() shifttime.Window {
	return shifttime.NewWindow(c.start, c.end)
}

func (s *planService) CommitPlan(ctx context.Context, siteID string, req *dto.CommitPlanRequest) (*dto.CommitPlanResponse, error) {
	first, last, err := monthRange(req.Year, req.Month)
	if err != nil {
		return nil, err
	}
	site, err := loadSite(ctx, s.repo, s.logger, siteID)
	if err != nil {
		return nil, err
	}
	employees, err := s.repo.Employee.List(ctx, true, "")
	if err != nil {
		s.logger.Error("load employees failed", zap.Error(err))
		return nil, err
	}

	saved, err := s.repo.Assignment.ListBySiteAndRange(ctx, siteID, first, last)
	if err != nil {
		s.logger.Error("load assignments failed", zap.String("site_id", siteID), zap.Error(err))
		return nil, err
	}

	// 1. request validation
	cells, err := validateGrid(req, first, last, site.Slots, employeeIndex(employees), savedEmployees(saved))
	if err != nil {
		return nil, err
	}

	// 2. conflict checks across the whole grid
	conflicts, err := s.findConflicts(ctx, site, cells)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		s.logger.Info("plan commit rejected",
			zap.String("site_id", siteID), zap.Int("year", req.Year), zap.Int("month", req.Month),
			zap.Int("conflicts", len(conflicts)))
		return nil, &PlanConflictError{Conflicts: conflicts}
	}

	// 3. replace the month
	rows := make([]model.Assignment, 0, len(cells))
	total := 0.0
	for _, c := range cells {
		a := model.Assignment{
			WorkDate:   c.date,
			SiteID:     siteID,
			SlotID:     c.slotID,
			StartTime:  c.start,
			EndTime:    c.end,
			BreakHours: c.breakHours,
			Hours:      shifttime.ComputeHours(c.start, c.end, c.breakHours),
		}
		if c.employeeID != "" {
			id := c.employeeID
			a.EmployeeID = &id
		}
		total += a.Hours
		rows = append(rows, a)
	}

	if err := s.repo.Assignment.ReplaceSiteRange(ctx, siteID, first, last, rows); err != nil {
		s.logger.Error("plan commit failed",
			zap.String("site_id", siteID), zap.Int("year", req.Year), zap.Int("month", req.Month), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPlanCommitFailed, err)
	}

	s.logger.Info("plan committed",
		zap.String("site_id", siteID), zap.Int("year", req.Year), zap.Int("month", req.Month), zap.Int("rows", len(rows)))

	return &dto.CommitPlanResponse{
		SiteID:     siteID,
		Year:       req.Year,
		Month:      req.Month,
		Saved:      len(rows),
		TotalHours: math.Round(total*100) / 100,
	}, nil
}

// savedEmployees maps "date|slot" to the employee id stored for that cell.
func savedEmployees(rows []model.Assignment) map[string]string {
	saved := make(map[string]string, len(rows))
	for _, a := range rows {
		if a.HasEmployee() {
			saved[dayKey(a.WorkDate)+"|"+a.SlotID] = *a.EmployeeID
		}
	}
	return saved
}

// validateGrid checks the submission's shape and returns the populated cells
// in date order. Empty cells are dropped. An unknown employee id is accepted
// only when the same cell already holds it.
func validateGrid(req *dto.CommitPlanRequest, first, last time.Time, slots []model.Slot, employees map[string]*model.Employee, saved map[string]string) ([]plannedCell, error) {
	labels := make(map[string]string, len(slots))
	for _, sl := range slots {
		labels[sl.SlotID] = sl.Label
	}

	seen := make(map[string]bool)
	var cells []plannedCell

	for _, row := range req.Rows {
		date, err := parseDay(row.Date)
		if err != nil {
			return nil, err
		}
		if date.Before(first) || date.After(last) {
			return nil, fmt.Errorf("%w: %s", ErrDateOutsideMonth, row.Date)
		}

		for _, in := range row.Cells {
			label, ok := labels[in.SlotID]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrSlotNotInSite, in.SlotID)
			}
			key := row.Date + "|" + in.SlotID
			if seen[key] {
				return nil, fmt.Errorf("%w: %s %s", ErrDuplicateCell, row.Date, label)
			}
			seen[key] = true

			if in.BreakHours < 0 || math.IsNaN(in.BreakHours) {
				return nil, fmt.Errorf("%w: %s %s", ErrInvalidBreak, row.Date, label)
			}

			c := plannedCell{
				date:       date,
				slotID:     in.SlotID,
				slotLabel:  label,
				start:      shifttime.ParseTime(in.Start),
				end:        shifttime.ParseTime(in.End),
				breakHours: in.BreakHours,
			}
			if in.EmployeeID != nil {
				c.employeeID = strings.TrimSpace(*in.EmployeeID)
			}
			if c.employeeID != "" {
				if emp, ok := employees[c.employeeID]; ok {
					c.employeeName = emp.Name
				} else if saved[key] == c.employeeID {
					c.orphan = true
				} else {
					return nil, fmt.Errorf("%w: %s", ErrEmployeeNotFound, c.employeeID)
				}
			}

			if c.employeeID == "" && c.start == 0 && c.end == 0 {
				continue
			}
			cells = append(cells, c)
		}
	}

	sort.SliceStable(cells, func(i, j int) bool { return cells[i].date.Before(cells[j].date) })
	return cells, nil
}

func (s *planService) findConflicts(ctx context.Context, site *model.Site, cells []plannedCell) ([]Conflict, error) {
	var conflicts []Conflict
	for _, c := range cells {
		if c.employeeID == "" || c.orphan {
			continue
		}
		found, err := s.conflicts.CheckCell(ctx, CellProposal{
			Date:         c.date,
			SiteID:       site.SiteID,
			SlotLabel:    c.slotLabel,
			EmployeeID:   c.employeeID,
			EmployeeName: c.employeeName,
			Start:        c.start,
			End:          c.end,
		})
		if err != nil {
			return nil, err
		}
		conflicts = append(conflicts, found...)
	}

	if s.cfg == nil || s.cfg.CheckWithinSubmission {
		conflicts = append(conflicts, withinSubmissionConflicts(site.Name, cells)...)
	}

	sort.SliceStable(conflicts, func(i, j int) bool {
		if !conflicts[i].Date.Equal(conflicts[j].Date) {
			return conflicts[i].Date.Before(conflicts[j].Date)
		}
		return naturalLess(conflicts[i].SlotLabel, conflicts[j].SlotLabel)
	})
	return conflicts, nil
}

// ═══════════════════════════════════════════════════════════
// MyAssignments
// ═══════════════════════════════════════════════════════════

func (s *planService) MyAssignments(ctx context.Context, sess Session, now time.Time) ([]dto.AssignmentResponse, error) {
	if sess.EmployeeID == "" {
		return nil, ErrNoEmployeeIdentity
	}

	from, _, err := monthRange(now.Year(), int(now.Month()))
	if err != nil {
		return nil, err
	}
	to := from.AddDate(0, 2, -1)

	rows, err := s.repo.Assignment.ListByEmployeeAndRange(ctx, sess.EmployeeID, from, to)
	if err != nil {
		s.logger.Error("load own assignments failed", zap.String("employee_id", sess.EmployeeID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.AssignmentResponse, 0, len(rows))
	for _, a := range rows {
		r := dto.AssignmentResponse{
			Date:       dayKey(a.WorkDate),
			SiteID:     a.SiteID,
			Start:      shifttime.FormatTime(a.StartTime),
			End:        shifttime.FormatTime(a.EndTime),
			BreakHours: a.BreakHours,
			Hours:      a.Hours,
		}
		if a.Site != nil {
			r.SiteName = a.Site.Name
		}
		if a.Slot != nil {
			r.SlotLabel = a.Slot.Label
		}
		result = append(result, r)
	}
	return result, nil
}
