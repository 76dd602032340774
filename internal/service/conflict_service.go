package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"einsatzplan/internal/dto"
	"einsatzplan/internal/repository"
	"einsatzplan/pkg/shifttime"
)

// ConflictKind classifies a blocking finding
type ConflictKind string

const (
	ConflictLeave         ConflictKind = "leave"
	ConflictDoubleBooking ConflictKind = "double_booking"
)

// Conflict one reason a proposed cell cannot be saved.
type Conflict struct {
	Kind         ConflictKind
	Date         time.Time
	EmployeeID   string
	EmployeeName string
	SlotLabel    string // the proposed cell's slot

	Status string // leave

	OtherSite  string // double booking
	OtherSlot  string
	OtherRange string
}

// Message renders the conflict for the planner.
func (c Conflict) Message() string {
	who := c.EmployeeName
	if who == "" {
		who = c.EmployeeID
	}
	switch c.Kind {
	case ConflictLeave:
		return fmt.Sprintf("%s ist am %s als %q eingetragen.", who, germanDate(c.Date), c.Status)
	default:
		return fmt.Sprintf("%s ist am %s bereits bei %s (%s) von %s eingeteilt.",
			who, germanDate(c.Date), c.OtherSite, c.OtherSlot, c.OtherRange)
	}
}

func (c Conflict) toResponse() dto.ConflictResponse {
	return dto.ConflictResponse{
		Kind:       string(c.Kind),
		Date:       dayKey(c.Date),
		SlotLabel:  c.SlotLabel,
		EmployeeID: c.EmployeeID,
		Message:    c.Message(),
	}
}

// CellProposal a single cell as the planner wants to save it
type CellProposal struct {
	Date         time.Time
	SiteID       string
	SlotLabel    string
	EmployeeID   string
	EmployeeName string
	Start        float64
	End          float64
}

func (p CellProposal) window() shifttime.Window {
	return shifttime.NewWindow(p.Start, p.End)
}

// ConflictService leave and double-booking checks against saved data.
// Storage failures are returned as errors, never as conflicts.
type ConflictService interface {
	CheckLeave(ctx context.Context, employeeID string, date time.Time) (*Conflict, error)
	CheckDoubleBooking(ctx context.Context, p CellProposal) (*Conflict, error)
	CheckCell(ctx context.Context, p CellProposal) ([]Conflict, error)
	// Check is the ad hoc variant for a cell being edited.
	Check(ctx context.Context, req *dto.CheckCellRequest) (*dto.CheckCellResponse, error)
}

type conflictService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewConflictService creates a ConflictService
func NewConflictService(repo *repository.Repository, logger *zap.Logger) ConflictService {
	return &conflictService{repo: repo, logger: logger}
}

// CheckLeave reports a conflict when the employee has a non-blank leave
// status on date.
func (s *conflictService) CheckLeave(ctx context.Context, employeeID string, date time.Time) (*Conflict, error) {
	entry, err := s.repo.Leave.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("leave lookup failed", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}

	status := strings.TrimSpace(entry.Status)
	if status == "" {
		return nil, nil
	}
	return &Conflict{Kind: ConflictLeave, Date: date, EmployeeID: employeeID, Status: status}, nil
}

// CheckDoubleBooking compares the proposal with the employee's saved
// assignments at other sites on the same day. Rows at the proposal's own
// site are ignored since a commit replaces them.
func (s *conflictService) CheckDoubleBooking(ctx context.Context, p CellProposal) (*Conflict, error) {
	if p.EmployeeID == "" {
		return nil, nil
	}
	proposed := p.window()
	if proposed.IsEmpty() {
		return nil, nil
	}

	others, err := s.repo.Assignment.ListByEmployeeAndDate(ctx, p.EmployeeID, p.Date, p.SiteID)
	if err != nil {
		s.logger.Error("assignment lookup failed", zap.String("employee_id", p.EmployeeID), zap.Error(err))
		return nil, err
	}

	for i := range others {
		a := &others[i]
		if !shifttime.Overlaps(proposed, shifttime.NewWindow(a.StartTime, a.EndTime)) {
			continue
		}
		c := &Conflict{
			Kind:         ConflictDoubleBooking,
			Date:         p.Date,
			EmployeeID:   p.EmployeeID,
			EmployeeName: p.EmployeeName,
			SlotLabel:    p.SlotLabel,
			OtherRange:   shifttime.FormatRange(a.StartTime, a.EndTime),
		}
		if a.Site != nil {
			c.OtherSite = a.Site.Name
		}
		if a.Slot != nil {
			c.OtherSlot = a.Slot.Label
		}
		return c, nil
	}
	return nil, nil
}

// CheckCell runs both checks and returns every hit.
func (s *conflictService) CheckCell(ctx context.Context, p CellProposal) ([]Conflict, error) {
	if p.EmployeeID == "" {
		return nil, nil
	}

	var conflicts []Conflict

	leave, err := s.CheckLeave(ctx, p.EmployeeID, p.Date)
	if err != nil {
		return nil, err
	}
	if leave != nil {
		leave.EmployeeName = p.EmployeeName
		leave.SlotLabel = p.SlotLabel
		conflicts = append(conflicts, *leave)
	}

	booking, err := s.CheckDoubleBooking(ctx, p)
	if err != nil {
		return nil, err
	}
	if booking != nil {
		conflicts = append(conflicts, *booking)
	}

	return conflicts, nil
}

func (s *conflictService) Check(ctx context.Context, req *dto.CheckCellRequest) (*dto.CheckCellResponse, error) {
	date, err := parseDay(req.Date)
	if err != nil {
		return nil, err
	}
	emp, err := loadEmployee(ctx, s.repo, s.logger, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	conflicts, err := s.CheckCell(ctx, CellProposal{
		Date:         date,
		SiteID:       req.SiteID,
		EmployeeID:   emp.EmployeeID,
		EmployeeName: emp.Name,
		Start:        shifttime.ParseTime(req.Start),
		End:          shifttime.ParseTime(req.End),
	})
	if err != nil {
		return nil, err
	}

	return &dto.CheckCellResponse{OK: len(conflicts) == 0, Conflicts: toConflictResponses(conflicts)}, nil
}

func toConflictResponses(conflicts []Conflict) []dto.ConflictResponse {
	result := make([]dto.ConflictResponse, 0, len(conflicts))
	for _, c := range conflicts {
		result = append(result, c.toResponse())
	}
	return result
}

// withinSubmissionConflicts finds overlapping cells of the same employee on
// the same day inside one submitted grid. Each pair is reported once, on
// the later cell.
func withinSubmissionConflicts(siteName string, cells []plannedCell) []Conflict {
	var conflicts []Conflict
	byKey := make(map[string][]int)
	for i, c := range cells {
		if c.employeeID == "" || c.orphan {
			continue
		}
		key := dayKey(c.date) + "|" + c.employeeID
		for _, j := range byKey[key] {
			prev := cells[j]
			if !shifttime.Overlaps(prev.window(), c.window()) {
				continue
			}
			conflicts = append(conflicts, Conflict{
				Kind:         ConflictDoubleBooking,
				Date:         c.date,
				EmployeeID:   c.employeeID,
				EmployeeName: c.employeeName,
				SlotLabel:    c.slotLabel,
				OtherSite:    siteName,
				OtherSlot:    prev.slotLabel,
				OtherRange:   shifttime.FormatRange(prev.start, prev.end),
			})
			break
		}
		byKey[key] = append(byKey[key], i)
	}
	return conflicts
}
