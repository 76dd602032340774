package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"einsatzplan/internal/dto"
)

// ── export module errors ──

var ErrExportGenerateFail = errors.New("Export konnte nicht erzeugt werden")

// utf8BOM lets spreadsheet applications detect the CSV encoding.
const utf8BOM = "\xEF\xBB\xBF"

// ExportService renders plans and reports as files. Results are returned as
// buffers; the handler sets the download headers.
type ExportService interface {
	PlanCSV(ctx context.Context, siteID string, year, month int) (*bytes.Buffer, string, error)
	PlanXLSX(ctx context.Context, siteID string, year, month int) (*bytes.Buffer, string, error)
	ReportXLSX(ctx context.Context, year, month int) (*bytes.Buffer, string, error)
	// MyAssignmentsICS is the session employee's assignments as an iCalendar feed.
	MyAssignmentsICS(ctx context.Context, sess Session, now time.Time) (*bytes.Buffer, string, error)
}

type exportService struct {
	plans   PlanService
	reports ReportService
	loc     *time.Location
	logger  *zap.Logger
}

// NewExportService creates an ExportService on top of the plan and report
// services. loc is the wall clock of shift times in calendar feeds.
func NewExportService(plans PlanService, reports ReportService, loc *time.Location, logger *zap.Logger) ExportService {
	if loc == nil {
		loc = time.UTC
	}
	return &exportService{plans: plans, reports: reports, loc: loc, logger: logger}
}

func (s *exportService) PlanCSV(ctx context.Context, siteID string, year, month int) (*bytes.Buffer, string, error) {
	plan, err := s.plans.GetPlan(ctx, siteID, year, month)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	if err := WritePlanCSV(buf, plan); err != nil {
		s.logger.Error("write plan csv failed", zap.String("site_id", siteID), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, planFilename(plan, "csv"), nil
}

func (s *exportService) PlanXLSX(ctx context.Context, siteID string, year, month int) (*bytes.Buffer, string, error) {
	plan, err := s.plans.GetPlan(ctx, siteID, year, month)
	if err != nil {
		return nil, "", err
	}

	f := buildPlanWorkbook(plan)
	defer f.Close()

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write plan xlsx failed", zap.String("site_id", siteID), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, planFilename(plan, "xlsx"), nil
}

func (s *exportService) ReportXLSX(ctx context.Context, year, month int) (*bytes.Buffer, string, error) {
	report, err := s.reports.MonthlyReport(ctx, year, month)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	if err := WriteReportXLSX(buf, report); err != nil {
		s.logger.Error("write report xlsx failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, fmt.Sprintf("Stundenbericht_%04d-%02d.xlsx", report.Year, report.Month), nil
}

// ═══════════════════════════════════════════════════════════
// CSV
// ═══════════════════════════════════════════════════════════

func (s *exportService) MyAssignmentsICS(ctx context.Context, sess Session, now time.Time) (*bytes.Buffer, string, error) {
	list, err := s.plans.MyAssignments(ctx, sess, now)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	if err := WriteAssignmentsICS(buf, sess.Name, list, s.loc, now); err != nil {
		s.logger.Error("write assignments ics failed", zap.String("employee_id", sess.EmployeeID), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, "Dienstplan.ics", nil
}

// WritePlanCSV serialises an assembled plan as semicolon separated values:
// Datum;Tag followed by five columns per slot.
func WritePlanCSV(w io.Writer, plan *dto.PlanResponse) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(planHeader(plan)); err != nil {
		return err
	}
	for _, row := range plan.Rows {
		record := []string{germanDateKey(row.Date), row.Weekday}
		for _, c := range row.Cells {
			record = append(record, c.EmployeeName, c.Start, c.End, decimalText(c.BreakHours), decimalText(c.Hours))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func planHeader(plan *dto.PlanResponse) []string {
	header := []string{"Datum", "Tag"}
	for _, sl := range plan.Slots {
		header = append(header,
			sl.Label+" Mitarbeiter",
			sl.Label+" Beginn",
			sl.Label+" Ende",
			sl.Label+" Pause",
			sl.Label+" Stunden",
		)
	}
	return header
}

// decimalText formats with a decimal comma; nil renders empty.
func decimalText(v *float64) string {
	if v == nil {
		return ""
	}
	return strings.Replace(strconv.FormatFloat(*v, 'f', -1, 64), ".", ",", 1)
}

func germanDateKey(key string) string {
	d, err := parseDay(key)
	if err != nil {
		return key
	}
	return germanDate(d)
}

func planFilename(plan *dto.PlanResponse, ext string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, plan.SiteName)
	return fmt.Sprintf("Einsatzplan_%s_%04d-%02d.%s", name, plan.Year, plan.Month, ext)
}

// ═══════════════════════════════════════════════════════════
// XLSX
// ═══════════════════════════════════════════════════════════

func buildPlanWorkbook(plan *dto.PlanResponse) *excelize.File {
	f := excelize.NewFile()

	sheet := "Einsatzplan"
	idx, _ := f.NewSheet(sheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	header := planHeader(plan)
	headerStyle := boldHeaderStyle(f)
	weekendStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E7E6E6"}, Pattern: 1},
	})

	f.SetCellValue(sheet, "A1", fmt.Sprintf("%s %02d/%04d", plan.SiteName, plan.Month, plan.Year))
	f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	for i, h := range header {
		f.SetCellValue(sheet, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sheet, "A2", cell(colName(len(header)-1), 2), headerStyle)
	f.SetColWidth(sheet, "A", "B", 12)
	if len(header) > 2 {
		f.SetColWidth(sheet, "C", colName(len(header)-1), 14)
	}

	for r, row := range plan.Rows {
		line := r + 3
		f.SetCellValue(sheet, cell("A", line), germanDateKey(row.Date))
		f.SetCellValue(sheet, cell("B", line), row.Weekday)
		col := 2
		for _, c := range row.Cells {
			f.SetCellValue(sheet, cell(colName(col), line), c.EmployeeName)
			f.SetCellValue(sheet, cell(colName(col+1), line), c.Start)
			f.SetCellValue(sheet, cell(colName(col+2), line), c.End)
			if c.BreakHours != nil {
				f.SetCellValue(sheet, cell(colName(col+3), line), *c.BreakHours)
			}
			if c.Hours != nil {
				f.SetCellValue(sheet, cell(colName(col+4), line), *c.Hours)
			}
			col += 5
		}
		if row.IsWeekend {
			f.SetCellStyle(sheet, cell("A", line), cell(colName(len(header)-1), line), weekendStyle)
		}
	}

	return f
}

// WriteReportXLSX writes the monthly report with a summary and a detail sheet.
func WriteReportXLSX(w io.Writer, report *dto.MonthlyReportResponse) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle := boldHeaderStyle(f)

	summary := "Übersicht"
	idx, _ := f.NewSheet(summary)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	header := append([]string{"Mitarbeiter", "Stunden", "Arbeitstage"}, report.AbsenceStatuses...)
	for i, h := range header {
		f.SetCellValue(summary, cell(colName(i), 1), h)
	}
	f.SetCellStyle(summary, "A1", cell(colName(len(header)-1), 1), headerStyle)
	f.SetColWidth(summary, "A", "A", 24)

	for r, row := range report.Summary {
		line := r + 2
		f.SetCellValue(summary, cell("A", line), row.EmployeeName)
		f.SetCellValue(summary, cell("B", line), row.WorkHours)
		f.SetCellValue(summary, cell("C", line), row.WorkDays)
		for i, status := range report.AbsenceStatuses {
			f.SetCellValue(summary, cell(colName(3+i), line), row.AbsenceCounts[status])
		}
	}

	detail := "Details"
	if _, err := f.NewSheet(detail); err != nil {
		return err
	}
	detailHeader := []string{"Datum", "Mitarbeiter", "Art", "Objekt", "Position", "Beginn", "Ende", "Stunden", "Status"}
	for i, h := range detailHeader {
		f.SetCellValue(detail, cell(colName(i), 1), h)
	}
	f.SetCellStyle(detail, "A1", cell(colName(len(detailHeader)-1), 1), headerStyle)
	f.SetColWidth(detail, "B", "B", 24)

	kindLabels := map[string]string{dto.DayKindWork: "Einsatz", dto.DayKindAbsence: "Abwesend", dto.DayKindFree: "Frei"}
	for r, row := range report.Detail {
		line := r + 2
		values := []interface{}{
			germanDateKey(row.Date), row.EmployeeName, kindLabels[row.Kind],
			row.SiteName, row.SlotLabel, row.Start, row.End, row.Hours, row.Status,
		}
		for i, v := range values {
			f.SetCellValue(detail, cell(colName(i), line), v)
		}
	}

	return f.Write(w)
}

// ── helpers ──

func boldHeaderStyle(f *excelize.File) int {
	style, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	return style
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
