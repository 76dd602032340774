package dto

// ── monthly attendance report ──

// Day classifications of the attendance report
const (
	DayKindWork    = "work"
	DayKindAbsence = "absence"
	DayKindFree    = "free"
)

// MonthlyReportResponse detail rows plus per-employee totals
type MonthlyReportResponse struct {
	Year            int                `json:"year"`
	Month           int                `json:"month"`
	Days            int                `json:"days"`
	AbsenceStatuses []string           `json:"absence_statuses"`
	Detail          []ReportDayRow     `json:"detail"`
	Summary         []ReportSummaryRow `json:"summary"`
}

// ReportDayRow one employee on one day
type ReportDayRow struct {
	Date         string  `json:"date"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	Kind         string  `json:"kind"`
	SiteName     string  `json:"site_name,omitempty"`
	SlotLabel    string  `json:"slot_label,omitempty"`
	Start        string  `json:"start,omitempty"`
	End          string  `json:"end,omitempty"`
	Hours        float64 `json:"hours"`
	Status       string  `json:"status,omitempty"`
}

// ReportSummaryRow per-employee roll-up
type ReportSummaryRow struct {
	EmployeeID    string         `json:"employee_id"`
	EmployeeName  string         `json:"employee_name"`
	WorkHours     float64        `json:"work_hours"`
	WorkDays      int            `json:"work_days"`
	AbsenceCounts map[string]int `json:"absence_counts"`
}
