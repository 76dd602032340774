package dto

// ── monthly plan grid ──

// PlanResponse editable grid for one site and month
type PlanResponse struct {
	SiteID   string          `json:"site_id"`
	SiteName string          `json:"site_name"`
	Year     int             `json:"year"`
	Month    int             `json:"month"`
	Slots    []SlotResponse  `json:"slots"`
	Rows     []PlanRow       `json:"rows"`
	Roster   []EmployeeBrief `json:"roster"`
}

// PlanRow one calendar day
type PlanRow struct {
	Date      string     `json:"date"`
	Weekday   string     `json:"weekday"`
	IsWeekend bool       `json:"is_weekend"`
	Cells     []PlanCell `json:"cells"`
}

// PlanCell one slot on one day. Nil pointers mean no saved assignment,
// which is distinct from a saved zero-length shift.
type PlanCell struct {
	SlotID       string   `json:"slot_id"`
	SlotLabel    string   `json:"slot_label"`
	EmployeeID   *string  `json:"employee_id"`
	EmployeeName string   `json:"employee_name,omitempty"`
	Start        string   `json:"start"`
	End          string   `json:"end"`
	BreakHours   *float64 `json:"break_hours"`
	Hours        *float64 `json:"hours"`
}

// CommitPlanRequest the full edited grid. Whatever the month held before
// is replaced by exactly these cells.
type CommitPlanRequest struct {
	Year  int            `json:"year"  binding:"required,min=2000,max=2100"`
	Month int            `json:"month" binding:"required,min=1,max=12"`
	Rows  []PlanRowInput `json:"rows"  binding:"dive"`
}

// PlanRowInput one submitted day
type PlanRowInput struct {
	Date  string          `json:"date"  binding:"required,datetime=2006-01-02"`
	Cells []PlanCellInput `json:"cells" binding:"dive"`
}

// PlanCellInput one submitted cell; times are free text ("18:30", "1830", "18")
type PlanCellInput struct {
	SlotID     string  `json:"slot_id"     binding:"required"`
	EmployeeID *string `json:"employee_id"`
	Start      string  `json:"start"`
	End        string  `json:"end"`
	BreakHours float64 `json:"break_hours" binding:"min=0,max=24"`
}

// CheckCellRequest ad hoc conflict check for a single cell while editing
type CheckCellRequest struct {
	SiteID     string `json:"site_id"     binding:"required"`
	Date       string `json:"date"        binding:"required,datetime=2006-01-02"`
	EmployeeID string `json:"employee_id" binding:"required"`
	Start      string `json:"start"`
	End        string `json:"end"`
}

// ConflictResponse one blocking finding
type ConflictResponse struct {
	Kind       string `json:"kind"` // leave | double_booking
	Date       string `json:"date"`
	SlotLabel  string `json:"slot_label,omitempty"`
	EmployeeID string `json:"employee_id"`
	Message    string `json:"message"`
}

// CheckCellResponse result of CheckCellRequest
type CheckCellResponse struct {
	OK        bool               `json:"ok"`
	Conflicts []ConflictResponse `json:"conflicts"`
}

// CommitPlanResponse summary of a successful commit
type CommitPlanResponse struct {
	SiteID     string  `json:"site_id"`
	Year       int     `json:"year"`
	Month      int     `json:"month"`
	Saved      int     `json:"saved"`
	TotalHours float64 `json:"total_hours"`
}

// AssignmentResponse a saved assignment as seen by the scheduled employee
type AssignmentResponse struct {
	Date       string  `json:"date"`
	SiteID     string  `json:"site_id"`
	SiteName   string  `json:"site_name"`
	SlotLabel  string  `json:"slot_label"`
	Start      string  `json:"start"`
	End        string  `json:"end"`
	BreakHours float64 `json:"break_hours"`
	Hours      float64 `json:"hours"`
}
