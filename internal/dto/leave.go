package dto

// ── leave register ──

// LeaveRangeRequest marks every day from..to (inclusive) with status,
// replacing whatever status those days had.
type LeaveRangeRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	From       string `json:"from"        binding:"required,datetime=2006-01-02"`
	To         string `json:"to"          binding:"required,datetime=2006-01-02"`
	Status     string `json:"status"      binding:"required,max=50"`
}

// LeaveDeleteRequest clears days from..to (inclusive)
type LeaveDeleteRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	From       string `json:"from"        binding:"required,datetime=2006-01-02"`
	To         string `json:"to"          binding:"required,datetime=2006-01-02"`
}

// MonthRequest year/month query parameters
type MonthRequest struct {
	Year  int `form:"year"  binding:"required,min=2000,max=2100"`
	Month int `form:"month" binding:"required,min=1,max=12"`
}

// LeaveEntryResponse one day of leave
type LeaveEntryResponse struct {
	Date         string `json:"date"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Status       string `json:"status"`
}

// LeaveRangeResponse result of a range insert or delete
type LeaveRangeResponse struct {
	Days int `json:"days"`
}
