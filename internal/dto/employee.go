package dto

// ── employee directory ──

// CreateEmployeeRequest new directory entry; dates are YYYY-MM-DD
type CreateEmployeeRequest struct {
	Name            string `json:"name"             binding:"required,min=2,max=100"`
	PersonnelNumber string `json:"personnel_number" binding:"omitempty,max=50"`
	BirthDate       string `json:"birth_date"       binding:"omitempty,datetime=2006-01-02"`
	EmploymentType  string `json:"employment_type"  binding:"omitempty,max=50"`
	Position        string `json:"position"         binding:"omitempty,max=100"`
	ContractEnd     string `json:"contract_end"     binding:"omitempty,datetime=2006-01-02"`
	Address         string `json:"address"          binding:"omitempty,max=255"`
	Phone           string `json:"phone"            binding:"omitempty,max=50"`
	IDValidUntil    string `json:"id_valid_until"   binding:"omitempty,datetime=2006-01-02"`
}

// UpdateEmployeeRequest partial update; a rename needs no cascade because
// assignments and leave entries reference the employee id.
type UpdateEmployeeRequest struct {
	Name            *string `json:"name"             binding:"omitempty,min=2,max=100"`
	PersonnelNumber *string `json:"personnel_number" binding:"omitempty,max=50"`
	BirthDate       *string `json:"birth_date"       binding:"omitempty,datetime=2006-01-02"`
	EmploymentType  *string `json:"employment_type"  binding:"omitempty,max=50"`
	Position        *string `json:"position"         binding:"omitempty,max=100"`
	ContractEnd     *string `json:"contract_end"     binding:"omitempty,datetime=2006-01-02"`
	Address         *string `json:"address"          binding:"omitempty,max=255"`
	Phone           *string `json:"phone"            binding:"omitempty,max=50"`
	IDValidUntil    *string `json:"id_valid_until"   binding:"omitempty,datetime=2006-01-02"`
	IsActive        *bool   `json:"is_active"`
}

// EmployeeListRequest list filter
type EmployeeListRequest struct {
	IncludeInactive bool   `form:"include_inactive"`
	Keyword         string `form:"keyword" binding:"omitempty,max=50"`
}

// EmployeeResponse directory entry
type EmployeeResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	PersonnelNumber string `json:"personnel_number"`
	BirthDate       string `json:"birth_date,omitempty"`
	EmploymentType  string `json:"employment_type,omitempty"`
	Position        string `json:"position,omitempty"`
	ContractEnd     string `json:"contract_end,omitempty"`
	Address         string `json:"address,omitempty"`
	Phone           string `json:"phone,omitempty"`
	IDValidUntil    string `json:"id_valid_until,omitempty"`
	IsActive        bool   `json:"is_active"`
}

// EmployeeBrief roster entry for slot selection
type EmployeeBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
