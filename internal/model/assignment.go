package model

import (
	"time"

	"gorm.io/gorm"
)

// Assignment one (possibly empty) occupation of a slot on a day (Einsatz), table assignments
//
// StartTime and EndTime are fractional days; Hours is derived from
// start/end/break whenever the row is written.
type Assignment struct {
	AssignmentID string    `gorm:"primaryKey;size:36"                             json:"assignment_id"`
	WorkDate     time.Time `gorm:"type:date;not null;uniqueIndex:uq_assignments_cell" json:"work_date"`
	SiteID       string    `gorm:"size:36;not null;uniqueIndex:uq_assignments_cell"   json:"site_id"`
	SlotID       string    `gorm:"size:36;not null;uniqueIndex:uq_assignments_cell"   json:"slot_id"`
	StartTime    float64   `gorm:"not null;default:0"                             json:"start_time"`
	EndTime      float64   `gorm:"not null;default:0"                             json:"end_time"`
	BreakHours   float64   `gorm:"not null;default:0"                             json:"break_hours"`
	EmployeeID   *string   `gorm:"size:36;index:idx_assignments_employee_date"     json:"employee_id,omitempty"`
	Hours        float64   `gorm:"not null;default:0"                             json:"hours"`
	BaseModel

	// associations; ids are not enforced as foreign keys so history survives deletes
	Site     *Site     `gorm:"foreignKey:SiteID;references:SiteID;constraint:false"         json:"site,omitempty"`
	Slot     *Slot     `gorm:"foreignKey:SlotID;references:SlotID;constraint:false"         json:"slot,omitempty"`
	Employee *Employee `gorm:"foreignKey:EmployeeID;references:EmployeeID;constraint:false" json:"employee,omitempty"`
}

// TableName table name
func (Assignment) TableName() string { return "assignments" }

// BeforeCreate assigns the surrogate id.
func (a *Assignment) BeforeCreate(_ *gorm.DB) error {
	ensureID(&a.AssignmentID)
	return nil
}

// HasEmployee reports whether someone is scheduled in this cell.
func (a *Assignment) HasEmployee() bool {
	return a.EmployeeID != nil && *a.EmployeeID != ""
}
