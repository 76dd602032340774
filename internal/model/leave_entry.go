package model

import (
	"time"

	"gorm.io/gorm"
)

// Common leave register labels. Any non-blank label blocks scheduling.
const (
	LeaveStatusVacation = "Urlaub"
	LeaveStatusSick     = "Krank"
	LeaveStatusNoNotice = "Unentschuldigt"
	LeaveStatusStandby  = "Bereitschaft"
)

// LeaveEntry one day of leave/sickness for one employee (Urlaub/Krank), table leave_entries
type LeaveEntry struct {
	LeaveEntryID string    `gorm:"primaryKey;size:36"                                 json:"leave_entry_id"`
	LeaveDate    time.Time `gorm:"type:date;not null;uniqueIndex:uq_leave_entries_day" json:"leave_date"`
	EmployeeID   string    `gorm:"size:36;not null;uniqueIndex:uq_leave_entries_day"   json:"employee_id"`
	Status       string    `gorm:"size:50;not null"                                   json:"status"`
	BaseModel

	Employee *Employee `gorm:"foreignKey:EmployeeID;references:EmployeeID;constraint:false" json:"employee,omitempty"`
}

// TableName table name
func (LeaveEntry) TableName() string { return "leave_entries" }

// BeforeCreate assigns the surrogate id.
func (l *LeaveEntry) BeforeCreate(_ *gorm.DB) error {
	ensureID(&l.LeaveEntryID)
	return nil
}
