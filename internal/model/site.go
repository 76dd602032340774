package model

import "gorm.io/gorm"

// Site client location (Objekt), table sites
type Site struct {
	SiteID        string `gorm:"primaryKey;size:36"            json:"site_id"`
	Name          string `gorm:"size:100;not null;uniqueIndex" json:"name"`
	ContactPerson string `gorm:"size:100;not null;default:''"  json:"contact_person"`
	ContactPhone  string `gorm:"size:50;not null;default:''"   json:"contact_phone"`
	BaseModel

	Slots []Slot `gorm:"foreignKey:SiteID;references:SiteID;constraint:OnDelete:CASCADE" json:"slots,omitempty"`
}

// TableName table name
func (Site) TableName() string { return "sites" }

// BeforeCreate assigns the surrogate id.
func (s *Site) BeforeCreate(_ *gorm.DB) error {
	ensureID(&s.SiteID)
	return nil
}

// Slot named position at a site (MA_Slot), table slots
type Slot struct {
	SlotID string `gorm:"primaryKey;size:36"                                json:"slot_id"`
	SiteID string `gorm:"size:36;not null;uniqueIndex:uq_slots_site_label" json:"site_id"`
	Label  string `gorm:"size:50;not null;uniqueIndex:uq_slots_site_label" json:"label"`
	BaseModel
}

// TableName table name
func (Slot) TableName() string { return "slots" }

// BeforeCreate assigns the surrogate id.
func (s *Slot) BeforeCreate(_ *gorm.DB) error {
	ensureID(&s.SlotID)
	return nil
}
