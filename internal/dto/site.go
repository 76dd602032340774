package dto

// ── sites and slots ──

// CreateSiteRequest new site with its initial slot labels
type CreateSiteRequest struct {
	Name          string   `json:"name"           binding:"required,min=2,max=100"`
	ContactPerson string   `json:"contact_person" binding:"omitempty,max=100"`
	ContactPhone  string   `json:"contact_phone"  binding:"omitempty,max=50"`
	Slots         []string `json:"slots"          binding:"omitempty,dive,required,max=50"`
}

// UpdateSiteRequest partial update of site-level data
type UpdateSiteRequest struct {
	Name          *string `json:"name"           binding:"omitempty,min=2,max=100"`
	ContactPerson *string `json:"contact_person" binding:"omitempty,max=100"`
	ContactPhone  *string `json:"contact_phone"  binding:"omitempty,max=50"`
}

// SlotRequest create or rename a slot
type SlotRequest struct {
	Label string `json:"label" binding:"required,max=50"`
}

// SiteResponse site with slots in display order
type SiteResponse struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	ContactPerson string         `json:"contact_person,omitempty"`
	ContactPhone  string         `json:"contact_phone,omitempty"`
	Slots         []SlotResponse `json:"slots"`
}

// SlotResponse slot
type SlotResponse struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}
