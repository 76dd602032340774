package repository

import (
	"context"

	"gorm.io/gorm"

	"einsatzplan/internal/model"
)

// SiteRepository sites and their slots
type SiteRepository interface {
	Create(ctx context.Context, site *model.Site) error
	GetByID(ctx context.Context, id string) (*model.Site, error)
	List(ctx context.Context) ([]model.Site, error)
	Update(ctx context.Context, site *model.Site) error
	Delete(ctx context.Context, id string) error

	CreateSlot(ctx context.Context, slot *model.Slot) error
	GetSlot(ctx context.Context, siteID, slotID string) (*model.Slot, error)
	UpdateSlot(ctx context.Context, slot *model.Slot) error
	DeleteSlot(ctx context.Context, siteID, slotID string) error
}

type siteRepo struct {
	db *gorm.DB
}

// NewSiteRepo creates a SiteRepository
func NewSiteRepo(db *gorm.DB) SiteRepository {
	return &siteRepo{db: db}
}

// Create inserts the site together with any slots attached to it.
func (r *siteRepo) Create(ctx context.Context, site *model.Site) error {
	return r.db.WithContext(ctx).Create(site).Error
}

func (r *siteRepo) GetByID(ctx context.Context, id string) (*model.Site, error) {
	if !isID(id) {
		return nil, gorm.ErrRecordNotFound
	}
	var site model.Site
	err := r.db.WithContext(ctx).
		Preload("Slots").
		Where("site_id = ?", id).
		First(&site).Error
	if err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *siteRepo) List(ctx context.Context) ([]model.Site, error) {
	var sites []model.Site
	err := r.db.WithContext(ctx).
		Preload("Slots").
		Order("name ASC").
		Find(&sites).Error
	return sites, err
}

// Update writes site-level fields only; slots are managed separately.
func (r *siteRepo) Update(ctx context.Context, site *model.Site) error {
	return r.db.WithContext(ctx).
		Model(&model.Site{}).
		Where("site_id = ?", site.SiteID).
		Updates(map[string]interface{}{
			"name":           site.Name,
			"contact_person": site.ContactPerson,
			"contact_phone":  site.ContactPhone,
		}).Error
}

// Delete removes the site and its slots. Saved assignments stay.
func (r *siteRepo) Delete(ctx context.Context, id string) error {
	if !isID(id) {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("site_id = ?", id).Delete(&model.Slot{}).Error; err != nil {
			return err
		}
		return tx.Where("site_id = ?", id).Delete(&model.Site{}).Error
	})
}

func (r *siteRepo) CreateSlot(ctx context.Context, slot *model.Slot) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *siteRepo) GetSlot(ctx context.Context, siteID, slotID string) (*model.Slot, error) {
	if !isID(siteID) || !isID(slotID) {
		return nil, gorm.ErrRecordNotFound
	}
	var slot model.Slot
	err := r.db.WithContext(ctx).
		Where("site_id = ? AND slot_id = ?", siteID, slotID).
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *siteRepo) UpdateSlot(ctx context.Context, slot *model.Slot) error {
	return r.db.WithContext(ctx).
		Model(&model.Slot{}).
		Where("slot_id = ?", slot.SlotID).
		Update("label", slot.Label).Error
}

func (r *siteRepo) DeleteSlot(ctx context.Context, siteID, slotID string) error {
	if !isID(siteID) || !isID(slotID) {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("site_id = ? AND slot_id = ?", siteID, slotID).
		Delete(&model.Slot{}).Error
}
