package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"einsatzplan/internal/dto"
	"einsatzplan/internal/model"
	"einsatzplan/internal/repository"
	pkgerrors "einsatzplan/pkg/errors"
)

// ── site module errors ──

var (
	ErrSiteNotFound   = errors.New("Objekt nicht gefunden")
	ErrSiteNameTaken  = errors.New("Objektname bereits vergeben")
	ErrSlotNotFound   = errors.New("Position nicht gefunden")
	ErrSlotLabelTaken = errors.New("Position existiert bereits in diesem Objekt")
	ErrSlotLabelEmpty = errors.New("Positionsbezeichnung fehlt")
)

// SiteService sites and their slots
type SiteService interface {
	Create(ctx context.Context, req *dto.CreateSiteRequest) (*dto.SiteResponse, error)
	GetByID(ctx context.Context, id string) (*dto.SiteResponse, error)
	List(ctx context.Context) ([]dto.SiteResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateSiteRequest) (*dto.SiteResponse, error)
	Delete(ctx context.Context, id string) error

	AddSlot(ctx context.Context, siteID string, req *dto.SlotRequest) (*dto.SlotResponse, error)
	RenameSlot(ctx context.Context, siteID, slotID string, req *dto.SlotRequest) (*dto.SlotResponse, error)
	DeleteSlot(ctx context.Context, siteID, slotID string) error
}

type siteService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSiteService creates a SiteService
func NewSiteService(repo *repository.Repository, logger *zap.Logger) SiteService {
	return &siteService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *siteService) Create(ctx context.Context, req *dto.CreateSiteRequest) (*dto.SiteResponse, error) {
	site := &model.Site{
		Name:          strings.TrimSpace(req.Name),
		ContactPerson: req.ContactPerson,
		ContactPhone:  req.ContactPhone,
	}

	seen := make(map[string]bool, len(req.Slots))
	for _, label := range req.Slots {
		label = strings.TrimSpace(label)
		if label == "" {
			return nil, ErrSlotLabelEmpty
		}
		if seen[label] {
			return nil, ErrSlotLabelTaken
		}
		seen[label] = true
		site.Slots = append(site.Slots, model.Slot{Label: label})
	}

	if err := s.repo.Site.Create(ctx, site); err != nil {
		if pkgerrors.IsDuplicate(err) {
			return nil, ErrSiteNameTaken
		}
		s.logger.Error("create site failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("site created", zap.String("site_id", site.SiteID), zap.Int("slots", len(site.Slots)))
	return toSiteResponse(site), nil
}

// ────────────────────── GetByID / List ──────────────────────

func (s *siteService) GetByID(ctx context.Context, id string) (*dto.SiteResponse, error) {
	site, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSiteResponse(site), nil
}

func (s *siteService) List(ctx context.Context) ([]dto.SiteResponse, error) {
	sites, err := s.repo.Site.List(ctx)
	if err != nil {
		s.logger.Error("list sites failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SiteResponse, 0, len(sites))
	for i := range sites {
		result = append(result, *toSiteResponse(&sites[i]))
	}
	return result, nil
}

// ────────────────────── Update / Delete ──────────────────────

func (s *siteService) Update(ctx context.Context, id string, req *dto.UpdateSiteRequest) (*dto.SiteResponse, error) {
	site, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		site.Name = strings.TrimSpace(*req.Name)
	}
	if req.ContactPerson != nil {
		site.ContactPerson = *req.ContactPerson
	}
	if req.ContactPhone != nil {
		site.ContactPhone = *req.ContactPhone
	}

	if err := s.repo.Site.Update(ctx, site); err != nil {
		if pkgerrors.IsDuplicate(err) {
			return nil, ErrSiteNameTaken
		}
		s.logger.Error("update site failed", zap.String("site_id", id), zap.Error(err))
		return nil, err
	}
	return toSiteResponse(site), nil
}

// Delete removes the site and its slots; saved assignments are kept for reporting.
func (s *siteService) Delete(ctx context.Context, id string) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Site.Delete(ctx, id); err != nil {
		s.logger.Error("delete site failed", zap.String("site_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("site deleted", zap.String("site_id", id))
	return nil
}

// ────────────────────── Slots ──────────────────────

func (s *siteService) AddSlot(ctx context.Context, siteID string, req *dto.SlotRequest) (*dto.SlotResponse, error) {
	if _, err := s.load(ctx, siteID); err != nil {
		return nil, err
	}

	label := strings.TrimSpace(req.Label)
	if label == "" {
		return nil, ErrSlotLabelEmpty
	}

	slot := &model.Slot{SiteID: siteID, Label: label}
	if err := s.repo.Site.CreateSlot(ctx, slot); err != nil {
		if pkgerrors.IsDuplicate(err) {
			return nil, ErrSlotLabelTaken
		}
		s.logger.Error("create slot failed", zap.String("site_id", siteID), zap.Error(err))
		return nil, err
	}
	return &dto.SlotResponse{ID: slot.SlotID, Label: slot.Label}, nil
}

func (s *siteService) RenameSlot(ctx context.Context, siteID, slotID string, req *dto.SlotRequest) (*dto.SlotResponse, error) {
	slot, err := s.loadSlot(ctx, siteID, slotID)
	if err != nil {
		return nil, err
	}

	label := strings.TrimSpace(req.Label)
	if label == "" {
		return nil, ErrSlotLabelEmpty
	}
	slot.Label = label

	if err := s.repo.Site.UpdateSlot(ctx, slot); err != nil {
		if pkgerrors.IsDuplicate(err) {
			return nil, ErrSlotLabelTaken
		}
		s.logger.Error("rename slot failed", zap.String("slot_id", slotID), zap.Error(err))
		return nil, err
	}
	return &dto.SlotResponse{ID: slot.SlotID, Label: slot.Label}, nil
}

func (s *siteService) DeleteSlot(ctx context.Context, siteID, slotID string) error {
	if _, err := s.loadSlot(ctx, siteID, slotID); err != nil {
		return err
	}
	if err := s.repo.Site.DeleteSlot(ctx, siteID, slotID); err != nil {
		s.logger.Error("delete slot failed", zap.String("slot_id", slotID), zap.Error(err))
		return err
	}
	return nil
}

// ── helpers ──

func (s *siteService) load(ctx context.Context, id string) (*model.Site, error) {
	return loadSite(ctx, s.repo, s.logger, id)
}

func (s *siteService) loadSlot(ctx context.Context, siteID, slotID string) (*model.Slot, error) {
	slot, err := s.repo.Site.GetSlot(ctx, siteID, slotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		s.logger.Error("get slot failed", zap.String("slot_id", slotID), zap.Error(err))
		return nil, err
	}
	return slot, nil
}

// loadSite maps a missing site to ErrSiteNotFound; shared by the plan services.
func loadSite(ctx context.Context, repo *repository.Repository, logger *zap.Logger, id string) (*model.Site, error) {
	site, err := repo.Site.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSiteNotFound
		}
		logger.Error("get site failed", zap.String("site_id", id), zap.Error(err))
		return nil, err
	}
	sortSlots(site.Slots)
	return site, nil
}

func toSiteResponse(site *model.Site) *dto.SiteResponse {
	slots := append([]model.Slot(nil), site.Slots...)
	sortSlots(slots)
	return &dto.SiteResponse{
		ID:            site.SiteID,
		Name:          site.Name,
		ContactPerson: site.ContactPerson,
		ContactPhone:  site.ContactPhone,
		Slots:         toSlotResponses(slots),
	}
}

func toSlotResponses(slots []model.Slot) []dto.SlotResponse {
	result := make([]dto.SlotResponse, 0, len(slots))
	for _, sl := range slots {
		result = append(result, dto.SlotResponse{ID: sl.SlotID, Label: sl.Label})
	}
	return result
}
