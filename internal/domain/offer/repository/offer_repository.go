package repository

import (
	"time"

	"bizz_marketplace/internal/domain/offer/model"

	"gorm.io/gorm"
)

// OfferRepository handles offer persistence.
type OfferRepository interface {
	Create(offer *model.Offer) error
	GetByID(id string) (*model.Offer, error)
	ListActive(offset, limit int, now time.Time) ([]model.Offer, int64, error)
	ListByBusiness(businessID string, offset, limit int) ([]model.Offer, int64, error)
	Deactivate(id string) error
	DeactivateExpired(now time.Time) (int64, error)
}

type offerRepository struct {
	db *gorm.DB
}

// NewOfferRepository creates a new repository instance.
func NewOfferRepository(db *gorm.DB) OfferRepository {
	return &offerRepository{db: db}
}

func (r *offerRepository) Create(offer *model.Offer) error {
	return r.db.Create(offer).Error
}

func (r *offerRepository) GetByID(id string) (*model.Offer, error) {
	var offer model.Offer
	if err := r.db.Where("id = ?", id).First(&offer).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

// ListActive returns offers influencers can still join: active flag set and
// validity window not yet passed.
func (r *offerRepository) ListActive(offset, limit int, now time.Time) ([]model.Offer, int64, error) {
	var offers []model.Offer
	var total int64

	q := r.db.Model(&model.Offer{}).Where("active = ? AND valid_until > ?", true, now)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&offers).Error; err != nil {
		return nil, 0, err
	}
	return offers, total, nil
}

func (r *offerRepository) ListByBusiness(businessID string, offset, limit int) ([]model.Offer, int64, error) {
	var offers []model.Offer
	var total int64

	q := r.db.Model(&model.Offer{}).Where("business_id = ?", businessID)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&offers).Error; err != nil {
		return nil, 0, err
	}
	return offers, total, nil
}

func (r *offerRepository) Deactivate(id string) error {
	result := r.db.Model(&model.Offer{}).
		Where("id = ?", id).
		UpdateColumn("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeactivateExpired flips active=false on every offer past its validity
// window. The predicate makes the sweep idempotent: a second run matches
// zero rows.
func (r *offerRepository) DeactivateExpired(now time.Time) (int64, error) {
	result := r.db.Model(&model.Offer{}).
		Where("active = ? AND valid_until < ?", true, now).
		UpdateColumn("active", false)
	return result.RowsAffected, result.Error
}
