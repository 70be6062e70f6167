package repository

import (
	"errors"
	"time"

	"bizz_marketplace/internal/domain/ledger/model"
	offerModel "bizz_marketplace/internal/domain/offer/model"

	"gorm.io/gorm"
)

// ErrNothingRedeemed is returned when the conditional redeem update matched
// zero rows: the code was already consumed by a concurrent scan (or the row
// vanished between the read and the write).
var ErrNothingRedeemed = errors.New("redemption already consumed")

// LedgerRepository handles participation and redemption persistence. Every
// multi-record mutation runs in a single transaction so readers never see a
// half-applied join or redeem.
type LedgerRepository interface {
	GetParticipation(offerID, influencerID string) (*model.Participation, error)
	GetRedemption(id string) (*model.Redemption, error)
	CreateJoin(p *model.Participation, r *model.Redemption) error
	RecreateRedemption(r *model.Redemption) error
	Redeem(redemptionID string, now time.Time) error
	ListByInfluencer(influencerID string, offset, limit int) ([]model.Participation, int64, error)
}

type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new repository instance.
func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) GetParticipation(offerID, influencerID string) (*model.Participation, error) {
	var p model.Participation
	if err := r.db.Where("offer_id = ? AND influencer_id = ?", offerID, influencerID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ledgerRepository) GetRedemption(id string) (*model.Redemption, error) {
	var red model.Redemption
	if err := r.db.Where("id = ?", id).First(&red).Error; err != nil {
		return nil, err
	}
	return &red, nil
}

// CreateJoin applies the three writes of a join as one atomic unit: insert
// the Participation, insert its paired Redemption, bump the offer's
// participant counter. A duplicate-key error from the composite unique index
// surfaces as gorm.ErrDuplicatedKey and the whole unit rolls back.
func (r *ledgerRepository) CreateJoin(p *model.Participation, red *model.Redemption) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		if err := tx.Create(red).Error; err != nil {
			return err
		}
		return bumpParticipantCount(tx, p.OfferID)
	})
}

// bumpParticipantCount increments the offer's participant counter in the
// joining transaction. Zero matched rows means the offer vanished and the
// join must roll back.
func bumpParticipantCount(tx *gorm.DB, offerID string) error {
	result := tx.Model(&offerModel.Offer{}).
		Where("id = ?", offerID).
		UpdateColumn("participant_count", gorm.Expr("participant_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RecreateRedemption re-mints a redemption row under its original ID after
// the linked row went missing. Insert-only; it can never overwrite a
// consumed redemption.
func (r *ledgerRepository) RecreateRedemption(red *model.Redemption) error {
	return r.db.Create(red).Error
}

// Redeem flips redeemed=false -> true exactly once and completes the linked
// participation in the same transaction. The redeemed=false predicate plus
// the RowsAffected check make concurrent scans yield one winner.
func (r *ledgerRepository) Redeem(redemptionID string, now time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Redemption{}).
			Where("id = ? AND redeemed = ?", redemptionID, false).
			Updates(map[string]interface{}{
				"redeemed":    true,
				"redeemed_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNothingRedeemed
		}

		return tx.Model(&model.Participation{}).
			Where("redemption_id = ?", redemptionID).
			Updates(map[string]interface{}{
				"is_completed": true,
				"completed_at": now,
			}).Error
	})
}

func (r *ledgerRepository) ListByInfluencer(influencerID string, offset, limit int) ([]model.Participation, int64, error) {
	var participations []model.Participation
	var total int64

	q := r.db.Model(&model.Participation{}).Where("influencer_id = ?", influencerID)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := q.Order("joined_at DESC").Offset(offset).Limit(limit).Find(&participations).Error; err != nil {
		return nil, 0, err
	}
	return participations, total, nil
}
