package model

import (
	"time"

	baseModel "bizz_marketplace/pkg/model"
)

// Participation records one influencer's enrollment in one offer. The
// composite unique index enforces at most one enrollment per
// (offer, influencer) pair at the store level, closing the race left open
// by a check-then-insert.
type Participation struct {
	baseModel.BaseModel
	OfferID        string     `gorm:"type:uuid;not null;uniqueIndex:idx_participation_offer_influencer" json:"offerId"`
	InfluencerID   string     `gorm:"type:uuid;not null;uniqueIndex:idx_participation_offer_influencer" json:"influencerId"`
	BusinessID     string     `gorm:"type:uuid;not null;index" json:"businessId"`
	InfluencerName string     `gorm:"type:varchar(120);not null" json:"influencerName"`
	Platform       string     `gorm:"type:varchar(32);not null" json:"platform"`
	JoinedAt       time.Time  `gorm:"not null" json:"joinedAt"`
	IsCompleted    bool       `gorm:"default:false" json:"isCompleted"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	ProofSubmitted bool       `gorm:"default:false" json:"proofSubmitted"`

	// RedemptionID links to the single Redemption minted with this record.
	RedemptionID string `gorm:"type:uuid;not null;index" json:"redemptionId"`
}

// Redemption is the single-use voucher behind a QR code. Its ID is the QR
// payload's authoritative field and is shared with the owning Participation.
// Business and influencer names are denormalized for the confirmation screen.
type Redemption struct {
	ID             string     `gorm:"primaryKey;type:uuid" json:"id"`
	OfferID        string     `gorm:"type:uuid;not null;index" json:"offerId"`
	BusinessID     string     `gorm:"type:uuid;not null" json:"businessId"`
	BusinessName   string     `gorm:"type:varchar(120);not null" json:"businessName"`
	InfluencerID   string     `gorm:"type:uuid;not null;index" json:"influencerId"`
	InfluencerName string     `gorm:"type:varchar(120);not null" json:"influencerName"`
	Redeemed       bool       `gorm:"default:false" json:"redeemed"`
	CreatedAt      time.Time  `json:"createdAt"`
	RedeemedAt     *time.Time `json:"redeemedAt,omitempty"`
}
