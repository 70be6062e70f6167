package model

import (
	"encoding/json"
	"time"

	baseModel "bizz_marketplace/pkg/model"
)

// Offer is a time-bounded promotional campaign published by a business.
// The business name and address are denormalized onto the offer so browse
// and redemption screens render without a join; they are written once at
// creation and copied onto participations/redemptions at join time.
type Offer struct {
	baseModel.BaseModel
	BusinessID      string          `gorm:"type:uuid;index;not null" json:"businessId"`
	BusinessName    string          `gorm:"type:varchar(120);not null" json:"businessName"`
	BusinessAddress string          `gorm:"type:varchar(255)" json:"businessAddress"`
	Title           string          `gorm:"type:varchar(120);not null" json:"title"`
	Description     string          `gorm:"type:text" json:"description"`
	Platforms       json.RawMessage `gorm:"type:jsonb" json:"platforms"` // eligible social platforms, e.g. ["instagram","tiktok"]

	ValidUntil       time.Time `gorm:"not null;index" json:"validUntil"`
	Active           bool      `gorm:"default:true;index" json:"active"`
	ParticipantCount int       `gorm:"default:0" json:"participantCount"`
	MaxParticipants  int       `gorm:"not null" json:"maxParticipants"`
}

// IsExpired reports whether the offer has passed its validity window.
// Expiry is a property of the timestamp, independent of the Active flag,
// which only trails behind via the periodic sweep.
func (o *Offer) IsExpired(now time.Time) bool {
	return now.After(o.ValidUntil)
}
