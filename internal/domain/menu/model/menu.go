package model

import (
	baseModel "bizz_marketplace/pkg/model"
)

// MenuItem is one entry on a business's menu, shown to influencers next to
// the business's offers. Prices are stored in cents to avoid float drift.
type MenuItem struct {
	baseModel.BaseModel
	BusinessID  string `gorm:"type:uuid;index;not null" json:"businessId"`
	Name        string `gorm:"type:varchar(120);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"type:varchar(64);index" json:"category"`
	PriceCents  int64  `gorm:"not null" json:"priceCents"`
	ImageURL    string `gorm:"type:varchar(512)" json:"imageUrl"`
	Available   bool   `gorm:"default:true" json:"available"`
}
