package model

import (
	"encoding/json"

	baseModel "bizz_marketplace/pkg/model"
)

// Marketplace roles.
const (
	RoleBusiness   = "business"
	RoleInfluencer = "influencer"
)

// User is either a business ("bizz") or an influencer account. Both sides
// share one table; role-specific fields are simply empty for the other side.
type User struct {
	baseModel.BaseModel
	Email       string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password    string `gorm:"type:varchar(255);not null" json:"-"` // bcrypt hash, never serialized
	Role        string `gorm:"type:varchar(20);not null;index" json:"role"`
	DisplayName string `gorm:"type:varchar(120);not null" json:"displayName"`
	AvatarURL   string `gorm:"type:varchar(512)" json:"avatarUrl"`

	// Business-side profile
	BusinessName    string `gorm:"type:varchar(120)" json:"businessName,omitempty"`
	BusinessAddress string `gorm:"type:varchar(255)" json:"businessAddress,omitempty"`

	// Influencer-side profile
	Handle    string          `gorm:"type:varchar(64)" json:"handle,omitempty"`
	Platforms json.RawMessage `gorm:"type:jsonb" json:"platforms,omitempty"` // e.g. ["instagram","youtube"]
	Bio       string          `gorm:"type:text" json:"bio,omitempty"`
}

// IsBusiness reports whether the account is on the business side.
func (u *User) IsBusiness() bool {
	return u.Role == RoleBusiness
}
