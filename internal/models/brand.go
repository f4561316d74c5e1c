package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BrandProfile represents a company posting briefs
type BrandProfile struct {
	ID           uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID     `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	CompanyName  string        `gorm:"size:255;not null" json:"company_name"`
	Website      string        `gorm:"size:500" json:"website"`
	Industry     string        `gorm:"size:120" json:"industry"`
	ContactEmail string        `gorm:"size:255" json:"contact_email"`
	LogoKey      *string       `gorm:"size:500" json:"logo_key,omitempty"`
	Subscription *Subscription `gorm:"foreignKey:BrandID" json:"subscription,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func (BrandProfile) TableName() string {
	return "brand_profiles"
}

func (b *BrandProfile) BeforeCreate(*gorm.DB) error {
	assignID(&b.ID)
	return nil
}
