package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Tier string

const (
	TierNone Tier = "none"
	Tier1    Tier = "tier1"
	Tier2    Tier = "tier2"
	Tier3    Tier = "tier3"
)

// Valid reports whether t is a purchasable tier
func (t Tier) Valid() bool {
	switch t {
	case Tier1, Tier2, Tier3:
		return true
	}
	return false
}

// Subscription status values mirror the payment provider's
const (
	SubscriptionInactive = "inactive"
	SubscriptionActive   = "active"
	SubscriptionCanceled = "canceled"
)

// Subscription is one-to-one with a brand and holds its campaign credit balance
type Subscription struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	BrandID              uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"brand_id"`
	Tier                 Tier       `gorm:"size:20;not null;default:none" json:"tier"`
	CampaignCredits      int        `gorm:"not null;default:0" json:"campaign_credits"`
	Status               string     `gorm:"size:30;not null;default:inactive" json:"status"`
	StripeCustomerID     *string    `gorm:"size:255;index" json:"-"`
	StripeSubscriptionID *string    `gorm:"size:255;uniqueIndex" json:"-"`
	PriceID              *string    `gorm:"size:255" json:"price_id,omitempty"`
	CurrentPeriodEnd     *time.Time `json:"current_period_end,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

func (s *Subscription) BeforeCreate(*gorm.DB) error {
	assignID(&s.ID)
	return nil
}
