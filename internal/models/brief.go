package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BriefType string

const (
	BriefTypeStandard     BriefType = "standard"
	BriefTypeMultiCreator BriefType = "multi_creator"
)

// Valid reports whether t is a known brief type
func (t BriefType) Valid() bool {
	return t == BriefTypeStandard || t == BriefTypeMultiCreator
}

type BriefStatus string

const (
	BriefStatusOpen      BriefStatus = "open"
	BriefStatusFull      BriefStatus = "full"
	BriefStatusCompleted BriefStatus = "completed"
)

// Brief represents a campaign posted by a brand.
// SlotsFilled never exceeds NumCreatorsRequired for multi-creator briefs.
type Brief struct {
	ID                  uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	BrandID             uuid.UUID                   `gorm:"type:uuid;not null;index" json:"brand_id"`
	Brand               *BrandProfile               `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
	Title               string                      `gorm:"size:255;not null" json:"title"`
	Description         string                      `gorm:"type:text" json:"description"`
	Deliverables        datatypes.JSONSlice[string] `json:"deliverables"`
	Budget              decimal.Decimal             `gorm:"type:decimal(12,2);not null;default:0" json:"budget"`
	Type                BriefType                   `gorm:"size:20;not null;index" json:"type"`
	Status              BriefStatus                 `gorm:"size:20;not null;default:open;index" json:"status"`
	NumCreatorsRequired int                         `gorm:"not null;default:1" json:"num_creators_required"`
	SlotsFilled         int                         `gorm:"not null;default:0" json:"slots_filled"`
	Deadline            *time.Time                  `gorm:"index" json:"deadline,omitempty"`
	MatchNotifiedAt     *time.Time                  `gorm:"index" json:"-"`
	Targeting           []BriefTargeting            `gorm:"foreignKey:BriefID;constraint:OnDelete:CASCADE" json:"targeting"`
	CreatedAt           time.Time                   `json:"created_at"`
	UpdatedAt           time.Time                   `json:"updated_at"`
}

func (Brief) TableName() string {
	return "briefs"
}

func (b *Brief) BeforeCreate(*gorm.DB) error {
	assignID(&b.ID)
	return nil
}

// Expired reports whether the deadline has passed at now
func (b *Brief) Expired(now time.Time) bool {
	return b.Deadline != nil && b.Deadline.Before(now)
}

// AcceptsApplications reports whether creators may still apply
func (b *Brief) AcceptsApplications(now time.Time) bool {
	return b.Status == BriefStatusOpen && !b.Expired(now)
}

// BriefTargeting is one disjunct of a brief's eligibility criteria.
// Nil fields are unconstrained; Platforms is comma-joined.
type BriefTargeting struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	BriefID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"brief_id"`
	TradeID       *uuid.UUID `gorm:"type:uuid;index" json:"trade_id,omitempty"`
	Platforms     string     `gorm:"size:255" json:"platforms,omitempty"`
	MinFollowers  *int64     `json:"min_followers,omitempty"`
	MinEngagement *float64   `json:"min_engagement,omitempty"`
	Location      *string    `gorm:"size:255" json:"location,omitempty"`
}

func (BriefTargeting) TableName() string {
	return "brief_targeting"
}

func (t *BriefTargeting) BeforeCreate(*gorm.DB) error {
	assignID(&t.ID)
	return nil
}
