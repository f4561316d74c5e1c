package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Supported social platforms
const (
	PlatformInstagram = "instagram"
	PlatformTikTok    = "tiktok"
	PlatformYouTube   = "youtube"
	PlatformFacebook  = "facebook"
	PlatformLinkedIn  = "linkedin"
	PlatformX         = "x"
)

var Platforms = []string{
	PlatformInstagram,
	PlatformTikTok,
	PlatformYouTube,
	PlatformFacebook,
	PlatformLinkedIn,
	PlatformX,
}

// IsPlatform reports whether p is a supported platform name
func IsPlatform(p string) bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}

// CreatorProfile represents a creator (tradesperson with a social audience)
type CreatorProfile struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	DisplayName      string          `gorm:"size:120;not null;index" json:"display_name"`
	Bio              string          `gorm:"type:text" json:"bio"`
	PrimaryTradeID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"primary_trade_id"`
	PrimaryTrade     *Trade          `gorm:"foreignKey:PrimaryTradeID" json:"primary_trade,omitempty"`
	AdditionalTrades []Trade         `gorm:"many2many:creator_trades;joinForeignKey:CreatorID;joinReferences:TradeID" json:"additional_trades"`
	SocialAccounts   []SocialAccount `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE" json:"social_accounts"`
	City             string          `gorm:"size:120" json:"city"`
	Region           string          `gorm:"size:120" json:"region"`
	Country          string          `gorm:"size:120" json:"country"`
	AvatarKey        *string         `gorm:"size:500" json:"avatar_key,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (CreatorProfile) TableName() string {
	return "creator_profiles"
}

func (c *CreatorProfile) BeforeCreate(*gorm.DB) error {
	assignID(&c.ID)
	return nil
}

// TradeIDs returns the primary trade followed by the additional trades
func (c *CreatorProfile) TradeIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c.AdditionalTrades)+1)
	ids = append(ids, c.PrimaryTradeID)
	for _, t := range c.AdditionalTrades {
		if t.ID != c.PrimaryTradeID {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// SocialAccount is one platform presence of a creator
type SocialAccount struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatorID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_social_creator_platform" json:"creator_id"`
	Platform       string    `gorm:"size:30;not null;uniqueIndex:idx_social_creator_platform;index" json:"platform"`
	Handle         string    `gorm:"size:255" json:"handle"`
	FollowerCount  int64     `gorm:"not null;default:0" json:"follower_count"`
	EngagementRate float64   `gorm:"not null;default:0" json:"engagement_rate"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (SocialAccount) TableName() string {
	return "social_accounts"
}

func (s *SocialAccount) BeforeCreate(*gorm.DB) error {
	assignID(&s.ID)
	return nil
}

// CreatorTrade is the join row between creators and their additional trades
type CreatorTrade struct {
	CreatorID uuid.UUID `gorm:"type:uuid;primaryKey"`
	TradeID   uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

func (CreatorTrade) TableName() string {
	return "creator_trades"
}
