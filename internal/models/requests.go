package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SocialAccountInput is one social account in a creator profile request
type SocialAccountInput struct {
	Platform       string  `json:"platform" binding:"required"`
	Handle         string  `json:"handle"`
	FollowerCount  int64   `json:"follower_count" binding:"min=0"`
	EngagementRate float64 `json:"engagement_rate" binding:"min=0"`
}

// CreatorProfileRequest creates or replaces a creator profile
type CreatorProfileRequest struct {
	DisplayName        string               `json:"display_name" binding:"required,min=2,max=120"`
	Bio                string               `json:"bio"`
	PrimaryTradeID     uuid.UUID            `json:"primary_trade_id" binding:"required"`
	AdditionalTradeIDs []uuid.UUID          `json:"additional_trade_ids"`
	SocialAccounts     []SocialAccountInput `json:"social_accounts"`
	City               string               `json:"city"`
	Region             string               `json:"region"`
	Country            string               `json:"country"`
	AvatarKey          *string              `json:"avatar_key"`
}

// BrandProfileRequest creates or replaces a brand profile
type BrandProfileRequest struct {
	CompanyName  string  `json:"company_name" binding:"required,min=2,max=255"`
	Website      string  `json:"website"`
	Industry     string  `json:"industry"`
	ContactEmail string  `json:"contact_email"`
	LogoKey      *string `json:"logo_key"`
}

// TargetingInput is one targeting row of a brief request
type TargetingInput struct {
	TradeID       *uuid.UUID `json:"trade_id"`
	Platforms     []string   `json:"platforms"`
	MinFollowers  *int64     `json:"min_followers"`
	MinEngagement *float64   `json:"min_engagement"`
	Location      *string    `json:"location"`
}

// CreateBriefRequest is the body of POST /api/brief
type CreateBriefRequest struct {
	Title               string           `json:"title" binding:"required,max=255"`
	Description         string           `json:"description"`
	Deliverables        []string         `json:"deliverables"`
	Budget              decimal.Decimal  `json:"budget"`
	Type                BriefType        `json:"type" binding:"required"`
	NumCreatorsRequired int              `json:"num_creators_required"`
	Deadline            *time.Time       `json:"deadline"`
	Targeting           []TargetingInput `json:"targeting"`
}

// ApplyRequest is the body of POST /api/briefs/:id/apply
type ApplyRequest struct {
	Pitch string `json:"pitch" binding:"max=5000"`
}

// TransitionRequest is the body of PATCH /api/application/:id
type TransitionRequest struct {
	Status ApplicationStatus `json:"status" binding:"required"`
}

// CheckoutRequest is the body of POST /api/checkout
type CheckoutRequest struct {
	Tier Tier `json:"tier" binding:"required"`
}

// CreateTradeRequest is the body of POST /api/admin/trades
type CreateTradeRequest struct {
	Name string `json:"name" binding:"required,max=100"`
	Slug string `json:"slug" binding:"max=100"`
}

// PresignRequest is the body of POST /api/uploads/presign
type PresignRequest struct {
	Kind        string `json:"kind" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// CreatorSearchFilter holds the brand-side creator search criteria
type CreatorSearchFilter struct {
	Keyword       string
	TradeID       *uuid.UUID
	Platforms     []string
	MinFollowers  *int64
	MaxFollowers  *int64
	MinEngagement *float64
	MaxEngagement *float64
	Location      string
	Page          int
	PageSize      int
}
