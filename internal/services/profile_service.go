package services

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"creator-marketplace/internal/cache"
	"creator-marketplace/internal/models"
	"creator-marketplace/internal/repository"
)

// ProfileService owns creator and brand profiles and the trade catalogue
type ProfileService struct {
	repo   *repository.Repository
	trades *cache.TradeCache
	logger *slog.Logger
}

// NewProfileService creates a new ProfileService. trades may be nil.
func NewProfileService(repo *repository.Repository, trades *cache.TradeCache, logger *slog.Logger) *ProfileService {
	return &ProfileService{repo: repo, trades: trades, logger: logger}
}

// Me is the signed-in user's profile with whichever side profile exists
type Me struct {
	Profile *models.Profile        `json:"profile"`
	Creator *models.CreatorProfile `json:"creator,omitempty"`
	Brand   *models.BrandProfile   `json:"brand,omitempty"`
}

// Role returns the marketplace role of a user, "" when no profile exists
func (s *ProfileService) Role(ctx context.Context, userID uuid.UUID) (models.Role, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", upstream("load profile", err)
	}
	return profile.Role, nil
}

// GetMe returns the profile of the signed-in user
func (s *ProfileService) GetMe(ctx context.Context, userID uuid.UUID) (*Me, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, lookup(err, "profile")
	}

	me := &Me{Profile: profile}
	if creator, err := s.repo.GetCreatorByUser(ctx, userID); err == nil {
		me.Creator = creator
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, upstream("load creator profile", err)
	}
	if brand, err := s.repo.GetBrandByUser(ctx, userID); err == nil {
		me.Brand = brand
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, upstream("load brand profile", err)
	}
	return me, nil
}

// claimRole records role for the user inside tx. A user holds a single role.
func claimRole(ctx context.Context, tx *repository.Repository, userID uuid.UUID, email string, role models.Role) error {
	existing, err := tx.GetProfile(ctx, userID)
	switch {
	case err == nil && existing.Role != role:
		return ErrProfileExists
	case err == nil && email == "":
		email = existing.Email
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return upstream("load profile", err)
	}
	return upstream("save profile", tx.UpsertProfile(ctx, &models.Profile{ID: userID, Email: email, Role: role}))
}

// CreateCreatorProfile registers the user as a creator
func (s *ProfileService) CreateCreatorProfile(ctx context.Context, userID uuid.UUID, email string, req models.CreatorProfileRequest) (*models.CreatorProfile, error) {
	creator := &models.CreatorProfile{UserID: userID}
	if err := s.applyCreatorRequest(ctx, creator, req); err != nil {
		return nil, err
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.GetCreatorByUser(ctx, userID); err == nil {
			return ErrProfileExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return upstream("load creator profile", err)
		}
		if err := claimRole(ctx, tx, userID, email, models.RoleCreator); err != nil {
			return err
		}
		if err := tx.CreateCreator(ctx, creator); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrProfileExists
			}
			return upstream("create creator profile", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("creator profile created", "creator_id", creator.ID, "user_id", userID)
	return s.GetCreatorProfile(ctx, creator.ID)
}

// UpdateCreatorProfile replaces the user's creator profile, including trades and accounts
func (s *ProfileService) UpdateCreatorProfile(ctx context.Context, userID uuid.UUID, req models.CreatorProfileRequest) (*models.CreatorProfile, error) {
	creator, err := s.repo.GetCreatorByUser(ctx, userID)
	if err != nil {
		return nil, lookup(err, "creator profile")
	}
	if err := s.applyCreatorRequest(ctx, creator, req); err != nil {
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		return upstream("save creator profile", tx.SaveCreator(ctx, creator))
	})
	if err != nil {
		return nil, err
	}
	return s.GetCreatorProfile(ctx, creator.ID)
}

func (s *ProfileService) applyCreatorRequest(ctx context.Context, creator *models.CreatorProfile, req models.CreatorProfileRequest) error {
	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		return validation("display_name is required")
	}
	if req.PrimaryTradeID == uuid.Nil {
		return validation("primary_trade_id is required")
	}

	tradeIDs := []uuid.UUID{req.PrimaryTradeID}
	seen := map[uuid.UUID]bool{req.PrimaryTradeID: true}
	additional := make([]models.Trade, 0, len(req.AdditionalTradeIDs))
	for _, id := range req.AdditionalTradeIDs {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		tradeIDs = append(tradeIDs, id)
		additional = append(additional, models.Trade{ID: id})
	}
	count, err := s.repo.CountTrades(ctx, tradeIDs)
	if err != nil {
		return upstream("count trades", err)
	}
	if count != int64(len(tradeIDs)) {
		return validation("unknown trade id")
	}

	platforms := map[string]bool{}
	accounts := make([]models.SocialAccount, 0, len(req.SocialAccounts))
	for _, in := range req.SocialAccounts {
		platform := strings.ToLower(strings.TrimSpace(in.Platform))
		if !models.IsPlatform(platform) {
			return validation("unsupported platform %q", in.Platform)
		}
		if platforms[platform] {
			return validation("duplicate social account for %s", platform)
		}
		if in.FollowerCount < 0 || in.EngagementRate < 0 {
			return validation("follower_count and engagement_rate must not be negative")
		}
		platforms[platform] = true
		accounts = append(accounts, models.SocialAccount{
			Platform:       platform,
			Handle:         strings.TrimSpace(in.Handle),
			FollowerCount:  in.FollowerCount,
			EngagementRate: in.EngagementRate,
		})
	}

	creator.DisplayName = name
	creator.Bio = strings.TrimSpace(req.Bio)
	creator.PrimaryTradeID = req.PrimaryTradeID
	creator.PrimaryTrade = nil
	creator.AdditionalTrades = additional
	creator.SocialAccounts = accounts
	creator.City = strings.TrimSpace(req.City)
	creator.Region = strings.TrimSpace(req.Region)
	creator.Country = strings.TrimSpace(req.Country)
	creator.AvatarKey = req.AvatarKey
	return nil
}

// GetCreatorProfile retrieves a creator profile by ID
func (s *ProfileService) GetCreatorProfile(ctx context.Context, id uuid.UUID) (*models.CreatorProfile, error) {
	creator, err := s.repo.GetCreator(ctx, id)
	if err != nil {
		return nil, lookup(err, "creator profile")
	}
	return creator, nil
}

// GetCreatorByUser retrieves the creator profile owned by a user
func (s *ProfileService) GetCreatorByUser(ctx context.Context, userID uuid.UUID) (*models.CreatorProfile, error) {
	creator, err := s.repo.GetCreatorByUser(ctx, userID)
	if err != nil {
		return nil, lookup(err, "creator profile")
	}
	return creator, nil
}

// DeleteCreatorProfile removes a creator and everything hanging off it
func (s *ProfileService) DeleteCreatorProfile(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		return tx.DeleteCreator(ctx, id)
	})
	if err != nil {
		return lookup(err, "creator profile")
	}
	s.logger.Info("creator profile deleted", "creator_id", id)
	return nil
}

// CreateBrandProfile registers the user as a brand with an empty subscription
func (s *ProfileService) CreateBrandProfile(ctx context.Context, userID uuid.UUID, email string, req models.BrandProfileRequest) (*models.BrandProfile, error) {
	brand := &models.BrandProfile{UserID: userID}
	if err := applyBrandRequest(brand, req); err != nil {
		return nil, err
	}
	if brand.ContactEmail == "" {
		brand.ContactEmail = email
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.GetBrandByUser(ctx, userID); err == nil {
			return ErrProfileExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return upstream("load brand profile", err)
		}
		if err := claimRole(ctx, tx, userID, email, models.RoleBrand); err != nil {
			return err
		}
		if err := tx.CreateBrand(ctx, brand); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrProfileExists
			}
			return upstream("create brand profile", err)
		}
		return upstream("create subscription", tx.CreateSubscription(ctx, &models.Subscription{
			BrandID:         brand.ID,
			Tier:            models.TierNone,
			CampaignCredits: 0,
			Status:          models.SubscriptionInactive,
		}))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("brand profile created", "brand_id", brand.ID, "user_id", userID)
	return s.GetBrandByUser(ctx, userID)
}

// UpdateBrandProfile replaces the user's brand profile fields
func (s *ProfileService) UpdateBrandProfile(ctx context.Context, userID uuid.UUID, req models.BrandProfileRequest) (*models.BrandProfile, error) {
	brand, err := s.repo.GetBrandByUser(ctx, userID)
	if err != nil {
		return nil, lookup(err, "brand profile")
	}
	if err := applyBrandRequest(brand, req); err != nil {
		return nil, err
	}
	if err := s.repo.SaveBrand(ctx, brand); err != nil {
		return nil, upstream("save brand profile", err)
	}
	return brand, nil
}

func applyBrandRequest(brand *models.BrandProfile, req models.BrandProfileRequest) error {
	name := strings.TrimSpace(req.CompanyName)
	if name == "" {
		return validation("company_name is required")
	}
	brand.CompanyName = name
	brand.Website = strings.TrimSpace(req.Website)
	brand.Industry = strings.TrimSpace(req.Industry)
	if email := strings.TrimSpace(req.ContactEmail); email != "" {
		brand.ContactEmail = email
	}
	brand.LogoKey = req.LogoKey
	return nil
}

// GetBrandByUser retrieves the brand owned by a user, with its subscription
func (s *ProfileService) GetBrandByUser(ctx context.Context, userID uuid.UUID) (*models.BrandProfile, error) {
	brand, err := s.repo.GetBrandByUser(ctx, userID)
	if err != nil {
		return nil, lookup(err, "brand profile")
	}
	return brand, nil
}

// ListTrades returns the trade catalogue, served from the cache when warm
func (s *ProfileService) ListTrades(ctx context.Context) ([]models.Trade, error) {
	cached, err := s.trades.Get(ctx)
	if err != nil {
		s.logger.Warn("trade cache read failed", "error", err)
	}
	if cached != nil {
		return cached, nil
	}

	trades, err := s.repo.ListTrades(ctx)
	if err != nil {
		return nil, upstream("list trades", err)
	}
	if err := s.trades.Set(ctx, trades); err != nil {
		s.logger.Warn("trade cache write failed", "error", err)
	}
	return trades, nil
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// CreateTrade adds a trade to the catalogue
func (s *ProfileService) CreateTrade(ctx context.Context, req models.CreateTradeRequest) (*models.Trade, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validation("name is required")
	}
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = name
	}
	slug = strings.Trim(slugInvalid.ReplaceAllString(strings.ToLower(slug), "-"), "-")
	if slug == "" {
		return nil, validation("slug must contain letters or digits")
	}

	trade := &models.Trade{Name: name, Slug: slug}
	if err := s.repo.CreateTrade(ctx, trade); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, validation("trade %q already exists", slug)
		}
		return nil, upstream("create trade", err)
	}
	if err := s.trades.Invalidate(ctx); err != nil {
		s.logger.Warn("trade cache invalidation failed", "error", err)
	}
	return trade, nil
}
