package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"creator-marketplace/internal/events"
	"creator-marketplace/internal/matching"
	"creator-marketplace/internal/models"
	"creator-marketplace/internal/repository"
)

// Actor is the caller of an ownership-checked operation. Moderators bypass ownership.
type Actor struct {
	UserID    uuid.UUID
	Moderator bool
}

// BriefService handles brief creation and visibility
type BriefService struct {
	repo      *repository.Repository
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewBriefService creates a new BriefService
func NewBriefService(repo *repository.Repository, publisher events.Publisher, logger *slog.Logger) *BriefService {
	return &BriefService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateBrief posts a brief for the user's brand. A multi-creator brief costs
// one campaign credit, taken in the same transaction as the insert.
func (s *BriefService) CreateBrief(ctx context.Context, userID uuid.UUID, req models.CreateBriefRequest) (*models.Brief, error) {
	brand, err := s.repo.GetBrandByUser(ctx, userID)
	if err != nil {
		return nil, lookup(err, "brand profile")
	}

	brief, err := s.buildBrief(ctx, brand.ID, req)
	if err != nil {
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if brief.Type == models.BriefTypeMultiCreator {
			ok, err := tx.ConsumeCredit(ctx, brand.ID)
			if err != nil {
				return upstream("consume credit", err)
			}
			if !ok {
				return ErrInsufficientCredits
			}
		}
		return upstream("create brief", tx.CreateBrief(ctx, brief))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("brief created", "brief_id", brief.ID, "brand_id", brand.ID, "type", brief.Type)
	events.Emit(ctx, s.logger, s.publisher, events.BriefCreated, brief.ID.String(), map[string]interface{}{
		"brief_id":              brief.ID,
		"brand_id":              brand.ID,
		"type":                  brief.Type,
		"num_creators_required": brief.NumCreatorsRequired,
	})
	return brief, nil
}

func (s *BriefService) buildBrief(ctx context.Context, brandID uuid.UUID, req models.CreateBriefRequest) (*models.Brief, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, validation("title is required")
	}
	if !req.Type.Valid() {
		return nil, validation("type must be %s or %s", models.BriefTypeStandard, models.BriefTypeMultiCreator)
	}
	if req.Budget.IsNegative() {
		return nil, validation("budget must not be negative")
	}

	required := 1
	if req.Type == models.BriefTypeMultiCreator {
		if req.NumCreatorsRequired < 2 {
			return nil, validation("num_creators_required must be at least 2 for multi_creator briefs")
		}
		required = req.NumCreatorsRequired
	}

	var deadline *time.Time
	if req.Deadline != nil {
		d := req.Deadline.UTC()
		if d.Before(s.now()) {
			return nil, validation("deadline must be in the future")
		}
		deadline = &d
	}

	targeting, err := s.buildTargeting(ctx, req.Targeting)
	if err != nil {
		return nil, err
	}

	deliverables := make([]string, 0, len(req.Deliverables))
	for _, d := range req.Deliverables {
		if d = strings.TrimSpace(d); d != "" {
			deliverables = append(deliverables, d)
		}
	}

	return &models.Brief{
		BrandID:             brandID,
		Title:               title,
		Description:         strings.TrimSpace(req.Description),
		Deliverables:        deliverables,
		Budget:              req.Budget.Round(2),
		Type:                req.Type,
		Status:              models.BriefStatusOpen,
		NumCreatorsRequired: required,
		Deadline:            deadline,
		Targeting:           targeting,
	}, nil
}

func (s *BriefService) buildTargeting(ctx context.Context, rows []models.TargetingInput) ([]models.BriefTargeting, error) {
	out := make([]models.BriefTargeting, 0, len(rows))
	var tradeIDs []uuid.UUID
	seen := map[uuid.UUID]bool{}

	for _, in := range rows {
		for _, p := range in.Platforms {
			if !models.IsPlatform(strings.ToLower(strings.TrimSpace(p))) {
				return nil, validation("unsupported platform %q", p)
			}
		}
		if in.MinFollowers != nil && *in.MinFollowers < 0 {
			return nil, validation("min_followers must not be negative")
		}
		if in.MinEngagement != nil && *in.MinEngagement < 0 {
			return nil, validation("min_engagement must not be negative")
		}

		row := models.BriefTargeting{
			TradeID:       in.TradeID,
			Platforms:     matching.JoinPlatforms(in.Platforms),
			MinFollowers:  in.MinFollowers,
			MinEngagement: in.MinEngagement,
		}
		if in.Location != nil {
			if loc := strings.TrimSpace(*in.Location); loc != "" {
				row.Location = &loc
			}
		}
		if in.TradeID != nil && !seen[*in.TradeID] {
			seen[*in.TradeID] = true
			tradeIDs = append(tradeIDs, *in.TradeID)
		}
		out = append(out, row)
	}

	if len(tradeIDs) > 0 {
		count, err := s.repo.CountTrades(ctx, tradeIDs)
		if err != nil {
			return nil, upstream("count trades", err)
		}
		if count != int64(len(tradeIDs)) {
			return nil, validation("unknown trade id in targeting")
		}
	}
	return out, nil
}

// ListBrandBriefs returns the briefs posted by the user's brand
func (s *BriefService) ListBrandBriefs(ctx context.Context, userID uuid.UUID) ([]models.Brief, error) {
	brand, err := s.repo.GetBrandByUser(ctx, userID)
	if err != nil {
		return nil, lookup(err, "brand profile")
	}
	briefs, err := s.repo.ListBrandBriefs(ctx, brand.ID)
	if err != nil {
		return nil, upstream("list brand briefs", err)
	}
	return briefs, nil
}

// ListOpenBriefs returns every open, unexpired brief
func (s *BriefService) ListOpenBriefs(ctx context.Context) ([]models.Brief, error) {
	briefs, err := s.repo.ListOpenBriefs(ctx, s.now())
	if err != nil {
		return nil, upstream("list open briefs", err)
	}
	return briefs, nil
}

// ListEligibleBriefs returns the open, unexpired briefs the user's creator profile matches
func (s *BriefService) ListEligibleBriefs(ctx context.Context, userID uuid.UUID) ([]models.Brief, error) {
	creator, err := s.repo.GetCreatorByUser(ctx, userID)
	if err != nil {
		return nil, lookup(err, "creator profile")
	}
	briefs, err := s.ListOpenBriefs(ctx)
	if err != nil {
		return nil, err
	}
	return matching.Filter(matching.SignalsFor(creator), briefs), nil
}

// GetBrief returns a brief to its brand, to a moderator, or to a creator who
// is eligible for it or has already applied
func (s *BriefService) GetBrief(ctx context.Context, actor Actor, id uuid.UUID) (*models.Brief, error) {
	brief, err := s.repo.GetBrief(ctx, id)
	if err != nil {
		return nil, lookup(err, "brief")
	}
	if actor.Moderator {
		return brief, nil
	}

	brand, err := s.repo.GetBrandByUser(ctx, actor.UserID)
	switch {
	case err == nil && brand.ID == brief.BrandID:
		return brief, nil
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, upstream("load brand profile", err)
	}

	creator, err := s.repo.GetCreatorByUser(ctx, actor.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrForbidden
	}
	if err != nil {
		return nil, upstream("load creator profile", err)
	}
	if brief.AcceptsApplications(s.now()) && matching.Eligible(creator, brief) {
		return brief, nil
	}
	applied, err := s.repo.ApplicationExists(ctx, brief.ID, creator.ID)
	if err != nil {
		return nil, upstream("check application", err)
	}
	if !applied {
		return nil, ErrForbidden
	}
	return brief, nil
}

// budgetString renders a budget for emails, "" when unset
func budgetString(b decimal.Decimal) string {
	if b.IsZero() {
		return ""
	}
	return b.StringFixed(2)
}
