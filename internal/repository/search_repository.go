package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"creator-marketplace/internal/models"
)

const (
	followerSumSQL = "COALESCE((SELECT SUM(sa.follower_count) FROM social_accounts sa WHERE sa.creator_id = creator_profiles.id), 0)"
	engagementSQL  = "COALESCE((SELECT AVG(sa.engagement_rate) FROM social_accounts sa WHERE sa.creator_id = creator_profiles.id), 0)"
)

// SearchCreators applies every filter in SQL before paginating, so the page
// size and total are exact. Results are ordered newest first with id as tie-break.
func (r *Repository) SearchCreators(ctx context.Context, f models.CreatorSearchFilter) ([]models.CreatorProfile, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.CreatorProfile{})

	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		pattern := likePattern(kw)
		q = q.Where(`(LOWER(creator_profiles.display_name) LIKE ? ESCAPE '\' OR LOWER(creator_profiles.bio) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	if f.TradeID != nil {
		q = q.Where(
			"(creator_profiles.primary_trade_id = ? OR EXISTS (SELECT 1 FROM creator_trades ct WHERE ct.creator_id = creator_profiles.id AND ct.trade_id = ?))",
			*f.TradeID, *f.TradeID,
		)
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		pattern := likePattern(loc)
		q = q.Where(
			`(LOWER(creator_profiles.city) LIKE ? ESCAPE '\' OR LOWER(creator_profiles.region) LIKE ? ESCAPE '\' OR LOWER(creator_profiles.country) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern,
		)
	}
	if len(f.Platforms) > 0 {
		q = q.Where(
			"EXISTS (SELECT 1 FROM social_accounts sa WHERE sa.creator_id = creator_profiles.id AND sa.platform IN ?)",
			f.Platforms,
		)
	}
	if f.MinFollowers != nil {
		q = q.Where(followerSumSQL+" >= ?", *f.MinFollowers)
	}
	if f.MaxFollowers != nil {
		q = q.Where(followerSumSQL+" <= ?", *f.MaxFollowers)
	}
	if f.MinEngagement != nil {
		q = q.Where(engagementSQL+" >= ?", *f.MinEngagement)
	}
	if f.MaxEngagement != nil {
		q = q.Where(engagementSQL+" <= ?", *f.MaxEngagement)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var creators []models.CreatorProfile
	err := q.
		Preload("PrimaryTrade").
		Preload("AdditionalTrades").
		Preload("SocialAccounts").
		Order("creator_profiles.created_at DESC").
		Order("creator_profiles.id ASC").
		Limit(f.PageSize).
		Offset((f.Page - 1) * f.PageSize).
		Find(&creators).Error
	if err != nil {
		return nil, 0, err
	}
	return creators, total, nil
}

func likePattern(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return "%" + s + "%"
}
