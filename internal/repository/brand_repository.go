package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"creator-marketplace/internal/models"
)

// GetBrandByUser retrieves the brand owned by a user, with its subscription
func (r *Repository) GetBrandByUser(ctx context.Context, userID uuid.UUID) (*models.BrandProfile, error) {
	var brand models.BrandProfile
	err := r.db.WithContext(ctx).Preload("Subscription").Where("user_id = ?", userID).First(&brand).Error
	if err != nil {
		return nil, err
	}
	return &brand, nil
}

// GetBrand retrieves a brand by ID
func (r *Repository) GetBrand(ctx context.Context, id uuid.UUID) (*models.BrandProfile, error) {
	var brand models.BrandProfile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&brand).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

// CreateBrand creates a brand
func (r *Repository) CreateBrand(ctx context.Context, brand *models.BrandProfile) error {
	return r.db.WithContext(ctx).Omit("Subscription").Create(brand).Error
}

// SaveBrand updates a brand's columns
func (r *Repository) SaveBrand(ctx context.Context, brand *models.BrandProfile) error {
	return r.db.WithContext(ctx).Omit("Subscription").Save(brand).Error
}

// GetSubscriptionByBrand retrieves a brand's subscription
func (r *Repository) GetSubscriptionByBrand(ctx context.Context, brandID uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.WithContext(ctx).Where("brand_id = ?", brandID).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// GetSubscriptionByStripeID retrieves a subscription by provider subscription id
func (r *Repository) GetSubscriptionByStripeID(ctx context.Context, stripeID string) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.WithContext(ctx).Where("stripe_subscription_id = ?", stripeID).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// CreateSubscription inserts a subscription row
func (r *Repository) CreateSubscription(ctx context.Context, sub *models.Subscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

// UpsertSubscription writes sub keyed on brand_id, overwriting the listed columns
func (r *Repository) UpsertSubscription(ctx context.Context, sub *models.Subscription, columns ...string) error {
	columns = append(columns, "updated_at")
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "brand_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(sub).Error
}

// ConsumeCredit decrements a brand's credits by one if it has any.
// It reports false when the balance was already exhausted.
func (r *Repository) ConsumeCredit(ctx context.Context, brandID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("brand_id = ? AND campaign_credits > 0", brandID).
		Update("campaign_credits", gorm.Expr("campaign_credits - 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// SetSubscriptionStatus changes only the status of a brand's subscription
func (r *Repository) SetSubscriptionStatus(ctx context.Context, brandID uuid.UUID, status string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("brand_id = ?", brandID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
