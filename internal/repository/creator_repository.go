package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"creator-marketplace/internal/models"
)

func (r *Repository) creators(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("PrimaryTrade").
		Preload("AdditionalTrades").
		Preload("SocialAccounts")
}

// GetCreatorByUser retrieves the creator profile owned by a user
func (r *Repository) GetCreatorByUser(ctx context.Context, userID uuid.UUID) (*models.CreatorProfile, error) {
	var creator models.CreatorProfile
	if err := r.creators(ctx).Where("user_id = ?", userID).First(&creator).Error; err != nil {
		return nil, err
	}
	return &creator, nil
}

// GetCreator retrieves a creator profile by ID
func (r *Repository) GetCreator(ctx context.Context, id uuid.UUID) (*models.CreatorProfile, error) {
	var creator models.CreatorProfile
	if err := r.creators(ctx).Where("id = ?", id).First(&creator).Error; err != nil {
		return nil, err
	}
	return &creator, nil
}

// CreateCreator inserts a creator with its social accounts and additional trades
func (r *Repository) CreateCreator(ctx context.Context, creator *models.CreatorProfile) error {
	return r.db.WithContext(ctx).Omit("PrimaryTrade", "AdditionalTrades.*").Create(creator).Error
}

// SaveCreator updates creator columns and replaces its trades and social accounts
func (r *Repository) SaveCreator(ctx context.Context, creator *models.CreatorProfile) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit("PrimaryTrade", "AdditionalTrades", "SocialAccounts").Save(creator).Error; err != nil {
		return err
	}
	if err := db.Model(creator).Association("AdditionalTrades").Replace(creator.AdditionalTrades); err != nil {
		return err
	}
	if err := db.Where("creator_id = ?", creator.ID).Delete(&models.SocialAccount{}).Error; err != nil {
		return err
	}
	for i := range creator.SocialAccounts {
		creator.SocialAccounts[i].ID = uuid.Nil
		creator.SocialAccounts[i].CreatorID = creator.ID
	}
	if len(creator.SocialAccounts) == 0 {
		return nil
	}
	return db.Create(&creator.SocialAccounts).Error
}

// DeleteCreator hard-deletes a creator with its accounts, trades and applications
func (r *Repository) DeleteCreator(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("creator_id = ?", id).Delete(&models.Application{}).Error; err != nil {
		return err
	}
	if err := db.Where("creator_id = ?", id).Delete(&models.SocialAccount{}).Error; err != nil {
		return err
	}
	if err := db.Where("creator_id = ?", id).Delete(&models.CreatorTrade{}).Error; err != nil {
		return err
	}
	res := db.Where("id = ?", id).Delete(&models.CreatorProfile{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// EachCreator streams every creator, fully loaded, in primary key batches
func (r *Repository) EachCreator(ctx context.Context, batchSize int, fn func(creators []models.CreatorProfile) error) error {
	var batch []models.CreatorProfile
	return r.creators(ctx).FindInBatches(&batch, batchSize, func(_ *gorm.DB, _ int) error {
		return fn(batch)
	}).Error
}
