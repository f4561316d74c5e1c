package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"creator-marketplace/internal/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// DB exposes the underlying handle for health checks
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// Transaction runs fn with a repository bound to a single database transaction
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

// GetProfile retrieves the identity profile of a user
func (r *Repository) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpsertProfile creates the profile or updates its role and email
func (r *Repository) UpsertProfile(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "role", "updated_at"}),
	}).Create(profile).Error
}

// ListTrades retrieves all trades ordered by name
func (r *Repository) ListTrades(ctx context.Context) ([]models.Trade, error) {
	var trades []models.Trade
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&trades).Error; err != nil {
		return nil, err
	}
	return trades, nil
}

// CreateTrade creates a new trade
func (r *Repository) CreateTrade(ctx context.Context, trade *models.Trade) error {
	return r.db.WithContext(ctx).Create(trade).Error
}

// CountTrades counts how many of ids exist
func (r *Repository) CountTrades(ctx context.Context, ids []uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Trade{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}
