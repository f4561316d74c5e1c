package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"creator-marketplace/internal/models"
)

// CreateApplication inserts an application
func (r *Repository) CreateApplication(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Omit("Brief", "Creator").Create(app).Error
}

// GetApplication retrieves an application with its brief
func (r *Repository) GetApplication(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).Preload("Brief").Where("id = ?", id).First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// ApplicationExists reports whether a creator already applied to a brief
func (r *Repository) ApplicationExists(ctx context.Context, briefID, creatorID uuid.UUID) (bool, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Select("id").
		Where("brief_id = ? AND creator_id = ?", briefID, creatorID).
		First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// DecideApplication moves a pending application to status.
// It reports false when the application was no longer pending.
func (r *Repository) DecideApplication(ctx context.Context, id uuid.UUID, status models.ApplicationStatus, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ? AND status = ?", id, models.ApplicationPending).
		Updates(map[string]interface{}{
			"status":     status,
			"decided_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ListBriefApplications retrieves the applications of a brief with creator profiles
func (r *Repository) ListBriefApplications(ctx context.Context, briefID uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Creator.SocialAccounts").
		Where("brief_id = ?", briefID).
		Order("created_at ASC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

// ListCreatorApplications retrieves a creator's applications with their briefs
func (r *Repository) ListCreatorApplications(ctx context.Context, creatorID uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.WithContext(ctx).
		Preload("Brief").
		Where("creator_id = ?", creatorID).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}
