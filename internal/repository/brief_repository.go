package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"creator-marketplace/internal/models"
)

// CreateBrief inserts a brief together with its targeting rows
func (r *Repository) CreateBrief(ctx context.Context, brief *models.Brief) error {
	return r.db.WithContext(ctx).Omit("Brand").Create(brief).Error
}

// GetBrief retrieves a brief with its targeting rows
func (r *Repository) GetBrief(ctx context.Context, id uuid.UUID) (*models.Brief, error) {
	var brief models.Brief
	err := r.db.WithContext(ctx).Preload("Targeting").Where("id = ?", id).First(&brief).Error
	if err != nil {
		return nil, err
	}
	return &brief, nil
}

// ListOpenBriefs retrieves open briefs whose deadline has not passed at now
func (r *Repository) ListOpenBriefs(ctx context.Context, now time.Time) ([]models.Brief, error) {
	var briefs []models.Brief
	err := r.db.WithContext(ctx).
		Preload("Targeting").
		Preload("Brand").
		Where("status = ? AND (deadline IS NULL OR deadline >= ?)", models.BriefStatusOpen, now).
		Order("created_at DESC").
		Order("id ASC").
		Find(&briefs).Error
	if err != nil {
		return nil, err
	}
	return briefs, nil
}

// ListBrandBriefs retrieves all briefs of a brand, newest first
func (r *Repository) ListBrandBriefs(ctx context.Context, brandID uuid.UUID) ([]models.Brief, error) {
	var briefs []models.Brief
	err := r.db.WithContext(ctx).
		Preload("Targeting").
		Where("brand_id = ?", brandID).
		Order("created_at DESC").
		Find(&briefs).Error
	if err != nil {
		return nil, err
	}
	return briefs, nil
}

// ListUnnotifiedBriefs retrieves open, unexpired briefs nobody has been told about yet
func (r *Repository) ListUnnotifiedBriefs(ctx context.Context, now time.Time, limit int) ([]models.Brief, error) {
	var briefs []models.Brief
	err := r.db.WithContext(ctx).
		Preload("Targeting").
		Preload("Brand").
		Where("match_notified_at IS NULL AND status = ? AND (deadline IS NULL OR deadline >= ?)", models.BriefStatusOpen, now).
		Order("created_at ASC").
		Limit(limit).
		Find(&briefs).Error
	if err != nil {
		return nil, err
	}
	return briefs, nil
}

// MarkBriefNotified records that match emails went out for a brief
func (r *Repository) MarkBriefNotified(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Brief{}).
		Where("id = ?", id).
		Update("match_notified_at", at).Error
}

// FillSlot counts one accepted creator against an open brief in a single
// guarded statement. Standard briefs complete immediately; multi-creator briefs
// become full when the last slot is taken. It reports false when the brief was
// no longer open or had no free slot.
func (r *Repository) FillSlot(ctx context.Context, brief *models.Brief) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.Brief{}).Where("id = ? AND status = ?", brief.ID, models.BriefStatusOpen)

	var updates map[string]interface{}
	switch brief.Type {
	case models.BriefTypeMultiCreator:
		q = q.Where("slots_filled < num_creators_required")
		updates = map[string]interface{}{
			"slots_filled": gorm.Expr("slots_filled + 1"),
			"status": gorm.Expr(
				"CASE WHEN slots_filled + 1 >= num_creators_required THEN ? ELSE status END",
				models.BriefStatusFull,
			),
		}
	default:
		updates = map[string]interface{}{
			"slots_filled": gorm.Expr("slots_filled + 1"),
			"status":       models.BriefStatusCompleted,
		}
	}

	res := q.Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
