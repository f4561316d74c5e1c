package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"creator-marketplace/internal/events"
	"creator-marketplace/internal/matching"
	"creator-marketplace/internal/models"
	"creator-marketplace/internal/repository"
)

// ApplicationService drives the application state machine:
// pending -> accepted | rejected, both terminal.
type ApplicationService struct {
	repo      *repository.Repository
	notifier  *NotificationService
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewApplicationService creates a new ApplicationService
func NewApplicationService(repo *repository.Repository, notifier *NotificationService, publisher events.Publisher, logger *slog.Logger) *ApplicationService {
	return &ApplicationService{
		repo:      repo,
		notifier:  notifier,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Apply records the user's creator profile as a pending applicant to a brief
func (s *ApplicationService) Apply(ctx context.Context, userID, briefID uuid.UUID, pitch string) (*models.Application, error) {
	creator, err := s.repo.GetCreatorByUser(ctx, userID)
	if err != nil {
		return nil, lookup(err, "creator profile")
	}
	brief, err := s.repo.GetBrief(ctx, briefID)
	if err != nil {
		return nil, lookup(err, "brief")
	}
	if !brief.AcceptsApplications(s.now()) {
		return nil, ErrBriefNotOpen
	}
	if !matching.Eligible(creator, brief) {
		return nil, ErrNotEligible
	}

	exists, err := s.repo.ApplicationExists(ctx, brief.ID, creator.ID)
	if err != nil {
		return nil, upstream("check application", err)
	}
	if exists {
		return nil, ErrDuplicateApplication
	}

	app := &models.Application{
		BriefID:   brief.ID,
		CreatorID: creator.ID,
		Pitch:     strings.TrimSpace(pitch),
		Status:    models.ApplicationPending,
	}
	if err := s.repo.CreateApplication(ctx, app); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateApplication
		}
		return nil, upstream("create application", err)
	}

	s.logger.Info("application created", "application_id", app.ID, "brief_id", brief.ID, "creator_id", creator.ID)
	events.Emit(ctx, s.logger, s.publisher, events.ApplicationCreated, brief.ID.String(), map[string]interface{}{
		"application_id": app.ID,
		"brief_id":       brief.ID,
		"creator_id":     creator.ID,
	})
	return app, nil
}

// ListBriefApplications returns the applicants of a brief to its brand
func (s *ApplicationService) ListBriefApplications(ctx context.Context, actor Actor, briefID uuid.UUID) ([]models.Application, error) {
	brief, err := s.repo.GetBrief(ctx, briefID)
	if err != nil {
		return nil, lookup(err, "brief")
	}
	if err := s.authorizeBrand(ctx, actor, brief); err != nil {
		return nil, err
	}
	apps, err := s.repo.ListBriefApplications(ctx, brief.ID)
	if err != nil {
		return nil, upstream("list applications", err)
	}
	return apps, nil
}

// ListCreatorApplications returns the user's own applications
func (s *ApplicationService) ListCreatorApplications(ctx context.Context, userID uuid.UUID) ([]models.Application, error) {
	creator, err := s.repo.GetCreatorByUser(ctx, userID)
	if err != nil {
		return nil, lookup(err, "creator profile")
	}
	apps, err := s.repo.ListCreatorApplications(ctx, creator.ID)
	if err != nil {
		return nil, upstream("list applications", err)
	}
	return apps, nil
}

// Transition decides a pending application. Accepting fills one slot of the
// brief; the application update and the slot fill commit together or not at all.
func (s *ApplicationService) Transition(ctx context.Context, actor Actor, appID uuid.UUID, status models.ApplicationStatus) (*models.Application, error) {
	if !status.Terminal() {
		return nil, validation("status must be %s or %s", models.ApplicationAccepted, models.ApplicationRejected)
	}

	app, err := s.repo.GetApplication(ctx, appID)
	if err != nil {
		return nil, lookup(err, "application")
	}
	brief := app.Brief
	if brief == nil {
		return nil, lookup(gorm.ErrRecordNotFound, "brief")
	}
	if err := s.requireOwner(ctx, actor.UserID, brief); err != nil {
		return nil, err
	}
	if app.Status != models.ApplicationPending {
		return nil, ErrInvalidTransition
	}

	decidedAt := s.now()
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		ok, err := tx.DecideApplication(ctx, app.ID, status, decidedAt)
		if err != nil {
			return upstream("decide application", err)
		}
		if !ok {
			return ErrInvalidTransition
		}
		if status != models.ApplicationAccepted {
			return nil
		}
		ok, err = tx.FillSlot(ctx, brief)
		if err != nil {
			return upstream("fill brief slot", err)
		}
		if !ok {
			return ErrBriefNotOpen
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	app.Status = status
	app.DecidedAt = &decidedAt
	if fresh, err := s.repo.GetBrief(ctx, brief.ID); err == nil {
		app.Brief = fresh
		brief = fresh
	}

	s.logger.Info("application decided", "application_id", app.ID, "brief_id", brief.ID, "status", status)
	eventType := events.ApplicationRejected
	if status == models.ApplicationAccepted {
		eventType = events.ApplicationAccepted
	}
	events.Emit(ctx, s.logger, s.publisher, eventType, brief.ID.String(), map[string]interface{}{
		"application_id": app.ID,
		"brief_id":       brief.ID,
		"creator_id":     app.CreatorID,
		"brief_status":   brief.Status,
		"slots_filled":   brief.SlotsFilled,
	})
	if s.notifier != nil {
		s.notifier.ApplicationDecided(ctx, app, brief)
	}
	return app, nil
}

// authorizeBrand lets moderators read any brief's applications; everyone else
// must own the brief
func (s *ApplicationService) authorizeBrand(ctx context.Context, actor Actor, brief *models.Brief) error {
	if actor.Moderator {
		return nil
	}
	return s.requireOwner(ctx, actor.UserID, brief)
}

// requireOwner checks the user's brand owns brief. Only the owner decides
// applications, moderators included.
func (s *ApplicationService) requireOwner(ctx context.Context, userID uuid.UUID, brief *models.Brief) error {
	brand, err := s.repo.GetBrandByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrForbidden
	}
	if err != nil {
		return upstream("load brand profile", err)
	}
	if brand.ID != brief.BrandID {
		return ErrForbidden
	}
	return nil
}
