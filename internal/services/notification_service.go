package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"creator-marketplace/internal/email"
	"creator-marketplace/internal/matching"
	"creator-marketplace/internal/models"
	"creator-marketplace/internal/repository"
)

const (
	matchBatchSize = 200
	matchBriefs    = 50
)

// NotificationService renders and sends transactional email. Delivery is best
// effort: failures are logged and never surface to the caller.
type NotificationService struct {
	repo   *repository.Repository
	sender email.Sender
	appURL string
	logger *slog.Logger
	now    func() time.Time
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(repo *repository.Repository, sender email.Sender, appURL string, logger *slog.Logger) *NotificationService {
	return &NotificationService{
		repo:   repo,
		sender: sender,
		appURL: strings.TrimRight(appURL, "/"),
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *NotificationService) send(ctx context.Context, to string, kind email.Kind, data map[string]interface{}) bool {
	if to == "" {
		s.logger.Warn("email skipped, no recipient", "kind", kind)
		return false
	}
	subject, body, err := email.Render(kind, data)
	if err != nil {
		s.logger.Error("render email", "kind", kind, "error", err)
		return false
	}
	if err := s.sender.Send(ctx, to, subject, body); err != nil {
		s.logger.Error("send email", "kind", kind, "to", to, "error", err)
		return false
	}
	return true
}

func (s *NotificationService) emailOf(ctx context.Context, userID uuid.UUID) string {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		s.logger.Warn("recipient lookup failed", "user_id", userID, "error", err)
		return ""
	}
	return profile.Email
}

func brandName(b *models.Brief) string {
	if b.Brand != nil {
		return b.Brand.CompanyName
	}
	return "A brand"
}

// BriefMatch tells a creator about a brief they are eligible for
func (s *NotificationService) BriefMatch(ctx context.Context, creator *models.CreatorProfile, brief *models.Brief) bool {
	data := map[string]interface{}{
		"name":   creator.DisplayName,
		"title":  brief.Title,
		"brand":  brandName(brief),
		"budget": budgetString(brief.Budget),
		"url":    fmt.Sprintf("%s/briefs/%s", s.appURL, brief.ID),
	}
	if brief.Deadline != nil {
		data["deadline"] = brief.Deadline.Format("2 Jan 2006")
	}
	return s.send(ctx, s.emailOf(ctx, creator.UserID), email.KindBriefMatch, data)
}

// ApplicationDecided tells a creator their application was accepted or rejected
func (s *NotificationService) ApplicationDecided(ctx context.Context, app *models.Application, brief *models.Brief) {
	creator, err := s.repo.GetCreator(ctx, app.CreatorID)
	if err != nil {
		s.logger.Warn("creator lookup failed", "creator_id", app.CreatorID, "error", err)
		return
	}
	if brief.Brand == nil {
		if brand, err := s.repo.GetBrand(ctx, brief.BrandID); err == nil {
			brief.Brand = brand
		}
	}

	kind := email.KindApplicationRejected
	if app.Status == models.ApplicationAccepted {
		kind = email.KindApplicationAccepted
	}
	s.send(ctx, s.emailOf(ctx, creator.UserID), kind, map[string]interface{}{
		"name":  creator.DisplayName,
		"title": brief.Title,
		"brand": brandName(brief),
		"url":   s.appURL + "/applications",
	})
}

// SubscriptionConfirmed tells a brand its subscription is active
func (s *NotificationService) SubscriptionConfirmed(ctx context.Context, brand *models.BrandProfile, sub *models.Subscription) {
	to := brand.ContactEmail
	if to == "" {
		to = s.emailOf(ctx, brand.UserID)
	}
	s.send(ctx, to, email.KindSubscriptionConfirmed, map[string]interface{}{
		"company": brand.CompanyName,
		"tier":    string(sub.Tier),
		"credits": sub.CampaignCredits,
		"url":     s.appURL + "/brand/briefs/new",
	})
}

// NotifyNewBriefs emails every eligible creator about open briefs nobody has
// been told about yet, then marks those briefs notified. It returns the number
// of emails sent.
func (s *NotificationService) NotifyNewBriefs(ctx context.Context) (int, error) {
	now := s.now()
	briefs, err := s.repo.ListUnnotifiedBriefs(ctx, now, matchBriefs)
	if err != nil {
		return 0, upstream("list unnotified briefs", err)
	}
	if len(briefs) == 0 {
		return 0, nil
	}

	rules := make([][]matching.Rule, len(briefs))
	for i := range briefs {
		rules[i] = matching.RulesFor(&briefs[i])
	}

	sent := 0
	err = s.repo.EachCreator(ctx, matchBatchSize, func(creators []models.CreatorProfile) error {
		for i := range creators {
			signals := matching.SignalsFor(&creators[i])
			for j := range briefs {
				if err := ctx.Err(); err != nil {
					return err
				}
				if matching.Matches(signals, rules[j]) && s.BriefMatch(ctx, &creators[i], &briefs[j]) {
					sent++
				}
			}
		}
		return nil
	})
	if err != nil {
		return sent, upstream("scan creators", err)
	}

	for i := range briefs {
		if err := s.repo.MarkBriefNotified(ctx, briefs[i].ID, now); err != nil {
			return sent, upstream("mark brief notified", err)
		}
	}
	s.logger.Info("brief match notifications sent", "briefs", len(briefs), "emails", sent)
	return sent, nil
}
