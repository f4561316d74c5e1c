package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"creator-marketplace/internal/billing"
	"creator-marketplace/internal/config"
	"creator-marketplace/internal/events"
	"creator-marketplace/internal/models"
	"creator-marketplace/internal/repository"
)

// SubscriptionService sells tiers through the payment provider and keeps the
// credit ledger in step with its webhooks
type SubscriptionService struct {
	repo       *repository.Repository
	billing    billing.Client
	plans      config.PlanTable
	successURL string
	cancelURL  string
	notifier   *NotificationService
	publisher  events.Publisher
	logger     *slog.Logger
}

// NewSubscriptionService creates a new SubscriptionService. A nil billing
// client disables checkout and webhooks.
func NewSubscriptionService(
	repo *repository.Repository,
	billingClient billing.Client,
	plans config.PlanTable,
	stripeCfg config.StripeConfig,
	notifier *NotificationService,
	publisher events.Publisher,
	logger *slog.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		repo:       repo,
		billing:    billingClient,
		plans:      plans,
		successURL: stripeCfg.SuccessURL,
		cancelURL:  stripeCfg.CancelURL,
		notifier:   notifier,
		publisher:  publisher,
		logger:     logger,
	}
}

// CheckoutSession is returned to the brand's browser for redirect
type CheckoutSession struct {
	URL string `json:"url"`
}

// StartCheckout opens a provider checkout for the user's brand on tier
func (s *SubscriptionService) StartCheckout(ctx context.Context, userID uuid.UUID, tier models.Tier) (*CheckoutSession, error) {
	if s.billing == nil {
		return nil, ErrBillingDisabled
	}
	if !tier.Valid() {
		return nil, validation("unknown tier %q", tier)
	}
	plan := s.plans[tier]
	if plan.PriceID == "" {
		return nil, validation("tier %s is not available for purchase", tier)
	}

	brand, err := s.repo.GetBrandByUser(ctx, userID)
	if err != nil {
		return nil, lookup(err, "brand profile")
	}

	url, err := s.billing.CreateCheckoutSession(ctx, billing.CheckoutParams{
		BrandID:    brand.ID.String(),
		PriceID:    plan.PriceID,
		Email:      brand.ContactEmail,
		SuccessURL: s.successURL,
		CancelURL:  s.cancelURL,
	})
	if err != nil {
		return nil, upstream("create checkout session", err)
	}
	return &CheckoutSession{URL: url}, nil
}

// GetSubscription returns the user's brand subscription
func (s *SubscriptionService) GetSubscription(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	brand, err := s.repo.GetBrandByUser(ctx, userID)
	if err != nil {
		return nil, lookup(err, "brand profile")
	}
	sub, err := s.repo.GetSubscriptionByBrand(ctx, brand.ID)
	if err != nil {
		return nil, lookup(err, "subscription")
	}
	return sub, nil
}

// HandleWebhook verifies and applies one provider event. Events the
// marketplace does not act on are acknowledged without effect.
func (s *SubscriptionService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.billing == nil {
		return ErrBillingDisabled
	}
	evt, err := s.billing.ParseWebhook(payload, signature)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	log := s.logger.With("event_id", evt.ID, "event_type", evt.Type)
	switch {
	case evt.Type == billing.EventCheckoutCompleted && evt.Checkout != nil:
		return s.checkoutCompleted(ctx, log, evt.Checkout)
	case evt.Type == billing.EventSubscriptionUpdated && evt.Subscription != nil:
		return s.subscriptionUpdated(ctx, log, evt.Subscription)
	case evt.Type == billing.EventSubscriptionDeleted && evt.Subscription != nil:
		return s.subscriptionDeleted(ctx, log, evt.Subscription)
	default:
		log.Info("webhook event ignored")
		return nil
	}
}

func (s *SubscriptionService) checkoutCompleted(ctx context.Context, log *slog.Logger, c *billing.CheckoutCompleted) error {
	if c.SubscriptionID == "" {
		log.Warn("checkout without subscription ignored", "session_id", c.SessionID)
		return nil
	}
	brandID, err := uuid.Parse(c.BrandID)
	if err != nil {
		log.Warn("checkout without brand reference ignored", "session_id", c.SessionID)
		return nil
	}

	remote, err := s.billing.GetSubscription(ctx, c.SubscriptionID)
	if err != nil {
		return upstream("fetch subscription", err)
	}
	if remote.CustomerID == "" {
		remote.CustomerID = c.CustomerID
	}

	sub, brand, err := s.apply(ctx, log, brandID, remote, true)
	if err != nil || sub == nil {
		return err
	}
	if s.notifier != nil && sub.Status == models.SubscriptionActive {
		s.notifier.SubscriptionConfirmed(ctx, brand, sub)
	}
	return nil
}

func (s *SubscriptionService) subscriptionUpdated(ctx context.Context, log *slog.Logger, remote *billing.Subscription) error {
	brandID, ok, err := s.brandFor(ctx, remote)
	if err != nil {
		return err
	}
	if !ok {
		log.Warn("subscription for unknown brand ignored", "subscription_id", remote.ID)
		return nil
	}
	_, _, err = s.apply(ctx, log, brandID, remote, false)
	return err
}

func (s *SubscriptionService) subscriptionDeleted(ctx context.Context, log *slog.Logger, remote *billing.Subscription) error {
	brandID, ok, err := s.brandFor(ctx, remote)
	if err != nil {
		return err
	}
	if !ok {
		log.Warn("subscription for unknown brand ignored", "subscription_id", remote.ID)
		return nil
	}

	err = s.repo.SetSubscriptionStatus(ctx, brandID, models.SubscriptionCanceled)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn("deleted subscription has no local row", "brand_id", brandID)
		return nil
	}
	if err != nil {
		return upstream("cancel subscription", err)
	}
	existing, err := s.repo.GetSubscriptionByBrand(ctx, brandID)
	if err != nil {
		return upstream("load subscription", err)
	}
	log.Info("subscription canceled", "brand_id", brandID)
	s.emitChanged(ctx, existing)
	return nil
}

// brandFor resolves the brand of a provider subscription from its metadata or
// from the stored provider id
func (s *SubscriptionService) brandFor(ctx context.Context, remote *billing.Subscription) (uuid.UUID, bool, error) {
	if id, err := uuid.Parse(remote.BrandID); err == nil {
		return id, true, nil
	}
	local, err := s.repo.GetSubscriptionByStripeID(ctx, remote.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, upstream("load subscription", err)
	}
	return local.BrandID, true, nil
}

// apply maps the provider subscription onto the brand's ledger row. Credits are
// reset to the tier allotment on a purchase of a new provider subscription, a
// tier change, a renewal or a reactivation. Otherwise the balance is kept. A nil subscription
// with nil error means the event was ignored.
func (s *SubscriptionService) apply(ctx context.Context, log *slog.Logger, brandID uuid.UUID, remote *billing.Subscription, purchase bool) (*models.Subscription, *models.BrandProfile, error) {
	tier, ok := s.plans.TierForPrice(remote.PriceID)
	if !ok {
		log.Warn("subscription with unknown price ignored", "price_id", remote.PriceID, "brand_id", brandID)
		return nil, nil, nil
	}
	brand, err := s.repo.GetBrand(ctx, brandID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn("subscription for unknown brand ignored", "brand_id", brandID)
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, upstream("load brand", err)
	}

	existing, err := s.repo.GetSubscriptionByBrand(ctx, brandID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, upstream("load subscription", err)
	}

	status := ledgerStatus(remote.Status)
	sub := &models.Subscription{
		BrandID:              brandID,
		Tier:                 tier,
		Status:               status,
		StripeSubscriptionID: optional(remote.ID),
		StripeCustomerID:     optional(remote.CustomerID),
		PriceID:              optional(remote.PriceID),
		CurrentPeriodEnd:     remote.CurrentPeriodEnd,
	}
	columns := []string{"tier", "status", "stripe_subscription_id", "stripe_customer_id", "price_id", "current_period_end"}

	newPurchase := purchase && (existing == nil || existing.StripeSubscriptionID == nil || *existing.StripeSubscriptionID != remote.ID)
	if newPurchase || resetsCredits(existing, tier, status, remote.CurrentPeriodEnd) {
		sub.CampaignCredits = s.plans.Credits(tier)
		columns = append(columns, "campaign_credits")
	} else {
		sub.CampaignCredits = existing.CampaignCredits
	}

	if err := s.repo.UpsertSubscription(ctx, sub, columns...); err != nil {
		return nil, nil, upstream("save subscription", err)
	}
	log.Info("subscription applied", "brand_id", brandID, "tier", tier, "status", status, "credits", sub.CampaignCredits)
	s.emitChanged(ctx, sub)
	return sub, brand, nil
}

func resetsCredits(existing *models.Subscription, tier models.Tier, status string, periodEnd *time.Time) bool {
	switch {
	case existing == nil:
		return true
	case existing.Tier != tier:
		return true
	case existing.Status != models.SubscriptionActive && status == models.SubscriptionActive:
		return true
	case periodEnd != nil && (existing.CurrentPeriodEnd == nil || periodEnd.After(*existing.CurrentPeriodEnd)):
		return true
	}
	return false
}

// ledgerStatus folds provider statuses into the three the ledger tracks
func ledgerStatus(providerStatus string) string {
	switch providerStatus {
	case "active", "trialing":
		return models.SubscriptionActive
	case "canceled", "incomplete_expired":
		return models.SubscriptionCanceled
	default:
		return models.SubscriptionInactive
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (s *SubscriptionService) emitChanged(ctx context.Context, sub *models.Subscription) {
	events.Emit(ctx, s.logger, s.publisher, events.SubscriptionChanged, sub.BrandID.String(), map[string]interface{}{
		"brand_id":         sub.BrandID,
		"tier":             sub.Tier,
		"status":           sub.Status,
		"campaign_credits": sub.CampaignCredits,
	})
}
