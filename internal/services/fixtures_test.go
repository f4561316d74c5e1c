package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"creator-marketplace/internal/billing"
	"creator-marketplace/internal/config"
	"creator-marketplace/internal/logging"
	"creator-marketplace/internal/models"
	"creator-marketplace/internal/repository"
	"creator-marketplace/internal/testutil"
)

type sentEmail struct {
	To      string
	Subject string
	Body    string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentEmail
}

func (f *fakeSender) Send(_ context.Context, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentEmail{To: to, Subject: subject, Body: body})
	return nil
}

func (f *fakeSender) to(addr string) []sentEmail {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentEmail
	for _, e := range f.sent {
		if e.To == addr {
			out = append(out, e)
		}
	}
	return out
}

type fakePublisher struct {
	mu    sync.Mutex
	types []string
}

func (f *fakePublisher) Publish(_ context.Context, eventType string, _ []byte, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.types = append(f.types, eventType)
	return nil
}

func (f *fakePublisher) count(eventType string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.types {
		if t == eventType {
			n++
		}
	}
	return n
}

type fakeBilling struct {
	checkouts     []billing.CheckoutParams
	subscriptions map[string]*billing.Subscription
	event         *billing.Event
	parseErr      error
}

func (f *fakeBilling) CreateCheckoutSession(_ context.Context, p billing.CheckoutParams) (string, error) {
	f.checkouts = append(f.checkouts, p)
	return "https://checkout.example.com/" + p.BrandID, nil
}

func (f *fakeBilling) GetSubscription(_ context.Context, id string) (*billing.Subscription, error) {
	sub, ok := f.subscriptions[id]
	if !ok {
		return nil, billing.ErrInvalidSignature
	}
	copied := *sub
	return &copied, nil
}

func (f *fakeBilling) ParseWebhook(_ []byte, signature string) (*billing.Event, error) {
	if f.parseErr != nil {
		return nil, f.parseErr
	}
	return f.event, nil
}

type fixture struct {
	t        *testing.T
	ctx      context.Context
	db       *gorm.DB
	repo     *repository.Repository
	sender   *fakeSender
	events   *fakePublisher
	profiles *ProfileService
	briefs   *BriefService
	apps     *ApplicationService
	search   *SearchService
	notifier *NotificationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.OpenDB(t)
	repo := repository.NewRepository(db)
	logger := logging.Discard()
	sender := &fakeSender{}
	pub := &fakePublisher{}
	notifier := NewNotificationService(repo, sender, "https://app.example.com", logger)

	return &fixture{
		t:        t,
		ctx:      context.Background(),
		db:       db,
		repo:     repo,
		sender:   sender,
		events:   pub,
		profiles: NewProfileService(repo, nil, logger),
		briefs:   NewBriefService(repo, pub, logger),
		apps:     NewApplicationService(repo, notifier, pub, logger),
		search:   NewSearchService(repo),
		notifier: notifier,
	}
}

func (f *fixture) subscriptions(client billing.Client) *SubscriptionService {
	plans := config.DefaultPlans()
	for tier, id := range map[models.Tier]string{models.Tier1: "price_t1", models.Tier2: "price_t2", models.Tier3: "price_t3"} {
		p := plans[tier]
		p.PriceID = id
		plans[tier] = p
	}
	return NewSubscriptionService(f.repo, client, plans, config.StripeConfig{
		SuccessURL: "https://app.example.com/ok",
		CancelURL:  "https://app.example.com/cancel",
	}, f.notifier, f.events, logging.Discard())
}

func (f *fixture) trade(name string) models.Trade {
	f.t.Helper()
	trade, err := f.profiles.CreateTrade(f.ctx, models.CreateTradeRequest{Name: name})
	if err != nil {
		f.t.Fatalf("create trade %s: %v", name, err)
	}
	return *trade
}

type creatorSpec struct {
	name       string
	trade      uuid.UUID
	additional []uuid.UUID
	accounts   []models.SocialAccountInput
	city       string
	country    string
}

// creator registers a new user as a creator and returns the user id and profile
func (f *fixture) creator(opts creatorSpec) (uuid.UUID, *models.CreatorProfile) {
	f.t.Helper()
	userID := uuid.New()
	if opts.country == "" {
		opts.country = "United Kingdom"
	}
	c, err := f.profiles.CreateCreatorProfile(f.ctx, userID, userID.String()+"@creators.test", models.CreatorProfileRequest{
		DisplayName:        opts.name,
		PrimaryTradeID:     opts.trade,
		AdditionalTradeIDs: opts.additional,
		SocialAccounts:     opts.accounts,
		City:               opts.city,
		Country:            opts.country,
	})
	if err != nil {
		f.t.Fatalf("create creator %s: %v", opts.name, err)
	}
	return userID, c
}

// brand registers a new user as a brand holding credits campaign credits
func (f *fixture) brand(name string, credits int) (uuid.UUID, *models.BrandProfile) {
	f.t.Helper()
	userID := uuid.New()
	b, err := f.profiles.CreateBrandProfile(f.ctx, userID, userID.String()+"@brands.test", models.BrandProfileRequest{CompanyName: name})
	if err != nil {
		f.t.Fatalf("create brand %s: %v", name, err)
	}
	if credits > 0 {
		err := f.db.Model(&models.Subscription{}).Where("brand_id = ?", b.ID).
			Updates(map[string]interface{}{"campaign_credits": credits, "tier": models.Tier2, "status": models.SubscriptionActive}).Error
		if err != nil {
			f.t.Fatalf("grant credits: %v", err)
		}
	}
	return userID, b
}

func (f *fixture) credits(brandID uuid.UUID) int {
	f.t.Helper()
	sub, err := f.repo.GetSubscriptionByBrand(f.ctx, brandID)
	if err != nil {
		f.t.Fatalf("load subscription: %v", err)
	}
	return sub.CampaignCredits
}

func (f *fixture) standardBrief(brandUser uuid.UUID, title string, targeting ...models.TargetingInput) *models.Brief {
	f.t.Helper()
	b, err := f.briefs.CreateBrief(f.ctx, brandUser, models.CreateBriefRequest{
		Title:     title,
		Type:      models.BriefTypeStandard,
		Targeting: targeting,
	})
	if err != nil {
		f.t.Fatalf("create brief %s: %v", title, err)
	}
	return b
}

func (f *fixture) multiBrief(brandUser uuid.UUID, title string, n int) *models.Brief {
	f.t.Helper()
	b, err := f.briefs.CreateBrief(f.ctx, brandUser, models.CreateBriefRequest{
		Title:               title,
		Type:                models.BriefTypeMultiCreator,
		NumCreatorsRequired: n,
	})
	if err != nil {
		f.t.Fatalf("create brief %s: %v", title, err)
	}
	return b
}

func (f *fixture) apply(creatorUser, briefID uuid.UUID) *models.Application {
	f.t.Helper()
	app, err := f.apps.Apply(f.ctx, creatorUser, briefID, "I'd love to")
	if err != nil {
		f.t.Fatalf("apply: %v", err)
	}
	return app
}

func (f *fixture) reloadBrief(id uuid.UUID) *models.Brief {
	f.t.Helper()
	b, err := f.repo.GetBrief(f.ctx, id)
	if err != nil {
		f.t.Fatalf("reload brief: %v", err)
	}
	return b
}

func (f *fixture) reloadApplication(id uuid.UUID) *models.Application {
	f.t.Helper()
	a, err := f.repo.GetApplication(f.ctx, id)
	if err != nil {
		f.t.Fatalf("reload application: %v", err)
	}
	return a
}

func ptr[T any](v T) *T { return &v }

func account(platform string, followers int64, engagement float64) models.SocialAccountInput {
	return models.SocialAccountInput{Platform: platform, Handle: "@" + platform, FollowerCount: followers, EngagementRate: engagement}
}

var past = time.Now().UTC().Add(-48 * time.Hour)
