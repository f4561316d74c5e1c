package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// Webhook event types the marketplace reacts to
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

// ErrInvalidSignature is returned when a webhook payload fails verification
var ErrInvalidSignature = errors.New("invalid webhook signature")

// CheckoutParams describes a subscription checkout for one brand
type CheckoutParams struct {
	BrandID    string
	PriceID    string
	Email      string
	SuccessURL string
	CancelURL  string
}

// Subscription is the provider-side view of a subscription
type Subscription struct {
	ID               string
	CustomerID       string
	PriceID          string
	Status           string
	BrandID          string
	CurrentPeriodEnd *time.Time
}

// CheckoutCompleted is the payload of a completed checkout session
type CheckoutCompleted struct {
	SessionID      string
	BrandID        string
	CustomerID     string
	SubscriptionID string
}

// Event is a verified webhook event. Exactly one of the payload fields is set
// for the known types; both are nil otherwise.
type Event struct {
	ID           string
	Type         string
	Checkout     *CheckoutCompleted
	Subscription *Subscription
}

// Client is the subset of the payment provider the marketplace uses
type Client interface {
	CreateCheckoutSession(ctx context.Context, p CheckoutParams) (string, error)
	GetSubscription(ctx context.Context, id string) (*Subscription, error)
	ParseWebhook(payload []byte, signature string) (*Event, error)
}

// StripeClient implements Client on the Stripe API
type StripeClient struct {
	api           *client.API
	webhookSecret string
}

// NewStripeClient creates a Stripe client for the given secret key
func NewStripeClient(secretKey, webhookSecret string) *StripeClient {
	return &StripeClient{
		api:           client.New(secretKey, nil),
		webhookSecret: webhookSecret,
	}
}

func (s *StripeClient) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		ClientReferenceID: stripe.String(p.BrandID),
		SuccessURL:        stripe.String(p.SuccessURL),
		CancelURL:         stripe.String(p.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(p.PriceID), Quantity: stripe.Int64(1)},
		},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{"brand_id": p.BrandID},
		},
	}
	if p.Email != "" {
		params.CustomerEmail = stripe.String(p.Email)
	}
	params.Context = ctx

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}

func (s *StripeClient) GetSubscription(ctx context.Context, id string) (*Subscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	sub, err := s.api.Subscriptions.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("get subscription %s: %w", id, err)
	}
	return fromStripeSubscription(sub), nil
}

// ParseWebhook verifies the Stripe-Signature header and decodes the event
func (s *StripeClient) ParseWebhook(payload []byte, signature string) (*Event, error) {
	if s.webhookSecret == "" {
		return nil, fmt.Errorf("%w: webhook secret not configured", ErrInvalidSignature)
	}
	evt, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return decodeEvent(evt)
}

func decodeEvent(evt stripe.Event) (*Event, error) {
	out := &Event{ID: evt.ID, Type: string(evt.Type)}
	if evt.Data == nil {
		return out, nil
	}

	switch out.Type {
	case EventCheckoutCompleted:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(evt.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("decode checkout session: %w", err)
		}
		c := &CheckoutCompleted{SessionID: sess.ID, BrandID: sess.ClientReferenceID}
		if sess.Customer != nil {
			c.CustomerID = sess.Customer.ID
		}
		if sess.Subscription != nil {
			c.SubscriptionID = sess.Subscription.ID
		}
		if c.BrandID == "" {
			c.BrandID = sess.Metadata["brand_id"]
		}
		out.Checkout = c
	case EventSubscriptionUpdated, EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(evt.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("decode subscription: %w", err)
		}
		out.Subscription = fromStripeSubscription(&sub)
	}
	return out, nil
}

func fromStripeSubscription(sub *stripe.Subscription) *Subscription {
	out := &Subscription{
		ID:      sub.ID,
		Status:  string(sub.Status),
		BrandID: sub.Metadata["brand_id"],
	}
	if sub.Customer != nil {
		out.CustomerID = sub.Customer.ID
	}
	if sub.Items != nil {
		for _, item := range sub.Items.Data {
			if item != nil && item.Price != nil {
				out.PriceID = item.Price.ID
				break
			}
		}
	}
	if sub.CurrentPeriodEnd > 0 {
		end := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
		out.CurrentPeriodEnd = &end
	}
	return out
}
