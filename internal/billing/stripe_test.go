package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"
)

const testSecret = "whsec_test"

func sign(payload []byte, secret string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func TestParseWebhookSubscriptionDeleted(t *testing.T) {
	payload := []byte(`{
		"id": "evt_1",
		"object": "event",
		"type": "customer.subscription.deleted",
		"data": {"object": {
			"id": "sub_1",
			"object": "subscription",
			"status": "canceled",
			"customer": "cus_1",
			"metadata": {"brand_id": "brand-1"},
			"current_period_end": 1700000000,
			"items": {"object": "list", "data": [{"id": "si_1", "object": "subscription_item", "price": {"id": "price_t2", "object": "price"}}]}
		}}
	}`)

	c := NewStripeClient("sk_test", testSecret)
	evt, err := c.ParseWebhook(payload, sign(payload, testSecret, time.Now()))
	if err != nil {
		t.Fatalf("ParseWebhook failed: %v", err)
	}
	if evt.Type != EventSubscriptionDeleted || evt.Subscription == nil {
		t.Fatalf("unexpected event %+v", evt)
	}
	sub := evt.Subscription
	if sub.ID != "sub_1" || sub.CustomerID != "cus_1" || sub.PriceID != "price_t2" || sub.BrandID != "brand-1" || sub.Status != "canceled" {
		t.Errorf("unexpected subscription %+v", sub)
	}
	if sub.CurrentPeriodEnd == nil || sub.CurrentPeriodEnd.Unix() != 1700000000 {
		t.Errorf("unexpected period end %v", sub.CurrentPeriodEnd)
	}
}

func TestParseWebhookCheckoutCompleted(t *testing.T) {
	payload := []byte(`{
		"id": "evt_2",
		"object": "event",
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_1",
			"object": "checkout.session",
			"client_reference_id": "brand-2",
			"customer": "cus_2",
			"subscription": "sub_2"
		}}
	}`)

	c := NewStripeClient("sk_test", testSecret)
	evt, err := c.ParseWebhook(payload, sign(payload, testSecret, time.Now()))
	if err != nil {
		t.Fatalf("ParseWebhook failed: %v", err)
	}
	if evt.Checkout == nil {
		t.Fatalf("expected checkout payload")
	}
	if evt.Checkout.BrandID != "brand-2" || evt.Checkout.SubscriptionID != "sub_2" || evt.Checkout.CustomerID != "cus_2" {
		t.Errorf("unexpected checkout %+v", evt.Checkout)
	}
}

func TestParseWebhookRejectsBadSignature(t *testing.T) {
	payload := []byte(`{"id":"evt_3","object":"event","type":"customer.subscription.updated","data":{"object":{}}}`)
	c := NewStripeClient("sk_test", testSecret)

	if _, err := c.ParseWebhook(payload, sign(payload, "whsec_other", time.Now())); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("expected ErrInvalidSignature for wrong secret, got %v", err)
	}
	if _, err := c.ParseWebhook(payload, ""); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("expected ErrInvalidSignature for missing header, got %v", err)
	}
	if _, err := NewStripeClient("sk_test", "").ParseWebhook(payload, sign(payload, "", time.Now())); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("expected ErrInvalidSignature without configured secret, got %v", err)
	}
}

func TestParseWebhookUnknownType(t *testing.T) {
	payload := []byte(`{"id":"evt_4","object":"event","type":"invoice.paid","data":{"object":{"id":"in_1"}}}`)
	c := NewStripeClient("sk_test", testSecret)

	evt, err := c.ParseWebhook(payload, sign(payload, testSecret, time.Now()))
	if err != nil {
		t.Fatalf("ParseWebhook failed: %v", err)
	}
	if evt.Checkout != nil || evt.Subscription != nil {
		t.Errorf("unknown event types carry no payload: %+v", evt)
	}
}
