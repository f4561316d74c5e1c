package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"creator-marketplace/internal/logging"
)

type recorder struct {
	types   []string
	keys    []string
	payload []byte
	err     error
}

func (r *recorder) Publish(_ context.Context, eventType string, payload []byte, key string) error {
	r.types = append(r.types, eventType)
	r.keys = append(r.keys, key)
	r.payload = payload
	return r.err
}

func TestEmitWrapsEnvelope(t *testing.T) {
	rec := &recorder{}
	Emit(context.Background(), logging.Discard(), rec, BriefCreated, "brief-1", map[string]string{"title": "Roofing"})

	if len(rec.types) != 1 || rec.types[0] != BriefCreated || rec.keys[0] != "brief-1" {
		t.Fatalf("unexpected publish calls %+v", rec)
	}
	var env struct {
		ID   string            `json:"id"`
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rec.payload, &env); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if env.ID == "" || env.Type != BriefCreated || env.Data["title"] != "Roofing" {
		t.Errorf("unexpected envelope %+v", env)
	}
}

func TestEmitSwallowsErrors(t *testing.T) {
	rec := &recorder{err: errors.New("broker down")}
	Emit(context.Background(), logging.Discard(), rec, ApplicationAccepted, "app-1", nil)
	Emit(context.Background(), logging.Discard(), nil, ApplicationAccepted, "app-1", nil)

	if len(rec.types) != 1 {
		t.Fatalf("expected one attempt, got %d", len(rec.types))
	}
}

func TestNewKafkaPublisherRequiresBrokers(t *testing.T) {
	if _, err := NewKafkaPublisher(nil, "topic"); err == nil {
		t.Fatalf("expected error without brokers")
	}
}
