package notify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/samiatarot/platform-api/internal/domain"
	"github.com/samiatarot/platform-api/internal/infra/observability"
)

type mockIntegrationSource struct {
	integrations []domain.Integration

	mu      sync.Mutex
	updates []map[string]any
}

func (m *mockIntegrationSource) ListIntegrations(_ context.Context, _ bool) ([]domain.Integration, error) {
	return m.integrations, nil
}

func (m *mockIntegrationSource) UpdateIntegration(_ context.Context, _ string, updates map[string]any) (*domain.Integration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates = append(m.updates, updates)
	return nil, nil
}

func (m *mockIntegrationSource) lastUpdate() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.updates) == 0 {
		return nil
	}
	return m.updates[len(m.updates)-1]
}

func TestSignatureRoundTrip(t *testing.T) {
	payload := []byte(`{"event":"booking.created"}`)
	sig := GenerateSignature(payload, "secret-1")

	if !VerifySignature(payload, sig, "secret-1") {
		t.Error("expected signature to verify")
	}
	if !VerifySignature(payload, "sha256="+sig, "secret-1") {
		t.Error("expected prefixed signature to verify")
	}
	if VerifySignature(payload, sig, "other-secret") {
		t.Error("expected verification to fail with wrong secret")
	}
	if VerifySignature([]byte(`{"event":"tampered"}`), sig, "secret-1") {
		t.Error("expected verification to fail for tampered payload")
	}
}

func TestDispatchDeliversSignedEvent(t *testing.T) {
	received := make(chan *http.Request, 1)
	var gotBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		received <- r
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	source := &mockIntegrationSource{
		integrations: []domain.Integration{{
			ID:         "int-1",
			Provider:   "zapier",
			WebhookURL: server.URL,
			Secret:     "hook-secret",
			Events:     []string{domain.EventBookingCreated},
			IsActive:   true,
		}},
	}

	d := NewDispatcher(source, server.Client(), 1, 10, observability.NewMetrics(), zap.NewNop())
	d.Start()
	defer d.Stop()

	d.Dispatch(context.Background(), domain.WebhookEvent{
		ID:         "evt-1",
		Event:      domain.EventBookingCreated,
		OccurredAt: time.Now(),
		Data:       map[string]string{"booking_id": "b-1"},
	})

	select {
	case req := <-received:
		if got := req.Header.Get("X-Samia-Event"); got != domain.EventBookingCreated {
			t.Errorf("X-Samia-Event = %q, want %q", got, domain.EventBookingCreated)
		}
		if got := req.Header.Get("X-Samia-Delivery"); got != "evt-1" {
			t.Errorf("X-Samia-Delivery = %q, want evt-1", got)
		}
		sig := req.Header.Get("X-Samia-Signature")
		if sig == "" {
			t.Fatal("missing X-Samia-Signature header")
		}
		if !VerifySignature(gotBody, sig, "hook-secret") {
			t.Error("delivered payload signature does not verify")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for webhook delivery")
	}
}

func TestDispatchSkipsUnsubscribedIntegrations(t *testing.T) {
	var unsubscribedHits int
	unsubscribed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		unsubscribedHits++
		w.WriteHeader(http.StatusOK)
	}))
	defer unsubscribed.Close()

	received := make(chan struct{}, 1)
	subscribed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received <- struct{}{}
		w.WriteHeader(http.StatusOK)
	}))
	defer subscribed.Close()

	source := &mockIntegrationSource{
		integrations: []domain.Integration{
			{ID: "int-payments", WebhookURL: unsubscribed.URL, Secret: "s", Events: []string{domain.EventPaymentRecorded}},
			{ID: "int-bookings", WebhookURL: subscribed.URL, Secret: "s", Events: []string{"*"}},
		},
	}

	d := NewDispatcher(source, http.DefaultClient, 1, 10, observability.NewMetrics(), zap.NewNop())
	d.Start()

	d.Dispatch(context.Background(), domain.WebhookEvent{
		ID:    "evt-2",
		Event: domain.EventBookingCreated,
	})

	select {
	case <-received:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for subscribed delivery")
	}
	d.Stop() // drains the queue before returning

	if unsubscribedHits != 0 {
		t.Errorf("unsubscribed integration received %d deliveries, want 0", unsubscribedHits)
	}
}

func TestDeliverReportsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	source := &mockIntegrationSource{}
	d := NewDispatcher(source, server.Client(), 1, 10, observability.NewMetrics(), zap.NewNop())

	integration := domain.Integration{ID: "int-1", WebhookURL: server.URL, Secret: "s"}
	err := d.Deliver(context.Background(), integration, domain.WebhookEvent{
		ID:    "evt-3",
		Event: domain.EventIntegrationTest,
	})
	if err == nil {
		t.Fatal("expected error for 500 response")
	}

	update := source.lastUpdate()
	if update == nil {
		t.Fatal("expected integration delivery status update")
	}
	if got := update["last_delivery_status"]; got != "failed" {
		t.Errorf("last_delivery_status = %v, want failed", got)
	}
}

func TestDeliverRecordsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	source := &mockIntegrationSource{}
	d := NewDispatcher(source, server.Client(), 1, 10, observability.NewMetrics(), zap.NewNop())

	integration := domain.Integration{ID: "int-1", WebhookURL: server.URL, Secret: "s"}
	if err := d.Deliver(context.Background(), integration, domain.WebhookEvent{
		ID:    "evt-4",
		Event: domain.EventIntegrationTest,
	}); err != nil {
		t.Fatalf("Deliver returned error: %v", err)
	}

	update := source.lastUpdate()
	if update == nil {
		t.Fatal("expected integration delivery status update")
	}
	if got := update["last_delivery_status"]; got != "delivered" {
		t.Errorf("last_delivery_status = %v, want delivered", got)
	}
}
