// Package notify delivers signed webhook events to registered integrations
// through a bounded in-memory queue and a pool of delivery workers.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/samiatarot/platform-api/internal/domain"
	"github.com/samiatarot/platform-api/internal/infra/observability"
	"github.com/samiatarot/platform-api/internal/port"
)

// Delivery configuration constants.
const (
	maxAttempts    = 3
	initialBackoff = 1 * time.Second
	userAgent      = "samia-platform-api/1.0"
)

// delivery is one queued (integration, event) pair with its serialized
// payload.
type delivery struct {
	integration domain.Integration
	event       domain.WebhookEvent
	payload     []byte
}

// Dispatcher queues webhook events and delivers them asynchronously.
type Dispatcher struct {
	integrations port.IntegrationSource
	httpClient   *http.Client
	metrics      *observability.Metrics
	logger       *zap.Logger

	queue   chan delivery
	workers int
	wg      sync.WaitGroup
	done    chan struct{}
	mu      sync.RWMutex
	running bool
}

// NewDispatcher creates a webhook dispatcher with the given worker count and
// queue capacity.
func NewDispatcher(integrations port.IntegrationSource, httpClient *http.Client, workers, queueSize int, metrics *observability.Metrics, logger *zap.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 4
	}
	if queueSize <= 0 {
		queueSize = 100
	}

	return &Dispatcher{
		integrations: integrations,
		httpClient:   httpClient,
		metrics:      metrics,
		logger:       logger,
		queue:        make(chan delivery, queueSize),
		workers:      workers,
		done:         make(chan struct{}),
	}
}

// Start launches the delivery workers.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return
	}
	d.running = true
	d.mu.Unlock()

	d.logger.Info("starting webhook dispatcher", zap.Int("workers", d.workers))

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
}

// Stop signals the workers to finish. Queued deliveries are drained before
// the workers exit.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	d.mu.Unlock()

	d.logger.Info("stopping webhook dispatcher")
	close(d.done)
	d.wg.Wait()
	d.logger.Info("webhook dispatcher stopped")
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()
	d.logger.Debug("webhook worker started", zap.Int("worker_id", id))

	for {
		select {
		case del := <-d.queue:
			d.deliver(context.Background(), del)
		case <-d.done:
			// drain what is already queued, then exit
			for {
				select {
				case del := <-d.queue:
					d.deliver(context.Background(), del)
				default:
					d.logger.Debug("webhook worker stopped", zap.Int("worker_id", id))
					return
				}
			}
		}
	}
}

// Dispatch fans event out to every active integration subscribed to it.
// Enqueueing never blocks: if the queue is full the delivery is dropped,
// logged and counted.
func (d *Dispatcher) Dispatch(ctx context.Context, event domain.WebhookEvent) {
	d.mu.RLock()
	running := d.running
	d.mu.RUnlock()

	if !running {
		d.logger.Warn("dispatcher not running, event not delivered", zap.String("event", event.Event))
		return
	}

	integrations, err := d.integrations.ListIntegrations(ctx, true)
	if err != nil {
		d.logger.Error("failed to list integrations for event",
			zap.String("event", event.Event),
			zap.Error(err),
		)
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		d.logger.Error("failed to marshal webhook event",
			zap.String("event", event.Event),
			zap.Error(err),
		)
		return
	}

	for _, in := range integrations {
		if !subscribed(in, event.Event) {
			continue
		}

		select {
		case d.queue <- delivery{integration: in, event: event, payload: payload}:
			d.logger.Debug("webhook delivery queued",
				zap.String("event", event.Event),
				zap.String("integration_id", in.ID),
			)
		default:
			d.metrics.IncrWebhookDelivery("dropped")
			d.logger.Warn("webhook queue full, delivery dropped",
				zap.String("event", event.Event),
				zap.String("integration_id", in.ID),
			)
		}
	}
}

// Deliver sends event to a single integration synchronously, with one
// attempt. Used by the integration test endpoint so the caller gets the
// delivery outcome.
func (d *Dispatcher) Deliver(ctx context.Context, integration domain.Integration, event domain.WebhookEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal webhook event: %w", err)
	}

	status, _, err := d.attemptDelivery(ctx, integration, event, payload)
	d.recordOutcome(ctx, integration, event, status, err)
	if err != nil {
		return err
	}
	return nil
}

// deliver runs the attempt loop for one queued delivery: up to maxAttempts
// with doubling backoff, retrying only transport errors, 5xx, 408 and 429.
func (d *Dispatcher) deliver(ctx context.Context, del delivery) {
	backoff := initialBackoff
	var status int
	var err error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		var retry bool
		status, retry, err = d.attemptDelivery(ctx, del.integration, del.event, del.payload)
		if err == nil || !retry || attempt == maxAttempts {
			break
		}

		d.logger.Debug("webhook delivery retrying",
			zap.String("event", del.event.Event),
			zap.String("integration_id", del.integration.ID),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
		)
		time.Sleep(backoff)
		backoff *= 2
	}

	d.recordOutcome(ctx, del.integration, del.event, status, err)
}

// attemptDelivery performs one signed HTTP POST. The bool result reports
// whether the failure class is retryable.
func (d *Dispatcher) attemptDelivery(ctx context.Context, integration domain.Integration, event domain.WebhookEvent, payload []byte) (int, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, integration.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return 0, false, fmt.Errorf("create webhook request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Samia-Signature", "sha256="+GenerateSignature(payload, integration.Secret))
	req.Header.Set("X-Samia-Event", event.Event)
	req.Header.Set("X-Samia-Delivery", event.ID)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return 0, true, fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return resp.StatusCode, false, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		// client error: the consumer rejected the payload, retrying will not
		// help (408 and 429 are the transient exceptions)
		retry := resp.StatusCode == http.StatusRequestTimeout || resp.StatusCode == http.StatusTooManyRequests
		return resp.StatusCode, retry, fmt.Errorf("webhook returned %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	default:
		return resp.StatusCode, true, fmt.Errorf("webhook returned %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
}

// recordOutcome updates the integration's delivery bookkeeping and counters.
func (d *Dispatcher) recordOutcome(ctx context.Context, integration domain.Integration, event domain.WebhookEvent, status int, err error) {
	outcome := "delivered"
	if err != nil {
		outcome = "failed"
	}
	d.metrics.IncrWebhookDelivery(outcome)

	if err != nil {
		d.logger.Warn("webhook delivery failed",
			zap.String("event", event.Event),
			zap.String("integration_id", integration.ID),
			zap.Int("status", status),
			zap.Error(err),
		)
	} else {
		d.logger.Info("webhook delivered",
			zap.String("event", event.Event),
			zap.String("integration_id", integration.ID),
			zap.Int("status", status),
		)
	}

	updates := map[string]any{
		"last_delivery_at":     time.Now().UTC().Format(time.RFC3339),
		"last_delivery_status": outcome,
	}
	if _, uerr := d.integrations.UpdateIntegration(ctx, integration.ID, updates); uerr != nil {
		d.logger.Error("failed to update integration delivery status",
			zap.String("integration_id", integration.ID),
			zap.Error(uerr),
		)
	}
}

// subscribed reports whether the integration listens for the event. A "*"
// entry subscribes to everything.
func subscribed(in domain.Integration, event string) bool {
	for _, e := range in.Events {
		if e == event || e == "*" {
			return true
		}
	}
	return false
}
