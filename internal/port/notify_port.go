package port

import (
	"context"

	"github.com/samiatarot/platform-api/internal/domain"
)

// IntegrationSource is the slice of the business store the webhook
// dispatcher needs: the active integrations and their delivery bookkeeping.
type IntegrationSource interface {
	ListIntegrations(ctx context.Context, activeOnly bool) ([]domain.Integration, error)
	UpdateIntegration(ctx context.Context, integrationID string, updates map[string]any) (*domain.Integration, error)
}

// EventDispatcher fans platform events out to subscribed integrations.
// Dispatch is fire-and-forget: delivery failures are logged and counted,
// never propagated to the emitting operation.
type EventDispatcher interface {
	Dispatch(ctx context.Context, event domain.WebhookEvent)
	Deliver(ctx context.Context, integration domain.Integration, event domain.WebhookEvent) error
}
