package port

import (
	"context"

	"github.com/samiatarot/platform-api/internal/domain"
)

// CatalogStore handles services, readers and service type data.
type CatalogStore interface {
	// Services
	ListServices(ctx context.Context) ([]domain.Service, error)
	GetService(ctx context.Context, serviceID string) (*domain.Service, error)
	CreateService(ctx context.Context, svc *domain.Service) (*domain.Service, error)
	UpdateService(ctx context.Context, serviceID string, updates map[string]any) (*domain.Service, error)
	DeleteService(ctx context.Context, serviceID string) error

	// Readers
	ListActiveReaders(ctx context.Context) ([]domain.ReaderBusinessProfile, error)
}
