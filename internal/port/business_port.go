package port

import (
	"context"

	"github.com/samiatarot/platform-api/internal/domain"
)

// BusinessStore handles reader business profiles, packages, client
// relationships and integrations.
type BusinessStore interface {
	// Business profiles
	GetBusinessProfile(ctx context.Context, readerID string) (*domain.ReaderBusinessProfile, error)
	UpsertBusinessProfile(ctx context.Context, profile *domain.ReaderBusinessProfile) (*domain.ReaderBusinessProfile, error)

	// Service packages
	ListPackages(ctx context.Context) ([]domain.ServicePackage, error)
	GetPackage(ctx context.Context, packageID string) (*domain.ServicePackage, error)
	CreatePackage(ctx context.Context, pkg *domain.ServicePackage) (*domain.ServicePackage, error)
	UpdatePackage(ctx context.Context, packageID string, updates map[string]any) (*domain.ServicePackage, error)
	DeletePackage(ctx context.Context, packageID string) error

	// Client relationships
	ListClientRelationships(ctx context.Context, readerID string) ([]domain.ClientRelationship, error)
	GetClientRelationship(ctx context.Context, readerID, clientID string) (*domain.ClientRelationship, error)
	CreateClientRelationship(ctx context.Context, rel *domain.ClientRelationship) (*domain.ClientRelationship, error)
	UpdateClientRelationship(ctx context.Context, readerID, relID string, updates map[string]any) (*domain.ClientRelationship, error)

	// Integrations
	ListIntegrations(ctx context.Context, activeOnly bool) ([]domain.Integration, error)
	GetIntegration(ctx context.Context, integrationID string) (*domain.Integration, error)
	CreateIntegration(ctx context.Context, in *domain.Integration) (*domain.Integration, error)
	UpdateIntegration(ctx context.Context, integrationID string, updates map[string]any) (*domain.Integration, error)
	DeleteIntegration(ctx context.Context, integrationID string) error
}
