package repository

import (
	"context"

	"github.com/villetta-hq/villetta/internal/domain"
)

// PropertyRepository persists properties and their versioned configurations.
//
// CreatePropertyWithConfiguration and UpdateConfiguration are transactional:
// either every row (property, current configuration, history entry) becomes
// visible, or none do. UpdateConfiguration must serialize concurrent calls
// against the same property so two writers can never allocate the same
// version number.
type PropertyRepository interface {
	CreatePropertyWithConfiguration(ctx context.Context, property *domain.Property, snapshot domain.ConfigurationSnapshot) error
	UpdateConfiguration(ctx context.Context, propertyID string, snapshot domain.ConfigurationSnapshot) (*domain.PropertyConfiguration, error)
	GetPropertyForOwner(ctx context.Context, ownerID, propertyID string) (*domain.Property, error)
	ListPropertiesByOwner(ctx context.Context, ownerID string) ([]domain.PropertySummary, error)
	GetCurrentConfiguration(ctx context.Context, ownerID, propertyID string) (*domain.PropertyConfiguration, error)
	ListConfigurationHistory(ctx context.Context, ownerID, propertyID string, limit int) ([]domain.ConfigurationHistoryEntry, error)
}
