package property

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/villetta-hq/villetta/internal/domain"
	"github.com/villetta-hq/villetta/internal/repository"
	"github.com/villetta-hq/villetta/internal/siteconfig"
)

// CreateInput encapsulates property creation attributes. Configuration is
// optional; when absent the property starts from the default site
// configuration.
type CreateInput struct {
	OwnerID       string
	Name          string
	Configuration json.RawMessage
}

// Service orchestrates property and site configuration management.
type Service struct {
	properties repository.PropertyRepository
	logger     *slog.Logger
}

// New returns a property service.
func New(properties repository.PropertyRepository, logger *slog.Logger) Service {
	return Service{properties: properties, logger: logger}
}

var (
	ErrPropertyNotFound      = errors.New("property not found")
	ErrConfigurationNotFound = errors.New("configuration not found")
	ErrPropertyCreation      = errors.New("property could not be created")

	errInvalidPropertyName = errors.New("property name is required")
	errMissingPropertyID   = errors.New("property id required")
	errMissingOwnerID      = errors.New("owner id required")
)

// Create registers a property with its version 1 configuration in a single
// transaction. The stored payload is either the caller's validated document
// or the default configuration, byte for byte.
func (s Service) Create(ctx context.Context, input CreateInput) (*domain.Property, error) {
	if strings.TrimSpace(input.OwnerID) == "" {
		return nil, errMissingOwnerID
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, errInvalidPropertyName
	}

	raw := input.Configuration
	if len(raw) == 0 {
		encoded, err := json.Marshal(siteconfig.DefaultConfiguration())
		if err != nil {
			return nil, fmt.Errorf("encode default configuration: %w", err)
		}
		raw = encoded
	}
	cfg, err := siteconfig.Validate(raw)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	property := &domain.Property{
		ID:        uuid.NewString(),
		OwnerID:   input.OwnerID,
		Name:      strings.TrimSpace(input.Name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	snapshot := domain.ConfigurationSnapshot{
		SchemaVersion: cfg.SchemaVersion,
		Configuration: cfg.Raw(),
	}
	if err := s.properties.CreatePropertyWithConfiguration(ctx, property, snapshot); err != nil {
		if errors.Is(err, repository.ErrNoRowReturned) {
			return nil, fmt.Errorf("%w: %v", ErrPropertyCreation, err)
		}
		return nil, err
	}
	s.logger.Info("property created", "property_id", property.ID, "owner_id", property.OwnerID)
	return property, nil
}

// UpdateConfiguration validates and stores a new configuration version for
// the property. Versions are assigned serially by the repository.
func (s Service) UpdateConfiguration(ctx context.Context, ownerID, propertyID string, raw json.RawMessage) (*domain.PropertyConfiguration, error) {
	if strings.TrimSpace(propertyID) == "" {
		return nil, errMissingPropertyID
	}
	cfg, err := siteconfig.Validate(raw)
	if err != nil {
		return nil, err
	}
	if _, err := s.getProperty(ctx, ownerID, propertyID); err != nil {
		return nil, err
	}
	snapshot := domain.ConfigurationSnapshot{
		SchemaVersion: cfg.SchemaVersion,
		Configuration: cfg.Raw(),
	}
	updated, err := s.properties.UpdateConfiguration(ctx, propertyID, snapshot)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrConfigurationNotFound
		}
		return nil, err
	}
	s.logger.Info("configuration updated", "property_id", propertyID, "version", updated.Version)
	return updated, nil
}

// GetConfiguration returns the current configuration for the owner's
// property.
func (s Service) GetConfiguration(ctx context.Context, ownerID, propertyID string) (*domain.PropertyConfiguration, error) {
	if strings.TrimSpace(propertyID) == "" {
		return nil, errMissingPropertyID
	}
	cfg, err := s.properties.GetCurrentConfiguration(ctx, ownerID, propertyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrConfigurationNotFound
		}
		return nil, err
	}
	return cfg, nil
}

// Get returns the owner's property by identifier.
func (s Service) Get(ctx context.Context, ownerID, propertyID string) (*domain.Property, error) {
	return s.getProperty(ctx, ownerID, propertyID)
}

func (s Service) getProperty(ctx context.Context, ownerID, propertyID string) (*domain.Property, error) {
	if strings.TrimSpace(propertyID) == "" {
		return nil, errMissingPropertyID
	}
	property, err := s.properties.GetPropertyForOwner(ctx, ownerID, propertyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return property, nil
}

// List returns the owner's properties with their current configuration
// version.
func (s Service) List(ctx context.Context, ownerID string) ([]domain.PropertySummary, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, errMissingOwnerID
	}
	return s.properties.ListPropertiesByOwner(ctx, ownerID)
}

// History returns past configuration versions, newest first.
func (s Service) History(ctx context.Context, ownerID, propertyID string, limit int) ([]domain.ConfigurationHistoryEntry, error) {
	if strings.TrimSpace(propertyID) == "" {
		return nil, errMissingPropertyID
	}
	if _, err := s.getProperty(ctx, ownerID, propertyID); err != nil {
		return nil, err
	}
	return s.properties.ListConfigurationHistory(ctx, ownerID, propertyID, limit)
}
