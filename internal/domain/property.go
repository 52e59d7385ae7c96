package domain

import (
	"encoding/json"
	"time"
)

// Property is a site a user owns and deploys.
type Property struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PropertySummary is a listing row joined with the current configuration version.
type PropertySummary struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	ConfigurationVersion int       `json:"configuration_version"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// PropertyConfiguration is the current configuration for a property.
// Exactly one row exists per property; it is only mutated through the
// versioning transaction that also appends a history entry.
type PropertyConfiguration struct {
	PropertyID    string          `json:"property_id"`
	SchemaVersion int             `json:"schema_version"`
	Configuration json.RawMessage `json:"configuration"`
	Version       int             `json:"version"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ConfigurationHistoryEntry is an immutable snapshot of a configuration at
// the version it was applied. For any property the set of history versions
// is exactly {1..currentVersion}.
type ConfigurationHistoryEntry struct {
	ID            string          `json:"id"`
	PropertyID    string          `json:"property_id"`
	Version       int             `json:"version"`
	SchemaVersion int             `json:"schema_version"`
	Configuration json.RawMessage `json:"configuration"`
	ChangedAt     time.Time       `json:"changed_at"`
}

// ConfigurationSnapshot carries validated configuration data into the
// repository layer.
type ConfigurationSnapshot struct {
	SchemaVersion int
	Configuration json.RawMessage
}
