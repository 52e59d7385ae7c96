package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/villetta-hq/villetta/internal/domain"
	"github.com/villetta-hq/villetta/internal/repository"
)

// Repository implements persistence interfaces on PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// New constructs a Repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ensure Repository satisfies interfaces.
var _ repository.PropertyRepository = (*Repository)(nil)

// CreatePropertyWithConfiguration inserts a property together with its
// current configuration at version 1 and the matching history entry, all in
// one transaction.
func (r *Repository) CreatePropertyWithConfiguration(ctx context.Context, property *domain.Property, snapshot domain.ConfigurationSnapshot) error {
	if property == nil {
		return fmt.Errorf("property required")
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const propertyInsert = `INSERT INTO properties (id, owner_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW()) RETURNING created_at, updated_at`
	var createdAt, updatedAt time.Time
	if err := tx.QueryRow(ctx, propertyInsert, property.ID, property.OwnerID, property.Name).Scan(&createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNoRowReturned
		}
		return mapPgError(err)
	}
	property.CreatedAt = createdAt
	property.UpdatedAt = updatedAt

	const configInsert = `INSERT INTO property_configurations (property_id, schema_version, configuration, version, updated_at)
		VALUES ($1, $2, $3, 1, NOW())`
	if _, err := tx.Exec(ctx, configInsert, property.ID, snapshot.SchemaVersion, snapshot.Configuration); err != nil {
		return mapPgError(err)
	}

	const historyInsert = `INSERT INTO property_configuration_history (property_id, version, schema_version, configuration, changed_at)
		VALUES ($1, 1, $2, $3, NOW())`
	if _, err := tx.Exec(ctx, historyInsert, property.ID, snapshot.SchemaVersion, snapshot.Configuration); err != nil {
		return mapPgError(err)
	}

	return tx.Commit(ctx)
}

// UpdateConfiguration appends a history entry at currentVersion+1 and
// overwrites the current configuration row. The current version is read under
// FOR UPDATE inside the same transaction, so concurrent updates against one
// property serialize instead of both allocating the same version. The unique
// index on (property_id, version) is the backstop.
func (r *Repository) UpdateConfiguration(ctx context.Context, propertyID string, snapshot domain.ConfigurationSnapshot) (*domain.PropertyConfiguration, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const currentSelect = `SELECT version FROM property_configurations WHERE property_id = $1 FOR UPDATE`
	var currentVersion int
	if err := tx.QueryRow(ctx, currentSelect, propertyID).Scan(&currentVersion); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, mapPgError(err)
	}
	nextVersion := currentVersion + 1

	const historyInsert = `INSERT INTO property_configuration_history (property_id, version, schema_version, configuration, changed_at)
		VALUES ($1, $2, $3, $4, NOW())`
	if _, err := tx.Exec(ctx, historyInsert, propertyID, nextVersion, snapshot.SchemaVersion, snapshot.Configuration); err != nil {
		return nil, mapPgError(err)
	}

	const configUpdate = `UPDATE property_configurations
		SET schema_version = $2,
			configuration = $3,
			version = $4,
			updated_at = NOW()
		WHERE property_id = $1
		RETURNING updated_at`
	var updatedAt time.Time
	if err := tx.QueryRow(ctx, configUpdate, propertyID, snapshot.SchemaVersion, snapshot.Configuration, nextVersion).Scan(&updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, mapPgError(err)
	}

	if _, err := tx.Exec(ctx, `UPDATE properties SET updated_at = NOW() WHERE id = $1`, propertyID); err != nil {
		return nil, mapPgError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &domain.PropertyConfiguration{
		PropertyID:    propertyID,
		SchemaVersion: snapshot.SchemaVersion,
		Configuration: snapshot.Configuration,
		Version:       nextVersion,
		UpdatedAt:     updatedAt,
	}, nil
}

// GetPropertyForOwner fetches a property scoped to its owner.
func (r *Repository) GetPropertyForOwner(ctx context.Context, ownerID, propertyID string) (*domain.Property, error) {
	const query = `SELECT id, owner_id, name, created_at, updated_at
		FROM properties WHERE id = $1 AND owner_id = $2`
	row := r.pool.QueryRow(ctx, query, propertyID, ownerID)
	var p domain.Property
	if err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, mapPgError(err)
	}
	return &p, nil
}

// ListPropertiesByOwner returns the owner's properties with their current
// configuration version.
func (r *Repository) ListPropertiesByOwner(ctx context.Context, ownerID string) ([]domain.PropertySummary, error) {
	const query = `SELECT p.id, p.name, COALESCE(pc.version, 0), p.created_at, p.updated_at
		FROM properties p
		LEFT JOIN property_configurations pc ON pc.property_id = p.id
		WHERE p.owner_id = $1
		ORDER BY p.updated_at DESC`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]domain.PropertySummary, 0)
	for rows.Next() {
		var s domain.PropertySummary
		if err := rows.Scan(&s.ID, &s.Name, &s.ConfigurationVersion, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// GetCurrentConfiguration loads the current configuration row for an
// owner's property.
func (r *Repository) GetCurrentConfiguration(ctx context.Context, ownerID, propertyID string) (*domain.PropertyConfiguration, error) {
	const query = `SELECT pc.property_id, pc.schema_version, pc.configuration, pc.version, pc.updated_at
		FROM property_configurations pc
		INNER JOIN properties p ON p.id = pc.property_id
		WHERE p.id = $1 AND p.owner_id = $2`
	row := r.pool.QueryRow(ctx, query, propertyID, ownerID)
	var c domain.PropertyConfiguration
	if err := row.Scan(&c.PropertyID, &c.SchemaVersion, &c.Configuration, &c.Version, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, mapPgError(err)
	}
	return &c, nil
}

// ListConfigurationHistory enumerates history entries newest first.
func (r *Repository) ListConfigurationHistory(ctx context.Context, ownerID, propertyID string, limit int) ([]domain.ConfigurationHistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `SELECT h.id, h.property_id, h.version, h.schema_version, h.configuration, h.changed_at
		FROM property_configuration_history h
		INNER JOIN properties p ON p.id = h.property_id
		WHERE p.id = $1 AND p.owner_id = $2
		ORDER BY h.version DESC
		LIMIT $3`
	rows, err := r.pool.Query(ctx, query, propertyID, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.ConfigurationHistoryEntry, 0)
	for rows.Next() {
		var e domain.ConfigurationHistoryEntry
		if err := rows.Scan(&e.ID, &e.PropertyID, &e.Version, &e.SchemaVersion, &e.Configuration, &e.ChangedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503":
			return repository.ErrNotFound
		case "23505", "23514", "22P02":
			return repository.ErrInvalidArgument
		}
	}
	return err
}
