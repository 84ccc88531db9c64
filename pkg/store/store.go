// Package store defines the record storage contract shared by every driver.
package store

import (
	"context"

	"offerboard/pkg/models"
)

// Repository defines behavior for persisting one kind of record.
type Repository[T any] interface {
	// Create inserts rec, ignoring its ID, and returns the assigned id.
	Create(ctx context.Context, rec T) (int64, error)
	// Get returns models.ErrNotFound when no record has the id.
	Get(ctx context.Context, id int64) (T, error)
	// List returns every record in insertion order.
	List(ctx context.Context) ([]T, error)
	// Update replaces every field of the record identified by rec's ID.
	Update(ctx context.Context, rec T) error
	// Delete removes the record. References held by other records are
	// cleared.
	Delete(ctx context.Context, id int64) error
}

// Store groups the repositories of a single backend.
type Store interface {
	Users() Repository[models.User]
	Orders() Repository[models.Order]
	Offers() Repository[models.Offer]
	Ping(ctx context.Context) error
	Close() error
}

// Drivers accepted by configuration.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)
