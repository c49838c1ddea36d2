// Package store defines the persistence interface for the listing engine.
// Implementations include PostgreSQL (source of truth), Redis (read-through
// cache), and in-memory (for testing).
package store

import (
	"context"
	"errors"

	"github.com/propfolio/listing-engine/internal/model"
)

// ErrNotFound is returned when a property or valuation does not exist.
var ErrNotFound = errors.New("store: not found")

// Store is the persistence interface. PostgreSQL is the source of truth;
// Redis provides a read-through cache layer. The valuation engine never
// touches this interface — persistence of valuation output is owned by the
// service layer.
type Store interface {
	// --- Property operations ---

	// CreateProperty persists a new listing.
	CreateProperty(ctx context.Context, p *model.Property) error

	// GetProperty retrieves a listing by its ID.
	GetProperty(ctx context.Context, id string) (*model.Property, error)

	// SearchProperties returns listings matching the filter, newest first.
	SearchProperties(ctx context.Context, filter model.PropertyFilter) ([]model.Property, error)

	// UpdateProperty replaces a listing's mutable fields.
	UpdateProperty(ctx context.Context, p *model.Property) error

	// DeleteProperty removes a listing.
	DeleteProperty(ctx context.Context, id string) error

	// IncrementViews bumps a listing's view counter.
	IncrementViews(ctx context.Context, id string) error

	// --- Valuation records ---

	// InsertValuation appends a valuation record for a listing.
	InsertValuation(ctx context.Context, v *model.ValuationRecord) error

	// GetValuationsByProperty returns all valuations for a listing.
	GetValuationsByProperty(ctx context.Context, propertyID string) ([]model.ValuationRecord, error)

	// --- Comparable queries ---

	// FindComparables returns available listings comparable to the subject
	// (same city, same type), newest first, up to limit.
	FindComparables(ctx context.Context, subject model.SubjectProperty, limit int) ([]model.ComparableProperty, error)
}
