package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/propfolio/listing-engine/internal/model"
)

// CachedStore wraps a primary Store (PostgreSQL) with a Redis read-through
// cache. Writes go to the primary store and invalidate the cache; reads
// check Redis first then fall back to the primary. Search and comparable
// queries pass through — their filter space is too wide to cache usefully.
type CachedStore struct {
	primary Store
	rdb     *redis.Client
	ttl     time.Duration
}

// NewCachedStore creates a cached wrapper around a primary store.
func NewCachedStore(primary Store, rdb *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{
		primary: primary,
		rdb:     rdb,
		ttl:     ttl,
	}
}

func propertyKey(id string) string {
	return "property:" + id
}

func valuationsKey(propertyID string) string {
	return "valuations:" + propertyID
}

// --- Write-through (write to primary, invalidate cache) ---

func (s *CachedStore) CreateProperty(ctx context.Context, p *model.Property) error {
	if err := s.primary.CreateProperty(ctx, p); err != nil {
		return err
	}
	s.cacheProperty(ctx, p)
	return nil
}

func (s *CachedStore) UpdateProperty(ctx context.Context, p *model.Property) error {
	if err := s.primary.UpdateProperty(ctx, p); err != nil {
		return err
	}
	// Invalidate; next read re-populates.
	s.rdb.Del(ctx, propertyKey(p.ID))
	return nil
}

func (s *CachedStore) DeleteProperty(ctx context.Context, id string) error {
	if err := s.primary.DeleteProperty(ctx, id); err != nil {
		return err
	}
	s.rdb.Del(ctx, propertyKey(id), valuationsKey(id))
	return nil
}

func (s *CachedStore) IncrementViews(ctx context.Context, id string) error {
	if err := s.primary.IncrementViews(ctx, id); err != nil {
		return err
	}
	s.rdb.Del(ctx, propertyKey(id))
	return nil
}

func (s *CachedStore) InsertValuation(ctx context.Context, v *model.ValuationRecord) error {
	if err := s.primary.InsertValuation(ctx, v); err != nil {
		return err
	}
	s.rdb.Del(ctx, valuationsKey(v.PropertyID))
	return nil
}

// --- Read-through ---

func (s *CachedStore) GetProperty(ctx context.Context, id string) (*model.Property, error) {
	if data, err := s.rdb.Get(ctx, propertyKey(id)).Bytes(); err == nil {
		var p model.Property
		if err := json.Unmarshal(data, &p); err == nil {
			return &p, nil
		}
	}

	p, err := s.primary.GetProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheProperty(ctx, p)
	return p, nil
}

func (s *CachedStore) GetValuationsByProperty(ctx context.Context, propertyID string) ([]model.ValuationRecord, error) {
	if data, err := s.rdb.Get(ctx, valuationsKey(propertyID)).Bytes(); err == nil {
		var records []model.ValuationRecord
		if err := json.Unmarshal(data, &records); err == nil {
			return records, nil
		}
	}

	records, err := s.primary.GetValuationsByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(records); err == nil {
		s.rdb.Set(ctx, valuationsKey(propertyID), data, s.ttl)
	}
	return records, nil
}

// --- Pass-through ---

func (s *CachedStore) SearchProperties(ctx context.Context, filter model.PropertyFilter) ([]model.Property, error) {
	return s.primary.SearchProperties(ctx, filter)
}

func (s *CachedStore) FindComparables(ctx context.Context, subject model.SubjectProperty, limit int) ([]model.ComparableProperty, error) {
	return s.primary.FindComparables(ctx, subject, limit)
}

// cacheProperty stores a listing in Redis; failures are ignored (cache is
// best-effort).
func (s *CachedStore) cacheProperty(ctx context.Context, p *model.Property) {
	if data, err := json.Marshal(p); err == nil {
		s.rdb.Set(ctx, propertyKey(p.ID), data, s.ttl)
	}
}
