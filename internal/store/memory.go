package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/propfolio/listing-engine/internal/model"
)

// MemoryStore implements Store with in-memory maps. Used for testing
// and development. Not suitable for production (no persistence).
type MemoryStore struct {
	mu         sync.RWMutex
	properties map[string]*model.Property
	valuations map[string][]model.ValuationRecord // propertyID → records
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		properties: make(map[string]*model.Property),
		valuations: make(map[string][]model.ValuationRecord),
	}
}

func (s *MemoryStore) CreateProperty(_ context.Context, p *model.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Store a copy to avoid external mutation.
	cp := *p
	s.properties[p.ID] = &cp
	return nil
}

func (s *MemoryStore) GetProperty(_ context.Context, id string) (*model.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.properties[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryStore) SearchProperties(_ context.Context, filter model.PropertyFilter) ([]model.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []model.Property
	for _, p := range s.properties {
		if matchesFilter(p, filter) {
			matched = append(matched, *p)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	return paginate(matched, filter.Skip, filter.Limit), nil
}

func (s *MemoryStore) UpdateProperty(_ context.Context, p *model.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.properties[p.ID]; !ok {
		return ErrNotFound
	}
	cp := *p
	s.properties[p.ID] = &cp
	return nil
}

func (s *MemoryStore) DeleteProperty(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.properties[id]; !ok {
		return ErrNotFound
	}
	delete(s.properties, id)
	delete(s.valuations, id)
	return nil
}

func (s *MemoryStore) IncrementViews(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.properties[id]
	if !ok {
		return ErrNotFound
	}
	p.Views++
	return nil
}

func (s *MemoryStore) InsertValuation(_ context.Context, v *model.ValuationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.valuations[v.PropertyID] = append(s.valuations[v.PropertyID], *v)
	return nil
}

func (s *MemoryStore) GetValuationsByProperty(_ context.Context, propertyID string) ([]model.ValuationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.valuations[propertyID]
	out := make([]model.ValuationRecord, len(records))
	copy(out, records)
	return out, nil
}

// FindComparables maps available listings in the subject's city and of the
// subject's type into comparables. Days on market derives from the listing
// creation time.
func (s *MemoryStore) FindComparables(_ context.Context, subject model.SubjectProperty, limit int) ([]model.ComparableProperty, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var candidates []*model.Property
	for _, p := range s.properties {
		if p.Status != model.StatusAvailable {
			continue
		}
		if !strings.EqualFold(p.City, subject.City) {
			continue
		}
		if subject.Type != "" && p.Type != subject.Type {
			continue
		}
		candidates = append(candidates, p)
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
	})
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	now := time.Now().UTC()
	comps := make([]model.ComparableProperty, 0, len(candidates))
	for _, p := range candidates {
		comps = append(comps, comparableFromProperty(p, now))
	}
	return comps, nil
}

// comparableFromProperty maps a stored listing into a comparable.
func comparableFromProperty(p *model.Property, now time.Time) model.ComparableProperty {
	address := p.Address
	if address == "" {
		address = p.Title
	}
	days := int(now.Sub(p.CreatedAt).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return model.ComparableProperty{
		Address:      address,
		Price:        p.Price,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		AreaSqft:     p.AreaSqft,
		DaysOnMarket: days,
		SaleDate:     p.CreatedAt.Format("2006-01-02"),
	}
}

func matchesFilter(p *model.Property, f model.PropertyFilter) bool {
	if f.Country != "" && !strings.EqualFold(p.Country, f.Country) {
		return false
	}
	if f.City != "" && !strings.EqualFold(p.City, f.City) {
		return false
	}
	if f.Type != "" && p.Type != f.Type {
		return false
	}
	if f.MinPrice.IsPositive() && p.Price.LessThan(f.MinPrice) {
		return false
	}
	if f.MaxPrice.IsPositive() && p.Price.GreaterThan(f.MaxPrice) {
		return false
	}
	if f.Bedrooms > 0 && p.Bedrooms < f.Bedrooms {
		return false
	}
	if f.Bathrooms > 0 && p.Bathrooms < f.Bathrooms {
		return false
	}
	if f.MinArea > 0 && p.AreaSqft < f.MinArea {
		return false
	}
	if f.MaxArea > 0 && p.AreaSqft > f.MaxArea {
		return false
	}
	return true
}

func paginate(items []model.Property, skip, limit int) []model.Property {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(items) {
		return []model.Property{}
	}
	items = items[skip:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
