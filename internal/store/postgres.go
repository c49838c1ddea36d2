package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/propfolio/listing-engine/internal/model"
)

// PostgresStore implements Store using PostgreSQL as the source of truth.
// All monetary values are stored as NUMERIC for exact decimal precision;
// features and valuation results are stored as JSONB.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const propertyColumns = `id, title, description, property_type, status,
	country, city, area, address, bedrooms, bathrooms, area_sqft,
	price::TEXT, developer_name, features, views, created_at, updated_at`

func (s *PostgresStore) CreateProperty(ctx context.Context, p *model.Property) error {
	features, err := json.Marshal(p.Features)
	if err != nil {
		return fmt.Errorf("marshal features: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO properties (id, title, description, property_type, status,
		    country, city, area, address, bedrooms, bathrooms, area_sqft,
		    price, developer_name, features, views, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
		    $13::NUMERIC, $14, $15, $16, $17, $18)`,
		p.ID, p.Title, p.Description, p.Type, p.Status,
		p.Country, p.City, p.Area, p.Address, p.Bedrooms, p.Bathrooms, p.AreaSqft,
		p.Price.String(), p.DeveloperName, features, p.Views, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (s *PostgresStore) GetProperty(ctx context.Context, id string) (*model.Property, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE id = $1`, id)

	p, err := scanProperty(row)
	if err != nil {
		return nil, fmt.Errorf("get property %s: %w", id, err)
	}
	return p, nil
}

func (s *PostgresStore) SearchProperties(ctx context.Context, filter model.PropertyFilter) ([]model.Property, error) {
	query, args := buildSearchQuery(filter)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var properties []model.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		properties = append(properties, *p)
	}
	return properties, rows.Err()
}

func (s *PostgresStore) UpdateProperty(ctx context.Context, p *model.Property) error {
	features, err := json.Marshal(p.Features)
	if err != nil {
		return fmt.Errorf("marshal features: %w", err)
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE properties
		 SET title = $2, description = $3, property_type = $4, status = $5,
		     country = $6, city = $7, area = $8, address = $9,
		     bedrooms = $10, bathrooms = $11, area_sqft = $12,
		     price = $13::NUMERIC, developer_name = $14, features = $15,
		     updated_at = $16
		 WHERE id = $1`,
		p.ID, p.Title, p.Description, p.Type, p.Status,
		p.Country, p.City, p.Area, p.Address,
		p.Bedrooms, p.Bathrooms, p.AreaSqft,
		p.Price.String(), p.DeveloperName, features, p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteProperty(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) IncrementViews(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE properties SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) InsertValuation(ctx context.Context, v *model.ValuationRecord) error {
	result, err := json.Marshal(v.Result)
	if err != nil {
		return fmt.Errorf("marshal valuation result: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO property_valuations (id, property_id, estimated_value,
		    confidence_score, valuation_method, result, created_at)
		 VALUES ($1, $2, $3::NUMERIC, $4, $5, $6, $7)`,
		v.ID, v.PropertyID, v.EstimatedValue.String(),
		v.ConfidenceScore, v.Method, result, v.CreatedAt,
	)
	return err
}

func (s *PostgresStore) GetValuationsByProperty(ctx context.Context, propertyID string) ([]model.ValuationRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, property_id, estimated_value::TEXT, confidence_score,
		        valuation_method, result, created_at
		 FROM property_valuations WHERE property_id = $1 ORDER BY created_at DESC`,
		propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.ValuationRecord
	for rows.Next() {
		var v model.ValuationRecord
		var estimated string
		var result []byte

		if err := rows.Scan(&v.ID, &v.PropertyID, &estimated,
			&v.ConfidenceScore, &v.Method, &result, &v.CreatedAt); err != nil {
			return nil, err
		}
		v.EstimatedValue, _ = decimal.NewFromString(estimated)
		if err := json.Unmarshal(result, &v.Result); err != nil {
			return nil, fmt.Errorf("unmarshal valuation result: %w", err)
		}
		records = append(records, v)
	}
	return records, rows.Err()
}

// FindComparables maps available listings in the subject's city and of the
// subject's type into comparables, newest first.
func (s *PostgresStore) FindComparables(ctx context.Context, subject model.SubjectProperty, limit int) ([]model.ComparableProperty, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT COALESCE(NULLIF(address, ''), title), price::TEXT,
		        bedrooms, bathrooms, area_sqft, created_at
		 FROM properties
		 WHERE status = 'available'
		   AND LOWER(city) = LOWER($1)
		   AND ($2 = '' OR property_type = $2)
		 ORDER BY created_at DESC
		 LIMIT $3`,
		subject.City, string(subject.Type), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	now := time.Now().UTC()
	var comps []model.ComparableProperty
	for rows.Next() {
		var c model.ComparableProperty
		var price string
		var createdAt time.Time

		if err := rows.Scan(&c.Address, &price, &c.Bedrooms, &c.Bathrooms,
			&c.AreaSqft, &createdAt); err != nil {
			return nil, err
		}
		c.Price, _ = decimal.NewFromString(price)
		c.DaysOnMarket = int(now.Sub(createdAt).Hours() / 24)
		if c.DaysOnMarket < 0 {
			c.DaysOnMarket = 0
		}
		c.SaleDate = createdAt.Format("2006-01-02")
		comps = append(comps, c)
	}
	return comps, rows.Err()
}

// buildSearchQuery assembles the filtered listing query with positional
// parameters.
func buildSearchQuery(f model.PropertyFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	add := func(cond string, val interface{}) {
		args = append(args, val)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if f.Country != "" {
		add("LOWER(country) = LOWER($%d)", f.Country)
	}
	if f.City != "" {
		add("LOWER(city) = LOWER($%d)", f.City)
	}
	if f.Type != "" {
		add("property_type = $%d", string(f.Type))
	}
	if f.MinPrice.IsPositive() {
		add("price >= $%d::NUMERIC", f.MinPrice.String())
	}
	if f.MaxPrice.IsPositive() {
		add("price <= $%d::NUMERIC", f.MaxPrice.String())
	}
	if f.Bedrooms > 0 {
		add("bedrooms >= $%d", f.Bedrooms)
	}
	if f.Bathrooms > 0 {
		add("bathrooms >= $%d", f.Bathrooms)
	}
	if f.MinArea > 0 {
		add("area_sqft >= $%d", f.MinArea)
	}
	if f.MaxArea > 0 {
		add("area_sqft <= $%d", f.MaxArea)
	}

	query := `SELECT ` + propertyColumns + ` FROM properties`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	if f.Skip > 0 {
		args = append(args, f.Skip)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	return query, args
}

type pgxRow interface {
	Scan(dest ...interface{}) error
}

func scanProperty(row pgxRow) (*model.Property, error) {
	var p model.Property
	var price string
	var features []byte

	if err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Type, &p.Status,
		&p.Country, &p.City, &p.Area, &p.Address,
		&p.Bedrooms, &p.Bathrooms, &p.AreaSqft,
		&price, &p.DeveloperName, &features, &p.Views,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}

	p.Price, _ = decimal.NewFromString(price)
	if len(features) > 0 {
		if err := json.Unmarshal(features, &p.Features); err != nil {
			return nil, fmt.Errorf("unmarshal features: %w", err)
		}
	}
	return &p, nil
}
