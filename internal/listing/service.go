// Package listing provides the HTTP handlers for the property listing
// backend: listing CRUD and search, valuation, and mortgage endpoints.
//
// Handlers are thin plumbing: request mapping, persistence, and event
// broadcasting. All algorithmic decisions live in the valuation and
// mortgage engines.
package listing

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/propfolio/listing-engine/internal/metrics"
	"github.com/propfolio/listing-engine/internal/model"
	"github.com/propfolio/listing-engine/internal/mortgage"
	"github.com/propfolio/listing-engine/internal/store"
	"github.com/propfolio/listing-engine/internal/valuation"
)

var validPropertyTypes = map[model.PropertyType]bool{
	model.TypeApartment:  true,
	model.TypeVilla:      true,
	model.TypeTownhouse:  true,
	model.TypePenthouse:  true,
	model.TypeLand:       true,
	model.TypeCommercial: true,
}

var validStatuses = map[model.PropertyStatus]bool{
	model.StatusAvailable: true,
	model.StatusSold:      true,
	model.StatusReserved:  true,
	model.StatusOffMarket: true,
}

// Service handles listing operations. Stateless apart from its
// collaborators; safe for concurrent use.
type Service struct {
	store    store.Store
	valuer   *valuation.Engine
	mortgage *mortgage.Engine
	wsHub    *WSHub // optional WebSocket hub for event broadcasts

	defaultCountry  string
	defaultLoanType string
}

// NewService creates a new listing service. Pass nil for hub if WebSocket
// broadcasting is not needed.
func NewService(st store.Store, valuer *valuation.Engine, mtg *mortgage.Engine, hub *WSHub) *Service {
	return &Service{
		store:           st,
		valuer:          valuer,
		mortgage:        mtg,
		wsHub:           hub,
		defaultCountry:  mortgage.DefaultCountry,
		defaultLoanType: mortgage.LoanConventional30,
	}
}

// SetMortgageDefaults overrides the fallback country and loan type used
// when a request omits them.
func (s *Service) SetMortgageDefaults(country, loanType string) {
	if country != "" {
		s.defaultCountry = country
	}
	if loanType != "" {
		s.defaultLoanType = loanType
	}
}

// --- Request/Response types ---

// CreatePropertyRequest is the JSON body for listing creation.
type CreatePropertyRequest struct {
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	Type          model.PropertyType `json:"property_type"`
	Country       string             `json:"country"`
	City          string             `json:"city"`
	Area          string             `json:"area"`
	Address       string             `json:"address"`
	Bedrooms      int                `json:"bedrooms"`
	Bathrooms     int                `json:"bathrooms"`
	AreaSqft      float64            `json:"area_sqft"`
	Price         decimal.Decimal    `json:"price"`
	DeveloperName string             `json:"developer_name"`
	Features      []string           `json:"features"`
}

// UpdatePropertyRequest is the JSON body for a partial listing update.
// Nil fields are left unchanged.
type UpdatePropertyRequest struct {
	Title       *string               `json:"title"`
	Description *string               `json:"description"`
	Price       *decimal.Decimal      `json:"price"`
	Status      *model.PropertyStatus `json:"status"`
	Bedrooms    *int                  `json:"bedrooms"`
	Bathrooms   *int                  `json:"bathrooms"`
}

// ValuationRequest is the JSON body for an ad-hoc subject valuation.
type ValuationRequest struct {
	Address  string             `json:"address"`
	City     string             `json:"city"`
	Country  string             `json:"country"`
	Price    decimal.Decimal    `json:"price"`
	Bedrooms int                `json:"bedrooms"`
	Bathrooms int               `json:"bathrooms"`
	AreaSqft float64            `json:"area_sqft"`
	Type     model.PropertyType `json:"property_type"`
}

// MortgageCalculationRequest is the JSON body for POST /mortgage/calculate.
type MortgageCalculationRequest struct {
	PropertyPrice decimal.Decimal `json:"property_price"`
	DownPayment   decimal.Decimal `json:"down_payment"`
	TermYears     int             `json:"loan_term_years"`
	RatePct       *float64        `json:"interest_rate"`
	Country       string          `json:"country"`
	LoanType      string          `json:"loan_type"`
}

// MortgageEligibilityRequest is the JSON body for POST /mortgage/eligibility.
type MortgageEligibilityRequest struct {
	PropertyPrice decimal.Decimal `json:"property_price"`
	AnnualIncome  decimal.Decimal `json:"annual_income"`
	MonthlyDebts  decimal.Decimal `json:"monthly_debts"`
	CreditScore   int             `json:"credit_score"`
	DownPayment   decimal.Decimal `json:"down_payment"`
}

// --- Property handlers ---

// CreateProperty handles POST /api/v1/properties
func (s *Service) CreateProperty(w http.ResponseWriter, r *http.Request) {
	var req CreatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Title == "" {
		writeError(w, "title is required", http.StatusBadRequest)
		return
	}
	if !validPropertyTypes[req.Type] {
		writeError(w, "invalid property_type", http.StatusBadRequest)
		return
	}
	if req.Country == "" || req.City == "" {
		writeError(w, "country and city are required", http.StatusBadRequest)
		return
	}
	if !req.Price.IsPositive() {
		writeError(w, "price must be positive", http.StatusBadRequest)
		return
	}

	now := time.Now().UTC()
	property := &model.Property{
		ID:            uuid.New().String(),
		Title:         req.Title,
		Description:   req.Description,
		Type:          req.Type,
		Status:        model.StatusAvailable,
		Country:       req.Country,
		City:          req.City,
		Area:          req.Area,
		Address:       req.Address,
		Bedrooms:      req.Bedrooms,
		Bathrooms:     req.Bathrooms,
		AreaSqft:      req.AreaSqft,
		Price:         req.Price,
		DeveloperName: req.DeveloperName,
		Features:      req.Features,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.store.CreateProperty(r.Context(), property); err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	metrics.PropertiesCreated.Inc()
	slog.Info("property created",
		"id", property.ID,
		"city", property.City,
		"type", property.Type,
		"price", property.Price.String(),
	)

	if s.wsHub != nil {
		s.wsHub.Broadcast(WSMessage{
			Type:       "property_created",
			PropertyID: property.ID,
			City:       property.City,
			Country:    property.Country,
			Price:      property.Price.String(),
		})
	}

	writeJSON(w, http.StatusCreated, property)
}

// GetProperty handles GET /api/v1/properties/{propertyID}
func (s *Service) GetProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "propertyID")

	property, err := s.store.GetProperty(r.Context(), id)
	if err != nil {
		writeError(w, "property not found", http.StatusNotFound)
		return
	}

	// View counting is best-effort.
	if err := s.store.IncrementViews(r.Context(), id); err == nil {
		property.Views++
	}

	writeJSON(w, http.StatusOK, property)
}

// SearchProperties handles GET /api/v1/properties
func (s *Service) SearchProperties(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	properties, err := s.store.SearchProperties(r.Context(), filter)
	if err != nil {
		writeError(w, "failed to search properties", http.StatusInternalServerError)
		return
	}
	if properties == nil {
		properties = []model.Property{}
	}

	writeJSON(w, http.StatusOK, properties)
}

// UpdateProperty handles PUT /api/v1/properties/{propertyID}
func (s *Service) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "propertyID")

	var req UpdatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	property, err := s.store.GetProperty(r.Context(), id)
	if err != nil {
		writeError(w, "property not found", http.StatusNotFound)
		return
	}

	if req.Title != nil {
		property.Title = *req.Title
	}
	if req.Description != nil {
		property.Description = *req.Description
	}
	if req.Price != nil {
		if !req.Price.IsPositive() {
			writeError(w, "price must be positive", http.StatusBadRequest)
			return
		}
		property.Price = *req.Price
	}
	if req.Status != nil {
		if !validStatuses[*req.Status] {
			writeError(w, "invalid status", http.StatusBadRequest)
			return
		}
		property.Status = *req.Status
	}
	if req.Bedrooms != nil {
		property.Bedrooms = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		property.Bathrooms = *req.Bathrooms
	}
	property.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateProperty(r.Context(), property); err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, property)
}

// DeleteProperty handles DELETE /api/v1/properties/{propertyID}
func (s *Service) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "propertyID")

	if err := s.store.DeleteProperty(r.Context(), id); err != nil {
		writeError(w, "property not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Valuation handlers ---

// ValueStoredProperty handles POST /api/v1/properties/{propertyID}/valuations
// Runs the valuation engine on a stored listing and persists the result.
func (s *Service) ValueStoredProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "propertyID")
	ctx := r.Context()

	property, err := s.store.GetProperty(ctx, id)
	if err != nil {
		writeError(w, "property not found", http.StatusNotFound)
		return
	}

	start := time.Now()
	result, err := s.valuer.ValueProperty(ctx, property.Subject(), nil)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	metrics.ValuationLatency.Observe(time.Since(start).Seconds())
	metrics.ValuationsTotal.WithLabelValues("stored").Inc()

	record := &model.ValuationRecord{
		ID:              uuid.New().String(),
		PropertyID:      property.ID,
		EstimatedValue:  result.EstimatedValue,
		ConfidenceScore: result.ConfidenceScore,
		Method:          "comparative",
		Result:          result,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.store.InsertValuation(ctx, record); err != nil {
		writeError(w, "failed to persist valuation", http.StatusInternalServerError)
		return
	}

	slog.Info("valuation completed",
		"property", property.ID,
		"estimated_value", result.EstimatedValue.String(),
		"confidence", result.ConfidenceScore,
		"good_buy", result.IsGoodBuy,
	)

	if s.wsHub != nil {
		s.wsHub.Broadcast(WSMessage{
			Type:            "valuation_completed",
			PropertyID:      property.ID,
			City:            property.City,
			Country:         property.Country,
			EstimatedValue:  result.EstimatedValue.String(),
			ConfidenceScore: strconv.FormatFloat(result.ConfidenceScore, 'f', -1, 64),
		})
	}

	writeJSON(w, http.StatusCreated, record)
}

// ListValuations handles GET /api/v1/properties/{propertyID}/valuations
func (s *Service) ListValuations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "propertyID")

	records, err := s.store.GetValuationsByProperty(r.Context(), id)
	if err != nil {
		writeError(w, "failed to load valuations", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []model.ValuationRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// ValueSubject handles POST /api/v1/valuation
// Values an ad-hoc subject without touching the store.
func (s *Service) ValueSubject(w http.ResponseWriter, r *http.Request) {
	var req ValuationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	subject := model.SubjectProperty{
		Price:     req.Price,
		Bedrooms:  req.Bedrooms,
		Bathrooms: req.Bathrooms,
		AreaSqft:  req.AreaSqft,
		City:      req.City,
		Country:   req.Country,
		Type:      req.Type,
	}

	start := time.Now()
	result, err := s.valuer.ValueProperty(r.Context(), subject, nil)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	metrics.ValuationLatency.Observe(time.Since(start).Seconds())
	metrics.ValuationsTotal.WithLabelValues("adhoc").Inc()

	writeJSON(w, http.StatusOK, result)
}

// --- Mortgage handlers ---

// CalculateMortgage handles POST /api/v1/mortgage/calculate
func (s *Service) CalculateMortgage(w http.ResponseWriter, r *http.Request) {
	var req MortgageCalculationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	terms := model.LoanTerms{
		PropertyPrice: req.PropertyPrice,
		DownPayment:   req.DownPayment,
		TermYears:     req.TermYears,
		RatePct:       req.RatePct,
		Country:       req.Country,
		LoanType:      req.LoanType,
	}
	if terms.TermYears == 0 {
		terms.TermYears = 30
	}
	if terms.Country == "" {
		terms.Country = s.defaultCountry
	}
	if terms.LoanType == "" {
		terms.LoanType = s.defaultLoanType
	}

	result, err := s.mortgage.Calculate(r.Context(), terms)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	metrics.MortgageCalculationsTotal.WithLabelValues("calculate").Inc()

	writeJSON(w, http.StatusOK, result)
}

// CheckEligibility handles POST /api/v1/mortgage/eligibility
func (s *Service) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	var req MortgageEligibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := s.mortgage.CheckEligibility(r.Context(),
		req.PropertyPrice, req.AnnualIncome, req.MonthlyDebts, req.DownPayment, req.CreditScore)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	metrics.MortgageCalculationsTotal.WithLabelValues("eligibility").Inc()

	writeJSON(w, http.StatusOK, result)
}

// --- Helpers ---

// filterFromQuery parses search filters from query parameters.
func filterFromQuery(r *http.Request) (model.PropertyFilter, error) {
	q := r.URL.Query()
	var f model.PropertyFilter

	f.Country = q.Get("country")
	f.City = q.Get("city")
	f.Type = model.PropertyType(q.Get("property_type"))
	if f.Type != "" && !validPropertyTypes[f.Type] {
		return f, errors.New("invalid property_type")
	}

	var err error
	if v := q.Get("min_price"); v != "" {
		if f.MinPrice, err = decimal.NewFromString(v); err != nil {
			return f, errors.New("invalid min_price")
		}
	}
	if v := q.Get("max_price"); v != "" {
		if f.MaxPrice, err = decimal.NewFromString(v); err != nil {
			return f, errors.New("invalid max_price")
		}
	}
	if v := q.Get("bedrooms"); v != "" {
		if f.Bedrooms, err = strconv.Atoi(v); err != nil {
			return f, errors.New("invalid bedrooms")
		}
	}
	if v := q.Get("bathrooms"); v != "" {
		if f.Bathrooms, err = strconv.Atoi(v); err != nil {
			return f, errors.New("invalid bathrooms")
		}
	}
	if v := q.Get("min_area"); v != "" {
		if f.MinArea, err = strconv.ParseFloat(v, 64); err != nil {
			return f, errors.New("invalid min_area")
		}
	}
	if v := q.Get("max_area"); v != "" {
		if f.MaxArea, err = strconv.ParseFloat(v, 64); err != nil {
			return f, errors.New("invalid max_area")
		}
	}
	if v := q.Get("skip"); v != "" {
		if f.Skip, err = strconv.Atoi(v); err != nil {
			return f, errors.New("invalid skip")
		}
	}
	if v := q.Get("limit"); v != "" {
		if f.Limit, err = strconv.Atoi(v); err != nil {
			return f, errors.New("invalid limit")
		}
	}
	return f, nil
}

// writeEngineError maps engine validation failures to 400 and everything
// else to 500.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, valuation.ErrInvalidPrice),
		errors.Is(err, valuation.ErrInvalidArea),
		errors.Is(err, mortgage.ErrInvalidPrice),
		errors.Is(err, mortgage.ErrInvalidTerm),
		errors.Is(err, mortgage.ErrInvalidRate),
		errors.Is(err, mortgage.ErrInvalidIncome),
		errors.Is(err, mortgage.ErrInvalidCreditScore):
		writeError(w, err.Error(), http.StatusBadRequest)
	default:
		writeError(w, err.Error(), http.StatusInternalServerError)
	}
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
