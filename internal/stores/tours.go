package stores

import (
	"context"
	"sync"

	"tour-booking-platform/internal/api"
	"tour-booking-platform/internal/models"
)

// ToursPageSize is the backend page size for tour searches.
const ToursPageSize = 9

// TourFilter is the user-facing search state, translated into an OData
// query when fetching.
type TourFilter struct {
	Query    string
	MinPrice float64
	MaxPrice float64
	SortBy   string // "price_asc", "price_desc", "rating", ""
}

// TourFetcher is the slice of the API client the tour store needs.
type TourFetcher interface {
	Tours(ctx context.Context, q api.ODataQuery) (*api.TourPage, error)
}

// TourStore caches one filtered tour listing and extends it page by
// page. Changing the filter resets the cache.
type TourStore struct {
	client TourFetcher

	mu      sync.Mutex
	filter  TourFilter
	tours   []models.Tour
	total   int
	lastErr error
}

// NewTourStore creates a tour store over the API client.
func NewTourStore(client TourFetcher) *TourStore {
	return &TourStore{client: client}
}

// buildQuery translates the filter into OData parameters.
func buildQuery(filter TourFilter, skip int) api.ODataQuery {
	terms := []string{api.Eq("isDeleted", "false")}
	if filter.Query != "" {
		terms = append(terms, api.Contains("title", filter.Query))
	}
	if filter.MinPrice > 0 {
		terms = append(terms, api.Ge("onlyFromCost", filter.MinPrice))
	}
	if filter.MaxPrice > 0 {
		terms = append(terms, api.Le("onlyFromCost", filter.MaxPrice))
	}

	orderBy := ""
	switch filter.SortBy {
	case "price_asc":
		orderBy = "onlyFromCost asc"
	case "price_desc":
		orderBy = "onlyFromCost desc"
	case "rating":
		orderBy = "avgStar desc"
	}

	return api.ODataQuery{
		Filter:  api.And(terms...),
		Top:     ToursPageSize,
		Skip:    skip,
		OrderBy: orderBy,
		Count:   true,
	}
}

// Search replaces the filter and fetches the first page.
func (s *TourStore) Search(ctx context.Context, filter TourFilter) error {
	page, err := s.client.Tours(ctx, buildQuery(filter, 0))

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err
		return err
	}
	s.filter = filter
	s.tours = page.Tours
	s.total = page.Total
	s.lastErr = nil
	return nil
}

// LoadMore fetches the next page for the current filter and appends
// it to the cached listing.
func (s *TourStore) LoadMore(ctx context.Context) error {
	s.mu.Lock()
	filter := s.filter
	skip := len(s.tours)
	total := s.total
	s.mu.Unlock()

	if skip >= total {
		return nil
	}

	page, err := s.client.Tours(ctx, buildQuery(filter, skip))

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err
		return err
	}
	s.tours = append(s.tours, page.Tours...)
	s.total = page.Total
	s.lastErr = nil
	return nil
}

// Tours returns the cached listing.
func (s *TourStore) Tours() []models.Tour {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Tour, len(s.tours))
	copy(out, s.tours)
	return out
}

// Total returns the backend's total match count for the filter.
func (s *TourStore) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// HasMore reports whether the backend has more matches than cached.
func (s *TourStore) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tours) < s.total
}

// Filter returns the active filter.
func (s *TourStore) Filter() TourFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Err returns the last fetch error, if any.
func (s *TourStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
