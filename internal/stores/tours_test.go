package stores

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"tour-booking-platform/internal/api"
	"tour-booking-platform/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTourFetcher struct {
	tours   []models.Tour
	err     error
	queries []api.ODataQuery
}

func (f *fakeTourFetcher) Tours(ctx context.Context, q api.ODataQuery) (*api.TourPage, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	end := q.Skip + q.Top
	if end > len(f.tours) {
		end = len(f.tours)
	}
	start := q.Skip
	if start > len(f.tours) {
		start = len(f.tours)
	}
	return &api.TourPage{Tours: f.tours[start:end], Total: len(f.tours)}, nil
}

func tourList(n int) []models.Tour {
	out := make([]models.Tour, n)
	for i := range out {
		out[i] = models.Tour{ID: fmt.Sprintf("tour-%d", i), Title: fmt.Sprintf("Tour %d", i)}
	}
	return out
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name       string
		filter     TourFilter
		skip       int
		wantFilter string
		wantOrder  string
	}{
		{
			name:       "bare filter still excludes deleted",
			filter:     TourFilter{},
			wantFilter: "isDeleted eq 'false'",
		},
		{
			name:       "search term",
			filter:     TourFilter{Query: "safari"},
			wantFilter: "isDeleted eq 'false' and contains(title,'safari')",
		},
		{
			name:       "price range",
			filter:     TourFilter{MinPrice: 100, MaxPrice: 5000},
			wantFilter: "isDeleted eq 'false' and onlyFromCost ge 100 and onlyFromCost le 5000",
		},
		{
			name:      "price ascending",
			filter:    TourFilter{SortBy: "price_asc"},
			wantOrder: "onlyFromCost asc",
		},
		{
			name:      "rating sort",
			filter:    TourFilter{SortBy: "rating"},
			wantOrder: "avgStar desc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := buildQuery(tt.filter, tt.skip)
			if tt.wantFilter != "" {
				assert.Equal(t, tt.wantFilter, q.Filter)
			}
			assert.Equal(t, tt.wantOrder, q.OrderBy)
			assert.Equal(t, ToursPageSize, q.Top)
			assert.Equal(t, tt.skip, q.Skip)
			assert.True(t, q.Count)
		})
	}
}

func TestTourStoreSearch(t *testing.T) {
	fetcher := &fakeTourFetcher{tours: tourList(12)}
	store := NewTourStore(fetcher)

	require.NoError(t, store.Search(context.Background(), TourFilter{Query: "safari"}))

	assert.Len(t, store.Tours(), ToursPageSize)
	assert.Equal(t, 12, store.Total())
	assert.True(t, store.HasMore())
	assert.Equal(t, "safari", store.Filter().Query)

	require.Len(t, fetcher.queries, 1)
	assert.Equal(t, 0, fetcher.queries[0].Skip)
}

func TestTourStoreLoadMore(t *testing.T) {
	fetcher := &fakeTourFetcher{tours: tourList(12)}
	store := NewTourStore(fetcher)
	require.NoError(t, store.Search(context.Background(), TourFilter{}))

	require.NoError(t, store.LoadMore(context.Background()))

	assert.Len(t, store.Tours(), 12)
	assert.False(t, store.HasMore())

	require.Len(t, fetcher.queries, 2)
	assert.Equal(t, ToursPageSize, fetcher.queries[1].Skip, "next page continues where the cache ends")

	// Nothing left: no fetch issued.
	require.NoError(t, store.LoadMore(context.Background()))
	assert.Len(t, fetcher.queries, 2)
}

func TestTourStoreSearchResetsCache(t *testing.T) {
	fetcher := &fakeTourFetcher{tours: tourList(12)}
	store := NewTourStore(fetcher)
	require.NoError(t, store.Search(context.Background(), TourFilter{}))
	require.NoError(t, store.LoadMore(context.Background()))
	require.Len(t, store.Tours(), 12)

	require.NoError(t, store.Search(context.Background(), TourFilter{Query: "diani"}))
	assert.Len(t, store.Tours(), ToursPageSize, "a new search starts from the first page")
}

func TestTourStoreSearchError(t *testing.T) {
	fetchErr := errors.New("backend down")
	store := NewTourStore(&fakeTourFetcher{err: fetchErr})

	err := store.Search(context.Background(), TourFilter{})
	require.Error(t, err)
	assert.ErrorIs(t, store.Err(), fetchErr)
	assert.Empty(t, store.Tours())
}
