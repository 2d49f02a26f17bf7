package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"tour-booking-platform/internal/auth"
	"tour-booking-platform/internal/models"
)

// TourPage is one page of the tour catalog plus the total match count
// reported by `$count`.
type TourPage struct {
	Tours []models.Tour
	Total int
}

// odataCollection matches the backend's OData collection envelope.
type odataCollection struct {
	Count int             `json:"@odata.count"`
	Value json.RawMessage `json:"value"`
}

// Tours fetches a page of the tour catalog. The query controls
// filtering, ordering and paging via OData parameters.
func (c *Client) Tours(ctx context.Context, q ODataQuery) (*TourPage, error) {
	var envelope odataCollection
	path := "/odata/tour" + q.Encode()
	if err := c.DoJSON(ctx, &auth.Context{}, http.MethodGet, path, nil, &envelope, &Options{SkipAuth: true}); err != nil {
		return nil, err
	}

	var tours []models.Tour
	if len(envelope.Value) > 0 {
		if err := json.Unmarshal(envelope.Value, &tours); err != nil {
			return nil, fmt.Errorf("failed to decode tour collection: %w", err)
		}
	}
	return &TourPage{Tours: tours, Total: envelope.Count}, nil
}

// TourDetail fetches one tour by ID.
func (c *Client) TourDetail(ctx context.Context, tourID string) (*models.Tour, error) {
	var tour models.Tour
	path := "/tour/" + tourID
	if err := c.DoJSON(ctx, &auth.Context{}, http.MethodGet, path, nil, &tour, &Options{SkipAuth: true}); err != nil {
		if IsStatus(err, http.StatusNotFound) {
			return nil, models.ErrTourNotFound
		}
		return nil, err
	}
	return &tour, nil
}

// TourSchedules fetches the departures of a tour with per-schedule
// ticket availability and pricing.
func (c *Client) TourSchedules(ctx context.Context, tourID string) ([]models.TourSchedule, error) {
	var schedules []models.TourSchedule
	path := "/tour/schedule/" + tourID
	if err := c.DoJSON(ctx, &auth.Context{}, http.MethodGet, path, nil, &schedules, &Options{SkipAuth: true}); err != nil {
		if IsStatus(err, http.StatusNotFound) {
			return nil, models.ErrScheduleNotFound
		}
		return nil, err
	}
	return schedules, nil
}

// RateTour submits a rating for a paid order.
func (c *Client) RateTour(ctx context.Context, ac *auth.Context, req models.RatingRequest) error {
	return c.DoJSON(ctx, ac, http.MethodPost, "/tour/rating", req, nil, nil)
}

// TourRatings fetches the reviews of a tour.
func (c *Client) TourRatings(ctx context.Context, tourID string) ([]models.Rating, error) {
	var ratings []models.Rating
	path := "/tour/rating/" + tourID
	if err := c.DoJSON(ctx, &auth.Context{}, http.MethodGet, path, nil, &ratings, &Options{SkipAuth: true}); err != nil {
		return nil, err
	}
	return ratings, nil
}
