package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"tour-booking-platform/internal/api"
	"tour-booking-platform/internal/cart"
	"tour-booking-platform/internal/models"
	"tour-booking-platform/internal/stores"

	"github.com/go-chi/chi/v5"
)

// TourHandler handles the public tour catalog pages
type TourHandler struct {
	client *api.Client
	tours  *stores.TourStore
	cart   *cart.Store
}

// NewTourHandler creates a new tour handler
func NewTourHandler(client *api.Client, tours *stores.TourStore, cartStore *cart.Store) *TourHandler {
	return &TourHandler{
		client: client,
		tours:  tours,
		cart:   cartStore,
	}
}

type tourListData struct {
	pageBase
	Tours    []models.Tour
	Total    int
	HasMore  bool
	NextSkip int
	Query    string
	MinPrice string
	MaxPrice string
	SortBy   string
	Error    string
}

func (h *TourHandler) cartCount() int {
	state := h.cart.State()
	n := 0
	for _, item := range state.Items {
		n += item.TotalQuantity()
	}
	return n
}

func parseFilter(r *http.Request) stores.TourFilter {
	q := r.URL.Query()
	filter := stores.TourFilter{
		Query:  strings.TrimSpace(q.Get("q")),
		SortBy: q.Get("sort"),
	}
	if v, err := strconv.ParseFloat(q.Get("min_price"), 64); err == nil && v > 0 {
		filter.MinPrice = v
	}
	if v, err := strconv.ParseFloat(q.Get("max_price"), 64); err == nil && v > 0 {
		filter.MaxPrice = v
	}
	return filter
}

// ListTours displays the searchable tour catalog
func (h *TourHandler) ListTours(w http.ResponseWriter, r *http.Request) {
	filter := parseFilter(r)

	data := tourListData{
		pageBase: newPageBase(r, "Tours", h.cartCount()),
		Query:    filter.Query,
		SortBy:   filter.SortBy,
	}
	if filter.MinPrice > 0 {
		data.MinPrice = strconv.FormatFloat(filter.MinPrice, 'f', -1, 64)
	}
	if filter.MaxPrice > 0 {
		data.MaxPrice = strconv.FormatFloat(filter.MaxPrice, 'f', -1, 64)
	}

	if err := h.tours.Search(r.Context(), filter); err != nil {
		data.Error = "Could not load tours right now. Please try again."
	}
	data.Tours = h.tours.Tours()
	data.Total = h.tours.Total()
	data.HasMore = h.tours.HasMore()
	data.NextSkip = len(data.Tours)

	renderPage(w, "tours.html", data)
}

// ToursFragment serves the next page of tour cards for the load-more button
func (h *TourHandler) ToursFragment(w http.ResponseWriter, r *http.Request) {
	if err := h.tours.LoadMore(r.Context()); err != nil {
		writeHTMXError(w, http.StatusBadGateway, "Could not load more tours.")
		return
	}

	all := h.tours.Tours()
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	if skip < 0 || skip > len(all) {
		skip = len(all)
	}

	renderPartial(w, "tour_cards", tourListData{
		Tours:    all[skip:],
		HasMore:  h.tours.HasMore(),
		NextSkip: len(all),
		Query:    h.tours.Filter().Query,
	})
}

type tourDetailData struct {
	pageBase
	Tour      *models.Tour
	Schedules []models.TourSchedule
	Ratings   []models.Rating
}

// TourDetail displays a single tour with its schedules and reviews
func (h *TourHandler) TourDetail(w http.ResponseWriter, r *http.Request) {
	tourID := chi.URLParam(r, "id")

	tour, err := h.client.TourDetail(r.Context(), tourID)
	if err != nil {
		if errors.Is(err, models.ErrTourNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "Failed to load tour", http.StatusBadGateway)
		return
	}

	schedules, err := h.client.TourSchedules(r.Context(), tourID)
	if err != nil {
		http.Error(w, "Failed to load tour schedules", http.StatusBadGateway)
		return
	}

	// Reviews are nice to have; the page still renders without them.
	ratings, err := h.client.TourRatings(r.Context(), tourID)
	if err != nil {
		ratings = nil
	}

	renderPage(w, "tour_detail.html", tourDetailData{
		pageBase:  newPageBase(r, tour.Title, h.cartCount()),
		Tour:      tour,
		Schedules: schedules,
		Ratings:   ratings,
	})
}
