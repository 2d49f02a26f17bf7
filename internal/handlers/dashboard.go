package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"tour-booking-platform/internal/api"
	"tour-booking-platform/internal/middleware"
	"tour-booking-platform/internal/models"
	"tour-booking-platform/internal/stores"

	"github.com/go-chi/chi/v5"
)

// DashboardHandler handles the signed-in user's orders and profile
type DashboardHandler struct {
	client *api.Client
	orders *stores.OrderStore
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(client *api.Client, orders *stores.OrderStore) *DashboardHandler {
	return &DashboardHandler{
		client: client,
		orders: orders,
	}
}

type ordersPageData struct {
	pageBase
	Orders  []models.Order
	HasMore bool
	Error   string
}

// Orders displays the user's order history, newest first
func (h *DashboardHandler) Orders(w http.ResponseWriter, r *http.Request) {
	ac := middleware.GetAuthFromContext(r.Context())

	data := ordersPageData{pageBase: newPageBase(r, "My orders", 0)}
	if err := h.orders.Load(r.Context(), ac); err != nil {
		data.Error = "Could not load your orders right now."
	}
	data.Orders = h.orders.Visible(ac)
	data.HasMore = h.orders.HasMore(ac)

	renderPage(w, "orders.html", data)
}

// OrdersFragment reveals the next page of already-fetched orders
func (h *DashboardHandler) OrdersFragment(w http.ResponseWriter, r *http.Request) {
	ac := middleware.GetAuthFromContext(r.Context())

	shown := len(h.orders.Visible(ac))
	h.orders.LoadMore(ac)
	all := h.orders.Visible(ac)
	if shown > len(all) {
		shown = len(all)
	}

	renderPartial(w, "order_cards", ordersPageData{
		Orders:  all[shown:],
		HasMore: h.orders.HasMore(ac),
	})
}

type orderDetailData struct {
	pageBase
	Order *models.Order
}

// OrderDetail displays one order with its ticket lines
func (h *DashboardHandler) OrderDetail(w http.ResponseWriter, r *http.Request) {
	ac := middleware.GetAuthFromContext(r.Context())
	orderID := chi.URLParam(r, "id")

	order, err := h.client.OrderDetail(r.Context(), ac, orderID)
	if err != nil {
		if errors.Is(err, models.ErrOrderNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "Failed to load order", http.StatusBadGateway)
		return
	}

	renderPage(w, "order_detail.html", orderDetailData{
		pageBase: newPageBase(r, "Order "+order.RefCode, 0),
		Order:    order,
	})
}

// CancelOrder voids an unpaid order and refreshes the cached list
func (h *DashboardHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	ac := middleware.GetAuthFromContext(r.Context())
	orderID := chi.URLParam(r, "id")

	if err := h.client.CancelOrder(r.Context(), ac, orderID); err != nil {
		log.Printf("orders: cancel %s: %v", orderID, err)
		http.Error(w, "Failed to cancel order", http.StatusBadGateway)
		return
	}

	h.orders.Refresh(ac)
	handleRedirect(w, r, "/dashboard/orders", http.StatusSeeOther)
}

// RateOrder submits a tour review attached to a paid order
func (h *DashboardHandler) RateOrder(w http.ResponseWriter, r *http.Request) {
	ac := middleware.GetAuthFromContext(r.Context())
	orderID := chi.URLParam(r, "id")

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	star, err := strconv.Atoi(r.FormValue("star"))
	if err != nil || star < 1 || star > 5 {
		writeHTMXError(w, http.StatusBadRequest, "Pick a rating between 1 and 5 stars.")
		return
	}

	order, err := h.client.OrderDetail(r.Context(), ac, orderID)
	if err != nil {
		writeHTMXError(w, http.StatusBadGateway, "Could not look up the order.")
		return
	}
	if !order.CanBeRated() {
		writeHTMXError(w, http.StatusBadRequest, "This order cannot be rated.")
		return
	}

	req := models.RatingRequest{
		OrderID: order.ID,
		TourID:  order.TourID,
		Star:    star,
		Comment: r.FormValue("comment"),
	}
	if err := h.client.RateTour(r.Context(), ac, req); err != nil {
		writeHTMXError(w, http.StatusBadGateway, "Could not submit your review.")
		return
	}

	h.orders.Refresh(ac)
	writeHTMXSuccess(w, "Thanks for your review!")
}

type profilePageData struct {
	pageBase
	Profile *api.Profile
	Wallet  *api.Wallet
	Error   string
}

// Profile displays the account page with the wallet balance
func (h *DashboardHandler) Profile(w http.ResponseWriter, r *http.Request) {
	ac := middleware.GetAuthFromContext(r.Context())

	data := profilePageData{pageBase: newPageBase(r, "Profile", 0)}

	profile, err := h.client.GetProfile(r.Context(), ac)
	if err != nil {
		data.Error = "Could not load your profile."
		data.Profile = &api.Profile{}
		renderPage(w, "profile.html", data)
		return
	}
	data.Profile = profile

	// The wallet is optional; the page renders without it.
	if wallet, err := h.client.GetWallet(r.Context(), ac); err == nil {
		data.Wallet = wallet
	}

	renderPage(w, "profile.html", data)
}

// UploadAvatar stores a new profile picture through the media endpoint
func (h *DashboardHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	ac := middleware.GetAuthFromContext(r.Context())

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeHTMXError(w, http.StatusBadRequest, "Invalid upload.")
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeHTMXError(w, http.StatusBadRequest, "Pick an image to upload.")
		return
	}
	defer file.Close()

	if _, err := h.client.UploadMedia(r.Context(), ac, header.Filename, file); err != nil {
		log.Printf("profile: upload avatar: %v", err)
		writeHTMXError(w, http.StatusBadGateway, "Could not upload the image.")
		return
	}

	writeHTMXSuccess(w, "Profile photo updated. Reload to see it.")
}
