package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"tour-booking-platform/internal/api"
	"tour-booking-platform/internal/cart"
	"tour-booking-platform/internal/models"
)

// CartHandler handles the shopping cart pages and HTMX fragments. The
// cart itself lives in the durable cart store so every running
// instance sees the same state.
type CartHandler struct {
	client *api.Client
	cart   *cart.Store
}

// NewCartHandler creates a new cart handler
func NewCartHandler(client *api.Client, cartStore *cart.Store) *CartHandler {
	return &CartHandler{
		client: client,
		cart:   cartStore,
	}
}

type cartPageData struct {
	pageBase
	Cart models.CartState
}

func (h *CartHandler) pageData(r *http.Request) cartPageData {
	state := h.cart.State()
	count := 0
	for _, item := range state.Items {
		count += item.TotalQuantity()
	}
	return cartPageData{
		pageBase: newPageBase(r, "Cart", count),
		Cart:     state,
	}
}

// ViewCart displays the shopping cart
func (h *CartHandler) ViewCart(w http.ResponseWriter, r *http.Request) {
	renderPage(w, "cart.html", h.pageData(r))
}

// AddToCart adds ticket selections for one tour schedule to the cart.
// Adding a schedule that is already in the cart merges quantities into
// the existing line instead of creating a duplicate.
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	tourID := r.FormValue("tour_id")
	scheduleID := r.FormValue("tour_schedule_id")
	if tourID == "" || scheduleID == "" {
		writeHTMXError(w, http.StatusBadRequest, "Missing tour or schedule.")
		return
	}

	tour, err := h.client.TourDetail(r.Context(), tourID)
	if err != nil {
		writeHTMXError(w, http.StatusBadGateway, "Could not look up the tour.")
		return
	}
	schedules, err := h.client.TourSchedules(r.Context(), tourID)
	if err != nil {
		writeHTMXError(w, http.StatusBadGateway, "Could not look up the schedule.")
		return
	}

	var schedule *models.TourSchedule
	for i := range schedules {
		if schedules[i].ID == scheduleID {
			schedule = &schedules[i]
			break
		}
	}
	if schedule == nil {
		writeHTMXError(w, http.StatusNotFound, "That departure no longer exists.")
		return
	}

	// Quantities come in as qty_<ticketTypeID> form fields.
	item := models.CartItem{
		TourScheduleID: schedule.ID,
		TourID:         tour.ID,
		TourTitle:      tour.Title,
		ScheduleDate:   schedule.Day,
	}
	for key, values := range r.PostForm {
		if !strings.HasPrefix(key, "qty_") || len(values) == 0 {
			continue
		}
		qty, err := strconv.Atoi(values[0])
		if err != nil || qty <= 0 {
			continue
		}
		ticketTypeID := strings.TrimPrefix(key, "qty_")
		tt := schedule.FindTicketType(ticketTypeID)
		if tt == nil {
			writeHTMXError(w, http.StatusBadRequest, "Unknown ticket type.")
			return
		}
		if qty > tt.AvailableQty {
			writeHTMXError(w, http.StatusBadRequest,
				fmt.Sprintf("Only %d %s ticket(s) left for this date.", tt.AvailableQty, tt.Kind))
			return
		}
		item.Tickets = append(item.Tickets, models.TicketSelection{
			TicketTypeID: tt.ID,
			Kind:         tt.Kind,
			Quantity:     qty,
			UnitPrice:    tt.NetCost,
		})
	}

	if len(item.Tickets) == 0 {
		writeHTMXError(w, http.StatusBadRequest, "Pick at least one ticket.")
		return
	}

	if err := h.cart.AddItem(item); err != nil {
		writeHTMXError(w, http.StatusInternalServerError, "Could not update the cart. Please try again.")
		return
	}

	total := h.cart.State().Total()
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprintf(w, `
		<div class="bg-green-50 border border-green-200 rounded-md p-3 mb-4">
			<div class="flex items-center justify-between">
				<div>
					<p class="text-sm font-medium text-green-800">Added %d ticket(s) to cart</p>
					<p class="text-sm text-green-700">Cart total: KES %s</p>
				</div>
				<a href="/cart" class="text-sm font-medium text-green-800 hover:text-green-900 underline">
					View Cart
				</a>
			</div>
		</div>
	`, item.TotalQuantity(), total.StringFixed(2))
}

// UpdateCartItem updates the quantity of one ticket selection. A
// quantity of zero removes the selection, and removing the last
// selection drops the whole line.
func (h *CartHandler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	scheduleID := r.FormValue("tour_schedule_id")
	ticketTypeID := r.FormValue("ticket_type_id")
	quantity, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil || quantity < 0 {
		http.Error(w, "Invalid quantity", http.StatusBadRequest)
		return
	}

	if err := h.cart.UpdateQuantity(scheduleID, ticketTypeID, quantity); err != nil {
		if errors.Is(err, models.ErrCartItemNotFound) {
			// The line vanished from another tab. Just re-render.
		} else {
			writeHTMXError(w, http.StatusInternalServerError, "Could not update the cart.")
			return
		}
	}

	renderPartial(w, "cart_items", h.pageData(r))
}

// RemoveCartItem removes a whole cart line
func (h *CartHandler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	if err := h.cart.RemoveItem(r.FormValue("tour_schedule_id")); err != nil && !errors.Is(err, models.ErrCartItemNotFound) {
		writeHTMXError(w, http.StatusInternalServerError, "Could not update the cart.")
		return
	}
	renderPartial(w, "cart_items", h.pageData(r))
}

// ClearCart empties the cart, including any stale payment hold
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Clear(); err != nil {
		writeHTMXError(w, http.StatusInternalServerError, "Could not clear the cart.")
		return
	}
	renderPartial(w, "cart_items", h.pageData(r))
}
