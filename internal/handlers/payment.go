package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"tour-booking-platform/internal/api"
	"tour-booking-platform/internal/cart"
	"tour-booking-platform/internal/middleware"
	"tour-booking-platform/internal/models"
	"tour-booking-platform/internal/payment"
)

// PaymentHandler drives checkout: it creates the order, hands the
// browser to the external payment provider, and settles the cart when
// the provider sends the user back.
type PaymentHandler struct {
	client  *api.Client
	cart    *cart.Store
	tracker *payment.Tracker
	homeURL string
	secure  bool
	now     func() time.Time
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(client *api.Client, cartStore *cart.Store, tracker *payment.Tracker, homeURL string, secure bool) *PaymentHandler {
	return &PaymentHandler{
		client:  client,
		cart:    cartStore,
		tracker: tracker,
		homeURL: homeURL,
		secure:  secure,
		now:     time.Now,
	}
}

type checkoutPageData struct {
	pageBase
	Cart  models.CartState
	Error string
}

func (h *PaymentHandler) checkoutData(r *http.Request) checkoutPageData {
	state := h.cart.State()
	count := 0
	for _, item := range state.Items {
		count += item.TotalQuantity()
	}
	return checkoutPageData{
		pageBase: newPageBase(r, "Checkout", count),
		Cart:     state,
	}
}

// CheckoutPage displays the checkout form
func (h *PaymentHandler) CheckoutPage(w http.ResponseWriter, r *http.Request) {
	data := h.checkoutData(r)
	if len(data.Cart.Items) == 0 {
		handleRedirect(w, r, "/cart", http.StatusSeeOther)
		return
	}
	renderPage(w, "checkout.html", data)
}

// ProcessCheckout creates the order and the payment for one cart line,
// sets that line aside, and sends the browser to the processing page.
// Only one payment may be in flight at a time.
func (h *PaymentHandler) ProcessCheckout(w http.ResponseWriter, r *http.Request) {
	ac := middleware.GetAuthFromContext(r.Context())
	if ac == nil {
		handleRedirect(w, r, "/auth/login?redirect=/checkout", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	scheduleID := r.FormValue("tour_schedule_id")
	voucher := r.FormValue("voucher_code")

	state := h.cart.State()
	if state.PaymentItem != nil {
		h.checkoutError(w, r, "A payment is already in progress. Finish or cancel it first.")
		return
	}

	var line *models.CartItem
	for i := range state.Items {
		if state.Items[i].TourScheduleID == scheduleID {
			line = &state.Items[i]
			break
		}
	}
	if line == nil {
		h.checkoutError(w, r, "Pick a booking from your cart to pay for.")
		return
	}

	profile, err := h.client.GetProfile(r.Context(), ac)
	if err != nil {
		h.checkoutError(w, r, "Could not load your profile. Please try again.")
		return
	}

	booking := models.BookingRequest{
		TourScheduleID: line.TourScheduleID,
		Name:           profile.Name,
		PhoneNumber:    profile.PhoneNumber,
		Email:          profile.Email,
		VoucherCode:    voucher,
	}
	for _, sel := range line.Tickets {
		booking.Tickets = append(booking.Tickets, models.BookingTicket{
			TicketTypeID: sel.TicketTypeID,
			Quantity:     sel.Quantity,
		})
	}

	order, err := h.client.CreateOrder(r.Context(), ac, booking)
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Message() != "" {
			h.checkoutError(w, r, apiErr.Message())
		} else {
			h.checkoutError(w, r, "Could not create the booking. Please try again.")
		}
		return
	}

	pay, err := h.client.CreatePayment(r.Context(), ac, order.ID)
	if err != nil {
		// The order exists but has no payment attached. Cancel it so
		// the backend does not hold capacity for a dead booking.
		if cancelErr := h.client.CancelOrder(r.Context(), ac, order.ID); cancelErr != nil {
			log.Printf("checkout: cancel orphaned order %s: %v", order.ID, cancelErr)
		}
		h.checkoutError(w, r, "Could not start the payment. Please try again.")
		return
	}

	if err := h.cart.SetPaymentItem(line.TourScheduleID, order.ID); err != nil {
		if errors.Is(err, models.ErrPaymentInFlight) {
			h.checkoutError(w, r, "A payment is already in progress. Finish or cancel it first.")
			return
		}
		h.checkoutError(w, r, "Could not update the cart. Please try again.")
		return
	}

	if err := h.tracker.Begin(pay.CheckoutURL, h.now()); err != nil {
		log.Printf("checkout: persist handoff state: %v", err)
	}
	payment.MirrorCookie(w, true, h.secure)

	handleRedirect(w, r, "/checkout/processing", http.StatusSeeOther)
}

type processingData struct {
	pageBase
	Redirecting    bool
	TimedOut       bool
	ElapsedSeconds int
}

// ProcessingPage displays the payment handoff page. The page itself
// only shows a spinner; the 1s tick fragment drives the state machine.
func (h *PaymentHandler) ProcessingPage(w http.ResponseWriter, r *http.Request) {
	state, err := h.tracker.Load()
	if err != nil {
		log.Printf("processing: load handoff state: %v", err)
	}
	if !state.Processing {
		handleRedirect(w, r, h.homeURL, http.StatusSeeOther)
		return
	}

	d := payment.Evaluate(state, h.now(), h.homeURL)
	if d.Phase == payment.PhaseInvalid {
		// Processing flag without a URL. Non-HTMX clients never reach
		// the tick fragment, so the page itself has to recover here.
		if err := h.tracker.Clear(); err != nil {
			log.Printf("processing: clear handoff state: %v", err)
		}
		payment.MirrorCookie(w, false, h.secure)
		handleRedirect(w, r, d.NavigateTo, http.StatusSeeOther)
		return
	}
	renderPage(w, "processing.html", processingData{
		pageBase:       newPageBase(r, "Processing payment", 0),
		Redirecting:    d.Phase == payment.PhaseRedirecting,
		TimedOut:       d.Phase == payment.PhaseTimedOut,
		ElapsedSeconds: int(d.Elapsed.Seconds()),
	})
}

// ProcessingTick is the 1s HTMX fragment behind the processing page.
// It re-evaluates the handoff state and either keeps ticking, hands
// the browser to the provider, or reports the timeout.
func (h *PaymentHandler) ProcessingTick(w http.ResponseWriter, r *http.Request) {
	state, err := h.tracker.Load()
	if err != nil {
		log.Printf("processing: load handoff state: %v", err)
	}

	d := payment.Evaluate(state, h.now(), h.homeURL)

	if d.ClearState {
		if err := h.tracker.Clear(); err != nil {
			log.Printf("processing: clear handoff state: %v", err)
		}
		payment.MirrorCookie(w, false, h.secure)
	}

	if d.Phase == payment.PhaseRedirecting || d.Phase == payment.PhaseInvalid {
		w.Header().Set("HX-Redirect", d.NavigateTo)
		w.WriteHeader(http.StatusOK)
		return
	}

	renderPartial(w, "processing_status", processingData{
		Redirecting:    false,
		TimedOut:       d.Phase == payment.PhaseTimedOut,
		ElapsedSeconds: int(d.Elapsed.Seconds()),
	})
}

// Return is where the payment provider sends the browser back to.
// cancel=true restores the held booking to the cart and voids the
// order; otherwise the hold is discharged and the booking is done.
func (h *PaymentHandler) Return(w http.ResponseWriter, r *http.Request) {
	cancelled := r.URL.Query().Get("cancel") == "true"

	state := h.cart.State()
	if state.PaymentItem == nil {
		// Nothing held: a stale return link or another tab already
		// settled it. Just clean up the handoff state.
		if err := h.tracker.Clear(); err != nil {
			log.Printf("return: clear handoff state: %v", err)
		}
		payment.MirrorCookie(w, false, h.secure)
		http.Redirect(w, r, h.homeURL, http.StatusSeeOther)
		return
	}

	if cancelled {
		ac := middleware.GetAuthFromContext(r.Context())
		if ac != nil && state.PaymentItem.OrderID != "" {
			if err := h.client.CancelPayment(r.Context(), ac, state.PaymentItem.OrderID); err != nil {
				log.Printf("return: cancel payment for order %s: %v", state.PaymentItem.OrderID, err)
			}
		}
		if err := h.cart.RemovePaymentItem(true); err != nil {
			log.Printf("return: restore held cart item: %v", err)
		}
	} else {
		if err := h.cart.RemovePaymentItem(false); err != nil {
			log.Printf("return: discharge held cart item: %v", err)
		}
	}

	if err := h.tracker.Clear(); err != nil {
		log.Printf("return: clear handoff state: %v", err)
	}
	payment.MirrorCookie(w, false, h.secure)

	if cancelled {
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/dashboard/orders", http.StatusSeeOther)
}

func (h *PaymentHandler) checkoutError(w http.ResponseWriter, r *http.Request, msg string) {
	data := h.checkoutData(r)
	data.Error = msg
	w.WriteHeader(http.StatusUnprocessableEntity)
	renderPage(w, "checkout.html", data)
}
