package payment

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"tour-booking-platform/internal/storage"
)

// Durable keys for the checkout handoff. Written when checkout is
// initiated, cleared by the poller or the cancel/success return
// routes. Disjoint from the cart's key; no writer contention beyond
// last-write-wins.
const (
	KeyProcessing  = "isCheckoutProcessing"
	KeyStartTime   = "paymentStartTime"
	KeyCheckoutURL = "checkoutUrl"
)

// ProcessingCookieName mirrors the processing flag into a cookie so
// server-side request handling can check it without a storage read.
// The stored flag is the authority; the cookie is write-through only.
const ProcessingCookieName = "isCheckoutProcessing"

// CheckoutState is the persisted handoff record for one in-flight
// external payment.
type CheckoutState struct {
	Processing  bool
	StartedAt   time.Time
	CheckoutURL string
}

// Tracker owns the durable checkout keys as one unit: Begin writes
// them all, Clear removes them all, Load reads them back together.
type Tracker struct {
	storage storage.Store
}

// NewTracker creates a tracker over the shared snapshot store.
func NewTracker(st storage.Store) *Tracker {
	return &Tracker{storage: st}
}

// Begin records a checkout handoff: processing flag, start timestamp
// and the provider URL the browser is being sent to.
func (t *Tracker) Begin(checkoutURL string, startedAt time.Time) error {
	if err := t.storage.Set(KeyProcessing, []byte("true")); err != nil {
		return fmt.Errorf("failed to set processing flag: %w", err)
	}
	startMillis := strconv.FormatInt(startedAt.UnixMilli(), 10)
	if err := t.storage.Set(KeyStartTime, []byte(startMillis)); err != nil {
		return fmt.Errorf("failed to set payment start time: %w", err)
	}
	if err := t.storage.Set(KeyCheckoutURL, []byte(checkoutURL)); err != nil {
		return fmt.Errorf("failed to set checkout URL: %w", err)
	}
	return nil
}

// Load reads the handoff state. Missing keys yield zero values rather
// than errors; the poller treats an incomplete record as invalid.
func (t *Tracker) Load() (CheckoutState, error) {
	var state CheckoutState

	if data, ok, err := t.storage.Get(KeyProcessing); err != nil {
		return state, fmt.Errorf("failed to read processing flag: %w", err)
	} else if ok {
		state.Processing = string(data) == "true"
	}

	if data, ok, err := t.storage.Get(KeyStartTime); err != nil {
		return state, fmt.Errorf("failed to read payment start time: %w", err)
	} else if ok {
		if millis, err := strconv.ParseInt(string(data), 10, 64); err == nil {
			state.StartedAt = time.UnixMilli(millis)
		}
	}

	if data, ok, err := t.storage.Get(KeyCheckoutURL); err != nil {
		return state, fmt.Errorf("failed to read checkout URL: %w", err)
	} else if ok {
		state.CheckoutURL = string(data)
	}

	return state, nil
}

// Clear removes every checkout key. Safe to call when nothing is in
// flight.
func (t *Tracker) Clear() error {
	for _, key := range []string{KeyProcessing, KeyStartTime, KeyCheckoutURL} {
		if err := t.storage.Delete(key); err != nil {
			return fmt.Errorf("failed to clear checkout state: %w", err)
		}
	}
	return nil
}

// MirrorCookie writes the server-readable view of the processing flag.
// It is derived from the stored flag on every change and never read
// back as authority, so the two views cannot drift.
func MirrorCookie(w http.ResponseWriter, processing bool, secure bool) {
	cookie := &http.Cookie{
		Name:     ProcessingCookieName,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	if processing {
		cookie.Value = "true"
		cookie.MaxAge = int(ProcessingTimeout.Seconds())
	} else {
		cookie.Value = ""
		cookie.MaxAge = -1
	}
	http.SetCookie(w, cookie)
}
