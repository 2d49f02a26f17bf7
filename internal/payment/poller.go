package payment

import (
	"time"
)

// Timing constants for the processing page.
const (
	// RedirectDelay is how long the processing page is shown before
	// the one-shot navigation to the provider checkout URL.
	RedirectDelay = 3 * time.Second
	// TickInterval drives the elapsed-time display while waiting.
	TickInterval = time.Second
	// ProcessingTimeout is how long a handoff may stay in flight
	// before the page gives up and offers a manual return home.
	ProcessingTimeout = 10 * time.Minute
)

// Phase is the processing page's state.
type Phase int

const (
	PhaseStarting Phase = iota
	PhaseWaiting
	PhaseRedirecting
	PhaseTimedOut
	PhaseInvalid
)

func (p Phase) String() string {
	switch p {
	case PhaseStarting:
		return "starting"
	case PhaseWaiting:
		return "waiting"
	case PhaseRedirecting:
		return "redirecting"
	case PhaseTimedOut:
		return "timed_out"
	case PhaseInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Decision is the outcome of evaluating the handoff state at one
// instant: the phase, the elapsed wait, and where to navigate (empty
// when the page stays put).
type Decision struct {
	Phase       Phase
	Elapsed     time.Duration
	NavigateTo  string
	ClearState  bool
	StopTicking bool
}

// Evaluate derives the processing page's next step from the stored
// handoff state. The page render and the tick endpoint both run their
// decisions through here so the semantics cannot fork.
func Evaluate(state CheckoutState, now time.Time, homeURL string) Decision {
	if state.CheckoutURL == "" {
		// Processing flag without a URL is an expired or tampered
		// handoff: recoverable, never fatal to the page.
		return Decision{Phase: PhaseInvalid, NavigateTo: homeURL, ClearState: true, StopTicking: true}
	}

	elapsed := time.Duration(0)
	if !state.StartedAt.IsZero() {
		elapsed = now.Sub(state.StartedAt)
	}
	if elapsed > ProcessingTimeout {
		return Decision{Phase: PhaseTimedOut, Elapsed: elapsed, StopTicking: true}
	}
	if elapsed >= RedirectDelay {
		return Decision{Phase: PhaseRedirecting, Elapsed: elapsed, NavigateTo: state.CheckoutURL}
	}
	return Decision{Phase: PhaseWaiting, Elapsed: elapsed}
}
