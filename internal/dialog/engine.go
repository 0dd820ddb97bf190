package dialog

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/example/dining-concierge/internal/domain/booking"
	"github.com/example/dining-concierge/internal/internaltypes"
)

const (
	greetingPrompt = "Hi there, how can I help?"
	thankYouReply  = "You're welcome."
	closingReply   = "You're all set. Expect my suggestions shortly! Have a good day."
)

// Dispatcher hands a completed request to the fulfillment queue and returns
// the transport's acknowledgment id.
type Dispatcher interface {
	Dispatch(ctx context.Context, req booking.ReservationRequest) (string, error)
}

// Engine is the slot-filling state machine. It holds no per-conversation
// state; each Handle call is independent and concurrency-safe.
type Engine struct {
	Dispatcher Dispatcher
	Now        func() time.Time
	Log        *log.Logger
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Engine) logger() *log.Logger {
	if e.Log != nil {
		return e.Log
	}
	return log.Default()
}

// Handle produces exactly one dialog action for the turn. Validation
// failures become ElicitSlot actions, never errors; an unknown intent or a
// failed dispatch fails the turn.
func (e Engine) Handle(ctx context.Context, t Turn) (Action, error) {
	switch t.IntentName {
	case IntentGreeting:
		return elicitIntent(t.SessionAttributes, greetingPrompt), nil
	case IntentThankYou:
		return closeAction(t.SessionAttributes, FulfillmentStateFulfilled, thankYouReply), nil
	case IntentDining:
		return e.handleDining(ctx, t)
	default:
		return Action{}, fmt.Errorf("%w: %s", internaltypes.ErrUnsupportedIntent, t.IntentName)
	}
}

func (e Engine) handleDining(ctx context.Context, t Turn) (Action, error) {
	if t.Phase == PhaseValidating {
		if v := booking.Validate(t.Slots, e.now()); v != nil {
			// Clear the rejected value so the bot re-elicits instead of
			// re-offering it.
			slots := t.Slots.Clone()
			slots[v.Slot] = nil
			e.logger().Debug("slot validation failed", "slot", v.Slot)
			return elicitSlot(t.SessionAttributes, t.IntentName, slots, v.Slot, v.Message), nil
		}
		return delegate(t.SessionAttributes, t.Slots), nil
	}

	req, err := booking.RequestFromSlots(t.Slots)
	if err != nil {
		return Action{}, fmt.Errorf("confirmed turn with incomplete slots: %w", err)
	}
	// Dispatch failure must fail the turn: closing here would promise the
	// user suggestions with no task behind them.
	id, err := e.Dispatcher.Dispatch(ctx, req)
	if err != nil {
		return Action{}, fmt.Errorf("dispatch reservation: %w", err)
	}
	e.logger().Info("reservation dispatched", "task", id, "cuisine", req.Cuisine)
	return closeAction(t.SessionAttributes, FulfillmentStateFulfilled, closingReply), nil
}
