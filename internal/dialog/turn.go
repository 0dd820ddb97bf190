package dialog

import (
	"github.com/example/dining-concierge/internal/domain/booking"
)

// Intent names registered on the bot.
const (
	IntentGreeting = "GreetingIntent"
	IntentDining   = "DiningSuggestionsIntent"
	IntentThankYou = "ThankYouIntent"
)

// Phase is the invocation source reported by the NLU service: Validating
// while slots are still being filled or confirmed, Confirmed once the
// service hands the completed intent over for fulfillment.
type Phase string

const (
	PhaseValidating Phase = "DialogCodeHook"
	PhaseConfirmed  Phase = "FulfillmentCodeHook"
)

// Turn is one request/response cycle of the dialog. It is consumed within
// the turn and never retained; cross-turn memory lives in the caller's
// session attribute bag, which the engine only passes through.
type Turn struct {
	IntentName        string
	Phase             Phase
	Slots             booking.Slots
	SessionAttributes map[string]string
}
