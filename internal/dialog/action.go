package dialog

import "github.com/example/dining-concierge/internal/domain/booking"

type ActionType string

const (
	ActionElicitIntent ActionType = "ElicitIntent"
	ActionElicitSlot   ActionType = "ElicitSlot"
	ActionDelegate     ActionType = "Delegate"
	ActionClose        ActionType = "Close"
)

const FulfillmentStateFulfilled = "Fulfilled"

type Message struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

func plainText(content string) *Message {
	return &Message{ContentType: "PlainText", Content: content}
}

// Action is the engine's output for a turn; exactly one is produced.
// Only the fields relevant to the Type are set.
type Action struct {
	Type              ActionType
	SessionAttributes map[string]string
	Message           *Message
	IntentName        string
	Slots             booking.Slots
	SlotToElicit      string
	FulfillmentState  string
}

func elicitIntent(sa map[string]string, content string) Action {
	return Action{Type: ActionElicitIntent, SessionAttributes: sa, Message: plainText(content)}
}

func elicitSlot(sa map[string]string, intentName string, slots booking.Slots, slot, content string) Action {
	return Action{
		Type:              ActionElicitSlot,
		SessionAttributes: sa,
		IntentName:        intentName,
		Slots:             slots,
		SlotToElicit:      slot,
		Message:           plainText(content),
	}
}

func delegate(sa map[string]string, slots booking.Slots) Action {
	return Action{Type: ActionDelegate, SessionAttributes: sa, Slots: slots}
}

func closeAction(sa map[string]string, fulfillmentState, content string) Action {
	return Action{
		Type:              ActionClose,
		SessionAttributes: sa,
		FulfillmentState:  fulfillmentState,
		Message:           plainText(content),
	}
}
