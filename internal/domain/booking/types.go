package booking

import (
	"fmt"
	"strconv"
)

// Slot names as the bot sends them. These are wire names; do not rename
// without re-training the bot.
const (
	SlotLocation  = "location"
	SlotCuisine   = "cuisine"
	SlotPartySize = "noOfPeople"
	SlotDate      = "dateofReservation"
	SlotTime      = "timeofReservation"
	SlotEmail     = "emailaddress"
)

// Slots is the per-turn slot map. A nil entry (or missing key) means the bot
// has not filled that slot yet.
type Slots map[string]*string

func (s Slots) Get(name string) string {
	if v, ok := s[name]; ok && v != nil {
		return *v
	}
	return ""
}

// Clone returns a copy safe to mutate without touching the caller's map.
func (s Slots) Clone() Slots {
	out := make(Slots, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// ReservationRequest is the completed booking request. Immutable once
// dispatched; the JSON tags are the queue payload format.
type ReservationRequest struct {
	Location  string `json:"location"`
	Cuisine   string `json:"cuisine"`
	PartySize int    `json:"noOfPeople,string"`
	Date      string `json:"dateofReservation"`
	Time      string `json:"timeofReservation"`
	Email     string `json:"emailaddress"`
}

// RequestFromSlots builds a ReservationRequest from a fully filled slot map.
// Every slot must be present; validation happens separately.
func RequestFromSlots(s Slots) (ReservationRequest, error) {
	for _, name := range []string{SlotLocation, SlotCuisine, SlotPartySize, SlotDate, SlotTime, SlotEmail} {
		if s.Get(name) == "" {
			return ReservationRequest{}, fmt.Errorf("slot %s is not filled", name)
		}
	}
	n, err := strconv.Atoi(s.Get(SlotPartySize))
	if err != nil {
		return ReservationRequest{}, fmt.Errorf("slot %s: %w", SlotPartySize, err)
	}
	return ReservationRequest{
		Location:  s.Get(SlotLocation),
		Cuisine:   s.Get(SlotCuisine),
		PartySize: n,
		Date:      s.Get(SlotDate),
		Time:      s.Get(SlotTime),
		Email:     s.Get(SlotEmail),
	}, nil
}

func (r ReservationRequest) Validate() error {
	if r.Location == "" {
		return fmt.Errorf("location required")
	}
	if r.Cuisine == "" {
		return fmt.Errorf("cuisine required")
	}
	if r.PartySize < 1 {
		return fmt.Errorf("noOfPeople must be positive")
	}
	if r.Date == "" {
		return fmt.Errorf("dateofReservation required")
	}
	if r.Time == "" {
		return fmt.Errorf("timeofReservation required")
	}
	if r.Email == "" {
		return fmt.Errorf("emailaddress required")
	}
	return nil
}
