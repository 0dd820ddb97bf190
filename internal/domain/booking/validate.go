package booking

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// The bot's reference zone. Slot values carry no zone information, so
// "today" and "now" are always resolved at UTC-4.
var ReferenceZone = time.FixedZone("UTC-4", -4*60*60)

var supportedLocations = []string{"manhattan"}

var supportedCuisines = []string{"indian", "mexican", "italian", "chinese", "spanish", "japanese"}

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Violation reports the first slot that failed validation, with the prompt
// to send back to the user. A nil *Violation means the pass succeeded.
type Violation struct {
	Slot    string
	Message string
}

func IsValidLocation(v string) bool {
	v = strings.ToLower(v)
	for _, l := range supportedLocations {
		if v == l {
			return true
		}
	}
	return false
}

func IsValidCuisine(v string) bool {
	v = strings.ToLower(v)
	for _, c := range supportedCuisines {
		if v == c {
			return true
		}
	}
	return false
}

func IsValidPartySize(v string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	return err == nil && n > 0
}

// IsValidDate accepts dates on or after today in the reference zone.
// Unparsable input is invalid, never an error.
func IsValidDate(v string, now time.Time) bool {
	d, err := time.ParseInLocation(dateLayout, v, ReferenceZone)
	if err != nil {
		return false
	}
	today := midnight(now.In(ReferenceZone))
	return !d.Before(today)
}

// IsValidTime accepts any time on a future date. When the date resolves to
// today in the reference zone, the time must not be earlier than now.
// A missing or unparsable date fails the pair rather than erroring.
func IsValidTime(timeOfDay, date string, now time.Time) bool {
	d, err := time.ParseInLocation(dateLayout, date, ReferenceZone)
	if err != nil {
		return false
	}
	ref := now.In(ReferenceZone)
	if !d.Equal(midnight(ref)) {
		return true
	}
	t, err := time.Parse(timeLayout, timeOfDay)
	if err != nil {
		return false
	}
	at := time.Date(ref.Year(), ref.Month(), ref.Day(), t.Hour(), t.Minute(), 0, 0, ReferenceZone)
	return !at.Before(ref)
}

func IsValidEmail(v string) bool {
	return emailPattern.MatchString(v)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Validate runs the per-slot validators over the slots that have values, in
// fixed order (location, cuisine, party size, date, time, email), and stops
// at the first failure so only one slot is re-elicited per turn. Absent
// slots are skipped; the bot is still eliciting them.
func Validate(s Slots, now time.Time) *Violation {
	if v := s.Get(SlotLocation); v != "" && !IsValidLocation(v) {
		return &Violation{
			Slot:    SlotLocation,
			Message: fmt.Sprintf("We currently do not support %s as a valid destination.  Can you try a different city?", v),
		}
	}
	if v := s.Get(SlotCuisine); v != "" && !IsValidCuisine(v) {
		return &Violation{
			Slot:    SlotCuisine,
			Message: "I did not recognize that cuisine.  What cuisine would you like to try?",
		}
	}
	if v := s.Get(SlotPartySize); v != "" && !IsValidPartySize(v) {
		return &Violation{
			Slot:    SlotPartySize,
			Message: "Please enter a positive number.",
		}
	}
	if v := s.Get(SlotDate); v != "" && !IsValidDate(v, now) {
		return &Violation{
			Slot:    SlotDate,
			Message: "I did not understand your reservation date.  What date would you like to make your reservation on?",
		}
	}
	if v := s.Get(SlotTime); v != "" && !IsValidTime(v, s.Get(SlotDate), now) {
		return &Violation{
			Slot:    SlotTime,
			Message: "I did not understand your reservation time.  When would you like to make your reservation?",
		}
	}
	if v := s.Get(SlotEmail); v != "" && !IsValidEmail(v) {
		return &Violation{
			Slot:    SlotEmail,
			Message: "Please enter a valid id",
		}
	}
	return nil
}
