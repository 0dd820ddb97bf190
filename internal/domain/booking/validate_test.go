package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-05-10 12:00 in the reference zone.
var testNow = time.Date(2024, 5, 10, 12, 0, 0, 0, ReferenceZone)

func strp(s string) *string { return &s }

func TestIsValidLocation(t *testing.T) {
	assert.True(t, IsValidLocation("manhattan"))
	assert.True(t, IsValidLocation("Manhattan"))
	assert.True(t, IsValidLocation("MANHATTAN"))
	assert.False(t, IsValidLocation("brooklyn"))
	assert.False(t, IsValidLocation(""))
}

func TestIsValidCuisine(t *testing.T) {
	for _, c := range []string{"indian", "mexican", "italian", "chinese", "spanish", "japanese"} {
		assert.True(t, IsValidCuisine(c), c)
	}
	assert.True(t, IsValidCuisine("Italian"))
	assert.False(t, IsValidCuisine("french"))
	assert.False(t, IsValidCuisine(""))
}

func TestIsValidPartySize(t *testing.T) {
	assert.True(t, IsValidPartySize("4"))
	assert.True(t, IsValidPartySize("1"))
	assert.False(t, IsValidPartySize("0"))
	assert.False(t, IsValidPartySize("-3"))
	assert.False(t, IsValidPartySize("four"))
	assert.False(t, IsValidPartySize("2.5"))
	assert.False(t, IsValidPartySize(""))
}

func TestIsValidDate(t *testing.T) {
	assert.True(t, IsValidDate("2024-05-10", testNow), "today is valid")
	assert.True(t, IsValidDate("2024-05-11", testNow))
	assert.True(t, IsValidDate("2025-01-01", testNow))
	assert.False(t, IsValidDate("2024-05-09", testNow), "yesterday is not")
	assert.False(t, IsValidDate("not-a-date", testNow))
	assert.False(t, IsValidDate("", testNow))
}

func TestIsValidTime(t *testing.T) {
	// today: must not be earlier than current reference time (12:00)
	assert.True(t, IsValidTime("19:00", "2024-05-10", testNow))
	assert.True(t, IsValidTime("12:00", "2024-05-10", testNow))
	assert.False(t, IsValidTime("11:59", "2024-05-10", testNow))

	// future date: any time goes
	assert.True(t, IsValidTime("00:01", "2024-05-11", testNow))
	assert.True(t, IsValidTime("11:00", "2024-06-01", testNow))

	// unparsable pairs fail instead of panicking
	assert.False(t, IsValidTime("19:00", "", testNow))
	assert.False(t, IsValidTime("19:00", "garbage", testNow))
	assert.False(t, IsValidTime("7pm", "2024-05-10", testNow))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("user@example.com"))
	assert.True(t, IsValidEmail("first.last@sub-domain.co"))
	assert.False(t, IsValidEmail("user@"))
	assert.False(t, IsValidEmail("@example.com"))
	assert.False(t, IsValidEmail("plainstring"))
	assert.False(t, IsValidEmail("a b@example.com"))
}

func TestValidateSkipsAbsentSlots(t *testing.T) {
	assert.Nil(t, Validate(Slots{}, testNow))
	assert.Nil(t, Validate(Slots{SlotLocation: nil}, testNow))
	assert.Nil(t, Validate(Slots{SlotLocation: strp("manhattan")}, testNow))
}

func TestValidateFixedOrderShortCircuit(t *testing.T) {
	// location and cuisine both invalid: location is reported
	s := Slots{
		SlotLocation: strp("paris"),
		SlotCuisine:  strp("martian"),
	}
	v := Validate(s, testNow)
	require.NotNil(t, v)
	assert.Equal(t, SlotLocation, v.Slot)
	assert.Contains(t, v.Message, "paris")

	// fix location: cuisine becomes the violation
	s[SlotLocation] = strp("manhattan")
	v = Validate(s, testNow)
	require.NotNil(t, v)
	assert.Equal(t, SlotCuisine, v.Slot)
}

func TestValidateFullyValid(t *testing.T) {
	s := Slots{
		SlotLocation:  strp("Manhattan"),
		SlotCuisine:   strp("japanese"),
		SlotPartySize: strp("2"),
		SlotDate:      strp("2024-05-11"),
		SlotTime:      strp("19:00"),
		SlotEmail:     strp("someone@example.com"),
	}
	assert.Nil(t, Validate(s, testNow))
}

func TestValidateTimeRequiresDate(t *testing.T) {
	s := Slots{SlotTime: strp("19:00")}
	v := Validate(s, testNow)
	require.NotNil(t, v)
	assert.Equal(t, SlotTime, v.Slot)
}

func TestRequestFromSlots(t *testing.T) {
	s := Slots{
		SlotLocation:  strp("manhattan"),
		SlotCuisine:   strp("italian"),
		SlotPartySize: strp("2"),
		SlotDate:      strp("2024-05-01"),
		SlotTime:      strp("19:00"),
		SlotEmail:     strp("a@b.co"),
	}
	req, err := RequestFromSlots(s)
	require.NoError(t, err)
	assert.Equal(t, ReservationRequest{
		Location:  "manhattan",
		Cuisine:   "italian",
		PartySize: 2,
		Date:      "2024-05-01",
		Time:      "19:00",
		Email:     "a@b.co",
	}, req)

	s[SlotEmail] = nil
	_, err = RequestFromSlots(s)
	assert.Error(t, err)
}
