package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/policy"
)

func TestValidatorAcceptsAndNormalises(t *testing.T) {
	v := NewValidator(policy.Default)
	in := validInput()
	in.FirstName = "  Ada "
	in.Status = "booked"

	r, err := v.Validate(in, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "Ada", r.FirstName)
	assert.Equal(t, "18:00:00", r.ReservationTime)
	assert.Equal(t, model.StatusBooked, r.Status)
}

func TestValidatorRejections(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*ReservationInput)
		kind    *Error
		message string
	}{
		{"missing first name", func(in *ReservationInput) { in.FirstName = "" }, ErrInvalidInput, "first_name is required"},
		{"blank last name", func(in *ReservationInput) { in.LastName = "   " }, ErrInvalidInput, "last_name is required"},
		{"missing mobile", func(in *ReservationInput) { in.MobileNumber = "" }, ErrInvalidInput, "mobile_number is required"},
		{"missing date", func(in *ReservationInput) { in.ReservationDate = "" }, ErrInvalidInput, "reservation_date is required"},
		{"missing time", func(in *ReservationInput) { in.ReservationTime = "" }, ErrInvalidInput, "reservation_time is required"},
		{"zero people", func(in *ReservationInput) { in.People = 0 }, ErrInvalidInput, "people is required"},
		{"negative people", func(in *ReservationInput) { in.People = -2 }, ErrInvalidInput, "people must be a positive number"},
		{"bad date", func(in *ReservationInput) { in.ReservationDate = "01/02/2030" }, ErrInvalidInput,
			"reservation_date must be a date formatted YYYY-MM-DD"},
		{"impossible date", func(in *ReservationInput) { in.ReservationDate = "2030-02-30" }, ErrInvalidInput,
			"reservation_date must be a date formatted YYYY-MM-DD"},
		{"bad time", func(in *ReservationInput) { in.ReservationTime = "6pm" }, ErrInvalidInput,
			"reservation_time must be a time formatted HH:MM"},
		{"out of range time", func(in *ReservationInput) { in.ReservationTime = "25:00" }, ErrInvalidInput,
			"reservation_time must be a time formatted HH:MM"},
		{"presence before format", func(in *ReservationInput) {
			in.ReservationDate = "bogus"
			in.People = 0
		}, ErrInvalidInput, "people is required"},
		{"closed day", func(in *ReservationInput) { in.ReservationDate = "2030-01-08" }, ErrPolicyViolation,
			"Restaurant is closed on Tuesdays. Select another day."},
		{"past", func(in *ReservationInput) { in.ReservationDate = "2029-12-31" }, ErrPolicyViolation,
			"Reservation must be in the future."},
		{"at opening", func(in *ReservationInput) { in.ReservationTime = "10:30:00" }, ErrPolicyViolation,
			"Reservation must be after 10:30 and before 21:30."},
		{"at closing", func(in *ReservationInput) { in.ReservationTime = "21:30:00" }, ErrPolicyViolation,
			"Reservation must be after 10:30 and before 21:30."},
		{"seated status", func(in *ReservationInput) { in.Status = "seated" }, ErrInvalidInput,
			"New reservations must have status 'booked'. Given: 'seated'"},
		{"finished status", func(in *ReservationInput) { in.Status = "finished" }, ErrInvalidInput, ""},
		{"policy before status", func(in *ReservationInput) {
			in.Status = "finished"
			in.ReservationTime = "23:00"
		}, ErrPolicyViolation, ""},
	}

	v := NewValidator(policy.Default)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, err := v.Validate(in, fixedNow)
			requireKind(t, err, tc.kind, tc.message)
		})
	}
}

func TestValidatorServiceHourBoundaries(t *testing.T) {
	v := NewValidator(policy.Default)
	for tm, ok := range map[string]bool{
		"10:30:00": false,
		"10:30:01": true,
		"21:29:59": true,
		"21:30:00": false,
	} {
		in := validInput()
		in.ReservationTime = tm
		_, err := v.Validate(in, fixedNow)
		assert.Equal(t, ok, err == nil, "time %s: %v", tm, err)
	}
}

func TestValidateTable(t *testing.T) {
	v := NewValidator(policy.Default)

	tbl, err := v.ValidateTable(TableInput{TableName: "  #3 ", Capacity: 4})
	require.NoError(t, err)
	assert.Equal(t, "#3", tbl.Name)
	assert.Nil(t, tbl.ReservationID)

	_, err = v.ValidateTable(TableInput{TableName: " A ", Capacity: 4})
	requireKind(t, err, ErrInvalidInput, "table_name must be at least 2 characters long")

	_, err = v.ValidateTable(TableInput{TableName: "Patio", Capacity: 0})
	requireKind(t, err, ErrInvalidInput, "capacity is required")

	_, err = v.ValidateTable(TableInput{TableName: "Patio", Capacity: -1})
	requireKind(t, err, ErrInvalidInput, "capacity must be a positive number")
}

func TestErrorIsMatchesKindOnly(t *testing.T) {
	err := conflictf("Cannot modify a %s reservation.", model.StatusFinished)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "conflict", err.Kind.String())
}
