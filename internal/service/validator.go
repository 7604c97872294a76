package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/policy"
)

// ReservationInput is the payload for creating a reservation.  People is
// decoded as a JSON number; a non-numeric value is rejected by the decoder.
type ReservationInput struct {
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	MobileNumber    string `json:"mobile_number" validate:"required"`
	ReservationDate string `json:"reservation_date" validate:"required,reservation_date"`
	ReservationTime string `json:"reservation_time" validate:"required,reservation_time"`
	People          int    `json:"people" validate:"required,gt=0"`
	Status          string `json:"status,omitempty"`
}

// ReservationUpdateInput is the payload for a full-record edit.  Empty
// fields keep the stored value.
type ReservationUpdateInput struct {
	ReservationID   *uint64 `json:"reservation_id,omitempty"`
	FirstName       string  `json:"first_name,omitempty"`
	LastName        string  `json:"last_name,omitempty"`
	MobileNumber    string  `json:"mobile_number,omitempty"`
	ReservationDate string  `json:"reservation_date,omitempty"`
	ReservationTime string  `json:"reservation_time,omitempty"`
	People          int     `json:"people,omitempty"`
	Status          string  `json:"status,omitempty"`
}

// StatusInput is the payload of a status-only update.
type StatusInput struct {
	Status string `json:"status" validate:"required"`
}

// SeatInput names the reservation to seat at a table.
type SeatInput struct {
	ReservationID uint64 `json:"reservation_id" validate:"required"`
}

// TableInput is the payload for creating a table.
type TableInput struct {
	TableName string `json:"table_name" validate:"required,min=2"`
	Capacity  int    `json:"capacity" validate:"required,gt=0"`
}

// Validator checks reservation payloads for shape and business legality.
type Validator struct {
	hours    policy.Hours
	validate *validator.Validate
}

// NewValidator returns a Validator enforcing hours.
func NewValidator(hours policy.Hours) *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("reservation_date", func(fl validator.FieldLevel) bool {
		_, err := policy.ParseDate(fl.Field().String(), nil)
		return err == nil
	})
	_ = v.RegisterValidation("reservation_time", func(fl validator.FieldLevel) bool {
		_, err := policy.ParseTimeOfDay(fl.Field().String())
		return err == nil
	})
	return &Validator{hours: hours, validate: v}
}

// Hours returns the policy the validator enforces.
func (v *Validator) Hours() policy.Hours { return v.hours }

// Validate runs every check in order and stops at the first failure:
// required fields, formats, policy (open day, future slot, service hours)
// and finally the initial status.  On success it returns the reservation
// to persist, with the time normalised to HH:MM:SS and status booked.
func (v *Validator) Validate(in ReservationInput, now time.Time) (*model.Reservation, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.MobileNumber = strings.TrimSpace(in.MobileNumber)
	in.ReservationDate = strings.TrimSpace(in.ReservationDate)
	in.ReservationTime = strings.TrimSpace(in.ReservationTime)
	in.Status = strings.TrimSpace(in.Status)

	if err := v.checkStruct(in); err != nil {
		return nil, err
	}

	date, err := policy.ParseDate(in.ReservationDate, v.hours.Location)
	if err != nil {
		return nil, invalidf("reservation_date %s", err)
	}
	tod, err := policy.ParseTimeOfDay(in.ReservationTime)
	if err != nil {
		return nil, invalidf("reservation_time %s", err)
	}

	if !v.hours.IsOpenDay(date) {
		return nil, violation(fmt.Sprintf("Restaurant is closed on %ss. Select another day.", v.hours.ClosedDay))
	}
	if !v.hours.IsFutureSlot(date, tod, now) {
		return nil, violation("Reservation must be in the future.")
	}
	if !v.hours.IsWithinServiceHours(tod) {
		return nil, violation(fmt.Sprintf("Reservation must be after %s and before %s.",
			hhmm(v.hours.Open), hhmm(v.hours.Close)))
	}

	if in.Status != "" && in.Status != string(model.StatusBooked) {
		return nil, invalidf("New reservations must have status 'booked'. Given: '%s'", in.Status)
	}

	return &model.Reservation{
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		MobileNumber:    in.MobileNumber,
		ReservationDate: in.ReservationDate,
		ReservationTime: tod.String(),
		People:          in.People,
		Status:          model.StatusBooked,
	}, nil
}

// ValidateTable checks a table payload and returns the trimmed record.
func (v *Validator) ValidateTable(in TableInput) (*model.Table, error) {
	in.TableName = strings.TrimSpace(in.TableName)
	if err := v.checkStruct(in); err != nil {
		return nil, err
	}
	return &model.Table{Name: in.TableName, Capacity: in.Capacity}, nil
}

// ValidateStatus checks a status payload for presence.  Whether the value
// names a known status is decided against the stored record.
func (v *Validator) ValidateStatus(in StatusInput) error {
	in.Status = strings.TrimSpace(in.Status)
	return v.checkStruct(in)
}

// ValidateSeat checks a seat payload.
func (v *Validator) ValidateSeat(in SeatInput) error {
	return v.checkStruct(in)
}

// checkStruct runs the struct tags.  Missing fields are reported before
// malformed ones so the caller always sees the earliest failing check.
func (v *Validator) checkStruct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return invalidf("invalid payload: %v", err)
	}
	first := verrs[0]
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			first = fe
			break
		}
	}
	return invalidf("%s", fieldMessage(first))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "reservation_date":
		return fe.Field() + " must be a date formatted YYYY-MM-DD"
	case "reservation_time":
		return fe.Field() + " must be a time formatted HH:MM"
	case "gt":
		return fe.Field() + " must be a positive number"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters long"
	default:
		return fe.Field() + " is invalid"
	}
}

func hhmm(t policy.TimeOfDay) string {
	return t.String()[:5]
}
