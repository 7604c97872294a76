package service

import (
	"context"
	"strings"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/queue"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
)

// ReservationService owns the reservation lifecycle: creation, full-record
// edits while booked, and status changes that do not involve a table.
type ReservationService struct {
	store     repository.Store
	validator *Validator
	query     *QueryService
	deps
}

// NewReservationService wires the service to store.
func NewReservationService(store repository.Store, v *Validator, opts ...Option) *ReservationService {
	return &ReservationService{
		store:     store,
		validator: v,
		query:     NewQueryService(store),
		deps:      newDeps(opts),
	}
}

// Create validates in and persists a new booked reservation.  Nothing is
// written when validation fails.
func (s *ReservationService) Create(ctx context.Context, in ReservationInput) (res *model.Reservation, err error) {
	defer func() { observe("reservation.create", err) }()

	res, err = s.validator.Validate(in, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.InsertReservation(ctx, res); err != nil {
		return nil, err
	}
	s.publish(ctx, queue.NewEvent(queue.TypeReservationCreated, res.ID, 0, string(res.Status), s.now()))
	return res, nil
}

// Get returns the reservation with the given id.
func (s *ReservationService) Get(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := s.store.GetReservation(ctx, id)
	if err != nil {
		return nil, reservationLookup(id, err)
	}
	return res, nil
}

// List delegates to the query service.
func (s *ReservationService) List(ctx context.Context, f ListFilter) ([]model.Reservation, error) {
	return s.query.List(ctx, f)
}

// UpdateStatus moves a reservation to status through the status endpoint.
// Only booked -> cancelled is a legal change here: seating happens through
// a table and finishing through a table reset.  Requesting the current
// status again returns the record unchanged.
func (s *ReservationService) UpdateStatus(ctx context.Context, id uint64, status string) (res *model.Reservation, err error) {
	defer func() { observe("reservation.update_status", err) }()

	changed := false
	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		cur, err := tx.GetReservation(ctx, id)
		if err != nil {
			return reservationLookup(id, err)
		}
		if cur.Status.Terminal() {
			return conflictf("Cannot modify a %s reservation.", cur.Status)
		}
		if err := s.validator.ValidateStatus(StatusInput{Status: status}); err != nil {
			return err
		}
		next, ok := model.ParseStatus(strings.TrimSpace(status))
		if !ok {
			return invalidf("Status of data must be a valid value. Given: '%s'", status)
		}
		if next == cur.Status {
			res = cur
			return nil
		}
		if err := statusEndpointAllows(cur.Status, next); err != nil {
			return err
		}
		cur.Status = next
		if err := tx.UpdateReservation(ctx, cur); err != nil {
			return err
		}
		res, changed = cur, true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.publish(ctx, queue.NewEvent(queue.TypeReservationStatusChanged, res.ID, 0, string(res.Status), s.now()))
	}
	return res, nil
}

func statusEndpointAllows(from, to model.Status) error {
	trigger, ok := from.TriggerFor(to)
	switch {
	case !ok && from == model.StatusSeated && to == model.StatusCancelled:
		return conflictf("A seated reservation cannot be cancelled; finish it by resetting its table.")
	case !ok:
		return conflictf("Cannot change status from %s to %s.", from, to)
	case trigger == model.TriggerSeat:
		return conflictf("Reservations are seated by assigning them to a table.")
	case trigger == model.TriggerReset:
		return conflictf("Reservations are finished by resetting their table.")
	}
	return nil
}

// UpdateFields edits a booked reservation.  Non-empty fields of in replace
// the stored values and the merged record is validated again before it is
// written.
func (s *ReservationService) UpdateFields(ctx context.Context, id uint64, in ReservationUpdateInput) (res *model.Reservation, err error) {
	defer func() { observe("reservation.update", err) }()

	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		cur, err := tx.GetReservation(ctx, id)
		if err != nil {
			return reservationLookup(id, err)
		}
		if cur.Status != model.StatusBooked {
			return conflictf("Only reservations with status 'booked' can be edited.")
		}
		if in.ReservationID != nil && *in.ReservationID != id {
			return invalidf("reservation_id %d does not match reservation #%d", *in.ReservationID, id)
		}
		if st := strings.TrimSpace(in.Status); st != "" && st != string(model.StatusBooked) {
			return invalidf("status must be 'booked' when editing a reservation. Given: '%s'", in.Status)
		}

		merged := ReservationInput{
			FirstName:       pick(in.FirstName, cur.FirstName),
			LastName:        pick(in.LastName, cur.LastName),
			MobileNumber:    pick(in.MobileNumber, cur.MobileNumber),
			ReservationDate: pick(in.ReservationDate, cur.ReservationDate),
			ReservationTime: pick(in.ReservationTime, cur.ReservationTime),
			People:          cur.People,
			Status:          string(model.StatusBooked),
		}
		if in.People != 0 {
			merged.People = in.People
		}
		valid, err := s.validator.Validate(merged, s.now())
		if err != nil {
			return err
		}
		valid.ID, valid.CreatedAt = cur.ID, cur.CreatedAt
		if err := tx.UpdateReservation(ctx, valid); err != nil {
			return err
		}
		res = valid
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, queue.NewEvent(queue.TypeReservationUpdated, res.ID, 0, string(res.Status), s.now()))
	return res, nil
}

func pick(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
