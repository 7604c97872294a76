package service

import (
	"context"
	"log/slog"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/queue"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
)

// TableService manages tables and couples their occupancy to the status of
// the seated reservation.  A table's occupant is only ever changed by Seat
// and Reset, and both run the reservation write and the table write in one
// store transaction, reservation first.
type TableService struct {
	store     repository.Store
	validator *Validator
	deps
}

// NewTableService wires the service to store.
func NewTableService(store repository.Store, v *Validator, opts ...Option) *TableService {
	return &TableService{store: store, validator: v, deps: newDeps(opts)}
}

// Create adds a vacant table.
func (s *TableService) Create(ctx context.Context, in TableInput) (t *model.Table, err error) {
	defer func() { observe("table.create", err) }()

	t, err = s.validator.ValidateTable(in)
	if err != nil {
		return nil, err
	}
	if err := s.store.InsertTable(ctx, t); err != nil {
		return nil, err
	}
	s.publish(ctx, queue.NewEvent(queue.TypeTableCreated, 0, t.ID, "", s.now()))
	return t, nil
}

// Get returns the table with the given id.
func (s *TableService) Get(ctx context.Context, id uint64) (*model.Table, error) {
	t, err := s.store.GetTable(ctx, id)
	if err != nil {
		return nil, tableLookup(id, err)
	}
	return t, nil
}

// List returns every table ordered by name.
func (s *TableService) List(ctx context.Context) ([]model.Table, error) {
	return s.store.ListAllTables(ctx)
}

// Seat assigns reservationID to tableID and marks the reservation seated.
func (s *TableService) Seat(ctx context.Context, tableID, reservationID uint64) (table *model.Table, err error) {
	defer func() { observe("table.seat", err) }()

	if err := s.validator.ValidateSeat(SeatInput{ReservationID: reservationID}); err != nil {
		return nil, err
	}

	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		t, err := tx.GetTable(ctx, tableID)
		if err != nil {
			return tableLookup(tableID, err)
		}
		r, err := tx.GetReservation(ctx, reservationID)
		if err != nil {
			return reservationLookup(reservationID, err)
		}
		if t.Occupied() {
			return violation("Table is occupied; select another table.")
		}
		if r.People > t.Capacity {
			return violation("Table has insufficient capacity.")
		}
		if r.Status == model.StatusSeated {
			return violation("Reservation is already seated.")
		}
		if !r.Status.CanTransition(model.StatusSeated, model.TriggerSeat) {
			return conflictf("Cannot seat a %s reservation.", r.Status)
		}

		r.Status = model.StatusSeated
		if err := tx.UpdateReservation(ctx, r); err != nil {
			return err
		}
		t.ReservationID = &r.ID
		if err := tx.UpdateTable(ctx, t); err != nil {
			return err
		}
		table = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("table seated", slog.Uint64("table_id", tableID), slog.Uint64("reservation_id", reservationID))
	s.publish(ctx, queue.NewEvent(queue.TypeTableSeated, reservationID, tableID, string(model.StatusSeated), s.now()))
	return table, nil
}

// Reset frees tableID and finishes the reservation seated there.  Capacity
// is not checked again.
func (s *TableService) Reset(ctx context.Context, tableID uint64) (table *model.Table, err error) {
	defer func() { observe("table.reset", err) }()

	var reservationID uint64
	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		t, err := tx.GetTable(ctx, tableID)
		if err != nil {
			return tableLookup(tableID, err)
		}
		if !t.Occupied() {
			return violation("Table is not occupied.")
		}
		reservationID = *t.ReservationID
		r, err := tx.GetReservation(ctx, reservationID)
		if err != nil {
			return reservationLookup(reservationID, err)
		}
		if !r.Status.CanTransition(model.StatusFinished, model.TriggerReset) {
			return conflictf("Reservation #%d is %s, not seated.", r.ID, r.Status)
		}

		r.Status = model.StatusFinished
		if err := tx.UpdateReservation(ctx, r); err != nil {
			return err
		}
		t.ReservationID = nil
		if err := tx.UpdateTable(ctx, t); err != nil {
			return err
		}
		table = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("table reset", slog.Uint64("table_id", tableID), slog.Uint64("reservation_id", reservationID))
	s.publish(ctx, queue.NewEvent(queue.TypeTableReset, reservationID, tableID, string(model.StatusFinished), s.now()))
	return table, nil
}
