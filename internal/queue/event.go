// Package queue defines the domain events emitted after reservations and
// tables change, and the broker adapters that carry them.
package queue

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	TypeReservationCreated       = "reservation.created"
	TypeReservationUpdated       = "reservation.updated"
	TypeReservationStatusChanged = "reservation.status_changed"
	TypeTableCreated             = "table.created"
	TypeTableSeated              = "table.seated"
	TypeTableReset               = "table.reset"
)

// Event is published once a change has been committed.  It carries enough
// information for downstream consumers (audit log, floor dashboards) to
// react without querying the primary database.
type Event struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	ReservationID uint64    `json:"reservation_id,omitempty"`
	TableID       uint64    `json:"table_id,omitempty"`
	Status        string    `json:"status,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewEvent stamps an event with a fresh ID.
func NewEvent(typ string, reservationID, tableID uint64, status string, at time.Time) Event {
	return Event{
		ID:            uuid.NewString(),
		Type:          typ,
		ReservationID: reservationID,
		TableID:       tableID,
		Status:        status,
		OccurredAt:    at.UTC(),
	}
}

// Publisher delivers events to a broker or to connected clients.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Multi fans an event out to several publishers.  Every publisher is tried;
// the returned error joins all failures.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
