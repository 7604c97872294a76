// Package service implements the reservation and table business rules on
// top of a repository.Store.  Services are stateless between calls: every
// operation re-reads the records it needs, decides and writes back.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/iliyamo/restaurant-reservation/internal/metrics"
	"github.com/iliyamo/restaurant-reservation/internal/queue"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
)

// publishTimeout bounds how long an event publish may take after commit.
const publishTimeout = 5 * time.Second

// Option configures the collaborators shared by the services.
type Option func(*deps)

type deps struct {
	now    func() time.Time
	events queue.Publisher
	logger *slog.Logger
}

func newDeps(opts []Option) deps {
	d := deps{
		now:    time.Now,
		events: queue.Nop{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// WithClock replaces the wall clock used for "now".
func WithClock(now func() time.Time) Option {
	return func(d *deps) {
		if now != nil {
			d.now = now
		}
	}
}

// WithPublisher sets where committed changes are announced.
func WithPublisher(p queue.Publisher) Option {
	return func(d *deps) {
		if p != nil {
			d.events = p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *deps) {
		if l != nil {
			d.logger = l
		}
	}
}

// publish announces a committed change.  Failures are logged and never
// reach the caller: the write already happened.
func (d deps) publish(ctx context.Context, ev queue.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := d.events.Publish(ctx, ev); err != nil {
		d.logger.Warn("failed to publish event",
			slog.String("type", ev.Type),
			slog.Uint64("reservation_id", ev.ReservationID),
			slog.Uint64("table_id", ev.TableID),
			slog.Any("error", err))
	}
}

// observe records the outcome of an operation.
func observe(operation string, err error) {
	metrics.ObserveOperation(operation, outcome(err))
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Kind.String()
	}
	return "error"
}

func reservationLookup(id uint64, err error) error {
	if errors.Is(err, repository.ErrReservationNotFound) {
		return notFoundf("Reservation #%d cannot be found.", id)
	}
	return err
}

func tableLookup(id uint64, err error) error {
	if errors.Is(err, repository.ErrTableNotFound) {
		return notFoundf("Table #%d cannot be found.", id)
	}
	return err
}
