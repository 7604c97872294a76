package repository

import (
	"context"

	"github.com/iliyamo/restaurant-reservation/internal/model"
)

// Store is the record-level persistence contract consumed by the services.
// Implementations own durable state; callers re-read records on every
// operation and never cache them.
//
// Get methods return ErrReservationNotFound or ErrTableNotFound when the
// row does not exist.  Insert methods populate the generated ID and the
// timestamps on the passed record.  Update methods overwrite every mutable
// column of the row identified by the record's ID.
type Store interface {
	GetReservation(ctx context.Context, id uint64) (*model.Reservation, error)
	ListReservationsByDate(ctx context.Context, date string) ([]model.Reservation, error)
	ListAllReservations(ctx context.Context) ([]model.Reservation, error)
	// SearchReservationsByPhone matches digits as a substring of the stored
	// mobile numbers with every non-digit character removed.
	SearchReservationsByPhone(ctx context.Context, digits string) ([]model.Reservation, error)
	InsertReservation(ctx context.Context, r *model.Reservation) error
	UpdateReservation(ctx context.Context, r *model.Reservation) error

	GetTable(ctx context.Context, id uint64) (*model.Table, error)
	ListAllTables(ctx context.Context) ([]model.Table, error)
	InsertTable(ctx context.Context, t *model.Table) error
	UpdateTable(ctx context.Context, t *model.Table) error

	// WithinTx runs fn against a Store bound to a single transaction.  The
	// transaction commits when fn returns nil and rolls back otherwise.
	// Records read through the transactional Store are locked until the
	// transaction ends where the backend supports it.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
