package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/restaurant-reservation/internal/model"
)

// ReservationRepo provides CRUD operations for reservations.  The same
// type serves plain connections and transactions: q is either a *sqlx.DB or
// a *sqlx.Tx.  When lock is set, single-row reads take a row lock so that
// the read and the following write happen against a stable row.
type ReservationRepo struct {
	q    sqlx.ExtContext
	lock bool
	now  func() time.Time
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sqlx.DB) *ReservationRepo {
	return &ReservationRepo{q: db, now: utcNow}
}

const reservationColumns = `reservation_id, first_name, last_name, mobile_number, reservation_date,
                            reservation_time, people, status, created_at, updated_at`

// GetByID returns the reservation with the given ID or ErrReservationNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations WHERE reservation_id = ?`
	if r.lock {
		q += ` FOR UPDATE`
	}
	var res model.Reservation
	if err := sqlx.GetContext(ctx, r.q, &res, r.q.Rebind(q), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to load reservation %d: %w", id, err)
	}
	return &res, nil
}

// ListByDate returns every reservation on the given date ordered by time.
func (r *ReservationRepo) ListByDate(ctx context.Context, date string) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + `
               FROM reservations
               WHERE reservation_date = ?
               ORDER BY reservation_time, reservation_id`
	return r.list(ctx, q, date)
}

// ListAll returns every reservation ordered by date and time.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + `
               FROM reservations
               ORDER BY reservation_date, reservation_time, reservation_id`
	return r.list(ctx, q)
}

// SearchByPhone returns reservations whose mobile number, stripped of all
// punctuation, contains digits.  Results are ordered by date.
func (r *ReservationRepo) SearchByPhone(ctx context.Context, digits string) ([]model.Reservation, error) {
	q := `SELECT ` + reservationColumns + `
          FROM reservations
          WHERE ` + digitsOnly(r.q.DriverName(), "mobile_number") + ` LIKE ?
          ORDER BY reservation_date, reservation_time, reservation_id`
	return r.list(ctx, q, "%"+digits+"%")
}

func (r *ReservationRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Reservation, error) {
	out := make([]model.Reservation, 0)
	if err := sqlx.SelectContext(ctx, r.q, &out, r.q.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("failed to query reservations: %w", err)
	}
	return out, nil
}

// Create inserts a new reservation and populates its ID and timestamps.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	now := r.now()
	res.CreatedAt, res.UpdatedAt = now, now
	const q = `INSERT INTO reservations (first_name, last_name, mobile_number, reservation_date,
                                         reservation_time, people, status, created_at, updated_at)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	id, err := insertID(ctx, r.q, q, "reservation_id",
		res.FirstName, res.LastName, res.MobileNumber, res.ReservationDate,
		res.ReservationTime, res.People, string(res.Status), res.CreatedAt, res.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}
	res.ID = id
	return nil
}

// Update overwrites the mutable columns of an existing reservation.  It
// returns ErrReservationNotFound when no row matches.
func (r *ReservationRepo) Update(ctx context.Context, res *model.Reservation) error {
	res.UpdatedAt = r.now()
	const q = `UPDATE reservations
               SET first_name = ?, last_name = ?, mobile_number = ?, reservation_date = ?,
                   reservation_time = ?, people = ?, status = ?, updated_at = ?
               WHERE reservation_id = ?`
	result, err := r.q.ExecContext(ctx, r.q.Rebind(q),
		res.FirstName, res.LastName, res.MobileNumber, res.ReservationDate,
		res.ReservationTime, res.People, string(res.Status), res.UpdatedAt, res.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update reservation %d: %w", res.ID, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// digitsOnly returns a SQL expression that strips every non-digit from col.
func digitsOnly(driver, col string) string {
	if driver == "postgres" {
		return `regexp_replace(` + col + `, '[^0-9]', '', 'g')`
	}
	return `REGEXP_REPLACE(` + col + `, '[^0-9]', '')`
}

// insertID runs an INSERT and returns the generated key.  MySQL reports it
// through LastInsertId; lib/pq does not support that, so Postgres inserts
// use RETURNING instead.
func insertID(ctx context.Context, q sqlx.ExtContext, query, idColumn string, args ...interface{}) (uint64, error) {
	if q.DriverName() == "postgres" {
		var id uint64
		if err := q.QueryRowxContext(ctx, q.Rebind(query+` RETURNING `+idColumn), args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}
	result, err := q.ExecContext(ctx, q.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func utcNow() time.Time { return time.Now().UTC().Truncate(time.Second) }
