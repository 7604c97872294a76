package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/restaurant-reservation/internal/model"
)

// SQLStore implements Store on top of MySQL or Postgres.  Outside a
// transaction both repositories share the connection pool; WithinTx hands
// fn a copy whose repositories are bound to a *sqlx.Tx and lock the rows
// they read.
type SQLStore struct {
	db           *sqlx.DB
	Reservations *ReservationRepo
	Tables       *TableRepo
}

// NewSQLStore wires the reservation and table repositories to db.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{
		db:           db,
		Reservations: NewReservationRepo(db),
		Tables:       NewTableRepo(db),
	}
}

// DB exposes the underlying handle for migrations.
func (s *SQLStore) DB() *sqlx.DB { return s.db }

func (s *SQLStore) GetReservation(ctx context.Context, id uint64) (*model.Reservation, error) {
	return s.Reservations.GetByID(ctx, id)
}

func (s *SQLStore) ListReservationsByDate(ctx context.Context, date string) ([]model.Reservation, error) {
	return s.Reservations.ListByDate(ctx, date)
}

func (s *SQLStore) ListAllReservations(ctx context.Context) ([]model.Reservation, error) {
	return s.Reservations.ListAll(ctx)
}

func (s *SQLStore) SearchReservationsByPhone(ctx context.Context, digits string) ([]model.Reservation, error) {
	return s.Reservations.SearchByPhone(ctx, digits)
}

func (s *SQLStore) InsertReservation(ctx context.Context, r *model.Reservation) error {
	return s.Reservations.Create(ctx, r)
}

func (s *SQLStore) UpdateReservation(ctx context.Context, r *model.Reservation) error {
	return s.Reservations.Update(ctx, r)
}

func (s *SQLStore) GetTable(ctx context.Context, id uint64) (*model.Table, error) {
	return s.Tables.GetByID(ctx, id)
}

func (s *SQLStore) ListAllTables(ctx context.Context) ([]model.Table, error) {
	return s.Tables.ListAll(ctx)
}

func (s *SQLStore) InsertTable(ctx context.Context, t *model.Table) error {
	return s.Tables.Create(ctx, t)
}

func (s *SQLStore) UpdateTable(ctx context.Context, t *model.Table) error {
	return s.Tables.Update(ctx, t)
}

// WithinTx begins a transaction, runs fn and commits.  Any error from fn or
// a panic rolls the transaction back.  Nested calls reuse the transaction.
func (s *SQLStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	if s.Reservations.lock {
		return fn(s)
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				slog.Warn("rollback failed", slog.Any("error", rbErr))
			}
		}
	}()
	txStore := &SQLStore{
		db:           s.db,
		Reservations: &ReservationRepo{q: tx, lock: true, now: s.Reservations.now},
		Tables:       &TableRepo{q: tx, lock: true, now: s.Tables.now},
	}
	if err := fn(txStore); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true
	return nil
}
