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

// TableRepo provides methods to create, retrieve and update tables.
type TableRepo struct {
	q    sqlx.ExtContext
	lock bool
	now  func() time.Time
}

// NewTableRepo constructs a TableRepo with the given DB handle.
func NewTableRepo(db *sqlx.DB) *TableRepo {
	return &TableRepo{q: db, now: utcNow}
}

const tableColumns = `table_id, table_name, capacity, reservation_id, created_at, updated_at`

// GetByID retrieves a table by its ID.  It returns ErrTableNotFound when no
// row is found.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (*model.Table, error) {
	q := `SELECT ` + tableColumns + ` FROM dining_tables WHERE table_id = ?`
	if r.lock {
		q += ` FOR UPDATE`
	}
	var t model.Table
	if err := sqlx.GetContext(ctx, r.q, &t, r.q.Rebind(q), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("failed to load table %d: %w", id, err)
	}
	return &t, nil
}

// ListAll returns every table ordered by name.
func (r *TableRepo) ListAll(ctx context.Context) ([]model.Table, error) {
	const q = `SELECT ` + tableColumns + ` FROM dining_tables ORDER BY table_name, table_id`
	out := make([]model.Table, 0)
	if err := sqlx.SelectContext(ctx, r.q, &out, r.q.Rebind(q)); err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	return out, nil
}

// Create inserts a new table.  After insert the ID field of the table will
// be set.
func (r *TableRepo) Create(ctx context.Context, t *model.Table) error {
	now := r.now()
	t.CreatedAt, t.UpdatedAt = now, now
	const q = `INSERT INTO dining_tables (table_name, capacity, reservation_id, created_at, updated_at)
               VALUES (?, ?, ?, ?, ?)`
	id, err := insertID(ctx, r.q, q, "table_id", t.Name, t.Capacity, t.ReservationID, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	t.ID = id
	return nil
}

// Update writes name, capacity and occupant of an existing table.  Returns
// ErrTableNotFound when not found.
func (r *TableRepo) Update(ctx context.Context, t *model.Table) error {
	t.UpdatedAt = r.now()
	const q = `UPDATE dining_tables
               SET table_name = ?, capacity = ?, reservation_id = ?, updated_at = ?
               WHERE table_id = ?`
	result, err := r.q.ExecContext(ctx, r.q.Rebind(q), t.Name, t.Capacity, t.ReservationID, t.UpdatedAt, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update table %d: %w", t.ID, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrTableNotFound
	}
	return nil
}
