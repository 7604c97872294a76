package model

import "time"

// Table is a seating resource in the dining room.  ReservationID points at
// the reservation currently seated there and is nil while the table is
// free; it is only ever changed by seating or resetting the table.
type Table struct {
	ID            uint64    `db:"table_id" json:"table_id"`             // tables.table_id
	Name          string    `db:"table_name" json:"table_name"`         // tables.table_name
	Capacity      int       `db:"capacity" json:"capacity"`             // tables.capacity
	ReservationID *uint64   `db:"reservation_id" json:"reservation_id"` // tables.reservation_id (nullable)
	CreatedAt     time.Time `db:"created_at" json:"created_at"`         // tables.created_at
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`         // tables.updated_at
}

// Occupied reports whether a reservation is seated at the table.
func (t *Table) Occupied() bool {
	return t.ReservationID != nil
}
