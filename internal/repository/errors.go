// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// services to distinguish a missing row from a database failure without
// depending on driver specific errors like sql.ErrNoRows.
package repository

import "errors"

// ErrReservationNotFound is returned when no reservation has the
// requested ID.  Services translate it into a not-found error.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrTableNotFound is returned when no table has the requested ID.
var ErrTableNotFound = errors.New("table not found")
