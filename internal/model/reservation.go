package model

import "time"

// Reservation is a party's booking at the restaurant.
//
// Fields:
//
//	ID              – primary key, assigned by the store.
//	FirstName       – guest first name.
//	LastName        – guest last name.
//	MobileNumber    – contact number, free format.
//	ReservationDate – calendar date, YYYY-MM-DD.
//	ReservationTime – time of day, HH:MM:SS.
//	People          – party size.
//	Status          – lifecycle state (booked, seated, finished, cancelled).
//	CreatedAt       – creation timestamp.
//	UpdatedAt       – last update timestamp.
type Reservation struct {
	ID              uint64    `db:"reservation_id" json:"reservation_id"`     // reservations.reservation_id
	FirstName       string    `db:"first_name" json:"first_name"`             // reservations.first_name
	LastName        string    `db:"last_name" json:"last_name"`               // reservations.last_name
	MobileNumber    string    `db:"mobile_number" json:"mobile_number"`       // reservations.mobile_number
	ReservationDate string    `db:"reservation_date" json:"reservation_date"` // reservations.reservation_date
	ReservationTime string    `db:"reservation_time" json:"reservation_time"` // reservations.reservation_time
	People          int       `db:"people" json:"people"`                     // reservations.people
	Status          Status    `db:"status" json:"status"`                     // reservations.status
	CreatedAt       time.Time `db:"created_at" json:"created_at"`             // reservations.created_at
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`             // reservations.updated_at
}
