package service

import (
	"context"
	"sort"
	"strings"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/policy"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
)

// ListFilter narrows a reservation listing.  Date wins when both are set.
type ListFilter struct {
	Date         string
	MobileNumber string
}

// QueryService answers reservation listings straight from the store.
type QueryService struct {
	store repository.Store
}

// NewQueryService returns a QueryService reading from store.
func NewQueryService(store repository.Store) *QueryService {
	return &QueryService{store: store}
}

// List returns reservations matching f.
//
// A date listing is the dashboard view: finished reservations are left out
// and results are ordered by time.  Phone searches and the unfiltered
// listing keep every status and are ordered by date, then time.
func (q *QueryService) List(ctx context.Context, f ListFilter) ([]model.Reservation, error) {
	date := strings.TrimSpace(f.Date)
	phone := strings.TrimSpace(f.MobileNumber)

	switch {
	case date != "":
		if _, err := policy.ParseDate(date, nil); err != nil {
			return nil, invalidf("date must be formatted YYYY-MM-DD. Given: '%s'", date)
		}
		rows, err := q.store.ListReservationsByDate(ctx, date)
		if err != nil {
			return nil, err
		}
		out := rows[:0]
		for _, r := range rows {
			if r.Status != model.StatusFinished {
				out = append(out, r)
			}
		}
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].ReservationTime != out[j].ReservationTime {
				return out[i].ReservationTime < out[j].ReservationTime
			}
			return out[i].ID < out[j].ID
		})
		return out, nil

	case phone != "":
		digits := Digits(phone)
		if digits == "" {
			return nil, invalidf("mobile_number must contain at least one digit. Given: '%s'", phone)
		}
		rows, err := q.store.SearchReservationsByPhone(ctx, digits)
		if err != nil {
			return nil, err
		}
		sortByDateTime(rows)
		return rows, nil

	default:
		rows, err := q.store.ListAllReservations(ctx)
		if err != nil {
			return nil, err
		}
		sortByDateTime(rows)
		return rows, nil
	}
}

// Digits keeps only the ASCII digits of s.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func sortByDateTime(rows []model.Reservation) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.ReservationDate != b.ReservationDate {
			return a.ReservationDate < b.ReservationDate
		}
		if a.ReservationTime != b.ReservationTime {
			return a.ReservationTime < b.ReservationTime
		}
		return a.ID < b.ID
	})
}
