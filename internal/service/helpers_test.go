package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/policy"
	"github.com/iliyamo/restaurant-reservation/internal/queue"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
)

// fixedNow is a Tuesday morning; 2030-01-02 is the following Wednesday.
var fixedNow = time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// spyStore counts writes and can fail table updates.  Transactional stores
// handed to fn are wrapped too, so writes inside WithinTx are counted.
type spyStore struct {
	repository.Store
	calls *spyCalls
}

type spyCalls struct {
	writes          int
	failTableUpdate error
}

func newSpy(inner repository.Store) *spyStore {
	return &spyStore{Store: inner, calls: &spyCalls{}}
}

func (s *spyStore) InsertReservation(ctx context.Context, r *model.Reservation) error {
	s.calls.writes++
	return s.Store.InsertReservation(ctx, r)
}

func (s *spyStore) UpdateReservation(ctx context.Context, r *model.Reservation) error {
	s.calls.writes++
	return s.Store.UpdateReservation(ctx, r)
}

func (s *spyStore) InsertTable(ctx context.Context, t *model.Table) error {
	s.calls.writes++
	return s.Store.InsertTable(ctx, t)
}

func (s *spyStore) UpdateTable(ctx context.Context, t *model.Table) error {
	s.calls.writes++
	if s.calls.failTableUpdate != nil {
		return s.calls.failTableUpdate
	}
	return s.Store.UpdateTable(ctx, t)
}

func (s *spyStore) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.Store.WithinTx(ctx, func(tx repository.Store) error {
		return fn(&spyStore{Store: tx, calls: s.calls})
	})
}

type capturePublisher struct {
	mu     sync.Mutex
	events []queue.Event
	err    error
}

func (p *capturePublisher) Publish(_ context.Context, ev queue.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *capturePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type fixture struct {
	mem          *repository.MemoryStore
	spy          *spyStore
	events       *capturePublisher
	reservations *ReservationService
	tables       *TableService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := repository.NewMemoryStore()
	spy := newSpy(mem)
	events := &capturePublisher{}
	v := NewValidator(policy.Default)
	opts := []Option{WithClock(clock), WithPublisher(events)}
	return &fixture{
		mem:          mem,
		spy:          spy,
		events:       events,
		reservations: NewReservationService(spy, v, opts...),
		tables:       NewTableService(spy, v, opts...),
	}
}

func validInput() ReservationInput {
	return ReservationInput{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		MobileNumber:    "555-0100",
		ReservationDate: "2030-01-02",
		ReservationTime: "18:00",
		People:          2,
	}
}

// insertReservation writes a reservation directly, bypassing validation.
func (f *fixture) insertReservation(t *testing.T, people int, status model.Status) *model.Reservation {
	t.Helper()
	r := &model.Reservation{
		FirstName:       "Grace",
		LastName:        "Hopper",
		MobileNumber:    "(555) 0100",
		ReservationDate: "2030-01-02",
		ReservationTime: "19:00:00",
		People:          people,
		Status:          status,
	}
	require.NoError(t, f.mem.InsertReservation(context.Background(), r))
	return r
}

func (f *fixture) insertTable(t *testing.T, name string, capacity int) *model.Table {
	t.Helper()
	tbl := &model.Table{Name: name, Capacity: capacity}
	require.NoError(t, f.mem.InsertTable(context.Background(), tbl))
	return tbl
}

func requireKind(t *testing.T, err error, kind *Error, message string) {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, kind), "want %v, got %T %v", kind.Kind, err, err)
	if message != "" {
		require.Equal(t, message, err.Error())
	}
}
