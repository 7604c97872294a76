package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/restaurant-reservation/internal/model"
)

// MemoryStore keeps reservations and tables in process memory.  It backs the
// "memory" database driver for local runs and is the store used by tests.
// Transactions are serialised: WithinTx holds the store mutex, works on a
// copy of the data and swaps it in only when fn succeeds.
type MemoryStore struct {
	mu   *sync.Mutex
	data *memData
	inTx bool
	now  func() time.Time
}

type memData struct {
	reservations map[uint64]model.Reservation
	tables       map[uint64]model.Table
	nextRes      uint64
	nextTable    uint64
}

func (d *memData) clone() *memData {
	c := &memData{
		reservations: make(map[uint64]model.Reservation, len(d.reservations)),
		tables:       make(map[uint64]model.Table, len(d.tables)),
		nextRes:      d.nextRes,
		nextTable:    d.nextTable,
	}
	for k, v := range d.reservations {
		c.reservations[k] = v
	}
	for k, v := range d.tables {
		c.tables[k] = copyTable(v)
	}
	return c
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mu: &sync.Mutex{},
		data: &memData{
			reservations: make(map[uint64]model.Reservation),
			tables:       make(map[uint64]model.Table),
		},
		now: utcNow,
	}
}

// lock acquires the store mutex unless the caller already holds it through
// WithinTx.
func (s *MemoryStore) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *MemoryStore) GetReservation(ctx context.Context, id uint64) (*model.Reservation, error) {
	defer s.lock()()
	r, ok := s.data.reservations[id]
	if !ok {
		return nil, ErrReservationNotFound
	}
	return &r, nil
}

func (s *MemoryStore) ListReservationsByDate(ctx context.Context, date string) ([]model.Reservation, error) {
	defer s.lock()()
	return s.filter(func(r model.Reservation) bool { return r.ReservationDate == date }), nil
}

func (s *MemoryStore) ListAllReservations(ctx context.Context) ([]model.Reservation, error) {
	defer s.lock()()
	return s.filter(func(model.Reservation) bool { return true }), nil
}

func (s *MemoryStore) SearchReservationsByPhone(ctx context.Context, digits string) ([]model.Reservation, error) {
	defer s.lock()()
	return s.filter(func(r model.Reservation) bool {
		return strings.Contains(stripNonDigits(r.MobileNumber), digits)
	}), nil
}

func (s *MemoryStore) filter(keep func(model.Reservation) bool) []model.Reservation {
	out := make([]model.Reservation, 0)
	for _, r := range s.data.reservations {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ReservationDate != out[j].ReservationDate {
			return out[i].ReservationDate < out[j].ReservationDate
		}
		if out[i].ReservationTime != out[j].ReservationTime {
			return out[i].ReservationTime < out[j].ReservationTime
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *MemoryStore) InsertReservation(ctx context.Context, r *model.Reservation) error {
	defer s.lock()()
	s.data.nextRes++
	now := s.now()
	r.ID = s.data.nextRes
	r.CreatedAt, r.UpdatedAt = now, now
	s.data.reservations[r.ID] = *r
	return nil
}

func (s *MemoryStore) UpdateReservation(ctx context.Context, r *model.Reservation) error {
	defer s.lock()()
	cur, ok := s.data.reservations[r.ID]
	if !ok {
		return ErrReservationNotFound
	}
	r.CreatedAt = cur.CreatedAt
	r.UpdatedAt = s.now()
	s.data.reservations[r.ID] = *r
	return nil
}

func (s *MemoryStore) GetTable(ctx context.Context, id uint64) (*model.Table, error) {
	defer s.lock()()
	t, ok := s.data.tables[id]
	if !ok {
		return nil, ErrTableNotFound
	}
	t = copyTable(t)
	return &t, nil
}

func (s *MemoryStore) ListAllTables(ctx context.Context) ([]model.Table, error) {
	defer s.lock()()
	out := make([]model.Table, 0, len(s.data.tables))
	for _, t := range s.data.tables {
		out = append(out, copyTable(t))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) InsertTable(ctx context.Context, t *model.Table) error {
	defer s.lock()()
	s.data.nextTable++
	now := s.now()
	t.ID = s.data.nextTable
	t.CreatedAt, t.UpdatedAt = now, now
	s.data.tables[t.ID] = copyTable(*t)
	return nil
}

func (s *MemoryStore) UpdateTable(ctx context.Context, t *model.Table) error {
	defer s.lock()()
	cur, ok := s.data.tables[t.ID]
	if !ok {
		return ErrTableNotFound
	}
	t.CreatedAt = cur.CreatedAt
	t.UpdatedAt = s.now()
	s.data.tables[t.ID] = copyTable(*t)
	return nil
}

// WithinTx runs fn against a private copy of the data and publishes the
// copy only if fn returns nil.  Nested calls reuse the open transaction.
func (s *MemoryStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &MemoryStore{mu: s.mu, data: s.data.clone(), inTx: true, now: s.now}
	if err := fn(tx); err != nil {
		return err
	}
	s.data = tx.data
	return nil
}

// copyTable detaches the occupant pointer so callers cannot mutate stored
// state through it.
func copyTable(t model.Table) model.Table {
	if t.ReservationID != nil {
		id := *t.ReservationID
		t.ReservationID = &id
	}
	return t
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
