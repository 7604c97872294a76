package database

import (
	"context"
	"fmt"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
)

// DefaultTables is the dining room a fresh install starts with.
var DefaultTables = []model.Table{
	{Name: "Bar #1", Capacity: 1},
	{Name: "Bar #2", Capacity: 1},
	{Name: "#1", Capacity: 6},
	{Name: "#2", Capacity: 6},
}

// SeedTables inserts DefaultTables when the store has no tables yet and
// returns how many were created.
func SeedTables(ctx context.Context, store repository.Store) (int, error) {
	created := 0
	err := store.WithinTx(ctx, func(tx repository.Store) error {
		existing, err := tx.ListAllTables(ctx)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return nil
		}
		for _, t := range DefaultTables {
			t := t
			if err := tx.InsertTable(ctx, &t); err != nil {
				return fmt.Errorf("failed to seed table %q: %w", t.Name, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}
