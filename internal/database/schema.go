package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Dates and times are fixed-width strings so both dialects sort them
// lexicographically and scan them into Go strings.
var schemas = map[string][]string{
	DriverMySQL: {
		`CREATE TABLE IF NOT EXISTS reservations (
			reservation_id   BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
			first_name       VARCHAR(100) NOT NULL,
			last_name        VARCHAR(100) NOT NULL,
			mobile_number    VARCHAR(32)  NOT NULL,
			reservation_date CHAR(10)     NOT NULL,
			reservation_time CHAR(8)      NOT NULL,
			people           INT          NOT NULL,
			status           VARCHAR(16)  NOT NULL DEFAULT 'booked',
			created_at       DATETIME     NOT NULL,
			updated_at       DATETIME     NOT NULL,
			KEY idx_reservations_date (reservation_date, reservation_time)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS dining_tables (
			table_id       BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
			table_name     VARCHAR(100) NOT NULL,
			capacity       INT          NOT NULL,
			reservation_id BIGINT UNSIGNED NULL,
			created_at     DATETIME     NOT NULL,
			updated_at     DATETIME     NOT NULL,
			CONSTRAINT fk_dining_tables_reservation FOREIGN KEY (reservation_id) REFERENCES reservations (reservation_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	},
	DriverPostgres: {
		`CREATE TABLE IF NOT EXISTS reservations (
			reservation_id   BIGSERIAL PRIMARY KEY,
			first_name       VARCHAR(100) NOT NULL,
			last_name        VARCHAR(100) NOT NULL,
			mobile_number    VARCHAR(32)  NOT NULL,
			reservation_date CHAR(10)     NOT NULL,
			reservation_time CHAR(8)      NOT NULL,
			people           INTEGER      NOT NULL,
			status           VARCHAR(16)  NOT NULL DEFAULT 'booked',
			created_at       TIMESTAMPTZ  NOT NULL,
			updated_at       TIMESTAMPTZ  NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_date ON reservations (reservation_date, reservation_time)`,
		`CREATE TABLE IF NOT EXISTS dining_tables (
			table_id       BIGSERIAL PRIMARY KEY,
			table_name     VARCHAR(100) NOT NULL,
			capacity       INTEGER      NOT NULL,
			reservation_id BIGINT NULL REFERENCES reservations (reservation_id),
			created_at     TIMESTAMPTZ  NOT NULL,
			updated_at     TIMESTAMPTZ  NOT NULL
		)`,
	},
}

// Migrate creates the reservations and dining_tables tables if they do not
// exist.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	stmts, ok := schemas[db.DriverName()]
	if !ok {
		return fmt.Errorf("no schema for driver %q", db.DriverName())
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
