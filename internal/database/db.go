// Package database opens the SQL connection pool and owns the schema.
package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Driver names accepted by Open.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Options describes how to reach the database.
type Options struct {
	Driver  string
	User    string
	Pass    string
	Host    string
	Port    string
	Name    string
	SSLMode string // postgres only
}

// DSN renders the driver specific connection string.
func (o Options) DSN() (string, error) {
	switch o.Driver {
	case DriverMySQL:
		auth := o.User
		if o.Pass != "" {
			auth = fmt.Sprintf("%s:%s", o.User, o.Pass)
		}
		// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
		// clientFoundRows=true -> an UPDATE that changes nothing still reports its row
		return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
			auth, o.Host, o.Port, o.Name), nil
	case DriverPostgres:
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(o.User, o.Pass),
			Host:   o.Host + ":" + o.Port,
			Path:   "/" + o.Name,
		}
		if o.Pass == "" {
			u.User = url.User(o.User)
		}
		sslmode := o.SSLMode
		if sslmode == "" {
			sslmode = "disable"
		}
		u.RawQuery = url.Values{"sslmode": {sslmode}, "timezone": {"UTC"}}.Encode()
		return u.String(), nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", o.Driver)
	}
}

// Open connects and verifies the connection.
func Open(o Options) (*sqlx.DB, error) {
	dsn, err := o.DSN()
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open(o.Driver, dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
