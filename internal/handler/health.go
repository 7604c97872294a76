package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger reports whether a backing dependency answers.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health is the liveness probe used by load balancers.  It returns a plain
// "ok" with 200 as long as the process serves HTTP.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Ready pings db and answers 503 while it is unreachable.  A nil db (the
// in-memory store) is always ready.
func Ready(db Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if db == nil {
			return c.String(http.StatusOK, "ok")
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			slog.Warn("readiness: database ping failed", slog.Any("error", err))
			return c.String(http.StatusServiceUnavailable, "database unavailable")
		}
		return c.String(http.StatusOK, "ok")
	}
}
