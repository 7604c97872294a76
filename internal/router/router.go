// Package router wires handlers and middleware onto an Echo instance.
package router

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/restaurant-reservation/internal/config"
	"github.com/iliyamo/restaurant-reservation/internal/handler"
	"github.com/iliyamo/restaurant-reservation/internal/middleware"
)

// Deps are the collaborators the routes need.  Floor and DB are optional.
type Deps struct {
	Reservations   *handler.ReservationHandler
	Tables         *handler.TableHandler
	Floor          echo.HandlerFunc
	DB             handler.Pinger
	Redis          *redis.Client
	RateLimit      config.RateLimitConfig
	Cache          config.CacheConfig
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// New builds an Echo instance with every route registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	RegisterRoutes(e, d)
	return e
}

// RegisterRoutes installs the global middleware, the probes and the /v1 API.
func RegisterRoutes(e *echo.Echo, d Deps) {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.Metrics())

	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(d.DB))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// The floor feed is long lived, so it stays outside the timeout and
	// cache middleware.
	if d.Floor != nil {
		e.GET("/v1/floor/ws", d.Floor)
	}

	v1 := e.Group("/v1")
	v1.Use(middleware.NewTokenBucket(d.RateLimit, d.Redis))
	if d.RequestTimeout > 0 {
		v1.Use(echomw.ContextTimeoutWithConfig(echomw.ContextTimeoutConfig{
			Timeout: d.RequestTimeout,
			ErrorHandler: func(err error, c echo.Context) error {
				if errors.Is(err, context.DeadlineExceeded) {
					return c.JSON(http.StatusGatewayTimeout, echo.Map{"error": "request timeout"})
				}
				return err
			},
		}))
	}
	v1.Use(middleware.NewRedisCache(d.Cache, d.Redis))

	if r := d.Reservations; r != nil {
		v1.GET("/reservations", r.List)
		v1.POST("/reservations", r.Create)
		v1.GET("/reservations/:reservation_id", r.Get)
		v1.PUT("/reservations/:reservation_id", r.Update)
		v1.PUT("/reservations/:reservation_id/status", r.UpdateStatus)
	}
	if t := d.Tables; t != nil {
		v1.GET("/tables", t.List)
		v1.POST("/tables", t.Create)
		v1.GET("/tables/:table_id", t.Get)
		v1.PUT("/tables/:table_id/seat", t.Seat)
		v1.DELETE("/tables/:table_id/seat", t.Reset)
	}
}
