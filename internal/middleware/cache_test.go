package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-reservation/internal/config"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func testCacheConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{http.MethodGet: true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "cache",
		MaxBodyBytes: 1 << 20,
	}
}

func request(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRedisCacheKeepsRecordsApart(t *testing.T) {
	_, rdb := newTestRedis(t)
	calls := 0
	e := echo.New()
	e.Use(NewRedisCache(testCacheConfig(), rdb))
	e.GET("/v1/reservations/:reservation_id", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"data": echo.Map{"reservation_id": c.Param("reservation_id")}})
	})

	rec := request(e, http.MethodGet, "/v1/reservations/1", "")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"data":{"reservation_id":"1"}}`, rec.Body.String())

	rec = request(e, http.MethodGet, "/v1/reservations/2", "")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"data":{"reservation_id":"2"}}`, rec.Body.String())

	rec = request(e, http.MethodGet, "/v1/reservations/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"data":{"reservation_id":"1"}}`, rec.Body.String())
	assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON))

	rec = request(e, http.MethodGet, "/v1/reservations/2", "")
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"data":{"reservation_id":"2"}}`, rec.Body.String())

	assert.Equal(t, 2, calls)
}

func TestRedisCachePurgedBySuccessfulWrite(t *testing.T) {
	mr, rdb := newTestRedis(t)
	status := http.StatusCreated
	e := echo.New()
	e.Use(NewRedisCache(testCacheConfig(), rdb))
	e.GET("/v1/tables", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"data": []string{}})
	})
	e.POST("/v1/tables", func(c echo.Context) error {
		return c.JSON(status, echo.Map{})
	})

	assert.Equal(t, "MISS", request(e, http.MethodGet, "/v1/tables", "").Header().Get("X-Cache"))
	assert.Equal(t, "HIT", request(e, http.MethodGet, "/v1/tables", "").Header().Get("X-Cache"))
	require.Len(t, mr.Keys(), 1)

	// A rejected write leaves the cache alone.
	status = http.StatusBadRequest
	request(e, http.MethodPost, "/v1/tables", `{}`)
	assert.Len(t, mr.Keys(), 1)

	status = http.StatusCreated
	request(e, http.MethodPost, "/v1/tables", `{}`)
	assert.Empty(t, mr.Keys())
	assert.Equal(t, "MISS", request(e, http.MethodGet, "/v1/tables", "").Header().Get("X-Cache"))
}

func TestRedisCacheSkipsErrorsAndOversizedBodies(t *testing.T) {
	mr, rdb := newTestRedis(t)
	cfg := testCacheConfig()
	cfg.MaxBodyBytes = 16
	e := echo.New()
	e.Use(NewRedisCache(cfg, rdb))
	e.GET("/v1/tables/:table_id", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Table #9 cannot be found."})
	})
	e.GET("/v1/tables", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"data": strings.Repeat("x", 64)})
	})

	for i := 0; i < 2; i++ {
		rec := request(e, http.MethodGet, "/v1/tables/9", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))

		rec = request(e, http.MethodGet, "/v1/tables", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
		assert.Contains(t, rec.Body.String(), strings.Repeat("x", 64))
	}
	assert.Empty(t, mr.Keys())
}
