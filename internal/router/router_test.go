package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-reservation/internal/handler"
	"github.com/iliyamo/restaurant-reservation/internal/policy"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
	"github.com/iliyamo/restaurant-reservation/internal/service"
)

func newRouter() http.Handler {
	store := repository.NewMemoryStore()
	v := service.NewValidator(policy.Default)
	return New(Deps{
		Reservations:   handler.NewReservationHandler(service.NewReservationService(store, v), nil),
		Tables:         handler.NewTableHandler(service.NewTableService(store, v), nil),
		RequestTimeout: time.Second,
	})
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestProbesAndMetrics(t *testing.T) {
	h := newRouter()

	rec := get(h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	assert.Equal(t, http.StatusOK, get(h, "/readyz").Code)

	// Populate the request histogram before scraping.
	require.Equal(t, http.StatusOK, get(h, "/v1/tables").Code)
	rec = get(h, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "http_request_duration_seconds"))
}

func TestAPIRoutesRegistered(t *testing.T) {
	h := newRouter()

	rec := get(h, "/v1/reservations")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, get(h, "/v1/tables/1").Code)
	assert.NotEmpty(t, get(h, "/v1/tables/1").Header().Get("X-Request-Id"))
	assert.Equal(t, http.StatusNotFound, get(h, "/v1/floor/ws").Code)
}
