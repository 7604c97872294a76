package realtime

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-reservation/internal/queue"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	h := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = h.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return h, cancel
}

func TestHubStreamsEventsToClients(t *testing.T) {
	h, _ := startHub(t)
	e := echo.New()
	e.GET("/v1/floor/ws", h.ServeWS)
	srv := httptest.NewServer(e)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/floor/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return h.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	ev := queue.NewEvent(queue.TypeTableSeated, 7, 3, "seated", time.Now())
	require.NoError(t, h.Publish(context.Background(), ev))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got queue.Event
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, ev.ID, got.ID)
	assert.Equal(t, queue.TypeTableSeated, got.Type)
	assert.Equal(t, uint64(7), got.ReservationID)
	assert.Equal(t, uint64(3), got.TableID)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return h.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHubDropsSlowClients(t *testing.T) {
	h, _ := startHub(t)
	slow := &client{hub: h, send: make(chan []byte, 1), remote: "test"}
	require.True(t, h.attach(slow))
	require.Equal(t, 1, h.Clients())

	ev := queue.NewEvent(queue.TypeReservationCreated, 1, 0, "booked", time.Now())
	require.NoError(t, h.Publish(context.Background(), ev))
	require.NoError(t, h.Publish(context.Background(), ev))

	require.Eventually(t, func() bool { return h.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
	_, open := <-slow.send
	assert.True(t, open, "the buffered event is still delivered")
	_, open = <-slow.send
	assert.False(t, open)
}

func TestPublishAfterShutdown(t *testing.T) {
	h, cancel := startHub(t)
	cancel()
	require.Eventually(t, func() bool {
		select {
		case <-h.done:
			return true
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	ev := queue.NewEvent(queue.TypeTableReset, 1, 2, "finished", time.Now())
	// The broadcast buffer may still accept a few events; once full the
	// closed hub is reported.
	var err error
	for i := 0; i <= broadcastBuffer && err == nil; i++ {
		err = h.Publish(context.Background(), ev)
	}
	assert.ErrorIs(t, err, ErrHubClosed)
}
