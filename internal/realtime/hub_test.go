package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritee123/loginsight/internal/activity"
	"github.com/ritee123/loginsight/internal/analytics"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(testWriter{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestSubscriptionWants(t *testing.T) {
	high := analytics.SecurityAlert{Severity: activity.SeverityHigh}
	low := analytics.SecurityAlert{Severity: activity.SeverityLow}

	all := Subscription{}
	assert.True(t, all.wants(high))
	assert.True(t, all.wants(low))

	filtered := Subscription{MinSeverity: activity.SeverityHigh}
	assert.True(t, filtered.wants(high))
	assert.False(t, filtered.wants(low))
	assert.True(t, filtered.wants(analytics.SecurityAlert{Severity: activity.SeverityCritical}))
}

func TestHubDeliversAlertToClient(t *testing.T) {
	hub := NewHub(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(httpHandler(hub))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	waitForClients(t, hub, 1)

	hub.BroadcastAlert(analytics.SecurityAlert{
		ID:       "la_1",
		Title:    "Anomalous Login Detected",
		Severity: activity.SeverityHigh,
		Status:   "new",
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var event Event
	require.NoError(t, json.Unmarshal(msg, &event))
	assert.Equal(t, EventSecurityAlert, event.Type)
	assert.Equal(t, "la_1", event.Alert.ID)
}

func TestHubShutdownClosesClients(t *testing.T) {
	hub := NewHub(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(httpHandler(hub))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	waitForClients(t, hub, 1)
	cancel()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break // connection closed by hub
		}
	}
	assert.Equal(t, 0, hub.ClientCount())
}

func TestPollerDedupesAcrossPolls(t *testing.T) {
	store := activity.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, &activity.LoginRecord{
		Email:     "a@x.com",
		Timestamp: time.Now().Add(-time.Hour),
		IsAnomaly: true,
		Severity:  activity.SeverityHigh,
	}))

	svc := analytics.NewService(store)
	hub := NewHub(testLogger()) // not running: broadcasts queue in the channel
	p := NewPoller(svc, hub, time.Second, testLogger())

	p.poll(ctx)
	p.poll(ctx)

	assert.Equal(t, 1, len(hub.broadcast), "same alert must be broadcast once")
}

func httpHandler(hub *Hub) http.Handler {
	return http.HandlerFunc(hub.HandleWebSocket)
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() >= n {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d clients", n)
}
