package monitor

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *EventCollector, *httptest.Server) {
	t.Helper()
	collector := NewEventCollector()
	s := NewServer("", collector)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, collector, ts
}

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func TestServer_Health(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
}

func TestServer_Stats(t *testing.T) {
	_, collector, ts := newTestServer(t)

	collector.EmitCompleted("job-1", "orders", time.Millisecond)
	collector.EmitFailed("job-2", "orders", 1)

	resp, err := http.Get(ts.URL + "/stats")
	require.NoError(t, err)
	defer resp.Body.Close()

	var stats CollectorStats
	require.NoError(
		t, json.NewDecoder(resp.Body).Decode(&stats),
	)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Passed)
	assert.Equal(t, 1, stats.Failed)
}

func TestServer_WebSocketReceivesSnapshotThenEvents(t *testing.T) {
	_, collector, ts := newTestServer(t)

	collector.EmitCompleted("job-0", "orders", time.Millisecond)

	conn, _, err := websocket.DefaultDialer.Dial(
		wsURL(ts), nil,
	)
	require.NoError(t, err)
	defer conn.Close()

	// First message is the stats snapshot.
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var stats CollectorStats
	require.NoError(t, json.Unmarshal(data, &stats))
	assert.Equal(t, 1, stats.Passed)

	// Subsequent messages are live events.
	collector.EmitFailed("job-1", "orders", 2)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err = conn.ReadMessage()
	require.NoError(t, err)

	var event ValidationEvent
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, EventFailed, event.Type)
	assert.Equal(t, "job-1", event.JobID)
	assert.Equal(t, 2, event.ErrorCount)
}

func TestServer_WebSocketClientDisconnect(t *testing.T) {
	_, collector, ts := newTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(
		wsURL(ts), nil,
	)
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	// Broadcasting after disconnect must not panic.
	collector.EmitCompleted("job-1", "orders", time.Millisecond)
}
