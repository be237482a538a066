package tomtom

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string) *Client {
	c := NewClient("test-key")
	c.baseURL = serverURL
	c.now = func() time.Time {
		return time.Date(2026, time.August, 25, 18, 30, 0, 0, time.UTC)
	}
	return c
}

func TestClient_FlowSegment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "flowSegmentData/relative")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "12.935200,77.624500", r.URL.Query().Get("point"))
		assert.Equal(t, "KMPH", r.URL.Query().Get("unit"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"flowSegmentData":{"currentSpeed":18.5,"freeFlowSpeed":45.0,"roadClosure":false}}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	reading, err := c.FlowSegment(context.Background(), "Koramangala", 12.9352, 77.6245)
	require.NoError(t, err)

	assert.Equal(t, "Koramangala", reading.Location)
	assert.Equal(t, 18.5, reading.CurrentSpeed)
	assert.Equal(t, 45.0, reading.FreeFlowSpeed)
	assert.False(t, reading.RoadClosure)
	assert.Equal(t, "TomTom Live API", reading.Source)
	assert.Equal(t, 0.95, reading.Confidence)
	assert.False(t, reading.ObservedAt.IsZero())
}

func TestClient_FlowSegmentAppliesDefaultsForMissingFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"flowSegmentData":{"roadClosure":true}}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	reading, err := c.FlowSegment(context.Background(), "Whitefield", 12.9698, 77.7500)
	require.NoError(t, err)

	assert.Equal(t, 30.0, reading.CurrentSpeed)
	assert.Equal(t, 50.0, reading.FreeFlowSpeed)
	assert.True(t, reading.RoadClosure)
}

func TestClient_FlowSegmentFallsBackToAbsoluteEndpoint(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if len(paths) == 1 {
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"flowSegmentData":{"currentSpeed":40,"freeFlowSpeed":50}}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	reading, err := c.FlowSegment(context.Background(), "Indiranagar", 12.9719, 77.6412)
	require.NoError(t, err)

	require.Len(t, paths, 2)
	assert.Contains(t, paths[0], "relative")
	assert.Contains(t, paths[1], "absolute")
	assert.Equal(t, 40.0, reading.CurrentSpeed)
}

func TestClient_FlowSegmentAllEndpointsFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.FlowSegment(context.Background(), "Koramangala", 12.9352, 77.6245)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "all TomTom endpoints failed")
	assert.Contains(t, err.Error(), "403")
}

func TestClient_FlowSegmentContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	c := newTestClient(server.URL)
	_, err := c.FlowSegment(ctx, "Koramangala", 12.9352, 77.6245)
	assert.Error(t, err)
}
