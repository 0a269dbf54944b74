package middleware_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/middleware"
)

// loggedRouter mounts the request logger the way cmd/api does, in front of
// a subrouter, and returns the router plus the captured log output.
func loggedRouter(status int) (http.Handler, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	api := chi.NewRouter()
	reply := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(status) }
	api.Get("/healthz", reply)
	api.Get("/trips", reply)
	api.Get("/trips/{tripID}/activities", reply)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.NewSlogLogger(logger))
	r.Mount("/", api)
	return r, &buf
}

func logLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestSlogLogger_RecordsRouteAndTrip(t *testing.T) {
	h, buf := loggedRouter(http.StatusOK)
	req := httptest.NewRequest(http.MethodGet, "/trips/6f1c2a8e-0000-4000-8000-000000000001/activities", nil)
	req.Header.Set(chimiddleware.RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	entry := logLine(t, buf)
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/trips/{tripID}/activities", entry["route"])
	assert.Equal(t, "6f1c2a8e-0000-4000-8000-000000000001", entry["trip_id"])
	assert.Equal(t, "req-42", entry["request_id"])
	assert.EqualValues(t, http.StatusOK, entry["status"])
	assert.NotNil(t, entry["duration_ms"])
}

func TestSlogLogger_NoTripOnCollectionRoute(t *testing.T) {
	h, buf := loggedRouter(http.StatusOK)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/trips", nil))

	entry := logLine(t, buf)
	assert.Equal(t, "/trips", entry["route"])
	assert.NotContains(t, entry, "trip_id")
}

func TestSlogLogger_Levels(t *testing.T) {
	cases := []struct {
		path   string
		status int
		level  string
	}{
		{"/healthz", http.StatusOK, "DEBUG"},
		{"/healthz", http.StatusServiceUnavailable, "ERROR"},
		{"/trips", http.StatusOK, "INFO"},
		{"/trips", http.StatusNotFound, "WARN"},
		{"/trips", http.StatusInternalServerError, "ERROR"},
	}
	for _, tc := range cases {
		h, buf := loggedRouter(tc.status)

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tc.path, nil))

		assert.Equal(t, tc.level, logLine(t, buf)["level"], "%s %d", tc.path, tc.status)
	}
}

// Outside a chi router there is no route context; the line is still written.
func TestSlogLogger_WithoutRouter(t *testing.T) {
	var buf bytes.Buffer
	h := middleware.NewSlogLogger(slog.New(slog.NewJSONHandler(&buf, nil)))(http.NotFoundHandler())

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	entry := logLine(t, &buf)
	assert.Equal(t, "/nowhere", entry["path"])
	assert.NotContains(t, entry, "route")
}
