package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

type fakeRatings struct{ ready bool }

func (f fakeRatings) Ready() bool { return f.ready }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthAndLive(t *testing.T) {
	s := NewServer(Config{ServiceName: "edgebot", Version: "1.0.0", Port: "0"})

	for _, path := range []string{"/health", "/live"} {
		rec := get(t, s.Handler(), path)
		require.Equal(t, http.StatusOK, rec.Code, path)

		var body HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ok", body.Status)
		assert.Equal(t, "edgebot", body.Service)
	}
}

func TestReady(t *testing.T) {
	tests := []struct {
		name       string
		ready      bool
		ratings    RatingsChecker
		db         DatabasePinger
		wantStatus int
		wantChecks map[string]string
	}{
		{
			name:       "not marked ready",
			ready:      false,
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: map[string]string{"service": "not_ready"},
		},
		{
			name:       "all healthy",
			ready:      true,
			ratings:    fakeRatings{ready: true},
			db:         fakePinger{},
			wantStatus: http.StatusOK,
			wantChecks: map[string]string{"service": "ok", "ratings": "ok", "database": "ok"},
		},
		{
			name:       "ratings not built",
			ready:      true,
			ratings:    fakeRatings{ready: false},
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: map[string]string{"service": "ok", "ratings": "not_built"},
		},
		{
			name:       "database down",
			ready:      true,
			db:         fakePinger{err: errors.New("connection refused")},
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: map[string]string{"service": "ok", "database": "error: connection refused"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(Config{ServiceName: "edgebot", Port: "0", Ratings: tt.ratings, DB: tt.db})
			s.SetReady(tt.ready)

			rec := get(t, s.Handler(), "/ready")
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body ReadyResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantChecks, body.Checks)
		})
	}
}

func TestMetricsRoute(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("gridiron_edge_quotes_evaluated_total 3\n"))
	})
	s := NewServer(Config{Port: "0", MetricsPath: "/custom-metrics", MetricsHandler: metrics})

	rec := get(t, s.Handler(), "/custom-metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "quotes_evaluated_total")

	assert.Equal(t, http.StatusNotFound, get(t, s.Handler(), "/metrics").Code)
}

func TestShutdownWithoutStart(t *testing.T) {
	s := NewServer(Config{})
	assert.NoError(t, s.Shutdown())
}
