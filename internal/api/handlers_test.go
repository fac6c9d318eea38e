// MotionStudio Admin Cache - Client Data Cache Engine
// Copyright 2026 DarkRiddle1212
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarkRiddle1212/motionstudio-sub001

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DarkRiddle1212/motionstudio-sub001/internal/cache"
	"github.com/DarkRiddle1212/motionstudio-sub001/internal/config"
)

// fakeEngine records the calls the handlers make.
type fakeEngine struct {
	stats        cache.Stats
	lastPattern  string
	removedCount int
	sweepCount   int
}

func (f *fakeEngine) Stats() cache.Stats { return f.stats }

func (f *fakeEngine) InvalidatePattern(re *regexp.Regexp) int {
	f.lastPattern = re.String()
	return f.removedCount
}

func (f *fakeEngine) Sweep() int { return f.sweepCount }

func newTestServer(engine Engine) *Server {
	cfg := config.ServerConfig{Host: "127.0.0.1", Port: 7421, Timeout: 5 * time.Second}
	return NewServer(engine, cfg, zerolog.Nop())
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(&fakeEngine{})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestHandleStats(t *testing.T) {
	engine := &fakeEngine{stats: cache.Stats{
		Size:    3,
		MaxSize: 100,
		Hits:    7,
		Misses:  3,
		HitRate: 0.7,
	}}
	srv := newTestServer(engine)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got cache.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, engine.stats, got)
}

func TestHandleInvalidate(t *testing.T) {
	engine := &fakeEngine{removedCount: 2}
	srv := newTestServer(engine)

	body, _ := json.Marshal(InvalidateRequest{Pattern: "^users:"})
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/invalidate", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "^users:", engine.lastPattern)

	var resp invalidateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Removed)
	assert.Equal(t, "^users:", resp.Pattern)
}

func TestHandleInvalidateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", "{not json"},
		{"missing pattern", `{}`},
		{"empty pattern", `{"pattern": ""}`},
		{"invalid regex", `{"pattern": "[unclosed"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(&fakeEngine{})
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/invalidate", bytes.NewReader([]byte(tt.body)))
			srv.Router().ServeHTTP(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestHandleSweep(t *testing.T) {
	srv := newTestServer(&fakeEngine{sweepCount: 4})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sweep", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp sweepResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Removed)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&fakeEngine{})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestServerGracefulShutdown(t *testing.T) {
	srv := newTestServer(&fakeEngine{})
	srv.cfg.Port = 0 // let the kernel pick a free port

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Server did not shut down after context cancellation")
	}
}
