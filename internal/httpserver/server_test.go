package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStatus struct {
	online bool
	n      int
}

func (f fakeStatus) Online() bool { return f.online }
func (f fakeStatus) QueueLen(context.Context) int { return f.n }

func TestHealthz(t *testing.T) {
	s := New(fakeStatus{online: false, n: 3}, prometheus.NewRegistry(), zerolog.Nop())
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body health
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, health{Status: "ok", Online: false, QueueLength: 3}, body)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	g := prometheus.NewGauge(prometheus.GaugeOpts{Name: "offline_queue_depth", Help: "x"})
	reg.MustRegister(g)
	g.Set(2)

	s := New(fakeStatus{}, reg, zerolog.Nop())
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "offline_queue_depth 2"))
}
