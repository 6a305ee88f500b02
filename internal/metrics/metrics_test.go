package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveNetworkRequest_CountsByStatus(t *testing.T) {
	before := testutil.ToFloat64(NetworkRequestTotal.WithLabelValues("feeds", "weather", "error"))
	ObserveNetworkRequest("feeds", "weather", time.Now(), errors.New("boom"))
	after := testutil.ToFloat64(NetworkRequestTotal.WithLabelValues("feeds", "weather", "error"))
	if after-before != 1 {
		t.Fatalf("want +1, got %v", after-before)
	}
}

func TestSetOnline(t *testing.T) {
	SetOnline(true)
	if v := testutil.ToFloat64(Online); v != 1 {
		t.Fatalf("want 1, got %v", v)
	}
	SetOnline(false)
	if v := testutil.ToFloat64(Online); v != 0 {
		t.Fatalf("want 0, got %v", v)
	}
}

func TestMustRegister_FreshRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	MustRegister(reg)
	if _, err := reg.Gather(); err != nil {
		t.Fatalf("gather: %v", err)
	}
}
