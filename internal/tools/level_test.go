package tools

import (
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	cases := []struct {
		angle  float64
		level  bool
		offset float64
	}{
		{0, true, 0},
		{0.29, true, -0.725},
		{-0.29, true, 0.725},
		{0.3, false, -0.75},
		{4, false, -10},
	}
	for _, c := range cases {
		r := Read(c.angle)
		if r.Level != c.level {
			t.Errorf("Read(%v).Level = %v, want %v", c.angle, r.Level, c.level)
		}
		if diff := r.Offset - c.offset; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("Read(%v).Offset = %v, want %v", c.angle, r.Offset, c.offset)
		}
	}
}

func TestGauge(t *testing.T) {
	centred := Read(0).Gauge()
	if strings.Count(centred, "●") != 1 || strings.Contains(centred, "|") {
		t.Fatalf("level gauge should show the bubble over the centre mark: %s", centred)
	}
	tilted := Read(3).Gauge()
	if !strings.HasPrefix(tilted, "[───────●") {
		t.Fatalf("bubble should move left for positive tilt: %s", tilted)
	}
	pinned := Read(90).Gauge()
	if !strings.HasPrefix(pinned, "[●") {
		t.Fatalf("bubble should be pinned to the end: %s", pinned)
	}
}

func TestParseAngle(t *testing.T) {
	for in, want := range map[string]float64{"1.5": 1.5, " -0.2° ": -0.2, "2,5": 2.5} {
		got, err := ParseAngle(in)
		if err != nil || got != want {
			t.Errorf("ParseAngle(%q) = %v, %v", in, got, err)
		}
	}
	for _, bad := range []string{"", "flat", "200", "NaN"} {
		if _, err := ParseAngle(bad); err == nil {
			t.Errorf("ParseAngle(%q) should fail", bad)
		}
	}
}
