// Package tools holds the builder's bubble level and the camera ruler notice.
package tools

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"hensgen-helper/internal/apperr"
)

const (
	// LevelTolerance is the |angle| in degrees under which the surface counts as level.
	LevelTolerance = 0.3
	// BubbleScale converts degrees of tilt into bubble displacement.
	BubbleScale = 2.5

	gaugeHalfWidth = 10
)

const RulerNotice = "This feature requires advanced device capabilities not fully supported in web browsers. For accurate AR measurements, a native app is recommended."

// Reading is one bubble level sample.
type Reading struct {
	Angle  float64
	Level  bool
	Offset float64
}

// Read derives the level flag and bubble offset from a front-to-back tilt.
func Read(angle float64) Reading {
	return Reading{
		Angle:  angle,
		Level:  math.Abs(angle) < LevelTolerance,
		Offset: -angle * BubbleScale,
	}
}

// ParseAngle accepts "1.5", "-0.2°" and "2,5".
func ParseAngle(s string) (float64, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "°")
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < -180 || v > 180 {
		return 0, apperr.Invalid("Send an angle in degrees between -180 and 180, e.g. /level 1.5")
	}
	return v, nil
}

// Gauge draws the vial as text. The bubble moves one cell per 2.5 units of
// offset and is pinned to the ends.
func (r Reading) Gauge() string {
	pos := gaugeHalfWidth + int(math.Round(r.Offset/BubbleScale))
	pos = max(0, min(2*gaugeHalfWidth, pos))

	var b strings.Builder
	b.WriteString("[")
	for i := 0; i <= 2*gaugeHalfWidth; i++ {
		switch {
		case i == pos:
			b.WriteString("●")
		case i == gaugeHalfWidth:
			b.WriteString("|")
		default:
			b.WriteString("─")
		}
	}
	b.WriteString("]")
	return b.String()
}

func (r Reading) String() string {
	status := "not level"
	if r.Level {
		status = "LEVEL ✅"
	}
	return fmt.Sprintf("%s\n%.1f° %s", r.Gauge(), r.Angle, status)
}
