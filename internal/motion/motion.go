// Package motion turns a waypoint dataset into a chain of tween tasks that
// drive a transform along the path.
package motion

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ivlev/pathcam/internal/geom"
	"github.com/ivlev/pathcam/internal/spline"
	"github.com/ivlev/pathcam/internal/tween"
)

// Mode selects how waypoints are connected.
type Mode int

const (
	// ModeCurve follows a spline through each segment between stops.
	ModeCurve Mode = iota
	// ModeLinear moves in a straight line from waypoint to waypoint.
	ModeLinear
)

func (m Mode) String() string {
	if m == ModeLinear {
		return "linear"
	}
	return "curve"
}

// ParseMode accepts "curve" (or "spline") and "linear".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "curve", "spline":
		return ModeCurve, nil
	case "linear", "straight":
		return ModeLinear, nil
	default:
		return ModeCurve, fmt.Errorf("unknown movement mode: %s", s)
	}
}

// Transform is the object being moved.
type Transform interface {
	Position() mgl64.Vec3
	Rotation() mgl64.Quat
	SetPosition(mgl64.Vec3)
	SetRotation(mgl64.Quat)
}

// ReachedFunc is called when a motion step arrives at waypoint index.
type ReachedFunc func(index int, position mgl64.Vec3, rotation mgl64.Quat)

// Options configure plan building.
type Options struct {
	Mode             Mode
	DurationPerUnit  float64 // seconds per unit of path length
	MinDuration      float64 // lower bound for a single motion step
	Ease             tween.Func
	TrackOrientation bool
	Sampler          spline.Sampler
}

// DefaultOptions returns curve mode with sine easing and orientation tracking.
func DefaultOptions() Options {
	return Options{
		Mode:             ModeCurve,
		DurationPerUnit:  0.5,
		MinDuration:      0.25,
		Ease:             tween.SineInOut,
		TrackOrientation: true,
		Sampler:          spline.NewSampler(),
	}
}

// SegmentDuration is length*perUnit, never below min.
func SegmentDuration(length, perUnit, min float64) float64 {
	return math.Max(length*perUnit, min)
}

// PointAt maps progress t in [0,1] onto a sampled curve by sample index:
// the lower sample is floor(t*(n-1)) and the remainder blends to the next.
func PointAt(curve []mgl64.Vec3, t float64) mgl64.Vec3 {
	switch len(curve) {
	case 0:
		return mgl64.Vec3{}
	case 1:
		return curve[0]
	}

	t = math.Max(0, math.Min(t, 1))
	scaled := t * float64(len(curve)-1)
	i := int(math.Floor(scaled))
	if i >= len(curve)-1 {
		return curve[len(curve)-1]
	}
	return geom.Lerp(curve[i], curve[i+1], scaled-float64(i))
}
