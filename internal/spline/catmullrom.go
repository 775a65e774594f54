// Package spline samples centripetal Catmull-Rom curves through waypoint
// chains.
package spline

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ivlev/pathcam/internal/geom"
)

const (
	// minKnotDistance floors control point spacing so alpha < 1 never
	// produces coincident knots.
	minKnotDistance = 1e-4
	// ratioEpsilon is the denominator below which a blend weight is 0.
	ratioEpsilon = 1e-6
	// extendLength is how far a synthesized boundary point sits past the end
	// of an open chain.
	extendLength = 2.0
)

// CatmullRom evaluates the curve between p1 and p2 at t in [0,1], using p0
// and p3 for tangents. alpha=0 is uniform, 0.5 centripetal, 1 chordal.
func CatmullRom(p0, p1, p2, p3 mgl64.Vec3, alpha, t float64) mgl64.Vec3 {
	t0 := 0.0
	t1 := t0 + knot(p0, p1, alpha)
	t2 := t1 + knot(p1, p2, alpha)
	t3 := t2 + knot(p2, p3, alpha)

	tt := t1 + (t2-t1)*t

	a1 := blend(p0, p1, tt, t0, t1)
	a2 := blend(p1, p2, tt, t1, t2)
	a3 := blend(p2, p3, tt, t2, t3)

	b1 := blend(a1, a2, tt, t0, t2)
	b2 := blend(a2, a3, tt, t1, t3)

	return blend(b1, b2, tt, t1, t2)
}

func knot(a, b mgl64.Vec3, alpha float64) float64 {
	return math.Pow(math.Max(geom.Distance(a, b), minKnotDistance), alpha)
}

// blend mixes a and b with the knot weights (hi-tt)/(hi-lo) and (tt-lo)/(hi-lo).
func blend(a, b mgl64.Vec3, tt, lo, hi float64) mgl64.Vec3 {
	return a.Mul(ratio(hi-tt, hi-lo)).Add(b.Mul(ratio(tt-lo, hi-lo)))
}

func ratio(num, den float64) float64 {
	if math.Abs(den) < ratioEpsilon {
		return 0
	}
	return num / den
}

// Extend returns [before, points..., after]. before and after are prev and
// next when given; otherwise they are extrapolated 2 units outward along the
// chain's end directions, or along the forward axis when the chain has no
// direction at that end.
func Extend(points []mgl64.Vec3, prev, next *mgl64.Vec3) []mgl64.Vec3 {
	if len(points) == 0 {
		return nil
	}

	first, last := points[0], points[len(points)-1]

	var before mgl64.Vec3
	switch {
	case prev != nil:
		before = *prev
	case len(points) >= 2:
		if dir, ok := geom.Direction(points[1], first); ok {
			before = first.Add(dir.Mul(extendLength))
			break
		}
		before = first.Sub(geom.Forward.Mul(extendLength))
	default:
		before = first.Sub(geom.Forward.Mul(extendLength))
	}

	var after mgl64.Vec3
	switch {
	case next != nil:
		after = *next
	case len(points) >= 2:
		if dir, ok := geom.Direction(points[len(points)-2], last); ok {
			after = last.Add(dir.Mul(extendLength))
			break
		}
		after = last.Add(geom.Forward.Mul(extendLength))
	default:
		after = last.Add(geom.Forward.Mul(extendLength))
	}

	out := make([]mgl64.Vec3, 0, len(points)+2)
	out = append(out, before)
	out = append(out, points...)
	return append(out, after)
}
