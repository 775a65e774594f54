// Package geom holds the vector and orientation helpers shared by the path
// pipeline. Positions are mgl64.Vec3 and orientations are mgl64.Quat.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Forward is the fallback direction used when a direction cannot be derived
// from the points themselves.
var Forward = mgl64.Vec3{0, 0, 1}

// epsilon below which a vector is treated as zero length
const epsilon = 1e-9

// Distance returns the Euclidean distance between a and b.
func Distance(a, b mgl64.Vec3) float64 {
	return b.Sub(a).Len()
}

// ArcLength returns the summed length of the polyline through points.
func ArcLength(points []mgl64.Vec3) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += Distance(points[i-1], points[i])
	}
	return total
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// Direction returns the unit vector pointing from "from" to "to". The second
// result is false when the points coincide.
func Direction(from, to mgl64.Vec3) (mgl64.Vec3, bool) {
	d := to.Sub(from)
	l := d.Len()
	if l < epsilon {
		return mgl64.Vec3{}, false
	}
	return d.Mul(1 / l), true
}

// Finite reports whether every component of v is a finite number.
func Finite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
