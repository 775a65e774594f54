package geom

import (
	"github.com/go-gl/mathgl/mgl64"
)

// FromEuler converts rotation angles in degrees around X, Y and Z into a
// quaternion. Angles are applied in X, Y, Z order.
func FromEuler(x, y, z float64) mgl64.Quat {
	return mgl64.AnglesToQuat(
		mgl64.DegToRad(x),
		mgl64.DegToRad(y),
		mgl64.DegToRad(z),
		mgl64.XYZ,
	).Normalize()
}

// FromComponents builds a normalized quaternion from x, y, z, w components.
// A zero quaternion normalizes to identity.
func FromComponents(x, y, z, w float64) mgl64.Quat {
	return mgl64.Quat{W: w, V: mgl64.Vec3{x, y, z}}.Normalize()
}

// Slerp interpolates spherically from a to b along the shortest arc.
func Slerp(a, b mgl64.Quat, t float64) mgl64.Quat {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	// q and -q encode the same rotation; pick the one on a's hemisphere
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl64.QuatSlerp(a, b, t).Normalize()
}
