// Package geom holds the small amount of vector math the arena needs on top
// of mgl64. The world is Y-up; the ground plane is X/Z.
package geom

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is the world-space vector type used throughout the simulation.
type Vec3 = mgl64.Vec3

// Up is the world up axis.
var Up = Vec3{0, 1, 0}

// Distance returns the full 3D distance between a and b.
func Distance(a, b Vec3) float64 {
	return a.Sub(b).Len()
}

// PlanarDistance returns the distance between a and b projected onto the
// ground plane.
func PlanarDistance(a, b Vec3) float64 {
	dx := a[0] - b[0]
	dz := a[2] - b[2]
	return math.Sqrt(dx*dx + dz*dz)
}

// Overlaps is the radius-overlap test: true when the centres are strictly
// closer than the sum of the radii.
func Overlaps(a Vec3, ra float64, b Vec3, rb float64) bool {
	d := a.Sub(b)
	r := ra + rb
	return d.Dot(d) < r*r
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RandomBetween returns a uniform value in [lo, hi).
func RandomBetween(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// Flatten drops the vertical component.
func Flatten(v Vec3) Vec3 {
	return Vec3{v[0], 0, v[2]}
}

// SafeNormalize returns v scaled to unit length, or fallback when v is too
// short to have a meaningful direction.
func SafeNormalize(v, fallback Vec3) Vec3 {
	l := v.Len()
	if l < 1e-9 || math.IsNaN(l) || math.IsInf(l, 0) {
		return fallback
	}
	return v.Mul(1 / l)
}

// Lerp interpolates linearly from a towards b.
func Lerp(a, b Vec3, t float64) Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// ForwardFromYaw returns the unit ground-plane vector for a yaw angle.
// Yaw 0 faces +Z; positive yaw turns towards +X.
func ForwardFromYaw(yaw float64) Vec3 {
	return Vec3{math.Sin(yaw), 0, math.Cos(yaw)}
}

// YawOf returns the yaw that faces along dir (ignoring its Y component).
func YawOf(dir Vec3) float64 {
	return math.Atan2(dir[0], dir[2])
}

// NormalizeAngle wraps a to (-π, π]. Non-finite angles become 0.
func NormalizeAngle(a float64) float64 {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return 0
	}
	a = math.Remainder(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// RotateYawTowards turns current towards target by at most maxStep radians,
// taking the short way round. Snaps when within maxStep.
func RotateYawTowards(current, target, maxStep float64) float64 {
	diff := NormalizeAngle(target - current)
	if math.Abs(diff) <= maxStep {
		return NormalizeAngle(target)
	}
	if diff > 0 {
		return NormalizeAngle(current + maxStep)
	}
	return NormalizeAngle(current - maxStep)
}

// Finite reports whether every component of v is a real number.
func Finite(v Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
