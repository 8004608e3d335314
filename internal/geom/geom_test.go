package geom

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlaps_StrictInequality(t *testing.T) {
	a := Vec3{0, 0, 0}
	assert.True(t, Overlaps(a, 2, Vec3{3.9, 0, 0}, 2))
	assert.False(t, Overlaps(a, 2, Vec3{4, 0, 0}, 2), "touching is not overlapping")
	assert.False(t, Overlaps(a, 2, Vec3{0, 5, 0}, 2))
}

func TestPlanarDistance_IgnoresHeight(t *testing.T) {
	assert.InDelta(t, 5.0, PlanarDistance(Vec3{0, 10, 0}, Vec3{3, -4, 4}), 1e-9)
	assert.InDelta(t, math.Sqrt(25+196), Distance(Vec3{0, 10, 0}, Vec3{3, -4, 4}), 1e-9)
}

func TestSafeNormalize_ZeroUsesFallback(t *testing.T) {
	fb := Vec3{1, 0, 0}
	assert.Equal(t, fb, SafeNormalize(Vec3{}, fb))
	n := SafeNormalize(Vec3{0, 0, 3}, fb)
	assert.InDelta(t, 1.0, n.Len(), 1e-12)
	assert.InDelta(t, 1.0, n[2], 1e-12)
	assert.Equal(t, fb, SafeNormalize(Vec3{math.NaN(), 0, 0}, fb))
}

func TestYaw_RoundTrip(t *testing.T) {
	for _, yaw := range []float64{0, 0.5, -1.2, math.Pi / 2, 3.0} {
		f := ForwardFromYaw(yaw)
		assert.InDelta(t, 1.0, f.Len(), 1e-12)
		assert.InDelta(t, yaw, YawOf(f), 1e-9)
	}
	assert.InDelta(t, 1.0, ForwardFromYaw(0)[2], 1e-12, "yaw 0 faces +Z")
	assert.InDelta(t, 1.0, ForwardFromYaw(math.Pi/2)[0], 1e-12, "positive yaw turns to +X")
}

func TestRotateYawTowards_ShortWayAndSnap(t *testing.T) {
	// From just below +π to just above -π is a short hop across the seam.
	got := RotateYawTowards(3.1, -3.1, 0.5)
	assert.InDelta(t, -3.1, got, 1e-9)

	got = RotateYawTowards(0, 1, 0.25)
	assert.InDelta(t, 0.25, got, 1e-9)

	got = RotateYawTowards(0, -1, 0.25)
	assert.InDelta(t, -0.25, got, 1e-9)
}

func TestNormalizeAngle_Range(t *testing.T) {
	for _, a := range []float64{-10, -math.Pi, 0, math.Pi, 7, 100} {
		n := NormalizeAngle(a)
		if n <= -math.Pi || n > math.Pi {
			t.Fatalf("NormalizeAngle(%v) = %v, outside (-π, π]", a, n)
		}
		assert.InDelta(t, math.Sin(a), math.Sin(n), 1e-9)
	}
}

func TestNormalizeAngle_NonFiniteAndHuge(t *testing.T) {
	for _, a := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		if n := NormalizeAngle(a); n != 0 {
			t.Fatalf("NormalizeAngle(%v) = %v, want 0", a, n)
		}
	}
	n := NormalizeAngle(1e12)
	if n <= -math.Pi || n > math.Pi {
		t.Fatalf("NormalizeAngle(1e12) = %v, outside (-π, π]", n)
	}
	assert.Equal(t, math.Pi, NormalizeAngle(-math.Pi))
}

func TestRandomBetween_InRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7)) // #nosec G404 -- test only
	for i := 0; i < 1000; i++ {
		v := RandomBetween(rng, -3, 5)
		if v < -3 || v >= 5 {
			t.Fatalf("RandomBetween out of range: %v", v)
		}
	}
}

func TestClampAndLerp(t *testing.T) {
	assert.Equal(t, 1.0, Clamp(5, -1, 1))
	assert.Equal(t, -1.0, Clamp(-5, -1, 1))
	assert.Equal(t, 0.3, Clamp(0.3, -1, 1))
	assert.Equal(t, Vec3{5, 0, 10}, Lerp(Vec3{0, 0, 0}, Vec3{10, 0, 20}, 0.5))
}

func TestFinite(t *testing.T) {
	assert.True(t, Finite(Vec3{1, 2, 3}))
	assert.False(t, Finite(Vec3{math.Inf(1), 0, 0}))
	assert.False(t, Finite(Vec3{0, math.NaN(), 0}))
}
