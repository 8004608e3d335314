package terrain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/Tank-Arena/internal/geom"
)

type body struct {
	pos geom.Vec3
	r   float64
}

func (b *body) Position() geom.Vec3     { return b.pos }
func (b *body) Radius() float64         { return b.r }
func (b *body) SetPosition(p geom.Vec3) { b.pos = p }

func TestArena_BoundaryCollisionPointsInward(t *testing.T) {
	a := NewArenaWithObstacles(100, nil)
	half := a.BoundarySize() / 2
	require.InDelta(t, 47.5, half, 1e-9)

	c := a.CheckCollision(&body{pos: geom.Vec3{half + 1, 0.5, -half - 2}, r: 2})
	require.True(t, c.Collided)
	assert.Equal(t, KindBoundary, c.Kind)
	assert.Equal(t, geom.Vec3{-1, 0, 1}, c.Direction)

	c = a.CheckCollision(&body{pos: geom.Vec3{half - 0.01, 0.5, 0}, r: 2})
	assert.False(t, c.Collided, "inside the boundary is not a collision")
}

func TestArena_KeepWithinBoundaries(t *testing.T) {
	a := NewArenaWithObstacles(100, nil)
	b := &body{pos: geom.Vec3{80, 0.5, -90}, r: 2}
	a.KeepWithinBoundaries(b)
	assert.Equal(t, geom.Vec3{47.5, 0.5, -47.5}, b.pos)

	inside := &body{pos: geom.Vec3{3, 0.5, 4}, r: 2}
	a.KeepWithinBoundaries(inside)
	assert.Equal(t, geom.Vec3{3, 0.5, 4}, inside.pos)
}

func TestArena_ObstacleCollisionAndPushOut(t *testing.T) {
	rock := Obstacle{Position: geom.Vec3{20, 0, 0}, Radius: 3, Kind: ObstacleRock}
	a := NewArenaWithObstacles(100, []Obstacle{rock})

	b := &body{pos: geom.Vec3{16, 0.5, 0}, r: 2}
	c := a.CheckCollision(b)
	require.True(t, c.Collided)
	assert.Equal(t, KindObstacle, c.Kind)
	assert.Equal(t, rock, c.Obstacle)
	assert.InDelta(t, -1.0, c.Direction[0], 1e-9)

	moved := a.HandleObstacleCollision(b, c.Obstacle)
	require.True(t, moved)
	// Pushed to r_obstacle + r_body + slack from the obstacle centre.
	assert.InDelta(t, 5.1, geom.PlanarDistance(b.pos, rock.Position), 1e-9)
	assert.False(t, a.CheckCollision(b).Collided)
	assert.Equal(t, 0.5, b.pos[1], "push-out keeps height")
}

func TestArena_HandleObstacleCollision_NotOverlapping(t *testing.T) {
	rock := Obstacle{Position: geom.Vec3{20, 0, 0}, Radius: 3}
	a := NewArenaWithObstacles(100, []Obstacle{rock})
	b := &body{pos: geom.Vec3{0, 0.5, 0}, r: 2}
	assert.False(t, a.HandleObstacleCollision(b, rock))
	assert.Equal(t, geom.Vec3{0, 0.5, 0}, b.pos)
}

func TestArena_HandleObstacleCollision_ZeroRadiusBodyUsesFallback(t *testing.T) {
	rock := Obstacle{Position: geom.Vec3{0, 0, 0}, Radius: 2}
	a := NewArenaWithObstacles(100, []Obstacle{rock})
	b := &body{pos: geom.Vec3{0, 0, 0}}
	require.True(t, a.HandleObstacleCollision(b, rock))
	assert.InDelta(t, 2+fallbackRad+pushSlack, geom.PlanarDistance(b.pos, rock.Position), 1e-9)
}

func TestArena_FirstObstacleWinsInListOrder(t *testing.T) {
	first := Obstacle{Position: geom.Vec3{10, 0, 0}, Radius: 2}
	second := Obstacle{Position: geom.Vec3{10, 0, 1}, Radius: 2}
	a := NewArenaWithObstacles(100, []Obstacle{first, second})
	c := a.CheckCollision(&body{pos: geom.Vec3{10, 0, 0.5}, r: 1})
	require.True(t, c.Collided)
	assert.Equal(t, first, c.Obstacle)
	assert.Len(t, a.ObstaclesNear(geom.Vec3{10, 0, 0.5}, 1), 2)
}

func TestNewArena_PlacementRules(t *testing.T) {
	rng := rand.New(rand.NewSource(42)) // #nosec G404 -- test only
	a := NewArena(rng, DefaultArenaOptions())
	obs := a.Obstacles()
	require.NotEmpty(t, obs)
	assert.LessOrEqual(t, len(obs), 25)

	limit := DefaultArenaSize/2 - edgeMargin
	for i, o := range obs {
		d := geom.PlanarDistance(o.Position, geom.Vec3{})
		if d < clearCentreRadius {
			t.Fatalf("obstacle %d at %.2f from centre, want >= %.0f", i, d, clearCentreRadius)
		}
		if o.Position[0] < -limit || o.Position[0] > limit || o.Position[2] < -limit || o.Position[2] > limit {
			t.Fatalf("obstacle %d outside placement square: %v", i, o.Position)
		}
		switch o.Kind {
		case ObstacleBox:
			assert.GreaterOrEqual(t, o.Radius, boxMinEdge/2)
			assert.LessOrEqual(t, o.Radius, boxMaxEdge/2)
		case ObstacleRock:
			assert.GreaterOrEqual(t, o.Radius, rockMinRad)
			assert.LessOrEqual(t, o.Radius, rockMaxRad)
		}
	}
}

func TestArena_IndexAgreesWithBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(3)) // #nosec G404 -- test only
	a := NewArena(rng, DefaultArenaOptions())
	probe := rand.New(rand.NewSource(4)) // #nosec G404 -- test only
	for i := 0; i < 500; i++ {
		p := geom.Vec3{geom.RandomBetween(probe, -45, 45), 0.5, geom.RandomBetween(probe, -45, 45)}
		want := false
		for _, o := range a.Obstacles() {
			if geom.PlanarDistance(p, o.Position) < o.Radius+2 {
				want = true
				break
			}
		}
		got := a.CheckCollision(&body{pos: p, r: 2})
		assert.Equal(t, want, got.Kind == KindObstacle, "probe %v", p)
	}
}

func TestArena_UpdateAdvancesPhase(t *testing.T) {
	a := NewArenaWithObstacles(100, nil)
	a.Update(0.25)
	a.Update(0.25)
	assert.InDelta(t, 0.5, a.Phase(), 1e-12)
	assert.Equal(t, 0.0, a.HeightAt(12, -7))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "boundary", KindBoundary.String())
	assert.Equal(t, "obstacle", KindObstacle.String())
	assert.Equal(t, "none", KindNone.String())
	assert.Equal(t, "rock", ObstacleRock.String())
}
