package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/Tank-Arena/internal/geom"
	"github.com/Garsondee/Tank-Arena/internal/terrain"
)

func at(x, z float64) geom.Vec3 { return geom.Vec3{x, hullHeight, z} }

func obstacleArena(obs ...terrain.Obstacle) *terrain.Arena {
	return terrain.NewArenaWithObstacles(terrain.DefaultArenaSize, obs)
}

func TestCollisions_EnemyPairsPushApartAndFlip(t *testing.T) {
	ts := NewTestSim(WithoutCoins())
	g := ts.Game
	a := g.AddEnemy(at(0, 20), 1, ts.Clock)
	b := g.AddEnemy(at(3.5, 20), 1, ts.Clock)
	dirA, dirB := a.PatrolDirection(), b.PatrolDirection()

	g.collideEnemyPairs(ts.Clock)

	dist := geom.Distance(a.Tank().Position(), b.Tank().Position())
	assert.GreaterOrEqual(t, dist, 2*tankRadius)
	assert.InDelta(t, 2*tankRadius, dist, 2*pushOffset)
	assert.InDelta(t, -0.5, a.Tank().Position()[0], 1e-9)
	assert.InDelta(t, 4.0, b.Tank().Position()[0], 1e-9)
	assert.Equal(t, dirA.Mul(-1), a.PatrolDirection())
	assert.Equal(t, dirB.Mul(-1), b.PatrolDirection())
}

func TestCollisions_CoincidentEnemiesUseFallbackAxis(t *testing.T) {
	ts := NewTestSim(WithoutCoins())
	g := ts.Game
	a := g.AddEnemy(at(10, 20), 1, ts.Clock)
	b := g.AddEnemy(at(10, 20), 1, ts.Clock)

	g.collideEnemyPairs(ts.Clock)
	assert.InDelta(t, 9.5, a.Tank().Position()[0], 1e-9)
	assert.InDelta(t, 10.5, b.Tank().Position()[0], 1e-9)
}

func TestCollisions_PlayerShellHitsOnlyFirstEnemy(t *testing.T) {
	ts := NewTestSim(WithoutCoins())
	g := ts.Game
	first := g.AddEnemy(at(0, 10), 1, ts.Clock)
	second := g.AddEnemy(at(0.5, 10), 1, ts.Clock)

	shell := newProjectile(geom.Vec3{0, 1, 10}, geom.Vec3{0, 0, 1}, baseDamage, true, ts.Clock, ts.Sink)
	g.player.projectiles = append(g.player.projectiles, shell)

	g.collidePlayerShells()
	assert.Equal(t, maxHealth-baseDamage, first.Tank().Health())
	assert.Equal(t, maxHealth, second.Tank().Health(), "no pass-through")
	assert.True(t, shell.Exploded())
	assert.Equal(t, 1, g.Stats().PlayerHits)
}

func TestCollisions_EnemyShellKillsPlayerAndPassContinues(t *testing.T) {
	ts := NewTestSim(WithoutCoins())
	g := ts.Game
	g.player.TakeDamage(maxHealth - baseDamage)
	e := g.AddEnemy(at(1, 0), 1, ts.Clock) // overlapping the player
	first := newProjectile(geom.Vec3{0, 1, 0}, geom.Vec3{0, 0, -1}, baseDamage, false, ts.Clock, ts.Sink)
	second := newProjectile(geom.Vec3{0, 1, 0}, geom.Vec3{0, 0, -1}, baseDamage, false, ts.Clock, ts.Sink)
	e.tank.projectiles = append(e.tank.projectiles, first, second)
	a := g.AddEnemy(at(0, 20), 1, ts.Clock)
	b := g.AddEnemy(at(3.5, 20), 1, ts.Clock)

	g.resolveCollisions(ts.Clock)

	assert.Equal(t, StateOver, g.State())
	assert.True(t, g.Player().Destroyed())
	assert.Equal(t, 1, ts.Sink.Count(EffectGameOver))
	assert.True(t, first.Exploded())
	assert.False(t, second.Exploded(), "one hit per enemy per frame")
	assert.Equal(t, 1, g.Stats().EnemyHits)
	assert.Equal(t, baseDamage, g.Stats().DamageTaken)

	assert.Equal(t, at(1, 0), e.Tank().Position(), "a dead player does not bump enemies")
	assert.InDelta(t, -0.5, a.Tank().Position()[0], 1e-9, "enemy pairs still separate")
	assert.InDelta(t, 4.0, b.Tank().Position()[0], 1e-9)
}

func TestCollisions_PlayerBumpRevertsAndPushesEnemy(t *testing.T) {
	ts := NewTestSim(WithoutCoins())
	g := ts.Game
	g.prevPlayerPos = at(0, -5)
	g.hasPrevPlayer = true
	e := g.AddEnemy(at(0, 3), 1, ts.Clock)

	g.collidePlayerWithEnemies()

	assert.Equal(t, at(0, -5), g.Player().Position())
	assert.InDelta(t, 3+pushOffset, e.Tank().Position()[2], 1e-9)
	assert.Equal(t, 1, ts.Sink.Count(EffectObstacleImpact))
}

func TestCollisions_PlayerClampedAtBoundary(t *testing.T) {
	ts := NewTestSim(WithoutCoins(), WithArena(obstacleArena()), WithPlayerAt(50, 0))
	g := ts.Game

	g.collidePlayerWithTerrain()

	half := g.Terrain().BoundarySize() / 2
	assert.InDelta(t, half, g.Player().Position()[0], 1e-9)
	assert.Equal(t, 1, ts.Sink.Count(EffectBoundaryWarning))
	assert.Equal(t, g.Player().Position(), g.prevPlayerPos)
}

func TestCollisions_PlayerPushedOutOfObstacle(t *testing.T) {
	arena := obstacleArena(terrain.Obstacle{Position: geom.Vec3{5, 0, 0}, Radius: 2})
	ts := NewTestSim(WithoutCoins(), WithArena(arena), WithPlayerAt(2, 0))
	g := ts.Game

	g.collidePlayerWithTerrain()

	assert.InDelta(t, 0.9, g.Player().Position()[0], 1e-9)
	assert.Equal(t, 1, ts.Sink.Count(EffectObstacleWarning))
	assert.Equal(t, 1, ts.Sink.Count(EffectObstacleImpact))
	assert.Equal(t, 1, g.Stats().ObstacleImpacts)
}

func TestCollisions_EnemyRedirectedAtBoundary(t *testing.T) {
	ts := NewTestSim(WithoutCoins(), WithArena(obstacleArena()))
	g := ts.Game
	e := g.AddEnemy(at(0, 50), 1, ts.Clock)

	g.collideEnemiesWithTerrain(ts.Clock)

	half := g.Terrain().BoundarySize() / 2
	assert.InDelta(t, half, e.Tank().Position()[2], 1e-9)
	assert.InDelta(t, -1, e.PatrolDirection()[2], 1e-9)
	assert.Equal(t, e.Tank().Position(), e.lastGoodPosition())
}

func TestCollisions_EnemyTurnedAwayFromObstacle(t *testing.T) {
	arena := obstacleArena(terrain.Obstacle{Position: geom.Vec3{5, 0, 0}, Radius: 2})
	ts := NewTestSim(WithoutCoins(), WithArena(arena))
	g := ts.Game
	e := g.AddEnemy(at(2, 0), 1, ts.Clock)

	g.collideEnemiesWithTerrain(ts.Clock)

	assert.InDelta(t, 0.9, e.Tank().Position()[0], 1e-9)
	dir := e.PatrolDirection()
	assert.Less(t, dir[0], -0.9)
	assert.InDelta(t, 1, dir.Len(), 1e-9)
	assert.Equal(t, 1, ts.Sink.Count(EffectObstacleImpact), "close to the player, so sparks are shown")
}

func TestCollisions_DistantEnemyImpactIsQuiet(t *testing.T) {
	arena := obstacleArena(terrain.Obstacle{Position: geom.Vec3{35, 0, 35}, Radius: 2})
	ts := NewTestSim(WithoutCoins(), WithArena(arena))
	g := ts.Game
	g.AddEnemy(at(32, 35), 1, ts.Clock)

	g.collideEnemiesWithTerrain(ts.Clock)
	assert.Zero(t, ts.Sink.Count(EffectObstacleImpact))
}

func TestCollisions_ShellsExplodeOnTerrain(t *testing.T) {
	arena := obstacleArena(terrain.Obstacle{Position: geom.Vec3{5, 0, 0}, Radius: 2})
	ts := NewTestSim(WithoutCoins(), WithArena(arena))
	g := ts.Game
	e := g.AddEnemy(at(-20, -20), 1, ts.Clock)

	intoRock := newProjectile(geom.Vec3{5, 1, 0}, geom.Vec3{1, 0, 0}, baseDamage, true, ts.Clock, ts.Sink)
	underground := newProjectile(geom.Vec3{-10, -0.1, -10}, geom.Vec3{1, 0, 0}, baseDamage, false, ts.Clock, ts.Sink)
	clear := newProjectile(geom.Vec3{-5, 1, 10}, geom.Vec3{1, 0, 0}, baseDamage, true, ts.Clock, ts.Sink)
	g.player.projectiles = append(g.player.projectiles, intoRock, clear)
	e.tank.projectiles = append(e.tank.projectiles, underground)

	g.collideShellsWithTerrain()

	assert.True(t, intoRock.Exploded())
	assert.True(t, underground.Exploded())
	assert.False(t, clear.Exploded())
}

func TestCollisions_NoTerrainSkipsTerrainSteps(t *testing.T) {
	ts := NewTestSim(WithoutCoins(), WithPlayerAt(500, 0))
	g := ts.Game
	require.Nil(t, g.Terrain())

	g.resolveCollisions(ts.Clock)
	assert.InDelta(t, 500, g.Player().Position()[0], 1e-9)
	assert.True(t, g.hasPrevPlayer)
}
