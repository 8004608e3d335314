package game

import (
	"fmt"
	"time"

	"github.com/Garsondee/Tank-Arena/internal/geom"
	"github.com/Garsondee/Tank-Arena/internal/terrain"
)

const (
	pushOffset      = 0.5
	obstacleJitter  = 0.3 // full width of the random nudge added to an enemy's away heading
	impactSparkLift = 1.0
)

// separationFallback is used when two bodies sit exactly on top of each
// other and there is no vector to push along.
var separationFallback = geom.Vec3{1, 0, 0}

// resolveCollisions runs the single per-frame collision pass. Steps run in a
// fixed order and each one reads positions fresh, so a later step may move
// an entity an earlier step already settled. There is no iteration to a
// fixed point.
func (g *Game) resolveCollisions(now time.Time) {
	g.collidePlayerShells()
	g.collideEnemyShells(now)
	g.collidePlayerWithEnemies()
	g.collideEnemyPairs(now)
	g.collidePlayerWithTerrain()
	g.collideEnemiesWithTerrain(now)
	g.collideShellsWithTerrain()
}

// collidePlayerShells: step 1. A shell damages at most one enemy.
func (g *Game) collidePlayerShells() {
	for _, p := range g.player.projectiles {
		if p.shouldRemove {
			continue
		}
		for _, e := range g.enemies {
			if e.tank.destroyed {
				continue
			}
			if !geom.Overlaps(p.pos, p.radius, e.tank.pos, e.tank.radius) {
				continue
			}
			left := e.tank.TakeDamage(p.damage)
			p.Explode()
			g.stats.PlayerHits++
			g.record(e.tank.label, "enemy", "combat", "hit",
				fmt.Sprintf("damage=%d health=%d", p.damage, left), float64(left))
			break
		}
	}
}

// collideEnemyShells: step 2. Each enemy lands at most one shell per
// frame. A kill ends the match but the rest of the pass still runs.
func (g *Game) collideEnemyShells(now time.Time) {
	if g.player.destroyed {
		return
	}
	for _, e := range g.enemies {
		for _, p := range e.tank.projectiles {
			if p.shouldRemove {
				continue
			}
			if !geom.Overlaps(p.pos, p.radius, g.player.pos, g.player.radius) {
				continue
			}
			before := g.player.health
			left := g.player.TakeDamage(p.damage)
			p.Explode()
			g.stats.EnemyHits++
			g.stats.DamageTaken += before - left
			g.metrics.PlayerDamaged(before - left)
			g.record(g.player.label, "player", "combat", "hit",
				fmt.Sprintf("from=%s damage=%d health=%d", e.tank.label, p.damage, left), float64(left))
			if g.player.destroyed {
				g.gameOver(now)
			}
			break
		}
	}
}

// collidePlayerWithEnemies: step 3. The player bounces back to where it was
// last frame and the enemy is shoved away.
func (g *Game) collidePlayerWithEnemies() {
	if g.player.destroyed {
		return
	}
	for _, e := range g.enemies {
		if e.tank.destroyed {
			continue
		}
		if !geom.Overlaps(g.player.pos, g.player.radius, e.tank.pos, e.tank.radius) {
			continue
		}
		if g.hasPrevPlayer {
			g.player.pos = g.prevPlayerPos
		}
		dir := geom.SafeNormalize(geom.Flatten(e.tank.pos.Sub(g.player.pos)), separationFallback)
		e.tank.pos = e.tank.pos.Add(dir.Mul(pushOffset))
		g.emitSparks(g.player.pos.Add(e.tank.pos).Mul(0.5))
	}
}

// collideEnemyPairs: step 4. Both enemies are pushed apart and both turn
// round so packs break up.
func (g *Game) collideEnemyPairs(now time.Time) {
	for i := 0; i < len(g.enemies); i++ {
		a := g.enemies[i]
		if a.tank.destroyed {
			continue
		}
		for j := i + 1; j < len(g.enemies); j++ {
			b := g.enemies[j]
			if b.tank.destroyed {
				continue
			}
			if !geom.Overlaps(a.tank.pos, a.tank.radius, b.tank.pos, b.tank.radius) {
				continue
			}
			dir := geom.SafeNormalize(geom.Flatten(b.tank.pos.Sub(a.tank.pos)), separationFallback)
			a.tank.pos = a.tank.pos.Sub(dir.Mul(pushOffset))
			b.tank.pos = b.tank.pos.Add(dir.Mul(pushOffset))
			a.InvertPatrolDirection(now)
			b.InvertPatrolDirection(now)
		}
	}
}

// collidePlayerWithTerrain: step 5. The player's end-of-pass position is
// remembered for step 3 and obstacle fallback next frame.
func (g *Game) collidePlayerWithTerrain() {
	defer func() {
		g.prevPlayerPos = g.player.pos
		g.hasPrevPlayer = true
	}()
	if g.terrain == nil || g.player.destroyed {
		return
	}
	res := g.terrain.CheckCollision(g.player)
	if !res.Collided {
		return
	}
	switch res.Kind {
	case terrain.KindBoundary:
		g.terrain.KeepWithinBoundaries(g.player)
		g.stats.BoundaryHits++
		g.sink.Emit(Effect{Kind: EffectBoundaryWarning, Pos: g.player.pos, Dir: res.Direction, Duration: notificationLife})
	case terrain.KindObstacle:
		if !g.terrain.HandleObstacleCollision(g.player, res.Obstacle) && g.hasPrevPlayer {
			g.player.pos = g.prevPlayerPos
		}
		g.stats.ObstacleImpacts++
		g.emitSparks(g.player.pos)
		g.sink.Emit(Effect{Kind: EffectObstacleWarning, Pos: res.Obstacle.Position, Duration: notificationLife})
	}
}

// collideEnemiesWithTerrain: step 6. Like step 5, but the patrol heading is
// also turned away from whatever was hit.
func (g *Game) collideEnemiesWithTerrain(now time.Time) {
	if g.terrain == nil {
		return
	}
	for _, e := range g.enemies {
		if e.tank.destroyed {
			continue
		}
		res := g.terrain.CheckCollision(e.tank)
		if res.Collided {
			switch res.Kind {
			case terrain.KindBoundary:
				g.terrain.KeepWithinBoundaries(e.tank)
				e.SetPatrolDirection(res.Direction, now)
			case terrain.KindObstacle:
				if !g.terrain.HandleObstacleCollision(e.tank, res.Obstacle) {
					e.tank.pos = e.lastGoodPosition()
				}
				away := geom.SafeNormalize(geom.Flatten(e.tank.pos.Sub(res.Obstacle.Position)), e.tank.Forward().Mul(-1))
				away[0] += (g.rng.Float64() - 0.5) * obstacleJitter
				away[2] += (g.rng.Float64() - 0.5) * obstacleJitter
				e.SetPatrolDirection(away, now)
				if geom.Distance(e.tank.pos, g.player.pos) < impactEffectRadius {
					g.emitSparks(e.tank.pos)
				}
			}
		}
		e.recordPosition()
	}
}

// collideShellsWithTerrain: step 7. Any live shell touching an obstacle,
// the boundary or the ground explodes.
func (g *Game) collideShellsWithTerrain() {
	if g.terrain == nil {
		return
	}
	g.explodeOnTerrain(g.player.projectiles)
	for _, e := range g.enemies {
		g.explodeOnTerrain(e.tank.projectiles)
	}
}

func (g *Game) explodeOnTerrain(shells []*Projectile) {
	for _, p := range shells {
		if p.shouldRemove {
			continue
		}
		if g.terrain.CheckCollision(p).Collided || p.pos[1] < g.terrain.HeightAt(p.pos[0], p.pos[2]) {
			p.Explode()
		}
	}
}

func (g *Game) emitSparks(at geom.Vec3) {
	g.sink.Emit(Effect{
		Kind:     EffectObstacleImpact,
		Pos:      at.Add(geom.Up.Mul(impactSparkLift)),
		Color:    impactSparkColor,
		Count:    impactSparkCount,
		Duration: impactSparkLife,
	})
}
