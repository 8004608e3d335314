package game

import (
	"math"
	"math/rand"
	"time"

	"github.com/Garsondee/Tank-Arena/internal/geom"
	"github.com/Garsondee/Tank-Arena/internal/terrain"
)

// AIState is the enemy behaviour state.
type AIState int

const (
	AIPatrol AIState = iota
	AIChase
	AIAttack
)

func (s AIState) String() string {
	switch s {
	case AIPatrol:
		return "patrol"
	case AIChase:
		return "chase"
	case AIAttack:
		return "attack"
	default:
		return "unknown"
	}
}

const (
	minDifficulty = 1
	maxDifficulty = 5
)

// Perception and engagement.
const (
	fovDotThreshold       = -0.2 // forward·toPlayer must exceed this to see the player
	aimDotThreshold       = 0.95 // cannon·toPlayer must exceed this to fire
	patrolSpeedFactor     = 0.5
	chaseSpeedFactor      = 0.8
	attackSpeedFactor     = 0.5
	attackOptimalFraction = 0.7 // preferred standoff as a fraction of firing range
	attackDeadBand        = 2.0
)

// Patrol and roaming.
const (
	patrolChangeMin = 3000 * time.Millisecond
	patrolChangeMax = 6000 * time.Millisecond
	roamRadius      = 50.0 // used when there is no terrain to take the half-extent from
	roamBlendStart  = 0.8 // fraction of roamRadius where steering home begins
	roamSnapAt      = 0.9 // fraction of roamRadius where patrol points straight home
)

// Obstacle avoidance.
const (
	obstacleCheckInterval = 200 * time.Millisecond
	avoidMargin           = 1.0
	avoidSamples          = 6
	avoidSampleSpacing    = 0.8
	avoidProbeHeight      = 1.0
	avoidBlendAhead       = 0.9
	avoidBlendSide        = 0.7
	avoidSteerBlend       = 0.5 // chase/attack mix of desired heading and avoidance heading
	avoidPenaltyFactor    = 0.5
	avoidPenaltyDuration  = 500 * time.Millisecond
)

// Spawn placement.
const (
	enemySpawnExtent    = 40.0
	enemySpawnClearance = 15.0
)

// avoidRayLerps are the fractions by which probe rays are bent from forward
// towards the hull's left side. Negative values bend right.
var avoidRayLerps = [...]float64{0, 0.3, -0.3, 0.6, -0.6}

// EnemyController drives an enemy Tank: a patrol/chase/attack state machine
// plus obstacle avoidance and edge-of-arena steering.
type EnemyController struct {
	tank       *Tank
	difficulty int
	state      AIState

	detectionRadius float64
	firingRange     float64
	scoreValue      int

	patrolDir        geom.Vec3
	lastPatrolChange time.Time
	patrolInterval   time.Duration

	terrain           terrain.Terrain
	lastObstacleCheck time.Time
	avoidUntil        time.Time
	speedPenaltyUntil time.Time

	previousPos geom.Vec3
	hasPrevious bool

	rng *rand.Rand
}

// NewEnemy creates an enemy tank at pos. difficulty is clamped to [1,5].
func NewEnemy(label string, pos geom.Vec3, difficulty int, rng *rand.Rand, sink Sink, now time.Time) *EnemyController {
	d := difficulty
	if d < minDifficulty {
		d = minDifficulty
	}
	if d > maxDifficulty {
		d = maxDifficulty
	}
	fd := float64(d)

	t := newTank(label, pos, sink)
	t.speed = 5 + 0.5*fd
	t.turnSpeed = 0.8 + 0.1*fd
	t.fireRate = time.Duration(2000-200*d) * time.Millisecond

	c := &EnemyController{
		tank:             t,
		difficulty:       d,
		state:            AIPatrol,
		detectionRadius:  30 + 5*fd,
		firingRange:      20 + 2*fd,
		scoreValue:       100 * d,
		lastPatrolChange: now,
		rng:              rng,
	}
	c.patrolInterval = c.randomPatrolInterval()
	c.patrolDir = c.randomDirection()
	t.yaw = geom.YawOf(c.patrolDir)
	return c
}

// EnemySpawnPosition picks a spawn point in the outer ring of the arena,
// never inside the central clearance box.
func EnemySpawnPosition(rng *rand.Rand) geom.Vec3 {
	x := geom.RandomBetween(rng, -enemySpawnExtent, enemySpawnExtent)
	z := geom.RandomBetween(rng, -enemySpawnExtent, enemySpawnExtent)
	if math.Abs(x) < enemySpawnClearance && math.Abs(z) < enemySpawnClearance {
		x += math.Copysign(enemySpawnClearance, x)
		z += math.Copysign(enemySpawnClearance, z)
	}
	return geom.Vec3{x, hullHeight, z}
}

func (c *EnemyController) Tank() *Tank                { return c.tank }
func (c *EnemyController) State() AIState             { return c.state }
func (c *EnemyController) Difficulty() int            { return c.difficulty }
func (c *EnemyController) ScoreValue() int            { return c.scoreValue }
func (c *EnemyController) DetectionRadius() float64   { return c.detectionRadius }
func (c *EnemyController) FiringRange() float64       { return c.firingRange }
func (c *EnemyController) PatrolDirection() geom.Vec3 { return c.patrolDir }

// SetTerrain gives the controller a surface for obstacle probing. A nil
// terrain disables avoidance.
func (c *EnemyController) SetTerrain(t terrain.Terrain) { c.terrain = t }

// SetPatrolDirection replaces the patrol heading (flattened and normalised)
// and restarts the re-roll timer.
func (c *EnemyController) SetPatrolDirection(dir geom.Vec3, now time.Time) {
	c.patrolDir = geom.SafeNormalize(geom.Flatten(dir), c.patrolDir)
	c.lastPatrolChange = now
}

// InvertPatrolDirection turns the patrol heading around.
func (c *EnemyController) InvertPatrolDirection(now time.Time) {
	c.patrolDir = c.patrolDir.Mul(-1)
	c.lastPatrolChange = now
}

// Update runs one AI tick: throttled obstacle probing, the state machine,
// then the tank's own shell bookkeeping.
func (c *EnemyController) Update(dt float64, now time.Time, player *Tank) {
	if c.tank.destroyed {
		return
	}

	if c.terrain != nil && now.Sub(c.lastObstacleCheck) >= obstacleCheckInterval {
		c.lastObstacleCheck = now
		c.checkForObstacles(now)
	}

	switch c.state {
	case AIPatrol:
		c.patrol(dt, now)
		if c.CanSee(player) {
			c.state = AIChase
		}
	case AIChase:
		if player == nil || player.destroyed {
			c.state = AIPatrol
			break
		}
		c.chase(dt, now, player)
		if !c.CanSee(player) {
			c.state = AIPatrol
		} else if geom.Distance(c.tank.pos, player.pos) < c.firingRange {
			c.state = AIAttack
		}
	case AIAttack:
		if player == nil || player.destroyed {
			c.state = AIPatrol
			break
		}
		c.attack(dt, now, player)
		if geom.Distance(c.tank.pos, player.pos) > c.firingRange {
			c.state = AIChase
		} else if !c.CanSee(player) {
			c.state = AIPatrol
		}
	}

	c.tank.Update(dt, now)
}

// CanSee reports whether player is inside the detection radius and the
// hull's forward field of view.
func (c *EnemyController) CanSee(player *Tank) bool {
	if player == nil || player.destroyed {
		return false
	}
	if geom.Distance(c.tank.pos, player.pos) > c.detectionRadius {
		return false
	}
	to := geom.Flatten(player.pos.Sub(c.tank.pos))
	if to.Len() < 1e-9 {
		return true
	}
	return c.tank.Forward().Dot(to.Normalize()) > fovDotThreshold
}

func (c *EnemyController) patrol(dt float64, now time.Time) {
	if now.Sub(c.lastPatrolChange) > c.patrolInterval {
		c.patrolDir = c.randomDirection()
		c.patrolInterval = c.randomPatrolInterval()
		c.lastPatrolChange = now
	}
	c.handleBoundaries()
	c.tank.turnTowards(c.patrolDir, dt)
	c.tank.advance(c.tank.speed * patrolSpeedFactor * c.speedFactor(now) * dt)
}

func (c *EnemyController) chase(dt float64, now time.Time, player *Tank) {
	to := geom.Flatten(player.pos.Sub(c.tank.pos))
	c.tank.turnTowards(c.steer(to, now), dt)
	c.tank.aimTurretAt(player.pos, dt)
	c.tank.advance(c.tank.speed * chaseSpeedFactor * c.speedFactor(now) * dt)
	c.handleBoundaries()
}

func (c *EnemyController) attack(dt float64, now time.Time, player *Tank) {
	to := geom.Flatten(player.pos.Sub(c.tank.pos))
	dist := to.Len()
	c.tank.turnTowards(c.steer(to, now), dt)

	optimal := c.firingRange * attackOptimalFraction
	step := c.tank.speed * attackSpeedFactor * c.speedFactor(now) * dt
	switch {
	case dist > optimal+attackDeadBand:
		c.tank.advance(step)
	case dist < optimal-attackDeadBand:
		c.tank.advance(-step)
	}

	c.tank.aimTurretAt(player.pos, dt)
	if dist > 1e-9 && c.tank.CannonForward().Dot(to.Mul(1/dist)) > aimDotThreshold {
		c.tank.Fire(now)
	}
	c.handleBoundaries()
}

// steer mixes the avoidance heading into desired while an avoidance window
// is open.
func (c *EnemyController) steer(desired geom.Vec3, now time.Time) geom.Vec3 {
	if !now.Before(c.avoidUntil) {
		return desired
	}
	d := geom.SafeNormalize(desired, c.patrolDir)
	return geom.SafeNormalize(geom.Lerp(d, c.patrolDir, avoidSteerBlend), d)
}

func (c *EnemyController) speedFactor(now time.Time) float64 {
	if now.Before(c.speedPenaltyUntil) {
		return avoidPenaltyFactor
	}
	return 1
}

// handleBoundaries bends the patrol heading home near the edge of the roam
// radius and points it straight home past the snap threshold.
func (c *EnemyController) handleBoundaries() {
	r := c.roamLimit()
	d := geom.PlanarDistance(c.tank.pos, geom.Vec3{})
	if d <= r*roamBlendStart {
		return
	}
	home := geom.SafeNormalize(geom.Flatten(c.tank.pos.Mul(-1)), c.patrolDir)
	if d > r*roamSnapAt {
		c.patrolDir = home
		return
	}
	proximity := (d - 0.6*r) / (0.4 * r)
	c.patrolDir = geom.SafeNormalize(geom.Lerp(c.patrolDir, home, proximity), home)
}

// roamLimit is the arena's half-extent, or roamRadius without terrain.
func (c *EnemyController) roamLimit() float64 {
	if c.terrain != nil {
		if b := c.terrain.BoundarySize(); b > 0 {
			return b / 2
		}
	}
	return roamRadius
}

// checkForObstacles probes a fan of rays ahead of the hull and steers away
// from the first obstacle any sample lands inside. It reports whether an
// obstacle was found.
func (c *EnemyController) checkForObstacles(now time.Time) bool {
	if c.terrain == nil {
		return false
	}
	obstacles := c.terrain.Obstacles()
	if len(obstacles) == 0 {
		return false
	}

	fwd := c.tank.Forward()
	left := geom.Vec3{-fwd[2], 0, fwd[0]}
	lookahead := 1 + 0.15*float64(c.difficulty)
	origin := geom.Vec3{c.tank.pos[0], avoidProbeHeight, c.tank.pos[2]}

	for _, bend := range avoidRayLerps {
		ray := geom.SafeNormalize(geom.Lerp(fwd, left, bend), fwd)
		for i := 1; i <= avoidSamples; i++ {
			sample := origin.Add(ray.Mul(float64(i) * avoidSampleSpacing * lookahead))
			for _, o := range obstacles {
				limit := o.Radius + c.tank.radius + avoidMargin
				dx := sample[0] - o.Position[0]
				dz := sample[2] - o.Position[2]
				if dx*dx+dz*dz < limit*limit {
					c.avoidObstacle(o.Position, now)
					return true
				}
			}
		}
	}
	return false
}

func (c *EnemyController) avoidObstacle(obstacle geom.Vec3, now time.Time) {
	fwd := c.tank.Forward()
	away := geom.SafeNormalize(geom.Flatten(c.tank.pos.Sub(obstacle)), fwd.Mul(-1))

	blend := avoidBlendSide
	if fwd.Dot(away) > 0 {
		blend = avoidBlendAhead
	}
	precision := 0.7 + 0.06*float64(c.difficulty)
	dir := geom.SafeNormalize(geom.Lerp(fwd, away, blend*precision), away)

	jitter := 0.3 - 0.03*float64(c.difficulty)
	dir[0] += (c.rng.Float64() - 0.5) * jitter
	dir[2] += (c.rng.Float64() - 0.5) * jitter
	c.patrolDir = geom.SafeNormalize(dir, away)

	c.lastPatrolChange = now
	c.avoidUntil = now.Add(avoidPenaltyDuration)
	c.speedPenaltyUntil = now.Add(avoidPenaltyDuration)
}

// recordPosition remembers where the hull was at the end of the collision
// pass so the next pass can revert to it.
func (c *EnemyController) recordPosition() {
	c.previousPos = c.tank.pos
	c.hasPrevious = true
}

func (c *EnemyController) lastGoodPosition() geom.Vec3 {
	if !c.hasPrevious {
		return c.tank.pos
	}
	return c.previousPos
}

func (c *EnemyController) randomDirection() geom.Vec3 {
	a := c.rng.Float64() * 2 * math.Pi
	return geom.Vec3{math.Cos(a), 0, math.Sin(a)}
}

func (c *EnemyController) randomPatrolInterval() time.Duration {
	span := patrolChangeMax - patrolChangeMin
	return patrolChangeMin + time.Duration(c.rng.Int63n(int64(span)+1))
}
