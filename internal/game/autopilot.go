package game

import (
	"math"
	"time"

	"github.com/Garsondee/Tank-Arena/internal/geom"
)

// Autopilot tuning.
const (
	autopilotAimTolerance   = 0.05 // rad between cannon and target before firing
	autopilotFireRange      = 40.0
	autopilotDriveTolerance = 0.6 // rad of heading error still worth driving forward on
	autopilotTurnDeadBand   = 0.05
	autopilotEdgeFraction   = 0.4 // of the boundary; past this the autopilot heads home
)

// Autopilot plays the player's tank: the turret tracks the nearest enemy and
// fires when aligned, the hull drives towards the nearest coin. The headless
// report uses it to produce matches without a human.
type Autopilot struct {
	target string // label of the tracked enemy, for logs
}

func NewAutopilot() *Autopilot { return &Autopilot{} }

// Target returns the label of the enemy currently tracked, or "".
func (a *Autopilot) Target() string { return a.target }

// Drive sets the player's intent for this frame and pulls the trigger when
// the cannon is on target. It does nothing unless the match is running.
func (a *Autopilot) Drive(g *Game, now time.Time) {
	if g.state != StateRunning || g.player.destroyed {
		return
	}
	p := g.player
	var in Intent

	a.target = ""
	if e := nearestEnemy(g); e != nil {
		a.target = e.tank.label
		to := geom.Flatten(e.tank.pos.Sub(p.pos))
		diff := geom.NormalizeAngle(geom.YawOf(to) - p.CannonYaw())
		in.TurretLeft = diff > autopilotTurnDeadBand
		in.TurretRight = diff < -autopilotTurnDeadBand
		if math.Abs(diff) < autopilotAimTolerance && to.Len() < autopilotFireRange {
			g.Fire(now)
		}
	}

	if dest, ok := a.destination(g); ok {
		to := geom.Flatten(dest.Sub(p.pos))
		diff := geom.NormalizeAngle(geom.YawOf(to) - p.yaw)
		in.Left = diff > autopilotTurnDeadBand
		in.Right = diff < -autopilotTurnDeadBand
		in.Forward = math.Abs(diff) < autopilotDriveTolerance
	}

	g.SetPlayerIntent(in)
}

// destination is the nearest uncollected coin, or the arena centre when the
// player has wandered towards the edge.
func (a *Autopilot) destination(g *Game) (geom.Vec3, bool) {
	p := g.player.pos
	if geom.PlanarDistance(p, geom.Vec3{}) > g.boundarySize()*autopilotEdgeFraction {
		return geom.Vec3{}, true
	}
	best := math.MaxFloat64
	var dest geom.Vec3
	found := false
	for _, c := range g.coins {
		if c.collected {
			continue
		}
		if d := geom.PlanarDistance(p, c.pos); d < best {
			best, dest, found = d, c.pos, true
		}
	}
	return dest, found
}

func nearestEnemy(g *Game) *EnemyController {
	best := math.MaxFloat64
	var out *EnemyController
	for _, e := range g.enemies {
		if e.tank.destroyed {
			continue
		}
		if d := geom.PlanarDistance(g.player.pos, e.tank.pos); d < best {
			best, out = d, e
		}
	}
	return out
}
