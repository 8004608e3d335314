package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/Garsondee/Tank-Arena/internal/geom"
	"github.com/Garsondee/Tank-Arena/internal/terrain"
)

// harnessEpoch is the fixed start of every harness clock.
var harnessEpoch = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

const defaultHarnessStep = 16 * time.Millisecond

// TestSim is a headless match harness. It drives Game.Update from a manual
// clock advanced by a fixed step, so runs are deterministic for a given
// seed, and records effects and structured events for assertions.
type TestSim struct {
	Game   *Game
	Sink   *RecordingSink
	SimLog *SimLog
	Clock  time.Time
	Step   time.Duration

	tuning    Tuning
	arena     terrain.Terrain
	rng       *rand.Rand
	metrics   Metrics
	autopilot *Autopilot
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra  simOptionKind = iota // seed, tuning, arena, step: applied before the game exists
	simOptEntity                      // player placement, enemies: applied after
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- test harness
	}}
}

// WithVerbose enables per-frame position logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.SimLog = NewSimLog(v)
	}}
}

// WithTuning replaces the harness tuning.
func WithTuning(t Tuning) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.tuning = t
	}}
}

// WithArena sets the terrain. Without it the match has no terrain at all.
func WithArena(t terrain.Terrain) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.arena = t
	}}
}

// WithoutCoins disables every coin spawn path.
func WithoutCoins() SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.tuning.MaxCoins = 0
		ts.tuning.InitialCoins = 0
	}}
}

// WithEnemySpawning turns the timed enemy spawner back on. The harness
// defaults to explicit enemies only.
func WithEnemySpawning(maxEnemies int) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.tuning.MaxEnemies = maxEnemies
	}}
}

// WithStep sets the simulated frame length.
func WithStep(d time.Duration) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.Step = d
	}}
}

// WithRecorder routes the match counters to m.
func WithRecorder(m Metrics) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.metrics = m
	}}
}

// WithPlayerAt places the player on the ground plane at (x, z).
func WithPlayerAt(x, z float64) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		p := geom.Vec3{x, hullHeight, z}
		ts.Game.player.pos = p
		ts.Game.player.spawn = p
	}}
}

// WithEnemy adds an enemy at (x, z) whose hull and patrol heading face the
// player.
func WithEnemy(x, z float64, difficulty int) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		ts.AddEnemyFacingPlayer(x, z, difficulty)
	}}
}

// WithAutopilot lets an Autopilot drive the player every frame.
func WithAutopilot() SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		ts.autopilot = NewAutopilot()
	}}
}

// NewTestSim constructs a TestSim in two ordered passes:
//  1. Infrastructure (seed, tuning, arena, step)
//  2. Entities (player placement, enemies), once the game exists
//
// The match is started at the harness epoch before entity options run.
func NewTestSim(opts ...SimOption) *TestSim {
	t := DefaultTuning()
	t.MaxEnemies = 0
	ts := &TestSim{
		Sink:   &RecordingSink{},
		SimLog: NewSimLog(false),
		Clock:  harnessEpoch,
		Step:   defaultHarnessStep,
		tuning: t,
		rng:    rand.New(rand.NewSource(1)), // #nosec G404 -- test harness default
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}

	gopts := []Option{
		WithSink(ts.Sink),
		WithRand(ts.rng),
		WithSimLog(ts.SimLog),
	}
	if ts.arena != nil {
		gopts = append(gopts, WithTerrain(ts.arena))
	}
	if ts.metrics != nil {
		gopts = append(gopts, WithMetrics(ts.metrics))
	}
	ts.Game = New(ts.tuning, gopts...)
	ts.Game.Start(ts.Clock)

	for _, o := range opts {
		if o.kind == simOptEntity {
			o.fn(ts)
		}
	}
	return ts
}

// AddEnemyFacingPlayer places an enemy at (x, z) turned towards the player.
func (ts *TestSim) AddEnemyFacingPlayer(x, z float64, difficulty int) *EnemyController {
	e := ts.Game.AddEnemy(geom.Vec3{x, hullHeight, z}, difficulty, ts.Clock)
	to := geom.Flatten(ts.Game.player.pos.Sub(e.tank.pos))
	if to.Len() > 1e-9 {
		e.tank.yaw = geom.YawOf(to)
		e.SetPatrolDirection(to, ts.Clock)
	}
	return e
}

// Tick advances the clock by one step and runs one frame.
func (ts *TestSim) Tick() {
	ts.Clock = ts.Clock.Add(ts.Step)
	if ts.autopilot != nil {
		ts.autopilot.Drive(ts.Game, ts.Clock)
	}
	ts.Game.Update(ts.Clock)

	frame := ts.Game.frame
	p := ts.Game.player
	ts.SimLog.AddVerbose(frame, p.label, "player", "move", "position",
		fmt.Sprintf("(%.1f,%.1f)", p.pos[0], p.pos[2]), float64(p.health))
	for _, e := range ts.Game.enemies {
		ts.SimLog.AddVerbose(frame, e.tank.label, "enemy", "move", "position",
			fmt.Sprintf("(%.1f,%.1f) %s", e.tank.pos[0], e.tank.pos[2], e.state), geom.Distance(e.tank.pos, p.pos))
	}
}

// RunTicks advances the match n frames.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.Tick()
	}
}

// RunFor advances the match by at least d of simulated time.
func (ts *TestSim) RunFor(d time.Duration) {
	end := ts.Clock.Add(d)
	for ts.Clock.Before(end) {
		ts.Tick()
	}
}

// RunUntil advances the match up to maxTicks frames, stopping early if
// predicate returns true. Returns the frame at which the predicate was
// satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ts.Tick()
		if predicate(ts) {
			return ts.Game.frame
		}
	}
	return -1
}

// Elapsed returns the simulated time since the harness started.
func (ts *TestSim) Elapsed() time.Duration {
	return ts.Clock.Sub(harnessEpoch)
}

// SimSnapshot is a lightweight copy of the match at a frame.
type SimSnapshot struct {
	Frame   int
	Player  TankSnapshot
	Enemies []TankSnapshot
}

// TankSnapshot is a lightweight copy of one tank's state.
type TankSnapshot struct {
	Label  string
	Pos    geom.Vec3
	Yaw    float64
	Health int
	State  AIState // patrol for the player
}

// Snapshot returns the current state of every tank.
func (ts *TestSim) Snapshot() SimSnapshot {
	p := ts.Game.player
	snap := SimSnapshot{
		Frame:  ts.Game.frame,
		Player: TankSnapshot{Label: p.label, Pos: p.pos, Yaw: p.yaw, Health: p.health},
	}
	for _, e := range ts.Game.enemies {
		snap.Enemies = append(snap.Enemies, TankSnapshot{
			Label:  e.tank.label,
			Pos:    e.tank.pos,
			Yaw:    e.tank.yaw,
			Health: e.tank.health,
			State:  e.state,
		})
	}
	return snap
}
