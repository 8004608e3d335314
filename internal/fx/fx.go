// Package fx turns core presentation effects into short-lived particles and
// banners. It knows nothing about how they are drawn; internal/view and the
// terminal front end read Particles and Banner each frame.
package fx

import (
	"math"
	"math/rand"
	"time"

	"github.com/Garsondee/Tank-Arena/internal/game"
	"github.com/Garsondee/Tank-Arena/internal/geom"
)

// Kind selects a particle's update rule.
type Kind int

const (
	Debris Kind = iota
	Flash
	Spark
	Ring
	FloatText
)

func (k Kind) String() string {
	switch k {
	case Debris:
		return "debris"
	case Flash:
		return "flash"
	case Spark:
		return "spark"
	case Ring:
		return "ring"
	case FloatText:
		return "float_text"
	default:
		return "unknown"
	}
}

const (
	gravity = 9.8

	debrisSpread  = 5.0 // horizontal velocity range is ±debrisSpread
	debrisMinLift = 2.0
	debrisMaxLift = 8.0
	debrisSize    = 0.3

	sparkSpread = 3.0
	sparkDrag   = 2.5 // per-second velocity decay factor

	ringStartRadius = 0.5
	ringGrowth      = 6.0 // units per second
	ringLife        = 700 * time.Millisecond

	floatRise = 1.5 // units per second
	flashSize = 1.2

	defaultLife  = time.Second
	maxParticles = 2000
)

// Particle is one visual element. Alpha and Size are recomputed every
// update from the particle's age.
type Particle struct {
	Kind  Kind
	Pos   geom.Vec3
	Vel   geom.Vec3
	Color uint32
	Size  float64
	Alpha float64
	Text  string

	life time.Duration
	age  time.Duration
}

// Progress is the fraction of the particle's life already spent, in [0, 1].
func (p *Particle) Progress() float64 {
	if p.life <= 0 {
		return 1
	}
	return math.Min(1, float64(p.age)/float64(p.life))
}

func (p *Particle) done() bool { return p.age >= p.life }

// Banner is a full-screen state message (paused, game over).
type Banner struct {
	Text  string
	Color uint32
}

// System collects particles from core effects and ages them each frame. It
// implements game.Sink.
type System struct {
	rng       *rand.Rand
	particles []*Particle
	hud       game.HUD
	banner    Banner
	last      time.Time
}

var _ game.Sink = (*System)(nil)

// NewSystem returns an empty particle system. rng drives debris spread.
func NewSystem(rng *rand.Rand) *System {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano())) // #nosec G404 -- game only
	}
	return &System{rng: rng}
}

func (s *System) Particles() []*Particle { return s.particles }
func (s *System) HUD() game.HUD          { return s.hud }
func (s *System) Banner() Banner         { return s.banner }
func (s *System) Len() int               { return len(s.particles) }

// UpdateHUD keeps the latest HUD snapshot for the renderer.
func (s *System) UpdateHUD(h game.HUD) { s.hud = h }

// Emit converts one effect into particles or a banner change.
func (s *System) Emit(e game.Effect) {
	switch e.Kind {
	case game.EffectMuzzleFlash:
		s.add(&Particle{Kind: Flash, Pos: e.Pos, Vel: e.Dir, Color: e.Color, Size: flashSize}, e.Duration)
	case game.EffectProjectileExplosion, game.EffectTankExplosion, game.EffectCoinCollected:
		s.debris(e.Pos, e.Color, e.Count, e.Duration)
	case game.EffectObstacleImpact:
		s.sparks(e.Pos, e.Color, e.Count, e.Duration)
	case game.EffectCoinSpawned:
		s.add(&Particle{Kind: Ring, Pos: e.Pos, Color: 0xFFD700, Size: ringStartRadius}, ringLife)
	case game.EffectEnemySpawned:
		s.add(&Particle{Kind: Ring, Pos: e.Pos, Color: 0xFF3333, Size: ringStartRadius}, ringLife)
	case game.EffectPowerUpActivated:
		s.add(&Particle{Kind: Ring, Pos: e.Pos, Color: e.Color, Size: ringStartRadius}, ringLife)
		s.text(e.Pos, e.Text, e.Color, e.Duration)
	case game.EffectHealthBoost, game.EffectEnemyDestroyed:
		s.text(e.Pos, e.Text, colorOr(e.Color, 0xFFFFFF), e.Duration)
	case game.EffectPowerUpExpired:
		s.text(s.hudAnchor(), e.Text, 0xFF6666, e.Duration)
	case game.EffectBoundaryWarning:
		s.text(e.Pos, "BOUNDARY", 0xFF3333, e.Duration)
	case game.EffectObstacleWarning:
		s.text(e.Pos, "OBSTACLE", 0xFFAA00, e.Duration)
	case game.EffectPaused:
		s.banner = Banner{Text: e.Text, Color: 0xFFFFFF}
	case game.EffectResumed:
		s.banner = Banner{}
	case game.EffectGameOver:
		s.banner = Banner{Text: e.Text, Color: 0xFF3333}
	case game.EffectRestarted:
		s.banner = Banner{}
		s.particles = s.particles[:0]
	}
}

// Update ages every particle by the wall-clock time since the last call
// and drops the finished ones.
func (s *System) Update(now time.Time) {
	if s.last.IsZero() {
		s.last = now
		return
	}
	dt := now.Sub(s.last)
	s.last = now
	if dt <= 0 {
		return
	}
	secs := dt.Seconds()

	kept := s.particles[:0]
	for _, p := range s.particles {
		p.age += dt
		if p.done() {
			continue
		}
		switch p.Kind {
		case Debris:
			updateDebris(p, secs)
		case Flash:
			updateFlash(p)
		case Spark:
			updateSpark(p, secs)
		case Ring:
			updateRing(p, secs)
		case FloatText:
			updateFloatText(p, secs)
		}
		kept = append(kept, p)
	}
	s.particles = kept
}

func updateDebris(p *Particle, dt float64) {
	p.Vel[1] -= gravity * dt
	p.Pos = p.Pos.Add(p.Vel.Mul(dt))
	if p.Pos[1] < 0 {
		p.Pos[1] = 0
		p.Vel = geom.Vec3{}
	}
	p.Alpha = 1 - p.Progress()
}

func updateFlash(p *Particle) {
	k := 1 - p.Progress()
	p.Alpha = k
	p.Size = flashSize * (0.5 + 0.5*k)
}

func updateSpark(p *Particle, dt float64) {
	p.Vel = p.Vel.Mul(math.Max(0, 1-sparkDrag*dt))
	p.Pos = p.Pos.Add(p.Vel.Mul(dt))
	p.Alpha = 1 - p.Progress()
}

func updateRing(p *Particle, dt float64) {
	p.Size += ringGrowth * dt
	p.Alpha = 0.7 * (1 - p.Progress())
}

func updateFloatText(p *Particle, dt float64) {
	p.Pos[1] += floatRise * dt
	k := p.Progress()
	if k < 0.7 {
		p.Alpha = 1
		return
	}
	p.Alpha = 1 - (k-0.7)/0.3
}

func (s *System) add(p *Particle, life time.Duration) {
	if len(s.particles) >= maxParticles {
		return
	}
	if life <= 0 {
		life = defaultLife
	}
	p.life = life
	p.Alpha = 1
	s.particles = append(s.particles, p)
}

func (s *System) debris(at geom.Vec3, c uint32, n int, life time.Duration) {
	for i := 0; i < n; i++ {
		vel := geom.Vec3{
			geom.RandomBetween(s.rng, -debrisSpread, debrisSpread),
			geom.RandomBetween(s.rng, debrisMinLift, debrisMaxLift),
			geom.RandomBetween(s.rng, -debrisSpread, debrisSpread),
		}
		s.add(&Particle{Kind: Debris, Pos: at, Vel: vel, Color: c, Size: debrisSize}, life)
	}
}

func (s *System) sparks(at geom.Vec3, c uint32, n int, life time.Duration) {
	for i := 0; i < n; i++ {
		vel := geom.Vec3{
			geom.RandomBetween(s.rng, -sparkSpread, sparkSpread),
			geom.RandomBetween(s.rng, 0, sparkSpread),
			geom.RandomBetween(s.rng, -sparkSpread, sparkSpread),
		}
		s.add(&Particle{Kind: Spark, Pos: at, Vel: vel, Color: c, Size: debrisSize / 2}, life)
	}
}

func (s *System) text(at geom.Vec3, msg string, c uint32, life time.Duration) {
	if msg == "" {
		return
	}
	s.add(&Particle{Kind: FloatText, Pos: at, Color: c, Text: msg}, life)
}

// hudAnchor places screen-level notices at the arena origin.
func (s *System) hudAnchor() geom.Vec3 { return geom.Vec3{0, 2, 0} }

func colorOr(c, fallback uint32) uint32 {
	if c == 0 {
		return fallback
	}
	return c
}

// RGB splits a packed 0xRRGGBB colour.
func RGB(c uint32) (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}
