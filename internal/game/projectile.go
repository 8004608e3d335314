package game

import (
	"time"

	"github.com/Garsondee/Tank-Arena/internal/geom"
)

// Shell ballistics.
const (
	projectileSpeed    = 50.0
	projectileLifetime = 3000 * time.Millisecond
	projectileRadius   = 0.5
	minProjectileStep  = 0.016 // shells never advance less than one 60 Hz frame
	groundLevel        = 0.0
)

// Projectile is a shell owned by the tank that fired it. It flies in a
// straight line until it hits something, touches the ground or times out.
type Projectile struct {
	pos        geom.Vec3
	dir        geom.Vec3
	speed      float64
	damage     int
	createdAt  time.Time
	lifetime   time.Duration
	radius     float64
	fromPlayer bool

	shouldRemove bool
	exploded     bool

	sink Sink
}

func newProjectile(pos, dir geom.Vec3, damage int, fromPlayer bool, now time.Time, sink Sink) *Projectile {
	if sink == nil {
		sink = NopSink{}
	}
	return &Projectile{
		pos:        pos,
		dir:        dir,
		speed:      projectileSpeed,
		damage:     damage,
		createdAt:  now,
		lifetime:   projectileLifetime,
		radius:     projectileRadius,
		fromPlayer: fromPlayer,
		sink:       sink,
	}
}

func (p *Projectile) Position() geom.Vec3  { return p.pos }
func (p *Projectile) Direction() geom.Vec3 { return p.dir }
func (p *Projectile) Radius() float64      { return p.radius }
func (p *Projectile) Damage() int          { return p.damage }
func (p *Projectile) FromPlayer() bool     { return p.fromPlayer }
func (p *Projectile) ShouldRemove() bool   { return p.shouldRemove }
func (p *Projectile) Exploded() bool       { return p.exploded }
func (p *Projectile) CreatedAt() time.Time { return p.createdAt }

// Update times the shell out or moves it. Timing out is silent; touching the
// ground explodes.
func (p *Projectile) Update(dt float64, now time.Time) {
	if p.shouldRemove {
		return
	}
	if now.Sub(p.createdAt) > p.lifetime {
		p.shouldRemove = true
		return
	}
	step := dt
	if step < minProjectileStep {
		step = minProjectileStep
	}
	p.pos = p.pos.Add(p.dir.Mul(p.speed * step))
	if p.pos[1] < groundLevel {
		p.Explode()
	}
}

// Explode marks the shell for removal and requests debris. A shell that is
// already finished does nothing, so the effect fires at most once.
func (p *Projectile) Explode() {
	if p.shouldRemove {
		return
	}
	p.shouldRemove = true
	p.exploded = true
	p.sink.Emit(Effect{
		Kind:     EffectProjectileExplosion,
		Pos:      p.pos,
		Color:    shellDebrisColor,
		Count:    shellDebrisCount,
		Duration: shellDebrisLife,
	})
}
