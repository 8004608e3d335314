package game

import (
	"time"

	"github.com/google/uuid"

	"github.com/Garsondee/Tank-Arena/internal/geom"
)

// Tank body constants shared by the player and enemies.
const (
	tankRadius = 2.0
	hullHeight = 0.5 // hull centre above the ground
	maxHealth  = 100
	baseDamage = 25 // per-shell damage before any power-up

	// Muzzle geometry: shells leave the cannon tip slightly above the hull
	// centre and are lifted a touch so they clear gentle ground.
	muzzleLength = 3.0
	muzzleHeight = 0.5
	aimLift      = 0.01
)

// Player tuning.
const (
	playerSpeed       = 10.0
	playerTurnSpeed   = 1.5 // rad/s
	playerFireRate    = 500 * time.Millisecond
	reverseMultiplier = 0.6
	turretTurnFactor  = 1.5 // turret turns this much faster than the hull
)

// PlayerSpawn is where the player starts and respawns.
var PlayerSpawn = geom.Vec3{0, hullHeight, 0}

// Intent is the movement snapshot delivered by an input front end.
type Intent struct {
	Forward     bool
	Backward    bool
	Left        bool
	Right       bool
	TurretLeft  bool
	TurretRight bool
}

// Moving reports whether any hull movement key is held.
func (i Intent) Moving() bool {
	return i.Forward || i.Backward || i.Left || i.Right
}

// Tank is the shared body for the player and enemies. Enemies are driven by
// an EnemyController that moves the hull directly; the player is driven by
// its Intent.
type Tank struct {
	id     uuid.UUID
	label  string
	player bool

	pos       geom.Vec3
	spawn     geom.Vec3
	yaw       float64 // hull heading, 0 faces +Z
	turretYaw float64 // relative to the hull

	health    int
	destroyed bool
	intent    Intent

	radius    float64
	speed     float64
	turnSpeed float64
	fireRate  time.Duration
	lastFired time.Time
	damage    int

	projectiles []*Projectile
	shotsFired  int

	sink Sink
}

// NewPlayerTank creates the player's tank at PlayerSpawn.
func NewPlayerTank(sink Sink) *Tank {
	t := newTank("P", PlayerSpawn, sink)
	t.player = true
	t.speed = playerSpeed
	t.turnSpeed = playerTurnSpeed
	t.fireRate = playerFireRate
	return t
}

func newTank(label string, pos geom.Vec3, sink Sink) *Tank {
	if sink == nil {
		sink = NopSink{}
	}
	pos[1] = hullHeight
	return &Tank{
		id:     uuid.New(),
		label:  label,
		pos:    pos,
		spawn:  pos,
		health: maxHealth,
		radius: tankRadius,
		damage: baseDamage,
		sink:   sink,
	}
}

func (t *Tank) ID() uuid.UUID              { return t.id }
func (t *Tank) Label() string              { return t.label }
func (t *Tank) IsPlayer() bool             { return t.player }
func (t *Tank) Position() geom.Vec3        { return t.pos }
func (t *Tank) SetPosition(p geom.Vec3)    { t.pos = p }
func (t *Tank) Radius() float64            { return t.radius }
func (t *Tank) Health() int                { return t.health }
func (t *Tank) Destroyed() bool            { return t.destroyed }
func (t *Tank) Damage() int                { return t.damage }
func (t *Tank) SetDamage(d int)            { t.damage = d }
func (t *Tank) Speed() float64             { return t.speed }
func (t *Tank) TurnSpeed() float64         { return t.turnSpeed }
func (t *Tank) FireRate() time.Duration    { return t.fireRate }
func (t *Tank) Yaw() float64               { return t.yaw }
func (t *Tank) TurretYaw() float64         { return t.turretYaw }
func (t *Tank) Intent() Intent             { return t.intent }
func (t *Tank) SetIntent(i Intent)         { t.intent = i }
func (t *Tank) Projectiles() []*Projectile { return t.projectiles }
func (t *Tank) ShotsFired() int            { return t.shotsFired }
func (t *Tank) SetYaw(yaw float64)         { t.yaw = geom.NormalizeAngle(yaw) }
func (t *Tank) SetTurretYaw(yaw float64)   { t.turretYaw = geom.NormalizeAngle(yaw) }
func (t *Tank) CannonYaw() float64         { return geom.NormalizeAngle(t.yaw + t.turretYaw) }
func (t *Tank) Forward() geom.Vec3         { return geom.ForwardFromYaw(t.yaw) }
func (t *Tank) CannonForward() geom.Vec3   { return geom.ForwardFromYaw(t.yaw + t.turretYaw) }
func (t *Tank) setSink(s Sink)             { t.sink = s }
func (t *Tank) canFire(now time.Time) bool { return now.Sub(t.lastFired) >= t.fireRate }

// MuzzlePosition is the world-space cannon tip.
func (t *Tank) MuzzlePosition() geom.Vec3 {
	return t.pos.Add(t.CannonForward().Mul(muzzleLength)).Add(geom.Up.Mul(muzzleHeight))
}

// Fire launches a shell along the cannon if the cooldown has elapsed. It
// returns nil when the tank is destroyed or still reloading.
func (t *Tank) Fire(now time.Time) *Projectile {
	if t.destroyed || !t.canFire(now) {
		return nil
	}
	fwd := t.CannonForward()
	dir := geom.SafeNormalize(fwd.Add(geom.Vec3{0, aimLift, 0}), fwd)
	muzzle := t.MuzzlePosition()

	p := newProjectile(muzzle, dir, t.damage, t.player, now, t.sink)
	t.projectiles = append(t.projectiles, p)
	t.lastFired = now
	t.shotsFired++

	t.sink.Emit(Effect{
		Kind:     EffectMuzzleFlash,
		Pos:      muzzle,
		Dir:      dir,
		Color:    muzzleFlashColor,
		Duration: muzzleFlashLife,
	})
	return p
}

// TakeDamage subtracts amount from health and returns what is left. The
// transition to destroyed happens exactly once.
func (t *Tank) TakeDamage(amount int) int {
	if t.destroyed {
		return t.health
	}
	if amount < 0 {
		amount = 0
	}
	t.health -= amount
	if t.health <= 0 {
		t.health = 0
		t.destroy()
	}
	return t.health
}

// Heal adds amount up to maxHealth. Destroyed tanks stay at zero.
func (t *Tank) Heal(amount int) int {
	if t.destroyed {
		return t.health
	}
	t.health += amount
	if t.health > maxHealth {
		t.health = maxHealth
	}
	return t.health
}

func (t *Tank) destroy() {
	t.destroyed = true
	t.sink.Emit(Effect{
		Kind:     EffectTankExplosion,
		Pos:      t.pos,
		Color:    tankDebrisColor,
		Count:    tankDebrisCount,
		Duration: tankDebrisLife,
	})
}

// Reset restores a fresh tank. Only the player returns to its spawn pose.
func (t *Tank) Reset() {
	t.health = maxHealth
	t.destroyed = false
	t.projectiles = nil
	t.lastFired = time.Time{}
	t.intent = Intent{}
	if t.player {
		t.pos = t.spawn
		t.yaw = 0
		t.turretYaw = 0
	}
}

// Update applies the player's intent, then advances and prunes shells.
// Destroyed tanks do nothing.
func (t *Tank) Update(dt float64, now time.Time) {
	if t.destroyed {
		return
	}
	if t.player {
		t.applyIntent(dt)
	}
	t.pos[1] = hullHeight
	t.updateProjectiles(dt, now)
}

// MoveWithIntent applies only hull movement. Used while paused.
func (t *Tank) MoveWithIntent(dt float64) {
	if t.destroyed {
		return
	}
	i := t.intent
	i.TurretLeft, i.TurretRight = false, false
	t.drive(i, dt)
}

func (t *Tank) applyIntent(dt float64) {
	t.drive(t.intent, dt)
}

func (t *Tank) drive(i Intent, dt float64) {
	if i.Left {
		t.yaw += t.turnSpeed * dt
	}
	if i.Right {
		t.yaw -= t.turnSpeed * dt
	}
	t.yaw = geom.NormalizeAngle(t.yaw)

	fwd := t.Forward()
	if i.Forward {
		t.pos = t.pos.Add(fwd.Mul(t.speed * dt))
	}
	if i.Backward {
		t.pos = t.pos.Sub(fwd.Mul(t.speed * reverseMultiplier * dt))
	}

	turret := t.turnSpeed * turretTurnFactor * dt
	if i.TurretLeft {
		t.turretYaw += turret
	}
	if i.TurretRight {
		t.turretYaw -= turret
	}
	t.turretYaw = geom.NormalizeAngle(t.turretYaw)
}

// updateProjectiles advances every shell and drops the ones that finished.
// Filtering in place keeps order and never skips a neighbour of a removed
// shell.
func (t *Tank) updateProjectiles(dt float64, now time.Time) {
	for _, p := range t.projectiles {
		p.Update(dt, now)
	}
	t.pruneProjectiles()
}

func (t *Tank) pruneProjectiles() {
	kept := t.projectiles[:0]
	for _, p := range t.projectiles {
		if !p.ShouldRemove() {
			kept = append(kept, p)
		}
	}
	for i := len(kept); i < len(t.projectiles); i++ {
		t.projectiles[i] = nil
	}
	t.projectiles = kept
}

// advance moves the hull along its heading. Used by the AI controller.
func (t *Tank) advance(dist float64) {
	t.pos = t.pos.Add(t.Forward().Mul(dist))
}

// turnTowards rotates the hull towards dir by at most turnSpeed*dt.
func (t *Tank) turnTowards(dir geom.Vec3, dt float64) {
	if geom.Flatten(dir).Len() < 1e-9 {
		return
	}
	t.yaw = geom.RotateYawTowards(t.yaw, geom.YawOf(dir), t.turnSpeed*dt)
}

// aimTurretAt swings the turret so the cannon points at target.
func (t *Tank) aimTurretAt(target geom.Vec3, dt float64) {
	to := geom.Flatten(target.Sub(t.pos))
	if to.Len() < 1e-9 {
		return
	}
	want := geom.NormalizeAngle(geom.YawOf(to) - t.yaw)
	t.turretYaw = geom.RotateYawTowards(t.turretYaw, want, t.turnSpeed*turretTurnFactor*dt)
}
