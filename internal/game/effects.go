package game

import (
	"time"

	"github.com/Garsondee/Tank-Arena/internal/geom"
)

// EffectKind tags a presentation request. Sinks switch on it; the core never
// inspects what a sink does with an effect.
type EffectKind int

const (
	EffectMuzzleFlash EffectKind = iota
	EffectProjectileExplosion
	EffectTankExplosion
	EffectCoinSpawned
	EffectCoinCollected
	EffectObstacleImpact
	EffectBoundaryWarning
	EffectObstacleWarning
	EffectPowerUpActivated
	EffectPowerUpExpired
	EffectHealthBoost
	EffectEnemySpawned
	EffectEnemyDestroyed
	EffectGameOver
	EffectPaused
	EffectResumed
	EffectRestarted
)

func (k EffectKind) String() string {
	switch k {
	case EffectMuzzleFlash:
		return "muzzle_flash"
	case EffectProjectileExplosion:
		return "projectile_explosion"
	case EffectTankExplosion:
		return "tank_explosion"
	case EffectCoinSpawned:
		return "coin_spawned"
	case EffectCoinCollected:
		return "coin_collected"
	case EffectObstacleImpact:
		return "obstacle_impact"
	case EffectBoundaryWarning:
		return "boundary_warning"
	case EffectObstacleWarning:
		return "obstacle_warning"
	case EffectPowerUpActivated:
		return "powerup_activated"
	case EffectPowerUpExpired:
		return "powerup_expired"
	case EffectHealthBoost:
		return "health_boost"
	case EffectEnemySpawned:
		return "enemy_spawned"
	case EffectEnemyDestroyed:
		return "enemy_destroyed"
	case EffectGameOver:
		return "game_over"
	case EffectPaused:
		return "paused"
	case EffectResumed:
		return "resumed"
	case EffectRestarted:
		return "restarted"
	default:
		return "unknown"
	}
}

// Debris presets.
const (
	tankDebrisColor    = 0xFF5500
	tankDebrisCount    = 30
	tankDebrisLife     = 3000 * time.Millisecond
	shellDebrisColor   = 0xFFAA00
	shellDebrisCount   = 20
	shellDebrisLife    = 1500 * time.Millisecond
	impactSparkColor   = 0xAAAAAA
	impactSparkCount   = 10
	impactSparkLife    = 800 * time.Millisecond
	coinBurstColor     = 0xFFD700
	coinBurstCount     = 20
	coinBurstLife      = 1000 * time.Millisecond
	muzzleFlashColor   = 0xFFFF99
	muzzleFlashLife    = 100 * time.Millisecond
	healthBoostColor   = 0x33FF66
	powerUpGlowColor   = 0x66CCFF
	notificationLife   = 2000 * time.Millisecond
	impactEffectRadius = 30.0 // enemy/obstacle sparks only when this close to the player
)

// Effect is a fire-and-forget presentation request.
type Effect struct {
	Kind     EffectKind
	Pos      geom.Vec3
	Dir      geom.Vec3
	Color    uint32
	Count    int
	Duration time.Duration
	Value    int
	Text     string
}

// HUD is the snapshot of player-facing numbers pushed once per frame.
type HUD struct {
	State            State
	Score            int
	Health           int
	Coins            int
	CoinsRequired    int
	TotalCoins       int
	PowerUpActive    bool
	PowerLevel       int
	PowerUpRemaining time.Duration
	Damage           int
	Difficulty       int
	Enemies          int
}

// Sink receives presentation requests from the core.
type Sink interface {
	Emit(e Effect)
	UpdateHUD(h HUD)
}

// NopSink drops everything.
type NopSink struct{}

func (NopSink) Emit(Effect)   {}
func (NopSink) UpdateHUD(HUD) {}

// RecordingSink keeps every effect and the latest HUD. Used by tests and the
// headless report.
type RecordingSink struct {
	Effects []Effect
	LastHUD HUD
	HUDs    int
}

func (r *RecordingSink) Emit(e Effect) { r.Effects = append(r.Effects, e) }

func (r *RecordingSink) UpdateHUD(h HUD) {
	r.LastHUD = h
	r.HUDs++
}

// Count returns how many effects of kind k were emitted.
func (r *RecordingSink) Count(k EffectKind) int {
	n := 0
	for _, e := range r.Effects {
		if e.Kind == k {
			n++
		}
	}
	return n
}

// Reset forgets recorded effects.
func (r *RecordingSink) Reset() {
	r.Effects = r.Effects[:0]
}

// MultiSink fans effects out to several sinks in order.
type MultiSink []Sink

func (m MultiSink) Emit(e Effect) {
	for _, s := range m {
		s.Emit(e)
	}
}

func (m MultiSink) UpdateHUD(h HUD) {
	for _, s := range m {
		s.UpdateHUD(h)
	}
}
