package game

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/Garsondee/Tank-Arena/internal/geom"
)

// Coin animation and size.
const (
	coinBaseRadius        = 1.0
	coinSpawnScale        = 2.0 // regular spawns are drawn and collected at twice the base radius
	coinForcedScale       = 2.5 // circle-forced coins are a little bigger still
	coinCollectAnimation  = 1000 * time.Millisecond
	coinSpinSpeed         = 3.0 // rad/s
	coinFloatHeight       = 0.5
	coinFloatSpeed        = 1.5
	coinCollectRiseHeight = 3.0
)

// ErrCorruptCoin reports a coin whose state can no longer be simulated.
var ErrCorruptCoin = errors.New("corrupt coin")

// Coin is a pickup owned by the orchestrator's coin list.
type Coin struct {
	id          uuid.UUID
	pos         geom.Vec3
	radius      float64
	collected   bool
	collectedAt time.Time

	spin   float64
	phase  float64
	height float64 // display height above pos
	scale  float64 // display scale, shrinks during the collect animation
}

// NewCoin creates a coin at pos with the given collision radius.
func NewCoin(pos geom.Vec3, radius float64) *Coin {
	return &Coin{
		id:     uuid.New(),
		pos:    pos,
		radius: radius,
		scale:  1,
		height: coinFloatHeight,
	}
}

func (c *Coin) ID() uuid.UUID          { return c.id }
func (c *Coin) Position() geom.Vec3    { return c.pos }
func (c *Coin) Radius() float64        { return c.radius }
func (c *Coin) Collected() bool        { return c.collected }
func (c *Coin) CollectedAt() time.Time { return c.collectedAt }
func (c *Coin) Spin() float64          { return c.spin }
func (c *Coin) DisplayHeight() float64 { return c.height }
func (c *Coin) DisplayScale() float64  { return c.scale }

// Collect latches the coin as collected. It returns false if it already was.
func (c *Coin) Collect(now time.Time) bool {
	if c.collected {
		return false
	}
	c.collected = true
	c.collectedAt = now
	return true
}

// Finished reports whether the collection animation has played out.
func (c *Coin) Finished(now time.Time) bool {
	return c.collected && now.Sub(c.collectedAt) > coinCollectAnimation
}

// Update animates the coin. Idle coins bob and spin; collected coins rise and
// shrink over the collection animation.
func (c *Coin) Update(dt float64, now time.Time) error {
	if !geom.Finite(c.pos) || math.IsNaN(c.radius) || c.radius <= 0 {
		return fmt.Errorf("coin %s at %v radius %v: %w", c.id, c.pos, c.radius, ErrCorruptCoin)
	}
	c.spin = math.Mod(c.spin+coinSpinSpeed*dt, 2*math.Pi)

	if !c.collected {
		c.phase += coinFloatSpeed * dt
		c.height = coinFloatHeight + math.Sin(c.phase)*coinFloatHeight*0.5
		return nil
	}

	progress := float64(now.Sub(c.collectedAt)) / float64(coinCollectAnimation)
	progress = geom.Clamp(progress, 0, 1)
	c.height = coinFloatHeight + progress*coinCollectRiseHeight
	c.scale = 1 - progress
	return nil
}
