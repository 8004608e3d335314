// Package telemetry records match metrics through OpenTelemetry.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/Garsondee/Tank-Arena/internal/telemetry"

// Recorder implements game.Metrics on top of otel instruments.
type Recorder struct {
	ctx context.Context

	frames    metric.Int64Counter
	shots     metric.Int64Counter
	destroyed metric.Int64Counter
	coins     metric.Int64Counter
	powerUps  metric.Int64Counter
	damage    metric.Int64Counter
	frameDt   metric.Float64Histogram
}

// Default builds a Recorder on the global meter provider. Without a host
// provider installed every instrument is a no-op.
func Default() (*Recorder, error) {
	return New(otel.Meter(instrumentationName))
}

// New creates every instrument on m.
func New(m metric.Meter) (*Recorder, error) {
	r := &Recorder{ctx: context.Background()}
	var err error

	if r.frames, err = m.Int64Counter("arena.frames",
		metric.WithDescription("Simulation frames advanced")); err != nil {
		return nil, fmt.Errorf("creating frames counter: %w", err)
	}
	if r.shots, err = m.Int64Counter("arena.shots",
		metric.WithDescription("Shells fired")); err != nil {
		return nil, fmt.Errorf("creating shots counter: %w", err)
	}
	if r.destroyed, err = m.Int64Counter("arena.enemies.destroyed",
		metric.WithDescription("Enemy tanks destroyed by the player")); err != nil {
		return nil, fmt.Errorf("creating destroyed counter: %w", err)
	}
	if r.coins, err = m.Int64Counter("arena.coins.collected",
		metric.WithDescription("Coins picked up")); err != nil {
		return nil, fmt.Errorf("creating coins counter: %w", err)
	}
	if r.powerUps, err = m.Int64Counter("arena.powerups.activated",
		metric.WithDescription("Power-up activations")); err != nil {
		return nil, fmt.Errorf("creating power-up counter: %w", err)
	}
	if r.damage, err = m.Int64Counter("arena.player.damage",
		metric.WithDescription("Health points lost by the player"),
		metric.WithUnit("{hp}")); err != nil {
		return nil, fmt.Errorf("creating damage counter: %w", err)
	}
	if r.frameDt, err = m.Float64Histogram("arena.frame.dt",
		metric.WithDescription("Seconds between simulation frames"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("creating frame dt histogram: %w", err)
	}
	return r, nil
}

func (r *Recorder) Frame(dt float64) {
	r.frames.Add(r.ctx, 1)
	r.frameDt.Record(r.ctx, dt)
}

func (r *Recorder) ShotFired(fromPlayer bool) {
	r.shots.Add(r.ctx, 1, metric.WithAttributes(attribute.String("side", side(fromPlayer))))
}

func (r *Recorder) PlayerDamaged(amount int) {
	if amount <= 0 {
		return
	}
	r.damage.Add(r.ctx, int64(amount))
}

func (r *Recorder) EnemyDestroyed(difficulty int) {
	r.destroyed.Add(r.ctx, 1, metric.WithAttributes(attribute.Int("difficulty", difficulty)))
}

func (r *Recorder) CoinCollected() { r.coins.Add(r.ctx, 1) }

func (r *Recorder) PowerUpActivated(level int) {
	r.powerUps.Add(r.ctx, 1, metric.WithAttributes(attribute.Int("level", level)))
}

func side(fromPlayer bool) string {
	if fromPlayer {
		return "player"
	}
	return "enemy"
}
