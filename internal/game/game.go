package game

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/Garsondee/Tank-Arena/internal/geom"
	"github.com/Garsondee/Tank-Arena/internal/terrain"
)

// State is the match state: running ⇄ paused → over.
type State int

const (
	StateRunning State = iota
	StatePaused
	StateOver
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateOver:
		return "over"
	default:
		return "unknown"
	}
}

// Coin placement.
const (
	coinPlacementSpread   = 30.0 // random offset from the player on each axis
	coinPlacementArea     = 0.7  // fraction of the boundary coins may be placed in
	coinMinPlayerDistance = 15.0
	coinMinCoinDistance   = 5.0
	coinObstacleClearance = 2.0
	coinFallbackDistance  = 20.0
	coinPickupSlack       = 2.0 // added to player+coin radius for a generous pickup
	coinCircleCount       = 5
	coinCircleRadius      = 20.0
	coinCircleCheckDelay  = time.Second // after the last initial coin
	coinRestartDelay      = time.Second
	coinTopUpFrames       = 100
	coinTopUpMinVisible   = 2
	coinExtraChance       = 0.01
	coinExtraMaxVisible   = 3
	defaultBoundarySize   = 100.0
)

var errEntityPanic = errors.New("entity update panicked")

// Option configures a Game.
type Option func(*Game)

// WithTerrain sets the collision surface. Without one, every terrain check
// is skipped.
func WithTerrain(t terrain.Terrain) Option {
	return func(g *Game) { g.terrain = t }
}

// WithSink sets the presentation sink.
func WithSink(s Sink) Option {
	return func(g *Game) {
		if s != nil {
			g.sink = s
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l zerolog.Logger) Option {
	return func(g *Game) { g.log = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m Metrics) Option {
	return func(g *Game) {
		if m != nil {
			g.metrics = m
		}
	}
}

// WithRand sets the match RNG. Pass a seeded source for reproducible
// matches.
func WithRand(rng *rand.Rand) Option {
	return func(g *Game) { g.rng = rng }
}

// WithSimLog records structured events into sl.
func WithSimLog(sl *SimLog) Option {
	return func(g *Game) { g.simLog = sl }
}

// Game owns the match: the player, enemies, coins, the power-up and the
// spawn timers. Everything runs on the caller's goroutine, one Update per
// frame.
type Game struct {
	tuning  Tuning
	rng     *rand.Rand
	terrain terrain.Terrain
	sink    Sink
	log     zerolog.Logger
	metrics Metrics
	simLog  *SimLog
	feed    *EventFeed
	stats   MatchStats

	state     State
	started   bool
	lastFrame time.Time
	now       time.Time
	frame     int

	player        *Tank
	prevPlayerPos geom.Vec3
	hasPrevPlayer bool
	enemies       []*EnemyController
	coins         []*Coin
	nextEnemyID   int

	score      int
	difficulty int
	coinCount  int
	totalCoins int
	powerUp    PowerUp

	enemyTimerMs  float64
	coinTimerMs   float64
	coinSchedule  []time.Time
	circleCheckAt time.Time
}

// New creates a match in the running state. Call Start (or just Update) to
// begin the clock.
func New(tuning Tuning, opts ...Option) *Game {
	g := &Game{
		tuning:     tuning.withDefaults(),
		sink:       NopSink{},
		log:        zerolog.Nop(),
		metrics:    nopMetrics{},
		feed:       NewEventFeed(),
		state:      StateRunning,
		difficulty: 1,
	}
	for _, o := range opts {
		o(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano())) // #nosec G404 -- game only
	}
	g.player = NewPlayerTank(g.sink)
	g.powerUp = PowerUp{Level: 1, Duration: g.tuning.PowerUpDuration}
	return g
}

func (g *Game) Player() *Tank               { return g.player }
func (g *Game) Enemies() []*EnemyController { return g.enemies }
func (g *Game) Coins() []*Coin              { return g.coins }
func (g *Game) Score() int                  { return g.score }
func (g *Game) Difficulty() int             { return g.difficulty }
func (g *Game) State() State                { return g.state }
func (g *Game) PowerUp() PowerUp            { return g.powerUp }
func (g *Game) CoinCount() int              { return g.coinCount }
func (g *Game) TotalCoins() int             { return g.totalCoins }
func (g *Game) Frame() int                  { return g.frame }
func (g *Game) Terrain() terrain.Terrain    { return g.terrain }
func (g *Game) Feed() *EventFeed            { return g.feed }
func (g *Game) Stats() MatchStats           { return g.stats }
func (g *Game) Tuning() Tuning              { return g.tuning }
func (g *Game) Now() time.Time              { return g.now }
func (g *Game) SetPlayerIntent(i Intent)    { g.player.SetIntent(i) }
func (g *Game) SimLog() *SimLog             { return g.simLog }
func (g *Game) Outcome() MatchOutcome       { return DetermineOutcome(g) }
func (g *Game) visibleCoins() int           { return countVisible(g.coins) }

// Start begins the match clock and schedules the opening coins.
func (g *Game) Start(now time.Time) {
	g.started = true
	g.lastFrame = now
	g.now = now
	g.stats = MatchStats{StartedAt: now, PeakDifficulty: g.difficulty}
	g.coinSchedule = g.coinSchedule[:0]
	for i := 1; i <= g.tuning.InitialCoins; i++ {
		g.coinSchedule = append(g.coinSchedule, now.Add(time.Duration(i)*g.tuning.InitialCoinSpacing))
	}
	if g.tuning.InitialCoins > 0 {
		last := now.Add(time.Duration(g.tuning.InitialCoins) * g.tuning.InitialCoinSpacing)
		g.circleCheckAt = last.Add(coinCircleCheckDelay)
	}
	g.log.Info().Int("maxEnemies", g.tuning.MaxEnemies).Int("maxCoins", g.tuning.MaxCoins).Msg("match started")
}

// Update advances the match to now. dt is the wall-clock gap since the
// previous call; there is no fixed-step accumulator.
func (g *Game) Update(now time.Time) {
	if !g.started {
		g.Start(now)
	}
	dt := now.Sub(g.lastFrame).Seconds()
	if dt < 0 {
		dt = 0
	}
	g.lastFrame = now
	g.now = now

	switch g.state {
	case StateOver:
		return
	case StatePaused:
		// Hull movement stays live so the player is never stuck if input
		// focus is lost while paused.
		if g.player.intent.Moving() && !g.player.destroyed {
			g.player.MoveWithIntent(dt)
			if g.terrain != nil {
				g.terrain.KeepWithinBoundaries(g.player)
			}
		}
		g.pushHUD(now)
		return
	}

	g.frame++
	g.stats.Frames++
	g.metrics.Frame(dt)

	g.player.Update(dt, now)
	g.snapToGround(g.player)
	if g.terrain != nil {
		g.terrain.Update(dt)
	}
	g.updateEnemies(dt, now)
	g.updateCoins(dt, now)
	g.updatePowerUp(now)
	g.resolveCollisions(now)
	g.checkCoinPickups(now)
	g.pushHUD(now)
}

// Fire pulls the player's trigger. It returns the shell, or nil if the
// match is not running or the cannon is reloading.
func (g *Game) Fire(now time.Time) *Projectile {
	if g.state != StateRunning {
		return nil
	}
	p := g.player.Fire(now)
	if p == nil {
		return nil
	}
	g.stats.PlayerShots++
	g.metrics.ShotFired(true)
	g.record(g.player.label, "player", "combat", "fire", fmt.Sprintf("damage=%d", p.damage), float64(p.damage))
	return p
}

// TogglePause flips between running and paused. It is ignored once the
// match is over.
func (g *Game) TogglePause() {
	switch g.state {
	case StateOver:
		return
	case StateRunning:
		g.state = StatePaused
		g.sink.Emit(Effect{Kind: EffectPaused, Text: "PAUSED"})
		g.logEvent("pause", "running → paused", 0)
	case StatePaused:
		g.state = StateRunning
		g.sink.Emit(Effect{Kind: EffectResumed})
		g.logEvent("pause", "paused → running", 0)
	}
}

// Restart resets the match: score, difficulty, the player and both entity
// collections. The cumulative coin total carries over.
func (g *Game) Restart(now time.Time) {
	g.deactivatePowerUp()
	g.score = 0
	g.difficulty = 1
	g.coinCount = 0
	g.state = StateRunning
	g.player.Reset()
	g.hasPrevPlayer = false
	g.enemies = nil
	g.coins = nil
	g.enemyTimerMs = 0
	g.coinTimerMs = 0
	g.coinSchedule = append(g.coinSchedule[:0], now.Add(coinRestartDelay))
	g.circleCheckAt = time.Time{}
	g.stats = MatchStats{StartedAt: now, PeakDifficulty: 1, Restarts: g.stats.Restarts + 1}
	g.started = true
	g.lastFrame = now
	g.now = now

	g.sink.Emit(Effect{Kind: EffectRestarted})
	g.feed.Add(g.frame, "--", "match restarted")
	g.logEvent("restart", "match restarted", 0)
	g.log.Info().Int("restarts", g.stats.Restarts).Msg("match restarted")
}

func (g *Game) gameOver(now time.Time) {
	if g.state == StateOver {
		return
	}
	g.state = StateOver
	g.stats.EndedAt = now
	g.sink.Emit(Effect{Kind: EffectGameOver, Value: g.score, Text: "GAME OVER"})
	g.feed.Add(g.frame, g.player.label, fmt.Sprintf("destroyed, final score %d", g.score))
	g.logEvent("over", fmt.Sprintf("score=%d", g.score), float64(g.score))
	g.log.Info().Int("score", g.score).Int("kills", g.stats.Kills).Msg("game over")
}

func (g *Game) snapToGround(t *Tank) {
	if g.terrain == nil {
		return
	}
	t.pos[1] = g.terrain.HeightAt(t.pos[0], t.pos[2]) + hullHeight
}

// --- Enemies ---

func (g *Game) updateEnemies(dt float64, now time.Time) {
	for i := len(g.enemies) - 1; i >= 0; i-- {
		e := g.enemies[i]
		prevState := e.state
		prevShots := e.tank.shotsFired

		if err := guard(func() error {
			e.Update(dt, now, g.player)
			return nil
		}); err != nil {
			g.log.Warn().Err(err).Str("enemy", e.tank.label).Msg("removing enemy after update failure")
			g.enemies = append(g.enemies[:i], g.enemies[i+1:]...)
			continue
		}

		if e.state != prevState {
			g.record(e.tank.label, "enemy", "ai", "state_change",
				fmt.Sprintf("%s → %s", prevState, e.state), float64(e.state))
		}
		if shots := e.tank.shotsFired - prevShots; shots > 0 {
			g.stats.EnemyShots += shots
			for s := 0; s < shots; s++ {
				g.metrics.ShotFired(false)
			}
			g.record(e.tank.label, "enemy", "combat", "fire",
				fmt.Sprintf("dist=%.1f", geom.Distance(e.tank.pos, g.player.pos)), float64(shots))
		}

		if e.tank.destroyed {
			g.reapEnemy(i, e)
		}
	}

	g.enemyTimerMs += dt * 1000
	if g.enemyTimerMs > float64(g.tuning.EnemySpawnInterval.Milliseconds()) {
		g.SpawnEnemy(now)
	}
}

func (g *Game) reapEnemy(i int, e *EnemyController) {
	g.enemies = append(g.enemies[:i], g.enemies[i+1:]...)
	g.score += e.scoreValue
	g.difficulty = g.score/g.tuning.ScorePerDifficulty + 1
	if g.difficulty > maxDifficulty {
		g.difficulty = maxDifficulty
	}
	if g.difficulty > g.stats.PeakDifficulty {
		g.stats.PeakDifficulty = g.difficulty
	}
	g.stats.Kills++
	g.metrics.EnemyDestroyed(e.difficulty)

	g.sink.Emit(Effect{
		Kind:     EffectEnemyDestroyed,
		Pos:      e.tank.pos,
		Value:    e.scoreValue,
		Text:     fmt.Sprintf("+%d", e.scoreValue),
		Duration: notificationLife,
	})
	g.feed.Add(g.frame, e.tank.label, fmt.Sprintf("destroyed (+%d)", e.scoreValue))
	g.record(e.tank.label, "enemy", "enemy", "destroyed",
		fmt.Sprintf("score=%d difficulty=%d", g.score, g.difficulty), float64(g.score))
	g.log.Info().Str("enemy", e.tank.label).Int("score", g.score).Int("difficulty", g.difficulty).Msg("enemy destroyed")
}

// SpawnEnemy adds an enemy at a random spawn point at the current
// difficulty. It returns nil when the enemy cap is reached; the spawn timer
// keeps running in that case so a freed slot refills immediately.
func (g *Game) SpawnEnemy(now time.Time) *EnemyController {
	if len(g.enemies) >= g.tuning.MaxEnemies {
		return nil
	}
	e := g.AddEnemy(EnemySpawnPosition(g.rng), g.difficulty, now)
	g.enemyTimerMs = 0
	return e
}

// AddEnemy places an enemy at pos regardless of the cap or timer.
func (g *Game) AddEnemy(pos geom.Vec3, difficulty int, now time.Time) *EnemyController {
	g.nextEnemyID++
	label := fmt.Sprintf("E%d", g.nextEnemyID)
	e := NewEnemy(label, pos, difficulty, g.rng, g.sink, now)
	if g.terrain != nil {
		e.SetTerrain(g.terrain)
	}
	g.enemies = append(g.enemies, e)

	g.sink.Emit(Effect{Kind: EffectEnemySpawned, Pos: e.tank.pos, Value: e.difficulty})
	g.feed.Add(g.frame, label, fmt.Sprintf("spawned at difficulty %d", e.difficulty))
	g.record(label, "enemy", "enemy", "spawn",
		fmt.Sprintf("(%.1f,%.1f) d=%d", e.tank.pos[0], e.tank.pos[2], e.difficulty), float64(e.difficulty))
	g.log.Debug().Str("enemy", label).Int("difficulty", e.difficulty).
		Float64("x", e.tank.pos[0]).Float64("z", e.tank.pos[2]).Msg("enemy spawned")
	return e
}

// --- Coins ---

func (g *Game) updateCoins(dt float64, now time.Time) {
	for i := len(g.coins) - 1; i >= 0; i-- {
		c := g.coins[i]
		if err := guard(func() error { return c.Update(dt, now) }); err != nil {
			g.log.Warn().Err(err).Msg("removing coin after update failure")
			g.coins = append(g.coins[:i], g.coins[i+1:]...)
			continue
		}
		if c.Finished(now) {
			g.coins = append(g.coins[:i], g.coins[i+1:]...)
		}
	}

	g.runCoinSchedule(now)

	interval := float64(g.tuning.CoinSpawnInterval.Milliseconds())
	g.coinTimerMs += dt * 1000
	if g.coinTimerMs > interval {
		g.SpawnCoin(now)
		g.coinTimerMs = 0
	}
	if len(g.coins) == 0 && g.coinTimerMs > interval/2 {
		g.SpawnCoin(now)
		g.coinTimerMs = 0
	}
	if g.rng.Float64() < coinExtraChance && g.visibleCoins() < coinExtraMaxVisible {
		g.SpawnCoin(now)
	}
	if g.frame%coinTopUpFrames == 0 && g.visibleCoins() < coinTopUpMinVisible {
		g.SpawnCoin(now)
	}
}

// runCoinSchedule fires any pending opening or post-restart coin spawns.
func (g *Game) runCoinSchedule(now time.Time) {
	for len(g.coinSchedule) > 0 && !now.Before(g.coinSchedule[0]) {
		g.coinSchedule = g.coinSchedule[1:]
		g.SpawnCoin(now)
	}
	if !g.circleCheckAt.IsZero() && !now.Before(g.circleCheckAt) {
		g.circleCheckAt = time.Time{}
		if len(g.coins) < coinTopUpMinVisible {
			g.ForceSpawnCoinsAroundPlayer(now)
		}
	}
}

// SpawnCoin places a coin near the player. It only returns nil when the coin
// cap is reached; if no random spot passes the spacing rules the coin goes
// straight ahead of the player.
func (g *Game) SpawnCoin(now time.Time) *Coin {
	if len(g.coins) >= g.tuning.MaxCoins {
		return nil
	}
	pos, ok := g.findCoinSpot()
	if !ok {
		pos = g.coinFallbackSpot()
		g.log.Debug().Float64("x", pos[0]).Float64("z", pos[2]).Msg("coin placement fell back to ahead of player")
	}
	return g.addCoin(pos, coinBaseRadius*coinSpawnScale, now)
}

// ForceSpawnCoinsAroundPlayer drops a ring of large coins around the player,
// up to the coin cap.
func (g *Game) ForceSpawnCoinsAroundPlayer(now time.Time) []*Coin {
	var out []*Coin
	centre := g.player.pos
	for i := 0; i < coinCircleCount; i++ {
		if len(g.coins) >= g.tuning.MaxCoins {
			break
		}
		a := float64(i) / coinCircleCount * 2 * math.Pi
		pos := geom.Vec3{centre[0] + coinCircleRadius*math.Cos(a), 0, centre[2] + coinCircleRadius*math.Sin(a)}
		out = append(out, g.addCoin(pos, coinBaseRadius*coinForcedScale, now))
	}
	return out
}

func (g *Game) addCoin(pos geom.Vec3, radius float64, now time.Time) *Coin {
	c := NewCoin(pos, radius)
	g.coins = append(g.coins, c)
	g.sink.Emit(Effect{Kind: EffectCoinSpawned, Pos: pos})
	g.record("--", "--", "coin", "spawn", fmt.Sprintf("(%.1f,%.1f)", pos[0], pos[2]), radius)
	return c
}

func (g *Game) boundarySize() float64 {
	if g.terrain == nil {
		return defaultBoundarySize
	}
	return g.terrain.BoundarySize()
}

func (g *Game) findCoinSpot() (geom.Vec3, bool) {
	limit := g.boundarySize() * coinPlacementArea / 2
	pp := g.player.pos
	for attempt := 0; attempt < g.tuning.CoinPlacementAttempts; attempt++ {
		x := geom.Clamp(pp[0]+geom.RandomBetween(g.rng, -coinPlacementSpread, coinPlacementSpread), -limit, limit)
		z := geom.Clamp(pp[2]+geom.RandomBetween(g.rng, -coinPlacementSpread, coinPlacementSpread), -limit, limit)
		p := geom.Vec3{x, 0, z}
		if g.coinSpotClear(p) {
			return p, true
		}
	}
	return geom.Vec3{}, false
}

func (g *Game) coinSpotClear(p geom.Vec3) bool {
	if geom.PlanarDistance(p, g.player.pos) < coinMinPlayerDistance {
		return false
	}
	for _, c := range g.coins {
		if geom.PlanarDistance(p, c.pos) < coinMinCoinDistance {
			return false
		}
	}
	if g.terrain != nil {
		for _, o := range g.terrain.Obstacles() {
			if geom.PlanarDistance(p, o.Position) < o.Radius+coinObstacleClearance {
				return false
			}
		}
	}
	return true
}

func (g *Game) coinFallbackSpot() geom.Vec3 {
	half := g.boundarySize() / 2
	p := g.player.pos.Add(g.player.Forward().Mul(coinFallbackDistance))
	return geom.Vec3{geom.Clamp(p[0], -half, half), 0, geom.Clamp(p[2], -half, half)}
}

func (g *Game) checkCoinPickups(now time.Time) {
	if g.player.destroyed || g.state != StateRunning {
		return
	}
	for _, c := range g.coins {
		if c.collected {
			continue
		}
		reach := g.player.radius + c.radius + coinPickupSlack
		if geom.Distance(g.player.pos, c.pos) >= reach {
			continue
		}
		if c.Collect(now) {
			g.sink.Emit(Effect{
				Kind:     EffectCoinCollected,
				Pos:      c.pos,
				Color:    coinBurstColor,
				Count:    coinBurstCount,
				Duration: coinBurstLife,
			})
			g.collectCoin(now)
		}
	}
}

// collectCoin applies the coin economy for one pickup.
func (g *Game) collectCoin(now time.Time) {
	g.coinCount++
	g.totalCoins++
	g.score += g.tuning.CoinScore
	g.stats.CoinsCollected++
	g.metrics.CoinCollected()

	g.powerUp.Level = PowerLevel(g.totalCoins, g.tuning.CoinsPerLevel, g.tuning.MaxPowerLevel)
	if g.powerUp.Active {
		g.player.damage = baseDamage * g.powerUp.Level
	}
	g.record(g.player.label, "player", "coin", "collect",
		fmt.Sprintf("count=%d total=%d level=%d", g.coinCount, g.totalCoins, g.powerUp.Level), float64(g.totalCoins))

	if g.coinCount >= g.tuning.CoinsForPowerUp {
		g.activatePowerUp(now)
	}

	if g.totalCoins%g.tuning.HealthBonusEvery == 0 {
		before := g.player.health
		after := g.player.Heal(g.tuning.HealthBonus)
		g.sink.Emit(Effect{
			Kind:     EffectHealthBoost,
			Pos:      g.player.pos,
			Color:    healthBoostColor,
			Value:    after - before,
			Text:     fmt.Sprintf("+%d HEALTH", g.tuning.HealthBonus),
			Duration: notificationLife,
		})
		g.feed.Add(g.frame, g.player.label, fmt.Sprintf("health bonus, now %d", after))
		g.record(g.player.label, "player", "coin", "health_bonus", fmt.Sprintf("%d → %d", before, after), float64(after))
	}
}

// --- Power-up ---

func (g *Game) activatePowerUp(now time.Time) {
	g.coinCount = 0
	if g.powerUp.Active {
		g.deactivatePowerUp()
	}
	g.powerUp.Active = true
	g.powerUp.ActivatedAt = now
	g.powerUp.Duration = g.tuning.PowerUpDuration
	g.player.damage = baseDamage * g.powerUp.Level
	g.stats.PowerUps++
	g.metrics.PowerUpActivated(g.powerUp.Level)

	g.sink.Emit(Effect{
		Kind:     EffectPowerUpActivated,
		Pos:      g.player.pos,
		Color:    powerUpGlowColor,
		Value:    g.powerUp.Level,
		Text:     fmt.Sprintf("POWER LEVEL %d", g.powerUp.Level),
		Duration: notificationLife,
	})
	g.feed.Add(g.frame, g.player.label, fmt.Sprintf("power-up level %d", g.powerUp.Level))
	g.record(g.player.label, "player", "powerup", "activate",
		fmt.Sprintf("level=%d damage=%d", g.powerUp.Level, g.player.damage), float64(g.powerUp.Level))
	g.log.Info().Int("level", g.powerUp.Level).Int("damage", g.player.damage).Msg("power-up activated")
}

func (g *Game) deactivatePowerUp() {
	g.powerUp.Active = false
	g.player.damage = baseDamage
}

func (g *Game) updatePowerUp(now time.Time) {
	if !g.powerUp.Expired(now) {
		return
	}
	g.deactivatePowerUp()
	g.sink.Emit(Effect{Kind: EffectPowerUpExpired, Text: "POWER-UP EXPIRED", Duration: notificationLife})
	g.feed.Add(g.frame, g.player.label, "power-up expired")
	g.record(g.player.label, "player", "powerup", "expire", fmt.Sprintf("level=%d", g.powerUp.Level), 0)
	g.log.Info().Msg("power-up expired")
}

// --- HUD ---

// HUD returns the current player-facing numbers.
func (g *Game) HUD() HUD {
	return HUD{
		State:            g.state,
		Score:            g.score,
		Health:           g.player.health,
		Coins:            g.coinCount,
		CoinsRequired:    g.tuning.CoinsForPowerUp,
		TotalCoins:       g.totalCoins,
		PowerUpActive:    g.powerUp.Active,
		PowerLevel:       g.powerUp.Level,
		PowerUpRemaining: g.powerUp.Remaining(g.now),
		Damage:           g.player.damage,
		Difficulty:       g.difficulty,
		Enemies:          len(g.enemies),
	}
}

func (g *Game) pushHUD(_ time.Time) {
	g.sink.UpdateHUD(g.HUD())
}

func (g *Game) logEvent(key, value string, num float64) {
	g.record("--", "--", "game", key, value, num)
}

func (g *Game) record(label, side, category, key, value string, num float64) {
	if g.simLog == nil {
		return
	}
	g.simLog.Add(g.frame, label, side, category, key, value, num)
}

func countVisible(coins []*Coin) int {
	n := 0
	for _, c := range coins {
		if !c.collected {
			n++
		}
	}
	return n
}

// guard runs fn and turns a panic into an error so one bad entity cannot
// take the frame down.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errEntityPanic, r)
		}
	}()
	return fn()
}
