package game

import (
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/Tank-Arena/internal/geom"
	"github.com/Garsondee/Tank-Arena/internal/terrain"
)

func TestGame_NewStartsRunning(t *testing.T) {
	sink := &RecordingSink{}
	g := New(DefaultTuning(), WithSink(sink), WithLogger(zerolog.Nop()))

	assert.Equal(t, StateRunning, g.State())
	assert.Equal(t, 1, g.Difficulty())
	assert.Equal(t, 1, g.PowerUp().Level)
	assert.Equal(t, PlayerSpawn, g.Player().Position())

	g.Update(epoch)
	assert.Equal(t, 1, sink.HUDs)
	assert.Equal(t, maxHealth, sink.LastHUD.Health)
	assert.Equal(t, DefaultTuning().CoinsForPowerUp, sink.LastHUD.CoinsRequired)
}

func TestTuning_ZeroDisablesCountsButNotIntervals(t *testing.T) {
	got := Tuning{MaxEnemies: 0, MaxCoins: -1}.withDefaults()
	d := DefaultTuning()

	assert.Equal(t, 0, got.MaxEnemies, "zero keeps the enemy spawner off")
	assert.Equal(t, d.MaxCoins, got.MaxCoins, "negative falls back")
	assert.Equal(t, 0, got.CoinScore)
	assert.Equal(t, 0, got.InitialCoins)
	assert.Equal(t, 0, got.HealthBonus)
	assert.Equal(t, d.EnemySpawnInterval, got.EnemySpawnInterval)
	assert.Equal(t, d.PowerUpDuration, got.PowerUpDuration)
	assert.Equal(t, d.CoinsForPowerUp, got.CoinsForPowerUp)
}

func TestGame_PauseFreezesAllButHullMovement(t *testing.T) {
	ts := NewTestSim(WithoutCoins())
	g := ts.Game
	e := ts.AddEnemyFacingPlayer(0, 30, 1)
	enemyPos := e.Tank().Position()

	g.TogglePause()
	require.Equal(t, StatePaused, g.State())
	assert.Equal(t, 1, ts.Sink.Count(EffectPaused))

	g.SetPlayerIntent(Intent{Forward: true, TurretLeft: true})
	frame := g.Frame()
	ts.RunFor(time.Second)

	assert.Greater(t, g.Player().Position()[2], 5.0, "the player can still drive")
	assert.Zero(t, g.Player().TurretYaw())
	assert.Equal(t, enemyPos, e.Tank().Position(), "enemies are frozen")
	assert.Equal(t, frame, g.Frame())
	assert.Nil(t, g.Fire(ts.Clock), "no firing while paused")

	g.TogglePause()
	assert.Equal(t, StateRunning, g.State())
	assert.Equal(t, 1, ts.Sink.Count(EffectResumed))
}

func TestGame_PausedMovementStaysInBounds(t *testing.T) {
	ts := NewTestSim(WithoutCoins(), WithArena(obstacleArena()), WithPlayerAt(0, 45))
	g := ts.Game
	g.TogglePause()
	g.SetPlayerIntent(Intent{Forward: true})
	ts.RunFor(2 * time.Second)

	assert.InDelta(t, g.Terrain().BoundarySize()/2, g.Player().Position()[2], 1e-9)
}

func TestGame_PauseIgnoredWhenOver(t *testing.T) {
	ts := NewTestSim(WithoutCoins())
	g := ts.Game
	g.gameOver(ts.Clock)
	g.TogglePause()
	assert.Equal(t, StateOver, g.State())

	frame := g.Frame()
	ts.RunTicks(10)
	assert.Equal(t, frame, g.Frame(), "no frames run once over")
}

func TestGame_FireRecordsStats(t *testing.T) {
	ts := NewTestSim(WithoutCoins())
	g := ts.Game

	require.NotNil(t, g.Fire(ts.Clock))
	assert.Nil(t, g.Fire(ts.Clock))
	assert.Equal(t, 1, g.Stats().PlayerShots)
	assert.True(t, ts.SimLog.HasEntry("combat", "fire", "damage=25"))
}

func TestGame_ReapingAwardsScoreAndDifficulty(t *testing.T) {
	ts := NewTestSim(WithoutCoins())
	g := ts.Game
	e := g.AddEnemy(at(30, 30), 3, ts.Clock)
	g.score = 250
	e.Tank().TakeDamage(maxHealth)

	ts.Tick()

	assert.Empty(t, g.Enemies())
	assert.Equal(t, 550, g.Score())
	assert.Equal(t, 2, g.Difficulty())
	assert.Equal(t, 1, g.Stats().Kills)
	assert.Equal(t, 1, ts.Sink.Count(EffectEnemyDestroyed))
	assert.True(t, ts.SimLog.HasEntry("enemy", "destroyed", "score=550"))
}

func TestGame_DifficultyCapsAtFive(t *testing.T) {
	ts := NewTestSim(WithoutCoins())
	g := ts.Game
	e := g.AddEnemy(at(30, 30), 5, ts.Clock)
	g.score = 4000
	e.Tank().TakeDamage(maxHealth)

	ts.Tick()
	assert.Equal(t, maxDifficulty, g.Difficulty())
	assert.Equal(t, maxDifficulty, g.Stats().PeakDifficulty)
}

func TestGame_EnemySpawnTimer(t *testing.T) {
	ts := NewTestSim(WithoutCoins(), WithEnemySpawning(5))
	g := ts.Game

	ts.RunFor(9900 * time.Millisecond)
	assert.Empty(t, g.Enemies())

	ts.RunFor(200 * time.Millisecond)
	require.Len(t, g.Enemies(), 1)
	assert.Equal(t, "E1", g.Enemies()[0].Tank().Label())
	assert.Equal(t, 1, ts.Sink.Count(EffectEnemySpawned))
}

func TestGame_SpawnEnemyRespectsCap(t *testing.T) {
	ts := NewTestSim(WithoutCoins(), WithEnemySpawning(2))
	g := ts.Game

	require.NotNil(t, g.SpawnEnemy(ts.Clock))
	require.NotNil(t, g.SpawnEnemy(ts.Clock))
	g.enemyTimerMs = 12000
	assert.Nil(t, g.SpawnEnemy(ts.Clock))
	assert.Len(t, g.Enemies(), 2)
	assert.Equal(t, 12000.0, g.enemyTimerMs, "timer keeps running while capped")
}

func TestGame_OpeningCoins(t *testing.T) {
	ts := NewTestSim()
	g := ts.Game

	ts.RunFor(2100 * time.Millisecond)
	assert.GreaterOrEqual(t, len(g.Coins()), 4)
	assert.LessOrEqual(t, len(g.Coins()), g.Tuning().MaxCoins)
}

func TestGame_SpawnCoinRespectsCap(t *testing.T) {
	tuning := DefaultTuning()
	tuning.MaxCoins = 2
	ts := NewTestSim(WithTuning(tuning))
	g := ts.Game

	assert.NotNil(t, g.SpawnCoin(ts.Clock))
	assert.NotNil(t, g.SpawnCoin(ts.Clock))
	assert.Nil(t, g.SpawnCoin(ts.Clock))
}

func TestGame_SpawnCoinPlacementRules(t *testing.T) {
	ts := NewTestSim(WithArena(obstacleArena()))
	g := ts.Game
	limit := g.Terrain().BoundarySize() / 2

	for i := 0; i < g.Tuning().MaxCoins; i++ {
		c := g.SpawnCoin(ts.Clock)
		require.NotNil(t, c)
		assert.GreaterOrEqual(t, geom.PlanarDistance(c.Position(), g.Player().Position()), coinMinPlayerDistance)
		assert.LessOrEqual(t, math.Abs(c.Position()[0]), limit)
		assert.LessOrEqual(t, math.Abs(c.Position()[2]), limit)
		assert.InDelta(t, coinBaseRadius*coinSpawnScale, c.Radius(), 1e-9)
	}
}

func TestGame_SpawnCoinFallsBackAheadOfPlayer(t *testing.T) {
	// One obstacle covering the whole arena rejects every random spot.
	huge := terrain.Obstacle{Position: geom.Vec3{}, Radius: 100}
	ts := NewTestSim(WithArena(obstacleArena(huge)))
	g := ts.Game

	c := g.SpawnCoin(ts.Clock)
	require.NotNil(t, c)
	assert.InDelta(t, 0, c.Position()[0], 1e-9)
	assert.InDelta(t, coinFallbackDistance, c.Position()[2], 1e-9)
}

func TestGame_ForceSpawnCoinsAroundPlayer(t *testing.T) {
	ts := NewTestSim(WithPlayerAt(5, -5))
	g := ts.Game

	coins := g.ForceSpawnCoinsAroundPlayer(ts.Clock)
	require.Len(t, coins, coinCircleCount)
	for _, c := range coins {
		assert.InDelta(t, coinCircleRadius, geom.PlanarDistance(c.Position(), g.Player().Position()), 1e-9)
		assert.InDelta(t, coinBaseRadius*coinForcedScale, c.Radius(), 1e-9)
	}

	tuning := DefaultTuning()
	tuning.MaxCoins = 3
	ts = NewTestSim(WithTuning(tuning))
	assert.Len(t, ts.Game.ForceSpawnCoinsAroundPlayer(ts.Clock), 3)
}

func TestGame_CoinPickup(t *testing.T) {
	ts := NewTestSim(WithoutCoins())
	g := ts.Game
	c := g.addCoin(geom.Vec3{0, 0, 5}, 2, ts.Clock)

	ts.Tick()

	assert.True(t, c.Collected())
	assert.Equal(t, g.Tuning().CoinScore, g.Score())
	assert.Equal(t, 1, g.CoinCount())
	assert.Equal(t, 1, g.TotalCoins())
	assert.Equal(t, 1, ts.Sink.Count(EffectCoinCollected))

	ts.RunFor(coinCollectAnimation + 100*time.Millisecond)
	assert.Empty(t, g.Coins(), "removed after the collect animation")
	assert.Equal(t, 1, g.TotalCoins(), "collected only once")
}

func TestGame_CoinOutOfReachStays(t *testing.T) {
	ts := NewTestSim(WithoutCoins())
	g := ts.Game
	c := g.addCoin(geom.Vec3{0, 0, 6.5}, 2, ts.Clock)

	ts.Tick()
	assert.False(t, c.Collected())
}

func TestGame_CorruptCoinRemovedWithoutHaltingFrame(t *testing.T) {
	ts := NewTestSim(WithoutCoins())
	g := ts.Game
	g.addCoin(geom.Vec3{math.Inf(1), 0, 0}, 2, ts.Clock)
	good := g.addCoin(geom.Vec3{30, 0, 30}, 2, ts.Clock)

	ts.Tick()
	require.Len(t, g.Coins(), 1)
	assert.Same(t, good, g.Coins()[0])
	assert.Equal(t, 1, g.Frame())
}

func TestGame_RestartKeepsCumulativeCoins(t *testing.T) {
	ts := NewTestSim(WithoutCoins())
	g := ts.Game
	for i := 0; i < 7; i++ {
		g.collectCoin(ts.Clock)
	}
	g.AddEnemy(at(20, 20), 1, ts.Clock)
	g.player.TakeDamage(maxHealth)
	g.gameOver(ts.Clock)

	g.Restart(ts.Clock)

	assert.Equal(t, StateRunning, g.State())
	assert.Zero(t, g.Score())
	assert.Equal(t, 1, g.Difficulty())
	assert.Zero(t, g.CoinCount())
	assert.Equal(t, 7, g.TotalCoins())
	assert.Empty(t, g.Enemies())
	assert.Empty(t, g.Coins())
	assert.False(t, g.PowerUp().Active)
	assert.Equal(t, maxHealth, g.Player().Health())
	assert.Equal(t, PlayerSpawn, g.Player().Position())
	assert.Equal(t, 1, g.Stats().Restarts)
	assert.Equal(t, 1, ts.Sink.Count(EffectRestarted))
}

func TestGame_RestartSchedulesCoin(t *testing.T) {
	tuning := DefaultTuning()
	tuning.InitialCoins = 0
	tuning.CoinSpawnInterval = time.Hour
	ts := NewTestSim(WithTuning(tuning))
	g := ts.Game
	g.Restart(ts.Clock)

	ts.RunFor(900 * time.Millisecond)
	before := ts.Sink.Count(EffectCoinSpawned)
	ts.RunFor(200 * time.Millisecond)
	assert.Greater(t, ts.Sink.Count(EffectCoinSpawned), before)
}

type countingMetrics struct {
	frames, shots, damage, kills, coins, powerUps int
}

func (m *countingMetrics) Frame(float64)        { m.frames++ }
func (m *countingMetrics) ShotFired(bool)       { m.shots++ }
func (m *countingMetrics) PlayerDamaged(n int)  { m.damage += n }
func (m *countingMetrics) EnemyDestroyed(int)   { m.kills++ }
func (m *countingMetrics) CoinCollected()       { m.coins++ }
func (m *countingMetrics) PowerUpActivated(int) { m.powerUps++ }

func TestGame_MetricsRecorded(t *testing.T) {
	m := &countingMetrics{}
	g := New(DefaultTuning(), WithMetrics(m))
	g.Start(epoch)
	g.Update(epoch.Add(16 * time.Millisecond))
	g.Fire(epoch.Add(16 * time.Millisecond))
	for i := 0; i < 5; i++ {
		g.collectCoin(epoch)
	}

	assert.Equal(t, 1, m.frames)
	assert.Equal(t, 1, m.shots)
	assert.Equal(t, 5, m.coins)
	assert.Equal(t, 1, m.powerUps)
}

func TestGuard_RecoversPanic(t *testing.T) {
	err := guard(func() error { panic("boom") })
	require.Error(t, err)
	assert.ErrorIs(t, err, errEntityPanic)
	assert.Contains(t, err.Error(), "boom")
}
