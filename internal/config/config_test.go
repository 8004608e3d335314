package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/Tank-Arena/internal/game"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, int64(0), cfg.Seed)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 800, cfg.Window.Height)
	assert.Equal(t, 100.0, cfg.Arena.Size)
	assert.Equal(t, 15, cfg.Arena.Boxes)
	assert.Equal(t, 10, cfg.Arena.Rocks)
	assert.Equal(t, game.DefaultTuning(), cfg.Sim)
}

func TestLoad_YAMLFileOverrides(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	path := filepath.Join(dir, "arena.yaml")
	body := `
logLevel: debug
seed: 42
arena:
  boxes: 3
sim:
  maxEnemies: 8
  enemySpawnInterval: 4s
  powerUpDuration: 90s
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 3, cfg.Arena.Boxes)
	assert.Equal(t, 10, cfg.Arena.Rocks, "untouched keys keep defaults")
	assert.Equal(t, 8, cfg.Sim.MaxEnemies)
	assert.Equal(t, 4*time.Second, cfg.Sim.EnemySpawnInterval)
	assert.Equal(t, 90*time.Second, cfg.Sim.PowerUpDuration)
	assert.Equal(t, 50, cfg.Sim.CoinScore)
}

func TestLoad_JSONFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	path := filepath.Join(dir, "arena.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"window": {"width": 640, "height": 480}}`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 480, cfg.Window.Height)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("TANKARENA_SIM_MAXCOINS", "3")
	t.Setenv("TANKARENA_LOGLEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Sim.MaxCoins)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("arena:\n  size: -5\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "arena.size")
}

func TestArenaConfig_Options(t *testing.T) {
	opts := ArenaConfig{Size: 60, Boxes: 2, Rocks: 1}.Options()
	assert.Equal(t, 60.0, opts.Size)
	assert.Equal(t, 2, opts.Boxes)
	assert.Equal(t, 1, opts.Rocks)
}
