// Package config loads Tank Arena settings from an optional file, the
// environment and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/Garsondee/Tank-Arena/internal/game"
	"github.com/Garsondee/Tank-Arena/internal/terrain"
)

// EnvPrefix is prepended to every environment override, e.g.
// TANKARENA_SIM_MAXENEMIES=8.
const EnvPrefix = "TANKARENA"

// WindowConfig sizes the ebiten window.
type WindowConfig struct {
	Width  int `mapstructure:"width" yaml:"width"`
	Height int `mapstructure:"height" yaml:"height"`
}

// ArenaConfig controls procedural obstacle placement.
type ArenaConfig struct {
	Size  float64 `mapstructure:"size" yaml:"size"`
	Boxes int     `mapstructure:"boxes" yaml:"boxes"`
	Rocks int     `mapstructure:"rocks" yaml:"rocks"`
}

// Options converts the section to terrain options.
func (a ArenaConfig) Options() terrain.ArenaOptions {
	return terrain.ArenaOptions{Size: a.Size, Boxes: a.Boxes, Rocks: a.Rocks}
}

// Config is the full set of runtime settings.
type Config struct {
	LogLevel string       `mapstructure:"logLevel" yaml:"logLevel"`
	Seed     int64        `mapstructure:"seed" yaml:"seed"` // 0 picks a time-based seed
	Window   WindowConfig `mapstructure:"window" yaml:"window"`
	Arena    ArenaConfig  `mapstructure:"arena" yaml:"arena"`
	Sim      game.Tuning  `mapstructure:"sim" yaml:"sim"`
}

// Load reads configuration and fills defaults. An empty path skips the file
// and uses defaults plus environment overrides. The file type follows its
// extension (json, yaml, toml).
func Load(path string) (*Config, error) {
	setDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path != "" {
		viper.SetConfigFile(path)
		if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext != "" {
			viper.SetConfigType(ext)
		}
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in settings without touching viper.
func Default() Config {
	arena := terrain.DefaultArenaOptions()
	return Config{
		LogLevel: "info",
		Window:   WindowConfig{Width: 1280, Height: 800},
		Arena:    ArenaConfig{Size: arena.Size, Boxes: arena.Boxes, Rocks: arena.Rocks},
		Sim:      game.DefaultTuning(),
	}
}

// Validate rejects settings the game cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Arena.Size <= 0 {
		errs = append(errs, fmt.Errorf("arena.size must be positive, got %g", c.Arena.Size))
	}
	if c.Arena.Boxes < 0 || c.Arena.Rocks < 0 {
		errs = append(errs, errors.New("arena obstacle counts cannot be negative"))
	}
	if c.Sim.MaxEnemies < 0 || c.Sim.MaxCoins < 0 {
		errs = append(errs, errors.New("sim caps cannot be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func setDefaults() {
	d := Default()
	viper.SetDefault("logLevel", d.LogLevel)
	viper.SetDefault("seed", d.Seed)

	viper.SetDefault("window.width", d.Window.Width)
	viper.SetDefault("window.height", d.Window.Height)

	viper.SetDefault("arena.size", d.Arena.Size)
	viper.SetDefault("arena.boxes", d.Arena.Boxes)
	viper.SetDefault("arena.rocks", d.Arena.Rocks)

	t := d.Sim
	viper.SetDefault("sim.enemySpawnInterval", t.EnemySpawnInterval)
	viper.SetDefault("sim.maxEnemies", t.MaxEnemies)
	viper.SetDefault("sim.coinSpawnInterval", t.CoinSpawnInterval)
	viper.SetDefault("sim.maxCoins", t.MaxCoins)
	viper.SetDefault("sim.coinPlacementAttempts", t.CoinPlacementAttempts)
	viper.SetDefault("sim.coinScore", t.CoinScore)
	viper.SetDefault("sim.initialCoins", t.InitialCoins)
	viper.SetDefault("sim.initialCoinSpacing", t.InitialCoinSpacing)
	viper.SetDefault("sim.powerUpDuration", t.PowerUpDuration)
	viper.SetDefault("sim.coinsForPowerUp", t.CoinsForPowerUp)
	viper.SetDefault("sim.coinsPerLevel", t.CoinsPerLevel)
	viper.SetDefault("sim.maxPowerLevel", t.MaxPowerLevel)
	viper.SetDefault("sim.healthBonusEvery", t.HealthBonusEvery)
	viper.SetDefault("sim.healthBonus", t.HealthBonus)
	viper.SetDefault("sim.scorePerDifficulty", t.ScorePerDifficulty)
}
