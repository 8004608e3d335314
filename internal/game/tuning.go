package game

import "time"

// Tuning is the set of match-level constants a config file may override.
type Tuning struct {
	EnemySpawnInterval time.Duration `mapstructure:"enemySpawnInterval" yaml:"enemySpawnInterval"`
	MaxEnemies         int           `mapstructure:"maxEnemies" yaml:"maxEnemies"`

	CoinSpawnInterval     time.Duration `mapstructure:"coinSpawnInterval" yaml:"coinSpawnInterval"`
	MaxCoins              int           `mapstructure:"maxCoins" yaml:"maxCoins"`
	CoinPlacementAttempts int           `mapstructure:"coinPlacementAttempts" yaml:"coinPlacementAttempts"`
	CoinScore             int           `mapstructure:"coinScore" yaml:"coinScore"`
	InitialCoins          int           `mapstructure:"initialCoins" yaml:"initialCoins"`
	InitialCoinSpacing    time.Duration `mapstructure:"initialCoinSpacing" yaml:"initialCoinSpacing"`

	PowerUpDuration  time.Duration `mapstructure:"powerUpDuration" yaml:"powerUpDuration"`
	CoinsForPowerUp  int           `mapstructure:"coinsForPowerUp" yaml:"coinsForPowerUp"`
	CoinsPerLevel    int           `mapstructure:"coinsPerLevel" yaml:"coinsPerLevel"`
	MaxPowerLevel    int           `mapstructure:"maxPowerLevel" yaml:"maxPowerLevel"`
	HealthBonusEvery int           `mapstructure:"healthBonusEvery" yaml:"healthBonusEvery"`
	HealthBonus      int           `mapstructure:"healthBonus" yaml:"healthBonus"`

	ScorePerDifficulty int `mapstructure:"scorePerDifficulty" yaml:"scorePerDifficulty"`
}

// DefaultTuning returns the stock match settings.
func DefaultTuning() Tuning {
	return Tuning{
		EnemySpawnInterval: 10 * time.Second,
		MaxEnemies:         5,

		CoinSpawnInterval:     1500 * time.Millisecond,
		MaxCoins:              10,
		CoinPlacementAttempts: 20,
		CoinScore:             50,
		InitialCoins:          4,
		InitialCoinSpacing:    500 * time.Millisecond,

		PowerUpDuration:  180 * time.Second,
		CoinsForPowerUp:  5,
		CoinsPerLevel:    10,
		MaxPowerLevel:    10,
		HealthBonusEvery: 100,
		HealthBonus:      10,

		ScorePerDifficulty: 500,
	}
}

// withDefaults replaces non-positive intervals and thresholds with their
// DefaultTuning values. MaxEnemies and MaxCoins fall back only when
// negative; zero there disables the spawner. CoinScore, InitialCoins and
// HealthBonus are kept as given, so zero disables them too.
func (t Tuning) withDefaults() Tuning {
	d := DefaultTuning()
	if t.EnemySpawnInterval <= 0 {
		t.EnemySpawnInterval = d.EnemySpawnInterval
	}
	if t.MaxEnemies < 0 {
		t.MaxEnemies = d.MaxEnemies
	}
	if t.CoinSpawnInterval <= 0 {
		t.CoinSpawnInterval = d.CoinSpawnInterval
	}
	if t.MaxCoins < 0 {
		t.MaxCoins = d.MaxCoins
	}
	if t.CoinPlacementAttempts <= 0 {
		t.CoinPlacementAttempts = d.CoinPlacementAttempts
	}
	if t.InitialCoinSpacing <= 0 {
		t.InitialCoinSpacing = d.InitialCoinSpacing
	}
	if t.PowerUpDuration <= 0 {
		t.PowerUpDuration = d.PowerUpDuration
	}
	if t.CoinsForPowerUp <= 0 {
		t.CoinsForPowerUp = d.CoinsForPowerUp
	}
	if t.CoinsPerLevel <= 0 {
		t.CoinsPerLevel = d.CoinsPerLevel
	}
	if t.MaxPowerLevel <= 0 {
		t.MaxPowerLevel = d.MaxPowerLevel
	}
	if t.HealthBonusEvery <= 0 {
		t.HealthBonusEvery = d.HealthBonusEvery
	}
	if t.ScorePerDifficulty <= 0 {
		t.ScorePerDifficulty = d.ScorePerDifficulty
	}
	return t
}
