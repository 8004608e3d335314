package game

import "time"

// PowerUp is the coin-driven damage boost held by the orchestrator.
type PowerUp struct {
	Active      bool
	Level       int
	ActivatedAt time.Time
	Duration    time.Duration
}

// PowerLevel returns the level earned by a cumulative coin total.
func PowerLevel(totalCoins, coinsPerLevel, maxLevel int) int {
	if coinsPerLevel <= 0 {
		coinsPerLevel = 10
	}
	level := 1 + totalCoins/coinsPerLevel
	if level > maxLevel {
		level = maxLevel
	}
	return level
}

// Damage is the per-shell damage the power-up grants.
func (p PowerUp) Damage() int {
	if !p.Active {
		return baseDamage
	}
	return baseDamage * p.Level
}

// Expired reports whether an active power-up has outlived its duration.
func (p PowerUp) Expired(now time.Time) bool {
	return p.Active && now.Sub(p.ActivatedAt) > p.Duration
}

// Remaining returns how long an active power-up has left.
func (p PowerUp) Remaining(now time.Time) time.Duration {
	if !p.Active {
		return 0
	}
	left := p.Duration - now.Sub(p.ActivatedAt)
	if left < 0 {
		return 0
	}
	return left
}
