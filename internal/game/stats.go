package game

import "time"

// MatchStats counts what happened in the current match. Restart starts a
// fresh set, carrying only the restart count.
type MatchStats struct {
	StartedAt time.Time
	EndedAt   time.Time
	Frames    int
	Restarts  int

	PlayerShots int
	PlayerHits  int
	EnemyShots  int
	EnemyHits   int
	DamageTaken int

	Kills          int
	CoinsCollected int
	PowerUps       int
	PeakDifficulty int

	BoundaryHits    int
	ObstacleImpacts int
}

// Accuracy is the fraction of player shells that hit an enemy.
func (s MatchStats) Accuracy() float64 {
	return ratio(s.PlayerHits, s.PlayerShots)
}

// EnemyAccuracy is the fraction of enemy shells that hit the player.
func (s MatchStats) EnemyAccuracy() float64 {
	return ratio(s.EnemyHits, s.EnemyShots)
}

// Duration is the match length up to end, or up to now while it is still
// running.
func (s MatchStats) Duration(now time.Time) time.Duration {
	if s.StartedAt.IsZero() {
		return 0
	}
	if !s.EndedAt.IsZero() {
		return s.EndedAt.Sub(s.StartedAt)
	}
	return now.Sub(s.StartedAt)
}

// KillsPerMinute is the kill rate over the match so far.
func (s MatchStats) KillsPerMinute(now time.Time) float64 {
	d := s.Duration(now)
	if d <= 0 {
		return 0
	}
	return float64(s.Kills) / d.Minutes()
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}
