package game

// Metrics receives counters from the orchestrator. The telemetry package
// provides an OpenTelemetry implementation.
type Metrics interface {
	Frame(dt float64)
	ShotFired(fromPlayer bool)
	PlayerDamaged(amount int)
	EnemyDestroyed(difficulty int)
	CoinCollected()
	PowerUpActivated(level int)
}

type nopMetrics struct{}

func (nopMetrics) Frame(float64)        {}
func (nopMetrics) ShotFired(bool)       {}
func (nopMetrics) PlayerDamaged(int)    {}
func (nopMetrics) EnemyDestroyed(int)   {}
func (nopMetrics) CoinCollected()       {}
func (nopMetrics) PowerUpActivated(int) {}
