package game

import (
	"fmt"
	"strings"
)

// reportWindowFrames is the default sliding window for recent-behaviour reports (~10s at 60 FPS).
const reportWindowFrames = 600

// SimReport is a snapshot of the match at one frame.
type SimReport struct {
	Frame int
	State State

	Score      int
	Difficulty int
	Health     int
	Damage     int

	Enemies     int
	EnemyStates map[AIState]int // AIState → count
	EnemyShells int

	PlayerShells  int
	VisibleCoins  int
	PowerUpActive bool
	PowerLevel    int
}

// SimReporter collects periodic reports from a match and summarises them
// over a sliding frame window.
type SimReporter struct {
	history      []SimReport
	windowFrames int
}

// NewSimReporter creates a reporter with the given window size.
func NewSimReporter(windowFrames int) *SimReporter {
	if windowFrames <= 0 {
		windowFrames = reportWindowFrames
	}
	return &SimReporter{windowFrames: windowFrames}
}

// Collect gathers a snapshot from the current match.
// Call this periodically (e.g. every 60 frames).
func (r *SimReporter) Collect(g *Game) {
	report := SimReport{
		Frame:         g.frame,
		State:         g.state,
		Score:         g.score,
		Difficulty:    g.difficulty,
		Health:        g.player.health,
		Damage:        g.player.damage,
		Enemies:       len(g.enemies),
		EnemyStates:   make(map[AIState]int),
		PlayerShells:  len(g.player.projectiles),
		VisibleCoins:  g.visibleCoins(),
		PowerUpActive: g.powerUp.Active,
		PowerLevel:    g.powerUp.Level,
	}
	for _, e := range g.enemies {
		report.EnemyStates[e.state]++
		report.EnemyShells += len(e.tank.projectiles)
	}

	r.history = append(r.history, report)

	// Prune old history beyond 2x window to prevent unbounded growth.
	maxKeep := r.windowFrames / 60 * 2
	if maxKeep < 100 {
		maxKeep = 100
	}
	if len(r.history) > maxKeep {
		r.history = r.history[len(r.history)-maxKeep:]
	}
}

// Latest returns the most recent report, or nil if none collected yet.
func (r *SimReporter) Latest() *SimReport {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// History returns all retained reports.
func (r *SimReporter) History() []SimReport {
	return r.history
}

// WindowReport is an aggregated summary over a frame window.
type WindowReport struct {
	FromFrame, ToFrame int
	SampleCount        int

	// Enemy state distribution as percentages (0-100).
	StatePct map[AIState]float64

	AvgEnemies      float64
	AvgHealth       float64
	AvgVisibleCoins float64
	AvgEnemyShells  float64
	PowerUpPct      float64 // share of samples with the power-up active (0-100)

	ScoreGained int
	MinHealth   int
	MaxLevel    int
}

// WindowSummary returns an aggregated summary over the recent window.
func (r *SimReporter) WindowSummary() *WindowReport {
	if len(r.history) == 0 {
		return nil
	}

	latest := r.history[len(r.history)-1].Frame
	cutoff := latest - r.windowFrames
	var window []SimReport
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i].Frame < cutoff {
			break
		}
		window = append(window, r.history[i])
	}

	n := float64(len(window))
	oldest, newest := window[len(window)-1], window[0]
	wr := &WindowReport{
		FromFrame:   oldest.Frame,
		ToFrame:     newest.Frame,
		SampleCount: len(window),
		StatePct:    make(map[AIState]float64),
		ScoreGained: newest.Score - oldest.Score,
		MinHealth:   maxHealth,
	}

	stateTotal := make(map[AIState]float64)
	var enemyTotal float64
	powered := 0
	for _, rpt := range window {
		for s, c := range rpt.EnemyStates {
			stateTotal[s] += float64(c)
			enemyTotal += float64(c)
		}
		wr.AvgEnemies += float64(rpt.Enemies)
		wr.AvgHealth += float64(rpt.Health)
		wr.AvgVisibleCoins += float64(rpt.VisibleCoins)
		wr.AvgEnemyShells += float64(rpt.EnemyShells)
		if rpt.PowerUpActive {
			powered++
		}
		if rpt.Health < wr.MinHealth {
			wr.MinHealth = rpt.Health
		}
		if rpt.PowerLevel > wr.MaxLevel {
			wr.MaxLevel = rpt.PowerLevel
		}
	}

	if enemyTotal > 0 {
		for s, c := range stateTotal {
			wr.StatePct[s] = c / enemyTotal * 100
		}
	}
	wr.AvgEnemies /= n
	wr.AvgHealth /= n
	wr.AvgVisibleCoins /= n
	wr.AvgEnemyShells /= n
	wr.PowerUpPct = float64(powered) / n * 100
	return wr
}

// Format returns a human-readable multi-line string of the window summary.
func (wr *WindowReport) Format() string {
	if wr == nil {
		return "No data collected yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Match Window (F=%d..%d, %d samples) ===\n",
		wr.FromFrame, wr.ToFrame, wr.SampleCount)

	sb.WriteString("\n--- Enemy State Distribution ---\n")
	for _, s := range []AIState{AIPatrol, AIChase, AIAttack} {
		if pct, ok := wr.StatePct[s]; ok && pct > 0.5 {
			fmt.Fprintf(&sb, "  %-8s %5.1f%%\n", s, pct)
		}
	}

	sb.WriteString("\n--- Pressure ---\n")
	fmt.Fprintf(&sb, "  enemies=%.1f  enemy shells in flight=%.1f\n", wr.AvgEnemies, wr.AvgEnemyShells)
	fmt.Fprintf(&sb, "  health avg=%.0f min=%d (%s)\n", wr.AvgHealth, wr.MinHealth, healthLabel(wr.MinHealth))

	sb.WriteString("\n--- Economy ---\n")
	fmt.Fprintf(&sb, "  score gained=%d  coins visible=%.1f\n", wr.ScoreGained, wr.AvgVisibleCoins)
	fmt.Fprintf(&sb, "  power-up active=%.0f%%  max level=%d\n", wr.PowerUpPct, wr.MaxLevel)
	return sb.String()
}

func healthLabel(h int) string {
	switch {
	case h >= 90:
		return "untouched"
	case h >= 60:
		return "scratched"
	case h >= 30:
		return "damaged"
	case h > 0:
		return "critical"
	default:
		return "destroyed"
	}
}

// FormatLatest returns a concise snapshot of the most recent report.
func (r *SimReporter) FormatLatest() string {
	rpt := r.Latest()
	if rpt == nil {
		return "No data.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Snapshot F=%d (%s) ---\n", rpt.Frame, rpt.State)
	fmt.Fprintf(&sb, "Player: health=%d damage=%d shells=%d  score=%d difficulty=%d\n",
		rpt.Health, rpt.Damage, rpt.PlayerShells, rpt.Score, rpt.Difficulty)
	fmt.Fprintf(&sb, "Enemies: %d  patrol=%d chase=%d attack=%d  shells=%d\n",
		rpt.Enemies, rpt.EnemyStates[AIPatrol], rpt.EnemyStates[AIChase], rpt.EnemyStates[AIAttack], rpt.EnemyShells)
	fmt.Fprintf(&sb, "Coins visible=%d  power-up=%v level=%d\n", rpt.VisibleCoins, rpt.PowerUpActive, rpt.PowerLevel)
	return sb.String()
}
