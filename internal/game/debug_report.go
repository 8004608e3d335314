package game

import (
	"fmt"
	"strings"
	"time"
)

// MatchReport renders a plain-text report of the match: outcome, counters,
// a per-entity event timeline over the last lastFrames frames, and the tail
// of the event feed. Frontends copy it to the clipboard.
func (g *Game) MatchReport(lastFrames int) string {
	if lastFrames <= 0 {
		lastFrames = reportWindowFrames
	}
	toFrame := g.frame
	fromFrame := toFrame - lastFrames + 1
	if fromFrame < 0 {
		fromFrame = 0
	}

	out := DetermineOutcome(g)
	s := g.stats

	var b strings.Builder
	fmt.Fprintf(&b, "--- Tank Arena match report ---\n")
	fmt.Fprintf(&b, "frame_range=[%d..%d] frames=%d duration=%s restarts=%d\n",
		fromFrame, toFrame, toFrame-fromFrame+1, out.Duration.Round(time.Millisecond), s.Restarts)
	fmt.Fprintf(&b, "outcome=%s (%s) state=%s\n\n", out.Outcome, out.Description, g.state)

	b.WriteString("== PLAYER ==\n")
	fmt.Fprintf(&b, "score=%d difficulty=%d peak=%d health=%d damage=%d\n",
		g.score, g.difficulty, s.PeakDifficulty, g.player.health, g.player.damage)
	fmt.Fprintf(&b, "shots=%d hits=%d accuracy=%.0f%% kills=%d kpm=%.1f\n",
		s.PlayerShots, s.PlayerHits, s.Accuracy()*100, s.Kills, s.KillsPerMinute(g.now))
	fmt.Fprintf(&b, "taken: shells=%d/%d damage=%d  terrain: boundary=%d obstacle=%d\n",
		s.EnemyHits, s.EnemyShots, s.DamageTaken, s.BoundaryHits, s.ObstacleImpacts)
	fmt.Fprintf(&b, "coins: counter=%d/%d match=%d total=%d power-ups=%d level=%d active=%t\n\n",
		g.coinCount, g.tuning.CoinsForPowerUp, s.CoinsCollected, g.totalCoins, s.PowerUps, g.powerUp.Level, g.powerUp.Active)

	b.WriteString("== ENEMIES ==\n")
	if len(g.enemies) == 0 {
		b.WriteString("(none alive)\n")
	}
	for _, e := range g.enemies {
		fmt.Fprintf(&b, "%s d=%d state=%s health=%d pos=(%.1f, %.1f) dist=%.1f shots=%d\n",
			e.tank.label, e.difficulty, e.state, e.tank.health,
			e.tank.pos[0], e.tank.pos[2], e.tank.pos.Sub(g.player.pos).Len(), e.tank.shotsFired)
	}
	b.WriteByte('\n')

	if g.simLog != nil {
		b.WriteString("== TIMELINE ==\n")
		entries := g.simLog.FilterFrameRange(fromFrame, toFrame)
		if len(entries) == 0 {
			b.WriteString("(no events recorded in range)\n")
		}
		for _, run := range collapseRuns(entries) {
			b.WriteString("  ")
			b.WriteString(run)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}

	b.WriteString("== FEED ==\n")
	for _, e := range g.feed.Last(10) {
		fmt.Fprintf(&b, "%5d [%s] %s\n", e.Frame, e.Label, e.Message)
	}
	return b.String()
}

// collapseRuns folds consecutive identical entity/category/key entries into
// a single line with a repeat count so noisy events like coin spawns do not
// drown the timeline.
func collapseRuns(entries []SimLogEntry) []string {
	var out []string
	for i := 0; i < len(entries); {
		j := i + 1
		for j < len(entries) &&
			entries[j].Entity == entries[i].Entity &&
			entries[j].Category == entries[i].Category &&
			entries[j].Key == entries[i].Key {
			j++
		}
		line := entries[i].String()
		if n := j - i; n > 1 {
			line = fmt.Sprintf("%s  (x%d, last F=%d: %s)", line, n, entries[j-1].Frame, entries[j-1].Value)
		}
		out = append(out, line)
		i = j
	}
	return out
}
