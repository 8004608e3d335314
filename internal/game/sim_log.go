package game

import (
	"fmt"
	"strings"
	"time"
)

// SimLogEntry is one recorded event during a simulation.
type SimLogEntry struct {
	Frame    int
	Entity   string  // label e.g. "P", "E2", or "--" for match events
	Side     string  // "player", "enemy", or "--"
	Category string  // ai, combat, coin, powerup, enemy, game
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[F=0042] E1   ai        state_change     patrol → chase
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[F=%04d] %-4s %-9s %-16s %s",
		e.Frame, e.Entity, e.Category, e.Key, e.Value)
}

// SimLog collects structured events during a simulation.
// Unlike EventFeed (UI ring-buffer), SimLog is machine-readable and, unless
// created with NewBoundedSimLog, unbounded.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
	limit   int
}

// NewSimLog creates a SimLog. If verbose is true, per-frame entries added
// with AddVerbose are kept too.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// DefaultSimLogLimit bounds the log of an interactive session. It holds
// far more than the report window needs.
const DefaultSimLogLimit = 5000

// NewBoundedSimLog creates a SimLog that keeps roughly the newest limit
// entries. Older entries are dropped in batches, so between trims the log
// may hold up to half as many again.
func NewBoundedSimLog(verbose bool, limit int) *SimLog {
	return &SimLog{verbose: verbose, limit: max(limit, 1)}
}

// Add records a new entry.
func (sl *SimLog) Add(frame int, entity, side, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Frame:    frame,
		Entity:   entity,
		Side:     side,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
	sl.trim()
}

func (sl *SimLog) trim() {
	if sl.limit == 0 || len(sl.entries) <= sl.limit+sl.limit/2 {
		return
	}
	n := copy(sl.entries, sl.entries[len(sl.entries)-sl.limit:])
	clear(sl.entries[n:])
	sl.entries = sl.entries[:n]
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(frame int, entity, side, category, key, value string, numVal float64) {
	if !sl.verbose {
		return
	}
	sl.Add(frame, entity, side, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterEntity returns entries for a specific entity label.
func (sl *SimLog) FilterEntity(label string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Entity == label {
			out = append(out, e)
		}
	}
	return out
}

// FilterFrameRange returns entries within [from, to] inclusive.
func (sl *SimLog) FilterFrameRange(from, to int) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Frame >= from && e.Frame <= to {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (sl *SimLog) CountCategory(category, key string) int {
	return len(sl.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	entries := sl.Filter(category, key)
	if len(entries) == 0 {
		return SimLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (sl *SimLog) Format() string {
	var sb strings.Builder
	for _, e := range sl.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary returns a short human-readable snapshot of the match.
func (sl *SimLog) Summary(g *Game) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at F=%04d ---\n", g.frame)
	fmt.Fprintf(&sb, "State: %s  score=%d  difficulty=%d\n", g.state, g.score, g.difficulty)

	p := g.player
	fmt.Fprintf(&sb, "Player: health=%d damage=%d pos=(%.1f, %.1f) shells=%d\n",
		p.health, p.damage, p.pos[0], p.pos[2], len(p.projectiles))

	counts := map[AIState]int{}
	for _, e := range g.enemies {
		counts[e.state]++
	}
	fmt.Fprintf(&sb, "Enemies: %d  ", len(g.enemies))
	for _, s := range []AIState{AIPatrol, AIChase, AIAttack} {
		if n := counts[s]; n > 0 {
			fmt.Fprintf(&sb, "%s=%d  ", s, n)
		}
	}
	sb.WriteByte('\n')

	fmt.Fprintf(&sb, "Coins: visible=%d  counter=%d/%d  total=%d\n",
		g.visibleCoins(), g.coinCount, g.tuning.CoinsForPowerUp, g.totalCoins)
	if g.powerUp.Active {
		fmt.Fprintf(&sb, "Power-up: level %d, %s left\n", g.powerUp.Level, g.powerUp.Remaining(g.now).Round(time.Second))
	} else {
		sb.WriteString("Power-up: inactive\n")
	}
	return sb.String()
}
