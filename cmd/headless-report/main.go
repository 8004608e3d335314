package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
	"gopkg.in/yaml.v3"

	"github.com/Garsondee/Tank-Arena/internal/game"
	"github.com/Garsondee/Tank-Arena/internal/terrain"
)

// sampleEvery is how often (in frames) the window reporter takes a sample.
const sampleEvery = 60

type runStats struct {
	RunIndex int    `yaml:"run"`
	Seed     int64  `yaml:"seed"`
	Frames   int    `yaml:"frames"`
	Outcome  string `yaml:"outcome"`
	Detail   string `yaml:"detail"`

	FirstSpawnFrame  int `yaml:"first_spawn_frame"`
	FirstChaseFrame  int `yaml:"first_chase_frame"`
	FirstAttackFrame int `yaml:"first_attack_frame"`
	FirstHitFrame    int `yaml:"first_hit_frame"`
	FirstKillFrame   int `yaml:"first_kill_frame"`
	FirstPowerFrame  int `yaml:"first_powerup_frame"`
	DeathFrame       int `yaml:"death_frame"`

	Score          int     `yaml:"score"`
	Kills          int     `yaml:"kills"`
	Health         int     `yaml:"health"`
	PeakDifficulty int     `yaml:"peak_difficulty"`
	CoinsCollected int     `yaml:"coins_collected"`
	PowerUps       int     `yaml:"power_ups"`
	PlayerShots    int     `yaml:"player_shots"`
	PlayerHits     int     `yaml:"player_hits"`
	Accuracy       float64 `yaml:"accuracy"`
	EnemyShots     int     `yaml:"enemy_shots"`
	EnemyHits      int     `yaml:"enemy_hits"`
	DamageTaken    int     `yaml:"damage_taken"`

	StateChanges int `yaml:"state_changes"`
	CoinSpawns   int `yaml:"coin_spawns"`

	Stalemate       bool   `yaml:"stalemate"`
	StalemateReason string `yaml:"stalemate_reason,omitempty"`

	windowSummary *game.WindowReport
}

type aggregate struct {
	Runs           int            `yaml:"runs"`
	Outcomes       map[string]int `yaml:"outcomes"`
	Stalemates     int            `yaml:"stalemates"`
	AvgScore       float64        `yaml:"avg_score"`
	AvgKills       float64        `yaml:"avg_kills"`
	AvgCoins       float64        `yaml:"avg_coins"`
	AvgAccuracy    float64        `yaml:"avg_accuracy"`
	AvgDamageTaken float64        `yaml:"avg_damage_taken"`
	AvgFirstAttack string         `yaml:"avg_first_attack_frame"`
	AvgFirstKill   string         `yaml:"avg_first_kill_frame"`
	AvgDeathFrame  string         `yaml:"avg_death_frame"`
	BestRun        int            `yaml:"best_run"`
	BestScore      int            `yaml:"best_score"`
}

type report struct {
	Frames    int        `yaml:"frames_per_run"`
	SeedBase  int64      `yaml:"seed_base"`
	SeedStep  int64      `yaml:"seed_step"`
	Enemies   int        `yaml:"max_enemies"`
	Runs      []runStats `yaml:"runs"`
	Aggregate aggregate  `yaml:"aggregate"`
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var maxEnemies int
	var format string
	var copyOut bool

	flag.IntVar(&runs, "runs", 5, "number of headless matches")
	flag.IntVar(&ticks, "ticks", 3600, "frames per match (16ms each)")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.IntVar(&maxEnemies, "enemies", 5, "enemy cap for the timed spawner")
	flag.StringVar(&format, "format", "text", "output format: text or yaml")
	flag.BoolVar(&copyOut, "copy", false, "also copy the report to the clipboard")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	if format != "text" && format != "yaml" {
		fmt.Printf("error: unsupported format %q (supported: text, yaml)\n", format)
		return
	}

	rep := report{Frames: ticks, SeedBase: seedBase, SeedStep: seedStep, Enemies: maxEnemies}
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		rep.Runs = append(rep.Runs, runMatch(i+1, seed, ticks, maxEnemies))
	}
	rep.Aggregate = summarize(rep.Runs)

	var sb strings.Builder
	if err := write(&sb, rep, format); err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(sb.String())

	if copyOut {
		if err := clipboard.WriteAll(sb.String()); err != nil {
			fmt.Fprintf(os.Stderr, "warning: clipboard copy failed: %v\n", err)
		}
	}
}

func write(w io.Writer, rep report, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	}
	fmt.Fprintf(w, "=== Headless Arena Report ===\n")
	fmt.Fprintf(w, "runs=%d frames=%d seed_base=%d seed_step=%d max_enemies=%d\n\n",
		len(rep.Runs), rep.Frames, rep.SeedBase, rep.SeedStep, rep.Enemies)
	for _, rs := range rep.Runs {
		printRun(w, rs)
	}
	printAggregate(w, rep.Aggregate)
	return nil
}

func runMatch(runIndex int, seed int64, ticks, maxEnemies int) runStats {
	arena := terrain.NewArena(rand.New(rand.NewSource(seed)), terrain.DefaultArenaOptions()) // #nosec G404 -- headless report
	ts := game.NewTestSim(
		game.WithSeed(seed),
		game.WithArena(arena),
		game.WithEnemySpawning(maxEnemies),
		game.WithAutopilot(),
	)
	reporter := game.NewSimReporter(0)

	frames := 0
	for frames < ticks && ts.Game.State() != game.StateOver {
		ts.Tick()
		frames++
		if frames%sampleEvery == 0 {
			reporter.Collect(ts.Game)
		}
	}
	reporter.Collect(ts.Game)

	entries := ts.SimLog.Entries()
	stats := ts.Game.Stats()
	out := ts.Game.Outcome()

	rs := runStats{
		RunIndex: runIndex,
		Seed:     seed,
		Frames:   frames,
		Outcome:  out.Outcome.String(),
		Detail:   out.Description,

		FirstSpawnFrame:  firstFrame(entries, "enemy", "spawn", ""),
		FirstChaseFrame:  firstFrame(entries, "ai", "state_change", "→ chase"),
		FirstAttackFrame: firstFrame(entries, "ai", "state_change", "→ attack"),
		FirstHitFrame:    firstFrame(entries, "combat", "hit", ""),
		FirstKillFrame:   firstFrame(entries, "enemy", "destroyed", ""),
		FirstPowerFrame:  firstFrame(entries, "powerup", "activate", ""),
		DeathFrame:       firstFrame(entries, "game", "over", ""),

		Score:          out.Score,
		Kills:          stats.Kills,
		Health:         out.Health,
		PeakDifficulty: stats.PeakDifficulty,
		CoinsCollected: stats.CoinsCollected,
		PowerUps:       stats.PowerUps,
		PlayerShots:    stats.PlayerShots,
		PlayerHits:     stats.PlayerHits,
		Accuracy:       stats.Accuracy(),
		EnemyShots:     stats.EnemyShots,
		EnemyHits:      stats.EnemyHits,
		DamageTaken:    stats.DamageTaken,

		StateChanges: ts.SimLog.CountCategory("ai", "state_change"),
		CoinSpawns:   ts.SimLog.CountCategory("coin", "spawn"),

		windowSummary: reporter.WindowSummary(),
	}
	rs.Stalemate, rs.StalemateReason = detectStalemate(rs)
	return rs
}

func firstFrame(entries []game.SimLogEntry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Frame
		}
	}
	return -1
}

// detectStalemate flags runs where the autopilot survived but neither side
// made progress: no kills, almost no damage, and enemies rarely engaged.
func detectStalemate(rs runStats) (bool, string) {
	if rs.DeathFrame >= 0 {
		return false, "player_destroyed"
	}
	if rs.Kills > 0 {
		return false, "kills_recorded"
	}
	if rs.FirstSpawnFrame < 0 {
		return false, "no_enemies_spawned"
	}
	var reasons []string
	if rs.DamageTaken <= 25 {
		reasons = append(reasons, "low_damage_taken")
	}
	if rs.FirstAttackFrame < 0 {
		reasons = append(reasons, "no_enemy_attack")
	}
	if rs.PlayerHits == 0 {
		reasons = append(reasons, "no_player_hits")
	}
	if len(reasons) < 2 {
		return false, "contested"
	}
	return true, strings.Join(reasons, ",")
}

func printRun(w io.Writer, rs runStats) {
	fmt.Fprintf(w, "--- Run %d (seed=%d) ---\n", rs.RunIndex, rs.Seed)
	fmt.Fprintf(w, "outcome=%s (%s) frames=%d score=%d kills=%d health=%d peak_level=%d\n",
		rs.Outcome, rs.Detail, rs.Frames, rs.Score, rs.Kills, rs.Health, rs.PeakDifficulty)
	fmt.Fprintf(w, "phase_markers: spawn=%d chase=%d attack=%d hit=%d kill=%d powerup=%d death=%d\n",
		rs.FirstSpawnFrame, rs.FirstChaseFrame, rs.FirstAttackFrame, rs.FirstHitFrame,
		rs.FirstKillFrame, rs.FirstPowerFrame, rs.DeathFrame)
	fmt.Fprintf(w, "combat: shots=%d hits=%d accuracy=%.0f%% enemy_shots=%d enemy_hits=%d damage_taken=%d\n",
		rs.PlayerShots, rs.PlayerHits, rs.Accuracy*100, rs.EnemyShots, rs.EnemyHits, rs.DamageTaken)
	fmt.Fprintf(w, "economy: coins=%d coin_spawns=%d power_ups=%d ai_state_changes=%d\n",
		rs.CoinsCollected, rs.CoinSpawns, rs.PowerUps, rs.StateChanges)
	if rs.Stalemate {
		fmt.Fprintf(w, "stalemate: %s\n", rs.StalemateReason)
	}
	if rs.windowSummary != nil {
		fmt.Fprint(w, rs.windowSummary.Format())
	}
	fmt.Fprintln(w)
}

func summarize(all []runStats) aggregate {
	agg := aggregate{Runs: len(all), Outcomes: map[string]int{}, BestRun: -1}
	var attack, kill, death []int
	var score, kills, coins, dmg int
	var acc float64
	for _, rs := range all {
		agg.Outcomes[rs.Outcome]++
		if rs.Stalemate {
			agg.Stalemates++
		}
		score += rs.Score
		kills += rs.Kills
		coins += rs.CoinsCollected
		dmg += rs.DamageTaken
		acc += rs.Accuracy
		if rs.FirstAttackFrame >= 0 {
			attack = append(attack, rs.FirstAttackFrame)
		}
		if rs.FirstKillFrame >= 0 {
			kill = append(kill, rs.FirstKillFrame)
		}
		if rs.DeathFrame >= 0 {
			death = append(death, rs.DeathFrame)
		}
		if agg.BestRun < 0 || rs.Score > agg.BestScore {
			agg.BestRun = rs.RunIndex
			agg.BestScore = rs.Score
		}
	}
	agg.AvgScore = avg(score, len(all))
	agg.AvgKills = avg(kills, len(all))
	agg.AvgCoins = avg(coins, len(all))
	agg.AvgDamageTaken = avg(dmg, len(all))
	if len(all) > 0 {
		agg.AvgAccuracy = acc / float64(len(all))
	}
	agg.AvgFirstAttack = avgFrameString(attack)
	agg.AvgFirstKill = avgFrameString(kill)
	agg.AvgDeathFrame = avgFrameString(death)
	return agg
}

func printAggregate(w io.Writer, agg aggregate) {
	fmt.Fprintln(w, "=== Aggregate ===")
	fmt.Fprintf(w, "runs=%d stalemates=%d outcomes=[%s]\n", agg.Runs, agg.Stalemates, joinCounts(agg.Outcomes))
	fmt.Fprintf(w, "avg_per_run: score=%.1f kills=%.1f coins=%.1f accuracy=%.0f%% damage_taken=%.1f\n",
		agg.AvgScore, agg.AvgKills, agg.AvgCoins, agg.AvgAccuracy*100, agg.AvgDamageTaken)
	fmt.Fprintf(w, "phase_marker_avg_frames: first_attack=%s first_kill=%s death=%s\n",
		agg.AvgFirstAttack, agg.AvgFirstKill, agg.AvgDeathFrame)
	if agg.BestRun > 0 {
		fmt.Fprintf(w, "best_run=%d score=%d\n", agg.BestRun, agg.BestScore)
	}
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgFrameString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func joinCounts(m map[string]int) string {
	if len(m) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return strings.Join(parts, ",")
}
