package game

import "time"

type Outcome int

const (
	OutcomeInProgress Outcome = iota
	OutcomeDefeated
	OutcomeSurvived
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInProgress:
		return "in_progress"
	case OutcomeDefeated:
		return "defeated"
	case OutcomeSurvived:
		return "survived"
	default:
		return "unknown"
	}
}

type MatchOutcome struct {
	Outcome        Outcome
	Score          int
	Kills          int
	Health         int
	PeakDifficulty int
	TotalCoins     int
	Duration       time.Duration
	Description    string
}

// DetermineOutcome classifies the match. A running or paused match whose
// player is alive counts as survived once at least one enemy has been
// destroyed; before that it is still in progress.
func DetermineOutcome(g *Game) MatchOutcome {
	r := MatchOutcome{
		Score:          g.score,
		Kills:          g.stats.Kills,
		Health:         g.player.health,
		PeakDifficulty: g.stats.PeakDifficulty,
		TotalCoins:     g.totalCoins,
		Duration:       g.stats.Duration(g.now),
	}

	switch {
	case g.state == StateOver || g.player.destroyed:
		r.Outcome = OutcomeDefeated
		switch {
		case r.Kills == 0:
			r.Description = "defeated_without_kills"
		case r.PeakDifficulty >= maxDifficulty:
			r.Description = "defeated_at_max_difficulty"
		default:
			r.Description = "defeated"
		}
	case r.Kills > 0:
		r.Outcome = OutcomeSurvived
		switch {
		case r.Health == maxHealth:
			r.Description = "survived_untouched"
		case r.Health <= maxHealth/4:
			r.Description = "survived_critical"
		default:
			r.Description = "survived"
		}
	default:
		r.Outcome = OutcomeInProgress
		r.Description = "no_kills_yet"
	}
	return r
}
