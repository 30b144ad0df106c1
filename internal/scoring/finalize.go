package scoring

import (
	"github.com/goserg/heatbracket/internal/domain"
)

// FinalizeTournament recomputes every player's mastery from raw round
// results and then every round's difficulty bonuses against that frozen
// snapshot. Tournaments with fewer than two rounds are returned as is.
// The input is never mutated.
func FinalizeTournament(t domain.Tournament) domain.Tournament {
	if len(t.Rounds) < domain.RoundsCount {
		return t
	}
	out := t.Clone()
	for i := range out.Players {
		out.Players[i].Mastery = ComputeMastery(out.Players[i].ID, t.Rounds)
	}
	for i := range out.Rounds {
		out.Rounds[i].DifficultyBonus = roundBonuses(out.Rounds[i], out.Players)
	}
	return out
}

// FinalizeFirstRound is the provisional pass for a tournament that only has
// its first round. Mastery is zeroed for everyone so standings ignore skill
// until the tournament completes, and round 1 gets a bonus map of zeros.
func FinalizeFirstRound(t domain.Tournament) domain.Tournament {
	idx := t.RoundIndex(1)
	if idx < 0 {
		if len(t.Rounds) == 0 {
			return t
		}
		idx = 0
	}
	out := t.Clone()
	for i := range out.Players {
		out.Players[i].Mastery = 0
	}
	out.Rounds[idx].DifficultyBonus = roundBonuses(out.Rounds[idx], out.Players)
	return out
}
