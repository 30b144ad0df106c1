package scoring

import (
	"sort"

	"github.com/goserg/heatbracket/internal/domain"

	"github.com/google/uuid"
)

// ComputeDifficultyBonus sums the mastery of every opponent the player
// faced at their table in the round. Players missing from the round get 0.
// Tables are not validated here, opponents are summed as found.
func ComputeDifficultyBonus(playerID uuid.UUID, round domain.Round, players []domain.Player) float64 {
	mastery := make(map[uuid.UUID]float64, len(players))
	for _, p := range players {
		if _, ok := mastery[p.ID]; !ok {
			mastery[p.ID] = p.Mastery
		}
	}

	var opponents []float64
	for _, tableID := range round.TableIDs() {
		table := round.Tables[tableID]
		if !table.Seats(playerID) {
			continue
		}
		for _, id := range table.Players {
			if id == playerID {
				continue
			}
			opponents = append(opponents, mastery[id])
		}
	}

	// summing in value order keeps the result independent of seating order
	sort.Float64s(opponents)
	var bonus float64
	for _, m := range opponents {
		bonus += m
	}
	return bonus
}

func roundBonuses(round domain.Round, players []domain.Player) map[uuid.UUID]float64 {
	bonus := make(map[uuid.UUID]float64, len(players))
	for _, p := range players {
		bonus[p.ID] = ComputeDifficultyBonus(p.ID, round, players)
	}
	return bonus
}
