package scoring

import (
	"github.com/goserg/heatbracket/internal/domain"

	"github.com/google/uuid"
)

const masteryScale = 100

// PlayerPoints sums the points the player earned over the given rounds.
// Only the first result per table counts.
func PlayerPoints(playerID uuid.UUID, rounds []domain.Round) int {
	total := 0
	for _, round := range rounds {
		for _, tableID := range round.TableIDs() {
			if r, ok := round.Tables[tableID].ResultFor(playerID); ok {
				total += ResultPoints(r)
			}
		}
	}
	return total
}

// ComputeMastery is the player's cumulative points divided by 100. It is
// always derived from the full round history, never patched.
func ComputeMastery(playerID uuid.UUID, rounds []domain.Round) float64 {
	return float64(PlayerPoints(playerID, rounds)) / masteryScale
}
