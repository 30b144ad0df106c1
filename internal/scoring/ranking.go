package scoring

import (
	"math"
	"sort"

	"github.com/goserg/heatbracket/internal/domain"

	"github.com/google/uuid"
)

// Placement is a player's finish in one round and the points it earned.
// A zero Position means the player has no result that round.
type Placement struct {
	Position int `json:"position"`
	Points   int `json:"points"`
}

// Ranking is one line of the final standings.
type Ranking struct {
	PlayerID        uuid.UUID `json:"playerId"`
	Round1          Placement `json:"round1"`
	Round2          Placement `json:"round2"`
	TotalPoints     int       `json:"totalPoints"`
	DifficultyBonus float64   `json:"difficultyBonus"`
}

// CombinedScore is total points plus difficulty bonus, the primary key.
func (r Ranking) CombinedScore() float64 {
	return float64(r.TotalPoints) + r.DifficultyBonus
}

// BestPosition is the better of the two round finishes. A zero position
// means the player has no result that round and is skipped. Returns 0 when
// the player finished in neither round.
func (r Ranking) BestPosition() int {
	best := 0
	for _, p := range []int{r.Round1.Position, r.Round2.Position} {
		if p <= 0 {
			continue
		}
		if best == 0 || p < best {
			best = p
		}
	}
	return best
}

// RankPlayers builds the final standings. It needs exactly two rounds and
// returns nil otherwise.
func RankPlayers(t domain.Tournament) []Ranking {
	if len(t.Rounds) != domain.RoundsCount {
		return nil
	}
	r1, r2 := t.Rounds[0], t.Rounds[1]

	rankings := make([]Ranking, 0, len(t.Players))
	for _, p := range t.Players {
		r := Ranking{
			PlayerID: p.ID,
			Round1:   placement(p.ID, r1),
			Round2:   placement(p.ID, r2),
		}
		r.TotalPoints = r.Round1.Points + r.Round2.Points
		r.DifficultyBonus = RoundBonus(r1.DifficultyBonus[p.ID]) + RoundBonus(r2.DifficultyBonus[p.ID])
		rankings = append(rankings, r)
	}
	sort.SliceStable(rankings, func(i, j int) bool {
		return Compare(rankings[i], rankings[j]) < 0
	})
	return rankings
}

// Compare orders two rankings: negative when a ranks above b, positive
// when b ranks above a, zero when every key ties.
//  1. combined score, descending
//  2. total points, descending
//  3. best single round position, ascending (no finish ranks last, see
//     positionKey)
func Compare(a, b Ranking) int {
	if ca, cb := hundredths(a.CombinedScore()), hundredths(b.CombinedScore()); ca != cb {
		if ca > cb {
			return -1
		}
		return 1
	}
	if a.TotalPoints != b.TotalPoints {
		if a.TotalPoints > b.TotalPoints {
			return -1
		}
		return 1
	}
	pa, pb := positionKey(a.BestPosition()), positionKey(b.BestPosition())
	switch {
	case pa < pb:
		return -1
	case pa > pb:
		return 1
	}
	return 0
}

// RoundBonus rounds a bonus to the two decimals it is displayed with.
func RoundBonus(v float64) float64 {
	return math.Round(v*100) / 100
}

func hundredths(v float64) int64 {
	return int64(math.Round(v * 100))
}

// positionKey maps a finish to its tie-break key. Positions of zero or
// below are "no finish" and are a policy choice: they rank after every real
// finish instead of before it.
func positionKey(p int) int {
	if p <= 0 {
		return math.MaxInt
	}
	return p
}

func placement(playerID uuid.UUID, round domain.Round) Placement {
	res, ok := round.ResultFor(playerID)
	if !ok {
		return Placement{}
	}
	return Placement{
		Position: res.Position,
		Points:   ResultPoints(res),
	}
}
