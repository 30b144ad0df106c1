package scoring

import (
	"fmt"

	"github.com/goserg/heatbracket/internal/domain"

	"github.com/google/uuid"
)

func newPlayers(n int) []domain.Player {
	players := make([]domain.Player, n)
	for i := range players {
		players[i] = domain.Player{
			ID:   uuid.New(),
			Name: fmt.Sprintf("player %d", i+1),
		}
	}
	return players
}

// seat builds a table where players[i] finished at positions[i].
func seat(players []domain.Player, positions ...int) domain.TableResult {
	table := domain.TableResult{}
	for i, p := range players {
		table.Players = append(table.Players, p.ID)
		table.Results = append(table.Results, domain.GameResult{
			PlayerID: p.ID,
			Position: positions[i],
		})
	}
	return table
}

func pick(players []domain.Player, idx ...int) []domain.Player {
	out := make([]domain.Player, 0, len(idx))
	for _, i := range idx {
		out = append(out, players[i])
	}
	return out
}

// standardTournament has p0 winning both rounds and p5 last in both.
func standardTournament() domain.Tournament {
	t := domain.NewTournament("cup", domain.KindLive)
	t.Players = newPlayers(domain.PlayersCount)
	p := t.Players
	t.Rounds = []domain.Round{
		{
			Number: 1,
			Tables: map[string]domain.TableResult{
				"table1": seat(pick(p, 0, 1, 2, 3, 4, 5), 1, 2, 3, 4, 5, 6),
				"table2": seat(pick(p, 6, 7, 8, 9, 10, 11), 1, 2, 3, 4, 5, 6),
			},
		},
		{
			Number: 2,
			Tables: map[string]domain.TableResult{
				"table1": seat(pick(p, 0, 7, 2, 9, 4, 11), 1, 2, 3, 4, 5, 6),
				"table2": seat(pick(p, 1, 6, 8, 3, 10, 5), 1, 2, 3, 4, 5, 6),
			},
		},
	}
	t.Completed = true
	return t
}
