// Package simulation produces random but valid tournament input, used to
// try out the format without real races.
package simulation

import (
	"math/rand"
	"strconv"

	"github.com/goserg/heatbracket/internal/domain"
)

var firstNames = []string{
	"Ana", "Bruno", "Carla", "Diego", "Elena", "Fabio", "Gema", "Hugo", "Irene", "Javier",
	"Lucia", "Marco", "Nuria", "Oscar", "Paula", "Raul", "Sara", "Tomas", "Vera", "Xavi",
}

var lastNames = []string{
	"Alonso", "Blanco", "Castro", "Delgado", "Esteban", "Ferrer", "Gil", "Herrero", "Iglesias", "Jimenez",
	"Lozano", "Molina", "Navarro", "Ortega", "Prieto", "Ramos", "Santos", "Torres", "Vidal", "Zamora",
}

// RandomNames returns n distinct "First Last" names.
func RandomNames(n int, rng *rand.Rand) []string {
	combos := len(firstNames) * len(lastNames)
	names := make([]string, 0, n)
	for i, idx := range rng.Perm(combos) {
		if i == n {
			break
		}
		names = append(names, firstNames[idx/len(lastNames)]+" "+lastNames[idx%len(lastNames)])
	}
	for i := len(names); i < n; i++ {
		names = append(names, "Player "+strconv.Itoa(i+1))
	}
	return names
}

// RandomResults seats the given players in shuffled order, so the first
// seated finishes first.
func RandomResults(players []domain.Player, rng *rand.Rand) domain.TableResult {
	table := domain.TableResult{}
	for i, idx := range rng.Perm(len(players)) {
		id := players[idx].ID
		table.Players = append(table.Players, id)
		table.Results = append(table.Results, domain.GameResult{
			PlayerID: id,
			Position: i + 1,
		})
	}
	return table
}

// RandomRound splits the players over the tables at random and draws a
// random finishing order at each table.
func RandomRound(number int, players []domain.Player, rng *rand.Rand) domain.Round {
	shuffled := append([]domain.Player(nil), players...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	round := domain.Round{
		Number: number,
		Tables: make(map[string]domain.TableResult, domain.TablesCount),
	}
	for t := 0; t < domain.TablesCount; t++ {
		lo := t * domain.PlayersPerTable
		if lo >= len(shuffled) {
			break
		}
		hi := min(lo+domain.PlayersPerTable, len(shuffled))
		round.Tables[TableID(t)] = RandomResults(shuffled[lo:hi], rng)
	}
	return round
}

// TableID names the i-th table, counting from zero.
func TableID(i int) string {
	return "table" + strconv.Itoa(i+1)
}
