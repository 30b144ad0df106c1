// Package career builds a leaderboard across completed tournaments.
// Players are matched between tournaments by their normalized name.
package career

import (
	"sort"

	"github.com/goserg/heatbracket/internal/domain"
	"github.com/goserg/heatbracket/internal/elo"
	"github.com/goserg/heatbracket/internal/normalize"
	"github.com/goserg/heatbracket/internal/scoring"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	glicko "github.com/zelenin/go-glicko2"
)

const (
	glickoRating     = 1500
	glickoDeviation  = 350
	glickoVolatility = 0.06
)

type Interval struct {
	Min float64
	Max float64
}

type Glicko2Rating struct {
	Rating     float64
	Deviation  float64
	Volatility float64
	// Interval is the 95% confidence range of Rating.
	Interval Interval
}

type Entry struct {
	Name        string
	Tournaments int
	Wins        int
	Points      int
	// Mastery is career points / 100, the same scale a single tournament uses.
	Mastery     float64
	EloRating   int
	GamesPlayed int
	Glicko2     Glicko2Rating
}

type player struct {
	entry       Entry
	tournaments mapset.Set[uuid.UUID]
	glicko      *glicko.Player
}

type board struct {
	players map[string]*player
}

func (b *board) get(name string) *player {
	key := normalize.Name(name)
	p, ok := b.players[key]
	if !ok {
		p = &player{
			entry:       Entry{EloRating: elo.InitialRating},
			tournaments: mapset.NewThreadUnsafeSet[uuid.UUID](),
			glicko:      glicko.NewPlayer(glicko.NewRating(glickoRating, glickoDeviation, glickoVolatility)),
		}
		b.players[key] = p
	}
	p.entry.Name = name
	return p
}

// Build computes the career leaderboard. Only completed tournaments count,
// replayed oldest first.
func Build(tournaments []domain.Tournament) []Entry {
	completed := make([]domain.Tournament, 0, len(tournaments))
	for _, t := range tournaments {
		if len(t.Rounds) >= domain.RoundsCount {
			completed = append(completed, t)
		}
	}
	sort.SliceStable(completed, func(i, j int) bool {
		return completed[i].CreatedAt.Before(completed[j].CreatedAt)
	})

	b := &board{players: make(map[string]*player)}
	for _, t := range completed {
		b.add(scoring.FinalizeTournament(t))
	}

	entries := make([]Entry, 0, len(b.players))
	for _, p := range b.players {
		p.entry.Tournaments = p.tournaments.Cardinality()
		p.entry.Mastery = float64(p.entry.Points) / 100
		r := p.glicko.Rating()
		p.entry.Glicko2 = Glicko2Rating{
			Rating:     r.R(),
			Deviation:  r.Rd(),
			Volatility: r.Sigma(),
			Interval: Interval{
				Min: r.R() - 2*r.Rd(),
				Max: r.R() + 2*r.Rd(),
			},
		}
		entries = append(entries, p.entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		if entries[i].EloRating != entries[j].EloRating {
			return entries[i].EloRating > entries[j].EloRating
		}
		return normalize.Name(entries[i].Name) < normalize.Name(entries[j].Name)
	})
	return entries
}

func (b *board) add(t domain.Tournament) {
	byID := make(map[uuid.UUID]*player, len(t.Players))
	for _, p := range t.Players {
		cp := b.get(p.Name)
		cp.tournaments.Add(t.ID)
		cp.entry.Points += scoring.PlayerPoints(p.ID, t.Rounds)
		byID[p.ID] = cp
	}
	if rankings := scoring.RankPlayers(t); len(rankings) > 0 {
		if winner, ok := byID[rankings[0].PlayerID]; ok {
			winner.entry.Wins++
		}
	}

	period := glicko.NewRatingPeriod()
	for _, round := range t.Rounds {
		for _, tableID := range round.TableIDs() {
			b.table(round.Tables[tableID], byID, period)
		}
	}
	period.Calculate()
}

func (b *board) table(table domain.TableResult, byID map[uuid.UUID]*player, period *glicko.RatingPeriod) {
	var seats []*player
	var ratings, positions, games []int
	for _, res := range table.Results {
		p, ok := byID[res.PlayerID]
		if !ok {
			continue
		}
		seats = append(seats, p)
		ratings = append(ratings, p.entry.EloRating)
		positions = append(positions, res.Position)
		games = append(games, p.entry.GamesPlayed)
	}

	for i, d := range elo.Table(ratings, positions, games) {
		seats[i].entry.EloRating += d
		seats[i].entry.GamesPlayed++
	}

	for i := range seats {
		for j := i + 1; j < len(seats); j++ {
			switch elo.Outcome(positions[i], positions[j]) {
			case elo.Win:
				period.AddMatch(seats[i].glicko, seats[j].glicko, glicko.MATCH_RESULT_WIN)
			case elo.Lose:
				period.AddMatch(seats[i].glicko, seats[j].glicko, glicko.MATCH_RESULT_LOSS)
			default:
				period.AddMatch(seats[i].glicko, seats[j].glicko, glicko.MATCH_RESULT_DRAW)
			}
		}
	}
}
