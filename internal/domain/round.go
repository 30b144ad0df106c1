package domain

import (
	"sort"

	"github.com/google/uuid"
)

// GameResult is the finish of one player at one table. Points are not
// stored, they are always derived from Position by the scoring package.
type GameResult struct {
	PlayerID uuid.UUID `json:"playerId"`
	Position int       `json:"position"`
}

type TableResult struct {
	Players      []uuid.UUID          `json:"players"`
	Results      []GameResult         `json:"results"`
	PlayerColors map[uuid.UUID]string `json:"playerColors,omitempty"`
}

// Seats reports whether the player sits at the table.
func (t TableResult) Seats(id uuid.UUID) bool {
	for _, p := range t.Players {
		if p == id {
			return true
		}
	}
	return false
}

// ResultFor returns the first result recorded for the player.
func (t TableResult) ResultFor(id uuid.UUID) (GameResult, bool) {
	for _, r := range t.Results {
		if r.PlayerID == id {
			return r, true
		}
	}
	return GameResult{}, false
}

func (t TableResult) clone() TableResult {
	var c TableResult
	if t.Players != nil {
		c.Players = make([]uuid.UUID, len(t.Players))
		copy(c.Players, t.Players)
	}
	if t.Results != nil {
		c.Results = make([]GameResult, len(t.Results))
		copy(c.Results, t.Results)
	}
	if t.PlayerColors != nil {
		c.PlayerColors = make(map[uuid.UUID]string, len(t.PlayerColors))
		for k, v := range t.PlayerColors {
			c.PlayerColors[k] = v
		}
	}
	return c
}

type Round struct {
	Number          int                    `json:"roundNumber"`
	Tables          map[string]TableResult `json:"tables"`
	DifficultyBonus map[uuid.UUID]float64  `json:"difficultyBonus,omitempty"`
}

// TableIDs returns the table IDs in lexical order so that every walk over
// the tables is deterministic.
func (r Round) TableIDs() []string {
	ids := make([]string, 0, len(r.Tables))
	for id := range r.Tables {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ResultFor returns the player's result from the first table, in table ID
// order, that has one.
func (r Round) ResultFor(id uuid.UUID) (GameResult, bool) {
	for _, tableID := range r.TableIDs() {
		if res, ok := r.Tables[tableID].ResultFor(id); ok {
			return res, true
		}
	}
	return GameResult{}, false
}

func (r Round) Clone() Round {
	c := Round{Number: r.Number}
	if r.Tables != nil {
		c.Tables = make(map[string]TableResult, len(r.Tables))
		for id, t := range r.Tables {
			c.Tables[id] = t.clone()
		}
	}
	if r.DifficultyBonus != nil {
		c.DifficultyBonus = make(map[uuid.UUID]float64, len(r.DifficultyBonus))
		for k, v := range r.DifficultyBonus {
			c.DifficultyBonus[k] = v
		}
	}
	return c
}
