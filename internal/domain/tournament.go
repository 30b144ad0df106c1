package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	PlayersCount    = 12
	TablesCount     = 2
	PlayersPerTable = 6
	RoundsCount     = 2
)

type Kind string

const (
	KindLive       Kind = "live"
	KindSimulation Kind = "simulation"
)

func (k Kind) Valid() bool {
	return k == KindLive || k == KindSimulation
}

type Tournament struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"date"`
	Kind      Kind      `json:"type"`
	Players   []Player  `json:"players"`
	Rounds    []Round   `json:"rounds"`
	Completed bool      `json:"completed"`
	Archived  bool      `json:"archived,omitempty"`
}

func NewTournament(name string, kind Kind) Tournament {
	return Tournament{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Kind:      kind,
		Players:   []Player{},
		Rounds:    []Round{},
	}
}

// Clone returns a deep copy, so callers can derive a new tournament
// without touching the original.
func (t Tournament) Clone() Tournament {
	c := t
	if t.Players != nil {
		c.Players = make([]Player, len(t.Players))
		copy(c.Players, t.Players)
	}
	if t.Rounds != nil {
		c.Rounds = make([]Round, len(t.Rounds))
		for i := range t.Rounds {
			c.Rounds[i] = t.Rounds[i].Clone()
		}
	}
	return c
}

func (t Tournament) Player(id uuid.UUID) (Player, bool) {
	for _, p := range t.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// RoundIndex returns the index of the round with the given number or -1.
func (t Tournament) RoundIndex(number int) int {
	for i := range t.Rounds {
		if t.Rounds[i].Number == number {
			return i
		}
	}
	return -1
}

// NextRound is the number the next submitted round must carry.
func (t Tournament) NextRound() int {
	return len(t.Rounds) + 1
}
