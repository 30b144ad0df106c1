package domain

import (
	"github.com/google/uuid"
)

type Player struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	// Mastery is the cumulative strength of the player, total points / 100.
	// Zero until the tournament is finalized.
	Mastery float64 `json:"mastery"`
}

func NewPlayer(name string) Player {
	return Player{
		ID:   uuid.New(),
		Name: name,
	}
}
