package elo

import "math"

type Points float64

const (
	Win  Points = 1
	Draw Points = 0.5
	Lose Points = 0
)

const InitialRating = 1000

// Calculate new rating.
// Ra - player A rating.
// Rb - player B rating.
// K - coefficient, see Coefficient.
// Sa - points: 1 for win; 0.5 for draw; 0 for lose.
func Calculate(Ra int, Rb int, K int, Sa Points) int {
	ra := float64(Ra)
	rb := float64(Rb)
	k := float64(K)

	Ea := 1.0 / (1.0 + math.Pow(10, (rb-ra)/400.0))
	ra = ra + k*(float64(Sa)-Ea)
	return int(math.Round(ra))
}

// Coefficient: 40 for the first 30 games, then 10 from 2400 up and 20 below.
func Coefficient(gamesPlayed int, rating int) int {
	if gamesPlayed <= 30 {
		return 40
	}
	if rating >= 2400 {
		return 10
	}
	return 20
}

// Outcome scores player A against player B from their finishing positions
// at the same table. Lower position wins; a missing position (0) loses to
// any real one.
func Outcome(positionA, positionB int) Points {
	a, b := positionA, positionB
	if a <= 0 {
		a = math.MaxInt
	}
	if b <= 0 {
		b = math.MaxInt
	}
	switch {
	case a < b:
		return Win
	case a > b:
		return Lose
	}
	return Draw
}

// Table returns the rating change of every seat at a multi-player table.
// Each seat is scored against every other seat with the coefficient split
// across its opponents, all against the ratings from before the table.
func Table(ratings []int, positions []int, games []int) []int {
	deltas := make([]int, len(ratings))
	if len(ratings) < 2 {
		return deltas
	}
	for i := range ratings {
		k := Coefficient(games[i], ratings[i]) / (len(ratings) - 1)
		if k < 1 {
			k = 1
		}
		for j := range ratings {
			if i == j {
				continue
			}
			deltas[i] += Calculate(ratings[i], ratings[j], k, Outcome(positions[i], positions[j])) - ratings[i]
		}
	}
	return deltas
}
