// Package scoring turns table finishes into points, mastery, difficulty
// bonuses and final standings. Every function here is pure: tournaments
// go in, new values come out.
package scoring

import (
	"github.com/goserg/heatbracket/internal/domain"
)

var positionPoints = [domain.PlayersPerTable]int{9, 6, 4, 3, 2, 1}

// PointsForPosition maps a table finish to points. Positions outside
// 1..6 are worth nothing.
func PointsForPosition(position int) int {
	if position < 1 || position > len(positionPoints) {
		return 0
	}
	return positionPoints[position-1]
}

// ResultPoints is the point value of a recorded result.
func ResultPoints(r domain.GameResult) int {
	return PointsForPosition(r.Position)
}
