// Package validate checks tournament input before it reaches the scoring
// engine. The engine itself trusts its input.
package validate

import (
	"errors"
	"fmt"

	"github.com/goserg/heatbracket/internal/domain"
	"github.com/goserg/heatbracket/internal/normalize"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
)

var (
	ErrPlayerCount      = errors.New("tournament needs exactly 12 players")
	ErrPlayerName       = errors.New("invalid player name")
	ErrTableCount       = errors.New("round needs exactly 2 tables")
	ErrPlayerAssignment = errors.New("each player must be assigned to exactly one table slot")
	ErrPositions        = errors.New("each table must have positions 1-6 assigned exactly once")
	ErrRoundNumber      = errors.New("unexpected round number")
)

// Inscription checks the player list of a new tournament.
func Inscription(names []string) error {
	var err error
	if len(names) != domain.PlayersCount {
		err = errors.Join(err, fmt.Errorf("%w: got %d", ErrPlayerCount, len(names)))
	}
	seen := mapset.NewThreadUnsafeSet[string]()
	for i, name := range names {
		key := normalize.Name(name)
		if key == "" {
			err = errors.Join(err, fmt.Errorf("%w: name #%d is empty", ErrPlayerName, i+1))
			continue
		}
		if !seen.Add(key) {
			err = errors.Join(err, fmt.Errorf("%w: %q is entered twice", ErrPlayerName, name))
		}
	}
	return err
}

// Round checks that the tables of r partition the tournament players and
// that every table has a full permutation of finishing positions. All
// problems are joined into one error.
func Round(t domain.Tournament, r domain.Round) error {
	var err error
	if r.Number < 1 || r.Number > domain.RoundsCount || r.Number > t.NextRound() {
		err = errors.Join(err, fmt.Errorf("%w: %d", ErrRoundNumber, r.Number))
	}
	if len(r.Tables) != domain.TablesCount {
		err = errors.Join(err, fmt.Errorf("%w: got %d", ErrTableCount, len(r.Tables)))
	}

	roster := mapset.NewThreadUnsafeSet[uuid.UUID]()
	for _, p := range t.Players {
		roster.Add(p.ID)
	}
	assigned := mapset.NewThreadUnsafeSet[uuid.UUID]()
	for _, tableID := range r.TableIDs() {
		table := r.Tables[tableID]
		err = errors.Join(err, seating(tableID, table, roster, assigned))
		err = errors.Join(err, positions(tableID, table))
	}
	if missing := roster.Difference(assigned); missing.Cardinality() > 0 {
		err = errors.Join(err, fmt.Errorf("%w: %d players not seated", ErrPlayerAssignment, missing.Cardinality()))
	}
	return err
}

func seating(tableID string, table domain.TableResult, roster, assigned mapset.Set[uuid.UUID]) error {
	var err error
	if len(table.Players) != domain.PlayersPerTable {
		err = errors.Join(err, fmt.Errorf("%w: table %s has %d players", ErrPlayerAssignment, tableID, len(table.Players)))
	}
	for _, id := range table.Players {
		if !roster.Contains(id) {
			err = errors.Join(err, fmt.Errorf("%w: unknown player %s at table %s", ErrPlayerAssignment, id, tableID))
			continue
		}
		if !assigned.Add(id) {
			err = errors.Join(err, fmt.Errorf("%w: player %s seated twice", ErrPlayerAssignment, id))
		}
	}
	return err
}

func positions(tableID string, table domain.TableResult) error {
	seated := mapset.NewThreadUnsafeSet[uuid.UUID](table.Players...)
	withResult := mapset.NewThreadUnsafeSet[uuid.UUID]()
	taken := mapset.NewThreadUnsafeSet[int]()
	var err error
	for _, res := range table.Results {
		if !seated.Contains(res.PlayerID) {
			err = errors.Join(err, fmt.Errorf("%w: result for player %s not seated at table %s", ErrPositions, res.PlayerID, tableID))
			continue
		}
		if !withResult.Add(res.PlayerID) {
			err = errors.Join(err, fmt.Errorf("%w: player %s has two results at table %s", ErrPositions, res.PlayerID, tableID))
		}
		if res.Position < 1 || res.Position > domain.PlayersPerTable {
			err = errors.Join(err, fmt.Errorf("%w: position %d at table %s", ErrPositions, res.Position, tableID))
			continue
		}
		if !taken.Add(res.Position) {
			err = errors.Join(err, fmt.Errorf("%w: position %d given twice at table %s", ErrPositions, res.Position, tableID))
		}
	}
	if taken.Cardinality() != domain.PlayersPerTable || !seated.Equal(withResult) {
		err = errors.Join(err, fmt.Errorf("%w: table %s is incomplete", ErrPositions, tableID))
	}
	return err
}
