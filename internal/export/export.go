// Package export converts tournaments to and from files: a versioned JSON
// snapshot of everything, and a spreadsheet of one tournament's standings.
package export

import (
	"errors"
	"fmt"
	"time"

	"github.com/goserg/heatbracket/internal/domain"

	"github.com/goccy/go-json"
)

const Version = 1

var ErrVersion = errors.New("invalid export file version")

type Snapshot struct {
	Version     int                 `json:"version"`
	ExportedAt  time.Time           `json:"exportedAt"`
	Tournaments []domain.Tournament `json:"tournaments"`
}

func Marshal(tournaments []domain.Tournament, now time.Time) ([]byte, error) {
	if tournaments == nil {
		tournaments = []domain.Tournament{}
	}
	return json.MarshalIndent(Snapshot{
		Version:     Version,
		ExportedAt:  now,
		Tournaments: tournaments,
	}, "", "  ")
}

// Unmarshal reads a snapshot. The completed flag is derived again from the
// round count rather than trusted.
func Unmarshal(data []byte) ([]domain.Tournament, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, snap.Version)
	}
	for i := range snap.Tournaments {
		t := &snap.Tournaments[i]
		if t.Players == nil {
			t.Players = []domain.Player{}
		}
		if t.Rounds == nil {
			t.Rounds = []domain.Round{}
		}
		if !t.Kind.Valid() {
			t.Kind = domain.KindLive
		}
		t.Completed = len(t.Rounds) >= domain.RoundsCount
	}
	return snap.Tournaments, nil
}
