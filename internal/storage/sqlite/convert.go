package sqlite

import (
	"github.com/goserg/heatbracket/gen/model"
	"github.com/goserg/heatbracket/internal/domain"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// document is the part of a tournament stored as JSON in one column.
type document struct {
	Players []domain.Player `json:"players"`
	Rounds  []domain.Round  `json:"rounds"`
}

func convertTournamentFromDomain(t domain.Tournament) (model.Tournaments, error) {
	doc, err := json.Marshal(document{
		Players: t.Players,
		Rounds:  t.Rounds,
	})
	if err != nil {
		return model.Tournaments{}, err
	}
	return model.Tournaments{
		ID:        t.ID.String(),
		Name:      t.Name,
		Kind:      string(t.Kind),
		CreatedAt: t.CreatedAt,
		Completed: t.Completed,
		Archived:  t.Archived,
		Document:  string(doc),
	}, nil
}

func convertTournamentToDomain(t model.Tournaments) (domain.Tournament, error) {
	id, err := uuid.Parse(t.ID)
	if err != nil {
		return domain.Tournament{}, err
	}
	var doc document
	if err := json.Unmarshal([]byte(t.Document), &doc); err != nil {
		return domain.Tournament{}, err
	}
	if doc.Players == nil {
		doc.Players = []domain.Player{}
	}
	if doc.Rounds == nil {
		doc.Rounds = []domain.Round{}
	}
	return domain.Tournament{
		ID:        id,
		Name:      t.Name,
		Kind:      domain.Kind(t.Kind),
		CreatedAt: t.CreatedAt,
		Players:   doc.Players,
		Rounds:    doc.Rounds,
		Completed: t.Completed,
		Archived:  t.Archived,
	}, nil
}

func convertTournamentsToDomain(tournaments []model.Tournaments) ([]domain.Tournament, error) {
	converted := make([]domain.Tournament, 0, len(tournaments))
	for _, t := range tournaments {
		dt, err := convertTournamentToDomain(t)
		if err != nil {
			return nil, err
		}
		converted = append(converted, dt)
	}
	return converted, nil
}

func convertBackupToDomain(b model.Backups) domain.Backup {
	var id int
	if b.ID != nil {
		id = int(*b.ID)
	}
	return domain.Backup{
		ID:        id,
		CreatedAt: b.CreatedAt,
		Data:      []byte(b.Document),
	}
}
