package storage

import (
	"context"
	"errors"

	"github.com/goserg/heatbracket/internal/domain"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found")

type TournamentStorage interface {
	ListTournaments(ctx context.Context) ([]domain.Tournament, error)
	GetTournament(ctx context.Context, id uuid.UUID) (domain.Tournament, error)
	// SaveTournament inserts the tournament or replaces the stored one.
	SaveTournament(ctx context.Context, t domain.Tournament) error
	DeleteTournament(ctx context.Context, id uuid.UUID) error

	// ImportTournaments replaces every stored tournament.
	ImportTournaments(ctx context.Context, tournaments []domain.Tournament) error
}

type BackupStorage interface {
	CreateBackup(ctx context.Context, data []byte) (domain.Backup, error)
	// ListBackups returns backups newest first.
	ListBackups(ctx context.Context) ([]domain.Backup, error)
	GetBackup(ctx context.Context, id int) (domain.Backup, error)
	// PruneBackups drops everything but the keep most recent backups.
	PruneBackups(ctx context.Context, keep int) error
}
