package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/goserg/heatbracket/gen/model"
	"github.com/goserg/heatbracket/gen/table"
	"github.com/goserg/heatbracket/internal/config"
	"github.com/goserg/heatbracket/internal/domain"
	"github.com/goserg/heatbracket/internal/migrate"
	"github.com/goserg/heatbracket/internal/storage"

	"github.com/go-jet/jet/v2/qrm"
	"github.com/go-jet/jet/v2/sqlite"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

type Storage struct {
	db  *sql.DB
	log *logrus.Entry
}

var _ storage.TournamentStorage = (*Storage)(nil)
var _ storage.BackupStorage = (*Storage)(nil)

func New(l *logrus.Logger, cfg config.Storage) (*Storage, error) {
	log := l.WithFields(logrus.Fields{
		"from": "storage",
	})
	db, err := sql.Open("sqlite3", buildSource(cfg.SqliteFile))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	err = migrate.Up(db)
	if err != nil {
		return nil, err
	}

	err = db.Ping()
	if err != nil {
		return nil, err
	}
	log.WithField("file", cfg.SqliteFile).Info("storage connected")
	return &Storage{
		db:  db,
		log: log,
	}, nil
}

func buildSource(fileName string) string {
	return "file:" + fileName + "?cache=shared&_foreign_keys=on"
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) ListTournaments(ctx context.Context) ([]domain.Tournament, error) {
	var tournaments []model.Tournaments
	err := table.Tournaments.
		SELECT(table.Tournaments.AllColumns).
		FROM(table.Tournaments).
		ORDER_BY(table.Tournaments.CreatedAt.DESC()).
		QueryContext(ctx, s.db, &tournaments)
	if err != nil && !errors.Is(err, qrm.ErrNoRows) {
		return nil, err
	}
	return convertTournamentsToDomain(tournaments)
}

func (s *Storage) GetTournament(ctx context.Context, id uuid.UUID) (domain.Tournament, error) {
	var dest model.Tournaments
	err := table.Tournaments.
		SELECT(table.Tournaments.AllColumns).
		FROM(table.Tournaments).
		WHERE(table.Tournaments.ID.EQ(sqlite.String(id.String()))).
		QueryContext(ctx, s.db, &dest)
	if err != nil {
		if errors.Is(err, qrm.ErrNoRows) {
			return domain.Tournament{}, storage.ErrNotFound
		}
		return domain.Tournament{}, err
	}
	return convertTournamentToDomain(dest)
}

func (s *Storage) SaveTournament(ctx context.Context, t domain.Tournament) error {
	return s.saveTournament(ctx, s.db, t)
}

func (s *Storage) saveTournament(ctx context.Context, db qrm.Executable, t domain.Tournament) error {
	m, err := convertTournamentFromDomain(t)
	if err != nil {
		return err
	}
	res, err := table.Tournaments.
		UPDATE(table.Tournaments.MutableColumns).
		MODEL(m).
		WHERE(table.Tournaments.ID.EQ(sqlite.String(m.ID))).
		ExecContext(ctx, db)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		s.log.WithField("tournament", m.ID).Debug("tournament updated")
		return nil
	}
	_, err = table.Tournaments.
		INSERT(table.Tournaments.AllColumns).
		MODEL(m).
		ExecContext(ctx, db)
	if err != nil {
		return err
	}
	s.log.WithField("tournament", m.ID).Debug("tournament created")
	return nil
}

func (s *Storage) DeleteTournament(ctx context.Context, id uuid.UUID) error {
	res, err := table.Tournaments.
		DELETE().
		WHERE(table.Tournaments.ID.EQ(sqlite.String(id.String()))).
		ExecContext(ctx, s.db)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Storage) ImportTournaments(ctx context.Context, tournaments []domain.Tournament) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = table.Tournaments.
		DELETE().
		WHERE(sqlite.Bool(true)).
		ExecContext(ctx, tx)
	if err != nil {
		return err
	}
	for _, t := range tournaments {
		if err := s.saveTournament(ctx, tx, t); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.log.WithField("count", len(tournaments)).Info("tournaments imported")
	return nil
}

func (s *Storage) CreateBackup(ctx context.Context, data []byte) (domain.Backup, error) {
	var dest model.Backups
	err := table.Backups.
		INSERT(table.Backups.CreatedAt, table.Backups.Document).
		MODEL(model.Backups{
			CreatedAt: time.Now().UTC(),
			Document:  string(data),
		}).
		RETURNING(table.Backups.AllColumns).
		QueryContext(ctx, s.db, &dest)
	if err != nil {
		return domain.Backup{}, err
	}
	return convertBackupToDomain(dest), nil
}

func (s *Storage) ListBackups(ctx context.Context) ([]domain.Backup, error) {
	var backups []model.Backups
	err := table.Backups.
		SELECT(table.Backups.AllColumns).
		FROM(table.Backups).
		ORDER_BY(table.Backups.ID.DESC()).
		QueryContext(ctx, s.db, &backups)
	if err != nil && !errors.Is(err, qrm.ErrNoRows) {
		return nil, err
	}
	converted := make([]domain.Backup, 0, len(backups))
	for _, b := range backups {
		converted = append(converted, convertBackupToDomain(b))
	}
	return converted, nil
}

func (s *Storage) GetBackup(ctx context.Context, id int) (domain.Backup, error) {
	var dest model.Backups
	err := table.Backups.
		SELECT(table.Backups.AllColumns).
		FROM(table.Backups).
		WHERE(table.Backups.ID.EQ(sqlite.Int(int64(id)))).
		QueryContext(ctx, s.db, &dest)
	if err != nil {
		if errors.Is(err, qrm.ErrNoRows) {
			return domain.Backup{}, storage.ErrNotFound
		}
		return domain.Backup{}, err
	}
	return convertBackupToDomain(dest), nil
}

func (s *Storage) PruneBackups(ctx context.Context, keep int) error {
	var oldest []model.Backups
	err := table.Backups.
		SELECT(table.Backups.ID).
		FROM(table.Backups).
		ORDER_BY(table.Backups.ID.DESC()).
		OFFSET(int64(keep)).
		LIMIT(1).
		QueryContext(ctx, s.db, &oldest)
	if err != nil && !errors.Is(err, qrm.ErrNoRows) {
		return err
	}
	if len(oldest) == 0 || oldest[0].ID == nil {
		return nil
	}
	res, err := table.Backups.
		DELETE().
		WHERE(table.Backups.ID.LT_EQ(sqlite.Int(int64(*oldest[0].ID)))).
		ExecContext(ctx, s.db)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		s.log.WithField("count", n).Debug("old backups removed")
	}
	return nil
}
