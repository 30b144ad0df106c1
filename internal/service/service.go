package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/goserg/heatbracket/internal/cache/mem"
	"github.com/goserg/heatbracket/internal/career"
	"github.com/goserg/heatbracket/internal/config"
	"github.com/goserg/heatbracket/internal/domain"
	"github.com/goserg/heatbracket/internal/export"
	"github.com/goserg/heatbracket/internal/scoring"
	"github.com/goserg/heatbracket/internal/simulation"
	"github.com/goserg/heatbracket/internal/storage"
	"github.com/goserg/heatbracket/internal/validate"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrNotFound         = errors.New("tournament not found")
	ErrIncomplete       = errors.New("tournament has not finished both rounds")
	ErrRoundOrder       = errors.New("round submitted out of order")
	ErrAlreadyInscribed = errors.New("players already inscribed")
	ErrNotInscribed     = errors.New("players not inscribed yet")
	ErrArchived         = errors.New("tournament is archived")
	ErrInvalidKind      = errors.New("invalid tournament kind")
	ErrInvalidName      = errors.New("tournament name is empty")
)

type TournamentService struct {
	tournaments storage.TournamentStorage
	backups     storage.BackupStorage
	cache       *mem.Cache
	backupsKeep int
	log         *logrus.Entry
	now         func() time.Time
}

func New(ts storage.TournamentStorage, bs storage.BackupStorage, cfg config.Storage, l *logrus.Logger) *TournamentService {
	keep := cfg.BackupsKeep
	if keep < 1 {
		keep = config.Default().Storage.BackupsKeep
	}
	return &TournamentService{
		tournaments: ts,
		backups:     bs,
		cache:       mem.New(),
		backupsKeep: keep,
		log: l.WithFields(logrus.Fields{
			"from": "service",
		}),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Standings is a finished tournament together with its final ranking.
type Standings struct {
	Tournament domain.Tournament
	Rankings   []scoring.Ranking
}

func (s *TournamentService) Create(ctx context.Context, name string, kind domain.Kind) (domain.Tournament, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Tournament{}, ErrInvalidName
	}
	if !kind.Valid() {
		return domain.Tournament{}, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	t := domain.NewTournament(name, kind)
	t.CreatedAt = s.now()
	if err := s.save(ctx, t); err != nil {
		return domain.Tournament{}, err
	}
	s.log.WithField("tournament", t.ID).Info("tournament created")
	return t, nil
}

// Inscribe registers the 12 players of a tournament. It can only be done
// once.
func (s *TournamentService) Inscribe(ctx context.Context, id uuid.UUID, names []string) (domain.Tournament, error) {
	t, err := s.editable(ctx, id)
	if err != nil {
		return domain.Tournament{}, err
	}
	if len(t.Players) > 0 {
		return domain.Tournament{}, ErrAlreadyInscribed
	}
	if err := validate.Inscription(names); err != nil {
		return domain.Tournament{}, err
	}
	for _, name := range names {
		t.Players = append(t.Players, domain.NewPlayer(strings.Join(strings.Fields(name), " ")))
	}
	if err := s.save(ctx, t); err != nil {
		return domain.Tournament{}, err
	}
	return t, nil
}

// SubmitRound appends the next round and finalizes the tournament. The
// second round completes it.
func (s *TournamentService) SubmitRound(ctx context.Context, id uuid.UUID, round domain.Round) (domain.Tournament, error) {
	t, err := s.editable(ctx, id)
	if err != nil {
		return domain.Tournament{}, err
	}
	if len(t.Players) == 0 {
		return domain.Tournament{}, ErrNotInscribed
	}
	if len(t.Rounds) >= domain.RoundsCount {
		return domain.Tournament{}, fmt.Errorf("%w: tournament already completed", ErrRoundOrder)
	}
	if round.Number != t.NextRound() {
		return domain.Tournament{}, fmt.Errorf("%w: expected round %d, got %d", ErrRoundOrder, t.NextRound(), round.Number)
	}
	if err := validate.Round(t, round); err != nil {
		return domain.Tournament{}, err
	}
	t.Rounds = append(t.Rounds, round.Clone())
	t = finalize(t)
	if err := s.save(ctx, t); err != nil {
		return domain.Tournament{}, err
	}
	s.log.WithFields(logrus.Fields{
		"tournament": t.ID,
		"round":      round.Number,
	}).Info("round submitted")
	return t, nil
}

// EditRound replaces an already submitted round and recomputes everything
// from the round contents.
func (s *TournamentService) EditRound(ctx context.Context, id uuid.UUID, round domain.Round) (domain.Tournament, error) {
	t, err := s.editable(ctx, id)
	if err != nil {
		return domain.Tournament{}, err
	}
	idx := t.RoundIndex(round.Number)
	if idx < 0 {
		return domain.Tournament{}, fmt.Errorf("%w: round %d was never submitted", ErrRoundOrder, round.Number)
	}
	if err := validate.Round(t, round); err != nil {
		return domain.Tournament{}, err
	}
	t.Rounds[idx] = round.Clone()
	t = finalize(t)
	if err := s.save(ctx, t); err != nil {
		return domain.Tournament{}, err
	}
	s.log.WithFields(logrus.Fields{
		"tournament": t.ID,
		"round":      round.Number,
	}).Info("round edited")
	return t, nil
}

func finalize(t domain.Tournament) domain.Tournament {
	if len(t.Rounds) >= domain.RoundsCount {
		t = scoring.FinalizeTournament(t)
	} else {
		t = scoring.FinalizeFirstRound(t)
	}
	t.Completed = len(t.Rounds) == domain.RoundsCount
	return t
}

func (s *TournamentService) Standings(ctx context.Context, id uuid.UUID) (Standings, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return Standings{}, err
	}
	if len(t.Rounds) != domain.RoundsCount {
		return Standings{}, ErrIncomplete
	}
	if rankings, ok := s.cache.Get(id); ok {
		return Standings{Tournament: t, Rankings: rankings}, nil
	}
	rankings := scoring.RankPlayers(t)
	s.cache.Update(id, rankings)
	return Standings{Tournament: t, Rankings: rankings}, nil
}

func (s *TournamentService) Get(ctx context.Context, id uuid.UUID) (domain.Tournament, error) {
	t, err := s.tournaments.GetTournament(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.Tournament{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return domain.Tournament{}, err
	}
	return t, nil
}

// List returns tournaments newest first.
func (s *TournamentService) List(ctx context.Context, includeArchived bool) ([]domain.Tournament, error) {
	tournaments, err := s.tournaments.ListTournaments(ctx)
	if err != nil {
		return nil, err
	}
	if includeArchived {
		return tournaments, nil
	}
	active := tournaments[:0]
	for _, t := range tournaments {
		if !t.Archived {
			active = append(active, t)
		}
	}
	return active, nil
}

func (s *TournamentService) Archive(ctx context.Context, id uuid.UUID) (domain.Tournament, error) {
	return s.setArchived(ctx, id, true)
}

func (s *TournamentService) Restore(ctx context.Context, id uuid.UUID) (domain.Tournament, error) {
	return s.setArchived(ctx, id, false)
}

func (s *TournamentService) setArchived(ctx context.Context, id uuid.UUID, archived bool) (domain.Tournament, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return domain.Tournament{}, err
	}
	if t.Archived == archived {
		return t, nil
	}
	t.Archived = archived
	if err := s.save(ctx, t); err != nil {
		return domain.Tournament{}, err
	}
	return t, nil
}

func (s *TournamentService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.tournaments.DeleteTournament(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return err
	}
	s.cache.Invalidate(id)
	s.backup(ctx)
	s.log.WithField("tournament", id).Info("tournament deleted")
	return nil
}

// Export returns a JSON snapshot of every tournament.
func (s *TournamentService) Export(ctx context.Context) ([]byte, error) {
	tournaments, err := s.tournaments.ListTournaments(ctx)
	if err != nil {
		return nil, err
	}
	return export.Marshal(tournaments, s.now())
}

// Import replaces every tournament with the content of a snapshot.
func (s *TournamentService) Import(ctx context.Context, data []byte) error {
	if err := s.replaceAll(ctx, data); err != nil {
		return err
	}
	s.backup(ctx)
	return nil
}

func (s *TournamentService) replaceAll(ctx context.Context, data []byte) error {
	tournaments, err := export.Unmarshal(data)
	if err != nil {
		return err
	}
	for i := range tournaments {
		if len(tournaments[i].Rounds) > 0 {
			tournaments[i] = finalize(tournaments[i])
		}
	}
	if err := s.tournaments.ImportTournaments(ctx, tournaments); err != nil {
		return err
	}
	s.cache.Reset()
	s.log.WithField("tournaments", len(tournaments)).Info("tournaments imported")
	return nil
}

// Backups lists automatic backups newest first.
func (s *TournamentService) Backups(ctx context.Context) ([]domain.Backup, error) {
	return s.backups.ListBackups(ctx)
}

// RestoreBackup replaces every tournament with the content of a backup.
// Restoring does not write a new backup, so the restored one stays the
// newest.
func (s *TournamentService) RestoreBackup(ctx context.Context, id int) error {
	b, err := s.backups.GetBackup(ctx, id)
	if err != nil {
		return fmt.Errorf("backup %d: %w", id, err)
	}
	return s.replaceAll(ctx, b.Data)
}

// Simulate plays a whole tournament with random names and random results
// through the regular submit path.
func (s *TournamentService) Simulate(ctx context.Context, name string, rng *rand.Rand) (domain.Tournament, error) {
	t, err := s.Create(ctx, name, domain.KindSimulation)
	if err != nil {
		return domain.Tournament{}, err
	}
	t, err = s.Inscribe(ctx, t.ID, simulation.RandomNames(domain.PlayersCount, rng))
	if err != nil {
		return domain.Tournament{}, err
	}
	for number := 1; number <= domain.RoundsCount; number++ {
		t, err = s.SubmitRound(ctx, t.ID, simulation.RandomRound(number, t.Players, rng))
		if err != nil {
			return domain.Tournament{}, err
		}
	}
	return t, nil
}

// Career builds the leaderboard over every completed live tournament,
// archived ones included.
func (s *TournamentService) Career(ctx context.Context) ([]career.Entry, error) {
	tournaments, err := s.tournaments.ListTournaments(ctx)
	if err != nil {
		return nil, err
	}
	live := make([]domain.Tournament, 0, len(tournaments))
	for _, t := range tournaments {
		if t.Kind == domain.KindLive {
			live = append(live, t)
		}
	}
	return career.Build(live), nil
}

func (s *TournamentService) editable(ctx context.Context, id uuid.UUID) (domain.Tournament, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return domain.Tournament{}, err
	}
	if t.Archived {
		return domain.Tournament{}, ErrArchived
	}
	return t, nil
}

func (s *TournamentService) save(ctx context.Context, t domain.Tournament) error {
	if err := s.tournaments.SaveTournament(ctx, t); err != nil {
		return fmt.Errorf("save tournament %s: %w", t.ID, err)
	}
	s.cache.Invalidate(t.ID)
	s.backup(ctx)
	return nil
}

// backup writes a full snapshot and prunes old ones. A failed backup never
// fails the save it follows.
func (s *TournamentService) backup(ctx context.Context) {
	data, err := s.Export(ctx)
	if err != nil {
		s.log.WithError(err).Warn("backup export failed")
		return
	}
	b, err := s.backups.CreateBackup(ctx, data)
	if err != nil {
		s.log.WithError(err).Warn("backup failed")
		return
	}
	if err := s.backups.PruneBackups(ctx, s.backupsKeep); err != nil {
		s.log.WithError(err).Warn("backup pruning failed")
		return
	}
	s.log.WithField("backup", b.ID).Debug("backup written")
}
