package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/goserg/heatbracket/internal/domain"
	"github.com/goserg/heatbracket/internal/storage"

	"github.com/google/uuid"
)

type fakeStorage struct {
	mu          sync.Mutex
	tournaments map[uuid.UUID]domain.Tournament
	backups     []domain.Backup
	nextBackup  int
	failBackups bool
}

var _ storage.TournamentStorage = (*fakeStorage)(nil)
var _ storage.BackupStorage = (*fakeStorage)(nil)

func newFakeStorage() *fakeStorage {
	return &fakeStorage{tournaments: make(map[uuid.UUID]domain.Tournament)}
}

func (f *fakeStorage) ListTournaments(_ context.Context) ([]domain.Tournament, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Tournament, 0, len(f.tournaments))
	for _, t := range f.tournaments {
		out = append(out, t.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeStorage) GetTournament(_ context.Context, id uuid.UUID) (domain.Tournament, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tournaments[id]
	if !ok {
		return domain.Tournament{}, storage.ErrNotFound
	}
	return t.Clone(), nil
}

func (f *fakeStorage) SaveTournament(_ context.Context, t domain.Tournament) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tournaments[t.ID] = t.Clone()
	return nil
}

func (f *fakeStorage) DeleteTournament(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tournaments[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.tournaments, id)
	return nil
}

func (f *fakeStorage) ImportTournaments(_ context.Context, tournaments []domain.Tournament) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tournaments = make(map[uuid.UUID]domain.Tournament, len(tournaments))
	for _, t := range tournaments {
		f.tournaments[t.ID] = t.Clone()
	}
	return nil
}

func (f *fakeStorage) CreateBackup(_ context.Context, data []byte) (domain.Backup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failBackups {
		return domain.Backup{}, errors.New("disk full")
	}
	f.nextBackup++
	b := domain.Backup{ID: f.nextBackup, CreatedAt: time.Now().UTC(), Data: data}
	f.backups = append([]domain.Backup{b}, f.backups...)
	return b, nil
}

func (f *fakeStorage) ListBackups(_ context.Context) ([]domain.Backup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Backup(nil), f.backups...), nil
}

func (f *fakeStorage) GetBackup(_ context.Context, id int) (domain.Backup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.backups {
		if b.ID == id {
			return b, nil
		}
	}
	return domain.Backup{}, storage.ErrNotFound
}

func (f *fakeStorage) PruneBackups(_ context.Context, keep int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.backups) > keep {
		f.backups = f.backups[:keep]
	}
	return nil
}
