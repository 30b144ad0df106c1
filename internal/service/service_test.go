package service

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/goserg/heatbracket/internal/config"
	"github.com/goserg/heatbracket/internal/domain"
	"github.com/goserg/heatbracket/internal/scoring"
	"github.com/goserg/heatbracket/internal/simulation"
	"github.com/goserg/heatbracket/internal/validate"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*TournamentService, *fakeStorage, *test.Hook) {
	t.Helper()
	l, hook := test.NewNullLogger()
	l.SetLevel(logrus.DebugLevel)
	fs := newFakeStorage()
	s := New(fs, fs, config.Storage{BackupsKeep: 3}, l)
	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return s, fs, hook
}

func inscribed(t *testing.T, s *TournamentService, name string) domain.Tournament {
	t.Helper()
	ctx := context.Background()
	tour, err := s.Create(ctx, name, domain.KindLive)
	require.NoError(t, err)
	tour, err = s.Inscribe(ctx, tour.ID, simulation.RandomNames(domain.PlayersCount, rand.New(rand.NewSource(7))))
	require.NoError(t, err)
	return tour
}

func played(t *testing.T, s *TournamentService, name string, seed int64) domain.Tournament {
	t.Helper()
	ctx := context.Background()
	rng := rand.New(rand.NewSource(seed))
	tour := inscribed(t, s, name)
	var err error
	for number := 1; number <= domain.RoundsCount; number++ {
		tour, err = s.SubmitRound(ctx, tour.ID, simulation.RandomRound(number, tour.Players, rng))
		require.NoError(t, err)
	}
	return tour
}

func stripExportedAt(t *testing.T, data []byte) string {
	t.Helper()
	var snap map[string]any
	require.NoError(t, json.Unmarshal(data, &snap))
	delete(snap, "exportedAt")
	out, err := json.Marshal(snap)
	require.NoError(t, err)
	return string(out)
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		kind    domain.Kind
		wantErr error
	}{
		{name: "live", title: "Spring cup", kind: domain.KindLive},
		{name: "simulation", title: "Dry run", kind: domain.KindSimulation},
		{name: "blank name", title: "   ", kind: domain.KindLive, wantErr: ErrInvalidName},
		{name: "unknown kind", title: "Cup", kind: "league", wantErr: ErrInvalidKind},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, fs, _ := newService(t)
			got, err := s.Create(context.Background(), tt.title, tt.kind)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, fs.tournaments)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Empty(t, got.Players)
			assert.Empty(t, got.Rounds)
			assert.False(t, got.Completed)

			stored, err := s.Get(context.Background(), got.ID)
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(got, stored))
		})
	}
}

func TestInscribe(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _, _ := newService(t)

	tour, err := s.Create(ctx, "cup", domain.KindLive)
	require.NoError(t, err)

	names := simulation.RandomNames(domain.PlayersCount, rand.New(rand.NewSource(1)))
	dup := append([]string(nil), names...)
	dup[11] = "  " + dup[0] + " "
	_, err = s.Inscribe(ctx, tour.ID, dup)
	require.ErrorIs(t, err, validate.ErrPlayerName)

	_, err = s.Inscribe(ctx, tour.ID, names[:10])
	require.ErrorIs(t, err, validate.ErrPlayerCount)

	tour, err = s.Inscribe(ctx, tour.ID, names)
	require.NoError(t, err)
	require.Len(t, tour.Players, domain.PlayersCount)
	for i, p := range tour.Players {
		assert.Equal(t, names[i], p.Name)
		assert.NotEqual(t, uuid.Nil, p.ID)
		assert.Zero(t, p.Mastery)
	}

	_, err = s.Inscribe(ctx, tour.ID, names)
	require.ErrorIs(t, err, ErrAlreadyInscribed)

	_, err = s.Inscribe(ctx, uuid.New(), names)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitRound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _, _ := newService(t)
	rng := rand.New(rand.NewSource(3))

	empty, err := s.Create(ctx, "empty", domain.KindLive)
	require.NoError(t, err)
	_, err = s.SubmitRound(ctx, empty.ID, domain.Round{Number: 1})
	require.ErrorIs(t, err, ErrNotInscribed)

	tour := inscribed(t, s, "cup")
	_, err = s.SubmitRound(ctx, tour.ID, simulation.RandomRound(2, tour.Players, rng))
	require.ErrorIs(t, err, ErrRoundOrder)

	broken := simulation.RandomRound(1, tour.Players, rng)
	delete(broken.Tables, simulation.TableID(1))
	_, err = s.SubmitRound(ctx, tour.ID, broken)
	require.ErrorIs(t, err, validate.ErrTableCount)
	require.ErrorIs(t, err, validate.ErrPlayerAssignment)

	tour, err = s.SubmitRound(ctx, tour.ID, simulation.RandomRound(1, tour.Players, rng))
	require.NoError(t, err)
	assert.False(t, tour.Completed)
	require.Len(t, tour.Rounds, 1)
	require.Len(t, tour.Rounds[0].DifficultyBonus, domain.PlayersCount)
	for _, p := range tour.Players {
		assert.Zero(t, p.Mastery)
		assert.Zero(t, tour.Rounds[0].DifficultyBonus[p.ID])
	}

	_, err = s.Standings(ctx, tour.ID)
	require.ErrorIs(t, err, ErrIncomplete)

	tour, err = s.SubmitRound(ctx, tour.ID, simulation.RandomRound(2, tour.Players, rng))
	require.NoError(t, err)
	assert.True(t, tour.Completed)
	assert.Empty(t, cmp.Diff(scoring.FinalizeTournament(tour), tour))
	for _, p := range tour.Players {
		assert.Equal(t, scoring.ComputeMastery(p.ID, tour.Rounds), p.Mastery)
	}

	// A completed tournament takes no more rounds, whatever their number.
	for _, number := range []int{2, 3} {
		_, err = s.SubmitRound(ctx, tour.ID, simulation.RandomRound(number, tour.Players, rng))
		require.ErrorIs(t, err, ErrRoundOrder, "round %d", number)
		require.NotErrorIs(t, err, validate.ErrRoundNumber, "round %d", number)
	}
	stored, err := s.Get(ctx, tour.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Rounds, domain.RoundsCount)
}

func TestStandings(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _, _ := newService(t)
	tour := played(t, s, "cup", 11)

	got, err := s.Standings(ctx, tour.ID)
	require.NoError(t, err)
	require.Len(t, got.Rankings, domain.PlayersCount)
	assert.Empty(t, cmp.Diff(scoring.RankPlayers(tour), got.Rankings))
	for i := 1; i < len(got.Rankings); i++ {
		assert.LessOrEqual(t, scoring.Compare(got.Rankings[i-1], got.Rankings[i]), 0)
	}

	cached, ok := s.cache.Get(tour.ID)
	require.True(t, ok)
	assert.Equal(t, got.Rankings, cached)

	_, err = s.Standings(ctx, uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestEditRound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _, _ := newService(t)
	tour := played(t, s, "cup", 5)

	_, err := s.Standings(ctx, tour.ID)
	require.NoError(t, err)

	// Reverse the finishing order of every table in round 1.
	edited := tour.Rounds[0].Clone()
	edited.DifficultyBonus = nil
	for id, table := range edited.Tables {
		for i := range table.Results {
			table.Results[i].Position = domain.PlayersPerTable + 1 - table.Results[i].Position
		}
		edited.Tables[id] = table
	}

	got, err := s.EditRound(ctx, tour.ID, edited)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	for _, p := range got.Players {
		assert.Equal(t, scoring.ComputeMastery(p.ID, got.Rounds), p.Mastery)
	}
	_, cached := s.cache.Get(tour.ID)
	assert.False(t, cached)

	standings, err := s.Standings(ctx, tour.ID)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(scoring.RankPlayers(got), standings.Rankings))

	edited.Number = 3
	_, err = s.EditRound(ctx, tour.ID, edited)
	require.ErrorIs(t, err, ErrRoundOrder)
}

func TestArchive(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _, _ := newService(t)
	tour := inscribed(t, s, "cup")
	other := inscribed(t, s, "other")

	archived, err := s.Archive(ctx, tour.ID)
	require.NoError(t, err)
	assert.True(t, archived.Archived)

	_, err = s.SubmitRound(ctx, tour.ID, simulation.RandomRound(1, tour.Players, rand.New(rand.NewSource(1))))
	require.ErrorIs(t, err, ErrArchived)

	active, err := s.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, other.ID, active[0].ID)

	all, err := s.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, other.ID, all[0].ID)

	restored, err := s.Restore(ctx, tour.ID)
	require.NoError(t, err)
	assert.False(t, restored.Archived)
	active, err = s.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _, _ := newService(t)
	tour := played(t, s, "cup", 2)
	_, err := s.Standings(ctx, tour.ID)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, tour.ID))
	_, cached := s.cache.Get(tour.ID)
	assert.False(t, cached)
	_, err = s.Get(ctx, tour.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, s.Delete(ctx, tour.ID), ErrNotFound)
}

func TestBackupRotation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, fs, _ := newService(t)
	played(t, s, "cup", 9)

	backups, err := s.Backups(ctx)
	require.NoError(t, err)
	require.Len(t, backups, 3)
	// create, inscribe and two rounds were four saves.
	assert.Equal(t, []int{4, 3, 2}, []int{backups[0].ID, backups[1].ID, backups[2].ID})
	assert.Equal(t, 4, fs.nextBackup)

	latest, err := s.Export(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, stripExportedAt(t, latest), stripExportedAt(t, backups[0].Data))
}

func TestBackupFailureDoesNotFailSave(t *testing.T) {
	t.Parallel()
	s, fs, hook := newService(t)
	fs.failBackups = true

	_, err := s.Create(context.Background(), "cup", domain.KindLive)
	require.NoError(t, err)
	assert.Len(t, fs.tournaments, 1)

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == "backup failed" {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestExportImport(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _, _ := newService(t)
	first := played(t, s, "cup", 1)
	second := inscribed(t, s, "next")

	data, err := s.Export(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, first.ID))
	require.NoError(t, s.Delete(ctx, second.ID))

	require.NoError(t, s.Import(ctx, data))
	got, err := s.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Empty(t, cmp.Diff(second, got[0]))
	assert.Empty(t, cmp.Diff(first, got[1]))

	require.Error(t, s.Import(ctx, []byte(`{"version": 99, "tournaments": []}`)))
}

func TestRestoreBackup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _, _ := newService(t)
	tour := inscribed(t, s, "cup")

	backups, err := s.Backups(ctx)
	require.NoError(t, err)
	inscribedBackup := backups[0]

	_, err = s.Archive(ctx, tour.ID)
	require.NoError(t, err)

	require.NoError(t, s.RestoreBackup(ctx, inscribedBackup.ID))
	got, err := s.Get(ctx, tour.ID)
	require.NoError(t, err)
	assert.False(t, got.Archived)
	assert.Len(t, got.Players, domain.PlayersCount)

	after, err := s.Backups(ctx)
	require.NoError(t, err)
	assert.Equal(t, backups[0].ID+1, after[0].ID)

	require.Error(t, s.RestoreBackup(ctx, 999))
}

func TestSimulate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _, _ := newService(t)

	tour, err := s.Simulate(ctx, "practice", rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	assert.Equal(t, domain.KindSimulation, tour.Kind)
	assert.True(t, tour.Completed)
	require.Len(t, tour.Players, domain.PlayersCount)
	require.Len(t, tour.Rounds, domain.RoundsCount)

	standings, err := s.Standings(ctx, tour.ID)
	require.NoError(t, err)
	assert.Len(t, standings.Rankings, domain.PlayersCount)
}

func TestCareerCountsLiveTournamentsOnly(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _, _ := newService(t)
	played(t, s, "cup", 1)
	_, err := s.Simulate(ctx, "practice", rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	entries, err := s.Career(ctx)
	require.NoError(t, err)
	require.Len(t, entries, domain.PlayersCount)
	for _, e := range entries {
		assert.Equal(t, 1, e.Tournaments)
	}
}
