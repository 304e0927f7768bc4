package services

import (
	"context"
	"testing"
	"time"

	"github.com/Dosada05/codm-tournament/brackets"
	"github.com/Dosada05/codm-tournament/models"
	"github.com/Dosada05/codm-tournament/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTournamentService(env *testEnv) TournamentService {
	return NewTournamentService(env.tx, env.tournaments, env.matches, env.teams, env.leaderboards, env.notifier, discardLogger())
}

func TestTournamentService_CreateTournament(t *testing.T) {
	env := newTestEnv()
	svc := newTournamentService(env)
	ctx := context.Background()

	created, err := svc.CreateTournament(ctx, CreateTournamentInput{
		Name:     "  Winter Clash ",
		GameMode: models.GameModeMultiplayer,
		CustomFormat: models.CustomFormat{
			TournamentFormat: models.FormatGroupsThenElimination,
			GroupStage:       &models.GroupStageSettings{TeamsPerGroup: 5},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Winter Clash", created.Name)
	assert.Equal(t, models.TournamentStatusDraft, created.Status)
	assert.Equal(t, 3, created.CustomFormat.BestOf)
	assert.Equal(t, &models.GroupStageSettings{TeamsPerGroup: 5, QualifiersPerGroup: 2}, created.CustomFormat.GroupStage)

	_, err = svc.CreateTournament(ctx, CreateTournamentInput{Name: "Winter Clash", GameMode: models.GameModeBattleRoyale})
	assert.ErrorIs(t, err, ErrTournamentNameConflict)
}

func TestTournamentService_CreateTournament_Validation(t *testing.T) {
	deadline := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	early := deadline.Add(-time.Hour)

	tests := []struct {
		name  string
		input CreateTournamentInput
	}{
		{name: "blank name", input: CreateTournamentInput{Name: "   ", GameMode: models.GameModeBattleRoyale}},
		{name: "unknown mode", input: CreateTournamentInput{Name: "Cup", GameMode: "search_and_destroy"}},
		{name: "bestOf 4", input: CreateTournamentInput{Name: "Cup", GameMode: models.GameModeMultiplayer, CustomFormat: models.CustomFormat{BestOf: 4}}},
		{name: "odd bloc A", input: CreateTournamentInput{Name: "Cup", GameMode: models.GameModeMultiplayer, CustomFormat: models.CustomFormat{PlayIn: &models.PlayInSettings{BlocATeams: 3}}}},
		{name: "result before deadline", input: CreateTournamentInput{Name: "Cup", GameMode: models.GameModeBattleRoyale, DeadlineRegister: &deadline, DateResult: &early}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			_, err := newTournamentService(env).CreateTournament(context.Background(), tt.input)
			assert.ErrorIs(t, err, ErrValidationFailed)
			assert.Empty(t, env.store.tournaments)
		})
	}
}

func TestTournamentService_UpdateTournament(t *testing.T) {
	env := newTestEnv()
	svc := newTournamentService(env)
	ctx := context.Background()
	tournament, _ := env.seedTournament(models.GameModeMultiplayer, models.CustomFormat{}, 4)

	name := "Renamed Cup"
	groups := groupsFormat(4, 1)
	updated, err := svc.UpdateTournament(ctx, tournament.ID, UpdateTournamentInput{Name: &name, CustomFormat: &groups})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, models.FormatGroupsThenElimination, updated.CustomFormat.TournamentFormat)
	assert.Equal(t, []string{brackets.EventTournamentUpdated}, env.notifier.Types())

	_, err = env.brackets.GeneratePhase(ctx, tournament.ID, models.PhaseGroupStage)
	require.NoError(t, err)

	direct := models.CustomFormat{}
	_, err = svc.UpdateTournament(ctx, tournament.ID, UpdateTournamentInput{CustomFormat: &direct})
	assert.ErrorIs(t, err, ErrFormatLocked)

	// dates may still move
	deadline := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	updated, err = svc.UpdateTournament(ctx, tournament.ID, UpdateTournamentInput{DeadlineRegister: &deadline})
	require.NoError(t, err)
	assert.Equal(t, deadline, *updated.DeadlineRegister)

	_, err = svc.UpdateTournament(ctx, "missing", UpdateTournamentInput{Name: &name})
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestTournamentService_ActivateTournament(t *testing.T) {
	env := newTestEnv()
	svc := newTournamentService(env)
	ctx := context.Background()

	old, _ := env.seedTournament(models.GameModeBattleRoyale, models.CustomFormat{}, 0)
	otherMode, _ := env.seedTournament(models.GameModeMultiplayer, models.CustomFormat{}, 0)
	next, _ := env.seedTournament(models.GameModeBattleRoyale, models.CustomFormat{}, 0)
	require.NoError(t, env.tournaments.UpdateStatus(ctx, nil, next.ID, models.TournamentStatusDraft))

	activated, err := svc.ActivateTournament(ctx, next.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TournamentStatusActive, activated.Status)

	active, err := svc.GetActiveTournament(ctx, models.GameModeBattleRoyale)
	require.NoError(t, err)
	assert.Equal(t, next.ID, active.ID)

	demoted, err := svc.GetTournament(ctx, old.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TournamentStatusDraft, demoted.Status)

	untouched, err := svc.GetTournament(ctx, otherMode.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TournamentStatusActive, untouched.Status)

	require.NoError(t, env.tournaments.UpdateStatus(ctx, nil, old.ID, models.TournamentStatusCompleted))
	_, err = svc.ActivateTournament(ctx, old.ID)
	assert.ErrorIs(t, err, ErrTournamentCompleted)

	_, err = svc.GetActiveTournament(ctx, "")
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestTournamentService_GetActiveTournament_None(t *testing.T) {
	env := newTestEnv()
	_, err := newTournamentService(env).GetActiveTournament(context.Background(), models.GameModeMultiplayer)
	assert.ErrorIs(t, err, ErrNoActiveTournament)
}

func TestTournamentService_ListTournaments(t *testing.T) {
	env := newTestEnv()
	svc := newTournamentService(env)
	ctx := context.Background()
	env.seedTournament(models.GameModeBattleRoyale, models.CustomFormat{}, 0)
	env.seedTournament(models.GameModeMultiplayer, models.CustomFormat{}, 0)

	mode := models.GameModeMultiplayer
	list, err := svc.ListTournaments(ctx, repositories.ListTournamentsFilter{GameMode: &mode})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mode, list[0].GameMode)

	bad := models.GameMode("arena")
	_, err = svc.ListTournaments(ctx, repositories.ListTournamentsFilter{GameMode: &bad})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestTournamentService_RecomputeStatsAndOverview(t *testing.T) {
	env := newTestEnv()
	svc := newTournamentService(env)
	ctx := context.Background()
	tournament, teams := env.seedTournament(models.GameModeBattleRoyale, models.CustomFormat{}, 3)

	pending := env.gen.Team(tournament.ID, 2)
	pending.Status = models.TeamStatusIncomplete
	pending.CreatedAt = teams[2].CreatedAt.Add(time.Minute)
	env.store.putTeam(pending)

	matches, err := env.brackets.GeneratePhase(ctx, tournament.ID, models.PhaseElimination)
	require.NoError(t, err)
	for _, m := range matches {
		if !m.IsBye {
			env.win(t, m, m.Team1ID)
		}
	}

	stats, err := svc.RecomputeStats(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TournamentStats{
		TeamCount:        4,
		ValidatedTeams:   3,
		PlayerCount:      3*4 + 2,
		MatchCount:       2,
		MatchesCompleted: 1,
		TotalKills:       8,
	}, *stats)

	stored, err := svc.GetTournament(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, *stats, stored.Stats)

	overview, err := svc.GetOverview(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, tournament.ID, overview.Tournament.ID)
	assert.Equal(t, 4, overview.TeamCount)
	assert.Len(t, overview.Matches, 3, "bye, semifinal and the generated final")
	assert.Len(t, overview.Leaderboard.Entries, 8)

	_, err = svc.RecomputeStats(ctx, "missing")
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestComputeStats_SkipsByes(t *testing.T) {
	winner := "a"
	matches := []*models.Match{
		{IsBye: true, Status: models.MatchStatusCompleted, WinnerID: &winner},
		{Status: models.MatchStatusPending},
	}
	assert.Equal(t, models.TournamentStats{MatchCount: 1}, ComputeStats(nil, matches))
}

func TestTournamentService_DeleteTournament(t *testing.T) {
	env := newTestEnv()
	svc := newTournamentService(env)
	tournament, _ := env.seedTournament(models.GameModeBattleRoyale, models.CustomFormat{}, 0)

	require.NoError(t, svc.DeleteTournament(context.Background(), tournament.ID))
	assert.ErrorIs(t, svc.DeleteTournament(context.Background(), tournament.ID), ErrTournamentNotFound)
}
