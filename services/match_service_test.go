package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/codm-tournament/brackets"
	"github.com/Dosada05/codm-tournament/guard"
	"github.com/Dosada05/codm-tournament/models"
	"github.com/Dosada05/codm-tournament/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// finalFixture is a best-of-3 multiplayer final between two teams.
func finalFixture(t *testing.T) (*testEnv, *models.Tournament, []*models.Team, *models.Match) {
	t.Helper()
	env := newTestEnv()
	tournament, teams := env.seedTournament(models.GameModeMultiplayer, models.CustomFormat{BestOf: 3}, 2)
	matches, err := env.brackets.GeneratePhase(context.Background(), tournament.ID, models.PhaseElimination)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	return env, tournament, teams, matches[0]
}

func TestMatchService_RecordRoundResult_BestOfThree(t *testing.T) {
	env, tournament, teams, final := finalFixture(t)
	ctx := context.Background()
	team1, team2 := final.Team1ID, final.Team2ID
	require.ElementsMatch(t, []string{teams[0].ID, teams[1].ID}, []string{team1, team2})

	// round 1: team 1 wins, everybody 2 kills
	out, err := env.recorder.RecordRoundResult(ctx, tournament.ID, final.ID, RecordRoundInput{
		ExpectedVersion: 1,
		RoundSubmission: env.roundFor(final, team1, 2),
	})
	require.NoError(t, err)
	m := out.Match
	assert.Equal(t, models.MatchStatusInProgress, m.Status)
	assert.Nil(t, m.WinnerID, "winner stays empty until the series is decided")
	require.NotNil(t, m.LastRoundWinnerID)
	assert.Equal(t, team1, *m.LastRoundWinnerID)
	assert.Equal(t, 2, m.Version)
	assert.Equal(t, 3, m.MatchResult.BestOf)
	assert.Equal(t, 1, m.MatchResult.Team1Stats.RoundsWon)
	assert.Equal(t, 10, m.MatchResult.Team1Stats.TotalKills)
	assert.False(t, out.TournamentCompleted)
	assert.Equal(t, []string{brackets.EventMatchUpdated, brackets.EventLeaderboardUpdated}, env.notifier.Types())

	// round 2: team 2 wins, one kill each
	out, err = env.recorder.RecordRoundResult(ctx, tournament.ID, final.ID, RecordRoundInput{
		ExpectedVersion: 2,
		RoundSubmission: env.roundFor(final, team2, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusInProgress, out.Match.Status)
	assert.Equal(t, "1-1", scoring.FinalScore(out.Match.MatchResult))

	// round 3: team 1 takes the series with zero kills all round
	out, err = env.recorder.RecordRoundResult(ctx, tournament.ID, final.ID, RecordRoundInput{
		ExpectedVersion: 3,
		RoundSubmission: scoring.RoundSubmission{WinnerID: team1},
	})
	require.NoError(t, err)
	m = out.Match
	assert.Equal(t, models.MatchStatusCompleted, m.Status)
	require.NotNil(t, m.WinnerID)
	assert.Equal(t, team1, *m.WinnerID)
	assert.Equal(t, "2-1", m.MatchResult.FinalScore)
	assert.Len(t, m.MatchResult.Rounds, 3)
	assert.Len(t, m.MatchResult.Rounds[2].Team1PlayerStats, 5, "missing players are filled with zero kills")
	assert.True(t, out.TournamentCompleted)

	// every player played three games: 2 + 1 + 0 kills
	require.Len(t, out.Leaderboard.Entries, 10)
	for i, e := range out.Leaderboard.Entries {
		assert.Equal(t, i+1, e.Position)
		assert.Equal(t, models.KillStats{TotalKills: 3, GamesPlayed: 3, AverageKillsPerGame: 1, BestSingleGame: 2}, e.KillStats)
	}

	stored, err := env.tournaments.GetByID(ctx, nil, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TournamentStatusCompleted, stored.Status)
	assert.Len(t, env.guard.acquired, 3)
	assert.Equal(t, 3, env.guard.released)
	assert.Equal(t, guard.MatchKey(final.ID), env.guard.acquired[0])
}

func TestMatchService_RecordRoundResult_SingleGameMode(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	tournament, _ := env.seedTournament(models.GameModeBattleRoyale, models.CustomFormat{BestOf: 5}, 2)
	matches, err := env.brackets.GeneratePhase(ctx, tournament.ID, models.PhaseElimination)
	require.NoError(t, err)
	m := matches[0]

	out, err := env.recorder.RecordRoundResult(ctx, tournament.ID, m.ID, RecordRoundInput{
		ExpectedVersion: 1,
		RoundSubmission: env.roundFor(m, m.Team2ID, 3),
	})
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusCompleted, out.Match.Status)
	assert.Equal(t, models.ResultKindSingleGame, out.Match.MatchResult.Kind)
	assert.Equal(t, 1, out.Match.MatchResult.BestOf)
	assert.Equal(t, "12-12", out.Match.MatchResult.FinalScore)
	assert.Equal(t, m.Team2ID, *out.Match.WinnerID)
}

func TestMatchService_RecordRoundResult_Rejections(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		input   func(env *testEnv, m *models.Match) (tournamentID, matchID string, in RecordRoundInput)
		setup   func(t *testing.T, env *testEnv)
		wantErr []error
	}{
		{
			name: "no winner",
			input: func(env *testEnv, m *models.Match) (string, string, RecordRoundInput) {
				return m.TournamentID, m.ID, RecordRoundInput{ExpectedVersion: 1}
			},
			wantErr: []error{ErrNoWinnerSelected},
		},
		{
			name: "missing version",
			input: func(env *testEnv, m *models.Match) (string, string, RecordRoundInput) {
				return m.TournamentID, m.ID, RecordRoundInput{RoundSubmission: env.roundFor(m, m.Team1ID, 1)}
			},
			wantErr: []error{ErrValidationFailed},
		},
		{
			name: "stale version",
			input: func(env *testEnv, m *models.Match) (string, string, RecordRoundInput) {
				return m.TournamentID, m.ID, RecordRoundInput{ExpectedVersion: 7, RoundSubmission: env.roundFor(m, m.Team1ID, 1)}
			},
			wantErr: []error{ErrMatchVersionConflict},
		},
		{
			name: "winner outside the match",
			input: func(env *testEnv, m *models.Match) (string, string, RecordRoundInput) {
				return m.TournamentID, m.ID, RecordRoundInput{ExpectedVersion: 1, RoundSubmission: scoring.RoundSubmission{WinnerID: "stranger"}}
			},
			wantErr: []error{ErrValidationFailed, scoring.ErrWinnerNotInMatch},
		},
		{
			name: "negative kills",
			input: func(env *testEnv, m *models.Match) (string, string, RecordRoundInput) {
				sub := env.roundFor(m, m.Team1ID, 1)
				sub.Team2PlayerKills[0].Kills = -1
				return m.TournamentID, m.ID, RecordRoundInput{ExpectedVersion: 1, RoundSubmission: sub}
			},
			wantErr: []error{ErrValidationFailed, scoring.ErrNegativeKills},
		},
		{
			name: "player not on roster",
			input: func(env *testEnv, m *models.Match) (string, string, RecordRoundInput) {
				sub := env.roundFor(m, m.Team1ID, 1)
				sub.Team1PlayerKills = append(sub.Team1PlayerKills, models.PlayerKills{PlayerID: "ringer", Kills: 9})
				return m.TournamentID, m.ID, RecordRoundInput{ExpectedVersion: 1, RoundSubmission: sub}
			},
			wantErr: []error{ErrValidationFailed, scoring.ErrUnknownPlayer},
		},
		{
			name: "match of another tournament",
			input: func(env *testEnv, m *models.Match) (string, string, RecordRoundInput) {
				return "other", m.ID, RecordRoundInput{ExpectedVersion: 1, RoundSubmission: env.roundFor(m, m.Team1ID, 1)}
			},
			wantErr: []error{ErrMatchNotFound},
		},
		{
			name: "unknown match",
			input: func(env *testEnv, m *models.Match) (string, string, RecordRoundInput) {
				return m.TournamentID, "nope", RecordRoundInput{ExpectedVersion: 1, RoundSubmission: env.roundFor(m, m.Team1ID, 1)}
			},
			wantErr: []error{ErrMatchNotFound},
		},
		{
			name: "submission already in flight",
			setup: func(t *testing.T, env *testEnv) {
				env.guard.AcquireFunc = func(context.Context, string) (func(), error) { return nil, guard.ErrInFlight }
			},
			input: func(env *testEnv, m *models.Match) (string, string, RecordRoundInput) {
				return m.TournamentID, m.ID, RecordRoundInput{ExpectedVersion: 1, RoundSubmission: env.roundFor(m, m.Team1ID, 1)}
			},
			wantErr: []error{ErrSubmissionInFlight},
		},
		{
			name: "tournament already completed",
			setup: func(t *testing.T, env *testEnv) {
				for id := range env.store.tournaments {
					require.NoError(t, env.tournaments.UpdateStatus(ctx, nil, id, models.TournamentStatusCompleted))
				}
			},
			input: func(env *testEnv, m *models.Match) (string, string, RecordRoundInput) {
				return m.TournamentID, m.ID, RecordRoundInput{ExpectedVersion: 1, RoundSubmission: env.roundFor(m, m.Team1ID, 1)}
			},
			wantErr: []error{ErrTournamentCompleted},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, _, _, final := finalFixture(t)
			if tt.setup != nil {
				tt.setup(t, env)
			}
			tid, mid, in := tt.input(env, final)

			out, err := env.recorder.RecordRoundResult(ctx, tid, mid, in)
			require.Error(t, err)
			assert.Nil(t, out)
			for _, want := range tt.wantErr {
				assert.ErrorIs(t, err, want)
			}

			stored := env.store.match(final.ID)
			assert.Equal(t, 1, stored.Version)
			assert.Nil(t, stored.MatchResult)
			assert.Empty(t, env.store.subs)
			assert.NotContains(t, env.notifier.Types(), brackets.EventMatchUpdated)
		})
	}
}

func TestMatchService_RecordRoundResult_ByeIsRejected(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	tournament, _ := env.seedTournament(models.GameModeMultiplayer, models.CustomFormat{}, 3)
	matches, err := env.brackets.GeneratePhase(ctx, tournament.ID, models.PhaseElimination)
	require.NoError(t, err)

	var bye *models.Match
	for _, m := range matches {
		if m.IsBye {
			bye = m
		}
	}
	require.NotNil(t, bye)

	_, err = env.recorder.RecordRoundResult(ctx, tournament.ID, bye.ID, RecordRoundInput{
		ExpectedVersion: bye.Version,
		RoundSubmission: scoring.RoundSubmission{WinnerID: bye.Team1ID},
	})
	// a bye is stored completed, which is reported first
	assert.ErrorIs(t, err, ErrMatchCompleted)
}

func TestMatchService_RecordRoundResult_RejectedPlayersNotScored(t *testing.T) {
	env, tournament, teams, final := finalFixture(t)
	ctx := context.Background()

	benched := teams[0].Players[4]
	require.NoError(t, env.teams.UpdatePlayerStatus(ctx, nil, benched.ID, models.PlayerStatusRejected))

	out, err := env.recorder.RecordRoundResult(ctx, tournament.ID, final.ID, RecordRoundInput{
		ExpectedVersion: 1,
		RoundSubmission: scoring.RoundSubmission{WinnerID: final.Team1ID},
	})
	require.NoError(t, err)
	assert.Len(t, out.Leaderboard.Entries, 9)
	for _, e := range out.Leaderboard.Entries {
		assert.NotEqual(t, benched.ID, e.PlayerID)
	}
}

func TestMatchService_RecordRoundResult_ConcurrentSubmissions(t *testing.T) {
	env, tournament, _, final := finalFixture(t)
	ctx := context.Background()

	// the real in-memory guard instead of the recording fake
	env.recorder.guard = guard.NewMemoryGuard(time.Minute)
	sub := env.roundFor(final, final.Team1ID, 1)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		rejected []error
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.recorder.RecordRoundResult(ctx, tournament.ID, final.ID, RecordRoundInput{ExpectedVersion: 1, RoundSubmission: sub})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
				return
			}
			rejected = append(rejected, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok, "exactly one submission of version 1 may land")
	for _, err := range rejected {
		assert.True(t, errorIsAny(err, ErrSubmissionInFlight, ErrMatchVersionConflict), "unexpected error %v", err)
	}
	stored := env.store.match(final.ID)
	assert.Equal(t, 2, stored.Version)
	assert.Len(t, stored.MatchResult.Rounds, 1)
}
