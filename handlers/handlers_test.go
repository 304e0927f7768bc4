package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Dosada05/codm-tournament/models"
	"github.com/Dosada05/codm-tournament/repositories"
	"github.com/Dosada05/codm-tournament/scoring"
	"github.com/Dosada05/codm-tournament/services"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type FakeBracketService struct {
	services.BracketService
	GeneratePhaseFunc func(ctx context.Context, tournamentID string, phase models.PhaseType) ([]*models.Match, error)
	ListMatchesFunc   func(ctx context.Context, tournamentID string, filter models.MatchFilter) ([]*models.Match, error)
}

func (f *FakeBracketService) GeneratePhase(ctx context.Context, tournamentID string, phase models.PhaseType) ([]*models.Match, error) {
	return f.GeneratePhaseFunc(ctx, tournamentID, phase)
}

func (f *FakeBracketService) ListMatches(ctx context.Context, tournamentID string, filter models.MatchFilter) ([]*models.Match, error) {
	return f.ListMatchesFunc(ctx, tournamentID, filter)
}

type FakeMatchService struct {
	RecordRoundResultFunc func(ctx context.Context, tournamentID, matchID string, input services.RecordRoundInput) (*services.RecordOutcome, error)
}

func (f *FakeMatchService) RecordRoundResult(ctx context.Context, tournamentID, matchID string, input services.RecordRoundInput) (*services.RecordOutcome, error) {
	return f.RecordRoundResultFunc(ctx, tournamentID, matchID, input)
}

type FakeTournamentService struct {
	services.TournamentService
	ListTournamentsFunc func(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error)
}

func (f *FakeTournamentService) ListTournaments(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	return f.ListTournamentsFunc(ctx, filter)
}

type FakeLeaderboardService struct {
	services.LeaderboardService
	UpsertFunc func(ctx context.Context, tournamentID string, mode models.GameMode, playerID string, deltaKills int) (*models.TournamentKillLeaderboard, error)
}

func (f *FakeLeaderboardService) UpsertKillLeaderboardEntry(ctx context.Context, tournamentID string, mode models.GameMode, playerID string, deltaKills int) (*models.TournamentKillLeaderboard, error) {
	return f.UpsertFunc(ctx, tournamentID, mode, playerID, deltaKills)
}

func serve(t *testing.T, method, pattern, target, body string, h http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	router := chi.NewRouter()
	router.MethodFunc(method, pattern, h)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{services.ErrTournamentNotFound, http.StatusNotFound},
		{fmt.Errorf("load: %w", services.ErrMatchNotFound), http.StatusNotFound},
		{services.ErrNoActiveTournament, http.StatusNotFound},
		{services.ErrMatchVersionConflict, http.StatusConflict},
		{services.ErrSubmissionInFlight, http.StatusConflict},
		{services.ErrPhaseStarted, http.StatusConflict},
		{errors.Join(services.ErrMatchCompleted, scoring.ErrMatchAlreadyCompleted), http.StatusConflict},
		{errors.Join(services.ErrValidationFailed, scoring.ErrNegativeKills), http.StatusUnprocessableEntity},
		{services.ErrNotEnoughTeams, http.StatusUnprocessableEntity},
		{services.ErrGroupStageIncomplete, http.StatusBadRequest},
		{services.ErrWrongGameMode, http.StatusBadRequest},
		{services.ErrArchiveDisabled, http.StatusServiceUnavailable},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			mapServiceErrorToHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.want, rec.Code)
			msg := decodeError(t, rec)
			if tt.want == http.StatusInternalServerError {
				assert.NotContains(t, msg, "connection reset")
			} else {
				assert.Contains(t, msg, tt.err.Error())
			}
		})
	}
}

func TestRecordRound(t *testing.T) {
	var gotTournament, gotMatch string
	var gotInput services.RecordRoundInput
	ms := &FakeMatchService{
		RecordRoundResultFunc: func(_ context.Context, tournamentID, matchID string, input services.RecordRoundInput) (*services.RecordOutcome, error) {
			gotTournament, gotMatch, gotInput = tournamentID, matchID, input
			return &services.RecordOutcome{
				Match: &models.Match{ID: matchID, Status: models.MatchStatusInProgress, Version: 2},
			}, nil
		},
	}
	h := NewMatchHandler(&FakeBracketService{}, ms)

	body := `{
		"expectedVersion": 1,
		"winnerId": "team-a",
		"team1PlayerKills": [{"playerId": "p1", "playerName": "Ghost", "kills": 7}],
		"team2PlayerKills": []
	}`
	rec := serve(t, http.MethodPost, "/tournaments/{tournamentID}/matches/{matchID}/rounds",
		"/tournaments/t-1/matches/m-9/rounds", body, h.RecordRound)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "t-1", gotTournament)
	assert.Equal(t, "m-9", gotMatch)
	assert.Equal(t, 1, gotInput.ExpectedVersion)
	assert.Equal(t, "team-a", gotInput.WinnerID)
	assert.Equal(t, []models.PlayerKills{{PlayerID: "p1", PlayerName: "Ghost", Kills: 7}}, gotInput.Team1PlayerKills)

	var outcome services.RecordOutcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.Equal(t, 2, outcome.Match.Version)
}

func TestRecordRoundRejectsBadBodies(t *testing.T) {
	ms := &FakeMatchService{
		RecordRoundResultFunc: func(context.Context, string, string, services.RecordRoundInput) (*services.RecordOutcome, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	h := NewMatchHandler(&FakeBracketService{}, ms)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty", "", "body must not be empty"},
		{"unknown field", `{"winner": "team-a"}`, "unknown key"},
		{"wrong type", `{"expectedVersion": "one"}`, `"expectedVersion"`},
		{"two values", `{"winnerId": "a"}{"winnerId": "b"}`, "single JSON value"},
		{"malformed", `{"winnerId": `, "badly-formed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, http.MethodPost, "/tournaments/{tournamentID}/matches/{matchID}/rounds",
				"/tournaments/t-1/matches/m-9/rounds", tt.body, h.RecordRound)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decodeError(t, rec), tt.want)
		})
	}
}

func TestRecordRoundVersionConflict(t *testing.T) {
	ms := &FakeMatchService{
		RecordRoundResultFunc: func(context.Context, string, string, services.RecordRoundInput) (*services.RecordOutcome, error) {
			return nil, services.ErrMatchVersionConflict
		},
	}
	h := NewMatchHandler(&FakeBracketService{}, ms)

	rec := serve(t, http.MethodPost, "/tournaments/{tournamentID}/matches/{matchID}/rounds",
		"/tournaments/t-1/matches/m-9/rounds", `{"expectedVersion": 3, "winnerId": "team-a"}`, h.RecordRound)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestListMatchesFilter(t *testing.T) {
	var got models.MatchFilter
	bs := &FakeBracketService{
		ListMatchesFunc: func(_ context.Context, _ string, filter models.MatchFilter) ([]*models.Match, error) {
			got = filter
			return []*models.Match{}, nil
		},
	}
	h := NewMatchHandler(bs, &FakeMatchService{})

	rec := serve(t, http.MethodGet, "/tournaments/{tournamentID}/matches",
		"/tournaments/t-1/matches?phase=elimination&round=2&status=pending", "", h.ListMatches)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got.Round)
	assert.Equal(t, 2, *got.Round)
	assert.Equal(t, models.PhaseElimination, got.Phase)
	assert.Equal(t, models.MatchStatusPending, got.Status)

	for _, query := range []string{"phase=final", "bloc=C", "round=0", "round=two", "status=done"} {
		t.Run(query, func(t *testing.T) {
			rec := serve(t, http.MethodGet, "/tournaments/{tournamentID}/matches",
				"/tournaments/t-1/matches?"+query, "", h.ListMatches)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGeneratePhase(t *testing.T) {
	bs := &FakeBracketService{
		GeneratePhaseFunc: func(_ context.Context, _ string, phase models.PhaseType) ([]*models.Match, error) {
			if phase == models.PhasePlayIn {
				return nil, services.ErrPhaseNotAvailable
			}
			return []*models.Match{{ID: "m-1", PhaseType: phase}}, nil
		},
	}
	h := NewMatchHandler(bs, &FakeMatchService{})
	pattern := "/tournaments/{tournamentID}/phases/{phase}"

	rec := serve(t, http.MethodPost, pattern, "/tournaments/t-1/phases/group_stage", "", h.GeneratePhase)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"m-1"`)

	rec = serve(t, http.MethodPost, pattern, "/tournaments/t-1/phases/play_in", "", h.GeneratePhase)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, http.MethodPost, pattern, "/tournaments/t-1/phases/swiss", "", h.GeneratePhase)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec), "invalid phase")
}

func TestListTournamentsQuery(t *testing.T) {
	var got repositories.ListTournamentsFilter
	ts := &FakeTournamentService{
		ListTournamentsFunc: func(_ context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
			got = filter
			return []models.Tournament{}, nil
		},
	}
	h := NewTournamentHandler(ts, nil)

	rec := serve(t, http.MethodGet, "/tournaments", "/tournaments?game_mode=multiplayer&status=active&offset=10", "", h.ListHandler)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got.GameMode)
	require.NotNil(t, got.Status)
	assert.Equal(t, models.GameModeMultiplayer, *got.GameMode)
	assert.Equal(t, models.TournamentStatusActive, *got.Status)
	assert.Equal(t, 20, got.Limit)
	assert.Equal(t, 10, got.Offset)

	for _, query := range []string{"game_mode=zombies", "status=archived", "limit=0", "offset=-1"} {
		t.Run(query, func(t *testing.T) {
			rec := serve(t, http.MethodGet, "/tournaments", "/tournaments?"+query, "", h.ListHandler)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestAddManualEntry(t *testing.T) {
	ls := &FakeLeaderboardService{
		UpsertFunc: func(_ context.Context, tournamentID string, mode models.GameMode, playerID string, deltaKills int) (*models.TournamentKillLeaderboard, error) {
			if deltaKills < 0 {
				return nil, services.ErrValidationFailed
			}
			return &models.TournamentKillLeaderboard{
				TournamentID: tournamentID,
				GameMode:     mode,
				Entries: models.KillLeaderboardEntries{{
					PlayerID:  playerID,
					KillStats: models.KillStats{TotalKills: deltaKills, GamesPlayed: 1},
					Position:  1,
				}},
			}, nil
		},
	}
	h := NewLeaderboardHandler(ls)
	pattern := "/tournaments/{tournamentID}/leaderboards/{gameMode}/entries"

	rec := serve(t, http.MethodPost, pattern, "/tournaments/t-1/leaderboards/battle_royale/entries",
		`{"playerId": "p-4", "deltaKills": 6}`, h.AddManualEntry)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalKills": 6`)

	rec = serve(t, http.MethodPost, pattern, "/tournaments/t-1/leaderboards/battle_royale/entries",
		`{"playerId": "p-4", "deltaKills": -2}`, h.AddManualEntry)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = serve(t, http.MethodPost, pattern, "/tournaments/t-1/leaderboards/zombies/entries",
		`{"playerId": "p-4", "deltaKills": 1}`, h.AddManualEntry)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://codm.example"})

	req := httptest.NewRequest(http.MethodGet, "/ws/tournaments/t-1", nil)
	assert.True(t, check(req), "requests without Origin are not browsers")

	req.Header.Set("Origin", "https://codm.example")
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, check(req))

	req.Header.Set("Origin", "https://evil.example")
	assert.True(t, originChecker([]string{"*"})(req))
	assert.True(t, originChecker(nil)(req))
}
