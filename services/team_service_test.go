package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/Dosada05/codm-tournament/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTeamService(env *testEnv) TeamService {
	return NewTeamService(env.tx, env.tournaments, env.teams, env.notifier, discardLogger())
}

func roster(n int) []RegisterPlayerInput {
	players := make([]RegisterPlayerInput, n)
	for i := range players {
		players[i] = RegisterPlayerInput{Pseudo: fmt.Sprintf("player%d", i+1), Country: "CI"}
	}
	return players
}

func TestTeamService_RegisterTeam(t *testing.T) {
	env := newTestEnv()
	svc := newTeamService(env)
	ctx := context.Background()
	tournament, _ := env.seedTournament(models.GameModeBattleRoyale, models.CustomFormat{}, 0)

	team, err := svc.RegisterTeam(ctx, tournament.ID, RegisterTeamInput{Name: " Ghost Unit ", Players: roster(3)})
	require.NoError(t, err)
	assert.Equal(t, "Ghost Unit", team.Name)
	assert.Equal(t, models.TeamStatusIncomplete, team.Status)
	require.NotNil(t, team.Captain)
	assert.Equal(t, "player1", team.Captain.Pseudo, "first player captains by default")
	for _, p := range team.Players {
		assert.Equal(t, models.PlayerStatusPending, p.Status)
	}

	full := roster(5)
	full[2].IsCaptain = true
	team, err = svc.RegisterTeam(ctx, tournament.ID, RegisterTeamInput{Name: "Full Squad", Players: full})
	require.NoError(t, err)
	assert.Equal(t, models.TeamStatusComplete, team.Status)
	assert.Equal(t, "player3", team.Captain.Pseudo)

	_, err = svc.RegisterTeam(ctx, tournament.ID, RegisterTeamInput{Name: "Full Squad", Players: roster(4)})
	assert.ErrorIs(t, err, ErrTeamNameConflict)

	list, err := svc.ListTeams(ctx, tournament.ID, nil)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestTeamService_RegisterTeam_Validation(t *testing.T) {
	twoCaptains := roster(4)
	twoCaptains[0].IsCaptain, twoCaptains[1].IsCaptain = true, true
	duplicate := roster(4)
	duplicate[3].Pseudo = "PLAYER1"
	blank := roster(4)
	blank[1].Pseudo = "  "

	tests := []struct {
		name  string
		input RegisterTeamInput
	}{
		{name: "no name", input: RegisterTeamInput{Players: roster(4)}},
		{name: "no players", input: RegisterTeamInput{Name: "Empty"}},
		{name: "too many players", input: RegisterTeamInput{Name: "Crowd", Players: roster(6)}},
		{name: "two captains", input: RegisterTeamInput{Name: "Chiefs", Players: twoCaptains}},
		{name: "duplicate pseudo", input: RegisterTeamInput{Name: "Twins", Players: duplicate}},
		{name: "blank pseudo", input: RegisterTeamInput{Name: "Nobody", Players: blank}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			tournament, _ := env.seedTournament(models.GameModeBattleRoyale, models.CustomFormat{}, 0)
			_, err := newTeamService(env).RegisterTeam(context.Background(), tournament.ID, tt.input)
			assert.ErrorIs(t, err, ErrValidationFailed)
			assert.Empty(t, env.store.teams)
		})
	}
}

func TestTeamService_RegisterTeam_ClosedTournament(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	tournament, _ := env.seedTournament(models.GameModeBattleRoyale, models.CustomFormat{}, 0)
	require.NoError(t, env.tournaments.UpdateStatus(ctx, nil, tournament.ID, models.TournamentStatusCompleted))

	_, err := newTeamService(env).RegisterTeam(ctx, tournament.ID, RegisterTeamInput{Name: "Late", Players: roster(4)})
	assert.ErrorIs(t, err, ErrTournamentCompleted)

	_, err = newTeamService(env).RegisterTeam(ctx, "missing", RegisterTeamInput{Name: "Lost", Players: roster(4)})
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestTeamService_PlayerValidationDrivesTeamStatus(t *testing.T) {
	env := newTestEnv()
	svc := newTeamService(env)
	ctx := context.Background()
	tournament, _ := env.seedTournament(models.GameModeBattleRoyale, models.CustomFormat{}, 0)

	team, err := svc.RegisterTeam(ctx, tournament.ID, RegisterTeamInput{Name: "Night Owls", Players: roster(5)})
	require.NoError(t, err)

	for _, p := range team.Players[:3] {
		team, err = svc.ValidatePlayer(ctx, tournament.ID, team.ID, p.ID)
		require.NoError(t, err)
		assert.Equal(t, models.TeamStatusComplete, team.Status)
	}
	team, err = svc.ValidatePlayer(ctx, tournament.ID, team.ID, team.Players[3].ID)
	require.NoError(t, err)
	assert.Equal(t, models.TeamStatusValidated, team.Status)

	// the substitute covers a rejected starter
	team, err = svc.RejectPlayer(ctx, tournament.ID, team.ID, team.Players[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.TeamStatusComplete, team.Status)
	team, err = svc.ValidatePlayer(ctx, tournament.ID, team.ID, team.Players[4].ID)
	require.NoError(t, err)
	assert.Equal(t, models.TeamStatusValidated, team.Status)

	validated := models.TeamStatusValidated
	list, err := svc.ListTeams(ctx, tournament.ID, &validated)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, team.ID, list[0].ID)

	_, err = svc.ValidatePlayer(ctx, tournament.ID, team.ID, "ghost")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
	_, err = svc.ValidatePlayer(ctx, "other", team.ID, team.Players[1].ID)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestTeamService_RejectTeamIsSticky(t *testing.T) {
	env := newTestEnv()
	svc := newTeamService(env)
	ctx := context.Background()
	tournament, _ := env.seedTournament(models.GameModeBattleRoyale, models.CustomFormat{}, 0)
	team, err := svc.RegisterTeam(ctx, tournament.ID, RegisterTeamInput{Name: "Outlaws", Players: roster(4)})
	require.NoError(t, err)

	team, err = svc.RejectTeam(ctx, tournament.ID, team.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TeamStatusRejected, team.Status)

	for _, p := range team.Players {
		team, err = svc.ValidatePlayer(ctx, tournament.ID, team.ID, p.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, models.TeamStatusRejected, team.Status)
}

func TestTeamService_GetAndDeleteTeam(t *testing.T) {
	env := newTestEnv()
	svc := newTeamService(env)
	ctx := context.Background()
	tournament, teams := env.seedTournament(models.GameModeMultiplayer, models.CustomFormat{}, 2)

	got, err := svc.GetTeam(ctx, tournament.ID, teams[0].ID)
	require.NoError(t, err)
	assert.Equal(t, teams[0].Name, got.Name)
	assert.Len(t, got.Players, 5)

	_, err = svc.GetTeam(ctx, "elsewhere", teams[0].ID)
	assert.ErrorIs(t, err, ErrTeamNotFound)
	assert.ErrorIs(t, svc.DeleteTeam(ctx, "elsewhere", teams[0].ID), ErrTeamNotFound)

	require.NoError(t, svc.DeleteTeam(ctx, tournament.ID, teams[0].ID))
	_, err = svc.GetTeam(ctx, tournament.ID, teams[0].ID)
	assert.ErrorIs(t, err, ErrTeamNotFound)
}
