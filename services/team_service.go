package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/codm-tournament/brackets"
	"github.com/Dosada05/codm-tournament/models"
	"github.com/Dosada05/codm-tournament/repositories"
	"github.com/google/uuid"
)

// maxSubstitutes is how many players a roster may carry beyond the mode's
// team size.
const maxSubstitutes = 1

type RegisterPlayerInput struct {
	Pseudo              string `json:"pseudo"`
	IsCaptain           bool   `json:"isCaptain"`
	WhatsApp            string `json:"whatsapp,omitempty"`
	Country             string `json:"country,omitempty"`
	DeviceCheckVideoURL string `json:"deviceCheckVideoUrl,omitempty"`
}

type RegisterTeamInput struct {
	Name    string                `json:"name"`
	Players []RegisterPlayerInput `json:"players"`
}

type TeamService interface {
	ListTeams(ctx context.Context, tournamentID string, status *models.TeamStatus) ([]*models.Team, error)
	GetTeam(ctx context.Context, tournamentID, teamID string) (*models.Team, error)
	RegisterTeam(ctx context.Context, tournamentID string, input RegisterTeamInput) (*models.Team, error)
	ValidatePlayer(ctx context.Context, tournamentID, teamID, playerID string) (*models.Team, error)
	RejectPlayer(ctx context.Context, tournamentID, teamID, playerID string) (*models.Team, error)
	RejectTeam(ctx context.Context, tournamentID, teamID string) (*models.Team, error)
	DeleteTeam(ctx context.Context, tournamentID, teamID string) error
}

type teamService struct {
	txManager      repositories.TxManager
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	notifier       Notifier
	logger         *slog.Logger
}

func NewTeamService(
	txManager repositories.TxManager,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	notifier Notifier,
	logger *slog.Logger,
) TeamService {
	return &teamService{
		txManager:      txManager,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		notifier:       notifierOrNoop(notifier),
		logger:         logger,
	}
}

func (s *teamService) ListTeams(ctx context.Context, tournamentID string, status *models.TeamStatus) ([]*models.Team, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		return nil, handleRepositoryError(err)
	}
	teams, err := s.teamRepo.ListTeams(ctx, tournamentID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams of tournament %s: %w", tournamentID, err)
	}
	if teams == nil {
		return []*models.Team{}, nil
	}
	return teams, nil
}

func (s *teamService) GetTeam(ctx context.Context, tournamentID, teamID string) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, nil, teamID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if team.TournamentID != tournamentID {
		return nil, ErrTeamNotFound
	}
	return team, nil
}

func (s *teamService) RegisterTeam(ctx context.Context, tournamentID string, input RegisterTeamInput) (*models.Team, error) {
	t, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if t.Status == models.TournamentStatusCompleted {
		return nil, ErrTournamentCompleted
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, validationError("team name is required")
	}
	size := t.GameMode.TeamSize()
	if len(input.Players) == 0 || len(input.Players) > size+maxSubstitutes {
		return nil, validationError("a %s roster has 1 to %d players, got %d", t.GameMode, size+maxSubstitutes, len(input.Players))
	}

	players := make([]models.Player, 0, len(input.Players))
	seen := make(map[string]bool, len(input.Players))
	captains := 0
	for _, p := range input.Players {
		pseudo := strings.TrimSpace(p.Pseudo)
		if pseudo == "" {
			return nil, validationError("every player needs a pseudo")
		}
		key := strings.ToLower(pseudo)
		if seen[key] {
			return nil, validationError("pseudo %q appears twice", pseudo)
		}
		seen[key] = true
		if p.IsCaptain {
			captains++
		}
		players = append(players, models.Player{
			ID:                  uuid.NewString(),
			Pseudo:              pseudo,
			Status:              models.PlayerStatusPending,
			IsCaptain:           p.IsCaptain,
			WhatsApp:            strings.TrimSpace(p.WhatsApp),
			Country:             strings.TrimSpace(p.Country),
			DeviceCheckVideoURL: strings.TrimSpace(p.DeviceCheckVideoURL),
		})
	}
	switch captains {
	case 0:
		players[0].IsCaptain = true
	case 1:
	default:
		return nil, validationError("a team has exactly one captain, got %d", captains)
	}

	team := &models.Team{
		ID:           uuid.NewString(),
		TournamentID: tournamentID,
		Name:         name,
		Players:      players,
	}
	team.Status = models.DeriveTeamStatus(team.Players, size, false)

	err = s.txManager.WithinTx(ctx, func(ctx context.Context, exec repositories.SQLExecutor) error {
		return s.teamRepo.Create(ctx, exec, team)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register team: %w", handleRepositoryError(err))
	}
	team.SyncCaptain()
	s.logger.InfoContext(ctx, "Team registered",
		slog.String("tournament_id", tournamentID), slog.String("team_id", team.ID), slog.Int("players", len(team.Players)))
	return team, nil
}

func (s *teamService) ValidatePlayer(ctx context.Context, tournamentID, teamID, playerID string) (*models.Team, error) {
	return s.setPlayerStatus(ctx, tournamentID, teamID, playerID, models.PlayerStatusValidated)
}

func (s *teamService) RejectPlayer(ctx context.Context, tournamentID, teamID, playerID string) (*models.Team, error) {
	return s.setPlayerStatus(ctx, tournamentID, teamID, playerID, models.PlayerStatusRejected)
}

func (s *teamService) setPlayerStatus(ctx context.Context, tournamentID, teamID, playerID string, status models.PlayerStatus) (*models.Team, error) {
	return s.mutateTeam(ctx, tournamentID, teamID, func(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) (bool, error) {
		p, ok := team.FindPlayer(playerID)
		if !ok {
			return false, ErrPlayerNotFound
		}
		if p.Status == status {
			return false, nil
		}
		if err := s.teamRepo.UpdatePlayerStatus(ctx, exec, playerID, status); err != nil {
			return false, handleRepositoryError(err)
		}
		p.Status = status
		return false, nil
	})
}

// RejectTeam is sticky: later player validations keep the team rejected.
func (s *teamService) RejectTeam(ctx context.Context, tournamentID, teamID string) (*models.Team, error) {
	return s.mutateTeam(ctx, tournamentID, teamID, func(context.Context, repositories.SQLExecutor, *models.Team) (bool, error) {
		return true, nil
	})
}

// mutateTeam loads the team inside a transaction, applies fn and re-derives
// the team status from the roster.
func (s *teamService) mutateTeam(ctx context.Context, tournamentID, teamID string, fn func(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) (reject bool, err error)) (*models.Team, error) {
	t, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	var team *models.Team
	err = s.txManager.WithinTx(ctx, func(ctx context.Context, exec repositories.SQLExecutor) error {
		var err error
		team, err = s.teamRepo.GetByID(ctx, exec, teamID)
		if err != nil {
			return handleRepositoryError(err)
		}
		if team.TournamentID != tournamentID {
			return ErrTeamNotFound
		}
		reject, err := fn(ctx, exec, team)
		if err != nil {
			return err
		}
		status := models.DeriveTeamStatus(team.Players, t.GameMode.TeamSize(), reject || team.Status == models.TeamStatusRejected)
		if status == team.Status {
			return nil
		}
		if err := s.teamRepo.UpdateStatus(ctx, exec, team.ID, status); err != nil {
			return handleRepositoryError(err)
		}
		team.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	team.SyncCaptain()

	s.logger.InfoContext(ctx, "Team updated",
		slog.String("tournament_id", tournamentID), slog.String("team_id", teamID), slog.String("status", string(team.Status)))
	s.notifier.Publish(tournamentID, brackets.EventTournamentUpdated, map[string]interface{}{"team": team})
	return team, nil
}

func (s *teamService) DeleteTeam(ctx context.Context, tournamentID, teamID string) error {
	return s.txManager.WithinTx(ctx, func(ctx context.Context, exec repositories.SQLExecutor) error {
		team, err := s.teamRepo.GetByID(ctx, exec, teamID)
		if err != nil {
			return handleRepositoryError(err)
		}
		if team.TournamentID != tournamentID {
			return ErrTeamNotFound
		}
		if err := s.teamRepo.Delete(ctx, exec, teamID); err != nil {
			return handleRepositoryError(err)
		}
		s.logger.InfoContext(ctx, "Team deleted", slog.String("tournament_id", tournamentID), slog.String("team_id", teamID))
		return nil
	})
}
