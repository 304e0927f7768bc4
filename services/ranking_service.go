package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/codm-tournament/brackets"
	"github.com/Dosada05/codm-tournament/models"
	"github.com/Dosada05/codm-tournament/repositories"
	"github.com/Dosada05/codm-tournament/scoring"
	"github.com/google/uuid"
)

// maxLobbySize bounds a battle-royale placement.
const maxLobbySize = 150

type GameResultInput struct {
	TeamID     string `json:"teamId"`
	GameNumber int    `json:"gameNumber"`
	Placement  int    `json:"placement"`
	Kills      int    `json:"kills"`
}

type RankingService interface {
	RecordGameResult(ctx context.Context, tournamentID string, input GameResultInput) (*models.GameResult, error)
	GetTeamRankings(ctx context.Context, tournamentID string) ([]models.TeamRanking, error)
}

type rankingService struct {
	tournamentRepo repositories.TournamentRepository
	resultRepo     repositories.GameResultRepository
	rosters        repositories.RosterSource
	notifier       Notifier
	logger         *slog.Logger
}

func NewRankingService(
	tournamentRepo repositories.TournamentRepository,
	resultRepo repositories.GameResultRepository,
	rosters repositories.RosterSource,
	notifier Notifier,
	logger *slog.Logger,
) RankingService {
	return &rankingService{
		tournamentRepo: tournamentRepo,
		resultRepo:     resultRepo,
		rosters:        rosters,
		notifier:       notifierOrNoop(notifier),
		logger:         logger,
	}
}

func (s *rankingService) battleRoyale(ctx context.Context, tournamentID string) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if t.GameMode != models.GameModeBattleRoyale {
		return nil, fmt.Errorf("%w: team rankings need a battle_royale tournament", ErrWrongGameMode)
	}
	return t, nil
}

func (s *rankingService) RecordGameResult(ctx context.Context, tournamentID string, input GameResultInput) (*models.GameResult, error) {
	t, err := s.battleRoyale(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if t.Status == models.TournamentStatusCompleted {
		return nil, ErrTournamentCompleted
	}
	switch {
	case input.TeamID == "":
		return nil, validationError("teamId is required")
	case input.GameNumber < 1:
		return nil, validationError("gameNumber must be at least 1")
	case input.Placement < 1 || input.Placement > maxLobbySize:
		return nil, validationError("placement must be between 1 and %d", maxLobbySize)
	case input.Kills < 0:
		return nil, validationError("kills must not be negative")
	}

	team, err := s.rosters.GetTeam(ctx, input.TeamID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if team.TournamentID != tournamentID {
		return nil, ErrTeamNotFound
	}

	res := &models.GameResult{
		ID:           uuid.NewString(),
		TournamentID: tournamentID,
		TeamID:       team.ID,
		TeamName:     team.Name,
		GameNumber:   input.GameNumber,
		Placement:    input.Placement,
		Kills:        input.Kills,
	}
	if err := s.resultRepo.Create(ctx, res); err != nil {
		return nil, handleRepositoryError(err)
	}

	s.logger.InfoContext(ctx, "Game result recorded",
		slog.String("tournament_id", tournamentID), slog.String("team_id", team.ID),
		slog.Int("game", res.GameNumber), slog.Int("placement", res.Placement), slog.Int("points", scoring.GamePoints(t.GameMode, *res)))
	s.notifier.Publish(tournamentID, brackets.EventLeaderboardUpdated, map[string]interface{}{"gameResult": res})
	return res, nil
}

func (s *rankingService) GetTeamRankings(ctx context.Context, tournamentID string) ([]models.TeamRanking, error) {
	t, err := s.battleRoyale(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	results, err := s.resultRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list game results: %w", err)
	}
	return scoring.RankTeams(t.GameMode, results), nil
}
