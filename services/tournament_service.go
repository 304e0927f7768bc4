package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/codm-tournament/brackets"
	"github.com/Dosada05/codm-tournament/models"
	"github.com/Dosada05/codm-tournament/repositories"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type CreateTournamentInput struct {
	Name             string              `json:"name"`
	GameMode         models.GameMode     `json:"gameMode"`
	CustomFormat     models.CustomFormat `json:"customFormat"`
	DeadlineRegister *time.Time          `json:"deadline_register,omitempty"`
	DateResult       *time.Time          `json:"date_result,omitempty"`
}

type UpdateTournamentInput struct {
	Name             *string              `json:"name,omitempty"`
	CustomFormat     *models.CustomFormat `json:"customFormat,omitempty"`
	DeadlineRegister *time.Time           `json:"deadline_register,omitempty"`
	DateResult       *time.Time           `json:"date_result,omitempty"`
}

// TournamentOverview is everything a tournament page needs in one call.
type TournamentOverview struct {
	Tournament  *models.Tournament                `json:"tournament"`
	Matches     []*models.Match                   `json:"matches"`
	Leaderboard *models.TournamentKillLeaderboard `json:"leaderboard"`
	TeamCount   int                               `json:"teamCount"`
}

type TournamentService interface {
	CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetTournament(ctx context.Context, id string) (*models.Tournament, error)
	ListTournaments(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error)
	UpdateTournament(ctx context.Context, id string, input UpdateTournamentInput) (*models.Tournament, error)
	DeleteTournament(ctx context.Context, id string) error
	// ActivateTournament makes id the single active tournament of its game
	// mode, demoting the previous one in the same transaction.
	ActivateTournament(ctx context.Context, id string) (*models.Tournament, error)
	GetActiveTournament(ctx context.Context, mode models.GameMode) (*models.Tournament, error)
	RecomputeStats(ctx context.Context, id string) (*models.TournamentStats, error)
	GetOverview(ctx context.Context, id string) (*TournamentOverview, error)
}

type tournamentService struct {
	txManager      repositories.TxManager
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	rosters        repositories.RosterSource
	leaderboards   LeaderboardService
	notifier       Notifier
	logger         *slog.Logger
}

func NewTournamentService(
	txManager repositories.TxManager,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	rosters repositories.RosterSource,
	leaderboards LeaderboardService,
	notifier Notifier,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		txManager:      txManager,
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		rosters:        rosters,
		leaderboards:   leaderboards,
		notifier:       notifierOrNoop(notifier),
		logger:         logger,
	}
}

func validateTournamentDates(deadline, result *time.Time) error {
	if deadline != nil && result != nil && result.Before(*deadline) {
		return validationError("date_result (%s) is before deadline_register (%s)", result.Format(time.RFC3339), deadline.Format(time.RFC3339))
	}
	return nil
}

func (s *tournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, validationError("tournament name is required")
	}
	if !input.GameMode.Valid() {
		return nil, validationError("unknown game mode %q", input.GameMode)
	}
	format, err := input.CustomFormat.Normalize(input.GameMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}
	if err := validateTournamentDates(input.DeadlineRegister, input.DateResult); err != nil {
		return nil, err
	}

	t := &models.Tournament{
		ID:               uuid.NewString(),
		Name:             name,
		GameMode:         input.GameMode,
		Status:           models.TournamentStatusDraft,
		CustomFormat:     format,
		DeadlineRegister: input.DeadlineRegister,
		DateResult:       input.DateResult,
	}
	if err := s.tournamentRepo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", handleRepositoryError(err))
	}
	s.logger.InfoContext(ctx, "Tournament created", slog.String("tournament_id", t.ID), slog.String("game_mode", string(t.GameMode)))
	return t, nil
}

func (s *tournamentService) GetTournament(ctx context.Context, id string) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return t, nil
}

func (s *tournamentService) ListTournaments(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	if filter.GameMode != nil && !filter.GameMode.Valid() {
		return nil, validationError("unknown game mode %q", *filter.GameMode)
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	list, err := s.tournamentRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	if list == nil {
		return []models.Tournament{}, nil
	}
	return list, nil
}

func (s *tournamentService) UpdateTournament(ctx context.Context, id string, input UpdateTournamentInput) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, validationError("tournament name is required")
		}
		t.Name = name
	}
	if input.CustomFormat != nil {
		format, err := input.CustomFormat.Normalize(t.GameMode)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
		}
		matches, err := s.matchRepo.ListByTournament(ctx, nil, id, models.MatchFilter{})
		if err != nil {
			return nil, fmt.Errorf("failed to list matches: %w", err)
		}
		if len(matches) > 0 {
			return nil, ErrFormatLocked
		}
		t.CustomFormat = format
	}
	if input.DeadlineRegister != nil {
		t.DeadlineRegister = input.DeadlineRegister
	}
	if input.DateResult != nil {
		t.DateResult = input.DateResult
	}
	if err := validateTournamentDates(t.DeadlineRegister, t.DateResult); err != nil {
		return nil, err
	}

	if err := s.tournamentRepo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to update tournament %s: %w", id, handleRepositoryError(err))
	}
	s.notifier.Publish(id, brackets.EventTournamentUpdated, t)
	return t, nil
}

func (s *tournamentService) DeleteTournament(ctx context.Context, id string) error {
	if err := s.tournamentRepo.Delete(ctx, id); err != nil {
		return handleRepositoryError(err)
	}
	s.logger.InfoContext(ctx, "Tournament deleted", slog.String("tournament_id", id))
	return nil
}

func (s *tournamentService) ActivateTournament(ctx context.Context, id string) (*models.Tournament, error) {
	var activated *models.Tournament
	var demoted int64
	err := s.txManager.WithinTx(ctx, func(ctx context.Context, exec repositories.SQLExecutor) error {
		t, err := s.tournamentRepo.GetForUpdate(ctx, exec, id)
		if err != nil {
			return handleRepositoryError(err)
		}
		if t.Status == models.TournamentStatusCompleted {
			return ErrTournamentCompleted
		}
		demoted, err = s.tournamentRepo.DemoteActive(ctx, exec, t.GameMode, t.ID)
		if err != nil {
			return fmt.Errorf("failed to demote active tournaments: %w", err)
		}
		if err := s.tournamentRepo.UpdateStatus(ctx, exec, t.ID, models.TournamentStatusActive); err != nil {
			return handleRepositoryError(err)
		}
		t.Status = models.TournamentStatusActive
		activated = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Tournament activated",
		slog.String("tournament_id", id), slog.String("game_mode", string(activated.GameMode)), slog.Int64("demoted", demoted))
	s.notifier.Publish(id, brackets.EventTournamentUpdated, activated)
	return activated, nil
}

func (s *tournamentService) GetActiveTournament(ctx context.Context, mode models.GameMode) (*models.Tournament, error) {
	if !mode.Valid() {
		return nil, validationError("unknown game mode %q", mode)
	}
	t, err := s.tournamentRepo.GetActive(ctx, mode)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return t, nil
}

func (s *tournamentService) RecomputeStats(ctx context.Context, id string) (*models.TournamentStats, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, nil, id); err != nil {
		return nil, handleRepositoryError(err)
	}

	var (
		teams   []*models.Team
		matches []*models.Match
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teams, err = s.rosters.ListTeams(gctx, id, nil)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByTournament(gctx, nil, id, models.MatchFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load tournament %s data: %w", id, err)
	}

	stats := ComputeStats(teams, matches)
	if err := s.tournamentRepo.UpdateStats(ctx, nil, id, stats); err != nil {
		return nil, handleRepositoryError(err)
	}
	return &stats, nil
}

// ComputeStats counts teams and players, real (non-bye) matches and the
// kills recorded in them.
func ComputeStats(teams []*models.Team, matches []*models.Match) models.TournamentStats {
	var stats models.TournamentStats
	stats.TeamCount = len(teams)
	for _, t := range teams {
		stats.PlayerCount += len(t.Players)
		if t.Status == models.TeamStatusValidated {
			stats.ValidatedTeams++
		}
	}
	for _, m := range matches {
		if m.IsBye {
			continue
		}
		stats.MatchCount++
		if m.IsCompleted() {
			stats.MatchesCompleted++
		}
		if m.MatchResult != nil {
			stats.TotalKills += m.MatchResult.Team1Stats.TotalKills + m.MatchResult.Team2Stats.TotalKills
		}
	}
	return stats
}

func (s *tournamentService) GetOverview(ctx context.Context, id string) (*TournamentOverview, error) {
	t, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	overview := &TournamentOverview{Tournament: t}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		matches, err := s.matchRepo.ListByTournament(gctx, nil, id, models.MatchFilter{})
		if err != nil {
			return fmt.Errorf("matches: %w", err)
		}
		if matches == nil {
			matches = []*models.Match{}
		}
		overview.Matches = matches
		return nil
	})
	g.Go(func() error {
		board, err := s.leaderboards.GetLeaderboard(gctx, id, t.GameMode)
		if err != nil && !errors.Is(err, ErrLeaderboardNotFound) {
			return fmt.Errorf("leaderboard: %w", err)
		}
		overview.Leaderboard = board
		return nil
	})
	g.Go(func() error {
		teams, err := s.rosters.ListTeams(gctx, id, nil)
		if err != nil {
			return fmt.Errorf("teams: %w", err)
		}
		overview.TeamCount = len(teams)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load overview of tournament %s: %w", id, err)
	}
	return overview, nil
}
