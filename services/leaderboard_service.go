package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/codm-tournament/brackets"
	"github.com/Dosada05/codm-tournament/metrics"
	"github.com/Dosada05/codm-tournament/models"
	"github.com/Dosada05/codm-tournament/repositories"
	"github.com/Dosada05/codm-tournament/scoring"
	"golang.org/x/sync/errgroup"
)

type LeaderboardService interface {
	// ApplySubmissions stores round submissions and rebuilds the board from
	// the full history, inside the caller's transaction.
	ApplySubmissions(ctx context.Context, exec repositories.SQLExecutor, tournamentID string, mode models.GameMode, subs []models.KillSubmission) (*models.TournamentKillLeaderboard, error)
	UpsertKillLeaderboardEntry(ctx context.Context, tournamentID string, mode models.GameMode, playerID string, deltaKills int) (*models.TournamentKillLeaderboard, error)
	RecalculateLeaderboard(ctx context.Context, tournamentID string, mode models.GameMode) (*models.TournamentKillLeaderboard, error)
	GetLeaderboard(ctx context.Context, tournamentID string, mode models.GameMode) (*models.TournamentKillLeaderboard, error)
	GetGlobalRecords(ctx context.Context, mode models.GameMode) (*models.GlobalRecords, error)
	GetAllGlobalRecords(ctx context.Context) ([]models.GlobalRecords, error)
}

type leaderboardService struct {
	txManager       repositories.TxManager
	tournamentRepo  repositories.TournamentRepository
	leaderboardRepo repositories.LeaderboardRepository
	rosters         repositories.RosterSource
	notifier        Notifier
	metrics         metrics.Recorder
	logger          *slog.Logger
	now             func() time.Time
}

func NewLeaderboardService(
	txManager repositories.TxManager,
	tournamentRepo repositories.TournamentRepository,
	leaderboardRepo repositories.LeaderboardRepository,
	rosters repositories.RosterSource,
	notifier Notifier,
	recorder metrics.Recorder,
	logger *slog.Logger,
) LeaderboardService {
	return &leaderboardService{
		txManager:       txManager,
		tournamentRepo:  tournamentRepo,
		leaderboardRepo: leaderboardRepo,
		rosters:         rosters,
		notifier:        notifierOrNoop(notifier),
		metrics:         recorder,
		logger:          logger,
		now:             time.Now,
	}
}

func (s *leaderboardService) ApplySubmissions(ctx context.Context, exec repositories.SQLExecutor, tournamentID string, mode models.GameMode, subs []models.KillSubmission) (*models.TournamentKillLeaderboard, error) {
	if len(subs) > 0 {
		if err := s.leaderboardRepo.InsertSubmissions(ctx, exec, subs); err != nil {
			return nil, fmt.Errorf("failed to store kill submissions: %w", err)
		}
	}
	return s.rebuild(ctx, exec, tournamentID, mode)
}

func (s *leaderboardService) rebuild(ctx context.Context, exec repositories.SQLExecutor, tournamentID string, mode models.GameMode) (*models.TournamentKillLeaderboard, error) {
	all, err := s.leaderboardRepo.ListSubmissions(ctx, exec, tournamentID, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to load kill submissions: %w", err)
	}
	board := &models.TournamentKillLeaderboard{
		TournamentID: tournamentID,
		GameMode:     mode,
		Entries:      scoring.BuildLeaderboard(all),
	}
	if err := s.leaderboardRepo.Upsert(ctx, exec, board); err != nil {
		return nil, fmt.Errorf("failed to save leaderboard: %w", err)
	}
	s.metrics.LeaderboardRecomputed(string(mode))
	return board, nil
}

// UpsertKillLeaderboardEntry records one manual game for a player, for
// results that were played outside a scheduled match.
func (s *leaderboardService) UpsertKillLeaderboardEntry(ctx context.Context, tournamentID string, mode models.GameMode, playerID string, deltaKills int) (*models.TournamentKillLeaderboard, error) {
	if !mode.Valid() {
		return nil, validationError("unknown game mode %q", mode)
	}
	if deltaKills < 0 {
		return nil, validationError("kills must not be negative")
	}
	if playerID == "" {
		return nil, validationError("playerId is required")
	}

	teams, err := s.rosters.ListTeams(ctx, tournamentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load rosters: %w", handleRepositoryError(err))
	}
	var team *models.Team
	var player *models.Player
	for _, t := range teams {
		if p, ok := t.FindPlayer(playerID); ok {
			team, player = t, p
			break
		}
	}
	if player == nil {
		return nil, ErrPlayerNotFound
	}

	sub := models.KillSubmission{
		TournamentID: tournamentID,
		GameMode:     mode,
		PlayerID:     player.ID,
		PlayerName:   player.Pseudo,
		TeamID:       team.ID,
		TeamName:     team.Name,
		Kills:        deltaKills,
		CreatedAt:    s.now().UTC(),
	}

	var board *models.TournamentKillLeaderboard
	err = s.txManager.WithinTx(ctx, func(ctx context.Context, exec repositories.SQLExecutor) error {
		t, err := s.tournamentRepo.GetForUpdate(ctx, exec, tournamentID)
		if err != nil {
			return handleRepositoryError(err)
		}
		if t.GameMode != mode {
			return fmt.Errorf("%w: tournament is %s", ErrWrongGameMode, t.GameMode)
		}
		board, err = s.ApplySubmissions(ctx, exec, tournamentID, mode, []models.KillSubmission{sub})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Manual kill entry recorded",
		slog.String("tournament_id", tournamentID), slog.String("player_id", playerID), slog.Int("kills", deltaKills))
	s.notifier.Publish(tournamentID, brackets.EventLeaderboardUpdated, board)
	return board, nil
}

func (s *leaderboardService) RecalculateLeaderboard(ctx context.Context, tournamentID string, mode models.GameMode) (*models.TournamentKillLeaderboard, error) {
	if !mode.Valid() {
		return nil, validationError("unknown game mode %q", mode)
	}
	var board *models.TournamentKillLeaderboard
	err := s.txManager.WithinTx(ctx, func(ctx context.Context, exec repositories.SQLExecutor) error {
		if _, err := s.tournamentRepo.GetForUpdate(ctx, exec, tournamentID); err != nil {
			return handleRepositoryError(err)
		}
		var err error
		board, err = s.rebuild(ctx, exec, tournamentID, mode)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Publish(tournamentID, brackets.EventLeaderboardUpdated, board)
	return board, nil
}

// GetLeaderboard returns an empty board for a tournament nobody scored in
// yet.
func (s *leaderboardService) GetLeaderboard(ctx context.Context, tournamentID string, mode models.GameMode) (*models.TournamentKillLeaderboard, error) {
	if !mode.Valid() {
		return nil, validationError("unknown game mode %q", mode)
	}
	board, err := s.leaderboardRepo.Get(ctx, tournamentID, mode)
	if errors.Is(err, repositories.ErrLeaderboardNotFound) {
		if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
			return nil, handleRepositoryError(err)
		}
		return &models.TournamentKillLeaderboard{TournamentID: tournamentID, GameMode: mode, Entries: models.KillLeaderboardEntries{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	return board, nil
}

func (s *leaderboardService) GetGlobalRecords(ctx context.Context, mode models.GameMode) (*models.GlobalRecords, error) {
	if !mode.Valid() {
		return nil, validationError("unknown game mode %q", mode)
	}
	boards, err := s.leaderboardRepo.ListByGameMode(ctx, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s leaderboards: %w", mode, err)
	}
	rec := scoring.ComputeGlobalRecords(mode, boards)
	return &rec, nil
}

func (s *leaderboardService) GetAllGlobalRecords(ctx context.Context) ([]models.GlobalRecords, error) {
	modes := []models.GameMode{models.GameModeBattleRoyale, models.GameModeMultiplayer}
	out := make([]models.GlobalRecords, len(modes))

	g, gctx := errgroup.WithContext(ctx)
	for i, mode := range modes {
		i, mode := i, mode
		g.Go(func() error {
			rec, err := s.GetGlobalRecords(gctx, mode)
			if err != nil {
				return err
			}
			out[i] = *rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
