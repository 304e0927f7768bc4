package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/codm-tournament/brackets"
	"github.com/Dosada05/codm-tournament/guard"
	"github.com/Dosada05/codm-tournament/metrics"
	"github.com/Dosada05/codm-tournament/models"
	"github.com/Dosada05/codm-tournament/repositories"
	"github.com/Dosada05/codm-tournament/scoring"
)

// RecordRoundInput is one admin submission. ExpectedVersion is the match
// version the admin was looking at.
type RecordRoundInput struct {
	ExpectedVersion int `json:"expectedVersion"`
	scoring.RoundSubmission
}

type RecordOutcome struct {
	Match               *models.Match                     `json:"match"`
	Leaderboard         *models.TournamentKillLeaderboard `json:"leaderboard"`
	Generated           []*models.Match                   `json:"generatedMatches,omitempty"`
	EliminationReady    bool                              `json:"eliminationReady"`
	TournamentCompleted bool                              `json:"tournamentCompleted"`
}

type MatchService interface {
	RecordRoundResult(ctx context.Context, tournamentID, matchID string, input RecordRoundInput) (*RecordOutcome, error)
}

type matchService struct {
	txManager      repositories.TxManager
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	rosters        repositories.RosterSource
	leaderboards   LeaderboardService
	brackets       BracketService
	guard          guard.SubmissionGuard
	notifier       Notifier
	metrics        metrics.Recorder
	logger         *slog.Logger
	now            func() time.Time
}

func NewMatchService(
	txManager repositories.TxManager,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	rosters repositories.RosterSource,
	leaderboards LeaderboardService,
	bracketService BracketService,
	submissionGuard guard.SubmissionGuard,
	notifier Notifier,
	recorder metrics.Recorder,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		txManager:      txManager,
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		rosters:        rosters,
		leaderboards:   leaderboards,
		brackets:       bracketService,
		guard:          submissionGuard,
		notifier:       notifierOrNoop(notifier),
		metrics:        recorder,
		logger:         logger,
		now:            time.Now,
	}
}

// RecordRoundResult applies one round to a match. Nothing is published
// until the match update, the leaderboard rebuild and any bracket
// advancement have committed together.
func (s *matchService) RecordRoundResult(ctx context.Context, tournamentID, matchID string, input RecordRoundInput) (out *RecordOutcome, err error) {
	start := s.now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		s.metrics.RecordDuration(s.now().Sub(start), outcome)
	}()

	if input.WinnerID == "" {
		s.metrics.SubmissionRejected("no_winner")
		return nil, ErrNoWinnerSelected
	}
	if input.ExpectedVersion <= 0 {
		s.metrics.SubmissionRejected("no_version")
		return nil, validationError("expectedVersion is required")
	}

	release, err := s.guard.Acquire(ctx, guard.MatchKey(matchID))
	if err != nil {
		if errors.Is(err, guard.ErrInFlight) {
			s.metrics.SubmissionRejected("in_flight")
		}
		return nil, handleRepositoryError(err)
	}
	defer release()

	current, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if current.TournamentID != tournamentID {
		return nil, ErrMatchNotFound
	}
	if current.IsCompleted() {
		s.metrics.SubmissionRejected("completed")
		return nil, ErrMatchCompleted
	}
	if current.IsBye || current.Team2ID == "" {
		return nil, handleScoringError(scoring.ErrByeMatch)
	}

	roster1, err := s.roster(ctx, current.Team1ID)
	if err != nil {
		return nil, err
	}
	roster2, err := s.roster(ctx, current.Team2ID)
	if err != nil {
		return nil, err
	}

	var (
		tournament *models.Tournament
		updated    *models.Match
		board      *models.TournamentKillLeaderboard
		adv        = &Advancement{}
	)
	err = s.txManager.WithinTx(ctx, func(ctx context.Context, exec repositories.SQLExecutor) error {
		// Completions of sibling matches serialize here so the last one of a
		// round always sees the others and advances the bracket.
		t, err := s.tournamentRepo.GetForUpdate(ctx, exec, tournamentID)
		if err != nil {
			return handleRepositoryError(err)
		}
		if t.Status == models.TournamentStatusCompleted {
			return ErrTournamentCompleted
		}
		tournament = t

		m, err := s.matchRepo.GetByID(ctx, exec, matchID)
		if err != nil {
			return handleRepositoryError(err)
		}
		if m.Version != input.ExpectedVersion {
			return ErrMatchVersionConflict
		}

		updated, err = scoring.ApplyRound(m, t.GameMode.ResultKind(), scoring.BestOfFor(t, m), input.RoundSubmission, roster1, roster2, s.now().UTC())
		if err != nil {
			return handleScoringError(err)
		}
		if err := s.matchRepo.UpdateResult(ctx, exec, updated, input.ExpectedVersion); err != nil {
			return handleRepositoryError(err)
		}

		round := updated.MatchResult.Rounds[len(updated.MatchResult.Rounds)-1]
		board, err = s.leaderboards.ApplySubmissions(ctx, exec, tournamentID, t.GameMode, scoring.SubmissionsFromRound(updated, t.GameMode, round))
		if err != nil {
			return err
		}

		if updated.IsCompleted() {
			adv, err = s.brackets.AdvanceAfterMatch(ctx, exec, t, updated)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrMatchVersionConflict) {
			s.metrics.SubmissionRejected("version_conflict")
		}
		s.logger.WarnContext(ctx, "Round result rejected",
			slog.String("tournament_id", tournamentID), slog.String("match_id", matchID), slog.Any("error", err))
		return nil, err
	}

	s.logger.InfoContext(ctx, "Round result recorded",
		slog.String("tournament_id", tournamentID),
		slog.String("match_id", matchID),
		slog.Int("round", len(updated.MatchResult.Rounds)),
		slog.String("status", string(updated.Status)),
		slog.Int("version", updated.Version))
	s.metrics.RoundRecorded(string(tournament.GameMode), updated.IsCompleted())

	s.notifier.Publish(tournamentID, brackets.EventMatchUpdated, updated)
	s.notifier.Publish(tournamentID, brackets.EventLeaderboardUpdated, board)
	if len(adv.Generated) > 0 {
		s.notifier.Publish(tournamentID, brackets.EventBracketUpdated, map[string]interface{}{"phase": models.PhaseElimination, "matches": adv.Generated})
	}
	if adv.TournamentCompleted {
		s.notifier.Publish(tournamentID, brackets.EventTournamentUpdated, map[string]interface{}{"id": tournamentID, "status": models.TournamentStatusCompleted})
	}

	return &RecordOutcome{
		Match:               updated,
		Leaderboard:         board,
		Generated:           adv.Generated,
		EliminationReady:    adv.EliminationReady,
		TournamentCompleted: adv.TournamentCompleted,
	}, nil
}

func (s *matchService) roster(ctx context.Context, teamID string) ([]models.Player, error) {
	team, err := s.rosters.GetTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster of team %s: %w", teamID, handleRepositoryError(err))
	}
	active := make([]models.Player, 0, len(team.Players))
	for _, p := range team.Players {
		if p.Status != models.PlayerStatusRejected {
			active = append(active, p)
		}
	}
	return active, nil
}
