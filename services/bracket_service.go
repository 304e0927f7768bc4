package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/codm-tournament/brackets"
	"github.com/Dosada05/codm-tournament/metrics"
	"github.com/Dosada05/codm-tournament/models"
	"github.com/Dosada05/codm-tournament/repositories"
	"github.com/google/uuid"
)

// Advancement is what a completed match triggered.
type Advancement struct {
	Generated           []*models.Match `json:"generated,omitempty"`
	EliminationReady    bool            `json:"eliminationReady"`
	TournamentCompleted bool            `json:"tournamentCompleted"`
}

// PhaseProgress summarizes one phase of a tournament.
type PhaseProgress struct {
	Phase     models.PhaseType `json:"phase"`
	Generated bool             `json:"generated"`
	Matches   int              `json:"matches"`
	Completed int              `json:"completed"`
	Started   bool             `json:"started"`
	Finished  bool             `json:"finished"`
	// Available reports whether GeneratePhase would currently succeed.
	Available bool `json:"available"`
}

type BracketService interface {
	GeneratePhase(ctx context.Context, tournamentID string, phase models.PhaseType) ([]*models.Match, error)
	RegeneratePhase(ctx context.Context, tournamentID string, phase models.PhaseType) ([]*models.Match, error)
	ListMatches(ctx context.Context, tournamentID string, filter models.MatchFilter) ([]*models.Match, error)
	GetMatch(ctx context.Context, tournamentID, matchID string) (*models.Match, error)
	GetProgress(ctx context.Context, tournamentID string) ([]PhaseProgress, error)
	// AdvanceAfterMatch runs inside the caller's transaction once a match
	// completes and generates whatever that completion unlocks.
	AdvanceAfterMatch(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament, m *models.Match) (*Advancement, error)
}

type bracketService struct {
	txManager      repositories.TxManager
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	rosters        repositories.RosterSource
	notifier       Notifier
	metrics        metrics.Recorder
	logger         *slog.Logger
	newID          func() string
}

func NewBracketService(
	txManager repositories.TxManager,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	rosters repositories.RosterSource,
	notifier Notifier,
	recorder metrics.Recorder,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		txManager:      txManager,
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		rosters:        rosters,
		notifier:       notifierOrNoop(notifier),
		metrics:        recorder,
		logger:         logger,
		newID:          uuid.NewString,
	}
}

func (s *bracketService) GeneratePhase(ctx context.Context, tournamentID string, phase models.PhaseType) ([]*models.Match, error) {
	return s.generate(ctx, tournamentID, phase, false)
}

// RegeneratePhase drops a phase that has not started and schedules it again,
// for instance after late team validations.
func (s *bracketService) RegeneratePhase(ctx context.Context, tournamentID string, phase models.PhaseType) ([]*models.Match, error) {
	return s.generate(ctx, tournamentID, phase, true)
}

func (s *bracketService) generate(ctx context.Context, tournamentID string, phase models.PhaseType, replace bool) ([]*models.Match, error) {
	if !phase.Valid() {
		return nil, validationError("unknown phase %q", phase)
	}

	validated := models.TeamStatusValidated
	list, err := s.rosters.ListTeams(ctx, tournamentID, &validated)
	if err != nil {
		return nil, fmt.Errorf("failed to list validated teams for tournament %s: %w", tournamentID, handleRepositoryError(err))
	}
	teams := validatedSeeds(list)

	var created []*models.Match
	err = s.txManager.WithinTx(ctx, func(ctx context.Context, exec repositories.SQLExecutor) error {
		t, err := s.tournamentRepo.GetForUpdate(ctx, exec, tournamentID)
		if err != nil {
			return handleRepositoryError(err)
		}
		if t.Status == models.TournamentStatusCompleted {
			return ErrTournamentCompleted
		}
		idx := phaseIndex(t.CustomFormat, phase)
		if idx < 0 {
			return fmt.Errorf("%w: %s in %s", ErrPhaseNotAvailable, phase, t.CustomFormat.TournamentFormat)
		}

		existing, err := s.matchRepo.ListByTournament(ctx, exec, tournamentID, models.MatchFilter{})
		if err != nil {
			return fmt.Errorf("failed to list matches: %w", err)
		}
		for _, later := range phasesFor(t.CustomFormat)[idx+1:] {
			if len(filterPhase(existing, later)) > 0 {
				return fmt.Errorf("%w: %s", ErrLaterPhaseExists, later)
			}
		}
		if len(filterPhase(existing, phase)) > 0 {
			if !replace {
				return ErrPhaseAlreadyGenerated
			}
			deleted, err := s.matchRepo.DeletePhaseIfPending(ctx, exec, tournamentID, phase)
			if err != nil {
				return handleRepositoryError(err)
			}
			s.logger.InfoContext(ctx, "Deleted pending phase for regeneration",
				slog.String("tournament_id", tournamentID), slog.String("phase", string(phase)), slog.Int64("deleted", deleted))
			existing = removePhase(existing, phase)
		}

		created, err = s.buildPhase(ctx, t, phase, teams, existing)
		if err != nil {
			return err
		}
		if err := s.matchRepo.CreateBatch(ctx, exec, created); err != nil {
			return fmt.Errorf("failed to save %s matches: %w", phase, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Phase generated",
		slog.String("tournament_id", tournamentID), slog.String("phase", string(phase)), slog.Int("matches", len(created)), slog.Bool("regenerated", replace))
	s.metrics.PhaseGenerated(string(phase), len(created))
	s.notifier.Publish(tournamentID, brackets.EventBracketUpdated, map[string]interface{}{"phase": phase, "matches": created})
	return created, nil
}

func (s *bracketService) buildPhase(ctx context.Context, t *models.Tournament, phase models.PhaseType, teams []models.SeededTeam, existing []*models.Match) ([]*models.Match, error) {
	if phase == models.PhaseElimination && (t.CustomFormat.TournamentFormat == models.FormatGroupsThenElimination || t.CustomFormat.HasPlayIn()) {
		q, err := qualificationFor(t, existing)
		if err != nil {
			return nil, err
		}
		teams = q.Entrants()
	}
	if len(teams) < 2 {
		return nil, fmt.Errorf("%w: found %d", ErrNotEnoughTeams, len(teams))
	}

	generator, err := brackets.GeneratorFor(phase, s.newID)
	if err != nil {
		return nil, validationError("%v", err)
	}
	matches, err := generator.GeneratePhase(ctx, brackets.GenerateParams{Tournament: t, Teams: teams})
	if err != nil {
		if errors.Is(err, brackets.ErrInvalidPlayInSplit) || errors.Is(err, brackets.ErrDuplicateTeam) {
			return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
		}
		return nil, fmt.Errorf("failed to generate %s: %w", phase, handleRepositoryError(err))
	}
	return matches, nil
}

func removePhase(matches []*models.Match, phase models.PhaseType) []*models.Match {
	out := make([]*models.Match, 0, len(matches))
	for _, m := range matches {
		if m.PhaseType != phase {
			out = append(out, m)
		}
	}
	return out
}

func (s *bracketService) AdvanceAfterMatch(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament, m *models.Match) (*Advancement, error) {
	adv := &Advancement{}
	if !m.IsCompleted() {
		return adv, nil
	}

	all, err := s.matchRepo.ListByTournament(ctx, exec, t.ID, models.MatchFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for advancement: %w", err)
	}

	switch m.PhaseType {
	case models.PhaseGroupStage:
		if !allCompleted(filterPhase(all, models.PhaseGroupStage)) {
			return adv, nil
		}
		if t.CustomFormat.TournamentFormat == models.FormatGroupsOnly {
			return s.completeTournament(ctx, exec, t, adv)
		}
		// Promotion out of the groups is triggered by an admin.
		adv.EliminationReady = true
		return adv, nil

	case models.PhasePlayIn:
		if !allCompleted(filterPhase(all, models.PhasePlayIn)) || len(filterPhase(all, models.PhaseElimination)) > 0 {
			return adv, nil
		}
		next, err := s.buildPhase(ctx, t, models.PhaseElimination, nil, all)
		if errors.Is(err, ErrNotEnoughTeams) || errors.Is(err, ErrValidationFailed) {
			// Leave the bracket to a manual GeneratePhase; the result itself stands.
			s.logger.WarnContext(ctx, "Play-in finished but elimination could not be generated",
				slog.String("tournament_id", t.ID), slog.Any("error", err))
			adv.EliminationReady = true
			return adv, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to generate elimination after play-in: %w", err)
		}
		return s.saveGenerated(ctx, exec, t, next, adv)

	case models.PhaseElimination:
		round := latestEliminationRound(all)
		if len(round) == 0 || round[0].Round != m.Round || !allCompleted(round) {
			return adv, nil
		}
		next, finished, err := brackets.NextEliminationRound(t.ID, round, s.newID)
		if err != nil {
			return nil, fmt.Errorf("failed to build next elimination round: %w", err)
		}
		if finished {
			return s.completeTournament(ctx, exec, t, adv)
		}
		return s.saveGenerated(ctx, exec, t, next, adv)
	}
	return adv, nil
}

func (s *bracketService) saveGenerated(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament, next []*models.Match, adv *Advancement) (*Advancement, error) {
	if err := s.matchRepo.CreateBatch(ctx, exec, next); err != nil {
		return nil, fmt.Errorf("failed to save generated matches: %w", err)
	}
	s.logger.InfoContext(ctx, "Next elimination round generated",
		slog.String("tournament_id", t.ID), slog.Int("matches", len(next)), slog.Int("round", next[0].Round))
	s.metrics.PhaseGenerated(string(models.PhaseElimination), len(next))
	adv.Generated = next
	return adv, nil
}

func (s *bracketService) completeTournament(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament, adv *Advancement) (*Advancement, error) {
	if err := s.tournamentRepo.UpdateStatus(ctx, exec, t.ID, models.TournamentStatusCompleted); err != nil {
		return nil, fmt.Errorf("failed to complete tournament %s: %w", t.ID, handleRepositoryError(err))
	}
	t.Status = models.TournamentStatusCompleted
	s.logger.InfoContext(ctx, "Tournament completed", slog.String("tournament_id", t.ID))
	adv.TournamentCompleted = true
	return adv, nil
}

func (s *bracketService) ListMatches(ctx context.Context, tournamentID string, filter models.MatchFilter) ([]*models.Match, error) {
	if filter.Phase != "" && !filter.Phase.Valid() {
		return nil, validationError("unknown phase %q", filter.Phase)
	}
	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		return nil, handleRepositoryError(err)
	}
	matches, err := s.matchRepo.ListByTournament(ctx, nil, tournamentID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %s: %w", tournamentID, err)
	}
	if matches == nil {
		return []*models.Match{}, nil
	}
	return matches, nil
}

func (s *bracketService) GetMatch(ctx context.Context, tournamentID, matchID string) (*models.Match, error) {
	m, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if m.TournamentID != tournamentID {
		return nil, ErrMatchNotFound
	}
	return m, nil
}

func (s *bracketService) GetProgress(ctx context.Context, tournamentID string) ([]PhaseProgress, error) {
	t, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	all, err := s.matchRepo.ListByTournament(ctx, nil, tournamentID, models.MatchFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %s: %w", tournamentID, err)
	}

	phases := phasesFor(t.CustomFormat)
	out := make([]PhaseProgress, 0, len(phases))
	previousFinished := true
	for _, phase := range phases {
		p := PhaseProgress{Phase: phase}
		for _, m := range filterPhase(all, phase) {
			if m.IsBye {
				continue
			}
			p.Matches++
			if m.IsCompleted() {
				p.Completed++
			}
			if m.HasStarted() {
				p.Started = true
			}
		}
		p.Generated = len(filterPhase(all, phase)) > 0
		switch phase {
		case models.PhaseElimination:
			p.Finished = t.Status == models.TournamentStatusCompleted
		default:
			p.Finished = allCompleted(filterPhase(all, phase))
		}
		p.Available = !p.Generated && previousFinished && t.Status != models.TournamentStatusCompleted
		previousFinished = p.Finished
		out = append(out, p)
	}
	return out, nil
}
