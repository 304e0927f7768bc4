package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/codm-tournament/models"
	"github.com/Dosada05/codm-tournament/repositories"
	"github.com/Dosada05/codm-tournament/scoring"
)

// StandingsService derives group and bloc tables on every read; nothing here
// is stored.
type StandingsService interface {
	GetGroupStandings(ctx context.Context, tournamentID, groupName string) ([]models.StandingRow, error)
	GetAllGroupStandings(ctx context.Context, tournamentID string) (map[string][]models.StandingRow, error)
	GetPlayInBlocStandings(ctx context.Context, tournamentID string, bloc models.BlocType) ([]models.StandingRow, error)
	// GetQualification previews the elimination entrants of a finished group
	// stage or play-in.
	GetQualification(ctx context.Context, tournamentID string) (*scoring.Qualification, error)
}

type standingsService struct {
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
}

func NewStandingsService(tournamentRepo repositories.TournamentRepository, matchRepo repositories.MatchRepository) StandingsService {
	return &standingsService{tournamentRepo: tournamentRepo, matchRepo: matchRepo}
}

func (s *standingsService) load(ctx context.Context, tournamentID string, filter models.MatchFilter) (*models.Tournament, []*models.Match, error) {
	t, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		return nil, nil, handleRepositoryError(err)
	}
	matches, err := s.matchRepo.ListByTournament(ctx, nil, tournamentID, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list matches for tournament %s: %w", tournamentID, err)
	}
	return t, matches, nil
}

func (s *standingsService) GetGroupStandings(ctx context.Context, tournamentID, groupName string) ([]models.StandingRow, error) {
	if groupName == "" {
		return nil, validationError("group name is required")
	}
	t, matches, err := s.load(ctx, tournamentID, models.MatchFilter{Phase: models.PhaseGroupStage, GroupName: groupName})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrGroupNotFound
	}
	return scoring.GroupStandings(groupName, matches, t.CustomFormat.Groups().QualifiersPerGroup), nil
}

func (s *standingsService) GetAllGroupStandings(ctx context.Context, tournamentID string) (map[string][]models.StandingRow, error) {
	t, matches, err := s.load(ctx, tournamentID, models.MatchFilter{Phase: models.PhaseGroupStage})
	if err != nil {
		return nil, err
	}
	return groupTables(matches, t.CustomFormat.Groups().QualifiersPerGroup), nil
}

func (s *standingsService) GetPlayInBlocStandings(ctx context.Context, tournamentID string, bloc models.BlocType) ([]models.StandingRow, error) {
	if bloc != models.BlocA && bloc != models.BlocB {
		return nil, validationError("bloc must be A or B, got %q", bloc)
	}
	t, matches, err := s.load(ctx, tournamentID, models.MatchFilter{Phase: models.PhasePlayIn, BlocType: bloc})
	if err != nil {
		return nil, err
	}
	if bloc == models.BlocA {
		return blocATable(matches), nil
	}
	return scoring.BlocStandings(models.BlocB, matches, blocBQualifiers(t.CustomFormat)), nil
}

func (s *standingsService) GetQualification(ctx context.Context, tournamentID string) (*scoring.Qualification, error) {
	t, matches, err := s.load(ctx, tournamentID, models.MatchFilter{})
	if err != nil {
		return nil, err
	}
	q, err := qualificationFor(t, matches)
	if err != nil {
		return nil, err
	}
	return &q, nil
}
