package brackets

import (
	"context"
	"errors"

	"github.com/Dosada05/codm-tournament/models"
)

var (
	ErrNotEnoughTeams    = errors.New("not enough teams to generate matches (minimum 2)")
	ErrDuplicateTeam     = errors.New("team appears more than once in the input")
	ErrRoundIncomplete   = errors.New("round still has unfinished matches")
	ErrInvalidRoundInput = errors.New("invalid elimination round input")
)

type GenerateParams struct {
	Tournament *models.Tournament
	Teams      []models.SeededTeam
}

// PhaseGenerator produces every pending match of one phase.
type PhaseGenerator interface {
	GeneratePhase(ctx context.Context, params GenerateParams) ([]*models.Match, error)

	Phase() models.PhaseType
}

// GeneratorFor returns the generator of the given phase.
func GeneratorFor(phase models.PhaseType, newID func() string) (PhaseGenerator, error) {
	switch phase {
	case models.PhaseGroupStage:
		return NewGroupStageGenerator(newID), nil
	case models.PhasePlayIn:
		return NewPlayInGenerator(newID), nil
	case models.PhaseElimination:
		return NewEliminationGenerator(newID), nil
	default:
		return nil, errors.New("unsupported phase " + string(phase))
	}
}

func checkTeams(teams []models.SeededTeam) error {
	if len(teams) < 2 {
		return ErrNotEnoughTeams
	}
	seen := make(map[string]struct{}, len(teams))
	for _, t := range teams {
		if _, ok := seen[t.ID]; ok {
			return ErrDuplicateTeam
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}

func newPendingMatch(id, tournamentID string, phase models.PhaseType, number int, t1, t2 models.SeededTeam) *models.Match {
	return &models.Match{
		ID:           id,
		TournamentID: tournamentID,
		PhaseType:    phase,
		MatchNumber:  number,
		Team1ID:      t1.ID,
		Team1Name:    t1.Name,
		Team1Seed:    t1.Seed,
		Team2ID:      t2.ID,
		Team2Name:    t2.Name,
		Team2Seed:    t2.Seed,
		Status:       models.MatchStatusPending,
		Version:      1,
	}
}
