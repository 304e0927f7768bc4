package brackets

import (
	"context"
	"errors"

	"github.com/Dosada05/codm-tournament/models"
)

var ErrInvalidPlayInSplit = errors.New("play-in bloc B needs zero or at least two teams")

type PlayInGenerator struct {
	newID func() string
}

func NewPlayInGenerator(newID func() string) *PlayInGenerator {
	return &PlayInGenerator{newID: newID}
}

func (g *PlayInGenerator) Phase() models.PhaseType {
	return models.PhasePlayIn
}

// GeneratePhase schedules bloc A as one knockout round (best seed against
// worst) and bloc B as a round robin pool.
func (g *PlayInGenerator) GeneratePhase(ctx context.Context, params GenerateParams) ([]*models.Match, error) {
	if err := checkTeams(params.Teams); err != nil {
		return nil, err
	}
	blocASize := 0
	if p := params.Tournament.CustomFormat.PlayIn; p != nil {
		blocASize = p.BlocATeams
	}
	blocA, blocB := SplitBlocs(params.Teams, blocASize)
	if len(blocB) == 1 {
		return nil, ErrInvalidPlayInSplit
	}

	matches := make([]*models.Match, 0, len(blocA)/2+len(blocB)*(len(blocB)-1)/2)
	number := 0
	for i := 0; i < len(blocA)/2; i++ {
		number++
		m := newPendingMatch(g.newID(), params.Tournament.ID, models.PhasePlayIn, number, blocA[i], blocA[len(blocA)-1-i])
		m.BlocType = models.BlocA
		matches = append(matches, m)
	}
	for _, pair := range RoundRobinPairings(blocB) {
		number++
		m := newPendingMatch(g.newID(), params.Tournament.ID, models.PhasePlayIn, number, pair[0], pair[1])
		m.BlocType = models.BlocB
		matches = append(matches, m)
	}
	return matches, nil
}

// SplitBlocs puts the first blocASize teams (rounded down to an even count)
// in bloc A and the rest in bloc B.
func SplitBlocs(teams []models.SeededTeam, blocASize int) (blocA, blocB []models.SeededTeam) {
	if blocASize > len(teams) {
		blocASize = len(teams)
	}
	if blocASize < 0 {
		blocASize = 0
	}
	blocASize -= blocASize % 2
	return teams[:blocASize], teams[blocASize:]
}
