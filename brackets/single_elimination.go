package brackets

import (
	"context"
	"fmt"
	"math/bits"
	"sort"

	"github.com/Dosada05/codm-tournament/models"
)

type EliminationGenerator struct {
	newID func() string
}

func NewEliminationGenerator(newID func() string) *EliminationGenerator {
	return &EliminationGenerator{newID: newID}
}

func (g *EliminationGenerator) Phase() models.PhaseType {
	return models.PhaseElimination
}

// GeneratePhase builds the first elimination round from teams in seed
// order. Later rounds are produced by NextEliminationRound as results come
// in.
func (g *EliminationGenerator) GeneratePhase(ctx context.Context, params GenerateParams) ([]*models.Match, error) {
	return BuildEliminationRound(params.Tournament.ID, params.Teams, true, g.newID)
}

// RoundIndexFromFinal is 0 for a round of 2 entrants, 1 for 3-4, 2 for 5-8...
func RoundIndexFromFinal(entrants int) int {
	if entrants <= 2 {
		return 0
	}
	return bits.Len(uint(entrants-1)) - 1
}

// BuildEliminationRound pairs one round of entrants. A seeded round is the
// first round of the bracket: it is padded to the next power of two and the
// top seeds fill the empty slots with byes, stored as completed IsBye
// markers. Slots follow the standard order, so the top seeds can only meet
// late. An unseeded round pairs neighbours and needs an even count.
func BuildEliminationRound(tournamentID string, entrants []models.SeededTeam, seeded bool, newID func() string) ([]*models.Match, error) {
	if err := checkTeams(entrants); err != nil {
		return nil, err
	}
	if seeded {
		return seedFirstRound(tournamentID, entrants, newID), nil
	}
	if len(entrants)%2 == 1 {
		return nil, fmt.Errorf("%w: %d entrants cannot be paired", ErrInvalidRoundInput, len(entrants))
	}

	idx := RoundIndexFromFinal(len(entrants))
	matches := make([]*models.Match, 0, len(entrants)/2)
	for i := 0; i+1 < len(entrants); i += 2 {
		m := newPendingMatch(newID(), tournamentID, models.PhaseElimination, i/2+1, entrants[i], entrants[i+1])
		m.Round = idx + 1
		m.RoundIndexFromFinal = idx
		matches = append(matches, m)
	}
	return matches, nil
}

func seedFirstRound(tournamentID string, entrants []models.SeededTeam, newID func() string) []*models.Match {
	ranked := append([]models.SeededTeam(nil), entrants...)
	sort.SliceStable(ranked, func(i, j int) bool { return seedRank(ranked[i]) < seedRank(ranked[j]) })

	size := BracketSize(len(ranked))
	idx := RoundIndexFromFinal(size)
	matches := make([]*models.Match, 0, size/2)
	for slot, top := range seedOrder(size / 2) {
		bottom := size - 1 - top
		var m *models.Match
		if bottom >= len(ranked) {
			m = byeMarker(newID(), tournamentID, slot+1, ranked[top])
		} else {
			m = newPendingMatch(newID(), tournamentID, models.PhaseElimination, slot+1, ranked[top], ranked[bottom])
		}
		m.Round = idx + 1
		m.RoundIndexFromFinal = idx
		matches = append(matches, m)
	}
	return matches
}

func byeMarker(id, tournamentID string, number int, team models.SeededTeam) *models.Match {
	winner, name := team.ID, team.Name
	return &models.Match{
		ID:           id,
		TournamentID: tournamentID,
		PhaseType:    models.PhaseElimination,
		MatchNumber:  number,
		Team1ID:      team.ID,
		Team1Name:    team.Name,
		Team1Seed:    team.Seed,
		Status:       models.MatchStatusCompleted,
		WinnerID:     &winner,
		WinnerName:   &name,
		IsBye:        true,
		Version:      1,
	}
}

// BracketSize is the smallest power of two holding n entrants.
func BracketSize(n int) int {
	if n <= 2 {
		return 2
	}
	return 1 << bits.Len(uint(n-1))
}

// NextEliminationRound turns a fully completed round into the next one.
// It reports finished when the completed round was the final.
func NextEliminationRound(tournamentID string, completed []*models.Match, newID func() string) (next []*models.Match, finished bool, err error) {
	if len(completed) == 0 {
		return nil, false, fmt.Errorf("%w: empty round", ErrInvalidRoundInput)
	}
	for _, m := range completed {
		if !m.IsCompleted() {
			return nil, false, ErrRoundIncomplete
		}
		if m.RoundIndexFromFinal == 0 {
			finished = true
		}
	}
	if finished {
		return nil, true, nil
	}

	entrants, err := NextRoundEntrants(completed)
	if err != nil {
		return nil, false, err
	}
	next, err = BuildEliminationRound(tournamentID, entrants, false, newID)
	if err != nil {
		return nil, false, err
	}
	if len(entrants) == 2 {
		if third := ThirdPlaceMatch(tournamentID, completed, newID); third != nil {
			next = append(next, third)
		}
	}
	return next, false, nil
}

// NextRoundEntrants lists the winners of a completed round in bracket order.
func NextRoundEntrants(round []*models.Match) ([]models.SeededTeam, error) {
	ordered := make([]*models.Match, 0, len(round))
	for _, m := range round {
		if m.IsThirdPlaceMatch {
			continue
		}
		ordered = append(ordered, m)
	}
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].MatchNumber < ordered[j].MatchNumber })

	entrants := make([]models.SeededTeam, 0, len(ordered))
	for _, m := range ordered {
		if !m.IsCompleted() || m.WinnerID == nil {
			return nil, ErrRoundIncomplete
		}
		w := *m.WinnerID
		if !m.HasTeam(w) {
			return nil, fmt.Errorf("%w: match %s winner %s is not a participant", ErrInvalidRoundInput, m.ID, w)
		}
		entrants = append(entrants, models.SeededTeam{ID: w, Name: m.TeamName(w), Seed: m.TeamSeed(w)})
	}
	return entrants, nil
}

// ThirdPlaceMatch pairs the two losers of a semifinal round. It returns nil
// unless exactly two losers are known.
func ThirdPlaceMatch(tournamentID string, semifinals []*models.Match, newID func() string) *models.Match {
	losers := make([]models.SeededTeam, 0, 2)
	for _, m := range semifinals {
		if m.IsBye || m.IsThirdPlaceMatch {
			continue
		}
		l := m.LoserID()
		if l == "" {
			return nil
		}
		losers = append(losers, models.SeededTeam{ID: l, Name: m.TeamName(l), Seed: m.TeamSeed(l)})
	}
	if len(losers) != 2 {
		return nil
	}
	m := newPendingMatch(newID(), tournamentID, models.PhaseElimination, 2, losers[0], losers[1])
	m.Round = 1
	m.RoundIndexFromFinal = 0
	m.IsThirdPlaceMatch = true
	return m
}

// RoundName resolves the display name from the stored distance to the
// final.
func RoundName(roundIndexFromFinal int, thirdPlace bool) string {
	if thirdPlace {
		return "Third place"
	}
	switch roundIndexFromFinal {
	case 0:
		return "Final"
	case 1:
		return "Semifinal"
	case 2:
		return "Quarterfinal"
	default:
		return fmt.Sprintf("Round of %d", 1<<(roundIndexFromFinal+1))
	}
}

func seedRank(t models.SeededTeam) int {
	if t.Seed <= 0 {
		return int(^uint(0) >> 1)
	}
	return t.Seed
}

// seedOrder returns the indexes 0..n-1 in standard bracket order, so that
// with neighbour pairing in later rounds index 0 and 1 meet last.
func seedOrder(n int) []int {
	if n <= 0 {
		return nil
	}
	order := []int{0}
	for size := 1; size < n; size *= 2 {
		next := make([]int, 0, size*2)
		for _, x := range order {
			next = append(next, x, size*2-1-x)
		}
		order = next
	}
	out := make([]int, 0, n)
	for _, x := range order {
		if x < n {
			out = append(out, x)
		}
	}
	return out
}
