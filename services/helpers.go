package services

import (
	"fmt"
	"sort"

	"github.com/Dosada05/codm-tournament/brackets"
	"github.com/Dosada05/codm-tournament/models"
	"github.com/Dosada05/codm-tournament/scoring"
)

// Notifier pushes realtime events to whoever watches a tournament.
// *brackets.Hub implements it.
type Notifier interface {
	Publish(tournamentID, eventType string, payload interface{})
}

type noopNotifier struct{}

func (noopNotifier) Publish(string, string, interface{}) {}

func notifierOrNoop(n Notifier) Notifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}

var _ Notifier = (*brackets.Hub)(nil)

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidationFailed, fmt.Sprintf(format, args...))
}

// phasesFor lists the phases of a format in play order.
func phasesFor(f models.CustomFormat) []models.PhaseType {
	switch f.TournamentFormat {
	case models.FormatGroupsOnly:
		return []models.PhaseType{models.PhaseGroupStage}
	case models.FormatGroupsThenElimination:
		return []models.PhaseType{models.PhaseGroupStage, models.PhaseElimination}
	default:
		if f.HasPlayIn() {
			return []models.PhaseType{models.PhasePlayIn, models.PhaseElimination}
		}
		return []models.PhaseType{models.PhaseElimination}
	}
}

func phaseIndex(f models.CustomFormat, phase models.PhaseType) int {
	for i, p := range phasesFor(f) {
		if p == phase {
			return i
		}
	}
	return -1
}

func filterPhase(matches []*models.Match, phase models.PhaseType) []*models.Match {
	out := make([]*models.Match, 0, len(matches))
	for _, m := range matches {
		if m.PhaseType == phase {
			out = append(out, m)
		}
	}
	return out
}

// allCompleted is false for an empty list.
func allCompleted(matches []*models.Match) bool {
	if len(matches) == 0 {
		return false
	}
	for _, m := range matches {
		if !m.IsCompleted() {
			return false
		}
	}
	return true
}

// groupTables returns the standings of every group found in the matches.
func groupTables(matches []*models.Match, qualifiersPerGroup int) map[string][]models.StandingRow {
	tables := make(map[string][]models.StandingRow)
	for _, name := range scoring.GroupNames(matches) {
		tables[name] = scoring.GroupStandings(name, matches, qualifiersPerGroup)
	}
	return tables
}

func blocBQualifiers(f models.CustomFormat) int {
	if f.PlayIn != nil && f.PlayIn.BlocBQualifiers > 0 {
		return f.PlayIn.BlocBQualifiers
	}
	return models.DefaultQualifiersPerGroup
}

// blocATable ranks the bloc A knockout; match winners are the qualified
// teams.
func blocATable(matches []*models.Match) []models.StandingRow {
	rows := scoring.BlocStandings(models.BlocA, matches, 0)
	winners := make(map[string]bool)
	for _, m := range matches {
		if m.PhaseType == models.PhasePlayIn && m.BlocType == models.BlocA && m.IsCompleted() && m.WinnerID != nil {
			winners[*m.WinnerID] = true
		}
	}
	for i := range rows {
		rows[i].Qualified = winners[rows[i].TeamID]
	}
	return rows
}

// qualificationFor computes the elimination entrants produced by a finished
// group stage or play-in.
func qualificationFor(t *models.Tournament, matches []*models.Match) (scoring.Qualification, error) {
	switch {
	case t.CustomFormat.TournamentFormat == models.FormatGroupsThenElimination:
		groups := filterPhase(matches, models.PhaseGroupStage)
		if !allCompleted(groups) {
			return scoring.Qualification{}, ErrGroupStageIncomplete
		}
		q, err := scoring.GroupStageQualifiers(groupTables(groups, t.CustomFormat.Groups().QualifiersPerGroup), t.CustomFormat.Groups().QualifiersPerGroup)
		return q, handleRepositoryError(err)
	case t.CustomFormat.HasPlayIn():
		playIn := filterPhase(matches, models.PhasePlayIn)
		if !allCompleted(playIn) {
			return scoring.Qualification{}, ErrPlayInIncomplete
		}
		var blocA []*models.Match
		for _, m := range playIn {
			if m.BlocType == models.BlocA {
				blocA = append(blocA, m)
			}
		}
		blocB := scoring.BlocStandings(models.BlocB, playIn, blocBQualifiers(t.CustomFormat))
		q, err := scoring.PlayInQualifiers(blocA, blocB, blocBQualifiers(t.CustomFormat))
		return q, handleRepositoryError(err)
	}
	return scoring.Qualification{}, ErrPhaseNotAvailable
}

// latestEliminationRound returns the matches of the most advanced
// elimination round generated so far. Rounds count down to the final.
func latestEliminationRound(matches []*models.Match) []*models.Match {
	elim := filterPhase(matches, models.PhaseElimination)
	if len(elim) == 0 {
		return nil
	}
	minRound := elim[0].Round
	for _, m := range elim {
		if m.Round < minRound {
			minRound = m.Round
		}
	}
	out := make([]*models.Match, 0)
	for _, m := range elim {
		if m.Round == minRound {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].MatchNumber < out[j].MatchNumber })
	return out
}

func validatedSeeds(teams []*models.Team) []models.SeededTeam {
	validated := make([]*models.Team, 0, len(teams))
	for _, t := range teams {
		if t.Status == models.TeamStatusValidated {
			validated = append(validated, t)
		}
	}
	return models.SeedTeams(validated)
}
