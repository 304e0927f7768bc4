package scoring

import (
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/codm-tournament/models"
)

var (
	ErrNoWinnerSelected      = errors.New("no round winner selected")
	ErrWinnerNotInMatch      = errors.New("round winner is not one of the match teams")
	ErrMatchAlreadyCompleted = errors.New("match is already completed")
	ErrTooManyRounds         = errors.New("match already has bestOf rounds recorded")
	ErrByeMatch              = errors.New("a bye cannot receive results")
	ErrNegativeKills         = errors.New("kill counts must not be negative")
	ErrDuplicatePlayer       = errors.New("player listed more than once in a round")
	ErrUnknownPlayer         = errors.New("player is not on the team roster")
)

// RoundSubmission is one round's outcome as entered by an admin.
type RoundSubmission struct {
	WinnerID         string               `json:"winnerId"`
	Team1PlayerKills []models.PlayerKills `json:"team1PlayerKills"`
	Team2PlayerKills []models.PlayerKills `json:"team2PlayerKills"`
}

// RequiredWins is the number of rounds needed to take a best-of-N match.
func RequiredWins(bestOf int) int {
	if bestOf < 1 {
		bestOf = 1
	}
	return (bestOf + 1) / 2
}

// BestOfFor is the series length of one match. Single-game modes and every
// group stage or play-in match are decided in one game; multiplayer
// elimination matches use the tournament's configured length.
func BestOfFor(t *models.Tournament, m *models.Match) int {
	if t.GameMode.ResultKind() == models.ResultKindSingleGame || m.PhaseType != models.PhaseElimination {
		return 1
	}
	if bo := t.CustomFormat.BestOf; bo == 3 || bo == 5 {
		return bo
	}
	return models.DefaultMultiplayerBestOf
}

// ApplyRound advances a match by one round and returns the updated copy; the
// input match is left untouched. Rosters are used to fill players missing
// from the submission with zero kills; a nil roster accepts the submission
// as is.
func ApplyRound(match *models.Match, kind models.ResultKind, bestOf int, sub RoundSubmission, roster1, roster2 []models.Player, now time.Time) (*models.Match, error) {
	switch {
	case match.IsBye:
		return nil, ErrByeMatch
	case match.IsCompleted():
		return nil, ErrMatchAlreadyCompleted
	case sub.WinnerID == "":
		return nil, ErrNoWinnerSelected
	case sub.WinnerID != match.Team1ID && sub.WinnerID != match.Team2ID:
		return nil, ErrWinnerNotInMatch
	}

	if kind == models.ResultKindSingleGame || bestOf < 1 {
		bestOf = 1
	}
	result := match.MatchResult.Clone()
	if result == nil {
		result = &models.MatchResult{
			Kind:       kind,
			BestOf:     bestOf,
			Team1Stats: models.TeamStats{PlayerStats: []models.PlayerKills{}},
			Team2Stats: models.TeamStats{PlayerStats: []models.PlayerKills{}},
			Rounds:     []models.RoundDetail{},
		}
	}
	if len(result.Rounds) >= result.BestOf {
		return nil, ErrTooManyRounds
	}

	t1, err := normalizeKills(sub.Team1PlayerKills, roster1)
	if err != nil {
		return nil, fmt.Errorf("team 1: %w", err)
	}
	t2, err := normalizeKills(sub.Team2PlayerKills, roster2)
	if err != nil {
		return nil, fmt.Errorf("team 2: %w", err)
	}

	round := models.RoundDetail{
		RoundNumber:      len(result.Rounds) + 1,
		WinnerID:         sub.WinnerID,
		Team1Kills:       sumKills(t1),
		Team2Kills:       sumKills(t2),
		Team1PlayerStats: t1,
		Team2PlayerStats: t2,
		RecordedAt:       now,
	}
	result.Rounds = append(result.Rounds, round)

	if sub.WinnerID == match.Team1ID {
		result.Team1Stats.RoundsWon++
	} else {
		result.Team2Stats.RoundsWon++
	}
	result.Team1Stats.PlayerStats = mergeKills(result.Team1Stats.PlayerStats, t1)
	result.Team2Stats.PlayerStats = mergeKills(result.Team2Stats.PlayerStats, t2)
	result.Team1Stats.TotalKills = sumKills(result.Team1Stats.PlayerStats)
	result.Team2Stats.TotalKills = sumKills(result.Team2Stats.PlayerStats)

	updated := *match
	updated.MatchResult = result
	winner := sub.WinnerID
	updated.LastRoundWinnerID = &winner
	updated.UpdatedAt = now

	required := RequiredWins(result.BestOf)
	if result.Team1Stats.RoundsWon >= required || result.Team2Stats.RoundsWon >= required {
		matchWinner, matchWinnerName := match.Team1ID, match.Team1Name
		if result.Team2Stats.RoundsWon > result.Team1Stats.RoundsWon {
			matchWinner, matchWinnerName = match.Team2ID, match.Team2Name
		}
		updated.Status = models.MatchStatusCompleted
		updated.WinnerID = &matchWinner
		updated.WinnerName = &matchWinnerName
		result.FinalScore = FinalScore(result)
	} else {
		updated.Status = models.MatchStatusInProgress
		updated.WinnerID = nil
		updated.WinnerName = nil
	}
	return &updated, nil
}

// FinalScore formats rounds won for best-of results and kills for single
// games.
func FinalScore(r *models.MatchResult) string {
	if r.Kind == models.ResultKindSingleGame {
		return fmt.Sprintf("%d-%d", r.Team1Stats.TotalKills, r.Team2Stats.TotalKills)
	}
	return fmt.Sprintf("%d-%d", r.Team1Stats.RoundsWon, r.Team2Stats.RoundsWon)
}

func normalizeKills(in []models.PlayerKills, roster []models.Player) ([]models.PlayerKills, error) {
	seen := make(map[string]models.PlayerKills, len(in))
	for _, pk := range in {
		if pk.Kills < 0 {
			return nil, fmt.Errorf("%w: player %s", ErrNegativeKills, pk.PlayerID)
		}
		if _, dup := seen[pk.PlayerID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePlayer, pk.PlayerID)
		}
		seen[pk.PlayerID] = pk
	}
	if len(roster) == 0 {
		return append([]models.PlayerKills{}, in...), nil
	}

	out := make([]models.PlayerKills, 0, len(roster))
	for _, p := range roster {
		pk, ok := seen[p.ID]
		if !ok {
			pk = models.PlayerKills{PlayerID: p.ID}
		}
		if pk.PlayerName == "" {
			pk.PlayerName = p.Pseudo
		}
		delete(seen, p.ID)
		out = append(out, pk)
	}
	for id := range seen {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
	}
	return out, nil
}

func mergeKills(total, round []models.PlayerKills) []models.PlayerKills {
	out := append([]models.PlayerKills{}, total...)
	index := make(map[string]int, len(out))
	for i, pk := range out {
		index[pk.PlayerID] = i
	}
	for _, pk := range round {
		if i, ok := index[pk.PlayerID]; ok {
			out[i].Kills += pk.Kills
			if out[i].PlayerName == "" {
				out[i].PlayerName = pk.PlayerName
			}
			continue
		}
		index[pk.PlayerID] = len(out)
		out = append(out, pk)
	}
	return out
}

func sumKills(stats []models.PlayerKills) int {
	total := 0
	for _, pk := range stats {
		total += pk.Kills
	}
	return total
}
