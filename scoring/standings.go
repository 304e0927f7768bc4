package scoring

import (
	"sort"

	"github.com/Dosada05/codm-tournament/models"
)

const PointsPerWin = 3

// TeamsFromMatches lists the distinct teams appearing in matches, in order of
// first appearance. Byes and empty slots are skipped.
func TeamsFromMatches(matches []*models.Match) []models.SeededTeam {
	seen := make(map[string]bool)
	var teams []models.SeededTeam
	add := func(id, name string, seed int) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		teams = append(teams, models.SeededTeam{ID: id, Name: name, Seed: seed})
	}
	for _, m := range matches {
		add(m.Team1ID, m.Team1Name, m.Team1Seed)
		if !m.IsBye {
			add(m.Team2ID, m.Team2Name, m.Team2Seed)
		}
	}
	return teams
}

// ComputeStandings builds a round-robin table from completed matches. Rows
// are ordered by points, wins, kills, fewest losses, then head-to-head when
// exactly two teams are tied, then the input order of teams. The first
// qualifiers rows are marked qualified.
func ComputeStandings(teams []models.SeededTeam, matches []*models.Match, qualifiers int) []models.StandingRow {
	rows := make([]models.StandingRow, len(teams))
	index := make(map[string]int, len(teams))
	for i, t := range teams {
		rows[i] = models.StandingRow{TeamID: t.ID, TeamName: t.Name}
		index[t.ID] = i
	}

	h2h := make(map[[2]string]string)
	for _, m := range matches {
		if !m.IsCompleted() || m.IsBye || m.IsThirdPlaceMatch || m.WinnerID == nil {
			continue
		}
		i1, ok1 := index[m.Team1ID]
		i2, ok2 := index[m.Team2ID]
		if !ok1 || !ok2 {
			continue
		}
		k1, k2 := 0, 0
		if m.MatchResult != nil {
			k1, k2 = m.MatchResult.Team1Stats.TotalKills, m.MatchResult.Team2Stats.TotalKills
		}
		rows[i1].Played++
		rows[i2].Played++
		rows[i1].TotalKills += k1
		rows[i2].TotalKills += k2

		winner, loser := i1, i2
		if *m.WinnerID == m.Team2ID {
			winner, loser = i2, i1
		}
		rows[winner].Wins++
		rows[winner].Points += PointsPerWin
		rows[loser].Losses++
		h2h[pairKey(m.Team1ID, m.Team2ID)] = *m.WinnerID
	}

	order := make(map[string]int, len(teams))
	for i, t := range teams {
		order[t.ID] = i
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if c := compareMetrics(rows[i], rows[j]); c != 0 {
			return c < 0
		}
		return order[rows[i].TeamID] < order[rows[j].TeamID]
	})

	// Head-to-head only settles a tie between exactly two teams; larger ties
	// keep seed order.
	for start := 0; start < len(rows); {
		end := start + 1
		for end < len(rows) && compareMetrics(rows[start], rows[end]) == 0 {
			end++
		}
		if end-start == 2 {
			a, b := rows[start], rows[start+1]
			if w, ok := h2h[pairKey(a.TeamID, b.TeamID)]; ok && w == b.TeamID {
				rows[start], rows[start+1] = b, a
			}
		}
		start = end
	}

	for i := range rows {
		rows[i].Position = i + 1
		rows[i].Qualified = i < qualifiers
	}
	return rows
}

// GroupStandings computes the table for one group from the tournament's
// group-stage matches.
func GroupStandings(groupName string, matches []*models.Match, qualifiers int) []models.StandingRow {
	var inGroup []*models.Match
	for _, m := range matches {
		if m.PhaseType == models.PhaseGroupStage && m.GroupName == groupName {
			inGroup = append(inGroup, m)
		}
	}
	rows := ComputeStandings(teamsBySeed(TeamsFromMatches(byMatchNumber(inGroup))), inGroup, qualifiers)
	for i := range rows {
		rows[i].GroupName = groupName
	}
	return rows
}

// BlocStandings computes the table for one play-in bloc.
func BlocStandings(bloc models.BlocType, matches []*models.Match, qualifiers int) []models.StandingRow {
	var inBloc []*models.Match
	for _, m := range matches {
		if m.PhaseType == models.PhasePlayIn && m.BlocType == bloc {
			inBloc = append(inBloc, m)
		}
	}
	rows := ComputeStandings(teamsBySeed(TeamsFromMatches(byMatchNumber(inBloc))), inBloc, qualifiers)
	for i := range rows {
		rows[i].BlocType = bloc
	}
	return rows
}

// GroupNames returns the distinct group names of group-stage matches in
// display order.
func GroupNames(matches []*models.Match) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range matches {
		if m.PhaseType != models.PhaseGroupStage || m.GroupName == "" || seen[m.GroupName] {
			continue
		}
		seen[m.GroupName] = true
		names = append(names, m.GroupName)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) < len(names[j])
		}
		return names[i] < names[j]
	})
	return names
}

// CompareRows orders rows from different tables, where head-to-head does not
// apply. Team id breaks the final tie.
func CompareRows(a, b models.StandingRow) int {
	if c := compareMetrics(a, b); c != 0 {
		return c
	}
	switch {
	case a.TeamID < b.TeamID:
		return -1
	case a.TeamID > b.TeamID:
		return 1
	}
	return 0
}

func compareMetrics(a, b models.StandingRow) int {
	switch {
	case a.Points != b.Points:
		return b.Points - a.Points
	case a.Wins != b.Wins:
		return b.Wins - a.Wins
	case a.TotalKills != b.TotalKills:
		return b.TotalKills - a.TotalKills
	case a.Losses != b.Losses:
		return a.Losses - b.Losses
	}
	return 0
}

func byMatchNumber(matches []*models.Match) []*models.Match {
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].MatchNumber < matches[j].MatchNumber })
	return matches
}

func teamsBySeed(teams []models.SeededTeam) []models.SeededTeam {
	sort.SliceStable(teams, func(i, j int) bool {
		return seedRank(teams[i].Seed) < seedRank(teams[j].Seed)
	})
	return teams
}

func seedRank(seed int) int {
	if seed <= 0 {
		return int(^uint(0) >> 1)
	}
	return seed
}

func pairKey(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}
