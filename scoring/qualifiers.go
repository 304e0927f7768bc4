package scoring

import (
	"errors"
	"sort"

	"github.com/Dosada05/codm-tournament/models"
)

var ErrNotEnoughQualifiers = errors.New("not enough qualified teams for an elimination bracket")

// Qualification is the elimination entrant list produced from a finished
// group stage or play-in.
type Qualification struct {
	Direct    []models.SeededTeam `json:"direct"`
	Repechage []models.SeededTeam `json:"repechage"`
}

// Entrants returns direct qualifiers followed by repechage teams, seeded
// 1..n in that order.
func (q Qualification) Entrants() []models.SeededTeam {
	out := make([]models.SeededTeam, 0, len(q.Direct)+len(q.Repechage))
	out = append(out, q.Direct...)
	out = append(out, q.Repechage...)
	for i := range out {
		out[i].Seed = i + 1
	}
	return out
}

// GroupStageQualifiers takes the top qualifiersPerGroup teams of every group
// table and pads the field to the next power of two with the best remaining
// teams across all groups. Group winners are seeded ahead of runners-up, and
// so on.
func GroupStageQualifiers(tables map[string][]models.StandingRow, qualifiersPerGroup int) (Qualification, error) {
	names := make([]string, 0, len(tables))
	maxLen := 0
	for name, rows := range tables {
		names = append(names, name)
		if len(rows) > maxLen {
			maxLen = len(rows)
		}
	}
	sort.Strings(names)

	var direct, rest []models.StandingRow
	for pos := 0; pos < maxLen; pos++ {
		var tier []models.StandingRow
		for _, name := range names {
			rows := tables[name]
			if pos < len(rows) {
				tier = append(tier, rows[pos])
			}
		}
		sort.SliceStable(tier, func(i, j int) bool { return CompareRows(tier[i], tier[j]) < 0 })
		if pos < qualifiersPerGroup {
			direct = append(direct, tier...)
		} else {
			rest = append(rest, tier...)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool { return CompareRows(rest[i], rest[j]) < 0 })

	target := NextPowerOfTwo(len(direct))
	if target < 2 {
		target = 2
	}
	pad := target - len(direct)
	if pad > len(rest) {
		pad = len(rest)
	}

	q := Qualification{Direct: rowsToSeeds(direct), Repechage: rowsToSeeds(rest[:pad])}
	if len(q.Direct)+len(q.Repechage) < 2 {
		return q, ErrNotEnoughQualifiers
	}
	return q, nil
}

// PlayInQualifiers returns the bloc A match winners, in match order,
// followed by the top blocBQualifiers of the bloc B table.
func PlayInQualifiers(blocAMatches []*models.Match, blocB []models.StandingRow, blocBQualifiers int) (Qualification, error) {
	ordered := append([]*models.Match(nil), blocAMatches...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].MatchNumber < ordered[j].MatchNumber })

	var q Qualification
	for _, m := range ordered {
		if m.WinnerID == nil {
			continue
		}
		q.Direct = append(q.Direct, models.SeededTeam{ID: *m.WinnerID, Name: m.TeamName(*m.WinnerID)})
	}
	if blocBQualifiers <= 0 {
		blocBQualifiers = models.DefaultQualifiersPerGroup
	}
	if blocBQualifiers > len(blocB) {
		blocBQualifiers = len(blocB)
	}
	q.Direct = append(q.Direct, rowsToSeeds(blocB[:blocBQualifiers])...)
	if len(q.Direct) < 2 {
		return q, ErrNotEnoughQualifiers
	}
	return q, nil
}

// NextPowerOfTwo returns the smallest power of two >= n, or 0 for n <= 0.
func NextPowerOfTwo(n int) int {
	if n <= 0 {
		return 0
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func rowsToSeeds(rows []models.StandingRow) []models.SeededTeam {
	out := make([]models.SeededTeam, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.SeededTeam{ID: r.TeamID, Name: r.TeamName})
	}
	return out
}
