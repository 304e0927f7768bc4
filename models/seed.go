package models

// SeededTeam is a team entering a generated phase. Lower Seed is better;
// zero means unseeded.
type SeededTeam struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Seed int    `json:"seed"`
}

// SeedTeams numbers teams 1..n in the given order.
func SeedTeams(teams []*Team) []SeededTeam {
	out := make([]SeededTeam, 0, len(teams))
	for i, t := range teams {
		out = append(out, SeededTeam{ID: t.ID, Name: t.Name, Seed: i + 1})
	}
	return out
}
