package brackets

import "github.com/Dosada05/codm-tournament/models"

// RoundRobinPairings returns every unordered pair of teams exactly once,
// n*(n-1)/2 pairs, in input order.
func RoundRobinPairings(teams []models.SeededTeam) [][2]models.SeededTeam {
	pairs := make([][2]models.SeededTeam, 0, len(teams)*(len(teams)-1)/2)
	for i := 0; i < len(teams); i++ {
		for j := i + 1; j < len(teams); j++ {
			pairs = append(pairs, [2]models.SeededTeam{teams[i], teams[j]})
		}
	}
	return pairs
}
