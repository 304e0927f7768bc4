package scoring

import (
	"sort"

	"github.com/Dosada05/codm-tournament/models"
)

const (
	// MaxCountedGames caps how many lobbies per team enter the ranking.
	MaxCountedGames      = 3
	DefaultBestPlacement = 25
	PointsPerKill        = 1
)

var battleRoyalePlacementPoints = map[int]int{
	1: 15, 2: 12, 3: 10, 4: 8, 5: 6, 6: 4, 7: 2, 8: 1, 9: 1, 10: 1,
}

// PlacementPoints returns the placement score of a lobby finish. Modes
// without a placement table score zero.
func PlacementPoints(mode models.GameMode, placement int) int {
	if mode != models.GameModeBattleRoyale {
		return 0
	}
	return battleRoyalePlacementPoints[placement]
}

// GamePoints is placement points plus kill points.
func GamePoints(mode models.GameMode, r models.GameResult) int {
	return PlacementPoints(mode, r.Placement) + r.Kills*PointsPerKill
}

// RankTeams replays game results into team rankings. Only the first
// MaxCountedGames distinct game numbers of each team are counted.
func RankTeams(mode models.GameMode, results []models.GameResult) []models.TeamRanking {
	byTeam := make(map[string][]models.GameResult)
	var teamOrder []string
	for _, r := range results {
		if _, ok := byTeam[r.TeamID]; !ok {
			teamOrder = append(teamOrder, r.TeamID)
		}
		byTeam[r.TeamID] = append(byTeam[r.TeamID], r)
	}

	rankings := make([]models.TeamRanking, 0, len(teamOrder))
	for _, teamID := range teamOrder {
		games := byTeam[teamID]
		sort.SliceStable(games, func(i, j int) bool {
			if games[i].GameNumber != games[j].GameNumber {
				return games[i].GameNumber < games[j].GameNumber
			}
			return games[i].CreatedAt.Before(games[j].CreatedAt)
		})

		tr := models.TeamRanking{TeamID: teamID, BestPlacement: DefaultBestPlacement}
		counted := make(map[int]bool)
		for _, g := range games {
			if counted[g.GameNumber] {
				continue
			}
			if len(counted) == MaxCountedGames {
				break
			}
			counted[g.GameNumber] = true
			if g.TeamName != "" {
				tr.TeamName = g.TeamName
			}
			tr.GamesPlayed++
			tr.TotalKills += g.Kills
			tr.TotalPoints += GamePoints(mode, g)
			if g.Placement > 0 && g.Placement < tr.BestPlacement {
				tr.BestPlacement = g.Placement
			}
		}
		tr.AveragePoints = Average(tr.TotalPoints, tr.GamesPlayed)
		rankings = append(rankings, tr)
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		a, b := rankings[i], rankings[j]
		switch {
		case a.TotalPoints != b.TotalPoints:
			return a.TotalPoints > b.TotalPoints
		case a.TotalKills != b.TotalKills:
			return a.TotalKills > b.TotalKills
		case a.BestPlacement != b.BestPlacement:
			return a.BestPlacement < b.BestPlacement
		}
		return a.TeamID < b.TeamID
	})
	for i := range rankings {
		rankings[i].Position = i + 1
	}
	return rankings
}
