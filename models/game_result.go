package models

import "time"

// GameResult is one battle-royale lobby outcome for one team.
type GameResult struct {
	ID           string    `json:"id" db:"id"`
	TournamentID string    `json:"tournamentId" db:"tournament_id"`
	TeamID       string    `json:"teamId" db:"team_id"`
	TeamName     string    `json:"teamName" db:"team_name"`
	GameNumber   int       `json:"gameNumber" db:"game_number"`
	Placement    int       `json:"placement" db:"placement"`
	Kills        int       `json:"kills" db:"kills"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

type TeamRanking struct {
	TeamID        string  `json:"teamId"`
	TeamName      string  `json:"teamName"`
	TotalPoints   int     `json:"totalPoints"`
	TotalKills    int     `json:"totalKills"`
	GamesPlayed   int     `json:"gamesPlayed"`
	AveragePoints float64 `json:"averagePoints"`
	BestPlacement int     `json:"bestPlacement"`
	Position      int     `json:"position"`
}
