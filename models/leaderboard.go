package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type KillStats struct {
	TotalKills          int     `json:"totalKills"`
	GamesPlayed         int     `json:"gamesPlayed"`
	AverageKillsPerGame float64 `json:"averageKillsPerGame"`
	BestSingleGame      int     `json:"bestSingleGame"`
}

type KillLeaderboardEntry struct {
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	TeamID     string    `json:"teamId"`
	TeamName   string    `json:"teamName"`
	KillStats  KillStats `json:"killStats"`
	Position   int       `json:"position"`
}

type KillLeaderboardEntries []KillLeaderboardEntry

func (e KillLeaderboardEntries) Value() (driver.Value, error) {
	if e == nil {
		e = KillLeaderboardEntries{}
	}
	return json.Marshal(e)
}

func (e *KillLeaderboardEntries) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*e = KillLeaderboardEntries{}
		return nil
	case []byte:
		return json.Unmarshal(v, e)
	case string:
		return json.Unmarshal([]byte(v), e)
	default:
		return fmt.Errorf("leaderboard entries: unsupported column type %T", src)
	}
}

// TournamentKillLeaderboard is the ranked aggregate for one tournament and
// game mode.
type TournamentKillLeaderboard struct {
	TournamentID string                 `json:"tournamentId" db:"tournament_id"`
	GameMode     GameMode               `json:"gameMode" db:"game_mode"`
	Entries      KillLeaderboardEntries `json:"entries" db:"entries"`
	UpdatedAt    time.Time              `json:"updatedAt" db:"updated_at"`
}

// KillSubmission is one player's kills for one round of one match. The
// leaderboard is a pure function of these rows.
type KillSubmission struct {
	ID           int64     `json:"id" db:"id"`
	TournamentID string    `json:"tournamentId" db:"tournament_id"`
	GameMode     GameMode  `json:"gameMode" db:"game_mode"`
	MatchID      string    `json:"matchId" db:"match_id"`
	RoundNumber  int       `json:"roundNumber" db:"round_number"`
	PlayerID     string    `json:"playerId" db:"player_id"`
	PlayerName   string    `json:"playerName" db:"player_name"`
	TeamID       string    `json:"teamId" db:"team_id"`
	TeamName     string    `json:"teamName" db:"team_name"`
	Kills        int       `json:"kills" db:"kills"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

type RecordHolder struct {
	TournamentID string  `json:"tournamentId"`
	PlayerID     string  `json:"playerId"`
	PlayerName   string  `json:"playerName"`
	TeamName     string  `json:"teamName"`
	Value        float64 `json:"value"`
}

// GlobalRecords are cross-tournament maxima, always derived from the stored
// leaderboards.
type GlobalRecords struct {
	GameMode        GameMode      `json:"gameMode"`
	TopTotalKills   *RecordHolder `json:"topTotalKills"`
	TopAverageKills *RecordHolder `json:"topAverageKills"`
	TopSingleGame   *RecordHolder `json:"topSingleGame"`
}
