package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type TournamentStatus string

const (
	TournamentStatusDraft     TournamentStatus = "draft"
	TournamentStatusActive    TournamentStatus = "active"
	TournamentStatusCompleted TournamentStatus = "completed"
)

type GameMode string

const (
	GameModeBattleRoyale GameMode = "battle_royale"
	GameModeMultiplayer  GameMode = "multiplayer"
)

// ResultKind tags the shape of a MatchResult.
type ResultKind string

const (
	ResultKindSingleGame ResultKind = "single_game"
	ResultKindBestOf     ResultKind = "best_of"
)

func (m GameMode) Valid() bool {
	return m == GameModeBattleRoyale || m == GameModeMultiplayer
}

// TeamSize is the number of validated players a team needs.
func (m GameMode) TeamSize() int {
	switch m {
	case GameModeBattleRoyale:
		return 4
	case GameModeMultiplayer:
		return 5
	default:
		return 0
	}
}

func (m GameMode) ResultKind() ResultKind {
	if m == GameModeMultiplayer {
		return ResultKindBestOf
	}
	return ResultKindSingleGame
}

// TournamentStats are derived counters, recomputed on demand.
type TournamentStats struct {
	TeamCount        int `json:"teamCount"`
	ValidatedTeams   int `json:"validatedTeams"`
	PlayerCount      int `json:"playerCount"`
	MatchCount       int `json:"matchCount"`
	MatchesCompleted int `json:"matchesCompleted"`
	TotalKills       int `json:"totalKills"`
}

func (s TournamentStats) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *TournamentStats) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*s = TournamentStats{}
		return nil
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("tournament stats: unsupported column type %T", src)
	}
}

type Tournament struct {
	ID               string           `json:"id" db:"id"`
	Name             string           `json:"name" db:"name"`
	GameMode         GameMode         `json:"gameMode" db:"game_mode"`
	Status           TournamentStatus `json:"status" db:"status"`
	CustomFormat     CustomFormat     `json:"customFormat" db:"custom_format"`
	DeadlineRegister *time.Time       `json:"deadline_register,omitempty" db:"deadline_register"`
	DateResult       *time.Time       `json:"date_result,omitempty" db:"date_result"`
	Stats            TournamentStats  `json:"stats" db:"stats"`
	CreatedAt        time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time        `json:"updatedAt" db:"updated_at"`
}
