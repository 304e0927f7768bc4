package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type MatchStatus string

const (
	MatchStatusPending    MatchStatus = "pending"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusCompleted  MatchStatus = "completed"
)

type PhaseType string

const (
	PhaseGroupStage  PhaseType = "group_stage"
	PhasePlayIn      PhaseType = "play_in"
	PhaseElimination PhaseType = "elimination"
)

func (p PhaseType) Valid() bool {
	return p == PhaseGroupStage || p == PhasePlayIn || p == PhaseElimination
}

type BlocType string

const (
	BlocA BlocType = "A"
	BlocB BlocType = "B"
)

// PlayerKills is one player's kill count, either for a single round or
// accumulated over a match.
type PlayerKills struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Kills      int    `json:"kills"`
}

type TeamStats struct {
	RoundsWon   int           `json:"roundsWon"`
	TotalKills  int           `json:"totalKills"`
	PlayerStats []PlayerKills `json:"playerStats"`
}

type RoundDetail struct {
	RoundNumber      int           `json:"roundNumber"`
	WinnerID         string        `json:"winnerId"`
	Team1Kills       int           `json:"team1Kills"`
	Team2Kills       int           `json:"team2Kills"`
	Team1PlayerStats []PlayerKills `json:"team1PlayerStats"`
	Team2PlayerStats []PlayerKills `json:"team2PlayerStats"`
	RecordedAt       time.Time     `json:"recordedAt"`
}

// MatchResult is tagged by Kind: single_game results hold exactly one round
// and score as kills, best_of results score as rounds won.
type MatchResult struct {
	Kind       ResultKind    `json:"kind"`
	BestOf     int           `json:"bestOf"`
	FinalScore string        `json:"finalScore"`
	Team1Stats TeamStats     `json:"team1Stats"`
	Team2Stats TeamStats     `json:"team2Stats"`
	Rounds     []RoundDetail `json:"rounds"`
}

func (r MatchResult) Value() (driver.Value, error) {
	return json.Marshal(r)
}

func (r *MatchResult) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	default:
		return fmt.Errorf("match result: unsupported column type %T", src)
	}
}

// Clone returns a deep copy so callers can mutate it without touching the
// persisted value.
func (r *MatchResult) Clone() *MatchResult {
	if r == nil {
		return nil
	}
	out := *r
	out.Team1Stats.PlayerStats = append([]PlayerKills(nil), r.Team1Stats.PlayerStats...)
	out.Team2Stats.PlayerStats = append([]PlayerKills(nil), r.Team2Stats.PlayerStats...)
	out.Rounds = make([]RoundDetail, len(r.Rounds))
	for i, rd := range r.Rounds {
		rd.Team1PlayerStats = append([]PlayerKills(nil), rd.Team1PlayerStats...)
		rd.Team2PlayerStats = append([]PlayerKills(nil), rd.Team2PlayerStats...)
		out.Rounds[i] = rd
	}
	return &out
}

// Match is one scheduled pairing. WinnerID stays nil until Status is
// completed; LastRoundWinnerID tracks the most recent round.
type Match struct {
	ID                  string       `json:"id" db:"id"`
	TournamentID        string       `json:"tournamentId" db:"tournament_id"`
	PhaseType           PhaseType    `json:"phaseType" db:"phase_type"`
	GroupName           string       `json:"groupName,omitempty" db:"group_name"`
	BlocType            BlocType     `json:"blocType,omitempty" db:"bloc_type"`
	Round               int          `json:"round" db:"round"`
	RoundIndexFromFinal int          `json:"roundIndexFromFinal" db:"round_index_from_final"`
	MatchNumber         int          `json:"matchNumber" db:"match_number"`
	Team1ID             string       `json:"team1Id" db:"team1_id"`
	Team1Name           string       `json:"team1Name" db:"team1_name"`
	Team1Seed           int          `json:"team1Seed,omitempty" db:"team1_seed"`
	Team2ID             string       `json:"team2Id,omitempty" db:"team2_id"`
	Team2Name           string       `json:"team2Name,omitempty" db:"team2_name"`
	Team2Seed           int          `json:"team2Seed,omitempty" db:"team2_seed"`
	Status              MatchStatus  `json:"status" db:"status"`
	WinnerID            *string      `json:"winnerId" db:"winner_id"`
	WinnerName          *string      `json:"winnerName,omitempty" db:"winner_name"`
	LastRoundWinnerID   *string      `json:"lastRoundWinnerId,omitempty" db:"last_round_winner_id"`
	IsThirdPlaceMatch   bool         `json:"isThirdPlaceMatch" db:"is_third_place_match"`
	IsBye               bool         `json:"isBye" db:"is_bye"`
	MatchResult         *MatchResult `json:"matchResult" db:"match_result"`
	Version             int          `json:"version" db:"version"`
	CreatedAt           time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time    `json:"updatedAt" db:"updated_at"`
}

func (m *Match) HasStarted() bool {
	return m.Status != MatchStatusPending
}

func (m *Match) IsCompleted() bool {
	return m.Status == MatchStatusCompleted
}

func (m *Match) HasTeam(teamID string) bool {
	return teamID != "" && (m.Team1ID == teamID || m.Team2ID == teamID)
}

// LoserID returns the eliminated side of a completed two-team match.
func (m *Match) LoserID() string {
	if !m.IsCompleted() || m.WinnerID == nil || m.IsBye {
		return ""
	}
	if *m.WinnerID == m.Team1ID {
		return m.Team2ID
	}
	return m.Team1ID
}

func (m *Match) TeamName(teamID string) string {
	switch teamID {
	case m.Team1ID:
		return m.Team1Name
	case m.Team2ID:
		return m.Team2Name
	}
	return ""
}

func (m *Match) TeamSeed(teamID string) int {
	switch teamID {
	case m.Team1ID:
		return m.Team1Seed
	case m.Team2ID:
		return m.Team2Seed
	}
	return 0
}

// MatchFilter narrows a match listing. Zero values match everything.
type MatchFilter struct {
	Phase     PhaseType
	GroupName string
	BlocType  BlocType
	Round     *int
	Status    MatchStatus
}

func (f MatchFilter) Matches(m *Match) bool {
	if f.Phase != "" && m.PhaseType != f.Phase {
		return false
	}
	if f.GroupName != "" && m.GroupName != f.GroupName {
		return false
	}
	if f.BlocType != "" && m.BlocType != f.BlocType {
		return false
	}
	if f.Round != nil && m.Round != *f.Round {
		return false
	}
	if f.Status != "" && m.Status != f.Status {
		return false
	}
	return true
}
