package models

import "time"

type TeamStatus string

const (
	TeamStatusIncomplete TeamStatus = "incomplete"
	TeamStatusComplete   TeamStatus = "complete"
	TeamStatusValidated  TeamStatus = "validated"
	TeamStatusRejected   TeamStatus = "rejected"
)

// Team is a registered squad. Captain is a denormalized copy of the roster
// entry flagged IsCaptain.
type Team struct {
	ID           string     `json:"id" db:"id" firestore:"id"`
	TournamentID string     `json:"tournamentId" db:"tournament_id" firestore:"tournamentId"`
	Name         string     `json:"name" db:"name" firestore:"name"`
	Status       TeamStatus `json:"status" db:"status" firestore:"status"`
	Players      []Player   `json:"players" db:"-" firestore:"players"`
	Captain      *Player    `json:"captain,omitempty" db:"-" firestore:"captain,omitempty"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at" firestore:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at" firestore:"updatedAt"`
}

// PlayerIDs returns the roster ids in roster order.
func (t *Team) PlayerIDs() []string {
	ids := make([]string, 0, len(t.Players))
	for _, p := range t.Players {
		ids = append(ids, p.ID)
	}
	return ids
}

// FindPlayer returns the roster entry with the given id.
func (t *Team) FindPlayer(playerID string) (*Player, bool) {
	for i := range t.Players {
		if t.Players[i].ID == playerID {
			return &t.Players[i], true
		}
	}
	return nil, false
}

// SyncCaptain refreshes the denormalized captain copy from the roster.
func (t *Team) SyncCaptain() {
	t.Captain = nil
	for i := range t.Players {
		if t.Players[i].IsCaptain {
			c := t.Players[i]
			t.Captain = &c
			return
		}
	}
}

// DeriveTeamStatus computes a team's status from its roster. Rejection is
// sticky: it only comes from an explicit admin action.
func DeriveTeamStatus(players []Player, teamSize int, rejected bool) TeamStatus {
	if rejected {
		return TeamStatusRejected
	}
	validated := 0
	for _, p := range players {
		if p.Status == PlayerStatusValidated {
			validated++
		}
	}
	switch {
	case teamSize > 0 && validated >= teamSize:
		return TeamStatusValidated
	case teamSize > 0 && len(players) >= teamSize:
		return TeamStatusComplete
	default:
		return TeamStatusIncomplete
	}
}
