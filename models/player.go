package models

type PlayerStatus string

const (
	PlayerStatusPending   PlayerStatus = "pending"
	PlayerStatusValidated PlayerStatus = "validated"
	PlayerStatusRejected  PlayerStatus = "rejected"
)

// Player is one roster entry of a team.
type Player struct {
	ID                  string       `json:"id" db:"id" firestore:"id"`
	TeamID              string       `json:"teamId,omitempty" db:"team_id" firestore:"-"`
	Pseudo              string       `json:"pseudo" db:"pseudo" firestore:"pseudo"`
	Status              PlayerStatus `json:"status" db:"status" firestore:"status"`
	IsCaptain           bool         `json:"isCaptain" db:"is_captain" firestore:"isCaptain"`
	WhatsApp            string       `json:"whatsapp,omitempty" db:"whatsapp" firestore:"whatsapp"`
	Country             string       `json:"country,omitempty" db:"country" firestore:"country"`
	DeviceCheckVideoURL string       `json:"deviceCheckVideoUrl,omitempty" db:"device_check_video_url" firestore:"deviceCheckVideoUrl"`
	Position            int          `json:"-" db:"position" firestore:"-"`
}
