package models

// StandingRow is a derived group or bloc table line. It is never stored.
type StandingRow struct {
	TeamID     string   `json:"teamId"`
	TeamName   string   `json:"teamName"`
	GroupName  string   `json:"groupName,omitempty"`
	BlocType   BlocType `json:"blocType,omitempty"`
	Played     int      `json:"played"`
	Wins       int      `json:"wins"`
	Losses     int      `json:"losses"`
	Points     int      `json:"points"`
	TotalKills int      `json:"totalKills"`
	Position   int      `json:"position"`
	Qualified  bool     `json:"qualified"`
}
