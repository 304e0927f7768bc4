package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

type TournamentFormat string

const (
	FormatEliminationDirect     TournamentFormat = "elimination_direct"
	FormatGroupsThenElimination TournamentFormat = "groups_then_elimination"
	FormatGroupsOnly            TournamentFormat = "groups_only"
)

const (
	DefaultTeamsPerGroup      = 4
	DefaultQualifiersPerGroup = 2
	DefaultMultiplayerBestOf  = 3
)

var ErrInvalidFormat = errors.New("invalid tournament format")

// GroupStageSettings configures round-robin groups.
type GroupStageSettings struct {
	TeamsPerGroup      int `json:"teamsPerGroup"`
	QualifiersPerGroup int `json:"qualifiersPerGroup"`
}

// PlayInSettings configures the play-in phase that precedes a direct
// elimination bracket. The first BlocATeams teams play single knockout
// matches, the rest play a round-robin pool.
type PlayInSettings struct {
	BlocATeams      int `json:"blocATeams"`
	BlocBQualifiers int `json:"blocBQualifiers"`
}

// CustomFormat is persisted as a JSON document column.
type CustomFormat struct {
	TournamentFormat TournamentFormat    `json:"tournamentFormat"`
	BestOf           int                 `json:"bestOf"`
	GroupStage       *GroupStageSettings `json:"groupStage,omitempty"`
	PlayIn           *PlayInSettings     `json:"playIn,omitempty"`
}

func (f CustomFormat) Value() (driver.Value, error) {
	return json.Marshal(f)
}

func (f *CustomFormat) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*f = CustomFormat{}
		return nil
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	default:
		return fmt.Errorf("custom format: unsupported column type %T", src)
	}
}

// HasPlayIn reports whether a play-in phase precedes the elimination bracket.
func (f CustomFormat) HasPlayIn() bool {
	return f.TournamentFormat == FormatEliminationDirect && f.PlayIn != nil && f.PlayIn.BlocATeams+f.PlayIn.BlocBQualifiers > 0
}

// Groups returns the group settings with defaults applied.
func (f CustomFormat) Groups() GroupStageSettings {
	gs := GroupStageSettings{TeamsPerGroup: DefaultTeamsPerGroup, QualifiersPerGroup: DefaultQualifiersPerGroup}
	if f.GroupStage != nil {
		if f.GroupStage.TeamsPerGroup > 0 {
			gs.TeamsPerGroup = f.GroupStage.TeamsPerGroup
		}
		if f.GroupStage.QualifiersPerGroup > 0 {
			gs.QualifiersPerGroup = f.GroupStage.QualifiersPerGroup
		}
	}
	return gs
}

// Normalize applies defaults for the given game mode and validates the
// result.
func (f CustomFormat) Normalize(mode GameMode) (CustomFormat, error) {
	if f.TournamentFormat == "" {
		f.TournamentFormat = FormatEliminationDirect
	}
	switch f.TournamentFormat {
	case FormatEliminationDirect, FormatGroupsThenElimination, FormatGroupsOnly:
	default:
		return f, fmt.Errorf("%w: unknown format %q", ErrInvalidFormat, f.TournamentFormat)
	}

	if mode.ResultKind() == ResultKindSingleGame {
		f.BestOf = 1
	} else {
		if f.BestOf == 0 {
			f.BestOf = DefaultMultiplayerBestOf
		}
		if f.BestOf != 3 && f.BestOf != 5 {
			return f, fmt.Errorf("%w: bestOf must be 3 or 5, got %d", ErrInvalidFormat, f.BestOf)
		}
	}

	if f.TournamentFormat != FormatEliminationDirect {
		gs := f.Groups()
		if gs.TeamsPerGroup < 2 {
			return f, fmt.Errorf("%w: teamsPerGroup must be at least 2", ErrInvalidFormat)
		}
		if gs.QualifiersPerGroup > gs.TeamsPerGroup {
			return f, fmt.Errorf("%w: qualifiersPerGroup (%d) exceeds teamsPerGroup (%d)", ErrInvalidFormat, gs.QualifiersPerGroup, gs.TeamsPerGroup)
		}
		f.GroupStage = &gs
	}

	if f.PlayIn != nil {
		if f.PlayIn.BlocATeams < 0 || f.PlayIn.BlocBQualifiers < 0 {
			return f, fmt.Errorf("%w: play-in sizes must not be negative", ErrInvalidFormat)
		}
		if f.PlayIn.BlocATeams%2 != 0 {
			return f, fmt.Errorf("%w: blocATeams must be even, got %d", ErrInvalidFormat, f.PlayIn.BlocATeams)
		}
	}
	return f, nil
}
