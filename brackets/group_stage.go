package brackets

import (
	"context"
	"fmt"

	"github.com/Dosada05/codm-tournament/models"
)

type GroupStageGenerator struct {
	newID func() string
}

func NewGroupStageGenerator(newID func() string) *GroupStageGenerator {
	return &GroupStageGenerator{newID: newID}
}

func (g *GroupStageGenerator) Phase() models.PhaseType {
	return models.PhaseGroupStage
}

// GeneratePhase partitions the teams into groups and schedules a single
// round robin inside each group. Match numbers run across all groups.
func (g *GroupStageGenerator) GeneratePhase(ctx context.Context, params GenerateParams) ([]*models.Match, error) {
	if err := checkTeams(params.Teams); err != nil {
		return nil, err
	}
	size := params.Tournament.CustomFormat.Groups().TeamsPerGroup

	matches := make([]*models.Match, 0)
	number := 0
	for gi, group := range PartitionGroups(params.Teams, size) {
		name := GroupName(gi)
		for _, pair := range RoundRobinPairings(group) {
			number++
			m := newPendingMatch(g.newID(), params.Tournament.ID, models.PhaseGroupStage, number, pair[0], pair[1])
			m.GroupName = name
			matches = append(matches, m)
		}
	}
	return matches, nil
}

// PartitionGroups splits teams into consecutive groups of size. A trailing
// group of one team cannot play and is folded into the previous group.
func PartitionGroups(teams []models.SeededTeam, size int) [][]models.SeededTeam {
	if size < 2 {
		size = 2
	}
	groups := make([][]models.SeededTeam, 0, (len(teams)+size-1)/size)
	for start := 0; start < len(teams); start += size {
		end := start + size
		if end > len(teams) {
			end = len(teams)
		}
		groups = append(groups, teams[start:end])
	}
	if n := len(groups); n > 1 && len(groups[n-1]) == 1 {
		merged := append(append([]models.SeededTeam{}, groups[n-2]...), groups[n-1]...)
		groups = append(groups[:n-2], merged)
	}
	return groups
}

// GroupName maps 0, 1, ... 25, 26 to A, B, ... Z, AA.
func GroupName(index int) string {
	name := ""
	for index >= 0 {
		name = fmt.Sprintf("%c", 'A'+index%26) + name
		index = index/26 - 1
	}
	return name
}
