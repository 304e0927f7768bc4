package testutils

import (
	"fmt"
	"time"

	"github.com/Dosada05/codm-tournament/models"
	"github.com/brianvoe/gofakeit/v7"
)

// DataGenerator builds teams, rosters and tournaments for tests.
type DataGenerator struct {
	faker *gofakeit.Faker
	seed  int64
}

// NewDataGenerator creates a generator with an optional fixed seed.
func NewDataGenerator(seed ...int64) *DataGenerator {
	var s int64
	if len(seed) > 0 {
		s = seed[0]
	} else {
		s = time.Now().UnixNano()
	}
	return &DataGenerator{faker: gofakeit.New(uint64(s)), seed: s}
}

func (g *DataGenerator) Seed() int64 {
	return g.seed
}

// SeededTeams returns n teams with seeds 1..n.
func (g *DataGenerator) SeededTeams(n int) []models.SeededTeam {
	teams := make([]models.SeededTeam, n)
	for i := range teams {
		teams[i] = models.SeededTeam{
			ID:   g.faker.UUID(),
			Name: fmt.Sprintf("%s %d", g.faker.Company(), i+1),
			Seed: i + 1,
		}
	}
	return teams
}

// Team returns a team with size validated players, the first being captain.
func (g *DataGenerator) Team(tournamentID string, size int) *models.Team {
	team := &models.Team{
		ID:           g.faker.UUID(),
		TournamentID: tournamentID,
		Name:         g.faker.Company(),
		Status:       models.TeamStatusValidated,
	}
	for i := 0; i < size; i++ {
		team.Players = append(team.Players, models.Player{
			ID:        g.faker.UUID(),
			TeamID:    team.ID,
			Pseudo:    g.faker.Username(),
			Status:    models.PlayerStatusValidated,
			IsCaptain: i == 0,
			WhatsApp:  g.faker.Phone(),
			Country:   g.faker.Country(),
			Position:  i + 1,
		})
	}
	team.SyncCaptain()
	return team
}

// Tournament returns an active tournament with a normalized format.
func (g *DataGenerator) Tournament(mode models.GameMode, format models.CustomFormat) *models.Tournament {
	normalized, err := format.Normalize(mode)
	if err != nil {
		panic(err)
	}
	now := time.Now().UTC()
	return &models.Tournament{
		ID:           g.faker.UUID(),
		Name:         g.faker.Company() + " Cup",
		GameMode:     mode,
		Status:       models.TournamentStatusActive,
		CustomFormat: normalized,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Kills returns a random kill count for one player in one round.
func (g *DataGenerator) Kills() int {
	return g.faker.Number(0, 25)
}

// SequentialIDs returns an id source yielding prefix-1, prefix-2, ...
func SequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}
