package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/codm-tournament/models"
)

var (
	ErrGameResultConflict     = errors.New("result for this team and game number already recorded")
	ErrGameResultTeamNotFound = errors.New("game result references an unknown team or tournament")
)

type GameResultRepository interface {
	Create(ctx context.Context, result *models.GameResult) error
	ListByTournament(ctx context.Context, tournamentID string) ([]models.GameResult, error)
}

type postgresGameResultRepository struct {
	db *sql.DB
}

func NewPostgresGameResultRepository(db *sql.DB) GameResultRepository {
	return &postgresGameResultRepository{db: db}
}

func (r *postgresGameResultRepository) Create(ctx context.Context, res *models.GameResult) error {
	query := `
		INSERT INTO game_results (id, tournament_id, team_id, team_name, game_number, placement, kills)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		res.ID, res.TournamentID, res.TeamID, res.TeamName, res.GameNumber, res.Placement, res.Kills,
	).Scan(&res.CreatedAt)
	switch pqCode(err) {
	case pqUniqueViolation:
		return ErrGameResultConflict
	case pqForeignKeyViolation:
		return ErrGameResultTeamNotFound
	}
	return err
}

func (r *postgresGameResultRepository) ListByTournament(ctx context.Context, tournamentID string) ([]models.GameResult, error) {
	query := `
		SELECT id, tournament_id, team_id, team_name, game_number, placement, kills, created_at
		FROM game_results
		WHERE tournament_id = $1
		ORDER BY game_number ASC, created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]models.GameResult, 0)
	for rows.Next() {
		var g models.GameResult
		if err := rows.Scan(&g.ID, &g.TournamentID, &g.TeamID, &g.TeamName, &g.GameNumber, &g.Placement, &g.Kills, &g.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, g)
	}
	return results, rows.Err()
}
