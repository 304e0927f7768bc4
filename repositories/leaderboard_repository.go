package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/codm-tournament/models"
)

var ErrLeaderboardNotFound = errors.New("leaderboard not found")

type LeaderboardRepository interface {
	InsertSubmissions(ctx context.Context, exec SQLExecutor, subs []models.KillSubmission) error
	ListSubmissions(ctx context.Context, exec SQLExecutor, tournamentID string, mode models.GameMode) ([]models.KillSubmission, error)
	Upsert(ctx context.Context, exec SQLExecutor, board *models.TournamentKillLeaderboard) error
	Get(ctx context.Context, tournamentID string, mode models.GameMode) (*models.TournamentKillLeaderboard, error)
	ListByGameMode(ctx context.Context, mode models.GameMode) ([]models.TournamentKillLeaderboard, error)
}

type postgresLeaderboardRepository struct {
	db *sql.DB
}

func NewPostgresLeaderboardRepository(db *sql.DB) LeaderboardRepository {
	return &postgresLeaderboardRepository{db: db}
}

func (r *postgresLeaderboardRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresLeaderboardRepository) InsertSubmissions(ctx context.Context, exec SQLExecutor, subs []models.KillSubmission) error {
	query := `
		INSERT INTO kill_submissions
			(tournament_id, game_mode, match_id, round_number, player_id, player_name, team_id, team_name, kills, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	executor := r.getExecutor(exec)
	for i := range subs {
		s := &subs[i]
		if err := executor.QueryRowContext(ctx, query,
			s.TournamentID, s.GameMode, s.MatchID, s.RoundNumber, s.PlayerID, s.PlayerName, s.TeamID, s.TeamName, s.Kills, s.CreatedAt,
		).Scan(&s.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresLeaderboardRepository) ListSubmissions(ctx context.Context, exec SQLExecutor, tournamentID string, mode models.GameMode) ([]models.KillSubmission, error) {
	query := `
		SELECT id, tournament_id, game_mode, match_id, round_number, player_id, player_name, team_id, team_name, kills, created_at
		FROM kill_submissions
		WHERE tournament_id = $1 AND game_mode = $2
		ORDER BY id ASC`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, tournamentID, mode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := make([]models.KillSubmission, 0)
	for rows.Next() {
		var s models.KillSubmission
		if err := rows.Scan(&s.ID, &s.TournamentID, &s.GameMode, &s.MatchID, &s.RoundNumber, &s.PlayerID, &s.PlayerName, &s.TeamID, &s.TeamName, &s.Kills, &s.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func (r *postgresLeaderboardRepository) Upsert(ctx context.Context, exec SQLExecutor, board *models.TournamentKillLeaderboard) error {
	query := `
		INSERT INTO kill_leaderboards (tournament_id, game_mode, entries, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (tournament_id, game_mode)
		DO UPDATE SET entries = EXCLUDED.entries, updated_at = EXCLUDED.updated_at
		RETURNING updated_at`

	return r.getExecutor(exec).QueryRowContext(ctx, query, board.TournamentID, board.GameMode, board.Entries).Scan(&board.UpdatedAt)
}

func (r *postgresLeaderboardRepository) Get(ctx context.Context, tournamentID string, mode models.GameMode) (*models.TournamentKillLeaderboard, error) {
	query := `
		SELECT tournament_id, game_mode, entries, updated_at
		FROM kill_leaderboards
		WHERE tournament_id = $1 AND game_mode = $2`

	b := &models.TournamentKillLeaderboard{}
	err := r.db.QueryRowContext(ctx, query, tournamentID, mode).Scan(&b.TournamentID, &b.GameMode, &b.Entries, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeaderboardNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *postgresLeaderboardRepository) ListByGameMode(ctx context.Context, mode models.GameMode) ([]models.TournamentKillLeaderboard, error) {
	query := `
		SELECT tournament_id, game_mode, entries, updated_at
		FROM kill_leaderboards
		WHERE game_mode = $1
		ORDER BY tournament_id ASC`

	rows, err := r.db.QueryContext(ctx, query, mode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	boards := make([]models.TournamentKillLeaderboard, 0)
	for rows.Next() {
		var b models.TournamentKillLeaderboard
		if err := rows.Scan(&b.TournamentID, &b.GameMode, &b.Entries, &b.UpdatedAt); err != nil {
			return nil, err
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}
