package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/codm-tournament/models"
	"github.com/lib/pq"
)

var (
	ErrTeamNotFound          = errors.New("team not found")
	ErrPlayerNotFound        = errors.New("player not found")
	ErrTeamNameConflict      = errors.New("team name already taken in this tournament")
	ErrTeamTournamentInvalid = errors.New("team tournament reference is invalid")
)

// RosterSource provides team snapshots with their rosters.
type RosterSource interface {
	GetTeam(ctx context.Context, teamID string) (*models.Team, error)
	ListTeams(ctx context.Context, tournamentID string, status *models.TeamStatus) ([]*models.Team, error)
}

type TeamRepository interface {
	RosterSource
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Team, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, teamID string, status models.TeamStatus) error
	UpdatePlayerStatus(ctx context.Context, exec SQLExecutor, playerID string, status models.PlayerStatus) error
	Delete(ctx context.Context, exec SQLExecutor, id string) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO teams (id, tournament_id, name, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := executor.QueryRowContext(ctx, query, team.ID, team.TournamentID, team.Name, team.Status).
		Scan(&team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		return r.handleTeamError(err)
	}

	playerQuery := `
		INSERT INTO players (id, team_id, pseudo, status, is_captain, whatsapp, country, device_check_video_url, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for i := range team.Players {
		p := &team.Players[i]
		p.TeamID = team.ID
		p.Position = i + 1
		if _, err := executor.ExecContext(ctx, playerQuery,
			p.ID, p.TeamID, p.Pseudo, p.Status, p.IsCaptain, p.WhatsApp, p.Country, p.DeviceCheckVideoURL, p.Position,
		); err != nil {
			return fmt.Errorf("insert player %s: %w", p.Pseudo, err)
		}
	}
	team.SyncCaptain()
	return nil
}

func (r *postgresTeamRepository) GetTeam(ctx context.Context, teamID string) (*models.Team, error) {
	return r.GetByID(ctx, nil, teamID)
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Team, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, tournament_id, name, status, created_at, updated_at FROM teams WHERE id = $1`

	t := &models.Team{}
	err := executor.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.TournamentID, &t.Name, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	if err := r.attachPlayers(ctx, executor, []*models.Team{t}); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *postgresTeamRepository) ListTeams(ctx context.Context, tournamentID string, status *models.TeamStatus) ([]*models.Team, error) {
	executor := r.getExecutor(nil)
	query := `
		SELECT id, tournament_id, name, status, created_at, updated_at
		FROM teams
		WHERE tournament_id = $1 AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at ASC, id ASC`

	var statusArg interface{}
	if status != nil {
		statusArg = string(*status)
	}
	rows, err := executor.QueryContext(ctx, query, tournamentID, statusArg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		t := &models.Team{}
		if err := rows.Scan(&t.ID, &t.TournamentID, &t.Name, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachPlayers(ctx, executor, teams); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *postgresTeamRepository) attachPlayers(ctx context.Context, executor SQLExecutor, teams []*models.Team) error {
	if len(teams) == 0 {
		return nil
	}
	byID := make(map[string]*models.Team, len(teams))
	ids := make([]string, 0, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
		ids = append(ids, t.ID)
		t.Players = []models.Player{}
	}

	query := `
		SELECT id, team_id, pseudo, status, is_captain, whatsapp, country, device_check_video_url, position
		FROM players
		WHERE team_id = ANY($1)
		ORDER BY team_id, position ASC`
	rows, err := executor.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.TeamID, &p.Pseudo, &p.Status, &p.IsCaptain, &p.WhatsApp, &p.Country, &p.DeviceCheckVideoURL, &p.Position); err != nil {
			return err
		}
		if t, ok := byID[p.TeamID]; ok {
			t.Players = append(t.Players, p)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for _, t := range teams {
		t.SyncCaptain()
	}
	return nil
}

func (r *postgresTeamRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, teamID string, status models.TeamStatus) error {
	query := `UPDATE teams SET status = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, status, teamID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) UpdatePlayerStatus(ctx context.Context, exec SQLExecutor, playerID string, status models.PlayerStatus) error {
	query := `UPDATE players SET status = $1 WHERE id = $2`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, status, playerID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

// Delete removes the team; players cascade.
func (r *postgresTeamRepository) Delete(ctx context.Context, exec SQLExecutor, id string) error {
	result, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) handleTeamError(err error) error {
	switch pqCode(err) {
	case pqUniqueViolation:
		return ErrTeamNameConflict
	case pqForeignKeyViolation:
		return ErrTeamTournamentInvalid
	}
	return err
}
