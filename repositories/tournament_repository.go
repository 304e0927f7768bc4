package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/codm-tournament/models"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentNameConflict = errors.New("tournament name already exists")
	ErrNoActiveTournament     = errors.New("no active tournament for this game mode")
)

type ListTournamentsFilter struct {
	GameMode *models.GameMode
	Status   *models.TournamentStatus
	Limit    int
	Offset   int
}

type TournamentRepository interface {
	Create(ctx context.Context, t *models.Tournament) error
	GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Tournament, error)
	// GetForUpdate locks the tournament row until exec's transaction ends.
	GetForUpdate(ctx context.Context, exec SQLExecutor, id string) (*models.Tournament, error)
	GetActive(ctx context.Context, mode models.GameMode) (*models.Tournament, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	Update(ctx context.Context, t *models.Tournament) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id string, status models.TournamentStatus) error
	// DemoteActive moves every other active tournament of the mode back to
	// draft and returns how many were demoted.
	DemoteActive(ctx context.Context, exec SQLExecutor, mode models.GameMode, exceptID string) (int64, error)
	UpdateStats(ctx context.Context, exec SQLExecutor, id string, stats models.TournamentStats) error
	Delete(ctx context.Context, id string) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const tournamentColumns = `id, name, game_mode, status, custom_format, deadline_register, date_result, stats, created_at, updated_at`

func scanTournament(row rowScanner) (*models.Tournament, error) {
	t := &models.Tournament{}
	err := row.Scan(&t.ID, &t.Name, &t.GameMode, &t.Status, &t.CustomFormat, &t.DeadlineRegister, &t.DateResult, &t.Stats, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (id, name, game_mode, status, custom_format, deadline_register, date_result, stats)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		t.ID, t.Name, t.GameMode, t.Status, t.CustomFormat, t.DeadlineRegister, t.DateResult, t.Stats,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if pqCode(err) == pqUniqueViolation {
		return ErrTournamentNameConflict
	}
	return err
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`

	t, err := scanTournament(r.getExecutor(exec).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) GetForUpdate(ctx context.Context, exec SQLExecutor, id string) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1 FOR UPDATE`

	t, err := scanTournament(r.getExecutor(exec).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) GetActive(ctx context.Context, mode models.GameMode) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE game_mode = $1 AND status = 'active' ORDER BY updated_at DESC LIMIT 1`

	t, err := scanTournament(r.db.QueryRowContext(ctx, query, mode))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoActiveTournament
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE 1=1`
	args := []interface{}{}
	argID := 1

	if filter.GameMode != nil {
		query += fmt.Sprintf(" AND game_mode = $%d", argID)
		args = append(args, *filter.GameMode)
		argID++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, err
		}
		tournaments = append(tournaments, *t)
	}
	return tournaments, rows.Err()
}

func (r *postgresTournamentRepository) Update(ctx context.Context, t *models.Tournament) error {
	query := `
		UPDATE tournaments
		SET name = $1, custom_format = $2, deadline_register = $3, date_result = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query, t.Name, t.CustomFormat, t.DeadlineRegister, t.DateResult, t.ID).Scan(&t.UpdatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrTournamentNotFound
	case pqCode(err) == pqUniqueViolation:
		return ErrTournamentNameConflict
	}
	return err
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id string, status models.TournamentStatus) error {
	query := `UPDATE tournaments SET status = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) DemoteActive(ctx context.Context, exec SQLExecutor, mode models.GameMode, exceptID string) (int64, error) {
	query := `
		UPDATE tournaments SET status = 'draft', updated_at = NOW()
		WHERE game_mode = $1 AND status = 'active' AND id <> $2`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, mode, exceptID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *postgresTournamentRepository) UpdateStats(ctx context.Context, exec SQLExecutor, id string, stats models.TournamentStats) error {
	query := `UPDATE tournaments SET stats = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, stats, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

// Delete removes the tournament together with its teams and matches.
func (r *postgresTournamentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}
