package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/codm-tournament/models"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchVersionConflict   = errors.New("match was modified by another request")
	ErrMatchTournamentInvalid = errors.New("match tournament reference is invalid")
	ErrPhaseStarted           = errors.New("phase has matches that are no longer pending")
)

type MatchRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Match, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID string, filter models.MatchFilter) ([]*models.Match, error)
	// UpdateResult writes the result fields only if the stored version still
	// equals expectedVersion, then bumps the version.
	UpdateResult(ctx context.Context, exec SQLExecutor, match *models.Match, expectedVersion int) error
	// DeletePhaseIfPending removes every match of a phase in one statement,
	// unless one of them has started.
	DeletePhaseIfPending(ctx context.Context, exec SQLExecutor, tournamentID string, phase models.PhaseType) (int64, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `
	id, tournament_id, phase_type, group_name, bloc_type, round, round_index_from_final, match_number,
	team1_id, team1_name, team1_seed, team2_id, team2_name, team2_seed,
	status, winner_id, winner_name, last_round_winner_id, is_third_place_match, is_bye,
	match_result, version, created_at, updated_at`

func scanMatch(row rowScanner) (*models.Match, error) {
	m := &models.Match{}
	err := row.Scan(
		&m.ID, &m.TournamentID, &m.PhaseType, &m.GroupName, &m.BlocType, &m.Round, &m.RoundIndexFromFinal, &m.MatchNumber,
		&m.Team1ID, &m.Team1Name, &m.Team1Seed, &m.Team2ID, &m.Team2Name, &m.Team2Seed,
		&m.Status, &m.WinnerID, &m.WinnerName, &m.LastRoundWinnerID, &m.IsThirdPlaceMatch, &m.IsBye,
		&m.MatchResult, &m.Version, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error {
	query := `
		INSERT INTO matches (
			id, tournament_id, phase_type, group_name, bloc_type, round, round_index_from_final, match_number,
			team1_id, team1_name, team1_seed, team2_id, team2_name, team2_seed,
			status, winner_id, winner_name, last_round_winner_id, is_third_place_match, is_bye,
			match_result, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		RETURNING created_at, updated_at`

	executor := r.getExecutor(exec)
	for _, m := range matches {
		err := executor.QueryRowContext(ctx, query,
			m.ID, m.TournamentID, m.PhaseType, m.GroupName, m.BlocType, m.Round, m.RoundIndexFromFinal, m.MatchNumber,
			m.Team1ID, m.Team1Name, m.Team1Seed, m.Team2ID, m.Team2Name, m.Team2Seed,
			m.Status, m.WinnerID, m.WinnerName, m.LastRoundWinnerID, m.IsThirdPlaceMatch, m.IsBye,
			m.MatchResult, m.Version,
		).Scan(&m.CreatedAt, &m.UpdatedAt)
		if err != nil {
			if pqCode(err) == pqForeignKeyViolation {
				return ErrMatchTournamentInvalid
			}
			return fmt.Errorf("insert match %d of phase %s: %w", m.MatchNumber, m.PhaseType, err)
		}
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	m, err := scanMatch(r.getExecutor(exec).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID string, filter models.MatchFilter) ([]*models.Match, error) {
	var qb strings.Builder
	qb.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1`)
	args := []interface{}{tournamentID}

	where := func(column string, value interface{}) {
		args = append(args, value)
		fmt.Fprintf(&qb, " AND %s = $%d", column, len(args))
	}
	if filter.Phase != "" {
		where("phase_type", filter.Phase)
	}
	if filter.GroupName != "" {
		where("group_name", filter.GroupName)
	}
	if filter.BlocType != "" {
		where("bloc_type", filter.BlocType)
	}
	if filter.Round != nil {
		where("round", *filter.Round)
	}
	if filter.Status != "" {
		where("status", filter.Status)
	}
	qb.WriteString(" ORDER BY phase_type ASC, round DESC, group_name ASC, match_number ASC")

	rows, err := r.getExecutor(exec).QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, exec SQLExecutor, m *models.Match, expectedVersion int) error {
	query := `
		UPDATE matches
		SET status = $1, winner_id = $2, winner_name = $3, last_round_winner_id = $4,
		    match_result = $5, version = version + 1, updated_at = NOW()
		WHERE id = $6 AND version = $7
		RETURNING version, updated_at`

	executor := r.getExecutor(exec)
	err := executor.QueryRowContext(ctx, query,
		m.Status, m.WinnerID, m.WinnerName, m.LastRoundWinnerID, m.MatchResult, m.ID, expectedVersion,
	).Scan(&m.Version, &m.UpdatedAt)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM matches WHERE id = $1)`, m.ID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrMatchNotFound
	}
	return ErrMatchVersionConflict
}

func (r *postgresMatchRepository) DeletePhaseIfPending(ctx context.Context, exec SQLExecutor, tournamentID string, phase models.PhaseType) (int64, error) {
	query := `
		WITH started AS (
			SELECT COUNT(*) AS n FROM matches
			WHERE tournament_id = $1 AND phase_type = $2 AND status <> 'pending' AND NOT is_bye
		), deleted AS (
			DELETE FROM matches
			WHERE tournament_id = $1 AND phase_type = $2 AND (SELECT n FROM started) = 0
			RETURNING id
		)
		SELECT (SELECT n FROM started), (SELECT COUNT(*) FROM deleted)`

	var started, deleted int64
	if err := r.getExecutor(exec).QueryRowContext(ctx, query, tournamentID, phase).Scan(&started, &deleted); err != nil {
		return 0, err
	}
	if started > 0 {
		return 0, ErrPhaseStarted
	}
	return deleted, nil
}
