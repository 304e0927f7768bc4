package services

import (
	"errors"

	"github.com/Dosada05/codm-tournament/brackets"
	"github.com/Dosada05/codm-tournament/guard"
	"github.com/Dosada05/codm-tournament/repositories"
	"github.com/Dosada05/codm-tournament/scoring"
)

// Errors shared by the services and the HTTP error mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed      = errors.New("validation failed")
	ErrNotEnoughTeams        = errors.New("not enough validated teams (minimum 2)")
	ErrPhaseNotAvailable     = errors.New("phase is not part of this tournament format")
	ErrPhaseAlreadyGenerated = errors.New("phase has already been generated")
	ErrPhaseStarted          = errors.New("phase has matches in progress or completed")
	ErrLaterPhaseExists      = errors.New("a later phase has already been generated")
	ErrGroupStageIncomplete  = errors.New("group stage is not completed yet")
	ErrPlayInIncomplete      = errors.New("play-in is not completed yet")
	ErrNoWinnerSelected      = errors.New("no round winner selected")
	ErrMatchCompleted        = errors.New("match is already completed")
	ErrTooManyRounds         = errors.New("match already has bestOf rounds")
	ErrFormatLocked          = errors.New("format cannot change once matches exist")
	ErrTournamentCompleted   = errors.New("tournament is completed")
	ErrWrongGameMode         = errors.New("operation not available for this game mode")
	ErrArchiveDisabled       = errors.New("archive export is not configured")

	// Conflicts
	ErrMatchVersionConflict   = errors.New("match was modified by another request, reload and retry")
	ErrSubmissionInFlight     = errors.New("another result for this match is being recorded")
	ErrGameResultConflict     = errors.New("result for this team and game number already recorded")
	ErrTeamNameConflict       = errors.New("team name is already in use")
	ErrTournamentNameConflict = errors.New("tournament name already exists")

	// Entity specific not-found errors
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrNoActiveTournament  = errors.New("no active tournament for this game mode")
	ErrTeamNotFound        = errors.New("team not found")
	ErrPlayerNotFound      = errors.New("player not found")
	ErrMatchNotFound       = errors.New("match not found")
	ErrGroupNotFound       = errors.New("group not found")
	ErrLeaderboardNotFound = errors.New("leaderboard not found")
)

// handleRepositoryError translates repository and domain sentinels into the
// service taxonomy. Unknown errors pass through untouched.
func handleRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrNoActiveTournament):
		return ErrNoActiveTournament
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrPlayerNotFound):
		return ErrPlayerNotFound
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrLeaderboardNotFound):
		return ErrLeaderboardNotFound
	case errors.Is(err, repositories.ErrMatchVersionConflict):
		return ErrMatchVersionConflict
	case errors.Is(err, repositories.ErrPhaseStarted):
		return ErrPhaseStarted
	case errors.Is(err, repositories.ErrGameResultConflict):
		return ErrGameResultConflict
	case errors.Is(err, repositories.ErrGameResultTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrTeamNameConflict):
		return ErrTeamNameConflict
	case errors.Is(err, repositories.ErrTournamentNameConflict):
		return ErrTournamentNameConflict
	case errors.Is(err, guard.ErrInFlight):
		return ErrSubmissionInFlight
	case errors.Is(err, brackets.ErrNotEnoughTeams), errors.Is(err, scoring.ErrNotEnoughQualifiers):
		return ErrNotEnoughTeams
	}
	return err
}

// handleScoringError keeps the scoring error in the chain so callers can
// still match the precise cause.
func handleScoringError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, scoring.ErrNoWinnerSelected):
		return errors.Join(ErrNoWinnerSelected, err)
	case errors.Is(err, scoring.ErrMatchAlreadyCompleted):
		return errors.Join(ErrMatchCompleted, err)
	case errors.Is(err, scoring.ErrTooManyRounds):
		return errors.Join(ErrTooManyRounds, err)
	case errors.Is(err, scoring.ErrWinnerNotInMatch),
		errors.Is(err, scoring.ErrByeMatch),
		errors.Is(err, scoring.ErrNegativeKills),
		errors.Is(err, scoring.ErrDuplicatePlayer),
		errors.Is(err, scoring.ErrUnknownPlayer):
		return errors.Join(ErrValidationFailed, err)
	}
	return err
}
