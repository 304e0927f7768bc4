package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/codm-tournament/models"
	"github.com/Dosada05/codm-tournament/storage"
	"golang.org/x/sync/errgroup"
)

// TournamentArchive is the exported snapshot of a tournament.
type TournamentArchive struct {
	ExportedAt   time.Time                         `json:"exportedAt"`
	Tournament   *models.Tournament                `json:"tournament"`
	Teams        []*models.Team                    `json:"teams"`
	Matches      []*models.Match                   `json:"matches"`
	Groups       map[string][]models.StandingRow   `json:"groups,omitempty"`
	BlocA        []models.StandingRow              `json:"blocA,omitempty"`
	BlocB        []models.StandingRow              `json:"blocB,omitempty"`
	Leaderboard  *models.TournamentKillLeaderboard `json:"leaderboard"`
	TeamRankings []models.TeamRanking              `json:"teamRankings,omitempty"`
}

type ArchiveService interface {
	ExportArchive(ctx context.Context, tournamentID string) (*storage.UploadResult, error)
}

type archiveService struct {
	tournaments  TournamentService
	teams        TeamService
	brackets     BracketService
	standings    StandingsService
	leaderboards LeaderboardService
	rankings     RankingService
	uploader     storage.FileUploader
	logger       *slog.Logger
	now          func() time.Time
}

// NewArchiveService accepts a nil uploader; exports then fail with
// ErrArchiveDisabled.
func NewArchiveService(
	tournaments TournamentService,
	teams TeamService,
	bracketService BracketService,
	standings StandingsService,
	leaderboards LeaderboardService,
	rankings RankingService,
	uploader storage.FileUploader,
	logger *slog.Logger,
) ArchiveService {
	return &archiveService{
		tournaments:  tournaments,
		teams:        teams,
		brackets:     bracketService,
		standings:    standings,
		leaderboards: leaderboards,
		rankings:     rankings,
		uploader:     uploader,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *archiveService) ExportArchive(ctx context.Context, tournamentID string) (*storage.UploadResult, error) {
	if s.uploader == nil {
		return nil, ErrArchiveDisabled
	}
	archive, err := s.snapshot(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	body, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode archive: %w", err)
	}
	key := storage.ArchiveKey(tournamentID, archive.ExportedAt.Format("20060102T150405Z"))
	res, err := s.uploader.Upload(ctx, key, "application/json", bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Tournament archive exported",
		slog.String("tournament_id", tournamentID), slog.String("key", res.Key), slog.Int("bytes", len(body)))
	return res, nil
}

func (s *archiveService) snapshot(ctx context.Context, tournamentID string) (*TournamentArchive, error) {
	t, err := s.tournaments.GetTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	a := &TournamentArchive{ExportedAt: s.now().UTC(), Tournament: t}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		a.Teams, err = s.teams.ListTeams(gctx, tournamentID, nil)
		return err
	})
	g.Go(func() (err error) {
		a.Matches, err = s.brackets.ListMatches(gctx, tournamentID, models.MatchFilter{})
		return err
	})
	g.Go(func() (err error) {
		a.Leaderboard, err = s.leaderboards.GetLeaderboard(gctx, tournamentID, t.GameMode)
		return err
	})
	if t.CustomFormat.TournamentFormat != models.FormatEliminationDirect {
		g.Go(func() (err error) {
			a.Groups, err = s.standings.GetAllGroupStandings(gctx, tournamentID)
			return err
		})
	}
	if t.CustomFormat.HasPlayIn() {
		g.Go(func() (err error) {
			a.BlocA, err = s.standings.GetPlayInBlocStandings(gctx, tournamentID, models.BlocA)
			return err
		})
		g.Go(func() (err error) {
			a.BlocB, err = s.standings.GetPlayInBlocStandings(gctx, tournamentID, models.BlocB)
			return err
		})
	}
	if t.GameMode == models.GameModeBattleRoyale {
		g.Go(func() error {
			rankings, err := s.rankings.GetTeamRankings(gctx, tournamentID)
			if err != nil && !errors.Is(err, ErrWrongGameMode) {
				return err
			}
			a.TeamRankings = rankings
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build archive of tournament %s: %w", tournamentID, err)
	}
	return a, nil
}
