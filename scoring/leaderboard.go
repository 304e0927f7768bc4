package scoring

import (
	"sort"

	"github.com/Dosada05/codm-tournament/models"
)

// ApplySubmission upserts one player's round into the entry list. Every
// submission counts as one game played, including zero-kill rounds. The
// returned slice is unranked.
func ApplySubmission(entries []models.KillLeaderboardEntry, sub models.KillSubmission) []models.KillLeaderboardEntry {
	for i := range entries {
		if entries[i].PlayerID != sub.PlayerID {
			continue
		}
		e := &entries[i]
		if sub.PlayerName != "" {
			e.PlayerName = sub.PlayerName
		}
		if sub.TeamID != "" {
			e.TeamID, e.TeamName = sub.TeamID, sub.TeamName
		}
		addGame(&e.KillStats, sub.Kills)
		return entries
	}

	e := models.KillLeaderboardEntry{
		PlayerID:   sub.PlayerID,
		PlayerName: sub.PlayerName,
		TeamID:     sub.TeamID,
		TeamName:   sub.TeamName,
	}
	addGame(&e.KillStats, sub.Kills)
	return append(entries, e)
}

// BuildLeaderboard replays the full submission history and returns ranked
// entries. Submissions are applied in id order so the result does not depend
// on how the caller fetched them.
func BuildLeaderboard(subs []models.KillSubmission) []models.KillLeaderboardEntry {
	ordered := append([]models.KillSubmission(nil), subs...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	entries := make([]models.KillLeaderboardEntry, 0)
	for _, s := range ordered {
		entries = ApplySubmission(entries, s)
	}
	return RankEntries(entries)
}

// RankEntries sorts by total kills and assigns 1-based positions. Ties fall
// back to best single game, fewer games played, then player id.
func RankEntries(entries []models.KillLeaderboardEntry) []models.KillLeaderboardEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].KillStats, entries[j].KillStats
		switch {
		case a.TotalKills != b.TotalKills:
			return a.TotalKills > b.TotalKills
		case a.BestSingleGame != b.BestSingleGame:
			return a.BestSingleGame > b.BestSingleGame
		case a.GamesPlayed != b.GamesPlayed:
			return a.GamesPlayed < b.GamesPlayed
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})
	for i := range entries {
		entries[i].Position = i + 1
	}
	return entries
}

// SubmissionsFromRound turns both sides of a recorded round into one
// submission per listed player.
func SubmissionsFromRound(match *models.Match, mode models.GameMode, round models.RoundDetail) []models.KillSubmission {
	subs := make([]models.KillSubmission, 0, len(round.Team1PlayerStats)+len(round.Team2PlayerStats))
	add := func(teamID, teamName string, stats []models.PlayerKills) {
		for _, pk := range stats {
			subs = append(subs, models.KillSubmission{
				TournamentID: match.TournamentID,
				GameMode:     mode,
				MatchID:      match.ID,
				RoundNumber:  round.RoundNumber,
				PlayerID:     pk.PlayerID,
				PlayerName:   pk.PlayerName,
				TeamID:       teamID,
				TeamName:     teamName,
				Kills:        pk.Kills,
				CreatedAt:    round.RecordedAt,
			})
		}
	}
	add(match.Team1ID, match.Team1Name, round.Team1PlayerStats)
	add(match.Team2ID, match.Team2Name, round.Team2PlayerStats)
	return subs
}

// ComputeGlobalRecords scans every leaderboard of a game mode for the
// highest total, average and single-game kills. Ties keep the holder from
// the lowest tournament id, then the best position.
func ComputeGlobalRecords(mode models.GameMode, boards []models.TournamentKillLeaderboard) models.GlobalRecords {
	ordered := append([]models.TournamentKillLeaderboard(nil), boards...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].TournamentID < ordered[j].TournamentID })

	rec := models.GlobalRecords{GameMode: mode}
	consider := func(cur **models.RecordHolder, board models.TournamentKillLeaderboard, e models.KillLeaderboardEntry, v float64) {
		if *cur != nil && (*cur).Value >= v {
			return
		}
		*cur = &models.RecordHolder{
			TournamentID: board.TournamentID,
			PlayerID:     e.PlayerID,
			PlayerName:   e.PlayerName,
			TeamName:     e.TeamName,
			Value:        v,
		}
	}

	for _, board := range ordered {
		if board.GameMode != "" && board.GameMode != mode {
			continue
		}
		entries := append([]models.KillLeaderboardEntry(nil), board.Entries...)
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Position < entries[j].Position })
		for _, e := range entries {
			if e.KillStats.GamesPlayed == 0 {
				continue
			}
			consider(&rec.TopTotalKills, board, e, float64(e.KillStats.TotalKills))
			consider(&rec.TopAverageKills, board, e, e.KillStats.AverageKillsPerGame)
			consider(&rec.TopSingleGame, board, e, float64(e.KillStats.BestSingleGame))
		}
	}
	return rec
}

func addGame(s *models.KillStats, kills int) {
	s.TotalKills += kills
	s.GamesPlayed++
	if kills > s.BestSingleGame {
		s.BestSingleGame = kills
	}
	s.AverageKillsPerGame = Average(s.TotalKills, s.GamesPlayed)
}

// Average returns total/games, or 0 when no games were played.
func Average(total, games int) float64 {
	if games == 0 {
		return 0
	}
	return float64(total) / float64(games)
}
