package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/codm-tournament/guard"
	"github.com/Dosada05/codm-tournament/metrics"
	"github.com/Dosada05/codm-tournament/models"
	"github.com/Dosada05/codm-tournament/repositories"
	"github.com/Dosada05/codm-tournament/scoring"
	"github.com/Dosada05/codm-tournament/testutils"
	"github.com/stretchr/testify/require"
)

// ------------------------
// In-memory store shared by the fake repositories
// ------------------------

type fakeStore struct {
	mu          sync.Mutex
	tournaments map[string]models.Tournament
	teams       map[string]models.Team
	matches     map[string]models.Match
	subs        []models.KillSubmission
	boards      map[string]models.TournamentKillLeaderboard
	results     []models.GameResult
	nextSubID   int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tournaments: map[string]models.Tournament{},
		teams:       map[string]models.Team{},
		matches:     map[string]models.Match{},
		boards:      map[string]models.TournamentKillLeaderboard{},
	}
}

func cloneMatch(m models.Match) models.Match {
	m.MatchResult = m.MatchResult.Clone()
	return m
}

func cloneTeam(t models.Team) models.Team {
	t.Players = append([]models.Player(nil), t.Players...)
	return t
}

func (s *fakeStore) snapshot() *fakeStore {
	cp := newFakeStore()
	for k, v := range s.tournaments {
		cp.tournaments[k] = v
	}
	for k, v := range s.teams {
		cp.teams[k] = cloneTeam(v)
	}
	for k, v := range s.matches {
		cp.matches[k] = cloneMatch(v)
	}
	cp.subs = append([]models.KillSubmission(nil), s.subs...)
	for k, v := range s.boards {
		v.Entries = append(models.KillLeaderboardEntries(nil), v.Entries...)
		cp.boards[k] = v
	}
	cp.results = append([]models.GameResult(nil), s.results...)
	cp.nextSubID = s.nextSubID
	return cp
}

func (s *fakeStore) restore(from *fakeStore) {
	s.tournaments, s.teams, s.matches = from.tournaments, from.teams, from.matches
	s.subs, s.boards, s.results, s.nextSubID = from.subs, from.boards, from.results, from.nextSubID
}

func (s *fakeStore) putTournament(t *models.Tournament) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tournaments[t.ID] = *t
}

func (s *fakeStore) putTeam(t *models.Team) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams[t.ID] = cloneTeam(*t)
}

func (s *fakeStore) match(id string) *models.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[id]
	if !ok {
		return nil
	}
	cp := cloneMatch(m)
	return &cp
}

func (s *fakeStore) phaseMatches(phase models.PhaseType) []*models.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Match, 0)
	for _, m := range s.matches {
		if m.PhaseType == phase {
			cp := cloneMatch(m)
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round > out[j].Round
		}
		return out[i].MatchNumber < out[j].MatchNumber
	})
	return out
}

// tracer records the repository calls in order.
type tracer struct {
	traceMu sync.Mutex
	trace   []string
}

func (t *tracer) record(step string) {
	t.traceMu.Lock()
	defer t.traceMu.Unlock()
	t.trace = append(t.trace, step)
}

func (t *tracer) Trace() []string {
	t.traceMu.Lock()
	defer t.traceMu.Unlock()
	return append([]string(nil), t.trace...)
}

// ------------------------
// Fake TxManager
// ------------------------

// fakeTxManager runs fn with a nil executor and rolls the store back when fn
// fails.
type fakeTxManager struct {
	store *fakeStore
	calls int
}

func (f *fakeTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, exec repositories.SQLExecutor) error) error {
	f.calls++
	f.store.mu.Lock()
	saved := f.store.snapshot()
	f.store.mu.Unlock()

	if err := fn(ctx, nil); err != nil {
		f.store.mu.Lock()
		f.store.restore(saved)
		f.store.mu.Unlock()
		return err
	}
	return nil
}

// ------------------------
// Fake Tournament Repository
// ------------------------

type FakeTournamentRepository struct {
	store *fakeStore
	tracer

	GetForUpdateFunc func(ctx context.Context, exec repositories.SQLExecutor, id string) (*models.Tournament, error)
	UpdateStatusFunc func(ctx context.Context, exec repositories.SQLExecutor, id string, status models.TournamentStatus) error
}

func (f *FakeTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	f.record("Create")
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, existing := range f.store.tournaments {
		if existing.Name == t.Name {
			return repositories.ErrTournamentNameConflict
		}
	}
	t.CreatedAt, t.UpdatedAt = time.Now(), time.Now()
	f.store.tournaments[t.ID] = *t
	return nil
}

func (f *FakeTournamentRepository) GetByID(ctx context.Context, exec repositories.SQLExecutor, id string) (*models.Tournament, error) {
	f.record("GetByID")
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	t, ok := f.store.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return &t, nil
}

func (f *FakeTournamentRepository) GetForUpdate(ctx context.Context, exec repositories.SQLExecutor, id string) (*models.Tournament, error) {
	f.record("GetForUpdate")
	if f.GetForUpdateFunc != nil {
		return f.GetForUpdateFunc(ctx, exec, id)
	}
	return f.GetByID(ctx, exec, id)
}

func (f *FakeTournamentRepository) GetActive(ctx context.Context, mode models.GameMode) (*models.Tournament, error) {
	f.record("GetActive")
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, t := range f.store.tournaments {
		if t.GameMode == mode && t.Status == models.TournamentStatusActive {
			return &t, nil
		}
	}
	return nil, repositories.ErrNoActiveTournament
}

func (f *FakeTournamentRepository) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	f.record("List")
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	out := make([]models.Tournament, 0)
	for _, t := range f.store.tournaments {
		if filter.GameMode != nil && t.GameMode != *filter.GameMode {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *FakeTournamentRepository) Update(ctx context.Context, t *models.Tournament) error {
	f.record("Update")
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if _, ok := f.store.tournaments[t.ID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	f.store.tournaments[t.ID] = *t
	return nil
}

func (f *FakeTournamentRepository) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id string, status models.TournamentStatus) error {
	f.record("UpdateStatus")
	if f.UpdateStatusFunc != nil {
		return f.UpdateStatusFunc(ctx, exec, id, status)
	}
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	t, ok := f.store.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	f.store.tournaments[id] = t
	return nil
}

func (f *FakeTournamentRepository) DemoteActive(ctx context.Context, exec repositories.SQLExecutor, mode models.GameMode, exceptID string) (int64, error) {
	f.record("DemoteActive")
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var n int64
	for id, t := range f.store.tournaments {
		if t.GameMode == mode && t.Status == models.TournamentStatusActive && id != exceptID {
			t.Status = models.TournamentStatusDraft
			f.store.tournaments[id] = t
			n++
		}
	}
	return n, nil
}

func (f *FakeTournamentRepository) UpdateStats(ctx context.Context, exec repositories.SQLExecutor, id string, stats models.TournamentStats) error {
	f.record("UpdateStats")
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	t, ok := f.store.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Stats = stats
	f.store.tournaments[id] = t
	return nil
}

func (f *FakeTournamentRepository) Delete(ctx context.Context, id string) error {
	f.record("Delete")
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if _, ok := f.store.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	delete(f.store.tournaments, id)
	return nil
}

// ------------------------
// Fake Match Repository
// ------------------------

type FakeMatchRepository struct {
	store *fakeStore
	tracer

	UpdateResultFunc func(ctx context.Context, exec repositories.SQLExecutor, m *models.Match, expectedVersion int) error
	CreateBatchFunc  func(ctx context.Context, exec repositories.SQLExecutor, matches []*models.Match) error
}

func (f *FakeMatchRepository) CreateBatch(ctx context.Context, exec repositories.SQLExecutor, matches []*models.Match) error {
	f.record("CreateBatch")
	if f.CreateBatchFunc != nil {
		return f.CreateBatchFunc(ctx, exec, matches)
	}
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, m := range matches {
		if _, ok := f.store.tournaments[m.TournamentID]; !ok {
			return repositories.ErrMatchTournamentInvalid
		}
		f.store.matches[m.ID] = cloneMatch(*m)
	}
	return nil
}

func (f *FakeMatchRepository) GetByID(ctx context.Context, exec repositories.SQLExecutor, id string) (*models.Match, error) {
	f.record("GetByID")
	if m := f.store.match(id); m != nil {
		return m, nil
	}
	return nil, repositories.ErrMatchNotFound
}

func (f *FakeMatchRepository) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID string, filter models.MatchFilter) ([]*models.Match, error) {
	f.record("ListByTournament")
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	out := make([]*models.Match, 0)
	for _, m := range f.store.matches {
		if m.TournamentID != tournamentID || !filter.Matches(&m) {
			continue
		}
		cp := cloneMatch(m)
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PhaseType != out[j].PhaseType {
			return out[i].PhaseType < out[j].PhaseType
		}
		if out[i].Round != out[j].Round {
			return out[i].Round > out[j].Round
		}
		return out[i].MatchNumber < out[j].MatchNumber
	})
	return out, nil
}

func (f *FakeMatchRepository) UpdateResult(ctx context.Context, exec repositories.SQLExecutor, m *models.Match, expectedVersion int) error {
	f.record("UpdateResult")
	if f.UpdateResultFunc != nil {
		return f.UpdateResultFunc(ctx, exec, m, expectedVersion)
	}
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	stored, ok := f.store.matches[m.ID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	if stored.Version != expectedVersion {
		return repositories.ErrMatchVersionConflict
	}
	m.Version = expectedVersion + 1
	f.store.matches[m.ID] = cloneMatch(*m)
	return nil
}

func (f *FakeMatchRepository) DeletePhaseIfPending(ctx context.Context, exec repositories.SQLExecutor, tournamentID string, phase models.PhaseType) (int64, error) {
	f.record("DeletePhaseIfPending")
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, m := range f.store.matches {
		if m.TournamentID == tournamentID && m.PhaseType == phase && m.Status != models.MatchStatusPending && !m.IsBye {
			return 0, repositories.ErrPhaseStarted
		}
	}
	var n int64
	for id, m := range f.store.matches {
		if m.TournamentID == tournamentID && m.PhaseType == phase {
			delete(f.store.matches, id)
			n++
		}
	}
	return n, nil
}

// ------------------------
// Fake Team Repository (also the roster source)
// ------------------------

type FakeTeamRepository struct {
	store *fakeStore
	tracer

	ListTeamsFunc func(ctx context.Context, tournamentID string, status *models.TeamStatus) ([]*models.Team, error)
}

func (f *FakeTeamRepository) Create(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error {
	f.record("Create")
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, t := range f.store.teams {
		if t.TournamentID == team.TournamentID && t.Name == team.Name {
			return repositories.ErrTeamNameConflict
		}
	}
	for i := range team.Players {
		team.Players[i].TeamID = team.ID
		team.Players[i].Position = i + 1
	}
	team.CreatedAt = time.Now()
	team.SyncCaptain()
	f.store.teams[team.ID] = cloneTeam(*team)
	return nil
}

func (f *FakeTeamRepository) GetTeam(ctx context.Context, teamID string) (*models.Team, error) {
	return f.GetByID(ctx, nil, teamID)
}

func (f *FakeTeamRepository) GetByID(ctx context.Context, exec repositories.SQLExecutor, id string) (*models.Team, error) {
	f.record("GetByID")
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	t, ok := f.store.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	cp := cloneTeam(t)
	cp.SyncCaptain()
	return &cp, nil
}

func (f *FakeTeamRepository) ListTeams(ctx context.Context, tournamentID string, status *models.TeamStatus) ([]*models.Team, error) {
	f.record("ListTeams")
	if f.ListTeamsFunc != nil {
		return f.ListTeamsFunc(ctx, tournamentID, status)
	}
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	out := make([]*models.Team, 0)
	for _, t := range f.store.teams {
		if t.TournamentID != tournamentID || (status != nil && t.Status != *status) {
			continue
		}
		cp := cloneTeam(t)
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *FakeTeamRepository) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, teamID string, status models.TeamStatus) error {
	f.record("UpdateStatus")
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	t, ok := f.store.teams[teamID]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	t.Status = status
	f.store.teams[teamID] = t
	return nil
}

func (f *FakeTeamRepository) UpdatePlayerStatus(ctx context.Context, exec repositories.SQLExecutor, playerID string, status models.PlayerStatus) error {
	f.record("UpdatePlayerStatus")
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for id, t := range f.store.teams {
		for i := range t.Players {
			if t.Players[i].ID == playerID {
				t.Players[i].Status = status
				f.store.teams[id] = t
				return nil
			}
		}
	}
	return repositories.ErrPlayerNotFound
}

func (f *FakeTeamRepository) Delete(ctx context.Context, exec repositories.SQLExecutor, id string) error {
	f.record("Delete")
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if _, ok := f.store.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(f.store.teams, id)
	return nil
}

// ------------------------
// Fake Leaderboard Repository
// ------------------------

type FakeLeaderboardRepository struct {
	store *fakeStore
	tracer

	UpsertFunc func(ctx context.Context, exec repositories.SQLExecutor, board *models.TournamentKillLeaderboard) error
}

func boardKey(tournamentID string, mode models.GameMode) string {
	return tournamentID + "/" + string(mode)
}

func (f *FakeLeaderboardRepository) InsertSubmissions(ctx context.Context, exec repositories.SQLExecutor, subs []models.KillSubmission) error {
	f.record("InsertSubmissions")
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for i := range subs {
		f.store.nextSubID++
		subs[i].ID = f.store.nextSubID
		f.store.subs = append(f.store.subs, subs[i])
	}
	return nil
}

func (f *FakeLeaderboardRepository) ListSubmissions(ctx context.Context, exec repositories.SQLExecutor, tournamentID string, mode models.GameMode) ([]models.KillSubmission, error) {
	f.record("ListSubmissions")
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	out := make([]models.KillSubmission, 0)
	for _, s := range f.store.subs {
		if s.TournamentID == tournamentID && s.GameMode == mode {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *FakeLeaderboardRepository) Upsert(ctx context.Context, exec repositories.SQLExecutor, board *models.TournamentKillLeaderboard) error {
	f.record("Upsert")
	if f.UpsertFunc != nil {
		return f.UpsertFunc(ctx, exec, board)
	}
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	board.UpdatedAt = time.Now()
	cp := *board
	cp.Entries = append(models.KillLeaderboardEntries(nil), board.Entries...)
	f.store.boards[boardKey(board.TournamentID, board.GameMode)] = cp
	return nil
}

func (f *FakeLeaderboardRepository) Get(ctx context.Context, tournamentID string, mode models.GameMode) (*models.TournamentKillLeaderboard, error) {
	f.record("Get")
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	b, ok := f.store.boards[boardKey(tournamentID, mode)]
	if !ok {
		return nil, repositories.ErrLeaderboardNotFound
	}
	return &b, nil
}

func (f *FakeLeaderboardRepository) ListByGameMode(ctx context.Context, mode models.GameMode) ([]models.TournamentKillLeaderboard, error) {
	f.record("ListByGameMode")
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	out := make([]models.TournamentKillLeaderboard, 0)
	for _, b := range f.store.boards {
		if b.GameMode == mode {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TournamentID < out[j].TournamentID })
	return out, nil
}

// ------------------------
// Fake Game Result Repository
// ------------------------

type FakeGameResultRepository struct {
	store *fakeStore
}

func (f *FakeGameResultRepository) Create(ctx context.Context, res *models.GameResult) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, r := range f.store.results {
		if r.TournamentID == res.TournamentID && r.TeamID == res.TeamID && r.GameNumber == res.GameNumber {
			return repositories.ErrGameResultConflict
		}
	}
	res.CreatedAt = time.Now()
	f.store.results = append(f.store.results, *res)
	return nil
}

func (f *FakeGameResultRepository) ListByTournament(ctx context.Context, tournamentID string) ([]models.GameResult, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	out := make([]models.GameResult, 0)
	for _, r := range f.store.results {
		if r.TournamentID == tournamentID {
			out = append(out, r)
		}
	}
	return out, nil
}

// ------------------------
// Fake Notifier and Guard
// ------------------------

type publishedEvent struct {
	TournamentID string
	Type         string
	Payload      interface{}
}

type FakeNotifier struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (f *FakeNotifier) Publish(tournamentID, eventType string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, publishedEvent{TournamentID: tournamentID, Type: eventType, Payload: payload})
}

func (f *FakeNotifier) Types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Type)
	}
	return out
}

type FakeGuard struct {
	AcquireFunc func(ctx context.Context, key string) (func(), error)
	acquired    []string
	released    int
}

func (f *FakeGuard) Acquire(ctx context.Context, key string) (func(), error) {
	f.acquired = append(f.acquired, key)
	if f.AcquireFunc != nil {
		return f.AcquireFunc(ctx, key)
	}
	return func() { f.released++ }, nil
}

var _ guard.SubmissionGuard = (*FakeGuard)(nil)

func errorIsAny(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ------------------------
// Environment wiring every service to the same store
// ------------------------

type testEnv struct {
	store       *fakeStore
	tx          *fakeTxManager
	tournaments *FakeTournamentRepository
	matches     *FakeMatchRepository
	teams       *FakeTeamRepository
	boards      *FakeLeaderboardRepository
	results     *FakeGameResultRepository
	notifier    *FakeNotifier
	guard       *FakeGuard
	gen         *testutils.DataGenerator

	brackets     *bracketService
	leaderboards *leaderboardService
	recorder     *matchService
	standings    StandingsService
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnv() *testEnv {
	store := newFakeStore()
	env := &testEnv{
		store:       store,
		tx:          &fakeTxManager{store: store},
		tournaments: &FakeTournamentRepository{store: store},
		matches:     &FakeMatchRepository{store: store},
		teams:       &FakeTeamRepository{store: store},
		boards:      &FakeLeaderboardRepository{store: store},
		results:     &FakeGameResultRepository{store: store},
		notifier:    &FakeNotifier{},
		guard:       &FakeGuard{},
		gen:         testutils.NewDataGenerator(42),
	}
	logger := discardLogger()
	ids := testutils.SequentialIDs("m")

	env.brackets = NewBracketService(env.tx, env.tournaments, env.matches, env.teams, env.notifier, metrics.NoOp{}, logger).(*bracketService)
	env.brackets.newID = ids
	env.leaderboards = NewLeaderboardService(env.tx, env.tournaments, env.boards, env.teams, env.notifier, metrics.NoOp{}, logger).(*leaderboardService)
	env.recorder = NewMatchService(env.tx, env.tournaments, env.matches, env.teams, env.leaderboards, env.brackets, env.guard, env.notifier, metrics.NoOp{}, logger).(*matchService)
	env.standings = NewStandingsService(env.tournaments, env.matches)
	return env
}

// seedTournament stores a tournament with n validated teams registered in
// order, returning the teams.
func (e *testEnv) seedTournament(mode models.GameMode, format models.CustomFormat, n int) (*models.Tournament, []*models.Team) {
	t := e.gen.Tournament(mode, format)
	e.store.putTournament(t)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	teams := make([]*models.Team, 0, n)
	for i := 0; i < n; i++ {
		team := e.gen.Team(t.ID, mode.TeamSize())
		team.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		e.store.putTeam(team)
		teams = append(teams, team)
	}
	return t, teams
}

// win records rounds for winner until the match completes, giving every
// player of both sides the same kill count.
func (e *testEnv) win(t *testing.T, m *models.Match, winnerID string) *RecordOutcome {
	t.Helper()
	var out *RecordOutcome
	for {
		current := e.store.match(m.ID)
		require.NotNil(t, current)
		if current.IsCompleted() {
			return out
		}
		res, err := e.recorder.RecordRoundResult(context.Background(), current.TournamentID, current.ID, RecordRoundInput{
			ExpectedVersion: current.Version,
			RoundSubmission: e.roundFor(current, winnerID, 1),
		})
		require.NoError(t, err)
		out = res
	}
}

// roundFor builds a submission listing every roster player with the given
// kills.
func (e *testEnv) roundFor(m *models.Match, winnerID string, kills int) (sub scoring.RoundSubmission) {
	sub.WinnerID = winnerID
	for _, side := range []struct {
		teamID string
		dst    *[]models.PlayerKills
	}{{m.Team1ID, &sub.Team1PlayerKills}, {m.Team2ID, &sub.Team2PlayerKills}} {
		e.store.mu.Lock()
		team := e.store.teams[side.teamID]
		e.store.mu.Unlock()
		for _, p := range team.Players {
			*side.dst = append(*side.dst, models.PlayerKills{PlayerID: p.ID, PlayerName: p.Pseudo, Kills: kills})
		}
	}
	return sub
}
