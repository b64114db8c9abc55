package services

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/CaioSouzaC1/futsal-api/models"
	"github.com/CaioSouzaC1/futsal-api/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(n int) *int {
	return &n
}

// stubTeamRepo is an in-memory TeamRepository. It ignores the executor
// argument; services under test run without a real transaction.
type stubTeamRepo struct {
	mu     sync.Mutex
	teams  map[int]*models.Team
	nextID int
}

func newStubTeamRepo() *stubTeamRepo {
	return &stubTeamRepo{teams: make(map[int]*models.Team), nextID: 1}
}

func (r *stubTeamRepo) Create(_ context.Context, _ repositories.SQLExecutor, team *models.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.teams {
		if t.Name == team.Name {
			return repositories.ErrTeamNameConflict
		}
	}
	team.ID = r.nextID
	r.nextID++
	copied := *team
	r.teams[team.ID] = &copied
	return nil
}

func (r *stubTeamRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	team, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	copied := *team
	return &copied, nil
}

func (r *stubTeamRepo) List(ctx context.Context, exec repositories.SQLExecutor) ([]*models.Team, error) {
	return r.ListStandings(ctx, exec)
}

func (r *stubTeamRepo) ListStandings(_ context.Context, _ repositories.SQLExecutor) ([]*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	teams := make([]*models.Team, 0, len(r.teams))
	for _, t := range r.teams {
		copied := *t
		teams = append(teams, &copied)
	}
	return teams, nil
}

func (r *stubTeamRepo) UpdateName(_ context.Context, _ repositories.SQLExecutor, id int, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	team, ok := r.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	team.Name = name
	return nil
}

func (r *stubTeamRepo) UpdateCrestKey(_ context.Context, _ repositories.SQLExecutor, id int, crestKey *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	team, ok := r.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	team.CrestKey = crestKey
	return nil
}

func (r *stubTeamRepo) ApplyDelta(_ context.Context, _ repositories.SQLExecutor, id int, delta models.TeamCounterDelta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	team, ok := r.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	team.Points += delta.Points
	team.GoalsCount += delta.Goals
	team.GamesCount += delta.Games
	return nil
}

func (r *stubTeamRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(r.teams, id)
	return nil
}

// mustGet panics on a missing team; test setup only.
func (r *stubTeamRepo) mustGet(id int) models.Team {
	r.mu.Lock()
	defer r.mu.Unlock()
	team, ok := r.teams[id]
	if !ok {
		panic("stubTeamRepo: unknown team")
	}
	return *team
}

type stubGameRepo struct {
	mu     sync.Mutex
	games  map[int]*models.Game
	nextID int
}

func newStubGameRepo() *stubGameRepo {
	return &stubGameRepo{games: make(map[int]*models.Game), nextID: 1}
}

func (r *stubGameRepo) Create(_ context.Context, _ repositories.SQLExecutor, game *models.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	game.ID = r.nextID
	r.nextID++
	copied := *game
	r.games[game.ID] = &copied
	return nil
}

func (r *stubGameRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	game, ok := r.games[id]
	if !ok {
		return nil, repositories.ErrGameNotFound
	}
	copied := *game
	return &copied, nil
}

func (r *stubGameRepo) List(_ context.Context, _ repositories.SQLExecutor) ([]*models.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	games := make([]*models.Game, 0, len(r.games))
	for _, g := range r.games {
		copied := *g
		games = append(games, &copied)
	}
	return games, nil
}

func (r *stubGameRepo) ListByTeam(_ context.Context, _ repositories.SQLExecutor, teamID int) ([]*models.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var games []*models.Game
	for _, g := range r.games {
		if g.HomeTeamID == teamID || g.VisitorTeamID == teamID {
			copied := *g
			games = append(games, &copied)
		}
	}
	return games, nil
}

func (r *stubGameRepo) Update(_ context.Context, _ repositories.SQLExecutor, game *models.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.games[game.ID]
	if !ok {
		return repositories.ErrGameNotFound
	}
	copied := *game
	copied.CreatedAt = existing.CreatedAt
	r.games[game.ID] = &copied
	return nil
}

func (r *stubGameRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	game, ok := r.games[id]
	if !ok {
		return nil, repositories.ErrGameNotFound
	}
	delete(r.games, id)
	copied := *game
	return &copied, nil
}

func (r *stubGameRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.games)
}

// stubTokenRepo is append-only like the real one; the newest row per user and
// type wins.
type stubTokenRepo struct {
	mu     sync.Mutex
	rows   []*models.Token
	nextID int
}

func newStubTokenRepo() *stubTokenRepo {
	return &stubTokenRepo{nextID: 1}
}

func (r *stubTokenRepo) Create(_ context.Context, _ repositories.SQLExecutor, token *models.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	token.ID = r.nextID
	r.nextID++
	copied := *token
	r.rows = append(r.rows, &copied)
	return nil
}

func (r *stubTokenRepo) GetLatestByUserAndType(_ context.Context, _ repositories.SQLExecutor, userID int, tokenType models.TokenType) (*models.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.rows) - 1; i >= 0; i-- {
		row := r.rows[i]
		if row.UserID == userID && row.Type == tokenType {
			copied := *row
			return &copied, nil
		}
	}
	return nil, repositories.ErrTokenNotFound
}

func (r *stubTokenRepo) countByType(tokenType models.TokenType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, row := range r.rows {
		if row.Type == tokenType {
			n++
		}
	}
	return n
}

type stubPlayerRepo struct {
	mu      sync.Mutex
	players map[int]*models.Player
	nextID  int
}

func newStubPlayerRepo() *stubPlayerRepo {
	return &stubPlayerRepo{players: make(map[int]*models.Player), nextID: 1}
}

func (r *stubPlayerRepo) Create(_ context.Context, _ repositories.SQLExecutor, player *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	player.ID = r.nextID
	r.nextID++
	copied := *player
	r.players[player.ID] = &copied
	return nil
}

func (r *stubPlayerRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	player, ok := r.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	copied := *player
	return &copied, nil
}

func (r *stubPlayerRepo) GetByTeamAndNumber(_ context.Context, _ repositories.SQLExecutor, teamID, number int) (*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.players {
		if p.TeamID == teamID && p.Number == number {
			copied := *p
			return &copied, nil
		}
	}
	return nil, repositories.ErrPlayerNotFound
}

func (r *stubPlayerRepo) List(_ context.Context, _ repositories.SQLExecutor) ([]*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	players := make([]*models.Player, 0, len(r.players))
	for _, p := range r.players {
		copied := *p
		players = append(players, &copied)
	}
	return players, nil
}

func (r *stubPlayerRepo) Update(_ context.Context, _ repositories.SQLExecutor, player *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.players[player.ID]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	copied := *player
	copied.CreatedAt = existing.CreatedAt
	r.players[player.ID] = &copied
	return nil
}

func (r *stubPlayerRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.players[id]; !ok {
		return repositories.ErrPlayerNotFound
	}
	delete(r.players, id)
	return nil
}

func (r *stubPlayerRepo) DeleteByTeam(_ context.Context, _ repositories.SQLExecutor, teamID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.players {
		if p.TeamID == teamID {
			delete(r.players, id)
		}
	}
	return nil
}

type stubUserRepo struct {
	mu     sync.Mutex
	users  map[int]*models.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int]*models.User), nextID: 1}
}

func (r *stubUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	user.ID = r.nextID
	r.nextID++
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

// stubBroadcaster records every standings snapshot pushed to it.
type stubBroadcaster struct {
	mu        sync.Mutex
	snapshots [][]*models.Team
}

func (b *stubBroadcaster) BroadcastStandings(teams []*models.Team) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snapshots = append(b.snapshots, teams)
}

func (b *stubBroadcaster) calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.snapshots)
}
