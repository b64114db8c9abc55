package services

import (
	"context"
	"testing"
	"time"

	"github.com/CaioSouzaC1/futsal-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStandingsFixture(t *testing.T) (StandingsService, *stubTeamRepo, int, int) {
	t.Helper()

	teamRepo := newStubTeamRepo()
	home := &models.Team{Name: "Falcons"}
	visitor := &models.Team{Name: "Wolves"}
	require.NoError(t, teamRepo.Create(context.Background(), nil, home))
	require.NoError(t, teamRepo.Create(context.Background(), nil, visitor))

	return NewStandingsService(teamRepo), teamRepo, home.ID, visitor.ID
}

func completedGame(homeID, visitorID, homeGoals, visitorGoals int) *models.Game {
	return &models.Game{
		Date:             time.Now(),
		HomeTeamID:       homeID,
		VisitorTeamID:    visitorID,
		Start:            "19:00",
		End:              "20:00",
		HomeTeamGoals:    intPtr(homeGoals),
		VisitorTeamGoals: intPtr(visitorGoals),
	}
}

func TestStandingsApply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		homeGoals     int
		visitorGoals  int
		homePoints    int
		visitorPoints int
	}{
		{name: "home win", homeGoals: 3, visitorGoals: 1, homePoints: 3, visitorPoints: 0},
		{name: "visitor win", homeGoals: 0, visitorGoals: 2, homePoints: 0, visitorPoints: 3},
		{name: "draw", homeGoals: 2, visitorGoals: 2, homePoints: 1, visitorPoints: 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			standings, teamRepo, homeID, visitorID := newStandingsFixture(t)
			game := completedGame(homeID, visitorID, tt.homeGoals, tt.visitorGoals)

			require.NoError(t, standings.Apply(context.Background(), nil, game))

			home := teamRepo.mustGet(homeID)
			visitor := teamRepo.mustGet(visitorID)

			assert.Equal(t, tt.homePoints, home.Points)
			assert.Equal(t, tt.homeGoals, home.GoalsCount)
			assert.Equal(t, 1, home.GamesCount)

			assert.Equal(t, tt.visitorPoints, visitor.Points)
			assert.Equal(t, tt.visitorGoals, visitor.GoalsCount)
			assert.Equal(t, 1, visitor.GamesCount)
		})
	}
}

func TestStandingsApplyIncompleteGame(t *testing.T) {
	t.Parallel()

	standings, teamRepo, homeID, visitorID := newStandingsFixture(t)
	game := completedGame(homeID, visitorID, 1, 0)
	game.VisitorTeamGoals = nil

	err := standings.Apply(context.Background(), nil, game)
	require.ErrorIs(t, err, ErrGameIncomplete)

	home := teamRepo.mustGet(homeID)
	assert.Zero(t, home.Points)
	assert.Zero(t, home.GamesCount)
}

func TestStandingsApplyUnknownTeam(t *testing.T) {
	t.Parallel()

	standings, teamRepo, homeID, _ := newStandingsFixture(t)
	game := completedGame(homeID, 999, 1, 0)

	err := standings.Apply(context.Background(), nil, game)
	require.ErrorIs(t, err, ErrTeamNotFound)

	home := teamRepo.mustGet(homeID)
	assert.Zero(t, home.Points)
}

func TestStandingsReverseUndoesApply(t *testing.T) {
	t.Parallel()

	standings, teamRepo, homeID, visitorID := newStandingsFixture(t)
	game := completedGame(homeID, visitorID, 4, 2)

	require.NoError(t, standings.Apply(context.Background(), nil, game))
	require.NoError(t, standings.Reverse(context.Background(), nil, game))

	for _, id := range []int{homeID, visitorID} {
		team := teamRepo.mustGet(id)
		assert.Zero(t, team.Points)
		assert.Zero(t, team.GoalsCount)
		assert.Zero(t, team.GamesCount)
	}
}

func TestStandingsReconcile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                          string
		oldHome, oldVisitor           int
		newHome, newVisitor           int
		homePointsDelta               int
		visitorPointsDelta            int
		homeGoalsDelta                int
		visitorGoalsDelta             int
	}{
		{
			name:    "home win to draw",
			oldHome: 2, oldVisitor: 1, newHome: 2, newVisitor: 2,
			homePointsDelta: -2, visitorPointsDelta: 1,
			homeGoalsDelta: 0, visitorGoalsDelta: 1,
		},
		{
			name:    "draw to home win",
			oldHome: 1, oldVisitor: 1, newHome: 3, newVisitor: 1,
			homePointsDelta: 2, visitorPointsDelta: -1,
			homeGoalsDelta: 2, visitorGoalsDelta: 0,
		},
		{
			name:    "home win to visitor win",
			oldHome: 2, oldVisitor: 0, newHome: 2, newVisitor: 3,
			homePointsDelta: -3, visitorPointsDelta: 3,
			homeGoalsDelta: 0, visitorGoalsDelta: 3,
		},
		{
			name:    "visitor win to home win",
			oldHome: 0, oldVisitor: 1, newHome: 2, newVisitor: 1,
			homePointsDelta: 3, visitorPointsDelta: -3,
			homeGoalsDelta: 2, visitorGoalsDelta: 0,
		},
		{
			name:    "visitor win to draw",
			oldHome: 0, oldVisitor: 2, newHome: 2, newVisitor: 2,
			homePointsDelta: 1, visitorPointsDelta: -2,
			homeGoalsDelta: 2, visitorGoalsDelta: 0,
		},
		{
			name:    "draw to visitor win",
			oldHome: 0, oldVisitor: 0, newHome: 0, newVisitor: 1,
			homePointsDelta: -1, visitorPointsDelta: 2,
			homeGoalsDelta: 0, visitorGoalsDelta: 1,
		},
		{
			name:    "same result different score",
			oldHome: 1, oldVisitor: 0, newHome: 5, newVisitor: 2,
			homePointsDelta: 0, visitorPointsDelta: 0,
			homeGoalsDelta: 4, visitorGoalsDelta: 2,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			standings, teamRepo, homeID, visitorID := newStandingsFixture(t)

			oldGame := completedGame(homeID, visitorID, tt.oldHome, tt.oldVisitor)
			require.NoError(t, standings.Apply(context.Background(), nil, oldGame))

			homeBefore := teamRepo.mustGet(homeID)
			visitorBefore := teamRepo.mustGet(visitorID)

			newGame := completedGame(homeID, visitorID, tt.newHome, tt.newVisitor)
			require.NoError(t, standings.Reconcile(context.Background(), nil, oldGame, newGame))

			home := teamRepo.mustGet(homeID)
			visitor := teamRepo.mustGet(visitorID)

			assert.Equal(t, homeBefore.Points+tt.homePointsDelta, home.Points)
			assert.Equal(t, visitorBefore.Points+tt.visitorPointsDelta, visitor.Points)
			assert.Equal(t, homeBefore.GoalsCount+tt.homeGoalsDelta, home.GoalsCount)
			assert.Equal(t, visitorBefore.GoalsCount+tt.visitorGoalsDelta, visitor.GoalsCount)

			// An edit never touches games played.
			assert.Equal(t, homeBefore.GamesCount, home.GamesCount)
			assert.Equal(t, visitorBefore.GamesCount, visitor.GamesCount)
		})
	}
}

func TestStandingsReconcileMatchesReplay(t *testing.T) {
	t.Parallel()

	// Reconciling in place must land on the same counters as replaying the
	// edited game from scratch.
	standings, teamRepo, homeID, visitorID := newStandingsFixture(t)

	oldGame := completedGame(homeID, visitorID, 3, 0)
	newGame := completedGame(homeID, visitorID, 1, 1)

	require.NoError(t, standings.Apply(context.Background(), nil, oldGame))
	require.NoError(t, standings.Reconcile(context.Background(), nil, oldGame, newGame))

	reconciled := teamRepo.mustGet(homeID)

	replayRepo := newStubTeamRepo()
	replayHome := &models.Team{Name: "Falcons"}
	replayVisitor := &models.Team{Name: "Wolves"}
	require.NoError(t, replayRepo.Create(context.Background(), nil, replayHome))
	require.NoError(t, replayRepo.Create(context.Background(), nil, replayVisitor))

	replay := NewStandingsService(replayRepo)
	require.NoError(t, replay.Apply(context.Background(), nil, completedGame(replayHome.ID, replayVisitor.ID, 1, 1)))

	replayed := replayRepo.mustGet(replayHome.ID)
	assert.Equal(t, replayed.Points, reconciled.Points)
	assert.Equal(t, replayed.GoalsCount, reconciled.GoalsCount)
	assert.Equal(t, replayed.GamesCount, reconciled.GamesCount)
}

func TestStandingsApplyOrderIndependent(t *testing.T) {
	t.Parallel()

	games := [][2]int{{2, 1}, {0, 0}, {1, 4}, {3, 3}}

	totals := func(order []int) (models.Team, models.Team) {
		teamRepo := newStubTeamRepo()
		home := &models.Team{Name: "Falcons"}
		visitor := &models.Team{Name: "Wolves"}
		require.NoError(t, teamRepo.Create(context.Background(), nil, home))
		require.NoError(t, teamRepo.Create(context.Background(), nil, visitor))

		standings := NewStandingsService(teamRepo)
		for _, i := range order {
			g := completedGame(home.ID, visitor.ID, games[i][0], games[i][1])
			require.NoError(t, standings.Apply(context.Background(), nil, g))
		}
		return teamRepo.mustGet(home.ID), teamRepo.mustGet(visitor.ID)
	}

	homeA, visitorA := totals([]int{0, 1, 2, 3})
	homeB, visitorB := totals([]int{3, 2, 1, 0})

	assert.Equal(t, homeA.Points, homeB.Points)
	assert.Equal(t, homeA.GoalsCount, homeB.GoalsCount)
	assert.Equal(t, homeA.GamesCount, homeB.GamesCount)
	assert.Equal(t, visitorA.Points, visitorB.Points)
	assert.Equal(t, visitorA.GoalsCount, visitorB.GoalsCount)
	assert.Equal(t, visitorA.GamesCount, visitorB.GamesCount)
}
