package models

import "time"

type Game struct {
	ID            int       `json:"id" db:"id"`
	Date          time.Time `json:"date" db:"date"`
	HomeTeamID    int       `json:"home_team_id" db:"home_team_id"`
	VisitorTeamID int       `json:"visitor_team_id" db:"visitor_team_id"`
	Start         string    `json:"start" db:"start"`
	End           string    `json:"end" db:"end"`

	// Goal counts are nullable: a game with either side missing is
	// incomplete and contributes nothing to the standings.
	HomeTeamGoals    *int `json:"home_team_goals" db:"home_team_goals"`
	VisitorTeamGoals *int `json:"visitor_team_goals" db:"visitor_team_goals"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	HomeTeam    *Team `json:"home_team,omitempty" db:"-"`
	VisitorTeam *Team `json:"visitor_team,omitempty" db:"-"`
}

// Completed reports whether both goal counts are present.
func (g *Game) Completed() bool {
	return g != nil && g.HomeTeamGoals != nil && g.VisitorTeamGoals != nil
}
