package models

import "time"

type Team struct {
	ID         int       `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Points     int       `json:"points" db:"points"`
	GoalsCount int       `json:"goals_count" db:"goals_count"`
	GamesCount int       `json:"games_count" db:"games_count"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`

	Players []Player `json:"players,omitempty" db:"-"`

	CrestKey *string `json:"-" db:"crest_key"`
	CrestURL *string `json:"crest_url,omitempty" db:"-"`
}

// TeamCounterDelta is an additive change to a team's derived counters.
// Points, goals and games on a team row are maintained exclusively by the
// standings service through deltas; they are never written directly.
type TeamCounterDelta struct {
	Points int
	Goals  int
	Games  int
}
