package model

import (
	"time"
)

const (
	GoalStatusActive = "active"
)

// Goal belongs to a profile (UserID holds the profile id, matching the goals table).
type Goal struct {
	ID          string     `db:"id"`
	UserID      string     `db:"user_id"`
	Title       string     `db:"title"`
	Description *string    `db:"description"`
	TargetDate  *time.Time `db:"target_date"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

// GoalProgress pairs a goal with its ordered steps.
type GoalProgress struct {
	Goal  *Goal
	Steps []*Step
}

func (g GoalProgress) Percent() float64 {
	return Progress(g.Steps)
}

func (g GoalProgress) Completed() int {
	return countDone(g.Steps)
}
