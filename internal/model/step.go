package model

import (
	"time"
)

type StepStatus string

const (
	StepPending    StepStatus = "pending"
	StepInProgress StepStatus = "in_progress"
	StepDone       StepStatus = "done"
)

func (s StepStatus) Label() string {
	switch s {
	case StepPending:
		return "Pending"
	case StepInProgress:
		return "In progress"
	case StepDone:
		return "Done"
	default:
		return string(s)
	}
}

// NextStepStatus is the cycle pending -> in_progress -> done -> pending.
// Anything that is not done or pending, including unknown values, moves to done.
func NextStepStatus(current StepStatus) StepStatus {
	switch current {
	case StepDone:
		return StepPending
	case StepPending:
		return StepInProgress
	default:
		return StepDone
	}
}

type Step struct {
	ID          string     `db:"id"`
	GoalID      string     `db:"goal_id"`
	Title       string     `db:"title"`
	Description *string    `db:"description"`
	DueDate     *time.Time `db:"due_date"`
	Status      StepStatus `db:"status"`
	OrderIndex  int        `db:"order_index"`
	CompletedAt *time.Time `db:"completed_at"`
	CreatedAt   time.Time  `db:"created_at"`
}

// ToggleStatus advances the step one position in the cycle.
// CompletedAt is set exactly when the new status is done.
func (s *Step) ToggleStatus(now time.Time) {
	s.Status = NextStepStatus(s.Status)
	if s.Status == StepDone {
		s.CompletedAt = &now
		return
	}
	s.CompletedAt = nil
}

// Progress is the share of done steps as a percentage, 0 for no steps.
// Derived on every read and never stored.
func Progress(steps []*Step) float64 {
	if len(steps) == 0 {
		return 0
	}
	return float64(countDone(steps)) / float64(len(steps)) * 100
}

func countDone(steps []*Step) int {
	done := 0
	for _, s := range steps {
		if s.Status == StepDone {
			done++
		}
	}
	return done
}
