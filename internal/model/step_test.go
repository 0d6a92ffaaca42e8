package model

import (
	"testing"
	"time"
)

func TestNextStepStatus(t *testing.T) {
	tests := []struct {
		current StepStatus
		want    StepStatus
	}{
		{StepDone, StepPending},
		{StepPending, StepInProgress},
		{StepInProgress, StepDone},
		{StepStatus("blocked"), StepDone},
		{StepStatus(""), StepDone},
	}

	for _, tt := range tests {
		if got := NextStepStatus(tt.current); got != tt.want {
			t.Errorf("NextStepStatus(%q) = %q, want %q", tt.current, got, tt.want)
		}
	}
}

func TestToggleStatusCompletedAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	step := &Step{Status: StepPending}

	for i := 0; i < 6; i++ {
		step.ToggleStatus(now)
		if (step.Status == StepDone) != (step.CompletedAt != nil) {
			t.Fatalf("status %q with completed_at %v", step.Status, step.CompletedAt)
		}
	}

	step.Status = StepInProgress
	step.ToggleStatus(now)
	if step.CompletedAt == nil || !step.CompletedAt.Equal(now) {
		t.Fatalf("completed_at = %v, want %v", step.CompletedAt, now)
	}
}

func TestProgress(t *testing.T) {
	if got := Progress(nil); got != 0 {
		t.Fatalf("Progress(nil) = %v, want 0", got)
	}

	steps := []*Step{
		{Status: StepDone},
		{Status: StepPending},
		{Status: StepInProgress},
		{Status: StepDone},
		{Status: StepDone},
	}
	if got := Progress(steps); got != 60 {
		t.Fatalf("Progress = %v, want 60", got)
	}
}

func TestLaunchProductScenario(t *testing.T) {
	steps := []*Step{
		{Title: "Research", Status: StepDone},
		{Title: "Prototype", Status: StepPending},
		{Title: "Beta", Status: StepPending},
		{Title: "Launch", Status: StepPending},
	}
	goal := GoalProgress{Goal: &Goal{Title: "Launch product"}, Steps: steps}

	if got := goal.Percent(); got != 25.0 {
		t.Fatalf("initial progress = %v, want 25", got)
	}

	steps[1].ToggleStatus(time.Now())
	if steps[1].Status != StepInProgress {
		t.Fatalf("step 2 status = %q, want in_progress", steps[1].Status)
	}
	if got := goal.Percent(); got != 25.0 {
		t.Fatalf("progress after in_progress = %v, want 25", got)
	}

	steps[1].ToggleStatus(time.Now())
	if got := goal.Percent(); got != 50.0 {
		t.Fatalf("progress after done = %v, want 50", got)
	}
	if steps[1].CompletedAt == nil {
		t.Fatalf("completed_at not set on done")
	}
	if goal.Completed() != 2 {
		t.Fatalf("Completed = %d, want 2", goal.Completed())
	}
}
