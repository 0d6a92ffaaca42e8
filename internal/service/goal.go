package service

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nextstepguidance/nextstep/internal/model"
	"github.com/nextstepguidance/nextstep/internal/repository"
	"github.com/nextstepguidance/nextstep/internal/validation"
)

type GoalService struct {
	repo     repository.GoalRepository
	stepRepo repository.StepRepository
}

func NewGoalService(repo repository.GoalRepository, stepRepo repository.StepRepository) *GoalService {
	return &GoalService{
		repo:     repo,
		stepRepo: stepRepo,
	}
}

func (s *GoalService) Create(owner *model.Profile, title, description, targetDate string) (*model.Goal, error) {
	title, err := validation.Required("Title", title, 200)
	if err != nil {
		return nil, err
	}

	target, err := parseDate(targetDate)
	if err != nil {
		return nil, err
	}

	goal := &model.Goal{
		UserID:      owner.ID,
		Title:       title,
		Description: validation.Optional(description),
		TargetDate:  target,
		Status:      model.GoalStatusActive,
	}

	err = s.repo.Create(goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return goal, nil
}

func (s *GoalService) Goal(goalID string) (*model.Goal, error) {
	return s.repo.ByID(goalID)
}

func (s *GoalService) Goals(profileID string) ([]*model.Goal, error) {
	return s.repo.Goals(profileID)
}

func (s *GoalService) GoalCounts(actor *model.Profile) (map[string]int, error) {
	err := requireAdmin(actor)
	if err != nil {
		return nil, err
	}
	return s.repo.CountByOwner()
}

func (s *GoalService) Steps(goalID string) ([]*model.Step, error) {
	return s.stepRepo.Steps(goalID)
}

// Progress loads a goal's steps and pairs them with it.
func (s *GoalService) Progress(goal *model.Goal) (model.GoalProgress, error) {
	steps, err := s.stepRepo.Steps(goal.ID)
	if err != nil {
		return model.GoalProgress{}, err
	}
	return model.GoalProgress{Goal: goal, Steps: steps}, nil
}

// AddStep appends a pending step after the goal's current last step.
// Two admins appending at once can both get the same order index.
func (s *GoalService) AddStep(actor *model.Profile, goalID, title, description, dueDate string) (*model.Step, error) {
	err := requireAdmin(actor)
	if err != nil {
		return nil, err
	}

	title, err = validation.Required("Title", title, 200)
	if err != nil {
		return nil, err
	}

	due, err := parseDate(dueDate)
	if err != nil {
		return nil, err
	}

	_, err = s.repo.ByID(goalID)
	if err != nil {
		return nil, err
	}

	last, err := s.stepRepo.LastOrderIndex(goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to read step order: %w", err)
	}

	step := &model.Step{
		GoalID:      goalID,
		Title:       title,
		Description: validation.Optional(description),
		DueDate:     due,
		Status:      model.StepPending,
		OrderIndex:  model.NextOrderIndex(last),
	}

	err = s.stepRepo.Create(step)
	if err != nil {
		return nil, fmt.Errorf("failed to create step: %w", err)
	}

	slog.Info("step added", "goal_id", goalID, "step_id", step.ID, "order_index", step.OrderIndex, "admin_id", actor.ID)
	return step, nil
}

// ToggleStep moves one of the owner's steps to the next status.
// Steps on someone else's goal look like missing steps.
func (s *GoalService) ToggleStep(owner *model.Profile, stepID string) (*model.Step, error) {
	step, err := s.stepRepo.ByID(stepID)
	if err != nil {
		return nil, err
	}

	goal, err := s.repo.ByID(step.GoalID)
	if err != nil {
		return nil, err
	}
	if goal.UserID != owner.ID {
		return nil, repository.ErrStepNotFound
	}

	step.ToggleStatus(time.Now())

	err = s.stepRepo.UpdateStatus(step)
	if err != nil {
		return nil, fmt.Errorf("failed to update step: %w", err)
	}

	return step, nil
}

func parseDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return &t, nil
}
