package handler

import (
	"log/slog"
	"net/http"

	"github.com/nextstepguidance/nextstep/internal/ctxkeys"
	"github.com/nextstepguidance/nextstep/internal/model"
	"github.com/nextstepguidance/nextstep/internal/service"
	"github.com/nextstepguidance/nextstep/internal/ui"
	"github.com/nextstepguidance/nextstep/internal/ui/pages"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	profile := ctxkeys.Profile(r.Context())
	if profile == nil {
		failAction(w, r, profileErrorMessage)
		return
	}

	goal, err := h.goalService.Create(profile, r.FormValue("title"), r.FormValue("description"), r.FormValue("target_date"))
	if err != nil {
		msg, ok := userMessage(err)
		if !ok {
			slog.Error("failed to create goal", "error", err, "profile_id", profile.ID)
			msg = "Failed to create goal"
		}
		failAction(w, r, msg)
		return
	}

	goals, err := h.goalService.Goals(profile.ID)
	if err != nil {
		slog.Error("failed to reload goals", "error", err, "profile_id", profile.ID)
		goals = []*model.Goal{goal}
	}

	toastSuccess(w, r, "Goal created successfully")
	ui.Render(w, r, pages.GoalList(goals, ""))
}

// ToggleStep advances one step and re-renders its goal with fresh progress.
func (h *GoalHandler) ToggleStep(w http.ResponseWriter, r *http.Request) {
	profile := ctxkeys.Profile(r.Context())
	if profile == nil {
		failAction(w, r, profileErrorMessage)
		return
	}

	stepID := r.PathValue("id")
	step, err := h.goalService.ToggleStep(profile, stepID)
	if err != nil {
		msg, ok := userMessage(err)
		if !ok {
			slog.Error("failed to toggle step", "error", err, "step_id", stepID, "profile_id", profile.ID)
			msg = "Failed to update step"
		}
		failAction(w, r, msg)
		return
	}

	goal, err := h.goalService.Goal(step.GoalID)
	if err != nil {
		slog.Error("failed to reload goal", "error", err, "goal_id", step.GoalID)
		failAction(w, r, "Step updated. Refresh to see the latest progress.")
		return
	}

	progress, err := h.goalService.Progress(goal)
	if err != nil {
		slog.Error("failed to reload steps", "error", err, "goal_id", goal.ID)
		failAction(w, r, "Step updated. Refresh to see the latest progress.")
		return
	}

	ui.Render(w, r, pages.GoalPanel(&progress))
}
