package handler

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/nextstepguidance/nextstep/internal/ctxkeys"
	"github.com/nextstepguidance/nextstep/internal/model"
	"github.com/nextstepguidance/nextstep/internal/service"
	"github.com/nextstepguidance/nextstep/internal/ui"
	"github.com/nextstepguidance/nextstep/internal/ui/pages"
	"golang.org/x/sync/errgroup"
)

const (
	profileErrorMessage = "We could not load your profile. Please refresh the page or contact support."
	partialLoadMessage  = "Some of your information could not be loaded. Please refresh the page."
)

type DashboardHandler struct {
	goalService   *service.GoalService
	intakeService *service.IntakeService
	noticeService *service.NoticeService
}

func NewDashboardHandler(goalService *service.GoalService, intakeService *service.IntakeService, noticeService *service.NoticeService) *DashboardHandler {
	return &DashboardHandler{
		goalService:   goalService,
		intakeService: intakeService,
		noticeService: noticeService,
	}
}

func (h *DashboardHandler) DashboardPage(w http.ResponseWriter, r *http.Request) {
	data := pages.DashboardData{
		Tab:     tabParam(r, pages.DashboardTabs),
		Answers: map[string]string{},
		Feed:    model.NewNoticeFeed(nil),
	}

	profile := ctxkeys.Profile(r.Context())
	if profile == nil {
		data.Error = profileErrorMessage
		ui.Render(w, r, pages.Dashboard(data))
		return
	}
	data.Profile = profile

	// each load fails on its own; the page still renders what did load
	var g errgroup.Group
	failed := make([]bool, 4)

	g.Go(func() error {
		goals, err := h.goalService.Goals(profile.ID)
		if err != nil {
			slog.Error("failed to load goals", "error", err, "profile_id", profile.ID)
			failed[0] = true
			return nil
		}
		data.Goals = goals
		return nil
	})
	g.Go(func() error {
		questions, err := h.intakeService.ActiveQuestions()
		if err != nil {
			slog.Error("failed to load questions", "error", err)
			failed[1] = true
			return nil
		}
		data.Questions = questions
		return nil
	})
	g.Go(func() error {
		answers, err := h.intakeService.Answers(profile.ID)
		if err != nil {
			slog.Error("failed to load answers", "error", err, "profile_id", profile.ID)
			failed[2] = true
			return nil
		}
		data.Answers = answers
		return nil
	})
	g.Go(func() error {
		feed, err := h.noticeService.Feed(profile.ID)
		if err != nil {
			slog.Error("failed to load notices", "error", err, "profile_id", profile.ID)
			failed[3] = true
			return nil
		}
		data.Feed = feed
		return nil
	})
	_ = g.Wait()

	if slices.Contains(failed, true) {
		data.Error = partialLoadMessage
	}

	goal := selectGoal(data.Goals, r.URL.Query().Get("goal"))
	if goal != nil {
		progress, err := h.goalService.Progress(goal)
		if err != nil {
			slog.Error("failed to load steps", "error", err, "goal_id", goal.ID)
			data.Error = partialLoadMessage
		} else {
			data.Selected = &progress
		}
	}

	ui.Render(w, r, pages.Dashboard(data))
}

func (h *DashboardHandler) SubmitAnswers(w http.ResponseWriter, r *http.Request) {
	profile := ctxkeys.Profile(r.Context())
	if profile == nil {
		failAction(w, r, profileErrorMessage)
		return
	}

	err := r.ParseForm()
	if err != nil {
		failAction(w, r, "Invalid form submission.")
		return
	}

	answers := make(map[string]string)
	for key, values := range r.PostForm {
		id, ok := strings.CutPrefix(key, "answer_")
		if !ok || len(values) == 0 {
			continue
		}
		answers[id] = values[0]
	}

	saved, err := h.intakeService.SubmitAnswers(profile.ID, answers)
	if err != nil {
		msg, ok := userMessage(err)
		if !ok {
			slog.Error("failed to save answers", "error", err, "profile_id", profile.ID)
			msg = "Failed to save your answers. Please try again."
		}
		failAction(w, r, msg)
		return
	}

	questions, err := h.intakeService.ActiveQuestions()
	if err != nil {
		slog.Error("failed to reload questions", "error", err)
		failAction(w, r, "Your answers have been saved. Refresh to see the latest questions.")
		return
	}
	stored, err := h.intakeService.Answers(profile.ID)
	if err != nil {
		slog.Error("failed to reload answers", "error", err, "profile_id", profile.ID)
		stored = answers
	}

	slog.Info("answers saved", "profile_id", profile.ID, "count", saved)
	toastSuccess(w, r, "Your answers have been saved.")
	ui.Render(w, r, pages.QuestionsForm(questions, stored))
}

func (h *DashboardHandler) MarkNoticeRead(w http.ResponseWriter, r *http.Request) {
	profile := ctxkeys.Profile(r.Context())
	if profile == nil {
		failAction(w, r, profileErrorMessage)
		return
	}

	noticeID := r.PathValue("id")
	feed, err := h.noticeService.MarkRead(profile.ID, noticeID)
	if err != nil {
		msg, ok := userMessage(err)
		if !ok {
			slog.Error("failed to mark notice read", "error", err, "notice_id", noticeID, "profile_id", profile.ID)
			msg = "Failed to update the notice."
		}
		failAction(w, r, msg)
		return
	}

	ui.Render(w, r, pages.NoticesPanel(feed))
}

// selectGoal picks the requested goal when the profile owns it, else the first one.
func selectGoal(goals []*model.Goal, id string) *model.Goal {
	if len(goals) == 0 {
		return nil
	}
	for _, g := range goals {
		if g.ID == id {
			return g
		}
	}
	return goals[0]
}

// tabParam returns ?tab= when it is one of tabs, else the first tab.
func tabParam(r *http.Request, tabs []string) string {
	tab := r.URL.Query().Get("tab")
	if slices.Contains(tabs, tab) {
		return tab
	}
	return tabs[0]
}
