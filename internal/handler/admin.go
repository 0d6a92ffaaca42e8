package handler

import (
	"log/slog"
	"net/http"

	"github.com/nextstepguidance/nextstep/internal/ctxkeys"
	"github.com/nextstepguidance/nextstep/internal/model"
	"github.com/nextstepguidance/nextstep/internal/service"
	"github.com/nextstepguidance/nextstep/internal/ui"
	"github.com/nextstepguidance/nextstep/internal/ui/pages"
	"golang.org/x/sync/errgroup"
)

// AdminHandler serves the admin console. Every route sits behind
// middleware.RequireAdmin, and each service call checks the role again.
type AdminHandler struct {
	profileService *service.ProfileService
	goalService    *service.GoalService
	intakeService  *service.IntakeService
	noticeService  *service.NoticeService
	siteService    *service.SiteService
}

func NewAdminHandler(
	profileService *service.ProfileService,
	goalService *service.GoalService,
	intakeService *service.IntakeService,
	noticeService *service.NoticeService,
	siteService *service.SiteService,
) *AdminHandler {
	return &AdminHandler{
		profileService: profileService,
		goalService:    goalService,
		intakeService:  intakeService,
		noticeService:  noticeService,
		siteService:    siteService,
	}
}

func (h *AdminHandler) AdminPage(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Profile(r.Context())
	data := pages.AdminData{
		Tab:          tabParam(r, pages.AdminTabs),
		SelectedUser: r.URL.Query().Get("user"),
	}

	err := h.load(r, actor, &data)
	if err != nil {
		slog.Error("failed to load admin console", "error", err, "tab", data.Tab, "admin_id", actor.ID)
		data.Error = "Some data could not be loaded. Please refresh the page."
	}

	ui.Render(w, r, pages.Admin(data))
}

func (h *AdminHandler) load(r *http.Request, actor *model.Profile, data *pages.AdminData) error {
	switch data.Tab {
	case pages.AdminTabUsers:
		g, _ := errgroup.WithContext(r.Context())
		g.Go(func() error {
			profiles, err := h.profileService.Profiles(actor)
			data.Profiles = profiles
			return err
		})
		g.Go(func() error {
			counts, err := h.goalService.GoalCounts(actor)
			data.GoalCounts = counts
			return err
		})
		g.Go(func() error {
			answers, err := h.intakeService.AnswersByProfile(actor)
			data.Answers = answers
			return err
		})
		return g.Wait()

	case pages.AdminTabSchedules:
		profiles, err := h.profileService.Profiles(actor)
		if err != nil {
			return err
		}
		data.Profiles = profiles
		if data.SelectedUser == "" {
			return nil
		}

		goals, err := h.goalService.Goals(data.SelectedUser)
		if err != nil {
			return err
		}
		data.UserGoals = goals

		goal := selectGoal(goals, r.URL.Query().Get("goal"))
		if goal == nil {
			return nil
		}
		progress, err := h.goalService.Progress(goal)
		if err != nil {
			return err
		}
		data.SelectedGoal = &progress
		return nil

	case pages.AdminTabQuestions:
		questions, err := h.intakeService.Questions(actor)
		data.Questions = questions
		return err

	case pages.AdminTabNotices:
		profiles, err := h.profileService.Profiles(actor)
		data.Profiles = profiles
		return err

	case pages.AdminTabSocial:
		links, err := h.siteService.SocialLinks(actor)
		data.SocialLinks = links
		return err

	case pages.AdminTabConfig:
		cfg, err := h.siteService.Config()
		data.Config = cfg
		return err
	}
	return nil
}

// adminFailure toasts an expected error as is and logs anything else.
func adminFailure(w http.ResponseWriter, r *http.Request, err error, action string, args ...any) {
	msg, ok := userMessage(err)
	if !ok {
		slog.Error("failed to "+action, append([]any{"error", err}, args...)...)
		msg = "Failed to " + action + ". Please try again."
	}
	failAction(w, r, msg)
}

func (h *AdminHandler) ToggleRole(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Profile(r.Context())
	user := ctxkeys.User(r.Context())
	targetID := r.PathValue("id")

	target, err := h.profileService.ToggleRole(actor, user.ID, targetID)
	if err != nil {
		adminFailure(w, r, err, "update role", "target_id", targetID)
		return
	}

	row := pages.UserRow{Profile: target}
	counts, err := h.goalService.GoalCounts(actor)
	if err != nil {
		slog.Error("failed to reload goal counts", "error", err)
	}
	row.GoalCount = counts[target.ID]
	answers, err := h.intakeService.AnswersByProfile(actor)
	if err != nil {
		slog.Error("failed to reload answers", "error", err)
	}
	row.Answers = answers[target.ID]

	toastSuccess(w, r, target.DisplayName()+" is now "+string(target.Role)+".")
	ui.Render(w, r, pages.AdminUserRow(row))
}

func (h *AdminHandler) AddStep(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Profile(r.Context())
	goalID := r.PathValue("id")

	_, err := h.goalService.AddStep(actor, goalID, r.FormValue("title"), r.FormValue("description"), r.FormValue("due_date"))
	if err != nil {
		adminFailure(w, r, err, "add step", "goal_id", goalID)
		return
	}

	goal, err := h.goalService.Goal(goalID)
	if err != nil {
		adminFailure(w, r, err, "reload goal", "goal_id", goalID)
		return
	}
	progress, err := h.goalService.Progress(goal)
	if err != nil {
		adminFailure(w, r, err, "reload steps", "goal_id", goalID)
		return
	}

	toastSuccess(w, r, "Step added.")
	ui.Render(w, r, pages.AdminGoalPanel(&progress))
}

func (h *AdminHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Profile(r.Context())

	_, err := h.intakeService.CreateQuestion(actor, r.FormValue("question_text"), r.FormValue("helper_text"))
	if err != nil {
		adminFailure(w, r, err, "create question")
		return
	}

	questions, err := h.intakeService.Questions(actor)
	if err != nil {
		adminFailure(w, r, err, "reload questions")
		return
	}

	toastSuccess(w, r, "Question added.")
	ui.Render(w, r, pages.AdminQuestions(questions))
}

func (h *AdminHandler) SendNotice(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Profile(r.Context())
	recipientID := r.FormValue("recipient_id")

	if recipientID == "" {
		failAction(w, r, "Please choose a recipient.")
		return
	}

	_, err := h.noticeService.Send(actor, recipientID, r.FormValue("title"), r.FormValue("message"))
	if err != nil {
		adminFailure(w, r, err, "send notice", "recipient_id", recipientID)
		return
	}

	profiles, err := h.profileService.Profiles(actor)
	if err != nil {
		adminFailure(w, r, err, "reload users")
		return
	}

	toastSuccess(w, r, "Notice sent.")
	ui.Render(w, r, pages.AdminNoticeForm(profiles))
}

func (h *AdminHandler) AddSocialLink(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Profile(r.Context())

	_, err := h.siteService.AddSocialLink(actor, r.FormValue("platform"), r.FormValue("url"), r.FormValue("icon_name"))
	if err != nil {
		adminFailure(w, r, err, "add social link")
		return
	}

	h.renderSocial(w, r, actor, "Link added.")
}

func (h *AdminHandler) ToggleSocialLink(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Profile(r.Context())
	id := r.PathValue("id")

	link, err := h.siteService.ToggleSocialLink(actor, id)
	if err != nil {
		adminFailure(w, r, err, "update social link", "link_id", id)
		return
	}

	msg := link.Platform + " is now hidden."
	if link.IsActive {
		msg = link.Platform + " is now shown."
	}
	h.renderSocial(w, r, actor, msg)
}

func (h *AdminHandler) DeleteSocialLink(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Profile(r.Context())
	id := r.PathValue("id")

	err := h.siteService.DeleteSocialLink(actor, id)
	if err != nil {
		adminFailure(w, r, err, "delete social link", "link_id", id)
		return
	}

	h.renderSocial(w, r, actor, "Link deleted.")
}

func (h *AdminHandler) renderSocial(w http.ResponseWriter, r *http.Request, actor *model.Profile, msg string) {
	links, err := h.siteService.SocialLinks(actor)
	if err != nil {
		adminFailure(w, r, err, "reload social links")
		return
	}

	toastSuccess(w, r, msg)
	ui.Render(w, r, pages.AdminSocial(links))
}

func (h *AdminHandler) SaveConfig(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Profile(r.Context())

	cfg, err := h.siteService.SaveConfig(actor, service.SiteConfigInput{
		SiteName:   r.FormValue("site_name"),
		MobileNo:   r.FormValue("mobile_no"),
		WhatsappNo: r.FormValue("whatsapp_no"),
		Address:    r.FormValue("address"),
		Email:      r.FormValue("email"),
	})
	if err != nil {
		adminFailure(w, r, err, "save site details")
		return
	}

	toastSuccess(w, r, "Site details saved.")
	ui.Render(w, r, pages.AdminConfig(cfg))
}
