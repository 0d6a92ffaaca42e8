package pages

import (
	"github.com/a-h/templ"
	"github.com/nextstepguidance/nextstep/internal/model"
	"github.com/nextstepguidance/nextstep/internal/service"
)

type HomeData struct {
	Content *model.HomeContent
	Error   string
}

func Home(data HomeData) templ.Component {
	return page("home", "", data)
}

type AuthData struct {
	GoogleEnabled bool
	GitHubEnabled bool
	Sent          bool
	Email         string
	Error         string
}

func Auth(data AuthData) templ.Component {
	return page("auth", "Sign in", data)
}

const (
	TabGoals     = "goals"
	TabQuestions = "questions"
	TabSteps     = "steps"
	TabNotices   = "notices"
)

// DashboardTabs lists the client tabs in display order.
var DashboardTabs = []string{TabGoals, TabQuestions, TabSteps, TabNotices}

type DashboardData struct {
	Tab       string
	Profile   *model.Profile
	Goals     []*model.Goal
	Selected  *model.GoalProgress
	Questions []*model.IntakeQuestion
	Answers   map[string]string
	Feed      *model.NoticeFeed
	Error     string
}

func Dashboard(data DashboardData) templ.Component {
	return page("dashboard", "Dashboard", data)
}

func GoalList(goals []*model.Goal, selected string) templ.Component {
	return fragment("goal-list", map[string]any{"Goals": goals, "Selected": selected})
}

func GoalPanel(progress *model.GoalProgress) templ.Component {
	return fragment("goal-panel", progress)
}

func QuestionsForm(questions []*model.IntakeQuestion, answers map[string]string) templ.Component {
	return fragment("questions-form", map[string]any{"Questions": questions, "Answers": answers})
}

func NoticesPanel(feed *model.NoticeFeed) templ.Component {
	return fragment("notices-panel", feed)
}

const (
	AdminTabUsers     = "users"
	AdminTabSchedules = "schedules"
	AdminTabQuestions = "questions"
	AdminTabNotices   = "notices"
	AdminTabSocial    = "social"
	AdminTabConfig    = "config"
)

var AdminTabs = []string{AdminTabUsers, AdminTabSchedules, AdminTabQuestions, AdminTabNotices, AdminTabSocial, AdminTabConfig}

type AdminData struct {
	Tab          string
	Profiles     []*model.Profile
	GoalCounts   map[string]int
	Answers      map[string][]*model.AnsweredQuestion
	SelectedUser string
	UserGoals    []*model.Goal
	SelectedGoal *model.GoalProgress
	Questions    []*model.IntakeQuestion
	SocialLinks  []*model.SocialLink
	Config       *model.SiteConfig
	Error        string
}

func Admin(data AdminData) templ.Component {
	return page("admin", "Admin", data)
}

// UserRow is one row of the admin users table.
type UserRow struct {
	Profile   *model.Profile
	GoalCount int
	Answers   []*model.AnsweredQuestion
}

func AdminUserRow(row UserRow) templ.Component {
	return fragment("admin-user-row", row)
}

func AdminGoalPanel(progress *model.GoalProgress) templ.Component {
	return fragment("admin-goal-panel", progress)
}

func AdminQuestions(questions []*model.IntakeQuestion) templ.Component {
	return fragment("admin-questions", questions)
}

func AdminNoticeForm(profiles []*model.Profile) templ.Component {
	return fragment("admin-notice-form", profiles)
}

func AdminSocial(links []*model.SocialLink) templ.Component {
	return fragment("admin-social", links)
}

func AdminConfig(cfg *model.SiteConfig) templ.Component {
	return fragment("admin-config", cfg)
}

func Legal(p *service.LegalPage) templ.Component {
	return page("legal", p.Title, p)
}

type StatusData struct {
	Code    int
	Heading string
	Message string
}

func NotFound() templ.Component {
	return page("status", "Not found", StatusData{
		Code:    404,
		Heading: "Page not found",
		Message: "The page you are looking for does not exist.",
	})
}

func Forbidden() templ.Component {
	return page("status", "Forbidden", StatusData{
		Code:    403,
		Heading: "Access denied",
		Message: "You do not have admin permissions.",
	})
}

func Error(message string) templ.Component {
	return page("status", "Error", StatusData{
		Code:    500,
		Heading: "Something went wrong",
		Message: message,
	})
}
