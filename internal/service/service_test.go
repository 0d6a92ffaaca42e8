package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/nextstepguidance/nextstep/internal/db"
	"github.com/nextstepguidance/nextstep/internal/model"
	"github.com/nextstepguidance/nextstep/internal/repository"
)

type testEnv struct {
	db       *sqlx.DB
	users    repository.UserRepository
	profiles *ProfileService
	goals    *GoalService
	intake   *IntakeService
	notices  *NoticeService
	site     *SiteService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database, err := db.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	users := repository.NewUserRepository(database)
	profileRepo := repository.NewProfileRepository(database)
	email := NewEmailService("", "noreply@example.com", "http://localhost:8090", "NextStep Guidance", true)

	return &testEnv{
		db:       database,
		users:    users,
		profiles: NewProfileService(profileRepo, users),
		goals:    NewGoalService(repository.NewGoalRepository(database), repository.NewStepRepository(database)),
		intake:   NewIntakeService(repository.NewQuestionRepository(database), repository.NewAnswerRepository(database)),
		notices:  NewNoticeService(repository.NewNoticeRepository(database), profileRepo, users, email),
		site:     NewSiteService(repository.NewSiteRepository(database), repository.NewSocialLinkRepository(database)),
	}
}

// signUp creates an identity and resolves its profile, optionally as admin.
func (e *testEnv) signUp(t *testing.T, email string, admin bool) (*model.User, *model.Profile) {
	t.Helper()

	user := &model.User{ID: uuid.New().String(), Email: email, CreatedAt: time.Now()}
	if err := e.users.Create(user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	profile, err := e.profiles.Resolve(user)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if admin {
		profile, err = e.profiles.Promote(email)
		if err != nil {
			t.Fatalf("Promote: %v", err)
		}
	}
	return user, profile
}

func TestResolveCreatesProfileOnce(t *testing.T) {
	env := setupTestEnv(t)
	name := "Ana Lima"
	user := &model.User{ID: uuid.New().String(), Email: "ana@example.com", DisplayName: &name, CreatedAt: time.Now()}
	if err := env.users.Create(user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	first, err := env.profiles.Resolve(user)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if first.FullName != name || first.Role != model.RoleUser {
		t.Fatalf("profile = %q/%q, want %q/user", first.FullName, first.Role, name)
	}

	second, err := env.profiles.Resolve(user)
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("Resolve created a second profile")
	}
}

func TestResolveFallsBackToEmail(t *testing.T) {
	env := setupTestEnv(t)
	_, profile := env.signUp(t, "ben@example.com", false)

	if profile.FullName != "ben@example.com" {
		t.Fatalf("full name = %q, want email", profile.FullName)
	}
}

func TestToggleRole(t *testing.T) {
	env := setupTestEnv(t)
	adminUser, admin := env.signUp(t, "admin@example.com", true)
	plainUser, plain := env.signUp(t, "ana@example.com", false)

	if _, err := env.profiles.ToggleRole(admin, adminUser.ID, admin.ID); !errors.Is(err, ErrSelfRoleChange) {
		t.Fatalf("admin self toggle err = %v, want ErrSelfRoleChange", err)
	}
	if _, err := env.profiles.ToggleRole(plain, plainUser.ID, plain.ID); !errors.Is(err, ErrSelfRoleChange) {
		t.Fatalf("user self toggle err = %v, want ErrSelfRoleChange", err)
	}
	if _, err := env.profiles.ToggleRole(plain, plainUser.ID, admin.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-admin toggle err = %v, want ErrForbidden", err)
	}

	updated, err := env.profiles.ToggleRole(admin, adminUser.ID, plain.ID)
	if err != nil {
		t.Fatalf("ToggleRole: %v", err)
	}
	if updated.Role != model.RoleAdmin {
		t.Fatalf("role = %q, want admin", updated.Role)
	}

	// the promoted admin may demote the original one, leaving a single admin
	promoted, _ := env.profiles.ByID(plain.ID)
	demoted, err := env.profiles.ToggleRole(promoted, plainUser.ID, admin.ID)
	if err != nil {
		t.Fatalf("ToggleRole demote: %v", err)
	}
	if demoted.Role != model.RoleUser {
		t.Fatalf("role = %q, want user", demoted.Role)
	}
}

func TestGoalProgressScenario(t *testing.T) {
	env := setupTestEnv(t)
	_, admin := env.signUp(t, "admin@example.com", true)
	_, owner := env.signUp(t, "ana@example.com", false)
	_, stranger := env.signUp(t, "ben@example.com", false)

	if _, err := env.goals.Create(owner, "   ", "", ""); err == nil {
		t.Fatalf("blank title accepted")
	}

	goal, err := env.goals.Create(owner, "Launch product", "", "2026-12-01")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if goal.TargetDate == nil || goal.TargetDate.Format(dateLayout) != "2026-12-01" {
		t.Fatalf("target date = %v", goal.TargetDate)
	}

	if _, err := env.goals.AddStep(owner, goal.ID, "Research", "", ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("owner AddStep err = %v, want ErrForbidden", err)
	}

	var steps []*model.Step
	for i, title := range []string{"Research", "Prototype", "Beta", "Launch"} {
		step, err := env.goals.AddStep(admin, goal.ID, title, "", "")
		if err != nil {
			t.Fatalf("AddStep: %v", err)
		}
		if step.OrderIndex != i {
			t.Fatalf("step %q order_index = %d, want %d", title, step.OrderIndex, i)
		}
		steps = append(steps, step)
	}

	// Research: pending -> in_progress -> done
	env.toggle(t, owner, steps[0].ID)
	env.toggle(t, owner, steps[0].ID)
	env.assertProgress(t, goal, 25)

	if _, err := env.goals.ToggleStep(stranger, steps[1].ID); !errors.Is(err, repository.ErrStepNotFound) {
		t.Fatalf("stranger toggle err = %v, want ErrStepNotFound", err)
	}

	step := env.toggle(t, owner, steps[1].ID)
	if step.Status != model.StepInProgress {
		t.Fatalf("status = %q, want in_progress", step.Status)
	}
	env.assertProgress(t, goal, 25)

	step = env.toggle(t, owner, steps[1].ID)
	if step.Status != model.StepDone || step.CompletedAt == nil {
		t.Fatalf("step = %q completed_at=%v, want done with timestamp", step.Status, step.CompletedAt)
	}
	env.assertProgress(t, goal, 50)

	step = env.toggle(t, owner, steps[1].ID)
	if step.Status != model.StepPending || step.CompletedAt != nil {
		t.Fatalf("step = %q completed_at=%v, want pending without timestamp", step.Status, step.CompletedAt)
	}
}

func (e *testEnv) toggle(t *testing.T, owner *model.Profile, stepID string) *model.Step {
	t.Helper()
	step, err := e.goals.ToggleStep(owner, stepID)
	if err != nil {
		t.Fatalf("ToggleStep: %v", err)
	}
	return step
}

func (e *testEnv) assertProgress(t *testing.T, goal *model.Goal, want float64) {
	t.Helper()
	progress, err := e.goals.Progress(goal)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if got := progress.Percent(); got != want {
		t.Fatalf("progress = %v, want %v", got, want)
	}
}

func TestCreateQuestionOrderIndex(t *testing.T) {
	env := setupTestEnv(t)
	_, admin := env.signUp(t, "admin@example.com", true)

	for _, text := range []string{"Where are you today?", "Where do you want to be?", "What blocks you?"} {
		if _, err := env.intake.CreateQuestion(admin, text, ""); err != nil {
			t.Fatalf("CreateQuestion: %v", err)
		}
	}

	q, err := env.intake.CreateQuestion(admin, "How much time can you commit?", "Hours per week")
	if err != nil {
		t.Fatalf("CreateQuestion: %v", err)
	}
	if q.OrderIndex != 3 {
		t.Fatalf("order_index = %d, want 3", q.OrderIndex)
	}
	if q.HelperText == nil || *q.HelperText != "Hours per week" {
		t.Fatalf("helper text = %v", q.HelperText)
	}
}

func TestSubmitAnswersReplacesSet(t *testing.T) {
	env := setupTestEnv(t)
	_, admin := env.signUp(t, "admin@example.com", true)
	_, owner := env.signUp(t, "ana@example.com", false)

	q1, _ := env.intake.CreateQuestion(admin, "Goal?", "")
	q2, _ := env.intake.CreateQuestion(admin, "Budget?", "")

	if _, err := env.intake.SubmitAnswers(owner.ID, map[string]string{q1.ID: "Grow", q2.ID: "Small"}); err != nil {
		t.Fatalf("SubmitAnswers: %v", err)
	}

	n, err := env.intake.SubmitAnswers(owner.ID, map[string]string{q1.ID: " Scale ", q2.ID: "  "})
	if err != nil {
		t.Fatalf("SubmitAnswers: %v", err)
	}
	if n != 1 {
		t.Fatalf("saved %d answers, want 1", n)
	}

	answers, err := env.intake.Answers(owner.ID)
	if err != nil {
		t.Fatalf("Answers: %v", err)
	}
	if len(answers) != 1 || answers[q1.ID] != "Scale" {
		t.Fatalf("answers = %v, want only q1=Scale", answers)
	}

	grouped, err := env.intake.AnswersByProfile(admin)
	if err != nil {
		t.Fatalf("AnswersByProfile: %v", err)
	}
	if got := grouped[owner.ID]; len(got) != 1 || got[0].QuestionText != "Goal?" {
		t.Fatalf("grouped answers = %+v", got)
	}
}

type countingAnswerRepo struct {
	repository.AnswerRepository
	replaced int
}

func (r *countingAnswerRepo) ReplaceForUser(profileID string, answers []*model.Answer) error {
	r.replaced++
	return nil
}

func TestSubmitAnswersBlankSkipsStorage(t *testing.T) {
	repo := &countingAnswerRepo{}
	intake := NewIntakeService(nil, repo)

	_, err := intake.SubmitAnswers("p1", map[string]string{"q1": "", "q2": "   "})
	if !errors.Is(err, ErrNoAnswers) {
		t.Fatalf("err = %v, want ErrNoAnswers", err)
	}
	if repo.replaced != 0 {
		t.Fatalf("storage touched %d times, want 0", repo.replaced)
	}
	if err.Error() != "please answer at least one question" {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestNoticeUnreadCount(t *testing.T) {
	env := setupTestEnv(t)
	_, admin := env.signUp(t, "admin@example.com", true)
	_, user := env.signUp(t, "ana@example.com", false)

	feed, err := env.notices.Feed(user.ID)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	before := feed.Unread

	if _, err := env.notices.Send(user, admin.ID, "Hi", "Hello"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-admin Send err = %v, want ErrForbidden", err)
	}
	if _, err := env.notices.Send(admin, user.ID, "", "Hello"); err == nil {
		t.Fatalf("blank title accepted")
	}

	notice, err := env.notices.Send(admin, user.ID, "Next session", "We meet **Monday**.")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if notice.IsRead {
		t.Fatalf("new notice is read")
	}

	feed, _ = env.notices.Feed(user.ID)
	if feed.Unread != before+1 {
		t.Fatalf("unread = %d, want %d", feed.Unread, before+1)
	}

	feed, err = env.notices.MarkRead(user.ID, notice.ID)
	if err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if feed.Unread != before {
		t.Fatalf("unread after MarkRead = %d, want %d", feed.Unread, before)
	}

	feed, err = env.notices.MarkRead(user.ID, notice.ID)
	if err != nil {
		t.Fatalf("second MarkRead: %v", err)
	}
	if feed.Unread != before {
		t.Fatalf("unread after second MarkRead = %d, want %d", feed.Unread, before)
	}

	if _, err := env.notices.MarkRead(admin.ID, notice.ID); !errors.Is(err, repository.ErrNoticeNotFound) {
		t.Fatalf("MarkRead by non-recipient err = %v, want ErrNoticeNotFound", err)
	}

	feed, _ = env.notices.Feed(user.ID)
	if feed.Unread != 0 {
		t.Fatalf("reloaded unread = %d, want 0", feed.Unread)
	}
}

func TestSiteConfigAndSocialLinks(t *testing.T) {
	env := setupTestEnv(t)
	_, admin := env.signUp(t, "admin@example.com", true)
	_, user := env.signUp(t, "ana@example.com", false)

	cfg, err := env.site.Config()
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	if cfg.SiteName != model.DefaultSiteName || cfg.ID != "" {
		t.Fatalf("default config = %+v", cfg)
	}

	if _, err := env.site.SaveConfig(user, SiteConfigInput{SiteName: "Mine"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-admin SaveConfig err = %v, want ErrForbidden", err)
	}

	saved, err := env.site.SaveConfig(admin, SiteConfigInput{SiteName: " ", Address: "1 Main St"})
	if err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	if saved.SiteName != model.DefaultSiteName || saved.MobileNo != nil {
		t.Fatalf("saved config = %+v", saved)
	}

	again, err := env.site.SaveConfig(admin, SiteConfigInput{SiteName: "NextStep", Email: "hello@example.com"})
	if err != nil {
		t.Fatalf("SaveConfig update: %v", err)
	}
	if again.ID != saved.ID {
		t.Fatalf("second save created a new row")
	}
	if again.Address != nil {
		t.Fatalf("blank address kept as %q", *again.Address)
	}

	if _, err := env.site.AddSocialLink(admin, "", "https://x.com/nextstep", ""); err == nil {
		t.Fatalf("blank platform accepted")
	}

	first, err := env.site.AddSocialLink(admin, "X", "https://x.com/nextstep", "twitter")
	if err != nil {
		t.Fatalf("AddSocialLink: %v", err)
	}
	second, err := env.site.AddSocialLink(admin, "LinkedIn", "https://linkedin.com/company/nextstep", "")
	if err != nil {
		t.Fatalf("AddSocialLink: %v", err)
	}
	if first.OrderIndex != 0 || second.OrderIndex != 1 || !second.IsActive {
		t.Fatalf("order = %d,%d active=%v", first.OrderIndex, second.OrderIndex, second.IsActive)
	}

	if err := env.site.DeleteSocialLink(admin, first.ID); err != nil {
		t.Fatalf("DeleteSocialLink: %v", err)
	}
	third, _ := env.site.AddSocialLink(admin, "Facebook", "https://facebook.com/nextstep", "")
	if third.OrderIndex != 2 {
		t.Fatalf("order after delete = %d, want 2 (gaps are kept)", third.OrderIndex)
	}

	toggled, err := env.site.ToggleSocialLink(admin, second.ID)
	if err != nil {
		t.Fatalf("ToggleSocialLink: %v", err)
	}
	if toggled.IsActive {
		t.Fatalf("link still active after toggle")
	}

	home, err := env.site.Home()
	if err != nil {
		t.Fatalf("Home: %v", err)
	}
	if len(home.SocialLinks) != 1 || home.SocialLinks[0].ID != third.ID {
		t.Fatalf("home social links = %+v", home.SocialLinks)
	}
	if home.Config.SiteName != "NextStep" {
		t.Fatalf("home site name = %q", home.Config.SiteName)
	}
}
