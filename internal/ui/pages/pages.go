package pages

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"
	"github.com/nextstepguidance/nextstep/internal/ctxkeys"
	"github.com/nextstepguidance/nextstep/internal/markdown"
	"github.com/nextstepguidance/nextstep/internal/model"
)

//go:embed templates
var templateFS embed.FS

var pageNames = []string{"home", "auth", "dashboard", "admin", "legal", "status"}

var (
	base  *template.Template
	pages = map[string]*template.Template{}
)

func init() {
	base = template.Must(template.New("base").Funcs(funcs(markdown.NewParser())).ParseFS(templateFS,
		"templates/layout.html",
		"templates/partials/*.html",
	))

	for _, name := range pageNames {
		t := template.Must(base.Clone())
		pages[name] = template.Must(t.ParseFS(templateFS, "templates/"+name+".html"))
	}
}

func funcs(md *markdown.Parser) template.FuncMap {
	return template.FuncMap{
		"cn": func(classes ...string) string { return twmerge.Merge(classes...) },
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			m := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				m[key] = values[i+1]
			}
			return m
		},
		"percent": func(v float64) string { return fmt.Sprintf("%.0f", v) },
		"date":    formatDate,
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"markdown": md.HTML,
		"year":     func() int { return time.Now().Year() },
		"add":      func(a, b int) int { return a + b },
		"dashboardTabs": func() []string { return DashboardTabs },
		"adminTabs":     func() []string { return AdminTabs },
		"selectedGoalID": func(p *model.GoalProgress) string {
			if p == nil || p.Goal == nil {
				return ""
			}
			return p.Goal.ID
		},
		"userRow": func(p *model.Profile, counts map[string]int, answers map[string][]*model.AnsweredQuestion) UserRow {
			return UserRow{Profile: p, GoalCount: counts[p.ID], Answers: answers[p.ID]}
		},
		"statusClass": func(s model.StepStatus) string {
			switch s {
			case model.StepDone:
				return "border-green-200 bg-green-50 text-green-800"
			case model.StepInProgress:
				return "border-amber-200 bg-amber-50 text-amber-800"
			default:
				return "border-gray-200 bg-gray-50 text-gray-700"
			}
		},
		"stars": func(rating *int) []struct{} {
			if rating == nil || *rating <= 0 {
				return nil
			}
			return make([]struct{}, min(*rating, 5))
		},
	}
}

func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format("Jan 2, 2006")
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format("Jan 2, 2006")
	default:
		return ""
	}
}

// Chrome is what every page reads from the request context.
type Chrome struct {
	User            *model.User
	Profile         *model.Profile
	CSRF            string
	Nonce           string
	Path            string
	AppName         string
	SupportEmail    string
	PlausibleDomain string
	PlausibleHost   string
}

type view struct {
	Chrome Chrome
	Title  string
	Data   any
}

func chrome(ctx context.Context) Chrome {
	c := Chrome{
		User:    ctxkeys.User(ctx),
		Profile: ctxkeys.Profile(ctx),
		CSRF:    ctxkeys.CSRFToken(ctx),
		Nonce:   templ.GetNonce(ctx),
		Path:    ctxkeys.URLPath(ctx),
		AppName: model.DefaultSiteName,
	}
	if cfg := ctxkeys.Config(ctx); cfg != nil {
		c.AppName = cfg.AppName
		c.SupportEmail = cfg.SupportEmail
		c.PlausibleDomain = cfg.PlausibleDomain
		c.PlausibleHost = cfg.PlausibleHost
	}
	return c
}

func page(name, title string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return pages[name].ExecuteTemplate(w, "layout", view{Chrome: chrome(ctx), Title: title, Data: data})
	})
}

// fragment renders one partial for an HTMX swap.
func fragment(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return base.ExecuteTemplate(w, name, view{Chrome: chrome(ctx), Data: data})
	})
}
