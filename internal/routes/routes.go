package routes

import (
	"io/fs"
	"net/http"

	"github.com/nextstepguidance/nextstep/assets"
	"github.com/nextstepguidance/nextstep/internal/app"
	"github.com/nextstepguidance/nextstep/internal/handler"
	"github.com/nextstepguidance/nextstep/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	home := handler.NewHomeHandler(app.SiteService)
	seo := handler.NewSEOHandler(app.SitemapService, app.Cfg.AppURL)
	legal := handler.NewLegalHandler(app.LegalService)
	chat := handler.NewChatHandler(app.ChatService)
	auth := handler.NewAuthHandler(app.AuthService, app.Cfg)
	dashboard := handler.NewDashboardHandler(app.GoalService, app.IntakeService, app.NoticeService)
	goal := handler.NewGoalHandler(app.GoalService)
	admin := handler.NewAdminHandler(app.ProfileService, app.GoalService, app.IntakeService, app.NoticeService, app.SiteService)

	// Route middleware
	rateLimit := middleware.Limit(app.AuthLimiter)
	profile := middleware.ResolveProfile(app.ProfileService)
	client := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.ChainFunc(h, middleware.RequireAuth, profile)
	}
	adminOnly := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.ChainFunc(h, middleware.RequireAuth, profile, middleware.RequireAdmin(home.Forbidden))
	}

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	// Static files
	sub, _ := fs.Sub(assets.AssetsFS, ".")
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(sub))))

	// SEO
	mux.HandleFunc("GET /robots.txt", seo.Robots)
	mux.HandleFunc("GET /sitemap.xml", seo.Sitemap)

	// Marketing
	mux.HandleFunc("GET /{$}", profile(home.HomePage))
	mux.HandleFunc("GET /legal/{page}", profile(legal.ShowPage))

	// Chat widget
	mux.HandleFunc("POST /api/chatbot", chat.Complete)

	// ============================================================================
	// AUTH
	// ============================================================================

	mux.HandleFunc("GET /auth", middleware.RequireGuest(auth.AuthPage))
	mux.HandleFunc("POST /auth/magic-link", rateLimit(middleware.RequireGuest(auth.SendMagicLink)))
	mux.HandleFunc("GET /auth/magic-link/{token}", auth.VerifyMagicLink)
	for _, provider := range []string{"google", "github"} {
		mux.HandleFunc("GET /auth/"+provider, rateLimit(middleware.RequireGuest(auth.OAuthStart(provider))))
		mux.HandleFunc("GET /auth/"+provider+"/callback", rateLimit(auth.OAuthCallback(provider)))
	}
	mux.HandleFunc("POST /auth/logout", auth.Logout)

	// ============================================================================
	// CLIENT DASHBOARD
	// ============================================================================

	mux.HandleFunc("GET /dashboard", client(dashboard.DashboardPage))
	mux.HandleFunc("POST /dashboard/goals", client(goal.Create))
	mux.HandleFunc("POST /dashboard/steps/{id}/toggle", client(goal.ToggleStep))
	mux.HandleFunc("POST /dashboard/answers", client(dashboard.SubmitAnswers))
	mux.HandleFunc("POST /dashboard/notices/{id}/read", client(dashboard.MarkNoticeRead))

	// ============================================================================
	// ADMIN CONSOLE
	// ============================================================================

	mux.HandleFunc("GET /admin", adminOnly(admin.AdminPage))
	mux.HandleFunc("POST /admin/profiles/{id}/role", adminOnly(admin.ToggleRole))
	mux.HandleFunc("POST /admin/goals/{id}/steps", adminOnly(admin.AddStep))
	mux.HandleFunc("POST /admin/questions", adminOnly(admin.CreateQuestion))
	mux.HandleFunc("POST /admin/notices", adminOnly(admin.SendNotice))
	mux.HandleFunc("POST /admin/social", adminOnly(admin.AddSocialLink))
	mux.HandleFunc("POST /admin/social/{id}/toggle", adminOnly(admin.ToggleSocialLink))
	mux.HandleFunc("DELETE /admin/social/{id}", adminOnly(admin.DeleteSocialLink))
	mux.HandleFunc("POST /admin/config", adminOnly(admin.SaveConfig))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/{path...}", home.NotFoundPage)

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.Config(app.Cfg), // config and path first; later middleware read them
		middleware.NonceMiddleware, // before SecurityHeaders, which puts the nonce in the CSP
		middleware.SecurityHeaders,
		middleware.RequestLogging,
		middleware.CSRFProtection,
		middleware.AuthMiddleware(app.AuthService),
	)
}
