package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/nextstepguidance/nextstep/internal/config"
	"github.com/nextstepguidance/nextstep/internal/db"
	"github.com/nextstepguidance/nextstep/internal/middleware"
	"github.com/nextstepguidance/nextstep/internal/repository"
	"github.com/nextstepguidance/nextstep/internal/service"
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	AuthService    *service.AuthService
	ProfileService *service.ProfileService
	EmailService   *service.EmailService
	GoalService    *service.GoalService
	IntakeService  *service.IntakeService
	NoticeService  *service.NoticeService
	SiteService    *service.SiteService
	ChatService    *service.ChatService
	LegalService   *service.LegalService
	SitemapService *service.SitemapService
	AuthLimiter    *middleware.RateLimiter

	stop chan struct{}
}

// New opens and migrates the database and wires every service.
func New(cfg *config.Config) (*App, error) {
	database, err := db.Open(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return NewWithDB(cfg, database)
}

// NewWithDB wires the services around an already migrated database.
func NewWithDB(cfg *config.Config, database *sqlx.DB) (*App, error) {
	// Repositories
	userRepository := repository.NewUserRepository(database)
	tokenRepository := repository.NewTokenRepository(database)
	profileRepository := repository.NewProfileRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	stepRepository := repository.NewStepRepository(database)
	questionRepository := repository.NewQuestionRepository(database)
	answerRepository := repository.NewAnswerRepository(database)
	noticeRepository := repository.NewNoticeRepository(database)
	socialLinkRepository := repository.NewSocialLinkRepository(database)
	siteRepository := repository.NewSiteRepository(database)

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(
		userRepository,
		tokenRepository,
		emailService,
		cfg.JWTSecret,
		cfg.IsProduction(),
		cfg.JWTExpiry,
		cfg.TokenMagicLinkExpiry,
	)
	legalService := service.NewLegalService(cfg.ContentPath, cfg.IsDevelopment())
	err := legalService.LoadPages()
	if err != nil {
		return nil, fmt.Errorf("failed to load legal pages: %w", err)
	}

	a := &App{
		Cfg:            cfg,
		DB:             database,
		AuthService:    authService,
		ProfileService: service.NewProfileService(profileRepository, userRepository),
		EmailService:   emailService,
		GoalService:    service.NewGoalService(goalRepository, stepRepository),
		IntakeService:  service.NewIntakeService(questionRepository, answerRepository),
		NoticeService:  service.NewNoticeService(noticeRepository, profileRepository, userRepository, emailService),
		SiteService:    service.NewSiteService(siteRepository, socialLinkRepository),
		ChatService: service.NewChatService(service.ChatConfig{
			BaseURL:    cfg.AIBaseURL,
			APIKey:     cfg.GatewayAnonKey,
			Model:      cfg.AIModel,
			HTTPClient: &http.Client{Timeout: 60 * time.Second},
		}),
		LegalService:   legalService,
		SitemapService: service.NewSitemapService(legalService, cfg.AppURL),
		AuthLimiter:    middleware.NewAuthLimiter(),
		stop:           make(chan struct{}),
	}

	go a.AuthLimiter.Run(time.Minute, a.stop)

	return a, nil
}

func (a *App) Close() error {
	close(a.stop)
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
