package handler

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nextstepguidance/nextstep/internal/config"
	"github.com/nextstepguidance/nextstep/internal/ctxkeys"
	"github.com/nextstepguidance/nextstep/internal/model"
	"github.com/nextstepguidance/nextstep/internal/service"
	"github.com/nextstepguidance/nextstep/internal/ui"
	"github.com/nextstepguidance/nextstep/internal/ui/pages"
	"github.com/nextstepguidance/nextstep/internal/validation"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

const oauthStateCookie = "oauth_state"

var errNoOAuthEmail = errors.New("provider returned no email")

// oauthIdentity is what a provider tells us about the person signing in.
type oauthIdentity struct {
	Email string
	Name  string
}

type oauthProvider struct {
	name     string
	config   *oauth2.Config
	identify func(ctx context.Context, client *http.Client) (oauthIdentity, error)
}

type AuthHandler struct {
	authService *service.AuthService
	providers   map[string]*oauthProvider
	google      bool
	github      bool
}

func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *AuthHandler {
	googleEnabled, githubEnabled := cfg.OAuthEnabled()

	return &AuthHandler{
		authService: authService,
		google:      googleEnabled,
		github:      githubEnabled,
		providers: map[string]*oauthProvider{
			"google": {
				name: "google",
				config: &oauth2.Config{
					ClientID:     cfg.GoogleClientID,
					ClientSecret: cfg.GoogleClientSecret,
					RedirectURL:  cfg.AppURL + "/auth/google/callback",
					Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
					Endpoint:     google.Endpoint,
				},
				identify: googleIdentity,
			},
			"github": {
				name: "github",
				config: &oauth2.Config{
					ClientID:     cfg.GitHubClientID,
					ClientSecret: cfg.GitHubClientSecret,
					RedirectURL:  cfg.AppURL + "/auth/github/callback",
					Scopes:       []string{"read:user", "user:email"},
					Endpoint:     github.Endpoint,
				},
				identify: githubIdentity,
			},
		},
	}
}

func (h *AuthHandler) authData(errMsg string) pages.AuthData {
	return pages.AuthData{
		GoogleEnabled: h.google,
		GitHubEnabled: h.github,
		Error:         errMsg,
	}
}

func (h *AuthHandler) AuthPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.Auth(h.authData("")))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) SendMagicLink(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))

	if email == "" {
		ui.Render(w, r, pages.Auth(h.authData("Email is required")))
		return
	}

	err := validation.ValidateEmail(email)
	if err != nil {
		data := h.authData("Please provide a valid email address")
		data.Email = email
		ui.Render(w, r, pages.Auth(data))
		return
	}

	err = h.authService.SendMagicLink(email)
	if err != nil {
		// the response never reveals whether the address exists
		slog.Warn("magic link send failed", "error", err, "email", email)
	}

	data := h.authData("")
	data.Sent = true
	data.Email = email
	ui.Render(w, r, pages.Auth(data))
}

func (h *AuthHandler) VerifyMagicLink(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	user, err := h.authService.VerifyMagicLink(token)
	if err != nil {
		slog.Warn("magic link verification failed", "error", err)
		ui.Render(w, r, pages.Auth(h.authData("Invalid or expired magic link. Please try again.")))
		return
	}

	h.signIn(w, r, user, "magic_link")
}

func (h *AuthHandler) signIn(w http.ResponseWriter, r *http.Request, user *model.User, method string) {
	err := h.authService.SignIn(w, user)
	if err != nil {
		slog.Error("failed to sign in", "error", err, "user_id", user.ID)
		ui.Render(w, r, pages.Auth(h.authData("An error occurred. Please try again.")))
		return
	}

	slog.Info("user logged in", "user_id", user.ID, "method", method)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// OAuthStart redirects to the named provider's consent screen.
func (h *AuthHandler) OAuthStart(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		provider, ok := h.provider(name)
		if !ok {
			ui.Render(w, r, pages.Auth(h.authData("That sign-in method is not available.")))
			return
		}
		h.startOAuth(w, r, provider)
	}
}

func (h *AuthHandler) startOAuth(w http.ResponseWriter, r *http.Request, provider *oauthProvider) {

	state := generateOAuthState()

	cfg := ctxkeys.Config(r.Context())
	isProduction := cfg != nil && cfg.IsProduction()

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600,
	})

	http.Redirect(w, r, provider.config.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

func (h *AuthHandler) OAuthCallback(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		provider, ok := h.provider(name)
		if !ok {
			ui.Render(w, r, pages.Auth(h.authData("That sign-in method is not available.")))
			return
		}
		h.finishOAuth(w, r, provider)
	}
}

func (h *AuthHandler) finishOAuth(w http.ResponseWriter, r *http.Request, provider *oauthProvider) {

	failed := func(msg string, args ...any) {
		slog.Warn(msg, append(args, "provider", provider.name)...)
		ui.Render(w, r, pages.Auth(h.authData("OAuth authentication failed. Please try again.")))
	}

	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || state == "" || cookie.Value != state {
		failed("oauth state validation failed", "error", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:   oauthStateCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		failed("oauth callback missing code")
		return
	}

	token, err := provider.config.Exchange(r.Context(), code)
	if err != nil {
		failed("oauth token exchange failed", "error", err)
		return
	}

	identity, err := provider.identify(r.Context(), provider.config.Client(r.Context(), token))
	if err != nil {
		failed("failed to read oauth identity", "error", err)
		return
	}

	user, err := h.authService.AuthenticateOAuth(identity.Email, identity.Name, provider.name)
	if err != nil {
		slog.Error("oauth authentication failed", "error", err, "provider", provider.name)
		ui.Render(w, r, pages.Auth(h.authData("Authentication failed. Please try again.")))
		return
	}

	h.signIn(w, r, user, provider.name)
}

func (h *AuthHandler) provider(name string) (*oauthProvider, bool) {
	switch {
	case name == "google" && h.google, name == "github" && h.github:
		return h.providers[name], true
	default:
		return nil, false
	}
}

func googleIdentity(ctx context.Context, client *http.Client) (oauthIdentity, error) {
	var info struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	err := getJSON(ctx, client, "https://www.googleapis.com/oauth2/v2/userinfo", &info)
	if err != nil {
		return oauthIdentity{}, err
	}
	if info.Email == "" {
		return oauthIdentity{}, errNoOAuthEmail
	}
	return oauthIdentity{Email: info.Email, Name: info.Name}, nil
}

// githubIdentity falls back to /user/emails when the profile email is private.
func githubIdentity(ctx context.Context, client *http.Client) (oauthIdentity, error) {
	var info struct {
		Email string `json:"email"`
		Name  string `json:"name"`
		Login string `json:"login"`
	}
	err := getJSON(ctx, client, "https://api.github.com/user", &info)
	if err != nil {
		return oauthIdentity{}, err
	}

	name := info.Name
	if name == "" {
		name = info.Login
	}

	if info.Email == "" {
		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		err = getJSON(ctx, client, "https://api.github.com/user/emails", &emails)
		if err != nil {
			return oauthIdentity{}, err
		}
		for _, e := range emails {
			if e.Primary && e.Verified {
				info.Email = e.Email
				break
			}
		}
	}

	if info.Email == "" {
		return oauthIdentity{}, errNoOAuthEmail
	}
	return oauthIdentity{Email: info.Email, Name: name}, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

func generateOAuthState() string {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		panic("failed to generate oauth state: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(bytes)
}
