package service

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nextstepguidance/nextstep/internal/model"
	"github.com/nextstepguidance/nextstep/internal/repository"
)

func newTestAuth(env *testEnv) (*AuthService, repository.TokenRepository) {
	tokens := repository.NewTokenRepository(env.db)
	email := NewEmailService("", "noreply@example.com", "http://localhost:8090", "NextStep Guidance", true)
	return NewAuthService(env.users, tokens, email, "test-secret", false, time.Hour, 10*time.Minute), tokens
}

func TestMagicLinkCreatesIdentityWithoutProfile(t *testing.T) {
	env := setupTestEnv(t)
	auth, _ := newTestAuth(env)

	if err := auth.SendMagicLink("not-an-email"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("err = %v, want ErrInvalidEmail", err)
	}

	if err := auth.SendMagicLink("  Ana@Example.com "); err != nil {
		t.Fatalf("SendMagicLink: %v", err)
	}

	user, err := env.users.ByEmail("ana@example.com")
	if err != nil {
		t.Fatalf("user not created: %v", err)
	}

	var profiles int
	if err := env.db.Get(&profiles, `SELECT COUNT(*) FROM profiles WHERE user_id = $1`, user.ID); err != nil {
		t.Fatalf("count profiles: %v", err)
	}
	if profiles != 0 {
		t.Fatalf("sign-up created %d profiles, want 0 until the first dashboard visit", profiles)
	}
}

func TestVerifyMagicLinkOnce(t *testing.T) {
	env := setupTestEnv(t)
	auth, tokens := newTestAuth(env)
	user, _ := env.signUp(t, "ana@example.com", false)

	err := tokens.Create(&model.Token{
		UserID:    user.ID,
		Type:      model.TokenTypeMagicLink,
		Token:     "magic",
		ExpiresAt: time.Now().Add(time.Minute),
	})
	if err != nil {
		t.Fatalf("create token: %v", err)
	}

	got, err := auth.VerifyMagicLink("magic")
	if err != nil {
		t.Fatalf("VerifyMagicLink: %v", err)
	}
	if got.ID != user.ID || got.EmailVerifiedAt == nil {
		t.Fatalf("verified user = %+v", got)
	}

	if _, err := auth.VerifyMagicLink("magic"); !errors.Is(err, ErrInvalidMagicLink) {
		t.Fatalf("reuse err = %v, want ErrInvalidMagicLink", err)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	env := setupTestEnv(t)
	auth, _ := newTestAuth(env)
	user, _ := env.signUp(t, "ana@example.com", false)

	rec := httptest.NewRecorder()
	if err := auth.SignIn(rec, user); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	cookie := rec.Result().Cookies()[0]
	if cookie.Name != AuthCookieName || !cookie.HttpOnly {
		t.Fatalf("cookie = %+v", cookie)
	}

	got, err := auth.UserFromToken(cookie.Value)
	if err != nil {
		t.Fatalf("UserFromToken: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("user id = %q, want %q", got.ID, user.ID)
	}

	other := NewAuthService(env.users, nil, nil, "other-secret", false, time.Hour, time.Minute)
	if _, err := other.UserFromToken(cookie.Value); err == nil {
		t.Fatalf("token accepted with wrong secret")
	}
	if _, err := auth.UserFromToken(strings.Repeat("x", 20)); err == nil {
		t.Fatalf("garbage token accepted")
	}
}

func TestAuthenticateOAuthKeepsDisplayName(t *testing.T) {
	env := setupTestEnv(t)
	auth, _ := newTestAuth(env)

	user, err := auth.AuthenticateOAuth("ana@example.com", "Ana Lima", "google")
	if err != nil {
		t.Fatalf("AuthenticateOAuth: %v", err)
	}

	profile, err := env.profiles.Resolve(user)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if profile.FullName != "Ana Lima" {
		t.Fatalf("full name = %q, want display name", profile.FullName)
	}

	again, err := auth.AuthenticateOAuth("ana@example.com", "", "github")
	if err != nil {
		t.Fatalf("second AuthenticateOAuth: %v", err)
	}
	if again.ID != user.ID {
		t.Fatalf("second sign-in created a new identity")
	}
}
