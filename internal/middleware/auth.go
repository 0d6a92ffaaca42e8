package middleware

import (
	"log/slog"
	"net/http"

	"github.com/nextstepguidance/nextstep/internal/ctxkeys"
	"github.com/nextstepguidance/nextstep/internal/service"
)

// AuthMiddleware adds the signed-in identity to the context. Invalid or stale
// session cookies are cleared and the request continues as a guest.
func AuthMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(service.AuthCookieName)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := authService.UserFromToken(cookie.Value)
			if err != nil {
				authService.ClearJWTCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ResolveProfile looks up, or creates on first visit, the profile of the
// signed-in user. A failure leaves the profile out of the context; handlers
// then show an error instead of loading anything that depends on it.
func ResolveProfile(profileService *service.ProfileService) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			user := ctxkeys.User(r.Context())
			if user == nil {
				next(w, r)
				return
			}

			profile, err := profileService.Resolve(user)
			if err != nil {
				slog.Error("failed to resolve profile", "error", err, "user_id", user.ID)
				next(w, r)
				return
			}

			next(w, r.WithContext(ctxkeys.WithProfile(r.Context(), profile)))
		}
	}
}

// RequireAuth sends guests to the sign-in page.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.User(r.Context()) == nil {
			redirect(w, r, "/auth")
			return
		}
		next.ServeHTTP(w, r)
	}
}

// RequireGuest keeps signed-in users away from the sign-in page.
func RequireGuest(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.User(r.Context()) != nil {
			redirect(w, r, "/dashboard")
			return
		}
		next.ServeHTTP(w, r)
	}
}

// RequireAdmin lets only admin profiles through; everyone else gets the
// denied view rendered by deny.
func RequireAdmin(deny http.HandlerFunc) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if !ctxkeys.Profile(r.Context()).IsAdmin() {
				deny(w, r)
				return
			}
			next(w, r)
		}
	}
}

// redirect uses HX-Redirect for HTMX requests so the whole page navigates.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
