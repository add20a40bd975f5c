package server

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"reclaim/internal"
	"reclaim/pkg/types"
)

func (s *Service) handleGetLogin(w http.ResponseWriter, r *http.Request) {
	_, err := r.Cookie(internal.COOKIE_ACCESS_TOKEN_NAME)
	if err == nil {
		s.logger.Info("user is already logged in, redirecting to gallery")
		http.Redirect(w, r, "/gallery", http.StatusSeeOther)
		return
	}

	data := &LoginPageData{
		BasePageData: types.BasePageData{Title: "Sign In", Error: r.URL.Query().Get("error")},
	}
	if err := s.renderTemplate(w, r, "page.login", data); err != nil {
		s.logger.WithError(err).Error("failed to render login page")
		s.internalServerError(w)
	}
}

func (s *Service) handlePostLogin(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if !required(email) || !required(password) {
		s.redirectToLoginWithError(w, r, "email and password are required")
		return
	}

	session, err := s.provider.SignIn(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, types.ErrSignInCancelled) {
			s.redirectToLoginWithError(w, r, "Sign-in was cancelled. Please try again.")
			return
		}
		s.logger.WithError(err).Warn("sign-in rejected")
		s.redirectToLoginWithError(w, r, userFacingSignInError(err))
		return
	}

	encryptedToken, err := s.cookie.Encode(internal.COOKIE_ACCESS_TOKEN_NAME, session.AccessToken)
	if err != nil {
		s.logger.WithError(err).Error("failed to encrypt access token")
		s.redirectToLoginWithError(w, r, "Sign-in failed. Please try again.")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_ACCESS_TOKEN_NAME,
		Value:    encryptedToken,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(session.ExpiresIn),
		Path:     "/",
	})

	// Announce the session; subscribers mirror the profile into the
	// key-value store.
	profile := session.Profile
	s.sessions.Publish(&profile)

	s.logger.WithField("user_id", profile.ID).Info("user logged in")

	// Honor the pre-auth redirect if this login came from one.
	redirectCookie, err := r.Cookie(internal.COOKIE_REDIRECT_NAME)
	if err == nil {
		path := safeReturnPath(redirectCookie.Value)
		s.clearRedirectCookie(w)
		http.Redirect(w, r, path, http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/gallery", http.StatusSeeOther)
}

func (s *Service) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(internal.COOKIE_ACCESS_TOKEN_NAME); err == nil {
		var accessToken string
		if err := s.cookie.Decode(internal.COOKIE_ACCESS_TOKEN_NAME, cookie.Value, &accessToken); err == nil {
			if err := s.provider.SignOut(r.Context(), accessToken); err != nil {
				s.logger.WithError(err).Warn("provider sign-out failed")
			}
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_ACCESS_TOKEN_NAME,
		Value:    "",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})

	s.sessions.Publish(nil)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// userFacingSignInError strips the internal prefix from classified
// provider failures so the login page shows only the safe part.
func userFacingSignInError(err error) string {
	msg := err.Error()
	if _, after, ok := strings.Cut(msg, ": "); ok {
		return after
	}
	return "Sign-in failed. Please try again."
}

// safeReturnPath only accepts site-local paths from the redirect
// cookie. The cookie is client-controlled, so absolute URLs and
// protocol-relative "//host" values would be open redirects.
func safeReturnPath(path string) string {
	if strings.HasPrefix(path, "/") && !strings.HasPrefix(path, "//") {
		return path
	}
	return "/gallery"
}

func (s *Service) redirectToLoginWithError(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/login?error="+url.QueryEscape(msg), http.StatusSeeOther)
}

func (s *Service) setRedirectCookie(w http.ResponseWriter, path string, age time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_REDIRECT_NAME,
		Value:    path,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   int(age.Seconds()),
	})
}

func (s *Service) clearRedirectCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_REDIRECT_NAME,
		Value:    "",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}
