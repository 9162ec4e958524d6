package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/fetchops/ai-project-catalog/errs"
)

const (
	sessionName       = "admin_session"
	sessionAdminKey   = "admin"
	sessionSubjectKey = "subject"
	sessionMethodKey  = "method"
	sessionStateKey   = "oauth_state"
	adminSessionTTL   = 8 * time.Hour

	googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
)

type adminGateConfig struct {
	AdminKey           string
	SessionSecret      string
	TokenSecret        string
	GoogleClientID     string
	GoogleClientSecret string
	AdminEmailDomain   string
	BaseURL            string
	SecureCookies      bool
}

// adminGate decides who may change the catalog. Admin standing comes from a
// session cookie (shared key or Google sign-in) or from a bearer API token.
type adminGate struct {
	responder   Responder
	logger      zerolog.Logger
	store       *sessions.CookieStore
	adminKey    string
	tokenSecret []byte
	oauth       *oauth2.Config
	emailDomain string
	userInfoURL string
}

func newAdminGate(cfg adminGateConfig) *adminGate {
	logger := log.With().Str("handlerName", "adminGate").Logger()

	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(adminSessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}

	g := &adminGate{
		responder:   NewResponder(logger),
		logger:      logger,
		store:       store,
		adminKey:    cfg.AdminKey,
		tokenSecret: []byte(cfg.TokenSecret),
		emailDomain: strings.ToLower(strings.TrimPrefix(cfg.AdminEmailDomain, "@")),
		userInfoURL: googleUserInfoURL,
	}
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" && g.emailDomain != "" {
		g.oauth = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  strings.TrimSuffix(cfg.BaseURL, "/") + "/auth/google/callback",
			Scopes:       []string{"openid", "email"},
			Endpoint:     google.Endpoint,
		}
	}
	return g
}

func (g *adminGate) googleEnabled() bool {
	return g.oauth != nil
}

// loadAdmin attaches the caller's admin identity, if any, to the request context
func (g *adminGate) loadAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if admin, ok := g.identify(r); ok {
			r = r.WithContext(ctxWithAdmin(r.Context(), admin))
		}
		next.ServeHTTP(w, r)
	})
}

func (g *adminGate) identify(r *http.Request) (Admin, bool) {
	if token, ok := bearerToken(r); ok && token != "" && len(g.tokenSecret) > 0 {
		if subject, err := parseAdminToken(g.tokenSecret, token); err == nil {
			return Admin{Subject: subject, Method: "token"}, true
		}
	}

	session, err := g.store.Get(r, sessionName)
	if err != nil {
		return Admin{}, false
	}
	if isAdmin, _ := session.Values[sessionAdminKey].(bool); !isAdmin {
		return Admin{}, false
	}
	subject, _ := session.Values[sessionSubjectKey].(string)
	method, _ := session.Values[sessionMethodKey].(string)
	return Admin{Subject: subject, Method: method}, true
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")), true
}

// requirePageAdmin sends visitors without admin standing to the sign-in page
func (g *adminGate) requirePageAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ctxGetAdmin(r.Context()); !ok {
			http.Redirect(w, r, "/admin?err=signin", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAPIAdmin answers 401 for callers without admin standing
func (g *adminGate) requireAPIAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ctxGetAdmin(r.Context()); ok {
			next.ServeHTTP(w, r)
			return
		}
		if token, ok := bearerToken(r); ok {
			if token == "" {
				g.responder.WriteError(w, errs.NewInvalidTokenError(errs.ErrMissingToken))
				return
			}
			_, err := parseAdminToken(g.tokenSecret, token)
			g.responder.WriteError(w, errs.NewInvalidTokenError(err))
			return
		}
		g.responder.WriteError(w, errs.NewNotAdminError())
	})
}

func (g *adminGate) startSession(w http.ResponseWriter, r *http.Request, subject, method string) error {
	session, _ := g.store.Get(r, sessionName)
	session.Values[sessionAdminKey] = true
	session.Values[sessionSubjectKey] = subject
	session.Values[sessionMethodKey] = method
	delete(session.Values, sessionStateKey)
	return session.Save(r, w)
}

// login exchanges the shared admin key for an 8 hour session
func (g *adminGate) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/admin?err=1", http.StatusSeeOther)
			return
		}

		key := r.PostForm.Get("key")
		if g.adminKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(g.adminKey)) != 1 {
			recordAdminLogin("key", false)
			g.logger.Warn().Str("remoteAddr", r.RemoteAddr).Msg("admin login rejected")
			http.Redirect(w, r, "/admin?err=1", http.StatusSeeOther)
			return
		}

		if err := g.startSession(w, r, "shared-key", "session"); err != nil {
			g.logger.Error().Err(err).Msg("failed to save admin session")
			http.Redirect(w, r, "/admin?err=1", http.StatusSeeOther)
			return
		}
		recordAdminLogin("key", true)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (g *adminGate) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := g.store.Get(r, sessionName)
		session.Values = map[interface{}]interface{}{}
		session.Options.MaxAge = -1
		if err := session.Save(r, w); err != nil {
			g.logger.Error().Err(err).Msg("failed to clear admin session")
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// googleBegin redirects to Google's consent screen
func (g *adminGate) googleBegin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !g.googleEnabled() {
			http.NotFound(w, r)
			return
		}

		state := uuid.NewString()
		session, _ := g.store.Get(r, sessionName)
		session.Values[sessionStateKey] = state
		if err := session.Save(r, w); err != nil {
			g.logger.Error().Err(err).Msg("failed to save oauth state")
			http.Redirect(w, r, "/admin?err=google", http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, g.oauth.AuthCodeURL(state), http.StatusSeeOther)
	}
}

type googleUser struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// googleCallback completes sign-in; only verified emails in the admin domain become admins
func (g *adminGate) googleCallback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !g.googleEnabled() {
			http.NotFound(w, r)
			return
		}

		session, _ := g.store.Get(r, sessionName)
		expected, _ := session.Values[sessionStateKey].(string)
		if expected == "" || r.URL.Query().Get("state") != expected {
			g.logger.Warn().Msg("oauth state mismatch")
			http.Redirect(w, r, "/admin?err=google", http.StatusSeeOther)
			return
		}

		user, err := g.fetchGoogleUser(r.Context(), r.URL.Query().Get("code"))
		if err != nil {
			g.logger.Error().Err(err).Msg("google sign-in failed")
			recordAdminLogin("google", false)
			http.Redirect(w, r, "/admin?err=google", http.StatusSeeOther)
			return
		}
		if !user.EmailVerified || !g.emailAllowed(user.Email) {
			g.logger.Warn().Err(errs.NewDomainDeniedError(user.Email)).Msg("google sign-in denied")
			recordAdminLogin("google", false)
			http.Redirect(w, r, "/admin?err=domain", http.StatusSeeOther)
			return
		}

		if err := g.startSession(w, r, user.Email, "google"); err != nil {
			g.logger.Error().Err(err).Msg("failed to save admin session")
			http.Redirect(w, r, "/admin?err=google", http.StatusSeeOther)
			return
		}
		recordAdminLogin("google", true)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (g *adminGate) fetchGoogleUser(ctx context.Context, code string) (googleUser, error) {
	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return googleUser{}, fmt.Errorf("exchange code: %w", err)
	}

	resp, err := g.oauth.Client(ctx, token).Get(g.userInfoURL)
	if err != nil {
		return googleUser{}, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return googleUser{}, errs.NewUpstreamError("google", resp.StatusCode, nil)
	}

	var user googleUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return googleUser{}, fmt.Errorf("decode userinfo: %w", err)
	}
	return user, nil
}

func (g *adminGate) emailAllowed(email string) bool {
	if g.emailDomain == "" {
		return false
	}
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(email)), "@"+g.emailDomain)
}
