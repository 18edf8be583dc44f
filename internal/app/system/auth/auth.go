// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/chapelstack/chapelhub/internal/app/system/authz"
	"github.com/chapelstack/chapelhub/internal/domain/models"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session constants                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	isAuthKey   = "is_authenticated"
	sidKey      = "sid"
	usernameKey = "username"
	roleKey     = "role"
	fullNameKey = "full_name"
	phoneKey    = "phone_number"
	emailKey    = "email"
	genderKey   = "gender"
	tokenKey    = "api_token"
)

// SessionUser is what we restore from the cookie session and inject
// into r.Context(): the Identity plus the opaque bearer Credential for
// upstream API calls, plus the server-side UI-state key.
type SessionUser struct {
	SID      string
	Identity models.Identity
	Token    string
}

// Role returns the parsed role of the session user.
func (u *SessionUser) Role() authz.Role {
	r, _ := authz.ParseRole(u.Identity.Role)
	return r
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the restored session user and a found flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// WithTestUser injects a session user directly into the request
// context, bypassing the cookie store. Test helper only.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

/*─────────────────────────────────────────────────────────────────────────────*
| SessionManager                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionManager owns the cookie session: it persists the Identity and
// bearer Credential across reloads, restores them on every request, and
// clears both halves together on sign-out.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewSessionManager builds a cookie-backed session manager. The key
// signs (and encrypts) the cookie; domain may be blank for current-host
// cookies; secure should be true in production.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// GetSession fetches (or lazily creates) the request's session.
func (sm *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	return sm.store.Get(r, sm.name)
}

// Store exposes the underlying cookie store (logout needs its options
// to build a matching deletion cookie).
func (sm *SessionManager) Store() *sessions.CookieStore {
	return sm.store
}

// SignIn persists the Identity and Credential and marks the session
// logged-in. It assigns a fresh server-side state key (sid) so UI state
// from a previous sign-in can never bleed into the new session.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, id models.Identity, token string) (string, error) {
	sess, err := sm.GetSession(r)
	if err != nil {
		// A corrupt cookie decodes to a fresh session; log and continue.
		sm.log.Warn("session decode failed during sign-in", zap.Error(err))
	}

	sid := uuid.NewString()
	sess.Values[isAuthKey] = true
	sess.Values[sidKey] = sid
	sess.Values[usernameKey] = id.Username
	sess.Values[roleKey] = id.Role
	sess.Values[fullNameKey] = id.FullName
	sess.Values[phoneKey] = id.PhoneNumber
	sess.Values[emailKey] = id.Email
	sess.Values[genderKey] = id.Gender
	sess.Values[tokenKey] = token

	if err := sess.Save(r, w); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return sid, nil
}

// SignOut deletes the session cookie (both persisted halves go
// together). Pure local operation; the upstream API is never called.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, err := sm.GetSession(r)
	if err != nil {
		sm.log.Warn("session decode failed during sign-out", zap.Error(err))
	}

	// Ensure the deletion-cookie matches the original store settings.
	if opts := sm.store.Options; opts != nil {
		sess.Options.Domain = opts.Domain
		sess.Options.Path = opts.Path
		sess.Options.Secure = opts.Secure
		sess.Options.HttpOnly = opts.HttpOnly
		sess.Options.SameSite = opts.SameSite
	}
	sess.Options.MaxAge = -1

	return sess.Save(r, w)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// LoadSessionUser restores the session user into the request context if
// both the Identity and Credential are present. Restoration is
// idempotent: the same persisted values always yield the same user.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := sm.store.Get(r, sm.name)

		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			token := getString(sess, tokenKey)
			username := getString(sess, usernameKey)
			// Both halves must be present; otherwise stay logged out.
			if token != "" && username != "" {
				u := &SessionUser{
					SID: getString(sess, sidKey),
					Identity: models.Identity{
						Username:    username,
						Role:        getString(sess, roleKey),
						FullName:    getString(sess, fullNameKey),
						PhoneNumber: getString(sess, phoneKey),
						Email:       getString(sess, emailKey),
						Gender:      getString(sess, genderKey),
					},
					Token: token,
				}
				r = withUser(r, u)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn ensures a user is in context. Browsers get a 303 to
// /login; non-HTML callers get a plain 401.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		if wantsHTML(r) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})
}

// RequireTab gates a route by the capability table: only roles whose
// navigation includes the tab may pass. Signed-out users get 401
// semantics, signed-in users with the wrong role get 403 semantics.
func (sm *SessionManager) RequireTab(tab authz.Tab) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				if wantsHTML(r) {
					http.Redirect(w, r, "/login", http.StatusSeeOther)
					return
				}
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if !authz.CanView(u.Role(), tab) {
				if wantsHTML(r) {
					http.Redirect(w, r, "/forbidden", http.StatusSeeOther)
					return
				}
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// helpers

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}

func wantsHTML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	if accept == "" {
		return true
	}
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "*/*")
}
