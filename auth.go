package homesite

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

const sessionName = "sid"

// CredentialVerifier decides whether a presented credential pair grants an
// authoring session. It is single-tenant today; a multi-user implementation
// slots in without touching any handler.
type CredentialVerifier interface {
	Verify(username, password string) bool
}

// StaticVerifier matches one configured pair exactly, in constant time.
type StaticVerifier struct {
	Username string
	Password string
}

func (v StaticVerifier) Verify(username, password string) bool {
	u := subtle.ConstantTimeCompare([]byte(username), []byte(v.Username))
	p := subtle.ConstantTimeCompare([]byte(password), []byte(v.Password))
	return u&p == 1
}

// BcryptVerifier matches a username exactly and the password against a
// bcrypt hash, for deployments that do not want the plaintext secret in the
// environment.
type BcryptVerifier struct {
	Username     string
	PasswordHash []byte
}

func (v BcryptVerifier) Verify(username, password string) bool {
	if subtle.ConstantTimeCompare([]byte(username), []byte(v.Username)) != 1 {
		return false
	}
	return bcrypt.CompareHashAndPassword(v.PasswordHash, []byte(password)) == nil
}

// handleLogin performs the HTTP Basic exchange: a valid pair issues the
// signed session cookie and redirects to the authoring form, anything else
// re-challenges with a 401 and no cookie. An existing session short-circuits
// straight to the form.
func (a *App) handleLogin(c echo.Context) error {
	if isAuthenticated(c) {
		return c.Redirect(http.StatusFound, "/blog/new")
	}
	if !a.loginLimiter.Allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	username, password, ok := c.Request().BasicAuth()
	if ok && a.verifier.Verify(username, password) {
		if err := setSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusFound, "/blog/new")
	}
	c.Response().Header().Set("WWW-Authenticate", `Basic realm="Auth is required"`)
	return c.String(http.StatusUnauthorized, "Authorization is required.")
}

func handleLogout(c echo.Context) error {
	if err := clearSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/")
}

// isAuthenticated checks the signed session cookie. Validity is purely
// signature-based; there is no server-side expiry on the session payload.
func isAuthenticated(c echo.Context) bool {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return false
	}
	auth, ok := sess.Values["authenticated"].(bool)
	return ok && auth
}

// setSession issues the session token: issue time plus the client
// user-agent, integrity-protected by the cookie store's HMAC.
func setSession(c echo.Context) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Values["authenticated"] = true
	sess.Values["issued_at"] = time.Now().Unix()
	sess.Values["user_agent"] = c.Request().UserAgent()
	return sess.Save(c.Request(), c.Response())
}

func clearSession(c echo.Context) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Options.MaxAge = -1
	return sess.Save(c.Request(), c.Response())
}

func (a *App) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	// MaxAge 0 keeps the cookie for the browser session and skips the
	// decode-time expiry check; token validity is signature-only.
	store.MaxAge(0)
	return store
}
