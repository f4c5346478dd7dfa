package manager

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/yourusername/quizzy-api/pkg/auth"
)

const (
	// SessionCookie is the cookie carrying the session token.
	SessionCookie = "access_token"

	// BearerPrefix prepends the token inside the cookie value so the same
	// value works when echoed back as an Authorization header.
	BearerPrefix = "Bearer "
)

// ErrNoSessionCookie is returned when the request carries no session cookie.
var ErrNoSessionCookie = errors.New("session cookie not found")

// SessionCookieManager binds session tokens to the HTTP cookie transport.
// Sessions are stateless; the cookie is the only thing issued on login and
// the only thing cleared on logout.
type SessionCookieManager struct {
	cookiePath     string
	cookieDomain   string
	cookieSecure   bool
	cookieHTTPOnly bool
	cookieSameSite http.SameSite
	cookieMaxAge   time.Duration
}

// NewSessionCookieManager creates a cookie manager with the default
// attributes. Secure is off until SetProductionMode enables it.
func NewSessionCookieManager() *SessionCookieManager {
	return &SessionCookieManager{
		cookiePath:     "/",
		cookieDomain:   "",
		cookieSecure:   false,
		cookieHTTPOnly: true,
		cookieSameSite: http.SameSiteLaxMode,
		cookieMaxAge:   auth.DefaultSessionTTL,
	}
}

// SetProductionMode toggles the Secure attribute. Development runs over
// plain HTTP, production must not.
func (m *SessionCookieManager) SetProductionMode(isProduction bool) {
	m.cookieSecure = isProduction
	log.Printf("[SessionCookieManager] Production mode set to: %v, Cookie Secure set to: %v", isProduction, m.cookieSecure)
}

// SetCookieMaxAge aligns the cookie lifetime with the token TTL.
func (m *SessionCookieManager) SetCookieMaxAge(maxAge time.Duration) {
	if maxAge > 0 {
		m.cookieMaxAge = maxAge
		log.Printf("[SessionCookieManager] Cookie max age set to: %v", maxAge)
	} else {
		log.Printf("[SessionCookieManager] Warning: Invalid cookie max age provided: %v. Using default: %v", maxAge, m.cookieMaxAge)
	}
}

// SetCookieAttributes allows overriding the cookie attributes.
func (m *SessionCookieManager) SetCookieAttributes(path, domain string, secure, httpOnly bool, sameSite http.SameSite) {
	m.cookiePath = path
	m.cookieDomain = domain
	m.cookieSecure = secure
	m.cookieHTTPOnly = httpOnly
	m.cookieSameSite = sameSite
	log.Printf("[SessionCookieManager] Cookie attributes set: Path=%s, Domain=%s, Secure=%v, HttpOnly=%v, SameSite=%v",
		path, domain, secure, httpOnly, sameSite)
}

// SetSessionCookie writes the session token into the HttpOnly cookie.
func (m *SessionCookieManager) SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    BearerPrefix + token,
		Path:     m.cookiePath,
		Domain:   m.cookieDomain,
		HttpOnly: m.cookieHTTPOnly,
		Secure:   m.cookieSecure,
		SameSite: m.cookieSameSite,
		MaxAge:   int(m.cookieMaxAge.Seconds()),
	})
}

// GetSessionToken extracts the bare token from the session cookie, accepting
// values both with and without the Bearer prefix.
func (m *SessionCookieManager) GetSessionToken(r *http.Request) (string, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrNoSessionCookie
		}
		return "", fmt.Errorf("failed to read session cookie: %w", err)
	}
	return strings.TrimPrefix(cookie.Value, BearerPrefix), nil
}

// ClearSessionCookie removes the session cookie. With stateless tokens this
// is the whole of logout; the token itself stays valid until expiry.
func (m *SessionCookieManager) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     m.cookiePath,
		Domain:   m.cookieDomain,
		HttpOnly: m.cookieHTTPOnly,
		Secure:   m.cookieSecure,
		SameSite: m.cookieSameSite,
		MaxAge:   -1,
	})
}
