package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	CookieName = "beerchek_session"
	issuer     = "webapp-svc"
)

var ErrInvalidToken = errors.New("invalid session token")

type claims struct {
	jwt.RegisteredClaims
}

// Manager hands out signed session cookies. The token subject is the id the
// session store is keyed by.
type Manager struct {
	Secret []byte
	TTL    time.Duration
	Secure bool
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration, secure bool) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{Secret: []byte(secret), TTL: ttl, Secure: secure, now: time.Now}
}

// Issue creates a new session id and its signed token.
func (m *Manager) Issue() (string, string, error) {
	id := uuid.NewString()
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.TTL)),
		},
	})
	signed, err := token.SignedString(m.Secret)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return id, signed, nil
}

// Parse returns the session id carried by tokenString.
func (m *Manager) Parse(tokenString string) (string, error) {
	c := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, c, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return m.Secret, nil
	}, jwt.WithLeeway(30*time.Second), jwt.WithIssuer(issuer), jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if _, err := uuid.Parse(c.Subject); err != nil {
		return "", ErrInvalidToken
	}
	return c.Subject, nil
}

// Ensure returns the session id from r's cookie, or starts a new session and
// sets its cookie on w.
func (m *Manager) Ensure(w http.ResponseWriter, r *http.Request) (string, error) {
	if cookie, err := r.Cookie(CookieName); err == nil {
		if id, err := m.Parse(cookie.Value); err == nil {
			return id, nil
		}
	}

	id, token, err := m.Issue()
	if err != nil {
		return "", err
	}
	http.SetCookie(w, m.cookie(token))
	return id, nil
}

// cookie is cross-site (SameSite=None) only when it can be Secure; browsers
// drop a SameSite=None cookie without Secure, so plain HTTP gets Lax.
func (m *Manager) cookie(token string) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if m.Secure {
		// the page is embedded in the host's webview on another origin
		sameSite = http.SameSiteNoneMode
	}
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: sameSite,
	}
}
