package identity

import (
	"context"
	"errors"
	"net/http"
	"time"
)

var (
	// ErrNoSession means the request carries no valid session.
	ErrNoSession           = errors.New("no authenticated session")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRegistration = errors.New("invalid registration")
)

// Session is the authenticated user behind a request.
type Session struct {
	UserID string
	Email  string
}

// Credentials are what a login form submits. The local provider uses
// Email/Password, the firebase provider uses IDToken.
type Credentials struct {
	Email    string
	Password string
	IDToken  string
}

// Provider resolves and manages sessions. Every method returns the cookies
// that must be written to the response, even on ErrNoSession (to clear
// stale cookies).
type Provider interface {
	Authenticate(ctx context.Context, r *http.Request) (*Session, []*http.Cookie, error)
	Login(ctx context.Context, creds Credentials) (*Session, []*http.Cookie, error)
	Logout(ctx context.Context, r *http.Request) ([]*http.Cookie, error)
}

// Registrar is implemented by providers that own their user accounts.
type Registrar interface {
	Register(ctx context.Context, fullName string, creds Credentials) (*Session, []*http.Cookie, error)
}

// cookieJar builds session cookies with consistent attributes.
type cookieJar struct {
	secure bool
}

func (j cookieJar) set(name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   j.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (j cookieJar) clear(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   j.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
