package identity

import (
	"context"
	"fmt"
	"net/http"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const (
	FirebaseSessionCookie = "__session"

	firebaseSessionTTL = 5 * 24 * time.Hour
)

// firebaseAuth is the part of *auth.Client the provider uses.
type firebaseAuth interface {
	VerifySessionCookieAndCheckRevoked(ctx context.Context, sessionCookie string) (*auth.Token, error)
	SessionCookie(ctx context.Context, idToken string, expiresIn time.Duration) (string, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// FirebaseProvider delegates sessions to Firebase Authentication session
// cookies. The cookie is re-written on every authenticated request so the
// browser keeps it for the rest of its server-side lifetime.
type FirebaseProvider struct {
	auth   firebaseAuth
	jar    cookieJar
	logger *zap.Logger
	now    func() time.Time
}

// NewFirebaseAuthClient initialises the Firebase app from a service-account file.
func NewFirebaseAuthClient(ctx context.Context, credentialsFile string) (*auth.Client, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("firebase: error initializing app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting Auth client: %w", err)
	}
	return client, nil
}

func NewFirebaseProvider(client firebaseAuth, secureCookies bool, logger *zap.Logger) *FirebaseProvider {
	return &FirebaseProvider{
		auth:   client,
		jar:    cookieJar{secure: secureCookies},
		logger: logger,
		now:    time.Now,
	}
}

func (p *FirebaseProvider) Authenticate(ctx context.Context, r *http.Request) (*Session, []*http.Cookie, error) {
	value := cookieValue(r, FirebaseSessionCookie)
	if value == "" {
		return nil, nil, ErrNoSession
	}

	token, err := p.auth.VerifySessionCookieAndCheckRevoked(ctx, value)
	if err != nil {
		p.logger.Debug("Rejected firebase session cookie", zap.Error(err))
		return nil, []*http.Cookie{p.jar.clear(FirebaseSessionCookie)}, ErrNoSession
	}

	session := &Session{UserID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		session.Email = email
	}

	remaining := time.Unix(token.Expires, 0).Sub(p.now())
	if remaining <= 0 {
		return nil, []*http.Cookie{p.jar.clear(FirebaseSessionCookie)}, ErrNoSession
	}
	return session, []*http.Cookie{p.jar.set(FirebaseSessionCookie, value, remaining)}, nil
}

// Login exchanges a client-side Firebase ID token for a session cookie.
func (p *FirebaseProvider) Login(ctx context.Context, creds Credentials) (*Session, []*http.Cookie, error) {
	if creds.IDToken == "" {
		return nil, nil, ErrInvalidCredentials
	}
	value, err := p.auth.SessionCookie(ctx, creds.IDToken, firebaseSessionTTL)
	if err != nil {
		p.logger.Warn("Firebase session cookie exchange failed", zap.Error(err))
		return nil, nil, ErrInvalidCredentials
	}
	token, err := p.auth.VerifySessionCookieAndCheckRevoked(ctx, value)
	if err != nil {
		return nil, nil, fmt.Errorf("firebase: verify new session cookie: %w", err)
	}

	session := &Session{UserID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		session.Email = email
	}
	return session, []*http.Cookie{p.jar.set(FirebaseSessionCookie, value, firebaseSessionTTL)}, nil
}

func (p *FirebaseProvider) Logout(ctx context.Context, r *http.Request) ([]*http.Cookie, error) {
	cleared := []*http.Cookie{p.jar.clear(FirebaseSessionCookie)}
	value := cookieValue(r, FirebaseSessionCookie)
	if value == "" {
		return cleared, nil
	}
	token, err := p.auth.VerifySessionCookieAndCheckRevoked(ctx, value)
	if err != nil {
		return cleared, nil
	}
	if err := p.auth.RevokeRefreshTokens(ctx, token.UID); err != nil {
		return cleared, fmt.Errorf("firebase: revoke tokens: %w", err)
	}
	return cleared, nil
}

var (
	_ Provider  = (*FirebaseProvider)(nil)
	_ Provider  = (*LocalProvider)(nil)
	_ Registrar = (*LocalProvider)(nil)
)
