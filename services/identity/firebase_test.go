package identity

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeFirebase struct {
	tokens  map[string]*auth.Token
	revoked []string
}

func (f *fakeFirebase) VerifySessionCookieAndCheckRevoked(_ context.Context, cookie string) (*auth.Token, error) {
	if tok, ok := f.tokens[cookie]; ok {
		return tok, nil
	}
	return nil, errors.New("invalid session cookie")
}

func (f *fakeFirebase) SessionCookie(_ context.Context, idToken string, _ time.Duration) (string, error) {
	if idToken != "good-id-token" {
		return "", errors.New("bad id token")
	}
	return "session-value", nil
}

func (f *fakeFirebase) RevokeRefreshTokens(_ context.Context, uid string) error {
	f.revoked = append(f.revoked, uid)
	return nil
}

func TestFirebaseAuthenticateRewritesCookie(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	fb := &fakeFirebase{tokens: map[string]*auth.Token{
		"session-value": {UID: "fb-1", Expires: now.Add(time.Hour).Unix(), Claims: map[string]interface{}{"email": "a@example.com"}},
	}}
	p := NewFirebaseProvider(fb, true, zap.NewNop())
	p.now = func() time.Time { return now }

	session, cookies, err := p.Authenticate(context.Background(), requestWith([]*http.Cookie{{Name: FirebaseSessionCookie, Value: "session-value"}}))
	require.NoError(t, err)
	assert.Equal(t, "fb-1", session.UserID)
	assert.Equal(t, "a@example.com", session.Email)
	require.Len(t, cookies, 1)
	assert.Equal(t, 3600, cookies[0].MaxAge)
	assert.True(t, cookies[0].Secure)
}

func TestFirebaseAuthenticateInvalidCookie(t *testing.T) {
	p := NewFirebaseProvider(&fakeFirebase{}, false, zap.NewNop())
	_, cookies, err := p.Authenticate(context.Background(), requestWith([]*http.Cookie{{Name: FirebaseSessionCookie, Value: "forged"}}))
	assert.ErrorIs(t, err, ErrNoSession)
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestFirebaseLoginAndLogout(t *testing.T) {
	now := time.Now()
	fb := &fakeFirebase{tokens: map[string]*auth.Token{
		"session-value": {UID: "fb-1", Expires: now.Add(time.Hour).Unix(), Claims: map[string]interface{}{}},
	}}
	p := NewFirebaseProvider(fb, false, zap.NewNop())

	_, _, err := p.Login(context.Background(), Credentials{IDToken: "bad"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	session, cookies, err := p.Login(context.Background(), Credentials{IDToken: "good-id-token"})
	require.NoError(t, err)
	assert.Equal(t, "fb-1", session.UserID)
	require.Len(t, cookies, 1)
	assert.Equal(t, FirebaseSessionCookie, cookies[0].Name)

	cleared, err := p.Logout(context.Background(), requestWith(cookies))
	require.NoError(t, err)
	assert.Equal(t, -1, cleared[0].MaxAge)
	assert.Equal(t, []string{"fb-1"}, fb.revoked)
}
