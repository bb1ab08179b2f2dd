package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	profileRepo "mindnest/database/repository/profile"
	"mindnest/models"
	"mindnest/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryRefreshStore struct {
	mu      sync.Mutex
	recs    map[string]RefreshRecord
	rotated map[string]RefreshRecord
}

func newMemoryRefreshStore() *memoryRefreshStore {
	return &memoryRefreshStore{recs: map[string]RefreshRecord{}, rotated: map[string]RefreshRecord{}}
}

// expireRotated drops parked tokens, as the grace TTL does in redis.
func (s *memoryRefreshStore) expireRotated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rotated = map[string]RefreshRecord{}
}

func (s *memoryRefreshStore) Save(_ context.Context, token string, rec RefreshRecord, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[token] = rec
	return nil
}

func (s *memoryRefreshStore) Take(_ context.Context, token string, _ time.Duration) (*RefreshRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.recs[token]; ok {
		delete(s.recs, token)
		s.rotated[token] = rec
		return &rec, nil
	}
	if rec, ok := s.rotated[token]; ok {
		rec.Rotated = true
		return &rec, nil
	}
	return nil, ErrNoSession
}

func (s *memoryRefreshStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.recs, token)
	delete(s.rotated, token)
	return nil
}

type stubProfiles struct {
	profiles map[string]*models.Profile
}

func (s *stubProfiles) GetByID(_ context.Context, id string) (*models.Profile, error) {
	for _, p := range s.profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, profileRepo.ErrNotFound
}

func (s *stubProfiles) GetByEmail(_ context.Context, email string) (*models.Profile, error) {
	if p, ok := s.profiles[email]; ok {
		return p, nil
	}
	return nil, profileRepo.ErrNotFound
}

func (s *stubProfiles) GetRole(ctx context.Context, id string) (models.Role, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return models.RoleNone, err
	}
	return models.ParseRole(p.Role), nil
}

func (s *stubProfiles) GetAll(context.Context) ([]models.Profile, error) { return nil, nil }

func (s *stubProfiles) Create(_ context.Context, p *models.Profile) error {
	if _, ok := s.profiles[p.Email]; ok {
		return profileRepo.ErrEmailInUse
	}
	s.profiles[p.Email] = p
	return nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newLocal(t *testing.T) (*LocalProvider, *memoryRefreshStore, *clock) {
	t.Helper()
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	clk := &clock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	store := newMemoryRefreshStore()
	profiles := &stubProfiles{profiles: map[string]*models.Profile{
		"asha@example.com": {ID: "user-1", Email: "asha@example.com", Role: "patient", PasswordHash: hash},
	}}
	signer := utils.NewTokenSigner("test-secret").WithClock(clk.now)
	p := NewLocalProvider(signer, store, profiles, false, zap.NewNop())
	p.now = clk.now
	return p, store, clk
}

func requestWith(cookies []*http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, c := range cookies {
		if c.MaxAge >= 0 {
			r.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
		}
	}
	return r
}

func cookieNamed(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLocalLoginAndAuthenticate(t *testing.T) {
	p, _, _ := newLocal(t)

	session, cookies, err := p.Login(context.Background(), Credentials{Email: "asha@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "user-1", session.UserID)
	require.NotNil(t, cookieNamed(cookies, AccessCookie))
	require.NotNil(t, cookieNamed(cookies, RefreshCookie))
	assert.True(t, cookieNamed(cookies, AccessCookie).HttpOnly)

	got, rewritten, err := p.Authenticate(context.Background(), requestWith(cookies))
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)
	assert.Empty(t, rewritten)
}

func TestLocalLoginWrongPassword(t *testing.T) {
	p, _, _ := newLocal(t)
	_, _, err := p.Login(context.Background(), Credentials{Email: "asha@example.com", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = p.Login(context.Background(), Credentials{Email: "ghost@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLocalRefreshRotatesCookies(t *testing.T) {
	p, store, clk := newLocal(t)
	_, cookies, err := p.Login(context.Background(), Credentials{Email: "asha@example.com", Password: "correct horse"})
	require.NoError(t, err)
	oldRefresh := cookieNamed(cookies, RefreshCookie).Value

	clk.t = clk.t.Add(accessTTL + time.Minute)

	session, rewritten, err := p.Authenticate(context.Background(), requestWith(cookies))
	require.NoError(t, err)
	assert.Equal(t, "user-1", session.UserID)
	require.NotNil(t, cookieNamed(rewritten, AccessCookie))
	newRefresh := cookieNamed(rewritten, RefreshCookie)
	require.NotNil(t, newRefresh)
	assert.NotEqual(t, oldRefresh, newRefresh.Value)

	_, stillThere := store.recs[oldRefresh]
	assert.False(t, stillThere)

	// Once the grace window has passed the consumed token cannot be replayed.
	store.expireRotated()
	_, cleared, err := p.Authenticate(context.Background(), requestWith([]*http.Cookie{{Name: RefreshCookie, Value: oldRefresh}}))
	assert.ErrorIs(t, err, ErrNoSession)
	assert.Equal(t, -1, cookieNamed(cleared, RefreshCookie).MaxAge)
}

func TestLocalParallelRefreshKeepsSession(t *testing.T) {
	p, _, clk := newLocal(t)
	_, cookies, err := p.Login(context.Background(), Credentials{Email: "asha@example.com", Password: "correct horse"})
	require.NoError(t, err)
	clk.t = clk.t.Add(accessTTL + time.Minute)

	// A page load and its API call carry the same expired cookies.
	first, rotated, err := p.Authenticate(context.Background(), requestWith(cookies))
	require.NoError(t, err)
	assert.Equal(t, "user-1", first.UserID)
	assert.Len(t, rotated, 2)

	second, rewritten, err := p.Authenticate(context.Background(), requestWith(cookies))
	require.NoError(t, err)
	assert.Equal(t, "user-1", second.UserID)
	for _, c := range rewritten {
		assert.GreaterOrEqual(t, c.MaxAge, 0, c.Name)
	}

	// The rotated cookies keep working on their own.
	third, _, err := p.Authenticate(context.Background(), requestWith(rotated))
	require.NoError(t, err)
	assert.Equal(t, "user-1", third.UserID)
}

func TestLocalAuthenticateWithoutCookies(t *testing.T) {
	p, _, _ := newLocal(t)
	_, cookies, err := p.Authenticate(context.Background(), requestWith(nil))
	assert.ErrorIs(t, err, ErrNoSession)
	assert.Empty(t, cookies)
}

func TestLocalLogoutRevokesRefresh(t *testing.T) {
	p, store, _ := newLocal(t)
	_, cookies, err := p.Login(context.Background(), Credentials{Email: "asha@example.com", Password: "correct horse"})
	require.NoError(t, err)

	cleared, err := p.Logout(context.Background(), requestWith(cookies))
	require.NoError(t, err)
	assert.Len(t, cleared, 2)
	assert.Empty(t, store.recs)
}

func TestLocalRegister(t *testing.T) {
	p, _, _ := newLocal(t)

	session, cookies, err := p.Register(context.Background(), "Ravi K", Credentials{Email: "ravi@example.com", Password: "long enough"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.UserID)
	assert.Len(t, cookies, 2)

	profile, err := p.profiles.GetByEmail(context.Background(), "ravi@example.com")
	require.NoError(t, err)
	assert.Equal(t, "patient", profile.Role)
	assert.NotEqual(t, "long enough", profile.PasswordHash)

	_, _, err = p.Register(context.Background(), "Asha", Credentials{Email: "asha@example.com", Password: "another password"})
	assert.ErrorIs(t, err, ErrInvalidRegistration)

	_, _, err = p.Register(context.Background(), "Short", Credentials{Email: "s@example.com", Password: "short"})
	assert.ErrorIs(t, err, ErrInvalidRegistration)
}
