package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	profileRepo "mindnest/database/repository/profile"
	"mindnest/models"
	"mindnest/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	AccessCookie  = "mn_access"
	RefreshCookie = "mn_refresh"

	accessTTL  = 15 * time.Minute
	refreshTTL = 7 * 24 * time.Hour
	// rotationGrace is how long a rotated refresh token still resolves.
	rotationGrace = 30 * time.Second

	minPasswordLength = 8
)

// LocalProvider issues its own sessions: a short-lived signed access token and
// a single-use refresh token kept in redis. An expired access token is
// replaced transparently while the refresh token is valid.
type LocalProvider struct {
	signer   *utils.TokenSigner
	store    RefreshStore
	profiles profileRepo.ProfileRepository
	jar      cookieJar
	logger   *zap.Logger
	now      func() time.Time
}

func NewLocalProvider(signer *utils.TokenSigner, store RefreshStore, profiles profileRepo.ProfileRepository, secureCookies bool, logger *zap.Logger) *LocalProvider {
	return &LocalProvider{
		signer:   signer,
		store:    store,
		profiles: profiles,
		jar:      cookieJar{secure: secureCookies},
		logger:   logger,
		now:      time.Now,
	}
}

func (p *LocalProvider) Authenticate(ctx context.Context, r *http.Request) (*Session, []*http.Cookie, error) {
	access := cookieValue(r, AccessCookie)
	if access != "" {
		claims, err := p.signer.ValidateToken(access)
		if err == nil {
			return &Session{UserID: claims.Subject, Email: claims.Email}, nil, nil
		}
		if !errors.Is(err, utils.ErrTokenExpired) {
			p.logger.Debug("Rejected access token", zap.Error(err))
		}
	}

	refresh := cookieValue(r, RefreshCookie)
	if refresh == "" {
		if access != "" {
			return nil, []*http.Cookie{p.jar.clear(AccessCookie)}, ErrNoSession
		}
		return nil, nil, ErrNoSession
	}

	rec, err := p.store.Take(ctx, refresh, rotationGrace)
	if err != nil {
		if !errors.Is(err, ErrNoSession) {
			p.logger.Error("Refresh token lookup failed", zap.Error(err))
			return nil, nil, ErrNoSession
		}
		return nil, p.clearAll(), ErrNoSession
	}

	session := &Session{UserID: rec.UserID, Email: rec.Email}
	if rec.Rotated {
		// A parallel request already rotated this token and set new cookies.
		return session, nil, nil
	}
	cookies, err := p.issue(ctx, session)
	if err != nil {
		return nil, p.clearAll(), err
	}
	return session, cookies, nil
}

func (p *LocalProvider) Login(ctx context.Context, creds Credentials) (*Session, []*http.Cookie, error) {
	if creds.Email == "" || creds.Password == "" {
		return nil, nil, ErrInvalidCredentials
	}

	profile, err := p.profiles.GetByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, profileRepo.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if profile.PasswordHash == "" {
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	session := &Session{UserID: profile.ID, Email: profile.Email}
	cookies, err := p.issue(ctx, session)
	if err != nil {
		return nil, nil, err
	}
	return session, cookies, nil
}

// Register creates a patient profile and signs the new user in.
func (p *LocalProvider) Register(ctx context.Context, fullName string, creds Credentials) (*Session, []*http.Cookie, error) {
	if creds.Email == "" || len(creds.Password) < minPasswordLength {
		return nil, nil, fmt.Errorf("%w: email and a password of at least %d characters are required", ErrInvalidRegistration, minPasswordLength)
	}
	hash, err := HashPassword(creds.Password)
	if err != nil {
		return nil, nil, err
	}
	profile := &models.Profile{
		ID:           uuid.NewString(),
		Email:        creds.Email,
		FullName:     fullName,
		Role:         models.RolePatient.String(),
		PasswordHash: hash,
	}
	if err := p.profiles.Create(ctx, profile); err != nil {
		if errors.Is(err, profileRepo.ErrEmailInUse) {
			return nil, nil, fmt.Errorf("%w: email already registered", ErrInvalidRegistration)
		}
		return nil, nil, err
	}
	p.logger.Info("Profile registered", zap.String("userId", profile.ID))

	session := &Session{UserID: profile.ID, Email: profile.Email}
	cookies, err := p.issue(ctx, session)
	if err != nil {
		return nil, nil, err
	}
	return session, cookies, nil
}

func (p *LocalProvider) Logout(ctx context.Context, r *http.Request) ([]*http.Cookie, error) {
	if refresh := cookieValue(r, RefreshCookie); refresh != "" {
		if err := p.store.Delete(ctx, refresh); err != nil {
			return p.clearAll(), fmt.Errorf("failed to revoke refresh token: %w", err)
		}
	}
	return p.clearAll(), nil
}

func (p *LocalProvider) issue(ctx context.Context, s *Session) ([]*http.Cookie, error) {
	access, err := p.signer.GenerateToken(s.UserID, s.Email, accessTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh := uuid.NewString()
	rec := RefreshRecord{UserID: s.UserID, Email: s.Email, IssuedAt: p.now().UTC()}
	if err := p.store.Save(ctx, refresh, rec, refreshTTL); err != nil {
		return nil, err
	}
	return []*http.Cookie{
		p.jar.set(AccessCookie, access, accessTTL),
		p.jar.set(RefreshCookie, refresh, refreshTTL),
	}, nil
}

func (p *LocalProvider) clearAll() []*http.Cookie {
	return []*http.Cookie{p.jar.clear(AccessCookie), p.jar.clear(RefreshCookie)}
}

// HashPassword produces the bcrypt hash stored on a profile.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
