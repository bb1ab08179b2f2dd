package middleware

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"mindnest/models"
	"mindnest/services/identity"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	principalKey = "principal"

	LoginPath = "/login"
	HomePath  = "/"
)

// RoleLookup fetches the stored role of a user.
type RoleLookup interface {
	GetRole(ctx context.Context, userID string) (models.Role, error)
}

// AuthorizationRule grants a path prefix to a set of roles. An empty set
// admits any authenticated role.
type AuthorizationRule struct {
	Prefix string
	Roles  models.RoleSet
}

// AuthorizationTable resolves the rule for a path by longest matching prefix.
type AuthorizationTable struct {
	rules      []AuthorizationRule
	privileged []string
}

// NewAuthorizationTable builds a table. privileged lists the prefixes that
// require a session at all.
func NewAuthorizationTable(privileged []string, rules ...AuthorizationRule) *AuthorizationTable {
	sorted := append([]AuthorizationRule(nil), rules...)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i].Prefix) > len(sorted[j].Prefix) })
	return &AuthorizationTable{rules: sorted, privileged: privileged}
}

// DefaultAuthorizationTable is the site's access policy.
func DefaultAuthorizationTable() *AuthorizationTable {
	return NewAuthorizationTable(
		[]string{"/admin", "/dashboard"},
		AuthorizationRule{Prefix: "/dashboard/psychologist", Roles: models.NewRoleSet(models.RolePsychologist, models.RoleAdmin)},
		AuthorizationRule{Prefix: "/admin/super", Roles: models.NewRoleSet(models.RoleAdmin)},
		AuthorizationRule{Prefix: "/admin", Roles: models.NewRoleSet(models.RolePsychologist, models.RoleAdmin)},
		AuthorizationRule{Prefix: "/dashboard", Roles: models.NewRoleSet()},
	)
}

// IsPrivileged reports whether path needs an authenticated session.
func (t *AuthorizationTable) IsPrivileged(path string) bool {
	for _, p := range t.privileged {
		if hasPathPrefix(path, p) {
			return true
		}
	}
	return false
}

// Rule returns the most specific rule covering path.
func (t *AuthorizationTable) Rule(path string) (AuthorizationRule, bool) {
	for _, r := range t.rules {
		if hasPathPrefix(path, r.Prefix) {
			return r, true
		}
	}
	return AuthorizationRule{}, false
}

// hasPathPrefix matches whole segments: /admin covers /admin/x but not /administrator.
func hasPathPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/' || strings.HasSuffix(prefix, "/")
}

// AccessGuard resolves the session on every request and enforces the
// authorization table on privileged paths. The role is only looked up for
// privileged paths.
func AccessGuard(provider identity.Provider, roles RoleLookup, table *AuthorizationTable, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		path := c.Request.URL.Path

		session, cookies, err := provider.Authenticate(ctx, c.Request)
		for _, cookie := range cookies {
			http.SetCookie(c.Writer, cookie)
		}
		if err != nil && !errors.Is(err, identity.ErrNoSession) {
			logger.Error("Session resolution failed", zap.String("path", path), zap.Error(err))
			session = nil
		}

		if !table.IsPrivileged(path) {
			if session != nil {
				c.Set(principalKey, &models.Principal{UserID: session.UserID, Email: session.Email})
			}
			c.Next()
			return
		}

		if session == nil {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}

		role, err := roles.GetRole(ctx, session.UserID)
		if err != nil {
			logger.Warn("Role lookup failed",
				zap.String("userId", session.UserID),
				zap.String("path", path),
				zap.Error(err),
			)
			c.Redirect(http.StatusFound, HomePath)
			c.Abort()
			return
		}

		if rule, ok := table.Rule(path); ok && !rule.Roles.Allows(role) {
			logger.Warn("Access denied",
				zap.String("userId", session.UserID),
				zap.String("role", role.String()),
				zap.String("path", path),
			)
			c.Redirect(http.StatusFound, HomePath)
			c.Abort()
			return
		}

		c.Set(principalKey, &models.Principal{UserID: session.UserID, Email: session.Email, Role: role})
		c.Next()
	}
}

// RequireSession rejects API requests that carry no session.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetPrincipal(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Next()
	}
}

// GetPrincipal returns the user resolved by AccessGuard.
func GetPrincipal(c *gin.Context) (*models.Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return nil, false
	}
	p, ok := v.(*models.Principal)
	return p, ok && p != nil
}
