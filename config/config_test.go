package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "development")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "INR", cfg.DefaultCurrency)
	assert.Equal(t, "Asia/Kolkata", cfg.CalendarTimezone)
	assert.Equal(t, "local", cfg.IdentityProvider)
	assert.Equal(t, "primary", cfg.GoogleCalendarID)
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	t.Setenv("IDENTITY_PROVIDER", "ldap")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadRequiresSecretInProduction(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestOrigins(t *testing.T) {
	cfg := &Config{AllowedOrigins: "https://a.example, https://b.example,,"}
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Origins())
}

func TestProxiesDefaultToNone(t *testing.T) {
	t.Setenv("ENV", "development")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Proxies())

	cfg.TrustedProxies = "10.0.0.0/8, 192.168.1.2"
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.2"}, cfg.Proxies())
}
