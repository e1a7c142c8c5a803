package config

import (
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadPath_Defaults(t *testing.T) {
	path := writeConfig(t, `
env: "dev"
storage_path: "postgres://u:p@localhost:5432/oauth"
`)

	cfg, err := LoadPath(path)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, 44044, cfg.GRPC.Port)
	assert.Equal(t, "oauth", cfg.Redis.KeyPrefix)
	assert.Equal(t, 600*time.Second, cfg.OAuth.StateTTL)
	assert.Equal(t, 600*time.Second, cfg.OAuth.CodeTTL)
	assert.Equal(t, time.Hour, cfg.OAuth.AccessTokenTTL)
	assert.False(t, cfg.OAuth.RequireRedirectURI)
	assert.False(t, cfg.OAuth.SkipConsentIfGranted)
	assert.Equal(t, []string{"Read your profile information", "Access your email address"}, cfg.OAuth.RequestedPermissions)
	assert.Equal(t, 10.0, cfg.OAuth.TokenRateLimit.RPS)
	assert.Equal(t, 20, cfg.OAuth.TokenRateLimit.Burst)
}

func TestLoadPath_Overrides(t *testing.T) {
	path := writeConfig(t, `
storage_path: "postgres://u:p@localhost:5432/oauth"
oauth:
  code_ttl: 30s
  require_redirect_uri_on_token: true
  skip_consent_when_granted: true
`)

	cfg, err := LoadPath(path)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.OAuth.CodeTTL)
	assert.True(t, cfg.OAuth.RequireRedirectURI)
	assert.True(t, cfg.OAuth.SkipConsentIfGranted)
}

func TestLoadPath_Errors(t *testing.T) {
	_, err := LoadPath("")
	assert.ErrorIs(t, err, ErrEmptyPath)

	missing := filepath.Join(t.TempDir(), "nope.yaml")
	_, err = LoadPath(missing)
	var notExist *NotExistError
	require.True(t, errors.As(err, &notExist))
	assert.Equal(t, missing, notExist.Path)
}

func TestMustLoadPath_Panics(t *testing.T) {
	assert.Panics(t, func() { MustLoadPath("") })
}
