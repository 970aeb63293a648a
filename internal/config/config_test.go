package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 15, cfg.Pagination.PerPage)
	assert.Equal(t, DriverBadger, cfg.Store.Driver)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.yaml")
	content := `
http:
  addr: ":8080"
  read_timeout: 5s
pagination:
  per_page: 2
store:
  driver: postgres
  postgres_dsn: "host=db dbname=articles"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("ARTICLES_PER_PAGE", "7")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, ":9999", cfg.HTTP.DiagAddr, "unset keys keep defaults")
	assert.Equal(t, 5*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 7, cfg.Pagination.PerPage, "env overrides file")
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "host=db dbname=articles", cfg.Store.PostgresDSN)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadEnvInt(t *testing.T) {
	t.Setenv("ARTICLES_PER_PAGE", "many")

	_, err := Load("")
	assert.ErrorContains(t, err, "ARTICLES_PER_PAGE")
}

func TestLoad_RateLimitEnv(t *testing.T) {
	t.Setenv("ARTICLES_RATELIMIT_RPS", "2.5")
	t.Setenv("ARTICLES_RATELIMIT_BURST", "4")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2.5, cfg.RateLimit.RPS)
	assert.Equal(t, 4, cfg.RateLimit.Burst)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.HTTP.Addr = ""
	cfg.Pagination.PerPage = 0
	cfg.Store.Driver = "mysql"
	cfg.RateLimit.RPS = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http.addr")
	assert.Contains(t, err.Error(), "per_page")
	assert.Contains(t, err.Error(), "store.driver")
	assert.Contains(t, err.Error(), "ratelimit.rps")
}

func TestLoad_TrustProxyIsOptIn(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.False(t, cfg.HTTP.TrustProxy)

	t.Setenv("ARTICLES_TRUST_PROXY", "true")

	cfg, err = Load("")
	require.NoError(t, err)
	assert.True(t, cfg.HTTP.TrustProxy)
}
