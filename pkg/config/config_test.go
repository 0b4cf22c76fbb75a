package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// writeConfigYAML marshals the given document into config.yaml inside a
// temp dir and chdirs there for the duration of the test.
func writeConfigYAML(t *testing.T, doc map[string]any) {
	t.Helper()

	data, err := yaml.Marshal(doc)
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0o600))
	t.Chdir(dir)
}

func TestLoad_Defaults(t *testing.T) {
	writeConfigYAML(t, map[string]any{
		"auth": map[string]any{"enable_verification": false},
	})

	cfg, err := Load("test")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.BindAddr)
	assert.Equal(t, "8480", cfg.Port)
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "test", cfg.Version)
	assert.Equal(t, "migrations", cfg.MigrationsPath)
	assert.Equal(t, "opsdesk_engine", cfg.Database.Database)
	assert.Equal(t, int32(25), cfg.Database.MaxConnections)
	assert.Equal(t, 60, cfg.Redis.CacheTTLMinutes)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	writeConfigYAML(t, map[string]any{
		"port": "9000",
		"auth": map[string]any{"enable_verification": false},
	})
	t.Setenv("PORT", "9100")
	t.Setenv("PGHOST", "db.internal")

	cfg, err := Load("test")
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
}

func TestLoad_VerificationRequiresJWKSEndpoints(t *testing.T) {
	writeConfigYAML(t, map[string]any{
		"auth": map[string]any{"enable_verification": true},
	})

	_, err := Load("test")
	assert.Error(t, err)
}

func TestLoad_ParsesJWKSEndpoints(t *testing.T) {
	writeConfigYAML(t, map[string]any{
		"auth": map[string]any{
			"enable_verification": true,
			"jwks_endpoints":      "https://sso.corp.local=https://sso.corp.local/.well-known/jwks.json",
		},
	})

	cfg, err := Load("test")
	require.NoError(t, err)

	require.Len(t, cfg.Auth.JWKSEndpoints, 1)
	assert.Equal(t,
		"https://sso.corp.local/.well-known/jwks.json",
		cfg.Auth.JWKSEndpoints["https://sso.corp.local"])
}

func TestConnectionString(t *testing.T) {
	c := DatabaseConfig{
		Host: "localhost", Port: 5432, User: "opsdesk",
		Password: "secret", Database: "opsdesk_engine", SSLMode: "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=opsdesk password=secret dbname=opsdesk_engine sslmode=disable",
		c.ConnectionString())
}
