package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GIN_MODE", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 168, cfg.JWT.ExpirationHrs)
	assert.Equal(t, DefaultJWTSecret, cfg.JWT.Secret)
	assert.Equal(t, 30, cfg.Cache.PassageTTLMinutes)
	assert.Equal(t, "migrations", cfg.Database.MigrationsPath)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 5, cfg.RateLimit.MaxRequests)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_FileAndEnv(t *testing.T) {
	t.Setenv("GIN_MODE", "debug")
	t.Setenv("JWT_SECRET", "from-env")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: "9090"
database:
  host: db.internal
  dbname: cars
redis:
  addr: localhost:6379
jwt:
  secret: from-file
  expirationHrs: 24
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "cars", cfg.Database.DBName)
	assert.Equal(t, "from-env", cfg.JWT.Secret, "env overrides file")
	assert.Equal(t, 24, cfg.JWT.ExpirationHrs)
	assert.True(t, cfg.Redis.Enabled())
}

func TestLoad_MissingFileFallsBack(t *testing.T) {
	t.Setenv("GIN_MODE", "debug")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Database.Host)
}

func TestValidate_ReleaseRejectsDefaultSecret(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Host: "h", DBName: "d", User: "u", Password: "p"},
		JWT:      JWTConfig{Secret: DefaultJWTSecret, ExpirationHrs: 168},
	}
	assert.NoError(t, cfg.Validate(false))
	assert.Error(t, cfg.Validate(true))

	cfg.JWT.Secret = "real-secret"
	assert.NoError(t, cfg.Validate(true))

	cfg.Database.Password = ""
	assert.Error(t, cfg.Validate(true))
}

func TestValidate_BadExpiration(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Host: "h", DBName: "d", User: "u"},
		JWT:      JWTConfig{Secret: "s", ExpirationHrs: 0},
	}
	assert.Error(t, cfg.Validate(false))
}

func TestPostgresURL(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: "5432", User: "u", Password: "p", DBName: "db", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/db?sslmode=disable", d.PostgresURL())
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=db sslmode=disable", d.PostgresConnectionString())
}
