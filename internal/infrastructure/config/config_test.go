package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolated loads with no config.toml and no .env so the host machine cannot leak in
func isolated(t *testing.T) []Option {
	t.Helper()
	dir := t.TempDir()
	return []Option{WithConfigPaths(dir), WithEnvFiles(filepath.Join(dir, ".env"))}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(isolated(t)...)
	require.NoError(t, err)

	assert.Equal(t, "customerhub", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "customerhub", cfg.Database.DBName)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, 30*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
	assert.Equal(t, "customerhub", cfg.Telemetry.ServiceName)
	assert.Equal(t, "US", cfg.Customer.CountryCode)
	assert.Equal(t, "mobile_or_fixed", cfg.Customer.PhonePolicy)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CUSTOMERHUB_APP_PORT", "9000")
	t.Setenv("CUSTOMERHUB_DATABASE_DRIVER", "memory")
	t.Setenv("CUSTOMERHUB_DATABASE_PORT", "5433")
	t.Setenv("CUSTOMERHUB_REDIS_ENABLED", "true")
	t.Setenv("CUSTOMERHUB_REDIS_CACHE_TTL", "90s")
	t.Setenv("CUSTOMERHUB_CUSTOMER_COUNTRY_CODE", "gb")
	t.Setenv("CUSTOMERHUB_CUSTOMER_PHONE_POLICY", "mobile")

	cfg, err := Load(isolated(t)...)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 90*time.Second, cfg.Redis.CacheTTL)
	assert.Equal(t, "GB", cfg.Customer.CountryCode)
	assert.Equal(t, "mobile", cfg.Customer.PhonePolicy)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	toml := `
[app]
name = "customers-eu"

[database]
driver = "memory"

[http]
cors_allow_origins = ["http://localhost:3000"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(toml), 0o600))

	cfg, err := Load(WithConfigPaths(dir), WithEnvFiles())
	require.NoError(t, err)
	assert.Equal(t, "customers-eu", cfg.App.Name)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.HTTP.CORSAllowOrigins)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("CUSTOMERHUB_APP_NAME=from-dotenv\nCUSTOMERHUB_APP_PORT=7000\n"), 0o600))

	// the real environment wins over .env
	t.Setenv("CUSTOMERHUB_APP_PORT", "9100")
	t.Cleanup(func() { os.Unsetenv("CUSTOMERHUB_APP_NAME") })

	cfg, err := Load(WithConfigPaths(dir), WithEnvFiles(envFile))
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.App.Name)
	assert.Equal(t, "9100", cfg.App.Port)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"CUSTOMERHUB_DATABASE_DRIVER": "mysql"}},
		{"idle above open", map[string]string{"CUSTOMERHUB_DATABASE_MAX_OPEN_CONNS": "2", "CUSTOMERHUB_DATABASE_MAX_IDLE_CONNS": "3"}},
		{"bad sampling", map[string]string{"CUSTOMERHUB_TELEMETRY_SAMPLING_RATIO": "1.5"}},
		{"bad phone policy", map[string]string{"CUSTOMERHUB_CUSTOMER_PHONE_POLICY": "landline"}},
		{"bad country", map[string]string{"CUSTOMERHUB_CUSTOMER_COUNTRY_CODE": "USA"}},
		{"production without password", map[string]string{"CUSTOMERHUB_APP_ENV": "production", "CUSTOMERHUB_DATABASE_SSLMODE": "require"}},
		{"production with memory driver", map[string]string{"CUSTOMERHUB_APP_ENV": "production", "CUSTOMERHUB_DATABASE_DRIVER": "memory"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(isolated(t)...)
			assert.Error(t, err)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "customerhub", SSLMode: "require"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/customerhub?sslmode=require", d.DSN())
}

func TestRedisConfig_Addr(t *testing.T) {
	r := RedisConfig{Host: "cache", Port: 6380}
	assert.Equal(t, "cache:6380", r.Addr())
}
