package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, "data.json", cfg.Remote.Path)
	assert.Equal(t, "main", cfg.Remote.Branch)
	assert.Equal(t, "Update data.json from Admin Dashboard", cfg.Remote.CommitMessage)
	assert.Equal(t, 15*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, "Asia/Tokyo", cfg.Dashboard.Timezone)
	assert.Equal(t, time.Second, cfg.Dashboard.TickInterval)
	assert.Equal(t, 25, cfg.Pomodoro.WorkMinutes)
	assert.Equal(t, 5, cfg.Pomodoro.BreakMinutes)
	assert.Equal(t, 2*time.Hour, cfg.Admin.TokenTTL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("DASHBOARD_TIMEZONE", "UTC")
	t.Setenv("POMODORO_WORK_MINUTES", "50")

	cfg, err := load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, time.UTC, cfg.Dashboard.Location())
	assert.Equal(t, 50, cfg.Pomodoro.WorkMinutes)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad port", env: map[string]string{"SERVER_PORT": "70000"}},
		{name: "unknown driver", env: map[string]string{"STORAGE_DRIVER": "floppy"}},
		{name: "firestore without project", env: map[string]string{"STORAGE_DRIVER": "firestore", "GOOGLE_CLOUD_PROJECT": ""}},
		{name: "bad timezone", env: map[string]string{"DASHBOARD_TIMEZONE": "Mars/Olympus"}},
		{name: "zero pomodoro", env: map[string]string{"POMODORO_BREAK_MINUTES": "0"}},
		{name: "default secret in production", env: map[string]string{"APP_ENVIRONMENT": "production"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := load(viper.New())
			assert.Error(t, err)
		})
	}
}

func TestHelpers(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", db.GetDSN())

	r := RedisConfig{Host: "cache", Port: 6380}
	assert.Equal(t, "cache:6380", r.GetAddr())

	assert.True(t, (&AppConfig{Environment: "production"}).IsProduction())
	assert.True(t, (&AppConfig{Environment: "development"}).IsDevelopment())
}
