package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		wantErr bool
		check   func(t *testing.T)
	}{
		{
			name: "load from settings file",
			content: `
server:
  host: "127.0.0.1"
  port: 8081
storage:
  media_dir: "/srv/media"
`,
			check: func(t *testing.T) {
				assert.Equal(t, 8081, GetInt("server.port"))
				assert.Equal(t, "/srv/media", GetString("storage.media_dir"))
			},
		},
		{
			name: "environment variable override",
			content: `
server:
  port: 8081
`,
			env: map[string]string{"PAPERREEL_SERVER_PORT": "9090"},
			check: func(t *testing.T) {
				assert.Equal(t, 9090, GetInt("server.port"))
			},
		},
		{
			name: "missing config file with defaults",
			check: func(t *testing.T) {
				assert.Equal(t, 8080, GetInt("server.port"))
				assert.Equal(t, "sqlite", GetString("database.driver"))
				assert.Equal(t, 30*time.Minute, GetDuration("sessions.idle_timeout"))
			},
		},
		{
			name: "postgres without dsn",
			content: `
database:
  driver: postgres
`,
			wantErr: true,
		},
		{
			name: "zero cleanup interval is corrected",
			content: `
sessions:
  cleanup_interval: 0s
`,
			check: func(t *testing.T) {
				assert.Equal(t, time.Minute, GetDuration("sessions.cleanup_interval"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)

			path := filepath.Join(t.TempDir(), "settings.yaml")
			if tt.content != "" {
				require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			err := Load(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t)
			}
		})
	}
}

func TestGetConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(""))

	cfg, err := GetConfig()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 30, cfg.RateLimiting.Endpoints["save"])
	assert.Equal(t, []string{"*"}, cfg.Security.CORSOrigins)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: &Config{
				Server:   ServerConfig{Host: "localhost", Port: 8080},
				Database: DatabaseConfig{Driver: "sqlite", Path: "./data/paperreel.db"},
			},
		},
		{
			name:    "invalid port",
			config:  &Config{Server: ServerConfig{Host: "localhost", Port: 0}},
			wantErr: true,
		},
		{
			name: "unknown driver",
			config: &Config{
				Server:   ServerConfig{Port: 8080},
				Database: DatabaseConfig{Driver: "mysql"},
			},
			wantErr: true,
		},
		{
			name: "postgres with dsn",
			config: &Config{
				Server:   ServerConfig{Port: 8080},
				Database: DatabaseConfig{Driver: "postgres", DSN: "postgres://localhost/paperreel"},
			},
		},
		{
			name: "bad log level",
			config: &Config{
				Server:  ServerConfig{Port: 8080},
				Logging: LoggingConfig{Level: "verbose"},
			},
			wantErr: true,
		},
		{
			name: "bad log format",
			config: &Config{
				Server:  ServerConfig{Port: 8080},
				Logging: LoggingConfig{Format: "xml"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
