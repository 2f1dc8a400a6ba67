package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{BasePath: "/some/path"},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"DEBUG", true},  // case insensitive
		{"trace", false}, // not supported
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_EmptyDataPath(t *testing.T) {
	cfg := validConfig()
	cfg.Data.BasePath = ""

	assert.Error(t, cfg.Validate())
}

func TestDatabasePath(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, filepath.Join("/some/path", "taskdeck.db"), cfg.DatabasePath())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name        string
		path        string
		defaultPath string
		want        string
	}{
		{"empty uses default", "", "/default", "/default"},
		{"absolute unchanged", "/abs/path", "/default", "/abs/path"},
		{"tilde expanded", "~/data", "/default", filepath.Join(home, "data")},
		{"cleaned", "/a//b/../c", "/default", "/a/c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandPath(tt.path, tt.defaultPath)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandSearchIndexPath_Default(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.expandSearchIndexPath())

	assert.Equal(t, filepath.Join("/some/path", "search.bleve"), cfg.Search.IndexPath)
}

func TestGetConfigValue(t *testing.T) {
	t.Setenv("TASKDECK_TEST_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "TASKDECK_TEST_KEY", "default"))
	assert.Equal(t, "from-env", getConfigValue("", "TASKDECK_TEST_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "TASKDECK_TEST_MISSING", "default"))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "# comment\nTASKDECK_ENV_A=hello\nTASKDECK_ENV_B=\"quoted\"\n\nbadline\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	t.Setenv("TASKDECK_ENV_A", "")
	os.Unsetenv("TASKDECK_ENV_A")
	t.Setenv("TASKDECK_ENV_B", "")
	os.Unsetenv("TASKDECK_ENV_B")

	require.NoError(t, loadEnvFile(envPath))

	assert.Equal(t, "hello", os.Getenv("TASKDECK_ENV_A"))
	assert.Equal(t, "quoted", os.Getenv("TASKDECK_ENV_B"))
}
