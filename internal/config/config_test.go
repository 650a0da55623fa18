package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigValue(t *testing.T) {
	t.Run("flag takes precedence", func(t *testing.T) {
		t.Setenv("TEST_KEY", "from-env")
		got := getConfigValue("from-flag", "TEST_KEY", "default")
		assert.Equal(t, "from-flag", got)
	})

	t.Run("env var when flag empty", func(t *testing.T) {
		t.Setenv("TEST_KEY", "from-env")
		got := getConfigValue("", "TEST_KEY", "default")
		assert.Equal(t, "from-env", got)
	})

	t.Run("default when flag and env empty", func(t *testing.T) {
		got := getConfigValue("", "TEST_KEY_UNSET", "default")
		assert.Equal(t, "default", got)
	})
}

func TestGetBoolConfigValue(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		fallback bool
		want     bool
	}{
		{"true", "true", false, true},
		{"one", "1", false, true},
		{"yes uppercase", "YES", false, true},
		{"false", "false", true, false},
		{"garbage is false", "banana", true, false},
		{"empty uses fallback", "", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := getBoolConfigValue(tt.value, "TEST_BOOL_UNSET", tt.fallback)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Run("empty uses default", func(t *testing.T) {
		got, err := expandPath("", "/var/lib/cortex")
		require.NoError(t, err)
		assert.Equal(t, "/var/lib/cortex", got)
	})

	t.Run("tilde expands to home", func(t *testing.T) {
		got, err := expandPath("~/cortex-data", "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "cortex-data"), got)
	})

	t.Run("relative becomes absolute", func(t *testing.T) {
		got, err := expandPath("data", "")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got))
	})

	t.Run("absolute is cleaned", func(t *testing.T) {
		got, err := expandPath("/var//lib/../lib/cortex", "")
		require.NoError(t, err)
		assert.Equal(t, "/var/lib/cortex", got)
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("parses key values and comments", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ".env")
		content := "# comment\nCORTEX_TEST_A=hello\nCORTEX_TEST_B=\"quoted\"\n\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		t.Setenv("CORTEX_TEST_A", "")
		os.Unsetenv("CORTEX_TEST_A")
		t.Setenv("CORTEX_TEST_B", "")
		os.Unsetenv("CORTEX_TEST_B")

		require.NoError(t, loadEnvFile(path))
		assert.Equal(t, "hello", os.Getenv("CORTEX_TEST_A"))
		assert.Equal(t, "quoted", os.Getenv("CORTEX_TEST_B"))
	})

	t.Run("existing env wins over file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ".env")
		require.NoError(t, os.WriteFile(path, []byte("CORTEX_TEST_C=from-file\n"), 0o600))

		t.Setenv("CORTEX_TEST_C", "from-env")
		require.NoError(t, loadEnvFile(path))
		assert.Equal(t, "from-env", os.Getenv("CORTEX_TEST_C"))
	})

	t.Run("malformed line errors", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ".env")
		require.NoError(t, os.WriteFile(path, []byte("NOT A PAIR\n"), 0o600))

		err := loadEnvFile(path)
		assert.Error(t, err)
	})

	t.Run("missing file errors", func(t *testing.T) {
		err := loadEnvFile(filepath.Join(t.TempDir(), "nope.env"))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:    AppConfig{Environment: "development"},
			Logger: LoggerConfig{Level: "info"},
			Data:   DataConfig{BasePath: "/tmp/cortex"},
		}
	}

	t.Run("valid config passes", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("unknown environment fails", func(t *testing.T) {
		cfg := valid()
		cfg.App.Environment = "qa"
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown log level fails", func(t *testing.T) {
		cfg := valid()
		cfg.Logger.Level = "verbose"
		assert.Error(t, cfg.Validate())
	})

	t.Run("empty data path fails", func(t *testing.T) {
		cfg := valid()
		cfg.Data.BasePath = ""
		assert.Error(t, cfg.Validate())
	})
}
