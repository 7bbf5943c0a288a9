package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		API: APIConfig{
			URL:      "http://localhost:8000/api",
			Timeout:  5 * time.Second,
			PageSize: 50,
		},
		Search:  SearchConfig{Debounce: 300 * time.Millisecond},
		Notify:  NotifyConfig{Duration: 5 * time.Second},
		Storage: StorageConfig{Logs: "/tmp/logs"},
	}
}

func TestLoader_Load_CreatesDefaultIfMissing(t *testing.T) {
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)

	loader, err := NewLoader()
	require.NoError(t, err)

	cfg, err := loader.Load()
	require.NoError(t, err)

	// Check defaults
	assert.Equal(t, DefaultAPIURL, cfg.API.URL)
	assert.Equal(t, DefaultAPITimeout, cfg.API.Timeout)
	assert.Equal(t, DefaultPageSize, cfg.API.PageSize)
	assert.Equal(t, DefaultSearchDebounce, cfg.Search.Debounce)
	assert.Equal(t, DefaultNotifyDuration, cfg.Notify.Duration)
	assert.Equal(t, filepath.Join(tmpHome, ".local", "share", "minicrm", "logs"), cfg.Storage.Logs)

	// Verify file was created
	_, err = os.Stat(loader.Path())
	assert.NoError(t, err)
}

func TestLoader_Load_ReadsExistingConfig(t *testing.T) {
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)

	configDir := filepath.Join(tmpHome, ".config", "minicrm")
	require.NoError(t, os.MkdirAll(configDir, 0755))

	configContent := `
api:
  url: https://crm.example.com/api
  timeout: 30s
  page_size: 100
search:
  debounce: 450ms
notify:
  duration: 3s
storage:
  logs: ~/custom/logs
`
	require.NoError(t, os.WriteFile(
		filepath.Join(configDir, "config.yaml"),
		[]byte(configContent),
		0644,
	))

	loader, err := NewLoader()
	require.NoError(t, err)

	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "https://crm.example.com/api", cfg.API.URL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 100, cfg.API.PageSize)
	assert.Equal(t, 450*time.Millisecond, cfg.Search.Debounce)
	assert.Equal(t, 3*time.Second, cfg.Notify.Duration)
	assert.Equal(t, filepath.Join(tmpHome, "custom", "logs"), cfg.Storage.Logs)
}

func TestLoader_Load_RejectsInvalidFile(t *testing.T) {
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)

	configDir := filepath.Join(tmpHome, ".config", "minicrm")
	require.NoError(t, os.MkdirAll(configDir, 0755))
	require.NoError(t, os.WriteFile(
		filepath.Join(configDir, "config.yaml"),
		[]byte("search:\n  debounce: 2s\n"),
		0644,
	))

	loader, err := NewLoader()
	require.NoError(t, err)

	_, err = loader.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Debounce")
}

func TestLoader_Load_EnvVarOverride(t *testing.T) {
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)
	t.Setenv("MINICRM_URL", "http://env.example.com/api")
	t.Setenv("MINICRM_API_PAGE_SIZE", "10")

	loader, err := NewLoader()
	require.NoError(t, err)

	cfg, err := loader.Load()
	require.NoError(t, err)

	// Env vars should override file defaults
	assert.Equal(t, "http://env.example.com/api", cfg.API.URL)
	assert.Equal(t, 10, cfg.API.PageSize)
}

func TestLoader_Path(t *testing.T) {
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)

	loader, err := NewLoader()
	require.NoError(t, err)

	expected := filepath.Join(tmpHome, ".config", "minicrm", "config.yaml")
	assert.Equal(t, expected, loader.Path())
}

func TestLoader_Get(t *testing.T) {
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)

	loader, err := NewLoader()
	require.NoError(t, err)

	_, err = loader.Load()
	require.NoError(t, err)

	t.Run("valid key returns value", func(t *testing.T) {
		val, err := loader.Get("api.url")
		require.NoError(t, err)
		assert.Equal(t, DefaultAPIURL, val)
	})

	t.Run("invalid key returns error", func(t *testing.T) {
		_, err := loader.Get("invalid.key")
		assert.ErrorIs(t, err, ErrInvalidKey)
	})

	t.Run("all settings include every section", func(t *testing.T) {
		all := loader.All()
		assert.Contains(t, all, "api")
		assert.Contains(t, all, "search")
		assert.Contains(t, all, "storage")
	})
}

func TestLoader_Set(t *testing.T) {
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)

	loader, err := NewLoader()
	require.NoError(t, err)

	_, err = loader.Load()
	require.NoError(t, err)

	t.Run("sets valid key", func(t *testing.T) {
		err := loader.Set("search.debounce", "400ms")
		require.NoError(t, err)

		val, err := loader.Get("search.debounce")
		require.NoError(t, err)
		assert.Equal(t, "400ms", val)

		// Persisted for the next loader.
		reloaded, err := NewLoader()
		require.NoError(t, err)
		cfg, err := reloaded.Load()
		require.NoError(t, err)
		assert.Equal(t, 400*time.Millisecond, cfg.Search.Debounce)
	})

	t.Run("rejects invalid key", func(t *testing.T) {
		err := loader.Set("invalid.key", "value")
		assert.ErrorIs(t, err, ErrInvalidKey)
	})

	t.Run("rejects out of range debounce and keeps the old value", func(t *testing.T) {
		err := loader.Set("search.debounce", "50ms")
		assert.ErrorIs(t, err, ErrInvalidValue)

		val, err := loader.Get("search.debounce")
		require.NoError(t, err)
		assert.Equal(t, "400ms", val)
	})

	t.Run("rejects unparsable duration", func(t *testing.T) {
		err := loader.Set("api.timeout", "soon")
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("rejects malformed url", func(t *testing.T) {
		err := loader.Set("api.url", "not a url")
		assert.ErrorIs(t, err, ErrInvalidValue)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("debounce below the window", func(t *testing.T) {
		cfg := validConfig()
		cfg.Search.Debounce = 100 * time.Millisecond
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Debounce")
	})

	t.Run("debounce above the window", func(t *testing.T) {
		cfg := validConfig()
		cfg.Search.Debounce = time.Second
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing url", func(t *testing.T) {
		cfg := validConfig()
		cfg.API.URL = ""
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "URL")
	})

	t.Run("zero page size", func(t *testing.T) {
		cfg := validConfig()
		cfg.API.PageSize = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing logs dir", func(t *testing.T) {
		cfg := validConfig()
		cfg.Storage.Logs = ""
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Logs")
	})
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr error
	}{
		{"api.url is valid", "api.url", nil},
		{"api.timeout is valid", "api.timeout", nil},
		{"api.page_size is valid", "api.page_size", nil},
		{"search.debounce is valid", "search.debounce", nil},
		{"notify.duration is valid", "notify.duration", nil},
		{"storage.logs is valid", "storage.logs", nil},
		{"section is valid", "api", nil},
		{"unknown.key returns error", "unknown.key", ErrInvalidKey},
		{"empty key returns error", "", ErrInvalidKey},
		{"random key returns error", "foo", ErrInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestKeys(t *testing.T) {
	keys := Keys()

	assert.Contains(t, keys, "search.debounce")
	assert.IsIncreasing(t, keys)
}

func TestLoader_expandPath(t *testing.T) {
	tmpHome := "/home/test"
	loader := &Loader{homeDir: tmpHome}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"expands ~/ prefix", "~/foo", filepath.Join(tmpHome, "foo")},
		{"expands ~ alone", "~", tmpHome},
		{"preserves absolute path", "/absolute/path", "/absolute/path"},
		{"preserves relative path", "relative/path", "relative/path"},
		{"handles nested paths", "~/foo/bar/baz", filepath.Join(tmpHome, "foo", "bar", "baz")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := loader.expandPath(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}
