// Package config provides configuration management for minicrm.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Default configuration values.
const (
	DefaultConfigDir  = ".config/minicrm"
	DefaultConfigFile = "config.yaml"
	DefaultDataDir    = ".local/share/minicrm"
)

// Default setting values.
const (
	DefaultAPIURL         = "http://localhost:8000/api"
	DefaultAPITimeout     = 10 * time.Second
	DefaultPageSize       = 50
	DefaultSearchDebounce = 300 * time.Millisecond
	DefaultNotifyDuration = 5 * time.Second
)

// Sentinel errors for configuration operations.
var (
	ErrInvalidKey   = errors.New("invalid configuration key")
	ErrInvalidValue = errors.New("invalid configuration value")
	ErrNoEditor     = errors.New("$EDITOR environment variable not set")
)

// validKeys is built once from Config struct reflection.
var validKeys = buildValidKeys()

// validate is the shared validator instance.
var validate = validator.New()

// Config represents the full minicrm configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api" validate:"required"`
	Search  SearchConfig  `mapstructure:"search"`
	Notify  NotifyConfig  `mapstructure:"notify"`
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
}

// APIConfig describes how to reach the contacts API.
type APIConfig struct {
	URL      string        `mapstructure:"url" validate:"required,url"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"min=1s"`
	PageSize int           `mapstructure:"page_size" validate:"min=1,max=500"`
	Insecure bool          `mapstructure:"insecure"`
}

// SearchConfig tunes interactive search.
type SearchConfig struct {
	// Debounce is the quiet window after the last keystroke before the list reloads.
	Debounce time.Duration `mapstructure:"debounce" validate:"min=300ms,max=500ms"`
}

// NotifyConfig tunes notifications.
type NotifyConfig struct {
	Duration time.Duration `mapstructure:"duration" validate:"min=1s,max=1m"`
}

// StorageConfig holds storage location configuration.
type StorageConfig struct {
	Logs string `mapstructure:"logs" validate:"required"`
}

// Validate checks the configuration for errors using struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Loader provides configuration loading and saving.
type Loader struct {
	v       *viper.Viper
	path    string
	homeDir string
}

// NewLoader creates a new configuration loader.
func NewLoader() (*Loader, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("get home directory: %w", err)
	}

	configPath := filepath.Join(home, DefaultConfigDir, DefaultConfigFile)

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Environment variable binding
	v.SetEnvPrefix("MINICRM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	//nolint:errcheck // BindEnv only fails with zero arguments
	v.BindEnv("api.url", "MINICRM_API_URL", "MINICRM_URL")

	l := &Loader{
		v:       v,
		path:    configPath,
		homeDir: home,
	}

	// Set defaults before any config reading
	l.setDefaults()

	return l, nil
}

// setDefaults sets all default configuration values using Viper.
func (l *Loader) setDefaults() {
	l.v.SetDefault("api.url", DefaultAPIURL)
	l.v.SetDefault("api.timeout", DefaultAPITimeout.String())
	l.v.SetDefault("api.page_size", DefaultPageSize)
	l.v.SetDefault("api.insecure", false)
	l.v.SetDefault("search.debounce", DefaultSearchDebounce.String())
	l.v.SetDefault("notify.duration", DefaultNotifyDuration.String())
	l.v.SetDefault("storage.logs", "~/"+DefaultDataDir+"/logs")
}

// Load reads the configuration file, creating defaults if it doesn't exist.
func (l *Loader) Load() (*Config, error) {
	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		if err := l.createDefault(); err != nil {
			return nil, fmt.Errorf("create default config: %w", err)
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := l.decode()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the configuration file path.
func (l *Loader) Path() string {
	return l.path
}

// Get returns a configuration value by dot-notation key.
func (l *Loader) Get(key string) (any, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	return l.v.Get(key), nil
}

// All returns every setting as a nested map.
func (l *Loader) All() map[string]any {
	return l.v.AllSettings()
}

// Set sets a configuration value by dot-notation key and writes the file.
// The value is rejected if the resulting configuration does not validate.
func (l *Loader) Set(key, value string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	previous := l.v.Get(key)
	l.v.Set(key, value)

	cfg, err := l.decode()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		l.v.Set(key, previous)
		return fmt.Errorf("%w: %s=%q: %s", ErrInvalidValue, key, value, err)
	}

	return l.v.WriteConfig()
}

func (l *Loader) decode() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Expand paths
	cfg.Storage.Logs = l.expandPath(cfg.Storage.Logs)

	return &cfg, nil
}

// createDefault writes the default configuration file using Viper.
func (l *Loader) createDefault() error {
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	return l.v.SafeWriteConfigAs(l.path)
}

// expandPath replaces ~ with the home directory.
func (l *Loader) expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(l.homeDir, path[2:])
	}
	if path == "~" {
		return l.homeDir
	}
	return path
}

// ValidateKey checks if a key is a valid configuration key.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	if validKeys[key] {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidKey, key)
}

// Keys returns every valid configuration key, sorted.
func Keys() []string {
	keys := make([]string, 0, len(validKeys))
	for k := range validKeys {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// buildValidKeys builds the set of valid keys from Config struct using reflection.
func buildValidKeys() map[string]bool {
	keys := make(map[string]bool)
	addKeysFromType(reflect.TypeOf(Config{}), "", keys)
	return keys
}

// addKeysFromType recursively adds keys from a struct type.
func addKeysFromType(t reflect.Type, prefix string, keys map[string]bool) {
	for i := range t.NumField() {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		keys[key] = true

		// Recurse into nested structs
		if field.Type.Kind() == reflect.Struct {
			addKeysFromType(field.Type, key, keys)
		}
	}
}
