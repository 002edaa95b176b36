package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	env "github.com/netflix/go-env"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"

	"photogrid/internal/cache"
	"photogrid/internal/eventbus"
)

// FileName is the name of the config file inside the config directory
const FileName = "config.toml"

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid configuration")

// Config represents the application configuration
type Config struct {
	Version           int           `toml:"version"`
	APIKey            string        `toml:"api_key,omitempty"`
	BaseURL           string        `toml:"base_url"`
	DefaultTerm       string        `toml:"default_term"`
	DebounceMS        int           `toml:"debounce_ms"`
	RequestsPerMinute int           `toml:"requests_per_minute"`
	TimeoutSeconds    int           `toml:"timeout_seconds"`
	Cache             CacheSettings `toml:"cache"`
	Log               LogSettings   `toml:"log"`
	UI                UISettings    `toml:"ui"`
}

// CacheSettings configures the response cache
type CacheSettings struct {
	Kind     string `toml:"kind"`
	Size     int    `toml:"size"`
	TTLHours int    `toml:"ttl_hours"`
	Path     string `toml:"path,omitempty"`
}

// LogSettings configures the log file
type LogSettings struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	Thumbnails  bool   `toml:"thumbnails"`
	Prefetch    bool   `toml:"prefetch"`
	StartScreen string `toml:"start_screen"`
}

// Environment holds the variables that override the file
type Environment struct {
	APIKey   string `env:"PIXABAY_API_KEY"`
	BaseURL  string `env:"PHOTOGRID_BASE_URL"`
	Cache    string `env:"PHOTOGRID_CACHE"`
	LogFile  string `env:"PHOTOGRID_LOG_FILE"`
	LogLevel string `env:"PHOTOGRID_LOG_LEVEL"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// DefaultPath returns <user config dir>/photogrid/config.toml
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "photogrid", FileName)
}

// NewConfigService creates a config service for path; an empty path means
// DefaultPath. bus may be nil.
func NewConfigService(path string, bus eventbus.EventBus) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{bus: bus, filePath: path}
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from file, falling back to defaults when the
// file does not exist yet.
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: cs.filePath})
	}
	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path. Keys missing from
// the file keep their defaults.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// the file may hold an API key
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:           1,
		BaseURL:           "https://pixabay.com/api/",
		DefaultTerm:       "paris",
		DebounceMS:        1000,
		RequestsPerMinute: 100,
		TimeoutSeconds:    15,
		Cache: CacheSettings{
			Kind:     cache.KindMemory,
			Size:     128,
			TTLHours: 24,
		},
		Log: LogSettings{
			File:  "photogrid.log",
			Level: "info",
		},
		UI: UISettings{
			Thumbnails:  true,
			Prefetch:    true,
			StartScreen: "search",
		},
	}
}

// LoadDotEnv reads .env files into the process environment. Missing files
// are ignored and existing variables win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overlays environment variables on cfg
func ApplyEnv(cfg *Config) error {
	var e Environment
	if _, err := env.UnmarshalFromEnviron(&e); err != nil {
		return fmt.Errorf("failed to parse environment variables: %w", err)
	}
	cfg.Overlay(e)
	return nil
}

// Overlay copies every non-empty value of e into cfg
func (c *Config) Overlay(e Environment) {
	if e.APIKey != "" {
		c.APIKey = e.APIKey
	}
	if e.BaseURL != "" {
		c.BaseURL = e.BaseURL
	}
	if e.Cache != "" {
		c.Cache.Kind = e.Cache
	}
	if e.LogFile != "" {
		c.Log.File = e.LogFile
	}
	if e.LogLevel != "" {
		c.Log.Level = e.LogLevel
	}
}

// Validate reports the first setting that cannot work
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: base_url %q is not an http(s) URL", ErrInvalid, c.BaseURL)
	}
	if c.DebounceMS < 0 {
		return fmt.Errorf("%w: debounce_ms must not be negative", ErrInvalid)
	}
	if c.RequestsPerMinute < 0 {
		return fmt.Errorf("%w: requests_per_minute must not be negative", ErrInvalid)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: timeout_seconds must be positive", ErrInvalid)
	}
	switch strings.ToLower(c.Cache.Kind) {
	case cache.KindNone, cache.KindMemory, cache.KindBolt:
	default:
		return fmt.Errorf("%w: cache.kind %q", ErrInvalid, c.Cache.Kind)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		return fmt.Errorf("%w: log.level %q", ErrInvalid, c.Log.Level)
	}
	switch c.UI.StartScreen {
	case "", "search", "grid", "sections", "nested":
	default:
		return fmt.Errorf("%w: ui.start_screen %q", ErrInvalid, c.UI.StartScreen)
	}
	return nil
}

// Debounce is the quiet period
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// Timeout is the per-request timeout
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CacheOptions translates the cache settings. A bolt cache without a path
// lives next to the config file.
func (c *Config) CacheOptions(configPath string) cache.Options {
	path := c.Cache.Path
	if path == "" && strings.EqualFold(c.Cache.Kind, cache.KindBolt) {
		path = filepath.Join(filepath.Dir(configPath), "responses.db")
	}
	return cache.Options{
		Kind: c.Cache.Kind,
		Size: c.Cache.Size,
		TTL:  time.Duration(c.Cache.TTLHours) * time.Hour,
		Path: path,
	}
}
