package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photogrid/internal/cache"
	"photogrid/internal/eventbus"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	svc := NewConfigService(filepath.Join(t.TempDir(), "config.toml"), nil)
	cfg, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	svc := NewConfigService(path, nil)

	cfg := DefaultConfig()
	cfg.APIKey = "secret"
	cfg.DebounceMS = 250
	cfg.Cache.Kind = cache.KindBolt
	require.NoError(t, svc.Save(cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("debounce_ms = 300\n[cache]\nkind = \"none\"\n"), 0600))

	cfg, err := NewConfigService(path, nil).Load()
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.DebounceMS)
	assert.Equal(t, cache.KindNone, cfg.Cache.Kind)
	assert.Equal(t, 24, cfg.Cache.TTLHours)
	assert.Equal(t, "paris", cfg.DefaultTerm)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("debounce_ms = = 3"), 0600))

	_, err := NewConfigService(path, nil).Load()
	assert.Error(t, err)

	_, err = NewConfigService(path, nil).LoadFromPath(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestServicePublishesEvents(t *testing.T) {
	bus := eventbus.New(zerolog.Nop())
	defer bus.Close()

	got := make(chan eventbus.DomainEvent, 2)
	bus.Subscribe(eventbus.EventConfigSaved, func(e eventbus.DomainEvent) { got <- e })
	bus.Subscribe(eventbus.EventConfigLoaded, func(e eventbus.DomainEvent) { got <- e })

	path := filepath.Join(t.TempDir(), "config.toml")
	svc := NewConfigService(path, bus)
	require.NoError(t, svc.Save(DefaultConfig()))
	_, err := svc.Load()
	require.NoError(t, err)

	for _, want := range []eventbus.EventType{eventbus.EventConfigSaved, eventbus.EventConfigLoaded} {
		select {
		case e := <-got:
			assert.Equal(t, want, e.Type())
		case <-time.After(time.Second):
			t.Fatalf("no %s event", want)
		}
	}
}

func TestDefaultPath(t *testing.T) {
	p := DefaultPath()
	assert.Equal(t, FileName, filepath.Base(p))
	assert.Equal(t, "photogrid", filepath.Base(filepath.Dir(p)))
	assert.Equal(t, p, NewConfigService("", nil).Path())
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PIXABAY_API_KEY", "from-env")
	t.Setenv("PHOTOGRID_CACHE", "bolt")
	t.Setenv("PHOTOGRID_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	cfg.BaseURL = "http://example.test/api/"
	require.NoError(t, ApplyEnv(cfg))

	assert.Equal(t, "from-env", cfg.APIKey)
	assert.Equal(t, "bolt", cfg.Cache.Kind)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "http://example.test/api/", cfg.BaseURL, "unset variables leave the file value")
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("PHOTOGRID_DOTENV_TEST=loaded\n"), 0600))
	t.Cleanup(func() { os.Unsetenv("PHOTOGRID_DOTENV_TEST") })

	require.NoError(t, LoadDotEnv(file, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "loaded", os.Getenv("PHOTOGRID_DOTENV_TEST"))
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"relative url", func(c *Config) { c.BaseURL = "/api" }, false},
		{"ftp url", func(c *Config) { c.BaseURL = "ftp://pixabay.com" }, false},
		{"negative debounce", func(c *Config) { c.DebounceMS = -1 }, false},
		{"zero debounce", func(c *Config) { c.DebounceMS = 0 }, true},
		{"negative rate", func(c *Config) { c.RequestsPerMinute = -5 }, false},
		{"zero timeout", func(c *Config) { c.TimeoutSeconds = 0 }, false},
		{"unknown cache", func(c *Config) { c.Cache.Kind = "redis" }, false},
		{"upper case cache", func(c *Config) { c.Cache.Kind = "BOLT" }, true},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, false},
		{"bad screen", func(c *Config) { c.UI.StartScreen = "map" }, false},
		{"nested screen", func(c *Config) { c.UI.StartScreen = "nested" }, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalid)
			}
		})
	}
}

func TestDurationsAndCacheOptions(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, time.Second, cfg.Debounce())
	assert.Equal(t, 15*time.Second, cfg.Timeout())

	opts := cfg.CacheOptions("/etc/photogrid/config.toml")
	assert.Equal(t, cache.Options{Kind: cache.KindMemory, Size: 128, TTL: 24 * time.Hour}, opts)

	cfg.Cache.Kind = cache.KindBolt
	opts = cfg.CacheOptions("/etc/photogrid/config.toml")
	assert.Equal(t, filepath.Join("/etc/photogrid", "responses.db"), opts.Path)
}
