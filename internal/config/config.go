// Package config loads and validates the querystash configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	yaml "gopkg.in/yaml.v3"

	"github.com/electwix/querystash/pkg/cachestore"
)

// StoreKind selects the cache store implementation.
type StoreKind string

const (
	// StoreFile is the durable sharded file store.
	StoreFile StoreKind = "file"
	// StoreMemory is the process-local store.
	StoreMemory StoreKind = "memory"
)

// Config mirrors the querystash configuration file schema. TOML is the
// native format; YAML is accepted by file extension.
type Config struct {
	CacheRoot       string `toml:"cache_root" yaml:"cache_root"`
	Store           string `toml:"store" yaml:"store"`
	DefaultLifetime string `toml:"default_lifetime" yaml:"default_lifetime"`
	Verbose         bool   `toml:"verbose" yaml:"verbose"`
}

// Settings is the resolved, validated configuration.
type Settings struct {
	CacheRoot       string
	Store           StoreKind
	DefaultLifetime time.Duration
	Verbose         bool
}

// Load reads, parses, and validates the configuration at path.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Settings{}, fmt.Errorf("read %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Settings{}, fmt.Errorf("%s: %w", path, err)
		}
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Settings{}, fmt.Errorf("%s: %w", path, err)
		}
	}

	return resolve(path, cfg)
}

func resolve(path string, cfg Config) (Settings, error) {
	settings := Settings{
		Store:           StoreFile,
		DefaultLifetime: cachestore.DefaultLifetime,
		Verbose:         cfg.Verbose,
	}

	if cfg.Store != "" {
		kind := StoreKind(strings.ToLower(cfg.Store))
		if kind != StoreFile && kind != StoreMemory {
			return Settings{}, fmt.Errorf("%s: unknown store %q (expected %q or %q)", path, cfg.Store, StoreFile, StoreMemory)
		}
		settings.Store = kind
	}

	if cfg.DefaultLifetime != "" {
		lifetime, err := time.ParseDuration(cfg.DefaultLifetime)
		if err != nil {
			return Settings{}, fmt.Errorf("%s: invalid default_lifetime: %w", path, err)
		}
		if lifetime <= 0 {
			return Settings{}, fmt.Errorf("%s: default_lifetime must be positive, got %s", path, lifetime)
		}
		settings.DefaultLifetime = lifetime
	}

	settings.CacheRoot = cfg.CacheRoot
	if settings.Store == StoreFile {
		if settings.CacheRoot == "" {
			return Settings{}, fmt.Errorf("%s: cache_root is required for the file store", path)
		}
		if !filepath.IsAbs(settings.CacheRoot) {
			// Relative roots resolve against the config file directory.
			settings.CacheRoot = filepath.Join(filepath.Dir(path), settings.CacheRoot)
		}
	}

	return settings, nil
}

// OpenStore constructs the configured cache store.
func (s Settings) OpenStore() (cachestore.Store, error) {
	switch s.Store {
	case StoreMemory:
		return cachestore.NewMemoryStore(s.DefaultLifetime), nil
	default:
		return cachestore.NewFileStore(cachestore.FileStoreOptions{
			Root:            s.CacheRoot,
			DefaultLifetime: s.DefaultLifetime,
		})
	}
}
