// Package config loads treescape settings from TOML.
//
// Every field has a default, so an empty file (or no file) is valid:
//
//	[placement.hub]
//	base_radius = 6.0
//	radius_increment = 0.4
//	nodes_per_ring = 6
//	ring_height = 1.5
//
//	[walkthrough]
//	door_width = 2.0
//	row_length = 4
//
//	[cache]
//	backend = "file"     # none | file | redis
//	ttl = "168h"
//	prefix = ""          # key prefix, e.g. "treescape:staging:"
//
//	[store]
//	backend = "sqlite"   # memory | sqlite | mongo
//	path = "~/.local/share/treescape/trees.db"
//
//	[server]
//	addr = ":8080"
//
// Unknown keys are rejected so typos do not silently fall back to defaults.
package config

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/treescape/pkg/cache"
	"github.com/matzehuels/treescape/pkg/errors"
	"github.com/matzehuels/treescape/pkg/placement"
	"github.com/matzehuels/treescape/pkg/store"
	"github.com/matzehuels/treescape/pkg/walkthrough"
)

// AppName names the configuration, cache and data directories.
const AppName = "treescape"

// Config is the complete configuration.
type Config struct {
	Placement   placement.Profiles `toml:"placement"`
	Walkthrough walkthrough.Config `toml:"walkthrough"`
	Cache       Cache              `toml:"cache"`
	Store       Store              `toml:"store"`
	Server      Server             `toml:"server"`
}

// Cache selects the result cache.
type Cache struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`
	// Prefix scopes every cache key, for deployments sharing one Redis.
	Prefix string `toml:"prefix"`
}

// Store selects the tree store.
type Store struct {
	Backend       string `toml:"backend"`
	Path          string `toml:"path"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Server configures the HTTP API.
type Server struct {
	Addr        string `toml:"addr"`
	MaxTextSize int    `toml:"max_text_size"`
}

// Duration is a time.Duration written as a Go duration string.
type Duration struct{ time.Duration }

// UnmarshalText parses strings such as "90m" or "168h".
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Placement:   placement.DefaultProfiles(),
		Walkthrough: walkthrough.DefaultConfig(),
		Cache: Cache{
			Backend:   cache.BackendFile,
			Dir:       defaultDir("XDG_CACHE_HOME", ".cache"),
			RedisAddr: "localhost:6379",
			TTL:       Duration{cache.TTLWalkthrough},
		},
		Store: Store{
			Backend:       store.BackendSQLite,
			Path:          filepath.Join(defaultDir("XDG_DATA_HOME", filepath.Join(".local", "share")), "trees.db"),
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: AppName,
		},
		Server: Server{
			Addr:        ":8080",
			MaxTextSize: 4096,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/treescape/config.toml, falling back
// to ~/.config.
func DefaultPath() string {
	return filepath.Join(defaultDir("XDG_CONFIG_HOME", ".config"), "config.toml")
}

func defaultDir(env, fallback string) string {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName)
	}
	return filepath.Join(home, fallback, AppName)
}

// Load reads path on top of the defaults. An empty path loads
// [DefaultPath] if it exists and returns the defaults otherwise.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath()
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return Default(), nil
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", path)
	}
	return cfg, nil
}

// Parse decodes TOML on top of the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	// Lists replace defaults instead of merging with them.
	cfg.Walkthrough.Palette = nil
	cfg.Walkthrough.Colors = nil

	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("decode: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if len(cfg.Walkthrough.Palette) == 0 {
		cfg.Walkthrough.Palette = walkthrough.DefaultConfig().Palette
	}
	if len(cfg.Walkthrough.Colors) == 0 {
		cfg.Walkthrough.Colors = walkthrough.DefaultConfig().Colors
	}
	cfg.expandPaths()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

func (c *Config) expandPaths() {
	c.Cache.Dir = expandHome(c.Cache.Dir)
	c.Store.Path = expandHome(c.Store.Path)
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}

// Validate checks every section.
func (c Config) Validate() error {
	for name, p := range map[string]placement.RingProfile{
		"hub":         c.Placement.Hub,
		"aggregation": c.Placement.Aggregation,
	} {
		if err := validateRing(p); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "placement.%s", name)
		}
	}
	if err := validateHelix(c.Placement.Helix); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "placement.helix")
	}
	if err := c.Walkthrough.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "walkthrough")
	}

	switch c.Cache.Backend {
	case cache.BackendNone, cache.BackendFile, cache.BackendRedis:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend %q: want none, file or redis", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	switch c.Store.Backend {
	case store.BackendMemory, store.BackendSQLite, store.BackendMongo:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "store.backend %q: want memory, sqlite or mongo", c.Store.Backend)
	}
	if c.Server.MaxTextSize < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.max_text_size must not be negative")
	}
	return nil
}

func validateRing(p placement.RingProfile) error {
	if p.NodesPerRing < 1 {
		return fmt.Errorf("nodes_per_ring must be at least 1")
	}
	if !finite(p.BaseRadius, p.RadiusIncrement, p.RingHeight) {
		return fmt.Errorf("constants must be finite")
	}
	if p.BaseRadius <= 0 || p.RadiusIncrement <= 0 {
		return fmt.Errorf("base_radius and radius_increment must be positive")
	}
	return nil
}

func validateHelix(p placement.HelixProfile) error {
	if !finite(p.BaseDistance, p.DistanceIncrement, p.TurnsPerNode, p.HelixRadius) {
		return fmt.Errorf("constants must be finite")
	}
	if p.DistanceIncrement <= 0 {
		return fmt.Errorf("distance_increment must be positive")
	}
	return nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// CacheOptions converts the cache section for [cache.Open].
func (c Config) CacheOptions() cache.Options {
	return cache.Options{Backend: c.Cache.Backend, Dir: c.Cache.Dir, RedisAddr: c.Cache.RedisAddr}
}

// StoreOptions converts the store section for [store.Open].
func (c Config) StoreOptions() store.Options {
	return store.Options{
		Backend:       c.Store.Backend,
		Path:          c.Store.Path,
		MongoURI:      c.Store.MongoURI,
		MongoDatabase: c.Store.MongoDatabase,
	}
}
