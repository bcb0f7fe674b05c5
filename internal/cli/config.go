package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/seqdia/internal/server"
	"github.com/matzehuels/seqdia/pkg/cache"
	"github.com/matzehuels/seqdia/pkg/fonts"
	"github.com/matzehuels/seqdia/pkg/render/sketch"
)

// Environment variables that override the config file.
const (
	envAddr      = "SEQDIA_ADDR"
	envCache     = "SEQDIA_CACHE"
	envRedisAddr = "SEQDIA_REDIS_ADDR"
	envMongoURI  = "SEQDIA_MONGO_URI"
)

const (
	defaultAddr       = "localhost:8080"
	defaultMaxEntries = 1024
)

// Config is the contents of config.toml.
type Config struct {
	Server serverSection `toml:"server"`
	Cache  cacheSection  `toml:"cache"`
	Render renderSection `toml:"render"`
	Log    logSection    `toml:"log"`
}

type serverSection struct {
	Addr    string `toml:"addr"`
	BaseURL string `toml:"base_url"`
	MaxBody int64  `toml:"max_body"`
	WasmDir string `toml:"wasm_dir"`
}

type cacheSection struct {
	Backend    string        `toml:"backend"`
	TTL        time.Duration `toml:"ttl"`
	Dir        string        `toml:"dir"`
	MaxEntries int           `toml:"max_entries"`
	Redis      redisSection  `toml:"redis"`
	Mongo      mongoSection  `toml:"mongo"`
}

type redisSection struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type mongoSection struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// renderSection styles the sketch view. Roughness is a pointer so that an
// explicit 0 (straight lines) differs from "unset".
type renderSection struct {
	Font       string   `toml:"font"`
	Background string   `toml:"background"`
	Roughness  *float64 `toml:"roughness"`
}

type logSection struct {
	Level string `toml:"level"`
}

// loadConfig reads path, or the default config file when path is empty,
// then applies environment overrides. A missing default file is not an
// error; a missing explicit path is.
func loadConfig(path string) (*Config, error) {
	cfg := &Config{}

	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err == nil {
			path = filepath.Join(dir, "config.toml")
		}
	}

	if path != "" {
		_, err := toml.DecodeFile(path, cfg)
		switch {
		case err == nil:
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}
	}

	cfg.applyEnv(os.Getenv)
	return cfg, nil
}

// config loads the configuration for a command. The [log] level applies
// unless --verbose already raised it.
func (c *CLI) config() (*Config, error) {
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Log.Level != "" && c.Logger.GetLevel() == log.InfoLevel {
		level, err := log.ParseLevel(cfg.Log.Level)
		if err != nil {
			return nil, fmt.Errorf("log.level: %w", err)
		}
		c.SetLogLevel(level)
	}
	return cfg, nil
}

func (cfg *Config) applyEnv(getenv func(string) string) {
	if v := getenv(envAddr); v != "" {
		cfg.Server.Addr = v
	}
	if v := getenv(envCache); v != "" {
		cfg.Cache.Backend = v
	}
	if v := getenv(envRedisAddr); v != "" {
		cfg.Cache.Redis.Addr = v
	}
	if v := getenv(envMongoURI); v != "" {
		cfg.Cache.Mongo.URI = v
	}
}

// cacheConfig translates the [cache] section. fallback is used when no
// backend is configured.
func (cfg *Config) cacheConfig(fallback string) cache.Config {
	c := cfg.Cache
	backend := c.Backend
	if backend == "" {
		backend = fallback
	}

	dir := c.Dir
	if dir == "" && backend == cache.BackendFile {
		dir, _ = cacheDir()
	}
	maxEntries := c.MaxEntries
	if maxEntries == 0 {
		maxEntries = defaultMaxEntries
	}

	return cache.Config{
		Backend:    backend,
		Dir:        dir,
		MaxEntries: maxEntries,
		Redis: cache.RedisOptions{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
		},
		Mongo: cache.MongoOptions{
			URI:        c.Mongo.URI,
			Database:   c.Mongo.Database,
			Collection: c.Mongo.Collection,
		},
	}
}

// sketchOptions translates the [render] section.
func (cfg *Config) sketchOptions() []sketch.Option {
	r := cfg.Render
	opts := []sketch.Option{sketch.WithFontFamily(fonts.Stack(r.Font))}
	if r.Background != "" {
		opts = append(opts, sketch.WithBackground(r.Background))
	}
	if r.Roughness != nil {
		opts = append(opts, sketch.WithRoughness(*r.Roughness))
	}
	return opts
}

// styleKey identifies the [render] settings in cache keys, so changing
// the style does not serve artifacts drawn with the old one.
func (r renderSection) styleKey() string {
	roughness := "-"
	if r.Roughness != nil {
		roughness = fmt.Sprint(*r.Roughness)
	}
	return cache.Hash([]byte(r.Font + "\x00" + r.Background + "\x00" + roughness))[:8]
}

// serverConfig translates the [server] section.
func (cfg *Config) serverConfig() server.Config {
	addr := cfg.Server.Addr
	if addr == "" {
		addr = defaultAddr
	}
	return server.Config{
		Addr:    addr,
		BaseURL: cfg.Server.BaseURL,
		MaxBody: cfg.Server.MaxBody,
		WasmDir: cfg.Server.WasmDir,
	}
}
