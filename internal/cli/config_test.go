package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/seqdia/pkg/cache"
)

const sampleConfig = `
[server]
addr = ":9000"
base_url = "https://seqdia.example"
max_body = 4096
wasm_dir = "/srv/seqdia/wasm"

[cache]
backend = "redis"
ttl = "2h"

[cache.redis]
addr = "redis:6379"
db = 2

[cache.mongo]
uri = "mongodb://mongo:27017"
database = "seqdia"

[log]
level = "debug"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{envAddr, envCache, envRedisAddr, envMongoURI} {
		t.Setenv(k, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestLoadConfig(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := loadConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}

	if cfg.Server.Addr != ":9000" || cfg.Server.BaseURL != "https://seqdia.example" || cfg.Server.MaxBody != 4096 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if got := cfg.serverConfig().WasmDir; got != "/srv/seqdia/wasm" {
		t.Errorf("serverConfig().WasmDir = %q", got)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.TTL != 2*time.Hour {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Cache.Redis.Addr != "redis:6379" || cfg.Cache.Redis.DB != 2 {
		t.Errorf("redis = %+v", cfg.Cache.Redis)
	}
	if cfg.Cache.Mongo.URI != "mongodb://mongo:27017" || cfg.Cache.Mongo.Database != "seqdia" {
		t.Errorf("mongo = %+v", cfg.Cache.Mongo)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	clearConfigEnv(t)

	t.Run("default file", func(t *testing.T) {
		cfg, err := loadConfig("")
		if err != nil {
			t.Fatalf("missing default config should not fail: %v", err)
		}
		if cfg.Cache.Backend != "" {
			t.Errorf("backend = %q, want empty", cfg.Cache.Backend)
		}
	})

	t.Run("explicit path", func(t *testing.T) {
		if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("missing explicit config should fail")
		}
	})

	t.Run("invalid toml", func(t *testing.T) {
		if _, err := loadConfig(writeConfig(t, "[server\naddr=")); err == nil {
			t.Error("invalid TOML should fail")
		}
	})
}

func TestLoadConfigEnv(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv(envAddr, ":7000")
	t.Setenv(envCache, "mongo")
	t.Setenv(envRedisAddr, "other:6379")
	t.Setenv(envMongoURI, "mongodb://env")

	cfg, err := loadConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}

	tests := []struct {
		name, got, want string
	}{
		{"addr", cfg.Server.Addr, ":7000"},
		{"backend", cfg.Cache.Backend, "mongo"},
		{"redis", cfg.Cache.Redis.Addr, "other:6379"},
		{"mongo", cfg.Cache.Mongo.URI, "mongodb://env"},
		{"untouched", cfg.Server.BaseURL, "https://seqdia.example"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestCacheConfig(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	tests := []struct {
		name     string
		section  cacheSection
		fallback string
		backend  string
		wantDir  bool
	}{
		{"fallback memory", cacheSection{}, cache.BackendMemory, cache.BackendMemory, false},
		{"fallback file gets dir", cacheSection{}, cache.BackendFile, cache.BackendFile, true},
		{"configured wins", cacheSection{Backend: cache.BackendNull}, cache.BackendFile, cache.BackendNull, false},
		{"explicit dir", cacheSection{Backend: cache.BackendFile, Dir: "/tmp/x"}, "", cache.BackendFile, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Cache: tt.section}
			cc := cfg.cacheConfig(tt.fallback)
			if cc.Backend != tt.backend {
				t.Errorf("Backend = %q, want %q", cc.Backend, tt.backend)
			}
			if (cc.Dir != "") != tt.wantDir {
				t.Errorf("Dir = %q, wantDir %v", cc.Dir, tt.wantDir)
			}
			if cc.MaxEntries != defaultMaxEntries {
				t.Errorf("MaxEntries = %d, want %d", cc.MaxEntries, defaultMaxEntries)
			}
		})
	}
}

func TestServerConfigDefaults(t *testing.T) {
	cfg := &Config{}
	if got := cfg.serverConfig().Addr; got != defaultAddr {
		t.Errorf("Addr = %q, want %q", got, defaultAddr)
	}
}

func TestCLIConfigLogLevel(t *testing.T) {
	clearConfigEnv(t)

	tests := []struct {
		name    string
		content string
		start   string
		want    string
		wantErr bool
	}{
		{"file raises level", `[log]` + "\n" + `level = "warn"`, "info", "warn", false},
		{"verbose wins", `[log]` + "\n" + `level = "warn"`, "debug", "debug", false},
		{"bad level", `[log]` + "\n" + `level = "loud"`, "info", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(os.Stderr, LogInfo)
			if tt.start == "debug" {
				c.Logger.SetLevel(LogDebug)
			}
			c.configPath = writeConfig(t, tt.content)

			_, err := c.config()
			if (err != nil) != tt.wantErr {
				t.Fatalf("config() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got := c.Logger.GetLevel().String(); got != tt.want {
				t.Errorf("level = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderSection(t *testing.T) {
	clearConfigEnv(t)
	path := writeConfig(t, "[render]\nfont = \"sans\"\nbackground = \"#fff\"\nroughness = 0.0\n")

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Render.Font != "sans" || cfg.Render.Background != "#fff" {
		t.Errorf("Render = %+v", cfg.Render)
	}
	if cfg.Render.Roughness == nil || *cfg.Render.Roughness != 0 {
		t.Errorf("Roughness = %v, want explicit 0", cfg.Render.Roughness)
	}
	if got := len(cfg.sketchOptions()); got != 3 {
		t.Errorf("len(sketchOptions()) = %d, want 3", got)
	}
	if got := len((&Config{}).sketchOptions()); got != 1 {
		t.Errorf("default sketchOptions() has %d options, want only the font", got)
	}

	if cfg.Render.styleKey() == (renderSection{}).styleKey() {
		t.Error("styleKey should change with the [render] settings")
	}
	if a, b := cfg.Render.styleKey(), cfg.Render.styleKey(); a != b {
		t.Errorf("styleKey not deterministic: %q vs %q", a, b)
	}
}
