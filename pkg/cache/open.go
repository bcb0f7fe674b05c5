package cache

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendNull   = "null"
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Backend    string
	Dir        string
	MaxEntries int
	Redis      RedisOptions
	Mongo      MongoOptions
}

// Open builds the backend named by cfg.Backend. An empty name selects the
// null cache.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case "", BackendNull:
		return NewNullCache(), nil
	case BackendMemory:
		return NewMemoryCache(cfg.MaxEntries), nil
	case BackendFile:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("file cache: no directory configured")
		}
		c, err := NewFileCache(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis, BackendMongo:
		return openRemote(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// RedisOptions configures a RedisCache.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int

	// KeyPrefix namespaces every key written by this cache.
	KeyPrefix string
}

// MongoOptions configures a MongoCache.
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
}
