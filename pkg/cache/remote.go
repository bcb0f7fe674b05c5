//go:build !js

package cache

import "context"

func openRemote(ctx context.Context, cfg Config) (Cache, error) {
	if cfg.Backend == BackendRedis {
		c, err := NewRedisCache(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	c, err := NewMongoCache(ctx, cfg.Mongo)
	if err != nil {
		return nil, err
	}
	return c, nil
}
