package cache

import (
	"context"
	"fmt"
)

// The browser build has no sockets; remote backends are never available.
func openRemote(_ context.Context, cfg Config) (Cache, error) {
	return nil, fmt.Errorf("%w: %s backend is not supported in the browser", ErrUnavailable, cfg.Backend)
}
