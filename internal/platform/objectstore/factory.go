package objectstore

import (
	"context"
	"fmt"
)

// Driver identifiers supported by the object store.
const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

// New creates an object store based on the provided configuration.
func New(ctx context.Context, cfg Config) (Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverLocal
	}

	switch driver {
	case DriverLocal:
		return NewLocal(cfg)
	case DriverS3:
		return NewS3(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported object store driver: %s", driver)
	}
}
