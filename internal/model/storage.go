package model

import (
	"context"
	"io"
)

// Storage is the object store holding exported snapshots.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader) error
}
