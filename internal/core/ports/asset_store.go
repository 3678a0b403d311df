package ports

import (
	"context"
	"io"
)

// AssetStore persists uploaded binaries and returns a path clients can fetch.
type AssetStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
	Delete(ctx context.Context, path string) error
}
