package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/tastybite/food-ordering/internal/core/domain"
)

// PublicPrefix is the URL prefix under which stored assets are served.
const PublicPrefix = "/uploads/"

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// LocalStore writes uploads to a directory on disk.
type LocalStore struct {
	dir      string
	maxBytes int64
}

// NewLocalStore creates dir if needed. maxBytes <= 0 disables the size cap.
func NewLocalStore(dir string, maxBytes int64) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, maxBytes: maxBytes}, nil
}

// Dir returns the directory assets are written to.
func (s *LocalStore) Dir() string { return s.dir }

// Save stores r under a random name that keeps the original extension and
// returns its public path.
func (s *LocalStore) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w: unsupported image type %q", domain.ErrValidation, ext)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uuid.NewString() + ext
	full := filepath.Join(s.dir, name)

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create asset: %w", err)
	}

	src := r
	if s.maxBytes > 0 {
		src = io.LimitReader(r, s.maxBytes+1)
	}
	n, err := io.Copy(f, src)
	closeErr := f.Close()
	switch {
	case err != nil:
		_ = os.Remove(full)
		return "", fmt.Errorf("write asset: %w", err)
	case closeErr != nil:
		_ = os.Remove(full)
		return "", fmt.Errorf("close asset: %w", closeErr)
	case s.maxBytes > 0 && n > s.maxBytes:
		_ = os.Remove(full)
		return "", fmt.Errorf("%w: image exceeds %d bytes", domain.ErrValidation, s.maxBytes)
	}

	return PublicPrefix + name, nil
}

// Delete removes an asset previously returned by Save. Missing files are not an error.
func (s *LocalStore) Delete(_ context.Context, p string) error {
	if !strings.HasPrefix(p, PublicPrefix) {
		return fmt.Errorf("not a stored asset: %q", p)
	}
	name := path.Base(p)
	if name == "." || name == "/" || name == ".." {
		return fmt.Errorf("not a stored asset: %q", p)
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove asset: %w", err)
	}
	return nil
}
