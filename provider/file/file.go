// Package file stores entries as files in one directory. It is the backend
// for persisting encoded text across process runs without a server.
package file

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	pr "github.com/unkn0wn-root/revtext/provider"
)

const ext = ".rvtx"

// Provider maps each key to dir/<sha256(key)[:16]>.rvtx. Writes go to a temp
// file first and are renamed into place, so readers never see a torn entry.
// TTL is ignored.
type Provider struct {
	dir  string
	perm fs.FileMode
}

var _ pr.Provider = (*Provider)(nil)

type Config struct {
	Dir  string      // required; created if missing
	Perm fs.FileMode // 0 => 0o600
}

func New(cfg Config) (*Provider, error) {
	if cfg.Dir == "" {
		return nil, errors.New("file provider: dir is required")
	}
	if cfg.Perm == 0 {
		cfg.Perm = 0o600
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("file provider: %w", err)
	}
	return &Provider{dir: cfg.Dir, perm: cfg.Perm}, nil
}

// Path is where key lives on disk (not part of provider.Provider).
func (p *Provider) Path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(p.dir, hex.EncodeToString(sum[:16])+ext)
}

func (p *Provider) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	b, err := os.ReadFile(p.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (p *Provider) Set(ctx context.Context, key string, value []byte, _ int64, _ time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	tmp, err := os.CreateTemp(p.dir, ".tmp-*")
	if err != nil {
		return false, err
	}
	name := tmp.Name()
	defer os.Remove(name) // no-op after a successful rename

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return false, err
	}
	if err := tmp.Chmod(p.perm); err != nil {
		_ = tmp.Close()
		return false, err
	}
	if err := tmp.Close(); err != nil {
		return false, err
	}
	if err := os.Rename(name, p.Path(key)); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Provider) Del(_ context.Context, key string) error {
	if err := os.Remove(p.Path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (p *Provider) Close(context.Context) error { return nil }
