package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rotisserie/eris"
)

var _ Storage = (*Dir)(nil)

// Dir stores each value as a file. Keys are slash separated paths relative to
// the root; with an empty root keys are plain filesystem paths.
type Dir struct {
	root  string
	perm  fs.FileMode
	stats counters
}

func NewDir(root string) *Dir {
	return &Dir{root: root, perm: 0o644}
}

func (d *Dir) path(key string) (string, error) {
	if key == "" {
		return "", eris.Wrap(ErrInvalidKey, "empty key")
	}
	if d.root == "" {
		return filepath.Clean(key), nil
	}
	p := filepath.Join(d.root, filepath.FromSlash(key))
	if rel, err := filepath.Rel(d.root, p); err != nil || strings.HasPrefix(rel, "..") {
		return "", eris.Wrapf(ErrInvalidKey, "key %q escapes root", key)
	}
	return p, nil
}

func (d *Dir) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := d.path(key)
	if err != nil {
		return nil, err
	}
	bz, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrapf(ErrNotFound, "read %s", key)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "read %s", key)
	}
	d.stats.reads.Add(1)
	return bz, nil
}

// Write stores value through a temporary file in the target directory that is
// synced and renamed over the destination.
func (d *Dir) Write(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := d.path(key)
	if err != nil {
		return err
	}
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "write %s", key)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(p)+".*.tmp")
	if err != nil {
		return eris.Wrapf(err, "write %s", key)
	}
	cleanup := func() { _ = os.Remove(tmp.Name()) }

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		cleanup()
		return eris.Wrapf(err, "write %s", key)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return eris.Wrapf(err, "sync %s", key)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return eris.Wrapf(err, "close %s", key)
	}
	if err := os.Chmod(tmp.Name(), d.perm); err != nil {
		cleanup()
		return eris.Wrapf(err, "chmod %s", key)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		cleanup()
		return eris.Wrapf(err, "rename %s", key)
	}
	d.stats.writes.Add(1)
	return nil
}

func (d *Dir) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := d.path(key)
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if errors.Is(err, fs.ErrNotExist) {
		return eris.Wrapf(ErrNotFound, "delete %s", key)
	}
	if err != nil {
		return eris.Wrapf(err, "delete %s", key)
	}
	d.stats.deletes.Add(1)
	return nil
}

func (d *Dir) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	p, err := d.path(key)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, eris.Wrapf(err, "stat %s", key)
	}
	return info.Mode().IsRegular(), nil
}

// List skips subdirectories and in-flight temporary files. A missing dir is
// empty.
func (d *Dir) List(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := d.root
	if dir != "" {
		var err error
		if p, err = d.path(dir); err != nil {
			return nil, err
		}
	}
	if p == "" {
		p = "."
	}
	entries, err := os.ReadDir(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "list %s", dir)
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasSuffix(e.Name(), ".tmp") {
			continue
		}
		if dir == "" {
			keys = append(keys, e.Name())
		} else if d.root == "" {
			keys = append(keys, filepath.Join(dir, e.Name()))
		} else {
			keys = append(keys, dir+"/"+e.Name())
		}
	}
	slices.Sort(keys)
	return keys, nil
}

func (d *Dir) Statistics() Statistics {
	return d.stats.snapshot()
}
