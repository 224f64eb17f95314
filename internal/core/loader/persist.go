package loader

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/rotisserie/eris"
	"github.com/wI2L/jsondiff"

	"github.com/zeusync/mudstate/internal/core/migrator"
	"github.com/zeusync/mudstate/internal/core/observability/log"
	"github.com/zeusync/mudstate/internal/core/storage"
)

// WriteSnapshot stores data at path as indented JSON. The write is atomic and
// skipped when the file already holds identical content.
func (l *Loader) WriteSnapshot(ctx context.Context, path string, data LoaderData) error {
	bz, err := data.Encode()
	if err != nil {
		return err
	}
	existing, err := l.storage.Read(ctx, path)
	switch {
	case err == nil && xxhash.Sum64(existing) == xxhash.Sum64(bz):
		l.logger.Debug("snapshot unchanged", log.Path(path))
		return nil
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		return &IOError{Path: path, Op: "read", Err: err}
	}
	if err := l.storage.Write(ctx, path, bz); err != nil {
		return &IOError{Path: path, Op: "write", Err: err}
	}
	l.logger.Info("snapshot written", log.Path(path), log.Int("bytes", len(bz)))
	return nil
}

// ReadSnapshot reads and migrates a single saved document.
func (l *Loader) ReadSnapshot(ctx context.Context, path string) (LoaderData, error) {
	data, err := l.readDocument(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := l.migrator.Migrate(data); err != nil {
		return nil, err
	}
	return data, nil
}

func (l *Loader) readDocument(ctx context.Context, path string) (LoaderData, error) {
	bz, err := l.storage.Read(ctx, path)
	if err != nil {
		return nil, &IOError{Path: path, Op: "read", Err: err}
	}
	data, err := DecodeLoaderData(bz)
	if err != nil {
		return nil, &ParseError{Source: path, Cause: err}
	}
	return data, nil
}

// MigrateFile upgrades the document at path in place. The file is left
// untouched when reading or migrating fails.
func (l *Loader) MigrateFile(ctx context.Context, path string) error {
	data, err := l.readDocument(ctx, path)
	if err != nil {
		return err
	}
	from := data.Version()
	if err := l.migrator.Migrate(data); err != nil {
		return eris.Wrapf(err, "migrate %s", path)
	}
	if err := l.WriteSnapshot(ctx, path, data); err != nil {
		return err
	}
	l.logger.Info("file migrated",
		log.Path(path),
		log.Int("from_version", from),
		log.Int("to_version", migrator.CurrentVersion),
	)
	return nil
}

// Plan describes what MigrateFile would do.
type Plan struct {
	Path  string
	Steps []string
	Patch jsondiff.Patch
}

// PlanFile is the dry run of MigrateFile.
func (l *Loader) PlanFile(ctx context.Context, path string) (*Plan, error) {
	data, err := l.readDocument(ctx, path)
	if err != nil {
		return nil, err
	}
	before := map[string]any(data)
	steps, err := l.migrator.Plan(before)
	if err != nil {
		return nil, eris.Wrapf(err, "plan %s", path)
	}
	after := migrator.Clone(before).(map[string]any)
	if err := l.migrator.Migrate(after); err != nil {
		return nil, eris.Wrapf(err, "plan %s", path)
	}
	patch, err := migrator.Diff(before, after)
	if err != nil {
		return nil, err
	}
	return &Plan{Path: path, Steps: steps, Patch: patch}, nil
}

// Generate consolidates every source below srcDirs into outDir/name. Earlier
// generated JSON files in outDir are removed first so they are never merged
// back in. Any failed source aborts before anything is written.
func (l *Loader) Generate(ctx context.Context, outDir, name string, srcDirs ...string) (string, error) {
	keys, err := l.storage.List(ctx, outDir)
	if err != nil {
		return "", &IOError{Path: outDir, Op: "list", Err: err}
	}
	for _, key := range keys {
		if Classify(key) != FormatJSON {
			continue
		}
		if err := l.storage.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return "", &IOError{Path: key, Op: "delete", Err: err}
		}
		l.logger.Debug("removed generated file", log.Path(key))
	}

	data, err := l.ReadFolders(ctx, srcDirs...)
	if err != nil {
		return "", err
	}
	out := filepath.Join(outDir, name)
	if err := l.WriteSnapshot(ctx, out, data); err != nil {
		return "", err
	}
	return out, nil
}
