// Package loader builds worlds from authoring files and saves, and writes
// worlds back out. Sources are discovered, parsed in parallel, merged in path
// order, migrated to the current schema and instantiated into repositories.
package loader

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/zeusync/mudstate/internal/core/migrator"
	"github.com/zeusync/mudstate/internal/core/objid"
	"github.com/zeusync/mudstate/internal/core/observability/log"
	"github.com/zeusync/mudstate/internal/core/schema/registry"
	"github.com/zeusync/mudstate/internal/core/snapshot"
	"github.com/zeusync/mudstate/internal/core/storage"
	"github.com/zeusync/mudstate/pkg/concurrent"
)

const defaultWorkers = 4

// Target receives instantiated data. The world implements it.
type Target interface {
	snapshot.Provider
	Observe(id objid.ObjId)
}

type Option func(*Loader)

func WithLogger(l log.Log) Option {
	return func(ld *Loader) { ld.logger = l }
}

// WithWorkers bounds the number of files parsed at once.
func WithWorkers(n int) Option {
	return func(ld *Loader) {
		if n > 0 {
			ld.workers = n
		}
	}
}

// WithStorage replaces the filesystem store. Keys are source paths.
func WithStorage(s storage.Storage) Option {
	return func(ld *Loader) { ld.storage = s }
}

func WithMigrator(m *migrator.Migrator) Option {
	return func(ld *Loader) { ld.migrator = m }
}

type Loader struct {
	registry *registry.Registry
	migrator *migrator.Migrator
	storage  storage.Storage
	logger   log.Log
	workers  int
}

// New returns a loader resolving kinds against reg.
func New(reg *registry.Registry, opts ...Option) *Loader {
	l := &Loader{
		registry: reg,
		workers:  defaultWorkers,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = log.Provide()
	}
	if l.migrator == nil {
		l.migrator = migrator.New(l.logger)
	}
	if l.storage == nil {
		l.storage = storage.NewDir("")
	}
	return l
}

func (l *Loader) Migrator() *migrator.Migrator {
	return l.migrator
}

// ReadFolders discovers every source below dirs and reads them. See
// ReadFiles for the result contract.
func (l *Loader) ReadFolders(ctx context.Context, dirs ...string) (LoaderData, error) {
	sources, err := Discover(func(path string) {
		l.logger.Debug("ignoring file", log.Path(path))
	}, dirs...)
	if err != nil {
		return nil, err
	}
	l.logger.Info("sources discovered",
		log.Strings("dirs", dirs),
		log.Int("count", len(sources)),
	)
	return l.read(ctx, sources)
}

// ReadFiles parses, merges and migrates the given files. Files with an
// unrecognised extension are ignored.
//
// When some files fail the merged data of the others is returned together
// with a *SourceErrors; callers must not treat that data as complete. Merge
// and migration failures return nil data.
func (l *Loader) ReadFiles(ctx context.Context, paths ...string) (LoaderData, error) {
	sources := make([]Source, 0, len(paths))
	for _, p := range paths {
		format := Classify(p)
		if format == FormatUnknown {
			l.logger.Debug("ignoring file", log.Path(p))
			continue
		}
		sources = append(sources, Source{Path: p, Format: format})
	}
	slices.SortFunc(sources, func(a, b Source) int { return strings.Compare(a.Path, b.Path) })
	sources = slices.CompactFunc(sources, func(a, b Source) bool { return a.Path == b.Path })
	return l.read(ctx, sources)
}

func (l *Loader) read(ctx context.Context, sources []Source) (LoaderData, error) {
	docs, errs := concurrent.Map(ctx, sources, l.workers, l.readSource)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	failed := &SourceErrors{}
	merged := map[string]any{}
	for i, src := range sources {
		if errs[i] != nil {
			l.logger.Warn("source failed", log.Path(src.Path), log.Error(errs[i]))
			failed.add(errs[i])
			continue
		}
		merged = merge(merged, docs[i]).(map[string]any)
	}

	if err := l.migrator.Migrate(merged); err != nil {
		return nil, eris.Wrap(err, "merged document")
	}
	data := LoaderData(merged)
	if _, ok := data[keyObjects]; !ok {
		data[keyObjects] = []any{}
	}
	objects, err := data.Objects()
	if err != nil {
		return nil, err
	}
	l.logger.Info("sources merged",
		log.Int("sources", len(sources)-len(failed.Errors)),
		log.Int("failed", len(failed.Errors)),
		log.Int("objects", len(objects)),
	)
	return data, failed.orNil()
}

// readSource loads and parses one file and brings it to the current schema
// so that merging never mixes layouts.
func (l *Loader) readSource(ctx context.Context, src Source) (map[string]any, error) {
	bz, err := l.storage.Read(ctx, src.Path)
	if err != nil {
		return nil, &IOError{Path: src.Path, Op: "read", Err: err}
	}
	doc, err := parse(src, bz, l.registry)
	if err != nil {
		return nil, err
	}
	if err := l.migrator.Migrate(doc); err != nil {
		return nil, &ParseError{Source: src.Path, Cause: err}
	}
	l.logger.Debug("source parsed", log.Path(src.Path), log.String("format", src.Format.String()))
	return doc, nil
}

// Instantiate loads data into target. The whole document is validated first:
// ids, kinds, duplicate (id, kind) pairs and every value's decoding. Nothing
// is loaded when any check fails. Loaded ids are reported to target.Observe.
func (l *Loader) Instantiate(data LoaderData, target Target) error {
	supports := target.Supports()
	kinds := make([]string, len(supports))
	for i, s := range supports {
		kinds[i] = s.Kind()
	}

	snap, err := data.ToSnapshot(kinds)
	if err != nil {
		return err
	}

	var errs []error
	for _, kind := range snap.AllKinds() {
		if !l.registry.Has(kind) {
			continue
		}
		for _, e := range snap.Entries(kind) {
			if err := l.registry.Validate(kind, e.ID, e.Value); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	for _, s := range supports {
		if err := s.LoadSnapshot(snap); err != nil {
			return eris.Wrapf(err, "load %s", s.Kind())
		}
	}
	ids := snap.IDs()
	for _, id := range ids {
		target.Observe(id)
	}
	l.logger.Info("world instantiated", log.Int("objects", len(ids)))
	return nil
}

// CreateSnapshot extracts every dynamic object of p, sorted by id.
func (l *Loader) CreateSnapshot(p snapshot.Provider) (LoaderData, error) {
	snap, err := snapshot.Capture(p)
	if err != nil {
		return nil, err
	}
	return FromSnapshot(snap)
}

// LoadWorld reads every source below dirs into target. Any failed source
// aborts the load before target is touched.
func (l *Loader) LoadWorld(ctx context.Context, target Target, dirs ...string) error {
	data, err := l.ReadFolders(ctx, dirs...)
	if err != nil {
		return err
	}
	return l.Instantiate(data, target)
}
