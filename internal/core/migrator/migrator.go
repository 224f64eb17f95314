// Package migrator upgrades loader documents written by older save formats
// to the current schema version.
package migrator

import (
	"math"

	"github.com/wI2L/jsondiff"

	"github.com/zeusync/mudstate/internal/core/observability/log"
	"github.com/zeusync/mudstate/pkg/encoding"
)

// CurrentVersion is the schema version written by this build.
const CurrentVersion = 3

const (
	keyVersion = "version"
	keyObjects = "objects"
)

// Step is one schema transform. Applies inspects the discriminating field of
// the old layout, so running a step on an already migrated document is a
// no-op.
type Step struct {
	Name    string
	Applies func(doc map[string]any) bool
	Apply   func(doc map[string]any) error
}

// Migrator runs its steps in order.
type Migrator struct {
	steps  []Step
	logger log.Log
}

// New returns a migrator with the built-in schema history.
func New(logger log.Log) *Migrator {
	if logger == nil {
		logger = log.Provide()
	}
	return &Migrator{steps: defaultSteps(), logger: logger}
}

// Steps lists the names of every step in execution order.
func (m *Migrator) Steps() []string {
	names := make([]string, len(m.steps))
	for i, s := range m.steps {
		names[i] = s.Name
	}
	return names
}

// Migrate upgrades doc in place. Migrating an up to date document only
// re-stamps the version.
func (m *Migrator) Migrate(doc map[string]any) error {
	version, err := Version(doc)
	if err != nil {
		return err
	}
	for _, s := range m.steps {
		if !s.Applies(doc) {
			continue
		}
		if err := s.Apply(doc); err != nil {
			return err
		}
		m.logger.Debug("migration step applied",
			log.String("step", s.Name),
			log.Int("from_version", version),
		)
	}
	if _, err := objects("", doc); err != nil {
		return err
	}
	doc[keyVersion] = float64(CurrentVersion)
	return nil
}

// Plan returns the names of the steps Migrate would run on doc. doc is not
// modified.
func (m *Migrator) Plan(doc map[string]any) ([]string, error) {
	if _, err := Version(doc); err != nil {
		return nil, err
	}
	work := Clone(doc).(map[string]any)
	var plan []string
	for _, s := range m.steps {
		if !s.Applies(work) {
			continue
		}
		if err := s.Apply(work); err != nil {
			return plan, err
		}
		plan = append(plan, s.Name)
	}
	if _, err := objects("", work); err != nil {
		return plan, err
	}
	return plan, nil
}

// Version reads the schema version of doc. A missing version is 0.
func Version(doc map[string]any) (int, error) {
	raw, ok := doc[keyVersion]
	if !ok || raw == nil {
		return 0, nil
	}
	f, ok := raw.(float64)
	if !ok {
		return 0, fail("", "version %v is not a number", raw)
	}
	if f < 0 || f != math.Trunc(f) {
		return 0, fail("", "version %v is not a whole number", f)
	}
	if f > CurrentVersion {
		return 0, fail("", "version %v is newer than supported version %d", f, CurrentVersion)
	}
	return int(f), nil
}

// Diff returns the JSON patch turning before into after.
func Diff(before, after map[string]any) (jsondiff.Patch, error) {
	a, err := encoding.Encode(before)
	if err != nil {
		return nil, err
	}
	b, err := encoding.Encode(after)
	if err != nil {
		return nil, err
	}
	return jsondiff.CompareJSON(a, b)
}

// Clone deep copies a document tree.
func Clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = Clone(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Clone(e)
		}
		return out
	default:
		return v
	}
}
