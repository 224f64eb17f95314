package loader

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Format is the parser a source is read with.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatYAML
	FormatJSON
	FormatCSV
	FormatTSV
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	case FormatCSV:
		return "csv"
	case FormatTSV:
		return "tsv"
	default:
		return "unknown"
	}
}

// Source is one input file.
type Source struct {
	Path   string
	Format Format
}

// Stem is the file name without directory and extension.
func (s Source) Stem() string {
	base := filepath.Base(s.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Classify picks the format from the file extension.
func Classify(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	case ".csv":
		return FormatCSV
	case ".tsv":
		return FormatTSV
	default:
		return FormatUnknown
	}
}

// Discover walks every dir recursively and returns the recognised files
// ordered by path. Files with other extensions are passed to skip, which may
// be nil. Hidden files and directories are ignored.
func Discover(skip func(path string), dirs ...string) ([]Source, error) {
	var sources []Source
	seen := make(map[string]struct{})
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return &IOError{Path: path, Op: "walk", Err: err}
			}
			name := d.Name()
			if path != dir && strings.HasPrefix(name, ".") {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			format := Classify(path)
			if format == FormatUnknown {
				if skip != nil {
					skip(path)
				}
				return nil
			}
			if _, dup := seen[path]; dup {
				return nil
			}
			seen[path] = struct{}{}
			sources = append(sources, Source{Path: path, Format: format})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	slices.SortFunc(sources, func(a, b Source) int { return strings.Compare(a.Path, b.Path) })
	return sources, nil
}

// parseYAML decodes every document of a multi-document stream and merges
// them in order.
func parseYAML(bz []byte) (map[string]any, error) {
	out := map[string]any{}
	dec := yaml.NewDecoder(bytes.NewReader(bz))
	for n := 1; ; n++ {
		var doc map[string]any
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, eris.Wrapf(err, "document %d", n)
		}
		if doc == nil {
			continue
		}
		out = merge(out, normalize(doc)).(map[string]any)
	}
}

func parseJSON(bz []byte) (map[string]any, error) {
	doc, err := DecodeLoaderData(bz)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Schemas is the view of the component registry that parsing needs.
type Schemas interface {
	Has(kind string) bool
	FieldKind(kind string, path ...string) (reflect.Kind, bool)
}

func parseTable(bz []byte, comma rune, stem string, schemas Schemas) (map[string]any, error) {
	t, err := ReadTable(bytes.NewReader(bz), comma)
	if err != nil {
		return nil, err
	}
	kind, _ := stemKind(stem, schemas.Has)
	return t.Document(kind, schemas.FieldKind)
}

// parse dispatches on the source format. It never touches the filesystem.
func parse(src Source, bz []byte, schemas Schemas) (map[string]any, error) {
	var (
		doc map[string]any
		err error
	)
	switch src.Format {
	case FormatYAML:
		doc, err = parseYAML(bz)
	case FormatJSON:
		doc, err = parseJSON(bz)
	case FormatCSV:
		doc, err = parseTable(bz, ',', src.Stem(), schemas)
	case FormatTSV:
		doc, err = parseTable(bz, '\t', src.Stem(), schemas)
	default:
		err = eris.Errorf("unsupported format %s", src.Format)
	}
	if err != nil {
		return nil, &ParseError{Source: src.Path, Cause: err}
	}
	return doc, nil
}
