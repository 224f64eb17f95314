package loader

import (
	"encoding/csv"
	"io"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Table is a parsed CSV or TSV file: a header and rows of typed cells. A cell
// is nil (empty), bool, float64 or string.
type Table struct {
	Header []string
	Rows   [][]any

	// text holds the trimmed cells before typing.
	text [][]string
}

// FieldKindFunc reports the kind of a component field addressed by its JSON
// path.
type FieldKindFunc func(kind string, path ...string) (reflect.Kind, bool)

// ReadTable parses delimited text. Lines starting with '#' are comments and
// every row must have as many cells as the header.
func ReadTable(r io.Reader, comma rune) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, eris.New("missing header row")
	}
	if err != nil {
		return nil, eris.Wrap(err, "header")
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
		if header[i] == "" {
			return nil, eris.Errorf("column %d has an empty name", i+1)
		}
	}
	if dup := duplicate(header); dup != "" {
		return nil, eris.Errorf("column %q appears twice", dup)
	}

	t := &Table{Header: header}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "row")
		}
		row := make([]any, len(record))
		text := make([]string, len(record))
		for i, cell := range record {
			text[i] = strings.TrimSpace(cell)
			row[i] = typedCell(text[i])
		}
		t.Rows = append(t.Rows, row)
		t.text = append(t.text, text)
	}
	return t, nil
}

func duplicate(names []string) string {
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			return sorted[i]
		}
	}
	return ""
}

func typedCell(cell string) any {
	s := strings.TrimSpace(cell)
	switch s {
	case "":
		return nil
	case "true":
		return true
	case "false":
		return false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return s
}

// Document turns the table into a loader document with one object per row.
// The id column is the object id; a "kind.field" column sets field of kind
// and deeper dots nest further. Columns without a dot belong to stemKind,
// which must be non-empty when such columns exist. Cells of columns that
// fieldKind reports as strings keep their text; fieldKind may be nil.
func (t *Table) Document(stemKind string, fieldKind FieldKindFunc) (map[string]any, error) {
	idCol := slices.Index(t.Header, keyID)
	if idCol < 0 {
		return nil, eris.New(`missing "id" column`)
	}
	paths := make([][]string, len(t.Header))
	for i, h := range t.Header {
		if i == idCol {
			continue
		}
		if strings.Contains(h, ".") {
			paths[i] = strings.Split(h, ".")
			if slices.Contains(paths[i], "") {
				return nil, eris.Errorf("column %q has an empty segment", h)
			}
			continue
		}
		if stemKind == "" {
			return nil, eris.Errorf("column %q has no kind: use kind.%s or name the file after a kind", h, h)
		}
		paths[i] = []string{stemKind, h}
	}
	keepText := make([]bool, len(t.Header))
	if fieldKind != nil {
		for i, path := range paths {
			if path == nil {
				continue
			}
			k, ok := fieldKind(path[0], path[1:]...)
			keepText[i] = ok && k == reflect.String
		}
	}

	objects := make([]any, 0, len(t.Rows))
	for n, row := range t.Rows {
		if row[idCol] == nil {
			return nil, eris.Errorf("row %d has no id", n+1)
		}
		obj := map[string]any{keyID: row[idCol]}
		for i, cell := range row {
			if i == idCol || cell == nil {
				continue
			}
			if keepText[i] {
				cell = t.text[n][i]
			}
			if err := setPath(obj, paths[i], cell); err != nil {
				return nil, eris.Wrapf(err, "row %d", n+1)
			}
		}
		objects = append(objects, obj)
	}
	return map[string]any{keyObjects: objects}, nil
}

func setPath(obj map[string]any, path []string, v any) error {
	cur := obj
	for _, seg := range path[:len(path)-1] {
		next, ok := cur[seg]
		if !ok {
			m := map[string]any{}
			cur[seg] = m
			cur = m
			continue
		}
		m, ok := next.(map[string]any)
		if !ok {
			return eris.Errorf("column %q conflicts with a scalar column", strings.Join(path, "."))
		}
		cur = m
	}
	cur[path[len(path)-1]] = v
	return nil
}

// stemKind maps a file stem such as "prices" or "surface_objects" to a
// registered kind, accepting the singular or a plural form.
func stemKind(stem string, has func(string) bool) (string, bool) {
	stem = strings.ToLower(stem)
	candidates := []string{stem}
	if s, ok := strings.CutSuffix(stem, "ies"); ok {
		candidates = append(candidates, s+"y")
	}
	if s, ok := strings.CutSuffix(stem, "es"); ok {
		candidates = append(candidates, s)
	}
	if s, ok := strings.CutSuffix(stem, "s"); ok {
		candidates = append(candidates, s)
	}
	for _, c := range candidates {
		if has(c) {
			return c, true
		}
	}
	return "", false
}
