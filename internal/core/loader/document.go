package loader

import (
	"fmt"
	"time"
)

// normalize rewrites a parsed tree into the generic document shape: maps with
// string keys, []any, float64, string, bool and nil.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalize(e)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = normalize(e)
		}
		return out
	case []any:
		for i, e := range t {
			t[i] = normalize(e)
		}
		return t
	case int:
		return float64(t)
	case int8:
		return float64(t)
	case int16:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case uint:
		return float64(t)
	case uint8:
		return float64(t)
	case uint16:
		return float64(t)
	case uint32:
		return float64(t)
	case uint64:
		return float64(t)
	case float32:
		return float64(t)
	case time.Time:
		return t.Format(time.RFC3339Nano)
	default:
		return v
	}
}

// merge folds src into dst and returns the result. Maps merge key by key,
// arrays are concatenated dst first, other values are replaced by src. Nulls
// in src are dropped, they never delete.
func merge(dst, src any) any {
	if src == nil {
		return dst
	}
	switch s := src.(type) {
	case map[string]any:
		d, ok := dst.(map[string]any)
		if !ok {
			return merge(map[string]any{}, s)
		}
		for k, v := range s {
			if v == nil {
				continue
			}
			if cur, ok := d[k]; ok {
				d[k] = merge(cur, v)
			} else {
				d[k] = merge(nil, v)
			}
		}
		return d
	case []any:
		out := make([]any, 0, len(s))
		if d, ok := dst.([]any); ok {
			out = append(out, d...)
		}
		for _, v := range s {
			out = append(out, merge(nil, v))
		}
		return out
	default:
		return src
	}
}
