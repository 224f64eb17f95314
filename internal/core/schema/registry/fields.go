package registry

import (
	"reflect"
	"strings"
)

// fieldKinds maps the dotted JSON path of every field of t, nested structs
// included, to the field's kind. Fields tagged "-" and unexported fields are
// not part of the encoded form and are skipped.
func fieldKinds(t reflect.Type) map[string]reflect.Kind {
	out := make(map[string]reflect.Kind)
	collectFields(t, "", out)
	return out
}

func collectFields(t reflect.Type, prefix string, out map[string]reflect.Kind) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		path := prefix + name
		ft := f.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		out[path] = ft.Kind()
		if ft.Kind() == reflect.Struct {
			collectFields(ft, path+".", out)
		}
	}
}
