package migrator

import (
	"slices"
	"strconv"
	"strings"
)

const (
	stepEntities     = "entities-to-objects"
	stepObjectsList  = "objects-map-to-list"
	stepCraftCommand = "craft-command-object"
	stepFieldRenames = "field-renames"
)

// renames maps kind -> old field -> new field.
var renames = map[string]map[string]string{
	"memory": {"knowns": "known_ids"},
	"price":  {"buy_price": "buy", "sell_price": "sell"},
}

func defaultSteps() []Step {
	return []Step{
		{Name: stepEntities, Applies: hasEntities, Apply: entitiesToObjects},
		{Name: stepObjectsList, Applies: objectsIsMap, Apply: objectsMapToList},
		{Name: stepCraftCommand, Applies: hasStringCommand, Apply: craftCommandObject},
		{Name: stepFieldRenames, Applies: hasRenamedFields, Apply: renameFields},
	}
}

// v0 -> v1: the top level list was called "entities".

func hasEntities(doc map[string]any) bool {
	_, ok := doc["entities"]
	return ok
}

func entitiesToObjects(doc map[string]any) error {
	entities := doc["entities"]
	delete(doc, "entities")

	existing, ok := doc[keyObjects]
	if !ok || existing == nil {
		doc[keyObjects] = entities
		return nil
	}
	a, aok := existing.([]any)
	b, bok := entities.([]any)
	if !aok || !bok {
		return fail(stepEntities, "both entities and objects present with incompatible shapes")
	}
	doc[keyObjects] = append(a, b...)
	return nil
}

// v1 -> v2: objects were keyed by id.

func objectsIsMap(doc map[string]any) bool {
	_, ok := doc[keyObjects].(map[string]any)
	return ok
}

func objectsMapToList(doc map[string]any) error {
	byID := doc[keyObjects].(map[string]any)

	type keyed struct {
		id  uint64
		obj map[string]any
	}
	list := make([]keyed, 0, len(byID))
	for key, raw := range byID {
		obj, ok := raw.(map[string]any)
		if !ok {
			return fail(stepObjectsList, "object %q is %T, not a map", key, raw)
		}
		id, err := strconv.ParseUint(key, 10, 32)
		if err != nil {
			return fail(stepObjectsList, "object key %q is not an id", key)
		}
		if _, ok := obj["id"]; !ok {
			obj["id"] = float64(id)
		}
		list = append(list, keyed{id: id, obj: obj})
	}
	slices.SortFunc(list, func(a, b keyed) int {
		switch {
		case a.id < b.id:
			return -1
		case a.id > b.id:
			return 1
		}
		return 0
	})

	out := make([]any, len(list))
	for i, k := range list {
		out[i] = k.obj
	}
	doc[keyObjects] = out
	return nil
}

// objects returns the object maps of doc. Any shape other than a list of
// maps is an error; a missing list is empty.
func objects(step string, doc map[string]any) ([]map[string]any, error) {
	raw, ok := doc[keyObjects]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fail(step, "objects is %T, not a list", raw)
	}
	out := make([]map[string]any, 0, len(list))
	for i, e := range list {
		obj, ok := e.(map[string]any)
		if !ok {
			return nil, fail(step, "objects[%d] is %T, not a map", i, e)
		}
		out = append(out, obj)
	}
	return out, nil
}

// anyAspect reports whether match holds for the kind entry of some object.
// Malformed documents never match; their shape is rejected once every step
// has run.
func anyAspect(doc map[string]any, kind string, match func(aspect map[string]any) bool) bool {
	list, err := objects("", doc)
	if err != nil {
		return false
	}
	for _, obj := range list {
		if aspect, ok := obj[kind].(map[string]any); ok && match(aspect) {
			return true
		}
	}
	return false
}

// v2 -> v3: craft.command was a string.

func hasStringCommand(doc map[string]any) bool {
	return anyAspect(doc, "craft", func(craft map[string]any) bool {
		_, ok := craft["command"].(string)
		return ok
	})
}

func craftCommandObject(doc map[string]any) error {
	list, err := objects(stepCraftCommand, doc)
	if err != nil {
		return err
	}
	for _, obj := range list {
		craft, ok := obj["craft"].(map[string]any)
		if !ok {
			continue
		}
		s, ok := craft["command"].(string)
		if !ok {
			continue
		}
		cmd, err := parseCommand(s)
		if err != nil {
			return err
		}
		craft["command"] = cmd
	}
	return nil
}

func parseCommand(s string) (map[string]any, error) {
	s = strings.TrimSpace(s)
	if s == "idle" {
		return map[string]any{"kind": "idle"}, nil
	}
	verb, arg, found := strings.Cut(s, ":")
	if !found || (verb != "move_to" && verb != "move") {
		return nil, fail(stepCraftCommand, "unknown craft command %q", s)
	}
	target, err := strconv.ParseUint(strings.TrimSpace(arg), 10, 32)
	if err != nil || target == 0 {
		return nil, fail(stepCraftCommand, "craft command %q has no valid target", s)
	}
	return map[string]any{"kind": "move_to", "target": float64(target)}, nil
}

// v2 -> v3: field renames.

func hasRenamedFields(doc map[string]any) bool {
	for kind, fields := range renames {
		found := anyAspect(doc, kind, func(aspect map[string]any) bool {
			for old := range fields {
				if _, ok := aspect[old]; ok {
					return true
				}
			}
			return false
		})
		if found {
			return true
		}
	}
	return false
}

// renameFields moves old field names to new ones. When both are present the
// new name wins and the old value is dropped.
func renameFields(doc map[string]any) error {
	list, err := objects(stepFieldRenames, doc)
	if err != nil {
		return err
	}
	for _, obj := range list {
		for kind, fields := range renames {
			aspect, ok := obj[kind].(map[string]any)
			if !ok {
				continue
			}
			for old, repl := range fields {
				v, ok := aspect[old]
				if !ok {
					continue
				}
				delete(aspect, old)
				if _, taken := aspect[repl]; !taken {
					aspect[repl] = v
				}
			}
		}
	}
	return nil
}
