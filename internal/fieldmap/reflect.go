package fieldmap

import (
	"fmt"
	"reflect"
	"strings"
)

// FromStruct derives an Entity from the json tags of a struct type.
// Untagged fields fall back to the convention; fields tagged "-" are
// skipped. v may be a struct value or a pointer to one.
func FromStruct(v any) (Entity, error) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return Entity{}, fmt.Errorf("FromStruct: %T is not a struct", v)
	}

	e := Entity{Name: t.Name(), Fields: make(map[string]string)}
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, ok := f.Tag.Lookup("json")
		if !ok {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "" || name == "-" {
			continue
		}
		e.Fields[f.Name] = name
	}
	return e, nil
}
