package collection

import (
	"reflect"
	"strings"
)

/*
Getter is implemented by records that expose their attributes through an
accessor. It takes precedence over map and struct field access.
*/
type Getter interface {
	Get(attr string) (any, bool)
}

/*
Setter is implemented by records whose attributes can be written by name.
*/
type Setter interface {
	Set(attr string, value any)
}

/*
Attr reads the named attribute off a record. Records implementing Getter
are asked directly, string-keyed maps are indexed, and structs (or pointers
to structs) are searched for an exported field with that name or with a
matching `json` tag. The second return value is false if the attribute
does not exist.
*/
func Attr(model any, name string) (any, bool) {
	switch m := model.(type) {
	case nil:
		return nil, false
	case Getter:
		return m.Get(name)
	case map[string]any:
		v, ok := m[name]
		return v, ok
	}

	v := reflect.ValueOf(model)
	for reflect.Pointer == v.Kind() || reflect.Interface == v.Kind() {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Map:
		if reflect.String != v.Type().Key().Kind() {
			return nil, false
		}
		mv := v.MapIndex(reflect.ValueOf(name).Convert(v.Type().Key()))
		if !mv.IsValid() {
			return nil, false
		}
		return mv.Interface(), true

	case reflect.Struct:
		typ := v.Type()
		for i := 0; i < typ.NumField(); i++ {
			field := typ.Field(i)
			if !field.IsExported() {
				continue
			}
			tag := strings.Split(field.Tag.Get("json"), ",")[0]
			if field.Name == name || ("" != tag && tag == name) {
				return v.Field(i).Interface(), true
			}
		}
	}

	return nil, false
}

/*
Equal reports strict equality: both values must have the same dynamic type
and compare equal with ==. Values of non-comparable types are never equal,
and nil is only equal to nil.
*/
func Equal(a, b any) (equal bool) {
	if nil == a || nil == b {
		return nil == a && nil == b
	}
	typ := reflect.TypeOf(a)
	if typ != reflect.TypeOf(b) || !typ.Comparable() {
		return false
	}
	// comparable structs may still hold non-comparable interface values
	defer func() {
		if nil != recover() {
			equal = false
		}
	}()
	return a == b
}
