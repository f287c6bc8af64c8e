package store

import (
	"fmt"
	"math"
	"reflect"
)

// CheckValue verifies that v belongs to the closed set of storable values:
// nil, booleans, strings, integer types, finite floats, slices/arrays of
// storable values and string-keyed maps of storable values. Anything else
// (structs, pointers, funcs, channels, non-string map keys, non-finite
// floats, or a value that reaches itself) is rejected, so stored payloads
// always serialize cleanly and never alias back into the store.
func CheckValue(v any) error {
	return checkValue(reflect.ValueOf(v), map[uintptr]struct{}{})
}

func checkValue(rv reflect.Value, seen map[uintptr]struct{}) error {
	if !rv.IsValid() {
		return nil // nil
	}

	switch rv.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return nil

	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("non-finite float %v is not JSON-safe", f)
		}
		return nil

	case reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return checkValue(rv.Elem(), seen)

	case reflect.Slice:
		if rv.IsNil() {
			return nil
		}
		ptr := rv.Pointer()
		if _, ok := seen[ptr]; ok {
			return fmt.Errorf("circular reference in slice")
		}
		seen[ptr] = struct{}{}
		defer delete(seen, ptr)
		for i := 0; i < rv.Len(); i++ {
			if err := checkValue(rv.Index(i), seen); err != nil {
				return err
			}
		}
		return nil

	case reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := checkValue(rv.Index(i), seen); err != nil {
				return err
			}
		}
		return nil

	case reflect.Map:
		if rv.IsNil() {
			return nil
		}
		if rv.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("map key type %s is not a string", rv.Type().Key())
		}
		ptr := rv.Pointer()
		if _, ok := seen[ptr]; ok {
			return fmt.Errorf("circular reference in map")
		}
		seen[ptr] = struct{}{}
		defer delete(seen, ptr)
		iter := rv.MapRange()
		for iter.Next() {
			if err := checkValue(iter.Value(), seen); err != nil {
				return fmt.Errorf("key %q: %w", iter.Key().String(), err)
			}
		}
		return nil

	default:
		return fmt.Errorf("unsupported value type %s", rv.Kind())
	}
}

// copyValue deep-copies a storable value, walking the same closed set
// CheckValue accepts: every map and slice an accepted payload contains,
// whatever its concrete type, is duplicated rather than aliased. It
// assumes CheckValue has already accepted the value.
func copyValue(v any) any {
	if v == nil {
		return nil
	}
	return deepCopy(reflect.ValueOf(v)).Interface()
}

func deepCopy(rv reflect.Value) reflect.Value {
	switch rv.Kind() {
	case reflect.Interface:
		if rv.IsNil() {
			return rv
		}
		out := reflect.New(rv.Type()).Elem()
		out.Set(deepCopy(rv.Elem()))
		return out

	case reflect.Slice:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out.Index(i).Set(deepCopy(rv.Index(i)))
		}
		return out

	case reflect.Array:
		out := reflect.New(rv.Type()).Elem()
		for i := 0; i < rv.Len(); i++ {
			out.Index(i).Set(deepCopy(rv.Index(i)))
		}
		return out

	case reflect.Map:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), deepCopy(iter.Value()))
		}
		return out

	default:
		return rv
	}
}
