// Package value holds the reflection helpers shared by the engine and the
// ledger: list/object classification, truthiness and deep equality. Data is
// never mutated here.
package value

import (
	"encoding/json"
	"math"
	"reflect"
	"regexp"
	"sort"
	"time"
)

// IsList reports whether v is list-like (a slice or an array).
func IsList(v any) bool {
	if v == nil {
		return false
	}
	switch v.(type) {
	case []any:
		return true
	}
	k := reflect.TypeOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}

// IsObject reports whether v is a key-value object: a map keyed by strings.
func IsObject(v any) bool {
	if v == nil {
		return false
	}
	switch v.(type) {
	case map[string]any:
		return true
	}
	t := reflect.TypeOf(v)
	return t.Kind() == reflect.Map && t.Key().Kind() == reflect.String
}

// Elements returns the elements of a list-like value, or nil.
func Elements(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	if !IsList(v) {
		return nil
	}
	rv := reflect.ValueOf(v)
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// Lookup returns the value stored under key in a key-value object.
func Lookup(obj any, key string) (any, bool) {
	if m, ok := obj.(map[string]any); ok {
		v, ok := m[key]
		return v, ok
	}
	if !IsObject(obj) {
		return nil, false
	}
	rv := reflect.ValueOf(obj)
	mv := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
	if !mv.IsValid() {
		return nil, false
	}
	return mv.Interface(), true
}

// Keys returns the sorted keys of a key-value object.
func Keys(obj any) []string {
	var keys []string
	if m, ok := obj.(map[string]any); ok {
		keys = make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
	} else if IsObject(obj) {
		rv := reflect.ValueOf(obj)
		keys = make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
	}
	sort.Strings(keys)
	return keys
}

// Truthy applies the boolean coercion used for $optional/$unique flags and
// for deciding whether an offending value is attached to an error record.
// nil, false, numeric zero, NaN and "" are falsy.
func Truthy(v any) bool {
	if v == nil {
		return false
	}
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return x != ""
	case json.Number:
		f, err := x.Float64()
		return err != nil || (f != 0 && !math.IsNaN(f))
	}
	if f, ok := Float(v); ok {
		return f != 0 && !math.IsNaN(f)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Chan, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// IsNumber reports whether v is a Go numeric value or a json.Number.
func IsNumber(v any) bool {
	_, ok := Float(v)
	return ok
}

// Float converts any numeric value (including json.Number) to float64.
func Float(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	}
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// IsInteger reports whether v is a number with no fractional part. Integral
// Go kinds always qualify; floats qualify when finite and whole.
func IsInteger(v any) bool {
	if _, _, _, ok := integer(v); ok {
		return true
	}
	f, ok := Float(v)
	return ok && !math.IsInf(f, 0) && f == math.Trunc(f)
}

// IsNaN reports whether v is a floating-point NaN.
func IsNaN(v any) bool {
	f, ok := Float(v)
	return ok && math.IsNaN(f)
}

// integer returns v as an exact integer when it is an integral Go kind or an
// integral json.Number. Unsigned values beyond int64 are returned in u with
// big set.
func integer(v any) (i int64, u uint64, big bool, ok bool) {
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n, 0, false, true
		}
		return 0, 0, false, false
	case nil:
		return 0, 0, false, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), 0, false, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n := rv.Uint()
		if n > math.MaxInt64 {
			return 0, n, true, true
		}
		return int64(n), 0, false, true
	}
	return 0, 0, false, false
}

// Equal is the strict deep equality used for literal matching and duplicate
// detection. Numbers compare by value across Go kinds and json.Number;
// strings never equal numbers; NaN equals nothing.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return isNil(a) && isNil(b)
	}
	if IsNumber(a) || IsNumber(b) {
		return numbersEqual(a, b)
	}
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	case *regexp.Regexp:
		y, ok := b.(*regexp.Regexp)
		return ok && (x == y || (x != nil && y != nil && x.String() == y.String()))
	}
	if IsList(a) || IsList(b) {
		if !IsList(a) || !IsList(b) {
			return false
		}
		ea, eb := Elements(a), Elements(b)
		if len(ea) != len(eb) {
			return false
		}
		for i := range ea {
			if !Equal(ea[i], eb[i]) {
				return false
			}
		}
		return true
	}
	if IsObject(a) || IsObject(b) {
		if !IsObject(a) || !IsObject(b) {
			return false
		}
		ka, kb := Keys(a), Keys(b)
		if len(ka) != len(kb) {
			return false
		}
		for i, k := range ka {
			if kb[i] != k {
				return false
			}
			va, _ := Lookup(a, k)
			vb, _ := Lookup(b, k)
			if !Equal(va, vb) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

func numbersEqual(a, b any) bool {
	if !IsNumber(a) || !IsNumber(b) {
		return false
	}
	ia, ua, biga, oka := integer(a)
	ib, ub, bigb, okb := integer(b)
	if oka && okb {
		if biga || bigb {
			return biga && bigb && ua == ub
		}
		return ia == ib
	}
	fa, _ := Float(a)
	fb, _ := Float(b)
	return fa == fb
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// Plain returns a copy of v with json.Number values converted to int64 (when
// integral) or float64, recursing into lists and objects. It is used before
// handing data to evaluators that do not understand json.Number.
func Plain(v any) any {
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = Plain(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = Plain(e)
		}
		return out
	}
	return v
}
