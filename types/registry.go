// Package types provides the built-in named types and small helpers for
// authoring schemas. Every type is a compiled *dskema.Schema and can be used
// directly as a property schema or as a $type parent.
package types

import (
	"reflect"
	"regexp"
	"sort"
	"time"

	"github.com/reoring/dskema"
	"github.com/reoring/dskema/internal/value"
)

func named(name string, test func(any) bool) *dskema.Schema {
	return dskema.MustCompile(dskema.M{dskema.KeyTest: test, dskema.KeyName: name})
}

func refined(name string, parent *dskema.Schema, test func(any) bool) *dskema.Schema {
	return dskema.MustCompile(dskema.M{dskema.KeyType: parent, dskema.KeyTest: test, dskema.KeyName: name})
}

func float(v any) float64 {
	f, _ := value.Float(v)
	return f
}

var (
	// String accepts Go strings.
	String = named("string", func(v any) bool { _, ok := v.(string); return ok })
	// Number accepts every Go numeric kind and json.Number.
	Number = named("number", value.IsNumber)

	NonPositiveNumber = refined("nonPositiveNumber", Number, func(v any) bool { return float(v) <= 0 })
	NegativeNumber    = refined("negativeNumber", Number, func(v any) bool { return float(v) < 0 })
	NonNegativeNumber = refined("nonNegativeNumber", Number, func(v any) bool { return float(v) >= 0 })
	PositiveNumber    = refined("positiveNumber", Number, func(v any) bool { return float(v) > 0 })

	// Int accepts numbers without a fractional part, including whole floats.
	Int = refined("int", Number, value.IsInteger)

	NonPositiveInt = refined("nonPositiveInt", Int, func(v any) bool { return float(v) <= 0 })
	NegativeInt    = refined("negativeInt", Int, func(v any) bool { return float(v) < 0 })
	NonNegativeInt = refined("nonNegativeInt", Int, func(v any) bool { return float(v) >= 0 })
	PositiveInt    = refined("positiveInt", Int, func(v any) bool { return float(v) > 0 })

	Boolean = named("boolean", func(v any) bool { _, ok := v.(bool); return ok })
	Truthy  = named("truthy", value.Truthy)
	Falsy   = named("falsy", func(v any) bool { return !value.Truthy(v) })

	// Array accepts slices and arrays of any element type.
	Array = named("array", value.IsList)
	// List accepts the same values as the implicit requirement of $element.
	List = named("list", value.IsList)
	// Map accepts maps of any key type.
	Map = named("map", func(v any) bool { return v != nil && reflect.TypeOf(v).Kind() == reflect.Map })
	// Object accepts maps keyed by strings.
	Object = named("object", value.IsObject)

	Func = named("func", func(v any) bool {
		if v == nil {
			return false
		}
		rv := reflect.ValueOf(v)
		return rv.Kind() == reflect.Func && !rv.IsNil()
	})
	Date = named("date", func(v any) bool {
		switch t := v.(type) {
		case time.Time:
			return true
		case *time.Time:
			return t != nil
		}
		return false
	})
	Regexp = named("regexp", func(v any) bool { r, ok := v.(*regexp.Regexp); return ok && r != nil })

	NullValue = named("nullValue", func(v any) bool { return v == nil })
	NaNValue  = named("nanValue", value.IsNaN)
	Any       = named("any", func(any) bool { return true })
)

var registry = map[string]*dskema.Schema{
	"string":            String,
	"number":            Number,
	"nonPositiveNumber": NonPositiveNumber,
	"negativeNumber":    NegativeNumber,
	"nonNegativeNumber": NonNegativeNumber,
	"positiveNumber":    PositiveNumber,
	"int":               Int,
	"nonPositiveInt":    NonPositiveInt,
	"negativeInt":       NegativeInt,
	"nonNegativeInt":    NonNegativeInt,
	"positiveInt":       PositiveInt,
	"boolean":           Boolean,
	"truthy":            Truthy,
	"falsy":             Falsy,
	"array":             Array,
	"list":              List,
	"map":               Map,
	"object":            Object,
	"func":              Func,
	"date":              Date,
	"regexp":            Regexp,
	"nullValue":         NullValue,
	"nanValue":          NaNValue,
	"any":               Any,
}

// Lookup returns the built-in type registered under name.
func Lookup(name string) (*dskema.Schema, bool) {
	s, ok := registry[name]
	return s, ok
}

// Names returns the registered type names in sorted order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
