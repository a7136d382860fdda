package dskema

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"

	"github.com/reoring/dskema/internal/ir"
	"github.com/reoring/dskema/internal/path"
	"github.com/reoring/dskema/internal/value"
)

// Reserved schema keys.
const (
	KeyType     = "$type"
	KeyTest     = "$test"
	KeyOptional = "$optional"
	KeyUnique   = "$unique"
	KeyElement  = "$element"
	KeyName     = "$name"
)

var reservedKeys = map[string]struct{}{
	KeyType:     {},
	KeyTest:     {},
	KeyOptional: {},
	KeyUnique:   {},
	KeyElement:  {},
	KeyName:     {},
}

// IsReservedKey reports whether key is one of the constraint keys.
func IsReservedKey(key string) bool {
	_, ok := reservedKeys[key]
	return ok
}

// M is a schema definition node. Any map keyed by strings is accepted where
// an M is expected; M only shortens literals.
type M = map[string]any

// Predicate is a named $test function form.
type Predicate func(v any) bool

// Schema is a compiled, immutable schema. It is safe to share between
// goroutines; uniqueness state lives in the Validator, not here.
type Schema struct {
	root ir.Node
	def  any
}

// Definition returns the definition the schema was compiled from.
func (s *Schema) Definition() any { return s.def }

// IsLiteral reports whether the whole schema is matched by deep equality.
func (s *Schema) IsLiteral() bool { return s.root.Kind() == ir.NodeLiteral }

// Name returns the display name reported when a value fails the schema's
// type test, if one resolves.
func (s *Schema) Name() (string, bool) { return ir.TypeName(s.root) }

// Compile resolves a definition into a Schema. The definition must be a
// key-value map (or an already compiled *Schema). Malformed constraints are
// reported as *ConfigurationError:
//
//   - $test that is not a function or a *regexp.Regexp
//   - $type or $element that is not a key-value map or *Schema
func Compile(def any) (*Schema, error) {
	if s, ok := def.(*Schema); ok {
		if s == nil {
			return nil, &ConfigurationError{Reason: "schema must not be nil"}
		}
		return s, nil
	}
	if !value.IsObject(def) {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("schema must be a key-value map, got %T", def)}
	}
	root, err := compileNode(path.Root(), def)
	if err != nil {
		return nil, err
	}
	return &Schema{root: root, def: def}, nil
}

// MustCompile is like Compile but panics on error. Intended for package-level
// schema variables.
func MustCompile(def any) *Schema {
	s, err := Compile(def)
	if err != nil {
		panic(err)
	}
	return s
}

// isLiteral reports whether def carries no reserved key anywhere in its
// non-list substructure. Lists are always literal.
func isLiteral(def any) bool {
	if s, ok := def.(*Schema); ok {
		return s != nil && s.IsLiteral()
	}
	if !value.IsObject(def) {
		return true
	}
	for _, k := range value.Keys(def) {
		if IsReservedKey(k) {
			return false
		}
		v, _ := value.Lookup(def, k)
		if !isLiteral(v) {
			return false
		}
	}
	return true
}

func compileNode(p path.Path, def any) (ir.Node, error) {
	if s, ok := def.(*Schema); ok {
		if s == nil {
			return nil, &ConfigurationError{Key: p.String(), Reason: "nested schema must not be nil"}
		}
		return s.root, nil
	}
	if isLiteral(def) {
		return &ir.Literal{Value: literalValue(def)}, nil
	}
	return compileConstraint(p, def)
}

// literalValue replaces compiled literal schemas nested in def with their
// definitions, so equality sees plain data. Containers without a nested
// schema are returned as is.
func literalValue(def any) any {
	if s, ok := def.(*Schema); ok {
		if l, ok := s.root.(*ir.Literal); ok {
			return l.Value
		}
		return def
	}
	if !hasSchema(def) {
		return def
	}
	switch {
	case value.IsObject(def):
		out := map[string]any{}
		for _, k := range value.Keys(def) {
			v, _ := value.Lookup(def, k)
			out[k] = literalValue(v)
		}
		return out
	case value.IsList(def):
		els := value.Elements(def)
		out := make([]any, len(els))
		for i, el := range els {
			out[i] = literalValue(el)
		}
		return out
	}
	return def
}

func hasSchema(def any) bool {
	switch {
	case value.IsObject(def):
		for _, k := range value.Keys(def) {
			v, _ := value.Lookup(def, k)
			if _, ok := v.(*Schema); ok || hasSchema(v) {
				return true
			}
		}
	case value.IsList(def):
		for _, el := range value.Elements(def) {
			if _, ok := el.(*Schema); ok || hasSchema(el) {
				return true
			}
		}
	}
	return false
}

// compileParent compiles a $type or $element target. $type targets are always
// read as constraints, even when they carry no reserved key.
func compileParent(p path.Path, key string, def any, asType bool) (ir.Node, error) {
	if s, ok := def.(*Schema); ok {
		if s == nil {
			return nil, &ConfigurationError{Key: p.String(), Reason: key + " must not be a nil schema"}
		}
		return s.root, nil
	}
	if !value.IsObject(def) {
		return nil, &ConfigurationError{Key: p.String(), Reason: fmt.Sprintf("%s must be an object, got %T", key, def)}
	}
	if asType {
		return compileConstraint(p, def)
	}
	return compileNode(p, def)
}

func compileConstraint(p path.Path, def any) (*ir.Constraint, error) {
	c := &ir.Constraint{Known: map[string]struct{}{}}
	for _, k := range value.Keys(def) {
		v, _ := value.Lookup(def, k)
		c.Known[k] = struct{}{}
		var err error
		switch k {
		case KeyType:
			c.Type, err = compileParent(p, KeyType, v, true)
		case KeyElement:
			c.Element, err = compileParent(p.Element(), KeyElement, v, false)
		case KeyTest:
			c.Test, c.Pattern, err = compileTest(p, v)
		case KeyOptional:
			b := value.Truthy(v)
			c.Optional = &b
		case KeyUnique:
			b := value.Truthy(v)
			c.Unique = &b
		case KeyName:
			c.HasName = true
			if s, ok := v.(string); ok {
				c.Name = s
			} else {
				c.Name = fmt.Sprint(v)
			}
		default:
			var n ir.Node
			n, err = compileNode(p.Field(k), v)
			c.Props = append(c.Props, ir.Property{Name: k, Schema: n})
		}
		if err != nil {
			return nil, err
		}
	}
	sort.Slice(c.Props, func(i, j int) bool { return c.Props[i].Name < c.Props[j].Name })
	return c, nil
}

func compileTest(p path.Path, v any) (ir.Predicate, *regexp.Regexp, error) {
	switch t := v.(type) {
	case *regexp.Regexp:
		if t != nil {
			return nil, t, nil
		}
	case func(any) bool:
		if t != nil {
			return func(v any) (bool, error) { return t(v), nil }, nil, nil
		}
	case Predicate:
		if t != nil {
			return func(v any) (bool, error) { return t(v), nil }, nil, nil
		}
	case func(any) (bool, error):
		if t != nil {
			return t, nil, nil
		}
	}
	// Named function types with a compatible signature.
	if v != nil {
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Func && !rv.IsNil() {
			if f, ok := convertFunc(rv); ok {
				return f, nil, nil
			}
		}
	}
	return nil, nil, &ConfigurationError{Key: p.String(), Reason: fmt.Sprintf("$test must be a function or a regular expression, got %T", v)}
}

var (
	boolPredType  = reflect.TypeOf((func(any) bool)(nil))
	errorPredType = reflect.TypeOf((func(any) (bool, error))(nil))
)

func convertFunc(rv reflect.Value) (ir.Predicate, bool) {
	switch {
	case rv.Type().ConvertibleTo(errorPredType):
		return rv.Convert(errorPredType).Interface().(func(any) (bool, error)), true
	case rv.Type().ConvertibleTo(boolPredType):
		f := rv.Convert(boolPredType).Interface().(func(any) bool)
		return func(v any) (bool, error) { return f(v), nil }, true
	}
	return nil, false
}
