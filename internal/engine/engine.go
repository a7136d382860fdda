package engine

import (
	"fmt"

	"github.com/reoring/dskema/internal/ir"
	"github.com/reoring/dskema/internal/ledger"
	"github.com/reoring/dskema/internal/path"
	"github.com/reoring/dskema/internal/value"
)

// Kind classifies a violation.
type Kind string

const (
	KindInvalidValue       Kind = "InvalidValue"
	KindMissingProperty    Kind = "MissingProperty"
	KindExtraneousProperty Kind = "ExtraneousProperty"
	KindDuplicateValue     Kind = "DuplicateValue"
)

// Violation is the engine-level error record; the public package converts it.
type Violation struct {
	Kind     Kind
	Path     string
	Value    any
	HasValue bool
	Expected string
}

// ViolationError aborts a walk on the first violation when FailFast is set.
type ViolationError struct{ Violation }

func (e ViolationError) Error() string { return string(e.Kind) + " at " + e.Path }

// PredicateError carries an error returned by a $test predicate.
type PredicateError struct {
	Path string
	Err  error
}

func (e *PredicateError) Error() string {
	return fmt.Sprintf("predicate failed at %q: %v", e.Path, e.Err)
}

func (e *PredicateError) Unwrap() error { return e.Err }

// Options controls a single walk.
type Options struct {
	// AllowExtraneous disables ExtraneousProperty reporting.
	AllowExtraneous bool
	// FailFast stops at the first violation, returning it as a ViolationError.
	FailFast bool
	// Ledger receives uniqueness bookkeeping. Nil disables duplicate checks.
	Ledger *ledger.Ledger
	// Sink optionally observes every violation as it is produced.
	Sink func(Violation)
}

// Run validates data against the compiled root and returns violations in walk
// order. A non-nil error means the walk was aborted; ledger updates made so
// far are left for the caller to roll back.
func Run(root ir.Node, data any, opt Options) ([]Violation, error) {
	w := &walker{opt: opt}
	if err := w.node(path.Root(), root, data); err != nil {
		return nil, err
	}
	return w.out, nil
}

type walker struct {
	opt Options
	out []Violation
}

func (w *walker) add(v Violation) error {
	if w.opt.Sink != nil {
		w.opt.Sink(v)
	}
	if w.opt.FailFast {
		return ViolationError{v}
	}
	w.out = append(w.out, v)
	return nil
}

func (w *walker) invalid(p path.Path, data any, expected string) error {
	v := Violation{Kind: KindInvalidValue, Path: p.String(), Expected: expected}
	if value.Truthy(data) {
		v.Value, v.HasValue = data, true
	}
	return w.add(v)
}

func (w *walker) node(p path.Path, n ir.Node, data any) error {
	switch n := n.(type) {
	case *ir.Literal:
		if !value.Equal(n.Value, data) {
			return w.invalid(p, data, "")
		}
		return nil
	case *ir.Constraint:
		return w.constraint(p, n, data)
	}
	return fmt.Errorf("engine: unexpected node %T at %q", n, p.String())
}

func (w *walker) constraint(p path.Path, c *ir.Constraint, data any) error {
	ok, err := passes(p, c, data, 0)
	if err != nil {
		return err
	}
	if !ok {
		name, _ := ir.TypeName(c)
		if err := w.invalid(p, data, name); err != nil {
			return err
		}
	} else {
		if err := w.unique(p, data); err != nil {
			return err
		}
		if c.Element != nil {
			err = w.elements(p, c, data)
		} else {
			err = w.properties(p, c, data)
		}
		if err != nil {
			return err
		}
	}
	if !c.IsTypeMarker() {
		return w.extraneous(p, c, data)
	}
	return nil
}

// passes evaluates the combined type test. The $type chain is entered before
// the node's own $test, so the deepest ancestor runs first and a failure
// there prevents every shallower $test from running.
func passes(p path.Path, n ir.Node, data any, depth int) (bool, error) {
	c, ok := n.(*ir.Constraint)
	if !ok {
		return true, nil
	}
	result := true
	if c.Element != nil && c.Type == nil {
		result = value.IsList(data)
	}
	if c.Type != nil {
		parent, err := passes(p, c.Type, data, depth+1)
		if err != nil {
			return false, err
		}
		result = parent && result
	}
	if result && c.HasTest() {
		if c.Pattern != nil {
			s, isString := data.(string)
			result = isString && c.Pattern.MatchString(s)
		} else {
			passed, err := c.Test(data)
			if err != nil {
				return false, &PredicateError{Path: p.String(), Err: err}
			}
			result = passed
		}
	}
	// Named properties demand an object, unless $element governs the node.
	if result && depth == 0 && !c.IsTypeMarker() && c.Element == nil && !value.IsObject(data) {
		result = false
	}
	return result, nil
}

func (w *walker) unique(p path.Path, data any) error {
	if w.opt.Ledger == nil {
		return nil
	}
	if w.opt.Ledger.CheckAndRecord(ledger.KeyOf(p), data) {
		v := Violation{Kind: KindDuplicateValue, Path: p.String()}
		if value.Truthy(data) {
			v.Value, v.HasValue = data, true
		}
		return w.add(v)
	}
	return nil
}

func (w *walker) elements(p path.Path, c *ir.Constraint, data any) error {
	if !value.IsList(data) {
		return w.invalid(p, data, ir.ListTypeName)
	}
	for i, el := range value.Elements(data) {
		if err := w.node(p.Index(i), c.Element, el); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) properties(p path.Path, c *ir.Constraint, data any) error {
	for _, prop := range c.Props {
		child := p.Field(prop.Name)
		v, present := value.Lookup(data, prop.Name)
		if !present {
			if ir.IsOptional(prop.Schema) {
				continue
			}
			if err := w.add(Violation{Kind: KindMissingProperty, Path: child.String()}); err != nil {
				return err
			}
			continue
		}
		if err := w.node(child, prop.Schema, v); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) extraneous(p path.Path, c *ir.Constraint, data any) error {
	if w.opt.AllowExtraneous || !value.IsObject(data) {
		return nil
	}
	for _, k := range value.Keys(data) {
		if _, known := c.Known[k]; known {
			continue
		}
		if err := w.add(Violation{Kind: KindExtraneousProperty, Path: p.Field(k).String()}); err != nil {
			return err
		}
	}
	return nil
}
