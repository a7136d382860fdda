// Package ir defines the compiled schema representation walked by the engine
// and the ledger. Nodes are immutable once built. This package is internal
// and not part of the public API.
package ir

import "regexp"

// NodeKind identifies an IR node type.
type NodeKind int

const (
	NodeLiteral NodeKind = iota
	NodeConstraint
)

// Node is the root IR node interface.
type Node interface {
	Kind() NodeKind
}

// Literal is matched by deep equality against the data at its position.
type Literal struct {
	Value any
}

func (l *Literal) Kind() NodeKind { return NodeLiteral }

// Predicate is the compiled form of a $test function. Returning an error
// aborts the validation call.
type Predicate func(v any) (bool, error)

// Property maps a non-reserved key to its nested schema.
type Property struct {
	Name   string
	Schema Node
}

// Constraint is a schema node carrying at least one reserved key somewhere in
// its structure.
type Constraint struct {
	// Type is the $type parent, nil when absent.
	Type Node
	// Test is the $test predicate; Pattern is set instead when $test was a
	// regular expression.
	Test    Predicate
	Pattern *regexp.Regexp
	// Optional and Unique are nil when the key is absent on this node.
	Optional *bool
	Unique   *bool
	// Element is the $element schema, nil when absent.
	Element Node
	Name    string
	HasName bool
	// Props are sorted by name.
	Props []Property
	// Known holds every own key of the definition, reserved ones included.
	Known map[string]struct{}
}

func (c *Constraint) Kind() NodeKind { return NodeConstraint }

// HasTest reports whether a $test was declared.
func (c *Constraint) HasTest() bool { return c.Test != nil || c.Pattern != nil }

// IsTypeMarker reports whether the node only describes a type rather than
// an object with named properties.
func (c *Constraint) IsTypeMarker() bool {
	if c.HasTest() || c.Type != nil {
		return true
	}
	return (c.Optional != nil || c.Unique != nil || c.Element != nil) && len(c.Props) == 0
}

// IsOptional resolves $optional; the shallowest declaration in the $type
// chain wins.
func IsOptional(n Node) bool {
	c, ok := n.(*Constraint)
	if !ok {
		return false
	}
	if c.Optional != nil {
		return *c.Optional
	}
	if c.Type != nil {
		return IsOptional(c.Type)
	}
	return false
}

// Unique resolves $unique with the same shallowest-wins rule. declared is
// false when no node in the chain carries the key.
func Unique(n Node) (unique, declared bool) {
	c, ok := n.(*Constraint)
	if !ok {
		return false, false
	}
	if c.Unique != nil {
		return *c.Unique, true
	}
	if c.Type != nil {
		return Unique(c.Type)
	}
	return false, false
}

// ListTypeName is reported when a value fails the implicit list requirement
// of $element.
const ListTypeName = "list"

// TypeName resolves the display name reported for a type mismatch.
func TypeName(n Node) (string, bool) {
	c, ok := n.(*Constraint)
	if !ok {
		return "", false
	}
	switch {
	case c.HasName:
		return c.Name, true
	case c.Pattern != nil && c.Type == nil:
		return "/" + c.Pattern.String() + "/", true
	case c.Type != nil:
		return TypeName(c.Type)
	case c.Element != nil && !c.HasTest():
		return ListTypeName, true
	}
	return "", false
}
