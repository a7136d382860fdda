package main

import (
	"fmt"
	"strings"

	"github.com/scott-cotton/cli"

	"github.com/reoring/dskema"
	"github.com/reoring/dskema/types"
)

// resolver maps type names to schemas: -expr definitions first, then the
// built-in registry.
type resolver map[string]*dskema.Schema

func newResolver(exprs []exprSpec) (resolver, error) {
	r := resolver{}
	for _, e := range exprs {
		s, err := types.Expr(e.Name, e.Code)
		if err != nil {
			return nil, err
		}
		r[e.Name] = s
	}
	return r, nil
}

func (r resolver) lookup(name string) (*dskema.Schema, error) {
	if s, ok := r[name]; ok {
		return s, nil
	}
	if s, ok := types.Lookup(name); ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: unknown type %q (see `dskema types`)", cli.ErrUsage, name)
}

// buildSchema assembles the schema described by the check flags.
func buildSchema(cfg *CheckConfig) (*dskema.Schema, error) {
	r, err := newResolver(cfg.Exprs)
	if err != nil {
		return nil, err
	}
	var root any
	switch {
	case len(cfg.Fields) > 0 && cfg.Type != "":
		return nil, fmt.Errorf("%w: -type and -field are mutually exclusive", cli.ErrUsage)
	case len(cfg.Fields) > 0:
		obj := dskema.M{}
		for _, f := range cfg.Fields {
			if err := addField(r, obj, f); err != nil {
				return nil, err
			}
		}
		root = obj
	case cfg.Type != "":
		if root, err = r.lookup(cfg.Type); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: one of -type or -field is required", cli.ErrUsage)
	}
	if cfg.Each {
		root = dskema.M{dskema.KeyElement: root}
	}
	return dskema.Compile(root)
}

func addField(r resolver, obj dskema.M, f fieldSpec) error {
	t, err := r.lookup(f.Type)
	if err != nil {
		return err
	}
	cur := obj
	for i, name := range f.Path {
		if name == "" || dskema.IsReservedKey(name) {
			return fmt.Errorf("%w: invalid field name %q", cli.ErrUsage, strings.Join(f.Path, "."))
		}
		if i == len(f.Path)-1 {
			if _, dup := cur[name]; dup {
				return fmt.Errorf("%w: field %q given twice", cli.ErrUsage, strings.Join(f.Path, "."))
			}
			cur[name] = leaf(t, f)
			return nil
		}
		next, ok := cur[name].(dskema.M)
		if _, isLeaf := next[dskema.KeyType]; !ok || isLeaf {
			if _, taken := cur[name]; taken {
				return fmt.Errorf("%w: field %q is both a leaf and an object", cli.ErrUsage, strings.Join(f.Path[:i+1], "."))
			}
			next = dskema.M{}
			cur[name] = next
		}
		cur = next
	}
	return nil
}

func leaf(t *dskema.Schema, f fieldSpec) any {
	if !f.Optional && !f.Unique {
		return t
	}
	m := dskema.M{dskema.KeyType: t}
	if f.Optional {
		m[dskema.KeyOptional] = true
	}
	if f.Unique {
		m[dskema.KeyUnique] = true
	}
	return m
}
