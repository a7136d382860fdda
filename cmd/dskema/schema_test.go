package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/reoring/dskema"
)

func mustField(t *testing.T, v string) fieldSpec {
	t.Helper()
	fs, err := parseField(v)
	if err != nil {
		t.Fatalf("parseField(%q): %v", v, err)
	}
	return fs
}

func TestParseField(t *testing.T) {
	fs := mustField(t, "user.id:int,unique,optional")
	if strings.Join(fs.Path, ".") != "user.id" || fs.Type != "int" || !fs.Unique || !fs.Optional {
		t.Fatalf("unexpected field %+v", fs)
	}
	for _, bad := range []string{"noType", ":int", "a:", "a:int,weird"} {
		if _, err := parseField(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestBuildSchema_Fields(t *testing.T) {
	cfg := &CheckConfig{
		Fields: []fieldSpec{
			mustField(t, "user.id:positiveInt,unique"),
			mustField(t, "user.name:string"),
			mustField(t, "age:adult,optional"),
		},
		Exprs: []exprSpec{{Name: "adult", Code: "value >= 18"}},
		Each:  true,
	}
	s, err := buildSchema(cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	v := dskema.NewValidator()
	docs := []any{
		map[string]any{"user": map[string]any{"id": 1, "name": "a"}, "age": 20},
		map[string]any{"user": map[string]any{"id": 1, "name": "b"}, "age": 3},
	}
	rep, err := v.Validate(s, docs)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !rep.Errors.Has(dskema.DuplicateValue, "[1].user.id") {
		t.Fatalf("expected duplicate id, got %v", rep.Errors)
	}
	if !rep.Errors.Has(dskema.InvalidValue, "[1].age") {
		t.Fatalf("expected invalid age, got %v", rep.Errors)
	}
}

func TestBuildSchema_Errors(t *testing.T) {
	cases := map[string]*CheckConfig{
		"nothing":      {},
		"both":         {Type: "int", Fields: []fieldSpec{{Path: []string{"a"}, Type: "int"}}},
		"unknown type": {Type: "symbol"},
		"leaf and obj": {Fields: []fieldSpec{{Path: []string{"a"}, Type: "int"}, {Path: []string{"a", "b"}, Type: "int"}}},
		"reserved":     {Fields: []fieldSpec{{Path: []string{"$type"}, Type: "int"}}},
		"bad expr":     {Type: "x", Exprs: []exprSpec{{Name: "x", Code: "value >"}}},
	}
	for name, cfg := range cases {
		if _, err := buildSchema(cfg); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf, false, false)
	p.report("a.json", nil)
	p.report("b.json", dskema.Errors{{Kind: dskema.InvalidValue, Key: "n", Value: "x", HasValue: true, ExpectedType: "int"}})
	want := "a.json: ok\nb.json: InvalidValue at n value=x expected=int\n"
	if buf.String() != want {
		t.Fatalf("got %q want %q", buf.String(), want)
	}
}
