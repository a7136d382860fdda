package path

import "testing"

func TestPath_Rendering(t *testing.T) {
	p := Root()
	if !p.IsRoot() || p.String() != "" || p.Normalized() != "" {
		t.Fatalf("root: %+v", p)
	}
	q := p.Field("users").Index(3).Field("id")
	if q.String() != "users[3].id" {
		t.Fatalf("text: %q", q.String())
	}
	if q.Normalized() != "users[x].id" {
		t.Fatalf("norm: %q", q.Normalized())
	}
	if q.IsRoot() {
		t.Fatalf("nested path reported as root")
	}
	if r := Root().Index(0).Index(12); r.String() != "[0][12]" || r.Normalized() != "[x][x]" {
		t.Fatalf("index at root: %q %q", r.String(), r.Normalized())
	}
	if e := Root().Field("a").Element(); e.String() != "a[x]" || e.Normalized() != "a[x]" {
		t.Fatalf("element: %q %q", e.String(), e.Normalized())
	}
}

func TestPath_PropertyNamesAreNotRewritten(t *testing.T) {
	// a property literally named "[3]" keeps its digits in the normalized form
	p := Root().Field("[3]")
	if p.Normalized() != "[3]" {
		t.Fatalf("norm: %q", p.Normalized())
	}
	// an empty property name still leaves the root
	if Root().Field("").IsRoot() {
		t.Fatalf("empty field must not be the root")
	}
}
