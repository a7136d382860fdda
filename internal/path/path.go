package path

import "strconv"

// Path builds error contexts in a chain-safe way. The zero value is the
// document root.
//
// Two renderings are kept side by side: the reported context (a.b[3].c) and
// the normalized context used to key the uniqueness ledger, where every
// element index collapses to [x] (a.b[x].c).
type Path struct {
	text   string
	norm   string
	nested bool
}

// Wildcard is the index marker used by normalized contexts.
const Wildcard = "x"

// Root returns the document root path.
func Root() Path { return Path{} }

// IsRoot reports whether p addresses the document root.
func (p Path) IsRoot() bool { return !p.nested }

// Field appends a property step. No separator is emitted when the current
// text is empty.
func (p Path) Field(name string) Path {
	return Path{text: join(p.text, name), norm: join(p.norm, name), nested: true}
}

// Index appends an element step using the real index for the reported text.
func (p Path) Index(i int) Path {
	return Path{text: p.text + "[" + strconv.Itoa(i) + "]", norm: p.norm + "[" + Wildcard + "]", nested: true}
}

// Element appends a wildcard element step. Used while discovering ledger
// entries, where no concrete index exists.
func (p Path) Element() Path {
	w := "[" + Wildcard + "]"
	return Path{text: p.text + w, norm: p.norm + w, nested: true}
}

// String returns the reported context.
func (p Path) String() string { return p.text }

// Normalized returns the context with element indices collapsed.
func (p Path) Normalized() string { return p.norm }

func join(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}
