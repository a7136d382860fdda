// Package ledger records the values seen at uniqueness-tagged contexts of one
// compiled schema, across validation calls. Updates made during a call are
// provisional until Checkpoint; Rollback discards them.
package ledger

import (
	"sort"
	"sync"

	"github.com/reoring/dskema/internal/ir"
	"github.com/reoring/dskema/internal/path"
	"github.com/reoring/dskema/internal/value"
)

// Key identifies a ledger entry. Root is kept apart from Path so that no
// property name can collide with the document root.
type Key struct {
	Path string
	Root bool
}

// KeyOf returns the entry key for a data context.
func KeyOf(p path.Path) Key {
	if p.IsRoot() {
		return Key{Root: true}
	}
	return Key{Path: p.Normalized()}
}

type entry struct {
	values    []any
	committed int
}

// Ledger is the per-schema record of previously seen values. Callers hold
// the embedded mutex for the duration of a validation call; the methods
// below do not lock.
type Ledger struct {
	sync.Mutex
	entries map[Key]*entry
}

// New walks the compiled schema once and creates an empty entry for every
// context whose effective $unique resolves true.
//
// Discovery descends through named properties and $element, never through
// $type, and stops at the first node that declares $unique (true or false):
// nested $unique flags below such a node are not tracked.
func New(root ir.Node) *Ledger {
	l := &Ledger{entries: map[Key]*entry{}}
	l.discover(path.Root(), root)
	return l
}

func (l *Ledger) discover(p path.Path, n ir.Node) {
	c, ok := n.(*ir.Constraint)
	if !ok {
		return
	}
	unique, declared := ir.Unique(c)
	if declared {
		if unique {
			l.entries[KeyOf(p)] = &entry{}
		}
		return
	}
	for _, prop := range c.Props {
		l.discover(p.Field(prop.Name), prop.Schema)
	}
	if c.Element != nil {
		l.discover(p.Element(), c.Element)
	}
}

// Tracks reports whether any context of the schema is uniqueness-tagged.
func (l *Ledger) Tracks() bool { return len(l.entries) > 0 }

// CheckAndRecord reports whether v was already seen at key. Unseen values
// are appended; untracked keys always report false.
func (l *Ledger) CheckAndRecord(key Key, v any) bool {
	e, ok := l.entries[key]
	if !ok {
		return false
	}
	for _, seen := range e.values {
		if value.Equal(seen, v) {
			return true
		}
	}
	e.values = append(e.values, v)
	return false
}

// Checkpoint commits every value recorded so far.
func (l *Ledger) Checkpoint() {
	for _, e := range l.entries {
		e.committed = len(e.values)
	}
}

// Rollback discards values recorded since the last Checkpoint and reports
// how many were dropped.
func (l *Ledger) Rollback() int {
	dropped := 0
	for _, e := range l.entries {
		if n := len(e.values) - e.committed; n > 0 {
			clear(e.values[e.committed:])
			e.values = e.values[:e.committed]
			dropped += n
		}
	}
	return dropped
}

// Reset empties every entry while keeping the set of tracked keys.
func (l *Ledger) Reset() {
	for _, e := range l.entries {
		e.values = nil
		e.committed = 0
	}
}

// Values returns a copy of the values recorded at key.
func (l *Ledger) Values(key Key) []any {
	e, ok := l.entries[key]
	if !ok {
		return nil
	}
	return append([]any(nil), e.values...)
}

// Keys returns the tracked keys; the root key sorts first.
func (l *Ledger) Keys() []Key {
	keys := make([]Key, 0, len(l.entries))
	for k := range l.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Root != keys[j].Root {
			return keys[i].Root
		}
		return keys[i].Path < keys[j].Path
	})
	return keys
}
