package types

import (
	"github.com/reoring/dskema"
)

// Optional returns a schema inheriting from t that may be absent.
func Optional(t any) *dskema.Schema {
	return dskema.MustCompile(dskema.M{dskema.KeyType: t, dskema.KeyOptional: true})
}

// Unique returns a schema inheriting from t whose values must not repeat
// across validation calls at the same position.
func Unique(t any) *dskema.Schema {
	return dskema.MustCompile(dskema.M{dskema.KeyType: t, dskema.KeyUnique: true})
}

// ListOf returns a schema accepting lists whose every element satisfies t.
func ListOf(t any) *dskema.Schema {
	return dskema.MustCompile(dskema.M{dskema.KeyElement: t})
}

// Named returns a type tested by pred and reported as name.
func Named(name string, pred func(any) bool) *dskema.Schema {
	return named(name, pred)
}
