// Package dskema validates arbitrary nested data against declarative schemas
// written as plain key-value maps.
//
// A schema node is either a literal, matched by deep equality, or a
// constraint carrying one of the reserved keys:
//
//	$type      parent type; its tests run before the node's own
//	$test      predicate function or *regexp.Regexp
//	$optional  the property may be absent
//	$unique    values must not repeat across calls at this position
//	$element   schema applied to every element of a list
//	$name      display name used in error reports
//
// Every other key names a property of the validated object.
//
// Design policy:
// - Keep only public APIs in the root package; put the walk, the compiled
// representation and the uniqueness ledger under internal/.
// - Ready-made types live in types/, decoders in source/, and the CLI under cmd/dskema.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	user := dskema.MustCompile(dskema.M{
//	    "id":   dskema.M{"$type": types.Int, "$unique": true},
//	    "name": types.String,
//	    "tags": dskema.M{"$element": types.String, "$optional": true},
//	})
//	rep, err := dskema.Validate(user, data)
//	for _, e := range rep.Errors {
//	    fmt.Println(e.Error())
//	}
package dskema
