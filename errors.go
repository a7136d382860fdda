package dskema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/dskema/i18n"
	"github.com/reoring/dskema/internal/engine"
)

// ErrorKind classifies a data validation error.
type ErrorKind string

// Error kinds (exported consts for IDE completion and type safety by convention)
const (
	InvalidValue       ErrorKind = ErrorKind(engine.KindInvalidValue)
	MissingProperty    ErrorKind = ErrorKind(engine.KindMissingProperty)
	ExtraneousProperty ErrorKind = ErrorKind(engine.KindExtraneousProperty)
	DuplicateValue     ErrorKind = ErrorKind(engine.KindDuplicateValue)
)

// ValidationError is a single data validation entry.
//
// Value is attached only when the offending value is truthy; falsy values
// such as 0, "" and false are omitted and HasValue reports false.
// ExpectedType is set only when a display name could be resolved.
type ValidationError struct {
	Kind         ErrorKind `json:"error"`
	Key          string    `json:"key"` // a.b[0].c; empty for the document root.
	Value        any       `json:"value,omitempty"`
	HasValue     bool      `json:"-"`
	ExpectedType string    `json:"expectedType,omitempty"`
}

// Error renders the entry as "<Kind>: key: k, value: v, expectedType: t",
// leaving out the parts that are absent.
func (e ValidationError) Error() string {
	b := &strings.Builder{}
	b.WriteString(string(e.Kind))
	b.WriteString(":")
	sep := " "
	if e.Key != "" {
		fmt.Fprintf(b, "%skey: %s", sep, e.Key)
		sep = ", "
	}
	if e.HasValue {
		fmt.Fprintf(b, "%svalue: %v", sep, e.Value)
		sep = ", "
	}
	if e.ExpectedType != "" {
		fmt.Fprintf(b, "%sexpectedType: %s", sep, e.ExpectedType)
	}
	return b.String()
}

// Message returns a localized, human-readable description of the entry.
func (e ValidationError) Message() string {
	data := map[string]string{"key": e.Key}
	if e.ExpectedType != "" {
		data["expected"] = e.ExpectedType
	}
	return i18n.T(string(e.Kind), data)
}

// Errors is an ordered collection of validation errors that implements error.
type Errors []ValidationError

// Error summarizes the first few entries.
func (es Errors) Error() string {
	if len(es) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(es)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		key := es[i].Key
		if key == "" {
			key = "(root)"
		}
		// e.g. InvalidValue at a.b
		fmt.Fprintf(b, "%s at %s", es[i].Kind, key)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Has reports whether an entry of the given kind exists at key.
func (es Errors) Has(kind ErrorKind, key string) bool {
	for _, e := range es {
		if e.Kind == kind && e.Key == key {
			return true
		}
	}
	return false
}

// AsErrors extracts Errors from an error using errors.As internally.
func AsErrors(err error) (Errors, bool) {
	if err == nil {
		return nil, false
	}
	var es Errors
	if errors.As(err, &es) {
		return es, true
	}
	var e ValidationError
	if errors.As(err, &e) {
		return Errors{e}, true
	}
	return nil, false
}

// AsValidationError extracts the ValidationError that aborted a call made
// with ThrowOnError.
func AsValidationError(err error) (ValidationError, bool) {
	var e ValidationError
	if err != nil && errors.As(err, &e) {
		return e, true
	}
	return ValidationError{}, false
}

// ConfigurationError reports a programmer error: a malformed schema or
// malformed options. It never appears inside a Report.
type ConfigurationError struct {
	Key    string // definition path of the offending node; empty for the root.
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Key == "" {
		return "dskema: " + e.Reason
	}
	return fmt.Sprintf("dskema: %s (at %q)", e.Reason, e.Key)
}

// IsConfigurationError reports whether err is or wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// PredicateError reports a $test predicate that returned an error. The call
// is aborted and uniqueness bookkeeping from it is discarded.
type PredicateError struct {
	Key string
	Err error
}

func (e *PredicateError) Error() string {
	return fmt.Sprintf("dskema: $test failed at %q: %v", e.Key, e.Err)
}

func (e *PredicateError) Unwrap() error { return e.Err }

func fromViolation(v engine.Violation) ValidationError {
	return ValidationError{
		Kind:         ErrorKind(v.Kind),
		Key:          v.Path,
		Value:        v.Value,
		HasValue:     v.HasValue,
		ExpectedType: v.Expected,
	}
}

// toError maps an aborted engine walk to the public error types.
func toError(err error) error {
	var ve engine.ViolationError
	if errors.As(err, &ve) {
		return fromViolation(ve.Violation)
	}
	var pe *engine.PredicateError
	if errors.As(err, &pe) {
		return &PredicateError{Key: pe.Path, Err: pe.Err}
	}
	return err
}
