package dskema

import (
	"context"
	"log/slog"
	"sync"

	"github.com/reoring/dskema/internal/engine"
	"github.com/reoring/dskema/internal/ledger"
	"github.com/reoring/dskema/internal/path"
)

// Report is the outcome of a validation call. Data is the input, unmodified.
type Report struct {
	Data   any     `json:"data"`
	Schema *Schema `json:"-"`
	Errors Errors  `json:"errors"`
}

// Valid reports whether the call produced no errors.
func (r Report) Valid() bool { return len(r.Errors) == 0 }

// Validator validates data against compiled schemas and keeps the uniqueness
// ledgers of the schemas it has seen. Calls against the same schema are
// serialized; calls against different schemas run concurrently.
type Validator struct {
	defaults *Defaults
	log      *slog.Logger

	mu      sync.Mutex
	ledgers map[*Schema]*ledger.Ledger
}

// ValidatorOption configures a Validator at construction.
type ValidatorOption func(*Validator)

// WithDefaults shares d as the validator's default options.
func WithDefaults(d *Defaults) ValidatorOption {
	return func(v *Validator) {
		if d != nil {
			v.defaults = d
		}
	}
}

// WithLogger sets the logger used for debug tracing. A nil logger disables it.
func WithLogger(l *slog.Logger) ValidatorOption {
	return func(v *Validator) { v.log = l }
}

// NewValidator returns a Validator with its own defaults unless WithDefaults
// is given.
func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{ledgers: map[*Schema]*ledger.Ledger{}}
	for _, o := range opts {
		o(v)
	}
	if v.defaults == nil {
		v.defaults = NewDefaults()
	}
	return v
}

// Defaults returns the default option set used by the validator.
func (v *Validator) Defaults() *Defaults { return v.defaults }

// lookup returns the ledger of s without creating one.
func (v *Validator) lookup(s *Schema) (*ledger.Ledger, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	l, ok := v.ledgers[s]
	return l, ok
}

func (v *Validator) ledgerFor(s *Schema) *ledger.Ledger {
	v.mu.Lock()
	defer v.mu.Unlock()
	l, ok := v.ledgers[s]
	if !ok {
		l = ledger.New(s.root)
		v.ledgers[s] = l
	}
	return l
}

func (v *Validator) debug(msg string, args ...any) {
	if v.log != nil {
		v.log.Log(context.Background(), slog.LevelDebug, msg, args...)
	}
}

// Validate checks data against s.
//
// Without ThrowOnError every error is collected into the Report and the
// returned error is nil. With ThrowOnError the first error is returned as a
// ValidationError and the Report carries no errors. A $test predicate that
// fails with an error aborts the call with a *PredicateError. Values recorded
// for uniqueness during an aborted call are discarded.
func (v *Validator) Validate(s *Schema, data any, opts ...Option) (rep Report, err error) {
	if s == nil {
		return Report{}, &ConfigurationError{Reason: "schema must not be nil"}
	}
	set := v.defaults.Resolve(opts...)
	l := v.ledgerFor(s)
	committed := false
	if l.Tracks() {
		l.Lock()
		defer l.Unlock()
		defer func() {
			if !committed {
				n := l.Rollback()
				v.debug("validation aborted", "rolledBack", n)
			}
		}()
	} else {
		// No $unique context; calls need no serialization.
		l = nil
		defer func() {
			if !committed {
				v.debug("validation aborted")
			}
		}()
	}

	vs, err := engine.Run(s.root, data, engine.Options{
		AllowExtraneous: set.AllowExtraneous,
		FailFast:        set.ThrowOnError,
		Ledger:          l,
		Sink: func(x engine.Violation) {
			v.debug("violation", "kind", string(x.Kind), "key", x.Path)
		},
	})
	if err != nil {
		return Report{Data: data, Schema: s}, toError(err)
	}
	if l != nil {
		l.Checkpoint()
	}
	committed = true

	rep = Report{Data: data, Schema: s}
	if len(vs) > 0 {
		rep.Errors = make(Errors, len(vs))
		for i, x := range vs {
			rep.Errors[i] = fromViolation(x)
		}
	}
	v.debug("validated", "errors", len(rep.Errors))
	return rep, nil
}

// Verify reports whether data satisfies s. Errors other than validation
// failures (configuration, predicate errors) are returned as err; a
// validation failure under ThrowOnError yields (false, nil).
func (v *Validator) Verify(s *Schema, data any, opts ...Option) (bool, error) {
	rep, err := v.Validate(s, data, opts...)
	if err != nil {
		if _, ok := AsValidationError(err); ok {
			return false, nil
		}
		return false, err
	}
	return rep.Valid(), nil
}

// ResetUniqueness empties every uniqueness ledger entry of s.
func (v *Validator) ResetUniqueness(s *Schema) {
	if s == nil {
		return
	}
	l, ok := v.lookup(s)
	if !ok {
		return
	}
	l.Lock()
	defer l.Unlock()
	l.Reset()
	v.debug("uniqueness reset")
}

// Forget drops the ledger of s. A later call recreates it empty.
func (v *Validator) Forget(s *Schema) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.ledgers, s)
}

// Seen returns the values recorded for uniqueness at key, a normalized data
// path such as "users[x].id". The empty key addresses the document root.
func (v *Validator) Seen(s *Schema, key string) []any {
	if s == nil {
		return nil
	}
	l, ok := v.lookup(s)
	if !ok {
		return nil
	}
	l.Lock()
	defer l.Unlock()
	if key == "" {
		return l.Values(ledger.KeyOf(path.Root()))
	}
	return l.Values(ledger.Key{Path: key})
}

// Tracked returns the normalized keys s records for uniqueness, sorted. The
// root context is reported as "", the key Seen accepts for it.
func (v *Validator) Tracked(s *Schema) []string {
	if s == nil {
		return nil
	}
	keys := ledger.New(s.root).Keys()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.Path
	}
	return out
}

var defaultValidator = NewValidator()

// Default returns the process-wide Validator used by the package-level
// functions.
func Default() *Validator { return defaultValidator }

// ConfigureDefaults applies opts to the process-wide defaults. Calling it
// without arguments restores the built-in defaults.
func ConfigureDefaults(opts ...Option) { defaultValidator.defaults.Configure(opts...) }

// Validate checks data against s using the process-wide Validator.
func Validate(s *Schema, data any, opts ...Option) (Report, error) {
	return defaultValidator.Validate(s, data, opts...)
}

// Verify reports whether data satisfies s using the process-wide Validator.
func Verify(s *Schema, data any, opts ...Option) (bool, error) {
	return defaultValidator.Verify(s, data, opts...)
}

// ResetUniqueness empties the process-wide uniqueness ledger of s.
func ResetUniqueness(s *Schema) { defaultValidator.ResetUniqueness(s) }

// Seen returns the values recorded at key by the process-wide Validator.
func Seen(s *Schema, key string) []any { return defaultValidator.Seen(s, key) }
