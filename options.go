package dskema

import (
	"fmt"
	"sync"
)

// Recognized option keys for OptionsFromMap.
const (
	OptAllowExtraneous = "allowExtraneous"
	OptThrowOnError    = "throwOnError"
)

// Settings is the resolved option set of a validation call.
type Settings struct {
	// AllowExtraneous stops reporting data properties that an object schema
	// does not name.
	AllowExtraneous bool
	// ThrowOnError aborts the call on the first error, returning it as the
	// call's error instead of collecting it.
	ThrowOnError bool
}

// Option overrides one setting. Later options win.
type Option func(*Settings)

// AllowExtraneous sets Settings.AllowExtraneous.
func AllowExtraneous(allow bool) Option {
	return func(s *Settings) { s.AllowExtraneous = allow }
}

// ThrowOnError sets Settings.ThrowOnError.
func ThrowOnError(throw bool) Option {
	return func(s *Settings) { s.ThrowOnError = throw }
}

// OptionsFromMap converts a key-value option set (for example one read from
// a configuration file) into Options. Unrecognized keys are ignored;
// recognized keys must hold booleans.
func OptionsFromMap(m map[string]any) ([]Option, error) {
	var opts []Option
	for _, key := range []string{OptAllowExtraneous, OptThrowOnError} {
		raw, ok := m[key]
		if !ok {
			continue
		}
		b, ok := raw.(bool)
		if !ok {
			return nil, &ConfigurationError{Key: key, Reason: fmt.Sprintf("option %s must be a boolean, got %T", key, raw)}
		}
		switch key {
		case OptAllowExtraneous:
			opts = append(opts, AllowExtraneous(b))
		case OptThrowOnError:
			opts = append(opts, ThrowOnError(b))
		}
	}
	return opts, nil
}

// Defaults is a process-wide default option set, shared by reference between
// validators. The zero value holds the built-in defaults (all false).
type Defaults struct {
	mu sync.RWMutex
	s  Settings
}

// NewDefaults returns a Defaults with opts applied over the built-ins.
func NewDefaults(opts ...Option) *Defaults {
	d := &Defaults{}
	d.Configure(opts...)
	return d
}

// Configure applies opts over the current defaults. Calling it without
// arguments restores the built-in defaults.
func (d *Defaults) Configure(opts ...Option) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(opts) == 0 {
		d.s = Settings{}
		return
	}
	for _, o := range opts {
		if o != nil {
			o(&d.s)
		}
	}
}

// Settings returns a snapshot of the current defaults.
func (d *Defaults) Settings() Settings {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.s
}

// Resolve merges call-level opts onto the current defaults.
func (d *Defaults) Resolve(opts ...Option) Settings {
	s := d.Settings()
	for _, o := range opts {
		if o != nil {
			o(&s)
		}
	}
	return s
}
