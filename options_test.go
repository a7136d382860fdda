package dskema_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/dskema"
)

func TestDefaults_ConfigureAndResolve(t *testing.T) {
	d := dskema.NewDefaults()
	if diff := cmp.Diff(dskema.Settings{}, d.Settings()); diff != "" {
		t.Fatalf("built-in defaults (-want +got):\n%s", diff)
	}
	d.Configure(dskema.ThrowOnError(true))
	d.Configure(dskema.AllowExtraneous(true))
	want := dskema.Settings{AllowExtraneous: true, ThrowOnError: true}
	if diff := cmp.Diff(want, d.Settings()); diff != "" {
		t.Fatalf("configure merges (-want +got):\n%s", diff)
	}
	got := d.Resolve(dskema.ThrowOnError(false))
	if diff := cmp.Diff(dskema.Settings{AllowExtraneous: true}, got); diff != "" {
		t.Fatalf("call options win (-want +got):\n%s", diff)
	}
	if !d.Settings().ThrowOnError {
		t.Fatalf("Resolve must not mutate defaults")
	}
	d.Configure()
	if diff := cmp.Diff(dskema.Settings{}, d.Settings()); diff != "" {
		t.Fatalf("reset (-want +got):\n%s", diff)
	}
}

func TestOptionsFromMap(t *testing.T) {
	opts, err := dskema.OptionsFromMap(map[string]any{
		"allowExtraneous": true,
		"throwOnError":    false,
		"somethingElse":   "ignored",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := dskema.NewDefaults(dskema.ThrowOnError(true)).Resolve(opts...)
	if diff := cmp.Diff(dskema.Settings{AllowExtraneous: true}, got); diff != "" {
		t.Fatalf("settings (-want +got):\n%s", diff)
	}

	_, err = dskema.OptionsFromMap(map[string]any{"throwOnError": "yes"})
	ce, ok := err.(*dskema.ConfigurationError)
	if !ok || ce.Key != "throwOnError" {
		t.Fatalf("expected ConfigurationError for throwOnError, got %v", err)
	}
	if opts, err := dskema.OptionsFromMap(nil); err != nil || len(opts) != 0 {
		t.Fatalf("nil map: %v %v", opts, err)
	}
}
