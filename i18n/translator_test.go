package i18n

import (
	"strings"
	"testing"
)

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("InvalidValue", nil); msg == "InvalidValue" || msg == "" {
		t.Fatalf("expected a human message, got %q", msg)
	}

	SetLanguage("ja")
	if msg := T("InvalidValue", nil); msg == "invalid value" {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_EmbedsKeyAndExpected(t *testing.T) {
	msg := T("InvalidValue", map[string]string{"key": "a.b", "expected": "int"})
	if !strings.Contains(msg, "a.b") || !strings.Contains(msg, "int") {
		t.Fatalf("metadata not embedded: %q", msg)
	}
	if msg := T("MissingProperty", map[string]string{"key": ""}); strings.Contains(msg, "(") {
		t.Fatalf("empty key should be omitted: %q", msg)
	}
}

type upper struct{}

func (upper) Message(kind string, _ map[string]string) string { return strings.ToUpper(kind) }

func TestTranslator_Custom(t *testing.T) {
	SetTranslator(upper{})
	defer SetTranslator(nil)
	if msg := T("DuplicateValue", nil); msg != "DUPLICATEVALUE" {
		t.Fatalf("custom translator not used: %q", msg)
	}
	if msg := T("unknown_kind", nil); msg != "UNKNOWN_KIND" {
		t.Fatalf("got %q", msg)
	}
}

func TestTranslator_UnknownKindFallsBack(t *testing.T) {
	if msg := T("nope", nil); msg != "nope" {
		t.Fatalf("unknown kinds should echo, got %q", msg)
	}
	SetLanguage("fr")
	if msg := T("DuplicateValue", nil); msg != "duplicate value" {
		t.Fatalf("unsupported language should fall back to en, got %q", msg)
	}
}
