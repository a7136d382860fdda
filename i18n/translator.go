package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for validation error kinds.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(kind string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dict = map[string]map[string]string{
	"en": {
		"InvalidValue":       "invalid value",
		"MissingProperty":    "required property missing",
		"ExtraneousProperty": "unknown property",
		"DuplicateValue":     "duplicate value",
		"expected":           "expected",
	},
	"ja": {
		"InvalidValue":       "値が不正です",
		"MissingProperty":    "必須プロパティが不足しています",
		"ExtraneousProperty": "未知のプロパティです",
		"DuplicateValue":     "値が重複しています",
		"expected":           "期待される型",
	},
}

func (t dictTranslator) Message(kind string, data map[string]string) string {
	msgs := dict[t.lang]
	msg, ok := msgs[kind]
	if !ok {
		return kind
	}
	b := &strings.Builder{}
	b.WriteString(msg)
	if k := data["key"]; k != "" {
		b.WriteString(" (")
		b.WriteString(k)
		b.WriteString(")")
	}
	if exp := data["expected"]; exp != "" {
		b.WriteString(": ")
		b.WriteString(msgs["expected"])
		b.WriteString(" ")
		b.WriteString(exp)
	}
	return b.String()
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := dict[lang]; !ok {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given kind using the current Translator.
func T(kind string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(kind, data)
}
