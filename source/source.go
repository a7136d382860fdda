// Package source decodes JSON and YAML documents into the plain values the
// validator walks: map[string]any, []any, string, bool, nil and numbers.
//
// JSON numbers are kept as json.Number so integers beyond 2^53 stay exact;
// the validator compares them numerically against Go numbers.
package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Format identifies a document encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// ErrUnknownFormat is returned for formats other than JSON and YAML.
var ErrUnknownFormat = errors.New("source: unknown format")

// ParseFormat maps a user-supplied name ("json", "yaml", "yml") to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json", "ndjson", "jsonl":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// FormatFromPath guesses the format from a file extension, defaulting to JSON.
func FormatFromPath(p string) Format {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSON
}

// DecodeJSON reads a single JSON value from r.
func DecodeJSON(r io.Reader) (any, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("source: decode json: %w", err)
	}
	return normalizeJSON(v), nil
}

// DecodeJSONBytes is DecodeJSON over a byte slice.
func DecodeJSONBytes(b []byte) (any, error) { return DecodeJSON(bytes.NewReader(b)) }

// Decode reads every document in r. JSON input may hold a stream of
// concatenated values (for example newline-delimited JSON); YAML input may
// hold several "---" separated documents.
func Decode(r io.Reader, f Format) ([]any, error) {
	switch f {
	case JSON:
		return decodeJSONStream(r)
	case YAML:
		return DecodeYAML(r)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

func decodeJSONStream(r io.Reader) ([]any, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	var docs []any
	for {
		var v any
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return docs, fmt.Errorf("source: decode json document %d: %w", len(docs), err)
		}
		docs = append(docs, normalizeJSON(v))
	}
}

// DecodeYAML reads every document of a YAML stream.
func DecodeYAML(r io.Reader) ([]any, error) {
	dec := yaml.NewDecoder(r)
	var docs []any
	for {
		var node any
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return docs, fmt.Errorf("source: decode yaml document %d: %w", len(docs), err)
		}
		docs = append(docs, normalizeYAML(node))
	}
}

// normalizeJSON makes numbers surface as encoding/json's json.Number, the
// type the validator recognizes.
func normalizeJSON(v any) any {
	switch t := v.(type) {
	case j.Number:
		return json.Number(t)
	case map[string]any:
		for k, vv := range t {
			t[k] = normalizeJSON(vv)
		}
		return t
	case []any:
		for i, vv := range t {
			t[i] = normalizeJSON(vv)
		}
		return t
	}
	return v
}

// normalizeYAML converts YAML-decoded values (which may contain map[any]any)
// into JSON-like values recursively.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalizeYAML(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[fmt.Sprint(k)] = normalizeYAML(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = normalizeYAML(vv)
		}
		return out
	}
	return v
}
