package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/reoring/dskema"
	"github.com/reoring/dskema/middleware"
	"github.com/reoring/dskema/types"
)

func newHandler(t *testing.T, v *dskema.Validator, opts ...dskema.Option) http.Handler {
	t.Helper()
	s := dskema.MustCompile(dskema.M{
		"email": types.Unique(types.String),
		"age":   types.Optional(types.NonNegativeInt),
	})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, ok := middleware.DataFromContext(r.Context())
		if !ok {
			t.Fatalf("validated data missing from context")
		}
		middleware.WriteJSON(w, http.StatusOK, data)
	})
	return middleware.ValidateJSON(v, s, opts...)(next)
}

func do(h http.Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	h.ServeHTTP(rec, req)
	return rec
}

func TestValidateJSON_PassesValidBody(t *testing.T) {
	h := newHandler(t, dskema.NewValidator())
	rec := do(h, `{"email":"a@example.com","age":3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}
}

func TestValidateJSON_RejectsInvalidBody(t *testing.T) {
	h := newHandler(t, dskema.NewValidator())
	rec := do(h, `{"age":-1,"role":"admin"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
	var got struct {
		Errors []struct {
			Error        string `json:"error"`
			Key          string `json:"key"`
			ExpectedType string `json:"expectedType"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	want := map[string]string{
		"age":   "InvalidValue",
		"email": "MissingProperty",
		"role":  "ExtraneousProperty",
	}
	if len(got.Errors) != len(want) {
		t.Fatalf("errors: %+v", got.Errors)
	}
	for _, e := range got.Errors {
		if want[e.Key] != e.Error {
			t.Fatalf("unexpected entry %+v", e)
		}
	}
}

func TestValidateJSON_DuplicateAcrossRequests(t *testing.T) {
	h := newHandler(t, dskema.NewValidator(), dskema.ThrowOnError(true))
	if rec := do(h, `{"email":"a@example.com"}`); rec.Code != http.StatusOK {
		t.Fatalf("first request: %d", rec.Code)
	}
	rec := do(h, `{"email":"a@example.com"}`)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "DuplicateValue") {
		t.Fatalf("second request: %d %s", rec.Code, rec.Body.String())
	}
}

func TestValidateJSON_MalformedBody(t *testing.T) {
	h := newHandler(t, dskema.NewValidator())
	rec := do(h, `{"email":`)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), `"error"`) {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}
}

func TestDataFromContext_Null(t *testing.T) {
	s := dskema.MustCompile(dskema.M{"$test": func(v any) bool { return v == nil }})
	found := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, ok := middleware.DataFromContext(r.Context())
		found = ok && data == nil
		w.WriteHeader(http.StatusNoContent)
	})
	rec := do(middleware.ValidateJSON(dskema.NewValidator(), s)(next), `null`)
	if rec.Code != http.StatusNoContent || !found {
		t.Fatalf("status %d, null body found=%v", rec.Code, found)
	}
	if _, ok := middleware.DataFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context()); ok {
		t.Fatalf("unexpected data on a bare context")
	}
}
