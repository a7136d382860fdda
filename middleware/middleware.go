package middleware

import (
	"context"
	"io"
	"net/http"

	j "github.com/goccy/go-json"

	"github.com/reoring/dskema"
	"github.com/reoring/dskema/source"
)

// ctxKeyData is a typed context key for the validated request body.
type ctxKeyData struct{}

// validated boxes the document so a JSON null body is still found.
type validated struct{ data any }

// ContextWithData attaches a validated document to the context.
func ContextWithData(ctx context.Context, data any) context.Context {
	return context.WithValue(ctx, ctxKeyData{}, validated{data})
}

// DataFromContext retrieves the validated document from context.
func DataFromContext(ctx context.Context) (any, bool) {
	v, ok := ctx.Value(ctxKeyData{}).(validated)
	return v.data, ok
}

// ErrorPayload shapes validation errors for JSON responses.
func ErrorPayload(errs dskema.Errors) map[string]any {
	if errs == nil {
		errs = dskema.Errors{}
	}
	return map[string]any{"errors": errs}
}

// Result is the outcome of Check.
type Result struct {
	Data    any
	Status  int            // http.StatusOK when the body is valid
	Payload map[string]any // response body when Status is not OK
}

// OK reports whether the body decoded and validated cleanly.
func (r Result) OK() bool { return r.Status == http.StatusOK }

// Check decodes a JSON body and validates it against s with v (the
// process-wide validator when nil). Undecodable bodies and validation
// failures map to 400; predicate and configuration failures map to 500.
func Check(v *dskema.Validator, s *dskema.Schema, body io.Reader, opts ...dskema.Option) Result {
	if v == nil {
		v = dskema.Default()
	}
	data, err := source.DecodeJSON(body)
	if err != nil {
		return Result{Status: http.StatusBadRequest, Payload: map[string]any{"error": err.Error()}}
	}
	rep, err := v.Validate(s, data, opts...)
	if err != nil {
		if e, ok := dskema.AsValidationError(err); ok {
			return Result{Data: data, Status: http.StatusBadRequest, Payload: ErrorPayload(dskema.Errors{e})}
		}
		return Result{Data: data, Status: http.StatusInternalServerError, Payload: map[string]any{"error": err.Error()}}
	}
	if !rep.Valid() {
		return Result{Data: data, Status: http.StatusBadRequest, Payload: ErrorPayload(rep.Errors)}
	}
	return Result{Data: data, Status: http.StatusOK}
}

// ValidateJSON validates request bodies against s, stores the decoded
// document in the request context on success, and otherwise responds with
// the error payload.
func ValidateJSON(v *dskema.Validator, s *dskema.Schema, opts ...dskema.Option) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := Check(v, s, r.Body, opts...)
			if !res.OK() {
				WriteJSON(w, res.Status, res.Payload)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithData(r.Context(), res.Data)))
		})
	}
}

// WriteJSON writes payload with the given status code.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = j.NewEncoder(w).Encode(payload)
}
