package echomw

import (
	"github.com/labstack/echo/v4"
	"github.com/reoring/dskema"
	"github.com/reoring/dskema/middleware"
)

// ValidateJSON validates the request JSON against s with v (the process-wide
// validator when nil), stores the document in the request context on
// success, or responds with the error payload.
func ValidateJSON(v *dskema.Validator, s *dskema.Schema, opts ...dskema.Option) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			res := middleware.Check(v, s, c.Request().Body, opts...)
			if !res.OK() {
				return c.JSON(res.Status, res.Payload)
			}
			ctx := middleware.ContextWithData(c.Request().Context(), res.Data)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetData fetches the validated document from echo.Context.
func GetData(c echo.Context) (any, bool) {
	return middleware.DataFromContext(c.Request().Context())
}
