package ginmw

import (
	"github.com/gin-gonic/gin"
	"github.com/reoring/dskema"
	"github.com/reoring/dskema/middleware"
)

// ValidateJSON validates the incoming JSON against s with v (the process-wide
// validator when nil), stores the document in the request context, and on
// failure aborts with the error payload.
func ValidateJSON(v *dskema.Validator, s *dskema.Schema, opts ...dskema.Option) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := middleware.Check(v, s, c.Request.Body, opts...)
		if !res.OK() {
			c.AbortWithStatusJSON(res.Status, res.Payload)
			return
		}
		// store data in request context
		c.Request = c.Request.WithContext(middleware.ContextWithData(c.Request.Context(), res.Data))
		c.Next()
	}
}

// GetData fetches the validated document from gin.Context.
func GetData(c *gin.Context) (any, bool) {
	return middleware.DataFromContext(c.Request.Context())
}
