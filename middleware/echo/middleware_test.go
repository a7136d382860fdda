package echomw_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/reoring/dskema"
	echomw "github.com/reoring/dskema/middleware/echo"
	"github.com/reoring/dskema/types"
)

func TestValidateJSON_Echo(t *testing.T) {
	s := dskema.MustCompile(dskema.M{"name": types.String})
	e := echo.New()
	e.POST("/", func(c echo.Context) error {
		data, ok := echomw.GetData(c)
		if !ok {
			t.Fatalf("data missing from context")
		}
		return c.JSON(http.StatusOK, data)
	}, echomw.ValidateJSON(dskema.NewValidator(), s))

	for _, tc := range []struct {
		body string
		code int
	}{
		{`{"name":"a"}`, http.StatusOK},
		{`{"name":1}`, http.StatusBadRequest},
		{`not json`, http.StatusBadRequest},
	} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
		e.ServeHTTP(rec, req)
		if rec.Code != tc.code {
			t.Fatalf("%s: got %d want %d (%s)", tc.body, rec.Code, tc.code, rec.Body.String())
		}
	}
}
