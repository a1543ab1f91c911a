package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/keremavci/authkit/errors"
)

// Middleware wraps an http.Handler with additional behavior. This is
// the standard Go middleware signature, so guards compose with any
// router mounted on a ServeMux.
type Middleware func(http.Handler) http.Handler

// Chain composes multiple middleware. The first in the list is the
// outermost (runs first on a request, last on a response).
func Chain(middlewares ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// GinWrap adapts a standard Middleware for use in a Gin middleware
// chain. Request modifications (added context values, headers) are
// propagated back to the Gin context.
func GinWrap(mw Middleware) gin.HandlerFunc {
	return func(c *gin.Context) {
		next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			c.Request = r
			c.Next()
		})
		mw(next).ServeHTTP(c.Writer, c.Request)
	}
}

// writeError renders an error in the shared JSON shape.
func writeError(w http.ResponseWriter, err error) {
	var e *errors.Error
	if !errors.As(err, &e) {
		e = errors.Internal(err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.HTTPStatus)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"kind":    e.Kind,
			"message": e.Message,
		},
	})
}
