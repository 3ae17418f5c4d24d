package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/pourrice/pourrice/pkg/errors"
)

type Middleware struct {
	verifier *Verifier
}

func NewMiddleware(verifier *Verifier) *Middleware {
	return &Middleware{verifier: verifier}
}

// Optional attaches the caller's identity to the request context. Missing
// credentials mean Anonymous; malformed or invalid ones are rejected.
func (m *Middleware) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || m.verifier == nil {
			c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), Anonymous{}))
			c.Next()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			abort(c, fmt.Errorf("%w: use 'Bearer <token>'", apperrors.ErrInvalidToken))
			return
		}

		id, err := m.verifier.Verify(parts[1])
		if err != nil {
			abort(c, apperrors.ErrInvalidToken)
			return
		}

		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// Required rejects callers without a verified identity. It must run after
// Optional.
func (m *Middleware) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := FromContext(c.Request.Context()).CurrentUserID(); !ok {
			abort(c, apperrors.ErrUnauthenticated)
			return
		}
		c.Next()
	}
}

func abort(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"message": err.Error(),
			"code":    "UNAUTHENTICATED",
		},
	})
}
