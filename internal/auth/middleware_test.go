package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/pourrice/pourrice/pkg/errors"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Verifier) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	v, err := NewVerifier("test-secret", "")
	require.NoError(t, err)
	m := NewMiddleware(v)

	r := gin.New()
	r.Use(m.Optional())
	r.GET("/whoami", func(c *gin.Context) {
		userID, ok := FromContext(c.Request.Context()).CurrentUserID()
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "signed_in": ok})
	})
	r.GET("/private", m.Required(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r, v
}

func TestOptionalAllowsAnonymous(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"","signed_in":false}`, w.Body.String())
}

func TestOptionalAttachesIdentity(t *testing.T) {
	r, v := newTestRouter(t)
	token, err := v.Issue("user-9", "", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"user-9","signed_in":true}`, w.Body.String())
}

func TestOptionalRejectsBadToken(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, header := range []string{"Bearer nope", "Token abc", "Bearer "} {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
		assert.Contains(t, w.Body.String(), apperrors.ErrInvalidToken.Error(), header)
	}
}

func TestRequiredRejectsAnonymous(t *testing.T) {
	r, v := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), apperrors.ErrUnauthenticated.Error())
	assert.Contains(t, w.Body.String(), "UNAUTHENTICATED")

	token, _ := v.Issue("user-9", "", time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
