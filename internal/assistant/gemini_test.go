package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/pourrice/pourrice/pkg/errors"
)

func TestGeminiGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "k3y", r.Header.Get("x-goog-api-key"))
		assert.Empty(t, r.URL.RawQuery)

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "hello", req.Contents[0].Parts[0].Text)

		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Try "},{"text":"Mana! "}]}}]}`))
	}))
	defer srv.Close()

	g := NewGeminiClient("k3y", "gemini-test", srv.URL, time.Second)
	answer, err := g.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "Try Mana!", answer)
}

func TestGeminiErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, apperrors.ErrAssistantUnavailable},
		{"no candidates", http.StatusOK, `{"candidates":[]}`, apperrors.ErrEmptyAnswer},
		{"blank text", http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"  "}]}}]}`, apperrors.ErrEmptyAnswer},
		{"garbage", http.StatusOK, `<html>`, apperrors.ErrAssistantUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			g := NewGeminiClient("k", "m", srv.URL, time.Second)
			_, err := g.Generate(context.Background(), "hi")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGeminiRequiresKey(t *testing.T) {
	g := NewGeminiClient("", "m", "http://127.0.0.1:0", time.Second)
	_, err := g.Generate(context.Background(), "hi")
	assert.ErrorIs(t, err, apperrors.ErrAssistantUnavailable)
}

func TestGeminiTransportErrorHidesKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	g := NewGeminiClient("SECRET-KEY-123", "m", addr, time.Second)
	_, err := g.Generate(context.Background(), "hi")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAssistantUnavailable)
	assert.NotContains(t, err.Error(), "SECRET-KEY-123")
	assert.NotContains(t, err.Error(), url.QueryEscape("SECRET-KEY-123"))
}
