package restaurant

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pourrice/pourrice/internal/auth"
	apperrors "github.com/pourrice/pourrice/pkg/errors"
)

const restaurantsJSON = `[
	{"id":"r1","Name_EN":"Green Common","Name_TC":"綠色魔法","District_EN":"Central","Latitude":22.2819,"Longitude":114.1555},
	{"id":"r2","Name_EN":"Veggie SF","Name_TC":"","Latitude":null,"Longitude":114.18}
]`

func newTestClient(url string, retries int) *Client {
	c := NewClient(url, 2*time.Second, retries)
	c.backoff = time.Millisecond
	return c
}

func TestClientList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/API/Restaurants", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(restaurantsJSON))
	}))
	defer srv.Close()

	list, err := newTestClient(srv.URL+"/", 1).List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "綠色魔法", list[0].NameTC)
	_, ok := list[0].Point()
	assert.True(t, ok)
	_, ok = list[1].Point()
	assert.False(t, ok)
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusBadGateway)
			return
		}
		w.Write([]byte(restaurantsJSON))
	}))
	defer srv.Close()

	list, err := newTestClient(srv.URL, 3).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClientGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 2).List(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 3).Get(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrRestaurantNotFound)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClientForwardsIDToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer id-token", r.Header.Get("Authorization"))
		assert.Equal(t, "/API/Restaurants/r%201", r.URL.EscapedPath())
		w.Write([]byte(`{"id":"r 1","Name_EN":"Kind Kitchen"}`))
	}))
	defer srv.Close()

	ctx := auth.WithIdentity(context.Background(), auth.TokenIdentity{UserID: "u1", Token: "id-token"})
	r, err := newTestClient(srv.URL, 1).Get(ctx, "r 1")
	require.NoError(t, err)
	assert.Equal(t, "Kind Kitchen", r.NameEN)
}

func TestClientRejectsMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"a list"`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 1).List(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}
