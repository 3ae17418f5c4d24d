package restaurant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pourrice/pourrice/pkg/logger"
)

func TestRefresherNotifiesListeners(t *testing.T) {
	c, _ := newTestCatalog(t, &stubSource{list: sample()})
	r := NewRefresher(c, time.Hour, logger.NewNop())

	var got []Restaurant
	r.OnRefresh(func(list []Restaurant) { got = list })

	r.refresh(context.Background())
	assert.Len(t, got, 3)
}

func TestRefresherSkipsListenersOnFailure(t *testing.T) {
	c, _ := newTestCatalog(t, &stubSource{err: errors.New("boom")})
	r := NewRefresher(c, time.Hour, logger.NewNop())

	called := false
	r.OnRefresh(func([]Restaurant) { called = true })

	r.refresh(context.Background())
	assert.False(t, called)
}

func TestRefresherStopsOnCancel(t *testing.T) {
	c, _ := newTestCatalog(t, &stubSource{list: sample()})
	r := NewRefresher(c, 5*time.Millisecond, logger.NewNop())

	refreshed := make(chan struct{}, 1)
	r.OnRefresh(func([]Restaurant) {
		select {
		case refreshed <- struct{}{}:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Start(ctx)
		close(done)
	}()

	select {
	case <-refreshed:
	case <-time.After(2 * time.Second):
		t.Fatal("refresher never ran")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("refresher did not stop")
	}
}
