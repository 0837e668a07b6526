package htmlpng

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
)

// idleTracker counts in-flight requests from CDP network events so chromedp
// navigations can wait for the network to go quiet. It remembers the URL of
// each in-flight request for debug logging.
type idleTracker struct {
	mu       sync.Mutex
	inflight map[network.RequestID]string
	changed  chan struct{}
}

func newIdleTracker() *idleTracker {
	return &idleTracker{
		inflight: make(map[network.RequestID]string),
		changed:  make(chan struct{}, 1),
	}
}

func (t *idleTracker) observe(ev interface{}) {
	switch ev := ev.(type) {
	case *network.EventRequestWillBeSent:
		url := ""
		if ev.Request != nil {
			url = ev.Request.URL
		}
		t.update(ev.RequestID, url, true)
	case *network.EventLoadingFinished:
		t.update(ev.RequestID, "", false)
	case *network.EventLoadingFailed:
		t.update(ev.RequestID, "", false)
	}
}

func (t *idleTracker) update(id network.RequestID, url string, started bool) {
	t.mu.Lock()
	if started {
		t.inflight[id] = url
	} else {
		delete(t.inflight, id)
	}
	t.mu.Unlock()

	select {
	case t.changed <- struct{}{}:
	default:
	}
}

// requestURL returns the URL of an in-flight request, or "" when unknown
func (t *idleTracker) requestURL(id network.RequestID) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inflight[id]
}

func (t *idleTracker) pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.inflight)
}

// wait blocks until no request has been in flight for quiet
func (t *idleTracker) wait(ctx context.Context, quiet time.Duration) error {
	timer := time.NewTimer(quiet)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.changed:
			timer.Reset(quiet)
		case <-timer.C:
			if t.pending() == 0 {
				return nil
			}
			timer.Reset(quiet)
		}
	}
}
