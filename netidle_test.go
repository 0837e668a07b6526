package htmlpng

import (
	"context"
	"testing"
	"time"

	"github.com/chromedp/cdproto/network"
)

func TestIdleTrackerQuiet(t *testing.T) {
	tracker := newIdleTracker()

	start := time.Now()
	if err := tracker.wait(context.Background(), 20*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("Expected to wait for the quiet window, returned after %v", elapsed)
	}
}

func TestIdleTrackerWaitsForInflightRequests(t *testing.T) {
	tracker := newIdleTracker()
	tracker.observe(&network.EventRequestWillBeSent{RequestID: "1"})
	tracker.observe(&network.EventRequestWillBeSent{RequestID: "2"})

	if n := tracker.pending(); n != 2 {
		t.Fatalf("Expected 2 pending requests, got %d", n)
	}

	done := make(chan error, 1)
	go func() {
		done <- tracker.wait(context.Background(), 20*time.Millisecond)
	}()

	time.Sleep(60 * time.Millisecond)
	select {
	case <-done:
		t.Fatal("wait returned while requests were in flight")
	default:
	}

	tracker.observe(&network.EventLoadingFinished{RequestID: "1"})
	tracker.observe(&network.EventLoadingFailed{RequestID: "2"})

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("wait did not return after the network went idle")
	}
}

func TestIdleTrackerContextCancel(t *testing.T) {
	tracker := newIdleTracker()
	tracker.observe(&network.EventRequestWillBeSent{RequestID: "stuck"})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := tracker.wait(ctx, 10*time.Millisecond); err != context.DeadlineExceeded {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
}

func TestIdleTrackerIgnoresOtherEvents(t *testing.T) {
	tracker := newIdleTracker()
	tracker.observe(&network.EventResponseReceived{RequestID: "1"})
	tracker.observe("not an event")

	if n := tracker.pending(); n != 0 {
		t.Errorf("Expected no pending requests, got %d", n)
	}
}

func TestIdleTrackerRequestURL(t *testing.T) {
	tracker := newIdleTracker()
	tracker.observe(&network.EventRequestWillBeSent{RequestID: "1", Request: &network.Request{URL: "https://example.com/a.css"}})
	tracker.observe(&network.EventRequestWillBeSent{RequestID: "2", Request: &network.Request{URL: "https://example.com/b.js"}})

	if url := tracker.requestURL("1"); url != "https://example.com/a.css" {
		t.Errorf("Expected URL of in-flight request, got %q", url)
	}

	tracker.observe(&network.EventLoadingFailed{RequestID: "1"})
	tracker.observe(&network.EventLoadingFinished{RequestID: "2"})

	if url := tracker.requestURL("1"); url != "" {
		t.Errorf("Expected failed request to be forgotten, got %q", url)
	}
	if url := tracker.requestURL("2"); url != "" {
		t.Errorf("Expected finished request to be forgotten, got %q", url)
	}
}
