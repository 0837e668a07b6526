package htmlpng

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/launcher"
)

const (
	EngineRod      = "rod"
	EngineChromedp = "chromedp"
)

// networkIdleWindow is how long a page must go without in-flight requests
// before a URL navigation counts as finished
const networkIdleWindow = 500 * time.Millisecond

// SessionConfig configures the page a session opens
type SessionConfig struct {
	Viewport Viewport
	Timeout  time.Duration     // bounds every page operation, 0 = none
	Domains  []string          // request whitelist
	Headers  map[string]string // extra request headers
	Stealth  bool
	Debug    bool
}

// Engine launches headless browser sessions
type Engine interface {
	Open(ctx context.Context, cfg SessionConfig) (Session, error)
}

// Session is one browser process with one page. Close must be called on
// every path once Open succeeded.
type Session interface {
	// SetContent replaces the document with html and waits for the load event.
	SetContent(ctx context.Context, html string) error
	// Navigate loads url and waits until the network is idle.
	Navigate(ctx context.Context, url string) error
	// Screenshot returns a PNG of the viewport, or of the whole document when
	// fullPage is set.
	Screenshot(ctx context.Context, fullPage bool) ([]byte, error)
	Close() error
}

// EngineFactory builds the engine named by --engine
type EngineFactory func(name, browser string, progress io.Writer) (Engine, error)

// NewEngine is the EngineFactory backed by real browsers
func NewEngine(name, browser string, progress io.Writer) (Engine, error) {
	if progress == nil {
		progress = io.Discard
	}

	switch name {
	case "", EngineRod:
		return &RodEngine{Browser: browser, Progress: progress}, nil
	case EngineChromedp:
		return &ChromedpEngine{Browser: browser, Progress: progress}, nil
	default:
		return nil, fmt.Errorf("unknown engine %q", name)
	}
}

func validEngine(name string) bool {
	return name == EngineRod || name == EngineChromedp
}

// resolveBrowserBin returns an explicitly configured browser binary, if any
func resolveBrowserBin(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, key := range []string{"HTMLPNG_BROWSER", "CHROME_BIN"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return ""
}

// acquireBrowser returns the browser binary to launch, downloading Chromium
// into the user cache directory the first time it is needed
func acquireBrowser(explicit string, progress io.Writer) (string, error) {
	fmt.Fprintln(progress, "Checking/downloading Chromium (this may take a while on first run)...")

	if bin := resolveBrowserBin(explicit); bin != "" {
		return bin, nil
	}

	bin, err := launcher.NewBrowser().Get()
	if err != nil {
		return "", engineErr("download", err)
	}
	return bin, nil
}
