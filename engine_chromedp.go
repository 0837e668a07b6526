package htmlpng

import (
	"context"
	"io"
	"log"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// waitLoadJS resolves once the document has fired its load event
const waitLoadJS = `new Promise(resolve => {
	if (document.readyState === "complete") {
		resolve(true);
		return;
	}
	window.addEventListener("load", () => resolve(true), { once: true });
})`

// ChromedpEngine drives Chromium through chromedp. Stealth is not supported.
type ChromedpEngine struct {
	Browser  string
	Progress io.Writer
}

type chromedpSession struct {
	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	timeout     time.Duration
	idle        *idleTracker

	// armed while navigating to a URL so the whitelist can't block the page
	permitFirst atomic.Bool
}

func (e *ChromedpEngine) Open(ctx context.Context, cfg SessionConfig) (Session, error) {
	progress := e.Progress
	if progress == nil {
		progress = io.Discard
	}

	bin, err := acquireBrowser(e.Browser, progress)
	if err != nil {
		return nil, err
	}

	opts := chromedp.DefaultExecAllocatorOptions[:]
	opts = append(opts,
		chromedp.ExecPath(bin),
		chromedp.NoSandbox,
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dbus", true),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	s := &chromedpSession{
		ctx:         tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
		timeout:     cfg.Timeout,
		idle:        newIdleTracker(),
	}

	if cfg.Stealth && cfg.Debug {
		log.Printf("stealth mode is only available with the rod engine")
	}

	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		// log before observe, which forgets the URL of finished requests
		switch ev := ev.(type) {
		case *network.EventResponseReceived:
			if cfg.Debug {
				log.Printf("\033[36mResponse:\033[0m %s - Status: %d", ev.Response.URL, ev.Response.Status)
			}
		case *network.EventLoadingFailed:
			if cfg.Debug {
				url := s.idle.requestURL(ev.RequestID)
				if url == "" {
					url = "unknown URL"
				}
				log.Printf("\033[31mNetwork Error:\033[0m %s - %s", url, ev.ErrorText)
			}
		case *fetch.EventRequestPaused:
			allowed := allowRequest(ev.Request.URL, cfg.Domains, &s.permitFirst)
			go func() {
				c := chromedp.FromContext(tabCtx)
				execCtx := cdp.WithExecutor(tabCtx, c.Target)
				var err error
				if allowed {
					err = fetch.ContinueRequest(ev.RequestID).Do(execCtx)
				} else {
					if cfg.Debug {
						log.Printf("\033[31mBlocked:\033[0m %s", ev.Request.URL)
					}
					err = fetch.FailRequest(ev.RequestID, network.ErrorReasonBlockedByClient).Do(execCtx)
				}
				if err != nil && cfg.Debug {
					log.Printf("request interception: %v", err)
				}
			}()
		}

		s.idle.observe(ev)
	})

	actions := []chromedp.Action{
		network.Enable(),
		chromedp.EmulateViewport(int64(cfg.Viewport.Width), int64(cfg.Viewport.Height)),
	}
	if len(cfg.Headers) > 0 {
		headers := make(network.Headers, len(cfg.Headers))
		for k, v := range cfg.Headers {
			headers[k] = v
		}
		actions = append(actions, network.SetExtraHTTPHeaders(headers))
	}
	if len(cfg.Domains) > 0 {
		actions = append(actions, fetch.Enable())
	}

	// the first Run starts the browser
	if err := chromedp.Run(tabCtx, actions...); err != nil {
		s.Close()
		return nil, engineErr("launch", err)
	}

	return s, nil
}

// run executes actions on the tab, bounded by ctx and the session timeout
func (s *chromedpSession) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if s.timeout > 0 {
		var cancelTimeout context.CancelFunc
		runCtx, cancelTimeout = context.WithTimeout(runCtx, s.timeout)
		defer cancelTimeout()
	}

	return chromedp.Run(runCtx, actions...)
}

func (s *chromedpSession) SetContent(ctx context.Context, html string) error {
	var loaded bool
	err := s.run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.Evaluate(waitLoadJS, &loaded, awaitPromise),
	)
	return engineErr("content", err)
}

func (s *chromedpSession) Navigate(ctx context.Context, url string) error {
	s.permitFirst.Store(true)
	defer s.permitFirst.Store(false)

	err := s.run(ctx,
		chromedp.Navigate(url),
		chromedp.ActionFunc(func(ctx context.Context) error {
			return s.idle.wait(ctx, networkIdleWindow)
		}),
	)
	return engineErr("navigate", err)
}

func (s *chromedpSession) Screenshot(ctx context.Context, fullPage bool) ([]byte, error) {
	var buf []byte
	var action chromedp.Action = chromedp.CaptureScreenshot(&buf)
	if fullPage {
		// quality 100 keeps the capture in PNG
		action = chromedp.FullScreenshot(&buf, 100)
	}

	if err := s.run(ctx, action); err != nil {
		return nil, engineErr("screenshot", err)
	}
	return buf, nil
}

func (s *chromedpSession) Close() error {
	err := chromedp.Cancel(s.ctx)
	s.cancelTab()
	s.cancelAlloc()
	if err != nil {
		log.Printf("Error closing browser: %v", err)
	}
	return err
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}
