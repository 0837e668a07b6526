package htmlpng

import (
	"context"
	"errors"
	"io"
	"log"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// RodEngine drives Chromium through go-rod. It is the default engine.
type RodEngine struct {
	Browser  string    // browser binary, empty to use the downloaded Chromium
	Progress io.Writer // receives the download notice
}

type rodSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	router   *rod.HijackRouter
	timeout  time.Duration

	// armed while navigating to a URL, see HijackConfig
	permitFirst atomic.Bool
}

func (e *RodEngine) Open(ctx context.Context, cfg SessionConfig) (Session, error) {
	progress := e.Progress
	if progress == nil {
		progress = io.Discard
	}

	bin, err := acquireBrowser(e.Browser, progress)
	if err != nil {
		return nil, err
	}

	l := launcher.New().
		Context(ctx).
		Bin(bin).
		Headless(true).
		NoSandbox(true).
		Set("disable-setuid-sandbox")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, engineErr("launch", err)
	}

	s := &rodSession{launcher: l, timeout: cfg.Timeout}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		s.Close()
		return nil, engineErr("launch", err)
	}
	s.browser = browser

	if cfg.Stealth {
		s.page, err = stealth.Page(browser)
	} else {
		s.page, err = browser.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		s.Close()
		return nil, engineErr("page", err)
	}

	err = s.page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             cfg.Viewport.Width,
		Height:            cfg.Viewport.Height,
		DeviceScaleFactor: 1.0,
		Mobile:            false,
	})
	if err != nil {
		s.Close()
		return nil, engineErr("viewport", err)
	}

	s.router = setupRequestHijacking(s.page, &HijackConfig{
		DomainWhitelist: cfg.Domains,
		CustomHeaders:   cfg.Headers,
		Debug:           cfg.Debug,

		PermitFirstRequest: &s.permitFirst,
	})

	return s, nil
}

// pageFor binds the page to ctx and the session timeout. The returned func
// releases the timeout.
func (s *rodSession) pageFor(ctx context.Context) (*rod.Page, func()) {
	p := s.page.Context(ctx)
	if s.timeout > 0 {
		p = p.Timeout(s.timeout)
		return p, func() { p.CancelTimeout() }
	}
	return p, func() {}
}

func (s *rodSession) SetContent(ctx context.Context, html string) error {
	p, done := s.pageFor(ctx)
	defer done()

	if err := p.SetDocumentContent(html); err != nil {
		return engineErr("content", err)
	}
	return engineErr("content", p.WaitLoad())
}

func (s *rodSession) Navigate(ctx context.Context, url string) error {
	p, done := s.pageFor(ctx)
	defer done()

	waitIdle := p.WaitRequestIdle(networkIdleWindow, nil, nil, nil)

	s.permitFirst.Store(true)
	defer s.permitFirst.Store(false)

	if err := p.Navigate(url); err != nil {
		return engineErr("navigate", err)
	}
	if err := p.WaitLoad(); err != nil {
		return engineErr("navigate", err)
	}

	waitIdle()
	return engineErr("navigate", p.GetContext().Err())
}

func (s *rodSession) Screenshot(ctx context.Context, fullPage bool) ([]byte, error) {
	p, done := s.pageFor(ctx)
	defer done()

	data, err := p.Screenshot(fullPage, &proto.PageCaptureScreenshot{
		Format:      proto.PageCaptureScreenshotFormatPng,
		FromSurface: true,
	})
	if err != nil {
		return nil, engineErr("screenshot", err)
	}
	return data, nil
}

// Close tears down the page, the browser and the launched process. It is safe
// to call on a partially opened session.
func (s *rodSession) Close() error {
	var errs []error

	if s.router != nil {
		if err := s.router.Stop(); err != nil {
			errs = append(errs, err)
		}
		s.router = nil
	}

	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			errs = append(errs, err)
		}
		s.browser = nil
		s.page = nil
	}

	if s.launcher != nil {
		s.launcher.Kill()
		s.launcher.Cleanup()
		s.launcher = nil
	}

	if err := errors.Join(errs...); err != nil {
		log.Printf("Error closing browser: %v", err)
		return err
	}
	return nil
}
