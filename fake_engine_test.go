package htmlpng

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"
	"testing"
)

// fakeEngine records the sessions it opens and returns solid PNGs sized like
// the viewport, or like a document of pageHeight for full page shots
type fakeEngine struct {
	mu       sync.Mutex
	sessions []*fakeSession

	pageHeight    int
	openErr       error
	contentErr    error
	navigateErr   error
	screenshotErr error
}

type fakeSession struct {
	engine *fakeEngine
	cfg    SessionConfig

	content   []string
	navigated []string
	fullPage  []bool
	closed    bool
}

func (e *fakeEngine) Open(ctx context.Context, cfg SessionConfig) (Session, error) {
	if e.openErr != nil {
		return nil, engineErr("launch", e.openErr)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	sess := &fakeSession{engine: e, cfg: cfg}
	e.sessions = append(e.sessions, sess)
	return sess, nil
}

func (e *fakeEngine) last(t *testing.T) *fakeSession {
	t.Helper()
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.sessions) == 0 {
		t.Fatal("no session was opened")
	}
	return e.sessions[len(e.sessions)-1]
}

func (e *fakeEngine) opened() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.sessions)
}

func (s *fakeSession) SetContent(ctx context.Context, html string) error {
	s.content = append(s.content, html)
	return engineErr("content", s.engine.contentErr)
}

func (s *fakeSession) Navigate(ctx context.Context, url string) error {
	s.navigated = append(s.navigated, url)
	return engineErr("navigate", s.engine.navigateErr)
}

func (s *fakeSession) Screenshot(ctx context.Context, fullPage bool) ([]byte, error) {
	s.fullPage = append(s.fullPage, fullPage)
	if s.engine.screenshotErr != nil {
		return nil, engineErr("screenshot", s.engine.screenshotErr)
	}

	width, height := s.cfg.Viewport.Width, s.cfg.Viewport.Height
	if fullPage && s.engine.pageHeight > height {
		height = s.engine.pageHeight
	}
	return solidPNG(width, height)
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

func solidPNG(width, height int) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 0x33, G: 0x66, B: 0x99, A: 0xff})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// factoryFor returns an EngineFactory handing out engine and counting calls
func factoryFor(engine Engine, calls *int) EngineFactory {
	return func(name, browser string, progress io.Writer) (Engine, error) {
		*calls++
		return engine, nil
	}
}

func pngSize(t *testing.T, data []byte) (int, int) {
	t.Helper()

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Failed to decode PNG: %v", err)
	}
	return cfg.Width, cfg.Height
}
