package htmlpng

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CaptureRequest describes one render: where the content comes from, how the
// page is set up and how the screenshot is taken
type CaptureRequest struct {
	Source   Source
	Session  SessionConfig
	FullPage bool
	Wait     time.Duration // pause between load and screenshot
	Resize   string

	Destination string    // only used in progress messages
	Progress    io.Writer // nil discards progress messages
}

// Capture opens a session, loads the source and returns the screenshot as PNG.
// The session is closed before Capture returns.
func Capture(ctx context.Context, engine Engine, req *CaptureRequest) ([]byte, error) {
	progress := req.Progress
	if progress == nil {
		progress = io.Discard
	}

	sess, err := engine.Open(ctx, req.Session)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	if err := loadSource(ctx, sess, req.Source, progress); err != nil {
		return nil, err
	}

	if req.Wait > 0 {
		timer := time.NewTimer(req.Wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	viewport := req.Session.Viewport
	if req.Destination != "" {
		fmt.Fprintf(progress, "Taking screenshot -> %s (fullPage=%t, width=%d, height=%d)\n",
			req.Destination, req.FullPage, viewport.Width, viewport.Height)
	} else {
		fmt.Fprintf(progress, "Taking screenshot (fullPage=%t, width=%d, height=%d)\n",
			req.FullPage, viewport.Width, viewport.Height)
	}

	data, err := sess.Screenshot(ctx, req.FullPage)
	if err != nil {
		return nil, err
	}

	return applyResize(data, req.Resize)
}

func loadSource(ctx context.Context, sess Session, src Source, progress io.Writer) error {
	switch src := src.(type) {
	case InlineHTML:
		fmt.Fprintln(progress, "Setting page content from inline HTML...")
		return sess.SetContent(ctx, src.HTML)

	case RemoteURL:
		fmt.Fprintf(progress, "Navigating to URL: %s\n", src.URL)
		return sess.Navigate(ctx, src.URL.String())

	case LocalFile:
		fmt.Fprintf(progress, "Loading HTML file: %s\n", src.Path)
		html, err := readHTMLFile(src.Path)
		if err != nil {
			return &FilesystemError{Op: "read", Path: src.Path, Err: err}
		}
		return sess.SetContent(ctx, html)

	default:
		return fmt.Errorf("unsupported source %T", src)
	}
}

// readHTMLFile reads a document as text. A byte order mark selects UTF-8 or
// UTF-16 and is stripped, otherwise the file is taken as UTF-8.
func readHTMLFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	html, err := io.ReadAll(transform.NewReader(f, decoder))
	if err != nil {
		return "", err
	}
	return string(html), nil
}
