package htmlpng

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// maxHTMLBody limits POSTed documents
const maxHTMLBody = 10 << 20

type responseWriter struct {
	http.ResponseWriter
	status int
	size   int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.status == 0 {
		rw.status = 200
	}
	size, err := rw.ResponseWriter.Write(b)
	rw.size += int64(size)
	return size, err
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// loggingMiddleware writes an access log line in combined log format
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := &responseWriter{ResponseWriter: w}
		next.ServeHTTP(rw, r)

		remoteAddr := r.RemoteAddr
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			remoteAddr = strings.TrimSpace(strings.Split(forwarded, ",")[0])
		}

		timestamp := time.Now().Format("02/Jan/2006:15:04:05 -0700")
		userAgent := r.Header.Get("User-Agent")
		referer := r.Header.Get("Referer")
		if referer == "" {
			referer = "-"
		}
		if userAgent == "" {
			userAgent = "-"
		}

		log.Printf("%s - - [%s] \"%s %s %s\" %d %d \"%s\" \"%s\"",
			remoteAddr, timestamp, r.Method, r.RequestURI, r.Proto, rw.status, rw.size, referer, userAgent)
	})
}

// Router returns the HTTP API. When mcpServer is not nil it is mounted on /mcp.
func (s *Service) Router(mcpServer *mcp.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleRenderURL)
	r.Post("/", s.handleRenderHTML)
	r.Method(http.MethodGet, "/metrics", s.Metrics)

	if mcpServer != nil {
		handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
			return mcpServer
		}, nil)
		r.Handle("/mcp", handler)
		r.Handle("/mcp/*", handler)
	}

	return r
}

// settingsFromQuery overrides base with the viewport, full_page, timeout,
// wait and domains query parameters
func settingsFromQuery(query url.Values, base RenderSettings) (RenderSettings, error) {
	settings := base

	if v := query.Get("viewport"); v != "" {
		viewport, err := ParseViewportString(v)
		if err != nil {
			return settings, fmt.Errorf("invalid viewport: %v", err)
		}
		settings.Viewport = viewport
	}

	if v := query.Get("full_page"); v != "" {
		fullPage, err := strconv.ParseBool(v)
		if err != nil {
			return settings, fmt.Errorf("invalid full_page: %v", err)
		}
		settings.FullPage = fullPage
	}

	if v := query.Get("timeout"); v != "" {
		timeout, err := parseTimeoutString(v)
		if err != nil {
			return settings, fmt.Errorf("invalid timeout: %v", err)
		}
		settings.TimeoutSeconds = timeout
	}

	if v := query.Get("wait"); v != "" {
		wait, err := parseTimeoutString(v)
		if err != nil {
			return settings, fmt.Errorf("invalid wait: %v", err)
		}
		settings.WaitSeconds = wait
	}

	if v := query.Get("domains"); v != "" {
		domains, err := ParseDomainWhitelist(v)
		if err != nil {
			return settings, fmt.Errorf("invalid domains: %v", err)
		}
		settings.DomainWhitelist = domains
	}

	return settings, nil
}

func resizeFromQuery(query url.Values) (string, error) {
	resize := query.Get("resize")
	if resize == "" {
		return "", nil
	}
	if _, err := parseResizeString(resize); err != nil {
		return "", fmt.Errorf("invalid resize: %v", err)
	}
	return resize, nil
}

func (s *Service) handleRenderURL(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		http.Error(w, "Missing url parameter", http.StatusBadRequest)
		return
	}

	target, ok := parseWebURL(rawURL)
	if !ok {
		http.Error(w, "url must be an absolute http or https URL", http.StatusBadRequest)
		return
	}

	s.serveRender(w, r, RemoteURL{URL: target})
}

func (s *Service) handleRenderHTML(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxHTMLBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "HTML body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, fmt.Sprintf("Error reading body: %v", err), http.StatusBadRequest)
		return
	}
	if len(body) == 0 {
		http.Error(w, "Missing HTML body", http.StatusBadRequest)
		return
	}

	s.serveRender(w, r, InlineHTML{HTML: string(body)})
}

func (s *Service) serveRender(w http.ResponseWriter, r *http.Request, src Source) {
	settings, err := settingsFromQuery(r.URL.Query(), s.Defaults)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid parameters: %v", err), http.StatusBadRequest)
		return
	}

	resize, err := resizeFromQuery(r.URL.Query())
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid parameters: %v", err), http.StatusBadRequest)
		return
	}

	data, _, err := s.render(r.Context(), src, settings, resize)
	if err != nil {
		http.Error(w, fmt.Sprintf("Error rendering screenshot: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}
