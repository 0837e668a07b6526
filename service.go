package htmlpng

import (
	"context"
	"time"
)

// RenderSettings are the browser settings applied to one render
type RenderSettings struct {
	Viewport        Viewport          `json:"viewport"`
	FullPage        bool              `json:"full_page"`
	TimeoutSeconds  int               `json:"timeout"`
	WaitSeconds     int               `json:"wait"`
	DomainWhitelist []string          `json:"domains,omitempty"`
	Headers         map[string]string `json:"headers,omitempty"`
	Stealth         bool              `json:"stealth"`
	Debug           bool              `json:"-"`
}

func (rs RenderSettings) sessionConfig() SessionConfig {
	return SessionConfig{
		Viewport: rs.Viewport,
		Timeout:  seconds(rs.TimeoutSeconds),
		Domains:  rs.DomainWhitelist,
		Headers:  rs.Headers,
		Stealth:  rs.Stealth,
		Debug:    rs.Debug,
	}
}

// Service renders HTML for the HTTP and MCP front ends. Every render launches
// its own browser session.
type Service struct {
	Engine   Engine
	Defaults RenderSettings
	Contexts *ContextConfigManager
	History  *RequestHistoryManager
	Metrics  *Metrics
}

// NewService creates a service whose "default" render context uses defaults
func NewService(engine Engine, defaults RenderSettings) *Service {
	contexts := NewContextConfigManager()
	contexts.CreateOrUpdateContext(DefaultContextName, &RenderContext{Settings: defaults})

	return &Service{
		Engine:   engine,
		Defaults: defaults,
		Contexts: contexts,
		History:  NewRequestHistoryManager(DefaultHistorySize),
		Metrics:  &Metrics{},
	}
}

// render captures src and records the outcome in the metrics
func (s *Service) render(ctx context.Context, src Source, settings RenderSettings, resize string) ([]byte, time.Duration, error) {
	start := time.Now()

	data, err := Capture(ctx, s.Engine, &CaptureRequest{
		Source:   src,
		Session:  settings.sessionConfig(),
		FullPage: settings.FullPage,
		Wait:     seconds(settings.WaitSeconds),
		Resize:   resize,
	})

	duration := time.Since(start)
	s.Metrics.observe(duration, err)
	return data, duration, err
}
