package htmlpng

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool argument structures with JSON schema tags

type ConfigureContextArgs struct {
	ContextName string            `json:"context_name,omitempty" jsonschema:"name of the render context (default: 'default')"`
	Viewport    *string           `json:"viewport,omitempty" jsonschema:"viewport dimensions like '1280x720'"`
	FullPage    *bool             `json:"full_page,omitempty" jsonschema:"capture the whole scrollable page instead of the viewport"`
	Timeout     *int              `json:"timeout,omitempty" jsonschema:"timeout in seconds for page operations, 0 for none"`
	Wait        *int              `json:"wait,omitempty" jsonschema:"seconds to wait after load before the screenshot"`
	Domains     *string           `json:"domains,omitempty" jsonschema:"comma-separated list of hosts allowed to load resources, empty to allow all"`
	Headers     map[string]string `json:"headers,omitempty" jsonschema:"HTTP headers added to every request, an empty object clears them"`
	Stealth     *bool             `json:"stealth,omitempty" jsonschema:"hide common headless browser fingerprints"`
}

type RenderURLArgs struct {
	URL         string `json:"url" jsonschema:"http or https URL to render"`
	ContextName string `json:"context_name,omitempty" jsonschema:"render context to use (default: 'default')"`
	FullPage    *bool  `json:"full_page,omitempty" jsonschema:"override the context full page setting"`
	Resize      string `json:"resize,omitempty" jsonschema:"resize parameters like '800x600', '800x600!' for exact size, or '50%x50%' for percentage"`
}

type RenderHTMLArgs struct {
	HTMLContent string `json:"html_content" jsonschema:"HTML document to render"`
	ContextName string `json:"context_name,omitempty" jsonschema:"render context to use (default: 'default')"`
	FullPage    *bool  `json:"full_page,omitempty" jsonschema:"override the context full page setting"`
	Resize      string `json:"resize,omitempty" jsonschema:"resize parameters like '800x600', '800x600!' for exact size, or '50%x50%' for percentage"`
}

type ListContextsArgs struct{}

type GetLastRenderArgs struct {
	ContextName  string `json:"context_name,omitempty" jsonschema:"render context to get the last render from (default: 'default')"`
	IncludeImage bool   `json:"include_image,omitempty" jsonschema:"include the rendered PNG in the response (default: false)"`
	IncludeHTML  bool   `json:"include_html,omitempty" jsonschema:"include the input HTML of render_html calls (default: false)"`
}

// Tool result structures

type ConfigureContextResult struct {
	Success     bool           `json:"success"`
	ContextName string         `json:"context_name"`
	Message     string         `json:"message"`
	Settings    RenderSettings `json:"settings"`
}

type RenderResult struct {
	Success     bool   `json:"success"`
	RequestID   string `json:"request_id"`
	ContentType string `json:"content_type"`
	URL         string `json:"url"`
	Size        int    `json:"size_bytes"`
	Duration    int64  `json:"duration_ms"`
}

func newErrorResult[T any](err error) (*mcp.CallToolResult, T, error) {
	var zeroValue T
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, zeroValue, err
}

func contextNameOrDefault(name string) string {
	if name == "" {
		return DefaultContextName
	}
	return name
}

// applyContextArgs returns settings with every field present in args replaced
func applyContextArgs(settings RenderSettings, args ConfigureContextArgs) (RenderSettings, error) {
	if args.Viewport != nil {
		viewport, err := ParseViewportString(*args.Viewport)
		if err != nil {
			return settings, fmt.Errorf("invalid viewport: %v", err)
		}
		settings.Viewport = viewport
	}

	if args.FullPage != nil {
		settings.FullPage = *args.FullPage
	}

	if args.Timeout != nil {
		timeout, err := parseTimeoutString(fmt.Sprint(*args.Timeout))
		if err != nil {
			return settings, fmt.Errorf("invalid timeout: %v", err)
		}
		settings.TimeoutSeconds = timeout
	}

	if args.Wait != nil {
		wait, err := parseTimeoutString(fmt.Sprint(*args.Wait))
		if err != nil {
			return settings, fmt.Errorf("invalid wait: %v", err)
		}
		settings.WaitSeconds = wait
	}

	if args.Domains != nil {
		domains, err := ParseDomainWhitelist(*args.Domains)
		if err != nil {
			return settings, fmt.Errorf("invalid domains: %v", err)
		}
		settings.DomainWhitelist = domains
	}

	if args.Headers != nil {
		if len(args.Headers) == 0 {
			settings.Headers = nil
		} else {
			settings.Headers = args.Headers
		}
	}

	if args.Stealth != nil {
		settings.Stealth = *args.Stealth
	}

	return settings, nil
}

func (s *Service) toolConfigureContext(ctx context.Context, request *mcp.CallToolRequest, args ConfigureContextArgs) (*mcp.CallToolResult, ConfigureContextResult, error) {
	contextName := contextNameOrDefault(args.ContextName)

	// new contexts start from the service defaults
	settings := s.Defaults
	if existing, exists := s.Contexts.GetContext(contextName); exists {
		settings = existing.Settings
	}

	settings, err := applyContextArgs(settings, args)
	if err != nil {
		return newErrorResult[ConfigureContextResult](err)
	}

	s.Contexts.CreateOrUpdateContext(contextName, &RenderContext{Settings: settings})

	return &mcp.CallToolResult{}, ConfigureContextResult{
		Success:     true,
		ContextName: contextName,
		Message:     "Context configured successfully",
		Settings:    settings,
	}, nil
}

func (s *Service) toolListContexts(ctx context.Context, request *mcp.CallToolRequest, args ListContextsArgs) (*mcp.CallToolResult, map[string]interface{}, error) {
	contexts := s.Contexts.ListContexts()

	return &mcp.CallToolResult{}, map[string]interface{}{
		"success":  true,
		"contexts": contexts,
		"count":    len(contexts),
	}, nil
}

func (s *Service) toolRenderURL(ctx context.Context, request *mcp.CallToolRequest, args RenderURLArgs) (*mcp.CallToolResult, RenderResult, error) {
	if args.URL == "" {
		return newErrorResult[RenderResult](fmt.Errorf("URL is required"))
	}

	target, ok := parseWebURL(args.URL)
	if !ok {
		return newErrorResult[RenderResult](fmt.Errorf("URL must be an absolute http or https URL: %s", args.URL))
	}

	return s.renderInContext(ctx, args.ContextName, RemoteURL{URL: target}, args.FullPage, args.Resize, "render_url")
}

func (s *Service) toolRenderHTML(ctx context.Context, request *mcp.CallToolRequest, args RenderHTMLArgs) (*mcp.CallToolResult, RenderResult, error) {
	if args.HTMLContent == "" {
		return newErrorResult[RenderResult](fmt.Errorf("HTML content is required"))
	}

	return s.renderInContext(ctx, args.ContextName, InlineHTML{HTML: args.HTMLContent}, args.FullPage, args.Resize, "render_html")
}

// renderInContext renders src with the settings of a render context and
// records the outcome in the context history
func (s *Service) renderInContext(ctx context.Context, contextName string, src Source, fullPage *bool, resize, requestType string) (*mcp.CallToolResult, RenderResult, error) {
	contextName = contextNameOrDefault(contextName)

	renderContext, exists := s.Contexts.GetContext(contextName)
	if !exists {
		return newErrorResult[RenderResult](fmt.Errorf("context not found: %s", contextName))
	}

	if resize != "" {
		if _, err := parseResizeString(resize); err != nil {
			return newErrorResult[RenderResult](fmt.Errorf("invalid resize parameters: %v", err))
		}
	}

	settings := renderContext.Settings
	if fullPage != nil {
		settings.FullPage = *fullPage
	}

	var url, inputHTML string
	switch src := src.(type) {
	case RemoteURL:
		url = src.URL.String()
	case InlineHTML:
		inputHTML = src.HTML
	}

	startTime := time.Now()
	data, _, err := s.render(ctx, src, settings, resize)

	entry := NewRequestHistoryEntry(contextName, url, inputHTML, requestType, settings, resize, data, startTime, err)
	s.History.StoreRequest(entry)
	s.Contexts.AddRequestToHistory(contextName, entry.ID)

	if err != nil {
		return newErrorResult[RenderResult](fmt.Errorf("render failed: %v", err))
	}

	if url == "" {
		url = "(HTML content)"
	}

	result := RenderResult{
		Success:     true,
		RequestID:   entry.ID,
		ContentType: "image/png",
		URL:         url,
		Size:        len(data),
		Duration:    entry.Duration.Milliseconds(),
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.ImageContent{
				Data:     data,
				MIMEType: result.ContentType,
			},
		},
	}, result, nil
}

func (s *Service) toolGetLastRender(ctx context.Context, request *mcp.CallToolRequest, args GetLastRenderArgs) (*mcp.CallToolResult, map[string]interface{}, error) {
	contextName := contextNameOrDefault(args.ContextName)

	if _, exists := s.Contexts.GetContext(contextName); !exists {
		return newErrorResult[map[string]interface{}](fmt.Errorf("context not found: %s", contextName))
	}

	lastRequest, found := s.History.GetLastRequest(contextName, s.Contexts)
	if !found {
		return newErrorResult[map[string]interface{}](fmt.Errorf("no renders found for context: %s", contextName))
	}

	result := map[string]interface{}{
		"success":      lastRequest.Error == "",
		"id":           lastRequest.ID,
		"context_name": lastRequest.ContextName,
		"timestamp":    lastRequest.Timestamp,
		"duration_ms":  lastRequest.Duration.Milliseconds(),
		"request_type": lastRequest.RequestType,
		"settings":     lastRequest.Settings,
		"size_bytes":   len(lastRequest.Screenshot),
	}

	if lastRequest.URL != "" {
		result["url"] = lastRequest.URL
	}
	if lastRequest.Resize != "" {
		result["resize"] = lastRequest.Resize
	}
	if args.IncludeHTML && lastRequest.InputHTML != "" {
		result["input_html"] = lastRequest.InputHTML
	}
	if lastRequest.Error != "" {
		result["error"] = lastRequest.Error
	}

	callResult := &mcp.CallToolResult{}
	if args.IncludeImage && len(lastRequest.Screenshot) > 0 {
		callResult.Content = []mcp.Content{
			&mcp.ImageContent{Data: lastRequest.Screenshot, MIMEType: "image/png"},
		}
	}

	return callResult, result, nil
}
