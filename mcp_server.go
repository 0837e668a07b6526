package htmlpng

import (
	"context"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewMCPServer creates the MCP server exposing the render tools
func (s *Service) NewMCPServer(version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "htmlpng",
		Title:   "HTML to PNG Renderer",
		Version: version,
	}, nil)

	s.registerTools(server)
	return server
}

// RunMCPStdio serves MCP over stdin/stdout until ctx is done
func (s *Service) RunMCPStdio(ctx context.Context, version string) error {
	log.Println("Starting htmlpng MCP server on stdio...")
	return s.NewMCPServer(version).Run(ctx, &mcp.StdioTransport{})
}

func (s *Service) registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "configure_render_context",
		Description: "Configure render settings (viewport, full page, timeout, wait, allowed domains, headers) for a named render context. Omitted fields keep their current value.",
	}, s.toolConfigureContext)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_render_contexts",
		Description: "List all configured render contexts with their settings.",
	}, s.toolListContexts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "render_url",
		Description: "Render a web page to a PNG image by navigating to the given http(s) URL and waiting for the network to go idle.",
	}, s.toolRenderURL)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "render_html",
		Description: "Render an HTML document to a PNG image. The HTML is used verbatim as the page content.",
	}, s.toolRenderHTML)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_last_render",
		Description: "Retrieve details about the most recent render made in a render context, optionally including the image.",
	}, s.toolGetLastRender)
}
