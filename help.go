package htmlpng

import (
	"fmt"
	"io"
)

const usageText = `Usage: htmlpng <input> <output> [--width N] [--height N] [--fullpage true|false] [--inline]
  input: path to .html file, a URL (https://...) or HTML string if --inline is set

OPTIONS
    --width N               Viewport width in pixels (default: 1280)
    --height N              Viewport height in pixels (default: 720)
    --fullpage true|false   Capture the whole scrollable page (default: false)
    --inline                Treat input as a raw HTML string

    --timeout N             Timeout in seconds for each page operation (0 = no timeout)
    --wait N                Wait N seconds after page load before the screenshot
    --resize SPEC           Resize the screenshot (WxH, Wx, xH, WxH!, WxH#, P%xP%, WxH+X+Y)
    --domains LIST          Comma-separated whitelist of hosts allowed to load resources
                            (example.com, *.cdn.com, .example.com)
    --headers JSON          Extra request headers, e.g. '{"Authorization":"Bearer token"}'
    --engine rod|chromedp   Browser automation backend (default: rod)
    --browser PATH          Chrome/Chromium binary to launch
    --stealth               Hide common headless fingerprints (rod only)
    --debug                 Log network requests to stderr

    Malformed option values and unknown options are ignored.

EXAMPLES
    htmlpng input.html output.png --width 1024 --height 768 --fullpage false
    htmlpng https://example.com screenshot.png --fullpage true
    htmlpng "<html><body><h1>Hi</h1></body></html>" out.png --inline

EXIT CODES
    0   Success
    1   Missing <input> or <output>
    2   Input is not a URL or an existing file and --inline was not given
    3   Any other error (browser download, launch, navigation, screenshot, write)

ENVIRONMENT
    HTMLPNG_BROWSER, CHROME_BIN
                    Browser binary to use instead of the Chromium downloaded into
                    the user cache on first run
`

// ServiceHelpText documents the htmlpngd render service
const ServiceHelpText = `htmlpngd - HTML to PNG render service

USAGE
    htmlpngd [--listen addr] [--config file.yaml] [--mcp]    HTTP service
    htmlpngd --mcp --stdio                                   MCP server on stdio

OPTIONS
    --listen ADDR       Address for the HTTP server (default: localhost:8080)
    --config FILE       YAML configuration file
    --mcp               Enable MCP tools (/mcp over HTTP, or stdio with --stdio)
    --stdio             Serve MCP over stdin/stdout instead of HTTP
    --engine NAME       rod or chromedp (default: rod)
    --browser PATH      Chrome/Chromium binary to launch
    --debug             Log network requests
    --version           Print version information and exit

HTTP API
    GET  /?url=https://example.com      Render a URL
    POST /                              Render the request body as HTML
    GET  /metrics                       Plain-text counters

    Query parameters:
        viewport        Viewport size (e.g. 1920x1080)
        full_page       Capture the whole page (true/false)
        timeout         Timeout in seconds
        wait            Wait time in seconds after load
        domains         Domain whitelist (comma-separated)
        resize          Resize parameters

MCP TOOLS
    configure_render_context    Set viewport, timeout, domains and headers for a named context
    list_render_contexts        List configured contexts
    render_url                  Render a URL to PNG
    render_html                 Render an HTML document to PNG
    get_last_render             Details of the most recent render in a context

CONFIG FILE
    listen: localhost:8080
    engine: rod
    defaults:
      viewport: 1280x720
      full_page: false
      timeout: 30
      domains: example.com,*.cdn.com
      headers:
        X-Token: secret
`

func printUsage(w io.Writer) {
	fmt.Fprint(w, usageText)
}
