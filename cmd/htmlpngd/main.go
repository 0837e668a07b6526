package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/leafo/htmlpng"
)

var (
	buildDate  = "unknown"
	commitHash = "unknown"
)

func main() {
	listen := flag.String("listen", "", "Address to listen on for HTTP server (default: localhost:8080)")
	configPath := flag.String("config", "", "YAML configuration file")
	mcpMode := flag.Bool("mcp", false, "Enable MCP (Model Context Protocol) tools")
	stdio := flag.Bool("stdio", false, "Serve MCP over stdin/stdout instead of HTTP")
	engineName := flag.String("engine", "", "Browser automation backend: rod or chromedp")
	browser := flag.String("browser", "", "Chrome/Chromium binary to launch")
	debug := flag.Bool("debug", false, "Enable debug logging of all network requests")
	version := flag.Bool("version", false, "Print version information and exit")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), htmlpng.ServiceHelpText)
	}
	flag.Parse()

	if *version {
		fmt.Printf("htmlpngd\n  build date: %s\n  commit: %s\n", buildDate, commitHash)
		return
	}

	cfg, err := htmlpng.LoadConfigFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if *listen != "" {
		cfg.Listen = *listen
	}
	if *engineName != "" {
		cfg.Engine = *engineName
	}
	if *browser != "" {
		cfg.Browser = *browser
	}
	if *debug {
		cfg.Debug = true
	}

	defaults, err := cfg.RenderSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error in config: %v\n", err)
		os.Exit(1)
	}

	// progress messages of the engine go to the log, stdout may carry MCP
	engine, err := htmlpng.NewEngine(cfg.Engine, cfg.Browser, log.Writer())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating engine: %v\n", err)
		os.Exit(1)
	}

	svc := htmlpng.NewService(engine, defaults)
	serverVersion := commitHash

	if *stdio {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := svc.RunMCPStdio(ctx, serverVersion); err != nil {
			fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var handler http.Handler
	if *mcpMode {
		handler = svc.Router(svc.NewMCPServer(serverVersion))
	} else {
		handler = svc.Router(nil)
	}

	fmt.Printf("Starting HTTP server on %s (engine: %s)\n", cfg.Listen, cfg.Engine)
	fmt.Printf("Render URL: http://%s/?url=https://leafo.net&viewport=1920x1080&full_page=true&resize=50%%x50%%\n", cfg.Listen)
	fmt.Printf("Render HTML: curl --data-binary @page.html http://%s/ > page.png\n", cfg.Listen)
	if len(defaults.Headers) > 0 {
		fmt.Printf("Custom headers will be applied to all requests: %+v\n", defaults.Headers)
	}
	fmt.Printf("Metrics: http://%s/metrics\n", cfg.Listen)
	if *mcpMode {
		fmt.Printf("MCP (streamable): http://%s/mcp\n", cfg.Listen)
	}
	if cfg.Debug {
		fmt.Println("Debug mode enabled - all network requests will be logged")
	}
	log.Fatal(http.ListenAndServe(cfg.Listen, handler))
}
