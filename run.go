package htmlpng

import (
	"context"
	"fmt"
	"io"
)

// Run executes the htmlpng command line and returns the process exit code.
// Progress goes to stdout and failures to stderr.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer, newEngine EngineFactory) int {
	opts, err := ParseArgs(args)
	if err != nil {
		printUsage(stdout)
		return ExitCode(err)
	}

	err = execute(ctx, opts, stdout, newEngine)

	code := ExitCode(err)
	switch code {
	case ExitOK:
		fmt.Fprintln(stdout, "Done.")
	case ExitUnresolvedInput:
		fmt.Fprintln(stdout, err)
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return code
}

func execute(ctx context.Context, opts *Options, progress io.Writer, newEngine EngineFactory) error {
	output, err := PrepareOutput(opts.Output)
	if err != nil {
		return err
	}

	source, err := Classify(opts.Input, opts.Inline)
	if err != nil {
		return err
	}

	engine, err := newEngine(opts.Engine, opts.Browser, progress)
	if err != nil {
		return err
	}

	data, err := Capture(ctx, engine, &CaptureRequest{
		Source:      source,
		Session:     opts.SessionConfig(),
		FullPage:    opts.FullPage,
		Wait:        seconds(opts.WaitSeconds),
		Resize:      opts.Resize,
		Destination: opts.Output,
		Progress:    progress,
	})
	if err != nil {
		return err
	}

	return writeImage(output, data)
}

// SessionConfig derives the browser session settings from the options
func (o *Options) SessionConfig() SessionConfig {
	return SessionConfig{
		Viewport: Viewport{Width: o.Width, Height: o.Height},
		Timeout:  seconds(o.TimeoutSeconds),
		Domains:  o.Domains,
		Headers:  o.Headers,
		Stealth:  o.Stealth,
		Debug:    o.Debug,
	}
}
