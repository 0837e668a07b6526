package htmlpng

import (
	"reflect"
	"testing"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		width    int
		height   int
		fullPage bool
		inline   bool
	}{
		{"defaults", []string{"in", "out.png"}, 1280, 720, false, false},
		{"dimensions", []string{"in", "out.png", "--width", "1920", "--height", "1080"}, 1920, 1080, false, false},
		{"full page", []string{"in", "out.png", "--fullpage", "true"}, 1280, 720, true, false},
		{"full page any case", []string{"in", "out.png", "--fullpage", "TRUE"}, 1280, 720, true, false},
		{"full page false", []string{"in", "out.png", "--fullpage", "true", "--fullpage", "False"}, 1280, 720, false, false},
		{"inline", []string{"<p>", "out.png", "--inline"}, 1280, 720, false, true},
		{"whitespace around numbers", []string{"in", "out.png", "--width", " 640 "}, 640, 720, false, false},
		{"zero and negative pass through", []string{"in", "out.png", "--width", "0", "--height", "-5"}, 0, -5, false, false},
		{"last value wins", []string{"in", "out.png", "--width", "100", "--width", "200"}, 200, 720, false, false},

		{"malformed width keeps default", []string{"in", "out.png", "--width", "abc"}, 1280, 720, false, false},
		{"malformed value is not consumed", []string{"in", "out.png", "--width", "--height", "500"}, 1280, 500, false, false},
		{"malformed value keeps previous", []string{"in", "out.png", "--width", "800", "--width", "wide"}, 800, 720, false, false},
		{"overflow is malformed", []string{"in", "out.png", "--height", "3000000000"}, 1280, 720, false, false},
		{"fractional is malformed", []string{"in", "out.png", "--width", "10.5"}, 1280, 720, false, false},
		{"yes is not a boolean", []string{"in", "out.png", "--fullpage", "yes"}, 1280, 720, false, false},
		{"flag without value", []string{"in", "out.png", "--width"}, 1280, 720, false, false},
		{"rejected value scanned as flag", []string{"in", "out.png", "--fullpage", "--inline"}, 1280, 720, false, true},

		{"unknown flags ignored", []string{"in", "out.png", "--quality", "90", "--width", "300"}, 300, 720, false, false},
		{"flags are case sensitive", []string{"in", "out.png", "--Width", "300", "--INLINE"}, 1280, 720, false, false},
		{"flags before index 2 are positional", []string{"--inline", "out.png"}, 1280, 720, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := ParseArgs(tt.args)
			if err != nil {
				t.Fatalf("ParseArgs(%q) error: %v", tt.args, err)
			}

			if opts.Input != tt.args[0] || opts.Output != tt.args[1] {
				t.Errorf("Expected positional %q %q, got %q %q", tt.args[0], tt.args[1], opts.Input, opts.Output)
			}
			if opts.Width != tt.width || opts.Height != tt.height {
				t.Errorf("Expected %dx%d, got %dx%d", tt.width, tt.height, opts.Width, opts.Height)
			}
			if opts.FullPage != tt.fullPage {
				t.Errorf("Expected fullPage=%t, got %t", tt.fullPage, opts.FullPage)
			}
			if opts.Inline != tt.inline {
				t.Errorf("Expected inline=%t, got %t", tt.inline, opts.Inline)
			}
		})
	}
}

func TestParseArgsUsageError(t *testing.T) {
	for _, args := range [][]string{nil, {}, {"only-input"}} {
		_, err := ParseArgs(args)
		if ExitCode(err) != ExitUsage {
			t.Errorf("ParseArgs(%q): expected usage error, got %v", args, err)
		}
	}
}

func TestParseArgsExtendedFlags(t *testing.T) {
	opts, err := ParseArgs([]string{
		"https://example.com", "out.png",
		"--timeout", "30",
		"--wait", "2",
		"--resize", "50%x50%",
		"--domains", "Example.com, *.cdn.com",
		"--headers", `{"Authorization":"Bearer token"}`,
		"--engine", "chromedp",
		"--browser", "/usr/bin/chromium",
		"--stealth",
		"--debug",
	})
	if err != nil {
		t.Fatal(err)
	}

	want := &Options{
		Input:          "https://example.com",
		Output:         "out.png",
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		TimeoutSeconds: 30,
		WaitSeconds:    2,
		Resize:         "50%x50%",
		Domains:        []string{"example.com", "*.cdn.com"},
		Headers:        map[string]string{"Authorization": "Bearer token"},
		Engine:         EngineChromedp,
		Browser:        "/usr/bin/chromium",
		Stealth:        true,
		Debug:          true,
	}
	if !reflect.DeepEqual(opts, want) {
		t.Errorf("Expected %+v, got %+v", want, opts)
	}
}

func TestParseArgsMalformedExtendedFlags(t *testing.T) {
	opts, err := ParseArgs([]string{
		"in", "out.png",
		"--timeout", "forever",
		"--wait", "301",
		"--resize", "huge",
		"--headers", "not json",
		"--engine", "webkit",
	})
	if err != nil {
		t.Fatal(err)
	}

	if opts.TimeoutSeconds != 0 || opts.WaitSeconds != 0 {
		t.Errorf("Expected timeouts to keep their defaults, got %d/%d", opts.TimeoutSeconds, opts.WaitSeconds)
	}
	if opts.Resize != "" {
		t.Errorf("Expected no resize, got %q", opts.Resize)
	}
	if opts.Headers != nil {
		t.Errorf("Expected no headers, got %v", opts.Headers)
	}
	if opts.Engine != EngineRod {
		t.Errorf("Expected engine to stay %q, got %q", EngineRod, opts.Engine)
	}
}

func TestParseCustomHeaders(t *testing.T) {
	headers, err := parseCustomHeaders(`{"X-One":"1","X-Two":"2"}`)
	if err != nil {
		t.Fatal(err)
	}
	if headers["X-One"] != "1" || headers["X-Two"] != "2" {
		t.Errorf("Unexpected headers %v", headers)
	}

	if headers, err := parseCustomHeaders(""); err != nil || headers != nil {
		t.Errorf("Expected nil headers for empty input, got %v, %v", headers, err)
	}

	if _, err := parseCustomHeaders(`["not","an","object"]`); err == nil {
		t.Error("Expected error for a JSON array")
	}
}
