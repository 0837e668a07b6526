package htmlpng

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultWidth  = 1280
	DefaultHeight = 720
)

// Options is the parsed invocation of the htmlpng command
type Options struct {
	Input    string
	Output   string
	Width    int
	Height   int
	FullPage bool
	Inline   bool

	TimeoutSeconds int               // 0 = no timeout
	WaitSeconds    int               // pause after load before capture
	Resize         string            // resize spec applied to the captured PNG
	Domains        []string          // request whitelist, empty allows everything
	Headers        map[string]string // extra headers for outgoing requests
	Engine         string            // rod or chromedp
	Browser        string            // explicit browser binary
	Stealth        bool
	Debug          bool
}

// DefaultOptions returns the options used before any flag is applied
func DefaultOptions() *Options {
	return &Options{
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Engine: EngineRod,
	}
}

type argScanner struct {
	args []string
	i    int
}

// value hands the token following the current flag to parse and consumes it
// only when parse accepts it. A rejected token is scanned again as a flag.
func (s *argScanner) value(parse func(string) bool) {
	if s.i+1 < len(s.args) && parse(s.args[s.i+1]) {
		s.i++
	}
}

// ParseArgs reads `<input> <output> [flags...]`. Flags are matched exactly,
// unknown flags are skipped and malformed flag values leave the previous value
// in place.
func ParseArgs(args []string) (*Options, error) {
	if len(args) < 2 {
		return nil, &UsageError{Got: len(args)}
	}

	opts := DefaultOptions()
	opts.Input = args[0]
	opts.Output = args[1]

	s := &argScanner{args: args}
	for s.i = 2; s.i < len(args); s.i++ {
		switch args[s.i] {
		case "--width":
			s.value(func(v string) bool {
				n, ok := parseInt32(v)
				if ok {
					opts.Width = n
				}
				return ok
			})
		case "--height":
			s.value(func(v string) bool {
				n, ok := parseInt32(v)
				if ok {
					opts.Height = n
				}
				return ok
			})
		case "--fullpage":
			s.value(func(v string) bool {
				b, ok := parseBool(v)
				if ok {
					opts.FullPage = b
				}
				return ok
			})
		case "--inline":
			opts.Inline = true
		case "--timeout":
			s.value(func(v string) bool {
				n, err := parseTimeoutString(strings.TrimSpace(v))
				if err == nil {
					opts.TimeoutSeconds = n
				}
				return err == nil
			})
		case "--wait":
			s.value(func(v string) bool {
				n, err := parseTimeoutString(strings.TrimSpace(v))
				if err == nil {
					opts.WaitSeconds = n
				}
				return err == nil
			})
		case "--resize":
			s.value(func(v string) bool {
				if _, err := parseResizeString(v); err != nil {
					return false
				}
				opts.Resize = v
				return true
			})
		case "--domains":
			s.value(func(v string) bool {
				domains, err := ParseDomainWhitelist(v)
				if err == nil {
					opts.Domains = domains
				}
				return err == nil
			})
		case "--headers":
			s.value(func(v string) bool {
				headers, err := parseCustomHeaders(v)
				if err == nil {
					opts.Headers = headers
				}
				return err == nil
			})
		case "--engine":
			s.value(func(v string) bool {
				if !validEngine(v) {
					return false
				}
				opts.Engine = v
				return true
			})
		case "--browser":
			s.value(func(v string) bool {
				opts.Browser = v
				return v != ""
			})
		case "--stealth":
			opts.Stealth = true
		case "--debug":
			opts.Debug = true
		}
	}

	return opts, nil
}

// parseInt32 accepts an optionally signed decimal that fits in 32 bits,
// ignoring surrounding whitespace
func parseInt32(v string) (int, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 32)
	if err != nil {
		return 0, false
	}
	return int(n), true
}

// parseBool only accepts the words true and false, in any case
func parseBool(v string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

func parseCustomHeaders(headersJSON string) (map[string]string, error) {
	if headersJSON == "" {
		return nil, nil
	}

	var headers map[string]string
	err := json.Unmarshal([]byte(headersJSON), &headers)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON format: %v", err)
	}

	return headers, nil
}
