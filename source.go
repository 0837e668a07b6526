package htmlpng

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Source is where the page content comes from. It is one of InlineHTML,
// RemoteURL or LocalFile.
type Source interface {
	isSource()
}

// InlineHTML is an HTML document passed directly on the command line
type InlineHTML struct {
	HTML string
}

// RemoteURL is an absolute http or https URL
type RemoteURL struct {
	URL *url.URL
}

// LocalFile is an existing file on disk, stored as an absolute path
type LocalFile struct {
	Path string
}

func (InlineHTML) isSource() {}
func (RemoteURL) isSource()  {}
func (LocalFile) isSource()  {}

// Classify decides how input is loaded. The inline flag wins over everything,
// then http(s) URLs, then existing files.
func Classify(input string, inline bool) (Source, error) {
	if inline {
		return InlineHTML{HTML: input}, nil
	}

	if u, ok := parseWebURL(input); ok {
		return RemoteURL{URL: u}, nil
	}

	if info, err := os.Stat(input); err == nil && info.Mode().IsRegular() {
		path, err := filepath.Abs(input)
		if err != nil {
			return nil, &FilesystemError{Op: "resolve", Path: input, Err: err}
		}
		return LocalFile{Path: path}, nil
	}

	return nil, &InputResolutionError{Input: input}
}

func parseWebURL(input string) (*url.URL, bool) {
	u, err := url.Parse(strings.TrimSpace(input))
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, false
	}
	// url.Parse lower-cases the scheme
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}
	return u, true
}
