package htmlpng

import (
	"net/url"
	"path/filepath"
	"strings"
)

// ParseDomainWhitelist splits a comma separated list of host patterns.
// Patterns are globs (*.cdn.com) or a leading dot for a domain and all of its
// subdomains (.example.com).
func ParseDomainWhitelist(whitelist string) ([]string, error) {
	if whitelist == "" {
		return nil, nil
	}

	var processed []string
	for _, domain := range strings.Split(whitelist, ",") {
		domain = strings.ToLower(strings.TrimSpace(domain))
		if domain == "" {
			continue
		}
		if _, err := filepath.Match(domain, ""); err != nil {
			return nil, err
		}
		processed = append(processed, domain)
	}

	return processed, nil
}

func isDomainWhitelisted(requestURL string, whitelist []string) bool {
	if len(whitelist) == 0 {
		return true
	}

	parsed, err := url.Parse(requestURL)
	if err != nil {
		return false
	}

	// data: and blob: urls carry no host and never leave the browser
	if parsed.Scheme == "data" || parsed.Scheme == "blob" {
		return true
	}

	hostname := strings.ToLower(parsed.Hostname())

	for _, pattern := range whitelist {
		if matched, _ := filepath.Match(pattern, hostname); matched {
			return true
		}

		if strings.HasPrefix(pattern, ".") {
			if strings.HasSuffix(hostname, pattern) || hostname == strings.TrimPrefix(pattern, ".") {
				return true
			}
		}
	}

	return false
}
