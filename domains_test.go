package htmlpng

import (
	"reflect"
	"testing"
)

func TestParseDomainWhitelist(t *testing.T) {
	got, err := ParseDomainWhitelist(" Example.com ,*.CDN.com,, .assets.net")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"example.com", "*.cdn.com", ".assets.net"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	if got, err := ParseDomainWhitelist(""); err != nil || got != nil {
		t.Errorf("Expected nil whitelist for empty input, got %v, %v", got, err)
	}

	if _, err := ParseDomainWhitelist("[bad"); err == nil {
		t.Error("Expected error for malformed pattern")
	}
}

func TestIsDomainWhitelisted(t *testing.T) {
	whitelist := []string{"example.com", "*.cdn.com", ".assets.net"}

	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com/page", true},
		{"https://EXAMPLE.com:8443/page", true},
		{"https://www.example.com/", false},
		{"https://img.cdn.com/a.png", true},
		{"https://cdn.com/a.png", false},
		{"https://assets.net/x.css", true},
		{"https://a.b.assets.net/x.css", true},
		{"https://evilassets.net/x.css", false},
		{"https://tracker.io/pixel.gif", false},
		{"data:image/png;base64,AAAA", true},
		{"blob:https://example.com/uuid", true},
	}

	for _, tt := range tests {
		if got := isDomainWhitelisted(tt.url, whitelist); got != tt.want {
			t.Errorf("isDomainWhitelisted(%q) = %t, want %t", tt.url, got, tt.want)
		}
	}

	if !isDomainWhitelisted("https://anything.org", nil) {
		t.Error("An empty whitelist allows everything")
	}
}
