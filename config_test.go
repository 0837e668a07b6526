package htmlpng

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "htmlpngd.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigFileDefaults(t *testing.T) {
	cfg, err := LoadConfigFile("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Listen != "localhost:8080" || cfg.Engine != EngineRod {
		t.Errorf("Unexpected defaults %+v", cfg)
	}

	settings, err := cfg.RenderSettings()
	if err != nil {
		t.Fatal(err)
	}
	if settings.Viewport != (Viewport{Width: DefaultWidth, Height: DefaultHeight}) {
		t.Errorf("Expected default viewport, got %v", settings.Viewport)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
listen: 0.0.0.0:9000
engine: chromedp
browser: /opt/chrome/chrome
debug: true
defaults:
  viewport: 1024x768
  full_page: true
  timeout: 45
  wait: 1
  domains: example.com, *.cdn.com
  headers:
    Authorization: Bearer token
  stealth: true
`)

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Listen != "0.0.0.0:9000" || cfg.Engine != EngineChromedp || cfg.Browser != "/opt/chrome/chrome" {
		t.Errorf("Unexpected config %+v", cfg)
	}

	settings, err := cfg.RenderSettings()
	if err != nil {
		t.Fatal(err)
	}

	want := RenderSettings{
		Viewport:        Viewport{Width: 1024, Height: 768},
		FullPage:        true,
		TimeoutSeconds:  45,
		WaitSeconds:     1,
		DomainWhitelist: []string{"example.com", "*.cdn.com"},
		Headers:         map[string]string{"Authorization": "Bearer token"},
		Stealth:         true,
		Debug:           true,
	}
	if !reflect.DeepEqual(settings, want) {
		t.Errorf("Expected %+v, got %+v", want, settings)
	}
}

func TestLoadConfigFileErrors(t *testing.T) {
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for a missing file")
	}

	if _, err := LoadConfigFile(writeConfig(t, "defaults: [not, a, map]")); err == nil {
		t.Error("Expected error for malformed YAML")
	}

	invalid := []string{
		"engine: webkit",
		"defaults:\n  viewport: wide",
		"defaults:\n  timeout: 900",
		"defaults:\n  wait: -3",
		"defaults:\n  domains: \"[oops\"",
	}
	for _, content := range invalid {
		cfg, err := LoadConfigFile(writeConfig(t, content))
		if err != nil {
			t.Fatalf("%q: unexpected load error %v", content, err)
		}
		if _, err := cfg.RenderSettings(); err == nil {
			t.Errorf("%q: expected validation error", content)
		}
	}
}
