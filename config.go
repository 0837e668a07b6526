package htmlpng

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the htmlpngd configuration file
type Config struct {
	Listen   string         `yaml:"listen"`
	Engine   string         `yaml:"engine"`
	Browser  string         `yaml:"browser"`
	Debug    bool           `yaml:"debug"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// DefaultsConfig seeds the "default" render context
type DefaultsConfig struct {
	Viewport string            `yaml:"viewport"` // WxH
	FullPage bool              `yaml:"full_page"`
	Timeout  int               `yaml:"timeout"` // seconds
	Wait     int               `yaml:"wait"`    // seconds
	Domains  string            `yaml:"domains"` // comma separated
	Headers  map[string]string `yaml:"headers"`
	Stealth  bool              `yaml:"stealth"`
}

// LoadConfigFile reads a YAML configuration file. An empty path returns the
// defaults.
func LoadConfigFile(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = "localhost:8080"
	}
	if c.Engine == "" {
		c.Engine = EngineRod
	}
	if c.Defaults.Viewport == "" {
		c.Defaults.Viewport = Viewport{Width: DefaultWidth, Height: DefaultHeight}.String()
	}
}

// RenderSettings validates the defaults section and turns it into settings
// for the default render context
func (c *Config) RenderSettings() (RenderSettings, error) {
	if !validEngine(c.Engine) {
		return RenderSettings{}, fmt.Errorf("unknown engine %q", c.Engine)
	}

	viewport, err := ParseViewportString(c.Defaults.Viewport)
	if err != nil {
		return RenderSettings{}, fmt.Errorf("defaults.viewport: %w", err)
	}

	timeout, err := parseTimeoutString(fmt.Sprint(c.Defaults.Timeout))
	if err != nil {
		return RenderSettings{}, fmt.Errorf("defaults.timeout: %w", err)
	}

	wait, err := parseTimeoutString(fmt.Sprint(c.Defaults.Wait))
	if err != nil {
		return RenderSettings{}, fmt.Errorf("defaults.wait: %w", err)
	}

	domains, err := ParseDomainWhitelist(c.Defaults.Domains)
	if err != nil {
		return RenderSettings{}, fmt.Errorf("defaults.domains: %w", err)
	}

	return RenderSettings{
		Viewport:        viewport,
		FullPage:        c.Defaults.FullPage,
		TimeoutSeconds:  timeout,
		WaitSeconds:     wait,
		DomainWhitelist: domains,
		Headers:         c.Defaults.Headers,
		Stealth:         c.Defaults.Stealth,
		Debug:           c.Debug,
	}, nil
}
