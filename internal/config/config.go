// Package config loads the sitebuilder YAML configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

// Config represents the application configuration.
type Config struct {
	Src                string                      `yaml:"src"`
	PrettyURLs         *bool                       `yaml:"pretty_urls,omitempty"`
	Components         ComponentsConfig            `yaml:"components"`
	Static             []StaticPath                `yaml:"static,omitempty"`
	Ignore             []string                    `yaml:"ignore,omitempty"`
	CopyRemainingFiles bool                        `yaml:"copy_remaining_files"`
	GitDates           bool                        `yaml:"git_dates"`
	Data               map[string]any              `yaml:"data,omitempty"`  // Bound at "/"
	Pages              map[string][]map[string]any `yaml:"pages,omitempty"` // Directory path -> injected pages
	Metrics            MetricsConfig               `yaml:"metrics"`
}

// ComponentsConfig configures the component accessor and its side output.
type ComponentsConfig struct {
	Variable string `yaml:"variable"`
	CSSFile  string `yaml:"css_file"`
	JSFile   string `yaml:"js_file"`
}

// StaticPath maps a source path to an output path. A From ending in "/"
// only matches directories; an empty To mirrors the source.
type StaticPath struct {
	From string `yaml:"from"`
	To   string `yaml:"to,omitempty"`
}

// MetricsConfig configures metric export.
type MetricsConfig struct {
	// Textfile, when set, receives the Prometheus text exposition after each build.
	Textfile string `yaml:"textfile,omitempty"`
}

// Pretty reports whether pretty urls are enabled.
func (c *Config) Pretty() bool {
	return c.PrettyURLs == nil || *c.PrettyURLs
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the configuration at configPath, expanding environment variables
// after loading .env files. An empty configPath yields the defaults.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	if configPath == "" {
		return Default(), nil
	}

	raw, err := os.ReadFile(configPath) // #nosec G304 -- path supplied by the operator
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError(fmt.Sprintf("configuration file not found: %s", configPath)).
				WithContext("path", configPath).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			Fatal().
			WithContext("path", configPath).
			Build()
	}

	return Parse([]byte(os.ExpandEnv(string(raw))))
}

// Parse decodes YAML, applies defaults and validates.
func Parse(raw []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").
			Fatal().
			Build()
	}
	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
