package config

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

// Validate checks a configuration with defaults applied.
func Validate(cfg *Config) error {
	if strings.ContainsAny(cfg.Components.Variable, ". ") {
		return errors.ConfigError("components.variable must be a plain identifier").
			WithContext("value", cfg.Components.Variable).
			Build()
	}
	for _, f := range []struct{ key, value string }{
		{"components.css_file", cfg.Components.CSSFile},
		{"components.js_file", cfg.Components.JSFile},
	} {
		if !strings.HasPrefix(f.value, "/") {
			return errors.ConfigError(fmt.Sprintf("%s must be an absolute url path", f.key)).
				WithContext("value", f.value).
				Build()
		}
	}
	for i, sp := range cfg.Static {
		if strings.TrimSpace(sp.From) == "" {
			return errors.ConfigError(fmt.Sprintf("static[%d].from is required", i)).Build()
		}
	}
	for i, p := range cfg.Ignore {
		if strings.TrimSpace(p) == "" {
			return errors.ConfigError(fmt.Sprintf("ignore[%d] is empty", i)).Build()
		}
	}
	for dir := range cfg.Pages {
		if strings.TrimSpace(dir) == "" {
			return errors.ConfigError("pages keys must be directory paths").Build()
		}
	}
	return nil
}
