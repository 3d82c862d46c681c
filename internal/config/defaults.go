package config

const (
	defaultSrc           = "."
	defaultComponentsVar = "comp"
	defaultCSSFile       = "/components.css"
	defaultJSFile        = "/components.js"
)

func applyDefaults(cfg *Config) {
	if cfg.Src == "" {
		cfg.Src = defaultSrc
	}
	if cfg.PrettyURLs == nil {
		pretty := true
		cfg.PrettyURLs = &pretty
	}
	if cfg.Components.Variable == "" {
		cfg.Components.Variable = defaultComponentsVar
	}
	if cfg.Components.CSSFile == "" {
		cfg.Components.CSSFile = defaultCSSFile
	}
	if cfg.Components.JSFile == "" {
		cfg.Components.JSFile = defaultJSFile
	}
}
