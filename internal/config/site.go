package config

// SiteConfig holds site-specific configuration for a single target website.
// This allows customizing scan behavior per site without touching CLI flags.
type SiteConfig struct {
	// Cookie is an HTTP cookie to use when scanning this site.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// MaxPages overrides the global page limit for this site.
	// If zero, the global MaxPages is used. Values above the hard ceiling
	// are still clamped.
	MaxPages int `yaml:"maxPages,omitempty"`
}

// File represents the structure of the .a11yscan configuration file.
type File struct {
	// Sites maps hostnames to their site-specific configurations.
	// Keys should be the hostname without the protocol (e.g., "example.com").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains default site configuration applied to all sites
	// unless overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`

	// Risk holds overrides for the risk-model tuning tables.
	// Fields left unset keep their stock values.
	Risk RiskTuning `yaml:"risk,omitempty"`
}

// NewFile returns an empty configuration file structure with stock
// risk tuning. Used when no .a11yscan file exists so callers never
// have to nil-check.
func NewFile() *File {
	return &File{
		Sites: make(map[string]SiteConfig),
		Risk:  DefaultRiskTuning(),
	}
}

// GetSiteConfig returns the configuration for a specific hostname.
// It merges the site-specific configuration with defaults. The merged
// headers map is always a fresh copy so lookups for different hosts
// never share state.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	// Start with defaults
	result := cf.Defaults

	if len(cf.Defaults.Headers) > 0 {
		result.Headers = make(map[string]string, len(cf.Defaults.Headers))
		for k, v := range cf.Defaults.Headers {
			result.Headers[k] = v
		}
	}

	// Override with site-specific configuration if present
	if siteConfig, ok := cf.Sites[host]; ok {
		if siteConfig.Cookie != "" {
			result.Cookie = siteConfig.Cookie
		}
		if siteConfig.MaxPages != 0 {
			result.MaxPages = siteConfig.MaxPages
		}
		if len(siteConfig.Headers) > 0 {
			if result.Headers == nil {
				result.Headers = make(map[string]string, len(siteConfig.Headers))
			}
			for k, v := range siteConfig.Headers {
				result.Headers[k] = v
			}
		}
	}

	return result
}
