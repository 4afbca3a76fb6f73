// Package config assembles runtime settings for the inkfeed CLI.
//
// Sources are applied in order, later ones winning:
// defaults → environment (with optional .env file) → JSON file (-c/-config)
// → command-line flags.
package config

import "time"

// Upload holds asset-host settings for image uploads.
type Upload struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// Config holds runtime settings for the inkfeed CLI.
//
// Fields:
//   - APIBaseURL: root of the blog REST API, including the /api prefix.
//   - RequestTimeout: per-request transport timeout.
//   - PageSize: posts per page in feed views.
//   - Token: optional bearer token restored from a previous run; validated
//     against /auth/me on startup.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	PageSize       int
	Token          string
	Upload         Upload
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8080/api"
	c.RequestTimeout = 10 * time.Second
	c.PageSize = 6
	c.Upload = Upload{
		Endpoint: "http://localhost:9000",
		Region:   "us-east-1",
		Bucket:   "images",
	}
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment, a JSON file (if present), and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
