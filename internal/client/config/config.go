package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dmitrijs2005/orderdesk/internal/filex"
)

const AppName = "orderdesk"

// EnvAPIURL overrides the API base URL from the environment.
const EnvAPIURL = "ORDERDESK_API_URL"

var ErrInvalidConfig = errors.New("invalid config")

// Config holds runtime settings for the OrderDesk CLI.
//
// Fields:
//   - APIBaseURL: base address of the OrderDesk REST API. There is no default.
//   - RequestTimeout: upper bound for a single API call.
//   - DataDir: where the credential store and device key live.
//   - RevalidateOnStart: check a restored session with the server at startup.
//   - LogLevel, LogFormat: diagnostics written to stderr.
//   - OTLPEndpoint: host:port of an OTLP/gRPC collector; empty disables tracing.
type Config struct {
	APIBaseURL        string
	RequestTimeout    time.Duration
	DataDir           string
	RevalidateOnStart bool
	LogLevel          string
	LogFormat         string
	OTLPEndpoint      string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = ""
	c.RequestTimeout = 30 * time.Second
	c.DataDir = filex.DefaultDataDir(AppName)
	c.RevalidateOnStart = true
	c.LogLevel = "warn"
	c.LogFormat = "text"
	c.OTLPEndpoint = ""
}

// Validate reports settings the client cannot run with.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("%w: API base URL is not set (use -a or %s)", ErrInvalidConfig, EnvAPIURL)
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: API base URL %q must be an absolute http(s) URL", ErrInvalidConfig, c.APIBaseURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be positive", ErrInvalidConfig)
	}
	if c.DataDir == "" {
		return fmt.Errorf("%w: data directory is not set", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
