package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/orderdesk/internal/flagx"
	"github.com/dmitrijs2005/orderdesk/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify timeouts either as
// strings like "15s" or as integer nanoseconds. Absent fields keep the
// value they had before the file was read.
type JsonConfig struct {
	APIBaseURL        string          `json:"api_base_url"`
	RequestTimeout    *timex.Duration `json:"request_timeout"`
	DataDir           string          `json:"data_dir"`
	RevalidateOnStart *bool           `json:"revalidate_on_start"`
	LogLevel          string          `json:"log_level"`
	LogFormat         string          `json:"log_format"`
	OTLPEndpoint      string          `json:"otlp_endpoint"`
}

// parseJson overlays Config with values loaded from a JSON file given with
// -c or -config. Without either flag nothing is loaded. Panics on read or
// unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.RevalidateOnStart != nil {
		cfg.RevalidateOnStart = *jc.RevalidateOnStart
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.LogFormat != "" {
		cfg.LogFormat = jc.LogFormat
	}
	if jc.OTLPEndpoint != "" {
		cfg.OTLPEndpoint = jc.OTLPEndpoint
	}
}
