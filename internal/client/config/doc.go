// Package config loads runtime configuration for the OrderDesk CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment: ORDERDESK_API_URL, from the process or a .env file in the
//     working directory (the process wins).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   API base URL
//	-t int      request timeout (seconds)
//	-d string   data directory
//	-r bool     revalidate a restored session at startup
//	-l string   log level
//	-o string   OTLP/gRPC collector endpoint
//
// # JSON schema
//
//	{
//	  "api_base_url": "https://api.example.com",
//	  "request_timeout": "15s",
//	  "data_dir": "/home/me/.config/orderdesk",
//	  "revalidate_on_start": true,
//	  "log_level": "info",
//	  "log_format": "json",
//	  "otlp_endpoint": "localhost:4317"
//	}
//
// There is no built-in API address; (*Config).Validate rejects a
// configuration without one.
package config
