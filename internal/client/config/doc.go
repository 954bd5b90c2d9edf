// Package config loads runtime configuration for the ledger client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the ledger API
//	-t int      request timeout (seconds)
//	-m string   listen address for the /metrics endpoint (empty disables it)
//	-l string   log level: debug, info, warn or error
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "5s" or
// integer nanoseconds. Keys that are absent keep their previous value:
//
//	{
//	  "base_url": "http://127.0.0.1:8000",
//	  "request_timeout": "30s",
//	  "validation_ttl": "5s",
//	  "connect_timeout": "10s",
//	  "metrics_addr": "127.0.0.1:9100",
//	  "log_level": "info",
//	  "endpoints": {
//	    "login": "/api/auth/login/",
//	    "refresh": "/api/auth/token/refresh/"
//	  }
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
