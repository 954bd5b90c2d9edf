package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/ledgerclient/internal/flagx"
	"github.com/dmitrijs2005/ledgerclient/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It is seeded
// from the current Config so keys missing from the file keep their value.
type JsonConfig struct {
	BaseURL        string         `json:"base_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	ValidationTTL  timex.Duration `json:"validation_ttl"`
	ConnectTimeout timex.Duration `json:"connect_timeout"`
	MetricsAddr    string         `json:"metrics_addr"`
	LogLevel       string         `json:"log_level"`
	Endpoints      jsonEndpoints  `json:"endpoints"`
}

type jsonEndpoints struct {
	Login    string `json:"login"`
	Register string `json:"register"`
	Refresh  string `json:"refresh"`
	Verify   string `json:"verify"`
	Logout   string `json:"logout"`
	Health   string `json:"health"`
}

func newJsonConfig(cfg *Config) JsonConfig {
	return JsonConfig{
		BaseURL:        cfg.BaseURL,
		RequestTimeout: timex.Duration{Duration: cfg.RequestTimeout},
		ValidationTTL:  timex.Duration{Duration: cfg.ValidationTTL},
		ConnectTimeout: timex.Duration{Duration: cfg.ConnectTimeout},
		MetricsAddr:    cfg.MetricsAddr,
		LogLevel:       cfg.LogLevel,
		Endpoints:      jsonEndpoints(cfg.Endpoints),
	}
}

func (jc JsonConfig) apply(cfg *Config) {
	cfg.BaseURL = jc.BaseURL
	cfg.RequestTimeout = jc.RequestTimeout.Duration
	cfg.ValidationTTL = jc.ValidationTTL.Duration
	cfg.ConnectTimeout = jc.ConnectTimeout.Duration
	cfg.MetricsAddr = jc.MetricsAddr
	cfg.LogLevel = jc.LogLevel
	cfg.Endpoints = Endpoints(jc.Endpoints)
}

// parseJson overlays cfg with values loaded from the JSON file named by -c or
// -config in args. Without the flag it leaves cfg untouched.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	jc := newJsonConfig(cfg)
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	jc.apply(cfg)
	return nil
}
