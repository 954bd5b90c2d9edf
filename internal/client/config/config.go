package config

import "time"

// Endpoints holds the server paths the client treats specially. Paths are
// relative to Config.BaseURL.
type Endpoints struct {
	Login    string
	Register string
	Refresh  string
	Verify   string
	Logout   string
	Health   string
}

// AuthFlow returns the paths whose 401 responses must never trigger a
// session renewal.
func (e Endpoints) AuthFlow() []string {
	return []string{e.Login, e.Refresh, e.Verify, e.Register}
}

// Config holds runtime settings for the ledger client.
//
// RequestTimeout bounds every HTTP exchange including the renewal call.
// ValidationTTL is how long a session validity answer is reused.
// ConnectTimeout bounds the startup wait for the server health endpoint.
type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
	ValidationTTL  time.Duration
	ConnectTimeout time.Duration
	MetricsAddr    string
	LogLevel       string
	Endpoints      Endpoints
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://127.0.0.1:8000"
	c.RequestTimeout = 30 * time.Second
	c.ValidationTTL = 5 * time.Second
	c.ConnectTimeout = 10 * time.Second
	c.MetricsAddr = ""
	c.LogLevel = "info"
	c.Endpoints = Endpoints{
		Login:    "/api/auth/login/",
		Register: "/api/auth/register/",
		Refresh:  "/api/auth/token/refresh/",
		Verify:   "/api/auth/token/verify/",
		Logout:   "/api/auth/logout/",
		Health:   "/api/health/",
	}
}

// Load builds a Config from defaults, then the JSON file named in args (if
// any), then the flags in args. args excludes the program name.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
