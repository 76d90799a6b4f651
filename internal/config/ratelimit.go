package config

import "time"

// RateLimitConfig configures the fixed-window limiter applied to the public
// auth endpoints (register/login). Limits are per client IP per route.
type RateLimitConfig struct {
	Enabled bool
	Limit   int           // requests allowed per window
	Window  time.Duration // window length
	Prefix  string        // redis key namespace
}

// LoadRateLimitConfig reads limiter settings from the environment.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled: envBool("RATE_LIMIT_ENABLED", true),
		Limit:   envInt("RATE_LIMIT_REQUESTS", 30),
		Window:  parseDur(envStr("RATE_LIMIT_WINDOW", "1m"), time.Minute),
		Prefix:  envStr("RATE_LIMIT_PREFIX", "rl"),
	}
	if cfg.Limit < 1 {
		cfg.Limit = 1
	}
	return cfg
}
