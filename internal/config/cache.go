package config

import (
	"time"
)

// CacheConfig controls the dashboard response cache. The cache key always
// includes the caller's account id, so entries are never shared across
// accounts; TTL is kept short because the dashboard reflects live rent state.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadCacheConfig reads cache settings from the environment with defaults.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: envBool("CACHE_ENABLED", true),
		TTL:     parseDur(envStr("CACHE_TTL", "30s"), 30*time.Second),
		Prefix:  envStr("CACHE_PREFIX", "dash"),
	}
}

func parseDur(s string, d time.Duration) time.Duration {
	if v, err := time.ParseDuration(s); err == nil && v > 0 {
		return v
	}
	return d
}
