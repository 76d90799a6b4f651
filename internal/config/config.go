package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Required values are enforced by must(); optional
// values fall back to sensible defaults so a bare .env can boot the server.
type Config struct {
	Env                  string // application environment (e.g. "dev", "prod")
	Port                 string // HTTP port to listen on
	DBUser               string // database username
	DBPass               string // database password (optional)
	DBHost               string // database host address
	DBPort               string // database port number
	DBName               string // database name
	JWTSecret            string // secret used to sign session tokens
	SessionTTLHours      int    // manager session lifetime in hours
	AdminSessionTTLHours int    // admin session lifetime in hours
	BcryptCost           int    // bcrypt cost for password hashing
	LockoutMaxAttempts   int    // failed password confirmations before lockout
	LockoutCooldownMin   int    // lockout duration in minutes
	ShareTTLDays         int    // default data-share link lifetime in days
	MaxUploadMB          int64  // spreadsheet upload size cap in megabytes
}

// Load reads configuration values from environment variables and returns a
// Config. Missing required variables cause the program to exit with a fatal
// log message.
func Load() Config {
	return Config{
		Env:                  must("APP_ENV"),
		Port:                 must("APP_PORT"),
		DBUser:               must("DB_USER"),
		DBPass:               os.Getenv("DB_PASS"), // empty allowed
		DBHost:               must("DB_HOST"),
		DBPort:               must("DB_PORT"),
		DBName:               must("DB_NAME"),
		JWTSecret:            must("JWT_SECRET"),
		SessionTTLHours:      envInt("SESSION_TTL_HOURS", 24),
		AdminSessionTTLHours: envInt("ADMIN_SESSION_TTL_HOURS", 8),
		BcryptCost:           envInt("BCRYPT_COST", 12),
		LockoutMaxAttempts:   envInt("LOCKOUT_MAX_ATTEMPTS", 5),
		LockoutCooldownMin:   envInt("LOCKOUT_COOLDOWN_MIN", 30),
		ShareTTLDays:         envInt("SHARE_TTL_DAYS", 7),
		MaxUploadMB:          int64(envInt("MAX_UPLOAD_MB", 5)),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	case "0", "false", "FALSE", "False", "no", "off":
		return false
	}
	return d
}
