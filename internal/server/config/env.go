package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type lookupFunc func(key string) (string, bool)

// parseEnv overlays environment variables onto config. Only non-empty
// variables are applied.
func parseEnv(config *Config, lookup lookupFunc) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("PORT"); ok {
		config.EndpointAddrHTTP = ":" + strings.TrimPrefix(v, ":")
	}
	if v, ok := get("GRPC_ADDRESS"); ok {
		config.EndpointAddrGRPC = v
	}
	if v, ok := get("DATABASE_URL"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := get("JWT_SECRET"); ok {
		config.SecretKey = v
	}
	if v, ok := get("JWT_EXPIRATION"); ok {
		d, err := ParseDuration(v)
		if err != nil {
			return fmt.Errorf("JWT_EXPIRATION: %w", err)
		}
		config.TokenTTL = d
	}
	if v, ok := get("COOKIE_MAX_AGE"); ok {
		d, err := ParseDuration(v)
		if err != nil {
			return fmt.Errorf("COOKIE_MAX_AGE: %w", err)
		}
		config.CookieMaxAge = d
	}
	if v, ok := get("COOKIE_SECURE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("COOKIE_SECURE: %w", err)
		}
		config.CookieSecure = b
	}
	if v, ok := get("CORS_ORIGIN"); ok {
		config.CORSAllowedOrigins = splitList(v)
	}
	if v, ok := get("BCRYPT_COST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BCRYPT_COST: %w", err)
		}
		config.BcryptCost = n
	}
	if v, ok := get("REDIS_URL"); ok {
		config.RedisURL = v
	}
	if v, ok := get("GIN_MODE"); ok {
		config.GinMode = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		config.LogLevel = v
	}
	if v, ok := get("DEFAULT_PHOTO_URL"); ok {
		config.DefaultPhotoURL = v
	}
	if v, ok := get("S3_BUCKET"); ok {
		config.S3Bucket = v
	}
	if v, ok := get("S3_REGION"); ok {
		config.S3Region = v
	}
	if v, ok := get("S3_BASE_ENDPOINT"); ok {
		config.S3BaseEndpoint = v
	}
	if v, ok := get("S3_ACCESS_KEY"); ok {
		config.S3AccessKey = v
	}
	if v, ok := get("S3_SECRET_KEY"); ok {
		config.S3SecretKey = v
	}

	return nil
}

// ParseDuration accepts everything time.ParseDuration does plus a whole
// number of days with a "d" suffix ("7d"), the format token lifetimes are
// usually written in.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
