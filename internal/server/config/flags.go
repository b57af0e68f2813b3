package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/dsalog/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-g string   gRPC health bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN, or "memory"
//	-s string   token signing secret
//	-t string   token lifetime ("7d", "24h")
//	-b int      bcrypt cost
//	-r string   Redis URL for token revocation
//
// Flags win over the environment. The token lifetime also resets the
// cookie max-age so both stay equal.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-d", "-s", "-t", "-b", "-r"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC health address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "token signing secret")
	ttl := fs.String("t", "", "token lifetime, e.g. 7d or 24h")
	fs.IntVar(&config.BcryptCost, "b", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.RedisURL, "r", config.RedisURL, "redis URL for token revocation")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	if *ttl != "" {
		d, err := ParseDuration(*ttl)
		if err != nil {
			return fmt.Errorf("-t: %w", err)
		}
		config.TokenTTL = d
		config.CookieMaxAge = d
	}

	return nil
}
