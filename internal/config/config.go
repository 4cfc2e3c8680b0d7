// Package config provides functionality for managing configuration options
// for the application using command-line flags, environment variables,
// and an optional JSON config file.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Options holds the configuration values for the application.
type Options struct {
	// Addr defines the server's listening address (ip:port).
	Addr string

	// DatabaseDSN holds the Postgres connection string.
	DatabaseDSN string

	// RedisURL holds the connection URL of the refresh-session store.
	RedisURL string

	// JWTSecret signs access tokens. Must be set outside development.
	JWTSecret string

	// TokenTTL is the access-token lifetime.
	TokenTTL time.Duration

	// RefreshTTL is the refresh-token lifetime.
	RefreshTTL time.Duration

	// AuthRPS and AuthBurst bound the rate of register/login attempts
	// per client address.
	AuthRPS   int
	AuthBurst int

	// Config is the path to the config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Addr, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.RedisURL, "r", "redis://localhost:6379", "redis address")
	flag.StringVar(&options.JWTSecret, "s", "dev-secret", "jwt signing secret")
	flag.DurationVar(&options.TokenTTL, "token-ttl", 15*time.Minute, "access token lifetime")
	flag.DurationVar(&options.RefreshTTL, "refresh-ttl", 30*24*time.Hour, "refresh token lifetime")
	flag.IntVar(&options.AuthRPS, "auth-rps", 5, "auth requests per second per client")
	flag.IntVar(&options.AuthBurst, "auth-burst", 10, "auth request burst per client")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct
// containing the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// .env values become plain environment variables when present
	_ = godotenv.Load()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Addr = serverAddress
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		options.RedisURL = redisURL
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		options.JWTSecret = secret
	}
	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		if parsed, err := time.ParseDuration(ttl); err == nil {
			options.TokenTTL = parsed
		}
	}
	if ttl := os.Getenv("REFRESH_TTL"); ttl != "" {
		if parsed, err := time.ParseDuration(ttl); err == nil {
			options.RefreshTTL = parsed
		}
	}
	if rps := os.Getenv("AUTH_RPS"); rps != "" {
		if parsed, err := strconv.Atoi(rps); err == nil {
			options.AuthRPS = parsed
		}
	}

	return options
}
