// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DotEnvFile is loaded, if present, before environment variables are read.
// Variables already set in the process environment win.
const DotEnvFile = ".env"

// ServerConfig configures the development server.
type ServerConfig struct {
	Port           int           `env:"PORT" envDefault:"5000"`
	DatabaseURL    string        `env:"DATABASE_URL"`
	DatabaseType   string        `env:"DATABASE_TYPE" envDefault:"sqlite"`
	RedisURL       string        `env:"REDIS_URL"`
	OTPSalt        string        `env:"OTP_SALT"`
	JWTSecret      string        `env:"JWT_SECRET"`
	SeedFile       string        `env:"SEED_FILE"`
	EchoOTP        bool          `env:"ECHO_OTP"`
	OTPTTL         time.Duration `env:"OTP_TTL" envDefault:"5m"`
	OTPMaxAttempts int           `env:"OTP_MAX_ATTEMPTS" envDefault:"5"`
	ResendCooldown time.Duration `env:"OTP_RESEND_COOLDOWN" envDefault:"30s"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"15m"`
}

// ClientConfig configures the terminal client.
type ClientConfig struct {
	APIURL      string        `env:"VOTERAUTH_API_URL" envDefault:"http://localhost:5000"`
	AuthMode    string        `env:"VOTERAUTH_AUTH_MODE" envDefault:"simple"`
	CallTimeout time.Duration `env:"VOTERAUTH_TIMEOUT" envDefault:"15s"`
	LogFile     string        `env:"VOTERAUTH_LOG_FILE"`
}

// ParseServerFlags reads .env, then the environment, then CLI flags.
// CLI flags take precedence over environment variables.
func ParseServerFlags(args []string) (ServerConfig, error) {
	var cfg ServerConfig

	if err := loadEnv(&cfg); err != nil {
		return ServerConfig{}, err
	}

	fs := flag.NewFlagSet("voterauth-devserver", flag.ContinueOnError)

	// Network and storage (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", cfg.Port, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", cfg.DatabaseURL, "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", cfg.DatabaseType, "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.RedisURL, "redis", cfg.RedisURL, "Redis URL for OTP challenges (optional)")
	fs.StringVar(&cfg.SeedFile, "seed", cfg.SeedFile, "JSON file of voters to load at startup")
	fs.BoolVar(&cfg.EchoOTP, "echo-otp", cfg.EchoOTP, "Return issued OTPs in responses (development only)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.OTPSalt, "otp-salt", cfg.OTPSalt, "OTP hashing salt (prefer env)")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Session token signing secret (prefer env)")

	if err := fs.Parse(args); err != nil {
		return ServerConfig{}, err
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return ServerConfig{}, fmt.Errorf("invalid port %d", cfg.Port)
	}

	switch cfg.DatabaseType {
	case "sqlite":
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = "file:voterauth.db"
		}
	case "postgres":
		if cfg.DatabaseURL == "" {
			return ServerConfig{}, errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
	default:
		return ServerConfig{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	// Secrets - MUST be provided
	if cfg.OTPSalt == "" {
		return ServerConfig{}, errors.New("OTP_SALT required")
	}
	if len(cfg.JWTSecret) < 16 {
		return ServerConfig{}, errors.New("JWT_SECRET required (at least 16 characters)")
	}

	if cfg.OTPMaxAttempts <= 0 {
		return ServerConfig{}, errors.New("OTP_MAX_ATTEMPTS must be positive")
	}

	return cfg, nil
}

// ParseClientFlags reads .env, then the environment, then CLI flags.
func ParseClientFlags(args []string) (ClientConfig, error) {
	var cfg ClientConfig

	if err := loadEnv(&cfg); err != nil {
		return ClientConfig{}, err
	}

	fs := flag.NewFlagSet("voterauth", flag.ContinueOnError)
	fs.StringVar(&cfg.APIURL, "api", cfg.APIURL, "Base URL of the voter authentication service")
	fs.StringVar(&cfg.AuthMode, "mode", cfg.AuthMode, "Initial credential form (simple or enhanced)")
	fs.DurationVar(&cfg.CallTimeout, "timeout", cfg.CallTimeout, "Timeout for each remote call (0 disables)")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "Write logs to this file")

	if err := fs.Parse(args); err != nil {
		return ClientConfig{}, err
	}

	if cfg.APIURL == "" {
		return ClientConfig{}, errors.New("API URL required (use -api or VOTERAUTH_API_URL env)")
	}
	if cfg.AuthMode != "simple" && cfg.AuthMode != "enhanced" {
		return ClientConfig{}, fmt.Errorf("invalid auth mode %q (simple or enhanced)", cfg.AuthMode)
	}
	if cfg.CallTimeout < 0 {
		return ClientConfig{}, errors.New("timeout cannot be negative")
	}

	return cfg, nil
}

func loadEnv(target any) error {
	if _, err := os.Stat(DotEnvFile); err == nil {
		if err := godotenv.Load(DotEnvFile); err != nil {
			return fmt.Errorf("load %s: %w", DotEnvFile, err)
		}
	}
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
