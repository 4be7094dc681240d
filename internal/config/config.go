package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress          string
	DatabaseURI         string
	NotificationAddress string
	JWTSecret           string
	TokenTTL            time.Duration
	ReadySweepInterval  time.Duration
	ReadySweepBatch     int
	PreparationTime     time.Duration
	LedgerLockTimeout   time.Duration
	ShutdownTimeout     time.Duration
	LogLevel            string
}

const (
	defaultRunAddress         = ":8080"
	defaultJWTSecret          = "change-me-in-production"
	defaultTokenTTL           = 24 * time.Hour
	defaultReadySweepInterval = time.Minute
	defaultReadySweepBatch    = 50
	defaultPreparationTime    = 20 * time.Minute
	defaultLedgerLockTimeout  = 5 * time.Second
	defaultShutdownTimeout    = 10 * time.Second
	defaultLogLevel           = "info"

	dotEnvFile = ".env"
)

// Load parses configuration from flags, environment variables and an optional .env file.
// Real environment variables take precedence over values from the file.
func Load() (*Config, error) {
	fileEnv, err := readDotEnv(dotEnvFile)
	if err != nil {
		return nil, err
	}
	return load(os.Args[1:], chainLookup(os.LookupEnv, mapLookup(fileEnv)))
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:          getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:         getString(lookup, "DATABASE_URI", ""),
		NotificationAddress: getString(lookup, "NOTIFICATION_ADDRESS", ""),
		JWTSecret:           getString(lookup, "JWT_SECRET", defaultJWTSecret),
		TokenTTL:            getDuration(lookup, "TOKEN_TTL", defaultTokenTTL),
		ReadySweepInterval:  getDuration(lookup, "READY_SWEEP_INTERVAL", defaultReadySweepInterval),
		ReadySweepBatch:     getInt(lookup, "READY_SWEEP_BATCH", defaultReadySweepBatch),
		PreparationTime:     getDuration(lookup, "PREPARATION_TIME", defaultPreparationTime),
		LedgerLockTimeout:   getDuration(lookup, "LEDGER_LOCK_TIMEOUT", defaultLedgerLockTimeout),
		ShutdownTimeout:     getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		LogLevel:            getString(lookup, "LOG_LEVEL", defaultLogLevel),
	}

	flags := flag.NewFlagSet("gopherdine", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var (
		sweepIntervalStr   = cfg.ReadySweepInterval.String()
		preparationStr     = cfg.PreparationTime.String()
		lockTimeoutStr     = cfg.LedgerLockTimeout.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	flags.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	flags.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	flags.StringVar(&cfg.NotificationAddress, "n", cfg.NotificationAddress, "Push notification gateway base URL")
	flags.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	flags.IntVar(&cfg.ReadySweepBatch, "sweep-batch", cfg.ReadySweepBatch, "Maximum orders per readiness sweep")
	flags.StringVar(&sweepIntervalStr, "sweep-interval", sweepIntervalStr, "Interval between readiness sweeps")
	flags.StringVar(&preparationStr, "preparation-time", preparationStr, "Estimated preparation time of a new order")
	flags.StringVar(&lockTimeoutStr, "lock-timeout", lockTimeoutStr, "Maximum wait for ledger row locks")
	flags.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")

	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ReadySweepInterval, err = time.ParseDuration(sweepIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid sweep interval: %w", err)
	}

	if cfg.PreparationTime, err = time.ParseDuration(preparationStr); err != nil {
		return nil, fmt.Errorf("invalid preparation time: %w", err)
	}

	if cfg.LedgerLockTimeout, err = time.ParseDuration(lockTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid lock timeout: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = string(content)
	}

	if cfg.ReadySweepBatch <= 0 {
		cfg.ReadySweepBatch = defaultReadySweepBatch
	}

	if cfg.ReadySweepInterval <= 0 {
		cfg.ReadySweepInterval = defaultReadySweepInterval
	}

	if cfg.PreparationTime <= 0 {
		cfg.PreparationTime = defaultPreparationTime
	}

	if cfg.LedgerLockTimeout <= 0 {
		cfg.LedgerLockTimeout = defaultLedgerLockTimeout
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

// readDotEnv returns key/value pairs of the env file, or an empty map when it does not exist.
func readDotEnv(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return values, nil
}

func mapLookup(values map[string]string) envLookup {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func chainLookup(lookups ...envLookup) envLookup {
	return func(key string) (string, bool) {
		for _, lookup := range lookups {
			if v, ok := lookup(key); ok && v != "" {
				return v, true
			}
		}
		return "", false
	}
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
