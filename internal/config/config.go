package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppName         = "WeightPals"
	defaultAppEnv          = "development"
	defaultPort            = "7000"
	defaultLogLevel        = "info"
	defaultEnvFile         = ".env"
	defaultShutdownDelay   = 10 * time.Second
	defaultIdempotencyTTL  = 24 * time.Hour
	defaultTokenTTL        = 86400 * time.Second
	defaultSweepInterval   = 24 * time.Minute
	defaultBcryptCost      = 8
	defaultLoginRateLimit  = 5
	idemTTLSecondsEnvVar   = "IDEMPOTENCY_TTL_SECONDS"
	idemTTLDurEnvVar       = "IDEMPOTENCY_TTL"
	shutdownSecondsEnvVar  = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar = "SHUTDOWN_TIMEOUT"
	tokenTTLSecondsEnvVar  = "TOKEN_TTL_SECONDS"
	tokenTTLDurEnvVar      = "TOKEN_TTL"
	sweepIntervalEnvVar    = "BLACKLIST_SWEEP_INTERVAL"
	bcryptCostEnvVar       = "BCRYPT_COST"
	loginRateLimitEnvVar   = "LOGIN_RATE_LIMIT"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	DatabaseURL    string
	RedisURL       string
	Secret         string
	TokenTTL       time.Duration
	BcryptCost     int
	SweepInterval  time.Duration
	LoginRateLimit int
	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration
}

// Load reads an optional .env file and then populates a Config from the environment.
// Variables already present in the environment win over the file.
func Load() (Config, error) {
	envFile := getEnv("ENV_FILE", defaultEnvFile)
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}
	return FromEnv()
}

// FromEnv populates a Config from environment variables only.
func FromEnv() (Config, error) {
	cfg := Config{
		AppName:        getEnv("APP_NAME", defaultAppName),
		AppEnv:         getEnv("APP_ENV", defaultAppEnv),
		Port:           getEnv("PORT", defaultPort),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       getEnv("REDIS_URL", os.Getenv("REDIS_URI")),
		Secret:         os.Getenv("SECRET"),
		TokenTTL:       defaultTokenTTL,
		BcryptCost:     defaultBcryptCost,
		SweepInterval:  defaultSweepInterval,
		LoginRateLimit: defaultLoginRateLimit,
		ShutdownPeriod: defaultShutdownDelay,
		IdempotencyTTL: defaultIdempotencyTTL,
	}

	var err error
	if cfg.ShutdownPeriod, err = durationFromEnv(shutdownSecondsEnvVar, shutdownDurationEnvVar, cfg.ShutdownPeriod); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = durationFromEnv(idemTTLSecondsEnvVar, idemTTLDurEnvVar, cfg.IdempotencyTTL); err != nil {
		return Config{}, err
	}
	if cfg.TokenTTL, err = durationFromEnv(tokenTTLSecondsEnvVar, tokenTTLDurEnvVar, cfg.TokenTTL); err != nil {
		return Config{}, err
	}
	if cfg.SweepInterval, err = durationFromEnv("", sweepIntervalEnvVar, cfg.SweepInterval); err != nil {
		return Config{}, err
	}
	if cfg.BcryptCost, err = intFromEnv(bcryptCostEnvVar, cfg.BcryptCost); err != nil {
		return Config{}, err
	}
	if cfg.LoginRateLimit, err = intFromEnv(loginRateLimitEnvVar, cfg.LoginRateLimit); err != nil {
		return Config{}, err
	}

	// Dev runs without Postgres fall back to in-memory stores.
	if cfg.DatabaseURL == "" && !cfg.IsDev() {
		return Config{}, fmt.Errorf("DATABASE_URL must be set when APP_ENV=%s", cfg.AppEnv)
	}
	if cfg.Secret == "" {
		return Config{}, fmt.Errorf("SECRET must be set")
	}
	if cfg.TokenTTL <= 0 {
		return Config{}, fmt.Errorf("token ttl must be positive")
	}
	if cfg.SweepInterval <= 0 {
		return Config{}, fmt.Errorf("invalid %s: must be positive", sweepIntervalEnvVar)
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// IsDev reports whether the app runs in a local/development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

func durationFromEnv(secondsKey, durationKey string, fallback time.Duration) (time.Duration, error) {
	if secondsKey != "" {
		if v := os.Getenv(secondsKey); v != "" {
			seconds, err := strconv.Atoi(v)
			if err != nil {
				return 0, fmt.Errorf("invalid %s: %w", secondsKey, err)
			}
			return time.Duration(seconds) * time.Second, nil
		}
	}
	if v := os.Getenv(durationKey); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", durationKey, err)
		}
		return d, nil
	}
	return fallback, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
