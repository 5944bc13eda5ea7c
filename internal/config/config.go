package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/credgraph/credgraph/internal/domain"
	"github.com/joho/godotenv"
)

// Load reads the .env file specified by CREDGRAPH_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("CREDGRAPH_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// Scoring returns the reputation arithmetic configuration. Defaults:
// initial credit score 50, +5 on verification, -5 on refutation, 60s
// reputation cache TTL.
func Scoring() domain.ScoringConfig {
	cfg := domain.DefaultScoringConfig()
	if v, err := strconv.Atoi(os.Getenv("INITIAL_CREDIT_SCORE")); err == nil {
		cfg.InitialCreditScore = domain.ClampCreditScore(v)
	}
	if v, err := strconv.Atoi(os.Getenv("VERIFY_INCREMENT")); err == nil && v > 0 {
		cfg.VerifyDelta = v
	}
	if v, err := strconv.Atoi(os.Getenv("REFUTE_DECREMENT")); err == nil && v > 0 {
		cfg.RefuteDelta = -v
	}
	if v, err := time.ParseDuration(os.Getenv("REPUTATION_CACHE_TTL")); err == nil && v > 0 {
		cfg.ReputationCacheTTL = v
	}
	return cfg
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}
