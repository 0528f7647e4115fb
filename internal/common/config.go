package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Worker    WorkerConfig
	Validator ValidatorConfig
	AI        AIConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr string
}

// WorkerConfig holds enrichment worker configuration
type WorkerConfig struct {
	Workers      int
	PollInterval time.Duration
	SoftTimeout  time.Duration
	HardTimeout  time.Duration
	MaxAttempts  int32
	RetryDelay   time.Duration
}

// ValidatorConfig carries the admission thresholds. The acceptance
// threshold, borderline band, and heuristic/ML weights are empirical
// constants inherited from production; keep them configurable, not corrected.
type ValidatorConfig struct {
	AcceptThreshold float64
	BorderlineFloor float64
	HeuristicWeight float64
	MLWeight        float64
}

// AIConfig holds the enrichment-backend endpoints.
type AIConfig struct {
	ClassifierURL  string
	SummarizerURL  string
	EmbedderURL    string
	LegalScorerURL string
	APIKey         string
	Timeout        time.Duration
	MinAIScore     float64
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", ""),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 5),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Server: ServerConfig{
			HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		},
		Worker: WorkerConfig{
			Workers:      getEnvAsInt("WORKER_COUNT", 4),
			PollInterval: getEnvAsDuration("WORKER_POLL_INTERVAL", 2*time.Second),
			SoftTimeout:  getEnvAsDuration("JOB_SOFT_TIMEOUT", 2*time.Minute),
			HardTimeout:  getEnvAsDuration("JOB_HARD_TIMEOUT", 3*time.Minute),
			MaxAttempts:  getEnvAsInt32("JOB_MAX_ATTEMPTS", 3),
			RetryDelay:   getEnvAsDuration("JOB_RETRY_DELAY", 60*time.Second),
		},
		Validator: ValidatorConfig{
			AcceptThreshold: getEnvAsFloat64("VALIDATOR_ACCEPT_THRESHOLD", 0.40),
			BorderlineFloor: getEnvAsFloat64("VALIDATOR_BORDERLINE_FLOOR", 0.25),
			HeuristicWeight: getEnvAsFloat64("VALIDATOR_HEURISTIC_WEIGHT", 0.4),
			MLWeight:        getEnvAsFloat64("VALIDATOR_ML_WEIGHT", 0.6),
		},
		AI: AIConfig{
			ClassifierURL:  getEnv("AI_CLASSIFIER_URL", ""),
			SummarizerURL:  getEnv("AI_SUMMARIZER_URL", ""),
			EmbedderURL:    getEnv("AI_EMBEDDER_URL", ""),
			LegalScorerURL: getEnv("AI_LEGAL_SCORER_URL", ""),
			APIKey:         getEnv("AI_API_KEY", ""),
			Timeout:        getEnvAsDuration("AI_TIMEOUT", 45*time.Second),
			MinAIScore:     getEnvAsFloat64("AI_MIN_SCORE", 0.6),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Worker.MaxAttempts < 1 {
		return NewAppError("CONFIG_ERROR", "JOB_MAX_ATTEMPTS must be at least 1", ErrInvalidInput)
	}
	if c.Validator.BorderlineFloor > c.Validator.AcceptThreshold {
		return NewAppError("CONFIG_ERROR", "borderline floor above accept threshold", ErrInvalidInput)
	}
	return nil
}
