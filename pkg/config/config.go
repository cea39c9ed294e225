package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// iExec TEE I/O
	IExec IExecConfig

	// ABS engine
	Engine EngineConfig

	// Report archive (PostgreSQL)
	Database DatabaseConfig

	// Report cache (Redis)
	Redis RedisConfig

	// HTTP API
	API APIConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// IExecConfig holds the iExec task I/O contract
type IExecConfig struct {
	InputDir        string
	OutputDir       string
	BulkSliceSize   int
	DatasetFilename string   // single dataset mode
	BulkDatasets    []string // bulk mode, index i-1 → IEXEC_DATASET_<i>_FILENAME ("" if unset)
}

// BulkMode reports whether the task was started with a bulk slice.
func (c IExecConfig) BulkMode() bool {
	return c.BulkSliceSize > 0
}

// EngineConfig holds ABS engine settings
type EngineConfig struct {
	ValidationMode  string // lenient, strict
	Workers         int    // 풀 병렬 분석 워커 수
	AssumptionsFile string // 모델 가정 YAML (빈 값 = 기본값)
	Schedule        string // cron spec (seconds 포함)
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Enabled returns whether the report archive is configured.
func (c DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
	CacheTTL time.Duration
}

// Addr is host:port for the Redis client
func (c RedisConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// APIConfig holds HTTP API throttling
type APIConfig struct {
	RateLimit float64 // requests per second
	RateBurst int
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom is Load with an explicit .env file; empty path searches the
// default locations. Variables already set in the environment win.
func LoadFrom(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	} else {
		// Try multiple paths for .env file
		loadEnvFile()
	}

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		IExec: IExecConfig{
			InputDir:        getEnv("IEXEC_IN", "/iexec_in"),
			OutputDir:       getEnv("IEXEC_OUT", defaultOutputDir),
			BulkSliceSize:   getEnvAsInt("IEXEC_BULK_SLICE_SIZE", 0),
			DatasetFilename: getEnv("IEXEC_DATASET_FILENAME", ""),
		},

		Engine: EngineConfig{
			ValidationMode:  getEnv("ABS_VALIDATION_MODE", "lenient"),
			Workers:         getEnvAsInt("ABS_WORKERS", 4),
			AssumptionsFile: getEnv("ABS_ASSUMPTIONS_FILE", ""),
			Schedule:        getEnv("ABS_SCHEDULE", "0 0 * * * *"),
		},

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			CacheTTL: getEnvAsDuration("REDIS_CACHE_TTL", "24h"),
		},

		API: APIConfig{
			RateLimit: getEnvAsFloat("API_RATE_LIMIT", 10),
			RateBurst: getEnvAsInt("API_RATE_BURST", 20),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// 벌크 모드: IEXEC_DATASET_1_FILENAME .. IEXEC_DATASET_<N>_FILENAME
	for i := 1; i <= cfg.IExec.BulkSliceSize; i++ {
		cfg.IExec.BulkDatasets = append(cfg.IExec.BulkDatasets,
			getEnv(fmt.Sprintf("IEXEC_DATASET_%d_FILENAME", i), ""))
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// OutputDir returns IEXEC_OUT even when the rest of the configuration is
// invalid, so a failed task can still report through computed.json.
func OutputDir() string {
	return getEnv("IEXEC_OUT", defaultOutputDir)
}

const defaultOutputDir = "/iexec_out"

// validate checks if configuration values are consistent
func (c *Config) validate() error {
	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Engine.ValidationMode != "lenient" && c.Engine.ValidationMode != "strict" {
		return fmt.Errorf("ABS_VALIDATION_MODE must be one of: lenient, strict")
	}

	if c.Engine.Workers < 1 {
		return fmt.Errorf("ABS_WORKERS must be >= 1, got %d", c.Engine.Workers)
	}

	if c.IExec.BulkSliceSize < 0 {
		return fmt.Errorf("IEXEC_BULK_SLICE_SIZE must be >= 0, got %d", c.IExec.BulkSliceSize)
	}

	if c.API.RateLimit <= 0 || c.API.RateBurst < 1 {
		return fmt.Errorf("API_RATE_LIMIT must be > 0 and API_RATE_BURST >= 1")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Try paths in order of priority
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAs parses key with parse; unset or unparsable values fall back to def
func getEnvAs[T any](key string, def T, parse func(string) (T, error)) T {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		return def
	}
	return v
}

func getEnvAsInt(key string, def int) int {
	return getEnvAs(key, def, strconv.Atoi)
}

func getEnvAsFloat(key string, def float64) float64 {
	return getEnvAs(key, def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

func getEnvAsBool(key string, def bool) bool {
	return getEnvAs(key, def, strconv.ParseBool)
}

// getEnvAsDuration takes its default as a duration string, e.g. "30m"
func getEnvAsDuration(key string, def string) time.Duration {
	d, _ := time.ParseDuration(def)
	return getEnvAs(key, d, time.ParseDuration)
}
