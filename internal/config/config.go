package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Paths    PathsConfig
	Storage  StorageConfig
	Worker   WorkerConfig
	LLM      LLMConfig
	APIKeys  APIKeysConfig
	Settings *Settings
}

type ServerConfig struct {
	Port string
	Env  string
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

type PathsConfig struct {
	Settings string
	Prompts  string
	Static   string
}

type StorageConfig struct {
	UploadPath     string
	MaxFileSize    int64
	MaxRequestSize int64
}

type WorkerConfig struct {
	Concurrency       int
	ExtractionTimeout time.Duration
}

type LLMConfig struct {
	Timeout       time.Duration
	MaxAttempts   int
	RetryInterval time.Duration
	// BaseURL points OpenAI-compatible providers at another endpoint.
	BaseURL string
}

type APIKeysConfig struct {
	OpenAI string
	Groq   string
	Gemini string
}

// Load reads the process environment (and .env when present). Provider
// settings are loaded separately with LoadSettings.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Log: LogConfig{
			JSON:  getEnvAsBool("LOG_JSON", false),
			Debug: getEnvAsBool("LOG_DEBUG", false),
		},
		Paths: PathsConfig{
			Settings: getEnv("SETTINGS_PATH", "./config/settings.yaml"),
			Prompts:  getEnv("PROMPTS_PATH", "./config/prompts.yaml"),
			Static:   getEnv("STATIC_PATH", "./static"),
		},
		Storage: StorageConfig{
			UploadPath:     getEnv("UPLOAD_PATH", "./data/uploads"),
			MaxFileSize:    getEnvAsInt64("MAX_FILE_SIZE", 10485760),
			MaxRequestSize: getEnvAsInt64("MAX_REQUEST_SIZE", 52428800),
		},
		Worker: WorkerConfig{
			Concurrency:       getEnvAsInt("EVAL_CONCURRENCY", 1),
			ExtractionTimeout: getEnvAsDuration("EXTRACTION_TIMEOUT", "30s"),
		},
		LLM: LLMConfig{
			Timeout:       getEnvAsDuration("LLM_TIMEOUT", "60s"),
			MaxAttempts:   getEnvAsInt("LLM_MAX_ATTEMPTS", 1),
			RetryInterval: getEnvAsDuration("LLM_RETRY_INTERVAL", "1s"),
			BaseURL:       getEnv("LLM_BASE_URL", ""),
		},
		APIKeys: APIKeysConfig{
			OpenAI: getEnv("OPENAI_API_KEY", ""),
			Groq:   getEnv("GROQ_API_KEY", ""),
			Gemini: getEnv("GEMINI_API_KEY", ""),
		},
	}
}

// APIKey returns the key configured for the named provider.
func (c *Config) APIKey(provider string) string {
	switch strings.ToLower(provider) {
	case "openai":
		return c.APIKeys.OpenAI
	case "groq":
		return c.APIKeys.Groq
	case "gemini":
		return c.APIKeys.Gemini
	default:
		return ""
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
