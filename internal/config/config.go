package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config конфигурация сервиса
type Config struct {
	// Сервер
	Port string

	// AI конфигурация
	AIAPIKey    string
	AIModel     string
	AIBaseURL   string
	AITimeout   time.Duration
	AIRateRPS   float64 // запросов в секунду к внешнему выводу
	AIMaxTokens int

	// Группировка
	GroupingThreshold int
	UseStemming       bool

	// Сравнение
	CompareWorkers int

	// Кэш классификаций
	CategoryCacheSize int
	CategoryCacheTTL  time.Duration
}

// Load загружает конфигурацию из переменных окружения с дефолтами
func Load() (*Config, error) {
	config := &Config{
		Port: getEnv("SERVER_PORT", "8080"),

		AIAPIKey:    getEnv("AI_API_KEY", ""),
		AIModel:     getEnv("AI_MODEL", "deepseek-chat"),
		AIBaseURL:   getEnv("AI_BASE_URL", "https://api.deepseek.com/v1"),
		AITimeout:   getEnvDuration("AI_TIMEOUT", 30*time.Second),
		AIRateRPS:   getEnvFloat("AI_RATE_RPS", 1.0),
		AIMaxTokens: getEnvInt("AI_MAX_TOKENS", 600),

		GroupingThreshold: getEnvInt("GROUPING_THRESHOLD", 50),
		UseStemming:       getEnvBool("GROUPING_USE_STEMMING", false),

		CompareWorkers: getEnvInt("COMPARE_WORKERS", 4),

		CategoryCacheSize: getEnvInt("CATEGORY_CACHE_SIZE", 1000),
		CategoryCacheTTL:  getEnvDuration("CATEGORY_CACHE_TTL", 24*time.Hour),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if c.GroupingThreshold < 0 || c.GroupingThreshold > 100 {
		return fmt.Errorf("grouping threshold must be in [0, 100], got %d", c.GroupingThreshold)
	}
	if c.CompareWorkers <= 0 {
		return fmt.Errorf("compare workers must be positive, got %d", c.CompareWorkers)
	}
	if c.AITimeout <= 0 {
		return fmt.Errorf("AI timeout must be positive, got %v", c.AITimeout)
	}
	if c.AIRateRPS <= 0 {
		return fmt.Errorf("AI rate must be positive, got %v", c.AIRateRPS)
	}
	if c.CategoryCacheSize <= 0 {
		return fmt.Errorf("category cache size must be positive, got %d", c.CategoryCacheSize)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
