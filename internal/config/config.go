package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Engine   EngineConfig
	Price    PriceConfig
	Logging  LoggingConfig
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Port int
	Host string
}

// DatabaseConfig - настройки подключения к БД для снапшотов
//
// Ядро полностью in-memory; БД - опциональный коллаборатор, который
// периодически сохраняет реестр трейдеров и граф подписок.
type DatabaseConfig struct {
	SnapshotEnabled  bool
	SnapshotInterval time.Duration

	Driver   string
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
}

// EngineConfig - настройки ядра копи-трейдинга
type EngineConfig struct {
	DrainInterval     time.Duration // период drain-цикла очереди ордеров
	HistoryCapacity   int           // ёмкость rolling-буфера цен на символ
	TopTradersDefault int           // лимит топ-трейдеров по умолчанию
}

// PriceConfig - настройки провайдера котировок
type PriceConfig struct {
	BaseURL    string        // базовый URL Binance REST API
	RateLimit  float64       // запросов в секунду
	RateBurst  float64       // burst ёмкость rate limiter'а
	MaxRetries int           // попыток на transient ошибки
	Timeout    time.Duration // общий таймаут одного запроса
}

// LoggingConfig - настройки логирования
type LoggingConfig struct {
	Level  string
	Format string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvAsInt("SERVER_PORT", 8080),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			SnapshotEnabled:  getEnvAsBool("SNAPSHOT_ENABLED", false),
			SnapshotInterval: getEnvAsDuration("SNAPSHOT_INTERVAL", 1*time.Minute),

			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			Name:     getEnv("DB_NAME", "copytrade"),
			User:     getEnv("DB_USER", "user"),
			Password: getEnv("DB_PASSWORD", "password"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Engine: EngineConfig{
			// Drain-цикл: проверка очереди раз в секунду
			DrainInterval:     getEnvAsDuration("DRAIN_INTERVAL", 1*time.Second),
			HistoryCapacity:   getEnvAsInt("HISTORY_CAPACITY", 50),
			TopTradersDefault: getEnvAsInt("TOP_TRADERS_DEFAULT", 5),
		},
		Price: PriceConfig{
			BaseURL:    getEnv("BINANCE_BASE_URL", "https://api.binance.com"),
			RateLimit:  getEnvAsFloat("PRICE_RATE_LIMIT", 10),
			RateBurst:  getEnvAsFloat("PRICE_RATE_BURST", 20),
			MaxRetries: getEnvAsInt("PRICE_MAX_RETRIES", 3),
			Timeout:    getEnvAsDuration("PRICE_TIMEOUT", 10*time.Second),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate проверяет числовые диапазоны параметров
func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("DB_PORT must be between 1 and 65535, got %d", c.Database.Port)
	}

	if c.Engine.DrainInterval <= 0 {
		return fmt.Errorf("DRAIN_INTERVAL must be positive, got %v", c.Engine.DrainInterval)
	}

	if c.Engine.HistoryCapacity < 1 {
		return fmt.Errorf("HISTORY_CAPACITY must be at least 1, got %d", c.Engine.HistoryCapacity)
	}

	if c.Engine.TopTradersDefault < 1 {
		return fmt.Errorf("TOP_TRADERS_DEFAULT must be at least 1, got %d", c.Engine.TopTradersDefault)
	}

	if c.Price.MaxRetries < 0 {
		return fmt.Errorf("PRICE_MAX_RETRIES cannot be negative, got %d", c.Price.MaxRetries)
	}

	if c.Price.MaxRetries > 10 {
		return fmt.Errorf("PRICE_MAX_RETRIES should not exceed 10, got %d", c.Price.MaxRetries)
	}

	if c.Price.Timeout <= 0 {
		return fmt.Errorf("PRICE_TIMEOUT must be positive, got %v", c.Price.Timeout)
	}

	if c.Database.SnapshotEnabled && c.Database.SnapshotInterval <= 0 {
		return fmt.Errorf("SNAPSHOT_INTERVAL must be positive, got %v", c.Database.SnapshotInterval)
	}

	return nil
}

// DSN возвращает строку подключения к базе данных
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// DSNWithoutPassword возвращает строку подключения без пароля (для логирования)
func (d DatabaseConfig) DSNWithoutPassword() string {
	return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Name, d.SSLMode)
}

// Вспомогательные функции для чтения переменных окружения

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
