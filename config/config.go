package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           string
	Mode           string
	TrustedProxies []string
	AllowedOrigins []string
}

// DBConfig holds database settings
type DBConfig struct {
	Driver       string
	DSN          string
	MaxOpenConns int
	LogLevel     logger.LogLevel
}

// TelegramConfig holds the staff chat channel settings
type TelegramConfig struct {
	BotToken    string
	GroupChatID int64
}

// NotifyConfig holds dispatcher settings
type NotifyConfig struct {
	Buffer  int
	Timeout time.Duration
}

// IntakeConfig limits public queue intake per client
type IntakeConfig struct {
	Rate  float64
	Burst int
}

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	Telegram  TelegramConfig
	Notify    NotifyConfig
	Intake    IntakeConfig
	JWTSecret string
	LogLevel  string
}

// Load reads configuration from the environment. A .env file is loaded
// first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Mode:           getEnv("GIN_MODE", "debug"),
			TrustedProxies: getEnvAsList("TRUSTED_PROXIES", []string{"127.0.0.1"}),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"http://localhost:5500"}),
		},
		DB: DBConfig{
			Driver:       strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
			DSN:          getEnv("DB_DSN", "mesaja.db"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			LogLevel:     getEnvAsLogLevel("DB_LOG_LEVEL", logger.Warn),
		},
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		},
		Notify: NotifyConfig{
			Buffer:  getEnvAsInt("NOTIFY_BUFFER", 64),
			Timeout: getEnvAsDuration("NOTIFY_TIMEOUT", 5*time.Second),
		},
		Intake: IntakeConfig{
			Rate:  getEnvAsFloat("INTAKE_RATE", 1),
			Burst: getEnvAsInt("INTAKE_BURST", 5),
		},
		JWTSecret: getEnv("JWT_SECRET", ""),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
	}

	if raw := getEnv("TELEGRAM_GROUP_CHAT_ID", ""); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_GROUP_CHAT_ID %q: %w", raw, err)
		}
		cfg.Telegram.GroupChatID = id
	}

	switch cfg.DB.Driver {
	case "sqlite", "mysql", "postgres":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}

	return cfg, nil
}

// TelegramEnabled reports whether chat delivery has enough settings to run.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.GroupChatID != 0
}

// InitDB opens the database selected by DB_DRIVER.
func InitDB(cfg DBConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		dialector = sqlite.Open(cfg.DSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(cfg.LogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Driver == "sqlite" {
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	} else if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	return db, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvAsLogLevel(key string, defaultValue logger.LogLevel) logger.LogLevel {
	switch getEnv(key, "") {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return defaultValue
	}
}
