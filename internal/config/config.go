package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/zhouzirui/smartchat/backend/internal/notify"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server ServerConfig
	Store  StoreConfig
	Mail   notify.MailConfig
	Widget WidgetConfig
	Log    LogConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	store, err := loadStoreConfig()
	if err != nil {
		return nil, err
	}

	mail, err := loadMailConfig()
	if err != nil {
		return nil, err
	}

	widget, err := LoadWidgetConfig(strings.TrimSpace(os.Getenv("WIDGET_CONFIG")))
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: server,
		Store:  store,
		Mail:   mail,
		Widget: widget,
		Log:    LogConfig{Level: strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info"))},
	}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

func loadServerConfig() (ServerConfig, error) {
	port := getEnvOrDefault("PORT", "3001")

	origins := splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*"))

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":3001" 或 "127.0.0.1:3001"。
		return ServerConfig{Addr: port, AllowedOrigins: origins}, nil
	}

	if _, err := strconv.Atoi(port); err != nil {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port, AllowedOrigins: origins}, nil
}

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

// StoreConfig 描述存储后端配置。
type StoreConfig struct {
	Driver        string
	SQLitePath    string
	MongoURI      string
	MongoDatabase string
}

func loadStoreConfig() (StoreConfig, error) {
	cfg := StoreConfig{
		Driver:        strings.ToLower(getEnvOrDefault("STORE_DRIVER", DriverMemory)),
		SQLitePath:    getEnvOrDefault("SQLITE_PATH", "smartchat.db"),
		MongoURI:      strings.TrimSpace(os.Getenv("MONGO_URI")),
		MongoDatabase: getEnvOrDefault("MONGO_DATABASE", "smartchat"),
	}

	switch cfg.Driver {
	case DriverMemory, DriverSQLite:
	case DriverMongo:
		if cfg.MongoURI == "" {
			return StoreConfig{}, fmt.Errorf("MONGO_URI is required when STORE_DRIVER=mongo")
		}
	default:
		return StoreConfig{}, fmt.Errorf("invalid STORE_DRIVER value %q", cfg.Driver)
	}
	return cfg, nil
}

func loadMailConfig() (notify.MailConfig, error) {
	port := 587
	if override, err := parseOptionalIntEnv("SMTP_PORT"); err != nil {
		return notify.MailConfig{}, err
	} else if override != nil {
		port = *override
	}

	return notify.MailConfig{
		Host:     strings.TrimSpace(os.Getenv("SMTP_HOST")),
		Port:     port,
		Username: strings.TrimSpace(os.Getenv("SMTP_USERNAME")),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     strings.TrimSpace(os.Getenv("NOTIFY_FROM")),
		To:       splitList(os.Getenv("NOTIFY_TO")),
	}, nil
}

// LogConfig 描述日志配置
type LogConfig struct {
	Level string
}

// Debug 表示是否启用开发模式日志。
func (c LogConfig) Debug() bool {
	return c.Level == "debug"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalDurationEnv(key string) (*time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return nil, nil
	}

	val, err := time.ParseDuration(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
