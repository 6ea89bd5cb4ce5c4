package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// WidgetConfig 描述聊天组件的展示与行为参数。
// 只有 WelcomeMessage 和 ReplyDelay 会影响对话引擎。
type WidgetConfig struct {
	CompanyName    string        `yaml:"companyName" json:"companyName"`
	PrimaryColor   string        `yaml:"primaryColor" json:"primaryColor"`
	WelcomeMessage string        `yaml:"welcomeMessage" json:"welcomeMessage"`
	ReplyDelay     time.Duration `yaml:"replyDelay" json:"-"`
}

// DefaultWidgetConfig 返回默认组件配置
func DefaultWidgetConfig() WidgetConfig {
	return WidgetConfig{
		CompanyName:    "Your Company",
		PrimaryColor:   "#2563eb",
		WelcomeMessage: "Hello! How can I help you today?",
		ReplyDelay:     time.Second,
	}
}

// LoadWidgetConfig 依次应用默认值、YAML 配置文件（如有）和 WIDGET_* 环境变量。
func LoadWidgetConfig(path string) (WidgetConfig, error) {
	cfg := DefaultWidgetConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return WidgetConfig{}, fmt.Errorf("read widget config: %w", err)
		}
		var file WidgetConfig
		if err := yaml.Unmarshal(data, &file); err != nil {
			return WidgetConfig{}, fmt.Errorf("parse widget config %s: %w", path, err)
		}
		cfg.merge(file)
	}

	delay, err := parseOptionalDurationEnv("WIDGET_REPLY_DELAY")
	if err != nil {
		return WidgetConfig{}, err
	}
	env := WidgetConfig{
		CompanyName:    strings.TrimSpace(os.Getenv("WIDGET_COMPANY_NAME")),
		PrimaryColor:   strings.TrimSpace(os.Getenv("WIDGET_PRIMARY_COLOR")),
		WelcomeMessage: strings.TrimSpace(os.Getenv("WIDGET_WELCOME_MESSAGE")),
	}
	if delay != nil {
		env.ReplyDelay = *delay
	}
	cfg.merge(env)

	if cfg.ReplyDelay < 0 {
		return WidgetConfig{}, fmt.Errorf("reply delay must not be negative: %s", cfg.ReplyDelay)
	}
	return cfg, nil
}

// merge copies every non-zero field of other onto c.
func (c *WidgetConfig) merge(other WidgetConfig) {
	if other.CompanyName != "" {
		c.CompanyName = other.CompanyName
	}
	if other.PrimaryColor != "" {
		c.PrimaryColor = other.PrimaryColor
	}
	if other.WelcomeMessage != "" {
		c.WelcomeMessage = other.WelcomeMessage
	}
	if other.ReplyDelay != 0 {
		c.ReplyDelay = other.ReplyDelay
	}
}
