package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Charts     ChartsConfig     `mapstructure:"charts"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	Background BackgroundConfig `mapstructure:"background"`
	Telegram   TelegramConfig   `mapstructure:"telegram"`
}

type AppConfig struct {
	OutputDir string `mapstructure:"output_dir"` // where default-named artifacts go
	LogDir    string `mapstructure:"log_dir"`    // empty disables logs/app.log
	Verbose   bool   `mapstructure:"verbose"`
}

type ChartsConfig struct {
	FontPath     string `mapstructure:"font_path"`
	BoldFontPath string `mapstructure:"bold_font_path"`
	DPI          int    `mapstructure:"dpi"`
}

// GeminiConfig - image generation API
type GeminiConfig struct {
	APIKey          string  `mapstructure:"api_key"`
	BaseURL         string  `mapstructure:"base_url"`
	Model           string  `mapstructure:"model"`
	RequestTimeout  int     `mapstructure:"request_timeout"` // seconds, 0 = no timeout
	MaxRetries      int     `mapstructure:"max_retries"`
	MaxResponseSize int64   `mapstructure:"max_response_size"`
	RateLimit       float64 `mapstructure:"rate_limit"` // requests per second
}

// BackgroundConfig - optional background removal tool
type BackgroundConfig struct {
	Command string `mapstructure:"command"`
	Timeout int    `mapstructure:"timeout"` // seconds
}

type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// LoadConfig merges, lowest precedence first:
// 1. defaults
// 2. config.yaml (or the file named by --config)
// 3. .env file and environment
// 4. flags bound from fs (may be nil)
func LoadConfig(fs *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	configFile := ""
	if fs != nil {
		if f := fs.Lookup("config"); f != nil {
			configFile = f.Value.String()
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config.yaml: %w", err)
			}
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("DOCVIZ")
	v.AutomaticEnv()
	setupEnvAliases(v)

	if fs != nil {
		bindFlags(v, fs)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setupEnvAliases maps the conventional unprefixed names onto config keys.
// DOCVIZ_GEMINI_API_KEY also works through AutomaticEnv.
func setupEnvAliases(v *viper.Viper) {
	v.BindEnv("gemini.api_key", "DOCVIZ_GEMINI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY")
	v.BindEnv("gemini.model", "DOCVIZ_GEMINI_MODEL", "GEMINI_IMAGE_MODEL")
	v.BindEnv("telegram.bot_token", "DOCVIZ_TELEGRAM_BOT_TOKEN", "TELEGRAM_BOT_TOKEN")
	v.BindEnv("telegram.chat_id", "DOCVIZ_TELEGRAM_CHAT_ID", "TELEGRAM_CHAT_ID")
	v.BindEnv("background.command", "DOCVIZ_BACKGROUND_COMMAND", "REMBG_BIN")
}

func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.output_dir", ".")
	v.SetDefault("app.log_dir", "")
	v.SetDefault("app.verbose", false)

	// Charts
	v.SetDefault("charts.font_path", "")
	v.SetDefault("charts.bold_font_path", "")
	v.SetDefault("charts.dpi", 150)

	// Gemini
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("gemini.model", "gemini-3-pro-image-preview")
	v.SetDefault("gemini.request_timeout", 0)
	v.SetDefault("gemini.max_retries", 0)
	v.SetDefault("gemini.max_response_size", 64*1024*1024) // 64MB, 4K images are large
	v.SetDefault("gemini.rate_limit", 1.0)

	// Background removal
	v.SetDefault("background.command", "rembg")
	v.SetDefault("background.timeout", 300)

	// Telegram
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
}

// bindFlags binds the flags that have a config counterpart.
// Only flags the user actually set override file/env values.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) {
	pairs := map[string]string{
		"verbose":       "app.verbose",
		"log-dir":       "app.log_dir",
		"output-dir":    "app.output_dir",
		"dpi":           "charts.dpi",
		"font":          "charts.font_path",
		"model":         "gemini.model",
		"telegram-chat": "telegram.chat_id",
	}
	for flagName, key := range pairs {
		if f := fs.Lookup(flagName); f != nil && f.Changed {
			v.BindPFlag(key, f)
		}
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Charts.DPI <= 0 {
		return fmt.Errorf("charts.dpi must be positive, got %d", cfg.Charts.DPI)
	}
	if cfg.Gemini.MaxRetries < 0 {
		return fmt.Errorf("gemini.max_retries must not be negative")
	}
	if cfg.Gemini.RateLimit <= 0 {
		return fmt.Errorf("gemini.rate_limit must be positive")
	}
	return nil
}
