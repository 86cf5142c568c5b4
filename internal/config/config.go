package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LLMConfig configures the chat model used by the report crew.
type LLMConfig struct {
	Provider    string  `yaml:"provider"` // openai | deepseek
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	MaxSteps    int     `yaml:"max_steps"`
}

// Enabled reports whether a report crew can be built.
func (c LLMConfig) Enabled() bool {
	return c.APIKey != ""
}

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	LLM        LLMConfig `yaml:"llm"`
	DataSource struct {
		Provider string `yaml:"provider"` // yahoo | financego | mock
		Period   string `yaml:"period"`
		Interval string `yaml:"interval"`
	} `yaml:"data_source"`
	Cache struct {
		RedisAddr     string        `yaml:"redis_addr"`
		RedisPassword string        `yaml:"redis_password"`
		RedisDB       int           `yaml:"redis_db"`
		TTL           time.Duration `yaml:"ttl"`
	} `yaml:"cache"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		RefreshCron string   `yaml:"refresh_cron"`
		Watchlist   []string `yaml:"watchlist"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Proxy string `yaml:"proxy"`
}

// Load reads .env, then config from a YAML file, then applies environment
// variable overrides and defaults.
func Load(path string) (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	// Environment variable overrides
	if v := os.Getenv("SAMBANOVA_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Cache.RedisDB = db
		}
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		cfg.Schedule.Watchlist = splitList(v)
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8501"
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "openai"
	}
	if cfg.LLM.BaseURL == "" && cfg.LLM.Provider == "openai" {
		cfg.LLM.BaseURL = "https://api.sambanova.ai/v1"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "NVIDIABuild-Autogen-65"
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.3
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 4096
	}
	if cfg.LLM.MaxSteps == 0 {
		cfg.LLM.MaxSteps = 12
	}
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.DataSource.Period == "" {
		cfg.DataSource.Period = "1y"
	}
	if cfg.DataSource.Interval == "" {
		cfg.DataSource.Interval = "1d"
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 15 * time.Minute
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stocklens.db"
	}
	if cfg.Schedule.RefreshCron == "" {
		cfg.Schedule.RefreshCron = "0 0 22 * * 1-5"
	}
	for i, s := range cfg.Schedule.Watchlist {
		cfg.Schedule.Watchlist[i] = strings.ToUpper(strings.TrimSpace(s))
	}
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// TelegramEnabled reports whether digests can be delivered.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo", "financego", "mock":
	default:
		return fmt.Errorf("data_source.provider must be yahoo, financego or mock, got %q", c.DataSource.Provider)
	}
	switch c.LLM.Provider {
	case "openai", "deepseek":
	default:
		return fmt.Errorf("llm.provider must be openai or deepseek, got %q", c.LLM.Provider)
	}
	// The range gauge and the facts tool both describe a 52-week window.
	if c.DataSource.Period != "1y" {
		return fmt.Errorf("data_source.period must be 1y, got %q", c.DataSource.Period)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be within [0, 2]")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}
