package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"RedditPulse/internal/domain"
)

const (
	configPathEnv      = "REDDIT_PULSE_CONFIG"
	databaseDSNEnv     = "DATABASE_DSN"
	openAIAPIKeyEnv    = "OPENAI_API_KEY"
	openAIModelEnv     = "OPENAI_MODEL"
	telegramTokenEnv   = "TELEGRAM_BOT_TOKEN"
	redditUserAgentEnv = "REDDIT_USER_AGENT"
)

// Config holds all settings required across the application.
type Config struct {
	Database   DatabaseConfig  `yaml:"database"`
	Scheduler  SchedulerConfig `yaml:"scheduler"`
	Reddit     RedditConfig    `yaml:"reddit"`
	OpenAI     OpenAIConfig    `yaml:"openai"`
	Telegram   TelegramConfig  `yaml:"telegram"`
	Logging    LoggingConfig   `yaml:"logging"`
	Categories []Category      `yaml:"categories"`
}

// DatabaseConfig describes Postgres connection details.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// SchedulerConfig defines the sweep cadence and per-subreddit batch size.
type SchedulerConfig struct {
	PollInterval time.Duration `yaml:"pollInterval"`
	BatchLimit   int           `yaml:"batchLimit"`
	Filter       string        `yaml:"filter"`
}

// RedditConfig wires the listing client.
type RedditConfig struct {
	BaseURL           string `yaml:"baseUrl"`
	UserAgent         string `yaml:"userAgent"`
	RequestsPerMinute int    `yaml:"requestsPerMinute"`
}

// OpenAIConfig defines how to contact the inference API.
type OpenAIConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// TelegramConfig wires the notification bot.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Category maps one category name onto the subreddits it watches and the
// Telegram chats it reports to. List order is the sweep order.
type Category struct {
	Name       string   `yaml:"name"`
	Subreddits []string `yaml:"subreddits"`
	ChatIDs    []string `yaml:"chatIds"`
}

// Load reads YAML configuration (if present), applies environment overrides,
// and validates that the process can start fully configured.
func Load() (Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg = mergeConfig(cfg, fileCfg)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(openAIAPIKeyEnv); v != "" {
		c.OpenAI.APIKey = v
	}

	if v := os.Getenv(openAIModelEnv); v != "" {
		c.OpenAI.Model = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Telegram.BotToken = v
	}

	if v := os.Getenv(redditUserAgentEnv); v != "" {
		c.Reddit.UserAgent = v
	}
}

// Validate rejects a partially configured process before anything starts.
func (c Config) Validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("config: database dsn is required")
	}
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("config: openai api key is required")
	}
	if c.OpenAI.Endpoint == "" || c.OpenAI.Model == "" {
		return fmt.Errorf("config: openai endpoint and model are required")
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("config: telegram bot token is required")
	}
	if c.Scheduler.PollInterval <= 0 {
		return fmt.Errorf("config: poll interval must be positive")
	}
	if c.Scheduler.BatchLimit <= 0 {
		return fmt.Errorf("config: batch limit must be positive")
	}
	if _, err := domain.ParseFilter(c.Scheduler.Filter); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if len(c.Categories) == 0 {
		return fmt.Errorf("config: at least one category is required")
	}
	for _, cat := range c.Categories {
		if cat.Name == "" {
			return fmt.Errorf("config: category name is required")
		}
		if len(cat.Subreddits) == 0 {
			return fmt.Errorf("config: category %s has no subreddits", cat.Name)
		}
		if len(cat.ChatIDs) == 0 {
			return fmt.Errorf("config: category %s has no chat ids", cat.Name)
		}
	}
	return nil
}

// ListingFilter resolves the configured listing filter, defaulting to "new".
func (s SchedulerConfig) ListingFilter() domain.Filter {
	filter, err := domain.ParseFilter(s.Filter)
	if err != nil {
		return domain.FilterNew
	}
	return filter
}

func mergeConfig(base, override Config) Config {
	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Scheduler.PollInterval > 0 {
		base.Scheduler.PollInterval = override.Scheduler.PollInterval
	}
	if override.Scheduler.BatchLimit > 0 {
		base.Scheduler.BatchLimit = override.Scheduler.BatchLimit
	}
	if override.Scheduler.Filter != "" {
		base.Scheduler.Filter = override.Scheduler.Filter
	}

	if override.Reddit.BaseURL != "" {
		base.Reddit.BaseURL = override.Reddit.BaseURL
	}
	if override.Reddit.UserAgent != "" {
		base.Reddit.UserAgent = override.Reddit.UserAgent
	}
	if override.Reddit.RequestsPerMinute > 0 {
		base.Reddit.RequestsPerMinute = override.Reddit.RequestsPerMinute
	}

	if override.OpenAI.Endpoint != "" {
		base.OpenAI.Endpoint = override.OpenAI.Endpoint
	}
	if override.OpenAI.Model != "" {
		base.OpenAI.Model = override.OpenAI.Model
	}
	if override.OpenAI.APIKey != "" {
		base.OpenAI.APIKey = override.OpenAI.APIKey
	}

	if override.Telegram.BotToken != "" {
		base.Telegram.BotToken = override.Telegram.BotToken
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if len(override.Categories) > 0 {
		base.Categories = override.Categories
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Scheduler: SchedulerConfig{
			PollInterval: time.Hour,
			BatchLimit:   3,
			Filter:       string(domain.FilterNew),
		},
		Reddit: RedditConfig{
			BaseURL:           "https://www.reddit.com",
			UserAgent:         "RedditPulse/1.0",
			RequestsPerMinute: 60,
		},
		OpenAI: OpenAIConfig{
			Endpoint: "https://api.openai.com/v1/chat/completions",
			Model:    "gpt-4o-2024-08-06",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
