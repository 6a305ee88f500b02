package config

import (
	"errors"
	"log"
	"time"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type StoreBackend string

const (
	StoreFile   StoreBackend = "file"
	StoreSQLite StoreBackend = "sqlite"
	StoreRedis  StoreBackend = "redis"
)

type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"prod"`

	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	// Chat that receives queue results and reminders. When zero the first chat
	// that talks to the bot is remembered instead.
	OwnerChatID int64 `env:"OWNER_CHAT_ID"`

	// LLM settings. The defaults point go-openai at Gemini's OpenAI-compatible endpoint.
	LLMProvider      LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey     string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string      `env:"OPENAI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta/openai/"`
	OpenAIModel      string      `env:"OPENAI_MODEL" envDefault:"gemini-2.5-flash"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`

	// Storage
	StoreBackend    StoreBackend `env:"STORE_BACKEND" envDefault:"file"`
	StoreFilePath   string       `env:"STORE_FILE_PATH" envDefault:"data/store.json"`
	StoreSQLitePath string       `env:"STORE_SQLITE_PATH" envDefault:"data/store.db"`
	RedisAddr       string       `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPrefix     string       `env:"REDIS_PREFIX" envDefault:"hensgen:"`

	// Feeds
	WeatherURL  string        `env:"WEATHER_URL" envDefault:"https://api.open-meteo.com/v1/forecast?latitude=-37.81&longitude=144.96&daily=weathercode,temperature_2m_max,temperature_2m_min,precipitation_sum&timezone=Australia%2FSydney"`
	NewsFeeds   []string      `env:"NEWS_FEEDS" envSeparator:"," envDefault:"ABC News|https://www.abc.net.au/news/feed/51120/rss.xml,SBS News|https://www.sbs.com.au/news/topic/latest/feed,Cricket Australia|https://www.cricket.com.au/rss/news"`
	NewsLimit   int           `env:"NEWS_LIMIT" envDefault:"30"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`

	// Connectivity probe. Empty URL falls back to the LLM base URL.
	ProbeURL      string        `env:"PROBE_URL"`
	ProbeInterval time.Duration `env:"PROBE_INTERVAL" envDefault:"15s"`

	// Reminders
	ReminderSpec     string `env:"REMINDER_SPEC" envDefault:"0 9 * * MON"`
	ReminderTimezone string `env:"REMINDER_TZ" envDefault:"Australia/Melbourne"`

	// HTTP health/metrics endpoint
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
}

func New() *Config {
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}

var ErrNoBotToken = errors.New("TELEGRAM_BOT_TOKEN is required")

// Parse reads the bot configuration. TELEGRAM_BOT_TOKEN must be set.
func Parse() (*Config, error) {
	cfg, err := ParseShared()
	if err != nil {
		return nil, err
	}
	if cfg.TelegramBotToken == "" {
		return nil, ErrNoBotToken
	}
	return cfg, nil
}

// ParseShared reads the configuration without requiring bot credentials.
// The MCP server shares the store and feeds but never talks to Telegram.
func ParseShared() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// AIConfigured reports whether the selected provider has credentials.
// AI screens degrade to a notice when it is false.
func (c *Config) AIConfigured() bool {
	switch c.LLMProvider {
	case ProviderYandex:
		return c.YandexOAuthToken != "" && c.YandexFolderID != ""
	default:
		return c.OpenAIAPIKey != ""
	}
}

func (c *Config) ProbeTarget() string {
	if c.ProbeURL != "" {
		return c.ProbeURL
	}
	return c.OpenAIBaseURL
}
