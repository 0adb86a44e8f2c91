package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds everything the bridge reads from the environment.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	OpenAIAPIKey  string `env:"OPENAI_API_KEY,required"`
	OpenAIModel   string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`

	TelegramBotToken      string `env:"TELEGRAM_BOT_TOKEN,required"`
	TelegramAPIURL        string `env:"TELEGRAM_API_URL" envDefault:"https://api.telegram.org"`
	TelegramWebhookSecret string `env:"TELEGRAM_WEBHOOK_SECRET"`

	TranslateTimeout time.Duration `env:"TRANSLATE_TIMEOUT" envDefault:"20s"`
	DeliveryTimeout  time.Duration `env:"DELIVERY_TIMEOUT" envDefault:"10s"`

	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"*"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	LogFile   string `env:"LOG_FILE"`
}

// Load reads optional .env files and parses the environment into a Config.
// A missing .env file is not an error.
func Load(files ...string) (*Config, error) {
	_ = godotenv.Load(files...)

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg.TelegramBotToken = strings.TrimSpace(cfg.TelegramBotToken)
	if cfg.TranslateTimeout <= 0 {
		return nil, fmt.Errorf("config: TRANSLATE_TIMEOUT must be positive")
	}
	if cfg.DeliveryTimeout <= 0 {
		return nil, fmt.Errorf("config: DELIVERY_TIMEOUT must be positive")
	}

	return cfg, nil
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
