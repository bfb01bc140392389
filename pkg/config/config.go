package config

import (
	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	TelegramToken string `env:"TELEGRAM_TOKEN,required"`
	OpenAIKey     string `env:"OPENAI_KEY,required"`
	OpenAIModel   string `env:"OPENAI_MODEL" envDefault:"gpt-4.1"`

	AdminID       int64  `env:"ADMIN_ID,required"`
	AdminPassword string `env:"ADMIN_PASSWORD,required"`

	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     string `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"postgres"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"rafikibot"`

	ServerHost    string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	ServerPort    string `env:"SERVER_PORT" envDefault:"8080"`
	JWTSigningKey string `env:"JWT_SIGNING_KEY" envDefault:"your-secret-signing-key"`

	// BotMode: polling или webhook
	BotMode string `env:"BOT_MODE" envDefault:"polling"`

	RateLimitSeconds   int    `env:"RATE_LIMIT_SECONDS" envDefault:"5"`
	ChatHistoryLimit   int    `env:"CHAT_HISTORY_LIMIT" envDefault:"20"`
	CacheExpirySeconds int    `env:"CACHE_EXPIRY_SECONDS" envDefault:"3600"`
	MaxInputLength     int    `env:"MAX_INPUT_LENGTH" envDefault:"1000"`
	DefaultLanguage    string `env:"DEFAULT_LANGUAGE" envDefault:"en"`
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("Не найден файл .env")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		logrus.Fatalf("Ошибка при разборе конфигурации: %v", err)
	}

	return cfg
}
