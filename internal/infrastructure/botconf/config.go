package botconf

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	FileStorage     = "FILE"
	MemoryStorage   = "MEMORY"
	RedisStorage    = "REDIS"
	PostgresStorage = "POSTGRES"
)

type Config struct {
	BotToken      string        `env:"BOT_TOKEN,notEmpty"`
	APIURL        string        `env:"BOT_API_URL" envDefault:"https://api.telegram.org"`
	PollTimeout   int           `env:"POLL_TIMEOUT" envDefault:"10"`
	HTTPTimeout   time.Duration `env:"HTTP_TIMEOUT" envDefault:"90s"`
	RetryDelay    time.Duration `env:"RETRY_DELAY" envDefault:"10s"`
	RetryMax      int           `env:"RETRY_MAX" envDefault:"0"`
	OffsetStorage string        `env:"OFFSET_STORAGE" envDefault:"FILE"`
	OffsetFile    string        `env:"OFFSET_FILE" envDefault:"offset.txt"`
	LogLevel      slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
}

func New() (*Config, error) {
	config := &Config{}

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("ошибка при конфигурации: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("ошибка при конфигурации: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.OffsetStorage {
	case FileStorage, MemoryStorage, RedisStorage, PostgresStorage:
	default:
		return NewErrBadValue("OFFSET_STORAGE", c.OffsetStorage, "ожидается FILE, MEMORY, REDIS или POSTGRES")
	}

	if c.PollTimeout < 0 {
		return NewErrBadValue("POLL_TIMEOUT", c.PollTimeout, "не может быть отрицательным")
	}

	if c.RetryMax < 0 {
		return NewErrBadValue("RETRY_MAX", c.RetryMax, "не может быть отрицательным")
	}

	// клиент не должен обрывать long-poll раньше сервера
	if c.HTTPTimeout <= time.Duration(c.PollTimeout)*time.Second {
		return NewErrBadValue("HTTP_TIMEOUT", c.HTTPTimeout, "должен быть больше POLL_TIMEOUT")
	}

	return nil
}
