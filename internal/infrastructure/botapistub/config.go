package botapistub

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Addr     string        `env:"STUB_ADDR" envDefault:":8081"`
	Token    string        `env:"STUB_TOKEN" envDefault:"123456:stub-token"`
	PollWait time.Duration `env:"STUB_POLL_WAIT" envDefault:"10s"`
	Username string        `env:"STUB_BOT_USERNAME" envDefault:"stub_bot"`
}

func NewConfig() (*Config, error) {
	config := &Config{}

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("ошибка при парсинге конфига заглушки: %w", err)
	}

	return config, nil
}
