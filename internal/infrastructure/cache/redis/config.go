package redis

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	OffsetKey string `env:"REDIS_OFFSET_KEY" envDefault:"bot:offset"`
}

func NewConfig() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("ошибка при парсинге конфига redis: %w", err)
	}

	return cfg, nil
}
