package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis"
)

// Store хранит offset бота под одним ключом.
type Store struct {
	key    string
	client *redis.Client
}

func NewStore(config *Config) (*Store, error) {
	redisClient := redis.NewClient(&redis.Options{Addr: config.RedisAddr})

	if err := redisClient.Ping().Err(); err != nil {
		return nil, fmt.Errorf("ошибка при создании redis хранилища, не удалось установить соединение: %w", err)
	}

	return &Store{key: config.OffsetKey, client: redisClient}, nil
}

func (s *Store) Offset(ctx context.Context) (int64, bool, error) {
	offset, err := s.client.WithContext(ctx).Get(s.key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}

	if err != nil {
		return 0, false, fmt.Errorf("ошибка при получении offset по ключу %s: %w", s.key, err)
	}

	return offset, true, nil
}

func (s *Store) SetOffset(ctx context.Context, offset int64) error {
	if err := s.client.WithContext(ctx).Set(s.key, offset, 0).Err(); err != nil {
		return fmt.Errorf("ошибка при сохранении offset %d по ключу %s: %w", offset, s.key, err)
	}

	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
