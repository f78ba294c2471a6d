package memory

import (
	"context"
	"sync"
)

type OffsetStorage struct {
	mu     sync.Mutex
	offset int64
	saved  bool
	writes []int64
}

func NewOffsetStorage() *OffsetStorage {
	return &OffsetStorage{}
}

func (s *OffsetStorage) Offset(_ context.Context) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.offset, s.saved, nil
}

func (s *OffsetStorage) SetOffset(_ context.Context, offset int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.offset = offset
	s.saved = true
	s.writes = append(s.writes, offset)

	return nil
}

// Writes история всех записей, нужна в тестах для проверки порядка.
func (s *OffsetStorage) Writes() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	writes := make([]int64, len(s.writes))
	copy(writes, s.writes)

	return writes
}
