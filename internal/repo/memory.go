package repo

import (
	"context"
	"sync"

	"github.com/sir_venger/upload_lite/internal/models"
)

// MemoryStore хранит метаданные загрузок только в оперативной памяти;
// удобно для тестов и одноузловых запусков без Postgres.
type MemoryStore struct {
	mu      sync.RWMutex
	uploads map[string]models.Upload
}

// NewMemoryStore создаёт пустое in-memory хранилище.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{uploads: map[string]models.Upload{}}
}

// Get возвращает метаданные загрузки по id или ошибку, если загрузки нет.
func (s *MemoryStore) Get(_ context.Context, id string) (models.Upload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.uploads[id]
	if !ok {
		return models.Upload{}, models.ErrNotFound
	}
	return u.Clone(), nil
}

// Save записывает (или обновляет) метаданные загрузки целиком.
func (s *MemoryStore) Save(_ context.Context, u models.Upload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.Files == nil {
		u.Files = map[string]models.StoredFile{}
	}
	s.uploads[u.ID] = u.Clone()
	return nil
}
