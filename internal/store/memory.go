package store

import (
	"context"
	"fmt"
	"sync"

	"gardenmap/internal/model"
)

// MemoryStore keeps plants in insertion order for the life of the process.
type MemoryStore struct {
	mu     sync.RWMutex
	plants []model.Plant
}

func NewMemory(seed ...model.Plant) *MemoryStore {
	s := &MemoryStore{}
	for _, p := range seed {
		s.plants = append(s.plants, p.Clone())
	}
	return s
}

func (s *MemoryStore) GetAll(_ context.Context) ([]model.Plant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Plant, 0, len(s.plants))
	for _, p := range s.plants {
		out = append(out, p.Clone())
	}
	return out, nil
}

func (s *MemoryStore) Insert(_ context.Context, p model.Plant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(p.ID) >= 0 {
		return fmt.Errorf("plant already exists: %s", p.ID)
	}
	s.plants = append(s.plants, p.Clone())
	return nil
}

func (s *MemoryStore) Update(_ context.Context, p model.Plant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(p.ID)
	if i < 0 {
		return notFound(p.ID)
	}
	s.plants[i] = p.Clone()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return notFound(id)
	}
	s.plants = append(s.plants[:i], s.plants[i+1:]...)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) indexOf(id string) int {
	for i := range s.plants {
		if s.plants[i].ID == id {
			return i
		}
	}
	return -1
}
