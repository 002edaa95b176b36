package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"photogrid/internal/domain"
)

// DefaultSize is the number of terms kept in memory
const DefaultSize = 128

// Memory is an in-process LRU cache with per-entry expiry
type Memory struct {
	lru *expirable.LRU[string, []domain.Photo]
}

// NewMemory creates a memory cache holding up to size terms for ttl
func NewMemory(size int, ttl time.Duration) *Memory {
	if size <= 0 {
		size = DefaultSize
	}
	return &Memory{lru: expirable.NewLRU[string, []domain.Photo](size, nil, ttl)}
}

func (m *Memory) Get(term string) ([]domain.Photo, bool) {
	photos, ok := m.lru.Get(Key(term))
	if !ok {
		return nil, false
	}
	return clonePhotos(photos), true
}

func (m *Memory) Put(term string, photos []domain.Photo) {
	m.lru.Add(Key(term), clonePhotos(photos))
}

func (m *Memory) Close() error {
	m.lru.Purge()
	return nil
}
