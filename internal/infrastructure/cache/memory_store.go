package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

var _ Store = (*memoryStore)(nil)

// memoryStore es el fallback en proceso cuando Redis no está disponible.
// Replica la semántica del backend Redis (TTL, borrado por prefijo) y está
// acotado: al llegar al límite expulsa primero lo expirado y luego la entrada
// con vencimiento más próximo.
type memoryStore struct {
	mu      sync.Mutex
	maxKeys int
	items   map[string]memoryItem
}

type memoryItem struct {
	value     string
	expiresAt time.Time
}

// NewMemoryStore construye el store en memoria de forma explícita (tests,
// despliegues sin Redis).
func NewMemoryStore(maxKeys int) Store {
	return newMemoryStore(maxKeys)
}

func newMemoryStore(maxKeys int) *memoryStore {
	if maxKeys <= 0 {
		maxKeys = 4096
	}
	return &memoryStore{maxKeys: maxKeys, items: make(map[string]memoryItem)}
}

func (s *memoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[key]
	if !ok || time.Now().After(item.expiresAt) {
		delete(s.items, key)
		return "", false, nil
	}
	return item.value, true, nil
}

func (s *memoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[key]; !exists && len(s.items) >= s.maxKeys {
		s.evictLocked()
	}
	s.items[key] = memoryItem{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

// evictLocked libera espacio: primero lo expirado, si no alcanza, la entrada
// con vencimiento más próximo.
func (s *memoryStore) evictLocked() {
	now := time.Now()
	for k, it := range s.items {
		if now.After(it.expiresAt) {
			delete(s.items, k)
		}
	}
	if len(s.items) < s.maxKeys {
		return
	}
	var soonest string
	var soonestAt time.Time
	for k, it := range s.items {
		if soonest == "" || it.expiresAt.Before(soonestAt) {
			soonest, soonestAt = k, it.expiresAt
		}
	}
	if soonest != "" {
		delete(s.items, soonest)
	}
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

func (s *memoryStore) DeletePattern(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.items {
		if strings.HasPrefix(k, prefix) {
			delete(s.items, k)
		}
	}
	return nil
}

func (s *memoryStore) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	var keys []string
	for k, it := range s.items {
		if strings.HasPrefix(k, prefix) && now.Before(it.expiresAt) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}
