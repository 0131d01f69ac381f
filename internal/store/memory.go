package store

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-memory KV used by tests and throwaway sessions.
type Memory struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

var _ KV = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: map[string]map[string]string{}}
}

// Get returns the value stored under key.
func (m *Memory) Get(_ context.Context, scope, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[scope][key]
	return v, ok, nil
}

// Put inserts or replaces the value under key.
func (m *Memory) Put(_ context.Context, scope, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[scope] == nil {
		m.data[scope] = map[string]string{}
	}
	m.data[scope][key] = value
	return nil
}

// Delete removes key.
func (m *Memory) Delete(_ context.Context, scope, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data[scope], key)
	return nil
}

// Keys lists keys in scope starting with prefix, sorted.
func (m *Memory) Keys(_ context.Context, scope, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var keys []string
	for k := range m.data[scope] {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
