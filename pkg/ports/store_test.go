package ports_test

import (
	"context"
	"testing"

	"github.com/healthcalc/calcchain/pkg/domain"
	"github.com/healthcalc/calcchain/pkg/ports"
)

// MockStore is a map-backed KeyValueStore that copies values like a serializing backend would.
type MockStore struct {
	data map[string][]byte
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string][]byte),
	}
}

func (m *MockStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, domain.ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MockStore) Set(ctx context.Context, key string, value []byte) error {
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MockStore) Remove(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func TestKeyValueStore_Contract(t *testing.T) {
	// The contract must hold for the simplest possible implementation.
	ports.RunKeyValueStoreContract(t, NewMockStore())
}
