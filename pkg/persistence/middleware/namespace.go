package middleware

import (
	"context"
	"strings"

	"github.com/healthcalc/calcchain/pkg/ports"
)

// NamespaceSeparator joins a namespace and a key.
const NamespaceSeparator = ":"

type namespaceMiddleware struct {
	next   ports.KeyValueStore
	prefix string
}

// NewNamespaceMiddleware scopes every key under namespace, giving each session
// its own view of a shared backend.
func NewNamespaceMiddleware(namespace string) Middleware {
	return func(next ports.KeyValueStore) ports.KeyValueStore {
		return &namespaceMiddleware{next: next, prefix: namespace + NamespaceSeparator}
	}
}

func (m *namespaceMiddleware) Get(ctx context.Context, key string) ([]byte, error) {
	return m.next.Get(ctx, m.prefix+key)
}

func (m *namespaceMiddleware) Set(ctx context.Context, key string, value []byte) error {
	return m.next.Set(ctx, m.prefix+key, value)
}

func (m *namespaceMiddleware) Remove(ctx context.Context, key string) error {
	return m.next.Remove(ctx, m.prefix+key)
}

// List returns the keys inside the namespace, without the prefix.
func (m *namespaceMiddleware) List(ctx context.Context) ([]string, error) {
	all, err := list(ctx, m.next)
	if err != nil {
		return nil, err
	}
	keys := []string{}
	for _, k := range all {
		if rest, ok := strings.CutPrefix(k, m.prefix); ok {
			keys = append(keys, rest)
		}
	}
	return keys, nil
}

// NamespaceOf returns the namespace of a backend key whose inner key is inner.
// Namespaces may themselves contain the separator.
func NamespaceOf(key, inner string) (string, bool) {
	ns, ok := strings.CutSuffix(key, NamespaceSeparator+inner)
	if !ok || ns == "" {
		return "", false
	}
	return ns, true
}
