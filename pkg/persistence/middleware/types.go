package middleware

import (
	"context"
	"errors"

	"github.com/healthcalc/calcchain/pkg/ports"
)

// ErrListUnsupported is returned by List when the wrapped store cannot enumerate keys.
var ErrListUnsupported = errors.New("store does not support listing")

// Middleware allows wrapping a KeyValueStore to add behavior.
type Middleware func(ports.KeyValueStore) ports.KeyValueStore

// Apply wraps store with mws. The first middleware is the outermost layer.
func Apply(store ports.KeyValueStore, mws ...Middleware) ports.KeyValueStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}

func list(ctx context.Context, next ports.KeyValueStore) ([]string, error) {
	l, ok := next.(ports.Lister)
	if !ok {
		return nil, ErrListUnsupported
	}
	return l.List(ctx)
}
