package domain

import "errors"

// ErrKeyNotFound is returned by key-value stores when a key holds no record.
var ErrKeyNotFound = errors.New("key not found")

// ErrChainNotFound is returned when a chain ID does not resolve to a configured chain.
var ErrChainNotFound = errors.New("chain not found")

// ErrInvalidChain is returned when a chain definition fails validation.
var ErrInvalidChain = errors.New("invalid chain")

// ErrCorruptState is returned when a persisted chain state cannot be trusted.
var ErrCorruptState = errors.New("corrupt chain state")
