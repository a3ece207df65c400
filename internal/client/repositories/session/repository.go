// Package session persists the CLI login session in the local database so
// that a restarted client can reuse an unexpired access token.
package session

import "context"

// Repository is a small key-value store.
type Repository interface {
	// Get returns (nil, nil) when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
