package ports

import "context"

// KeyValueStore is the storage seam for local and session storage. Get
// returns an error wrapping domain.ErrKeyNotFound for missing keys.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
