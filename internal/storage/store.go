package storage

import (
	"context"
	"errors"
)

// Collection keys. Each key holds one whole JSON document; every mutation
// reads the full collection, changes it in memory and writes it back.
const (
	KeyUsers       = "users"
	KeyProducts    = "products"
	KeyOrders      = "orders"
	KeyCart        = "cart"
	KeyCurrentUser = "currentUser"
)

var ErrNotFound = errors.New("storage: key not found")

// Store is the shared key-value medium behind every collection.
// There is no merge semantics and no cross-writer synchronization:
// concurrent writers race and the last save wins.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	// SaveAll writes several collections in one batch. Implementations
	// make the batch atomic where the medium allows it.
	SaveAll(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, key string) error
}
