// Package metadata stores small named values in the local client database.
// The session keeps its persisted credential here.
package metadata

import (
	"context"
)

// Repository is a key/value store over the metadata table. Get on a missing
// key returns (nil, nil).
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
