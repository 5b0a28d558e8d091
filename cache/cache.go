package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrCacheMiss is returned by Client.Get when the key is absent. Absence
// never means "does not exist", only "fetch from the store".
var ErrCacheMiss = errors.New("cache miss")

// Client is the raw cache transport. The Accessor built on top of it owns
// the read-through/write-through policy.
type Client interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

func CartKey(userID string) string { return fmt.Sprintf("cart:%s", userID) }
func DiscKey(discID string) string { return fmt.Sprintf("disc:%s", discID) }

// DiscListKey caches the full catalog listing.
const DiscListKey = "discs:all"
