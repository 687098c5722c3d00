package cache

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Cache stores rendered documents by key. Misses and backend failures both
// report ok=false; callers recompute.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte) error
}

// Key hashes the JSON form of v under a kind prefix, e.g. "xml:9f3c...".
func Key(kind string, v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return kind + ":" + strconv.FormatUint(xxhash.Sum64(b), 16), nil
}
