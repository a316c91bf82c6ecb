package testutil

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	cbredis "github.com/ethpandaops/codebook/pkg/redis"
	"github.com/redis/go-redis/v9"
)

// NewRedis backs a dataset cache test with an in-memory server. The client is
// built the same way serve builds it, from a redis:// address.
func NewRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)

	client, err := cbredis.New(&cbredis.Config{Address: "redis://" + mr.Addr()})
	if err != nil {
		t.Fatalf("redis client for %s: %v", mr.Addr(), err)
	}

	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}
