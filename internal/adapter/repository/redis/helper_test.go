package redis

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

// newTestRedisClient spins up an in-process redis and a client against it.
// Callers own both and close them via defer.
func newTestRedisClient(t *testing.T) (*goredis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	return goredis.NewClient(&goredis.Options{Addr: mr.Addr()}), mr
}
