package repository

import (
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
)

func newTestRedisClient(t *testing.T) (*redislib.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

// stores returns one fresh instance of every KVStore runnable in-process.
func stores(t *testing.T) map[string]KVStore {
	t.Helper()

	client, _ := newTestRedisClient(t)
	return map[string]KVStore{
		"memory": NewMemoryStore(),
		"redis":  NewRedisStore(client, "test:"),
	}
}
