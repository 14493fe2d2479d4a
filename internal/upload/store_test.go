package upload

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSaveGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)

	u := New("products.csv", []byte("Handle,Title\n"))
	require.NoError(t, s.Save(ctx, u))

	got, err := s.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "products.csv", got.Name)
	assert.Equal(t, []byte("Handle,Title\n"), got.Data)

	// o chamador não altera o que está guardado
	got.Data[0] = 'X'
	again, err := s.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, byte('H'), again.Data[0])
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore(10 * time.Minute)
	s.now = func() time.Time { return now }

	u := New("a.csv", []byte("x"))
	require.NoError(t, s.Save(ctx, u))

	now = now.Add(9 * time.Minute)
	_, err := s.Get(ctx, u.ID)
	require.NoError(t, err)

	// leitura renova o prazo
	now = now.Add(9 * time.Minute)
	_, err = s.Get(ctx, u.ID)
	require.NoError(t, err)

	now = now.Add(11 * time.Minute)
	_, err = s.Get(ctx, u.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryStoreUnknownID(t *testing.T) {
	_, err := NewMemoryStore(time.Minute).Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		t.Skip("REDIS_URL não definido")
	}
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	s := &RedisStore{Client: client, TTL: time.Minute}

	u := New("products.csv", []byte("Handle\nshoe\n"))
	require.NoError(t, s.Save(ctx, u))

	got, err := s.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Data, got.Data)

	_, err = s.Get(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}
