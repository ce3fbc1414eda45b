package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, redismock.ClientMock) {
	t.Helper()
	client, mock := redismock.NewClientMock()
	logger := zerolog.Nop()
	return New(client, time.Minute, &logger), mock
}

func TestKey(t *testing.T) {
	assert.Equal(t, "animedb:genres", Key("genres"))
	assert.Equal(t, "animedb:top:10:2", Key("top", 10, 2))
}

func TestRememberMissLoadsAndStores(t *testing.T) {
	c, mock := newTestCache(t)
	want := []string{"Action", "Drama"}
	payload, err := json.Marshal(want)
	require.NoError(t, err)

	mock.ExpectGet("animedb:genres").RedisNil()
	mock.ExpectSet("animedb:genres", payload, time.Minute).SetVal("OK")

	calls := 0
	got, err := Remember(context.Background(), c, "animedb:genres", func(context.Context) ([]string, error) {
		calls++
		return want, nil
	})
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 1, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRememberHitSkipsLoad(t *testing.T) {
	c, mock := newTestCache(t)
	mock.ExpectGet("animedb:genres").SetVal(`["Action"]`)

	got, err := Remember(context.Background(), c, "animedb:genres", func(context.Context) ([]string, error) {
		t.Fatal("load must not be called on a hit")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Action"}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRememberLoadErrorIsNotCached(t *testing.T) {
	c, mock := newTestCache(t)
	mock.ExpectGet("animedb:genres").RedisNil()

	boom := errors.New("boom")
	_, err := Remember(context.Background(), c, "animedb:genres", func(context.Context) ([]string, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRememberRedisDownFallsBack(t *testing.T) {
	c, mock := newTestCache(t)
	mock.ExpectGet("animedb:genres").SetErr(errors.New("connection refused"))
	mock.ExpectSet("animedb:genres", []byte(`["Action"]`), time.Minute).SetErr(errors.New("connection refused"))

	got, err := Remember(context.Background(), c, "animedb:genres", func(context.Context) ([]string, error) {
		return []string{"Action"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Action"}, got)
}

func TestRememberNilCache(t *testing.T) {
	got, err := Remember(context.Background(), nil, "k", func(context.Context) (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}
