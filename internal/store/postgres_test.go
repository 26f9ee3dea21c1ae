package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests need a reachable Postgres; set TEST_DB_URL to run them.
func testPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()

	dbURL := os.Getenv("TEST_DB_URL")
	if dbURL == "" {
		t.Skip("TEST_DB_URL not set")
	}

	ctx := context.Background()
	p, err := NewPostgresStore(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(p.Close)

	require.NoError(t, p.EnsureSchema(ctx))
	return p
}

func TestPostgresStore_PutGetExpire(t *testing.T) {
	p := testPostgresStore(t)
	ctx := context.Background()
	key := fmt.Sprintf("test-%d", time.Now().UnixNano())

	_, found, err := p.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, p.Put(ctx, key, "1", time.Minute))

	v, found, err := p.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "1", v)

	require.NoError(t, p.Put(ctx, key, "2", -time.Second))

	_, found, err = p.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found, "expired rows are invisible")

	n, err := p.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))
}
