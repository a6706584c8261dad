//go:build integration

package redis_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/docdex/docdex"
	docdexredis "github.com/docdex/docdex/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func integrationClient(t *testing.T) *goredis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis not available at %s: %v", addr, err)
	}
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func TestSessionService_Integration_RoundTrip(t *testing.T) {
	t.Parallel()

	rdb := integrationClient(t)
	svc := docdexredis.NewSessionService(rdb)
	ctx := context.Background()

	session, err := svc.GetOrCreate(ctx, "acct-1", "ws-1", "")
	require.NoError(t, err)
	defer svc.Delete(ctx, session.ID)

	require.NoError(t, svc.AddShownResults(ctx, session.ID, []string{"doc-1", "doc-2"}))
	require.NoError(t, svc.AddQuery(ctx, session.ID, "install guide", 2))
	require.NoError(t, svc.TrackClick(ctx, session.ID, "doc-1"))

	got, err := svc.GetOrCreate(ctx, "acct-1", "ws-1", session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
	assert.Empty(t, got.FilterUnseen([]string{"doc-1", "doc-2"}))

	stats, err := svc.Stats(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalQueries)
	assert.Equal(t, 1, stats.TotalClicks)
	assert.Equal(t, 2, stats.UniqueShown)
}

func TestSessionService_Integration_TTLExpiry(t *testing.T) {
	t.Parallel()

	rdb := integrationClient(t)
	svc := docdexredis.NewSessionService(rdb, docdexredis.WithTTL(time.Second))
	ctx := context.Background()

	session, err := svc.GetOrCreate(ctx, "acct-1", "ws-1", "")
	require.NoError(t, err)

	time.Sleep(1500 * time.Millisecond)

	replacement, err := svc.GetOrCreate(ctx, "acct-1", "ws-1", session.ID)
	require.NoError(t, err)
	assert.NotEqual(t, session.ID, replacement.ID)
}

func TestSessionService_Integration_MissingSessionMutationIsNoop(t *testing.T) {
	t.Parallel()

	rdb := integrationClient(t)
	svc := docdexredis.NewSessionService(rdb)
	ctx := context.Background()

	assert.NoError(t, svc.AddShownResults(ctx, "missing-"+docdexSessionSuffix(), []string{"doc-1"}))
}

func docdexSessionSuffix() string {
	return time.Now().Format("150405.000000000")
}
