package session

import (
	"context"
	"testing"
	"time"

	"github.com/abdelmounim-dev/authcache/store"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) (*miniredis.Miniredis, *Registry) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	kv := store.New(client, 5*time.Second)
	return mr, NewRegistry(kv, 24*time.Hour)
}

func TestSessionLifecycle(t *testing.T) {
	_, reg := newTestRegistry(t)
	ctx := context.Background()

	require.True(t, reg.Create(ctx, "s1", 42, map[string]string{"ip": "10.0.0.1"}, time.Hour))

	sess, ok := reg.Get(ctx, "s1")
	require.True(t, ok)
	assert.Equal(t, int64(42), sess.UserID)
	assert.Equal(t, "s1", sess.SessionID)
	assert.Equal(t, "10.0.0.1", sess.Data["ip"])
	assert.False(t, sess.CreatedAt.IsZero())

	require.Equal(t, 1, reg.DeleteAllForUser(ctx, 42))

	_, ok = reg.Get(ctx, "s1")
	assert.False(t, ok, "session must be gone after user-wide delete")
}

func TestCreateUpdatesIndex(t *testing.T) {
	_, reg := newTestRegistry(t)
	ctx := context.Background()

	require.True(t, reg.Create(ctx, "s1", 7, nil, time.Hour))
	require.True(t, reg.Create(ctx, "s2", 7, nil, time.Hour))

	assert.ElementsMatch(t, []string{"s1", "s2"}, reg.UserSessionIDs(ctx, 7))
}

func TestDeleteRemovesFromIndex(t *testing.T) {
	_, reg := newTestRegistry(t)
	ctx := context.Background()

	require.True(t, reg.Create(ctx, "s1", 7, nil, time.Hour))
	require.True(t, reg.Create(ctx, "s2", 7, nil, time.Hour))

	assert.True(t, reg.Delete(ctx, "s1"))
	assert.ElementsMatch(t, []string{"s2"}, reg.UserSessionIDs(ctx, 7))

	_, ok := reg.Get(ctx, "s1")
	assert.False(t, ok)
}

func TestDeleteExpiredSessionLeavesIndexAlone(t *testing.T) {
	mr, reg := newTestRegistry(t)
	ctx := context.Background()

	require.True(t, reg.Create(ctx, "s1", 7, nil, time.Minute))
	require.True(t, reg.Create(ctx, "s2", 7, nil, time.Hour))

	// s1's entry expires; the index (refreshed to s2's horizon) still lists it.
	mr.FastForward(2 * time.Minute)

	assert.False(t, reg.Delete(ctx, "s1"), "entry already gone, nothing to delete")
	assert.ElementsMatch(t, []string{"s1", "s2"}, reg.UserSessionIDs(ctx, 7),
		"index cannot be cleaned without the entry's user_id and is left as-is")
}

func TestIndexMissReadsAsEmpty(t *testing.T) {
	_, reg := newTestRegistry(t)

	assert.Empty(t, reg.UserSessionIDs(context.Background(), 999))
	assert.Equal(t, 0, reg.DeleteAllForUser(context.Background(), 999))
}

func TestSessionExpiresWithTTL(t *testing.T) {
	mr, reg := newTestRegistry(t)
	ctx := context.Background()

	require.True(t, reg.Create(ctx, "s1", 7, nil, time.Hour))

	mr.FastForward(2 * time.Hour)

	_, ok := reg.Get(ctx, "s1")
	assert.False(t, ok)
	assert.Empty(t, reg.UserSessionIDs(ctx, 7), "index shares the session's TTL horizon")
}

func TestRefreshTTLExtendsSessionAndIndex(t *testing.T) {
	mr, reg := newTestRegistry(t)
	ctx := context.Background()

	require.True(t, reg.Create(ctx, "s1", 7, nil, time.Hour))
	require.True(t, reg.RefreshTTL(ctx, "s1", 3*time.Hour))

	assert.Equal(t, 3*time.Hour, mr.TTL("session:s1"))
	assert.Equal(t, 3*time.Hour, mr.TTL("user_sessions:7"))
}

func TestDefaultTTLApplied(t *testing.T) {
	mr, reg := newTestRegistry(t)

	require.True(t, reg.Create(context.Background(), "s1", 7, nil, 0))
	assert.Equal(t, 24*time.Hour, mr.TTL("session:s1"))
}

func TestFailOpenOnStoreError(t *testing.T) {
	mr, reg := newTestRegistry(t)
	ctx := context.Background()

	require.True(t, reg.Create(ctx, "s1", 7, nil, time.Hour))

	mr.SetError("connection lost")

	assert.False(t, reg.Create(ctx, "s2", 7, nil, time.Hour))

	_, ok := reg.Get(ctx, "s1")
	assert.False(t, ok, "store error reads as a miss")

	assert.False(t, reg.Delete(ctx, "s1"))
	assert.Equal(t, 0, reg.DeleteAllForUser(ctx, 7))
	assert.Empty(t, reg.UserSessionIDs(ctx, 7))
}
