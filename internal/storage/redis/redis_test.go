package redis

import (
	"context"
	"github.com/alicebob/miniredis/v2"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"oauthd/internal/domain/models"
	"oauthd/internal/storage"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewCacheWithClient(rdb, "test"), mr
}

func TestCache_GetAndDelete(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	require.NoError(t, c.SetWithTTL(ctx, "k", []byte("v"), time.Minute))
	assert.True(t, mr.Exists("test:k"))

	got, err := c.GetAndDelete(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
	assert.False(t, mr.Exists("test:k"))

	_, err = c.GetAndDelete(ctx, "k")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)
}

func TestCache_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	require.NoError(t, c.SetWithTTL(ctx, "k", []byte("v"), 600*time.Second))
	assert.Equal(t, 600*time.Second, mr.TTL("test:k"))

	mr.FastForward(601 * time.Second)

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)
}

func TestCache_DeleteMissingKey(t *testing.T) {
	c, _ := newTestCache(t)
	assert.NoError(t, c.Delete(context.Background(), "absent"))
}

func TestCache_ConsumeStateOnce(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	st := &models.AuthorizationState{
		State:       gofakeit.LetterN(64),
		ClientID:    gofakeit.UUID(),
		RedirectURI: gofakeit.URL(),
		UserID:      gofakeit.Int64(),
		PKCE:        models.PKCE{CodeChallenge: gofakeit.LetterN(43), Method: models.PKCEMethodS256},
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, c.SaveState(ctx, st, time.Minute))

	peeked, err := c.State(ctx, st.State)
	require.NoError(t, err)
	assert.Equal(t, st.State, peeked.State)
	assert.Equal(t, st.RedirectURI, peeked.RedirectURI)
	assert.Equal(t, st.UserID, peeked.UserID)

	consumed, err := c.ConsumeState(ctx, st.State)
	require.NoError(t, err)
	assert.True(t, consumed.CreatedAt.Equal(st.CreatedAt))
	assert.Equal(t, st.ClientID, consumed.ClientID)
	assert.Equal(t, st.PKCE, consumed.PKCE)

	_, err = c.ConsumeState(ctx, st.State)
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)
}

func TestCache_ConcurrentConsumeAuthCode(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	code := &models.AuthorizationCode{
		Code:     gofakeit.LetterN(64),
		ClientID: gofakeit.UUID(),
		UserID:   1,
	}
	require.NoError(t, c.SaveAuthCode(ctx, code, time.Minute))

	const workers = 16
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.ConsumeAuthCode(ctx, code.Code); err == nil {
				successes.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
}
