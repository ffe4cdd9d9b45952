package centers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheSharedLoadSurvivesCancelledCaller(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := NewCache(client, time.Minute)

	var once sync.Once
	started := make(chan struct{})
	release := make(chan struct{})
	loader := func(ctx context.Context) (any, error) {
		once.Do(func() { close(started) })
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return []string{"nile"}, nil
	}

	leaving, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		var dest []string
		firstErr <- cache.FetchJSON(leaving, "list", &dest, loader)
	}()
	<-started

	secondErr := make(chan error, 1)
	var second []string
	go func() {
		secondErr <- cache.FetchJSON(context.Background(), "list", &second, loader)
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()
	close(release)

	require.NoError(t, <-secondErr)
	assert.Equal(t, []string{"nile"}, second)
	assert.NoError(t, <-firstErr)
}
