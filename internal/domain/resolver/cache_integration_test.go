//go:build integration

package resolver

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/pawpals/pawpals-api/internal/domain/relation"
)

func TestCachedResolverReadThrough(t *testing.T) {
	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	defer client.Close()

	var calls atomic.Int32
	inner := Func(func(ctx context.Context, target relation.Target) (*Descriptor, error) {
		calls.Add(1)
		return &Descriptor{Type: target.Type, ID: target.ID, Label: "Luna"}, nil
	})
	cached := NewCachedResolver(inner, client, time.Minute)
	target := relation.Target{Type: relation.TargetDog, ID: 11}

	for i := 0; i < 3; i++ {
		d, err := cached.Resolve(ctx, target)
		require.NoError(t, err)
		require.Equal(t, "Luna", d.Label)
	}
	require.Equal(t, int32(1), calls.Load())

	require.NoError(t, cached.Invalidate(ctx, target))
	_, err = cached.Resolve(ctx, target)
	require.NoError(t, err)
	require.Equal(t, int32(2), calls.Load())
}
