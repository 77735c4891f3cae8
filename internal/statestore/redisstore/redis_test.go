package redisstore

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pa816859-hue/shiny-octo-succotash/internal/model"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/statestore"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/statestore/statetest"
)

var (
	containerOnce sync.Once
	containerAddr string
	containerErr  error
)

// redisAddr prefers MEDIA_GALLERY_REDIS_ADDR, then a throwaway container when
// MEDIA_GALLERY_TESTCONTAINERS=1, and skips otherwise.
func redisAddr(t *testing.T) string {
	t.Helper()
	if addr := os.Getenv("MEDIA_GALLERY_REDIS_ADDR"); addr != "" {
		return addr
	}
	if os.Getenv("MEDIA_GALLERY_TESTCONTAINERS") != "1" {
		t.Skip("MEDIA_GALLERY_REDIS_ADDR not set; skipping redis state store integration test")
	}
	containerOnce.Do(func() {
		ctx := context.Background()
		c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "redis:7-alpine",
				ExposedPorts: []string{"6379/tcp"},
				WaitingFor:   wait.ForLog("Ready to accept connections"),
			},
			Started: true,
		})
		if err != nil {
			containerErr = fmt.Errorf("start redis container: %w", err)
			return
		}
		host, err := c.Host(ctx)
		if err != nil {
			containerErr = err
			return
		}
		port, err := c.MappedPort(ctx, "6379")
		if err != nil {
			containerErr = err
			return
		}
		containerAddr = fmt.Sprintf("%s:%s", host, port.Port())
	})
	if containerErr != nil {
		t.Fatalf("redis container: %v", containerErr)
	}
	return containerAddr
}

func newClient(t *testing.T) *redis.Client {
	t.Helper()
	rdb := NewClient(redisAddr(t))
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRedisStore_Compliance(t *testing.T) {
	statetest.Run(t, func(t *testing.T) statestore.Store {
		return New(newClient(t), "test-"+uuid.NewString(), model.KindPhoto)
	})
}

func TestRedisStore_SkipsForeignMembers(t *testing.T) {
	rdb := newClient(t)
	ns := "test-" + uuid.NewString()
	ctx := context.Background()
	require.NoError(t, rdb.SAdd(ctx, ns+":videos:viewed", "4", "junk", "-1").Err())

	s := New(rdb, ns, model.KindVideo)
	viewed, err := s.ViewedIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, viewed.Sorted())
	assert.NoError(t, s.HealthPing(ctx))
}
