//go:build integration

package redisad_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	redisad "review_analyzer/internal/adapters/redis"
)

func TestCache_RealRedis(t *testing.T) {
	// Start isolated redis; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7-alpine",
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run redis: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	addr := fmt.Sprintf("127.0.0.1:%s", resource.GetPort("6379/tcp"))
	c := redisad.New(addr, "", 0)
	t.Cleanup(func() { _ = c.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := pool.Retry(func() error { return c.Ping(ctx) }); err != nil {
		t.Fatalf("connect redis: %v", err)
	}

	if err := c.Set(ctx, "reviews:it", map[string]int{"n": 3}, 30); err != nil {
		t.Fatalf("Set: %v", err)
	}
	var out map[string]int
	ok, err := c.Get(ctx, "reviews:it", &out)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if out["n"] != 3 {
		t.Fatalf("unexpected value: %+v", out)
	}
}
