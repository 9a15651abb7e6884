package search_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"rezzai/jobsearch/internal/model"
	"rezzai/jobsearch/internal/search"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

var _ search.Cache = (*search.RedisCache)(nil)

func TestRedisCache_MissSetHit(t *testing.T) {
	mr, rdb := newRedis(t)
	c := search.NewRedisCache(rdb, 10*time.Minute)
	ctx := context.Background()

	jobs, ok, err := c.Get(ctx, "jobsearch:page:us:austin::1:20")
	if err != nil || ok || jobs != nil {
		t.Fatalf("miss: jobs=%v ok=%v err=%v", jobs, ok, err)
	}

	want := []model.Job{{ID: "1", Title: "Go Developer", Location: "Austin, TX"}, {ID: "2", Title: "SRE"}}
	if err := c.Set(ctx, "jobsearch:page:us:austin::1:20", want); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if ttl := mr.TTL("jobsearch:page:us:austin::1:20"); ttl != 10*time.Minute {
		t.Errorf("ttl = %v, want 10m", ttl)
	}

	got, ok, err := c.Get(ctx, "jobsearch:page:us:austin::1:20")
	if err != nil || !ok {
		t.Fatalf("hit: ok=%v err=%v", ok, err)
	}
	if len(got) != 2 || got[0].Title != "Go Developer" || got[1].ID != "2" {
		t.Errorf("got %+v", got)
	}
}

func TestRedisCache_Expires(t *testing.T) {
	mr, rdb := newRedis(t)
	c := search.NewRedisCache(rdb, time.Minute)
	ctx := context.Background()

	if err := c.Set(ctx, "k", []model.Job{{ID: "1"}}); err != nil {
		t.Fatal(err)
	}
	mr.FastForward(time.Minute + time.Second)

	if _, ok, err := c.Get(ctx, "k"); err != nil || ok {
		t.Errorf("after expiry: ok=%v err=%v, want miss", ok, err)
	}
}

func TestRedisCache_Errors(t *testing.T) {
	mr, rdb := newRedis(t)
	c := search.NewRedisCache(rdb, time.Minute)
	ctx := context.Background()

	if err := mr.Set("bad", "not json"); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := c.Get(ctx, "bad"); err == nil || ok {
		t.Errorf("corrupt entry: ok=%v err=%v, want decode error", ok, err)
	}

	mr.Close()
	if _, _, err := c.Get(ctx, "k"); err == nil {
		t.Error("Get on a closed server returned nil error")
	}
	if err := c.Set(ctx, "k", nil); err == nil {
		t.Error("Set on a closed server returned nil error")
	}
}
