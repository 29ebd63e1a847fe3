package session

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func TestCreateGetDelete(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	store := NewStore(client, time.Minute)
	sid, pid := uuid.NewString(), uuid.NewString()

	created, err := store.Create(ctx, sid, pid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ExpiresAt-created.IssuedAt != 60 {
		t.Errorf("expected 60s lifetime, got %d", created.ExpiresAt-created.IssuedAt)
	}

	got, err := store.Get(ctx, sid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ProfileID != pid || got.ID != sid {
		t.Errorf("unexpected session %+v", got)
	}

	if err := store.Delete(ctx, sid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.Get(ctx, sid); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestRevokeAllForProfile(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	store := NewStore(client, time.Minute)
	pid := uuid.NewString()
	ids := []string{uuid.NewString(), uuid.NewString(), uuid.NewString()}
	for _, id := range ids {
		if _, err := store.Create(ctx, id, pid); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if err := store.RevokeAllForProfile(ctx, pid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, id := range ids {
		if _, err := store.Get(ctx, id); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("session %s survived revoke: %v", id, err)
		}
	}
	if n, _ := client.Exists(ctx, profileSetKey(pid)).Result(); n != 0 {
		t.Error("profile session set should be gone")
	}
}
