package repo

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestSessionStorage(t *testing.T) {
	storage := NewRedisSessionStorage(newTestRedis(t))
	ctx := context.Background()

	if err := storage.StoreSession(ctx, "abc123", "u1"); err != nil {
		t.Fatalf("StoreSession: %v", err)
	}

	userID, ok := storage.GetUserIDBySession(ctx, "abc123")
	if !ok || userID != "u1" {
		t.Errorf("GetUserIDBySession = %q/%v, want u1/true", userID, ok)
	}

	if _, ok := storage.GetUserIDBySession(ctx, "missing"); ok {
		t.Error("unknown session resolved")
	}

	if !storage.DeleteSession(ctx, "abc123") {
		t.Error("DeleteSession of a live session returned false")
	}
	if storage.DeleteSession(ctx, "abc123") {
		t.Error("DeleteSession of a deleted session returned true")
	}
	if _, ok := storage.GetUserIDBySession(ctx, "abc123"); ok {
		t.Error("deleted session still resolves")
	}
}

func TestPresenceStorage(t *testing.T) {
	storage := NewRedisPresenceStorage(newTestRedis(t))
	ctx := context.Background()
	now := time.Now()

	if err := storage.MarkOnline(ctx, "u1", now); err != nil {
		t.Fatalf("MarkOnline: %v", err)
	}
	if err := storage.MarkOnline(ctx, "u2", now.Add(-10*time.Minute)); err != nil {
		t.Fatalf("MarkOnline: %v", err)
	}

	online, err := storage.OnlineSince(ctx, now.Add(-5*time.Minute))
	if err != nil {
		t.Fatalf("OnlineSince: %v", err)
	}
	if len(online) != 1 || online[0] != "u1" {
		t.Errorf("OnlineSince = %v, want [u1]", online)
	}

	// Stale members are pruned on read, not just filtered.
	online, err = storage.OnlineSince(ctx, now.Add(-15*time.Minute))
	if err != nil {
		t.Fatalf("OnlineSince second read: %v", err)
	}
	if len(online) != 1 {
		t.Errorf("pruned member came back: %v", online)
	}

	if err := storage.MarkOffline(ctx, "u1"); err != nil {
		t.Fatalf("MarkOffline: %v", err)
	}
	online, err = storage.OnlineSince(ctx, now.Add(-5*time.Minute))
	if err != nil {
		t.Fatalf("OnlineSince after MarkOffline: %v", err)
	}
	if len(online) != 0 {
		t.Errorf("OnlineSince after MarkOffline = %v, want empty", online)
	}
}

func TestPresenceStorageHeartbeatRefreshes(t *testing.T) {
	storage := NewRedisPresenceStorage(newTestRedis(t))
	ctx := context.Background()
	now := time.Now()

	if err := storage.MarkOnline(ctx, "u1", now.Add(-10*time.Minute)); err != nil {
		t.Fatalf("MarkOnline: %v", err)
	}
	if err := storage.MarkOnline(ctx, "u1", now); err != nil {
		t.Fatalf("MarkOnline refresh: %v", err)
	}

	online, err := storage.OnlineSince(ctx, now.Add(-5*time.Minute))
	if err != nil {
		t.Fatalf("OnlineSince: %v", err)
	}
	if len(online) != 1 || online[0] != "u1" {
		t.Errorf("refreshed member missing: %v", online)
	}
}

func TestPresenceStorageClear(t *testing.T) {
	storage := NewRedisPresenceStorage(newTestRedis(t))
	ctx := context.Background()
	now := time.Now()

	for _, id := range []string{"u1", "u2", "u3"} {
		if err := storage.MarkOnline(ctx, id, now); err != nil {
			t.Fatalf("MarkOnline %s: %v", id, err)
		}
	}
	if err := storage.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	online, err := storage.OnlineSince(ctx, now.Add(-time.Minute))
	if err != nil {
		t.Fatalf("OnlineSince: %v", err)
	}
	if len(online) != 0 {
		t.Errorf("OnlineSince after Clear = %v, want empty", online)
	}
}
