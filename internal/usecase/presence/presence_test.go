package presence

import (
	"context"
	"testing"

	userDomain "poke_arena/internal/domain/user"
	repo "poke_arena/internal/repository"
)

func newTestUsecase() (*PresenceUsecase, *repo.UserMapStorage) {
	users := repo.NewMapUserStorage()
	return NewPresenceUsecase(repo.NewMapPresenceStorage(), users), users
}

func TestHeartbeatAndOnlineUsers(t *testing.T) {
	uc, users := newTestUsecase()
	ctx := context.Background()

	users.Put(userDomain.User{ID: "u1", FirstName: "Ash", Email: "ash@poke.io"})
	users.Put(userDomain.User{ID: "u2", FirstName: "Gary", Email: "gary@poke.io"})

	if err := uc.Heartbeat(ctx, "u1"); err != nil {
		t.Fatalf("Heartbeat: %v", err)
	}
	if err := uc.Heartbeat(ctx, "u2"); err != nil {
		t.Fatalf("Heartbeat: %v", err)
	}

	online, err := uc.OnlineUsers(ctx, "u1")
	if err != nil {
		t.Fatalf("OnlineUsers: %v", err)
	}
	if len(online) != 1 || online[0].ID != "u2" {
		t.Errorf("OnlineUsers excluding u1 = %+v, want only u2", online)
	}

	u, _ := users.GetUserByID(ctx, "u1")
	if !u.Online || u.LastSeen == 0 {
		t.Error("heartbeat did not persist online/last-seen")
	}
}

func TestOffline(t *testing.T) {
	uc, users := newTestUsecase()
	ctx := context.Background()

	users.Put(userDomain.User{ID: "u1", Email: "ash@poke.io"})
	if err := uc.Heartbeat(ctx, "u1"); err != nil {
		t.Fatalf("Heartbeat: %v", err)
	}
	if err := uc.Offline(ctx, "u1"); err != nil {
		t.Fatalf("Offline: %v", err)
	}

	online, err := uc.OnlineUsers(ctx, "")
	if err != nil {
		t.Fatalf("OnlineUsers: %v", err)
	}
	if len(online) != 0 {
		t.Errorf("OnlineUsers after Offline = %+v, want empty", online)
	}
	u, _ := users.GetUserByID(ctx, "u1")
	if u.Online {
		t.Error("user still marked online after Offline")
	}
}

// A presence member whose user record was deleted is skipped, not errored.
func TestOnlineUsersSkipsDeleted(t *testing.T) {
	uc, users := newTestUsecase()
	ctx := context.Background()

	users.Put(userDomain.User{ID: "u1", Email: "ash@poke.io"})
	if err := uc.Heartbeat(ctx, "u1"); err != nil {
		t.Fatalf("Heartbeat: %v", err)
	}
	if err := users.DeleteUser(ctx, "u1"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	online, err := uc.OnlineUsers(ctx, "")
	if err != nil {
		t.Fatalf("OnlineUsers: %v", err)
	}
	if len(online) != 0 {
		t.Errorf("OnlineUsers = %+v, want empty after user deletion", online)
	}
}

func TestCleanup(t *testing.T) {
	uc, users := newTestUsecase()
	ctx := context.Background()

	users.Put(userDomain.User{ID: "u1", Email: "ash@poke.io"})
	users.Put(userDomain.User{ID: "u2", Email: "gary@poke.io"})
	for _, id := range []string{"u1", "u2"} {
		if err := uc.Heartbeat(ctx, id); err != nil {
			t.Fatalf("Heartbeat %s: %v", id, err)
		}
	}

	if err := uc.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}

	online, err := uc.OnlineUsers(ctx, "")
	if err != nil {
		t.Fatalf("OnlineUsers: %v", err)
	}
	if len(online) != 0 {
		t.Errorf("OnlineUsers after Cleanup = %+v, want empty", online)
	}
	for _, id := range []string{"u1", "u2"} {
		u, _ := users.GetUserByID(ctx, id)
		if u.Online {
			t.Errorf("user %s still online after Cleanup", id)
		}
	}
}
