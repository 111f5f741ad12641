package presence

import (
	"context"
	"time"

	userDomain "poke_arena/internal/domain/user"
)

// OnlineWindow is how long a user stays "online" without a heartbeat.
const OnlineWindow = 5 * time.Minute

type Store interface {
	MarkOnline(ctx context.Context, userID string, seenAt time.Time) error
	MarkOffline(ctx context.Context, userID string) error
	OnlineSince(ctx context.Context, horizon time.Time) ([]string, error)
	Clear(ctx context.Context) error
}

type UserStore interface {
	GetUserByID(ctx context.Context, id string) (userDomain.User, bool)
	SetOnline(ctx context.Context, id string, online bool, lastSeen int64) error
	SetAllOffline(ctx context.Context) error
}

type PresenceUsecase struct {
	store Store
	users UserStore
}

func NewPresenceUsecase(store Store, users UserStore) *PresenceUsecase {
	return &PresenceUsecase{store: store, users: users}
}

// Heartbeat refreshes both the presence set and the user's persisted
// online/last-seen fields.
func (p *PresenceUsecase) Heartbeat(ctx context.Context, userID string) error {
	now := time.Now()
	if err := p.store.MarkOnline(ctx, userID, now); err != nil {
		return err
	}
	return p.users.SetOnline(ctx, userID, true, now.UnixMilli())
}

func (p *PresenceUsecase) Offline(ctx context.Context, userID string) error {
	if err := p.store.MarkOffline(ctx, userID); err != nil {
		return err
	}
	return p.users.SetOnline(ctx, userID, false, time.Now().UnixMilli())
}

// OnlineUsers lists everyone seen inside the window, except the caller.
// Reading prunes stale members as a side effect.
func (p *PresenceUsecase) OnlineUsers(ctx context.Context, excludeID string) ([]userDomain.Public, error) {
	ids, err := p.store.OnlineSince(ctx, time.Now().Add(-OnlineWindow))
	if err != nil {
		return nil, err
	}

	online := make([]userDomain.Public, 0, len(ids))
	for _, id := range ids {
		if id == excludeID {
			continue
		}
		u, ok := p.users.GetUserByID(ctx, id)
		if !ok {
			continue
		}
		online = append(online, u.Public())
	}
	return online, nil
}

// Cleanup forces everyone offline. Dev convenience endpoint.
func (p *PresenceUsecase) Cleanup(ctx context.Context) error {
	if err := p.store.Clear(ctx); err != nil {
		return err
	}
	return p.users.SetAllOffline(ctx)
}
