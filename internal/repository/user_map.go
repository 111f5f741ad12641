package repo

import (
	"context"
	"sort"
	"time"

	"poke_arena/internal/domain/battle"
	"poke_arena/internal/domain/pokemon"
	"poke_arena/internal/domain/user"
	errs "poke_arena/internal/errors"
)

// Map-backed storages implementing the same interfaces as the Mongo/Redis
// ones. Used by tests and by local runs without databases.

type UserMapStorage struct {
	users        map[string]user.User
	lastResetDay string
}

func NewMapUserStorage() *UserMapStorage {
	return &UserMapStorage{users: make(map[string]user.User)}
}

// Put seeds or overwrites a user directly, bypassing validation.
func (u *UserMapStorage) Put(usr user.User) {
	u.users[usr.ID] = usr
}

func (u *UserMapStorage) GetUserByEmail(_ context.Context, email string) (user.User, bool) {
	for _, v := range u.users {
		if v.Email == email {
			return v, true
		}
	}
	return user.User{}, false
}

func (u *UserMapStorage) GetUserByID(_ context.Context, id string) (user.User, bool) {
	v, ok := u.users[id]
	return v, ok
}

func (u *UserMapStorage) CreateUser(ctx context.Context, newUser user.User) error {
	if _, found := u.GetUserByEmail(ctx, newUser.Email); found {
		return errs.ErrEmailTaken
	}
	u.users[newUser.ID] = newUser
	return nil
}

func (u *UserMapStorage) ListUsers(_ context.Context) ([]user.User, error) {
	out := make([]user.User, 0, len(u.users))
	for _, v := range u.users {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (u *UserMapStorage) DeleteUser(_ context.Context, id string) error {
	if _, ok := u.users[id]; !ok {
		return errs.ErrUserNotFound
	}
	delete(u.users, id)
	return nil
}

func (u *UserMapStorage) UpdateFavorites(_ context.Context, id string, favorites []pokemon.Snapshot) error {
	usr, ok := u.users[id]
	if !ok {
		return errs.ErrUserNotFound
	}
	usr.Favorites = favorites
	u.users[id] = usr
	return nil
}

func (u *UserMapStorage) SetOnline(_ context.Context, id string, online bool, lastSeen int64) error {
	usr, ok := u.users[id]
	if !ok {
		return errs.ErrUserNotFound
	}
	usr.Online = online
	usr.LastSeen = lastSeen
	u.users[id] = usr
	return nil
}

func (u *UserMapStorage) SetAllOffline(_ context.Context) error {
	for id, usr := range u.users {
		usr.Online = false
		u.users[id] = usr
	}
	return nil
}

func (u *UserMapStorage) IncrementDailyBattles(_ context.Context, id string) error {
	usr, ok := u.users[id]
	if !ok {
		return errs.ErrUserNotFound
	}
	usr.DailyBattles++
	u.users[id] = usr
	return nil
}

func (u *UserMapStorage) ResetAllDailyBattles(_ context.Context) (int64, error) {
	var n int64
	for id, usr := range u.users {
		if usr.DailyBattles > 0 {
			usr.DailyBattles = 0
			u.users[id] = usr
			n++
		}
	}
	return n, nil
}

func (u *UserMapStorage) LastResetDay(_ context.Context) (string, error) {
	return u.lastResetDay, nil
}

func (u *UserMapStorage) SetLastResetDay(_ context.Context, day string) error {
	u.lastResetDay = day
	return nil
}

type SessionMapStorage struct {
	sessions map[string]string
}

func NewSessionMapStorage() *SessionMapStorage {
	return &SessionMapStorage{sessions: make(map[string]string)}
}

func (s *SessionMapStorage) StoreSession(_ context.Context, sessionID, userID string) error {
	s.sessions[sessionID] = userID
	return nil
}

func (s *SessionMapStorage) GetUserIDBySession(_ context.Context, sessionID string) (string, bool) {
	v, ok := s.sessions[sessionID]
	return v, ok
}

func (s *SessionMapStorage) DeleteSession(_ context.Context, sessionID string) bool {
	if _, ok := s.sessions[sessionID]; !ok {
		return false
	}
	delete(s.sessions, sessionID)
	return true
}

type BattleMapStorage struct {
	battles []battle.Record
	history []battle.HistoryEntry
}

func NewMapBattleStorage() *BattleMapStorage {
	return &BattleMapStorage{}
}

func (b *BattleMapStorage) AppendBattle(_ context.Context, record battle.Record) error {
	b.battles = append(b.battles, record)
	return nil
}

func (b *BattleMapStorage) ListBattles(_ context.Context) ([]battle.Record, error) {
	out := make([]battle.Record, len(b.battles))
	copy(out, b.battles)
	return out, nil
}

func (b *BattleMapStorage) AppendHistory(_ context.Context, entry battle.HistoryEntry) error {
	b.history = append(b.history, entry)
	return nil
}

func (b *BattleMapStorage) ListHistoryForUser(_ context.Context, userID, email string) ([]battle.HistoryEntry, error) {
	out := make([]battle.HistoryEntry, 0)
	for _, e := range b.history {
		if e.PlayerID == userID || e.PlayerEmail == email {
			out = append(out, e)
		}
	}
	return out, nil
}

type PresenceMapStorage struct {
	seen map[string]time.Time
}

func NewMapPresenceStorage() *PresenceMapStorage {
	return &PresenceMapStorage{seen: make(map[string]time.Time)}
}

func (p *PresenceMapStorage) MarkOnline(_ context.Context, userID string, seenAt time.Time) error {
	p.seen[userID] = seenAt
	return nil
}

func (p *PresenceMapStorage) MarkOffline(_ context.Context, userID string) error {
	delete(p.seen, userID)
	return nil
}

func (p *PresenceMapStorage) OnlineSince(_ context.Context, horizon time.Time) ([]string, error) {
	out := make([]string, 0)
	for id, t := range p.seen {
		if t.Before(horizon) {
			delete(p.seen, id)
			continue
		}
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (p *PresenceMapStorage) Clear(_ context.Context) error {
	p.seen = make(map[string]time.Time)
	return nil
}
