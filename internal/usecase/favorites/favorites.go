package favorites

import (
	"context"

	"poke_arena/internal/domain/pokemon"
	userDomain "poke_arena/internal/domain/user"
	errs "poke_arena/internal/errors"
)

// MaxFavorites caps the battle pool per user.
const MaxFavorites = 10

type Storage interface {
	GetUserByID(ctx context.Context, id string) (userDomain.User, bool)
	UpdateFavorites(ctx context.Context, id string, favorites []pokemon.Snapshot) error
}

type FavoritesUsecase struct {
	storage Storage
}

func NewFavoritesUsecase(storage Storage) *FavoritesUsecase {
	return &FavoritesUsecase{storage: storage}
}

func (f *FavoritesUsecase) List(ctx context.Context, userID string) ([]pokemon.Snapshot, error) {
	u, ok := f.storage.GetUserByID(ctx, userID)
	if !ok {
		return nil, errs.ErrUserNotFound
	}
	if u.Favorites == nil {
		return []pokemon.Snapshot{}, nil
	}
	return u.Favorites, nil
}

// Add appends a snapshot to the user's favorites. Adding a pokemon that is
// already present succeeds without change; the 11th distinct pokemon is
// rejected.
func (f *FavoritesUsecase) Add(ctx context.Context, userID string, snap pokemon.Snapshot) ([]pokemon.Snapshot, error) {
	if snap.ID == 0 || snap.Name == "" || snap.Image == "" {
		return nil, errs.ErrMissingFavoriteData
	}

	u, ok := f.storage.GetUserByID(ctx, userID)
	if !ok {
		return nil, errs.ErrUserNotFound
	}

	for _, fav := range u.Favorites {
		if fav.ID == snap.ID {
			return u.Favorites, nil
		}
	}

	if len(u.Favorites) >= MaxFavorites {
		return nil, errs.ErrFavoritesFull
	}

	updated := append(u.Favorites, snap)
	if err := f.storage.UpdateFavorites(ctx, userID, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (f *FavoritesUsecase) Remove(ctx context.Context, userID string, snapID int) ([]pokemon.Snapshot, error) {
	if snapID == 0 {
		return nil, errs.ErrMissingFavoriteData
	}

	u, ok := f.storage.GetUserByID(ctx, userID)
	if !ok {
		return nil, errs.ErrUserNotFound
	}

	updated := make([]pokemon.Snapshot, 0, len(u.Favorites))
	for _, fav := range u.Favorites {
		if fav.ID != snapID {
			updated = append(updated, fav)
		}
	}
	if err := f.storage.UpdateFavorites(ctx, userID, updated); err != nil {
		return nil, err
	}
	return updated, nil
}
