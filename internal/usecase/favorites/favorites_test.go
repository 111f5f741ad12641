package favorites

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"poke_arena/internal/domain/pokemon"
	userDomain "poke_arena/internal/domain/user"
	errs "poke_arena/internal/errors"
	repo "poke_arena/internal/repository"
)

func snapshot(id int, name string) pokemon.Snapshot {
	return pokemon.Snapshot{
		ID:    id,
		Name:  name,
		Image: "https://img.example/" + name + ".png",
		Stats: pokemon.Stats{HP: 50, Attack: 50, Defense: 50, Speed: 50},
	}
}

func newTestUsecase(t *testing.T) (*FavoritesUsecase, *repo.UserMapStorage) {
	t.Helper()
	users := repo.NewMapUserStorage()
	users.Put(userDomain.User{ID: "u1", Email: "ash@poke.io", Favorites: []pokemon.Snapshot{}})
	return NewFavoritesUsecase(users), users
}

func TestAddAndList(t *testing.T) {
	uc, _ := newTestUsecase(t)
	ctx := context.Background()

	got, err := uc.Add(ctx, "u1", snapshot(25, "pikachu"))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(got) != 1 || got[0].Name != "pikachu" {
		t.Errorf("Add returned %+v, want one pikachu", got)
	}

	listed, err := uc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listed) != 1 {
		t.Errorf("List returned %d favorites, want 1", len(listed))
	}
}

func TestAddDuplicateIsNoOp(t *testing.T) {
	uc, _ := newTestUsecase(t)
	ctx := context.Background()

	if _, err := uc.Add(ctx, "u1", snapshot(25, "pikachu")); err != nil {
		t.Fatalf("first Add: %v", err)
	}
	got, err := uc.Add(ctx, "u1", snapshot(25, "pikachu"))
	if err != nil {
		t.Fatalf("duplicate Add: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("duplicate Add grew favorites to %d, want 1", len(got))
	}
}

func TestAddCap(t *testing.T) {
	uc, _ := newTestUsecase(t)
	ctx := context.Background()

	for i := 1; i <= MaxFavorites; i++ {
		if _, err := uc.Add(ctx, "u1", snapshot(i, fmt.Sprintf("poke%d", i))); err != nil {
			t.Fatalf("Add #%d: %v", i, err)
		}
	}
	if _, err := uc.Add(ctx, "u1", snapshot(11, "mewtwo")); !errors.Is(err, errs.ErrFavoritesFull) {
		t.Fatalf("11th Add: got %v, want ErrFavoritesFull", err)
	}

	// Re-adding an existing one still succeeds at the cap.
	got, err := uc.Add(ctx, "u1", snapshot(1, "poke1"))
	if err != nil {
		t.Fatalf("re-Add at cap: %v", err)
	}
	if len(got) != MaxFavorites {
		t.Errorf("favorites = %d after re-add at cap, want %d", len(got), MaxFavorites)
	}
}

func TestAddMissingData(t *testing.T) {
	uc, _ := newTestUsecase(t)
	ctx := context.Background()

	cases := []pokemon.Snapshot{
		{Name: "pikachu", Image: "x.png"},
		{ID: 25, Image: "x.png"},
		{ID: 25, Name: "pikachu"},
	}
	for i, snap := range cases {
		if _, err := uc.Add(ctx, "u1", snap); !errors.Is(err, errs.ErrMissingFavoriteData) {
			t.Errorf("case %d: got %v, want ErrMissingFavoriteData", i, err)
		}
	}
}

func TestRemove(t *testing.T) {
	uc, _ := newTestUsecase(t)
	ctx := context.Background()

	if _, err := uc.Add(ctx, "u1", snapshot(25, "pikachu")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := uc.Add(ctx, "u1", snapshot(6, "charizard")); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := uc.Remove(ctx, "u1", 25)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(got) != 1 || got[0].ID != 6 {
		t.Errorf("Remove left %+v, want only charizard", got)
	}

	// Removing an absent id leaves the list unchanged.
	got, err = uc.Remove(ctx, "u1", 999)
	if err != nil {
		t.Fatalf("Remove absent: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("Remove of absent id changed list to %d entries", len(got))
	}
}

func TestUnknownUser(t *testing.T) {
	uc, _ := newTestUsecase(t)
	ctx := context.Background()

	if _, err := uc.List(ctx, "ghost"); !errors.Is(err, errs.ErrUserNotFound) {
		t.Errorf("List: got %v, want ErrUserNotFound", err)
	}
	if _, err := uc.Add(ctx, "ghost", snapshot(25, "pikachu")); !errors.Is(err, errs.ErrUserNotFound) {
		t.Errorf("Add: got %v, want ErrUserNotFound", err)
	}
}
