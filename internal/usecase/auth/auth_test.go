package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	errs "poke_arena/internal/errors"
	repo "poke_arena/internal/repository"
)

func newTestUsecase() (*AuthUsecaseHandler, *repo.UserMapStorage, *repo.SessionMapStorage) {
	users := repo.NewMapUserStorage()
	sessions := repo.NewSessionMapStorage()
	return NewAuthUsecaseHandler(users, sessions), users, sessions
}

func validRegistration() RegisterRequest {
	return RegisterRequest{
		FirstName:       "Ash",
		Email:           "ash@poke.io",
		Password:        "Sup3r!pass",
		ConfirmPassword: "Sup3r!pass",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	uc, users, _ := newTestUsecase()
	ctx := context.Background()

	sessionID, err := uc.RegisterUser(ctx, validRegistration())
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if sessionID == "" {
		t.Fatal("RegisterUser returned empty session id")
	}

	created, ok := users.GetUserByEmail(ctx, "ash@poke.io")
	if !ok {
		t.Fatal("registered user not stored")
	}
	if created.PasswordHash == "Sup3r!pass" {
		t.Error("password stored in plaintext")
	}
	if created.Favorites == nil || len(created.Favorites) != 0 {
		t.Errorf("new user favorites = %v, want empty non-nil slice", created.Favorites)
	}

	loginSession, loggedIn, err := uc.LoginUser(ctx, "ash@poke.io", "Sup3r!pass")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	if loggedIn.ID != created.ID {
		t.Errorf("login returned user %s, want %s", loggedIn.ID, created.ID)
	}
	if loginSession == sessionID {
		t.Error("login reused the registration session id")
	}

	stored, ok := users.GetUserByID(ctx, created.ID)
	if !ok || !stored.Online {
		t.Error("login did not mark the user online")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	uc, _, _ := newTestUsecase()
	ctx := context.Background()

	if _, err := uc.RegisterUser(ctx, validRegistration()); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}

	if _, _, err := uc.LoginUser(ctx, "ash@poke.io", "Wr0ng!pass"); !errors.Is(err, errs.ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := uc.LoginUser(ctx, "nobody@poke.io", "Sup3r!pass"); !errors.Is(err, errs.ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	uc, _, _ := newTestUsecase()
	ctx := context.Background()

	cases := []struct {
		name    string
		mutate  func(*RegisterRequest)
		mention string
	}{
		{"empty first name", func(r *RegisterRequest) { r.FirstName = "" }, "first name"},
		{"non-letter first name", func(r *RegisterRequest) { r.FirstName = "Ash99" }, "first name"},
		{"bad email", func(r *RegisterRequest) { r.Email = "not-an-email" }, "email"},
		{"short password", func(r *RegisterRequest) { r.Password = "Ab1!"; r.ConfirmPassword = "Ab1!" }, "password"},
		{"no special char", func(r *RegisterRequest) { r.Password = "Abcdef12"; r.ConfirmPassword = "Abcdef12" }, "password"},
		{"no digit", func(r *RegisterRequest) { r.Password = "Abcdefg!"; r.ConfirmPassword = "Abcdefg!" }, "password"},
		{"mismatch", func(r *RegisterRequest) { r.ConfirmPassword = "Other3r!pass" }, "match"},
	}
	for _, tc := range cases {
		req := validRegistration()
		tc.mutate(&req)
		_, err := uc.RegisterUser(ctx, req)
		if !errors.Is(err, errs.ErrValidation) {
			t.Errorf("%s: got %v, want ErrValidation", tc.name, err)
			continue
		}
		if !strings.Contains(err.Error(), tc.mention) {
			t.Errorf("%s: message %q does not mention %q", tc.name, err.Error(), tc.mention)
		}
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	uc, _, _ := newTestUsecase()
	ctx := context.Background()

	if _, err := uc.RegisterUser(ctx, validRegistration()); err != nil {
		t.Fatalf("first RegisterUser: %v", err)
	}
	_, err := uc.RegisterUser(ctx, validRegistration())
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("duplicate email: got %v, want ErrValidation", err)
	}
	if !strings.Contains(err.Error(), "already registered") {
		t.Errorf("message %q does not mention the duplicate", err.Error())
	}
}

func TestRegisterCollectsAllProblems(t *testing.T) {
	uc, _, _ := newTestUsecase()

	req := RegisterRequest{FirstName: "1", Email: "bad", Password: "weak", ConfirmPassword: "other"}
	_, err := uc.RegisterUser(context.Background(), req)
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
	msg := err.Error()
	for _, want := range []string{"first name", "email", "password", "match"} {
		if !strings.Contains(msg, want) {
			t.Errorf("combined message %q missing %q", msg, want)
		}
	}
}

func TestSessionLifecycle(t *testing.T) {
	uc, users, _ := newTestUsecase()
	ctx := context.Background()

	sessionID, err := uc.RegisterUser(ctx, validRegistration())
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}

	me, err := uc.GetUserBySession(ctx, sessionID)
	if err != nil {
		t.Fatalf("GetUserBySession: %v", err)
	}
	if me.Email != "ash@poke.io" {
		t.Errorf("session resolved to %s, want ash@poke.io", me.Email)
	}

	if err := uc.LogoutUser(ctx, sessionID); err != nil {
		t.Fatalf("LogoutUser: %v", err)
	}
	if _, err := uc.GetUserBySession(ctx, sessionID); !errors.Is(err, errs.ErrSessionNotFound) {
		t.Errorf("after logout: got %v, want ErrSessionNotFound", err)
	}
	if err := uc.LogoutUser(ctx, sessionID); !errors.Is(err, errs.ErrSessionNotFound) {
		t.Errorf("double logout: got %v, want ErrSessionNotFound", err)
	}

	stored, _ := users.GetUserByID(ctx, me.ID)
	if stored.Online {
		t.Error("logout did not mark the user offline")
	}
}
