package auth

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"poke_arena/internal/domain/pokemon"
	userDomain "poke_arena/internal/domain/user"
	errs "poke_arena/internal/errors"
	"poke_arena/internal/random"
)

type UserStorage interface {
	GetUserByEmail(ctx context.Context, email string) (userDomain.User, bool)
	GetUserByID(ctx context.Context, id string) (userDomain.User, bool)
	CreateUser(ctx context.Context, newUser userDomain.User) error
	SetOnline(ctx context.Context, id string, online bool, lastSeen int64) error
}

type SessionStorage interface {
	StoreSession(ctx context.Context, sessionID, userID string) error
	GetUserIDBySession(ctx context.Context, sessionID string) (string, bool)
	DeleteSession(ctx context.Context, sessionID string) bool
}

type AuthUsecaseHandler struct {
	userStorage    UserStorage
	sessionStorage SessionStorage
}

func NewAuthUsecaseHandler(u UserStorage, s SessionStorage) *AuthUsecaseHandler {
	return &AuthUsecaseHandler{
		userStorage:    u,
		sessionStorage: s,
	}
}

type RegisterRequest struct {
	FirstName       string `json:"firstName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

var (
	firstNameRe = regexp.MustCompile(`^[A-Za-z]{1,50}$`)
	emailRe     = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)
)

// passwordOK enforces 7-15 chars with upper, lower, digit and special.
func passwordOK(p string) bool {
	if len(p) < 7 || len(p) > 15 {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range p {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			special = true
		}
	}
	return upper && lower && digit && special
}

// RegisterUser validates the registration form, creates the user and opens a
// session. All validation failures are collected into one message.
func (a *AuthUsecaseHandler) RegisterUser(ctx context.Context, req RegisterRequest) (sessionID string, err error) {
	var problems []string

	if !firstNameRe.MatchString(req.FirstName) {
		problems = append(problems, "first name must be up to 50 english letters only.")
	}
	if !emailRe.MatchString(req.Email) {
		problems = append(problems, "invalid email format.")
	}
	if !passwordOK(req.Password) {
		problems = append(problems, "password must be 7-15 characters with upper, lower, digit, and special character.")
	}
	if req.Password != req.ConfirmPassword {
		problems = append(problems, "passwords do not match.")
	}
	if _, exists := a.userStorage.GetUserByEmail(ctx, req.Email); exists {
		problems = append(problems, "email already registered.")
	}
	if len(problems) > 0 {
		return "", fmt.Errorf("%w: %s", errs.ErrValidation, strings.Join(problems, " "))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	newUser := userDomain.User{
		ID:           uuid.NewString(),
		FirstName:    req.FirstName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Favorites:    []pokemon.Snapshot{},
		CreatedAt:    time.Now(),
	}
	if err := a.userStorage.CreateUser(ctx, newUser); err != nil {
		return "", err
	}

	return a.openSession(ctx, newUser.ID)
}

func (a *AuthUsecaseHandler) LoginUser(ctx context.Context, email, password string) (sessionID string, loggedIn userDomain.User, err error) {
	fromDb, exists := a.userStorage.GetUserByEmail(ctx, email)
	if !exists {
		return "", userDomain.User{}, errs.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(fromDb.PasswordHash), []byte(password)) != nil {
		return "", userDomain.User{}, errs.ErrInvalidCredentials
	}

	if err := a.userStorage.SetOnline(ctx, fromDb.ID, true, time.Now().UnixMilli()); err != nil {
		return "", userDomain.User{}, err
	}

	sessionID, err = a.openSession(ctx, fromDb.ID)
	return sessionID, fromDb, err
}

func (a *AuthUsecaseHandler) LogoutUser(ctx context.Context, sessionID string) error {
	userID, ok := a.sessionStorage.GetUserIDBySession(ctx, sessionID)
	if !ok {
		return errs.ErrSessionNotFound
	}
	if err := a.userStorage.SetOnline(ctx, userID, false, time.Now().UnixMilli()); err != nil {
		return err
	}
	if !a.sessionStorage.DeleteSession(ctx, sessionID) {
		return errs.ErrSessionNotFound
	}
	return nil
}

// GetUserBySession resolves the session cookie to a full user record.
func (a *AuthUsecaseHandler) GetUserBySession(ctx context.Context, sessionID string) (userDomain.User, error) {
	userID, ok := a.sessionStorage.GetUserIDBySession(ctx, sessionID)
	if !ok {
		return userDomain.User{}, errs.ErrSessionNotFound
	}
	u, ok := a.userStorage.GetUserByID(ctx, userID)
	if !ok {
		return userDomain.User{}, errs.ErrUserNotFound
	}
	return u, nil
}

func (a *AuthUsecaseHandler) openSession(ctx context.Context, userID string) (string, error) {
	sessionID := random.RandString(64)
	if err := a.sessionStorage.StoreSession(ctx, sessionID, userID); err != nil {
		return "", err
	}
	return sessionID, nil
}
