package errors

import "errors"

var (
	ErrNotLoggedIn         = errors.New("not logged in")
	ErrUserNotFound        = errors.New("user not found")
	ErrOpponentNotFound    = errors.New("opponent not found")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailTaken          = errors.New("email already registered")
	ErrValidation          = errors.New("validation failed")
	ErrSessionNotFound     = errors.New("session was not found")
	ErrNoFavorites         = errors.New("both players must have favorites")
	ErrFavoritesFull       = errors.New("you can only have up to 10 favorite pokemon")
	ErrMissingFavoriteData = errors.New("missing favorite data")
	ErrMissingStats        = errors.New("pokemon snapshot is missing base stats")
	ErrDailyLimitReached   = errors.New("daily battle limit reached")
	ErrBadBotOutcome       = errors.New("bot battle outcome is inconsistent")
	ErrInternal            = errors.New("internal error")
)
