package auth

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	errs "poke_arena/internal/errors"
	"poke_arena/internal/httpresponse"
	authUC "poke_arena/internal/usecase/auth"
	"poke_arena/internal/utils"

	userDomain "poke_arena/internal/domain/user"
)

const sessionCookieName = "sessionID"

type AuthHandler struct {
	usecaseHandler *authUC.AuthUsecaseHandler
	log            *zap.SugaredLogger
}

func NewAuthHandler(uc *authUC.AuthUsecaseHandler, log *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{
		usecaseHandler: uc,
		log:            log,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register godoc
// @Summary Register a new user
// @Description Creates a user with an empty favorites list and sets the sessionID cookie
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 400 {object} httpresponse.ErrorResponse
// @Router /api/register [post]
func (a *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var registerData authUC.RegisterRequest
	if err := utils.DecodeJSONRequest(r, &registerData); err != nil {
		a.log.Error("Register: malformed JSON: ", err)
		httpresponse.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	sessionID, err := a.usecaseHandler.RegisterUser(r.Context(), registerData)
	if err != nil {
		if errors.Is(err, errs.ErrValidation) || errors.Is(err, errs.ErrEmailTaken) {
			a.log.Warnf("Register: rejected for %s: %v", registerData.Email, err)
			httpresponse.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		a.log.Error("Register: internal error: ", err)
		httpresponse.WriteError(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	a.setSessionCookie(w, sessionID)
	httpresponse.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Login godoc
// @Summary Log a user in
// @Description Verifies credentials, marks the user online and sets the sessionID cookie
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 401 {object} httpresponse.ErrorResponse
// @Router /api/login [post]
func (a *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var loginData LoginRequest
	if err := utils.DecodeJSONRequest(r, &loginData); err != nil {
		a.log.Error("Login: malformed JSON: ", err)
		httpresponse.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	sessionID, loggedIn, err := a.usecaseHandler.LoginUser(r.Context(), loginData.Email, loginData.Password)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidCredentials) {
			a.log.Warnf("Login: invalid credentials for %s", loginData.Email)
			httpresponse.WriteError(w, http.StatusUnauthorized, "invalid email or password!")
			return
		}
		a.log.Error("Login: internal error: ", err)
		httpresponse.WriteError(w, http.StatusInternalServerError, "Failed to login")
		return
	}

	a.setSessionCookie(w, sessionID)
	httpresponse.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    loggedIn.Public(),
	})
}

// Logout godoc
// @Summary Log the user out
// @Description Marks the user offline and deletes the session
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 401 {object} httpresponse.ErrorResponse
// @Router /api/logout [post]
func (a *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionCookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		a.log.Warn("Logout: no sessionID cookie")
		httpresponse.WriteError(w, http.StatusUnauthorized, errs.ErrNotLoggedIn.Error())
		return
	}

	if err := a.usecaseHandler.LogoutUser(r.Context(), sessionCookie.Value); err != nil {
		a.log.Errorf("Logout: failed for sessionID=%s: %v", sessionCookie.Value, err)
		httpresponse.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Path:     "/",
	})
	httpresponse.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Me godoc
// @Summary Current user info
// @Tags auth
// @Produce json
// @Success 200 {object} user.Public
// @Failure 401 {object} httpresponse.ErrorResponse
// @Router /api/me [get]
func (a *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	me, ok := a.CurrentUser(w, r)
	if !ok {
		return
	}
	httpresponse.WriteJSON(w, http.StatusOK, me.Public())
}

// CurrentUser resolves the session cookie to a user. On failure it writes the
// 401 payload itself and returns ok=false, so handlers can bail out early.
func (a *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) (userDomain.User, bool) {
	sessionCookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		httpresponse.WriteError(w, http.StatusUnauthorized, errs.ErrNotLoggedIn.Error())
		return userDomain.User{}, false
	}

	me, err := a.usecaseHandler.GetUserBySession(r.Context(), sessionCookie.Value)
	if err != nil {
		if !errors.Is(err, errs.ErrSessionNotFound) {
			a.log.Error("CurrentUser: ", err)
		}
		httpresponse.WriteError(w, http.StatusUnauthorized, errs.ErrNotLoggedIn.Error())
		return userDomain.User{}, false
	}
	return me, true
}

func (a *AuthHandler) setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		Path:     "/",
	})
}
