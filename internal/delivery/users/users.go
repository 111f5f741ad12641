package users

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authDelivery "poke_arena/internal/delivery/auth"
	userDomain "poke_arena/internal/domain/user"
	errs "poke_arena/internal/errors"
	"poke_arena/internal/httpresponse"
	presenceUC "poke_arena/internal/usecase/presence"
)

type UserStore interface {
	ListUsers(ctx context.Context) ([]userDomain.User, error)
	GetUserByID(ctx context.Context, id string) (userDomain.User, bool)
}

type UsersHandler struct {
	presenceUsecase *presenceUC.PresenceUsecase
	userStorage     UserStore
	authHandler     *authDelivery.AuthHandler
	log             *zap.SugaredLogger
}

func NewUsersHandler(
	presence *presenceUC.PresenceUsecase,
	users UserStore,
	auth *authDelivery.AuthHandler,
	log *zap.SugaredLogger,
) *UsersHandler {
	return &UsersHandler{
		presenceUsecase: presence,
		userStorage:     users,
		authHandler:     auth,
		log:             log,
	}
}

// Online is the heartbeat endpoint the arena page polls while open.
func (h *UsersHandler) Online(w http.ResponseWriter, r *http.Request) {
	me, ok := h.authHandler.CurrentUser(w, r)
	if !ok {
		return
	}
	if err := h.presenceUsecase.Heartbeat(r.Context(), me.ID); err != nil {
		h.log.Error("Online: ", err)
		httpresponse.WriteInternalErrorResponse(w)
		return
	}
	httpresponse.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *UsersHandler) Offline(w http.ResponseWriter, r *http.Request) {
	me, ok := h.authHandler.CurrentUser(w, r)
	if !ok {
		return
	}
	if err := h.presenceUsecase.Offline(r.Context(), me.ID); err != nil {
		h.log.Error("Offline: ", err)
		httpresponse.WriteInternalErrorResponse(w)
		return
	}
	httpresponse.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// OnlineUsers lists potential opponents seen within the last five minutes.
func (h *UsersHandler) OnlineUsers(w http.ResponseWriter, r *http.Request) {
	me, ok := h.authHandler.CurrentUser(w, r)
	if !ok {
		return
	}
	online, err := h.presenceUsecase.OnlineUsers(r.Context(), me.ID)
	if err != nil {
		h.log.Error("OnlineUsers: ", err)
		httpresponse.WriteError(w, http.StatusInternalServerError, "failed to read online users")
		return
	}
	httpresponse.WriteJSON(w, http.StatusOK, map[string]any{"online": online})
}

// Cleanup forces everyone offline. Dev convenience.
func (h *UsersHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	if err := h.presenceUsecase.Cleanup(r.Context()); err != nil {
		h.log.Error("Cleanup: ", err)
		httpresponse.WriteInternalErrorResponse(w)
		return
	}
	httpresponse.WriteJSON(w, http.StatusOK, map[string]string{"message": "All users set to offline"})
}

func (h *UsersHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authHandler.CurrentUser(w, r); !ok {
		return
	}
	all, err := h.userStorage.ListUsers(r.Context())
	if err != nil {
		h.log.Error("ListUsers: ", err)
		httpresponse.WriteInternalErrorResponse(w)
		return
	}
	httpresponse.WriteJSON(w, http.StatusOK, all)
}

func (h *UsersHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authHandler.CurrentUser(w, r); !ok {
		return
	}
	id := chi.URLParam(r, "id")
	u, ok := h.userStorage.GetUserByID(r.Context(), id)
	if !ok {
		httpresponse.WriteError(w, http.StatusNotFound, errs.ErrUserNotFound.Error())
		return
	}
	httpresponse.WriteJSON(w, http.StatusOK, u)
}
