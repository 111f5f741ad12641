package favorites

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	authDelivery "poke_arena/internal/delivery/auth"
	"poke_arena/internal/domain/pokemon"
	errs "poke_arena/internal/errors"
	"poke_arena/internal/httpresponse"
	favUC "poke_arena/internal/usecase/favorites"
	"poke_arena/internal/utils"
)

type FavoritesHandler struct {
	usecaseHandler *favUC.FavoritesUsecase
	authHandler    *authDelivery.AuthHandler
	log            *zap.SugaredLogger
}

func NewFavoritesHandler(uc *favUC.FavoritesUsecase, auth *authDelivery.AuthHandler, log *zap.SugaredLogger) *FavoritesHandler {
	return &FavoritesHandler{
		usecaseHandler: uc,
		authHandler:    auth,
		log:            log,
	}
}

type favoritesResponse struct {
	Success   bool               `json:"success,omitempty"`
	Favorites []pokemon.Snapshot `json:"favorites"`
}

type removeRequest struct {
	ID int `json:"id"`
}

func (f *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	me, ok := f.authHandler.CurrentUser(w, r)
	if !ok {
		return
	}

	favorites, err := f.usecaseHandler.List(r.Context(), me.ID)
	if err != nil {
		f.log.Error("List favorites: ", err)
		httpresponse.WriteError(w, http.StatusNotFound, errs.ErrUserNotFound.Error())
		return
	}
	httpresponse.WriteJSON(w, http.StatusOK, favoritesResponse{Favorites: favorites})
}

func (f *FavoritesHandler) Add(w http.ResponseWriter, r *http.Request) {
	me, ok := f.authHandler.CurrentUser(w, r)
	if !ok {
		return
	}

	var snap pokemon.Snapshot
	if err := utils.DecodeJSONRequest(r, &snap); err != nil {
		f.log.Error("Add favorite: malformed JSON: ", err)
		httpresponse.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	favorites, err := f.usecaseHandler.Add(r.Context(), me.ID, snap)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrMissingFavoriteData), errors.Is(err, errs.ErrFavoritesFull):
			f.log.Warnf("Add favorite rejected for %s: %v", me.Email, err)
			httpresponse.WriteError(w, http.StatusBadRequest, err.Error())
		default:
			f.log.Error("Add favorite: ", err)
			httpresponse.WriteInternalErrorResponse(w)
		}
		return
	}
	httpresponse.WriteJSON(w, http.StatusOK, favoritesResponse{Success: true, Favorites: favorites})
}

func (f *FavoritesHandler) Remove(w http.ResponseWriter, r *http.Request) {
	me, ok := f.authHandler.CurrentUser(w, r)
	if !ok {
		return
	}

	var req removeRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		f.log.Error("Remove favorite: malformed JSON: ", err)
		httpresponse.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	favorites, err := f.usecaseHandler.Remove(r.Context(), me.ID, req.ID)
	if err != nil {
		if errors.Is(err, errs.ErrMissingFavoriteData) {
			httpresponse.WriteError(w, http.StatusBadRequest, "missing id")
			return
		}
		f.log.Error("Remove favorite: ", err)
		httpresponse.WriteInternalErrorResponse(w)
		return
	}
	httpresponse.WriteJSON(w, http.StatusOK, favoritesResponse{Success: true, Favorites: favorites})
}
