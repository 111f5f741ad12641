package arena

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	authDelivery "poke_arena/internal/delivery/auth"
	battleDomain "poke_arena/internal/domain/battle"
	errs "poke_arena/internal/errors"
	"poke_arena/internal/httpresponse"
	battleUC "poke_arena/internal/usecase/battle"
	leaderboardUC "poke_arena/internal/usecase/leaderboard"
	"poke_arena/internal/utils"
)

type ArenaHandler struct {
	battleUsecase      *battleUC.BattleUsecase
	leaderboardUsecase *leaderboardUC.LeaderboardUsecase
	authHandler        *authDelivery.AuthHandler
	log                *zap.SugaredLogger
}

func NewArenaHandler(
	battle *battleUC.BattleUsecase,
	leaderboard *leaderboardUC.LeaderboardUsecase,
	auth *authDelivery.AuthHandler,
	log *zap.SugaredLogger,
) *ArenaHandler {
	return &ArenaHandler{
		battleUsecase:      battle,
		leaderboardUsecase: leaderboard,
		authHandler:        auth,
		log:                log,
	}
}

type battleRequest struct {
	OpponentID string `json:"opponentId"`
}

type botBattleResponse struct {
	Success  bool   `json:"success"`
	BattleID string `json:"battleId"`
}

// BattleLimit reports the daily gate state for the session user.
func (h *ArenaHandler) BattleLimit(w http.ResponseWriter, r *http.Request) {
	me, ok := h.authHandler.CurrentUser(w, r)
	if !ok {
		return
	}

	info, err := h.battleUsecase.CheckLimit(r.Context(), me.ID)
	if err != nil {
		h.log.Error("BattleLimit: ", err)
		httpresponse.WriteInternalErrorResponse(w)
		return
	}
	httpresponse.WriteJSON(w, http.StatusOK, info)
}

// Battle resolves one player-vs-player battle for the session user.
func (h *ArenaHandler) Battle(w http.ResponseWriter, r *http.Request) {
	me, ok := h.authHandler.CurrentUser(w, r)
	if !ok {
		return
	}

	var req battleRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		h.log.Error("Battle: malformed JSON: ", err)
		httpresponse.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.battleUsecase.ResolvePvP(r.Context(), me.ID, req.OpponentID)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrDailyLimitReached):
			h.log.Warnf("Battle: limit reached for %s", me.Email)
			httpresponse.WriteError(w, http.StatusTooManyRequests,
				"Daily battle limit reached (5 battles per day). Limit resets at midnight.")
		case errors.Is(err, errs.ErrUserNotFound):
			httpresponse.WriteError(w, http.StatusBadRequest, "Current user not found")
		case errors.Is(err, errs.ErrOpponentNotFound):
			httpresponse.WriteError(w, http.StatusBadRequest, "Opponent not found")
		case errors.Is(err, errs.ErrNoFavorites):
			httpresponse.WriteError(w, http.StatusBadRequest, "Both players must have favorites")
		case errors.Is(err, errs.ErrMissingStats):
			httpresponse.WriteError(w, http.StatusBadRequest, err.Error())
		default:
			h.log.Error("Battle: ", err)
			httpresponse.WriteInternalErrorResponse(w)
		}
		return
	}

	h.log.Infof("Battle resolved: %s vs %s, winner %s", me.ID, req.OpponentID, result.Winner)
	httpresponse.WriteJSON(w, http.StatusOK, result)
}

// BotBattle persists a client-resolved battle against the bot.
func (h *ArenaHandler) BotBattle(w http.ResponseWriter, r *http.Request) {
	me, ok := h.authHandler.CurrentUser(w, r)
	if !ok {
		return
	}

	var outcome battleDomain.BotOutcome
	if err := utils.DecodeJSONRequest(r, &outcome); err != nil {
		h.log.Error("BotBattle: malformed JSON: ", err)
		httpresponse.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	battleID, err := h.battleUsecase.SaveBotBattle(r.Context(), me.ID, outcome)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrDailyLimitReached):
			h.log.Warnf("BotBattle: limit reached for %s", me.Email)
			httpresponse.WriteError(w, http.StatusTooManyRequests,
				"Daily battle limit reached (5 battles per day). Limit resets at midnight.")
		case errors.Is(err, errs.ErrBadBotOutcome), errors.Is(err, errs.ErrMissingFavoriteData):
			h.log.Warnf("BotBattle: rejected for %s: %v", me.Email, err)
			httpresponse.WriteError(w, http.StatusBadRequest, err.Error())
		default:
			h.log.Error("BotBattle: ", err)
			httpresponse.WriteError(w, http.StatusInternalServerError, "Failed to save bot battle result")
		}
		return
	}

	httpresponse.WriteJSON(w, http.StatusOK, botBattleResponse{Success: true, BattleID: battleID})
}

// Leaderboard recomputes standings from the full ledger.
func (h *ArenaHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	me, ok := h.authHandler.CurrentUser(w, r)
	if !ok {
		return
	}

	players, err := h.leaderboardUsecase.Standings(r.Context(), me.Email)
	if err != nil {
		h.log.Error("Leaderboard: ", err)
		httpresponse.WriteError(w, http.StatusInternalServerError, "Failed to calculate leaderboard")
		return
	}
	httpresponse.WriteJSON(w, http.StatusOK, map[string]any{"players": players})
}

// AllBattles returns the raw ledger plus the session identity for
// client-side rendering.
func (h *ArenaHandler) AllBattles(w http.ResponseWriter, r *http.Request) {
	me, ok := h.authHandler.CurrentUser(w, r)
	if !ok {
		return
	}

	battles, err := h.battleUsecase.AllBattles(r.Context())
	if err != nil {
		h.log.Error("AllBattles: ", err)
		httpresponse.WriteError(w, http.StatusInternalServerError, "Failed to load battles")
		return
	}
	httpresponse.WriteJSON(w, http.StatusOK, map[string]any{
		"battles":     battles,
		"currentUser": me.Public(),
	})
}

// BattleHistory returns the session user's personal history entries.
func (h *ArenaHandler) BattleHistory(w http.ResponseWriter, r *http.Request) {
	me, ok := h.authHandler.CurrentUser(w, r)
	if !ok {
		return
	}

	battles, err := h.battleUsecase.HistoryForUser(r.Context(), me.ID, me.Email)
	if err != nil {
		h.log.Error("BattleHistory: ", err)
		httpresponse.WriteError(w, http.StatusInternalServerError, "Failed to load battle history")
		return
	}
	httpresponse.WriteJSON(w, http.StatusOK, map[string]any{"battles": battles})
}

// SaveBattle appends a caller-supplied history entry stamped with the
// session identity.
func (h *ArenaHandler) SaveBattle(w http.ResponseWriter, r *http.Request) {
	me, ok := h.authHandler.CurrentUser(w, r)
	if !ok {
		return
	}

	var entry battleDomain.HistoryEntry
	if err := utils.DecodeJSONRequest(r, &entry); err != nil {
		h.log.Error("SaveBattle: malformed JSON: ", err)
		httpresponse.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	battleID, err := h.battleUsecase.SaveHistoryEntry(r.Context(), me, entry)
	if err != nil {
		h.log.Error("SaveBattle: ", err)
		httpresponse.WriteError(w, http.StatusInternalServerError, "Failed to save battle")
		return
	}
	httpresponse.WriteJSON(w, http.StatusOK, botBattleResponse{Success: true, BattleID: battleID})
}

// ResetDailyBattles triggers the sweep manually. Dev convenience.
func (h *ArenaHandler) ResetDailyBattles(w http.ResponseWriter, r *http.Request) {
	n, err := h.battleUsecase.ResetDaily(r.Context())
	if err != nil {
		h.log.Error("ResetDailyBattles: ", err)
		httpresponse.WriteInternalErrorResponse(w)
		return
	}
	h.log.Infof("Daily battles reset manually, %d users cleared", n)
	httpresponse.WriteJSON(w, http.StatusOK, map[string]string{"message": "Daily battles reset manually"})
}
