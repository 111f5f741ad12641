package battle

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	battleDomain "poke_arena/internal/domain/battle"
	"poke_arena/internal/domain/pokemon"
	userDomain "poke_arena/internal/domain/user"
	errs "poke_arena/internal/errors"
)

const (
	// DailyBattleLimit caps battles per user per calendar day.
	DailyBattleLimit = 5

	// scoreBonusRange bounds the uniform random bonus added to the base
	// score. One range for every path that rolls a score.
	scoreBonusRange = 5.0

	limitReachedMessage = "Daily battle limit reached (5 battles per day). Limit resets at midnight."
)

type UserStore interface {
	GetUserByID(ctx context.Context, id string) (userDomain.User, bool)
	IncrementDailyBattles(ctx context.Context, id string) error
	ResetAllDailyBattles(ctx context.Context) (int64, error)
	LastResetDay(ctx context.Context) (string, error)
	SetLastResetDay(ctx context.Context, day string) error
}

type LedgerStore interface {
	AppendBattle(ctx context.Context, record battleDomain.Record) error
	ListBattles(ctx context.Context) ([]battleDomain.Record, error)
	AppendHistory(ctx context.Context, entry battleDomain.HistoryEntry) error
	ListHistoryForUser(ctx context.Context, userID, email string) ([]battleDomain.HistoryEntry, error)
}

// BattleUsecase is shared by concurrent requests; rng is guarded by mu
// because rand.Rand with a private source is not.
type BattleUsecase struct {
	users  UserStore
	ledger LedgerStore
	mu     sync.Mutex
	rng    *rand.Rand
}

func NewBattleUsecase(users UserStore, ledger LedgerStore) *BattleUsecase {
	return &BattleUsecase{
		users:  users,
		ledger: ledger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// BaseScore is the deterministic part of the fitness score:
// hp*0.3 + attack*0.4 + defense*0.2 + speed*0.1. A snapshot with a missing
// stat is corrupt data and fails instead of scoring as zero.
func BaseScore(s pokemon.Snapshot) (float64, error) {
	st := s.Stats
	if st.HP <= 0 || st.Attack <= 0 || st.Defense <= 0 || st.Speed <= 0 {
		return 0, fmt.Errorf("%w: %q", errs.ErrMissingStats, s.Name)
	}
	return float64(st.HP)*0.3 + float64(st.Attack)*0.4 + float64(st.Defense)*0.2 + float64(st.Speed)*0.1, nil
}

func (b *BattleUsecase) randFloat() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rng.Float64()
}

func (b *BattleUsecase) randIntn(n int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rng.Intn(n)
}

func (b *BattleUsecase) roll(s pokemon.Snapshot) (float64, error) {
	base, err := BaseScore(s)
	if err != nil {
		return 0, err
	}
	return base + b.randFloat()*scoreBonusRange, nil
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// CheckLimit reports the daily gate state. A due calendar-day reset is
// applied first, so the counter survives process restarts correctly.
func (b *BattleUsecase) CheckLimit(ctx context.Context, userID string) (battleDomain.LimitInfo, error) {
	if err := b.ResetDailyIfDue(ctx); err != nil {
		return battleDomain.LimitInfo{}, err
	}

	u, ok := b.users.GetUserByID(ctx, userID)
	if !ok {
		return battleDomain.LimitInfo{}, errs.ErrUserNotFound
	}

	used := u.DailyBattles
	if used >= DailyBattleLimit {
		return battleDomain.LimitInfo{
			CanBattle:        false,
			Error:            limitReachedMessage,
			BattlesUsed:      used,
			BattlesRemaining: 0,
		}, nil
	}
	return battleDomain.LimitInfo{
		CanBattle:        true,
		BattlesUsed:      used,
		BattlesRemaining: DailyBattleLimit - used,
	}, nil
}

// ResolvePvP runs one player-vs-player battle. Preconditions are checked in
// order and the first failure wins: daily limit, opponent exists, both sides
// have favorites. An exact score tie is coin-flipped, so this path never
// records a tie.
func (b *BattleUsecase) ResolvePvP(ctx context.Context, meID, opponentID string) (*battleDomain.PvPResult, error) {
	limit, err := b.CheckLimit(ctx, meID)
	if err != nil {
		return nil, err
	}
	if !limit.CanBattle {
		return nil, errs.ErrDailyLimitReached
	}

	me, ok := b.users.GetUserByID(ctx, meID)
	if !ok {
		return nil, errs.ErrUserNotFound
	}
	opp, ok := b.users.GetUserByID(ctx, opponentID)
	if !ok {
		return nil, errs.ErrOpponentNotFound
	}
	if len(me.Favorites) == 0 || len(opp.Favorites) == 0 {
		return nil, errs.ErrNoFavorites
	}

	mePokemon := me.Favorites[b.randIntn(len(me.Favorites))]
	oppPokemon := opp.Favorites[b.randIntn(len(opp.Favorites))]

	meScore, err := b.roll(mePokemon)
	if err != nil {
		return nil, err
	}
	oppScore, err := b.roll(oppPokemon)
	if err != nil {
		return nil, err
	}

	var winner string
	switch {
	case meScore > oppScore:
		winner = me.ID
	case oppScore > meScore:
		winner = opp.ID
	default:
		if b.randIntn(2) == 0 {
			winner = me.ID
		} else {
			winner = opp.ID
		}
	}
	winnerName := opp.FirstName
	if winner == me.ID {
		winnerName = me.FirstName
	}

	now := time.Now()
	record := battleDomain.Record{
		ID:             uuid.NewString(),
		Timestamp:      now.Format(time.RFC3339),
		Player1ID:      me.ID,
		Player1Name:    me.FirstName,
		Player1Pokemon: mePokemon.Name,
		Player1Score:   round2(meScore),
		Player2ID:      opp.ID,
		Player2Name:    opp.FirstName,
		Player2Pokemon: oppPokemon.Name,
		Player2Score:   round2(oppScore),
		Winner:         winner,
		WinnerName:     winnerName,
	}
	if err := b.ledger.AppendBattle(ctx, record); err != nil {
		return nil, err
	}

	result := battleDomain.ResultLost
	if winner == me.ID {
		result = battleDomain.ResultWon
	}
	entry := battleDomain.HistoryEntry{
		ID:              uuid.NewString(),
		PlayerID:        me.ID,
		PlayerEmail:     me.Email,
		Timestamp:       now.UnixMilli(),
		Type:            battleDomain.TypeVsPlayer,
		Result:          result,
		PlayerPokemon:   mePokemon,
		OpponentPokemon: oppPokemon,
		PlayerScore:     round2(meScore),
		OpponentScore:   round2(oppScore),
		OpponentName:    opp.FirstName,
	}
	if err := b.ledger.AppendHistory(ctx, entry); err != nil {
		return nil, err
	}

	// Counted only once the battle is persisted.
	if err := b.users.IncrementDailyBattles(ctx, me.ID); err != nil {
		return nil, err
	}

	return &battleDomain.PvPResult{
		Me: battleDomain.Participant{
			ID:      me.ID,
			Name:    me.FirstName,
			Pokemon: mePokemon,
			Score:   round2(meScore),
		},
		Opponent: battleDomain.Participant{
			ID:      opp.ID,
			Name:    opp.FirstName,
			Pokemon: oppPokemon,
			Score:   round2(oppScore),
		},
		MeAllPokemons:  me.Favorites,
		OppAllPokemons: opp.Favorites,
		Winner:         winner,
		WinnerName:     winnerName,
	}, nil
}

// SaveBotBattle persists a client-resolved bot battle. Scores are stored as
// submitted, but the winner tag must agree with the score ordering. The
// history entry is written here too, so clients must not also call
// SaveHistoryEntry for the same outcome.
func (b *BattleUsecase) SaveBotBattle(ctx context.Context, meID string, outcome battleDomain.BotOutcome) (battleID string, err error) {
	limit, err := b.CheckLimit(ctx, meID)
	if err != nil {
		return "", err
	}
	if !limit.CanBattle {
		return "", errs.ErrDailyLimitReached
	}

	me, ok := b.users.GetUserByID(ctx, meID)
	if !ok {
		return "", errs.ErrUserNotFound
	}

	if outcome.PlayerPokemon.Name == "" || outcome.BotPokemon.Name == "" {
		return "", errs.ErrMissingFavoriteData
	}

	var winner, result string
	switch outcome.Winner {
	case battleDomain.OutcomePlayer:
		if outcome.PlayerScore <= outcome.BotScore {
			return "", errs.ErrBadBotOutcome
		}
		winner, result = me.ID, battleDomain.ResultWon
	case battleDomain.OutcomeBot:
		if outcome.BotScore <= outcome.PlayerScore {
			return "", errs.ErrBadBotOutcome
		}
		winner, result = battleDomain.BotID, battleDomain.ResultLost
	case battleDomain.OutcomeTie:
		if outcome.PlayerScore != outcome.BotScore {
			return "", errs.ErrBadBotOutcome
		}
		winner, result = battleDomain.TieWinner, battleDomain.ResultTie
	default:
		return "", errs.ErrBadBotOutcome
	}

	now := time.Now()
	record := battleDomain.Record{
		ID:             uuid.NewString(),
		Timestamp:      now.Format(time.RFC3339),
		Player1ID:      me.ID,
		Player1Name:    me.FirstName,
		Player1Pokemon: outcome.PlayerPokemon.Name,
		Player1Score:   round2(outcome.PlayerScore),
		Player2ID:      battleDomain.BotID,
		Player2Name:    battleDomain.BotName,
		Player2Pokemon: outcome.BotPokemon.Name,
		Player2Score:   round2(outcome.BotScore),
		Winner:         winner,
	}
	if err := b.ledger.AppendBattle(ctx, record); err != nil {
		return "", err
	}

	entry := battleDomain.HistoryEntry{
		ID:              uuid.NewString(),
		PlayerID:        me.ID,
		PlayerEmail:     me.Email,
		Timestamp:       now.UnixMilli(),
		Type:            battleDomain.TypeVsBot,
		Result:          result,
		PlayerPokemon:   outcome.PlayerPokemon,
		OpponentPokemon: outcome.BotPokemon,
		PlayerScore:     round2(outcome.PlayerScore),
		OpponentScore:   round2(outcome.BotScore),
		OpponentName:    battleDomain.BotName,
	}
	if err := b.ledger.AppendHistory(ctx, entry); err != nil {
		return "", err
	}

	if err := b.users.IncrementDailyBattles(ctx, me.ID); err != nil {
		return "", err
	}
	return record.ID, nil
}

func (b *BattleUsecase) AllBattles(ctx context.Context) ([]battleDomain.Record, error) {
	return b.ledger.ListBattles(ctx)
}

func (b *BattleUsecase) HistoryForUser(ctx context.Context, userID, email string) ([]battleDomain.HistoryEntry, error) {
	return b.ledger.ListHistoryForUser(ctx, userID, email)
}

// SaveHistoryEntry appends a caller-supplied entry stamped with the session
// identity; used by the client after animations it resolved itself.
func (b *BattleUsecase) SaveHistoryEntry(ctx context.Context, me userDomain.User, entry battleDomain.HistoryEntry) (string, error) {
	entry.ID = uuid.NewString()
	entry.PlayerID = me.ID
	entry.PlayerEmail = me.Email
	entry.Timestamp = time.Now().UnixMilli()
	if err := b.ledger.AppendHistory(ctx, entry); err != nil {
		return "", err
	}
	return entry.ID, nil
}

// ResetDailyIfDue zeroes every counter when the persisted marker day is not
// today. Safe to call on every limit read.
func (b *BattleUsecase) ResetDailyIfDue(ctx context.Context) error {
	today := time.Now().Format(time.DateOnly)
	day, err := b.users.LastResetDay(ctx)
	if err != nil {
		return err
	}
	if day == today {
		return nil
	}
	if _, err := b.users.ResetAllDailyBattles(ctx); err != nil {
		return err
	}
	return b.users.SetLastResetDay(ctx, today)
}

// ResetDaily is the unconditional midnight sweep.
func (b *BattleUsecase) ResetDaily(ctx context.Context) (int64, error) {
	n, err := b.users.ResetAllDailyBattles(ctx)
	if err != nil {
		return 0, err
	}
	return n, b.users.SetLastResetDay(ctx, time.Now().Format(time.DateOnly))
}
