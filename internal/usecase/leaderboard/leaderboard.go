package leaderboard

import (
	"context"
	"sort"

	battleDomain "poke_arena/internal/domain/battle"
	userDomain "poke_arena/internal/domain/user"
)

// MinBattlesForRanking hides players without a meaningful sample.
const MinBattlesForRanking = 5

const (
	winPoints = 3
	tiePoints = 1
)

type UserLister interface {
	ListUsers(ctx context.Context) ([]userDomain.User, error)
}

type BattleLister interface {
	ListBattles(ctx context.Context) ([]battleDomain.Record, error)
}

type Row struct {
	ID            string `json:"id"`
	FirstName     string `json:"firstName"`
	Email         string `json:"email"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	Ties          int    `json:"ties"`
	TotalBattles  int    `json:"totalBattles"`
	TotalScore    int    `json:"totalScore"`
	IsCurrentUser bool   `json:"isCurrentUser"`
}

type LeaderboardUsecase struct {
	users   UserLister
	battles BattleLister
}

func NewLeaderboardUsecase(users UserLister, battles BattleLister) *LeaderboardUsecase {
	return &LeaderboardUsecase{users: users, battles: battles}
}

// Standings recomputes the board from the full ledger on every call. That is
// O(users x battles), acceptable at this collection size; no incremental
// index is kept.
func (l *LeaderboardUsecase) Standings(ctx context.Context, currentEmail string) ([]Row, error) {
	users, err := l.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	battles, err := l.battles.ListBattles(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(users))
	for _, u := range users {
		var wins, losses, ties int
		for _, b := range battles {
			if b.Player1ID != u.ID && b.Player2ID != u.ID {
				continue
			}
			switch b.Winner {
			case u.ID:
				wins++
			case battleDomain.TieWinner:
				ties++
			default:
				losses++
			}
		}

		total := wins + losses + ties
		if total < MinBattlesForRanking {
			continue
		}
		rows = append(rows, Row{
			ID:            u.ID,
			FirstName:     u.FirstName,
			Email:         u.Email,
			Wins:          wins,
			Losses:        losses,
			Ties:          ties,
			TotalBattles:  total,
			TotalScore:    wins*winPoints + ties*tiePoints,
			IsCurrentUser: u.Email == currentEmail,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalScore > rows[j].TotalScore
	})
	return rows, nil
}
