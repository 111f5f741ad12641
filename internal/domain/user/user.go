package user

import (
	"time"

	"poke_arena/internal/domain/pokemon"
)

type User struct {
	ID           string             `json:"id" bson:"_id"`
	FirstName    string             `json:"firstName" bson:"first_name"`
	Email        string             `json:"email" bson:"email"`
	PasswordHash string             `json:"-" bson:"password_hash"`
	Favorites    []pokemon.Snapshot `json:"favorites" bson:"favorites"`
	Online       bool               `json:"online" bson:"online"`
	LastSeen     int64              `json:"lastSeen,omitempty" bson:"last_seen,omitempty"`
	DailyBattles int                `json:"dailyBattles" bson:"daily_battles"`
	CreatedAt    time.Time          `json:"createdAt" bson:"created_at"`
}

// Public is the shape exposed to other players (online list, battle matching).
type Public struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	Email     string `json:"email"`
}

func (u User) Public() Public {
	return Public{ID: u.ID, FirstName: u.FirstName, Email: u.Email}
}
