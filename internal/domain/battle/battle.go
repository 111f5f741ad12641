package battle

import (
	"poke_arena/internal/domain/pokemon"
)

// Sentinels used in ledger records. BotID stands in for a user id on the
// second participant of bot battles; TieWinner marks a drawn outcome.
const (
	BotID     = "bot"
	BotName   = "Bot"
	TieWinner = "tie"
)

const (
	TypeVsPlayer = "vs-player"
	TypeVsBot    = "vs-bot"
)

const (
	ResultWon  = "won"
	ResultLost = "lost"
	ResultTie  = "tie"
)

// Winner tags accepted on the bot-battle payload.
const (
	OutcomePlayer = "player"
	OutcomeBot    = "bot"
	OutcomeTie    = "tie"
)

// Record is one resolved battle in the append-only ledger. Immutable once
// written; exactly one winner value, computed at creation.
type Record struct {
	ID             string  `json:"id" bson:"_id"`
	Timestamp      string  `json:"timestamp" bson:"timestamp"`
	Player1ID      string  `json:"player1Id" bson:"player1_id"`
	Player1Name    string  `json:"player1Name" bson:"player1_name"`
	Player1Pokemon string  `json:"player1Pokemon" bson:"player1_pokemon"`
	Player1Score   float64 `json:"player1Score" bson:"player1_score"`
	Player2ID      string  `json:"player2Id" bson:"player2_id"`
	Player2Name    string  `json:"player2Name" bson:"player2_name"`
	Player2Pokemon string  `json:"player2Pokemon" bson:"player2_pokemon"`
	Player2Score   float64 `json:"player2Score" bson:"player2_score"`
	Winner         string  `json:"winner" bson:"winner"`
	WinnerName     string  `json:"winnerName,omitempty" bson:"winner_name,omitempty"`
}

// HistoryEntry is the per-user copy of a battle, written redundantly at battle
// time with the result materialized relative to the owning user.
type HistoryEntry struct {
	ID              string           `json:"id" bson:"_id"`
	PlayerID        string           `json:"playerId" bson:"player_id"`
	PlayerEmail     string           `json:"playerEmail" bson:"player_email"`
	Timestamp       int64            `json:"timestamp" bson:"timestamp"`
	Type            string           `json:"type" bson:"type"`
	Result          string           `json:"result" bson:"result"`
	PlayerPokemon   pokemon.Snapshot `json:"playerPokemon" bson:"player_pokemon"`
	OpponentPokemon pokemon.Snapshot `json:"opponentPokemon" bson:"opponent_pokemon"`
	PlayerScore     float64          `json:"playerScore" bson:"player_score"`
	OpponentScore   float64          `json:"opponentScore" bson:"opponent_score"`
	OpponentName    string           `json:"opponentName" bson:"opponent_name"`
}

// Participant is one side of a resolved PvP battle as returned to the client.
type Participant struct {
	ID      string           `json:"id"`
	Name    string           `json:"name"`
	Pokemon pokemon.Snapshot `json:"pokemon"`
	Score   float64          `json:"score"`
}

// PvPResult carries both picks plus the full favorites of both sides; the
// client uses the full lists for the roulette animation.
type PvPResult struct {
	Me             Participant        `json:"me"`
	Opponent       Participant        `json:"opponent"`
	MeAllPokemons  []pokemon.Snapshot `json:"meAllPokemons"`
	OppAllPokemons []pokemon.Snapshot `json:"oppAllPokemons"`
	Winner         string             `json:"winner"`
	WinnerName     string             `json:"winnerName"`
}

// BotOutcome is the client-computed result of a bot battle submitted for
// persistence.
type BotOutcome struct {
	PlayerPokemon pokemon.Snapshot `json:"playerPokemon"`
	BotPokemon    pokemon.Snapshot `json:"botPokemon"`
	PlayerScore   float64          `json:"playerScore"`
	BotScore      float64          `json:"botScore"`
	Winner        string           `json:"winner"`
}

// LimitInfo reports the state of the daily battle gate.
type LimitInfo struct {
	CanBattle        bool   `json:"canBattle"`
	Error            string `json:"error,omitempty"`
	BattlesUsed      int    `json:"battlesUsed"`
	BattlesRemaining int    `json:"battlesRemaining"`
}
