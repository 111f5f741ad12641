package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"poke_arena/internal/adapters"
	"poke_arena/internal/domain/battle"
)

// MongoBattleStorage persists the append-only battle ledger and the per-user
// battle history copies.
type MongoBattleStorage struct {
	adapter *adapters.AdapterMongo
}

func NewMongoBattleStorage(adapter *adapters.AdapterMongo) *MongoBattleStorage {
	return &MongoBattleStorage{adapter: adapter}
}

func (m *MongoBattleStorage) battles() *mongo.Collection {
	return m.adapter.Database.Collection("battles")
}

func (m *MongoBattleStorage) history() *mongo.Collection {
	return m.adapter.Database.Collection("battle_history")
}

func (m *MongoBattleStorage) AppendBattle(ctx context.Context, record battle.Record) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := m.battles().InsertOne(ctx, record)
	return err
}

func (m *MongoBattleStorage) ListBattles(ctx context.Context) ([]battle.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := m.battles().Find(ctx, bson.D{},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := make([]battle.Record, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (m *MongoBattleStorage) AppendHistory(ctx context.Context, entry battle.HistoryEntry) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := m.history().InsertOne(ctx, entry)
	return err
}

// ListHistoryForUser matches by id or email: older entries predate stable ids.
func (m *MongoBattleStorage) ListHistoryForUser(ctx context.Context, userID, email string) ([]battle.HistoryEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"$or": bson.A{
		bson.M{"player_id": userID},
		bson.M{"player_email": email},
	}}
	cursor, err := m.history().Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := make([]battle.HistoryEntry, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
