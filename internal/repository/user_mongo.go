package repo

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"poke_arena/internal/adapters"
	"poke_arena/internal/domain/pokemon"
	"poke_arena/internal/domain/user"
	errs "poke_arena/internal/errors"
)

const resetMarkerID = "daily_reset"

type MongoUserStorage struct {
	adapter *adapters.AdapterMongo
}

func NewMongoUserStorage(adapter *adapters.AdapterMongo) *MongoUserStorage {
	return &MongoUserStorage{adapter: adapter}
}

func (m *MongoUserStorage) users() *mongo.Collection {
	return m.adapter.Database.Collection("users")
}

func (m *MongoUserStorage) meta() *mongo.Collection {
	return m.adapter.Database.Collection("meta")
}

func (m *MongoUserStorage) GetUserByEmail(ctx context.Context, email string) (user.User, bool) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var result user.User
	err := m.users().FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&result)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			slog.Error(err.Error())
		}
		return user.User{}, false
	}
	return result, true
}

func (m *MongoUserStorage) GetUserByID(ctx context.Context, id string) (user.User, bool) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var result user.User
	err := m.users().FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&result)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			slog.Error(err.Error())
		}
		return user.User{}, false
	}
	return result, true
}

func (m *MongoUserStorage) CreateUser(ctx context.Context, newUser user.User) error {
	_, found := m.GetUserByEmail(ctx, newUser.Email)
	if found {
		return errs.ErrEmailTaken
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := m.users().InsertOne(ctx, newUser)
	if err != nil {
		slog.Error(err.Error())
		return errs.ErrInternal
	}
	return nil
}

func (m *MongoUserStorage) ListUsers(ctx context.Context) ([]user.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := m.users().Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := make([]user.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (m *MongoUserStorage) DeleteUser(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := m.users().DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errs.ErrUserNotFound
	}
	return nil
}

// UpdateFavorites replaces the whole favorites array in one atomic update.
func (m *MongoUserStorage) UpdateFavorites(ctx context.Context, id string, favorites []pokemon.Snapshot) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := m.users().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"favorites": favorites}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrUserNotFound
	}
	return nil
}

func (m *MongoUserStorage) SetOnline(ctx context.Context, id string, online bool, lastSeen int64) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := m.users().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"online": online, "last_seen": lastSeen}})
	return err
}

func (m *MongoUserStorage) SetAllOffline(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := m.users().UpdateMany(ctx,
		bson.M{},
		bson.M{"$set": bson.M{"online": false}})
	return err
}

// IncrementDailyBattles bumps the counter atomically, sidestepping the
// read-modify-write race the original flat-file store had.
func (m *MongoUserStorage) IncrementDailyBattles(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := m.users().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"daily_battles": 1}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrUserNotFound
	}
	return nil
}

func (m *MongoUserStorage) ResetAllDailyBattles(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := m.users().UpdateMany(ctx,
		bson.M{"daily_battles": bson.M{"$gt": 0}},
		bson.M{"$set": bson.M{"daily_battles": 0}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// LastResetDay reads the durable reset marker; empty string means the sweep
// has never run.
func (m *MongoUserStorage) LastResetDay(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var marker struct {
		Day string `bson:"day"`
	}
	err := m.meta().FindOne(ctx, bson.D{{Key: "_id", Value: resetMarkerID}}).Decode(&marker)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil
		}
		return "", err
	}
	return marker.Day, nil
}

func (m *MongoUserStorage) SetLastResetDay(ctx context.Context, day string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := m.meta().UpdateOne(ctx,
		bson.M{"_id": resetMarkerID},
		bson.M{"$set": bson.M{"day": day}},
		options.Update().SetUpsert(true))
	return err
}
