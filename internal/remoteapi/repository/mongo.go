package repository

import (
	"context"
	"errors"

	"github.com/aDevMister/my-assesment/internal/models"
	"github.com/aDevMister/my-assesment/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo stores users in a collection keyed by an integer "id" field.
// Ids come from a counter document in the "counters" collection.
type MongoRepo struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewMongoRepo(ctx context.Context, col *mongo.Collection) *MongoRepo {
	idxModel := mongo.IndexModel{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)}
	if _, err := col.Indexes().CreateOne(ctx, idxModel); err != nil {
		logger.Warnf("mongo: cannot ensure id index on %s: %v", col.Name(), err)
	}
	return &MongoRepo{col: col, counters: col.Database().Collection("counters")}
}

func (m *MongoRepo) nextID(ctx context.Context) (int, error) {
	var out struct {
		Seq int `bson:"seq"`
	}
	err := m.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": m.col.Name()},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&out)
	return out.Seq, err
}

func (m *MongoRepo) Create(ctx context.Context, u *models.User) error {
	id, err := m.nextID(ctx)
	if err != nil {
		return err
	}
	u.ID = id
	_, err = m.col.InsertOne(ctx, u)
	return err
}

func (m *MongoRepo) Get(ctx context.Context, id int) (models.User, error) {
	var u models.User
	err := m.col.FindOne(ctx, bson.M{"id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	return u, err
}

func (m *MongoRepo) List(ctx context.Context) ([]models.User, error) {
	cur, err := m.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.User{}
	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, cur.Err()
}

func (m *MongoRepo) Replace(ctx context.Context, u models.User) error {
	res, err := m.col.UpdateOne(ctx, bson.M{"id": u.ID}, bson.M{"$set": bson.M{"name": u.Name, "email": u.Email}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) Delete(ctx context.Context, id int) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) Count(ctx context.Context) (int, error) {
	n, err := m.col.CountDocuments(ctx, bson.M{})
	return int(n), err
}
