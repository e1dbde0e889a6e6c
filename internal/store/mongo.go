package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoGateway stores documents in a MongoDB database.
type MongoGateway struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoGateway(client *mongo.Client, dbName string) *MongoGateway {
	return &MongoGateway{
		client: client,
		db:     client.Database(dbName),
	}
}

func (g *MongoGateway) InsertOne(ctx context.Context, collection string, doc any) (string, error) {
	result, err := g.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("%s: %w", collection, ErrDuplicate)
		}
		return "", err
	}
	return idString(result.InsertedID), nil
}

func (g *MongoGateway) FindOne(ctx context.Context, collection string, filter Filter, out any) error {
	err := g.db.Collection(collection).FindOne(ctx, mongoFilter(filter)).Decode(out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (g *MongoGateway) UpsertOne(ctx context.Context, collection string, filter Filter, update any) error {
	set, err := toDocument(update)
	if err != nil {
		return err
	}
	delete(set, idField)

	_, err = g.db.Collection(collection).UpdateOne(
		ctx,
		mongoFilter(filter),
		bson.M{"$set": set},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w", collection, ErrDuplicate)
		}
		return err
	}
	return nil
}

func (g *MongoGateway) EnsureUnique(ctx context.Context, collection, field string) error {
	_, err := g.db.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Close disconnects the underlying client.
func (g *MongoGateway) Close(ctx context.Context) error {
	return g.client.Disconnect(ctx)
}

func idString(id any) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// mongoFilter converts hex _id values into ObjectIDs so that ids handed out
// by InsertOne can be used to look documents up again.
func mongoFilter(filter Filter) bson.M {
	out := bson.M{}
	for key, value := range filter {
		if key == idField {
			if hex, ok := value.(string); ok {
				if oid, err := primitive.ObjectIDFromHex(hex); err == nil {
					out[key] = oid
					continue
				}
			}
		}
		out[key] = value
	}
	return out
}
