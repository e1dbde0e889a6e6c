package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// Collection names.
const (
	CollectionUsers           = "users"
	CollectionFarmers         = "farmers"
	CollectionRecommendations = "recommendations"
	CollectionPredictions     = "predictions"
	CollectionPesticides      = "pesticide_recommendations"
	CollectionDetections      = "detections"
	CollectionAI              = "ai_recommendations"
)

const idField = "_id"

// Filter selects documents by exact field equality.
type Filter map[string]any

// Gateway is the document store used by the repositories.
// Documents are structs with bson tags or plain maps.
type Gateway interface {
	// InsertOne stores doc and returns its identifier.
	InsertOne(ctx context.Context, collection string, doc any) (string, error)

	// FindOne decodes the first document matching filter into out.
	// It returns ErrNotFound when nothing matches.
	FindOne(ctx context.Context, collection string, filter Filter, out any) error

	// UpsertOne sets the fields of update on the document matching filter,
	// inserting filter+update when no document matches.
	UpsertOne(ctx context.Context, collection string, filter Filter, update any) error

	// EnsureUnique makes field unique within collection.
	EnsureUnique(ctx context.Context, collection, field string) error

	Close(ctx context.Context) error
}

// EnsureIndexes declares the unique fields the repositories rely on.
func EnsureIndexes(ctx context.Context, gw Gateway) error {
	if err := gw.EnsureUnique(ctx, CollectionUsers, "email"); err != nil {
		return fmt.Errorf("users.email index: %w", err)
	}
	if err := gw.EnsureUnique(ctx, CollectionFarmers, "name"); err != nil {
		return fmt.Errorf("farmers.name index: %w", err)
	}
	return nil
}

// toDocument flattens a struct or map into a bson.M using its bson tags.
func toDocument(v any) (bson.M, error) {
	if v == nil {
		return bson.M{}, nil
	}
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	doc := bson.M{}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

// withID returns doc with an _id, generating one when missing.
func withID(doc bson.M) (bson.M, string) {
	if id, ok := doc[idField].(string); ok && id != "" {
		return doc, id
	}
	id := uuid.NewString()
	doc[idField] = id
	return doc, id
}
