package db

import (
	"context"
	"fmt"
	"time"

	"github.com/krushiiq/apiserver/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	defaultServerSelection = 5 * time.Second
	defaultMaxPoolSize     = 50
)

// OpenMongo connects to MongoDB and waits until the primary answers.
func OpenMongo(ctx context.Context, cfg config.Config) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.Database.MongoURI).
		SetServerSelectionTimeout(defaultServerSelection).
		SetMaxPoolSize(defaultMaxPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	err = retryConnect(ctx, func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
		defer cancel()
		return client.Ping(pingCtx, readpref.Primary())
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client, nil
}
