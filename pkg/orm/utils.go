package orm

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const serverSelectionTimeout = 5 * time.Second

// ConnHandler owns the mongo client for the process. Connecting is
// lazy: a task operation against an unreachable server fails at call
// time with a timeout error rather than at startup, so the API can
// still boot and serve the sample fallback.
type ConnHandler struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewConnHandler(ctx context.Context, uri string, dbName string) (*ConnHandler, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(serverSelectionTimeout)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create mongo client")
		return nil, err
	}

	handler := &ConnHandler{client: client, db: client.Database(dbName)}

	pingCtx, cancel := context.WithTimeout(ctx, serverSelectionTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		log.Warn().Err(err).Msg("MongoDB not reachable at startup, continuing anyway")
	} else {
		log.Info().Str("db", dbName).Msg("Successfully connected to MongoDB")
	}

	return handler, nil
}

func (h *ConnHandler) Database() *mongo.Database {
	return h.db
}

func (h *ConnHandler) OnShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.client.Disconnect(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to disconnect from MongoDB")
		return err
	}
	log.Info().Msg("Disconnected from MongoDB")
	return nil
}

// IsUnavailable reports whether err looks like the storage layer being
// unreachable (server selection or network timeout, disconnected
// client) as opposed to an ordinary operation failure. The check is
// type-based on purpose: error message text is never inspected.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	return mongo.IsTimeout(err) ||
		errors.Is(err, mongo.ErrClientDisconnected) ||
		errors.Is(err, context.DeadlineExceeded)
}
