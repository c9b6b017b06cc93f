// Package mongo is the document store adapter: it wraps the MongoDB driver
// behind the core repository ports and carries no business logic. Driver and
// transport failures are tagged with domain.ErrStoreUnavailable so the core
// can match them without importing the driver.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/callsheet/production-system/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Config captures the minimal settings required to establish a MongoDB
// connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping,
// and returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// EnsureIndexes creates the indexes all repositories rely on. Call once at
// startup after Connect.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := NewProductionRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := NewRosterRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	return NewAuthRepository(db).EnsureIndexes(ctx)
}

// storeErr tags a driver failure so callers can match ErrStoreUnavailable.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
