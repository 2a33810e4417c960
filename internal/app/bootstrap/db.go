// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	userstore "github.com/dalemusser/repairhub/internal/app/store/users"
	"github.com/dalemusser/repairhub/internal/app/system/indexes"
	"github.com/dalemusser/repairhub/internal/app/system/timeouts"
	"github.com/dalemusser/repairhub/internal/app/system/validators"
	"github.com/dalemusser/repairhub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// connectMaxElapsed bounds how long startup keeps retrying MongoDB.
const connectMaxElapsed = 30 * time.Second

// ConnectDB opens the MongoDB client and verifies it with a ping. A database
// that is still starting (common under docker compose) is retried with
// exponential backoff.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = connectMaxElapsed

	attempt := 0
	ping := func() error {
		attempt++
		pctx, cancel := context.WithTimeout(ctx, timeouts.Ping())
		defer cancel()
		return client.Ping(pctx, nil)
	}
	notify := func(err error, wait time.Duration) {
		logger.Warn("MongoDB not reachable yet, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err))
	}
	if err := backoff.RetryNotify(ping, backoff.WithContext(bo, ctx), notify); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Int("attempts", attempt))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema installs collection validators and indexes, then makes sure
// the configured administrator exists.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := validators.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		return fmt.Errorf("ensure validators: %w", err)
	}
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	logger.Info("schema ensured")

	if appCfg.AdminUsername == "" {
		return nil
	}
	return EnsureAdmin(ctx, deps.MongoDatabase, appCfg.AdminUsername, appCfg.AdminPassword, logger)
}

// EnsureAdmin creates the named administrator, or promotes an existing user
// of that name. An existing user's password is left untouched.
func EnsureAdmin(ctx context.Context, db *mongo.Database, username, password string, logger *zap.Logger) error {
	users := userstore.New(db)

	u, err := users.GetByUsername(ctx, username)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		created, err := users.Create(ctx, username, password, models.RoleAdmin)
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		logger.Info("created administrator", zap.String("username", created.Username))
		return nil
	case err != nil:
		return fmt.Errorf("find admin: %w", err)
	}

	if u.IsAdmin() {
		return nil
	}

	if err := users.AddRole(ctx, u.ID, models.RoleAdmin); err != nil {
		return fmt.Errorf("promote admin: %w", err)
	}
	logger.Info("promoted user to administrator", zap.String("username", u.Username))
	return nil
}
