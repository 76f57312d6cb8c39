package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/nebsit/hr-gateway/internal/api/metrics"
)

const connectTimeout = 10 * time.Second

// Config selects the deployment and database holding the activity log and
// GridFS attachments.
type Config struct {
	URI      string
	Database string
	AppName  string
	// MaxPoolSize 0 keeps the driver default.
	MaxPoolSize uint64
}

// Connect dials MongoDB with command metrics attached and pings the primary.
// It returns the client (for Disconnect) and the configured database.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	if cfg.Database == "" {
		return nil, nil, fmt.Errorf("mongo: database name is required")
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(connectTimeout).
		SetMonitor(commandMonitor())
	if cfg.AppName != "" {
		opts.SetAppName(cfg.AppName)
	}
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, client.Database(cfg.Database), nil
}

func commandMonitor() *event.CommandMonitor {
	return &event.CommandMonitor{
		Succeeded: func(_ context.Context, e *event.CommandSucceededEvent) {
			metrics.StoreCommandDuration.
				WithLabelValues("mongo", strings.ToLower(e.CommandName), "ok").
				Observe(e.Duration.Seconds())
		},
		Failed: func(_ context.Context, e *event.CommandFailedEvent) {
			metrics.StoreCommandDuration.
				WithLabelValues("mongo", strings.ToLower(e.CommandName), "error").
				Observe(e.Duration.Seconds())
		},
	}
}
