package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultTimeout = 10 * time.Second

type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Store bundles the timesheet repositories over one MongoDB database.
type Store struct {
	client *mongo.Client

	Users    *UserRepository
	Projects *ProjectRepository
	TimeLogs *TimeLogRepository
}

// Open connects, pings the primary and creates the collection indexes.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	s := &Store{
		client:   client,
		Users:    NewUserRepository(db),
		Projects: NewProjectRepository(db),
		TimeLogs: NewTimeLogRepository(db),
	}

	for name, ensure := range map[string]func(context.Context) error{
		collectionUsers:    s.Users.EnsureIndexes,
		collectionProjects: s.Projects.EnsureIndexes,
		collectionTimeLogs: s.TimeLogs.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("mongo indexes for %s: %w", name, err)
		}
	}
	return s, nil
}

// Ping reports whether the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
