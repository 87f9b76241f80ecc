// Package mongostore implements the document store on MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"mockprep/platform/internal/store"
)

// collection names
const (
	UsersCollection      = "users"
	InterviewsCollection = "interviews"
	FeedbackCollection   = "feedback"
	AccountsCollection   = "accounts"
)

// illegalOperation is returned by standalone servers for multi-document
// transactions.
const illegalOperation = 20

type Store struct {
	client     *mongo.Client
	users      *mongo.Collection
	interviews *mongo.Collection
	feedback   *mongo.Collection
	accounts   *mongo.Collection
	logger     *zap.Logger
}

var _ store.Store = (*Store)(nil)

// Open connects to uri, selects database dbName and ensures indexes.
func Open(ctx context.Context, uri, dbName string, logger *zap.Logger) (*Store, error) {
	if uri == "" {
		return nil, errors.New("MONGO_URI is empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to reach mongo: %w", err)
	}

	db := client.Database(dbName)
	s := &Store{
		client:     client,
		users:      db.Collection(UsersCollection),
		interviews: db.Collection(InterviewsCollection),
		feedback:   db.Collection(FeedbackCollection),
		accounts:   db.Collection(AccountsCollection),
		logger:     logger,
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	indexes := []struct {
		col   *mongo.Collection
		model mongo.IndexModel
	}{
		{s.accounts, mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{s.feedback, mongo.IndexModel{Keys: bson.D{{Key: "interviewId", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{s.feedback, mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}}},
		{s.interviews, mongo.IndexModel{Keys: bson.D{{Key: "assignedTo", Value: 1}, {Key: "finalized", Value: 1}, {Key: "createdAt", Value: -1}}}},
		{s.interviews, mongo.IndexModel{Keys: bson.D{{Key: "finalized", Value: 1}, {Key: "createdAt", Value: -1}}}},
		{s.users, mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}}},
	}
	for _, idx := range indexes {
		if _, err := idx.col.Indexes().CreateOne(ctx, idx.model); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", idx.col.Name(), err)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return store.ErrConflict
	case mongo.IsNetworkError(err), mongo.IsTimeout(err):
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return err
}

func transactionsUnsupported(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == illegalOperation
	}
	return false
}
