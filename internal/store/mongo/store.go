package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/zhouzirui/smartchat/backend/internal/model/chat"
)

const (
	conversationsCollection = "conversations"
	leadsCollection         = "leads"
)

// Store persists records as documents in two MongoDB collections.
type Store struct {
	client        *mongo.Client
	conversations *mongo.Collection
	leads         *mongo.Collection
	logger        *zap.Logger
}

// Connect dials uri and verifies the deployment is reachable.
func Connect(ctx context.Context, uri, database string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(database)
	logger.Info("mongo store ready", zap.String("database", database))
	return &Store{
		client:        client,
		conversations: db.Collection(conversationsCollection),
		leads:         db.Collection(leadsCollection),
		logger:        logger,
	}, nil
}

// byInsertion sorts documents by gateway timestamp; collections have no
// natural order otherwise.
func byInsertion() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}})
}

func (s *Store) AppendMessage(ctx context.Context, record chat.Record) error {
	if _, err := s.conversations.InsertOne(ctx, record); err != nil {
		s.logger.Error("insert message failed", zap.String("id", record.ID), zap.Error(err))
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (s *Store) ListMessages(ctx context.Context) ([]chat.Record, error) {
	cursor, err := s.conversations.Find(ctx, bson.D{}, byInsertion())
	if err != nil {
		return nil, fmt.Errorf("find messages: %w", err)
	}
	records := make([]chat.Record, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	return records, nil
}

func (s *Store) AppendLead(ctx context.Context, lead chat.LeadRecord) error {
	if _, err := s.leads.InsertOne(ctx, lead); err != nil {
		s.logger.Error("insert lead failed", zap.String("id", lead.ID), zap.Error(err))
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (s *Store) ListLeads(ctx context.Context) ([]chat.LeadRecord, error) {
	cursor, err := s.leads.Find(ctx, bson.D{}, byInsertion())
	if err != nil {
		return nil, fmt.Errorf("find leads: %w", err)
	}
	leads := make([]chat.LeadRecord, 0)
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, fmt.Errorf("decode leads: %w", err)
	}
	return leads, nil
}

func (s *Store) Close(ctx context.Context) error {
	s.logger.Info("disconnecting mongo store")
	return s.client.Disconnect(ctx)
}
