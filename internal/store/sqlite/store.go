package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/zhouzirui/smartchat/backend/internal/model/chat"
)

// Store persists records into a SQLite database file.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (creating if needed) the database at path and ensures the schema.
func Open(ctx context.Context, path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// A single connection keeps inserts serialized.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, createTables); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	logger.Info("sqlite store ready", zap.String("path", path))
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) AppendMessage(ctx context.Context, record chat.Record) error {
	var createdAt any
	if !record.CreatedAt.IsZero() {
		createdAt = record.CreatedAt.UTC()
	}
	_, err := s.db.ExecContext(ctx, insertMessage,
		record.ID, record.Content, string(record.Author), createdAt, record.Timestamp.UTC())
	if err != nil {
		s.logger.Error("insert message failed", zap.String("id", record.ID), zap.Error(err))
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (s *Store) ListMessages(ctx context.Context) ([]chat.Record, error) {
	rows, err := s.db.QueryContext(ctx, selectMessages)
	if err != nil {
		return nil, fmt.Errorf("select messages: %w", err)
	}
	defer rows.Close()

	records := make([]chat.Record, 0)
	for rows.Next() {
		var (
			rec       chat.Record
			author    string
			createdAt sql.NullTime
		)
		if err := rows.Scan(&rec.ID, &rec.Content, &author, &createdAt, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("scan message row: %w", err)
		}
		rec.Author = chat.Author(author)
		if createdAt.Valid {
			rec.CreatedAt = createdAt.Time
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate message rows: %w", err)
	}
	return records, nil
}

func (s *Store) AppendLead(ctx context.Context, lead chat.LeadRecord) error {
	_, err := s.db.ExecContext(ctx, insertLead, lead.ID, lead.Email, lead.Conversation, lead.Timestamp.UTC())
	if err != nil {
		s.logger.Error("insert lead failed", zap.String("id", lead.ID), zap.Error(err))
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (s *Store) ListLeads(ctx context.Context) ([]chat.LeadRecord, error) {
	rows, err := s.db.QueryContext(ctx, selectLeads)
	if err != nil {
		return nil, fmt.Errorf("select leads: %w", err)
	}
	defer rows.Close()

	leads := make([]chat.LeadRecord, 0)
	for rows.Next() {
		var lead chat.LeadRecord
		var ts time.Time
		if err := rows.Scan(&lead.ID, &lead.Email, &lead.Conversation, &ts); err != nil {
			return nil, fmt.Errorf("scan lead row: %w", err)
		}
		lead.Timestamp = ts
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lead rows: %w", err)
	}
	return leads, nil
}

func (s *Store) Close(_ context.Context) error {
	s.logger.Info("closing sqlite store")
	return s.db.Close()
}
