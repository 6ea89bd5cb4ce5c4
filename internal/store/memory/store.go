package memory

import (
	"context"
	"sync"

	"github.com/zhouzirui/smartchat/backend/internal/model/chat"
	"github.com/zhouzirui/smartchat/backend/internal/store"
)

// Store keeps records in process memory. Contents are lost on restart.
type Store struct {
	mu       sync.RWMutex
	messages []chat.Record
	leads    []chat.LeadRecord
	closed   bool
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		messages: make([]chat.Record, 0, 64),
		leads:    make([]chat.LeadRecord, 0, 16),
	}
}

func (s *Store) AppendMessage(_ context.Context, record chat.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return store.ErrClosed
	}
	s.messages = append(s.messages, record)
	return nil
}

func (s *Store) ListMessages(_ context.Context) ([]chat.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, store.ErrClosed
	}
	return append(make([]chat.Record, 0, len(s.messages)), s.messages...), nil
}

func (s *Store) AppendLead(_ context.Context, lead chat.LeadRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return store.ErrClosed
	}
	s.leads = append(s.leads, lead)
	return nil
}

func (s *Store) ListLeads(_ context.Context) ([]chat.LeadRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, store.ErrClosed
	}
	return append(make([]chat.LeadRecord, 0, len(s.leads)), s.leads...), nil
}

// Close drops the stored records.
func (s *Store) Close(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.messages = nil
	s.leads = nil
	return nil
}
