package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/zhouzirui/smartchat/backend/internal/model/chat"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	s, err := Open(ctx, filepath.Join(t.TempDir(), "chat.db"), nil)
	if err != nil {
		t.Fatalf("Open err: %v", err)
	}
	t.Cleanup(func() { s.Close(ctx) })
	return s
}

func TestStoreMessagesRoundTripInOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	first := chat.Record{ID: "m-2", Message: chat.Message{Content: "hi", Author: chat.AuthorUser, CreatedAt: now}, Timestamp: now}
	second := chat.Record{ID: "m-1", Message: chat.Message{Content: "hello", Author: chat.AuthorBot}, Timestamp: now.Add(time.Second)}
	for _, rec := range []chat.Record{first, second} {
		if err := s.AppendMessage(ctx, rec); err != nil {
			t.Fatalf("AppendMessage err: %v", err)
		}
	}

	got, err := s.ListMessages(ctx)
	if err != nil {
		t.Fatalf("ListMessages err: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].ID != "m-2" || got[1].ID != "m-1" {
		t.Fatalf("records out of insertion order: %s, %s", got[0].ID, got[1].ID)
	}
	if got[0].Author != chat.AuthorUser || got[0].Content != "hi" {
		t.Fatalf("unexpected first record: %+v", got[0])
	}
	if !got[0].CreatedAt.Equal(now) {
		t.Fatalf("createdAt not preserved: %v", got[0].CreatedAt)
	}
	if !got[1].CreatedAt.IsZero() {
		t.Fatalf("expected zero createdAt, got %v", got[1].CreatedAt)
	}
}

func TestStoreLeads(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	lead := chat.LeadRecord{ID: "l-1", Lead: chat.Lead{Email: "a@b.com", Conversation: "[]"}, Timestamp: time.Now()}
	if err := s.AppendLead(ctx, lead); err != nil {
		t.Fatalf("AppendLead err: %v", err)
	}

	leads, err := s.ListLeads(ctx)
	if err != nil {
		t.Fatalf("ListLeads err: %v", err)
	}
	if len(leads) != 1 || leads[0].Email != "a@b.com" || leads[0].Conversation != "[]" {
		t.Fatalf("unexpected leads: %+v", leads)
	}
}
