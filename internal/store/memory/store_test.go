package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/zhouzirui/smartchat/backend/internal/model/chat"
	"github.com/zhouzirui/smartchat/backend/internal/store"
)

func TestStoreListsInInsertionOrder(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, id := range []string{"b", "a", "c"} {
		rec := chat.Record{ID: id, Message: chat.Message{Content: id, Author: chat.AuthorUser}, Timestamp: time.Now()}
		if err := s.AppendMessage(ctx, rec); err != nil {
			t.Fatalf("AppendMessage err: %v", err)
		}
	}

	got, err := s.ListMessages(ctx)
	if err != nil {
		t.Fatalf("ListMessages err: %v", err)
	}
	if len(got) != 3 || got[0].ID != "b" || got[1].ID != "a" || got[2].ID != "c" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestStoreListReturnsCopy(t *testing.T) {
	s := New()
	ctx := context.Background()
	_ = s.AppendLead(ctx, chat.LeadRecord{ID: "1", Lead: chat.Lead{Email: "a@b.com"}})

	leads, _ := s.ListLeads(ctx)
	leads[0].Email = "changed"

	again, _ := s.ListLeads(ctx)
	if again[0].Email != "a@b.com" {
		t.Fatalf("store mutated through list result: %s", again[0].Email)
	}
}

func TestStoreConcurrentAppends(t *testing.T) {
	s := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.AppendMessage(ctx, chat.Record{ID: "x"})
		}()
	}
	wg.Wait()

	got, _ := s.ListMessages(ctx)
	if len(got) != 50 {
		t.Fatalf("expected 50 records, got %d", len(got))
	}
}

func TestStoreClosed(t *testing.T) {
	s := New()
	ctx := context.Background()
	if err := s.Close(ctx); err != nil {
		t.Fatalf("Close err: %v", err)
	}
	if err := s.AppendLead(ctx, chat.LeadRecord{}); !errors.Is(err, store.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestStoreEmptyListsAreNotNil(t *testing.T) {
	s := New()
	ctx := context.Background()

	messages, err := s.ListMessages(ctx)
	if err != nil || messages == nil {
		t.Fatalf("expected empty non-nil messages, got %v (err %v)", messages, err)
	}
	leads, err := s.ListLeads(ctx)
	if err != nil || leads == nil {
		t.Fatalf("expected empty non-nil leads, got %v (err %v)", leads, err)
	}
}
