package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/zhouzirui/smartchat/backend/internal/client"
	"github.com/zhouzirui/smartchat/backend/internal/config"
	"github.com/zhouzirui/smartchat/backend/internal/handler"
	"github.com/zhouzirui/smartchat/backend/internal/model/chat"
	"github.com/zhouzirui/smartchat/backend/internal/service/conversation"
	"github.com/zhouzirui/smartchat/backend/internal/service/gateway"
	"github.com/zhouzirui/smartchat/backend/internal/store/memory"
)

func TestClientAgainstGateway(t *testing.T) {
	svc := gateway.NewService(memory.New(), nil, nil)
	srv := httptest.NewServer(handler.NewRouter(svc, config.DefaultWidgetConfig(), nil, nil))
	defer srv.Close()

	c := client.New(srv.URL+"/", nil)
	ctx := context.Background()

	if err := c.SaveMessage(ctx, chat.Message{Content: "hi", Author: chat.AuthorUser}); err != nil {
		t.Fatalf("SaveMessage err: %v", err)
	}
	if err := c.SaveLead(ctx, chat.Lead{Email: "a@b.com", Conversation: "[]"}); err != nil {
		t.Fatalf("SaveLead err: %v", err)
	}

	leads, err := c.ListLeads(ctx)
	if err != nil {
		t.Fatalf("ListLeads err: %v", err)
	}
	if len(leads) != 1 || leads[0].Email != "a@b.com" || leads[0].ID == "" {
		t.Fatalf("unexpected leads: %+v", leads)
	}
}

func TestClientReportsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"store write failed"}`))
	}))
	defer srv.Close()

	err := client.New(srv.URL, nil).SaveMessage(context.Background(), chat.Message{Content: "hi"})
	var statusErr *client.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Status != http.StatusInternalServerError || statusErr.Message != "store write failed" {
		t.Fatalf("unexpected status error: %+v", statusErr)
	}
}

func TestEngineForwardsThroughClient(t *testing.T) {
	svc := gateway.NewService(memory.New(), nil, nil)
	srv := httptest.NewServer(handler.NewRouter(svc, config.DefaultWidgetConfig(), nil, nil))
	defer srv.Close()

	fake := clockwork.NewFakeClockAt(time.Unix(0, 0))
	engine := conversation.NewEngine(context.Background(), client.New(srv.URL, nil), conversation.Options{Clock: fake})
	_ = engine.Open()
	_ = engine.SetInput("please contact me")
	if err := engine.Submit(); err != nil {
		t.Fatalf("Submit err: %v", err)
	}
	fake.Advance(time.Second)
	deadline := time.Now().Add(2 * time.Second)
	for !engine.State().EmailPromptVisible {
		if time.Now().After(deadline) {
			t.Fatal("email prompt never shown")
		}
		time.Sleep(time.Millisecond)
	}
	_ = engine.SetEmail("a@b.com")
	if err := engine.SubmitEmail(); err != nil {
		t.Fatalf("SubmitEmail err: %v", err)
	}
	engine.Dispose()

	ctx := context.Background()
	records, _ := svc.ListMessages(ctx)
	leads, _ := svc.ListLeads(ctx)
	if len(records) != 3 || len(leads) != 1 {
		t.Fatalf("expected 3 records and 1 lead, got %d and %d", len(records), len(leads))
	}
}
