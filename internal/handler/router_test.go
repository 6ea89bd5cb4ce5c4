package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zhouzirui/smartchat/backend/internal/config"
	"github.com/zhouzirui/smartchat/backend/internal/model/chat"
	"github.com/zhouzirui/smartchat/backend/internal/service/gateway"
	"github.com/zhouzirui/smartchat/backend/internal/store/memory"
)

func TestRouterServesHealthAndAPI(t *testing.T) {
	svc := gateway.NewService(memory.New(), nil, nil)
	router := NewRouter(svc, config.DefaultWidgetConfig(), nil, nil)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/test", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var health map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if health["message"] != "Server is running!" {
		t.Fatalf("unexpected health body: %v", health)
	}

	payload, _ := json.Marshal(chat.Lead{Email: "a@b.com", Conversation: "[]"})
	req := httptest.NewRequest(http.MethodPost, "/api/leads", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	leads, _ := svc.ListLeads(context.Background())
	if len(leads) != 1 {
		t.Fatalf("expected lead stored through router, got %d", len(leads))
	}
}

func TestRouterCORSHeaders(t *testing.T) {
	router := NewRouter(gateway.NewService(memory.New(), nil, nil), config.DefaultWidgetConfig(), []string{"https://shop.example.com"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/conversations", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example.com" {
		t.Fatalf("unexpected allow-origin %q", got)
	}
}

func TestRouterEmptyListsAreArrays(t *testing.T) {
	router := NewRouter(gateway.NewService(memory.New(), nil, nil), config.DefaultWidgetConfig(), nil, nil)

	for _, path := range []string{"/api/conversations", "/api/leads"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d", path, resp.Code)
		}
		if body := strings.TrimSpace(resp.Body.String()); body != "[]" {
			t.Fatalf("GET %s: expected [], got %s", path, body)
		}
	}
}
