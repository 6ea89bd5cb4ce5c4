package lead

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/smartchat/backend/internal/model/chat"
	"github.com/zhouzirui/smartchat/backend/internal/notify"
	"github.com/zhouzirui/smartchat/backend/internal/service/gateway"
	"github.com/zhouzirui/smartchat/backend/internal/store/memory"
)

type failingNotifier struct{}

func (failingNotifier) Notify(context.Context, chat.LeadRecord) error {
	return errors.New("smtp unreachable")
}

func setupRouter(notifier notify.Notifier) *chi.Mux {
	handler := New(gateway.NewService(memory.New(), notifier, nil), nil)
	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func postLead(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/leads", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestStoreLeadThenList(t *testing.T) {
	r := setupRouter(nil)

	resp := postLead(r, `{"email":"a@b.com","conversation":"[]"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var created map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if created["id"] == nil || created["timestamp"] == nil || created["email"] != "a@b.com" {
		t.Fatalf("unexpected record: %v", created)
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/leads", nil))
	var leads []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&leads); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if len(leads) != 1 || leads[0]["id"] != created["id"] || leads[0]["email"] != "a@b.com" {
		t.Fatalf("stored lead not listed: %v", leads)
	}
}

func TestNotificationFailureStillReturnsRecord(t *testing.T) {
	r := setupRouter(failingNotifier{})

	resp := postLead(r, `{"email":"a@b.com","conversation":"[]"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body struct {
		ID           string `json:"id"`
		Notification struct {
			Status string `json:"status"`
			Error  string `json:"error"`
		} `json:"notification"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if body.ID == "" || body.Notification.Status != "failed" || body.Notification.Error == "" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestMalformedLeadIsServerError(t *testing.T) {
	r := setupRouter(nil)
	if resp := postLead(r, `[`); resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}
