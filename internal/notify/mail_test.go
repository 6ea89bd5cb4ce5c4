package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/zhouzirui/smartchat/backend/internal/model/chat"
)

func testLead() chat.LeadRecord {
	return chat.LeadRecord{
		ID:        "lead-1",
		Lead:      chat.Lead{Email: "a@b.com", Conversation: `[{"content":"hi","type":"user"}]`},
		Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestBodyContainsEmailAndConversation(t *testing.T) {
	got := body(testLead())
	if !strings.Contains(got, "Email: a@b.com") {
		t.Fatalf("body missing email: %q", got)
	}
	if !strings.Contains(got, `"content":"hi"`) {
		t.Fatalf("body missing conversation: %q", got)
	}
	if subject(testLead()) != "New lead: a@b.com" {
		t.Fatalf("unexpected subject %q", subject(testLead()))
	}
}

func TestBuildMessageRejectsBadSender(t *testing.T) {
	if _, err := buildMessage("not an address", []string{"sales@example.com"}, testLead()); err == nil {
		t.Fatal("expected error for invalid sender")
	}
	if _, err := buildMessage("bot@example.com", []string{"sales@example.com"}, testLead()); err != nil {
		t.Fatalf("buildMessage err: %v", err)
	}
}

func TestNewMailerRequiresSettings(t *testing.T) {
	if _, err := NewMailer(MailConfig{Host: "smtp.example.com"}, nil); err == nil {
		t.Fatal("expected error without sender and recipients")
	}
	cfg := MailConfig{Host: "smtp.example.com", Port: 587, From: "bot@example.com", To: []string{"sales@example.com"}}
	if _, err := NewMailer(cfg, nil); err != nil {
		t.Fatalf("NewMailer err: %v", err)
	}
}
