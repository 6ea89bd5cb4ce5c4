// Package notify delivers lead notifications to the sales team.
package notify

import (
	"context"

	"github.com/zhouzirui/smartchat/backend/internal/model/chat"
)

// Notifier announces a newly stored lead.
type Notifier interface {
	Notify(ctx context.Context, lead chat.LeadRecord) error
}
