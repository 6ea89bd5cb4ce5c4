// Package store defines the backing store behind the persistence gateway.
package store

import (
	"context"
	"errors"

	"github.com/zhouzirui/smartchat/backend/internal/model/chat"
)

// ErrClosed is returned by stores used after Close.
var ErrClosed = errors.New("store closed")

// Store appends and lists conversation records and leads. Lists are returned
// in insertion order, unfiltered.
type Store interface {
	AppendMessage(ctx context.Context, record chat.Record) error
	ListMessages(ctx context.Context) ([]chat.Record, error)
	AppendLead(ctx context.Context, lead chat.LeadRecord) error
	ListLeads(ctx context.Context) ([]chat.LeadRecord, error)
	Close(ctx context.Context) error
}
