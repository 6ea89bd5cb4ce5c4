package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zhouzirui/smartchat/backend/internal/model/chat"
	"github.com/zhouzirui/smartchat/backend/internal/notify"
	"github.com/zhouzirui/smartchat/backend/internal/store"
)

// ErrStoreFailed marks failures of the backing store.
var ErrStoreFailed = errors.New("store write failed")

// NotificationStatus reports what happened to the lead notification step.
type NotificationStatus string

const (
	NotificationSkipped NotificationStatus = "skipped"
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
)

// LeadOutcome separates lead persistence from the notification that follows it.
// Record is always set when StoreLead returns a nil error.
type LeadOutcome struct {
	Record       chat.LeadRecord
	Notification NotificationStatus
	NotifyErr    error
}

// Service is the persistence gateway: it stamps records with an id and a
// timestamp, writes them to the store and notifies on new leads.
type Service struct {
	store    store.Store
	notifier notify.Notifier
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// NewService wires a gateway over st. A nil notifier disables notifications.
func NewService(st store.Store, notifier notify.Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    st,
		notifier: notifier,
		logger:   logger.With(zap.String("component", "gateway")),
		now:      func() time.Time { return time.Now().UTC() },
		newID:    newOrderedID,
	}
}

// newOrderedID returns a UUIDv7. Ids from one process sort in creation order,
// which breaks timestamp ties in stores that sort on (timestamp, id).
func newOrderedID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// StoreMessage persists msg as-is. Author and content are not validated.
func (s *Service) StoreMessage(ctx context.Context, msg chat.Message) (chat.Record, error) {
	record := chat.Record{
		ID:        s.newID(),
		Message:   msg,
		Timestamp: s.now(),
	}
	if err := s.store.AppendMessage(ctx, record); err != nil {
		s.logger.Error("store message failed", zap.Error(err))
		return chat.Record{}, fmt.Errorf("%w: %w", ErrStoreFailed, err)
	}
	s.logger.Debug("message stored", zap.String("id", record.ID), zap.String("type", string(msg.Author)))
	return record, nil
}

// StoreLead persists the lead, then attempts the notification. A failed
// notification does not undo the write; it is reported in the outcome.
func (s *Service) StoreLead(ctx context.Context, lead chat.Lead) (LeadOutcome, error) {
	record := chat.LeadRecord{
		ID:        s.newID(),
		Lead:      lead,
		Timestamp: s.now(),
	}
	if err := s.store.AppendLead(ctx, record); err != nil {
		s.logger.Error("store lead failed", zap.Error(err))
		return LeadOutcome{}, fmt.Errorf("%w: %w", ErrStoreFailed, err)
	}
	s.logger.Info("lead stored", zap.String("id", record.ID), zap.String("email", record.Email))

	outcome := LeadOutcome{Record: record, Notification: NotificationSkipped}
	if s.notifier == nil {
		return outcome, nil
	}
	if err := s.notifier.Notify(ctx, record); err != nil {
		s.logger.Warn("lead stored but notification failed", zap.String("id", record.ID), zap.Error(err))
		outcome.Notification = NotificationFailed
		outcome.NotifyErr = err
		return outcome, nil
	}
	outcome.Notification = NotificationSent
	return outcome, nil
}

// ListMessages returns every stored conversation record in insertion order.
func (s *Service) ListMessages(ctx context.Context) ([]chat.Record, error) {
	records, err := s.store.ListMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return records, nil
}

// ListLeads returns every stored lead in insertion order.
func (s *Service) ListLeads(ctx context.Context) ([]chat.LeadRecord, error) {
	leads, err := s.store.ListLeads(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	return leads, nil
}

// SaveMessage lets an in-process conversation engine forward into the gateway.
func (s *Service) SaveMessage(ctx context.Context, msg chat.Message) error {
	_, err := s.StoreMessage(ctx, msg)
	return err
}

// SaveLead lets an in-process conversation engine forward a captured lead.
func (s *Service) SaveLead(ctx context.Context, lead chat.Lead) error {
	_, err := s.StoreLead(ctx, lead)
	return err
}
