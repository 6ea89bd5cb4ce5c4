package conversation

import (
	"context"

	"go.uber.org/zap"

	"github.com/zhouzirui/smartchat/backend/internal/model/chat"
)

// Kind tells which gateway call an Outcome belongs to.
type Kind string

const (
	KindMessage Kind = "message"
	KindLead    Kind = "lead"
)

// Outcome is the result of one fire-and-forget gateway call.
type Outcome struct {
	Kind    Kind
	Message chat.Message
	Lead    chat.Lead
	Err     error
}

// Sink receives forwarding outcomes. Reports arrive from background goroutines.
type Sink interface {
	Report(Outcome)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Outcome)

func (f SinkFunc) Report(o Outcome) { f(o) }

type logSink struct {
	logger *zap.Logger
}

// NewLogSink logs failed forwards as warnings and successful ones at debug level.
func NewLogSink(logger *zap.Logger) Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logSink{logger: logger.With(zap.String("component", "forwarder"))}
}

func (s logSink) Report(o Outcome) {
	fields := []zap.Field{zap.String("kind", string(o.Kind))}
	switch o.Kind {
	case KindLead:
		fields = append(fields, zap.String("email", o.Lead.Email))
	default:
		fields = append(fields, zap.String("type", string(o.Message.Author)))
	}
	if o.Err != nil {
		s.logger.Warn("forward to gateway failed", append(fields, zap.Error(o.Err))...)
		return
	}
	s.logger.Debug("forwarded to gateway", fields...)
}

// forwardMessage and forwardLead never block the caller; the transcript is
// updated regardless of the result.
func (e *Engine) forwardMessage(msg chat.Message) {
	if e.gateway == nil {
		return
	}
	e.forwards.Add(1)
	go func() {
		defer e.forwards.Done()
		ctx, cancel := context.WithTimeout(e.baseCtx, e.opts.ForwardTimeout)
		defer cancel()
		err := e.gateway.SaveMessage(ctx, msg)
		e.opts.Sink.Report(Outcome{Kind: KindMessage, Message: msg, Err: err})
	}()
}

func (e *Engine) forwardLead(lead chat.Lead) {
	if e.gateway == nil {
		return
	}
	e.forwards.Add(1)
	go func() {
		defer e.forwards.Done()
		ctx, cancel := context.WithTimeout(e.baseCtx, e.opts.ForwardTimeout)
		defer cancel()
		err := e.gateway.SaveLead(ctx, lead)
		e.opts.Sink.Report(Outcome{Kind: KindLead, Lead: lead, Err: err})
	}()
}
