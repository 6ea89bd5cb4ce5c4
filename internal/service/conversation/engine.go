package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/zhouzirui/smartchat/backend/internal/analysis/intent"
	"github.com/zhouzirui/smartchat/backend/internal/model/chat"
)

var (
	ErrDisposed     = errors.New("session disposed")
	ErrEmptyInput   = errors.New("input is empty")
	ErrPromptHidden = errors.New("email prompt is not visible")
	ErrEmptyEmail   = errors.New("email is required")
)

const (
	DefaultWelcomeMessage = "Hello! How can I help you today?"
	DefaultReplyDelay     = time.Second
	defaultForwardTimeout = 10 * time.Second
)

// Gateway receives the messages and leads produced by a session.
type Gateway interface {
	SaveMessage(ctx context.Context, msg chat.Message) error
	SaveLead(ctx context.Context, lead chat.Lead) error
}

// Options configures an Engine. Zero values fall back to defaults.
type Options struct {
	WelcomeMessage string
	ReplyDelay     time.Duration
	ForwardTimeout time.Duration
	Clock          clockwork.Clock
	Sink           Sink
	Logger         *zap.Logger
	// OnChange receives a snapshot after every state transition. It runs with
	// the engine locked and must not call back into the Engine.
	OnChange func(State)
}

// State is a snapshot of one widget session.
type State struct {
	Open               bool           `json:"isOpen"`
	Transcript         []chat.Message `json:"messages"`
	PendingInput       string         `json:"userInput"`
	EmailPromptVisible bool           `json:"showEmailPrompt"`
	CapturedEmail      string         `json:"customerEmail"`
	WaitingForReply    bool           `json:"isWaiting"`
}

// Engine owns the conversational state of one widget instance.
type Engine struct {
	gateway Gateway
	opts    Options
	baseCtx context.Context
	logger  *zap.Logger

	mu          sync.Mutex
	open        bool
	transcript  []chat.Message
	input       string
	promptShown bool
	email       string
	pending     map[uint64]clockwork.Timer
	nextTimerID uint64
	disposed    bool
	forwards    sync.WaitGroup
}

// NewEngine starts a closed session. ctx bounds the lifetime of forwarding
// calls; a nil gateway keeps the transcript local.
func NewEngine(ctx context.Context, gateway Gateway, opts Options) *Engine {
	if opts.WelcomeMessage == "" {
		opts.WelcomeMessage = DefaultWelcomeMessage
	}
	if opts.ReplyDelay <= 0 {
		opts.ReplyDelay = DefaultReplyDelay
	}
	if opts.ForwardTimeout <= 0 {
		opts.ForwardTimeout = defaultForwardTimeout
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Sink == nil {
		opts.Sink = NewLogSink(opts.Logger)
	}

	return &Engine{
		gateway: gateway,
		opts:    opts,
		baseCtx: ctx,
		logger:  opts.Logger.With(zap.String("component", "conversation")),
		pending: make(map[uint64]clockwork.Timer),
	}
}

// Open shows the widget. The welcome message is added only to an empty transcript.
func (e *Engine) Open() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return ErrDisposed
	}
	if e.open {
		return nil
	}

	e.open = true
	if len(e.transcript) == 0 {
		e.appendLocked(chat.AuthorBot, e.opts.WelcomeMessage)
	}
	e.changedLocked()
	return nil
}

// Close hides the widget; the transcript and email prompt survive re-opening.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return ErrDisposed
	}
	if !e.open {
		return nil
	}
	e.open = false
	e.changedLocked()
	return nil
}

// SetInput replaces the pending input text.
func (e *Engine) SetInput(text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return ErrDisposed
	}
	e.input = text
	e.changedLocked()
	return nil
}

// HandleKey submits the pending input when key is Enter.
func (e *Engine) HandleKey(key string) error {
	if key != "Enter" {
		return nil
	}
	return e.Submit()
}

// Submit sends the pending input as a user message and schedules the bot
// reply. Whitespace-only input is rejected with ErrEmptyInput and changes nothing.
func (e *Engine) Submit() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return ErrDisposed
	}

	text := e.input
	if strings.TrimSpace(text) == "" {
		return ErrEmptyInput
	}

	msg := e.appendLocked(chat.AuthorUser, text)
	e.forwardMessage(msg)
	e.input = ""

	id := e.nextTimerID
	e.nextTimerID++
	e.pending[id] = e.opts.Clock.AfterFunc(e.opts.ReplyDelay, func() {
		e.reply(id, text)
	})

	e.changedLocked()
	return nil
}

func (e *Engine) reply(id uint64, userText string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return
	}
	if _, ok := e.pending[id]; !ok {
		return
	}
	delete(e.pending, id)

	answer := intent.Respond(userText)
	msg := e.appendLocked(chat.AuthorBot, answer.Text)
	e.forwardMessage(msg)

	if intent.ShouldCollectEmail(userText) && !e.promptShown {
		e.promptShown = true
	}
	e.logger.Debug("bot replied", zap.String("topic", string(answer.Topic)), zap.Bool("emailPrompt", e.promptShown))
	e.changedLocked()
}

// SetEmail replaces the email typed into the capture form.
func (e *Engine) SetEmail(email string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return ErrDisposed
	}
	e.email = email
	e.changedLocked()
	return nil
}

// SubmitEmail forwards the captured email with a transcript snapshot as a lead,
// confirms it in the transcript and hides the prompt.
func (e *Engine) SubmitEmail() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return ErrDisposed
	}
	if !e.promptShown {
		return ErrPromptHidden
	}
	if e.email == "" {
		return ErrEmptyEmail
	}

	email := e.email
	conversation, err := chat.EncodeTranscript(e.transcript)
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}
	e.forwardLead(chat.Lead{Email: email, Conversation: conversation})

	confirmation := e.appendLocked(chat.AuthorBot, fmt.Sprintf("Thanks! We'll contact you at %s soon.", email))
	e.forwardMessage(confirmation)

	e.promptShown = false
	e.email = ""
	e.changedLocked()
	return nil
}

// State returns a copy of the current session state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Wait blocks until every in-flight forwarding call has reported its outcome.
func (e *Engine) Wait() {
	e.forwards.Wait()
}

// Dispose tears the session down. Pending replies are cancelled and never
// fire; in-flight forwards are allowed to finish.
func (e *Engine) Dispose() {
	e.mu.Lock()
	if !e.disposed {
		e.disposed = true
		for id, timer := range e.pending {
			timer.Stop()
			delete(e.pending, id)
		}
	}
	e.mu.Unlock()
	e.forwards.Wait()
}

func (e *Engine) appendLocked(author chat.Author, content string) chat.Message {
	msg := chat.Message{
		Content:   content,
		Author:    author,
		CreatedAt: e.opts.Clock.Now(),
	}
	e.transcript = append(e.transcript, msg)
	return msg
}

func (e *Engine) snapshotLocked() State {
	return State{
		Open:               e.open,
		Transcript:         append([]chat.Message(nil), e.transcript...),
		PendingInput:       e.input,
		EmailPromptVisible: e.promptShown,
		CapturedEmail:      e.email,
		WaitingForReply:    len(e.pending) > 0,
	}
}

func (e *Engine) changedLocked() {
	if e.opts.OnChange != nil {
		e.opts.OnChange(e.snapshotLocked())
	}
}
