package widget

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/zhouzirui/smartchat/backend/internal/service/conversation"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

// inboundMessage 浏览器发送的组件事件
type inboundMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type outgoingMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// session 将一个WebSocket连接绑定到一个对话引擎
type session struct {
	id     string
	conn   *websocket.Conn
	logger *zap.Logger

	writeMu sync.Mutex
}

func (s *session) send(msgType string, data any) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	msg := outgoingMessage{
		Type:      msgType,
		SessionID: s.id,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
	if err := s.conn.WriteJSON(msg); err != nil {
		s.logger.Debug("write failed", zap.String("type", msgType), zap.Error(err))
	}
}

func (s *session) sendError(message string) {
	s.send("error", map[string]string{"message": message})
}

func (s *session) ping() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
}

// handleWebSocket 处理WebSocket连接
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	sess := &session{
		id:   uuid.NewString(),
		conn: conn,
	}
	sess.logger = h.logger.With(zap.String("session", sess.id))
	sess.logger.Info("widget session opened")

	engine := conversation.NewEngine(context.WithoutCancel(r.Context()), h.gateway, conversation.Options{
		WelcomeMessage: h.cfg.WelcomeMessage,
		ReplyDelay:     h.cfg.ReplyDelay,
		Logger:         sess.logger,
		OnChange: func(state conversation.State) {
			sess.send("state", state)
		},
	})
	defer func() {
		engine.Dispose()
		sess.logger.Info("widget session closed")
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	go h.pingLoop(ctx, sess)

	sess.send("connected", map[string]any{"config": h.cfg})

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				sess.logger.Warn("read error", zap.Error(err))
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(readTimeout))

		if err := h.dispatch(engine, msg); err != nil {
			sess.sendError(err.Error())
		}
	}
}

// dispatch 应用一个组件事件，空输入的提交直接忽略。
func (h *Handler) dispatch(engine *conversation.Engine, msg inboundMessage) error {
	err := h.apply(engine, msg)
	if errors.Is(err, conversation.ErrEmptyInput) {
		return nil
	}
	return err
}

func (h *Handler) apply(engine *conversation.Engine, msg inboundMessage) error {
	switch msg.Type {
	case "open":
		return engine.Open()
	case "close":
		return engine.Close()
	case "input":
		return engine.SetInput(msg.Text)
	case "key":
		return engine.HandleKey(msg.Text)
	case "send":
		return engine.Submit()
	case "email":
		return engine.SetEmail(msg.Text)
	case "submitEmail":
		return engine.SubmitEmail()
	default:
		return errors.New("unsupported message type: " + msg.Type)
	}
}

// pingLoop 定期发送ping消息
func (h *Handler) pingLoop(ctx context.Context, sess *session) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sess.ping(); err != nil {
				return
			}
		}
	}
}
