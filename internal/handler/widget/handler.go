package widget

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/zhouzirui/smartchat/backend/internal/config"
	"github.com/zhouzirui/smartchat/backend/internal/service/conversation"
	"github.com/zhouzirui/smartchat/backend/pkg/utils"
)

// Handler 聊天组件处理器，提供组件配置并通过WebSocket托管会话
type Handler struct {
	gateway  conversation.Gateway
	cfg      config.WidgetConfig
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// New 创建组件处理器，会话消息转发到 gw
func New(gw conversation.Gateway, cfg config.WidgetConfig, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		gateway: gw,
		cfg:     cfg,
		logger:  logger.With(zap.String("component", "widget")),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册组件路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/widget/config", h.handleConfig)
	r.Get("/widget/ws", h.handleWebSocket)
}

func (h *Handler) handleConfig(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.cfg)
}
