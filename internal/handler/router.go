package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/zhouzirui/smartchat/backend/internal/config"
	"github.com/zhouzirui/smartchat/backend/internal/handler/conversation"
	"github.com/zhouzirui/smartchat/backend/internal/handler/health"
	"github.com/zhouzirui/smartchat/backend/internal/handler/lead"
	"github.com/zhouzirui/smartchat/backend/internal/handler/widget"
	middlewarePkg "github.com/zhouzirui/smartchat/backend/internal/middleware"
	"github.com/zhouzirui/smartchat/backend/internal/service/gateway"
)

// NewRouter wires HTTP routes to the gateway service.
func NewRouter(gw *gateway.Service, widgetCfg config.WidgetConfig, allowedOrigins []string, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(allowedOrigins))

	health.RegisterRoutes(r)

	conversationHandler := conversation.New(gw, logger)
	leadHandler := lead.New(gw, logger)
	widgetHandler := widget.New(gw, widgetCfg, logger)

	r.Route("/api", func(api chi.Router) {
		conversationHandler.RegisterRoutes(api)
		leadHandler.RegisterRoutes(api)
		widgetHandler.RegisterRoutes(api)
	})

	return r
}
