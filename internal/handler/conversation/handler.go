package conversation

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zhouzirui/smartchat/backend/internal/model/chat"
	"github.com/zhouzirui/smartchat/backend/internal/service/gateway"
	"github.com/zhouzirui/smartchat/backend/pkg/utils"
)

// Handler serves the stored-conversation endpoints.
type Handler struct {
	gateway *gateway.Service
	logger  *zap.Logger
}

// New creates the conversation handler.
func New(gw *gateway.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{gateway: gw, logger: logger}
}

// RegisterRoutes mounts the conversation routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/conversations", h.handleStoreMessage)
	r.Get("/conversations", h.handleListMessages)
}

// handleStoreMessage stores the posted message without validating it.
func (h *Handler) handleStoreMessage(w http.ResponseWriter, r *http.Request) {
	var msg chat.Message
	if err := utils.DecodeJSON(r, &msg); err != nil {
		h.logger.Warn("undecodable message body", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "invalid request body")
		return
	}

	record, err := h.gateway.StoreMessage(r.Context(), msg)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, record)
}

func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	records, err := h.gateway.ListMessages(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, records)
}
