package lead

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zhouzirui/smartchat/backend/internal/model/chat"
	"github.com/zhouzirui/smartchat/backend/internal/service/gateway"
	"github.com/zhouzirui/smartchat/backend/pkg/utils"
)

// Handler serves the lead capture endpoints.
type Handler struct {
	gateway *gateway.Service
	logger  *zap.Logger
}

// New creates the lead handler.
func New(gw *gateway.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{gateway: gw, logger: logger}
}

// RegisterRoutes mounts the lead routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/leads", h.handleStoreLead)
	r.Get("/leads", h.handleListLeads)
}

type notificationResult struct {
	Status gateway.NotificationStatus `json:"status"`
	Error  string                     `json:"error,omitempty"`
}

type leadResponse struct {
	chat.LeadRecord
	Notification notificationResult `json:"notification"`
}

// handleStoreLead persists the lead. A failed notification is reported in
// the body of a successful response since the lead is already stored.
func (h *Handler) handleStoreLead(w http.ResponseWriter, r *http.Request) {
	var payload chat.Lead
	if err := utils.DecodeJSON(r, &payload); err != nil {
		h.logger.Warn("undecodable lead body", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "invalid request body")
		return
	}

	outcome, err := h.gateway.StoreLead(r.Context(), payload)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := leadResponse{
		LeadRecord:   outcome.Record,
		Notification: notificationResult{Status: outcome.Notification},
	}
	if outcome.NotifyErr != nil {
		resp.Notification.Error = outcome.NotifyErr.Error()
	}
	utils.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := h.gateway.ListLeads(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, leads)
}
