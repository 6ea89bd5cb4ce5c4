package health

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/smartchat/backend/pkg/utils"
)

// RegisterRoutes mounts GET /test.
func RegisterRoutes(r chi.Router) {
	r.Get("/test", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Server is running!"})
	})
}
