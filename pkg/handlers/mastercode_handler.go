package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/opsdesk-io/opsdesk-engine/pkg/auth"
	"github.com/opsdesk-io/opsdesk-engine/pkg/services"
)

// MasterCodeHandler serves master-code group lookups for the desk pages'
// select controls.
type MasterCodeHandler struct {
	masterCodeService services.MasterCodeService
	logger            *zap.Logger
}

// NewMasterCodeHandler creates a new master-code handler.
func NewMasterCodeHandler(masterCodeService services.MasterCodeService, logger *zap.Logger) *MasterCodeHandler {
	return &MasterCodeHandler{
		masterCodeService: masterCodeService,
		logger:            logger,
	}
}

// RegisterRoutes registers the master-code handler's routes on the given mux.
func (h *MasterCodeHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/master-codes/{group}", authMiddleware.RequireAuth(h.GetGroup))
}

// GetGroup handles GET /api/master-codes/{group}
func (h *MasterCodeHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	group := r.PathValue("group")

	codes, err := h.masterCodeService.GetGroup(r.Context(), group)
	if err != nil {
		h.logger.Error("Failed to load master codes",
			zap.String("group", group),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "master_codes_failed", "Internal server error"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: codes}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
