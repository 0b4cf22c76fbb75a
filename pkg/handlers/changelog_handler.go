package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/opsdesk-io/opsdesk-engine/pkg/apperrors"
	"github.com/opsdesk-io/opsdesk-engine/pkg/auth"
	"github.com/opsdesk-io/opsdesk-engine/pkg/models"
	"github.com/opsdesk-io/opsdesk-engine/pkg/services"
)

// ChangeLogListResponse for GET /changelog
type ChangeLogListResponse struct {
	Entries []models.NumberedChangeLogEntry `json:"entries"`
	Total   int                             `json:"total"`
}

// ChangeLogHandler serves the change-history tab.
type ChangeLogHandler struct {
	changeLogService services.ChangeLogService
	logger           *zap.Logger
}

// NewChangeLogHandler creates a new change-log handler.
func NewChangeLogHandler(changeLogService services.ChangeLogService, logger *zap.Logger) *ChangeLogHandler {
	return &ChangeLogHandler{
		changeLogService: changeLogService,
		logger:           logger,
	}
}

// RegisterRoutes registers the change-log handler's routes on the given mux.
func (h *ChangeLogHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	base := "/api/desks/{domain}/changelog"

	mux.HandleFunc("GET "+base, authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("GET "+base+"/{code}", authMiddleware.RequireAuth(h.ListByRecord))
}

// List handles GET /api/desks/{domain}/changelog
func (h *ChangeLogHandler) List(w http.ResponseWriter, r *http.Request) {
	domain, ok := ParseDomain(w, r, h.logger)
	if !ok {
		return
	}

	limit, offset := parsePageParams(r)
	entries, total, err := h.changeLogService.List(r.Context(), domain, limit, offset)
	if err != nil {
		if errors.Is(err, apperrors.ErrPermissionDenied) {
			if err := ErrorResponse(w, http.StatusForbidden, "permission_denied", "Permission denied"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to list change-log entries",
			zap.String("domain", domain.String()),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "list_changelog_failed", "Internal server error"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response := ChangeLogListResponse{Entries: entries, Total: total}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListByRecord handles GET /api/desks/{domain}/changelog/{code}
func (h *ChangeLogHandler) ListByRecord(w http.ResponseWriter, r *http.Request) {
	domain, ok := ParseDomain(w, r, h.logger)
	if !ok {
		return
	}

	code := r.PathValue("code")
	entries, err := h.changeLogService.ListByRecord(r.Context(), domain, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrPermissionDenied) {
			if err := ErrorResponse(w, http.StatusForbidden, "permission_denied", "Permission denied"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to list change-log entries by record",
			zap.String("domain", domain.String()),
			zap.String("record_code", code),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "list_changelog_failed", "Internal server error"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: entries}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
