package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/opsdesk-io/opsdesk-engine/pkg/apperrors"
	"github.com/opsdesk-io/opsdesk-engine/pkg/auth"
	"github.com/opsdesk-io/opsdesk-engine/pkg/models"
	"github.com/opsdesk-io/opsdesk-engine/pkg/services"
)

// ============================================================================
// Request/Response Types
// ============================================================================

// RecordRequest for POST /records and PUT /records/{rid}.
// Dates use the "2006-01-02" wire format.
type RecordRequest struct {
	Title        string `json:"title"`
	Content      string `json:"content,omitempty"`
	Status       string `json:"status,omitempty"`
	Team         string `json:"team,omitempty"`
	Assignee     string `json:"assignee"`
	TypeCode     string `json:"type_code,omitempty"`
	RegisteredAt string `json:"registered_at,omitempty"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
}

// toRecord converts the request body into a record, parsing date fields.
func (req *RecordRequest) toRecord() (*models.Record, error) {
	record := &models.Record{
		Title:    req.Title,
		Content:  req.Content,
		Status:   models.Status(req.Status),
		Team:     req.Team,
		Assignee: req.Assignee,
		TypeCode: req.TypeCode,
	}

	if req.RegisteredAt != "" {
		registered, err := time.Parse(dateParamLayout, req.RegisteredAt)
		if err != nil {
			return nil, fmt.Errorf("invalid registered_at: %w", err)
		}
		record.RegisteredAt = registered
	}
	if req.StartDate != "" {
		start, err := time.Parse(dateParamLayout, req.StartDate)
		if err != nil {
			return nil, fmt.Errorf("invalid start_date: %w", err)
		}
		record.StartDate = &start
	}
	if req.EndDate != "" {
		end, err := time.Parse(dateParamLayout, req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("invalid end_date: %w", err)
		}
		record.EndDate = &end
	}

	return record, nil
}

// MoveStatusRequest for PATCH /records/{rid}/status.
type MoveStatusRequest struct {
	Status string `json:"status"`
}

// BulkDeleteRequest for POST /records/bulk-delete.
type BulkDeleteRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

// ============================================================================
// Handler
// ============================================================================

// RecordHandler handles the desk record HTTP requests: the table, kanban,
// calendar, and dashboard reads plus every mutation.
type RecordHandler struct {
	recordService services.RecordService
	logger        *zap.Logger
}

// NewRecordHandler creates a new record handler.
func NewRecordHandler(recordService services.RecordService, logger *zap.Logger) *RecordHandler {
	return &RecordHandler{
		recordService: recordService,
		logger:        logger,
	}
}

// RegisterRoutes registers the record handler's routes on the given mux.
func (h *RecordHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	base := "/api/desks/{domain}"

	mux.HandleFunc("GET "+base+"/records", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("POST "+base+"/records", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("PUT "+base+"/records/{rid}", authMiddleware.RequireAuth(h.Update))
	mux.HandleFunc("PATCH "+base+"/records/{rid}/status", authMiddleware.RequireAuth(h.MoveStatus))
	mux.HandleFunc("POST "+base+"/records/bulk-delete", authMiddleware.RequireAuth(h.BulkDelete))
	mux.HandleFunc("GET "+base+"/board", authMiddleware.RequireAuth(h.Board))
	mux.HandleFunc("GET "+base+"/calendar", authMiddleware.RequireAuth(h.Calendar))
	mux.HandleFunc("GET "+base+"/summary", authMiddleware.RequireAuth(h.Summary))
}

// List handles GET /api/desks/{domain}/records
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	domain, ok := ParseDomain(w, r, h.logger)
	if !ok {
		return
	}

	page, err := h.recordService.List(r.Context(), domain, parseListQuery(r))
	if err != nil {
		h.writeServiceError(w, err, "list_records_failed", "record list")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: page}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Board handles GET /api/desks/{domain}/board
func (h *RecordHandler) Board(w http.ResponseWriter, r *http.Request) {
	domain, ok := ParseDomain(w, r, h.logger)
	if !ok {
		return
	}

	board, err := h.recordService.Board(r.Context(), domain, parseCriteria(r))
	if err != nil {
		h.writeServiceError(w, err, "board_failed", "kanban board")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: board}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Calendar handles GET /api/desks/{domain}/calendar
func (h *RecordHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	domain, ok := ParseDomain(w, r, h.logger)
	if !ok {
		return
	}

	// On the calendar, year selects the visible window together with month;
	// it is not the registration-year filter the other views use.
	criteria := parseCriteria(r)
	criteria.Year = ""
	year, month := parseCalendarWindow(r)

	buckets, err := h.recordService.Calendar(r.Context(), domain, criteria, year, month)
	if err != nil {
		h.writeServiceError(w, err, "calendar_failed", "calendar")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: buckets}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Summary handles GET /api/desks/{domain}/summary
func (h *RecordHandler) Summary(w http.ResponseWriter, r *http.Request) {
	domain, ok := ParseDomain(w, r, h.logger)
	if !ok {
		return
	}

	summary, err := h.recordService.Summary(r.Context(), domain, parseCriteria(r), parseYear(r))
	if err != nil {
		h.writeServiceError(w, err, "summary_failed", "dashboard summary")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: summary}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /api/desks/{domain}/records
func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	domain, ok := ParseDomain(w, r, h.logger)
	if !ok {
		return
	}

	var req RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	record, err := req.toRecord()
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	created, err := h.recordService.Create(r.Context(), domain, record)
	if err != nil {
		h.writeServiceError(w, err, "create_record_failed", "record create")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: created}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/desks/{domain}/records/{rid}
func (h *RecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	domain, ok := ParseDomain(w, r, h.logger)
	if !ok {
		return
	}
	recordID, ok := ParseRecordID(w, r, h.logger)
	if !ok {
		return
	}

	var req RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	record, err := req.toRecord()
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	record.ID = recordID

	updated, err := h.recordService.Update(r.Context(), domain, record)
	if err != nil {
		h.writeServiceError(w, err, "update_record_failed", "record update")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: updated}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// MoveStatus handles PATCH /api/desks/{domain}/records/{rid}/status
func (h *RecordHandler) MoveStatus(w http.ResponseWriter, r *http.Request) {
	domain, ok := ParseDomain(w, r, h.logger)
	if !ok {
		return
	}
	recordID, ok := ParseRecordID(w, r, h.logger)
	if !ok {
		return
	}

	var req MoveStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	moved, err := h.recordService.MoveStatus(r.Context(), domain, recordID, models.Status(req.Status))
	if err != nil {
		h.writeServiceError(w, err, "move_status_failed", "status move")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: moved}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// BulkDelete handles POST /api/desks/{domain}/records/bulk-delete
func (h *RecordHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	domain, ok := ParseDomain(w, r, h.logger)
	if !ok {
		return
	}

	var req BulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if len(req.IDs) == 0 {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "No record IDs provided"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	result, err := h.recordService.Delete(r.Context(), domain, req.IDs)
	if err != nil {
		h.writeServiceError(w, err, "delete_records_failed", "record delete")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: result}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// writeServiceError maps service errors to HTTP status codes. Validation
// and permission failures are expected outcomes and not logged as errors.
func (h *RecordHandler) writeServiceError(w http.ResponseWriter, err error, errorCode, operation string) {
	switch {
	case errors.Is(err, apperrors.ErrPermissionDenied):
		err = ErrorResponse(w, http.StatusForbidden, "permission_denied", "Permission denied")
	case errors.Is(err, apperrors.ErrNotFound):
		err = ErrorResponse(w, http.StatusNotFound, "record_not_found", "Record not found")
	case errors.Is(err, apperrors.ErrValidation):
		err = ErrorResponse(w, http.StatusBadRequest, "validation_failed", err.Error())
	default:
		h.logger.Error("Record operation failed",
			zap.String("operation", operation),
			zap.Error(err))
		err = ErrorResponse(w, http.StatusInternalServerError, errorCode, "Internal server error")
	}
	if err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}
