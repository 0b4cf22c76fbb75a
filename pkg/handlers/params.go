package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/opsdesk-io/opsdesk-engine/pkg/models"
	"github.com/opsdesk-io/opsdesk-engine/pkg/records"
	"github.com/opsdesk-io/opsdesk-engine/pkg/services"
)

// dateParamLayout is the wire format for date query parameters and
// request-body date fields.
const dateParamLayout = "2006-01-02"

// ParseDomain extracts and validates the desk domain from the request path.
// Returns the domain and true on success, or false on error (after writing
// an error response).
// Expects path parameter: domain
func ParseDomain(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (models.Domain, bool) {
	domain := models.Domain(r.PathValue("domain"))
	if !domain.IsValid() {
		if err := ErrorResponse(w, http.StatusNotFound, "unknown_domain", "Unknown desk domain"); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return "", false
	}
	return domain, true
}

// ParseRecordID extracts and validates the record ID from the request path.
// Returns the parsed UUID and true on success, or uuid.Nil and false on
// error (after writing an error response).
// Expects path parameter: rid
func ParseRecordID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	idStr := r.PathValue("rid")
	id, err := uuid.Parse(idStr)
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_record_id", "Invalid record ID format"); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return uuid.Nil, false
	}
	return id, true
}

// parseCriteria reads the shared filter criteria from the query string.
// Absent parameters and the "전체" sentinel both mean no constraint.
func parseCriteria(r *http.Request) records.Criteria {
	q := r.URL.Query()
	c := records.Criteria{
		Year:     q.Get("year"),
		Team:     q.Get("team"),
		Status:   q.Get("status"),
		Assignee: q.Get("assignee"),
	}
	if from, err := time.Parse(dateParamLayout, q.Get("from")); err == nil {
		c.From = &from
	}
	if to, err := time.Parse(dateParamLayout, q.Get("to")); err == nil {
		c.To = &to
	}
	return c
}

// parseListQuery reads filter criteria plus pagination from the query
// string. Out-of-range page sizes snap to the default downstream.
func parseListQuery(r *http.Request) services.ListQuery {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("page_size"))
	return services.ListQuery{
		Criteria: parseCriteria(r),
		Page:     page,
		PageSize: size,
	}
}

// parsePageParams reads limit/offset pagination for the change-log list.
// Defaults and caps are applied by the repository.
func parsePageParams(r *http.Request) (limit, offset int) {
	q := r.URL.Query()
	limit, _ = strconv.Atoi(q.Get("limit"))
	offset, _ = strconv.Atoi(q.Get("offset"))
	return limit, offset
}

// parseCalendarWindow reads the optional year/month narrowing for the
// calendar view. Zero means no constraint; out-of-range months are ignored.
func parseCalendarWindow(r *http.Request) (year, month int) {
	q := r.URL.Query()
	if y, err := strconv.Atoi(q.Get("year")); err == nil && y > 0 {
		year = y
	}
	if m, err := strconv.Atoi(q.Get("month")); err == nil && m >= 1 && m <= 12 {
		month = m
	}
	return year, month
}

// parseYear reads the dashboard year, defaulting to the current year.
func parseYear(r *http.Request) int {
	if year, err := strconv.Atoi(r.URL.Query().Get("year")); err == nil && year > 0 {
		return year
	}
	return time.Now().Year()
}
