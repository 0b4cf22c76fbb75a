package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/opsdesk-io/opsdesk-engine/pkg/apperrors"
	"github.com/opsdesk-io/opsdesk-engine/pkg/models"
	"github.com/opsdesk-io/opsdesk-engine/pkg/records"
	"github.com/opsdesk-io/opsdesk-engine/pkg/repositories"
)

// ListQuery selects a page of filtered records.
type ListQuery struct {
	Criteria records.Criteria
	Page     int
	PageSize int
}

// RecordPage is one page of numbered records plus the filtered total.
type RecordPage struct {
	Items    []models.NumberedRecord `json:"items"`
	Total    int                     `json:"total"`
	Page     int                     `json:"page"`
	PageSize int                     `json:"page_size"`
}

// DeleteFailure describes one record that could not be deleted during a
// batch delete.
type DeleteFailure struct {
	ID     uuid.UUID `json:"id"`
	Reason string    `json:"reason"`
}

// DeleteResult reports a batch delete: which records were removed and
// which failed. The batch never aborts on an individual failure.
type DeleteResult struct {
	Deleted []uuid.UUID     `json:"deleted"`
	Failed  []DeleteFailure `json:"failed"`
}

// RecordService owns every create/read/update/delete flow for tracked
// records. Reads run the pure pipeline over the domain's live collection;
// writes persist first and append change-log entries after, so the log
// never describes a mutation that did not happen.
type RecordService interface {
	// List returns one page of the domain's records after filtering and
	// display numbering.
	List(ctx context.Context, domain models.Domain, query ListQuery) (*RecordPage, error)

	// Board returns the filtered records bucketed into the four kanban
	// status columns.
	Board(ctx context.Context, domain models.Domain, criteria records.Criteria) (map[models.Status][]models.NumberedRecord, error)

	// Calendar returns the filtered records grouped into month buckets,
	// ascending by date within each bucket. Nonzero year/month narrow the
	// view to that calendar window.
	Calendar(ctx context.Context, domain models.Domain, criteria records.Criteria, year, month int) ([]records.MonthBucket, error)

	// Summary returns the dashboard aggregates for the filtered set.
	Summary(ctx context.Context, domain models.Domain, criteria records.Criteria, year int) (*records.Summary, error)

	// Create validates and registers a new record, assigns its business
	// code, and appends one create entry to the change log.
	Create(ctx context.Context, domain models.Domain, record *models.Record) (*models.Record, error)

	// Update diffs the stored snapshot against the submitted record,
	// persists the full replacement, and appends one change-log entry per
	// changed field. A failed persist appends nothing.
	Update(ctx context.Context, domain models.Domain, record *models.Record) (*models.Record, error)

	// MoveStatus reassigns a record's status (the kanban drag) and appends
	// exactly one status change entry. Dropping a record on its current
	// column is a no-op.
	MoveStatus(ctx context.Context, domain models.Domain, id uuid.UUID, status models.Status) (*models.Record, error)

	// Delete soft-deletes the selected records, continuing past individual
	// failures and reporting them in the result. Each successful delete
	// appends one delete entry referencing the record's code.
	Delete(ctx context.Context, domain models.Domain, ids []uuid.UUID) (*DeleteResult, error)
}

type recordService struct {
	repo      repositories.RecordRepository
	changeLog ChangeLogService
	logger    *zap.Logger
}

// NewRecordService creates a new RecordService.
func NewRecordService(repo repositories.RecordRepository, changeLog ChangeLogService, logger *zap.Logger) RecordService {
	return &recordService{
		repo:      repo,
		changeLog: changeLog,
		logger:    logger.Named("record-service"),
	}
}

var _ RecordService = (*recordService)(nil)

func (s *recordService) List(ctx context.Context, domain models.Domain, query ListQuery) (*RecordPage, error) {
	filtered, err := s.loadFiltered(ctx, domain, query.Criteria)
	if err != nil {
		return nil, err
	}

	numbered := records.Number(filtered)
	size := records.NormalizePageSize(query.PageSize)
	page := query.Page
	if page < 0 {
		page = 0
	}

	return &RecordPage{
		Items:    records.Paginate(numbered, page, size),
		Total:    len(numbered),
		Page:     page,
		PageSize: size,
	}, nil
}

func (s *recordService) Board(ctx context.Context, domain models.Domain, criteria records.Criteria) (map[models.Status][]models.NumberedRecord, error) {
	filtered, err := s.loadFiltered(ctx, domain, criteria)
	if err != nil {
		return nil, err
	}
	return records.Board(records.Number(filtered)), nil
}

func (s *recordService) Calendar(ctx context.Context, domain models.Domain, criteria records.Criteria, year, month int) ([]records.MonthBucket, error) {
	filtered, err := s.loadFiltered(ctx, domain, criteria)
	if err != nil {
		return nil, err
	}
	buckets := records.CalendarBuckets(records.Number(filtered))
	return records.SelectBuckets(buckets, year, month), nil
}

func (s *recordService) Summary(ctx context.Context, domain models.Domain, criteria records.Criteria, year int) (*records.Summary, error) {
	filtered, err := s.loadFiltered(ctx, domain, criteria)
	if err != nil {
		return nil, err
	}
	summary := records.Summarize(filtered, year)
	return &summary, nil
}

// loadFiltered loads the domain's live collection and applies the filter
// criteria. All read views share this path so they always agree on the
// visible set. Rows carrying an unknown status are excluded with a warning.
func (s *recordService) loadFiltered(ctx context.Context, domain models.Domain, criteria records.Criteria) ([]*models.Record, error) {
	viewer, ok := models.GetViewer(ctx)
	if !ok || !viewer.PermsFor(domain).CanReadData {
		return nil, apperrors.ErrPermissionDenied
	}

	all, err := s.repo.ListByDomain(ctx, domain)
	if err != nil {
		s.logger.Error("Failed to load records",
			zap.String("domain", domain.String()),
			zap.Error(err))
		return nil, fmt.Errorf("load records: %w", err)
	}

	visible := make([]*models.Record, 0, len(all))
	for _, r := range all {
		if !r.Status.IsValid() {
			s.logger.Warn("Record with unknown status excluded from views",
				zap.String("code", r.Code),
				zap.String("status", r.Status.String()))
			continue
		}
		visible = append(visible, r)
	}

	return records.Filter(visible, criteria), nil
}

func (s *recordService) Create(ctx context.Context, domain models.Domain, record *models.Record) (*models.Record, error) {
	viewer, ok := models.GetViewer(ctx)
	if !ok || !viewer.PermsFor(domain).CanCreateData {
		return nil, apperrors.ErrPermissionDenied
	}

	record.Domain = domain
	record.CreatedBy = viewer.UserID
	if record.Status == "" {
		record.Status = models.StatusPending
	}

	if err := validateRecord(record); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, record); err != nil {
		s.logger.Error("Failed to create record",
			zap.String("domain", domain.String()),
			zap.String("title", record.Title),
			zap.Error(err))
		return nil, fmt.Errorf("create record: %w", err)
	}

	s.appendEntry(ctx, &models.ChangeLogEntry{
		Domain:      domain,
		RecordCode:  record.Code,
		Action:      models.ActionCreate,
		Description: records.CreateDescription(record.Code, record.Title),
	})

	return record, nil
}

func (s *recordService) Update(ctx context.Context, domain models.Domain, record *models.Record) (*models.Record, error) {
	existing, err := s.repo.Get(ctx, record.ID)
	if err != nil {
		return nil, fmt.Errorf("load record for update: %w", err)
	}
	if existing == nil || existing.Domain != domain {
		return nil, apperrors.ErrNotFound
	}

	viewer, ok := models.GetViewer(ctx)
	if !ok || !viewer.CanEditRecord(existing) {
		return nil, apperrors.ErrPermissionDenied
	}

	// Immutable and server-owned fields carry over from the snapshot.
	record.Domain = existing.Domain
	record.Code = existing.Code
	record.CreatedBy = existing.CreatedBy
	record.CreatedAt = existing.CreatedAt
	if record.RegisteredAt.IsZero() {
		record.RegisteredAt = existing.RegisteredAt
	}

	if err := validateRecord(record); err != nil {
		return nil, err
	}

	diffs := records.Diff(existing, record)

	if err := s.repo.Update(ctx, record); err != nil {
		s.logger.Error("Failed to update record",
			zap.String("code", existing.Code),
			zap.Error(err))
		return nil, fmt.Errorf("update record: %w", err)
	}

	for _, d := range diffs {
		s.appendEntry(ctx, &models.ChangeLogEntry{
			Domain:       domain,
			RecordCode:   existing.Code,
			Action:       models.ActionUpdate,
			ChangedField: d.Field,
			BeforeValue:  d.Before,
			AfterValue:   d.After,
			Description:  records.UpdateDescription(existing.Code, d),
		})
	}

	return record, nil
}

func (s *recordService) MoveStatus(ctx context.Context, domain models.Domain, id uuid.UUID, status models.Status) (*models.Record, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, status)
	}

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load record for status move: %w", err)
	}
	if existing == nil || existing.Domain != domain {
		return nil, apperrors.ErrNotFound
	}

	viewer, ok := models.GetViewer(ctx)
	if !ok || !viewer.CanEditRecord(existing) {
		return nil, apperrors.ErrPermissionDenied
	}

	if existing.Status == status {
		return existing, nil
	}

	before := existing.Status
	existing.Status = status

	if err := s.repo.Update(ctx, existing); err != nil {
		s.logger.Error("Failed to move record status",
			zap.String("code", existing.Code),
			zap.String("to", status.String()),
			zap.Error(err))
		return nil, fmt.Errorf("move record status: %w", err)
	}

	s.appendEntry(ctx, &models.ChangeLogEntry{
		Domain:       domain,
		RecordCode:   existing.Code,
		Action:       models.ActionUpdate,
		ChangedField: records.FieldStatus,
		BeforeValue:  before.String(),
		AfterValue:   status.String(),
		Description: records.UpdateDescription(existing.Code, records.FieldDiff{
			Field: records.FieldStatus, Before: before.String(), After: status.String(),
		}),
	})

	return existing, nil
}

func (s *recordService) Delete(ctx context.Context, domain models.Domain, ids []uuid.UUID) (*DeleteResult, error) {
	viewer, ok := models.GetViewer(ctx)
	if !ok {
		return nil, apperrors.ErrPermissionDenied
	}

	result := &DeleteResult{Deleted: []uuid.UUID{}, Failed: []DeleteFailure{}}

	for _, id := range ids {
		existing, err := s.repo.Get(ctx, id)
		if err != nil {
			result.Failed = append(result.Failed, DeleteFailure{ID: id, Reason: "load failed"})
			s.logger.Error("Failed to load record for delete",
				zap.String("id", id.String()), zap.Error(err))
			continue
		}
		if existing == nil || existing.Domain != domain {
			result.Failed = append(result.Failed, DeleteFailure{ID: id, Reason: "not found"})
			continue
		}
		if !viewer.CanEditRecord(existing) {
			result.Failed = append(result.Failed, DeleteFailure{ID: id, Reason: "permission denied"})
			continue
		}

		if err := s.repo.SoftDelete(ctx, id); err != nil {
			result.Failed = append(result.Failed, DeleteFailure{ID: id, Reason: "delete failed"})
			s.logger.Error("Failed to soft-delete record",
				zap.String("code", existing.Code), zap.Error(err))
			continue
		}

		s.appendEntry(ctx, &models.ChangeLogEntry{
			Domain:      domain,
			RecordCode:  existing.Code,
			Action:      models.ActionDelete,
			Description: records.DeleteDescription(existing.Code, existing.Title),
		})
		result.Deleted = append(result.Deleted, id)
	}

	return result, nil
}

// appendEntry appends a change-log entry after a successful mutation.
// Audit failures are logged, not propagated: the mutation already
// happened and must not be reported as failed.
func (s *recordService) appendEntry(ctx context.Context, entry *models.ChangeLogEntry) {
	if err := s.changeLog.Append(ctx, entry); err != nil {
		s.logger.Error("Change-log append failed after mutation",
			zap.String("record_code", entry.RecordCode),
			zap.String("action", entry.Action),
			zap.Error(err))
	}
}

// validateRecord enforces the required fields shared by every domain.
func validateRecord(record *models.Record) error {
	var missing []string
	if strings.TrimSpace(record.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(record.Assignee) == "" {
		missing = append(missing, "assignee")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", apperrors.ErrValidation, strings.Join(missing, ", "))
	}
	if !record.Status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, record.Status)
	}
	return nil
}
