package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/opsdesk-io/opsdesk-engine/pkg/apperrors"
	"github.com/opsdesk-io/opsdesk-engine/pkg/models"
	"github.com/opsdesk-io/opsdesk-engine/pkg/repositories"
)

// ChangeLogService provides the append-only audit log behind every desk's
// change-history tab. Appends stamp the current viewer's name and team;
// reads are paginated newest-first with display numbering.
type ChangeLogService interface {
	// Append records one change. The viewer on the context supplies the
	// user name and team stamps.
	Append(ctx context.Context, entry *models.ChangeLogEntry) error

	// List returns one page of a domain's log, newest first. The display
	// number of the i-th row on the page is total - offset - i, so the
	// newest entry is always numbered total.
	List(ctx context.Context, domain models.Domain, limit, offset int) ([]models.NumberedChangeLogEntry, int, error)

	// ListByRecord returns the full history of one record by business code,
	// scoped to the record's domain.
	ListByRecord(ctx context.Context, domain models.Domain, recordCode string) ([]*models.ChangeLogEntry, error)
}

type changeLogService struct {
	repo   repositories.ChangeLogRepository
	logger *zap.Logger
}

// NewChangeLogService creates a new ChangeLogService.
func NewChangeLogService(repo repositories.ChangeLogRepository, logger *zap.Logger) ChangeLogService {
	return &changeLogService{
		repo:   repo,
		logger: logger.Named("changelog-service"),
	}
}

var _ ChangeLogService = (*changeLogService)(nil)

func (s *changeLogService) Append(ctx context.Context, entry *models.ChangeLogEntry) error {
	viewer, ok := models.GetViewer(ctx)
	if !ok {
		// Append without stamps rather than losing the audit record.
		s.logger.Warn("No viewer context for change-log entry",
			zap.String("record_code", entry.RecordCode),
			zap.String("action", entry.Action))
	} else {
		entry.UserName = viewer.Name
		entry.Team = viewer.Team
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to append change-log entry",
			zap.String("record_code", entry.RecordCode),
			zap.String("action", entry.Action),
			zap.Error(err))
		return fmt.Errorf("append change-log entry: %w", err)
	}
	return nil
}

func (s *changeLogService) List(ctx context.Context, domain models.Domain, limit, offset int) ([]models.NumberedChangeLogEntry, int, error) {
	viewer, ok := models.GetViewer(ctx)
	if !ok || !viewer.PermsFor(domain).CanReadData {
		return nil, 0, apperrors.ErrPermissionDenied
	}

	entries, total, err := s.repo.ListByDomain(ctx, domain, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list change-log entries",
			zap.String("domain", domain.String()),
			zap.Error(err))
		return nil, 0, fmt.Errorf("list change-log entries: %w", err)
	}

	numbered := make([]models.NumberedChangeLogEntry, len(entries))
	for i, e := range entries {
		numbered[i] = models.NumberedChangeLogEntry{
			ChangeLogEntry: e,
			No:             total - offset - i,
		}
	}
	return numbered, total, nil
}

func (s *changeLogService) ListByRecord(ctx context.Context, domain models.Domain, recordCode string) ([]*models.ChangeLogEntry, error) {
	viewer, ok := models.GetViewer(ctx)
	if !ok || !viewer.PermsFor(domain).CanReadData {
		return nil, apperrors.ErrPermissionDenied
	}

	entries, err := s.repo.ListByRecordCode(ctx, domain, recordCode)
	if err != nil {
		s.logger.Error("Failed to list change-log entries by record",
			zap.String("domain", domain.String()),
			zap.String("record_code", recordCode),
			zap.Error(err))
		return nil, fmt.Errorf("list change-log entries by record: %w", err)
	}
	return entries, nil
}
