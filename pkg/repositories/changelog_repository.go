package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/opsdesk-io/opsdesk-engine/pkg/database"
	"github.com/opsdesk-io/opsdesk-engine/pkg/models"
)

// ChangeLogRepository provides data access for the append-only change log.
// Entries are never updated or deleted.
type ChangeLogRepository interface {
	// Create inserts a new change-log entry.
	Create(ctx context.Context, entry *models.ChangeLogEntry) error

	// ListByDomain returns one page of a domain's log, newest first,
	// along with the total entry count for display numbering.
	ListByDomain(ctx context.Context, domain models.Domain, limit, offset int) ([]*models.ChangeLogEntry, int, error)

	// ListByRecordCode returns every entry referencing a record's
	// business code within one domain, newest first.
	ListByRecordCode(ctx context.Context, domain models.Domain, recordCode string) ([]*models.ChangeLogEntry, error)
}

type changeLogRepository struct {
	db *database.DB
}

// NewChangeLogRepository creates a new ChangeLogRepository.
func NewChangeLogRepository(db *database.DB) ChangeLogRepository {
	return &changeLogRepository{db: db}
}

var _ ChangeLogRepository = (*changeLogRepository)(nil)

const changeLogSelectColumns = `
	id, created_at, domain, record_code, action, changed_field,
	before_value, after_value, description, team, user_name`

func (r *changeLogRepository) Create(ctx context.Context, entry *models.ChangeLogEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO desk_change_log (
			id, created_at, domain, record_code, action, changed_field,
			before_value, after_value, description, team, user_name
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		entry.ID, entry.CreatedAt, entry.Domain, entry.RecordCode,
		entry.Action, entry.ChangedField, entry.BeforeValue,
		entry.AfterValue, entry.Description, entry.Team, entry.UserName,
	)
	if err != nil {
		return fmt.Errorf("failed to create change-log entry: %w", err)
	}
	return nil
}

func (r *changeLogRepository) ListByDomain(ctx context.Context, domain models.Domain, limit, offset int) ([]*models.ChangeLogEntry, int, error) {
	limit, offset = normalizePageParams(limit, offset)

	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM desk_change_log WHERE domain = $1`,
		domain).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count change-log entries: %w", err)
	}

	query := `
		SELECT ` + changeLogSelectColumns + `
		FROM desk_change_log
		WHERE domain = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, domain, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list change-log entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.ChangeLogEntry
	for rows.Next() {
		entry, err := scanChangeLogEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating change-log entries: %w", err)
	}

	return entries, total, nil
}

func (r *changeLogRepository) ListByRecordCode(ctx context.Context, domain models.Domain, recordCode string) ([]*models.ChangeLogEntry, error) {
	query := `
		SELECT ` + changeLogSelectColumns + `
		FROM desk_change_log
		WHERE domain = $1 AND record_code = $2
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, domain, recordCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list change-log entries by record: %w", err)
	}
	defer rows.Close()

	var entries []*models.ChangeLogEntry
	for rows.Next() {
		entry, err := scanChangeLogEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating change-log entries: %w", err)
	}

	return entries, nil
}

func scanChangeLogEntry(row pgx.Row) (*models.ChangeLogEntry, error) {
	var entry models.ChangeLogEntry

	err := row.Scan(
		&entry.ID,
		&entry.CreatedAt,
		&entry.Domain,
		&entry.RecordCode,
		&entry.Action,
		&entry.ChangedField,
		&entry.BeforeValue,
		&entry.AfterValue,
		&entry.Description,
		&entry.Team,
		&entry.UserName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan change-log entry: %w", err)
	}

	return &entry, nil
}

// normalizePageParams ensures limit and offset are within reasonable bounds.
func normalizePageParams(limit, offset int) (int, int) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
