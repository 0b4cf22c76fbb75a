package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/opsdesk-io/opsdesk-engine/pkg/apperrors"
	"github.com/opsdesk-io/opsdesk-engine/pkg/database"
	"github.com/opsdesk-io/opsdesk-engine/pkg/models"
	"github.com/opsdesk-io/opsdesk-engine/pkg/records"
)

// RecordRepository provides data access for tracked records.
type RecordRepository interface {
	// ListByDomain returns every live (not soft-deleted) record for a
	// domain, newest registration first. Filtering, numbering, and
	// pagination happen in the pipeline, not in SQL.
	ListByDomain(ctx context.Context, domain models.Domain) ([]*models.Record, error)

	// Get returns a single live record by ID, or nil if not found.
	Get(ctx context.Context, id uuid.UUID) (*models.Record, error)

	// Create inserts a new record, assigning its ID and business code.
	// The code sequence is per (domain, registration year) and assigned
	// inside a transaction so concurrent creates never collide.
	Create(ctx context.Context, record *models.Record) error

	// Update replaces every editable field of a live record. The business
	// code is immutable and never touched. Returns apperrors.ErrNotFound
	// if the record does not exist or was deleted.
	Update(ctx context.Context, record *models.Record) error

	// SoftDelete marks a live record as deleted without erasing the row.
	// Returns apperrors.ErrNotFound if there is no live row to mark.
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type recordRepository struct {
	db *database.DB
}

// NewRecordRepository creates a new RecordRepository.
func NewRecordRepository(db *database.DB) RecordRepository {
	return &recordRepository{db: db}
}

var _ RecordRepository = (*recordRepository)(nil)

const recordSelectColumns = `
	id, domain, code, title, content, status, team, assignee, type_code,
	registered_at, start_date, end_date, created_by, created_at, updated_at`

func (r *recordRepository) ListByDomain(ctx context.Context, domain models.Domain) ([]*models.Record, error) {
	query := `
		SELECT ` + recordSelectColumns + `
		FROM desk_records
		WHERE domain = $1 AND deleted_at IS NULL
		ORDER BY registered_at DESC, code DESC`

	rows, err := r.db.Query(ctx, query, domain)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var results []*models.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return results, nil
}

func (r *recordRepository) Get(ctx context.Context, id uuid.UUID) (*models.Record, error) {
	query := `
		SELECT ` + recordSelectColumns + `
		FROM desk_records
		WHERE id = $1 AND deleted_at IS NULL`

	record, err := scanRecord(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

func (r *recordRepository) Create(ctx context.Context, record *models.Record) error {
	info, err := record.Domain.Info()
	if err != nil {
		return err
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	now := time.Now()
	record.CreatedAt = now
	record.UpdatedAt = now
	if record.RegisteredAt.IsZero() {
		record.RegisteredAt = now
	}
	year := record.RegisteredAt.Year()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Serialize code assignment per (domain, year) so two concurrent
	// creates cannot pick the same sequence.
	lockKey := fmt.Sprintf("%s:%d", record.Domain, year)
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, lockKey); err != nil {
		return fmt.Errorf("failed to acquire code lock: %w", err)
	}

	var maxSeq int
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(code_seq), 0) FROM desk_records WHERE domain = $1 AND code_year = $2`,
		record.Domain, year).Scan(&maxSeq)
	if err != nil {
		return fmt.Errorf("failed to read max code sequence: %w", err)
	}

	record.Code = records.NextCode(info.CodePrefix, year, maxSeq)

	_, err = tx.Exec(ctx, `
		INSERT INTO desk_records (
			id, domain, code, code_year, code_seq, title, content, status, team,
			assignee, type_code, registered_at, start_date, end_date,
			created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		record.ID, record.Domain, record.Code, year, maxSeq+1,
		record.Title, record.Content, record.Status, record.Team,
		record.Assignee, record.TypeCode, record.RegisteredAt,
		record.StartDate, record.EndDate,
		record.CreatedBy, record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit record creation: %w", err)
	}
	return nil
}

func (r *recordRepository) Update(ctx context.Context, record *models.Record) error {
	record.UpdatedAt = time.Now()

	tag, err := r.db.Exec(ctx, `
		UPDATE desk_records
		SET title = $2, content = $3, status = $4, team = $5, assignee = $6,
		    type_code = $7, registered_at = $8, start_date = $9, end_date = $10,
		    updated_at = $11
		WHERE id = $1 AND deleted_at IS NULL`,
		record.ID, record.Title, record.Content, record.Status, record.Team,
		record.Assignee, record.TypeCode, record.RegisteredAt,
		record.StartDate, record.EndDate, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *recordRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE desk_records SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`,
		id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to soft-delete record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanRecord(row pgx.Row) (*models.Record, error) {
	var record models.Record

	err := row.Scan(
		&record.ID,
		&record.Domain,
		&record.Code,
		&record.Title,
		&record.Content,
		&record.Status,
		&record.Team,
		&record.Assignee,
		&record.TypeCode,
		&record.RegisteredAt,
		&record.StartDate,
		&record.EndDate,
		&record.CreatedBy,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan record: %w", err)
	}

	return &record, nil
}
