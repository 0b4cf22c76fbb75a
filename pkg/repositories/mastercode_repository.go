package repositories

import (
	"context"
	"fmt"

	"github.com/opsdesk-io/opsdesk-engine/pkg/database"
	"github.com/opsdesk-io/opsdesk-engine/pkg/models"
)

// MasterCodeRepository reads the master-code table. The table is managed
// by another system; this service only resolves subcodes to display names.
type MasterCodeRepository interface {
	// ListByGroup returns every code in a group, in display order.
	ListByGroup(ctx context.Context, group string) ([]*models.MasterCode, error)
}

type masterCodeRepository struct {
	db *database.DB
}

// NewMasterCodeRepository creates a new MasterCodeRepository.
func NewMasterCodeRepository(db *database.DB) MasterCodeRepository {
	return &masterCodeRepository{db: db}
}

var _ MasterCodeRepository = (*masterCodeRepository)(nil)

func (r *masterCodeRepository) ListByGroup(ctx context.Context, group string) ([]*models.MasterCode, error) {
	rows, err := r.db.Query(ctx,
		`SELECT code_group, code, name FROM desk_master_codes WHERE code_group = $1 ORDER BY sort_order, code`,
		group)
	if err != nil {
		return nil, fmt.Errorf("failed to list master codes: %w", err)
	}
	defer rows.Close()

	var codes []*models.MasterCode
	for rows.Next() {
		var mc models.MasterCode
		if err := rows.Scan(&mc.Group, &mc.Code, &mc.Name); err != nil {
			return nil, fmt.Errorf("failed to scan master code: %w", err)
		}
		codes = append(codes, &mc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating master codes: %w", err)
	}

	return codes, nil
}
