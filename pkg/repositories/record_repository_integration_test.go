//go:build integration

package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk-io/opsdesk-engine/pkg/apperrors"
	"github.com/opsdesk-io/opsdesk-engine/pkg/models"
	"github.com/opsdesk-io/opsdesk-engine/pkg/testhelpers"
)

func newIntegrationRecord(title string, registered time.Time) *models.Record {
	return &models.Record{
		Domain:       models.DomainInvestment,
		Title:        title,
		Assignee:     "김민수",
		Team:         "기획팀",
		Status:       models.StatusPending,
		RegisteredAt: registered,
		CreatedBy:    "u-integration",
	}
}

func TestRecordRepository_CreateAssignsSequentialCodes(t *testing.T) {
	engineDB := testhelpers.GetEngineDB(t)
	repo := NewRecordRepository(engineDB.DB)
	ctx := context.Background()

	registered := time.Date(2031, 5, 1, 0, 0, 0, 0, time.UTC)

	first := newIntegrationRecord("첫 투자 건", registered)
	require.NoError(t, repo.Create(ctx, first))
	second := newIntegrationRecord("둘째 투자 건", registered.AddDate(0, 0, 1))
	require.NoError(t, repo.Create(ctx, second))

	assert.Equal(t, "PLAN-INV-31-001", first.Code)
	assert.Equal(t, "PLAN-INV-31-002", second.Code)
}

func TestRecordRepository_CodeSequenceSurvivesDelete(t *testing.T) {
	engineDB := testhelpers.GetEngineDB(t)
	repo := NewRecordRepository(engineDB.DB)
	ctx := context.Background()

	registered := time.Date(2032, 1, 10, 0, 0, 0, 0, time.UTC)

	first := newIntegrationRecord("삭제될 건", registered)
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.SoftDelete(ctx, first.ID))

	// Deleted rows still hold their sequence; the next create does not
	// reuse it.
	second := newIntegrationRecord("다음 건", registered.AddDate(0, 0, 1))
	require.NoError(t, repo.Create(ctx, second))
	assert.Equal(t, "PLAN-INV-32-002", second.Code)
}

func TestRecordRepository_GetAndSoftDelete(t *testing.T) {
	engineDB := testhelpers.GetEngineDB(t)
	repo := NewRecordRepository(engineDB.DB)
	ctx := context.Background()

	record := newIntegrationRecord("조회 대상", time.Date(2033, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Create(ctx, record))

	loaded, err := repo.Get(ctx, record.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, record.Code, loaded.Code)
	assert.Equal(t, "조회 대상", loaded.Title)

	require.NoError(t, repo.SoftDelete(ctx, record.ID))

	gone, err := repo.Get(ctx, record.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	// A second delete of the same record reports not found.
	err = repo.SoftDelete(ctx, record.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRecordRepository_UpdateMissingRecord(t *testing.T) {
	engineDB := testhelpers.GetEngineDB(t)
	repo := NewRecordRepository(engineDB.DB)
	ctx := context.Background()

	missing := newIntegrationRecord("없는 건", time.Now())
	missing.ID = uuid.New()
	err := repo.Update(ctx, missing)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestChangeLogRepository_RoundTrip(t *testing.T) {
	engineDB := testhelpers.GetEngineDB(t)
	repo := NewChangeLogRepository(engineDB.DB)
	ctx := context.Background()

	entry := &models.ChangeLogEntry{
		Domain:       models.DomainSolution,
		RecordCode:   "SOL-WRK-31-001",
		Action:       models.ActionUpdate,
		ChangedField: "상태",
		BeforeValue:  "대기",
		AfterValue:   "완료",
		Description:  "SOL-WRK-31-001 상태 변경: '대기' → '완료'",
		Team:         "보안팀",
		UserName:     "남희주",
	}
	require.NoError(t, repo.Create(ctx, entry))

	entries, total, err := repo.ListByDomain(ctx, models.DomainSolution, 10, 0)
	require.NoError(t, err)
	require.GreaterOrEqual(t, total, 1)
	assert.Equal(t, "SOL-WRK-31-001", entries[0].RecordCode)
	assert.Equal(t, "상태", entries[0].ChangedField)

	byCode, err := repo.ListByRecordCode(ctx, models.DomainSolution, "SOL-WRK-31-001")
	require.NoError(t, err)
	require.Len(t, byCode, 1)
	assert.Equal(t, "남희주", byCode[0].UserName)

	// The code alone is not enough; the domain scopes the lookup.
	otherDesk, err := repo.ListByRecordCode(ctx, models.DomainEducation, "SOL-WRK-31-001")
	require.NoError(t, err)
	assert.Empty(t, otherDesk)
}
