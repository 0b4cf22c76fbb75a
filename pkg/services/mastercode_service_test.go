package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/opsdesk-io/opsdesk-engine/pkg/models"
)

type mockMasterCodeRepository struct {
	codes   map[string][]*models.MasterCode
	calls   int
	listErr error
}

func (m *mockMasterCodeRepository) ListByGroup(ctx context.Context, group string) ([]*models.MasterCode, error) {
	m.calls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.codes[group], nil
}

func newMasterCodeFixture() *mockMasterCodeRepository {
	return &mockMasterCodeRepository{codes: map[string][]*models.MasterCode{
		"EDU_TYPE": {
			{Group: "EDU_TYPE", Code: "ONLINE", Name: "온라인"},
			{Group: "EDU_TYPE", Code: "OFFLINE", Name: "집합"},
		},
	}}
}

func TestMasterCodeService_GetGroup_NoCache(t *testing.T) {
	repo := newMasterCodeFixture()
	svc := NewMasterCodeService(repo, nil, time.Hour, zap.NewNop())

	codes, err := svc.GetGroup(context.Background(), "EDU_TYPE")
	require.NoError(t, err)
	require.Len(t, codes, 2)
	assert.Equal(t, "온라인", codes[0].Name)

	// Without a cache every call hits the repository.
	_, err = svc.GetGroup(context.Background(), "EDU_TYPE")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}

func TestMasterCodeService_GetGroup_RepositoryError(t *testing.T) {
	repo := &mockMasterCodeRepository{listErr: errors.New("relation missing")}
	svc := NewMasterCodeService(repo, nil, time.Hour, zap.NewNop())

	_, err := svc.GetGroup(context.Background(), "EDU_TYPE")
	assert.Error(t, err)
}

func TestMasterCodeService_ResolveName(t *testing.T) {
	repo := newMasterCodeFixture()
	svc := NewMasterCodeService(repo, nil, time.Hour, zap.NewNop())

	name, err := svc.ResolveName(context.Background(), "EDU_TYPE", "OFFLINE")
	require.NoError(t, err)
	assert.Equal(t, "집합", name)

	// Unknown codes fall back to the raw code.
	name, err = svc.ResolveName(context.Background(), "EDU_TYPE", "HYBRID")
	require.NoError(t, err)
	assert.Equal(t, "HYBRID", name)
}
