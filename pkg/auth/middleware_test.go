package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/opsdesk-io/opsdesk-engine/pkg/models"
)

func newTestMiddleware(mock *mockJWKSClient) *Middleware {
	return NewMiddleware(NewAuthService(mock, zap.NewNop()), zap.NewNop())
}

func TestMiddleware_RequireAuth_InjectsViewer(t *testing.T) {
	mock := &mockJWKSClient{claims: &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u-7"},
		Name:             "이서연",
		Team:             "기획팀",
		Menus: map[string]MenuGrant{
			"investment": {CanReadData: true, CanCreateData: true},
		},
	}}
	mw := newTestMiddleware(mock)

	var gotViewer *models.Viewer
	var gotToken string
	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		gotViewer, _ = models.GetViewer(r.Context())
		gotToken, _ = GetToken(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/desks/investment/records", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotViewer)
	assert.Equal(t, "u-7", gotViewer.UserID)
	assert.Equal(t, "이서연", gotViewer.Name)
	assert.True(t, gotViewer.PermsFor(models.DomainInvestment).CanCreateData)
	assert.Equal(t, "valid-token", gotToken)
}

func TestMiddleware_RequireAuth_MissingToken(t *testing.T) {
	mw := newTestMiddleware(&mockJWKSClient{})

	called := false
	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) { called = true })

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestMiddleware_RequireAuth_MissingSubject(t *testing.T) {
	mw := newTestMiddleware(&mockJWKSClient{claims: &Claims{Name: "no-subject"}})

	called := false
	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, called)
}
