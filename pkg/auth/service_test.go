package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockJWKSClient is a test double for JWKSClientInterface.
type mockJWKSClient struct {
	claims *Claims
	err    error
	seen   string
}

func (m *mockJWKSClient) ValidateToken(tokenString string) (*Claims, error) {
	m.seen = tokenString
	if m.err != nil {
		return nil, m.err
	}
	return m.claims, nil
}

func (m *mockJWKSClient) Close() {}

func TestAuthService_ValidateRequest_BearerHeader(t *testing.T) {
	mock := &mockJWKSClient{claims: &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u-1"}}}
	svc := NewAuthService(mock, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/desks/education/records", nil)
	req.Header.Set("Authorization", "Bearer header-token")

	claims, token, err := svc.ValidateRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "header-token", token)
	assert.Equal(t, "header-token", mock.seen)
}

func TestAuthService_ValidateRequest_CookieWinsOverHeader(t *testing.T) {
	mock := &mockJWKSClient{claims: &Claims{}}
	svc := NewAuthService(mock, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "cookie-token"})
	req.Header.Set("Authorization", "Bearer header-token")

	_, token, err := svc.ValidateRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "cookie-token", token)
}

func TestAuthService_ValidateRequest_MissingToken(t *testing.T) {
	svc := NewAuthService(&mockJWKSClient{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, _, err := svc.ValidateRequest(req)
	assert.ErrorIs(t, err, ErrMissingAuthorization)
}

func TestAuthService_ValidateRequest_MalformedHeader(t *testing.T) {
	svc := NewAuthService(&mockJWKSClient{}, zap.NewNop())

	for _, header := range []string{"Basic abc", "Bearer", "Bearer a b"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		_, _, err := svc.ValidateRequest(req)
		assert.ErrorIs(t, err, ErrInvalidAuthFormat, "header %q", header)
	}
}

func TestAuthService_ValidateRequest_InvalidToken(t *testing.T) {
	mock := &mockJWKSClient{err: errors.New("token validation failed")}
	svc := NewAuthService(mock, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad-token")

	_, _, err := svc.ValidateRequest(req)
	assert.Error(t, err)
}

func TestAuthService_RequireSubject(t *testing.T) {
	svc := NewAuthService(&mockJWKSClient{}, zap.NewNop())

	err := svc.RequireSubject(&Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u-1"}})
	assert.NoError(t, err)

	err = svc.RequireSubject(&Claims{})
	assert.ErrorIs(t, err, ErrMissingSubject)
}
