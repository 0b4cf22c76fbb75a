// Package testhelpers provides utilities for testing opsdesk-engine components.
package testhelpers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// TestMenuGrant mirrors the per-menu flags the portal issues in tokens.
type TestMenuGrant struct {
	CanViewCategory bool `json:"canViewCategory"`
	CanReadData     bool `json:"canReadData"`
	CanCreateData   bool `json:"canCreateData"`
	CanEditOwn      bool `json:"canEditOwn"`
	CanEditOthers   bool `json:"canEditOthers"`
}

// FullAccess is a grant with every flag set, for tests that are not about
// permissions.
var FullAccess = TestMenuGrant{
	CanViewCategory: true,
	CanReadData:     true,
	CanCreateData:   true,
	CanEditOwn:      true,
	CanEditOthers:   true,
}

// GenerateTestJWT creates a test JWT for use when verification is disabled.
// The token has a valid structure but no signature (alg: none).
func GenerateTestJWT(sub, name, team string, menus map[string]TestMenuGrant) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))

	claims := map[string]any{
		"sub":  sub,
		"name": name,
		"team": team,
	}
	if len(menus) > 0 {
		claims["menus"] = menus
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		panic(fmt.Sprintf("failed to marshal test claims: %v", err))
	}

	encodedPayload := base64.RawURLEncoding.EncodeToString(payload)
	return fmt.Sprintf("%s.%s.", header, encodedPayload)
}

// GenerateTestJWTWithBearer returns the token with a "Bearer " prefix for
// the Authorization header.
func GenerateTestJWTWithBearer(sub, name, team string, menus map[string]TestMenuGrant) string {
	return "Bearer " + GenerateTestJWT(sub, name, team, menus)
}
