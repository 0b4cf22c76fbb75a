// Package auth provides JWT-based authentication for opsdesk-engine.
// It validates tokens issued by the portal SSO using JWKS endpoints and
// projects the token's menu grants into a models.Viewer.
package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"

	"github.com/opsdesk-io/opsdesk-engine/pkg/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// ClaimsKey is the context key for storing JWT claims.
	ClaimsKey contextKey = "claims"
	// TokenKey is the context key for storing the raw JWT token string.
	TokenKey contextKey = "token"
)

// MenuGrant is one menu's permission flags as issued inside the token.
// The portal computes these; this service only consumes them.
type MenuGrant struct {
	CanViewCategory bool `json:"canViewCategory"`
	CanReadData     bool `json:"canReadData"`
	CanCreateData   bool `json:"canCreateData"`
	CanEditOwn      bool `json:"canEditOwn"`
	CanEditOthers   bool `json:"canEditOthers"`
}

// Claims represents the JWT claims structure from the portal SSO.
// It embeds RegisteredClaims for standard JWT fields (sub, iss, exp, etc.)
// and adds the identity and menu grants the desk pages run on.
type Claims struct {
	jwt.RegisteredClaims
	Name  string               `json:"name,omitempty"`  // Display name, stamped on change-log entries
	Team  string               `json:"team,omitempty"`  // Team name, stamped on change-log entries
	Menus map[string]MenuGrant `json:"menus,omitempty"` // Menu key -> permission flags
}

// Viewer projects the claims into the viewer model the services consume.
// Menu keys that do not name a registered domain are dropped.
func (c *Claims) Viewer() *models.Viewer {
	viewer := &models.Viewer{
		UserID: c.Subject,
		Name:   c.Name,
		Team:   c.Team,
		Perms:  make(map[models.Domain]models.MenuPermissions, len(c.Menus)),
	}
	for key, grant := range c.Menus {
		domain := models.Domain(key)
		if !domain.IsValid() {
			continue
		}
		viewer.Perms[domain] = models.MenuPermissions{
			CanViewCategory: grant.CanViewCategory,
			CanReadData:     grant.CanReadData,
			CanCreateData:   grant.CanCreateData,
			CanEditOwn:      grant.CanEditOwn,
			CanEditOthers:   grant.CanEditOthers,
		}
	}
	return viewer
}

// GetClaims retrieves JWT claims from the request context.
// Returns nil and false if claims are not present.
func GetClaims(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*Claims)
	return claims, ok
}

// GetToken retrieves the raw JWT token string from the request context.
// Returns empty string and false if token is not present.
func GetToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok
}
