package models

import "context"

// MenuPermissions are the per-menu flags issued by the external
// authorization collaborator. This service consumes them to gate
// operations; it never computes them.
type MenuPermissions struct {
	CanViewCategory bool `json:"canViewCategory"`
	CanReadData     bool `json:"canReadData"`
	CanCreateData   bool `json:"canCreateData"`
	CanEditOwn      bool `json:"canEditOwn"`
	CanEditOthers   bool `json:"canEditOthers"`
}

// Viewer carries the current user's identity and permission flags through
// an operation. Handlers attach it to the context from validated claims;
// services read it to stamp change-log entries and evaluate ownership.
type Viewer struct {
	// UserID is the identity collaborator's stable user key.
	UserID string

	// Name and Team stamp change-log entries.
	Name string
	Team string

	// Perms maps domain keys to the viewer's flags for that menu.
	Perms map[Domain]MenuPermissions
}

// PermsFor returns the viewer's flags for a domain. Missing entries mean
// no access.
func (v *Viewer) PermsFor(domain Domain) MenuPermissions {
	if v == nil || v.Perms == nil {
		return MenuPermissions{}
	}
	return v.Perms[domain]
}

// CanEditRecord reports whether the viewer may edit the given record:
// edit-others grants everything, edit-own requires the viewer to be the
// record's creator or assignee.
func (v *Viewer) CanEditRecord(record *Record) bool {
	if v == nil || record == nil {
		return false
	}
	perms := v.PermsFor(record.Domain)
	if perms.CanEditOthers {
		return true
	}
	if !perms.CanEditOwn {
		return false
	}
	return record.CreatedBy == v.UserID || record.Assignee == v.Name
}

// viewerKey is the context key for storing the current viewer.
type viewerKey struct{}

// WithViewer returns a new context with the viewer attached.
func WithViewer(ctx context.Context, v *Viewer) context.Context {
	return context.WithValue(ctx, viewerKey{}, v)
}

// GetViewer retrieves the current viewer from the context.
// Returns nil and false if not present.
func GetViewer(ctx context.Context) (*Viewer, bool) {
	v, ok := ctx.Value(viewerKey{}).(*Viewer)
	return v, ok
}
