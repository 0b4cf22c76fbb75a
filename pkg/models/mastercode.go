package models

// MasterCode maps an opaque subcode to its display name within a code
// group (education types, investment types, ...). The table is maintained
// elsewhere; this service only reads it.
type MasterCode struct {
	Group string `json:"group"`
	Code  string `json:"code"`
	Name  string `json:"name"`
}
