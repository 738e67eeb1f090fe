package models

// Location is a place an asset can be assigned to. Only top-level
// locations (no parent) are exposed for selection.
type Location struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
