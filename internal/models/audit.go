package models

import "time"

// Audit statuses. A mismatch may transition to resolved; match is terminal.
const (
	StatusMatch    = "match"
	StatusMismatch = "mismatch"
	StatusResolved = "resolved"
)

// AuditRecord represents one performed audit row.
type AuditRecord struct {
	ID                   int64      `json:"id"`
	AssetID              int64      `json:"asset_id"`
	AssetTag             string     `json:"asset_tag"`
	AssetName            string     `json:"asset_name,omitempty"`
	SAPAssetNumber       string     `json:"sap_asset_number,omitempty"`
	ExpectedLocationID   *int64     `json:"expected_location_id"`
	ExpectedLocationName string     `json:"expected_location_name,omitempty"`
	ActualLocationID     int64      `json:"actual_location_id"`
	ActualLocationName   string     `json:"actual_location_name"`
	Status               string     `json:"status"` // match, mismatch, resolved
	Notes                string     `json:"notes,omitempty"`
	UserName             string     `json:"user_name,omitempty"`
	SnipeITAuditPosted   bool       `json:"snipeit_audit_posted"`
	CreatedAt            time.Time  `json:"created_at"`
	ResolvedAt           *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy           string     `json:"resolved_by,omitempty"`
}
